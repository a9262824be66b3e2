// Package migrations holds the embedded schema migration files.
package migrations

import "embed"

// Files is the compiled-in migration source consumed by golang-migrate.
//
//go:embed *.sql
var Files embed.FS
