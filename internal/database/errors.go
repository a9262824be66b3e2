package database

import "errors"

// ErrNotFound indicates the key has no stored value.
var ErrNotFound = errors.New("database: key not found")
