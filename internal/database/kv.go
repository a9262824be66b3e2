package database

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetValue reads the value stored under key. Returns ErrNotFound when the
// key has never been written.
func GetValue(ctx *Context, key string) (string, error) {
	if ctx == nil || ctx.DB == nil {
		return "", fmt.Errorf("database: missing connection")
	}

	var value string
	err := ctx.DB.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, nil
}

// SetValue writes value under key, replacing any previous value.
func SetValue(ctx *Context, key, value string) error {
	if ctx == nil || ctx.DB == nil {
		return fmt.Errorf("database: missing connection")
	}

	_, err := ctx.DB.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// DeleteValue removes key. Deleting an absent key is not an error.
func DeleteValue(ctx *Context, key string) error {
	if ctx == nil || ctx.DB == nil {
		return fmt.Errorf("database: missing connection")
	}

	if _, err := ctx.DB.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}
