// Package config resolves where snipbook keeps its durable state.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetDataDir resolves the base directory for snipbook storage. It checks
// SNIPBOOK_DIR first, then XDG paths, and finally falls back to the
// user's home directory.
func GetDataDir() string {
	if explicit := os.Getenv("SNIPBOOK_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "snipbook")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "snipbook")
}

// GetDBPath returns the absolute path to the SQLite database file.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "snipbook.db")
}
