package main

import (
	"github.com/spf13/cobra"

	"github.com/snipbook/snipbook/internal/database"
	"github.com/snipbook/snipbook/internal/logging"
	"github.com/snipbook/snipbook/internal/store"
)

var rootCmd = &cobra.Command{
	Use:     "snipbook",
	Short:   "snipbook - manage text replacement shortcuts",
	Long:    "snipbook stores text replacement entries (shortcut, phrase, tags) with a bounded undo history, plist XML import/export, and file comparison.",
	Version: version,
}

func init() {
	rootCmd.AddCommand(newSetCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newTagCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newMCPCmd())
}

// openStore loads the store backed by the default database. The returned
// closer must be called before exit.
func openStore() (*store.Store, func(), error) {
	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		_ = database.CloseDatabase(dbCtx)
	}
	s := store.New(store.NewDatabasePersister(dbCtx), logging.Default())
	return s, closer, nil
}
