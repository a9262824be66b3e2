package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snipbook/snipbook/internal/store"
)

func newSetCmd() *cobra.Command {
	var (
		entryID string
		tags    []string
	)

	cmd := &cobra.Command{
		Use:   "set <shortcut> <phrase>",
		Short: "Create or update a text replacement entry",
		Long:  "Create an entry, or update the existing entry with the same shortcut. With --id the given entry is edited in place.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer()

			countBefore := len(s.Entries())
			historyBefore := len(s.HistoryEntries())

			s.SaveEntry(store.SaveEntryInput{
				ID:       entryID,
				Shortcut: args[0],
				Phrase:   args[1],
				Tags:     tags,
			})

			history := s.HistoryEntries()
			if len(history) == historyBefore {
				fmt.Fprintln(cmd.OutOrStdout(), "No change")
				return nil
			}
			if len(s.Entries()) > countBefore {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %q\n", s.Entries()[0].Shortcut)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), history[0].Summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&entryID, "id", "", "Edit the entry with this id instead of matching by shortcut")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable)")

	return cmd
}
