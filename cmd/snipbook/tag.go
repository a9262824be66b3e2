package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	var ids []string

	cmd := &cobra.Command{
		Use:   "tag <tag>",
		Short: "Add a tag to a set of entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := args[0]
			if len(ids) == 0 {
				return fmt.Errorf("at least one --id is required")
			}

			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer()

			s.SetSelectionMode(true)
			for _, id := range ids {
				if _, ok := s.FindEntry(id); !ok {
					return fmt.Errorf("entry %q not found", id)
				}
				s.ToggleEntrySelection(id)
			}

			historyBefore := len(s.HistoryEntries())
			s.AddTagToSelectedEntries(tag)
			if len(s.HistoryEntries()) == historyBefore {
				fmt.Fprintln(cmd.OutOrStdout(), "No change")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.HistoryEntries()[0].Summary)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ids, "id", nil, "Entry id to tag (repeatable)")

	return cmd
}
