package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <history-id>",
		Short: "Restore the state captured before a history record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer()

			record, ok := s.FindHistoryRecord(id)
			if !ok {
				return fmt.Errorf("history record %q not found", id)
			}

			historyBefore := len(s.HistoryEntries())
			s.UndoHistory(id)
			if len(s.HistoryEntries()) == historyBefore {
				fmt.Fprintln(cmd.OutOrStdout(), "Already in that state, nothing to undo")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reverted %s change (%s)\n", record.Type, record.Summary)
			return nil
		},
	}

	return cmd
}
