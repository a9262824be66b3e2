package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry and the whole history",
		Long:  "Delete all entries, the undo history, and any open preview state. This cannot be undone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer()

			count := len(s.Entries())
			if !force {
				reader := bufio.NewReader(os.Stdin)
				fmt.Fprintf(cmd.ErrOrStderr(), "Delete all %d entries and the history? This cannot be undone. (y/N) ", count)
				answer, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				if strings.TrimSpace(strings.ToLower(answer)) != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Clear cancelled")
					return nil
				}
			}

			s.ClearAllEntries()
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
