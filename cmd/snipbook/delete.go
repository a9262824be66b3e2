package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer()

			target, ok := s.FindEntry(id)
			if !ok {
				return fmt.Errorf("entry %q not found", id)
			}

			if !force {
				reader := bufio.NewReader(os.Stdin)
				fmt.Fprintf(cmd.ErrOrStderr(), "Delete %q? (y/N) ", target.Shortcut)
				answer, err := reader.ReadString('\n')
				if err != nil {
					return err
				}
				if strings.TrimSpace(strings.ToLower(answer)) != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
					return nil
				}
			}

			s.DeleteEntry(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", target.Shortcut)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
