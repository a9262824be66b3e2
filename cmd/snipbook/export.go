package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snipbook/snipbook/internal/plist"
)

func newExportCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all entries as a plist XML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer()

			records := s.ExportRecords()
			doc := plist.Serialize(records)

			if outputPath == "-" {
				fmt.Fprint(cmd.OutOrStdout(), doc)
				return nil
			}

			path := outputPath
			if path == "" {
				path = plist.ExportFileName
			}
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(records), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (default TextReplacement_export.xml, '-' for stdout)")

	return cmd
}
