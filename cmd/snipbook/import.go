package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/snipbook/snipbook/internal/entry"
	"github.com/snipbook/snipbook/internal/plist"
)

func newImportCmd() *cobra.Command {
	var (
		dryRun bool
		skips  []string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from a plist XML file",
		Long:  "Parse a plist XML export, preview what would change, and apply the selected items. Entries identical to the current state are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open import file: %w", err)
			}
			defer func() {
				_ = f.Close()
			}()

			records, err := plist.Parse(f)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer()

			s.PrepareImportPreview(records, filepath.Base(path))
			preview := s.ImportPreview()

			skipped := make(map[string]struct{}, len(skips))
			for _, shortcut := range skips {
				skipped[shortcut] = struct{}{}
			}
			for _, item := range preview.Items {
				if _, ok := skipped[item.Shortcut]; ok {
					s.ToggleImportSelection(item.ID)
				}
			}
			preview = s.ImportPreview()

			outputImportPreview(cmd, preview)

			if dryRun {
				s.CancelImportPreview()
				return nil
			}

			selected := 0
			for _, item := range preview.Items {
				if item.Selected {
					selected++
				}
			}

			s.ConfirmImportSelection()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d entries from %s\n", selected, len(preview.Items), preview.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without applying")
	cmd.Flags().StringArrayVar(&skips, "skip", nil, "Shortcut to exclude from the import (repeatable)")

	return cmd
}

func outputImportPreview(cmd *cobra.Command, preview *entry.ImportPreview) {
	if len(preview.Items) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to import from %s, all entries are already up to date\n", preview.FileName)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	termWidth := getTerminalWidth()
	widths := calculateListWidths(termWidth, nil)

	t.AppendHeader(table.Row{"Status", "Shortcut", "Phrase", "Selected"})
	for _, item := range preview.Items {
		t.AppendRow(table.Row{
			string(item.Status),
			runewidth.Truncate(item.Shortcut, widths.shortcut, "..."),
			runewidth.Truncate(item.Phrase, widths.phrase, "..."),
			item.Selected,
		})
	}

	t.Render()
}
