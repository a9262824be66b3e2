package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/snipbook/snipbook/internal/entry"
	"github.com/snipbook/snipbook/internal/plist"
)

func newCompareCmd() *cobra.Command {
	var (
		addShortcuts    []string
		applyShortcuts  []string
		removeShortcuts []string
		format          string
	)

	cmd := &cobra.Command{
		Use:   "compare <file>",
		Short: "Compare current entries against a plist XML file",
		Long:  "Show every shortcut from either side classified as identical, modified, file-only, or current-only. The --add, --apply, and --remove flags resolve differences one shortcut at a time.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open comparison file: %w", err)
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

			s.PrepareComparisonPreview(records, filepath.Base(path))

			for _, shortcut := range addShortcuts {
				s.AddComparisonEntry(shortcut)
			}
			for _, shortcut := range applyShortcuts {
				s.ApplyComparisonEntry(shortcut)
			}
			for _, shortcut := range removeShortcuts {
				s.RemoveComparisonEntry(shortcut)
			}

			preview := s.ComparisonPreview()

			switch format {
			case "json":
				return outputComparisonJSON(cmd, preview)
			case "table":
				outputComparisonTable(cmd, preview)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringArrayVar(&addShortcuts, "add", nil, "Add this file-only shortcut to the current entries (repeatable)")
	cmd.Flags().StringArrayVar(&applyShortcuts, "apply", nil, "Overwrite this modified shortcut with the file version (repeatable)")
	cmd.Flags().StringArrayVar(&removeShortcuts, "remove", nil, "Delete this shortcut from the current entries (repeatable)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type comparisonOutputItem struct {
	Shortcut      string `json:"shortcut"`
	Status        string `json:"status"`
	CurrentPhrase string `json:"current_phrase,omitempty"`
	FilePhrase    string `json:"file_phrase,omitempty"`
}

type comparisonOutput struct {
	FileName        string                 `json:"file_name"`
	DifferenceCount int                    `json:"difference_count"`
	Items           []comparisonOutputItem `json:"items"`
}

func outputComparisonJSON(cmd *cobra.Command, preview *entry.ComparisonPreview) error {
	output := comparisonOutput{
		FileName:        preview.FileName,
		DifferenceCount: preview.DifferenceCount,
		Items:           make([]comparisonOutputItem, 0, len(preview.Items)),
	}

	for _, item := range preview.Items {
		row := comparisonOutputItem{
			Shortcut: item.Shortcut,
			Status:   string(item.Status),
		}
		if item.CurrentEntry != nil {
			row.CurrentPhrase = item.CurrentEntry.Phrase
		}
		if item.FileEntry != nil {
			row.FilePhrase = item.FileEntry.Phrase
		}
		output.Items = append(output.Items, row)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputComparisonTable(cmd *cobra.Command, preview *entry.ComparisonPreview) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	termWidth := getTerminalWidth()
	// Status column is fixed; the rest splits between shortcut and the
	// two phrase columns.
	availableWidth := termWidth - 11 - 4*3
	shortcutWidth := availableWidth / 4
	if shortcutWidth > 40 {
		shortcutWidth = 40
	}
	phraseWidth := (availableWidth - shortcutWidth) / 2
	if phraseWidth < 15 {
		phraseWidth = 15
	}

	t.AppendHeader(table.Row{"Status", "Shortcut", "Current", "File"})
	for _, item := range preview.Items {
		current := ""
		if item.CurrentEntry != nil {
			current = item.CurrentEntry.Phrase
		}
		file := ""
		if item.FileEntry != nil {
			file = item.FileEntry.Phrase
		}
		t.AppendRow(table.Row{
			string(item.Status),
			runewidth.Truncate(item.Shortcut, shortcutWidth, "..."),
			runewidth.Truncate(current, phraseWidth, "..."),
			runewidth.Truncate(file, phraseWidth, "..."),
		})
	}

	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d differences against %s\n", preview.DifferenceCount, preview.FileName)
}
