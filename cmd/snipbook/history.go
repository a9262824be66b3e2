package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/snipbook/snipbook/internal/entry"
)

func newHistoryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer()

			records := s.HistoryEntries()

			switch format {
			case "json":
				return outputHistoryJSON(cmd, records)
			case "table":
				outputHistoryTable(cmd, records)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type historyOutputRecord struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Summary   string `json:"summary"`
}

func outputHistoryJSON(cmd *cobra.Command, records []entry.HistoryRecord) error {
	output := make([]historyOutputRecord, 0, len(records))

	for _, r := range records {
		output = append(output, historyOutputRecord{
			ID:        r.ID,
			Type:      string(r.Type),
			Timestamp: r.Timestamp,
			Summary:   r.Summary,
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputHistoryTable(cmd *cobra.Command, records []entry.HistoryRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	termWidth := getTerminalWidth()
	// Id, type and timestamp columns take a fixed chunk of the line.
	summaryWidth := termWidth - 36 - 8 - 19 - 4*3
	if summaryWidth < 20 {
		summaryWidth = 20
	}

	t.AppendHeader(table.Row{"Id", "Type", "When", "Summary"})
	for _, r := range records {
		t.AppendRow(table.Row{
			r.ID,
			string(r.Type),
			formatListTimestamp(r.Timestamp, false),
			runewidth.Truncate(r.Summary, summaryWidth, "..."),
		})
	}

	t.Render()
}
