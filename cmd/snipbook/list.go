package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/snipbook/snipbook/internal/entry"
	"github.com/snipbook/snipbook/internal/store"
)

func newListCmd() *cobra.Command {
	var (
		search    string
		tags      []string
		untagged  bool
		sortKey   string
		sortOrder string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closer()

			if search != "" {
				s.SetSearchTerm(search)
			}

			filters := append([]string(nil), tags...)
			if untagged {
				filters = append(filters, store.NoTagFilter)
			}
			if len(filters) > 0 {
				s.SetSelectedTags(filters)
			}

			switch sortKey {
			case "updated":
				s.SetSortBy(store.SortByUpdatedAt)
			case "shortcut":
				s.SetSortBy(store.SortByShortcut)
			case "phrase":
				s.SetSortBy(store.SortByPhrase)
			default:
				return fmt.Errorf("invalid sort key: %s (valid values: updated, shortcut, phrase)", sortKey)
			}
			switch sortOrder {
			case "asc":
				s.SetSortOrder(store.SortAsc)
			case "desc":
				s.SetSortOrder(store.SortDesc)
			default:
				return fmt.Errorf("invalid sort order: %s (valid values: asc, desc)", sortOrder)
			}

			entries := s.VisibleEntries()

			switch format {
			case "json":
				return outputListJSON(cmd, entries)
			case "table":
				outputListTable(cmd, entries)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by substring of shortcut or phrase")
	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Only entries carrying this tag (repeatable, all must match)")
	cmd.Flags().BoolVar(&untagged, "untagged", false, "Only entries without any tag")
	cmd.Flags().StringVar(&sortKey, "sort", "updated", "Sort key: updated, shortcut, or phrase")
	cmd.Flags().StringVar(&sortOrder, "order", "desc", "Sort order: asc or desc")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")

	return cmd
}

type listOutputEntry struct {
	ID       string   `json:"id"`
	Shortcut string   `json:"shortcut"`
	Phrase   string   `json:"phrase"`
	Tags     []string `json:"tags,omitempty"`
	Source   string   `json:"source"`
	Created  string   `json:"created"`
	Updated  string   `json:"updated"`
}

func outputListJSON(cmd *cobra.Command, entries []entry.Entry) error {
	output := make([]listOutputEntry, 0, len(entries))

	for _, e := range entries {
		output = append(output, listOutputEntry{
			ID:       e.ID,
			Shortcut: e.Shortcut,
			Phrase:   e.Phrase,
			Tags:     e.Tags,
			Source:   string(e.Source),
			Created:  e.CreatedAt,
			Updated:  e.UpdatedAt,
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	// Default width if terminal size cannot be determined
	return 80
}

// listColumnWidths holds the calculated widths for each column
type listColumnWidths struct {
	shortcut     int
	phrase       int
	tags         int
	updated      int
	useShortDate bool
}

// calculateListWidths determines column widths from the terminal width and the data.
// Shortcut gets priority and displays on a single line; phrase and tags are
// truncated with an ellipsis when they do not fit.
func calculateListWidths(termWidth int, entries []entry.Entry) listColumnWidths {
	// Reserve space for table borders and padding (roughly 3 chars per column)
	availableWidth := termWidth - 4*3

	maxShortcutWidth := 0
	for _, e := range entries {
		if w := runewidth.StringWidth(e.Shortcut); w > maxShortcutWidth {
			maxShortcutWidth = w
		}
	}

	shortcutWidth := maxShortcutWidth
	if shortcutWidth < 8 {
		shortcutWidth = 8
	}
	if shortcutWidth > 40 {
		shortcutWidth = 40
	}

	updatedWidth := 19 // "2006-01-02 15:04:05"
	useShortDate := false

	remaining := availableWidth - shortcutWidth - updatedWidth
	tagsWidth := remaining / 3
	phraseWidth := remaining - tagsWidth

	if phraseWidth < 20 {
		updatedWidth = 11 // "01-02 15:04"
		useShortDate = true
		remaining = availableWidth - shortcutWidth - updatedWidth
		tagsWidth = remaining / 3
		phraseWidth = remaining - tagsWidth
	}
	if phraseWidth < 15 {
		phraseWidth = 15
	}
	if tagsWidth < 8 {
		tagsWidth = 8
	}

	return listColumnWidths{
		shortcut:     shortcutWidth,
		phrase:       phraseWidth,
		tags:         tagsWidth,
		updated:      updatedWidth,
		useShortDate: useShortDate,
	}
}

func formatListTimestamp(ts string, short bool) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	if short {
		return t.Format("01-02 15:04")
	}
	return t.Format("2006-01-02 15:04:05")
}

func outputListTable(cmd *cobra.Command, entries []entry.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	termWidth := getTerminalWidth()
	widths := calculateListWidths(termWidth, entries)

	// go-pretty's WidthMax doesn't handle multi-byte characters correctly,
	// so content is truncated with runewidth before it reaches the table.
	t.AppendHeader(table.Row{"Shortcut", "Phrase", "Tags", "Updated"})

	for _, e := range entries {
		phrase := strings.ReplaceAll(e.Phrase, "\n", " ")
		t.AppendRow(table.Row{
			runewidth.Truncate(e.Shortcut, widths.shortcut, "..."),
			runewidth.Truncate(phrase, widths.phrase, "..."),
			runewidth.Truncate(strings.Join(e.Tags, ", "), widths.tags, "..."),
			formatListTimestamp(e.UpdatedAt, widths.useShortDate),
		})
	}

	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d entries\n", len(entries))
}
