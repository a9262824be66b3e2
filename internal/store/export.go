package store

import (
	"sort"

	"github.com/snipbook/snipbook/internal/entry"
)

// ExportRecords returns all entries as file records, sorted by shortcut
// case-insensitively for a stable export order.
func (s *Store) ExportRecords() []entry.Record {
	records := make([]entry.Record, len(s.entries))
	for i, e := range s.entries {
		records[i] = entry.Record{
			Shortcut: e.Shortcut,
			Phrase:   e.Phrase,
			Tags:     append([]string(nil), e.Tags...),
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return caseInsensitiveLess(records[i].Shortcut, records[j].Shortcut)
	})
	return records
}
