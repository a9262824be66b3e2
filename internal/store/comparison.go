package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/snipbook/snipbook/internal/entry"
)

// comparisonSession holds the sanitized file records for the lifetime of
// an open comparison, so the diff can be rebuilt after every change.
type comparisonSession struct {
	fileName    string
	fileEntries []entry.Record
	preview     *entry.ComparisonPreview
}

var comparisonStatusOrder = map[entry.ComparisonStatus]int{
	entry.ComparisonModified:    0,
	entry.ComparisonFileOnly:    1,
	entry.ComparisonCurrentOnly: 2,
	entry.ComparisonIdentical:   3,
}

// ComparisonPreview returns a copy of the open comparison preview, or nil.
func (s *Store) ComparisonPreview() *entry.ComparisonPreview {
	if s.comparison == nil || s.comparison.preview == nil {
		return nil
	}
	src := s.comparison.preview
	out := &entry.ComparisonPreview{
		FileName:        src.FileName,
		Items:           make([]entry.ComparisonItem, len(src.Items)),
		DifferenceCount: src.DifferenceCount,
	}
	for i, item := range src.Items {
		out.Items[i] = cloneComparisonItem(item)
	}
	return out
}

// PrepareComparisonPreview opens a comparison session against parsed
// file records. Records are deduplicated by shortcut, last one wins.
// Any prior session is replaced.
func (s *Store) PrepareComparisonPreview(records []entry.Record, fileName string) {
	sanitized := sanitizeComparisonRecords(records)
	session := &comparisonSession{fileName: fileName, fileEntries: sanitized}
	session.preview = buildComparisonPreview(fileName, s.entries, sanitized)
	s.comparison = session
}

// CloseComparisonPreview discards the session without touching the entry
// list.
func (s *Store) CloseComparisonPreview() {
	s.comparison = nil
}

// AddComparisonEntry creates an entry from the file record with the
// given shortcut. A shortcut already present in the store is a no-op.
// The session stays open and the diff is rebuilt.
func (s *Store) AddComparisonEntry(shortcut string) {
	record, ok := s.comparisonFileRecord(shortcut)
	if !ok {
		return
	}
	if s.indexByShortcut(shortcut) != -1 {
		return
	}

	before := entry.CloneList(s.entries)
	now := entry.Timestamp(time.Now())
	created := entry.Entry{
		ID:        entry.NewID(),
		Shortcut:  record.Shortcut,
		Phrase:    record.Phrase,
		Tags:      entry.NormalizeTags(record.Tags),
		CreatedAt: now,
		UpdatedAt: now,
		Source:    entry.SourceImport,
	}
	s.entries = append([]entry.Entry{created}, s.entries...)
	s.commit(entry.HistoryImport, fmt.Sprintf("Added %q from %s", record.Shortcut, s.comparison.fileName), before)
}

// ApplyComparisonEntry overwrites the matching current entry's phrase
// and tags with the file record's. Missing entries and phrases that
// already match are no-ops.
func (s *Store) ApplyComparisonEntry(shortcut string) {
	record, ok := s.comparisonFileRecord(shortcut)
	if !ok {
		return
	}
	idx := s.indexByShortcut(shortcut)
	if idx == -1 {
		return
	}
	if s.entries[idx].Phrase == record.Phrase {
		return
	}

	before := entry.CloneList(s.entries)
	s.entries[idx].Phrase = record.Phrase
	s.entries[idx].Tags = entry.NormalizeTags(record.Tags)
	s.entries[idx].UpdatedAt = entry.Timestamp(time.Now())
	s.commit(entry.HistoryImport, fmt.Sprintf("Applied %q from %s", record.Shortcut, s.comparison.fileName), before)
}

// RemoveComparisonEntry deletes the current entry with the given
// shortcut. Missing entries are a no-op.
func (s *Store) RemoveComparisonEntry(shortcut string) {
	if s.comparison == nil {
		return
	}
	idx := s.indexByShortcut(shortcut)
	if idx == -1 {
		return
	}

	before := entry.CloneList(s.entries)
	target := s.entries[idx]
	s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
	s.commit(entry.HistoryDelete, fmt.Sprintf("Removed %q while comparing against %s", target.Shortcut, s.comparison.fileName), before)
}

// refreshComparison rebuilds the open session's diff from the current
// entry list. Recompute, don't patch: the diff is always derived from
// scratch so it can never drift from the store.
func (s *Store) refreshComparison() {
	if s.comparison == nil {
		return
	}
	s.comparison.preview = buildComparisonPreview(s.comparison.fileName, s.entries, s.comparison.fileEntries)
}

func (s *Store) comparisonFileRecord(shortcut string) (entry.Record, bool) {
	if s.comparison == nil {
		return entry.Record{}, false
	}
	for _, record := range s.comparison.fileEntries {
		if record.Shortcut == shortcut {
			return record, true
		}
	}
	return entry.Record{}, false
}

// sanitizeComparisonRecords trims, drops fully-empty records, and
// deduplicates by shortcut with the last occurrence winning.
func sanitizeComparisonRecords(records []entry.Record) []entry.Record {
	byShortcut := make(map[string]int)
	out := make([]entry.Record, 0, len(records))
	for _, record := range records {
		shortcut := trim(record.Shortcut)
		phrase := trim(record.Phrase)
		if shortcut == "" && phrase == "" {
			continue
		}
		sanitized := entry.Record{
			Shortcut: shortcut,
			Phrase:   phrase,
			Tags:     entry.NormalizeTags(record.Tags),
		}
		if idx, ok := byShortcut[shortcut]; ok {
			out[idx] = sanitized
			continue
		}
		byShortcut[shortcut] = len(out)
		out = append(out, sanitized)
	}
	return out
}

// buildComparisonPreview classifies the union of shortcuts across the
// store and the file, then orders by status priority and shortcut.
func buildComparisonPreview(fileName string, current []entry.Entry, fileEntries []entry.Record) *entry.ComparisonPreview {
	currentByShortcut := make(map[string]entry.Entry, len(current))
	order := make([]string, 0, len(current)+len(fileEntries))
	for _, e := range current {
		key := trim(e.Shortcut)
		if _, ok := currentByShortcut[key]; !ok {
			order = append(order, key)
		}
		currentByShortcut[key] = e
	}

	fileByShortcut := make(map[string]entry.Record, len(fileEntries))
	for _, record := range fileEntries {
		if _, seenCurrent := currentByShortcut[record.Shortcut]; !seenCurrent {
			if _, seenFile := fileByShortcut[record.Shortcut]; !seenFile {
				order = append(order, record.Shortcut)
			}
		}
		fileByShortcut[record.Shortcut] = record
	}

	items := make([]entry.ComparisonItem, 0, len(order))
	for i, shortcut := range order {
		currentEntry, haveCurrent := currentByShortcut[shortcut]
		fileRecord, haveFile := fileByShortcut[shortcut]

		var status entry.ComparisonStatus
		switch {
		case haveCurrent && haveFile:
			phraseMatches := currentEntry.Phrase == fileRecord.Phrase
			tagsMatch := entry.TagsEqual(currentEntry.Tags, fileRecord.Tags)
			if phraseMatches && tagsMatch {
				status = entry.ComparisonIdentical
			} else {
				status = entry.ComparisonModified
			}
		case haveFile:
			status = entry.ComparisonFileOnly
		default:
			status = entry.ComparisonCurrentOnly
		}

		item := entry.ComparisonItem{Shortcut: shortcut, Status: status}
		if haveFile {
			item.Shortcut = fileRecord.Shortcut
			record := fileRecord
			record.Tags = append([]string(nil), fileRecord.Tags...)
			item.FileEntry = &record
		}
		if haveCurrent {
			clone := currentEntry.Clone()
			item.CurrentEntry = &clone
			item.ID = clone.ID
		} else {
			item.ID = fmt.Sprintf("compare-%d-%s", i, displayOr(item.Shortcut, "blank"))
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if comparisonStatusOrder[a.Status] != comparisonStatusOrder[b.Status] {
			return comparisonStatusOrder[a.Status] < comparisonStatusOrder[b.Status]
		}
		return caseInsensitiveLess(a.Shortcut, b.Shortcut)
	})

	preview := &entry.ComparisonPreview{FileName: fileName, Items: items}
	for _, item := range items {
		if item.Status != entry.ComparisonIdentical {
			preview.DifferenceCount++
		}
	}
	return preview
}

func cloneComparisonItem(item entry.ComparisonItem) entry.ComparisonItem {
	out := item
	if item.CurrentEntry != nil {
		clone := item.CurrentEntry.Clone()
		out.CurrentEntry = &clone
	}
	if item.FileEntry != nil {
		record := *item.FileEntry
		record.Tags = append([]string(nil), item.FileEntry.Tags...)
		out.FileEntry = &record
	}
	return out
}

func displayOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
