package store

import (
	"fmt"

	"github.com/snipbook/snipbook/internal/entry"
)

// HistoryEntries returns a copy of the undo log, newest first.
func (s *Store) HistoryEntries() []entry.HistoryRecord {
	out := make([]entry.HistoryRecord, len(s.history))
	for i, record := range s.history {
		out[i] = record
		out[i].Before = entry.CloneList(record.Before)
		out[i].After = entry.CloneList(record.After)
	}
	return out
}

// FindHistoryRecord returns the history record with the given id, or
// false when it never existed or has been evicted.
func (s *Store) FindHistoryRecord(id string) (entry.HistoryRecord, bool) {
	for _, record := range s.history {
		if record.ID == id {
			out := record
			out.Before = entry.CloneList(record.Before)
			out.After = entry.CloneList(record.After)
			return out, true
		}
	}
	return entry.HistoryRecord{}, false
}

// UndoHistory restores the entry list to the target record's before
// snapshot. Unknown or evicted ids are a silent no-op, as is undoing to
// a state identical to the current one: restoring what is already there
// must not spawn degenerate undo-of-undo records.
func (s *Store) UndoHistory(historyRecordID string) {
	var target *entry.HistoryRecord
	for i := range s.history {
		if s.history[i].ID == historyRecordID {
			target = &s.history[i]
			break
		}
	}
	if target == nil {
		return
	}

	restored := entry.CloneList(target.Before)
	if entry.ListsEqual(s.entries, restored) {
		return
	}

	summary := fmt.Sprintf("Reverted %s change", target.Type)
	before := entry.CloneList(s.entries)
	s.entries = restored
	s.commit(entry.HistoryUndo, summary, before)
}

// appendHistory prepends a record and evicts past the capacity limit.
// Records are immutable once stored.
func (s *Store) appendHistory(record entry.HistoryRecord) {
	s.history = append([]entry.HistoryRecord{record}, s.history...)
	if len(s.history) > HistoryLimit {
		s.history = s.history[:HistoryLimit]
	}
	s.persistHistory()
}
