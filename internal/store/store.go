// Package store implements the text replacement entry engine: the
// canonical entry list, its bounded undo history, import reconciliation,
// file comparison, and the selection/tag-filter view state.
//
// A Store is a single-owner state object. Operations run synchronously
// and are safe no-ops when their precondition no longer holds (entry
// already deleted, id unknown), so re-entrant UI actions cannot corrupt
// state. The store itself is not safe for concurrent use; callers that
// share one across goroutines must serialize access.
package store

import (
	"fmt"
	"time"

	"github.com/snipbook/snipbook/internal/entry"
	"github.com/snipbook/snipbook/internal/logging"
)

// Store owns the entry list and everything derived from it.
type Store struct {
	persister Persister
	log       logging.Logger

	entries []entry.Entry
	history []entry.HistoryRecord

	searchTerm string
	sortBy     SortBy
	sortOrder  SortOrder

	selectionMode bool
	selectedIDs   []string
	selectedTags  []string

	importPreview *entry.ImportPreview
	comparison    *comparisonSession
}

// New loads a Store from the given persister. Malformed or missing
// persisted data yields an empty store, never an error.
func New(persister Persister, log logging.Logger) *Store {
	if log == nil {
		log = logging.Default()
	}
	s := &Store{
		persister: persister,
		log:       log,
		sortBy:    SortByUpdatedAt,
		sortOrder: SortDesc,
	}
	s.entries = s.readEntries()
	s.history = s.readHistory()
	return s
}

// Entries returns a copy of the live entry list, newest first.
func (s *Store) Entries() []entry.Entry {
	return entry.CloneList(s.entries)
}

// FindEntry returns the entry with the given id, or false.
func (s *Store) FindEntry(id string) (entry.Entry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return entry.Entry{}, false
}

// SaveEntryInput is the input to SaveEntry. A non-empty ID targets an
// existing entry; otherwise the shortcut decides between create and
// merge-by-key update.
type SaveEntryInput struct {
	ID       string
	Shortcut string
	Phrase   string
	Tags     []string
}

// SaveEntry creates or updates an entry. Each committed change appends
// exactly one history record; every no-op path appends none.
func (s *Store) SaveEntry(input SaveEntryInput) {
	shortcut := trim(input.Shortcut)
	phrase := trim(input.Phrase)
	tags := entry.NormalizeTags(input.Tags)
	if shortcut == "" && phrase == "" {
		return
	}

	before := entry.CloneList(s.entries)
	now := entry.Timestamp(time.Now())

	if input.ID != "" {
		idx := s.indexByID(input.ID)
		if idx == -1 {
			// Target may have been deleted out from under the caller.
			return
		}
		existing := s.entries[idx]
		if existing.Shortcut == shortcut && existing.Phrase == phrase && entry.TagsEqual(existing.Tags, tags) {
			return
		}

		s.entries[idx].Shortcut = shortcut
		s.entries[idx].Phrase = phrase
		s.entries[idx].Tags = tags
		s.entries[idx].UpdatedAt = now
		s.commit(entry.HistoryUpdate, fmt.Sprintf("Updated %q", existing.Shortcut), before)
		return
	}

	if idx := s.indexByShortcut(shortcut); idx != -1 {
		duplicate := s.entries[idx]
		s.entries[idx].Phrase = phrase
		s.entries[idx].Tags = tags
		s.entries[idx].UpdatedAt = now
		s.commit(entry.HistoryUpdate, fmt.Sprintf("Updated %q", duplicate.Shortcut), before)
		return
	}

	created := entry.Entry{
		ID:        entry.NewID(),
		Shortcut:  shortcut,
		Phrase:    phrase,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
		Source:    entry.SourceManual,
	}
	s.entries = append([]entry.Entry{created}, s.entries...)
	s.commit(entry.HistoryCreate, fmt.Sprintf("Created %q", created.Shortcut), before)
}

// DeleteEntry removes the entry with the given id. Unknown ids are a
// silent no-op.
func (s *Store) DeleteEntry(id string) {
	idx := s.indexByID(id)
	if idx == -1 {
		return
	}

	before := entry.CloneList(s.entries)
	target := s.entries[idx]
	s.entries = append(s.entries[:idx:idx], s.entries[idx+1:]...)
	s.commit(entry.HistoryDelete, fmt.Sprintf("Deleted %q", target.Shortcut), before)
}

// DeleteSelectedEntries removes every selected entry in one atomic
// operation, recording a single history record for the batch. Clears the
// selection and leaves selection mode.
func (s *Store) DeleteSelectedEntries() {
	if len(s.selectedIDs) == 0 {
		return
	}

	selected := make(map[string]struct{}, len(s.selectedIDs))
	for _, id := range s.selectedIDs {
		selected[id] = struct{}{}
	}

	before := entry.CloneList(s.entries)
	kept := make([]entry.Entry, 0, len(s.entries))
	removed := 0
	for _, e := range s.entries {
		if _, ok := selected[e.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, e)
	}

	s.selectedIDs = nil
	s.selectionMode = false
	if removed == 0 {
		return
	}

	s.entries = kept
	s.commit(entry.HistoryDelete, fmt.Sprintf("Deleted %d selected %s", removed, pluralEntries(removed)), before)
}

// AddTagToSelectedEntries appends the tag to every selected entry that
// does not already carry it. One history record covers the whole batch;
// an empty tag or an unchanged batch appends none.
func (s *Store) AddTagToSelectedEntries(tag string) {
	tag = trim(tag)
	if tag == "" || len(s.selectedIDs) == 0 {
		return
	}

	selected := make(map[string]struct{}, len(s.selectedIDs))
	for _, id := range s.selectedIDs {
		selected[id] = struct{}{}
	}

	before := entry.CloneList(s.entries)
	now := entry.Timestamp(time.Now())
	changed := 0
	for i := range s.entries {
		if _, ok := selected[s.entries[i].ID]; !ok {
			continue
		}
		if hasTag(s.entries[i].Tags, tag) {
			continue
		}
		s.entries[i].Tags = append(s.entries[i].Tags, tag)
		s.entries[i].UpdatedAt = now
		changed++
	}

	if changed == 0 {
		return
	}
	s.commit(entry.HistoryUpdate, fmt.Sprintf("Added tag %q to %d %s", tag, changed, pluralEntries(changed)), before)
}

// ClearAllEntries wipes entries, history, preview sessions, and the
// search term, and removes the persisted records. The wipe itself is
// beyond the undo horizon: no history record is written for it.
func (s *Store) ClearAllEntries() {
	s.entries = nil
	s.history = nil
	s.importPreview = nil
	s.comparison = nil
	s.searchTerm = ""
	s.selectedIDs = nil
	s.clearStoredData()
}

// commit appends one history record for a mutation that already ran,
// persists both logical records, and keeps derived state consistent.
func (s *Store) commit(t entry.HistoryType, summary string, before []entry.Entry) {
	s.appendHistory(entry.NewHistoryRecord(t, summary, before, s.entries))
	s.persistEntries()
	s.pruneSelection()
	s.refreshComparison()
}

func (s *Store) indexByID(id string) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexByShortcut(shortcut string) int {
	for i, e := range s.entries {
		if e.Shortcut == shortcut {
			return i
		}
	}
	return -1
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func pluralEntries(n int) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}
