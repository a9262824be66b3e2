package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/snipbook/snipbook/internal/entry"
	"github.com/snipbook/snipbook/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(NewMemoryPersister(), logging.Discard())
}

// entryDiffOpts ignores the generated fields when comparing entries.
var entryDiffOpts = cmpopts.IgnoreFields(entry.Entry{}, "ID", "CreatedAt", "UpdatedAt")

func TestSaveEntryCreates(t *testing.T) {
	s := newTestStore(t)

	s.SaveEntry(SaveEntryInput{Shortcut: " brb ", Phrase: " be right back ", Tags: []string{" chat ", "chat"}})

	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	want := entry.Entry{Shortcut: "brb", Phrase: "be right back", Tags: []string{"chat"}, Source: entry.SourceManual}
	if diff := cmp.Diff(want, got, entryDiffOpts); diff != "" {
		t.Fatalf("unexpected entry (-want +got):\n%s", diff)
	}
	if got.ID == "" || got.CreatedAt == "" || got.UpdatedAt == "" {
		t.Fatalf("expected generated fields to be set: %#v", got)
	}

	history := s.HistoryEntries()
	if len(history) != 1 || history[0].Type != entry.HistoryCreate {
		t.Fatalf("expected one create history record, got %#v", history)
	}
	if history[0].Summary != `Created "brb"` {
		t.Fatalf("unexpected summary: %q", history[0].Summary)
	}
}

func TestSaveEntryBothEmptyIsNoOp(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "   ", Phrase: " "})
	if len(s.Entries()) != 0 || len(s.HistoryEntries()) != 0 {
		t.Fatal("expected empty input to be a no-op")
	}
}

func TestSaveEntryMergesByShortcut(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "brb", Phrase: "be right back"})
	s.SaveEntry(SaveEntryInput{Shortcut: "brb", Phrase: "back soon", Tags: []string{"chat"}})

	entries := s.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected merge by shortcut to keep one entry, got %d", len(entries))
	}
	if entries[0].Phrase != "back soon" || !entry.TagsEqual(entries[0].Tags, []string{"chat"}) {
		t.Fatalf("unexpected merged entry: %#v", entries[0])
	}

	history := s.HistoryEntries()
	if len(history) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history))
	}
	if history[0].Type != entry.HistoryUpdate || history[0].Summary != `Updated "brb"` {
		t.Fatalf("unexpected newest record: %#v", history[0])
	}
}

func TestSaveEntryUniquenessUnderRepeatedSaves(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		s.SaveEntry(SaveEntryInput{Shortcut: "omw", Phrase: "on my way"})
		s.SaveEntry(SaveEntryInput{Shortcut: "brb", Phrase: "be right back"})
	}

	seen := make(map[string]int)
	for _, e := range s.Entries() {
		seen[e.Shortcut]++
	}
	for shortcut, count := range seen {
		if count != 1 {
			t.Fatalf("shortcut %q appears %d times", shortcut, count)
		}
	}
}

func TestSaveEntryUpdateByID(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "brb", Phrase: "be right back"})
	id := s.Entries()[0].ID

	s.SaveEntry(SaveEntryInput{ID: id, Shortcut: "brb2", Phrase: "be right back", Tags: []string{"chat"}})

	got := s.Entries()[0]
	if got.Shortcut != "brb2" || !entry.TagsEqual(got.Tags, []string{"chat"}) {
		t.Fatalf("unexpected entry after update: %#v", got)
	}

	history := s.HistoryEntries()
	if len(history) != 2 || history[0].Type != entry.HistoryUpdate {
		t.Fatalf("expected update history record, got %#v", history)
	}
	// Summary names the shortcut as it was before the update.
	if history[0].Summary != `Updated "brb"` {
		t.Fatalf("unexpected summary: %q", history[0].Summary)
	}
}

func TestSaveEntryUpdateUnchangedIsNoOp(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "brb", Phrase: "be right back", Tags: []string{"chat"}})
	id := s.Entries()[0].ID
	updatedAt := s.Entries()[0].UpdatedAt

	s.SaveEntry(SaveEntryInput{ID: id, Shortcut: "brb", Phrase: "be right back", Tags: []string{" chat "}})

	if got := s.Entries()[0].UpdatedAt; got != updatedAt {
		t.Fatalf("expected updatedAt untouched, got %q", got)
	}
	if len(s.HistoryEntries()) != 1 {
		t.Fatal("expected no history record for an unchanged save")
	}
}

func TestSaveEntryUnknownIDIsNoOp(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{ID: "gone", Shortcut: "x", Phrase: "y"})
	if len(s.Entries()) != 0 || len(s.HistoryEntries()) != 0 {
		t.Fatal("expected save against a deleted id to be a no-op")
	}
}

func TestDeleteEntry(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "brb", Phrase: "be right back"})
	id := s.Entries()[0].ID

	s.DeleteEntry(id)
	if len(s.Entries()) != 0 {
		t.Fatal("expected entry to be deleted")
	}
	history := s.HistoryEntries()
	if history[0].Type != entry.HistoryDelete || history[0].Summary != `Deleted "brb"` {
		t.Fatalf("unexpected history record: %#v", history[0])
	}

	// Deleting again is a silent no-op.
	s.DeleteEntry(id)
	if len(s.HistoryEntries()) != 2 {
		t.Fatalf("expected no extra history record, got %d", len(s.HistoryEntries()))
	}
}

func TestDeleteSelectedEntries(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "a", Phrase: "alpha"})
	s.SaveEntry(SaveEntryInput{Shortcut: "b", Phrase: "beta"})
	s.SaveEntry(SaveEntryInput{Shortcut: "c", Phrase: "gamma"})

	s.SetSelectionMode(true)
	entries := s.Entries()
	s.ToggleEntrySelection(entries[0].ID)
	s.ToggleEntrySelection(entries[1].ID)

	historyBefore := len(s.HistoryEntries())
	s.DeleteSelectedEntries()

	if len(s.Entries()) != 1 || s.Entries()[0].Shortcut != "a" {
		t.Fatalf("unexpected entries after bulk delete: %#v", s.Entries())
	}
	if len(s.HistoryEntries()) != historyBefore+1 {
		t.Fatal("expected exactly one history record for the batch")
	}
	if s.HistoryEntries()[0].Summary != "Deleted 2 selected entries" {
		t.Fatalf("unexpected summary: %q", s.HistoryEntries()[0].Summary)
	}
	if s.SelectionMode() || len(s.SelectedEntryIDs()) != 0 {
		t.Fatal("expected selection cleared and selection mode exited")
	}
}

func TestDeleteSelectedEntriesEmptySelectionIsNoOp(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "a", Phrase: "alpha"})
	s.DeleteSelectedEntries()
	if len(s.Entries()) != 1 || len(s.HistoryEntries()) != 1 {
		t.Fatal("expected bulk delete with empty selection to be a no-op")
	}
}

func TestAddTagToSelectedEntries(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "a", Phrase: "alpha", Tags: []string{"work"}})
	s.SaveEntry(SaveEntryInput{Shortcut: "b", Phrase: "beta"})

	s.SetSelectionMode(true)
	s.SelectAllVisibleEntries()

	historyBefore := len(s.HistoryEntries())
	s.AddTagToSelectedEntries(" work ")

	for _, e := range s.Entries() {
		if !hasTag(e.Tags, "work") {
			t.Fatalf("expected tag on every selected entry: %#v", e)
		}
	}
	if len(s.HistoryEntries()) != historyBefore+1 {
		t.Fatal("expected one history record for the tag batch")
	}
	if s.HistoryEntries()[0].Summary != `Added tag "work" to 1 entry` {
		t.Fatalf("unexpected summary: %q", s.HistoryEntries()[0].Summary)
	}

	// Everything already tagged: no-op, no history.
	s.SelectAllVisibleEntries()
	s.AddTagToSelectedEntries("work")
	if len(s.HistoryEntries()) != historyBefore+1 {
		t.Fatal("expected no history record when nothing changed")
	}

	// Empty tag: no-op.
	s.AddTagToSelectedEntries("  ")
	if len(s.HistoryEntries()) != historyBefore+1 {
		t.Fatal("expected no history record for an empty tag")
	}
}

func TestClearAllEntries(t *testing.T) {
	persister := NewMemoryPersister()
	s := New(persister, logging.Discard())
	s.SaveEntry(SaveEntryInput{Shortcut: "a", Phrase: "alpha"})
	s.SetSearchTerm("al")
	s.PrepareImportPreview([]entry.Record{{Shortcut: "b", Phrase: "beta"}}, "file.xml")
	s.PrepareComparisonPreview([]entry.Record{{Shortcut: "b", Phrase: "beta"}}, "file.xml")

	s.ClearAllEntries()

	if len(s.Entries()) != 0 || len(s.HistoryEntries()) != 0 {
		t.Fatal("expected entries and history wiped")
	}
	if s.ImportPreview() != nil || s.ComparisonPreview() != nil {
		t.Fatal("expected preview state discarded")
	}
	if s.SearchTerm() != "" {
		t.Fatal("expected search term cleared")
	}

	// Durable storage wiped too: a fresh store comes up empty.
	fresh := New(persister, logging.Discard())
	if len(fresh.Entries()) != 0 || len(fresh.HistoryEntries()) != 0 {
		t.Fatal("expected persisted records removed")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	persister := NewMemoryPersister()
	s := New(persister, logging.Discard())
	s.SaveEntry(SaveEntryInput{Shortcut: "brb", Phrase: "be right back", Tags: []string{"chat"}})
	s.SaveEntry(SaveEntryInput{Shortcut: "omw", Phrase: "on my way"})

	reloaded := New(persister, logging.Discard())
	if diff := cmp.Diff(s.Entries(), reloaded.Entries(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("reloaded entries differ (-want +got):\n%s", diff)
	}
	if len(reloaded.HistoryEntries()) != 2 {
		t.Fatalf("expected history to survive reload, got %d records", len(reloaded.HistoryEntries()))
	}
}

func TestMalformedPersistedDataDegradesToEmpty(t *testing.T) {
	persister := NewMemoryPersister()
	if err := persister.Save(entriesStorageKey, "{not json"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := persister.Save(historyStorageKey, `{"shape":"wrong"}`); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s := New(persister, logging.Discard())
	if len(s.Entries()) != 0 || len(s.HistoryEntries()) != 0 {
		t.Fatal("expected malformed data to degrade to an empty store")
	}
}

func TestLoadDropsEntriesWithoutID(t *testing.T) {
	persister := NewMemoryPersister()
	raw := `[{"shortcut":"lost","phrase":"no id"},{"id":"1","shortcut":"brb","phrase":"ok","tags":[" chat ",""]}]`
	if err := persister.Save(entriesStorageKey, raw); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s := New(persister, logging.Discard())
	entries := s.Entries()
	if len(entries) != 1 || entries[0].ID != "1" {
		t.Fatalf("unexpected entries: %#v", entries)
	}
	if !entry.TagsEqual(entries[0].Tags, []string{"chat"}) {
		t.Fatalf("expected tags sanitized on load: %#v", entries[0].Tags)
	}
}

// TestImportScenario walks the end-to-end flow: create, import with one
// update and one addition, then undo the import.
func TestImportScenario(t *testing.T) {
	s := newTestStore(t)

	s.SaveEntry(SaveEntryInput{Shortcut: "alpha", Phrase: "Alpha phrase"})
	if len(s.Entries()) != 1 || len(s.HistoryEntries()) != 1 {
		t.Fatalf("unexpected state after create: %d entries, %d history", len(s.Entries()), len(s.HistoryEntries()))
	}

	s.PrepareImportPreview([]entry.Record{
		{Shortcut: "alpha", Phrase: "Alpha updated"},
		{Shortcut: "gamma", Phrase: "Gamma addition"},
	}, "replacements.xml")

	preview := s.ImportPreview()
	if preview == nil || len(preview.Items) != 2 {
		t.Fatalf("expected 2 preview items, got %#v", preview)
	}
	var statuses []entry.ImportStatus
	for _, item := range preview.Items {
		statuses = append(statuses, item.Status)
	}
	if statuses[0] != entry.ImportUpdate || statuses[1] != entry.ImportNew {
		t.Fatalf("unexpected statuses: %#v", statuses)
	}

	s.ConfirmImportSelection()

	if len(s.Entries()) != 2 {
		t.Fatalf("expected 2 entries after import, got %d", len(s.Entries()))
	}
	for _, e := range s.Entries() {
		if e.Shortcut == "alpha" && e.Phrase != "Alpha updated" {
			t.Fatalf("expected alpha updated, got %q", e.Phrase)
		}
	}
	newest := s.HistoryEntries()[0]
	if newest.Type != entry.HistoryImport || newest.Summary != "Imported 2 entries from replacements.xml" {
		t.Fatalf("unexpected import record: %#v", newest)
	}

	s.UndoHistory(newest.ID)
	entries := s.Entries()
	if len(entries) != 1 || entries[0].Shortcut != "alpha" || entries[0].Phrase != "Alpha phrase" {
		t.Fatalf("expected undo to restore the pre-import state: %#v", entries)
	}
}
