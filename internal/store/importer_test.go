package store

import (
	"testing"

	"github.com/snipbook/snipbook/internal/entry"
)

func TestPrepareImportPreviewClassifiesRecords(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "same", Phrase: "unchanged", Tags: []string{"x"}})
	s.SaveEntry(SaveEntryInput{Shortcut: "diff", Phrase: "old"})

	s.PrepareImportPreview([]entry.Record{
		{Shortcut: "same", Phrase: "unchanged", Tags: []string{"x"}},
		{Shortcut: "diff", Phrase: "new"},
		{Shortcut: "brand", Phrase: "brand new"},
		{Shortcut: "  ", Phrase: ""},
	}, "file.xml")

	preview := s.ImportPreview()
	if preview == nil {
		t.Fatal("expected an open preview")
	}
	if preview.FileName != "file.xml" {
		t.Fatalf("unexpected file name: %q", preview.FileName)
	}
	if len(preview.Items) != 2 {
		t.Fatalf("expected identical and empty records excluded, got %#v", preview.Items)
	}

	byShortcut := make(map[string]entry.ImportItem)
	for _, item := range preview.Items {
		if !item.Selected {
			t.Fatalf("expected items selected by default: %#v", item)
		}
		byShortcut[item.Shortcut] = item
	}
	if item := byShortcut["diff"]; item.Status != entry.ImportUpdate || item.ExistingEntryID == "" {
		t.Fatalf("unexpected update item: %#v", item)
	}
	if item := byShortcut["brand"]; item.Status != entry.ImportNew || item.ExistingEntryID != "" {
		t.Fatalf("unexpected new item: %#v", item)
	}
}

func TestPrepareImportPreviewTagOnlyDifference(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "a", Phrase: "alpha", Tags: []string{"x"}})

	s.PrepareImportPreview([]entry.Record{
		{Shortcut: "a", Phrase: "alpha", Tags: []string{"y"}},
	}, "file.xml")

	preview := s.ImportPreview()
	if len(preview.Items) != 1 || preview.Items[0].Status != entry.ImportUpdate {
		t.Fatalf("expected a tag-only change to surface as an update: %#v", preview.Items)
	}
}

func TestPrepareImportPreviewEmptyFile(t *testing.T) {
	s := newTestStore(t)
	s.PrepareImportPreview(nil, "empty.xml")

	preview := s.ImportPreview()
	if preview == nil || len(preview.Items) != 0 {
		t.Fatalf("expected an open preview with zero items, got %#v", preview)
	}
}

func TestToggleAndSelectAllImportItems(t *testing.T) {
	s := newTestStore(t)
	s.PrepareImportPreview([]entry.Record{
		{Shortcut: "a", Phrase: "alpha"},
		{Shortcut: "b", Phrase: "beta"},
	}, "file.xml")

	id := s.ImportPreview().Items[0].ID
	s.ToggleImportSelection(id)
	if s.ImportPreview().Items[0].Selected {
		t.Fatal("expected toggle to deselect the item")
	}

	s.SelectAllImportItems(false)
	for _, item := range s.ImportPreview().Items {
		if item.Selected {
			t.Fatalf("expected all items deselected: %#v", item)
		}
	}

	s.SelectAllImportItems(true)
	for _, item := range s.ImportPreview().Items {
		if !item.Selected {
			t.Fatalf("expected all items selected: %#v", item)
		}
	}

	// Preview-state mutations never touch the entry store.
	if len(s.Entries()) != 0 || len(s.HistoryEntries()) != 0 {
		t.Fatal("expected no entry store effect from selection toggles")
	}
}

func TestConfirmImportSelectionNothingSelected(t *testing.T) {
	s := newTestStore(t)
	s.PrepareImportPreview([]entry.Record{{Shortcut: "a", Phrase: "alpha"}}, "file.xml")
	s.SelectAllImportItems(false)

	s.ConfirmImportSelection()

	if len(s.Entries()) != 0 || len(s.HistoryEntries()) != 0 {
		t.Fatal("expected confirm with nothing selected to be a no-op")
	}
	if s.ImportPreview() != nil {
		t.Fatal("expected preview discarded")
	}
}

func TestConfirmImportPreservesManualProvenance(t *testing.T) {
	s := newTestStore(t)
	s.SaveEntry(SaveEntryInput{Shortcut: "mine", Phrase: "hand written"})

	s.PrepareImportPreview([]entry.Record{{Shortcut: "mine", Phrase: "from file"}}, "file.xml")
	s.ConfirmImportSelection()

	got := s.Entries()[0]
	if got.Phrase != "from file" {
		t.Fatalf("expected phrase updated, got %q", got.Phrase)
	}
	if got.Source != entry.SourceManual {
		t.Fatalf("import must not downgrade manual provenance, got %q", got.Source)
	}
}

func TestConfirmImportNewEntriesAreImportSourced(t *testing.T) {
	s := newTestStore(t)
	s.PrepareImportPreview([]entry.Record{{Shortcut: "a", Phrase: "alpha"}}, "file.xml")
	s.ConfirmImportSelection()

	if got := s.Entries()[0].Source; got != entry.SourceImport {
		t.Fatalf("expected import provenance, got %q", got)
	}
}

func TestImportIdempotence(t *testing.T) {
	s := newTestStore(t)
	records := []entry.Record{
		{Shortcut: "a", Phrase: "alpha", Tags: []string{"x"}},
		{Shortcut: "b", Phrase: "beta"},
	}

	s.PrepareImportPreview(records, "file.xml")
	s.ConfirmImportSelection()

	s.PrepareImportPreview(records, "file.xml")
	preview := s.ImportPreview()
	if len(preview.Items) != 0 {
		t.Fatalf("expected importing the same file twice to yield an empty preview, got %#v", preview.Items)
	}
}

func TestCancelImportPreview(t *testing.T) {
	s := newTestStore(t)
	s.PrepareImportPreview([]entry.Record{{Shortcut: "a", Phrase: "alpha"}}, "file.xml")
	s.CancelImportPreview()

	if s.ImportPreview() != nil {
		t.Fatal("expected preview discarded")
	}
	if len(s.Entries()) != 0 {
		t.Fatal("expected no entry store effect from cancel")
	}
}

func TestPrepareImportPreviewReplacesPrior(t *testing.T) {
	s := newTestStore(t)
	s.PrepareImportPreview([]entry.Record{{Shortcut: "a", Phrase: "alpha"}}, "first.xml")
	s.PrepareImportPreview([]entry.Record{{Shortcut: "b", Phrase: "beta"}}, "second.xml")

	preview := s.ImportPreview()
	if preview.FileName != "second.xml" || len(preview.Items) != 1 || preview.Items[0].Shortcut != "b" {
		t.Fatalf("expected the second preview to replace the first: %#v", preview)
	}
}
