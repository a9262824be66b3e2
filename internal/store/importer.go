package store

import (
	"fmt"
	"time"

	"github.com/snipbook/snipbook/internal/entry"
)

// ImportPreview returns a copy of the open import preview, or nil.
func (s *Store) ImportPreview() *entry.ImportPreview {
	if s.importPreview == nil {
		return nil
	}
	out := &entry.ImportPreview{
		FileName: s.importPreview.FileName,
		Items:    make([]entry.ImportItem, len(s.importPreview.Items)),
	}
	for i, item := range s.importPreview.Items {
		out.Items[i] = item
		out.Items[i].Tags = append([]string(nil), item.Tags...)
	}
	return out
}

// PrepareImportPreview reconciles parsed file records against the live
// entry list. Records identical to an existing entry carry no actionable
// difference and are left out entirely. Any prior preview is replaced.
func (s *Store) PrepareImportPreview(records []entry.Record, fileName string) {
	preview := &entry.ImportPreview{FileName: fileName, Items: []entry.ImportItem{}}

	existingByShortcut := make(map[string]entry.Entry, len(s.entries))
	for _, e := range s.entries {
		if _, ok := existingByShortcut[e.Shortcut]; !ok {
			existingByShortcut[e.Shortcut] = e
		}
	}

	for _, record := range records {
		shortcut := trim(record.Shortcut)
		phrase := trim(record.Phrase)
		if shortcut == "" && phrase == "" {
			continue
		}
		tags := entry.NormalizeTags(record.Tags)

		existing, ok := existingByShortcut[shortcut]
		if !ok {
			preview.Items = append(preview.Items, entry.ImportItem{
				ID:       "new:" + entry.NewID(),
				Shortcut: shortcut,
				Phrase:   phrase,
				Tags:     tags,
				Status:   entry.ImportNew,
				Selected: true,
			})
			continue
		}

		if existing.Phrase != phrase || !entry.TagsEqual(existing.Tags, tags) {
			preview.Items = append(preview.Items, entry.ImportItem{
				ID:              "update:" + existing.ID,
				Shortcut:        shortcut,
				Phrase:          phrase,
				Tags:            tags,
				Status:          entry.ImportUpdate,
				ExistingEntryID: existing.ID,
				Selected:        true,
			})
		}
	}

	s.importPreview = preview
}

// ToggleImportSelection flips one preview item's selected flag. Pure
// preview-state mutation, no entry store effect.
func (s *Store) ToggleImportSelection(id string) {
	if s.importPreview == nil {
		return
	}
	for i := range s.importPreview.Items {
		if s.importPreview.Items[i].ID == id {
			s.importPreview.Items[i].Selected = !s.importPreview.Items[i].Selected
			return
		}
	}
}

// SelectAllImportItems sets every preview item's selected flag.
func (s *Store) SelectAllImportItems(selected bool) {
	if s.importPreview == nil {
		return
	}
	for i := range s.importPreview.Items {
		s.importPreview.Items[i].Selected = selected
	}
}

// ConfirmImportSelection applies every selected preview item to the
// entry list and folds the whole batch into one import history record.
// With nothing selected the preview is simply discarded. The preview is
// always cleared afterwards.
func (s *Store) ConfirmImportSelection() {
	if s.importPreview == nil {
		return
	}
	preview := s.importPreview
	s.importPreview = nil

	selected := make([]entry.ImportItem, 0, len(preview.Items))
	for _, item := range preview.Items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	if len(selected) == 0 {
		return
	}

	before := entry.CloneList(s.entries)
	now := entry.Timestamp(time.Now())
	changed := false

	for _, item := range selected {
		switch item.Status {
		case entry.ImportNew:
			created := entry.Entry{
				ID:        entry.NewID(),
				Shortcut:  item.Shortcut,
				Phrase:    item.Phrase,
				Tags:      append([]string(nil), item.Tags...),
				CreatedAt: now,
				UpdatedAt: now,
				Source:    entry.SourceImport,
			}
			s.entries = append([]entry.Entry{created}, s.entries...)
			changed = true
		case entry.ImportUpdate:
			if item.ExistingEntryID == "" {
				continue
			}
			idx := s.indexByID(item.ExistingEntryID)
			if idx == -1 {
				continue
			}
			s.entries[idx].Phrase = item.Phrase
			s.entries[idx].Tags = append([]string(nil), item.Tags...)
			s.entries[idx].UpdatedAt = now
			// Import never downgrades manual provenance.
			if s.entries[idx].Source != entry.SourceManual {
				s.entries[idx].Source = entry.SourceImport
			}
			changed = true
		}
	}

	if !changed {
		return
	}

	summary := fmt.Sprintf("Imported %d %s from %s", len(selected), pluralEntries(len(selected)), preview.FileName)
	s.commit(entry.HistoryImport, summary, before)
}

// CancelImportPreview discards the preview without touching the entry
// list.
func (s *Store) CancelImportPreview() {
	s.importPreview = nil
}
