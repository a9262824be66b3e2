package store

import (
	"sort"
	"strings"

	"github.com/snipbook/snipbook/internal/entry"
)

// NoTagFilter is the pseudo-tag that filters for entries carrying no
// tags at all.
const NoTagFilter = "__NO_TAG__"

// SortBy selects the key visible entries are ordered on.
type SortBy string

const (
	SortByUpdatedAt SortBy = "updatedAt"
	SortByShortcut  SortBy = "shortcut"
	SortByPhrase    SortBy = "phrase"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SearchTerm returns the current substring filter.
func (s *Store) SearchTerm() string { return s.searchTerm }

// SetSearchTerm updates the substring filter over shortcut and phrase.
func (s *Store) SetSearchTerm(term string) {
	s.searchTerm = term
	s.pruneSelection()
}

// SortKey returns the current sort key.
func (s *Store) SortKey() SortBy { return s.sortBy }

// SortDirection returns the current sort direction.
func (s *Store) SortDirection() SortOrder { return s.sortOrder }

// SetSortBy changes the sort key.
func (s *Store) SetSortBy(key SortBy) {
	switch key {
	case SortByUpdatedAt, SortByShortcut, SortByPhrase:
		s.sortBy = key
	}
}

// SetSortOrder changes the sort direction.
func (s *Store) SetSortOrder(order SortOrder) {
	switch order {
	case SortAsc, SortDesc:
		s.sortOrder = order
	}
}

// ToggleSortOrder flips between ascending and descending.
func (s *Store) ToggleSortOrder() {
	if s.sortOrder == SortAsc {
		s.sortOrder = SortDesc
	} else {
		s.sortOrder = SortAsc
	}
}

// VisibleEntries applies the search term and tag filter, then sorts.
func (s *Store) VisibleEntries() []entry.Entry {
	filtered := make([]entry.Entry, 0, len(s.entries))
	term := strings.ToLower(trim(s.searchTerm))
	for _, e := range s.entries {
		if term != "" &&
			!strings.Contains(strings.ToLower(e.Shortcut), term) &&
			!strings.Contains(strings.ToLower(e.Phrase), term) {
			continue
		}
		if !matchesTagFilter(e, s.selectedTags) {
			continue
		}
		filtered = append(filtered, e.Clone())
	}
	return sortEntries(filtered, s.sortBy, s.sortOrder)
}

// AvailableTags returns the union of tags across all entries, sorted
// case-insensitively, with NoTagFilter appended when any entry is
// untagged.
func (s *Store) AvailableTags() []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	untagged := false
	for _, e := range s.entries {
		if len(e.Tags) == 0 {
			untagged = true
		}
		for _, tag := range e.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool {
		return caseInsensitiveLess(tags[i], tags[j])
	})
	if untagged {
		tags = append(tags, NoTagFilter)
	}
	return tags
}

// SelectedTags returns the active tag filter.
func (s *Store) SelectedTags() []string {
	return append([]string(nil), s.selectedTags...)
}

// SetSelectedTags replaces the tag filter. An entry stays visible only
// when it satisfies every selected tag (AND semantics).
func (s *Store) SetSelectedTags(tags []string) {
	s.selectedTags = append([]string(nil), tags...)
	s.pruneSelection()
}

// ToggleTagFilter adds or removes one tag from the filter.
func (s *Store) ToggleTagFilter(tag string) {
	for i, existing := range s.selectedTags {
		if existing == tag {
			s.selectedTags = append(s.selectedTags[:i:i], s.selectedTags[i+1:]...)
			s.pruneSelection()
			return
		}
	}
	s.selectedTags = append(s.selectedTags, tag)
	s.pruneSelection()
}

// ClearTagFilters removes every tag from the filter.
func (s *Store) ClearTagFilters() {
	s.selectedTags = nil
	s.pruneSelection()
}

// SelectionMode reports whether multi-select is active.
func (s *Store) SelectionMode() bool { return s.selectionMode }

// SetSelectionMode enables or disables multi-select. Leaving selection
// mode clears the selection.
func (s *Store) SetSelectionMode(enabled bool) {
	s.selectionMode = enabled
	if !enabled {
		s.selectedIDs = nil
	}
}

// ToggleSelectionMode flips multi-select on or off.
func (s *Store) ToggleSelectionMode() {
	s.SetSelectionMode(!s.selectionMode)
}

// SelectedEntryIDs returns the ids currently selected.
func (s *Store) SelectedEntryIDs() []string {
	return append([]string(nil), s.selectedIDs...)
}

// ToggleEntrySelection adds or removes one id from the selection. Ids
// not currently visible are ignored.
func (s *Store) ToggleEntrySelection(id string) {
	for i, existing := range s.selectedIDs {
		if existing == id {
			s.selectedIDs = append(s.selectedIDs[:i:i], s.selectedIDs[i+1:]...)
			return
		}
	}
	if _, ok := s.visibleIDs()[id]; !ok {
		return
	}
	s.selectedIDs = append(s.selectedIDs, id)
}

// SelectAllVisibleEntries selects every entry passing the current filter.
func (s *Store) SelectAllVisibleEntries() {
	visible := s.VisibleEntries()
	ids := make([]string, len(visible))
	for i, e := range visible {
		ids[i] = e.ID
	}
	s.selectedIDs = ids
}

// ClearSelection empties the selection set.
func (s *Store) ClearSelection() {
	s.selectedIDs = nil
}

// pruneSelection drops selected ids that are no longer visible, whether
// because the entry was deleted or the filter changed.
func (s *Store) pruneSelection() {
	if len(s.selectedIDs) == 0 {
		return
	}
	visible := s.visibleIDs()
	kept := s.selectedIDs[:0]
	for _, id := range s.selectedIDs {
		if _, ok := visible[id]; ok {
			kept = append(kept, id)
		}
	}
	s.selectedIDs = kept
}

func (s *Store) visibleIDs() map[string]struct{} {
	visible := make(map[string]struct{}, len(s.entries))
	for _, e := range s.VisibleEntries() {
		visible[e.ID] = struct{}{}
	}
	return visible
}

func matchesTagFilter(e entry.Entry, selected []string) bool {
	for _, tag := range selected {
		if tag == NoTagFilter {
			if len(e.Tags) != 0 {
				return false
			}
			continue
		}
		if !hasTag(e.Tags, tag) {
			return false
		}
	}
	return true
}

// sortEntries orders entries by the given key. Shortcut and phrase
// compare case-insensitively; updatedAt compares its timestamp text.
func sortEntries(entries []entry.Entry, key SortBy, order SortOrder) []entry.Entry {
	sorted := append([]entry.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var less bool
		switch key {
		case SortByShortcut:
			less = caseInsensitiveLess(a.Shortcut, b.Shortcut)
		case SortByPhrase:
			less = caseInsensitiveLess(a.Phrase, b.Phrase)
		default:
			less = a.UpdatedAt < b.UpdatedAt
		}
		if order == SortDesc {
			return !less && !equalForKey(a, b, key)
		}
		return less
	})
	return sorted
}

func equalForKey(a, b entry.Entry, key SortBy) bool {
	switch key {
	case SortByShortcut:
		return strings.EqualFold(a.Shortcut, b.Shortcut)
	case SortByPhrase:
		return strings.EqualFold(a.Phrase, b.Phrase)
	default:
		return a.UpdatedAt == b.UpdatedAt
	}
}

func caseInsensitiveLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return a < b
	}
	return la < lb
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
