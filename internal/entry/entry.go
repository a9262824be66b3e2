// Package entry provides data types for text replacement entries and the
// derived preview/history structures built on top of them.
package entry

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Source records how an entry came into existence. Once an entry is
// manual it stays manual even when a later import updates it.
type Source string

const (
	SourceManual Source = "manual"
	SourceImport Source = "import"
)

// Entry is a single text replacement: a shortcut that expands to a phrase,
// optionally labelled with tags. Shortcut is the natural key; the live
// entry list never contains two entries with the same shortcut.
type Entry struct {
	ID        string   `json:"id"`
	Shortcut  string   `json:"shortcut"`
	Phrase    string   `json:"phrase"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	Source    Source   `json:"source"`
}

// Record is an externally parsed {shortcut, phrase, tags} triple, the unit
// of exchange with the plist import/export format.
type Record struct {
	Shortcut string
	Phrase   string
	Tags     []string
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// Timestamp formats a time the way entries store it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Clone returns a deep copy of the entry, including its tag slice.
func (e Entry) Clone() Entry {
	c := e
	c.Tags = append([]string(nil), e.Tags...)
	return c
}

// CloneList deep-copies a list of entries.
func CloneList(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// NormalizeTags trims every tag, drops empties, and removes duplicates
// while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// TagsEqual reports whether two tag lists contain the same tags,
// ignoring order.
func TagsEqual(first, second []string) bool {
	if len(first) != len(second) {
		return false
	}
	a := append([]string(nil), first...)
	b := append([]string(nil), second...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ListsEqual reports whether two entry lists are structurally identical,
// element by element in order.
func ListsEqual(first, second []Entry) bool {
	if len(first) != len(second) {
		return false
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ID != b.ID ||
			a.Shortcut != b.Shortcut ||
			a.Phrase != b.Phrase ||
			a.CreatedAt != b.CreatedAt ||
			a.UpdatedAt != b.UpdatedAt ||
			a.Source != b.Source ||
			!TagsEqual(a.Tags, b.Tags) {
			return false
		}
	}
	return true
}
