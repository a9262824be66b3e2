package entry

// ImportStatus classifies an import preview item relative to the live
// entry list.
type ImportStatus string

const (
	ImportNew    ImportStatus = "new"
	ImportUpdate ImportStatus = "update"
)

// ImportItem is one actionable row of an import preview. Records that
// match an existing entry exactly never become items.
type ImportItem struct {
	ID              string
	Shortcut        string
	Phrase          string
	Tags            []string
	Status          ImportStatus
	ExistingEntryID string
	Selected        bool
}

// ImportPreview is the ephemeral state of one prepared import, discarded
// on confirm or cancel.
type ImportPreview struct {
	FileName string
	Items    []ImportItem
}

// ComparisonStatus classifies a shortcut in a comparison session.
type ComparisonStatus string

const (
	ComparisonIdentical   ComparisonStatus = "identical"
	ComparisonModified    ComparisonStatus = "modified"
	ComparisonFileOnly    ComparisonStatus = "fileOnly"
	ComparisonCurrentOnly ComparisonStatus = "currentOnly"
)

// ComparisonItem is one row of a comparison session, keyed by shortcut.
// CurrentEntry is nil for fileOnly rows, FileEntry for currentOnly rows.
type ComparisonItem struct {
	ID           string
	Shortcut     string
	Status       ComparisonStatus
	CurrentEntry *Entry
	FileEntry    *Record
}

// ComparisonPreview is the ephemeral state of an open comparison session.
// It is rebuilt from scratch whenever the entry list changes while the
// session is open.
type ComparisonPreview struct {
	FileName        string
	Items           []ComparisonItem
	DifferenceCount int
}
