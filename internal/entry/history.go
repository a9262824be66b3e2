package entry

import "time"

// HistoryType classifies the mutation that produced a history record.
type HistoryType string

const (
	HistoryCreate HistoryType = "create"
	HistoryUpdate HistoryType = "update"
	HistoryDelete HistoryType = "delete"
	HistoryImport HistoryType = "import"
	HistoryUndo   HistoryType = "undo"
)

// HistoryRecord captures a full before/after snapshot of the entry list
// around one committed mutation. Records are immutable once created.
type HistoryRecord struct {
	ID        string      `json:"id"`
	Type      HistoryType `json:"type"`
	Timestamp string      `json:"timestamp"`
	Summary   string      `json:"summary"`
	Before    []Entry     `json:"before"`
	After     []Entry     `json:"after"`
}

// NewHistoryRecord builds a record with independent deep copies of both
// snapshots, so later mutations of the live list cannot alias into it.
func NewHistoryRecord(t HistoryType, summary string, before, after []Entry) HistoryRecord {
	return HistoryRecord{
		ID:        NewID(),
		Type:      t,
		Timestamp: Timestamp(time.Now()),
		Summary:   summary,
		Before:    CloneList(before),
		After:     CloneList(after),
	}
}
