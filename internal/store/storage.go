package store

import (
	"encoding/json"
	"errors"

	"github.com/snipbook/snipbook/internal/database"
	"github.com/snipbook/snipbook/internal/entry"
)

// Storage keys for the two logical records the store persists.
const (
	entriesStorageKey = "textreplacement.entries"
	historyStorageKey = "textreplacement.history"
)

// HistoryLimit caps the undo log. Older records are evicted silently.
const HistoryLimit = 50

// Persister is the durable key/value layer underneath the store. Load
// returns database.ErrNotFound for keys that were never written.
type Persister interface {
	Load(key string) (string, error)
	Save(key, value string) error
	Delete(key string) error
}

type dbPersister struct {
	ctx *database.Context
}

// NewDatabasePersister adapts a database connection to the Persister
// interface.
func NewDatabasePersister(ctx *database.Context) Persister {
	return &dbPersister{ctx: ctx}
}

func (p *dbPersister) Load(key string) (string, error) {
	return database.GetValue(p.ctx, key)
}

func (p *dbPersister) Save(key, value string) error {
	return database.SetValue(p.ctx, key, value)
}

func (p *dbPersister) Delete(key string) error {
	return database.DeleteValue(p.ctx, key)
}

// MemoryPersister keeps values in a map. Used in tests and as the
// fallback when no database is available.
type MemoryPersister struct {
	values map[string]string
}

// NewMemoryPersister returns an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{values: make(map[string]string)}
}

func (p *MemoryPersister) Load(key string) (string, error) {
	value, ok := p.values[key]
	if !ok {
		return "", database.ErrNotFound
	}
	return value, nil
}

func (p *MemoryPersister) Save(key, value string) error {
	p.values[key] = value
	return nil
}

func (p *MemoryPersister) Delete(key string) error {
	delete(p.values, key)
	return nil
}

// readEntries loads and sanitizes the persisted entry list. Anything
// malformed degrades to an empty list; it is never an error.
func (s *Store) readEntries() []entry.Entry {
	raw, err := s.persister.Load(entriesStorageKey)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			s.log.Warn("failed to read text replacement entries", "error", err)
		}
		return nil
	}

	var parsed []entry.Entry
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Warn("failed to decode text replacement entries", "error", err)
		return nil
	}

	entries := make([]entry.Entry, 0, len(parsed))
	for _, item := range parsed {
		if item.ID == "" {
			continue
		}
		item.Tags = entry.NormalizeTags(item.Tags)
		entries = append(entries, item)
	}
	return entries
}

// readHistory loads and sanitizes the persisted history log.
func (s *Store) readHistory() []entry.HistoryRecord {
	raw, err := s.persister.Load(historyStorageKey)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			s.log.Warn("failed to read text replacement history", "error", err)
		}
		return nil
	}

	var parsed []entry.HistoryRecord
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Warn("failed to decode text replacement history", "error", err)
		return nil
	}

	history := make([]entry.HistoryRecord, 0, len(parsed))
	for _, record := range parsed {
		if record.ID == "" {
			continue
		}
		if record.Before == nil {
			record.Before = []entry.Entry{}
		}
		if record.After == nil {
			record.After = []entry.Entry{}
		}
		history = append(history, record)
		if len(history) == HistoryLimit {
			break
		}
	}
	return history
}

// persistEntries writes the live entry list through to durable storage.
// The in-memory list stays authoritative even when the write fails.
func (s *Store) persistEntries() {
	data, err := json.Marshal(s.entries)
	if err != nil {
		s.log.Warn("failed to encode text replacement entries", "error", err)
		return
	}
	if err := s.persister.Save(entriesStorageKey, string(data)); err != nil {
		s.log.Warn("failed to persist text replacement entries", "error", err)
	}
}

func (s *Store) persistHistory() {
	data, err := json.Marshal(s.history)
	if err != nil {
		s.log.Warn("failed to encode text replacement history", "error", err)
		return
	}
	if err := s.persister.Save(historyStorageKey, string(data)); err != nil {
		s.log.Warn("failed to persist text replacement history", "error", err)
	}
}

func (s *Store) clearStoredData() {
	if err := s.persister.Delete(entriesStorageKey); err != nil {
		s.log.Warn("failed to clear stored text replacement entries", "error", err)
	}
	if err := s.persister.Delete(historyStorageKey); err != nil {
		s.log.Warn("failed to clear stored text replacement history", "error", err)
	}
}
