package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/snipbook/snipbook/internal/database"
	"github.com/snipbook/snipbook/internal/logging"
	"github.com/snipbook/snipbook/internal/plist"
	"github.com/snipbook/snipbook/internal/store"
)

// Server wraps the MCP server with snipbook-specific functionality.
// A single Store backs every tool call; the store is not safe for
// concurrent use, so handlers serialize through mu.
type Server struct {
	server *mcp.Server
	dbCtx  *database.Context

	mu    sync.Mutex
	store *store.Store
}

// NewServer creates a new MCP server instance
func NewServer() (*Server, error) {
	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "snipbook",
		Version: "0.1.0",
	}, nil)

	s := &Server{
		server: mcpServer,
		dbCtx:  dbCtx,
		store:  store.New(store.NewDatabasePersister(dbCtx), logging.Default()),
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	defer database.CloseDatabase(s.dbCtx)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	// snipbook_set
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "snipbook_set",
		Description: "Create a text replacement entry, or update the entry with the same shortcut",
	}, s.handleSet)

	// snipbook_list
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "snipbook_list",
		Description: "List text replacement entries, optionally filtered by search term or tags",
	}, s.handleList)

	// snipbook_delete
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "snipbook_delete",
		Description: "Delete a text replacement entry by id",
	}, s.handleDelete)

	// snipbook_history
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "snipbook_history",
		Description: "List recent changes, newest first",
	}, s.handleHistory)

	// snipbook_undo
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "snipbook_undo",
		Description: "Restore the state captured before a history record",
	}, s.handleUndo)

	// snipbook_export
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "snipbook_export",
		Description: "Export all entries as plist XML",
	}, s.handleExport)
}

// Input/Output types for each tool

type SetInput struct {
	ID       *string  `json:"id,omitempty" jsonschema:"description=Edit the entry with this id instead of matching by shortcut"`
	Shortcut string   `json:"shortcut" jsonschema:"required,description=The shortcut that triggers the replacement"`
	Phrase   string   `json:"phrase" jsonschema:"required,description=The replacement text"`
	Tags     []string `json:"tags,omitempty" jsonschema:"description=Tags to attach to the entry"`
}

type SetOutput struct {
	Message string `json:"message"`
}

type ListInput struct {
	Search   *string  `json:"search,omitempty" jsonschema:"description=Substring match against shortcut and phrase"`
	Tags     []string `json:"tags,omitempty" jsonschema:"description=Only entries carrying all of these tags"`
	Untagged *bool    `json:"untagged,omitempty" jsonschema:"description=Only entries without any tag"`
}

type ListOutput struct {
	Entries []ListEntry `json:"entries"`
}

type ListEntry struct {
	ID       string   `json:"id"`
	Shortcut string   `json:"shortcut"`
	Phrase   string   `json:"phrase"`
	Tags     []string `json:"tags,omitempty"`
	Source   string   `json:"source"`
	Created  string   `json:"createdAt"`
	Updated  string   `json:"updatedAt"`
}

type DeleteInput struct {
	ID string `json:"id" jsonschema:"required,description=The id of the entry to delete"`
}

type DeleteOutput struct {
	Message string `json:"message"`
}

type HistoryInput struct{}

type HistoryOutput struct {
	Records []HistoryRecord `json:"records"`
}

type HistoryRecord struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Summary   string `json:"summary"`
}

type UndoInput struct {
	ID string `json:"id" jsonschema:"required,description=The id of the history record to undo"`
}

type UndoOutput struct {
	Message string `json:"message"`
}

type ExportInput struct{}

type ExportOutput struct {
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// Tool handlers

func (s *Server) handleSet(ctx context.Context, req *mcp.CallToolRequest, input SetInput) (*mcp.CallToolResult, SetOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saveInput := store.SaveEntryInput{
		Shortcut: input.Shortcut,
		Phrase:   input.Phrase,
		Tags:     input.Tags,
	}
	if input.ID != nil {
		saveInput.ID = *input.ID
	}

	historyBefore := len(s.store.HistoryEntries())
	s.store.SaveEntry(saveInput)

	history := s.store.HistoryEntries()
	if len(history) == historyBefore {
		return nil, SetOutput{Message: "No change"}, nil
	}
	return nil, SetOutput{Message: history[0].Summary}, nil
}

func (s *Server) handleList(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Search != nil {
		s.store.SetSearchTerm(*input.Search)
	} else {
		s.store.SetSearchTerm("")
	}

	filters := append([]string(nil), input.Tags...)
	if input.Untagged != nil && *input.Untagged {
		filters = append(filters, store.NoTagFilter)
	}
	s.store.SetSelectedTags(filters)

	entries := make([]ListEntry, 0)
	for _, e := range s.store.VisibleEntries() {
		entries = append(entries, ListEntry{
			ID:       e.ID,
			Shortcut: e.Shortcut,
			Phrase:   e.Phrase,
			Tags:     e.Tags,
			Source:   string(e.Source),
			Created:  e.CreatedAt,
			Updated:  e.UpdatedAt,
		})
	}

	return nil, ListOutput{
		Entries: entries,
	}, nil
}

func (s *Server) handleDelete(ctx context.Context, req *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.store.FindEntry(input.ID)
	if !ok {
		return nil, DeleteOutput{}, fmt.Errorf("entry not found: %s", input.ID)
	}

	s.store.DeleteEntry(input.ID)

	return nil, DeleteOutput{
		Message: fmt.Sprintf("Deleted %q", target.Shortcut),
	}, nil
}

func (s *Server) handleHistory(ctx context.Context, req *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, HistoryOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]HistoryRecord, 0)
	for _, r := range s.store.HistoryEntries() {
		records = append(records, HistoryRecord{
			ID:        r.ID,
			Type:      string(r.Type),
			Timestamp: r.Timestamp,
			Summary:   r.Summary,
		})
	}

	return nil, HistoryOutput{
		Records: records,
	}, nil
}

func (s *Server) handleUndo(ctx context.Context, req *mcp.CallToolRequest, input UndoInput) (*mcp.CallToolResult, UndoOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.store.FindHistoryRecord(input.ID)
	if !ok {
		return nil, UndoOutput{}, fmt.Errorf("history record not found: %s", input.ID)
	}

	historyBefore := len(s.store.HistoryEntries())
	s.store.UndoHistory(input.ID)
	if len(s.store.HistoryEntries()) == historyBefore {
		return nil, UndoOutput{Message: "Already in that state, nothing to undo"}, nil
	}

	return nil, UndoOutput{
		Message: fmt.Sprintf("Reverted %s change (%s)", record.Type, record.Summary),
	}, nil
}

func (s *Server) handleExport(ctx context.Context, req *mcp.CallToolRequest, input ExportInput) (*mcp.CallToolResult, ExportOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.store.ExportRecords()

	return nil, ExportOutput{
		FileName: plist.ExportFileName,
		Content:  plist.Serialize(records),
	}, nil
}
