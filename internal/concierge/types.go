package concierge

import (
	"context"
	"errors"

	"codeberg.org/olkkari/server/internal/knowledge"
	"codeberg.org/olkkari/server/internal/llm"
	"codeberg.org/olkkari/server/olkkari/catalog"
	"codeberg.org/olkkari/server/olkkari/chatlogs"
)

var ErrEmptyMessage = errors.New("message is required")

// catalog tables the concierge reads for context
type Catalog interface {
	ListMenu(ctx context.Context, subcategory string) ([]catalog.MenuItem, error)
	ListEvents(ctx context.Context) ([]catalog.Event, error)
	ListStaff(ctx context.Context) ([]catalog.StaffMember, error)
	ListArt(ctx context.Context) ([]catalog.ArtPiece, error)
}

type Knowledge interface {
	Relevant(ctx context.Context, query string, limit int) ([]knowledge.Entry, error)
}

type ChatLog interface {
	Insert(ctx context.Context, entry *chatlogs.Entry) error
}

// answers guest questions with house context. catalog, knowledge and
// logs are optional.
type Concierge struct {
	generator llm.TextGenerator
	catalog   Catalog
	knowledge Knowledge
	logs      ChatLog
}

type ChatRequest struct {
	Message        string
	History        []llm.Message
	ConversationID string
	UserID         string
}

type ChatResponse struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversation_id"`
	Model          string `json:"model,omitempty"`
	ContextItems   int    `json:"context_items"`
	InputTokens    int    `json:"input_tokens"`
	OutputTokens   int    `json:"output_tokens"`
}

// everything injected into the system prompt
type HouseContext struct {
	Menu      []catalog.MenuItem
	Events    []catalog.Event
	Staff     []catalog.StaffMember
	Art       []catalog.ArtPiece
	Knowledge []knowledge.Entry
}

func (h HouseContext) size() int {
	return len(h.Menu) + len(h.Events) + len(h.Staff) + len(h.Art) + len(h.Knowledge)
}
