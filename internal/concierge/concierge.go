package concierge

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"codeberg.org/olkkari/server/internal/llm"
	"codeberg.org/olkkari/server/internal/logger"
	"codeberg.org/olkkari/server/olkkari/chatlogs"
)

const (
	// turns of history forwarded to the model
	MaxHistory = 20

	MaxMessageLength = 2000

	knowledgeResults = 4
)

func New(generator llm.TextGenerator, catalog Catalog, knowledge Knowledge, logs ChatLog) *Concierge {
	return &Concierge{
		generator: generator,
		catalog:   catalog,
		knowledge: knowledge,
		logs:      logs,
	}
}

// runs one chat turn
func (c *Concierge) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	if len(message) > MaxMessageLength {
		return nil, fmt.Errorf("message exceeds %d characters", MaxMessageLength)
	}

	conversationID := req.ConversationID
	if _, err := uuid.Parse(conversationID); err != nil {
		conversationID = uuid.NewString()
	}

	house := c.gatherContext(ctx, message)

	messages := append(TrimHistory(req.History, MaxHistory), llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := c.generator.GenerateText(ctx, llm.TextGenerationRequest{
		SystemPrompt: buildSystemPrompt(house),
		Messages:     messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	reply := strings.TrimSpace(resp.Text)
	if reply == "" {
		reply = FallbackReply
	}

	out := &ChatResponse{
		Reply:          reply,
		ConversationID: conversationID,
		Model:          modelName(c.generator),
		ContextItems:   house.size(),
		InputTokens:    resp.Usage.InputTokens,
		OutputTokens:   resp.Usage.OutputTokens,
	}

	c.record(ctx, req.UserID, message, out)

	return out, nil
}

// keeps the last n well-formed turns. the result never starts with an
// assistant turn.
func TrimHistory(history []llm.Message, n int) []llm.Message {
	cleaned := make([]llm.Message, 0, len(history))

	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}

		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			continue
		}

		cleaned = append(cleaned, m)
	}

	if len(cleaned) > n {
		cleaned = cleaned[len(cleaned)-n:]
	}

	for len(cleaned) > 0 && cleaned[0].Role != llm.RoleUser {
		cleaned = cleaned[1:]
	}

	return cleaned
}

// failures here only shrink the prompt
func (c *Concierge) gatherContext(ctx context.Context, message string) HouseContext {
	var house HouseContext

	if c.catalog != nil {
		var err error

		if house.Menu, err = c.catalog.ListMenu(ctx, ""); err != nil {
			logger.WarnErr(err, "concierge failed to load menu")
		}

		if house.Events, err = c.catalog.ListEvents(ctx); err != nil {
			logger.WarnErr(err, "concierge failed to load events")
		}

		if house.Staff, err = c.catalog.ListStaff(ctx); err != nil {
			logger.WarnErr(err, "concierge failed to load staff")
		}

		if house.Art, err = c.catalog.ListArt(ctx); err != nil {
			logger.WarnErr(err, "concierge failed to load art")
		}
	}

	if c.knowledge != nil {
		entries, err := c.knowledge.Relevant(ctx, message, knowledgeResults)
		if err != nil {
			logger.WarnErr(err, "concierge failed to load knowledge")
		}
		house.Knowledge = entries
	}

	return house
}

func (c *Concierge) record(ctx context.Context, userID, message string, out *ChatResponse) {
	if c.logs == nil {
		return
	}

	entry := &chatlogs.Entry{
		ConversationID: out.ConversationID,
		Message:        message,
		Reply:          out.Reply,
		Model:          out.Model,
		InputTokens:    out.InputTokens,
		OutputTokens:   out.OutputTokens,
	}

	if userID != "" {
		entry.UserID = &userID
	}

	if err := c.logs.Insert(ctx, entry); err != nil {
		logger.WarnErr(err, "failed to save chat log", "conversation_id", out.ConversationID)
	}
}

func modelName(g llm.TextGenerator) string {
	if m, ok := g.(interface{ Model() string }); ok {
		return m.Model()
	}

	return ""
}
