package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/olkkari/server/internal/authstate"
	"codeberg.org/olkkari/server/internal/llm"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// turns kept on the client; the server trims further
const maxClientHistory = 40

type chatAPI interface {
	Chat(ctx context.Context, req chatRequest) (*chatResponse, error)
}

type ConciergeModel struct {
	api            chatAPI
	input          textinput.Model
	viewport       viewport.Model
	spinner        spinner.Model
	renderer       *glamour.TermRenderer
	history        []llm.Message
	conversationID string
	metadata       string
	width          int
	ready          bool
	isFetching     bool
	err            error
}

type chatReplyMsg struct {
	reply *chatResponse
}

type chatErrorMsg struct {
	err error
}

func NewConcierge(api chatAPI) *ConciergeModel {
	ti := textinput.New()
	ti.Placeholder = "ask about tonight, the wines, a private chef..."
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorBrass)

	return &ConciergeModel{api: api, input: ti, spinner: sp}
}

func (m *ConciergeModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// a new identity starts a new conversation
func (m *ConciergeModel) SetIdentity(snap authstate.Snapshot, _ bool) tea.Cmd {
	if !snap.Loading {
		m.Reset()
	}

	return nil
}

func (m *ConciergeModel) Reset() {
	m.history = nil
	m.conversationID = ""
	m.metadata = ""
	m.err = nil
	m.refresh()
}

func (m *ConciergeModel) History() []llm.Message {
	return m.history
}

func (m *ConciergeModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 6

		height := msg.Height - 8
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = height
		}

		m.renderer = newRenderer(msg.Width - 6)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.send()
		case "ctrl+l":
			m.Reset()
			return m, nil
		}

	case chatReplyMsg:
		m.isFetching = false
		m.conversationID = msg.reply.ConversationID
		m.history = append(m.history, llm.Message{Role: llm.RoleAssistant, Content: msg.reply.Reply})
		m.metadata = fmt.Sprintf("context: %d items | model: %s", msg.reply.ContextItems, msg.reply.Model)
		m.refresh()
		return m, nil

	case chatErrorMsg:
		m.isFetching = false
		m.err = msg.err
		// drop the unanswered question so it is not replayed as history
		if n := len(m.history); n > 0 && m.history[n-1].Role == llm.RoleUser {
			m.history = m.history[:n-1]
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *ConciergeModel) send() tea.Cmd {
	message := strings.TrimSpace(m.input.Value())
	if message == "" || m.isFetching {
		return nil
	}

	req := chatRequest{
		Message:        message,
		History:        append([]llm.Message(nil), m.history...),
		ConversationID: m.conversationID,
	}

	m.input.SetValue("")
	m.isFetching = true
	m.err = nil
	m.history = append(m.history, llm.Message{Role: llm.RoleUser, Content: message})

	if len(m.history) > maxClientHistory {
		m.history = m.history[len(m.history)-maxClientHistory:]
	}

	m.refresh()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		reply, err := m.api.Chat(ctx, req)
		if err != nil {
			return chatErrorMsg{err: err}
		}

		return chatReplyMsg{reply: reply}
	}
}

func (m *ConciergeModel) refresh() {
	if !m.ready {
		return
	}

	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}

func (m *ConciergeModel) transcript() string {
	if len(m.history) == 0 {
		return infoStyle.Render("good evening. what can the house do for you?")
	}

	var b strings.Builder

	for _, msg := range m.history {
		if msg.Role == llm.RoleUser {
			b.WriteString(promptStyle.Render("you: "))
			b.WriteString(msg.Content)
			b.WriteString("\n\n")
			continue
		}

		b.WriteString(renderMarkdown(m.renderer, msg.Content))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *ConciergeModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("CONCIERGE"))
	b.WriteString("  ")
	b.WriteString(helpStyle.UnsetMarginTop().Render("[enter: send] [ctrl+l: new conversation] [esc: back]"))
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.transcript())
	}

	b.WriteString("\n")

	switch {
	case m.isFetching:
		b.WriteString(m.spinner.View() + infoStyle.Render(" the concierge is thinking..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.metadata != "":
		b.WriteString(infoStyle.Render(m.metadata))
	}

	b.WriteString("\n")

	width := m.width - 4
	if width < 20 {
		width = 76
	}

	b.WriteString(boxStyle.Width(width).Render(m.input.View()))

	return b.String()
}
