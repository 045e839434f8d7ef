package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/olkkari/server/internal/authstate"
	"codeberg.org/olkkari/server/internal/identity"
	tea "github.com/charmbracelet/bubbletea"
)

type approvalsAPI interface {
	PendingMembers(ctx context.Context) ([]identity.Profile, error)
	ApproveMember(ctx context.Context, userID string) error
}

// host screen for admitting pending members
type ApprovalsModel struct {
	api     approvalsAPI
	pending []identity.Profile
	cursor  int
	loading bool
	notice  string
	err     error
}

type pendingLoadedMsg struct {
	pending []identity.Profile
}

type memberApprovedMsg struct {
	profile identity.Profile
}

type approvalsErrorMsg struct {
	err error
}

func NewApprovals(api approvalsAPI) *ApprovalsModel {
	return &ApprovalsModel{api: api}
}

func (m *ApprovalsModel) Init() tea.Cmd {
	return nil
}

func (m *ApprovalsModel) SetIdentity(_ authstate.Snapshot, unlocked bool) tea.Cmd {
	if !unlocked {
		m.pending = nil
		m.cursor = 0
		return nil
	}

	m.loading = true
	return m.load
}

func (m *ApprovalsModel) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	pending, err := m.api.PendingMembers(ctx)
	if err != nil {
		return approvalsErrorMsg{err: err}
	}

	return pendingLoadedMsg{pending: pending}
}

func (m *ApprovalsModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pendingLoadedMsg:
		m.loading = false
		m.pending = msg.pending
		if m.cursor >= len(m.pending) {
			m.cursor = 0
		}

	case memberApprovedMsg:
		m.notice = fmt.Sprintf("%s admitted", displayName(msg.profile))
		for i, p := range m.pending {
			if p.ID == msg.profile.ID {
				m.pending = append(m.pending[:i], m.pending[i+1:]...)
				break
			}
		}
		if m.cursor >= len(m.pending) && m.cursor > 0 {
			m.cursor--
		}

	case approvalsErrorMsg:
		m.loading = false
		m.err = msg.err

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.pending)-1 {
				m.cursor++
			}
		case "a", "enter":
			return m, m.approveSelected()
		case "r":
			m.loading = true
			return m, m.load
		}
	}

	return m, nil
}

func (m *ApprovalsModel) approveSelected() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}

	profile := m.pending[m.cursor]
	m.err, m.notice = nil, ""

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.api.ApproveMember(ctx, profile.ID); err != nil {
			return approvalsErrorMsg{err: err}
		}

		return memberApprovedMsg{profile: profile}
	}
}

func (m *ApprovalsModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("APPLICATIONS"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(infoStyle.Render("loading applications..."))
	case len(m.pending) == 0:
		b.WriteString(infoStyle.Render("no one is waiting."))
	default:
		for i, p := range m.pending {
			cursor := "  "
			if i == m.cursor {
				cursor = promptStyle.Render("> ")
			}
			fmt.Fprintf(&b, "%s%-24s %s  applied %s\n", cursor, displayName(p), p.Email, p.CreatedAt.Format("2 Jan"))
		}
	}

	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.notice != "":
		b.WriteString(infoStyle.Render(m.notice))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[↑/↓: select] [a: admit] [r: reload] [esc: back]"))

	return b.String()
}

func displayName(p identity.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}

	return p.Email
}
