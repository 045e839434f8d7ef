package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/olkkari/server/internal/authstate"
	tea "github.com/charmbracelet/bubbletea"
)

type profileRefresher interface {
	RefreshProfile(ctx context.Context) (authstate.Snapshot, error)
}

// membership status. pending members reach it through the approval upsell.
type ProfileModel struct {
	store    profileRefresher
	snapshot authstate.Snapshot
	busy     bool
	err      error
}

type profileRefreshedMsg struct {
	err error
}

func NewProfile(store profileRefresher) *ProfileModel {
	return &ProfileModel{store: store}
}

func (m *ProfileModel) Init() tea.Cmd {
	return nil
}

func (m *ProfileModel) SetIdentity(snap authstate.Snapshot, _ bool) tea.Cmd {
	m.snapshot = snap
	return nil
}

func (m *ProfileModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "r" && !m.busy {
			m.busy = true
			m.err = nil
			return m, m.refresh
		}

	case profileRefreshedMsg:
		m.busy = false
		m.err = msg.err
	}

	return m, nil
}

// re-checks the profile row; the new snapshot arrives through the watcher
func (m *ProfileModel) refresh() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	_, err := m.store.RefreshProfile(ctx)
	return profileRefreshedMsg{err: err}
}

func (m *ProfileModel) Status() string {
	switch {
	case m.snapshot.IsAdmin:
		return "Host"
	case m.snapshot.IsApproved:
		return "Member"
	default:
		return "Application pending"
	}
}

func (m *ProfileModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("YOUR MEMBERSHIP"))
	b.WriteString("\n\n")

	user := m.snapshot.User
	profile := m.snapshot.Profile

	name := user.DisplayName()
	if profile != nil && profile.FullName != "" {
		name = profile.FullName
	}

	lines := []string{
		fmt.Sprintf("name     %s", name),
		fmt.Sprintf("email    %s", emailOf(m.snapshot)),
		fmt.Sprintf("status   %s", m.Status()),
	}

	if profile != nil && profile.LoyaltyPoints != nil {
		lines = append(lines, fmt.Sprintf("points   %d", *profile.LoyaltyPoints))
	}

	if profile != nil && !profile.CreatedAt.IsZero() {
		lines = append(lines, fmt.Sprintf("since    %s", profile.CreatedAt.Format("2 Jan 2006")))
	}

	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	switch {
	case m.busy || m.snapshot.Loading:
		b.WriteString(infoStyle.Render("checking with the house..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render("could not reach the house: " + m.err.Error()))
	case m.snapshot.Profile == nil && m.snapshot.Resolution.Err != nil:
		b.WriteString(infoStyle.Render("showing details from your sign-in; the house record is unavailable."))
	case !m.snapshot.IsApproved && !m.snapshot.IsAdmin:
		b.WriteString(infoStyle.Render("our hosts review each application personally."))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[r: check status] [esc: back]"))

	return b.String()
}

func emailOf(snap authstate.Snapshot) string {
	if snap.Profile != nil && snap.Profile.Email != "" {
		return snap.Profile.Email
	}

	if snap.User != nil {
		return snap.User.Email
	}

	return ""
}
