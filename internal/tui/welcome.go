package tui

import (
	"fmt"
	"strings"

	"codeberg.org/olkkari/server/internal/authstate"
	tea "github.com/charmbracelet/bubbletea"
)

type Welcome struct {
	input    string
	notice   string
	snapshot authstate.Snapshot
}

type Command struct {
	Name        string
	Description string
	Route       Route
}

func NewWelcome() *Welcome {
	return &Welcome{snapshot: authstate.Snapshot{Loading: true}}
}

func (m *Welcome) Init() tea.Cmd {
	return nil
}

func (m *Welcome) SetIdentity(snap authstate.Snapshot, _ bool) tea.Cmd {
	m.snapshot = snap
	return nil
}

// commands offered for the current identity
func (m *Welcome) Commands() []Command {
	commands := []Command{
		{Name: "menu", Description: "tonight's menu, wines and events", Route: RouteMenu},
		{Name: "concierge", Description: "ask the house concierge", Route: RouteConcierge},
		{Name: "bookings", Description: "reserve a table (members)", Route: RouteBookings},
	}

	if m.snapshot.IsMember {
		commands = append(commands, Command{Name: "profile", Description: "membership and loyalty", Route: RouteProfile})
	} else {
		commands = append(commands, Command{Name: "login", Description: "sign in to the society", Route: RouteLogin})
	}

	if m.snapshot.IsAdmin {
		commands = append(commands, Command{Name: "approvals", Description: "review membership applications", Route: RouteApprovals})
	}

	if m.snapshot.IsMember {
		commands = append(commands, Command{Name: "logout", Description: "sign out"})
	}

	return append(commands, Command{Name: "quit", Description: "leave Olkkari"})
}

func (m *Welcome) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			return m, m.executeCommand()
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		default:
			if len(msg.String()) == 1 {
				m.input += msg.String()
			}
		}
	}

	return m, nil
}

func (m *Welcome) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("ravinteli olkkari · the living room of the city"))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(identityLine(m.snapshot)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("commands:"))
	b.WriteString("\n\n")

	for _, cmd := range m.Commands() {
		line := fmt.Sprintf("  %s %s",
			commandStyle.Render(cmd.Name),
			commandDescStyle.Render("- "+cmd.Description),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render("> ") + inputStyle.Render(m.input+"_"))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(errorStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("type a command and press enter. esc returns here, ctrl+c quits."))

	return b.String()
}

func (m *Welcome) executeCommand() tea.Cmd {
	name := strings.TrimSpace(m.input)
	m.input = ""
	m.notice = ""

	if name == "" {
		return nil
	}

	for _, cmd := range m.Commands() {
		if cmd.Name != name {
			continue
		}

		switch name {
		case "quit":
			return tea.Quit
		case "logout":
			return func() tea.Msg { return SignOutMsg{} }
		default:
			return navigate(cmd.Route)
		}
	}

	m.notice = fmt.Sprintf("unknown command: %s", name)
	return nil
}

func identityLine(snap authstate.Snapshot) string {
	switch {
	case snap.Loading && snap.User == nil:
		return "checking your membership..."
	case snap.User == nil:
		return "browsing as a guest"
	}

	status := "application pending"
	switch {
	case snap.IsAdmin:
		status = "host"
	case snap.IsApproved:
		status = "member"
	}

	if snap.Loading {
		status += " (confirming...)"
	}

	return fmt.Sprintf("signed in as %s · %s", snap.User.Email, status)
}
