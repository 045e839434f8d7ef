package tui

import (
	"testing"

	"codeberg.org/olkkari/server/internal/authstate"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/olkkari/bookings"
	"codeberg.org/olkkari/server/olkkari/catalog"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandNames(cmds []Command) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

func TestWelcome_CommandsFollowIdentity(t *testing.T) {
	tests := []struct {
		name     string
		snap     authstate.Snapshot
		expected []string
	}{
		{
			name:     "guest",
			snap:     authstate.Snapshot{},
			expected: []string{"menu", "concierge", "bookings", "login", "quit"},
		},
		{
			name:     "member",
			snap:     memberSnapshot(true),
			expected: []string{"menu", "concierge", "bookings", "profile", "logout", "quit"},
		},
		{
			name:     "host",
			snap:     authstate.Snapshot{IsMember: true, IsAdmin: true, IsApproved: true},
			expected: []string{"menu", "concierge", "bookings", "profile", "approvals", "logout", "quit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWelcome()
			w.SetIdentity(tt.snap, true)

			assert.Equal(t, tt.expected, commandNames(w.Commands()))
		})
	}
}

func typeCommand(w *Welcome, text string) tea.Cmd {
	for _, r := range text {
		w.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestWelcome_ExecuteCommand(t *testing.T) {
	w := NewWelcome()
	w.SetIdentity(memberSnapshot(true), true)

	msg := runCmd(t, typeCommand(w, "menu"))
	assert.Equal(t, NavigateMsg{Route: RouteMenu}, msg)

	msg = runCmd(t, typeCommand(w, "logout"))
	assert.Equal(t, SignOutMsg{}, msg)
}

func TestWelcome_UnknownCommand(t *testing.T) {
	w := NewWelcome()
	w.SetIdentity(authstate.Snapshot{}, true)

	cmd := typeCommand(w, "approvals")

	assert.Nil(t, cmd, "guests cannot reach approvals")
	assert.Contains(t, w.View(), "unknown command: approvals")
}

func TestIdentityLine(t *testing.T) {
	user := &identity.User{ID: "user-1", Email: "aino@example.com"}

	assert.Equal(t, "checking your membership...", identityLine(authstate.Snapshot{Loading: true}))
	assert.Equal(t, "browsing as a guest", identityLine(authstate.Snapshot{}))
	assert.Contains(t, identityLine(authstate.Snapshot{User: user, IsMember: true}), "application pending")
	assert.Contains(t, identityLine(authstate.Snapshot{User: user, IsMember: true, IsAdmin: true}), "host")
}

func fillForm(m *BookingsModel, values ...string) {
	for i, v := range values {
		m.fields[i].SetValue(v)
	}
}

func TestBookings_Request(t *testing.T) {
	m := NewBookings(nil)
	fillForm(m, " Aino Virtanen ", "aino@example.com", "4", "2026-03-14", "19:30", "window seat")

	req, err := m.Request()

	require.NoError(t, err)
	assert.Equal(t, "Aino Virtanen", req.CustomerName)
	assert.Equal(t, 4, req.Guests)
	assert.Equal(t, "window seat", req.SpecialRequests)
}

func TestBookings_RequestValidation(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		errMsg string
	}{
		{"missing name", []string{"", "aino@example.com", "2", "2026-03-14", "19:30"}, "name and email are required"},
		{"missing email", []string{"Aino", "", "2", "2026-03-14", "19:30"}, "name and email are required"},
		{"guests not a number", []string{"Aino", "aino@example.com", "two", "2026-03-14", "19:30"}, "guests"},
		{"zero guests", []string{"Aino", "aino@example.com", "0", "2026-03-14", "19:30"}, "guests"},
		{"missing time", []string{"Aino", "aino@example.com", "2", "2026-03-14", ""}, "date and time are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBookings(nil)
			fillForm(m, tt.values...)

			_, err := m.Request()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBookings_LockedDropsMemberData(t *testing.T) {
	m := NewBookings(nil)
	m.list = make([]bookings.Booking, 1)
	m.creating = true

	cmd := m.SetIdentity(authstate.Snapshot{}, false)

	assert.Nil(t, cmd)
	assert.Nil(t, m.list)
	assert.False(t, m.creating)
}

func TestCatalogMarkdown(t *testing.T) {
	items := []catalog.MenuItem{
		{Name: "Sourdough", Price: "6 €", Subcategory: "Starters"},
		{Name: "Arctic char", Price: "29 €", Subcategory: "Mains", IsChefChoice: true, Description: "brown butter"},
	}
	wines := []catalog.Wine{{Name: "Chablis", Year: "2021", Region: "Burgundy", Price: "14 €"}}
	events := []catalog.Event{
		{Title: "Jazz trio", Time: "20:00", Description: "live in the lounge", IsTonight: true},
		{Title: "Wine dinner", Date: "2026-03-20", Time: "19:00"},
	}

	md := CatalogMarkdown(items, wines, events)

	assert.Contains(t, md, "# Tonight")
	assert.Contains(t, md, "**Jazz trio** at 20:00")
	assert.Contains(t, md, "## Starters")
	assert.Contains(t, md, "**Arctic char ★** 29 € · brown butter")
	assert.Contains(t, md, "**Chablis 2021, Burgundy** 14 €")
	assert.Contains(t, md, "# Coming up")
	assert.Contains(t, md, "2026-03-20 19:00 · **Wine dinner**")
}

func TestCatalogMarkdown_Empty(t *testing.T) {
	md := CatalogMarkdown(nil, nil, nil)

	assert.Contains(t, md, "still writing tonight's menu")
	assert.NotContains(t, md, "# Tonight")
	assert.NotContains(t, md, "# Coming up")
}
