package tui

import (
	"testing"

	"codeberg.org/olkkari/server/internal/authstate"
	"codeberg.org/olkkari/server/internal/gate"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScreen struct {
	view      string
	received  []tea.Msg
	unlocked  []bool
	identityCalls int
}

func (f *fakeScreen) Init() tea.Cmd { return nil }

func (f *fakeScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	f.received = append(f.received, msg)
	return f, nil
}

func (f *fakeScreen) View() string { return f.view }

func (f *fakeScreen) SetIdentity(_ authstate.Snapshot, unlocked bool) tea.Cmd {
	f.identityCalls++
	f.unlocked = append(f.unlocked, unlocked)
	return nil
}

func memberSnapshot(approved bool) authstate.Snapshot {
	return authstate.Snapshot{IsMember: true, IsApproved: approved}
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestGated_HiddenWhileLoading(t *testing.T) {
	child := &fakeScreen{view: "secret table list"}
	g := Gated(gate.Gate{Requirement: gate.Approved}, child)

	assert.Equal(t, gate.OutcomeHidden, g.Decision().Outcome)
	assert.Equal(t, "", g.View())

	g.SetIdentity(authstate.Snapshot{Loading: true, IsMember: true}, true)
	assert.Equal(t, "", g.View())
	assert.Zero(t, child.identityCalls, "child is not told anything while hidden")

	_, cmd := g.Update(keyMsg("n"))
	assert.Nil(t, cmd)
	assert.Empty(t, child.received)
}

func TestGated_LockedIsInert(t *testing.T) {
	child := &fakeScreen{view: "secret table list"}
	g := Gated(gate.Gate{Requirement: gate.Approved}, child)

	g.SetIdentity(memberSnapshot(false), true)

	require.Equal(t, gate.OutcomeLocked, g.Decision().Outcome)
	assert.Equal(t, []bool{false}, child.unlocked)

	_, cmd := g.Update(keyMsg("n"))
	assert.Nil(t, cmd)
	assert.Empty(t, child.received, "input must not reach locked content")

	view := g.View()
	assert.Contains(t, view, "Admission Pending")
	assert.Contains(t, view, "secret table list")
}

func TestGated_LockedForwardsNonInput(t *testing.T) {
	child := &fakeScreen{}
	g := Gated(gate.Gate{Requirement: gate.Approved}, child)
	g.SetIdentity(authstate.Snapshot{}, true)

	g.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	require.Len(t, child.received, 1)
	assert.IsType(t, tea.WindowSizeMsg{}, child.received[0])
}

func TestGated_UpsellActions(t *testing.T) {
	tests := []struct {
		name     string
		snap     authstate.Snapshot
		key      string
		expected Route
	}{
		{"visitor signs in", authstate.Snapshot{}, "enter", RouteLogin},
		{"pending member sees status", memberSnapshot(false), "enter", RouteProfile},
		{"secondary goes back", memberSnapshot(false), "esc", RouteWelcome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Gated(gate.Gate{Requirement: gate.Approved}, &fakeScreen{})
			g.SetIdentity(tt.snap, true)

			_, cmd := g.Update(keyMsg(tt.key))
			msg := runCmd(t, cmd)

			assert.Equal(t, NavigateMsg{Route: tt.expected}, msg)
		})
	}
}

func TestGated_UnlockedForwardsInput(t *testing.T) {
	child := &fakeScreen{view: "tables"}
	g := Gated(gate.Gate{Requirement: gate.Approved}, child)

	g.SetIdentity(memberSnapshot(true), true)

	assert.Equal(t, gate.OutcomeUnlocked, g.Decision().Outcome)
	assert.Equal(t, []bool{true}, child.unlocked)
	assert.Equal(t, "tables", g.View())

	g.Update(keyMsg("n"))
	assert.Len(t, child.received, 1)
}

func TestGated_AdminSatisfiesApproved(t *testing.T) {
	g := Gated(gate.Gate{Requirement: gate.Approved}, &fakeScreen{})

	g.SetIdentity(authstate.Snapshot{IsMember: true, IsAdmin: true}, true)

	assert.Equal(t, gate.OutcomeUnlocked, g.Decision().Outcome)
}

func TestGated_SignOutRelocks(t *testing.T) {
	child := &fakeScreen{}
	g := Gated(gate.Gate{Requirement: gate.Member}, child)

	g.SetIdentity(memberSnapshot(false), true)
	require.Equal(t, gate.OutcomeUnlocked, g.Decision().Outcome)

	g.SetIdentity(authstate.Snapshot{}, true)

	assert.Equal(t, gate.OutcomeLocked, g.Decision().Outcome)
	assert.Equal(t, gate.ReasonSignIn, g.Decision().Upsell.Reason)
	assert.Equal(t, []bool{true, false}, child.unlocked)
}
