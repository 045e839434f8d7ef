package tui

import (
	"codeberg.org/olkkari/server/internal/authstate"
	tea "github.com/charmbracelet/bubbletea"
)

// client routes; the gate's upsell actions use the same paths
type Route string

const (
	RouteWelcome   Route = "/welcome"
	RouteLogin     Route = "/login"
	RouteMenu      Route = "/menu"
	RouteConcierge Route = "/concierge"
	RouteBookings  Route = "/bookings"
	RouteProfile   Route = "/profile"
	RouteApprovals Route = "/approvals"
)

// one routed page of the app
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
}

// screens that react to identity changes. unlocked is false while a
// gate in front of the screen is closed; screens drop member data then.
type identityAware interface {
	SetIdentity(snap authstate.Snapshot, unlocked bool) tea.Cmd
}

// sent when the auth store publishes a new snapshot
type SnapshotMsg struct {
	Snapshot authstate.Snapshot
}

// asks the app to switch screens
type NavigateMsg struct {
	Route Route
}

// asks the app to sign out
type SignOutMsg struct{}

// sent when the store's watch channel closes
type watchClosedMsg struct{}

type refreshTickMsg struct{}

// sent when an operation fails
type ErrorMsg struct {
	err error
}

func navigate(r Route) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Route: r}
	}
}
