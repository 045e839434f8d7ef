package tui

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/olkkari/server/internal/authstate"
	"codeberg.org/olkkari/server/internal/gate"
	"codeberg.org/olkkari/server/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
)

const refreshCheckInterval = 30 * time.Second

type authStore interface {
	Snapshot() authstate.Snapshot
	Watch() (<-chan authstate.Snapshot, func())
	SignOut(ctx context.Context) (authstate.Snapshot, error)
	RefreshProfile(ctx context.Context) (authstate.Snapshot, error)
}

type sessionRefresher interface {
	RefreshIfExpiring(ctx context.Context, now time.Time) error
}

// root model: routes between screens and feeds them identity snapshots
type App struct {
	store     authStore
	sessions  sessionRefresher
	watch     <-chan authstate.Snapshot
	stopWatch func()

	screens  map[Route]Screen
	route    Route
	snapshot authstate.Snapshot
	err      error
}

type signedOutMsg struct{}

// wires the screens to the API client and the auth store
func NewApp(store authStore, sessions *SessionStore, client *Client) *App {
	screens := map[Route]Screen{
		RouteWelcome:   NewWelcome(),
		RouteLogin:     NewLogin(sessions, client),
		RouteMenu:      NewMenu(client),
		RouteConcierge: NewConcierge(client),
		RouteBookings: Gated(gate.Gate{
			Requirement: gate.Approved,
			Title:       "Reserve a Table",
			Description: "Reservations are kept for members of the society.",
		}, NewBookings(client)),
		RouteProfile:   Gated(gate.Gate{Requirement: gate.Member}, NewProfile(store)),
		RouteApprovals: Gated(gate.Gate{Requirement: gate.Admin}, NewApprovals(client)),
	}

	return newApp(store, sessions, screens)
}

func newApp(store authStore, sessions sessionRefresher, screens map[Route]Screen) *App {
	return &App{
		store:    store,
		sessions: sessions,
		screens:  screens,
		route:    RouteWelcome,
		snapshot: store.Snapshot(),
	}
}

func (m *App) Route() Route {
	return m.route
}

func (m *App) Init() tea.Cmd {
	m.watch, m.stopWatch = m.store.Watch()

	cmds := []tea.Cmd{waitForSnapshot(m.watch), refreshTick()}
	for _, s := range m.screens {
		cmds = append(cmds, s.Init())
	}

	return tea.Batch(cmds...)
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.close()
			return m, tea.Quit
		case "esc":
			if m.route != RouteWelcome {
				m.route = RouteWelcome
				m.err = nil
				return m, nil
			}
		}

		return m, m.updateCurrent(msg)

	case tea.MouseMsg:
		return m, m.updateCurrent(msg)

	case SnapshotMsg:
		return m, tea.Batch(m.applySnapshot(msg.Snapshot), waitForSnapshot(m.watch))

	case watchClosedMsg:
		return m, nil

	case NavigateMsg:
		return m, m.navigate(msg.Route)

	case SignOutMsg:
		return m, m.signOut

	case signedOutMsg:
		return m, m.navigate(RouteWelcome)

	case refreshTickMsg:
		return m, tea.Batch(m.refreshSession, refreshTick())

	case ErrorMsg:
		m.err = msg.err
		return m, nil
	}

	// async results and ticks go to every screen; each ignores what is not its own
	var cmds []tea.Cmd
	for route, s := range m.screens {
		next, cmd := s.Update(msg)
		m.screens[route] = next
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *App) View() string {
	screen, ok := m.screens[m.route]
	if !ok {
		return "Unknown screen"
	}

	view := screen.View()
	if m.err != nil {
		view += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return view
}

func (m *App) updateCurrent(msg tea.Msg) tea.Cmd {
	screen, ok := m.screens[m.route]
	if !ok {
		return nil
	}

	next, cmd := screen.Update(msg)
	m.screens[m.route] = next

	return cmd
}

func (m *App) applySnapshot(snap authstate.Snapshot) tea.Cmd {
	m.snapshot = snap

	var cmds []tea.Cmd
	for _, s := range m.screens {
		if aware, ok := s.(identityAware); ok {
			cmds = append(cmds, aware.SetIdentity(snap, true))
		}
	}

	return tea.Batch(cmds...)
}

func (m *App) navigate(route Route) tea.Cmd {
	if route == RouteLogin && m.snapshot.IsMember {
		route = RouteProfile
	}

	screen, ok := m.screens[route]
	if !ok {
		logger.Warn("navigation to unknown route", "route", string(route))
		return nil
	}

	m.route = route
	m.err = nil

	return screen.Init()
}

func (m *App) signOut() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if _, err := m.store.SignOut(ctx); err != nil {
		return ErrorMsg{err: err}
	}

	return signedOutMsg{}
}

func (m *App) refreshSession() tea.Msg {
	if m.sessions == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := m.sessions.RefreshIfExpiring(ctx, time.Now()); err != nil {
		logger.WarnErr(err, "session refresh failed")
	}

	return nil
}

func (m *App) close() {
	if m.stopWatch != nil {
		m.stopWatch()
	}
}

func waitForSnapshot(ch <-chan authstate.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}

		return SnapshotMsg{Snapshot: snap}
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshCheckInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}
