package tui

import (
	"strings"

	"codeberg.org/olkkari/server/internal/authstate"
	"codeberg.org/olkkari/server/internal/gate"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// puts a screen behind an access gate. while loading nothing renders;
// when locked the screen is shown dimmed under the upsell and receives
// no input.
type GatedScreen struct {
	gate     gate.Gate
	child    Screen
	decision gate.Decision
	width    int
}

func Gated(g gate.Gate, child Screen) *GatedScreen {
	return &GatedScreen{
		gate:     g,
		child:    child,
		decision: g.Evaluate(true, authstate.Snapshot{}.Access()),
	}
}

func (g *GatedScreen) Decision() gate.Decision {
	return g.decision
}

func (g *GatedScreen) Init() tea.Cmd {
	return g.child.Init()
}

func (g *GatedScreen) SetIdentity(snap authstate.Snapshot, _ bool) tea.Cmd {
	g.decision = g.gate.Evaluate(snap.Loading, snap.Access())

	child, ok := g.child.(identityAware)
	if !ok {
		return nil
	}

	// the child keeps its state until the outcome is known
	if g.decision.Outcome == gate.OutcomeHidden {
		return nil
	}

	return child.SetIdentity(snap, g.decision.Outcome == gate.OutcomeUnlocked)
}

func (g *GatedScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		g.width = size.Width
	}

	if isInput(msg) {
		switch g.decision.Outcome {
		case gate.OutcomeHidden:
			return g, nil
		case gate.OutcomeLocked:
			return g, g.upsellKey(msg)
		}
	}

	var cmd tea.Cmd
	g.child, cmd = g.child.Update(msg)

	return g, cmd
}

func (g *GatedScreen) View() string {
	switch g.decision.Outcome {
	case gate.OutcomeHidden:
		return ""
	case gate.OutcomeUnlocked:
		return g.child.View()
	}

	return renderLocked(g.child.View(), g.decision.Upsell, g.width)
}

func (g *GatedScreen) upsellKey(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || g.decision.Upsell == nil {
		return nil
	}

	switch key.String() {
	case "enter":
		return navigate(Route(g.decision.Upsell.ActionRoute))
	case "esc":
		return navigate(Route(g.decision.Upsell.SecondaryRoute))
	}

	return nil
}

func isInput(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		return true
	}

	return false
}

// upsell card on top of the dimmed content
func renderLocked(content string, u *gate.Upsell, width int) string {
	if u == nil {
		return dimmedStyle.Render(content)
	}

	var card strings.Builder
	card.WriteString(upsellTitleStyle.Render(u.Title))
	card.WriteString("\n\n")
	card.WriteString(u.Description)
	card.WriteString("\n\n")
	card.WriteString(primaryActionStyle.Render("⏎ " + u.ActionLabel))
	card.WriteString("  ")
	card.WriteString(secondaryActionStyle.Render("esc " + u.SecondaryLabel))

	overlay := upsellStyle.Render(card.String())
	if width > 0 {
		overlay = lipgloss.PlaceHorizontal(width, lipgloss.Center, overlay)
	}

	return lipgloss.JoinVertical(lipgloss.Left, overlay, dimmedStyle.Render(content))
}
