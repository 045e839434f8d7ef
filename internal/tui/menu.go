package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/olkkari/server/olkkari/catalog"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

type catalogAPI interface {
	Menu(ctx context.Context) ([]catalog.MenuItem, error)
	Wines(ctx context.Context) ([]catalog.Wine, error)
	Events(ctx context.Context) ([]catalog.Event, error)
}

type MenuModel struct {
	api      catalogAPI
	viewport viewport.Model
	renderer *glamour.TermRenderer
	ready    bool
	loaded   bool
	markdown string
	err      error
}

type catalogLoadedMsg struct {
	items  []catalog.MenuItem
	wines  []catalog.Wine
	events []catalog.Event
}

type catalogErrorMsg struct {
	err error
}

func NewMenu(api catalogAPI) *MenuModel {
	return &MenuModel{api: api}
}

func (m *MenuModel) Init() tea.Cmd {
	if m.loaded {
		return nil
	}

	return m.load
}

func (m *MenuModel) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	items, err := m.api.Menu(ctx)
	if err != nil {
		return catalogErrorMsg{err: err}
	}

	wines, err := m.api.Wines(ctx)
	if err != nil {
		return catalogErrorMsg{err: err}
	}

	events, err := m.api.Events(ctx)
	if err != nil {
		return catalogErrorMsg{err: err}
	}

	return catalogLoadedMsg{items: items, wines: wines, events: events}
}

func (m *MenuModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}

		m.renderer = newRenderer(msg.Width - 4)
		m.refresh()

	case catalogLoadedMsg:
		m.loaded = true
		m.err = nil
		m.markdown = CatalogMarkdown(msg.items, msg.wines, msg.events)
		m.refresh()
		return m, nil

	case catalogErrorMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, m.load
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

func (m *MenuModel) refresh() {
	if m.ready && m.markdown != "" {
		m.viewport.SetContent(renderMarkdown(m.renderer, m.markdown))
	}
}

func (m *MenuModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("MENU · WINES · EVENTS"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case !m.loaded:
		b.WriteString(infoStyle.Render("setting the table..."))
	case m.ready:
		b.WriteString(m.viewport.View())
	default:
		b.WriteString(m.markdown)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[↑/↓: scroll] [r: reload] [esc: back]"))

	return b.String()
}

// markdown page for the catalog
func CatalogMarkdown(items []catalog.MenuItem, wines []catalog.Wine, events []catalog.Event) string {
	var b strings.Builder

	tonight := make([]catalog.Event, 0, len(events))
	for _, e := range events {
		if e.IsTonight {
			tonight = append(tonight, e)
		}
	}

	if len(tonight) > 0 {
		b.WriteString("# Tonight\n\n")
		for _, e := range tonight {
			fmt.Fprintf(&b, "- **%s** at %s: %s\n", e.Title, e.Time, e.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("# Menu\n\n")
	if len(items) == 0 {
		b.WriteString("_The kitchen is still writing tonight's menu._\n\n")
	}

	section := ""
	for _, item := range items {
		if item.Subcategory != section {
			section = item.Subcategory
			if section != "" {
				fmt.Fprintf(&b, "\n## %s\n\n", section)
			}
		}

		name := item.Name
		if item.IsChefChoice {
			name += " ★"
		}

		fmt.Fprintf(&b, "- **%s** %s", name, item.Price)
		if item.Description != "" {
			fmt.Fprintf(&b, " · %s", item.Description)
		}
		b.WriteString("\n")
	}

	if len(wines) > 0 {
		b.WriteString("\n# Wines\n\n")
		for _, w := range wines {
			label := strings.TrimSpace(strings.Join([]string{w.Name, w.Year}, " "))
			if w.Region != "" {
				label += ", " + w.Region
			}
			fmt.Fprintf(&b, "- **%s** %s\n", label, w.Price)
		}
	}

	upcoming := len(events) - len(tonight)
	if upcoming > 0 {
		b.WriteString("\n# Coming up\n\n")
		for _, e := range events {
			if !e.IsTonight {
				fmt.Fprintf(&b, "- %s %s · **%s**\n", e.Date, e.Time, e.Title)
			}
		}
	}

	return b.String()
}
