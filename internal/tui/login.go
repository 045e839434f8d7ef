package tui

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/olkkari/server/internal/authstate"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type signer interface {
	SignIn(ctx context.Context, email, password string) error
}

type magicLinker interface {
	SendMagicLink(ctx context.Context, email string) error
}

type LoginModel struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	notice   string
	err      error

	signer signer
	links  magicLinker
}

type signedInMsg struct{}

type magicLinkSentMsg struct {
	email string
}

type loginErrorMsg struct {
	err error
}

func NewLogin(s signer, links magicLinker) *LoginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "email    > "
	email.PromptStyle = promptStyle
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "password > "
	password.PromptStyle = promptStyle
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginModel{email: email, password: password, signer: s, links: links}
}

func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *LoginModel) SetIdentity(snap authstate.Snapshot, _ bool) tea.Cmd {
	if snap.IsMember && m.busy {
		m.busy = false
	}

	return nil
}

func (m *LoginModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.toggleFocus()
			return m, nil

		case "enter":
			return m, m.submit()

		case "ctrl+e":
			return m, m.sendMagicLink()
		}

	case signedInMsg:
		m.busy = false
		m.password.SetValue("")
		return m, navigate(RouteWelcome)

	case magicLinkSentMsg:
		m.busy = false
		m.notice = fmt.Sprintf("a sign-in link is on its way to %s", msg.email)
		return m, nil

	case loginErrorMsg:
		m.busy = false
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}

	return m, cmd
}

func (m *LoginModel) toggleFocus() {
	m.focus = 1 - m.focus

	if m.focus == 0 {
		m.password.Blur()
		m.email.Focus()
	} else {
		m.email.Blur()
		m.password.Focus()
	}
}

func (m *LoginModel) submit() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	if email == "" || password == "" {
		m.err = fmt.Errorf("email and password are required")
		return nil
	}

	m.busy, m.err, m.notice = true, nil, ""

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.signer.SignIn(ctx, email, password); err != nil {
			return loginErrorMsg{err: err}
		}

		return signedInMsg{}
	}
}

func (m *LoginModel) sendMagicLink() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	if email == "" {
		m.err = fmt.Errorf("enter your email first")
		return nil
	}

	m.busy, m.err, m.notice = true, nil, ""

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if err := m.links.SendMagicLink(ctx, email); err != nil {
			return loginErrorMsg{err: err}
		}

		return magicLinkSentMsg{email: email}
	}
}

func (m *LoginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SIGN IN"))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.email.View() + "\n" + m.password.View()))
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(infoStyle.Render("signing in..."))
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.notice != "":
		b.WriteString(infoStyle.Render(m.notice))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("[tab: switch field] [enter: sign in] [ctrl+e: email me a link] [esc: back]"))

	return b.String()
}
