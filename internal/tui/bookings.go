package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/olkkari/server/internal/authstate"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/olkkari/bookings"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type bookingsAPI interface {
	Bookings(ctx context.Context) ([]bookings.Booking, error)
	CreateBooking(ctx context.Context, req bookings.CreateBookingRequest) (*bookings.Booking, error)
}

const (
	fieldName = iota
	fieldEmail
	fieldGuests
	fieldDate
	fieldTime
	fieldRequests
	fieldCount
)

type BookingsModel struct {
	api      bookingsAPI
	list     []bookings.Booking
	fields   []textinput.Model
	focus    int
	creating bool
	loading  bool
	notice   string
	err      error
	user     *identity.User
}

type bookingsLoadedMsg struct {
	list []bookings.Booking
}

type bookingCreatedMsg struct {
	booking *bookings.Booking
}

type bookingsErrorMsg struct {
	err error
}

func NewBookings(api bookingsAPI) *BookingsModel {
	placeholders := []string{"name", "email", "guests", "date (YYYY-MM-DD)", "time (HH:MM)", "special requests"}

	fields := make([]textinput.Model, fieldCount)
	for i := range fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = fmt.Sprintf("%-9s> ", strings.Fields(placeholders[i])[0])
		ti.PromptStyle = promptStyle
		fields[i] = ti
	}

	fields[fieldGuests].CharLimit = 2
	fields[fieldRequests].CharLimit = 1000

	return &BookingsModel{api: api, fields: fields}
}

func (m *BookingsModel) Init() tea.Cmd {
	return nil
}

func (m *BookingsModel) SetIdentity(snap authstate.Snapshot, unlocked bool) tea.Cmd {
	if !unlocked {
		m.list = nil
		m.user = nil
		m.creating = false
		return nil
	}

	m.user = snap.User
	m.loading = true

	return m.load
}

func (m *BookingsModel) load() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	list, err := m.api.Bookings(ctx)
	if err != nil {
		return bookingsErrorMsg{err: err}
	}

	return bookingsLoadedMsg{list: list}
}

func (m *BookingsModel) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bookingsLoadedMsg:
		m.loading = false
		m.list = msg.list
		return m, nil

	case bookingCreatedMsg:
		m.creating = false
		m.notice = fmt.Sprintf("table for %d requested on %s at %s. we'll confirm by email.",
			msg.booking.Guests, msg.booking.Date, msg.booking.Time)
		m.list = append([]bookings.Booking{*msg.booking}, m.list...)
		return m, nil

	case bookingsErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if !m.creating {
			switch msg.String() {
			case "n":
				return m, m.openForm()
			case "r":
				m.loading = true
				return m, m.load
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+x":
			m.creating = false
			return m, nil
		case "tab", "down":
			m.focusField(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.focusField(m.focus - 1)
			return m, nil
		case "ctrl+s":
			return m, m.submit()
		case "enter":
			if m.focus == fieldRequests {
				return m, m.submit()
			}
			m.focusField(m.focus + 1)
			return m, nil
		}
	}

	if !m.creating {
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)

	return m, cmd
}

func (m *BookingsModel) openForm() tea.Cmd {
	m.creating = true
	m.err, m.notice = nil, ""

	for i := range m.fields {
		m.fields[i].SetValue("")
	}

	if m.user != nil {
		m.fields[fieldEmail].SetValue(m.user.Email)
		m.fields[fieldName].SetValue(m.user.Claims().FullName)
	}

	m.fields[fieldGuests].SetValue("2")
	m.focusField(fieldName)

	return textinput.Blink
}

func (m *BookingsModel) focusField(i int) {
	i = (i + fieldCount) % fieldCount

	for j := range m.fields {
		m.fields[j].Blur()
	}

	m.focus = i
	m.fields[i].Focus()
}

// builds the request, reporting the first invalid field
func (m *BookingsModel) Request() (bookings.CreateBookingRequest, error) {
	value := func(i int) string { return strings.TrimSpace(m.fields[i].Value()) }

	req := bookings.CreateBookingRequest{
		CustomerName:    value(fieldName),
		Email:           value(fieldEmail),
		Date:            value(fieldDate),
		Time:            value(fieldTime),
		SpecialRequests: value(fieldRequests),
	}

	if req.CustomerName == "" || req.Email == "" {
		return req, fmt.Errorf("name and email are required")
	}

	guests, err := strconv.Atoi(value(fieldGuests))
	if err != nil || guests < 1 {
		return req, fmt.Errorf("guests must be a number of at least 1")
	}
	req.Guests = guests

	if req.Date == "" || req.Time == "" {
		return req, fmt.Errorf("date and time are required")
	}

	return req, nil
}

func (m *BookingsModel) submit() tea.Cmd {
	req, err := m.Request()
	if err != nil {
		m.err = err
		return nil
	}

	m.err = nil

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		b, err := m.api.CreateBooking(ctx, req)
		if err != nil {
			return bookingsErrorMsg{err: err}
		}

		return bookingCreatedMsg{booking: b}
	}
}

func (m *BookingsModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("RESERVATIONS"))
	b.WriteString("\n\n")

	if m.creating {
		views := make([]string, len(m.fields))
		for i := range m.fields {
			views[i] = m.fields[i].View()
		}
		b.WriteString(boxStyle.Render(strings.Join(views, "\n")))
		b.WriteString("\n")
	} else {
		b.WriteString(m.listView())
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.notice != "":
		b.WriteString(infoStyle.Render(m.notice))
	}

	b.WriteString("\n")

	if m.creating {
		b.WriteString(helpStyle.Render("[tab: next field] [ctrl+s: request table] [ctrl+x: cancel]"))
	} else {
		b.WriteString(helpStyle.Render("[n: new booking] [r: reload] [esc: back]"))
	}

	return b.String()
}

func (m *BookingsModel) listView() string {
	if m.loading {
		return infoStyle.Render("checking the book...") + "\n"
	}

	if len(m.list) == 0 {
		return infoStyle.Render("no reservations yet.") + "\n"
	}

	var b strings.Builder

	for _, bk := range m.list {
		line := fmt.Sprintf("  %s %s  %-20s %2d guests  %s", bk.Date, bk.Time, bk.CustomerName, bk.Guests, bk.Status)
		if bk.ReceiptData != nil {
			line += fmt.Sprintf("  receipt: %.2f %s", float64(bk.ReceiptData.Total), bk.ReceiptData.Currency)
		} else if bk.ReceiptURL != nil {
			line += "  receipt attached"
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
