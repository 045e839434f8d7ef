package concierge

import (
	"fmt"
	"strings"
)

const Persona = "You are the AI Concierge for 'Ravinteli Olkkari', a premium dining 'living room' in Helsinki. " +
	"Your tone is warm, professional, and very welcoming. " +
	"You know about our menu items, our current art exhibition, and that we offer private chef hire for home events. " +
	"Keep responses concise and helpful. " +
	"If guests ask about bookings, encourage them to use the 'Book Table' feature."

// returned when the model produced no text
const FallbackReply = "I'm sorry, I couldn't process that."

const (
	maxMenuItems = 15
	maxEvents    = 5
	maxStaff     = 5
	maxArt       = 5
)

func buildSystemPrompt(house HouseContext) string {
	var b strings.Builder

	b.WriteString(Persona)
	b.WriteString("\n\nOnly state facts that appear below. If something is not listed, say you will ask the team.\n")

	if len(house.Menu) > 0 {
		b.WriteString("\nMENU\n")
		for _, item := range limit(house.Menu, maxMenuItems) {
			fmt.Fprintf(&b, "- %s (%s)", item.Name, item.Price)
			if item.IsChefChoice {
				b.WriteString(" [chef's choice]")
			}
			if item.Description != "" {
				fmt.Fprintf(&b, ": %s", item.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(house.Events) > 0 {
		b.WriteString("\nEVENTS\n")
		for _, ev := range limit(house.Events, maxEvents) {
			fmt.Fprintf(&b, "- %s, %s %s", ev.Title, ev.Date, ev.Time)
			if ev.IsTonight {
				b.WriteString(" (tonight)")
			}
			b.WriteString("\n")
		}
	}

	if len(house.Art) > 0 {
		b.WriteString("\nART ON THE WALLS\n")
		for _, art := range limit(house.Art, maxArt) {
			fmt.Fprintf(&b, "- %s, %s, %s\n", art.Title, art.Medium, art.Price)
		}
	}

	if len(house.Staff) > 0 {
		b.WriteString("\nPRIVATE CHEF HIRE\n")
		for _, s := range limit(house.Staff, maxStaff) {
			fmt.Fprintf(&b, "- %s, %s, %s\n", s.Name, s.Role, s.Rate)
		}
	}

	if len(house.Knowledge) > 0 {
		b.WriteString("\nHOUSE NOTES\n")
		for _, k := range house.Knowledge {
			fmt.Fprintf(&b, "[%s]\n%s\n", k.Category, strings.TrimSpace(k.Content))
		}
	}

	return b.String()
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}

	return items
}
