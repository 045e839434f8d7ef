package gate

import (
	"fmt"
	"strings"

	"codeberg.org/olkkari/server/internal/identity"
)

// access level protected content asks for
type Requirement int

const (
	Member Requirement = iota
	Approved
	Admin
)

func (r Requirement) String() string {
	switch r {
	case Member:
		return "member"
	case Approved:
		return "approved"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("requirement(%d)", int(r))
	}
}

// parses "member", "approved" or "admin"
func ParseRequirement(s string) (Requirement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "member":
		return Member, nil
	case "approved":
		return Approved, nil
	case "admin":
		return Admin, nil
	default:
		return Member, fmt.Errorf("unknown requirement %q", s)
	}
}

// reports whether access meets r. hosts pass the approved gate without
// carrying the approval flag themselves.
func Satisfies(access identity.Access, r Requirement) bool {
	if !access.Member {
		return false
	}

	switch r {
	case Member:
		return true
	case Approved:
		return access.Approved || access.Admin
	case Admin:
		return access.Admin
	default:
		return false
	}
}

// what a gate shows
type Outcome int

const (
	OutcomeHidden Outcome = iota
	OutcomeUnlocked
	OutcomeLocked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHidden:
		return "hidden"
	case OutcomeUnlocked:
		return "unlocked"
	case OutcomeLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// why the upsell is shown
type Reason string

const (
	ReasonSignIn  Reason = "sign_in"
	ReasonPending Reason = "pending_approval"
	ReasonHost    Reason = "host_only"
)

// overlay copy and actions shown over locked content
type Upsell struct {
	Reason         Reason `json:"reason"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	ActionLabel    string `json:"action_label"`
	ActionRoute    string `json:"action_route"`
	SecondaryLabel string `json:"secondary_label"`
	SecondaryRoute string `json:"secondary_route"`
}

type Decision struct {
	Outcome     Outcome
	Requirement Requirement
	Upsell      *Upsell
}

// protects a piece of content. Title and Description override the default
// sign-in copy.
type Gate struct {
	Requirement Requirement
	Title       string
	Description string
}

// decides what to show. nothing is shown while the identity is loading.
func (g Gate) Evaluate(loading bool, access identity.Access) Decision {
	if loading {
		return Decision{Outcome: OutcomeHidden, Requirement: g.Requirement}
	}

	if Satisfies(access, g.Requirement) {
		return Decision{Outcome: OutcomeUnlocked, Requirement: g.Requirement}
	}

	return Decision{
		Outcome:     OutcomeLocked,
		Requirement: g.Requirement,
		Upsell:      g.upsell(access),
	}
}

func (g Gate) upsell(access identity.Access) *Upsell {
	u := &Upsell{
		SecondaryLabel: "Back to Onboarding",
		SecondaryRoute: RouteWelcome,
	}

	switch {
	case !access.Member:
		u.Reason = ReasonSignIn
		u.Title = orDefault(g.Title, "Member Exclusive")
		u.Description = orDefault(g.Description,
			"Join our society to unlock table reservations, loyalty rewards, and private chef hire.")
		u.ActionLabel = "Join the Society"
		u.ActionRoute = RouteLogin

	case g.Requirement == Admin:
		u.Reason = ReasonHost
		u.Title = "Host Access Only"
		u.Description = "This area is reserved for the house team."
		u.ActionLabel = "View Your Profile"
		u.ActionRoute = RouteProfile

	default:
		u.Reason = ReasonPending
		u.Title = "Admission Pending"
		u.Description = "Your membership application has been received. " +
			"Our hosts review each application personally; you will be notified once admitted."
		u.ActionLabel = "View Application Status"
		u.ActionRoute = RouteProfile
	}

	return u
}

// client routes the upsell actions point at
const (
	RouteLogin   = "/login"
	RouteProfile = "/profile"
	RouteWelcome = "/welcome"
)

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}

	return fallback
}
