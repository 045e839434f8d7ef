package authstate

import (
	"context"
	"errors"

	"codeberg.org/olkkari/server/internal/identity"
)

// kind of session change emitted by the identity provider
type EventKind string

const (
	EventInitialSession EventKind = "INITIAL_SESSION"
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
	EventUserUpdated    EventKind = "USER_UPDATED"
)

var (
	ErrNotStarted = errors.New("auth state store not started")
	ErrClosed     = errors.New("auth state store closed")
	ErrSuperseded = errors.New("profile refresh superseded by a session change")
)

// session change notification. a nil session (or one without a user) means
// signed out regardless of Kind.
type Event struct {
	Kind    EventKind
	Session *identity.Session
}

// contract consumed from the identity provider. Subscribe must deliver
// events in emission order on the returned channel.
type SessionStore interface {
	GetSession(ctx context.Context) (*identity.Session, error)
	Subscribe() (<-chan Event, func())
	SignOut(ctx context.Context) error
}

// resolved identity as seen by readers
type Snapshot struct {
	Session    *identity.Session
	User       *identity.User
	Profile    *identity.Profile
	Resolution identity.Resolution
	IsMember   bool
	IsAdmin    bool
	IsApproved bool
	Loading    bool
	Version    uint64
}

// access flags for gate decisions
func (s Snapshot) Access() identity.Access {
	if !s.IsMember {
		return identity.Access{}
	}

	return identity.Access{
		Member:   true,
		Admin:    s.IsAdmin,
		Approved: s.IsApproved,
	}
}

type commandKind int

const (
	commandRefresh commandKind = iota
	commandClear
)

type command struct {
	kind  commandKind
	reply chan reply
}

type reply struct {
	snapshot Snapshot
	err      error
}

type fetchResult struct {
	generation uint64
	seq        uint64
	resolution identity.Resolution
	reply      chan reply
}
