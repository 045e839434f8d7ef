package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/olkkari/server/internal/authstate"
	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/logger"
)

// refresh this long before the access token expires
const refreshLeeway = 2 * time.Minute

type authAPI interface {
	SignIn(ctx context.Context, email, password string) (*identity.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*identity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// implements authstate.SessionStore over the REST API. the session is
// kept in a file so the client stays signed in between runs; an empty
// path keeps it in memory only.
type SessionStore struct {
	api  authAPI
	path string

	mu      sync.RWMutex
	session *identity.Session
	subs    map[int]*subscriber
	nextSub int

	// serializes emits so subscribers see events in order
	emitMu sync.Mutex
}

type subscriber struct {
	ch   chan authstate.Event
	done chan struct{}
}

func NewSessionStore(api authAPI, path string) *SessionStore {
	return &SessionStore{
		api:  api,
		path: path,
		subs: make(map[int]*subscriber),
	}
}

// default session file under the user config dir
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "olkkari", "session.json")
}

// returns the stored session, loading it from disk on first use
func (s *SessionStore) GetSession(ctx context.Context) (*identity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil || s.path == "" {
		return s.session, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session identity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	if session.User == nil {
		return nil, nil
	}

	s.session = &session
	return s.session, nil
}

func (s *SessionStore) Subscribe() (<-chan authstate.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &subscriber{ch: make(chan authstate.Event), done: make(chan struct{})}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(sub.done)
		})
	}
}

func (s *SessionStore) SignIn(ctx context.Context, email, password string) error {
	session, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	s.set(session)
	s.emit(authstate.Event{Kind: authstate.EventSignedIn, Session: session})

	return nil
}

// exchanges the refresh token for a new session
func (s *SessionStore) Refresh(ctx context.Context) error {
	current := s.Current()
	if current == nil || current.RefreshToken == "" {
		return nil
	}

	session, err := s.api.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return err
	}

	s.set(session)
	s.emit(authstate.Event{Kind: authstate.EventTokenRefreshed, Session: session})

	return nil
}

// refreshes when the token is about to expire
func (s *SessionStore) RefreshIfExpiring(ctx context.Context, now time.Time) error {
	current := s.Current()
	if current == nil || current.ExpiresAt.IsZero() {
		return nil
	}

	if current.ExpiresAt.Sub(now) > refreshLeeway {
		return nil
	}

	return s.Refresh(ctx)
}

// revokes the session remotely. the local session is dropped even when
// the remote call fails.
func (s *SessionStore) SignOut(ctx context.Context) error {
	current := s.Current()

	var err error
	if current != nil {
		err = s.api.SignOut(ctx, current.AccessToken)
	}

	s.set(nil)
	s.emit(authstate.Event{Kind: authstate.EventSignedOut})

	return err
}

func (s *SessionStore) Current() *identity.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.session
}

// access token of the current session, or ""
func (s *SessionStore) AccessToken() string {
	if current := s.Current(); current != nil {
		return current.AccessToken
	}

	return ""
}

func (s *SessionStore) set(session *identity.Session) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()

	if err := s.persist(session); err != nil {
		logger.WarnErr(err, "failed to persist session")
	}
}

func (s *SessionStore) persist(session *identity.Session) error {
	if s.path == "" {
		return nil
	}

	if session == nil {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}

// delivers ev to every subscriber, waiting for each to receive it
func (s *SessionStore) emit(ev authstate.Event) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.RLock()
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.ch <- ev:
		case <-sub.done:
		}
	}
}
