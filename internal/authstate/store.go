package authstate

import (
	"context"
	"errors"
	"sync"

	"codeberg.org/olkkari/server/internal/identity"
	"codeberg.org/olkkari/server/internal/logger"
)

// single source of truth for the signed-in identity. all writes happen on
// the loop goroutine started by Start; readers use Snapshot and Watch.
type Store struct {
	sessions SessionStore
	resolver *identity.Resolver

	mu          sync.RWMutex
	state       Snapshot
	watchers    map[int]chan Snapshot
	nextWatcher int
	started     bool
	closed      bool

	commands    chan command
	results     chan fetchResult
	shutdown    chan struct{}
	done        chan struct{}
	cancel      context.CancelFunc
	unsubscribe func()
	closeOnce   sync.Once

	// owned by the loop goroutine
	generation uint64
	fetchSeq   uint64
	appliedSeq uint64
	inflight   map[uint64]context.CancelFunc
}

// creates a store in the bootstrapping state (loading, signed out)
func NewStore(sessions SessionStore, resolver *identity.Resolver) *Store {
	return &Store{
		sessions: sessions,
		resolver: resolver,
		state:    Snapshot{Loading: true},
		watchers: make(map[int]chan Snapshot),
		commands: make(chan command),
		results:  make(chan fetchResult),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		inflight: make(map[uint64]context.CancelFunc),
	}
}

// subscribes to session changes, loads the initial session and starts the
// consumer loop. calling Start more than once is a no-op.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.closed {
		return
	}

	events, unsubscribe := s.sessions.Subscribe()
	loopCtx, cancel := context.WithCancel(ctx)

	// set together so Close never sees started without them
	s.unsubscribe = unsubscribe
	s.cancel = cancel
	s.started = true

	go s.run(loopCtx, events)
}

func (s *Store) run(ctx context.Context, events <-chan Event) {
	defer close(s.done)
	defer s.cancelInflight()

	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		logger.WarnErr(err, "failed to load initial session")
		session = nil
	}

	s.applySession(ctx, EventInitialSession, session)

	for {
		select {
		case event, ok := <-events:
			if !ok {
				logger.Warn("session subscription closed")
				events = nil
				continue
			}
			s.applySession(ctx, event.Kind, event.Session)

		case cmd := <-s.commands:
			s.handleCommand(ctx, cmd)

		case result := <-s.results:
			s.applyResult(result)

		case <-s.shutdown:
			return

		case <-ctx.Done():
			return
		}
	}
}

// bumps the generation, cancels stale fetches and publishes the optimistic
// state (or the cleared state for a signed-out session)
func (s *Store) applySession(ctx context.Context, kind EventKind, session *identity.Session) {
	s.generation++
	s.cancelInflight()

	if kind == EventSignedOut || session == nil || session.User == nil {
		logger.Debug("session cleared", "event", kind)
		s.publish(func(st *Snapshot) {
			*st = Snapshot{Version: st.Version}
		})
		return
	}

	optimistic := identity.Optimistic(session.User)

	logger.Debug("session changed",
		"event", kind,
		"user_id", session.User.ID,
		"generation", s.generation,
	)

	s.publish(func(st *Snapshot) {
		*st = Snapshot{
			Session:    session,
			User:       session.User,
			Resolution: optimistic,
			IsMember:   true,
			IsAdmin:    optimistic.IsAdmin(),
			IsApproved: optimistic.IsApproved(),
			Loading:    true,
			Version:    st.Version,
		}
	})

	s.startFetch(ctx, session.User.ID, optimistic, nil)
}

func (s *Store) handleCommand(ctx context.Context, cmd command) {
	switch cmd.kind {
	case commandClear:
		s.applySession(ctx, EventSignedOut, nil)
		cmd.reply <- reply{snapshot: s.Snapshot()}

	case commandRefresh:
		current := s.Snapshot()
		if current.User == nil {
			cmd.reply <- reply{snapshot: current}
			return
		}

		s.startFetch(ctx, current.User.ID, current.Resolution, cmd.reply)
	}
}

// runs the authoritative pass off the loop; the result comes back through
// s.results tagged with the generation and sequence it was started under
func (s *Store) startFetch(ctx context.Context, userID string, prior identity.Resolution, replyTo chan reply) {
	s.fetchSeq++
	seq := s.fetchSeq
	generation := s.generation

	fetchCtx, cancel := context.WithCancel(ctx)
	s.inflight[seq] = cancel

	go func() {
		resolution := s.resolver.Authoritative(fetchCtx, userID, prior)

		select {
		case s.results <- fetchResult{
			generation: generation,
			seq:        seq,
			resolution: resolution,
			reply:      replyTo,
		}:
		case <-s.done:
			cancel()
		}
	}()
}

func (s *Store) applyResult(result fetchResult) {
	if cancel, ok := s.inflight[result.seq]; ok {
		cancel()
		delete(s.inflight, result.seq)
	}

	if result.generation != s.generation || result.seq <= s.appliedSeq {
		logger.Debug("discarding superseded profile resolution",
			"generation", result.generation,
			"seq", result.seq,
		)

		if result.reply != nil {
			result.reply <- reply{snapshot: s.Snapshot(), err: ErrSuperseded}
		}
		return
	}

	s.appliedSeq = result.seq
	res := result.resolution

	if res.Err != nil {
		logger.WarnErr(res.Err, "profile lookup failed, keeping claims",
			"source", res.Source,
		)
	}

	s.publish(func(st *Snapshot) {
		st.Resolution = res
		st.Profile = res.Authoritative
		st.IsAdmin = res.IsAdmin()
		st.IsApproved = res.IsApproved()
		st.Loading = false
	})

	if result.reply != nil {
		result.reply <- reply{snapshot: s.Snapshot(), err: res.Err}
	}
}

func (s *Store) cancelInflight() {
	for seq, cancel := range s.inflight {
		cancel()
		delete(s.inflight, seq)
	}
}

// applies fn to the state as one transition and notifies watchers
func (s *Store) publish(fn func(st *Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	s.state.Version++

	for _, ch := range s.watchers {
		// keep only the latest snapshot for slow readers
		select {
		case <-ch:
		default:
		}
		ch <- s.state
	}
}

// returns the current resolved identity
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// returns a channel that receives the latest snapshot after every change,
// and a function releasing it
func (s *Store) Watch() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	ch <- s.state

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if _, ok := s.watchers[id]; ok {
				delete(s.watchers, id)
				close(ch)
			}
		})
	}
}

// signs out remotely, then clears local state whether or not the remote
// call succeeded. returns once the cleared state is visible.
func (s *Store) SignOut(ctx context.Context) (Snapshot, error) {
	if err := s.sessions.SignOut(ctx); err != nil {
		logger.WarnErr(err, "remote sign out failed, clearing local session anyway")
	}

	r, err := s.send(ctx, commandClear)
	if errors.Is(err, ErrNotStarted) || errors.Is(err, ErrClosed) {
		s.publish(func(st *Snapshot) {
			*st = Snapshot{Version: st.Version}
		})
		return s.Snapshot(), nil
	}

	if err != nil {
		return s.Snapshot(), err
	}

	return r.snapshot, r.err
}

// re-runs the profile lookup for the current user and waits for it to be
// applied. a no-op when signed out.
func (s *Store) RefreshProfile(ctx context.Context) (Snapshot, error) {
	r, err := s.send(ctx, commandRefresh)
	if err != nil {
		return s.Snapshot(), err
	}

	return r.snapshot, r.err
}

func (s *Store) send(ctx context.Context, kind commandKind) (reply, error) {
	s.mu.RLock()
	started, closed := s.started, s.closed
	s.mu.RUnlock()

	if closed {
		return reply{}, ErrClosed
	}

	if !started {
		return reply{}, ErrNotStarted
	}

	cmd := command{kind: kind, reply: make(chan reply, 1)}

	select {
	case s.commands <- cmd:
	case <-s.done:
		return reply{}, ErrClosed
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}

	select {
	case r := <-cmd.reply:
		return r, nil
	case <-s.done:
		return reply{}, ErrClosed
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

// releases the session subscription, stops the loop and closes watchers
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		started := s.started
		cancel, unsubscribe := s.cancel, s.unsubscribe
		s.closed = true
		s.mu.Unlock()

		if started {
			cancel()
			close(s.shutdown)
			<-s.done

			if unsubscribe != nil {
				unsubscribe()
			}
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		for id, ch := range s.watchers {
			close(ch)
			delete(s.watchers, id)
		}
	})
}
