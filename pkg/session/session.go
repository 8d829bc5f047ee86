// Package session keeps live slide rules for the HTTP service.
//
// Each session owns one [sliderule.SlideRule] built from an instrument
// description and is addressed by a random UUID. Sessions live in memory
// only and expire after a period without access; [Store.Run] removes
// expired sessions in the background.
//
// # Usage
//
//	store := session.NewStore(session.WithTTL(time.Hour))
//	go store.Run(ctx, time.Minute)
//
//	sess, err := store.Create(ctx, rule, session.Meta{Name: spec.Name})
//	...
//	sess, err = store.Get(ctx, sess.ID)
//	if errors.Is(err, errors.ErrCodeSessionNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/instrument"
	"github.com/matzehuels/sliderule/pkg/observability"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

// Defaults.
const (
	// DefaultTTL is how long a session survives without being accessed.
	DefaultTTL = time.Hour

	// DefaultMaxSessions bounds the number of live sessions.
	DefaultMaxSessions = 1000
)

// Meta describes where a session's slide rule came from.
type Meta struct {
	// Instrument is the description the rule was built from.
	Instrument *instrument.Spec `json:"-"`
	// Name is the instrument name.
	Name string `json:"name"`
	// InstrumentHash identifies the instrument for artifact caching.
	InstrumentHash string `json:"instrument_hash"`
}

// Session is one live slide rule.
type Session struct {
	ID        string               `json:"id"`
	Meta      Meta                 `json:"meta"`
	Rule      *sliderule.SlideRule `json:"-"`
	CreatedAt time.Time            `json:"created_at"`

	mu        sync.Mutex
	expiresAt time.Time
}

// ExpiresAt returns when the session expires unless accessed again.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// IsExpired reports whether the session had expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.expiresAt)
}

func (s *Session) touch(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	s.expiresAt = now.Add(ttl)
	s.mu.Unlock()
}

// Store is an in-memory session store. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the idle lifetime of sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions bounds the number of live sessions. Zero means unbounded.
func WithMaxSessions(n int) Option { return func(s *Store) { s.max = n } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      DefaultTTL,
		max:      DefaultMaxSessions,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the idle lifetime of sessions.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create registers rule under a new UUID.
func (s *Store) Create(ctx context.Context, rule *sliderule.SlideRule, meta Meta) (*Session, error) {
	if rule == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "session requires a slide rule")
	}
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Meta:      meta,
		Rule:      rule,
		CreatedAt: now,
		expiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	if s.max > 0 && len(s.sessions) >= s.max {
		s.removeExpiredLocked(now)
	}
	if s.max > 0 && len(s.sessions) >= s.max {
		s.mu.Unlock()
		return nil, errors.New(errors.ErrCodeSessionLimit, "session limit of %d reached", s.max)
	}
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	observability.Session().OnSessionCreated(ctx, sess.ID)
	return sess, nil
}

// Get returns the session with the given ID and extends its lifetime.
// Unknown, malformed and expired IDs all yield SESSION_NOT_FOUND.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	now := s.now()

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || sess.IsExpired(now) {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess.touch(now, s.ttl)
	return sess, nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	observability.Session().OnSessionDeleted(ctx, id)
	return nil
}

// Cleanup removes expired sessions and returns how many were removed.
func (s *Store) Cleanup(ctx context.Context) int {
	s.mu.Lock()
	n := s.removeExpiredLocked(s.now())
	s.mu.Unlock()
	observability.Session().OnSessionsExpired(ctx, n)
	return n
}

func (s *Store) removeExpiredLocked(now time.Time) int {
	n := 0
	for id, sess := range s.sessions {
		if sess.IsExpired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run calls Cleanup every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup(ctx)
		}
	}
}
