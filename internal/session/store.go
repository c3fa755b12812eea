// Package session holds the authenticated identity shared by every view.
package session

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mcoot/circle-go/internal/model"
)

// ProfileAPI is the slice of the service API the store needs
type ProfileAPI interface {
	Profile(ctx context.Context) (*model.Identity, error)
}

// Snapshot is a consistent read of the store's state
type Snapshot struct {
	Identity *model.Identity
	Loading  bool
}

// Authenticated reports whether an identity is present
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil
}

// Listener is called with the new identity (nil when cleared)
type Listener func(identity *model.Identity)

// Store owns the authenticated identity. It is the only component that
// mutates it; everyone else reads snapshots or subscribes.
type Store struct {
	api    ProfileAPI
	logger *slog.Logger

	mu        sync.RWMutex
	identity  *model.Identity
	loading   bool
	listeners map[int]Listener
	nextID    int
}

// New creates a Store in the loading state. CheckAuth must be called once
// before route decisions are trusted.
func New(api ProfileAPI, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Store{
		api:       api,
		logger:    logger,
		loading:   true,
		listeners: make(map[int]Listener),
	}
}

// CheckAuth fetches the identity and ends the initial loading phase.
// Any failure, including an unauthenticated session, leaves no identity.
func (s *Store) CheckAuth(ctx context.Context) {
	s.publish(s.fetch(ctx), true)
}

// Refresh re-fetches the identity without touching the loading flag.
// Used after actions that change server-side state.
func (s *Store) Refresh(ctx context.Context) {
	s.publish(s.fetch(ctx), false)
}

// Clear drops the identity, e.g. on logout
func (s *Store) Clear() {
	s.publish(nil, false)
}

// Identity returns a copy of the current identity, or nil
func (s *Store) Identity() *model.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity.Clone()
}

// Loading reports whether the initial CheckAuth is still outstanding
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns identity and loading state read together
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Identity: s.identity.Clone(), Loading: s.loading}
}

// Subscribe registers a listener for identity changes and returns a
// function that removes it
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) fetch(ctx context.Context) *model.Identity {
	identity, err := s.api.Profile(ctx)
	if err != nil {
		s.logger.Debug("profile fetch failed, treating as logged out",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return identity
}

// publish replaces the identity and notifies listeners if the value changed.
// With endLoading the loading flag drops in the same critical section, so no
// snapshot sees loading finished without the fetched identity.
func (s *Store) publish(identity *model.Identity, endLoading bool) {
	s.mu.Lock()
	if endLoading {
		s.loading = false
	}
	if s.identity.Equal(identity) {
		s.mu.Unlock()
		return
	}
	s.identity = identity.Clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	if identity != nil {
		s.logger.Debug("identity updated",
			slog.String("username", identity.Username),
			slog.Int("rating", identity.Rating),
			slog.Int("level", identity.Level),
		)
	} else {
		s.logger.Debug("identity cleared")
	}

	for _, l := range listeners {
		l(identity.Clone())
	}
}
