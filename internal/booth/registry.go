package booth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"booth/internal/domain"
	"booth/internal/infra"
)

// Registry keeps live sessions in memory, keyed by UUID.
type Registry struct {
	deps SessionDeps
	ttl  time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry. Sessions untouched for longer than
// ttl are removed by Sweep; a zero ttl disables eviction.
func NewRegistry(deps SessionDeps, ttl time.Duration) *Registry {
	if deps.Logger == nil {
		deps.Logger = infra.Discard()
	}
	return &Registry{deps: deps, ttl: ttl, now: time.Now, sessions: make(map[string]*Session)}
}

// Create starts a new idle session.
func (r *Registry) Create() *Session {
	s := NewSession(uuid.NewString(), r.deps)
	s.now = r.now
	s.lastSeen = r.now()
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	r.deps.Logger.Debug().Str("session_id", s.id).Msg("booth: session created")
	return s
}

// Get returns the session with id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// Delete ends the session with id. Its in-flight run, if any, is disregarded.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	s.Reset()
	return nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions and returns how many were removed. Sessions
// with a run in flight are kept.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.RLock()
	var stale []string
	for id, s := range r.sessions {
		lastSeen, running := s.idleSince()
		if !running && lastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	if len(stale) == 0 {
		return 0
	}
	r.mu.Lock()
	for _, id := range stale {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	r.deps.Logger.Info().Int("evicted", len(stale)).Msg("booth: evicted idle sessions")
	return len(stale)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
