package dope

import (
	"sync"

	"github.com/quietline/dopebook/internal/observability"
)

// Registry holds live staging sessions by their opaque handle id. Each
// handle is independent; a caller holding one id can never observe or
// mutate another handle's staging state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*StagingSession
	metrics  *observability.Metrics
}

// NewRegistry creates an empty staging registry.
func NewRegistry(metrics *observability.Metrics) *Registry {
	return &Registry{
		sessions: make(map[string]*StagingSession),
		metrics:  metrics,
	}
}

// Put stores a staging session under its id.
func (r *Registry) Put(s *StagingSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
	r.metrics.StagingActive.Set(float64(len(r.sessions)))
}

// Get returns the staging session for an id, or false when the handle is
// unknown or already discarded.
func (r *Registry) Get(id string) (*StagingSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove discards a staging session. Unsaved edits are gone, matching the
// navigate-away behavior of the interactive flow.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	r.metrics.StagingActive.Set(float64(len(r.sessions)))
}
