package session

import (
	"sort"
	"sync"

	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

// Manager is an in-memory store of live sessions, used by the API server.
// Sessions are keyed by id; access is safe for concurrent handlers.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create registers a fresh session for the given assessment type.
func (m *Manager) Create(assessmentType string) (*Session, error) {
	s, err := NewSession(assessmentType)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// Get returns the live session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, sharedErrors.ErrSessionNotFound
	}
	return s, nil
}

// Put adds or replaces a session (used when restoring from a snapshot).
func (m *Manager) Put(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
}

// Remove drops a session from the manager.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// List returns the live sessions ordered by creation time, newest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].ID() < out[j].ID()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out
}

// WithSession runs fn while holding the manager lock, serializing mutations
// to the session from concurrent API handlers.
func (m *Manager) WithSession(id string, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return sharedErrors.ErrSessionNotFound
	}
	return fn(s)
}
