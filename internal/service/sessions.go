package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// Manager keeps the open sessions of the process, keyed by a random id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     SessionDeps
}

func NewManager(deps SessionDeps) *Manager {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Manager{sessions: make(map[string]*Session), deps: deps}
}

func (m *Manager) Open(ctx context.Context) (*Session, error) {
	s, err := NewSession(ctx, uuid.NewString(), m.deps)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.deps.Logger.Info("session opened", zap.String("session_id", s.ID()))
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &domain.ValidationError{Field: "session_id", Message: "malformed session id"}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Close discards the session and its pending work.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	s.Close()
	return nil
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
