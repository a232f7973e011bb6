package state

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrStateNotFound = errors.New("session state not found")

// Store is the session registry contract used by the entrypoint. Sessions are
// in-memory by design: the profile's lifetime is the process lifetime.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps sessions in a process-local map. The lock only guards the
// map; turn serialization within one session remains the caller's job.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session, 4)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.SessionID] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// LoadOrCreate returns the existing session or registers a fresh one.
func (m *MemoryStore) LoadOrCreate(ctx context.Context, sessionID string, now time.Time) (*Session, error) {
	s, err := m.Load(ctx, sessionID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrStateNotFound) {
		return nil, err
	}

	s, err = NewSession(sessionID, now)
	if err != nil {
		return nil, err
	}
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
