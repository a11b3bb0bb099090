package session

import (
	"context"
	"sync"
	"time"
)

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. It returns ErrNotFound for unknown IDs
	// and ErrExpired (after removing the session) for lapsed ones.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and reports how many were dropped.
	Cleanup(ctx context.Context) (int, error)
}

// MemoryStore keeps sessions in process memory. Solvers are live objects,
// so sessions cannot be moved between processes.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	limit    int
}

// NewMemoryStore creates a store holding at most limit sessions.
// A limit <= 0 means unbounded.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session), limit: limit}
}

// Get retrieves a session by ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		_ = m.Delete(ctx, id)
		return nil, ErrExpired
	}
	return sess, nil
}

// Set stores a session. When the store is full, expired sessions are
// dropped first; if none lapsed it returns ErrFull.
func (m *MemoryStore) Set(ctx context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[sess.ID]; !exists && m.limit > 0 && len(m.sessions) >= m.limit {
		m.cleanupLocked(time.Now())
		if len(m.sessions) >= m.limit {
			return ErrFull
		}
	}
	m.sessions[sess.ID] = sess
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Cleanup removes expired sessions.
func (m *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cleanupLocked(time.Now()), nil
}

func (m *MemoryStore) cleanupLocked(now time.Time) int {
	n := 0
	for id, sess := range m.sessions {
		if now.After(sess.ExpiresAt()) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (m *MemoryStore) RunCleanup(ctx context.Context, interval time.Duration, onCleanup func(n int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, _ := m.Cleanup(ctx)
			if onCleanup != nil && n > 0 {
				onCleanup(n)
			}
		}
	}
}

var _ Store = (*MemoryStore)(nil)
