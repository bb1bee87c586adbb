package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"scan-sync/core/session"
)

// Memory is a process-local session store guarded by a mutex. Expiry is
// lazy: expired entries read as not-found and are dropped on access.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	now      func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]*session.Session),
		now:      time.Now,
	}
}

var _ session.Store = (*Memory)(nil)

// Get returns a deep copy of the stored session so callers can never mutate
// the authoritative state outside Update.
func (m *Memory) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.live(id)
	if s == nil {
		return nil, session.ErrNotFound
	}
	return clone(s)
}

// Put stores a deep copy of the session.
func (m *Memory) Put(_ context.Context, s *session.Session) error {
	copied, err := clone(s)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = copied
	return nil
}

// Update applies fn under the store mutex, which serializes all writers to
// the same key (and, for this backend, to all keys). fn runs against a copy;
// the stored session is replaced only when fn succeeds.
func (m *Memory) Update(_ context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.live(id)
	if s == nil {
		return nil, session.ErrNotFound
	}
	copied, err := clone(s)
	if err != nil {
		return nil, err
	}
	if err := fn(copied); err != nil {
		return nil, err
	}
	m.sessions[id] = copied
	return clone(copied)
}

// Delete removes the session; absent ids are a no-op.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Exists reports whether a live session holds the id.
func (m *Memory) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(id) != nil, nil
}

// live returns the stored session if present and unexpired, dropping it
// otherwise. Callers must hold the mutex.
func (m *Memory) live(id string) *session.Session {
	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if s.Expired(m.now()) {
		delete(m.sessions, id)
		return nil
	}
	return s
}

// clone deep-copies a session through its JSON form.
func clone(s *session.Session) (*session.Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	var copied session.Session
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &copied, nil
}
