package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// createAttempts bounds session-code generation retries on store collision.
const createAttempts = 5

// Store is the authoritative keyed session store. Implementations must honor
// lazy TTL expiry (an expired session reads as ErrNotFound) and serialize
// Update calls per key so read-modify-write is atomic.
type Store interface {
	// Get returns the session or ErrNotFound when absent or expired.
	Get(ctx context.Context, id string) (*Session, error)
	// Put stores the session unconditionally.
	Put(ctx context.Context, s *Session) error
	// Update applies fn to the stored session atomically and persists the
	// result. fn errors abort the write and are returned unchanged.
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error
	// Exists reports whether a live (unexpired) session holds the id.
	Exists(ctx context.Context, id string) (bool, error)
}

// Manager implements the session operations on top of a Store.
type Manager struct {
	store  Store
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewManager creates a session manager.
func NewManager(store Store, cfg Config, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Config returns the manager's session configuration.
func (m *Manager) Config() Config {
	return m.cfg
}

// Create generates a collision-checked session code, persists a new session
// holding the catalog, and returns it. A nil or empty catalog is rejected
// with ErrEmptyCatalog. After repeated collisions against the store the
// attempt fails with ErrCodeSpaceExhausted.
func (m *Manager) Create(ctx context.Context, catalog *Catalog) (*Session, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := NewCode()
		if err != nil {
			return nil, err
		}

		taken, err := m.store.Exists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check session code: %w", err)
		}
		if taken {
			m.logger.Warn("session code collision, retrying",
				zap.String("session", code),
				zap.Int("attempt", attempt+1))
			continue
		}

		now := m.now()
		s := &Session{
			ID:        code,
			Catalog:   catalog,
			Ledger:    &Ledger{},
			CreatedAt: now,
			ExpiresAt: now.Add(m.cfg.TTL()),
		}
		if err := m.store.Put(ctx, s); err != nil {
			return nil, fmt.Errorf("failed to persist session: %w", err)
		}

		m.logger.Info("session created",
			zap.String("session", code),
			zap.Int("items", catalog.Len()),
			zap.Bool("multiset", catalog.Multiset))
		return s, nil
	}

	return nil, ErrCodeSpaceExhausted
}

// Get returns the current session snapshot. Unknown and expired ids are both
// ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	id = NormalizeCode(id)
	if id == "" {
		return nil, ErrInvalidInput
	}
	return m.store.Get(ctx, id)
}

// GetOrCreate returns the session, creating an empty one (no catalog yet)
// when absent. This is the relay-hub join path: the host publishes the
// catalog after joining. The id must be a valid session code.
func (m *Manager) GetOrCreate(ctx context.Context, id string) (*Session, error) {
	id = NormalizeCode(id)
	if !ValidCode(id) {
		return nil, ErrInvalidInput
	}

	s, err := m.store.Get(ctx, id)
	if err == nil {
		return s, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	now := m.now()
	s = &Session{
		ID:        id,
		Catalog:   EmptyCatalog(),
		Ledger:    &Ledger{},
		CreatedAt: now,
		ExpiresAt: now.Add(m.cfg.TTL()),
	}
	if err := m.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	m.logger.Info("empty session created on join", zap.String("session", id))
	return s, nil
}

// ReplaceCatalog swaps the session's catalog and resets its ledger in one
// atomic store update. Clients can never observe the new catalog paired with
// the old ledger. The expiry is refreshed.
func (m *Manager) ReplaceCatalog(ctx context.Context, id string, catalog *Catalog) (*Session, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	id = NormalizeCode(id)
	if id == "" {
		return nil, ErrInvalidInput
	}

	s, err := m.store.Update(ctx, id, func(s *Session) error {
		s.Catalog = catalog
		s.Ledger = &Ledger{}
		s.Touch(m.now(), m.cfg.TTL())
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("catalog replaced, ledger reset",
		zap.String("session", id),
		zap.Int("items", catalog.Len()))
	return s, nil
}

// Clear destroys the session. It is idempotent: clearing an unknown or
// already-expired session succeeds.
func (m *Manager) Clear(ctx context.Context, id string) error {
	id = NormalizeCode(id)
	if id == "" {
		return ErrInvalidInput
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.logger.Info("session cleared", zap.String("session", id))
	return nil
}

// SubmitScan classifies a scanned code against the stored session and applies
// the resulting ledger mutation atomically. Benign rejections (duplicate,
// quota exceeded, invalid input) come back as Decision variants with a nil
// error; only store failures and unknown sessions are errors.
func (m *Manager) SubmitScan(ctx context.Context, id, raw string) (Decision, *Session, error) {
	id = NormalizeCode(id)
	if id == "" {
		return Decision{}, nil, ErrInvalidInput
	}

	var decision Decision
	s, err := m.store.Update(ctx, id, func(s *Session) error {
		decision = Classify(s.Catalog, s.Ledger, raw)
		if decision.Kind.Mutates() {
			s.Ledger.Append(decision.Code, m.now())
			s.Touch(m.now(), m.cfg.TTL())
		}
		return nil
	})
	if err != nil {
		return Decision{}, nil, err
	}

	m.logger.Debug("scan classified",
		zap.String("session", id),
		zap.String("code", decision.Code),
		zap.String("kind", string(decision.Kind)))
	return decision, s, nil
}
