package sync

import (
	"context"

	"scan-sync/core/session"
)

// Synchronizer is the capability both sync designs expose to the core:
// submit a scan, publish a catalog, fetch the latest snapshot, clear.
type Synchronizer interface {
	// SubmitScan classifies and applies one scanned code.
	SubmitScan(ctx context.Context, sessionID, code string) (session.Decision, error)
	// PublishCatalog swaps the session catalog and resets its ledger.
	PublishCatalog(ctx context.Context, sessionID string, catalog *session.Catalog) (*session.Session, error)
	// Snapshot returns the latest authoritative session state.
	Snapshot(ctx context.Context, sessionID string) (*session.Session, error)
	// Clear destroys the session; idempotent.
	Clear(ctx context.Context, sessionID string) error
}

// Service is the store-backed Synchronizer. It is the poll design's server
// side and the shared substrate the relay hub broadcasts on top of.
type Service struct {
	manager *session.Manager
}

// NewService creates a store-backed synchronizer.
func NewService(manager *session.Manager) *Service {
	return &Service{manager: manager}
}

var _ Synchronizer = (*Service)(nil)

func (s *Service) SubmitScan(ctx context.Context, sessionID, code string) (session.Decision, error) {
	decision, _, err := s.manager.SubmitScan(ctx, sessionID, code)
	return decision, err
}

func (s *Service) PublishCatalog(ctx context.Context, sessionID string, catalog *session.Catalog) (*session.Session, error) {
	return s.manager.ReplaceCatalog(ctx, sessionID, catalog)
}

func (s *Service) Snapshot(ctx context.Context, sessionID string) (*session.Session, error) {
	return s.manager.Get(ctx, sessionID)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.manager.Clear(ctx, sessionID)
}
