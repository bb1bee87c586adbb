package api

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"scan-sync/core/report"
	"scan-sync/core/session"
	"scan-sync/core/sync"
	"scan-sync/core/tabular"

	"go.uber.org/zap"
)

// Archiver persists a finished report to object storage. The export feature
// provides the implementation; a nil archiver disables the archive option.
type Archiver interface {
	// Archive uploads the report CSV and returns the stored object name.
	Archive(ctx context.Context, sessionID string, catalog *session.Catalog, r *report.Report) (string, error)
}

// Service implements the REST operations on top of the synchronizer.
type Service struct {
	manager  *session.Manager
	sync     sync.Synchronizer
	archiver Archiver
	logger   *zap.Logger
}

// NewService creates a new API service. archiver may be nil.
func NewService(manager *session.Manager, syncer sync.Synchronizer, archiver Archiver, logger *zap.Logger) *Service {
	return &Service{
		manager:  manager,
		sync:     syncer,
		archiver: archiver,
		logger:   logger,
	}
}

// Stats aggregates a session's progress counters for the stats endpoint.
type Stats struct {
	Session      string    `json:"session"`
	TotalItems   int       `json:"totalItems"`
	Matched      int       `json:"matched"`
	Missing      int       `json:"missing"`
	Surplus      int       `json:"surplus"`
	TotalScanned int       `json:"totalScanned"`
	Percentage   int       `json:"percentage"`
	Multiset     bool      `json:"multiset"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Upload parses an uploaded catalog file and creates a new session for it.
// The format is picked by the filename extension: .xlsx opens a workbook,
// anything else is read as CSV.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (*session.Session, error) {
	catalog, err := s.parseCatalog(filename, r)
	if err != nil {
		return nil, err
	}
	return s.manager.Create(ctx, catalog)
}

// ReplaceCatalog parses an uploaded catalog file and swaps it into an
// existing session, resetting the scan ledger.
func (s *Service) ReplaceCatalog(ctx context.Context, id, filename string, r io.Reader) (*session.Session, error) {
	catalog, err := s.parseCatalog(filename, r)
	if err != nil {
		return nil, err
	}
	return s.sync.PublishCatalog(ctx, id, catalog)
}

// Snapshot returns the authoritative session state.
func (s *Service) Snapshot(ctx context.Context, id string) (*session.Session, error) {
	return s.sync.Snapshot(ctx, id)
}

// Scan submits one scanned code and returns the classifier decision.
func (s *Service) Scan(ctx context.Context, id, code string) (session.Decision, error) {
	return s.sync.SubmitScan(ctx, id, code)
}

// Clear destroys a session. Clearing an unknown session succeeds.
func (s *Service) Clear(ctx context.Context, id string) error {
	return s.sync.Clear(ctx, id)
}

// Stats computes the aggregate progress counters for a session.
func (s *Service) Stats(ctx context.Context, id string) (*Stats, error) {
	snap, err := s.sync.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	rep := report.Generate(snap.Catalog, snap.Ledger)
	return &Stats{
		Session:      snap.ID,
		TotalItems:   rep.Summary.TotalItems,
		Matched:      rep.Summary.Matched,
		Missing:      rep.Summary.Missing,
		Surplus:      rep.Summary.Surplus,
		TotalScanned: snap.Ledger.Len(),
		Percentage:   rep.Summary.Percentage,
		Multiset:     snap.Catalog.Multiset,
		ExpiresAt:    snap.ExpiresAt,
	}, nil
}

// Report generates the reconciliation report for a session. When archive is
// true and an archiver is wired, the CSV is also uploaded to object storage.
func (s *Service) Report(ctx context.Context, id string, archive bool) (*session.Catalog, *report.Report, error) {
	snap, err := s.sync.Snapshot(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rep := report.Generate(snap.Catalog, snap.Ledger)

	if archive && s.archiver != nil {
		object, err := s.archiver.Archive(ctx, snap.ID, snap.Catalog, rep)
		if err != nil {
			// Archiving is best effort; the caller still gets the CSV.
			s.logger.Warn("failed to archive report",
				zap.String("session", snap.ID),
				zap.Error(err))
		} else {
			s.logger.Info("report archived",
				zap.String("session", snap.ID),
				zap.String("object", object))
		}
	}

	return snap.Catalog, rep, nil
}

func (s *Service) parseCatalog(filename string, r io.Reader) (*session.Catalog, error) {
	var (
		table *tabular.Table
		err   error
	)
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		table, err = tabular.ReadXLSX(r)
	} else {
		table, err = tabular.ReadCSV(r)
	}
	if err != nil {
		if err == tabular.ErrEmptyTable {
			return nil, session.ErrEmptyCatalog
		}
		return nil, fmt.Errorf("%w: failed to parse catalog %q: %v", session.ErrInvalidInput, filename, err)
	}
	return session.NewCatalog(table, s.manager.Config())
}
