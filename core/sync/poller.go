package sync

import (
	"context"
	"errors"
	"time"

	"scan-sync/core/session"

	"go.uber.org/zap"
)

// Poller keeps a local session replica fresh under the poll design: every
// interval it re-fetches the full session and replaces the replica
// wholesale. Transient fetch failures are logged and retried on the next
// tick; a not-found result means the session expired or was cleared and
// stops the loop.
type Poller struct {
	sync      Synchronizer
	sessionID string
	interval  time.Duration
	logger    *zap.Logger
	onUpdate  func(*session.Session)
}

// NewPoller creates a poller for one session. onUpdate is invoked with every
// fetched snapshot, in loop order, and must not retain the pointer across
// calls if it mutates it.
func NewPoller(s Synchronizer, sessionID string, interval time.Duration, logger *zap.Logger, onUpdate func(*session.Session)) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Poller{
		sync:      s,
		sessionID: sessionID,
		interval:  interval,
		logger:    logger,
		onUpdate:  onUpdate,
	}
}

// Run polls until the context is cancelled or the session disappears.
// It fetches once immediately so callers start with a snapshot.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.tick(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.tick(ctx); err != nil {
				return err
			}
		}
	}
}

func (p *Poller) tick(ctx context.Context) error {
	snapshot, err := p.sync.Snapshot(ctx, p.sessionID)
	if errors.Is(err, session.ErrNotFound) {
		p.logger.Info("session gone, stopping poll", zap.String("session", p.sessionID))
		return err
	}
	if err != nil {
		// Transient failure: keep the stale replica, retry next tick.
		p.logger.Warn("poll failed, will retry",
			zap.String("session", p.sessionID),
			zap.Error(err))
		return nil
	}

	p.onUpdate(snapshot)
	return nil
}
