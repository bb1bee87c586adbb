package relay

import (
	"context"
	"sync"
	"time"

	"scan-sync/core/report"
	"scan-sync/core/session"
	coresync "scan-sync/core/sync"
	"scan-sync/core/tabular"

	"go.uber.org/zap"
)

// Conn is one connected relay member. The websocket handler adapts real
// connections; tests supply fakes.
type Conn interface {
	// ID uniquely identifies the connection for the life of the process.
	ID() string
	// Send writes one frame to the member. Must be safe for concurrent use.
	Send(msg Message) error
}

// Hub routes relay traffic between session rooms and the session store. All
// mutations go through the store first; broadcasts carry the stored outcome,
// so members converge on the authoritative state.
type Hub struct {
	manager *session.Manager
	grace   time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	rooms   map[string]map[string]Conn
	members map[string]string
	timers  map[string]*time.Timer
}

// NewHub creates a relay hub. grace is how long an empty room's session
// survives before it is destroyed.
func NewHub(manager *session.Manager, grace time.Duration, logger *zap.Logger) *Hub {
	return &Hub{
		manager: manager,
		grace:   grace,
		logger:  logger,
		rooms:   make(map[string]map[string]Conn),
		members: make(map[string]string),
		timers:  make(map[string]*time.Timer),
	}
}

var _ coresync.Synchronizer = (*Hub)(nil)

// Join adds the connection to the session's room, creating an empty session
// when the code is unknown. The member receives a session-data snapshot and
// the whole room receives the new participant count.
func (h *Hub) Join(ctx context.Context, conn Conn, sessionID string) error {
	s, err := h.manager.GetOrCreate(ctx, sessionID)
	if err != nil {
		h.sendError(conn, err)
		return err
	}

	h.mu.Lock()
	if t, ok := h.timers[s.ID]; ok {
		t.Stop()
		delete(h.timers, s.ID)
	}
	room := h.rooms[s.ID]
	if room == nil {
		room = make(map[string]Conn)
		h.rooms[s.ID] = room
	}
	room[conn.ID()] = conn
	h.members[conn.ID()] = s.ID
	count := len(room)
	h.mu.Unlock()

	s.Participants = count
	h.sendTo(conn, EventSessionData, s)
	h.broadcast(s.ID, EventParticipants, ParticipantsPayload{Count: count})

	h.logger.Info("member joined",
		zap.String("session", s.ID),
		zap.String("conn", conn.ID()),
		zap.Int("participants", count))
	return nil
}

// Leave removes the connection from its room. When the room empties, a grace
// timer is armed; the session is destroyed only if nobody rejoins in time.
func (h *Hub) Leave(conn Conn) {
	h.mu.Lock()
	sessionID, ok := h.members[conn.ID()]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.members, conn.ID())
	room := h.rooms[sessionID]
	delete(room, conn.ID())
	count := len(room)
	if count == 0 {
		delete(h.rooms, sessionID)
		h.timers[sessionID] = time.AfterFunc(h.grace, func() {
			h.expire(sessionID)
		})
	}
	h.mu.Unlock()

	if count > 0 {
		h.broadcast(sessionID, EventParticipants, ParticipantsPayload{Count: count})
	}
	h.logger.Info("member left",
		zap.String("session", sessionID),
		zap.String("conn", conn.ID()),
		zap.Int("participants", count))
}

// Scan submits a scanned code on behalf of a joined member. Applied scans go
// to the whole room; benign rejections go back to the sender only.
func (h *Hub) Scan(ctx context.Context, conn Conn, code string) {
	sessionID := h.sessionOf(conn)
	if sessionID == "" {
		h.sendError(conn, session.ErrInvalidInput)
		return
	}

	decision, snap, err := h.manager.SubmitScan(ctx, sessionID, code)
	if err != nil {
		h.sendError(conn, err)
		return
	}

	result := ScanResult{
		Decision:        decision,
		ProgressPercent: progressOf(snap),
		From:            conn.ID(),
	}
	if decision.Kind.Mutates() {
		h.broadcast(sessionID, EventScanApplied, result)
		return
	}
	h.sendTo(conn, scanEvent(decision.Kind), result)
}

// Publish replaces the session catalog on behalf of a joined member and
// broadcasts the fresh snapshot to the room.
func (h *Hub) Publish(ctx context.Context, conn Conn, table *tabular.Table) {
	sessionID := h.sessionOf(conn)
	if sessionID == "" {
		h.sendError(conn, session.ErrInvalidInput)
		return
	}

	catalog, err := session.NewCatalog(table, h.manager.Config())
	if err != nil {
		h.sendError(conn, err)
		return
	}
	if _, err := h.PublishCatalog(ctx, sessionID, catalog); err != nil {
		h.sendError(conn, err)
	}
}

// SubmitScan implements the synchronizer contract for callers outside the
// websocket path. Applied scans are still broadcast to the room.
func (h *Hub) SubmitScan(ctx context.Context, sessionID, code string) (session.Decision, error) {
	decision, snap, err := h.manager.SubmitScan(ctx, sessionID, code)
	if err != nil {
		return session.Decision{}, err
	}
	if decision.Kind.Mutates() {
		h.broadcast(session.NormalizeCode(sessionID), EventScanApplied, ScanResult{
			Decision:        decision,
			ProgressPercent: progressOf(snap),
		})
	}
	return decision, nil
}

// PublishCatalog swaps the catalog and broadcasts the new snapshot.
func (h *Hub) PublishCatalog(ctx context.Context, sessionID string, catalog *session.Catalog) (*session.Session, error) {
	s, err := h.manager.ReplaceCatalog(ctx, sessionID, catalog)
	if err != nil {
		return nil, err
	}
	s.Participants = h.participants(s.ID)
	h.broadcast(s.ID, EventCatalogUpdated, s)
	return s, nil
}

// Snapshot returns the stored session with the live participant count.
func (h *Hub) Snapshot(ctx context.Context, sessionID string) (*session.Session, error) {
	s, err := h.manager.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.Participants = h.participants(s.ID)
	return s, nil
}

// Clear destroys the session and cancels any pending grace timer.
func (h *Hub) Clear(ctx context.Context, sessionID string) error {
	sessionID = session.NormalizeCode(sessionID)
	h.mu.Lock()
	if t, ok := h.timers[sessionID]; ok {
		t.Stop()
		delete(h.timers, sessionID)
	}
	h.mu.Unlock()
	return h.manager.Clear(ctx, sessionID)
}

// expire destroys a session whose grace period elapsed with an empty room.
func (h *Hub) expire(sessionID string) {
	h.mu.Lock()
	delete(h.timers, sessionID)
	if len(h.rooms[sessionID]) > 0 {
		// Someone rejoined between the timer firing and this running.
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	if err := h.manager.Clear(context.Background(), sessionID); err != nil {
		h.logger.Warn("failed to clear abandoned session",
			zap.String("session", sessionID),
			zap.Error(err))
		return
	}
	h.logger.Info("abandoned session cleared", zap.String("session", sessionID))
}

// progressOf computes the catalog completion percentage of a snapshot.
func progressOf(s *session.Session) int {
	if s == nil {
		return 0
	}
	return report.Generate(s.Catalog, s.Ledger).Summary.Percentage
}

// participants returns the live member count of a room.
func (h *Hub) participants(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[sessionID])
}

// sessionOf returns the session a connection joined, or empty.
func (h *Hub) sessionOf(conn Conn) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.members[conn.ID()]
}

// broadcast sends one frame to every member of a room. Send failures are
// logged and skipped; the member's read loop will notice the dead socket.
func (h *Hub) broadcast(sessionID, event string, payload any) {
	msg, err := NewMessage(event, payload)
	if err != nil {
		h.logger.Error("failed to build broadcast frame", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.Lock()
	conns := make([]Conn, 0, len(h.rooms[sessionID]))
	for _, c := range h.rooms[sessionID] {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			h.logger.Debug("failed to send frame",
				zap.String("conn", c.ID()),
				zap.String("event", event),
				zap.Error(err))
		}
	}
}

// sendTo sends one frame to a single member.
func (h *Hub) sendTo(conn Conn, event string, payload any) {
	msg, err := NewMessage(event, payload)
	if err != nil {
		h.logger.Error("failed to build frame", zap.String("event", event), zap.Error(err))
		return
	}
	if err := conn.Send(msg); err != nil {
		h.logger.Debug("failed to send frame",
			zap.String("conn", conn.ID()),
			zap.String("event", event),
			zap.Error(err))
	}
}

// sendError reports a request-level failure back to the member.
func (h *Hub) sendError(conn Conn, err error) {
	h.sendTo(conn, EventError, ErrorPayload{Message: err.Error()})
}
