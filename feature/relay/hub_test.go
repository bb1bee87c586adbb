package relay

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"scan-sync/core/session"
	"scan-sync/core/store"
	"scan-sync/core/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeConn records every frame the hub sends it.
type fakeConn struct {
	id     string
	mu     sync.Mutex
	frames []Message
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, msg)
	return nil
}

func (c *fakeConn) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := make([]string, 0, len(c.frames))
	for _, f := range c.frames {
		events = append(events, f.Event)
	}
	return events
}

func (c *fakeConn) last(event string) (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].Event == event {
			return c.frames[i], true
		}
	}
	return Message{}, false
}

func setupHub(t *testing.T, grace time.Duration) (*Hub, *session.Manager) {
	t.Helper()
	manager := session.NewManager(store.NewMemory(), session.Config{
		TTLHours:       24,
		CodeColumn:     "Codigo",
		QuantityColumn: "Cantidad",
	}, zap.NewNop())
	return NewHub(manager, grace, zap.NewNop()), manager
}

func catalogTable(codes ...string) *tabular.Table {
	table := &tabular.Table{Columns: []string{"Codigo"}}
	for _, code := range codes {
		table.Rows = append(table.Rows, tabular.Row{"Codigo": code})
	}
	return table
}

func TestJoinSendsSnapshotAndParticipants(t *testing.T) {
	hub, _ := setupHub(t, time.Minute)
	ctx := context.Background()

	host := &fakeConn{id: "host"}
	require.NoError(t, hub.Join(ctx, host, "ABC234"))

	data, ok := host.last(EventSessionData)
	require.True(t, ok)
	var snap session.Session
	require.NoError(t, json.Unmarshal(data.Data, &snap))
	assert.Equal(t, "ABC234", snap.ID)
	assert.Equal(t, 1, snap.Participants)

	scanner := &fakeConn{id: "scanner"}
	require.NoError(t, hub.Join(ctx, scanner, "abc234"))

	// Both members see the updated count; the code was normalized to one room.
	msg, ok := host.last(EventParticipants)
	require.True(t, ok)
	var participants ParticipantsPayload
	require.NoError(t, json.Unmarshal(msg.Data, &participants))
	assert.Equal(t, 2, participants.Count)
}

func TestJoinRejectsInvalidCode(t *testing.T) {
	hub, _ := setupHub(t, time.Minute)

	conn := &fakeConn{id: "c1"}
	err := hub.Join(context.Background(), conn, "bad code")
	require.Error(t, err)
	assert.Contains(t, conn.events(), EventError)
}

func TestScanAppliedBroadcastsToRoom(t *testing.T) {
	hub, _ := setupHub(t, time.Minute)
	ctx := context.Background()

	host := &fakeConn{id: "host"}
	scanner := &fakeConn{id: "scanner"}
	require.NoError(t, hub.Join(ctx, host, "ABC234"))
	require.NoError(t, hub.Join(ctx, scanner, "ABC234"))

	hub.Publish(ctx, host, catalogTable("A1", "B2"))
	_, ok := scanner.last(EventCatalogUpdated)
	require.True(t, ok, "catalog update should reach every member")

	hub.Scan(ctx, scanner, "A1")

	msg, ok := host.last(EventScanApplied)
	require.True(t, ok, "applied scans should reach the other member")
	var result ScanResult
	require.NoError(t, json.Unmarshal(msg.Data, &result))
	assert.Equal(t, session.KindAccepted, result.Kind)
	assert.Equal(t, "A1", result.Code)
	assert.Equal(t, "scanner", result.From)
	assert.Equal(t, 50, result.ProgressPercent, "one of two items matched")

	hub.Scan(ctx, scanner, "B2")
	msg, ok = host.last(EventScanApplied)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(msg.Data, &result))
	assert.Equal(t, 100, result.ProgressPercent)
}

func TestScanRejectionsGoToSenderOnly(t *testing.T) {
	hub, _ := setupHub(t, time.Minute)
	ctx := context.Background()

	host := &fakeConn{id: "host"}
	scanner := &fakeConn{id: "scanner"}
	require.NoError(t, hub.Join(ctx, host, "ABC234"))
	require.NoError(t, hub.Join(ctx, scanner, "ABC234"))
	hub.Publish(ctx, host, catalogTable("A1"))

	hub.Scan(ctx, scanner, "A1")
	hub.Scan(ctx, scanner, "A1")

	_, ok := scanner.last(EventScanDuplicate)
	assert.True(t, ok, "the duplicate verdict should reach the sender")
	_, ok = host.last(EventScanDuplicate)
	assert.False(t, ok, "duplicates should not be broadcast")
}

func TestScanBeforeJoin(t *testing.T) {
	hub, _ := setupHub(t, time.Minute)

	conn := &fakeConn{id: "c1"}
	hub.Scan(context.Background(), conn, "A1")
	assert.Contains(t, conn.events(), EventError)
}

func TestGracePeriodClearsAbandonedSession(t *testing.T) {
	hub, manager := setupHub(t, 20*time.Millisecond)
	ctx := context.Background()

	conn := &fakeConn{id: "c1"}
	require.NoError(t, hub.Join(ctx, conn, "ABC234"))
	hub.Leave(conn)

	assert.Eventually(t, func() bool {
		_, err := manager.Get(ctx, "ABC234")
		return err == session.ErrNotFound
	}, time.Second, 10*time.Millisecond)
}

func TestRejoinWithinGraceKeepsSession(t *testing.T) {
	hub, manager := setupHub(t, 50*time.Millisecond)
	ctx := context.Background()

	conn := &fakeConn{id: "c1"}
	require.NoError(t, hub.Join(ctx, conn, "ABC234"))
	hub.Leave(conn)

	// Rejoin before the grace period elapses.
	rejoined := &fakeConn{id: "c2"}
	require.NoError(t, hub.Join(ctx, rejoined, "ABC234"))

	time.Sleep(120 * time.Millisecond)
	_, err := manager.Get(ctx, "ABC234")
	assert.NoError(t, err, "an occupied room must survive the grace period")
}
