package sync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scan-sync/core/session"
)

// scriptedSync serves one scripted result per Snapshot call, repeating the
// last one forever.
type scriptedSync struct {
	mu      sync.Mutex
	results []snapshotResult
	calls   int
}

type snapshotResult struct {
	s   *session.Session
	err error
}

func (f *scriptedSync) Snapshot(context.Context, string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	r := f.results[i]
	return r.s, r.err
}

func (f *scriptedSync) SubmitScan(context.Context, string, string) (session.Decision, error) {
	return session.Decision{}, nil
}

func (f *scriptedSync) PublishCatalog(context.Context, string, *session.Catalog) (*session.Session, error) {
	return nil, nil
}

func (f *scriptedSync) Clear(context.Context, string) error { return nil }

func snapshotOf(scans int) *session.Session {
	ledger := &session.Ledger{}
	for i := 0; i < scans; i++ {
		ledger.Append("A1", time.Now())
	}
	return &session.Session{ID: "ABC234", Catalog: session.EmptyCatalog(), Ledger: ledger}
}

func TestPollerReplacesReplicaEachTick(t *testing.T) {
	scripted := &scriptedSync{results: []snapshotResult{
		{s: snapshotOf(0)},
		{s: snapshotOf(2)},
		{err: session.ErrNotFound},
	}}

	var got []int
	poller := NewPoller(scripted, "ABC234", 5*time.Millisecond, zap.NewNop(),
		func(s *session.Session) { got = append(got, s.Ledger.Len()) })

	err := poller.Run(context.Background())
	require.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, []int{0, 2}, got, "each tick replaces the replica wholesale")
}

func TestPollerRetriesTransientErrors(t *testing.T) {
	scripted := &scriptedSync{results: []snapshotResult{
		{err: assert.AnError},
		{s: snapshotOf(1)},
		{err: session.ErrNotFound},
	}}

	var got []int
	poller := NewPoller(scripted, "ABC234", 5*time.Millisecond, zap.NewNop(),
		func(s *session.Session) { got = append(got, s.Ledger.Len()) })

	err := poller.Run(context.Background())
	require.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, []int{1}, got, "a transient failure keeps the loop alive")
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	scripted := &scriptedSync{results: []snapshotResult{{s: snapshotOf(0)}}}

	ctx, cancel := context.WithCancel(context.Background())
	poller := NewPoller(scripted, "ABC234", time.Millisecond, zap.NewNop(),
		func(*session.Session) {})

	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}
