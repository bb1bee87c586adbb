package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"scan-sync/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection holds one session document in memory and can lose the
// version race a configurable number of times, the way a concurrent writer
// on another instance would make it.
type fakeCollection struct {
	mu        sync.Mutex
	doc       *mongoDoc
	conflicts int
	replaces  int
}

func (f *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doc == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(*f.doc, nil, nil)
}

func (f *fakeCollection) ReplaceOne(ctx context.Context, filter, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces++
	if f.conflicts > 0 {
		// Another writer won; bump the stored version so the caller's
		// stale filter no longer matches.
		f.conflicts--
		f.doc.Version++
		return &mongo.UpdateResult{ModifiedCount: 0}, nil
	}
	doc := replacement.(mongoDoc)
	f.doc = &doc
	return &mongo.UpdateResult{ModifiedCount: 1}, nil
}

func (f *fakeCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doc == nil {
		return 0, nil
	}
	return 1, nil
}

func (f *fakeCollection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doc == nil {
		return &mongo.DeleteResult{}, nil
	}
	f.doc = nil
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func seededCollection(t *testing.T, s *session.Session, conflicts int) *fakeCollection {
	t.Helper()
	payload, err := json.Marshal(s)
	require.NoError(t, err)
	return &fakeCollection{
		doc:       &mongoDoc{ID: s.ID, Payload: payload, Version: 1, ExpiresAt: s.ExpiresAt},
		conflicts: conflicts,
	}
}

func TestMongoUpdateRetriesOnVersionConflict(t *testing.T) {
	fake := seededCollection(t, testSession("ABC234", time.Hour), 2)
	m := &Mongo{collection: fake, now: time.Now}

	s, err := m.Update(context.Background(), "ABC234", func(s *session.Session) error {
		s.Ledger.Append("A1", time.Now())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, fake.replaces, "two lost races then one successful write")
	assert.Equal(t, 1, s.Ledger.Count("A1"))

	// The write that landed carries exactly one append even though fn ran on
	// every attempt, because each retry starts from a fresh read.
	stored, err := decodeSession(fake.doc.Payload)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Ledger.Count("A1"))
	assert.Equal(t, int64(4), fake.doc.Version)
}

func TestMongoUpdateGivesUpAfterTooManyConflicts(t *testing.T) {
	fake := seededCollection(t, testSession("ABC234", time.Hour), updateAttempts)
	m := &Mongo{collection: fake, now: time.Now}

	_, err := m.Update(context.Background(), "ABC234", func(s *session.Session) error {
		s.Ledger.Append("A1", time.Now())
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many concurrent writers")
	assert.Equal(t, updateAttempts, fake.replaces)
}

func TestMongoUpdateUnknownSession(t *testing.T) {
	m := &Mongo{collection: &fakeCollection{}, now: time.Now}

	_, err := m.Update(context.Background(), "ABC234", func(*session.Session) error { return nil })
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMongoUpdateFnErrorAbortsWrite(t *testing.T) {
	fake := seededCollection(t, testSession("ABC234", time.Hour), 0)
	m := &Mongo{collection: fake, now: time.Now}

	_, err := m.Update(context.Background(), "ABC234", func(*session.Session) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, fake.replaces, "a failing fn must not reach the store")
}

func TestMongoGetDecodesStoredPayload(t *testing.T) {
	want := testSession("ABC234", time.Hour)
	want.Ledger.Append("A1", time.Now())
	fake := seededCollection(t, want, 0)
	m := &Mongo{collection: fake, now: time.Now}

	got, err := m.Get(context.Background(), "ABC234")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, 1, got.Ledger.Count("A1"))
}
