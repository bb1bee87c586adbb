package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"scan-sync/core/session"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "sessions"

// updateAttempts bounds the optimistic-concurrency retry loop.
const updateAttempts = 8

// mongoCollection is the slice of *mongo.Collection the store calls. Tests
// substitute a fake to drive the concurrency paths without a server.
type mongoCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// Mongo stores sessions in MongoDB. A TTL index on expiresAt provides native
// per-key expiry; Update uses an optimistic version check so concurrent scan
// submissions for the same session serialize instead of losing writes.
type Mongo struct {
	client     *mongo.Client
	collection mongoCollection
	now        func() time.Time
}

type mongoDoc struct {
	ID        string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	Version   int64     `bson:"version"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// NewMongo connects to MongoDB, verifies the connection, and ensures the TTL
// index exists.
func NewMongo(ctx context.Context, cfg Config) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(cfg.MongoDatabase).Collection(sessionCollection)

	// Expire documents once expiresAt passes. The monitor runs roughly once
	// a minute, so reads still filter on expiresAt themselves.
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create TTL index: %w", err)
	}

	return &Mongo{client: client, collection: collection, now: time.Now}, nil
}

var _ session.Store = (*Mongo)(nil)

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Get(ctx context.Context, id string) (*session.Session, error) {
	doc, err := m.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeSession(doc.Payload)
}

func (m *Mongo) Put(ctx context.Context, s *session.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	doc := mongoDoc{ID: s.ID, Payload: payload, Version: 1, ExpiresAt: s.ExpiresAt}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, doc, opts); err != nil {
		return fmt.Errorf("failed to store session %s: %w", s.ID, err)
	}
	return nil
}

// Update retries an optimistic read-modify-write until the version check
// passes, so concurrent writers to the same session never overwrite each
// other's ledger appends.
func (m *Mongo) Update(ctx context.Context, id string, fn func(*session.Session) error) (*session.Session, error) {
	for attempt := 0; attempt < updateAttempts; attempt++ {
		doc, err := m.fetch(ctx, id)
		if err != nil {
			return nil, err
		}

		s, err := decodeSession(doc.Payload)
		if err != nil {
			return nil, err
		}
		if err := fn(s); err != nil {
			return nil, err
		}

		payload, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to encode session: %w", err)
		}
		next := mongoDoc{ID: id, Payload: payload, Version: doc.Version + 1, ExpiresAt: s.ExpiresAt}

		result, err := m.collection.ReplaceOne(ctx,
			bson.M{"_id": id, "version": doc.Version}, next)
		if err != nil {
			return nil, fmt.Errorf("failed to update session %s: %w", id, err)
		}
		if result.ModifiedCount == 1 {
			return s, nil
		}
		// Lost the race; reread and retry.
	}
	return nil, fmt.Errorf("failed to update session %s: too many concurrent writers", id)
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

func (m *Mongo) Exists(ctx context.Context, id string) (bool, error) {
	count, err := m.collection.CountDocuments(ctx, m.liveFilter(id))
	if err != nil {
		return false, fmt.Errorf("failed to check session %s: %w", id, err)
	}
	return count > 0, nil
}

func (m *Mongo) fetch(ctx context.Context, id string) (*mongoDoc, error) {
	var doc mongoDoc
	err := m.collection.FindOne(ctx, m.liveFilter(id)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}
	return &doc, nil
}

// liveFilter matches the id only while unexpired; the TTL monitor may lag.
func (m *Mongo) liveFilter(id string) bson.M {
	return bson.M{"_id": id, "expiresAt": bson.M{"$gt": m.now()}}
}

func decodeSession(payload []byte) (*session.Session, error) {
	var s session.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}
