package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sessionCollection = "sessions"
	defaultSessionTTL = 7 * 24 * time.Hour
)

// SessionStore is a ports.KVStorage kept in the "sessions" collection, one
// document per key. Documents expire through a TTL index on expires_at.
type SessionStore struct {
	coll *mongo.Collection
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionStore(db *mongo.Database, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{coll: db.Collection(sessionCollection), ttl: ttl, now: time.Now}
}

type sessionEntry struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// EnsureIndexes creates the expiry index. Safe to call on every start.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create session ttl index: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, bool, error) {
	var e sessionEntry
	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": s.now().UTC()}}
	if err := s.coll.FindOne(ctx, filter).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("find session key: %w", err)
	}
	return e.Value, true, nil
}

func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	update := bson.M{"$set": bson.M{
		"value":      value,
		"expires_at": s.now().UTC().Add(s.ttl),
	}}
	_, err := s.coll.UpdateByID(ctx, key, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session key: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": keys}}); err != nil {
		return fmt.Errorf("delete session keys: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.coll.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
