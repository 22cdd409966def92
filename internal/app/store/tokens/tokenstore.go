// internal/app/store/tokens/tokenstore.go
package tokenstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages the device-token registry. Tokens the push provider has
// reported permanently invalid are stamped with dead_at rather than
// deleted inline, so a delivery path never blocks on registry cleanup;
// the prune job removes them later.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("device_tokens")}
}

// Register upserts a token for a user. Re-registering an existing token
// (app restart, token refresh landing on the same value) re-points it at
// the user and clears any dead stamp.
func (s *Store) Register(ctx context.Context, uid, token, platform string) error {
	now := time.Now().UTC()
	filter := bson.M{"token": token}
	update := bson.M{
		"$set": bson.M{
			"uid":        uid,
			"platform":   platform,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
		"$unset":       bson.M{"dead_at": ""},
	}
	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Remove deletes one token belonging to a user.
func (s *Store) Remove(ctx context.Context, uid, token string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"uid": uid, "token": token})
	return err
}

// ListActive returns the user's token values, excluding dead-stamped ones.
// An empty result is normal: the user may have no registered devices.
func (s *Store) ListActive(ctx context.Context, uid string) ([]string, error) {
	cur, err := s.c.Find(ctx, bson.M{"uid": uid, "dead_at": bson.M{"$exists": false}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tokens []string
	for cur.Next(ctx) {
		var row struct {
			Token string `bson:"token"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		tokens = append(tokens, row.Token)
	}
	return tokens, cur.Err()
}

// MarkDead stamps tokens the provider rejected as unregistered.
func (s *Store) MarkDead(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	_, err := s.c.UpdateMany(ctx,
		bson.M{"token": bson.M{"$in": tokens}},
		bson.M{"$set": bson.M{"dead_at": time.Now().UTC()}})
	return err
}

// PruneDead deletes tokens dead-stamped earlier than the cutoff.
// Returns the number of documents deleted.
func (s *Store) PruneDead(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.c.DeleteMany(ctx, bson.M{"dead_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
