// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureAccountMembers(ctx, db); err != nil {
		problems = append(problems, "account_members: "+err.Error())
	}
	if err := ensureJoinRequests(ctx, db); err != nil {
		problems = append(problems, "join_requests: "+err.Error())
	}
	if err := ensureJoinRequestInbox(ctx, db); err != nil {
		problems = append(problems, "join_request_inbox: "+err.Error())
	}
	if err := ensureDeviceTokens(ctx, db); err != nil {
		problems = append(problems, "device_tokens: "+err.Error())
	}
	if err := ensureMail(ctx, db); err != nil {
		problems = append(problems, "mail: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Member records and nested join requests are keyed "{account}/{uid}",
// so uniqueness needs no secondary index; account_id carries the scans.
func ensureAccountMembers(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("account_members"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}},
			Options: options.Index().SetName("account_id_1"),
		},
	})
}

func ensureJoinRequests(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("join_requests"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("account_id_1_status_1"),
		},
	})
}

func ensureJoinRequestInbox(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("join_request_inbox"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}},
			Options: options.Index().SetName("account_id_1"),
		},
	})
}

func ensureDeviceTokens(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("device_tokens"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetName("token_1").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "uid", Value: 1}},
			Options: options.Index().SetName("uid_1"),
		},
		{
			Keys:    bson.D{{Key: "dead_at", Value: 1}},
			Options: options.Index().SetName("dead_at_1").SetSparse(true),
		},
	})
}

func ensureMail(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("mail"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("created_at_1"),
		},
	})
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", name))

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			// An index with the same keys under another name (or with
			// different options) predates this build; keep it.
			if isOptionsConflictErr(err) {
				zap.L().Warn("index options conflict; keeping existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", name),
					zap.Error(err))
				continue
			}
			return err
		}
	}
	return nil
}

// EnsurePreImages turns on change-stream pre-images for the collections
// whose update events need a before snapshot. Without this, update
// events carry no fullDocumentBeforeChange and the watcher has to skip
// them.
func EnsurePreImages(ctx context.Context, db *mongo.Database) error {
	for _, coll := range []string{"accounts", "join_requests"} {
		// collMod needs the collection to exist already.
		if err := db.CreateCollection(ctx, coll); err != nil {
			var cmdErr mongo.CommandError
			if !errors.As(err, &cmdErr) || cmdErr.Code != 48 { // NamespaceExists
				return errors.New("create collection " + coll + ": " + err.Error())
			}
		}

		zap.L().Info("enabling change stream pre-images", zap.String("collection", coll))
		err := db.RunCommand(ctx, bson.D{
			{Key: "collMod", Value: coll},
			{Key: "changeStreamPreAndPostImages", Value: bson.D{{Key: "enabled", Value: true}}},
		}).Err()
		if err != nil {
			return errors.New("enable pre-images on " + coll + ": " + err.Error())
		}
	}
	return nil
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with
// the same keys already exists under a different name.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict") ||
		strings.Contains(err.Error(), "IndexKeySpecsConflict")
}
