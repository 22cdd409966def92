// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/budgetbuddy/server/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/budgetbuddy/server/internal/app/system/txn"
)

// ErrNotFound is returned by Get when no account exists with the id.
var ErrNotFound = errors.New("account not found")

type Store struct {
	accounts *mongo.Collection
	members  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		accounts: db.Collection("accounts"),
		members:  db.Collection("account_members"),
	}
}

// Get loads one account by id.
func (s *Store) Get(ctx context.Context, accountID string) (*models.Account, error) {
	var acct models.Account
	err := s.accounts.FindOne(ctx, bson.M{"_id": accountID}).Decode(&acct)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// Create inserts a new account document.
func (s *Store) Create(ctx context.Context, acct *models.Account) error {
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = time.Now().UTC()
	}
	acct.UpdatedAt = acct.CreatedAt
	_, err := s.accounts.InsertOne(ctx, acct)
	return err
}

// ApproveMember performs the one concurrency-sensitive write in the
// system: append m.UID to the account's members array iff absent, and
// upsert the member record, atomically.
//
// The members array must be re-read fresh on every transaction attempt:
// the driver re-runs the callback on transient write conflicts, so two
// racing approvals on the same account serialize and neither duplicates
// the uid nor loses an append from a concurrent unrelated mutation.
//
// On deployments without transaction support (standalone Mongo) the
// append degrades to a single-document $addToSet, which is atomic on its
// own; the member upsert then happens as a separate idempotent write.
func (s *Store) ApproveMember(ctx context.Context, m models.Member) error {
	if m.AccountID == "" || m.UID == "" {
		return fmt.Errorf("approve member: missing account id or uid")
	}

	err := txn.WithTransaction(ctx, s.accounts.Database().Client(), func(sc mongo.SessionContext) error {
		var acct models.Account
		if err := s.accounts.FindOne(sc, bson.M{"_id": m.AccountID}).Decode(&acct); err != nil {
			return fmt.Errorf("load account %s: %w", m.AccountID, err)
		}
		if !acct.HasMember(m.UID) {
			members := append(acct.Members, m.UID)
			_, err := s.accounts.UpdateOne(sc,
				bson.M{"_id": m.AccountID},
				bson.M{"$set": bson.M{"members": members, "updated_at": time.Now().UTC()}})
			if err != nil {
				return fmt.Errorf("append member: %w", err)
			}
		}
		return s.upsertMember(sc, m)
	})
	if err == nil {
		return nil
	}
	if !txn.IsNotSupported(err) {
		return err
	}

	zap.L().Warn("transactions unavailable; using single-document member append",
		zap.String("account_id", m.AccountID),
		zap.String("uid", m.UID))

	res, err := s.accounts.UpdateOne(ctx,
		bson.M{"_id": m.AccountID},
		bson.M{
			"$addToSet": bson.M{"members": m.UID},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return fmt.Errorf("append member: %w", err)
	}
	if res.MatchedCount == 0 {
		// Same failure shape as the transactional path's account load,
		// and no orphan member record gets written.
		return fmt.Errorf("load account %s: %w", m.AccountID, mongo.ErrNoDocuments)
	}
	return s.upsertMember(ctx, m)
}

func (s *Store) upsertMember(ctx context.Context, m models.Member) error {
	filter := bson.M{"_id": models.MemberKey(m.AccountID, m.UID)}
	update := bson.M{"$set": bson.M{
		"account_id":   m.AccountID,
		"uid":          m.UID,
		"role":         m.Role,
		"display_name": m.DisplayName,
		"email":        m.Email,
		"added_at":     m.AddedAt,
		"added_by":     m.AddedBy,
	}}
	_, err := s.members.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert member record: %w", err)
	}
	return nil
}
