// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"time"

	"github.com/budgetbuddy/server/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("account_members")}
}

// ListByAccount returns every member record of an account.
func (s *Store) ListByAccount(ctx context.Context, accountID string) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.Member
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Get loads one member record by (accountID, uid).
func (s *Store) Get(ctx context.Context, accountID, uid string) (*models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": models.MemberKey(accountID, uid)}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Upsert writes a member record keyed by its account/uid pair.
func (s *Store) Upsert(ctx context.Context, m models.Member) error {
	if m.AddedAt.IsZero() {
		m.AddedAt = time.Now().UTC()
	}
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
	_, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// CountByAccount returns the number of member records for an account,
// optionally filtered by role.
func (s *Store) CountByAccount(ctx context.Context, accountID, role string) (int64, error) {
	filter := bson.M{"account_id": accountID}
	if role != "" {
		filter["role"] = role
	}
	return s.c.CountDocuments(ctx, filter)
}
