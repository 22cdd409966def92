// internal/app/store/joinrequests/joinrequeststore.go
package joinrequeststore

import (
	"context"
	"time"

	"github.com/budgetbuddy/server/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads and writes join requests on both paths the mobile clients
// use: join_requests holds the nested-path records keyed
// "{accountID}/{uid}", join_request_inbox holds fallback flat records
// written by clients whose rules blocked the nested path.
type Store struct {
	requests *mongo.Collection
	inbox    *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		requests: db.Collection("join_requests"),
		inbox:    db.Collection("join_request_inbox"),
	}
}

// Create inserts a nested-path join request. The document key is derived
// from (AccountID, UID), so a second request by the same user for the
// same account is a duplicate-key error.
func (s *Store) Create(ctx context.Context, req *models.JoinRequest) error {
	req.ID = models.MemberKey(req.AccountID, req.UID)
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	_, err := s.requests.InsertOne(ctx, req)
	return err
}

// CreateInbox inserts a fallback flat-path join request with a generated
// key. AccountID may be empty here; the workflow drops such records.
func (s *Store) CreateInbox(ctx context.Context, req *models.JoinRequest) error {
	req.ID = uuid.NewString()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}
	_, err := s.inbox.InsertOne(ctx, req)
	return err
}

// Get loads a nested-path request by (accountID, uid).
func (s *Store) Get(ctx context.Context, accountID, uid string) (*models.JoinRequest, error) {
	var req models.JoinRequest
	err := s.requests.FindOne(ctx, bson.M{"_id": models.MemberKey(accountID, uid)}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// SetStatus updates a nested-path request's status. This is the write an
// account owner performs through the app; the workflow only observes it.
func (s *Store) SetStatus(ctx context.Context, accountID, uid, status string) error {
	_, err := s.requests.UpdateOne(ctx,
		bson.M{"_id": models.MemberKey(accountID, uid)},
		bson.M{"$set": bson.M{"status": status}})
	return err
}

// StampProcessed marks a request with the time the approval side effects
// completed. Advisory bookkeeping, deliberately outside the membership
// transaction.
func (s *Store) StampProcessed(ctx context.Context, requestID string) error {
	_, err := s.requests.UpdateOne(ctx,
		bson.M{"_id": requestID},
		bson.M{"$set": bson.M{"last_updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(false))
	return err
}
