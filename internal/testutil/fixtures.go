package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/budgetbuddy/server/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAccount inserts a test account owned by ownerUID.
func (f *Fixtures) CreateAccount(ctx context.Context, accountID, ownerUID, ownerEmail string) models.Account {
	f.t.Helper()

	now := time.Now().UTC()
	acct := models.Account{
		ID:             accountID,
		CreatedBy:      ownerUID,
		CreatedByEmail: ownerEmail,
		Members:        []string{ownerUID},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("accounts").InsertOne(ctx, acct); err != nil {
		f.t.Fatalf("failed to create test account: %v", err)
	}
	return acct
}

// CreateMemberRecord inserts a per-member record with the given role.
func (f *Fixtures) CreateMemberRecord(ctx context.Context, accountID, uid, role, email string) models.Member {
	f.t.Helper()

	m := models.Member{
		ID:        models.MemberKey(accountID, uid),
		AccountID: accountID,
		UID:       uid,
		Role:      role,
		Email:     email,
		AddedAt:   time.Now().UTC(),
	}

	if _, err := f.db.Collection("account_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member record: %v", err)
	}
	return m
}

// CreateJoinRequest inserts a nested-path join request with the given status.
func (f *Fixtures) CreateJoinRequest(ctx context.Context, accountID, uid, status string) models.JoinRequest {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.JoinRequest{
		ID:        models.MemberKey(accountID, uid),
		AccountID: accountID,
		UID:       uid,
		Status:    status,
		CreatedAt: now,
	}

	if _, err := f.db.Collection("join_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test join request: %v", err)
	}
	return req
}

// RegisterToken inserts an active device token for uid.
func (f *Fixtures) RegisterToken(ctx context.Context, uid, token string) models.DeviceToken {
	f.t.Helper()

	dt := models.DeviceToken{
		UID:       uid,
		Token:     token,
		Platform:  "android",
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("device_tokens").InsertOne(ctx, dt); err != nil {
		f.t.Fatalf("failed to register test token: %v", err)
	}
	return dt
}
