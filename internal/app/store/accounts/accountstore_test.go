package accountstore

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/budgetbuddy/server/internal/domain/models"
	"github.com/budgetbuddy/server/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func member(accountID, uid string) models.Member {
	return models.Member{
		ID:        models.MemberKey(accountID, uid),
		AccountID: accountID,
		UID:       uid,
		Role:      models.RoleMember,
		AddedAt:   time.Now().UTC(),
		AddedBy:   "test",
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := New(db).Get(ctx, "no-such-account")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApproveMember_AppendsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateAccount(ctx, "acct1", "owner1", "owner@example.com")

	store := New(db)
	if err := store.ApproveMember(ctx, member("acct1", "u2")); err != nil {
		t.Fatalf("ApproveMember failed: %v", err)
	}

	acct, err := store.Get(ctx, "acct1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(acct.Members) != 2 || !acct.HasMember("u2") {
		t.Errorf("members after approval: %v", acct.Members)
	}

	// Redelivered approval must not duplicate the uid.
	if err := store.ApproveMember(ctx, member("acct1", "u2")); err != nil {
		t.Fatalf("second ApproveMember failed: %v", err)
	}
	acct, err = store.Get(ctx, "acct1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(acct.Members) != 2 {
		t.Errorf("redelivery duplicated the member: %v", acct.Members)
	}
}

func TestApproveMember_UpsertsMemberRecord(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateAccount(ctx, "acct1", "owner1", "owner@example.com")

	store := New(db)
	m := member("acct1", "u2")
	m.Email = "u2@example.com"
	if err := store.ApproveMember(ctx, m); err != nil {
		t.Fatalf("ApproveMember failed: %v", err)
	}

	var got models.Member
	err := db.Collection("account_members").
		FindOne(ctx, bson.M{"_id": models.MemberKey("acct1", "u2")}).
		Decode(&got)
	if err != nil {
		t.Fatalf("member record not found: %v", err)
	}
	if got.UID != "u2" || got.Email != "u2@example.com" || got.Role != models.RoleMember {
		t.Errorf("member record: %+v", got)
	}
}

func TestApproveMember_MissingAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	err := store.ApproveMember(ctx, member("no-such-account", "u2"))
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments for missing account, got %v", err)
	}

	// The failed approval must not leave an orphan member record behind.
	n, err := db.Collection("account_members").
		CountDocuments(ctx, bson.M{"_id": models.MemberKey("no-such-account", "u2")})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 0 {
		t.Errorf("orphan member record written for missing account")
	}
}

func TestApproveMember_MissingIdentity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if err := store.ApproveMember(ctx, models.Member{AccountID: "acct1"}); err == nil {
		t.Fatal("expected error for missing uid")
	}
	if err := store.ApproveMember(ctx, models.Member{UID: "u1"}); err == nil {
		t.Fatal("expected error for missing account id")
	}
}

func TestApproveMember_ConcurrentApprovals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateAccount(ctx, "acct1", "owner1", "owner@example.com")

	store := New(db)
	uids := []string{"u2", "u3", "u4", "u5", "u6"}

	var wg sync.WaitGroup
	errs := make(chan error, len(uids))
	for _, uid := range uids {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			errs <- store.ApproveMember(ctx, member("acct1", uid))
		}(uid)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent ApproveMember failed: %v", err)
		}
	}

	acct, err := store.Get(ctx, "acct1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(acct.Members) != len(uids)+1 {
		t.Errorf("expected %d members, got %v", len(uids)+1, acct.Members)
	}
	for _, uid := range uids {
		if !acct.HasMember(uid) {
			t.Errorf("missing member %s: %v", uid, acct.Members)
		}
	}
}
