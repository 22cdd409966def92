package tokenstore

import (
	"testing"
	"time"

	"github.com/budgetbuddy/server/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRegisterAndListActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if err := store.Register(ctx, "u1", "tok-a", "android"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.Register(ctx, "u1", "tok-b", "ios"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	tokens, err := store.ListActive(ctx, "u1")
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(tokens) != 2 {
		t.Errorf("tokens = %v, want 2 entries", tokens)
	}
}

func TestRegister_ReRegisterMovesTokenAndClearsDeadStamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if err := store.Register(ctx, "u1", "tok-a", "android"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.MarkDead(ctx, []string{"tok-a"}); err != nil {
		t.Fatalf("MarkDead failed: %v", err)
	}

	// The same token value re-registered by another user revives it
	// under the new owner.
	if err := store.Register(ctx, "u2", "tok-a", "android"); err != nil {
		t.Fatalf("re-Register failed: %v", err)
	}

	if tokens, _ := store.ListActive(ctx, "u1"); len(tokens) != 0 {
		t.Errorf("old owner still has tokens: %v", tokens)
	}
	tokens, err := store.ListActive(ctx, "u2")
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != "tok-a" {
		t.Errorf("new owner tokens = %v", tokens)
	}

	n, err := db.Collection("device_tokens").CountDocuments(ctx, bson.M{"token": "tok-a"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected a single document for the token, got %d", n)
	}
}

func TestMarkDead_ExcludesFromListActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if err := store.Register(ctx, "u1", "tok-a", "android"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.Register(ctx, "u1", "tok-b", "android"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.MarkDead(ctx, []string{"tok-a"}); err != nil {
		t.Fatalf("MarkDead failed: %v", err)
	}

	tokens, err := store.ListActive(ctx, "u1")
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != "tok-b" {
		t.Errorf("active tokens = %v", tokens)
	}
}

func TestRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if err := store.Register(ctx, "u1", "tok-a", "android"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.Remove(ctx, "u1", "tok-a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	tokens, err := store.ListActive(ctx, "u1")
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("tokens after removal = %v", tokens)
	}
}

func TestPruneDead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if err := store.Register(ctx, "u1", "tok-old", "android"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := store.Register(ctx, "u1", "tok-live", "android"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Backdate the dead stamp past the grace window.
	if err := store.MarkDead(ctx, []string{"tok-old"}); err != nil {
		t.Fatalf("MarkDead failed: %v", err)
	}
	_, err := db.Collection("device_tokens").UpdateOne(ctx,
		bson.M{"token": "tok-old"},
		bson.M{"$set": bson.M{"dead_at": time.Now().UTC().Add(-48 * time.Hour)}})
	if err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	deleted, err := store.PruneDead(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneDead failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	n, err := db.Collection("device_tokens").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected the live token to survive, count = %d", n)
	}
}
