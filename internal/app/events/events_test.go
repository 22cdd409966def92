package events

import (
	"context"
	"testing"

	"github.com/budgetbuddy/server/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func mustRaw(t *testing.T, v any) bson.Raw {
	t.Helper()
	raw, err := bson.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return raw
}

func TestDecode(t *testing.T) {
	raw := mustRaw(t, models.JoinRequest{
		ID:        "acct1/u1",
		AccountID: "acct1",
		UID:       "u1",
		Status:    models.StatusPending,
	})

	got, err := decode[models.JoinRequest](raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.ID != "acct1/u1" || got.Status != models.StatusPending {
		t.Errorf("decoded = %+v", got)
	}
}

func TestDecode_EmptyRawIsNil(t *testing.T) {
	got, err := decode[models.JoinRequest](nil)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

type dispatched struct {
	createdInbox []bool
	updates      [][2]*models.JoinRequest
	accounts     [][2]*models.Account
}

func testWatcher(d *dispatched) *Watcher {
	return New(nil, Handlers{
		JoinRequestCreated: func(_ context.Context, req *models.JoinRequest, inbox bool) error {
			d.createdInbox = append(d.createdInbox, inbox)
			return nil
		},
		JoinRequestUpdated: func(_ context.Context, before, after *models.JoinRequest) error {
			d.updates = append(d.updates, [2]*models.JoinRequest{before, after})
			return nil
		},
		AccountChanged: func(_ context.Context, before, after *models.Account) error {
			d.accounts = append(d.accounts, [2]*models.Account{before, after})
			return nil
		},
	}, zap.NewNop())
}

func TestDispatchJoinRequest_Insert(t *testing.T) {
	d := &dispatched{}
	w := testWatcher(d)

	ev := change{
		OperationType: opInsert,
		FullDocument:  mustRaw(t, models.JoinRequest{ID: "acct1/u1", AccountID: "acct1", UID: "u1"}),
	}
	if err := w.dispatchJoinRequest(context.Background(), ev); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(d.createdInbox) != 1 || d.createdInbox[0] {
		t.Errorf("createdInbox = %v, want one nested-path creation", d.createdInbox)
	}
}

func TestDispatchJoinRequest_UpdateWithoutPreImage(t *testing.T) {
	d := &dispatched{}
	w := testWatcher(d)

	ev := change{
		OperationType: opUpdate,
		FullDocument:  mustRaw(t, models.JoinRequest{ID: "acct1/u1", Status: models.StatusApproved}),
	}
	if err := w.dispatchJoinRequest(context.Background(), ev); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(d.updates) != 1 {
		t.Fatalf("updates = %d", len(d.updates))
	}
	if d.updates[0][0] != nil {
		t.Errorf("before should be nil without a pre-image")
	}
	if d.updates[0][1].Status != models.StatusApproved {
		t.Errorf("after = %+v", d.updates[0][1])
	}
}

func TestDispatchInbox_IgnoresUpdates(t *testing.T) {
	d := &dispatched{}
	w := testWatcher(d)

	ev := change{
		OperationType: opUpdate,
		FullDocument:  mustRaw(t, models.JoinRequest{ID: "inbox1"}),
	}
	if err := w.dispatchInbox(context.Background(), ev); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(d.createdInbox) != 0 {
		t.Errorf("inbox updates should not dispatch, got %v", d.createdInbox)
	}

	ev.OperationType = opInsert
	if err := w.dispatchInbox(context.Background(), ev); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(d.createdInbox) != 1 || !d.createdInbox[0] {
		t.Errorf("createdInbox = %v, want one inbox-path creation", d.createdInbox)
	}
}

func TestDispatchAccount(t *testing.T) {
	d := &dispatched{}
	w := testWatcher(d)

	insert := change{
		OperationType: opInsert,
		FullDocument:  mustRaw(t, models.Account{ID: "acct1", CreatedBy: "u1"}),
	}
	if err := w.dispatchAccount(context.Background(), insert); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	update := change{
		OperationType:            opUpdate,
		FullDocument:             mustRaw(t, models.Account{ID: "acct1", Members: []string{"u1", "u2"}}),
		FullDocumentBeforeChange: mustRaw(t, models.Account{ID: "acct1", Members: []string{"u1"}}),
	}
	if err := w.dispatchAccount(context.Background(), update); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	del := change{OperationType: opDelete}
	if err := w.dispatchAccount(context.Background(), del); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if len(d.accounts) != 2 {
		t.Fatalf("accounts dispatched = %d, want 2 (delete ignored)", len(d.accounts))
	}
	if d.accounts[0][0] != nil {
		t.Errorf("insert should carry nil before")
	}
	if d.accounts[1][0] == nil || len(d.accounts[1][1].Members) != 2 {
		t.Errorf("update snapshots wrong: %+v", d.accounts[1])
	}
}

func TestDispatchAccount_UpdateWithoutPreImageIsSkipped(t *testing.T) {
	d := &dispatched{}
	w := testWatcher(d)

	// Servers without pre-images deliver updates with no before
	// snapshot. Forwarding those with a nil before would make every
	// update look like an account creation to the notifier.
	update := change{
		OperationType: opUpdate,
		FullDocument:  mustRaw(t, models.Account{ID: "acct1", CreatedBy: "u1", Members: []string{"u1"}}),
	}
	if err := w.dispatchAccount(context.Background(), update); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(d.accounts) != 0 {
		t.Errorf("update without pre-image dispatched: %+v", d.accounts)
	}

	replace := change{
		OperationType: opReplace,
		FullDocument:  mustRaw(t, models.Account{ID: "acct1", CreatedBy: "u1"}),
	}
	if err := w.dispatchAccount(context.Background(), replace); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(d.accounts) != 0 {
		t.Errorf("replace without pre-image dispatched: %+v", d.accounts)
	}
}
