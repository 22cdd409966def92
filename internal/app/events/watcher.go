// internal/app/events/watcher.go
package events

import (
	"context"
	"sync"
	"time"

	"github.com/budgetbuddy/server/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Handlers are the workflow entry points the watcher dispatches into.
type Handlers struct {
	// JoinRequestCreated fires on an insert into join_requests (inbox
	// false) or join_request_inbox (inbox true).
	JoinRequestCreated func(ctx context.Context, req *models.JoinRequest, inbox bool) error
	// JoinRequestUpdated fires on update/replace of a nested-path
	// request; before is nil when no pre-image was available.
	JoinRequestUpdated func(ctx context.Context, before, after *models.JoinRequest) error
	// AccountChanged fires on insert/update/replace of an account;
	// before is nil only on insert. Updates that arrive without a
	// pre-image are skipped, never dispatched with a nil before.
	AccountChanged func(ctx context.Context, before, after *models.Account) error
}

// Watcher tails change streams on the three event-source collections and
// runs until its context is canceled or a stream fails past retry.
type Watcher struct {
	db  *mongo.Database
	h   Handlers
	log *zap.Logger

	// retryWait spaces out re-opens after a stream error.
	retryWait time.Duration
}

func New(db *mongo.Database, h Handlers, logger *zap.Logger) *Watcher {
	return &Watcher{db: db, h: h, log: logger, retryWait: 5 * time.Second}
}

// Run starts one stream per collection and blocks until ctx is canceled.
// A handler error is logged and the event skipped (the handlers are
// idempotent and the store is the source of truth); a stream error
// re-opens the stream from the last resume token.
func (w *Watcher) Run(ctx context.Context) {
	var wg sync.WaitGroup
	streams := []struct {
		coll     string
		dispatch func(ctx context.Context, ev change) error
	}{
		{"join_requests", w.dispatchJoinRequest},
		{"join_request_inbox", w.dispatchInbox},
		{"accounts", w.dispatchAccount},
	}

	for _, s := range streams {
		wg.Add(1)
		go func(coll string, dispatch func(context.Context, change) error) {
			defer wg.Done()
			w.tail(ctx, coll, dispatch)
		}(s.coll, s.dispatch)
	}
	wg.Wait()
}

// tail opens and re-opens one collection's change stream.
func (w *Watcher) tail(ctx context.Context, coll string, dispatch func(context.Context, change) error) {
	var resumeToken bson.Raw

	for ctx.Err() == nil {
		opts := options.ChangeStream().
			SetFullDocument(options.UpdateLookup).
			SetFullDocumentBeforeChange(options.WhenAvailable)
		if resumeToken != nil {
			opts.SetResumeAfter(resumeToken)
		}

		cs, err := w.db.Collection(coll).Watch(ctx, mongo.Pipeline{}, opts)
		if err != nil {
			w.log.Error("change stream open failed",
				zap.String("collection", coll), zap.Error(err))
			// A stale resume token is not recoverable by retrying with it.
			resumeToken = nil
			w.sleep(ctx)
			continue
		}

		w.log.Info("change stream open", zap.String("collection", coll))

		for cs.Next(ctx) {
			var ev change
			if err := cs.Decode(&ev); err != nil {
				w.log.Error("change event decode failed",
					zap.String("collection", coll), zap.Error(err))
				continue
			}
			resumeToken = cs.ResumeToken()

			if err := dispatch(ctx, ev); err != nil {
				w.log.Error("event handler failed",
					zap.String("collection", coll),
					zap.String("operation", ev.OperationType),
					zap.Error(err))
			}
		}

		if err := cs.Err(); err != nil && ctx.Err() == nil {
			w.log.Error("change stream broke; reopening",
				zap.String("collection", coll), zap.Error(err))
		}
		cs.Close(context.Background())
		w.sleep(ctx)
	}
}

func (w *Watcher) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.retryWait):
	}
}

func (w *Watcher) dispatchJoinRequest(ctx context.Context, ev change) error {
	switch ev.OperationType {
	case opInsert:
		after, err := decode[models.JoinRequest](ev.FullDocument)
		if err != nil || after == nil {
			return err
		}
		return w.h.JoinRequestCreated(ctx, after, false)
	case opUpdate, opReplace:
		after, err := decode[models.JoinRequest](ev.FullDocument)
		if err != nil || after == nil {
			return err
		}
		before, err := decode[models.JoinRequest](ev.FullDocumentBeforeChange)
		if err != nil {
			return err
		}
		return w.h.JoinRequestUpdated(ctx, before, after)
	}
	return nil
}

func (w *Watcher) dispatchInbox(ctx context.Context, ev change) error {
	if ev.OperationType != opInsert {
		return nil
	}
	after, err := decode[models.JoinRequest](ev.FullDocument)
	if err != nil || after == nil {
		return err
	}
	return w.h.JoinRequestCreated(ctx, after, true)
}

func (w *Watcher) dispatchAccount(ctx context.Context, ev change) error {
	switch ev.OperationType {
	case opInsert:
		after, err := decode[models.Account](ev.FullDocument)
		if err != nil || after == nil {
			return err
		}
		return w.h.AccountChanged(ctx, nil, after)
	case opUpdate, opReplace:
		after, err := decode[models.Account](ev.FullDocument)
		if err != nil || after == nil {
			return err
		}
		before, err := decode[models.Account](ev.FullDocumentBeforeChange)
		if err != nil {
			return err
		}
		if before == nil {
			// The operation type says a prior version existed. Without
			// its snapshot the member diff cannot be computed, and
			// handing the handler a nil before would make every update
			// look like a creation.
			w.log.Warn("account update without pre-image skipped",
				zap.String("account_id", after.ID))
			return nil
		}
		return w.h.AccountChanged(ctx, before, after)
	case opDelete:
		// Account deletions are out of scope for notifications.
	}
	return nil
}
