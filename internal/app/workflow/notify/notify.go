// internal/app/workflow/notify/notify.go

// Package notify fans a push message out to every device registered for
// a user.
package notify

import (
	"context"
	"errors"
	"fmt"

	tokenstore "github.com/budgetbuddy/server/internal/app/store/tokens"
	"github.com/budgetbuddy/server/internal/app/system/push"
	"go.uber.org/zap"
)

// ErrEmptyUserID is returned when a caller passes no target user.
var ErrEmptyUserID = errors.New("notify: empty user id")

type Dispatcher struct {
	tokens *tokenstore.Store
	sender push.Sender
	log    *zap.Logger
}

func New(tokens *tokenstore.Store, sender push.Sender, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{tokens: tokens, sender: sender, log: logger}
}

// Notify sends one multicast to all of the user's active device tokens.
// A user with no registered devices is a silent no-op, not an error.
// Returns the number of tokens targeted.
func (d *Dispatcher) Notify(ctx context.Context, userID, title, body string, data map[string]string) (int, error) {
	if userID == "" {
		return 0, ErrEmptyUserID
	}

	tokens, err := d.tokens.ListActive(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load tokens for %s: %w", userID, err)
	}
	if len(tokens) == 0 {
		d.log.Debug("no device tokens registered", zap.String("uid", userID))
		return 0, nil
	}

	res, err := d.sender.Send(ctx, push.Message{
		Tokens: tokens,
		Title:  title,
		Body:   body,
		Data:   data,
	})
	if err != nil {
		return 0, fmt.Errorf("push to %s: %w", userID, err)
	}

	// Retire tokens the provider says are gone. Failure here must not
	// turn a delivered push into an error.
	if len(res.Dead) > 0 {
		if err := d.tokens.MarkDead(ctx, res.Dead); err != nil {
			d.log.Warn("failed to mark dead tokens", zap.Int("count", len(res.Dead)), zap.Error(err))
		}
	}

	d.log.Info("push dispatched",
		zap.String("uid", userID),
		zap.Int("tokens", len(tokens)),
		zap.Int("success", res.Success),
		zap.Int("failure", res.Failure))
	return len(tokens), nil
}

// NotifyBestEffort sends and logs failures instead of returning them.
// Workflow steps whose primary action already succeeded use this so a
// notification outage never rolls back or fails the handler.
func (d *Dispatcher) NotifyBestEffort(ctx context.Context, userID, title, body string, data map[string]string) {
	if _, err := d.Notify(ctx, userID, title, body, data); err != nil {
		d.log.Warn("best-effort push failed",
			zap.String("uid", userID),
			zap.String("title", title),
			zap.Error(err))
	}
}
