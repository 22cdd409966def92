// internal/app/workflow/memberchange/memberchange.go

// Package memberchange reacts to writes on account documents: it
// notifies the creator when an account first appears and notifies
// affected users when uids are added to the members array. Removals and
// non-member field changes produce nothing.
package memberchange

import (
	"context"
	"strings"

	"github.com/budgetbuddy/server/internal/domain/models"
	"go.uber.org/zap"
)

// Pusher is the notification dispatcher surface this notifier needs.
type Pusher interface {
	NotifyBestEffort(ctx context.Context, userID, title, body string, data map[string]string)
}

type Notifier struct {
	pusher Pusher
	log    *zap.Logger
}

func New(pusher Pusher, logger *zap.Logger) *Notifier {
	return &Notifier{pusher: pusher, log: logger}
}

// Handle processes one account write. before is nil on creation; after
// is nil on deletion (ignored).
//
// Every push here is best-effort: there is no primary write to protect,
// and one unreachable user must not block notifications to the rest.
func (n *Notifier) Handle(ctx context.Context, before, after *models.Account) error {
	if after == nil {
		return nil
	}

	if before == nil {
		if after.CreatedBy != "" {
			n.pusher.NotifyBestEffort(ctx, after.CreatedBy,
				"Account created",
				"Your account "+after.ID+" is ready.",
				accountData(after.ID))
		}
		return nil
	}

	added := Added(before.Members, after.Members)
	if len(added) == 0 {
		return nil
	}

	for _, uid := range added {
		n.pusher.NotifyBestEffort(ctx, uid,
			"Added to account",
			"You were added to account "+after.ID+".",
			accountData(after.ID))
	}

	// One summary to the creator, not one push per added member.
	if after.CreatedBy != "" {
		n.pusher.NotifyBestEffort(ctx, after.CreatedBy,
			"Members added",
			"Added to account "+after.ID+": "+strings.Join(added, ", "),
			accountData(after.ID))
	}

	n.log.Info("membership additions notified",
		zap.String("account_id", after.ID),
		zap.Int("added", len(added)))
	return nil
}

// Added returns the uids present in after but absent from before,
// preserving after's order.
func Added(before, after []string) []string {
	seen := make(map[string]struct{}, len(before))
	for _, uid := range before {
		seen[uid] = struct{}{}
	}
	var added []string
	for _, uid := range after {
		if _, ok := seen[uid]; !ok {
			added = append(added, uid)
		}
	}
	return added
}

func accountData(accountID string) map[string]string {
	return map[string]string{"type": "account", "accountId": accountID}
}
