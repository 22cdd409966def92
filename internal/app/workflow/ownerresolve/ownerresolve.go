// internal/app/workflow/ownerresolve/ownerresolve.go

// Package ownerresolve computes the set of uids considered authoritative
// over an account's membership. Read-only; never mutates anything.
package ownerresolve

import (
	"context"
	"errors"

	accountstore "github.com/budgetbuddy/server/internal/app/store/accounts"
	memberstore "github.com/budgetbuddy/server/internal/app/store/members"
	"github.com/budgetbuddy/server/internal/domain/models"
	"go.uber.org/zap"
)

type Resolver struct {
	accounts *accountstore.Store
	members  *memberstore.Store
	log      *zap.Logger
}

func New(accounts *accountstore.Store, members *memberstore.Store, logger *zap.Logger) *Resolver {
	return &Resolver{accounts: accounts, members: members, log: logger}
}

// Resolve returns the owner uid set for an account. A missing account
// resolves to the empty set. A failed member-record scan is downgraded to
// "no record owners found" so a flaky secondary read never kills a whole
// join-request event.
func (r *Resolver) Resolve(ctx context.Context, accountID string) (map[string]struct{}, error) {
	acct, err := r.accounts.Get(ctx, accountID)
	if errors.Is(err, accountstore.ErrNotFound) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}

	records, err := r.members.ListByAccount(ctx, accountID)
	if err != nil {
		r.log.Warn("member scan failed during owner resolution",
			zap.String("account_id", accountID), zap.Error(err))
		records = nil
	}

	return Pick(acct, records), nil
}

// ResolvePrimary returns the single best owner uid for an account (see
// Primary), or "" when none can be identified.
func (r *Resolver) ResolvePrimary(ctx context.Context, accountID string) (string, error) {
	acct, err := r.accounts.Get(ctx, accountID)
	if errors.Is(err, accountstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	records, err := r.members.ListByAccount(ctx, accountID)
	if err != nil {
		r.log.Warn("member scan failed during owner resolution",
			zap.String("account_id", accountID), zap.Error(err))
		records = nil
	}
	return Primary(acct, records), nil
}

// OwnerEmail returns the account's owner email, or "" when the account
// is missing or never recorded one.
func (r *Resolver) OwnerEmail(ctx context.Context, accountID string) (string, error) {
	acct, err := r.accounts.Get(ctx, accountID)
	if errors.Is(err, accountstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return acct.CreatedByEmail, nil
}

// Pick is the pure fallback chain over already-loaded state:
//
//  1. seed with created_by when present;
//  2. add every member record whose role is owner (case-insensitive),
//     preferring the uid field, falling back to the record key;
//  3. if still empty and the legacy flat members array is non-empty, add
//     exactly its first entry.
//
// Step 3 is a compatibility heuristic for accounts written before member
// records existed: the first array entry may be an ordinary member, who
// will then receive owner-facing notifications. Kept as-is; see DESIGN.md.
func Pick(acct *models.Account, records []models.Member) map[string]struct{} {
	owners := make(map[string]struct{})
	if acct == nil {
		return owners
	}

	if acct.CreatedBy != "" {
		owners[acct.CreatedBy] = struct{}{}
	}

	for i := range records {
		m := &records[i]
		if !m.IsOwner() {
			continue
		}
		uid := m.UID
		if uid == "" {
			uid = m.KeyUID()
		}
		if uid != "" {
			owners[uid] = struct{}{}
		}
	}

	if len(owners) == 0 && len(acct.Members) > 0 {
		owners[acct.Members[0]] = struct{}{}
	}
	return owners
}

// Primary returns the single uid best treated as "the" owner: created_by
// when present, else the first owner-role record, else the legacy
// first-member fallback, else "".
func Primary(acct *models.Account, records []models.Member) string {
	if acct == nil {
		return ""
	}
	if acct.CreatedBy != "" {
		return acct.CreatedBy
	}
	for i := range records {
		m := &records[i]
		if !m.IsOwner() {
			continue
		}
		if m.UID != "" {
			return m.UID
		}
		if uid := m.KeyUID(); uid != "" {
			return uid
		}
	}
	if len(acct.Members) > 0 {
		return acct.Members[0]
	}
	return ""
}
