// internal/domain/models/account.go
package models

import "time"

// Account is a shared budget-tracking workspace.
//
// Members is the legacy flat membership list carried over from the first
// mobile release: an ordered slice of uids. Storage does not enforce
// uniqueness on it; the join-request workflow is the only writer and must
// keep it duplicate-free. Authoritative per-member detail lives in the
// account_members collection (see Member).
type Account struct {
	ID             string    `bson:"_id"`
	CreatedBy      string    `bson:"created_by,omitempty"`
	CreatedByEmail string    `bson:"created_by_email,omitempty"`
	Members        []string  `bson:"members,omitempty"`
	CreatedAt      time.Time `bson:"created_at,omitempty"`
	UpdatedAt      time.Time `bson:"updated_at,omitempty"`
}

// HasMember reports whether uid already appears in the flat members list.
func (a *Account) HasMember(uid string) bool {
	for _, m := range a.Members {
		if m == uid {
			return true
		}
	}
	return false
}
