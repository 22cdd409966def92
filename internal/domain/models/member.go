// internal/domain/models/member.go
package models

import (
	"strings"
	"time"
)

// Member roles. Role is a scalar string; comparisons are case-insensitive
// because early mobile builds wrote "Owner".
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Member is one per-member record of an account.
//
// The document key mirrors the mobile clients' record path:
// "{accountID}/{uid}". The key itself enforces one document per
// (account_id, uid) pair. AddedBy records provenance: which actor or
// automated step created the record. Some legacy records carry the uid
// only in the key, not in the uid field.
type Member struct {
	ID          string    `bson:"_id,omitempty"` // "{account_id}/{uid}"
	AccountID   string    `bson:"account_id"`
	UID         string    `bson:"uid,omitempty"`
	Role        string    `bson:"role"` // "owner" | "member"
	DisplayName string    `bson:"display_name,omitempty"`
	Email       string    `bson:"email,omitempty"`
	AddedAt     time.Time `bson:"added_at"`
	AddedBy     string    `bson:"added_by,omitempty"`
}

// MemberKey builds the document key for an account member record.
func MemberKey(accountID, uid string) string {
	return accountID + "/" + uid
}

// IsOwner reports whether the member's role is owner, case-insensitively.
func (m *Member) IsOwner() bool {
	return strings.EqualFold(m.Role, RoleOwner)
}

// KeyUID returns the uid component of the member's document key, used as
// a fallback when the uid field itself was never written.
func (m *Member) KeyUID() string {
	if i := strings.LastIndex(m.ID, "/"); i >= 0 {
		return m.ID[i+1:]
	}
	return ""
}
