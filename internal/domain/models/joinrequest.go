// internal/domain/models/joinrequest.go
package models

import "time"

// Join request statuses as written by the mobile clients.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// JoinRequest is a user's request to become a member of an account.
//
// Nested-path requests live in join_requests with a unique
// (account_id, uid) pair. Fallback requests written by clients that could
// not reach the nested path live in join_request_inbox with a generated
// string id; those must carry their own AccountID/UID and are dropped when
// AccountID is empty.
type JoinRequest struct {
	ID            string    `bson:"_id,omitempty"`
	AccountID     string    `bson:"account_id,omitempty"`
	UID           string    `bson:"uid,omitempty"`
	Status        string    `bson:"status,omitempty"`
	Email         string    `bson:"email,omitempty"`
	DisplayName   string    `bson:"display_name,omitempty"`
	CreatedAt     time.Time `bson:"created_at,omitempty"`
	LastUpdatedAt time.Time `bson:"last_updated_at,omitempty"`
}

// RequesterLabel is the display string used when describing the requester
// to an owner: displayName, else email, else the literal "a user".
// Centralized here so mail and push wording never disagree.
func (r *JoinRequest) RequesterLabel() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	if r.Email != "" {
		return r.Email
	}
	return "a user"
}
