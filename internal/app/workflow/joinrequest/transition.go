// internal/app/workflow/joinrequest/transition.go

// Package joinrequest reacts to join-request document changes: the
// creation, approval, and re-submission steps of the account join
// workflow. The transition rules are pure functions over the before and
// after snapshots; the Handler loads state and performs the effects.
package joinrequest

import "github.com/budgetbuddy/server/internal/domain/models"

// Kind classifies what a status change means to the workflow.
type Kind int

const (
	// None: the change is not a transition this workflow reacts to
	// (no-op redeliveries like approved→approved, metadata-only edits,
	// or a move to denied).
	None Kind = iota
	// Approved: the request just became approved and membership side
	// effects must run.
	Approved
	// Resubmitted: the request re-entered pending from some other
	// status and the owner should be re-notified.
	Resubmitted
)

// Transition decides, from the persisted status before and after an
// update, which reaction fires. The guards make redelivery of the same
// event a no-op:
//
//   - Approved fires only when before was not already approved and
//     after is approved.
//   - Resubmitted fires only when after is pending and before was
//     anything else.
//
// A missing before snapshot (no pre-image available) can only fire
// Approved. The membership append downstream is idempotent, so a
// redundant Approved is harmless; a redundant re-submission mail is
// not, and a metadata-only edit of a pending request must stay silent.
// A real first move into pending only happens on insert, which takes
// the creation path instead.
func Transition(before, after *models.JoinRequest) Kind {
	beforeStatus := ""
	if before != nil {
		beforeStatus = before.Status
	}
	afterStatus := ""
	if after != nil {
		afterStatus = after.Status
	}

	switch {
	case afterStatus == models.StatusApproved && beforeStatus != models.StatusApproved:
		return Approved
	case before != nil && afterStatus == models.StatusPending && beforeStatus != models.StatusPending:
		return Resubmitted
	default:
		return None
	}
}
