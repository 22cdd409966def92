// internal/app/workflow/joinrequest/effects.go
package joinrequest

import (
	"sort"
	"time"

	"github.com/budgetbuddy/server/internal/app/system/mailer"
	"github.com/budgetbuddy/server/internal/domain/models"
)

// AddedByWorkflow is the provenance marker stamped on member records
// created by the automated approval step.
const AddedByWorkflow = "workflow:join-request-approved"

// Effect is one side effect a transition rule decided on. Rules return
// effects as data so they can be unit-tested without a store or a push
// provider; the Handler executes them in order.
type Effect interface{ effect() }

// EnqueueMail appends one job to the outbound mail queue. Enqueue
// failures are primary-action failures and propagate.
type EnqueueMail struct {
	To    string
	Email mailer.Email
}

// SendPush notifies one user, best-effort: a delivery failure is logged
// and never fails the handler.
type SendPush struct {
	UserID string
	Title  string
	Body   string
	Data   map[string]string
}

// AppendMember runs the transactional membership append plus member
// record upsert. Failure propagates.
type AppendMember struct {
	Member models.Member
}

// StampRequest stamps last_updated_at on the request after the
// membership change committed.
type StampRequest struct {
	RequestID string
}

func (EnqueueMail) effect()  {}
func (SendPush) effect()     {}
func (AppendMember) effect() {}
func (StampRequest) effect() {}

// PlanCreated decides the effects for a newly created join request,
// given the resolved owner email and owner uid set. A request on the
// inbox path gets a different approval hint in the mail body. With no
// owner email the mail is skipped; with no owner uids no pushes go out.
func PlanCreated(req *models.JoinRequest, ownerEmail string, owners map[string]struct{}, inbox bool) []Effect {
	var effects []Effect

	if ownerEmail != "" {
		hint := mailer.ApprovalHintNested()
		if inbox {
			hint = mailer.ApprovalHintInbox(req.AccountID, req.UID)
		}
		email := mailer.BuildJoinRequestEmail(mailer.JoinRequestEmailData{
			AccountID:    req.AccountID,
			Requester:    req.RequesterLabel(),
			ApprovalHint: hint,
		})
		effects = append(effects, EnqueueMail{To: ownerEmail, Email: email})
	}

	for _, uid := range sortedUIDs(owners) {
		effects = append(effects, SendPush{
			UserID: uid,
			Title:  "Join request received",
			Body:   req.RequesterLabel() + " wants to join account " + req.AccountID + ".",
			Data:   pushData(req),
		})
	}
	return effects
}

// PlanApproved decides the effects for a pending→approved transition.
// The caller has already checked the transition guard.
func PlanApproved(after *models.JoinRequest, now time.Time) []Effect {
	return []Effect{
		AppendMember{Member: models.Member{
			ID:          models.MemberKey(after.AccountID, after.UID),
			AccountID:   after.AccountID,
			UID:         after.UID,
			Role:        models.RoleMember,
			DisplayName: after.DisplayName,
			Email:       after.Email,
			AddedAt:     now,
			AddedBy:     AddedByWorkflow,
		}},
		StampRequest{RequestID: after.ID},
	}
}

// PlanResubmitted decides the effects for a return to pending: re-notify
// the primary owner by mail and, when one resolved, by push.
func PlanResubmitted(req *models.JoinRequest, ownerEmail, primaryOwner string) []Effect {
	var effects []Effect

	if ownerEmail != "" {
		email := mailer.BuildResubmittedEmail(mailer.JoinRequestEmailData{
			AccountID:    req.AccountID,
			Requester:    req.RequesterLabel(),
			ApprovalHint: mailer.ApprovalHintNested(),
		})
		effects = append(effects, EnqueueMail{To: ownerEmail, Email: email})
	}

	if primaryOwner != "" {
		effects = append(effects, SendPush{
			UserID: primaryOwner,
			Title:  "Join request re-submitted",
			Body:   req.RequesterLabel() + " re-submitted a request to join account " + req.AccountID + ".",
			Data:   pushData(req),
		})
	}
	return effects
}

func pushData(req *models.JoinRequest) map[string]string {
	return map[string]string{
		"type":      "join_request",
		"accountId": req.AccountID,
		"uid":       req.UID,
	}
}

func sortedUIDs(set map[string]struct{}) []string {
	uids := make([]string, 0, len(set))
	for uid := range set {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}
