// internal/app/workflow/joinrequest/handler.go
package joinrequest

import (
	"context"
	"fmt"
	"time"

	accountstore "github.com/budgetbuddy/server/internal/app/store/accounts"
	joinrequeststore "github.com/budgetbuddy/server/internal/app/store/joinrequests"
	mailstore "github.com/budgetbuddy/server/internal/app/store/mail"
	"github.com/budgetbuddy/server/internal/app/workflow/ownerresolve"
	"github.com/budgetbuddy/server/internal/domain/models"
	"go.uber.org/zap"
)

// Pusher is the notification dispatcher surface the workflow needs.
type Pusher interface {
	NotifyBestEffort(ctx context.Context, userID, title, body string, data map[string]string)
}

// Handler reacts to join-request document events. Handlers are stateless
// between invocations: every event re-reads whatever it needs.
type Handler struct {
	accounts *accountstore.Store
	requests *joinrequeststore.Store
	mail     *mailstore.Store
	resolver *ownerresolve.Resolver
	pusher   Pusher
	log      *zap.Logger
}

func NewHandler(
	accounts *accountstore.Store,
	requests *joinrequeststore.Store,
	mail *mailstore.Store,
	resolver *ownerresolve.Resolver,
	pusher Pusher,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		accounts: accounts,
		requests: requests,
		mail:     mail,
		resolver: resolver,
		pusher:   pusher,
		log:      logger,
	}
}

// HandleCreated reacts to a new join request on either path. An inbox
// record without an account id has nobody to notify and is dropped.
func (h *Handler) HandleCreated(ctx context.Context, req *models.JoinRequest, inbox bool) error {
	if req.AccountID == "" {
		h.log.Warn("join request without account id dropped", zap.String("request_id", req.ID))
		return nil
	}

	ownerEmail, err := h.resolver.OwnerEmail(ctx, req.AccountID)
	if err != nil {
		return fmt.Errorf("resolve owner email for %s: %w", req.AccountID, err)
	}
	if ownerEmail == "" {
		h.log.Warn("owner email missing; cannot send join-request mail",
			zap.String("account_id", req.AccountID))
	}

	owners, err := h.resolver.Resolve(ctx, req.AccountID)
	if err != nil {
		return fmt.Errorf("resolve owners for %s: %w", req.AccountID, err)
	}

	return h.apply(ctx, PlanCreated(req, ownerEmail, owners, inbox))
}

// HandleUpdated reacts to a status change on a nested-path request.
// No-op transitions (approved→approved, pending→pending, metadata-only
// edits) fall straight through.
func (h *Handler) HandleUpdated(ctx context.Context, before, after *models.JoinRequest) error {
	switch Transition(before, after) {
	case Approved:
		return h.approved(ctx, after)
	case Resubmitted:
		return h.resubmitted(ctx, after)
	default:
		return nil
	}
}

func (h *Handler) approved(ctx context.Context, after *models.JoinRequest) error {
	if after.AccountID == "" || after.UID == "" {
		h.log.Warn("approved request missing account id or uid; dropped",
			zap.String("request_id", after.ID))
		return nil
	}
	return h.apply(ctx, PlanApproved(after, time.Now().UTC()))
}

func (h *Handler) resubmitted(ctx context.Context, after *models.JoinRequest) error {
	if after.AccountID == "" {
		h.log.Warn("re-submitted request without account id dropped",
			zap.String("request_id", after.ID))
		return nil
	}

	ownerEmail, err := h.resolver.OwnerEmail(ctx, after.AccountID)
	if err != nil {
		return fmt.Errorf("resolve owner email for %s: %w", after.AccountID, err)
	}
	primary, err := h.resolver.ResolvePrimary(ctx, after.AccountID)
	if err != nil {
		return fmt.Errorf("resolve primary owner for %s: %w", after.AccountID, err)
	}

	return h.apply(ctx, PlanResubmitted(after, ownerEmail, primary))
}

// apply executes planned effects in order. Mail enqueues, membership
// appends, and request stamps are primary actions whose failures
// propagate; pushes are best-effort.
func (h *Handler) apply(ctx context.Context, effects []Effect) error {
	for _, e := range effects {
		switch e := e.(type) {
		case EnqueueMail:
			msg := models.MailMessage{
				To: e.To,
				Message: models.MailBody{
					Subject: e.Email.Subject,
					Text:    e.Email.TextBody,
					HTML:    e.Email.HTMLBody,
				},
			}
			if err := h.mail.Enqueue(ctx, msg); err != nil {
				return err
			}
		case SendPush:
			h.pusher.NotifyBestEffort(ctx, e.UserID, e.Title, e.Body, e.Data)
		case AppendMember:
			if err := h.accounts.ApproveMember(ctx, e.Member); err != nil {
				return fmt.Errorf("membership append for %s: %w", e.Member.AccountID, err)
			}
			h.log.Info("join request approved; member appended",
				zap.String("account_id", e.Member.AccountID),
				zap.String("uid", e.Member.UID))
		case StampRequest:
			if err := h.requests.StampProcessed(ctx, e.RequestID); err != nil {
				return fmt.Errorf("stamp request %s: %w", e.RequestID, err)
			}
		}
	}
	return nil
}
