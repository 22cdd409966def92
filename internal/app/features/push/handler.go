// internal/app/features/push/handler.go

// Package pushfeature is the callable HTTP surface for push delivery:
// a caller-targeted test push and device-token registration.
package pushfeature

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/budgetbuddy/server/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Notifier is the dispatcher surface the handlers call.
type Notifier interface {
	Notify(ctx context.Context, userID, title, body string, data map[string]string) (int, error)
}

// TokenRegistry is the device-token store surface the handlers call.
type TokenRegistry interface {
	Register(ctx context.Context, uid, token, platform string) error
	Remove(ctx context.Context, uid, token string) error
}

type Handler struct {
	Notifier Notifier
	Tokens   TokenRegistry
	Log      *zap.Logger
}

func NewHandler(notifier Notifier, tokens TokenRegistry, logger *zap.Logger) *Handler {
	return &Handler{Notifier: notifier, Tokens: tokens, Log: logger}
}

// TestPush handles POST /api/push/test. Unlike the workflow's
// best-effort pushes, delivery is the whole point of this call, so a
// send failure is surfaced to the caller.
func (h *Handler) TestPush(w http.ResponseWriter, r *http.Request) {
	uid := CallerUID(r)

	var body struct {
		Title     string `json:"title"`
		Body      string `json:"body"`
		AccountID string `json:"accountId"`
	}
	// An empty request body is fine; every field has a default.
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.Title == "" {
		body.Title = "BudgetBuddy"
	}
	if body.Body == "" {
		body.Body = "Test notification"
	}
	var data map[string]string
	if body.AccountID != "" {
		data = map[string]string{"accountId": body.AccountID}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sent, err := h.Notifier.Notify(ctx, uid, body.Title, body.Body, data)
	if err != nil {
		h.Log.Error("test push failed", zap.String("uid", uid), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "tokens": sent})
}

// RegisterToken handles POST /api/push/tokens.
func (h *Handler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	uid := CallerUID(r)

	var body struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "token is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tokens.Register(ctx, uid, body.Token, body.Platform); err != nil {
		h.Log.Error("token register failed", zap.String("uid", uid), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "could not register token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// RemoveToken handles DELETE /api/push/tokens.
func (h *Handler) RemoveToken(w http.ResponseWriter, r *http.Request) {
	uid := CallerUID(r)

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "token is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tokens.Remove(ctx, uid, body.Token); err != nil {
		h.Log.Error("token remove failed", zap.String("uid", uid), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "could not remove token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
