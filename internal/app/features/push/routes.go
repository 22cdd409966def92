// internal/app/features/push/routes.go
package pushfeature

import "github.com/go-chi/chi/v5"

// Routes returns the authenticated push subrouter; mounted under /api/push.
func Routes(h *Handler, jwtSecret string) chi.Router {
	r := chi.NewRouter()
	r.Use(RequireAuth(jwtSecret))
	r.Post("/test", h.TestPush)
	r.Post("/tokens", h.RegisterToken)
	r.Delete("/tokens", h.RemoveToken)
	return r
}
