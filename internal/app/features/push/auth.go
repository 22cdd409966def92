// internal/app/features/push/auth.go
package pushfeature

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const callerUIDKey ctxKey = iota

// RequireAuth authenticates the callable surface: a Bearer token signed
// with the shared secret, whose subject is the caller's uid. Anything
// else gets the "unauthenticated" error kind.
func RequireAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeUnauthenticated(w)
				return
			}

			claims := &jwt.RegisteredClaims{}
			tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid || claims.Subject == "" {
				writeUnauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), callerUIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerUID returns the authenticated caller's uid, or "" outside
// RequireAuth.
func CallerUID(r *http.Request) string {
	uid, _ := r.Context().Value(callerUIDKey).(string)
	return uid
}

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"})
}
