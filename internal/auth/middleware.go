package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wowlab/guildsim/internal/logger"
)

type ctxKey string

const claimsKey ctxKey = "sessionClaims"

// ClaimsFromContext returns the session claims put there by RequireSession.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

// RequireSession rejects requests without a valid session cookie and puts
// the session claims into the request context for downstream handlers.
func (m *Manager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			unauthorized(w)
			return
		}

		claims, err := m.ParseSession(cookie.Value)
		if err != nil {
			logger.FromContext(r.Context()).Debug("session rejected", "error", err)
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"})
}
