// Package auth issues and validates session tokens for Battle.net logins.
// Sessions are stateless JWTs carried in an HTTP-only cookie.
package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wowlab/guildsim/internal/domain"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "guildsim_session"

// Claims is the session token payload.
type Claims struct {
	BattleTag string `json:"battletag"`
	Region    string `json:"region"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
}

// NewManager creates a session manager. The secret must be non-empty.
func NewManager(secret string, duration time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	return &Manager{
		secret:   []byte(secret),
		duration: duration,
		now:      time.Now,
	}, nil
}

// IssueSession creates a signed session token for a user.
func (m *Manager) IssueSession(user *domain.User) (string, error) {
	now := m.now()
	claims := Claims{
		BattleTag: user.BattleTag,
		Region:    user.Region,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseSession validates a session token and returns its claims.
func (m *Manager) ParseSession(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

// SessionCookie builds the session cookie for a signed token. Secure is
// left to the caller since local development runs over plain HTTP.
func (m *Manager) SessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.duration.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie.
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
