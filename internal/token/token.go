// Package token issues and verifies signed bearer tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/accountd/accountd/internal/model"
)

// TokenTTL is the fixed lifetime of issued tokens.
const TokenTTL = 24 * time.Hour

// DevFallbackSecret is used when no signing secret is configured.
// It exists so the server can run out of the box in development; config
// loading refuses to start a production build without an explicit secret.
const DevFallbackSecret = "your-default-secret-key"

// ErrInvalidToken is returned when a token fails signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by issued tokens: the subject user ID plus
// the account email.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Manager signs and verifies tokens with a process-wide shared secret.
// Verification is purely local; there is no revocation list.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a Manager. An empty secret falls back to
// DevFallbackSecret; callers should log a warning when that happens.
func NewManager(secret string) *Manager {
	if secret == "" {
		secret = DevFallbackSecret
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

// UsesFallbackSecret reports whether the manager signs with the built-in
// development secret.
func (m *Manager) UsesFallbackSecret() bool {
	return string(m.secret) == DevFallbackSecret
}

// Issue signs a token for the given user with a fixed 24-hour expiry.
func (m *Manager) Issue(user *model.User) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: user.Email,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded identity.
// Any failure is reported as ErrInvalidToken; the caller never learns
// whether the signature or the expiry was at fault.
func (m *Manager) Verify(tokenString string) (*model.Identity, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	return &model.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
