// Package session issues and verifies the signed tokens that represent an
// authenticated administrator.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims of an admin session.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens with HMAC-SHA256.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager returns a Manager. secret must not be empty.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue creates a token for admin, valid for the configured TTL.
func (m *Manager) Issue(admin *models.Admin) (string, models.Session, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	claims := Claims{
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", models.Session{}, fmt.Errorf("sign session: %w", err)
	}
	return token, models.Session{AdminID: admin.ID, Email: admin.Email, ExpiresAt: expires.UTC()}, nil
}

// Verify parses token and returns the session it carries. Any malformed,
// forged or expired token yields models.ErrUnauthorized.
func (m *Manager) Verify(token string) (models.Session, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return models.Session{}, models.ErrUnauthorized
	}
	return models.Session{
		AdminID:   claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// TTL is how long issued sessions stay valid.
func (m *Manager) TTL() time.Duration { return m.ttl }
