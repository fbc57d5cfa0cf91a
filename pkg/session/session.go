package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/medimart/medimart-backend/pkg/config"
)

// IsExpired reports whether verification failed only because the token
// aged out, as opposed to being forged or malformed.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

var signingMethod = jwt.SigningMethodHS256

// Manager issues and verifies the signed guest-session tokens that key
// carts, wishlists and checkout state. Sessions are anonymous; the
// token carries only a random session id.
type Manager struct {
	cfg config.SessionConfig
}

// NewManager validates the session configuration.
func NewManager(cfg config.SessionConfig) (*Manager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session secret required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, fmt.Errorf("session issuer required")
	}
	return &Manager{cfg: cfg}, nil
}

// Issue mints a fresh session token and returns it alongside the new
// session id.
func (m *Manager) Issue() (string, string, error) {
	sessionID := uuid.NewString()
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:  sessionID,
		Issuer:   m.cfg.Issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl := m.cfg.TTL(); ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", "", fmt.Errorf("signing session token: %w", err)
	}
	return token, sessionID, nil
}

// Verify checks signature, issuer and expiry, returning the session id.
func (m *Manager) Verify(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("session token required")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(m.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
	)
	if err != nil {
		return "", fmt.Errorf("parsing session token: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("session token missing subject")
	}
	return claims.Subject, nil
}
