package utils

import (
	"errors"
	"fmt"
	"storefront/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SessionCookieName = "session"

var ErrInvalidSession = errors.New("invalid session")

type SessionClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	CSRF     string `json:"csrf"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies the session cookie. The cookie is the
// only session store.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a session for identity, generating a CSRF token when the
// identity has none.
func (m *SessionManager) Issue(identity models.Identity) (string, models.Identity, error) {
	if identity.CSRFToken == "" {
		identity.CSRFToken = NewCSRFToken()
	}

	now := m.now()
	claims := SessionClaims{
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     identity.Role,
		CSRF:     identity.CSRFToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", identity, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, identity, nil
}

func (m *SessionManager) IssueGuest() (string, models.Identity, error) {
	return m.Issue(models.Identity{Role: models.RoleGuest})
}

func (m *SessionManager) Parse(raw string) (*models.Identity, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.CSRF == "" {
		return nil, ErrInvalidSession
	}

	return &models.Identity{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      claims.Role,
		CSRFToken: claims.CSRF,
	}, nil
}

func NewCSRFToken() string {
	return uuid.NewString()
}
