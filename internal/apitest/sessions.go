package apitest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/career-guide/internal/types"
)

// sessionCookie is the name of the cookie carrying the signed session.
const sessionCookie = "session"

var errSessionRevoked = errors.New("session has been revoked")

// sessionClaims is the payload of a session cookie.
type sessionClaims struct {
	UserID int        `json:"user_id"`
	Role   types.Role `json:"role"`
	jwt.RegisteredClaims
}

// sessionManager signs session cookies and tracks which ones are still live, so logout
// can revoke a cookie the client still holds.
type sessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu     sync.Mutex
	active map[string]int
}

func newSessionManager(secret string, ttl time.Duration, now func() time.Time) *sessionManager {
	return &sessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    now,
		active: make(map[string]int),
	}
}

// issue signs a new session for the user and records it as active.
func (m *sessionManager) issue(userID int, role types.Role) (string, *sessionClaims, error) {
	now := m.now()
	claims := &sessionClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}

	m.mu.Lock()
	m.active[claims.ID] = userID
	m.mu.Unlock()
	return signed, claims, nil
}

// validate parses a session cookie value and checks that it has not been revoked.
func (m *sessionManager) validate(tokenString string) (*sessionClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("session token is empty")
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("session is not valid")
	}

	m.mu.Lock()
	_, ok := m.active[claims.ID]
	m.mu.Unlock()
	if !ok {
		return nil, errSessionRevoked
	}
	return claims, nil
}

func (m *sessionManager) revoke(id string) {
	m.mu.Lock()
	delete(m.active, id)
	m.mu.Unlock()
}

// revokeUser drops every session belonging to userID.
func (m *sessionManager) revokeUser(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, owner := range m.active {
		if owner == userID {
			delete(m.active, id)
		}
	}
}

func (m *sessionManager) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}
