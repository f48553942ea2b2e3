// Package session stores WordPress credentials between CLI invocations.
//
// A [Session] pairs a site host with a JWT token and an expiry. The
// jwt-auth plugin issues tokens valid for seven days by default, which is
// the default TTL here.
//
// # Usage
//
//	store, err := session.NewCLIStore()
//	sess := session.New("https://www.crifan.org", token, session.DefaultTTL)
//	err = store.SaveSession(ctx, sess)
//
//	sess, err = store.GetSession(ctx)
//	if sess == nil {
//	    // not logged in, or the token expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL matches the jwt-auth plugin's default token lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// Session holds credentials for one site.
type Session struct {
	ID        string    `json:"id"`
	Host      string    `json:"host"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has expired. A zero ExpiresAt
// never expires.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// New creates a session with a random ID. A ttl of zero never expires.
func New(host, token string, ttl time.Duration) *Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Host:      host,
		Token:     token,
		CreatedAt: now,
	}
	if ttl > 0 {
		sess.ExpiresAt = now.Add(ttl)
	}
	return sess
}
