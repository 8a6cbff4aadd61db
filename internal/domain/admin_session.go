package domain

import (
	"context"
	"errors"
	"time"
)

// ErrSessionExpired is returned by a SessionVerifier for a token past its expiry.
var ErrSessionExpired = errors.New("session expired")

// AdminSession is the short-lived credential issued after a successful password check.
// It is never persisted; it only lives in the cookie.
type AdminSession struct {
	Token     string
	ExpiresAt time.Time
}

// SessionIssuer creates a session cookie value valid until now+ttl.
type SessionIssuer interface {
	Issue(now time.Time) (*AdminSession, error)
}

// SessionVerifier checks a session cookie value at the given instant.
type SessionVerifier interface {
	Verify(token string, now time.Time) error
}

// AdminAuthService validates the admin password and issues sessions.
type AdminAuthService interface {
	Authenticate(ctx context.Context, password string) (*AdminSession, error)
}

// AdminPasswordChecker reports whether a submitted password matches the configured
// admin secret. An unconfigured secret matches nothing.
type AdminPasswordChecker interface {
	Check(password string) bool
}
