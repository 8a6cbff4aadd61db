package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"sitearchive/internal/domain"
)

// Session modes.
const (
	ModeSigned   = "signed"
	ModePresence = "presence"
)

const (
	sessionSubject = "archive-admin"
	presenceValue  = "1"
	hkdfInfo       = "archive-admin-session"
)

type sessionClaims struct {
	jwt.RegisteredClaims
}

type jwtSessions struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTSessions returns an issuer/verifier pair that encodes the session as an
// HS256 JWT whose exp claim is issue time + ttl.
func NewJWTSessions(secret []byte, ttl time.Duration) (domain.SessionIssuer, domain.SessionVerifier) {
	s := &jwtSessions{secret: secret, ttl: ttl}
	return s, s
}

func (s *jwtSessions) Issue(now time.Time) (*domain.AdminSession, error) {
	expiresAt := now.Add(s.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}
	return &domain.AdminSession{Token: tokenString, ExpiresAt: expiresAt}, nil
}

func (s *jwtSessions) Verify(token string, now time.Time) error {
	if token == "" {
		return domain.ErrUnauthorized
	}
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(sessionSubject),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.ErrSessionExpired
		}
		return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return domain.ErrUnauthorized
	}
	return nil
}

type presenceSessions struct {
	ttl time.Duration
}

// NewPresenceSessions returns the legacy scheme: the cookie value is "1" and
// any non-empty value is accepted. Expiry is left to the browser via Max-Age,
// so a copied cookie is not rejected server-side.
func NewPresenceSessions(ttl time.Duration) (domain.SessionIssuer, domain.SessionVerifier) {
	s := &presenceSessions{ttl: ttl}
	return s, s
}

func (s *presenceSessions) Issue(now time.Time) (*domain.AdminSession, error) {
	return &domain.AdminSession{Token: presenceValue, ExpiresAt: now.Add(s.ttl)}, nil
}

func (s *presenceSessions) Verify(token string, _ time.Time) error {
	if token == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

// DeriveSessionKey derives a 32-byte HMAC key from the admin password with
// HKDF-SHA256. Changing the password invalidates every outstanding session.
func DeriveSessionKey(password string) ([]byte, error) {
	if password == "" {
		return nil, errors.New("cannot derive session key from empty password")
	}
	key := make([]byte, 32)
	r := hkdf.New(sha256.New, []byte(password), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}

// NewSessions builds the issuer/verifier for mode. For ModeSigned an empty
// secret falls back to a key derived from adminPassword. With neither set no
// session can ever be issued, and a random per-process key is used.
func NewSessions(mode string, secret, adminPassword string, ttl time.Duration) (domain.SessionIssuer, domain.SessionVerifier, error) {
	switch mode {
	case ModePresence:
		issuer, verifier := NewPresenceSessions(ttl)
		return issuer, verifier, nil
	case ModeSigned, "":
		key := []byte(secret)
		switch {
		case len(key) > 0:
		case adminPassword != "":
			derived, err := DeriveSessionKey(adminPassword)
			if err != nil {
				return nil, nil, err
			}
			key = derived
		default:
			key = make([]byte, 32)
			if _, err := rand.Read(key); err != nil {
				return nil, nil, fmt.Errorf("generate session key: %w", err)
			}
		}
		issuer, verifier := NewJWTSessions(key, ttl)
		return issuer, verifier, nil
	default:
		return nil, nil, fmt.Errorf("unknown session mode %q", mode)
	}
}
