package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"sitearchive/internal/domain"
)

// bcryptPrefixes are the hash versions bcrypt.CompareHashAndPassword understands.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// IsBcryptHash reports whether configured looks like a bcrypt hash rather than a
// plaintext password.
func IsBcryptHash(configured string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(configured, p) {
			return true
		}
	}
	return false
}

type plainChecker struct {
	secret string
}

type bcryptChecker struct {
	hash []byte
}

type denyChecker struct{}

// NewPasswordChecker returns an AdminPasswordChecker for the configured admin secret.
// A bcrypt hash is compared with bcrypt; anything else is treated as the plaintext
// password and compared in constant time. An empty secret rejects everything.
func NewPasswordChecker(configured string) domain.AdminPasswordChecker {
	switch {
	case configured == "":
		return denyChecker{}
	case IsBcryptHash(configured):
		return &bcryptChecker{hash: []byte(configured)}
	default:
		return &plainChecker{secret: configured}
	}
}

func (c *plainChecker) Check(password string) bool {
	return SecretsMatch(password, c.secret)
}

func (c *bcryptChecker) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
}

func (denyChecker) Check(string) bool { return false }

// SecretsMatch compares the SHA-256 digests of provided and expected in constant
// time. Both operands are then the same length, so neither the secret's length nor
// the length of a matching prefix shows up in the timing.
func SecretsMatch(provided, expected string) bool {
	p := sha256.Sum256([]byte(provided))
	e := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(p[:], e[:]) == 1
}

// HashPassword returns a bcrypt hash of password suitable for ARCHIVE_ADMIN_PASSWORD.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
