package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Sentinel errors for archive operations.
var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrUnauthorized = errors.New("unauthorized")
)

// EmailRecord is a captured archive subscriber address.
// swagger:model EmailRecord
type EmailRecord struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewEmailRecord returns an EmailRecord. CreatedAt is normally assigned by the store.
func NewEmailRecord(email string, createdAt time.Time) *EmailRecord {
	return &EmailRecord{Email: email, CreatedAt: createdAt}
}

// ArchiveRepository is the Email Store. Every method is safe to call concurrently.
type ArchiveRepository interface {
	// EnsureSchema creates the backing table if it does not exist. Idempotent.
	EnsureSchema(ctx context.Context) error
	// Insert stores a normalized email. A duplicate is not an error; created
	// reports whether a new row was written.
	Insert(ctx context.Context, email string) (created bool, err error)
	// ListAll returns every record, most recent first.
	ListAll(ctx context.Context) ([]*EmailRecord, error)
}

// ArchiveService holds the capture and listing logic.
type ArchiveService interface {
	Capture(ctx context.Context, email string) error
	List(ctx context.Context) ([]*EmailRecord, error)
}

// emailPattern accepts local@domain.tld with no second '@' and no commas, so an
// address can always be written to a CSV field unquoted. RE2's \s is ASCII only;
// IsValidEmail rejects the remaining Unicode spaces.
var emailPattern = regexp.MustCompile(`^[^\s@,]+@[^\s@,]+\.[^\s@,]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether an already normalized address has the
// local@domain.tld shape and contains no whitespace of any kind.
func IsValidEmail(email string) bool {
	if email == "" || strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return false
	}
	return emailPattern.MatchString(email)
}
