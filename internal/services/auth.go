package services

import (
	"context"
	"fmt"
	"time"

	"sitearchive/internal/domain"
)

type adminAuthService struct {
	checker domain.AdminPasswordChecker
	issuer  domain.SessionIssuer
	now     func() time.Time
}

// NewAdminAuthService creates an AdminAuthService that issues a session whenever
// checker accepts the submitted password.
func NewAdminAuthService(checker domain.AdminPasswordChecker, issuer domain.SessionIssuer) domain.AdminAuthService {
	return &adminAuthService{
		checker: checker,
		issuer:  issuer,
		now:     time.Now,
	}
}

func (s *adminAuthService) Authenticate(ctx context.Context, password string) (*domain.AdminSession, error) {
	if password == "" || !s.checker.Check(password) {
		return nil, domain.ErrUnauthorized
	}
	session, err := s.issuer.Issue(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to issue admin session: %w", err)
	}
	return session, nil
}
