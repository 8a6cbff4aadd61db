package services

import (
	"context"
	"fmt"
	"log/slog"

	"sitearchive/internal/domain"
)

type archiveService struct {
	repo         domain.ArchiveRepository
	emailService domain.EmailService
	logger       *slog.Logger
}

// NewArchiveService creates an ArchiveService backed by the given Email Store.
// emailService may be nil, in which case no welcome mail is sent. It is called on
// the request path, so production wiring passes a WelcomeDispatcher.
func NewArchiveService(repo domain.ArchiveRepository, emailService domain.EmailService, logger *slog.Logger) domain.ArchiveService {
	return &archiveService{
		repo:         repo,
		emailService: emailService,
		logger:       logger,
	}
}

// Capture normalizes and validates email, then stores it. Capturing an address
// that is already present succeeds without a new row.
func (s *archiveService) Capture(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if !domain.IsValidEmail(email) {
		return domain.ErrInvalidEmail
	}
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure archive schema: %w", err)
	}
	created, err := s.repo.Insert(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to store archive email: %w", err)
	}
	if created && s.emailService != nil {
		// Best effort: the subscriber is already stored.
		if err := s.emailService.SendArchiveWelcome(ctx, &domain.ArchiveWelcomeEmailData{Email: email}); err != nil {
			s.logger.WarnContext(ctx, "archive welcome email failed", "err", err)
		}
	}
	return nil
}

// List returns every captured email, newest first.
func (s *archiveService) List(ctx context.Context) ([]*domain.EmailRecord, error) {
	if err := s.repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure archive schema: %w", err)
	}
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive emails: %w", err)
	}
	return records, nil
}
