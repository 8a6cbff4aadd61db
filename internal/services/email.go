package services

import (
	"context"
	"fmt"
	"log/slog"

	"sitearchive/internal/domain"
)

const archiveWelcomeTemplate = "archive_welcome"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendArchiveWelcome sends the "archive_welcome" template to a new subscriber.
func (s *emailService) SendArchiveWelcome(ctx context.Context, data *domain.ArchiveWelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("archive welcome data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(archiveWelcomeTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", archiveWelcomeTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send archive welcome email: %w", err)
	}
	s.logger.InfoContext(ctx, "archive welcome email sent")
	return nil
}
