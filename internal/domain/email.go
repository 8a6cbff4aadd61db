package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ArchiveWelcomeEmailData holds data for the mail sent to a new archive subscriber.
type ArchiveWelcomeEmailData struct {
	Email string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendArchiveWelcome(ctx context.Context, data *ArchiveWelcomeEmailData) error
}
