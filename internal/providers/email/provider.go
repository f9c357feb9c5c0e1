package email

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when mail is sent without SMTP settings.
var ErrNotConfigured = errors.New("email_not_configured")

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Provider interface {
	Send(ctx context.Context, to []string, subject, htmlBody string, attachments ...Attachment) error
}

// DisabledProvider rejects every send. Wired when SMTP settings are
// absent so a missing configuration surfaces as an error instead of a
// silently dropped invoice email.
type DisabledProvider struct{}

func (p *DisabledProvider) Send(ctx context.Context, to []string, subject, htmlBody string, attachments ...Attachment) error {
	return ErrNotConfigured
}
