package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// EmailSender sends a single email. Implementations must be safe for
// concurrent use.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// resendSender sends emails via the Resend API.
type resendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates an email sender backed by Resend.
func NewResendSender(apiKey, from string) EmailSender {
	return &resendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *resendSender) Send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}

// noopSender is used when no email API key is configured.
type noopSender struct{}

// NewNoopSender returns a sender that drops every email.
func NewNoopSender() EmailSender {
	return noopSender{}
}

func (noopSender) Send(ctx context.Context, to, subject, html string) error {
	return nil
}
