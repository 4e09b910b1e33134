// Package mail delivers transactional email through SendGrid. The auth flow
// depends on the Sender interface so tests can capture outgoing codes.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Sender delivers verification codes to users.
type Sender interface {
	SendVerificationCode(ctx context.Context, toEmail, code string, expiresIn time.Duration) error
}

// SendGridSender sends dynamic-template email through the SendGrid v3 API.
type SendGridSender struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	templateID string
}

// NewSendGridSender creates a sender using the given API key and the fixed
// verification-code template.
func NewSendGridSender(apiKey, templateID, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		client:     sendgrid.NewSendClient(apiKey),
		from:       sgmail.NewEmail(fromName, fromEmail),
		templateID: templateID,
	}
}

// SendVerificationCode emails a login code. The template renders the code and
// its validity window; no other body content is supplied from here.
func (s *SendGridSender) SendVerificationCode(ctx context.Context, toEmail, code string, expiresIn time.Duration) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.SetTemplateID(s.templateID)

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail("", toEmail))
	p.SetDynamicTemplateData("code", code)
	p.SetDynamicTemplateData("expires_minutes", int(expiresIn.Minutes()))
	m.AddPersonalizations(p)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender writes codes to the server log instead of sending email. Used
// when no SendGrid API key is configured, for local development.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendVerificationCode(_ context.Context, toEmail, code string, expiresIn time.Duration) error {
	s.log.Warn("email not configured, logging verification code",
		zap.String("email", toEmail),
		zap.String("code", code),
		zap.Duration("expires_in", expiresIn))
	return nil
}
