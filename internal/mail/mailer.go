// Package mail provides outbound email delivery for account flows.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrz1836/postmark"

	apperrors "github.com/allisson/userhub/internal/errors"
)

// Mailer sends account-related emails.
type Mailer interface {
	// SendPasswordSetup delivers the password definition link for a new
	// account or a password reset.
	SendPasswordSetup(ctx context.Context, to, name, token string) error
}

// PostmarkMailer delivers email through the Postmark API.
type PostmarkMailer struct {
	client     *postmark.Client
	sender     string
	appBaseURL string
}

// NewPostmarkMailer creates a Mailer backed by Postmark.
func NewPostmarkMailer(serverToken, accountToken, sender, appBaseURL string) *PostmarkMailer {
	return &PostmarkMailer{
		client:     postmark.NewClient(serverToken, accountToken),
		sender:     sender,
		appBaseURL: appBaseURL,
	}
}

// SendPasswordSetup delivers the password definition email.
func (m *PostmarkMailer) SendPasswordSetup(ctx context.Context, to, name, token string) error {
	link := passwordSetupLink(m.appBaseURL, token)

	email := postmark.Email{
		From:     m.sender,
		To:       to,
		Subject:  "Set your password",
		TextBody: passwordSetupText(name, link),
		HTMLBody: passwordSetupHTML(name, link),
	}

	response, err := m.client.SendEmail(ctx, email)
	if err != nil {
		return apperrors.Wrap(err, "failed to send password setup email")
	}
	if response.ErrorCode != 0 {
		return apperrors.Wrap(
			apperrors.New(response.Message),
			"postmark rejected password setup email",
		)
	}
	return nil
}

// DevMailer logs emails instead of sending them. Used in local development
// and tests where no mail provider is configured.
type DevMailer struct {
	logger     *slog.Logger
	appBaseURL string
}

// NewDevMailer creates a Mailer that logs instead of sending.
func NewDevMailer(appBaseURL string, logger *slog.Logger) *DevMailer {
	return &DevMailer{logger: logger, appBaseURL: appBaseURL}
}

// SendPasswordSetup logs the password definition link.
func (m *DevMailer) SendPasswordSetup(_ context.Context, to, name, token string) error {
	m.logger.Info("password setup email (dev mode, not sent)",
		slog.String("to", to),
		slog.String("name", name),
		slog.String("link", passwordSetupLink(m.appBaseURL, token)),
	)
	return nil
}

func passwordSetupLink(baseURL, token string) string {
	return fmt.Sprintf("%s/password/setup?token=%s", baseURL, token)
}

func passwordSetupText(name, link string) string {
	return fmt.Sprintf(
		"Hello %s,\n\nUse the link below to set your password:\n\n%s\n\nIf you did not request this, ignore this email.\n",
		name, link,
	)
}

func passwordSetupHTML(name, link string) string {
	return fmt.Sprintf(
		`<p>Hello %s,</p><p>Use the link below to set your password:</p><p><a href="%s">Set password</a></p><p>If you did not request this, ignore this email.</p>`,
		name, link,
	)
}
