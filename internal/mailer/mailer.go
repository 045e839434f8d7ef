package mailer

import (
	"context"
	"strings"

	"codeberg.org/olkkari/server/internal/config"
	"codeberg.org/olkkari/server/internal/logger"
)

// sends branded house emails through the configured provider
type Mailer struct {
	sender   Sender
	siteName string
	appURL   string
}

// picks onesignal when configured, else smtp, else a sender that only logs
func New(cfg config.MailConfig, appURL string) *Mailer {
	var sender Sender

	switch {
	case cfg.OneSignalAppID != "" && cfg.OneSignalAPIKey != "":
		sender = NewOneSignalSender(cfg.OneSignalAppID, cfg.OneSignalAPIKey, cfg.FromName)
	case cfg.SMTPUser != "" && cfg.SMTPPassword != "":
		sender = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromName)
	default:
		sender = logSender{}
	}

	return NewWithSender(sender, cfg.FromName, appURL)
}

func NewWithSender(sender Sender, siteName, appURL string) *Mailer {
	return &Mailer{sender: sender, siteName: siteName, appURL: appURL}
}

func (m *Mailer) Provider() string {
	return m.sender.Name()
}

func (m *Mailer) SendBookingConfirmation(ctx context.Context, to string, b BookingConfirmation) error {
	email := BuildBookingConfirmation(m.siteName, b)
	email.To = to
	return m.Send(ctx, email)
}

func (m *Mailer) SendApproval(ctx context.Context, to, fullName string) error {
	email := BuildApproval(m.siteName, fullName, m.appURL)
	email.To = to
	return m.Send(ctx, email)
}

func (m *Mailer) SendBranded(ctx context.Context, to, subject, htmlBody, name string) error {
	email := BuildBranded(m.siteName, subject, htmlBody)
	email.To = to
	email.Name = name
	return m.Send(ctx, email)
}

func (m *Mailer) Send(ctx context.Context, email Email) error {
	email.To = strings.TrimSpace(email.To)
	if email.To == "" {
		return ErrNoRecipient
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return err
	}

	logger.Info("email sent", "provider", m.sender.Name(), "subject", email.Subject)

	return nil
}

// development fallback when no provider is configured
type logSender struct{}

func (logSender) Name() string {
	return "log"
}

func (logSender) Send(_ context.Context, email Email) error {
	logger.Warn("no email provider configured, dropping message", "to", email.To, "subject", email.Subject)
	return nil
}
