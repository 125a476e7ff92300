package email

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendAccountCreatedEmail(toEmail, toName, username, token string) error
	SendPasswordResetEmail(toEmail, toName, token string) error
}

// Config selects and configures the delivery provider
type Config struct {
	Provider     string // smtp, sendgrid or log
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool
	SendGridKey  string
	FromName     string
	FromEmail    string
	FrontendURL  string // base URL of the web client that renders the reset form
}

// sender delivers one rendered HTML message.
type sender interface {
	send(toEmail, toName, subject, htmlBody string) error
}

// mailer renders messages and hands them to a sender.
type mailer struct {
	cfg    Config
	sender sender
	logger zerolog.Logger
}

// NewEmailService creates the EmailService for the configured provider.
// Missing credentials degrade to the log provider.
func NewEmailService(cfg Config, logger zerolog.Logger) EmailService {
	m := &mailer{cfg: cfg, logger: logger}

	switch strings.ToLower(cfg.Provider) {
	case "smtp":
		if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
			logger.Warn().Msg("SMTP credentials not configured, emails will only be logged")
			m.sender = &logSender{logger: logger}
		} else {
			m.sender = &smtpSender{cfg: cfg, logger: logger}
		}
	case "sendgrid":
		if cfg.SendGridKey == "" {
			logger.Warn().Msg("SendGrid key not configured, emails will only be logged")
			m.sender = &logSender{logger: logger}
		} else {
			m.sender = newSendGridSender(cfg, logger)
		}
	default:
		m.sender = &logSender{logger: logger}
	}

	return m
}

// ResetLink builds the web client URL carrying a reset token.
func (m *mailer) ResetLink(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(m.cfg.FrontendURL, "/"), token)
}

// SendAccountCreatedEmail tells a new staff member their username and where
// to choose a password.
func (m *mailer) SendAccountCreatedEmail(toEmail, toName, username, token string) error {
	link := m.ResetLink(token)
	subject := "Your Campus Feedback account"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to Campus Feedback</h2>
				<p>Hello %s,</p>
				<p>An account has been created for you. Your username is <strong>%s</strong>.</p>
				<p>Set your password using the link below:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Set Password</a>
				</div>
				<p>If you were not expecting this email, please contact the administrator.</p>
			</div>
		</body>
		</html>
	`, toName, username, link)

	m.logger.Info().Str("toEmail", toEmail).Str("resetURL", link).Msg("Sending account created email")
	return m.sender.send(toEmail, toName, subject, body)
}

// SendPasswordResetEmail sends a reset link.
func (m *mailer) SendPasswordResetEmail(toEmail, toName, token string) error {
	link := m.ResetLink(token)
	subject := "Reset your Campus Feedback password"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<p>Hello %s,</p>
				<p>We received a request to reset your password. Use the link below to choose a new one:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
				</div>
				<p>If you did not request a reset, you can ignore this email.</p>
			</div>
		</body>
		</html>
	`, toName, link)

	return m.sender.send(toEmail, toName, subject, body)
}

// logSender writes the message to the log instead of delivering it.
type logSender struct {
	logger zerolog.Logger
}

func (s *logSender) send(toEmail, toName, subject, htmlBody string) error {
	s.logger.Warn().
		Str("toEmail", toEmail).
		Str("toName", toName).
		Str("subject", subject).
		Msg("Email delivery disabled - message logged only")
	return nil
}
