package email

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// sendGridSender delivers through the SendGrid v3 API.
type sendGridSender struct {
	key    string
	from   *sgmail.Email
	logger zerolog.Logger
	api    func(request rest.Request) (*rest.Response, error)
}

func newSendGridSender(cfg Config, logger zerolog.Logger) *sendGridSender {
	return &sendGridSender{
		key:    cfg.SendGridKey,
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
		api:    sendgrid.API,
	}
}

func (s *sendGridSender) prepare(toEmail, toName, subject, htmlBody string) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail(toName, toEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", htmlBody))
	return m
}

func (s *sendGridSender) send(toEmail, toName, subject, htmlBody string) error {
	req := sendgrid.GetRequest(s.key, sendGridEndpoint, sendGridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(toEmail, toName, subject, htmlBody))

	res, err := s.api(req)
	if err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("SendGrid request failed")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		s.logger.Error().Int("status", res.StatusCode).Str("body", res.Body).Msg("SendGrid rejected message")
		return fmt.Errorf("failed to send email: sendgrid status %d", res.StatusCode)
	}
	return nil
}
