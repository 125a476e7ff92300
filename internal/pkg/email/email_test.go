package email

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to, subject, body string
}

func (r *recordingSender) send(toEmail, _ string, subject, htmlBody string) error {
	r.to, r.subject, r.body = toEmail, subject, htmlBody
	return nil
}

func TestNewEmailService_FallsBackToLog(t *testing.T) {
	for _, provider := range []string{"smtp", "sendgrid", "log", ""} {
		svc := NewEmailService(Config{Provider: provider}, zerolog.Nop())
		m, ok := svc.(*mailer)
		require.True(t, ok)
		_, isLog := m.sender.(*logSender)
		assert.True(t, isLog, provider)
	}
}

func TestMailer_ResetEmailCarriesLink(t *testing.T) {
	rec := &recordingSender{}
	m := &mailer{cfg: Config{FrontendURL: "https://feedback.college.test/"}, sender: rec, logger: zerolog.Nop()}

	require.NoError(t, m.SendPasswordResetEmail("hod@college.test", "Dr. Rao", "tok-123"))

	assert.Equal(t, "hod@college.test", rec.to)
	assert.Contains(t, rec.body, "https://feedback.college.test/reset-password?token=tok-123")
}

func TestMailer_AccountEmailCarriesUsername(t *testing.T) {
	rec := &recordingSender{}
	m := &mailer{cfg: Config{FrontendURL: "http://localhost:5173"}, sender: rec, logger: zerolog.Nop()}

	require.NoError(t, m.SendAccountCreatedEmail("hod@college.test", "Dr. Rao", "hod_cse", "abc"))
	assert.Contains(t, rec.body, "hod_cse")
	assert.Contains(t, rec.body, "reset-password?token=abc")
}

func TestSMTPSender_BuildMessage(t *testing.T) {
	s := &smtpSender{cfg: Config{FromName: "Campus Feedback", FromEmail: "no-reply@college.test"}}
	msg := string(s.buildMessage("x@college.test", "Hi", "<p>body</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: Campus Feedback <no-reply@college.test>\r\n"))
	assert.Contains(t, msg, "Subject: Hi\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>body</p>"))
}

func TestSendGridSender(t *testing.T) {
	var captured rest.Request
	s := newSendGridSender(Config{SendGridKey: "key", FromName: "CF", FromEmail: "cf@college.test"}, zerolog.Nop())
	s.api = func(req rest.Request) (*rest.Response, error) {
		captured = req
		return &rest.Response{StatusCode: http.StatusAccepted}, nil
	}

	require.NoError(t, s.send("to@college.test", "To", "Subject", "<p>x</p>"))
	assert.Equal(t, rest.Method(http.MethodPost), captured.Method)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(captured.Body, &payload))
	assert.Equal(t, "cf@college.test", payload["from"].(map[string]interface{})["email"])

	s.api = func(rest.Request) (*rest.Response, error) {
		return &rest.Response{StatusCode: http.StatusUnauthorized, Body: "bad key"}, nil
	}
	assert.Error(t, s.send("to@college.test", "To", "Subject", "<p>x</p>"))

	s.api = func(rest.Request) (*rest.Response, error) { return nil, errors.New("dial tcp") }
	assert.Error(t, s.send("to@college.test", "To", "Subject", "<p>x</p>"))
}
