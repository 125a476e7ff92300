package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/pkg/email"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// resetLinks issues one-time password tokens to staff and mails them.
type resetLinks struct {
	tokens ResetTokenStore
	mailer email.EmailService
	ttl    time.Duration
	now    func() time.Time
}

func newResetLinks(tokens ResetTokenStore, mailer email.EmailService, ttl time.Duration) *resetLinks {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &resetLinks{tokens: tokens, mailer: mailer, ttl: ttl, now: time.Now}
}

func (l *resetLinks) issue(ctx context.Context, staffID int64) (string, error) {
	if err := l.tokens.DeleteTokensByStaffID(ctx, staffID); err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := l.tokens.CreateToken(ctx, staffID, token, l.now().Add(l.ttl)); err != nil {
		return "", fmt.Errorf("error storing reset token: %w", err)
	}
	return token, nil
}

// sendWelcome mails a new account its set-password link. Delivery failures
// are logged and reported as false; the account stays created.
func (l *resetLinks) sendWelcome(ctx context.Context, account *models.StaffAccount) bool {
	token, err := l.issue(ctx, account.ID)
	if err != nil {
		logger.Error().Err(err).Int64("staffID", account.ID).Msg("Failed to issue set-password token")
		return false
	}
	if err := l.mailer.SendAccountCreatedEmail(account.Email, account.Name, account.Username, token); err != nil {
		logger.Error().Err(err).Str("email", account.Email).Msg("Failed to send account email")
		return false
	}
	return true
}

func (l *resetLinks) sendReset(ctx context.Context, account *models.StaffAccount) error {
	token, err := l.issue(ctx, account.ID)
	if err != nil {
		return err
	}
	if err := l.mailer.SendPasswordResetEmail(account.Email, account.Name, token); err != nil {
		logger.Error().Err(err).Str("email", account.Email).Msg("Failed to send password reset email")
		return fmt.Errorf("error sending password reset email: %w", err)
	}
	return nil
}
