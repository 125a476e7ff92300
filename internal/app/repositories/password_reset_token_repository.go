package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusfeedback/internal/db"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

// PasswordResetTokenRepository manages password reset tokens in the database
type PasswordResetTokenRepository struct {
	db *pgxpool.Pool
}

// NewPasswordResetTokenRepository creates a new PasswordResetTokenRepository
func NewPasswordResetTokenRepository(db *pgxpool.Pool) *PasswordResetTokenRepository {
	return &PasswordResetTokenRepository{
		db: db,
	}
}

// CreateToken stores a new password reset token for a staff account
func (r *PasswordResetTokenRepository) CreateToken(ctx context.Context, staffID int64, token string, expiryDate time.Time) error {
	query := `
		INSERT INTO password_reset_tokens (staff_id, token, expiry_date)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Exec(ctx, query, staffID, token, expiryDate); err != nil {
		return fmt.Errorf("error creating password reset token: %w", err)
	}
	return nil
}

// ConsumeToken marks a live token as used and returns its staff ID. The
// lookup and update share a transaction with a row lock, so a token can be
// consumed once.
func (r *PasswordResetTokenRepository) ConsumeToken(ctx context.Context, token string, now time.Time) (int64, error) {
	var staffID int64
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var expiryDate time.Time
		var used bool
		err := tx.QueryRow(ctx, `
			SELECT staff_id, expiry_date, used
			FROM password_reset_tokens
			WHERE token = $1
			FOR UPDATE
		`, token).Scan(&staffID, &expiryDate, &used)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrTokenNotFound
			}
			return fmt.Errorf("error retrieving password reset token: %w", err)
		}

		if used {
			return apperrors.ErrPasswordResetTokenUsed
		}
		if expiryDate.Before(now) {
			return apperrors.ErrTokenExpired
		}

		if _, err := tx.Exec(ctx, `UPDATE password_reset_tokens SET used = TRUE WHERE token = $1`, token); err != nil {
			return fmt.Errorf("error marking token as used: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return staffID, nil
}

// DeleteTokensByStaffID removes all tokens for a staff account
func (r *PasswordResetTokenRepository) DeleteTokensByStaffID(ctx context.Context, staffID int64) error {
	query := `
		DELETE FROM password_reset_tokens
		WHERE staff_id = $1
	`

	if _, err := r.db.Exec(ctx, query, staffID); err != nil {
		return fmt.Errorf("error deleting password reset tokens for staff: %w", err)
	}
	return nil
}
