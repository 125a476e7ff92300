package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/academic"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/auth"
	"github.com/yigit/campusfeedback/internal/pkg/email"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// AuthService handles sign-in, tokens and passwords for every role.
type AuthService interface {
	StudentLogin(ctx context.Context, req *dto.StudentLoginRequest) (*dto.AuthResponse, error)
	StaffLogin(ctx context.Context, role models.Role, req *dto.StaffLoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Verify(accessToken string) (*dto.VerifyResponse, error)
	ChangePassword(ctx context.Context, id int64, role models.Role, req *dto.ChangePasswordRequest) error
	StudentForgotPassword(ctx context.Context, req *dto.StudentForgotPasswordRequest) error
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	IsActive(ctx context.Context, id int64, role models.Role) (bool, error)
}

type authServiceImpl struct {
	students   StudentStore
	staff      StaffStore
	tokens     TokenStore
	links      *resetLinks
	jwtService *auth.JWTService
	durations  *academic.DurationResolver
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	students StudentStore,
	staff StaffStore,
	tokens TokenStore,
	resetTokens ResetTokenStore,
	mailer email.EmailService,
	resetTTL time.Duration,
	jwtService *auth.JWTService,
	durations *academic.DurationResolver,
) AuthService {
	return &authServiceImpl{
		students:   students,
		staff:      staff,
		tokens:     tokens,
		links:      newResetLinks(resetTokens, mailer, resetTTL),
		jwtService: jwtService,
		durations:  durations,
		now:        time.Now,
	}
}

// StudentLogin checks roll number and date of birth, or the password once
// the student has set one.
func (s *authServiceImpl) StudentLogin(ctx context.Context, req *dto.StudentLoginRequest) (*dto.AuthResponse, error) {
	student, err := s.students.GetByRollNo(ctx, req.RollNo)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if student.HasPassword() {
		if !auth.CheckPassword(*student.PasswordHash, req.Password) {
			return nil, apperrors.ErrInvalidCredentials
		}
	} else if !auth.SameDOB(student.DOB, req.DOB) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !student.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, err := s.issueTokens(ctx, student.ID, models.RoleStudent, student.Email)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("rollNo", student.RollNo).Msg("Student signed in")

	withStanding(ctx, s.durations, student, s.now())
	return &dto.AuthResponse{Token: *token, User: student}, nil
}

// StaffLogin signs in an account whose role matches the endpoint.
func (s *authServiceImpl) StaffLogin(ctx context.Context, role models.Role, req *dto.StaffLoginRequest) (*dto.AuthResponse, error) {
	account, err := s.staff.GetByLogin(ctx, req.Login())
	if err != nil {
		if errors.Is(err, apperrors.ErrStaffNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if account.Role != role || !auth.CheckPassword(account.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, err := s.issueTokens(ctx, account.ID, account.Role, account.Email)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("username", account.Username).Str("role", string(role)).Msg("Staff signed in")

	return &dto.AuthResponse{Token: *token, User: account}, nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, id int64, role models.Role, mail string) (*dto.TokenResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.Principal{ID: id, Role: string(role), Email: mail})
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}
	if err := s.tokens.CreateToken(ctx, pair.RefreshToken, id, role, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}
	return &dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(pair.ExpiresIn),
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: int64(pair.RefreshExpiresIn),
	}, nil
}

// RefreshToken rotates a refresh token: the old one is revoked and a new
// pair issued, provided the account is still active.
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	stored, err := s.tokens.GetToken(ctx, refreshToken, s.now())
	if err != nil {
		return nil, err
	}

	active, mail, err := s.account(ctx, stored.SubjectID, stored.Role)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}
	return s.issueTokens(ctx, stored.SubjectID, stored.Role, mail)
}

// Logout revokes the refresh token. Unknown tokens are not an error.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokens.RevokeToken(ctx, strings.TrimSpace(refreshToken))
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

// Verify decodes an access token.
func (s *authServiceImpl) Verify(accessToken string) (*dto.VerifyResponse, error) {
	claims, err := s.jwtService.ValidateAndExtractClaims(accessToken)
	if err != nil {
		return nil, err
	}
	resp := &dto.VerifyResponse{Valid: true, ID: claims.ID, Role: claims.Role, Email: claims.Email}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return resp, nil
}

// ChangePassword checks the current credential and stores the new password.
// A student who never set a password proves identity with the DOB. Every
// refresh token of the account is revoked.
func (s *authServiceImpl) ChangePassword(ctx context.Context, id int64, role models.Role, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < auth.MinPasswordLength {
		return validationErrorf("new password must be at least %d characters", auth.MinPasswordLength)
	}

	if role == models.RoleStudent {
		student, err := s.students.GetByID(ctx, id)
		if err != nil {
			return err
		}
		var ok bool
		if student.HasPassword() {
			ok = auth.CheckPassword(*student.PasswordHash, req.CurrentPassword)
		} else {
			ok = auth.SameDOB(student.DOB, req.CurrentPassword)
		}
		if !ok {
			return apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "current password is incorrect")
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		if err := s.students.SetPassword(ctx, id, hash); err != nil {
			return err
		}
	} else {
		account, err := s.staff.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account.Role != role {
			return apperrors.ErrStaffNotFound
		}
		if !auth.CheckPassword(account.PasswordHash, req.CurrentPassword) {
			return apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "current password is incorrect")
		}
		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		if err := s.staff.UpdatePassword(ctx, id, hash); err != nil {
			return err
		}
	}

	if err := s.tokens.RevokeAll(ctx, id, role); err != nil {
		logger.Warn().Err(err).Int64("id", id).Msg("Failed to revoke refresh tokens after password change")
	}
	return nil
}

// StudentForgotPassword lets a student who proves roll number and DOB set a
// new password.
func (s *authServiceImpl) StudentForgotPassword(ctx context.Context, req *dto.StudentForgotPasswordRequest) error {
	student, err := s.students.GetByRollNo(ctx, req.RollNo)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return apperrors.ErrInvalidCredentials
		}
		return err
	}
	if !auth.SameDOB(student.DOB, req.DOB) {
		return apperrors.ErrInvalidCredentials
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		return validationErrorf("new password must be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.students.SetPassword(ctx, student.ID, hash); err != nil {
		return err
	}
	if err := s.tokens.RevokeAll(ctx, student.ID, models.RoleStudent); err != nil {
		logger.Warn().Err(err).Int64("studentID", student.ID).Msg("Failed to revoke refresh tokens after reset")
	}
	return nil
}

// ForgotPassword mails a reset link to a staff account. An unknown email
// succeeds silently so the endpoint cannot be used to probe accounts.
func (s *authServiceImpl) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	account, err := s.staff.GetByLogin(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrStaffNotFound) {
			logger.Info().Str("login", req.Email).Msg("Password reset requested for unknown account")
			return nil
		}
		return err
	}
	if !account.IsActive {
		logger.Info().Int64("staffID", account.ID).Msg("Password reset requested for disabled account")
		return nil
	}
	return s.links.sendReset(ctx, account)
}

// ResetPassword consumes a reset token and sets the new password.
func (s *authServiceImpl) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if len(req.NewPassword) < auth.MinPasswordLength {
		return validationErrorf("new password must be at least %d characters", auth.MinPasswordLength)
	}
	staffID, err := s.links.tokens.ConsumeToken(ctx, strings.TrimSpace(req.Token), s.now())
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.staff.UpdatePassword(ctx, staffID, hash); err != nil {
		return err
	}

	account, err := s.staff.GetByID(ctx, staffID)
	if err == nil {
		if err := s.tokens.RevokeAll(ctx, staffID, account.Role); err != nil {
			logger.Warn().Err(err).Int64("staffID", staffID).Msg("Failed to revoke refresh tokens after reset")
		}
	}
	logger.Info().Int64("staffID", staffID).Msg("Password reset completed")
	return nil
}

// IsActive reports whether the account behind a token may still act.
func (s *authServiceImpl) IsActive(ctx context.Context, id int64, role models.Role) (bool, error) {
	active, _, err := s.account(ctx, id, role)
	if errors.Is(err, apperrors.ErrStudentNotFound) || errors.Is(err, apperrors.ErrStaffNotFound) {
		return false, nil
	}
	return active, err
}

func (s *authServiceImpl) account(ctx context.Context, id int64, role models.Role) (bool, string, error) {
	if role == models.RoleStudent {
		student, err := s.students.GetByID(ctx, id)
		if err != nil {
			return false, "", err
		}
		return student.IsActive, student.Email, nil
	}
	account, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return false, "", err
	}
	return account.IsActive && account.Role == role, account.Email, nil
}
