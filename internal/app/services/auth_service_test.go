package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/auth"
)

type authFixture struct {
	svc      *authServiceImpl
	students *fakeStudents
	staff    *fakeStaff
	tokens   *fakeTokens
	resets   *fakeResetTokens
	mailer   *fakeMailer
	hod      *models.StaffAccount
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)

	dob, err := auth.ParseDOB("2004-05-01")
	require.NoError(t, err)

	students := newFakeStudents(&models.Student{
		RollNo: "21A91A0501", Name: "A. Kumar", DOB: dob, Program: "BTECH", Branch: "CSE",
		AdmittedYear: 2023, IsActive: true,
	})
	hod := &models.StaffAccount{
		Username: "hod_cse", Email: "hod.cse@college.test", PasswordHash: hash, Name: "Dr. Rao",
		Role: models.RoleHOD, Program: "BTECH", Branch: "CSE", IsActive: true,
	}
	staff := newFakeStaff(hod)
	tokens := newFakeTokens()
	resets := newFakeResetTokens()
	mailer := &fakeMailer{}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "campusfeedback-test",
	})

	svc := NewAuthService(students, staff, tokens, resets, mailer, time.Hour, jwtService, testDurations()).(*authServiceImpl)
	return &authFixture{svc: svc, students: students, staff: staff, tokens: tokens, resets: resets, mailer: mailer, hod: hod}
}

func TestAuthService_StudentLoginDOBFormats(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	for _, dob := range []string{"2004-05-01", "01-05-2004", "01/05/2004", "1/5/2004"} {
		resp, err := fx.svc.StudentLogin(ctx, &dto.StudentLoginRequest{RollNo: "21a91a0501", DOB: dob})
		require.NoError(t, err, dob)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.Equal(t, "Bearer", resp.Token.TokenType)

		student, ok := resp.User.(*models.Student)
		require.True(t, ok)
		require.NotNil(t, student.Standing)
	}

	_, err := fx.svc.StudentLogin(ctx, &dto.StudentLoginRequest{RollNo: "21A91A0501", DOB: "02-05-2004"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = fx.svc.StudentLogin(ctx, &dto.StudentLoginRequest{RollNo: "NOPE0001", DOB: "2004-05-01"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_StudentPasswordReplacesDOB(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	err := fx.svc.ChangePassword(ctx, 1, models.RoleStudent, &dto.ChangePasswordRequest{
		CurrentPassword: "01/05/2004",
		NewPassword:     "new-secret",
	})
	require.NoError(t, err)

	_, err = fx.svc.StudentLogin(ctx, &dto.StudentLoginRequest{RollNo: "21A91A0501", DOB: "2004-05-01"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = fx.svc.StudentLogin(ctx, &dto.StudentLoginRequest{RollNo: "21A91A0501", Password: "new-secret"})
	assert.NoError(t, err)
}

func TestAuthService_DisabledStudent(t *testing.T) {
	fx := newAuthFixture(t)
	require.NoError(t, fx.students.Deactivate(context.Background(), 1))

	_, err := fx.svc.StudentLogin(context.Background(), &dto.StudentLoginRequest{RollNo: "21A91A0501", DOB: "2004-05-01"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestAuthService_StaffLogin(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.StaffLogin(ctx, models.RoleHOD, &dto.StaffLoginRequest{Username: "hod_cse", Password: "secret-pass"})
	require.NoError(t, err)

	claims, err := fx.svc.Verify(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, fx.hod.ID, claims.ID)
	assert.Equal(t, "HOD", claims.Role)

	_, err = fx.svc.StaffLogin(ctx, models.RoleHOD, &dto.StaffLoginRequest{Email: "HOD.CSE@college.test", Password: "secret-pass"})
	assert.NoError(t, err)

	_, err = fx.svc.StaffLogin(ctx, models.RoleHOD, &dto.StaffLoginRequest{Username: "hod_cse", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = fx.svc.StaffLogin(ctx, models.RoleAdmin, &dto.StaffLoginRequest{Username: "hod_cse", Password: "secret-pass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.StaffLogin(ctx, models.RoleHOD, &dto.StaffLoginRequest{Username: "hod_cse", Password: "secret-pass"})
	require.NoError(t, err)

	rotated, err := fx.svc.RefreshToken(ctx, resp.Token.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.Token.RefreshToken, rotated.RefreshToken)

	_, err = fx.svc.RefreshToken(ctx, resp.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	require.NoError(t, fx.svc.Logout(ctx, rotated.RefreshToken))
	require.NoError(t, fx.svc.Logout(ctx, "unknown-token"))
	_, err = fx.svc.RefreshToken(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestAuthService_RefreshForDisabledAccount(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.StaffLogin(ctx, models.RoleHOD, &dto.StaffLoginRequest{Username: "hod_cse", Password: "secret-pass"})
	require.NoError(t, err)
	require.NoError(t, fx.staff.Deactivate(ctx, fx.hod.ID, models.RoleHOD))

	_, err = fx.svc.RefreshToken(ctx, resp.Token.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)

	active, err := fx.svc.IsActive(ctx, fx.hod.ID, models.RoleHOD)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "nobody@college.test"}))
	assert.Empty(t, fx.mailer.sent)

	require.NoError(t, fx.svc.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "hod.cse@college.test"}))
	require.Len(t, fx.mailer.sent, 1)
	token := fx.mailer.sent[0].token
	assert.Equal(t, fx.resets.last, token)

	err := fx.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, NewPassword: "abc"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	require.NoError(t, fx.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, NewPassword: "brand-new"}))
	err = fx.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, NewPassword: "brand-new"})
	assert.ErrorIs(t, err, apperrors.ErrPasswordResetTokenUsed)

	_, err = fx.svc.StaffLogin(ctx, models.RoleHOD, &dto.StaffLoginRequest{Username: "hod_cse", Password: "brand-new"})
	assert.NoError(t, err)
}

func TestAuthService_StudentForgotPassword(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	err := fx.svc.StudentForgotPassword(ctx, &dto.StudentForgotPasswordRequest{RollNo: "21A91A0501", DOB: "1999-01-01", NewPassword: "abcdef"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, fx.svc.StudentForgotPassword(ctx, &dto.StudentForgotPasswordRequest{
		RollNo: "21A91A0501", DOB: "01-05-2004", NewPassword: "abcdef",
	}))
	_, err = fx.svc.StudentLogin(ctx, &dto.StudentLoginRequest{RollNo: "21A91A0501", Password: "abcdef"})
	assert.NoError(t, err)
}
