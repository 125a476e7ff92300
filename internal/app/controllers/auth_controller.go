package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
	"github.com/yigit/campusfeedback/internal/pkg/auth"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// StudentLogin handles student sign in
// @Summary Student login
// @Description Signs a student in with roll number and date of birth, or the password once one has been set
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Roll number and DOB"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Router /auth/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.StudentLogin(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Info().Err(err).Str("rollNo", req.RollNo).Msg("Student login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, resp)
}

// StaffLogin returns the login handler of one staff role. The account's
// role must match the endpoint it signs in through.
// @Summary Staff login
// @Description Signs an admin, HOD, principal or vice principal in with email or username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StaffLoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Router /auth/hod/login [post]
// @Router /auth/admin/login [post]
// @Router /auth/principal/login [post]
// @Router /auth/vice-principal/login [post]
func (c *AuthController) StaffLogin(role models.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req dto.StaffLoginRequest
		if !middleware.BindJSON(ctx, &req) {
			return
		}

		resp, err := c.authService.StaffLogin(ctx.Request.Context(), role, &req)
		if err != nil {
			c.logger.Info().Err(err).Str("login", req.Login()).Str("role", string(role)).Msg("Staff login failed")
			middleware.HandleAPIError(ctx, err)
			return
		}
		writeData(ctx, resp)
	}
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "New token pair"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tokens, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, tokens)
}

// Logout revokes a refresh token
// @Summary Logout
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token to revoke"
// @Success 200 {object} dto.APIResponse "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Logged out successfully")
}

// Verify decodes the bearer token of the request.
// @Summary Verify access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.VerifyResponse} "Token is valid"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/verify [get]
func (c *AuthController) Verify(ctx *gin.Context) {
	token, err := auth.ExtractBearerToken(ctx.GetHeader("Authorization"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	claims, err := c.authService.Verify(token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, claims)
}

// ChangePassword changes the caller's password
// @Summary Change password
// @Description Students may give their DOB as the current credential until they set a password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse "Password changed"
// @Failure 400 {object} dto.ErrorResponse "New password too short"
// @Failure 401 {object} dto.ErrorResponse "Current password is wrong"
// @Router /auth/student/change-password [post]
// @Router /auth/hod/change-password [post]
// @Router /auth/admin/change-password [post]
// @Router /auth/principal/change-password [post]
// @Router /auth/vice-principal/change-password [post]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	id, role, ok := caller(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ChangePassword(ctx.Request.Context(), id, role, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("id", id).Str("role", string(role)).Msg("Password changed")
	writeMessage(ctx, "Password changed successfully")
}

// StudentForgotPassword lets a student set a new password by proving roll
// number and date of birth.
// @Summary Student forgot password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentForgotPasswordRequest true "Roll number, DOB and new password"
// @Success 200 {object} dto.APIResponse "Password updated"
// @Failure 401 {object} dto.ErrorResponse "Roll number and DOB do not match"
// @Router /auth/student/forgot-password [post]
func (c *AuthController) StudentForgotPassword(ctx *gin.Context) {
	var req dto.StudentForgotPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.StudentForgotPassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Password updated successfully")
}

// ForgotPassword emails a reset link to a staff account. The answer is the
// same whether or not the account exists.
// @Summary Staff forgot password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse "Reset link sent if the account exists"
// @Router /auth/hod/forgot-password [post]
// @Router /auth/admin/forgot-password [post]
// @Router /auth/principal/forgot-password [post]
// @Router /auth/vice-principal/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "If the account exists, a password reset link has been sent")
}

// ResetPassword consumes a reset token
// @Summary Reset password with token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.APIResponse "Password reset"
// @Failure 401 {object} dto.ErrorResponse "Token invalid, expired or already used"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Password has been reset successfully")
}
