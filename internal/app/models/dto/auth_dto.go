package dto

// StudentLoginRequest signs a student in with roll number and date of birth.
// Password is required instead of the DOB once the student has set one.
type StudentLoginRequest struct {
	RollNo   string `json:"rollNo" binding:"required" example:"21A91A0501"`
	DOB      string `json:"dob" example:"01-05-2004"`
	Password string `json:"password,omitempty"`
}

// StaffLoginRequest signs in an admin, HOD, principal or vice principal.
// Email may hold either the email address or the username.
type StaffLoginRequest struct {
	Email    string `json:"email" binding:"required_without=Username" example:"hod.cse@college.edu"`
	Username string `json:"username" binding:"required_without=Email" example:"hod_cse"`
	Password string `json:"password" binding:"required"`
}

// Login returns whichever identifier was supplied.
func (r StaffLoginRequest) Login() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  interface{}   `json:"user"`
}

// ChangePasswordRequest changes the caller's password. Students may pass
// their DOB as the current credential until they set a password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// StudentForgotPasswordRequest lets a student set a password by proving
// roll number and DOB.
type StudentForgotPasswordRequest struct {
	RollNo      string `json:"rollNo" binding:"required"`
	DOB         string `json:"dob" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// ForgotPasswordRequest asks for a reset link for a staff account.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest consumes a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// VerifyResponse is returned by GET /auth/verify
type VerifyResponse struct {
	Valid     bool   `json:"valid"`
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	ExpiresAt int64  `json:"expiresAt"`
}
