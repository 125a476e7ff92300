package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

func newTestJWT() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWT()

	pair, err := svc.GenerateTokenPair(Principal{ID: 42, Role: "HOD", Email: "hod@college.test"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 3600, pair.ExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID)
	assert.Equal(t, "HOD", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestJWTService_Expired(t *testing.T) {
	svc := newTestJWT()
	issued := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issued }

	pair, err := svc.GenerateTokenPair(Principal{ID: 1, Role: "STUDENT"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAndExtractClaims(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	pair, err := newTestJWT().GenerateTokenPair(Principal{ID: 1, Role: "ADMIN"})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	_, err = other.ValidateAndExtractClaims(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestJWTService_RejectsMissingRole(t *testing.T) {
	svc := newTestJWT()
	pair, err := svc.GenerateTokenPair(Principal{ID: 7})
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestJWTService_Garbage(t *testing.T) {
	_, err := newTestJWT().ValidateAndExtractClaims("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)

	_, err = newTestJWT().ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, err = ExtractBearerToken("abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	_, err = ExtractBearerToken("Bearer ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))

	pwd, err := RandomPassword()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(pwd), MinPasswordLength)
}

func TestNormalizeDOB(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2004-05-01", "2004-05-01"},
		{"01-05-2004", "2004-05-01"},
		{"01/05/2004", "2004-05-01"},
		{"1/5/2004", "2004-05-01"},
		{"2004/5/1", "2004-05-01"},
		{" 2004-05-01 ", "2004-05-01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDOB(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDOB_Invalid(t *testing.T) {
	for _, in := range []string{"", "2004", "32-01-2004", "01-13-2004", "yesterday"} {
		_, err := NormalizeDOB(in)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, in)
	}
}

func TestSameDOB(t *testing.T) {
	stored := time.Date(2004, time.May, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDOB(stored, "2004-05-01"))
	assert.True(t, SameDOB(stored, "01-05-2004"))
	assert.True(t, SameDOB(stored, "01/05/2004"))
	assert.False(t, SameDOB(stored, "05/01/2004"))
	assert.False(t, SameDOB(stored, "garbage"))
}
