package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/auth"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextEmail  = "email"
)

// AccountChecker reports whether the account behind a token may still act.
type AccountChecker interface {
	IsActive(ctx context.Context, id int64, role models.Role) (bool, error)
}

// StatusCache caches AccountChecker answers.
type StatusCache interface {
	Get(ctx context.Context, role string, id int64) (bool, bool, error)
	Set(ctx context.Context, role string, id int64, active bool) error
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	accounts   AccountChecker
	cache      StatusCache
}

// NewAuthMiddleware creates a new AuthMiddleware. accounts and cache may be
// nil, in which case only the token is checked.
func NewAuthMiddleware(jwtService *auth.JWTService, accounts AccountChecker, cache StatusCache) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		accounts:   accounts,
		cache:      cache,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message, details string) {
	detail := dto.NewErrorDetail(code, message).WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewFailureResponse(detail))
}

// tokenFromRequest reads the bearer token. The Swagger UI sometimes sends a
// raw token or passes it as a query parameter, so both are accepted.
func tokenFromRequest(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.Query("token")
	}
	header = strings.Trim(strings.TrimSpace(header), "\"'")
	if header == "" {
		return "", apperrors.ErrTokenNotFound
	}
	if !strings.HasPrefix(header, "Bearer ") && strings.Count(header, ".") == 2 {
		return header, nil
	}
	return auth.ExtractBearerToken(header)
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := tokenFromRequest(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			} else if errors.Is(err, apperrors.ErrInvalidFormat) {
				details = "Invalid token format"
			}
			abortUnauthorized(c, code, "Authentication failed", details)
			return
		}

		role := models.Role(claims.Role)
		if !m.active(c.Request.Context(), claims.ID, role) {
			detail := dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewFailureResponse(detail))
			return
		}

		c.Set(ContextUserID, claims.ID)
		c.Set(ContextRole, role)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// active consults the cache, then the accounts store. Lookup failures let
// the request through; the token itself was valid.
func (m *AuthMiddleware) active(ctx context.Context, id int64, role models.Role) bool {
	if m.accounts == nil {
		return true
	}
	if m.cache != nil {
		active, found, err := m.cache.Get(ctx, string(role), id)
		if err != nil {
			logger.Warn().Err(err).Msg("Account status cache read failed")
		} else if found {
			return active
		}
	}

	active, err := m.accounts.IsActive(ctx, id, role)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Str("role", string(role)).Msg("Account status check failed")
		return true
	}
	if m.cache != nil {
		if err := m.cache.Set(ctx, string(role), id, active); err != nil {
			logger.Warn().Err(err).Msg("Account status cache write failed")
		}
	}
	return active
}

// RoleRequired middleware to check if user has one of the roles
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "User role not found")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewFailureResponse(detail))
	}
}

// GetUserID returns the authenticated account ID.
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetRole returns the authenticated role.
func GetRole(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
