package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// apiError is the status, code and fallback message an error maps to.
type apiError struct {
	status  int
	code    dto.ErrorCode
	message string
}

// classify maps service errors onto HTTP responses. Order matters: the more
// specific sentinels come first.
func classify(err error) apiError {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest,
		apperrors.ErrUnknownProgram, apperrors.ErrUnknownTemplateType,
		apperrors.ErrIncompleteResponseSet, apperrors.ErrRatingOutOfRange):
		return apiError{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"}
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return apiError{http.StatusBadRequest, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"}
	case errors.Is(err, apperrors.ErrSubjectNotInScope):
		return apiError{http.StatusForbidden, dto.ErrorCodeForbidden, "Subject is not part of your current semester"}
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrProgramNotFound, apperrors.ErrBranchNotFound, apperrors.ErrBatchNotFound,
		apperrors.ErrStudentNotFound, apperrors.ErrFacultyNotFound, apperrors.ErrStaffNotFound,
		apperrors.ErrSubjectNotFound, apperrors.ErrSubjectMapNotFound, apperrors.ErrQuestionNotFound,
		apperrors.ErrWindowNotFound):
		return apiError{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"}
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat,
		apperrors.ErrTokenRevoked, apperrors.ErrPasswordResetTokenUsed):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"}
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return apiError{http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"}
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return apiError{http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"}
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return apiError{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"}
	case apperrors.Is(err, apperrors.ErrWindowNotOpen, apperrors.ErrFeedbackAlreadyExists,
		apperrors.ErrWindowAlreadyClosed, apperrors.ErrConflict):
		return apiError{http.StatusConflict, dto.ErrorCodeConflict, "Conflict"}
	default:
		return apiError{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"}
	}
}

// HandleAPIError writes the error envelope for err. Known errors carry their
// own message; anything unrecognised is logged and reported generically.
func HandleAPIError(c *gin.Context, err error) {
	mapped := classify(err)

	message := mapped.message
	if msg, ok := apperrors.MessageOf(err); ok {
		message = msg
	} else if mapped.status != http.StatusInternalServerError {
		message = err.Error()
	}

	if mapped.status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
		message = mapped.message
	}

	detail := dto.NewErrorDetail(mapped.code, message)
	if mapped.status >= http.StatusInternalServerError {
		detail.WithSeverity(dto.ErrorSeverityError)
	}
	c.AbortWithStatusJSON(mapped.status, dto.NewFailureResponse(detail))
}

// HandleBindingError reports a request that failed to bind or validate.
func HandleBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Malformed request body")
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewFailureResponse(dto.HandleValidationError(err)))
}
