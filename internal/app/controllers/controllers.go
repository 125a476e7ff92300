// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/middleware"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

// ScopeResolver turns the authenticated account into the program/branch
// scope it may act on.
type ScopeResolver interface {
	ScopeFor(ctx context.Context, id int64, role models.Role) (models.Scope, error)
}

// parseIDParam extracts and validates a positive ID path parameter
func parseIDParam(ctx *gin.Context, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+paramName).
			WithField(paramName).
			WithDetails(paramName + " must be a positive number")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewFailureResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// caller returns the authenticated account. JWTAuth guarantees both values on
// protected routes, so a miss is reported as unauthorized.
func caller(ctx *gin.Context) (int64, models.Role, bool) {
	id, okID := middleware.GetUserID(ctx)
	role, okRole := middleware.GetRole(ctx)
	if !okID || !okRole {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenNotFound)
		return 0, "", false
	}
	return id, role, true
}

// callerScope resolves the scope of the authenticated account.
func callerScope(ctx *gin.Context, resolver ScopeResolver) (int64, models.Scope, bool) {
	id, role, ok := caller(ctx)
	if !ok {
		return 0, models.Scope{}, false
	}
	scope, err := resolver.ScopeFor(ctx.Request.Context(), id, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, models.Scope{}, false
	}
	return id, scope, true
}

func writeData(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func writeCreated(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse(message, data))
}

// writeSaved answers 201 for a created row and 200 for an updated one.
func writeSaved(ctx *gin.Context, wasCreated bool, entity string, data interface{}) {
	if wasCreated {
		writeCreated(ctx, entity+" created successfully", data)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(entity+" updated successfully", data))
}

func writeMessage(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(msg, nil))
}

// writeBulk reports a bulk upload. The request itself succeeded even when some
// rows failed, so the status is always 200.
func writeBulk(ctx *gin.Context, result *dto.BulkResult) {
	msg := strconv.Itoa(len(result.Success)) + " succeeded, " + strconv.Itoa(len(result.Failed)) + " failed"
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(msg, result))
}
