// Package auth resolves what part of the institution an authenticated caller
// may act on.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// StaffLookup loads staff accounts.
type StaffLookup interface {
	GetByID(ctx context.Context, id int64) (*models.StaffAccount, error)
}

// AuthorizationService maps callers onto scopes.
type AuthorizationService struct {
	staff StaffLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(staff StaffLookup) *AuthorizationService {
	return &AuthorizationService{staff: staff}
}

// ScopeFor returns the caller's scope. HODs are bound to the program and
// branch on their account; admins, principals and vice principals get the
// unrestricted scope. Students have no administrative scope.
func (s *AuthorizationService) ScopeFor(ctx context.Context, id int64, role models.Role) (models.Scope, error) {
	switch role {
	case models.RoleAdmin, models.RolePrincipal, models.RoleVicePrincipal:
		return models.Scope{}, nil
	case models.RoleHOD:
	default:
		return models.Scope{}, apperrors.NewForbiddenError("no administrative access")
	}

	account, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrStaffNotFound) {
			return models.Scope{}, apperrors.NewForbiddenError("account not found")
		}
		logger.Error().Err(err).Int64("staffID", id).Msg("Error loading HOD for scope")
		return models.Scope{}, fmt.Errorf("error resolving scope: %w", err)
	}
	if account.Role != models.RoleHOD {
		return models.Scope{}, apperrors.NewForbiddenError("account is not a head of department")
	}
	if account.Program == "" || account.Branch == "" {
		return models.Scope{}, apperrors.NewForbiddenError("head of department has no program or branch assigned")
	}
	return models.Scope{Program: account.Program, Branch: account.Branch}, nil
}
