package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

type staffByID map[int64]*models.StaffAccount

func (s staffByID) GetByID(_ context.Context, id int64) (*models.StaffAccount, error) {
	a, ok := s[id]
	if !ok {
		return nil, apperrors.ErrStaffNotFound
	}
	return a, nil
}

func TestScopeFor(t *testing.T) {
	svc := NewAuthorizationService(staffByID{
		1: {ID: 1, Role: models.RoleHOD, Program: "BTECH", Branch: "CSE"},
		2: {ID: 2, Role: models.RoleHOD, Program: "BTECH"},
		3: {ID: 3, Role: models.RoleAdmin},
	})
	ctx := context.Background()

	scope, err := svc.ScopeFor(ctx, 1, models.RoleHOD)
	require.NoError(t, err)
	assert.Equal(t, models.Scope{Program: "BTECH", Branch: "CSE"}, scope)

	scope, err = svc.ScopeFor(ctx, 99, models.RolePrincipal)
	require.NoError(t, err)
	assert.True(t, scope.Unrestricted())

	_, err = svc.ScopeFor(ctx, 2, models.RoleHOD)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.ScopeFor(ctx, 3, models.RoleHOD)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.ScopeFor(ctx, 42, models.RoleHOD)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.ScopeFor(ctx, 1, models.RoleStudent)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
