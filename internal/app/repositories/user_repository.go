package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

var staffColumns = []string{
	"id", "username", "email", "password_hash", "name", "role", "program", "branch",
	"designation", "is_active", "created_at", "updated_at",
}

// StaffRepository handles admin, HOD, principal and vice principal accounts
type StaffRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{db: db, sb: newBuilder()}
}

func scanStaff(row rowScanner) (*models.StaffAccount, error) {
	s := &models.StaffAccount{}
	err := row.Scan(&s.ID, &s.Username, &s.Email, &s.PasswordHash, &s.Name, &s.Role, &s.Program, &s.Branch,
		&s.Designation, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *StaffRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.StaffAccount, error) {
	sql, args, err := r.sb.Select(staffColumns...).From("staff_accounts").Where(where).Limit(1).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get staff SQL")
		return nil, fmt.Errorf("failed to build get staff query: %w", err)
	}

	s, err := scanStaff(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStaffNotFound
		}
		logger.Error().Err(err).Msg("Error scanning staff row")
		return nil, fmt.Errorf("error getting staff account: %w", err)
	}
	return s, nil
}

// GetByID retrieves an account by ID
func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*models.StaffAccount, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByLogin retrieves an account by email or username, ignoring case.
func (r *StaffRepository) GetByLogin(ctx context.Context, login string) (*models.StaffAccount, error) {
	login = strings.TrimSpace(login)
	return r.getOne(ctx, squirrel.Or{
		squirrel.Expr("LOWER(email) = LOWER(?)", login),
		squirrel.Expr("LOWER(username) = LOWER(?)", login),
	})
}

// ListByRole returns accounts of one role ordered by name.
func (r *StaffRepository) ListByRole(ctx context.Context, role models.Role, activeOnly bool) ([]*models.StaffAccount, error) {
	q := r.sb.Select(staffColumns...).From("staff_accounts").
		Where(squirrel.Eq{"role": role}).
		OrderBy("name ASC")
	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list staff query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("role", string(role)).Msg("Error executing list staff query")
		return nil, fmt.Errorf("error querying staff accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*models.StaffAccount{}
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning staff row: %w", err)
		}
		accounts = append(accounts, s)
	}
	return accounts, rows.Err()
}

// Create inserts an account.
func (r *StaffRepository) Create(ctx context.Context, s *models.StaffAccount) error {
	sql, args, err := r.sb.Insert("staff_accounts").
		Columns("username", "email", "password_hash", "name", "role", "program", "branch", "designation", "is_active").
		Values(s.Username, s.Email, s.PasswordHash, s.Name, s.Role, s.Program, s.Branch, s.Designation, true).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create staff query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if dup := duplicateError(err, "account with this username or email"); dup != err {
			return dup
		}
		logger.Error().Err(err).Str("username", s.Username).Msg("Error executing create staff query")
		return fmt.Errorf("error creating staff account: %w", err)
	}
	return nil
}

// Update overwrites an account's profile columns (not the password).
func (r *StaffRepository) Update(ctx context.Context, s *models.StaffAccount) error {
	sql, args, err := r.sb.Update("staff_accounts").
		SetMap(map[string]interface{}{
			"username":    s.Username,
			"email":       s.Email,
			"name":        s.Name,
			"program":     s.Program,
			"branch":      s.Branch,
			"designation": s.Designation,
			"is_active":   s.IsActive,
			"updated_at":  squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": s.ID, "role": s.Role}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update staff query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStaffNotFound
		}
		if dup := duplicateError(err, "account with this username or email"); dup != err {
			return dup
		}
		logger.Error().Err(err).Int64("staffID", s.ID).Msg("Error executing update staff query")
		return fmt.Errorf("error updating staff account: %w", err)
	}
	return nil
}

// UpsertHOD inserts or updates a HOD by email. The password hash is only
// written for new rows.
func (r *StaffRepository) UpsertHOD(ctx context.Context, s *models.StaffAccount) (bool, error) {
	sql, args, err := r.sb.Insert("staff_accounts").
		Columns("username", "email", "password_hash", "name", "role", "program", "branch", "designation", "is_active").
		Values(s.Username, s.Email, s.PasswordHash, s.Name, models.RoleHOD, s.Program, s.Branch, s.Designation, true).
		Suffix(upsertSuffixWhere("(email)", "name = EXCLUDED.name, program = EXCLUDED.program, "+
			"branch = EXCLUDED.branch, designation = EXCLUDED.designation, is_active = TRUE",
			"staff_accounts.role = 'HOD'")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert HOD query: %w", err)
	}

	var created bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Email belongs to a non-HOD account
			return false, apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "account with this email already exists")
		}
		if dup := duplicateError(err, "account with this username"); dup != err {
			return false, dup
		}
		logger.Error().Err(err).Str("email", s.Email).Msg("Error executing upsert HOD query")
		return false, fmt.Errorf("error upserting HOD: %w", err)
	}
	return created, nil
}

// UpdatePassword stores a new bcrypt hash.
func (r *StaffRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	sql, args, err := r.sb.Update("staff_accounts").
		Set("password_hash", hash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("staffID", id).Msg("Error executing update password query")
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStaffNotFound
	}
	return nil
}

// Deactivate soft-deletes an account of the given role.
func (r *StaffRepository) Deactivate(ctx context.Context, id int64, role models.Role) error {
	sql, args, err := r.sb.Update("staff_accounts").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "role": role}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deactivate staff query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("staffID", id).Msg("Error executing deactivate staff query")
		return fmt.Errorf("error deactivating staff account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStaffNotFound
	}
	return nil
}

// CountByRole returns active accounts of one role.
func (r *StaffRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return countWhere(ctx, r.db, r.sb, "staff_accounts", squirrel.Eq{"role": role, "is_active": true})
}
