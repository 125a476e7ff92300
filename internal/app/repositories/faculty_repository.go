package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

var facultyColumns = []string{"id", "faculty_code", "name", "email", "branch", "designation", "is_active", "created_at", "updated_at"}

// FacultyRepository handles faculty database operations
type FacultyRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFacultyRepository creates a new FacultyRepository
func NewFacultyRepository(db *pgxpool.Pool) *FacultyRepository {
	return &FacultyRepository{db: db, sb: newBuilder()}
}

func scanFaculty(row rowScanner) (*models.Faculty, error) {
	f := &models.Faculty{}
	err := row.Scan(&f.ID, &f.FacultyCode, &f.Name, &f.Email, &f.Branch, &f.Designation, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// List returns active faculty ordered by name.
func (r *FacultyRepository) List(ctx context.Context, branch, search string) ([]*models.Faculty, error) {
	q := r.sb.Select(facultyColumns...).From("faculty").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("name ASC")
	if branch != "" {
		q = q.Where(squirrel.Eq{"branch": branch})
	}
	if search != "" {
		pattern := ilike(search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"faculty_code": pattern},
			squirrel.ILike{"email": pattern},
		})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list faculty SQL")
		return nil, fmt.Errorf("failed to build list faculty query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list faculty query")
		return nil, fmt.Errorf("error querying faculty: %w", err)
	}
	defer rows.Close()

	faculty := []*models.Faculty{}
	for rows.Next() {
		f, err := scanFaculty(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning faculty row during list")
			return nil, fmt.Errorf("error scanning faculty row: %w", err)
		}
		faculty = append(faculty, f)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating faculty rows")
		return nil, fmt.Errorf("error iterating faculty rows: %w", err)
	}
	return faculty, nil
}

func (r *FacultyRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Faculty, error) {
	sql, args, err := r.sb.Select(facultyColumns...).From("faculty").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get faculty query: %w", err)
	}

	f, err := scanFaculty(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFacultyNotFound
		}
		logger.Error().Err(err).Msg("Error scanning faculty row")
		return nil, fmt.Errorf("error getting faculty: %w", err)
	}
	return f, nil
}

// GetByID retrieves a faculty member by ID
func (r *FacultyRepository) GetByID(ctx context.Context, id int64) (*models.Faculty, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a faculty member by faculty code, ignoring case
func (r *FacultyRepository) GetByCode(ctx context.Context, code string) (*models.Faculty, error) {
	return r.getOne(ctx, squirrel.Expr("UPPER(faculty_code) = UPPER(?)", code))
}

// Create inserts a faculty member.
func (r *FacultyRepository) Create(ctx context.Context, f *models.Faculty) error {
	sql, args, err := r.sb.Insert("faculty").
		Columns("faculty_code", "name", "email", "branch", "designation", "is_active").
		Values(f.FacultyCode, f.Name, f.Email, f.Branch, f.Designation, true).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create faculty SQL")
		return fmt.Errorf("failed to build create faculty query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&f.ID, &f.IsActive, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if dup := duplicateError(err, "faculty with this email or faculty ID"); dup != err {
			return dup
		}
		logger.Error().Err(err).Msg("Error executing create faculty query")
		return fmt.Errorf("error creating faculty: %w", err)
	}
	return nil
}

// Update overwrites a faculty member's editable columns.
func (r *FacultyRepository) Update(ctx context.Context, f *models.Faculty) error {
	sql, args, err := r.sb.Update("faculty").
		SetMap(map[string]interface{}{
			"faculty_code": f.FacultyCode,
			"name":         f.Name,
			"email":        f.Email,
			"branch":       f.Branch,
			"designation":  f.Designation,
			"is_active":    f.IsActive,
			"updated_at":   squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": f.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update faculty query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrFacultyNotFound
		}
		if dup := duplicateError(err, "faculty with this email or faculty ID"); dup != err {
			return dup
		}
		logger.Error().Err(err).Int64("facultyID", f.ID).Msg("Error executing update faculty query")
		return fmt.Errorf("error updating faculty: %w", err)
	}
	return nil
}

// Upsert inserts or updates a faculty member by email.
func (r *FacultyRepository) Upsert(ctx context.Context, f *models.Faculty) (bool, error) {
	sql, args, err := r.sb.Insert("faculty").
		Columns("faculty_code", "name", "email", "branch", "designation", "is_active").
		Values(f.FacultyCode, f.Name, f.Email, f.Branch, f.Designation, true).
		Suffix(upsertSuffix("(email)", "faculty_code = EXCLUDED.faculty_code, name = EXCLUDED.name, "+
			"branch = EXCLUDED.branch, designation = EXCLUDED.designation, is_active = TRUE")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert faculty query: %w", err)
	}

	var created bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&f.ID, &created); err != nil {
		if dup := duplicateError(err, "faculty with this faculty ID"); dup != err {
			return false, dup
		}
		logger.Error().Err(err).Str("email", f.Email).Msg("Error executing upsert faculty query")
		return false, fmt.Errorf("error upserting faculty: %w", err)
	}
	return created, nil
}

// Deactivate soft-deletes a faculty member.
func (r *FacultyRepository) Deactivate(ctx context.Context, id int64) error {
	return setInactive(ctx, r.db, r.sb, "faculty", id, apperrors.ErrFacultyNotFound)
}

// CountActive returns active faculty, optionally of one branch.
func (r *FacultyRepository) CountActive(ctx context.Context, branch string) (int64, error) {
	where := squirrel.Eq{"is_active": true}
	if branch != "" {
		where["branch"] = branch
	}
	return countWhere(ctx, r.db, r.sb, "faculty", where)
}
