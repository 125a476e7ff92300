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

var subjectColumns = []string{
	"id", "subject_code", "name", "program", "branch", "regulation", "year", "semester", "type",
	"is_active", "created_at", "updated_at",
}

// SubjectRepository handles subject database operations
type SubjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db, sb: newBuilder()}
}

func scanSubject(row rowScanner) (*models.Subject, error) {
	s := &models.Subject{}
	err := row.Scan(&s.ID, &s.SubjectCode, &s.Name, &s.Program, &s.Branch, &s.Regulation, &s.Year, &s.Semester, &s.Type,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// List returns active subjects ordered by year, semester and code.
func (r *SubjectRepository) List(ctx context.Context, program, branch string, semester int) ([]*models.Subject, error) {
	q := r.sb.Select(subjectColumns...).From("subjects").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("year ASC", "semester ASC", "subject_code ASC")
	if program != "" {
		q = q.Where(squirrel.Eq{"program": program})
	}
	if branch != "" {
		q = q.Where(squirrel.Eq{"branch": branch})
	}
	if semester > 0 {
		q = q.Where(squirrel.Eq{"semester": semester})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list subjects query")
		return nil, fmt.Errorf("error querying subjects: %w", err)
	}
	defer rows.Close()

	subjects := []*models.Subject{}
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subject row: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Subject, error) {
	sql, args, err := r.sb.Select(subjectColumns...).From("subjects").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subject query: %w", err)
	}

	s, err := scanSubject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		logger.Error().Err(err).Msg("Error scanning subject row")
		return nil, fmt.Errorf("error getting subject: %w", err)
	}
	return s, nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByCode retrieves a subject by code, ignoring case
func (r *SubjectRepository) GetByCode(ctx context.Context, code string) (*models.Subject, error) {
	return r.getOne(ctx, squirrel.Expr("UPPER(subject_code) = UPPER(?)", code))
}

func subjectValues(s *models.Subject) map[string]interface{} {
	return map[string]interface{}{
		"subject_code": s.SubjectCode,
		"name":         s.Name,
		"program":      s.Program,
		"branch":       s.Branch,
		"regulation":   s.Regulation,
		"year":         s.Year,
		"semester":     s.Semester,
		"type":         s.Type,
	}
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, s *models.Subject) error {
	sql, args, err := r.sb.Insert("subjects").
		SetMap(subjectValues(s)).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create subject query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if dup := duplicateError(err, "subject with this code"); dup != err {
			return dup
		}
		logger.Error().Err(err).Str("subjectCode", s.SubjectCode).Msg("Error executing create subject query")
		return fmt.Errorf("error creating subject: %w", err)
	}
	return nil
}

// Update overwrites a subject's editable columns.
func (r *SubjectRepository) Update(ctx context.Context, s *models.Subject) error {
	values := subjectValues(s)
	values["is_active"] = s.IsActive
	values["updated_at"] = squirrel.Expr("NOW()")

	sql, args, err := r.sb.Update("subjects").
		SetMap(values).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update subject query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrSubjectNotFound
		}
		if dup := duplicateError(err, "subject with this code"); dup != err {
			return dup
		}
		logger.Error().Err(err).Int64("subjectID", s.ID).Msg("Error executing update subject query")
		return fmt.Errorf("error updating subject: %w", err)
	}
	return nil
}

// Upsert inserts or updates a subject by code.
func (r *SubjectRepository) Upsert(ctx context.Context, s *models.Subject) (bool, error) {
	sql, args, err := r.sb.Insert("subjects").
		Columns("subject_code", "name", "program", "branch", "regulation", "year", "semester", "type", "is_active").
		Values(s.SubjectCode, s.Name, s.Program, s.Branch, s.Regulation, s.Year, s.Semester, s.Type, true).
		Suffix(upsertSuffix("(subject_code)", "name = EXCLUDED.name, program = EXCLUDED.program, "+
			"branch = EXCLUDED.branch, regulation = EXCLUDED.regulation, year = EXCLUDED.year, "+
			"semester = EXCLUDED.semester, type = EXCLUDED.type, is_active = TRUE")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert subject query: %w", err)
	}

	var created bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &created); err != nil {
		logger.Error().Err(err).Str("subjectCode", s.SubjectCode).Msg("Error executing upsert subject query")
		return false, fmt.Errorf("error upserting subject: %w", err)
	}
	return created, nil
}

// Deactivate soft-deletes a subject.
func (r *SubjectRepository) Deactivate(ctx context.Context, id int64) error {
	return setInactive(ctx, r.db, r.sb, "subjects", id, apperrors.ErrSubjectNotFound)
}

// CountActive returns active subjects.
func (r *SubjectRepository) CountActive(ctx context.Context) (int64, error) {
	return countWhere(ctx, r.db, r.sb, "subjects", squirrel.Eq{"is_active": true})
}

// CountSemesters returns the number of distinct semesters with active
// subjects in a program and branch.
func (r *SubjectRepository) CountSemesters(ctx context.Context, program, branch string) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(DISTINCT semester)").From("subjects").
		Where(squirrel.Eq{"is_active": true, "program": program, "branch": branch}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count semesters query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Msg("Error executing count semesters query")
		return 0, fmt.Errorf("error counting semesters: %w", err)
	}
	return n, nil
}
