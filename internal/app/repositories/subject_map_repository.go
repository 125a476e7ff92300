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
	"github.com/yigit/campusfeedback/internal/pkg/dberrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// SubjectMapFilter narrows subject mapping queries. Zero values are ignored.
type SubjectMapFilter struct {
	Program      string
	Branch       string
	AdmittedYear int
	Year         int
	Semester     int
}

// SubjectMapRepository handles subject-to-faculty mappings
type SubjectMapRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubjectMapRepository creates a new SubjectMapRepository
func NewSubjectMapRepository(db *pgxpool.Pool) *SubjectMapRepository {
	return &SubjectMapRepository{db: db, sb: newBuilder()}
}

// populated selects a mapping together with its subject and faculty.
func (r *SubjectMapRepository) populated() squirrel.SelectBuilder {
	return r.sb.Select(
		"m.id", "m.program", "m.branch", "m.admitted_year", "m.year", "m.semester",
		"m.subject_id", "m.faculty_id", "m.is_active", "m.created_at", "m.updated_at",
		"s.id", "s.subject_code", "s.name", "s.program", "s.branch", "s.regulation", "s.year", "s.semester", "s.type",
		"s.is_active", "s.created_at", "s.updated_at",
		"f.id", "f.faculty_code", "f.name", "f.email", "f.branch", "f.designation", "f.is_active", "f.created_at", "f.updated_at",
	).
		From("subject_maps m").
		Join("subjects s ON s.id = m.subject_id").
		Join("faculty f ON f.id = m.faculty_id")
}

func scanPopulatedMap(row rowScanner) (*models.SubjectMap, error) {
	m := &models.SubjectMap{Subject: &models.Subject{}, Faculty: &models.Faculty{}}
	s, f := m.Subject, m.Faculty
	err := row.Scan(
		&m.ID, &m.Program, &m.Branch, &m.AdmittedYear, &m.Year, &m.Semester,
		&m.SubjectID, &m.FacultyID, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		&s.ID, &s.SubjectCode, &s.Name, &s.Program, &s.Branch, &s.Regulation, &s.Year, &s.Semester, &s.Type,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		&f.ID, &f.FacultyCode, &f.Name, &f.Email, &f.Branch, &f.Designation, &f.IsActive, &f.CreatedAt, &f.UpdatedAt,
	)
	return m, err
}

func (f SubjectMapFilter) where() squirrel.Eq {
	where := squirrel.Eq{"m.is_active": true}
	if f.Program != "" {
		where["m.program"] = f.Program
	}
	if f.Branch != "" {
		where["m.branch"] = f.Branch
	}
	if f.AdmittedYear > 0 {
		where["m.admitted_year"] = f.AdmittedYear
	}
	if f.Year > 0 {
		where["m.year"] = f.Year
	}
	if f.Semester > 0 {
		where["m.semester"] = f.Semester
	}
	return where
}

// List returns active mappings with subject and faculty populated.
func (r *SubjectMapRepository) List(ctx context.Context, filter SubjectMapFilter) ([]*models.SubjectMap, error) {
	sql, args, err := r.populated().
		Where(filter.where()).
		OrderBy("m.admitted_year DESC", "m.semester ASC", "s.subject_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subject maps query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list subject maps query")
		return nil, fmt.Errorf("error querying subject maps: %w", err)
	}
	defer rows.Close()

	maps := []*models.SubjectMap{}
	for rows.Next() {
		m, err := scanPopulatedMap(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subject map row: %w", err)
		}
		maps = append(maps, m)
	}
	return maps, rows.Err()
}

// GetByID retrieves a mapping with subject and faculty populated.
func (r *SubjectMapRepository) GetByID(ctx context.Context, id int64) (*models.SubjectMap, error) {
	sql, args, err := r.populated().Where(squirrel.Eq{"m.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subject map query: %w", err)
	}

	m, err := scanPopulatedMap(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectMapNotFound
		}
		logger.Error().Err(err).Int64("subjectMapID", id).Msg("Error scanning subject map row")
		return nil, fmt.Errorf("error getting subject map: %w", err)
	}
	return m, nil
}

// Upsert creates the mapping for its (program, branch, admitted year,
// semester, subject) tuple, or rebinds the faculty of the existing one.
func (r *SubjectMapRepository) Upsert(ctx context.Context, m *models.SubjectMap) (bool, error) {
	sql, args, err := r.sb.Insert("subject_maps").
		Columns("program", "branch", "admitted_year", "year", "semester", "subject_id", "faculty_id", "is_active").
		Values(m.Program, m.Branch, m.AdmittedYear, m.Year, m.Semester, m.SubjectID, m.FacultyID, true).
		Suffix(upsertSuffix("ON CONSTRAINT subject_maps_scope_key",
			"faculty_id = EXCLUDED.faculty_id, year = EXCLUDED.year, is_active = TRUE")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert subject map query: %w", err)
	}

	var created bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&m.ID, &created); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return false, apperrors.NewValidationError("subject or faculty does not exist")
		}
		logger.Error().Err(err).Msg("Error executing upsert subject map query")
		return false, fmt.Errorf("error upserting subject map: %w", err)
	}
	return created, nil
}

// Update overwrites a mapping by ID.
func (r *SubjectMapRepository) Update(ctx context.Context, m *models.SubjectMap) error {
	sql, args, err := r.sb.Update("subject_maps").
		SetMap(map[string]interface{}{
			"program":       m.Program,
			"branch":        m.Branch,
			"admitted_year": m.AdmittedYear,
			"year":          m.Year,
			"semester":      m.Semester,
			"subject_id":    m.SubjectID,
			"faculty_id":    m.FacultyID,
			"is_active":     m.IsActive,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update subject map query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewValidationError("subject or faculty does not exist")
		}
		if dup := duplicateError(err, "mapping for this subject and semester"); dup != err {
			return dup
		}
		logger.Error().Err(err).Int64("subjectMapID", m.ID).Msg("Error executing update subject map query")
		return fmt.Errorf("error updating subject map: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubjectMapNotFound
	}
	return nil
}

// Deactivate soft-deletes a mapping.
func (r *SubjectMapRepository) Deactivate(ctx context.Context, id int64) error {
	return setInactive(ctx, r.db, r.sb, "subject_maps", id, apperrors.ErrSubjectMapNotFound)
}
