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

var studentColumns = []string{
	"id", "roll_no", "name", "email", "dob", "program", "branch", "specialisation",
	"admitted_year", "regulation", "password_hash", "is_active", "created_at", "updated_at",
}

// StudentListParams filters and pages a student listing.
type StudentListParams struct {
	Program      string
	Branch       string
	AdmittedYear int
	Search       string
	ActiveOnly   bool
	Offset       uint64
	Limit        int
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db, sb: newBuilder()}
}

func scanStudent(row rowScanner) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.RollNo, &s.Name, &s.Email, &s.DOB, &s.Program, &s.Branch, &s.Specialisation,
		&s.AdmittedYear, &s.Regulation, &s.PasswordHash, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (p StudentListParams) where() squirrel.And {
	where := squirrel.And{}
	if p.ActiveOnly {
		where = append(where, squirrel.Eq{"is_active": true})
	}
	if p.Program != "" {
		where = append(where, squirrel.Eq{"program": p.Program})
	}
	if p.Branch != "" {
		where = append(where, squirrel.Eq{"branch": p.Branch})
	}
	if p.AdmittedYear > 0 {
		where = append(where, squirrel.Eq{"admitted_year": p.AdmittedYear})
	}
	if strings.TrimSpace(p.Search) != "" {
		pattern := ilike(p.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"roll_no": pattern},
			squirrel.ILike{"name": pattern},
		})
	}
	return where
}

// List returns one page of students and the total matching count.
func (r *StudentRepository) List(ctx context.Context, params StudentListParams) ([]*models.Student, int64, error) {
	where := params.where()

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("students").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	q := r.sb.Select(studentColumns...).From("students").Where(where).OrderBy("roll_no ASC")
	if params.Limit > 0 {
		q = q.Limit(uint64(params.Limit)).Offset(params.Offset)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, 0, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return s, nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByRollNo retrieves a student by roll number (stored upper-case)
func (r *StudentRepository) GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"roll_no": strings.ToUpper(strings.TrimSpace(rollNo))})
}

func studentValues(s *models.Student) map[string]interface{} {
	return map[string]interface{}{
		"roll_no":        s.RollNo,
		"name":           s.Name,
		"email":          s.Email,
		"dob":            s.DOB,
		"program":        s.Program,
		"branch":         s.Branch,
		"specialisation": s.Specialisation,
		"admitted_year":  s.AdmittedYear,
		"regulation":     s.Regulation,
	}
}

// Create inserts a student.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		SetMap(studentValues(s)).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if dup := duplicateError(err, "student with this roll number"); dup != err {
			return dup
		}
		logger.Error().Err(err).Str("rollNo", s.RollNo).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// Update overwrites a student's record (not the password).
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	values := studentValues(s)
	values["is_active"] = s.IsActive
	values["updated_at"] = squirrel.Expr("NOW()")

	sql, args, err := r.sb.Update("students").
		SetMap(values).
		Where(squirrel.Eq{"id": s.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStudentNotFound
		}
		if dup := duplicateError(err, "student with this roll number"); dup != err {
			return dup
		}
		logger.Error().Err(err).Int64("studentID", s.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	return nil
}

// Upsert inserts or updates a student by roll number and reactivates it.
func (r *StudentRepository) Upsert(ctx context.Context, s *models.Student) (bool, error) {
	v := studentValues(s)
	sql, args, err := r.sb.Insert("students").
		Columns("roll_no", "name", "email", "dob", "program", "branch", "specialisation", "admitted_year", "regulation", "is_active").
		Values(v["roll_no"], v["name"], v["email"], v["dob"], v["program"], v["branch"], v["specialisation"], v["admitted_year"], v["regulation"], true).
		Suffix(upsertSuffix("(roll_no)", "name = EXCLUDED.name, email = EXCLUDED.email, dob = EXCLUDED.dob, "+
			"program = EXCLUDED.program, branch = EXCLUDED.branch, specialisation = EXCLUDED.specialisation, "+
			"admitted_year = EXCLUDED.admitted_year, regulation = EXCLUDED.regulation, is_active = TRUE")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert student query: %w", err)
	}

	var created bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &created); err != nil {
		logger.Error().Err(err).Str("rollNo", s.RollNo).Msg("Error executing upsert student query")
		return false, fmt.Errorf("error upserting student: %w", err)
	}
	return created, nil
}

// Deactivate soft-deletes a student.
func (r *StudentRepository) Deactivate(ctx context.Context, id int64) error {
	return setInactive(ctx, r.db, r.sb, "students", id, apperrors.ErrStudentNotFound)
}

// SetPassword stores a bcrypt hash for the student.
func (r *StudentRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	sql, args, err := r.sb.Update("students").
		Set("password_hash", hash).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set student password query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing set student password query")
		return fmt.Errorf("error setting student password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// CountActive returns active students, optionally restricted to a program and branch.
func (r *StudentRepository) CountActive(ctx context.Context, program, branch string) (int64, error) {
	where := squirrel.Eq{"is_active": true}
	if program != "" {
		where["program"] = program
	}
	if branch != "" {
		where["branch"] = branch
	}
	return countWhere(ctx, r.db, r.sb, "students", where)
}
