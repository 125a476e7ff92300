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

var programColumns = []string{"id", "name", "code", "duration", "is_active", "created_at", "updated_at"}

// ProgramRepository handles program database operations
type ProgramRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProgramRepository creates a new ProgramRepository
func NewProgramRepository(db *pgxpool.Pool) *ProgramRepository {
	return &ProgramRepository{db: db, sb: newBuilder()}
}

func scanProgram(row rowScanner) (*models.Program, error) {
	p := &models.Program{}
	err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Duration, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// List returns programs ordered by name.
func (r *ProgramRepository) List(ctx context.Context, activeOnly bool) ([]*models.Program, error) {
	q := r.sb.Select(programColumns...).From("programs").OrderBy("name ASC")
	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list programs SQL")
		return nil, fmt.Errorf("failed to build list programs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list programs query")
		return nil, fmt.Errorf("error querying programs: %w", err)
	}
	defer rows.Close()

	programs := []*models.Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning program row: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// GetByID retrieves a program by ID
func (r *ProgramRepository) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	sql, args, err := r.sb.Select(programColumns...).From("programs").
		Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get program query: %w", err)
	}

	p, err := scanProgram(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Int64("programID", id).Msg("Error scanning program row")
		return nil, fmt.Errorf("error getting program by ID: %w", err)
	}
	return p, nil
}

// DurationByNameOrCode looks a program up by name or code, ignoring case.
func (r *ProgramRepository) DurationByNameOrCode(ctx context.Context, nameOrCode string) (int, error) {
	sql, args, err := r.sb.Select("duration").From("programs").
		Where(squirrel.Or{
			squirrel.Expr("LOWER(name) = LOWER(?)", nameOrCode),
			squirrel.Expr("LOWER(code) = LOWER(?)", nameOrCode),
		}).
		OrderBy("is_active DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build program duration query: %w", err)
	}

	var duration int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&duration); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrProgramNotFound
		}
		logger.Error().Err(err).Str("program", nameOrCode).Msg("Error looking up program duration")
		return 0, fmt.Errorf("error looking up program duration: %w", err)
	}
	return duration, nil
}

// Create inserts a program and fills in its ID and timestamps.
func (r *ProgramRepository) Create(ctx context.Context, p *models.Program) error {
	sql, args, err := r.sb.Insert("programs").
		Columns("name", "code", "duration", "is_active").
		Values(p.Name, p.Code, p.Duration, true).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create program query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if dup := duplicateError(err, "program with this name or code"); dup != err {
			return dup
		}
		logger.Error().Err(err).Str("name", p.Name).Msg("Error executing create program query")
		return fmt.Errorf("error creating program: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of a program.
func (r *ProgramRepository) Update(ctx context.Context, p *models.Program) error {
	sql, args, err := r.sb.Update("programs").
		SetMap(map[string]interface{}{
			"name":       p.Name,
			"code":       p.Code,
			"duration":   p.Duration,
			"is_active":  p.IsActive,
			"updated_at": squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update program query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrProgramNotFound
		}
		if dup := duplicateError(err, "program with this name or code"); dup != err {
			return dup
		}
		logger.Error().Err(err).Int64("programID", p.ID).Msg("Error executing update program query")
		return fmt.Errorf("error updating program: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a program.
func (r *ProgramRepository) Deactivate(ctx context.Context, id int64) error {
	return setInactive(ctx, r.db, r.sb, "programs", id, apperrors.ErrProgramNotFound)
}

// Upsert inserts or updates a program by name. It reports whether a row was created.
func (r *ProgramRepository) Upsert(ctx context.Context, p *models.Program) (bool, error) {
	sql, args, err := r.sb.Insert("programs").
		Columns("name", "code", "duration", "is_active").
		Values(p.Name, p.Code, p.Duration, true).
		Suffix(upsertSuffix("(name)", "code = EXCLUDED.code, duration = EXCLUDED.duration, is_active = TRUE")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert program query: %w", err)
	}

	var created bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &created); err != nil {
		if dup := duplicateError(err, "program with this code"); dup != err {
			return false, dup
		}
		logger.Error().Err(err).Str("name", p.Name).Msg("Error executing upsert program query")
		return false, fmt.Errorf("error upserting program: %w", err)
	}
	return created, nil
}

// CountActive returns the number of active programs.
func (r *ProgramRepository) CountActive(ctx context.Context) (int64, error) {
	return countWhere(ctx, r.db, r.sb, "programs", squirrel.Eq{"is_active": true})
}

var branchColumns = []string{"id", "program", "name", "specialisation", "is_active", "created_at", "updated_at"}

// BranchRepository handles branch database operations
type BranchRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBranchRepository creates a new BranchRepository
func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{db: db, sb: newBuilder()}
}

func scanBranch(row rowScanner) (*models.Branch, error) {
	b := &models.Branch{}
	err := row.Scan(&b.ID, &b.Program, &b.Name, &b.Specialisation, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// List returns active branches, optionally of one program.
func (r *BranchRepository) List(ctx context.Context, program string) ([]*models.Branch, error) {
	q := r.sb.Select(branchColumns...).From("branches").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("program ASC", "name ASC", "specialisation ASC")
	if program != "" {
		q = q.Where(squirrel.Eq{"program": program})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list branches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list branches query")
		return nil, fmt.Errorf("error querying branches: %w", err)
	}
	defer rows.Close()

	branches := []*models.Branch{}
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning branch row: %w", err)
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// Upsert inserts a branch or reactivates an existing one.
func (r *BranchRepository) Upsert(ctx context.Context, b *models.Branch) (bool, error) {
	sql, args, err := r.sb.Insert("branches").
		Columns("program", "name", "specialisation", "is_active").
		Values(b.Program, b.Name, b.Specialisation, true).
		Suffix(upsertSuffix("(program, name, specialisation)", "is_active = TRUE")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert branch query: %w", err)
	}

	var created bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&b.ID, &created); err != nil {
		logger.Error().Err(err).Str("program", b.Program).Str("branch", b.Name).Msg("Error executing upsert branch query")
		return false, fmt.Errorf("error upserting branch: %w", err)
	}
	return created, nil
}

// Deactivate soft-deletes a branch.
func (r *BranchRepository) Deactivate(ctx context.Context, id int64) error {
	return setInactive(ctx, r.db, r.sb, "branches", id, apperrors.ErrBranchNotFound)
}

var batchColumns = []string{"id", "program", "branch", "admitted_year", "is_active", "created_at", "updated_at"}

// BatchRepository handles batch database operations
type BatchRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBatchRepository creates a new BatchRepository
func NewBatchRepository(db *pgxpool.Pool) *BatchRepository {
	return &BatchRepository{db: db, sb: newBuilder()}
}

func scanBatch(row rowScanner) (*models.Batch, error) {
	b := &models.Batch{}
	err := row.Scan(&b.ID, &b.Program, &b.Branch, &b.AdmittedYear, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// List returns active batches, newest first.
func (r *BatchRepository) List(ctx context.Context, program, branch string) ([]*models.Batch, error) {
	q := r.sb.Select(batchColumns...).From("batches").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("admitted_year DESC", "program ASC", "branch ASC")
	if program != "" {
		q = q.Where(squirrel.Eq{"program": program})
	}
	if branch != "" {
		q = q.Where(squirrel.Eq{"branch": branch})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list batches query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list batches query")
		return nil, fmt.Errorf("error querying batches: %w", err)
	}
	defer rows.Close()

	batches := []*models.Batch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning batch row: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// Create inserts a batch.
func (r *BatchRepository) Create(ctx context.Context, b *models.Batch) error {
	sql, args, err := r.sb.Insert("batches").
		Columns("program", "branch", "admitted_year", "is_active").
		Values(b.Program, b.Branch, b.AdmittedYear, true).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create batch query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&b.ID, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if dup := duplicateError(err, "batch"); dup != err {
			return dup
		}
		logger.Error().Err(err).Msg("Error executing create batch query")
		return fmt.Errorf("error creating batch: %w", err)
	}
	return nil
}

// Update overwrites the editable columns of a batch.
func (r *BatchRepository) Update(ctx context.Context, b *models.Batch) error {
	sql, args, err := r.sb.Update("batches").
		SetMap(map[string]interface{}{
			"program":       b.Program,
			"branch":        b.Branch,
			"admitted_year": b.AdmittedYear,
			"is_active":     b.IsActive,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": b.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update batch query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrBatchNotFound
		}
		if dup := duplicateError(err, "batch"); dup != err {
			return dup
		}
		logger.Error().Err(err).Int64("batchID", b.ID).Msg("Error executing update batch query")
		return fmt.Errorf("error updating batch: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a batch.
func (r *BatchRepository) Deactivate(ctx context.Context, id int64) error {
	return setInactive(ctx, r.db, r.sb, "batches", id, apperrors.ErrBatchNotFound)
}

// Upsert inserts a batch or reactivates it.
func (r *BatchRepository) Upsert(ctx context.Context, b *models.Batch) (bool, error) {
	sql, args, err := r.sb.Insert("batches").
		Columns("program", "branch", "admitted_year", "is_active").
		Values(b.Program, b.Branch, b.AdmittedYear, true).
		Suffix(upsertSuffix("ON CONSTRAINT batches_scope_key", "is_active = TRUE")).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upsert batch query: %w", err)
	}

	var created bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&b.ID, &created); err != nil {
		logger.Error().Err(err).Msg("Error executing upsert batch query")
		return false, fmt.Errorf("error upserting batch: %w", err)
	}
	return created, nil
}

// Count returns active batches, optionally restricted to one program and branch.
func (r *BatchRepository) Count(ctx context.Context, program, branch string) (int64, error) {
	where := squirrel.Eq{"is_active": true}
	if program != "" {
		where["program"] = program
	}
	if branch != "" {
		where["branch"] = branch
	}
	return countWhere(ctx, r.db, r.sb, "batches", where)
}

func setInactive(ctx context.Context, db *pgxpool.Pool, sb squirrel.StatementBuilderType, table string, id int64, notFound error) error {
	sql, args, err := sb.Update(table).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deactivate %s query: %w", table, err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Int64("id", id).Msg("Error executing deactivate query")
		return fmt.Errorf("error deactivating %s row: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func countWhere(ctx context.Context, db *pgxpool.Pool, sb squirrel.StatementBuilderType, table string, where squirrel.Sqlizer) (int64, error) {
	sql, args, err := sb.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count %s query: %w", table, err)
	}

	var n int64
	if err := db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		logger.Error().Err(err).Str("table", table).Msg("Error executing count query")
		return 0, fmt.Errorf("error counting %s: %w", table, err)
	}
	return n, nil
}
