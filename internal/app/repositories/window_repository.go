package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/db"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

var windowColumns = []string{
	"id", "program", "branch", "year", "semester", "academic_year", "start_date", "end_date",
	"status", "published_by", "published_at", "closed_at", "created_at", "updated_at",
}

// WindowScope identifies the students a window applies to.
type WindowScope struct {
	Program  string
	Branch   string
	Year     int
	Semester int
}

func (s WindowScope) where() squirrel.Eq {
	return squirrel.Eq{"program": s.Program, "branch": s.Branch, "year": s.Year, "semester": s.Semester}
}

// WindowFilter narrows window listings. Zero values match everything.
type WindowFilter struct {
	Program      string
	Branch       string
	Year         int
	Semesters    []int
	AcademicYear string
	Status       models.WindowStatus
}

func (f WindowFilter) where() squirrel.And {
	and := squirrel.And{}
	if f.Program != "" {
		and = append(and, squirrel.Eq{"program": f.Program})
	}
	if f.Branch != "" {
		and = append(and, squirrel.Eq{"branch": f.Branch})
	}
	if f.Year > 0 {
		and = append(and, squirrel.Eq{"year": f.Year})
	}
	if len(f.Semesters) > 0 {
		and = append(and, squirrel.Eq{"semester": f.Semesters})
	}
	if f.AcademicYear != "" {
		and = append(and, squirrel.Eq{"academic_year": f.AcademicYear})
	}
	if f.Status != "" {
		and = append(and, squirrel.Eq{"status": f.Status})
	}
	return and
}

// WindowRepository handles feedback window database operations
type WindowRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewWindowRepository creates a new WindowRepository
func NewWindowRepository(db *pgxpool.Pool) *WindowRepository {
	return &WindowRepository{db: db, sb: newBuilder()}
}

func scanWindow(row rowScanner) (*models.FeedbackWindow, error) {
	w := &models.FeedbackWindow{}
	err := row.Scan(&w.ID, &w.Program, &w.Branch, &w.Year, &w.Semester, &w.AcademicYear,
		&w.StartDate, &w.EndDate, &w.Status, &w.PublishedBy, &w.PublishedAt, &w.ClosedAt,
		&w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// List returns windows matching filter, newest first.
func (r *WindowRepository) List(ctx context.Context, filter WindowFilter) ([]*models.FeedbackWindow, error) {
	sql, args, err := r.sb.Select(windowColumns...).From("feedback_windows").
		Where(filter.where()).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list windows query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list windows query")
		return nil, fmt.Errorf("error querying feedback windows: %w", err)
	}
	defer rows.Close()

	windows := []*models.FeedbackWindow{}
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning window row: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// GetByID retrieves a window by ID
func (r *WindowRepository) GetByID(ctx context.Context, id int64) (*models.FeedbackWindow, error) {
	sql, args, err := r.sb.Select(windowColumns...).From("feedback_windows").
		Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get window query: %w", err)
	}

	w, err := scanWindow(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWindowNotFound
		}
		logger.Error().Err(err).Int64("windowID", id).Msg("Error scanning window row")
		return nil, fmt.Errorf("error getting window by ID: %w", err)
	}
	return w, nil
}

// Latest returns the most recently started window matching filter.
func (r *WindowRepository) Latest(ctx context.Context, filter WindowFilter, excludeDrafts bool) (*models.FeedbackWindow, error) {
	q := r.sb.Select(windowColumns...).From("feedback_windows").Where(filter.where())
	if excludeDrafts {
		q = q.Where(squirrel.NotEq{"status": models.WindowDraft})
	}
	sql, args, err := q.OrderBy("start_date DESC", "id DESC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build latest window query: %w", err)
	}

	w, err := scanWindow(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWindowNotFound
		}
		return nil, fmt.Errorf("error getting latest window: %w", err)
	}
	return w, nil
}

// settleExpired closes OPEN windows of scope whose end date has passed, so
// they stop occupying the scope's live slot.
func settleExpired(ctx context.Context, tx pgx.Tx, scope WindowScope, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE feedback_windows
		SET status = 'CLOSED', closed_at = end_date, updated_at = NOW()
		WHERE program = $1 AND branch = $2 AND year = $3 AND semester = $4
		  AND status = 'OPEN' AND end_date < $5
	`, scope.Program, scope.Branch, scope.Year, scope.Semester, now)
	if err != nil {
		return fmt.Errorf("error settling expired windows: %w", err)
	}
	return nil
}

// liveWindow locks the scope's non-closed window, if any.
func (r *WindowRepository) liveWindow(ctx context.Context, tx pgx.Tx, scope WindowScope) (*models.FeedbackWindow, error) {
	sql, args, err := r.sb.Select(windowColumns...).From("feedback_windows").
		Where(scope.where()).
		Where(squirrel.NotEq{"status": models.WindowClosed}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build live window query: %w", err)
	}

	w, err := scanWindow(tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting live window: %w", err)
	}
	return w, nil
}

// Save stores w as the scope's live window. An existing draft or open window
// of the scope is reused, otherwise a new row is inserted. Expired open
// windows are settled first, so saving after a window has run out creates a
// new one. When w is a draft and the live window is already open,
// ErrConflict is returned. Reports whether an existing row was reused.
func (r *WindowRepository) Save(ctx context.Context, w *models.FeedbackWindow, now time.Time) (bool, error) {
	scope := WindowScope{Program: w.Program, Branch: w.Branch, Year: w.Year, Semester: w.Semester}
	reused := false

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := settleExpired(ctx, tx, scope, now); err != nil {
			return err
		}

		existing, err := r.liveWindow(ctx, tx, scope)
		if err != nil {
			return err
		}

		values := map[string]interface{}{
			"academic_year": w.AcademicYear,
			"start_date":    w.StartDate,
			"end_date":      w.EndDate,
			"status":        w.Status,
			"published_by":  w.PublishedBy,
			"published_at":  w.PublishedAt,
		}

		var sql string
		var args []interface{}
		if existing != nil {
			if w.Status == models.WindowDraft && existing.Status == models.WindowOpen {
				return apperrors.NewConflictError("a published feedback window already exists for this semester")
			}
			reused = true
			values["updated_at"] = squirrel.Expr("NOW()")
			sql, args, err = r.sb.Update("feedback_windows").SetMap(values).
				Where(squirrel.Eq{"id": existing.ID}).
				Suffix("RETURNING " + joinColumns(windowColumns)).
				ToSql()
		} else {
			values["program"] = w.Program
			values["branch"] = w.Branch
			values["year"] = w.Year
			values["semester"] = w.Semester
			sql, args, err = r.sb.Insert("feedback_windows").SetMap(values).
				Suffix("RETURNING " + joinColumns(windowColumns)).
				ToSql()
		}
		if err != nil {
			return fmt.Errorf("failed to build save window query: %w", err)
		}

		saved, err := scanWindow(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return duplicateError(err, "Feedback window")
		}
		*w = *saved
		return nil
	})
	if err != nil {
		return false, err
	}
	return reused, nil
}

// Close marks a window closed at now. The end date is pulled back to now
// when it lies in the future but never before the start date.
func (r *WindowRepository) Close(ctx context.Context, id int64, now time.Time) (*models.FeedbackWindow, error) {
	sql, args, err := r.sb.Update("feedback_windows").
		Set("status", models.WindowClosed).
		Set("closed_at", now).
		Set("end_date", squirrel.Expr("GREATEST(start_date, LEAST(end_date, ?))", now)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": models.WindowClosed}).
		Suffix("RETURNING " + joinColumns(windowColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build close window query: %w", err)
	}

	w, err := scanWindow(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("windowID", id).Msg("Error closing window")
		return nil, fmt.Errorf("error closing window: %w", err)
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, apperrors.ErrWindowAlreadyClosed
}

// CountLive counts windows accepting responses at now.
func (r *WindowRepository) CountLive(ctx context.Context, program, branch string, now time.Time) (int64, error) {
	where := squirrel.And{
		squirrel.Eq{"status": models.WindowOpen},
		squirrel.LtOrEq{"start_date": now},
		squirrel.GtOrEq{"end_date": now},
	}
	if program != "" {
		where = append(where, squirrel.Eq{"program": program})
	}
	if branch != "" {
		where = append(where, squirrel.Eq{"branch": branch})
	}
	return countWhere(ctx, r.db, r.sb, "feedback_windows", where)
}
