package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// InstitutionCounts are the active-record totals shown to admins and principals.
type InstitutionCounts struct {
	Programs  int64
	Batches   int64
	Students  int64
	Faculty   int64
	Subjects  int64
	HODs      int64
	Windows   int64
	Feedbacks int64
}

// DepartmentCounts are per program/branch totals.
type DepartmentCounts struct {
	Program   string
	Branch    string
	Students  int64
	Subjects  int64
	Feedbacks int64
}

// StatsRepository runs the read-only aggregate queries behind dashboards.
type StatsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Institution counts every active entity in one round trip.
func (r *StatsRepository) Institution(ctx context.Context) (*InstitutionCounts, error) {
	c := &InstitutionCounts{}
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM programs WHERE is_active),
			(SELECT COUNT(*) FROM batches WHERE is_active),
			(SELECT COUNT(*) FROM students WHERE is_active),
			(SELECT COUNT(*) FROM faculty WHERE is_active),
			(SELECT COUNT(*) FROM subjects WHERE is_active),
			(SELECT COUNT(*) FROM staff_accounts WHERE is_active AND role = 'HOD'),
			(SELECT COUNT(*) FROM feedback_windows),
			(SELECT COUNT(*) FROM feedbacks)
	`).Scan(&c.Programs, &c.Batches, &c.Students, &c.Faculty, &c.Subjects, &c.HODs, &c.Windows, &c.Feedbacks)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing institution stats query")
		return nil, fmt.Errorf("error counting institution stats: %w", err)
	}
	return c, nil
}

// Departments returns one row per active branch with its student, subject
// and feedback totals.
func (r *StatsRepository) Departments(ctx context.Context) ([]DepartmentCounts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.program, b.name,
			(SELECT COUNT(*) FROM students s
				WHERE s.is_active AND s.program = b.program AND s.branch = b.name),
			(SELECT COUNT(*) FROM subjects sub
				WHERE sub.is_active AND sub.program = b.program AND sub.branch = b.name),
			(SELECT COUNT(*) FROM feedbacks f
				JOIN subject_maps m ON m.id = f.subject_map_id
				WHERE m.program = b.program AND m.branch = b.name)
		FROM (SELECT DISTINCT program, name FROM branches WHERE is_active) b
		ORDER BY b.program, b.name
	`)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing department stats query")
		return nil, fmt.Errorf("error querying department stats: %w", err)
	}
	defer rows.Close()

	stats := []DepartmentCounts{}
	for rows.Next() {
		var d DepartmentCounts
		if err := rows.Scan(&d.Program, &d.Branch, &d.Students, &d.Subjects, &d.Feedbacks); err != nil {
			return nil, fmt.Errorf("error scanning department stats: %w", err)
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}
