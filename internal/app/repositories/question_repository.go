package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/db"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

var questionColumns = []string{"id", "serial_no", "criteria", "is_active", "created_at", "updated_at"}

// QuestionRepository handles feedback question database operations
type QuestionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db, sb: newBuilder()}
}

func scanQuestion(row rowScanner) (*models.FeedbackQuestion, error) {
	q := &models.FeedbackQuestion{}
	err := row.Scan(&q.ID, &q.SerialNo, &q.Criteria, &q.IsActive, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}

// ListActive returns the active questions in serial order.
func (r *QuestionRepository) ListActive(ctx context.Context) ([]*models.FeedbackQuestion, error) {
	sql, args, err := r.sb.Select(questionColumns...).From("feedback_questions").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("serial_no ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list questions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list questions query")
		return nil, fmt.Errorf("error querying feedback questions: %w", err)
	}
	defer rows.Close()

	questions := []*models.FeedbackQuestion{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning question row: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ReplaceAll makes questions the active set. Questions carrying an ID are
// updated in place, new ones are inserted and every other active question is
// deactivated, so IDs referenced by past feedback stay valid.
func (r *QuestionRepository) ReplaceAll(ctx context.Context, questions []*models.FeedbackQuestion) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		keep := make([]int64, 0, len(questions))
		for _, q := range questions {
			if q.ID == 0 {
				continue
			}
			tag, err := tx.Exec(ctx,
				`UPDATE feedback_questions SET serial_no = $1, criteria = $2, is_active = TRUE, updated_at = NOW() WHERE id = $3`,
				q.SerialNo, q.Criteria, q.ID)
			if err != nil {
				return fmt.Errorf("error updating question %d: %w", q.ID, err)
			}
			if tag.RowsAffected() == 0 {
				return apperrors.NewCustomError(apperrors.ErrQuestionNotFound,
					fmt.Sprintf("feedback question %d not found", q.ID))
			}
			keep = append(keep, q.ID)
		}

		sql, args, err := r.sb.Update("feedback_questions").
			Set("is_active", false).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"is_active": true}).
			Where(squirrel.NotEq{"id": keep}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build deactivate questions query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error deactivating questions: %w", err)
		}

		for _, q := range questions {
			if q.ID != 0 {
				continue
			}
			err := tx.QueryRow(ctx,
				`INSERT INTO feedback_questions (serial_no, criteria) VALUES ($1, $2) RETURNING id`,
				q.SerialNo, q.Criteria).Scan(&q.ID)
			if err != nil {
				return fmt.Errorf("error inserting question: %w", err)
			}
			q.IsActive = true
		}
		return nil
	})
}

// Count returns the number of questions, active or not.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM feedback_questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting questions: %w", err)
	}
	return n, nil
}
