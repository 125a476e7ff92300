package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/db"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/dberrors"
	"github.com/yigit/campusfeedback/internal/pkg/feedbackstats"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// FeedbackRepository handles feedback database operations
type FeedbackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db, sb: newBuilder()}
}

// Create stores a feedback row and its responses in one transaction. A
// second submission for the same student, mapping and window fails with
// ErrFeedbackAlreadyExists.
func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO feedbacks (student_id, subject_map_id, feedback_window_id, comments)
			VALUES ($1, $2, $3, $4)
			RETURNING id, submitted_at
		`, f.StudentID, f.SubjectMapID, f.WindowID, f.Comments).Scan(&f.ID, &f.SubmittedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "feedbacks_once_per_window_key") {
				return apperrors.ErrFeedbackAlreadyExists
			}
			logger.Error().Err(err).Int64("studentID", f.StudentID).Int64("subjectMapID", f.SubjectMapID).
				Msg("Error inserting feedback")
			return fmt.Errorf("error creating feedback: %w", err)
		}

		ins := r.sb.Insert("feedback_responses").Columns("feedback_id", "question_id", "criteria", "rating")
		for _, resp := range f.Responses {
			ins = ins.Values(f.ID, resp.QuestionID, resp.Criteria, resp.Rating)
		}
		sql, args, err := ins.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert responses query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error inserting feedback responses: %w", err)
		}
		return nil
	})
}

// Exists reports whether the student already answered the mapping in window.
func (r *FeedbackRepository) Exists(ctx context.Context, studentID, subjectMapID, windowID int64) (bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		SELECT id FROM feedbacks
		WHERE student_id = $1 AND subject_map_id = $2 AND feedback_window_id = $3
	`, studentID, subjectMapID, windowID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking feedback: %w", err)
	}
	return true, nil
}

// SubmittedMapIDs returns the mappings the student answered in window.
func (r *FeedbackRepository) SubmittedMapIDs(ctx context.Context, studentID, windowID int64) (map[int64]bool, error) {
	rows, err := r.db.Query(ctx, `
		SELECT subject_map_id FROM feedbacks
		WHERE student_id = $1 AND feedback_window_id = $2
	`, studentID, windowID)
	if err != nil {
		return nil, fmt.Errorf("error querying submitted mappings: %w", err)
	}
	defer rows.Close()

	ids := map[int64]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning submitted mapping: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// Submissions loads every response set for one mapping in one window,
// grouped by feedback row.
func (r *FeedbackRepository) Submissions(ctx context.Context, subjectMapID, windowID int64) ([]feedbackstats.Submission, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.id, fr.question_id, fr.criteria, fr.rating
		FROM feedbacks f
		JOIN feedback_responses fr ON fr.feedback_id = f.id
		WHERE f.subject_map_id = $1 AND f.feedback_window_id = $2
		ORDER BY f.id, fr.id
	`, subjectMapID, windowID)
	if err != nil {
		logger.Error().Err(err).Int64("subjectMapID", subjectMapID).Msg("Error querying feedback responses")
		return nil, fmt.Errorf("error querying feedback responses: %w", err)
	}
	defer rows.Close()

	subs := []feedbackstats.Submission{}
	var current int64
	for rows.Next() {
		var feedbackID int64
		var resp feedbackstats.Response
		if err := rows.Scan(&feedbackID, &resp.QuestionID, &resp.Criteria, &resp.Rating); err != nil {
			return nil, fmt.Errorf("error scanning feedback response: %w", err)
		}
		if len(subs) == 0 || feedbackID != current {
			subs = append(subs, feedbackstats.Submission{})
			current = feedbackID
		}
		last := &subs[len(subs)-1]
		last.Responses = append(last.Responses, resp)
	}
	return subs, rows.Err()
}

// Count returns the number of feedback rows.
func (r *FeedbackRepository) Count(ctx context.Context) (int64, error) {
	return countWhere(ctx, r.db, r.sb, "feedbacks", squirrel.Expr("TRUE"))
}
