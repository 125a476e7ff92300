package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// QuestionService manages the rating criteria shown to students.
type QuestionService interface {
	ListQuestions(ctx context.Context) ([]*models.FeedbackQuestion, error)
	ReplaceQuestions(ctx context.Context, req *dto.ReplaceQuestionsRequest) ([]*models.FeedbackQuestion, error)
}

type questionServiceImpl struct {
	questions QuestionStore
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(questions QuestionStore) QuestionService {
	return &questionServiceImpl{questions: questions}
}

func (s *questionServiceImpl) ListQuestions(ctx context.Context) ([]*models.FeedbackQuestion, error) {
	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback questions: %w", err)
	}
	return questions, nil
}

// ReplaceQuestions makes the request the active question set. Serial numbers
// default to the position in the request.
func (s *questionServiceImpl) ReplaceQuestions(ctx context.Context, req *dto.ReplaceQuestionsRequest) ([]*models.FeedbackQuestion, error) {
	seen := make(map[int64]bool, len(req.Questions))
	questions := make([]*models.FeedbackQuestion, 0, len(req.Questions))
	for i, q := range req.Questions {
		criteria := strings.TrimSpace(q.Criteria)
		if criteria == "" {
			return nil, validationErrorf("question %d has no criteria", i+1)
		}
		if q.ID != 0 {
			if seen[q.ID] {
				return nil, validationErrorf("question %d is listed twice", q.ID)
			}
			seen[q.ID] = true
		}
		serial := q.SerialNo
		if serial <= 0 {
			serial = i + 1
		}
		questions = append(questions, &models.FeedbackQuestion{ID: q.ID, SerialNo: serial, Criteria: criteria, IsActive: true})
	}

	if err := s.questions.ReplaceAll(ctx, questions); err != nil {
		return nil, err
	}
	logger.Info().Int("count", len(questions)).Msg("Feedback questions replaced")
	return questions, nil
}
