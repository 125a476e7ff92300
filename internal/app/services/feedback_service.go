package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/repositories"
	"github.com/yigit/campusfeedback/internal/pkg/academic"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// FeedbackService is the student side of feedback collection.
type FeedbackService interface {
	Profile(ctx context.Context, studentID int64) (*dto.StudentProfile, error)
	ActiveWindow(ctx context.Context, studentID int64) (*models.WindowView, error)
	Subjects(ctx context.Context, studentID int64) ([]dto.StudentSubject, error)
	Questions(ctx context.Context) ([]*models.FeedbackQuestion, error)
	Submit(ctx context.Context, studentID int64, req *dto.SubmitFeedbackRequest) (*models.Feedback, error)
	Status(ctx context.Context, studentID, subjectMapID int64) (*dto.FeedbackStatusResponse, error)
}

// SubmissionCounter counts accepted feedback.
type SubmissionCounter interface {
	FeedbackSubmitted()
}

type feedbackServiceImpl struct {
	students  StudentStore
	maps      SubjectMapStore
	questions QuestionStore
	windows   WindowStore
	feedback  FeedbackStore
	durations *academic.DurationResolver
	counter   SubmissionCounter
	now       func() time.Time
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(
	students StudentStore,
	maps SubjectMapStore,
	questions QuestionStore,
	windows WindowStore,
	feedback FeedbackStore,
	durations *academic.DurationResolver,
	counter SubmissionCounter,
) FeedbackService {
	return &feedbackServiceImpl{
		students:  students,
		maps:      maps,
		questions: questions,
		windows:   windows,
		feedback:  feedback,
		durations: durations,
		counter:   counter,
		now:       time.Now,
	}
}

// student loads an active student with the derived standing.
func (s *feedbackServiceImpl) student(ctx context.Context, id int64) (*models.Student, error) {
	st, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return withStanding(ctx, s.durations, st, s.now()), nil
}

func (s *feedbackServiceImpl) Profile(ctx context.Context, studentID int64) (*dto.StudentProfile, error) {
	st, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &dto.StudentProfile{Student: st, CurrentYear: st.Standing.CurrentYear, Semester: st.Standing.Semester}, nil
}

// window returns the latest OPEN window of the student's program, branch
// and current year. Its dates may still put it before or after its period.
func (s *feedbackServiceImpl) window(ctx context.Context, st *models.Student) (*models.FeedbackWindow, error) {
	return s.windows.Latest(ctx, repositories.WindowFilter{
		Program:   st.Program,
		Branch:    st.Branch,
		Year:      st.Standing.CurrentYear,
		Semesters: st.Standing.ActiveSemesters(),
		Status:    models.WindowOpen,
	}, true)
}

func (s *feedbackServiceImpl) ActiveWindow(ctx context.Context, studentID int64) (*models.WindowView, error) {
	st, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	w, err := s.window(ctx, st)
	if err != nil {
		return nil, err
	}
	view := w.View(s.now())
	return &view, nil
}

// Subjects lists the mappings of the semester the student is giving
// feedback for: the published window's semester, or the derived one when
// there is no window.
func (s *feedbackServiceImpl) Subjects(ctx context.Context, studentID int64) ([]dto.StudentSubject, error) {
	st, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}

	semester := st.Standing.Semester
	submitted := map[int64]bool{}
	w, err := s.window(ctx, st)
	switch {
	case err == nil:
		semester = w.Semester
		submitted, err = s.feedback.SubmittedMapIDs(ctx, st.ID, w.ID)
		if err != nil {
			return nil, err
		}
	case !errors.Is(err, apperrors.ErrWindowNotFound):
		return nil, err
	}

	maps, err := s.maps.List(ctx, repositories.SubjectMapFilter{
		Program:      st.Program,
		Branch:       st.Branch,
		AdmittedYear: st.AdmittedYear,
		Semester:     semester,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing student subjects: %w", err)
	}

	subjects := make([]dto.StudentSubject, 0, len(maps))
	for _, m := range maps {
		subjects = append(subjects, dto.StudentSubject{SubjectMap: *m, FeedbackSubmitted: submitted[m.ID]})
	}
	return subjects, nil
}

func (s *feedbackServiceImpl) Questions(ctx context.Context) ([]*models.FeedbackQuestion, error) {
	return s.questions.ListActive(ctx)
}

// Submit records one response set. The window must be accepting responses,
// the mapping must belong to the student's batch and the window's semester,
// and every active question must be rated exactly once.
func (s *feedbackServiceImpl) Submit(ctx context.Context, studentID int64, req *dto.SubmitFeedbackRequest) (*models.Feedback, error) {
	st, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}

	w, err := s.window(ctx, st)
	if err != nil {
		if errors.Is(err, apperrors.ErrWindowNotFound) {
			return nil, apperrors.ErrWindowNotOpen
		}
		return nil, err
	}
	if !w.State(s.now()).AcceptingResponses() {
		return nil, apperrors.ErrWindowNotOpen
	}

	m, err := s.maps.GetByID(ctx, req.SubjectMapID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive ||
		!strings.EqualFold(m.Program, st.Program) ||
		!strings.EqualFold(m.Branch, st.Branch) ||
		m.AdmittedYear != st.AdmittedYear ||
		m.Semester != w.Semester {
		return nil, apperrors.ErrSubjectNotInScope
	}

	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := matchResponses(questions, req.Responses)
	if err != nil {
		return nil, err
	}

	f := &models.Feedback{
		StudentID:    st.ID,
		SubjectMapID: m.ID,
		WindowID:     w.ID,
		Comments:     strings.TrimSpace(req.Comments),
		Responses:    responses,
	}
	if err := s.feedback.Create(ctx, f); err != nil {
		return nil, err
	}
	if s.counter != nil {
		s.counter.FeedbackSubmitted()
	}
	logger.Info().Int64("studentID", st.ID).Int64("subjectMapID", m.ID).Int64("windowID", w.ID).
		Msg("Feedback submitted")
	return f, nil
}

// matchResponses pairs ratings with the active questions, copying each
// question's criteria into the stored response.
func matchResponses(questions []*models.FeedbackQuestion, ratings []dto.RatingRequest) ([]models.FeedbackResponse, error) {
	byID := make(map[int64]*models.FeedbackQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	seen := make(map[int64]bool, len(ratings))
	responses := make([]models.FeedbackResponse, 0, len(ratings))
	for _, r := range ratings {
		q, ok := byID[r.QuestionID]
		if !ok {
			return nil, validationErrorf("question %d is not an active feedback question", r.QuestionID)
		}
		if seen[r.QuestionID] {
			return nil, validationErrorf("question %d is rated more than once", r.QuestionID)
		}
		if r.Rating < 1 || r.Rating > 5 {
			return nil, apperrors.ErrRatingOutOfRange
		}
		seen[r.QuestionID] = true
		responses = append(responses, models.FeedbackResponse{QuestionID: q.ID, Criteria: q.Criteria, Rating: r.Rating})
	}
	if len(responses) != len(questions) {
		return nil, apperrors.ErrIncompleteResponseSet
	}
	return responses, nil
}

func (s *feedbackServiceImpl) Status(ctx context.Context, studentID, subjectMapID int64) (*dto.FeedbackStatusResponse, error) {
	st, err := s.student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	resp := &dto.FeedbackStatusResponse{SubjectMapID: subjectMapID}

	w, err := s.window(ctx, st)
	if err != nil {
		if errors.Is(err, apperrors.ErrWindowNotFound) {
			return resp, nil
		}
		return nil, err
	}
	resp.WindowID = w.ID

	submitted, err := s.feedback.Exists(ctx, st.ID, subjectMapID, w.ID)
	if err != nil {
		return nil, err
	}
	resp.Submitted = submitted
	return resp, nil
}
