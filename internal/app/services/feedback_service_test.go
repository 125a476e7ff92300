package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

var feedbackNow = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

type feedbackFixture struct {
	svc      *feedbackServiceImpl
	student  *models.Student
	window   *models.FeedbackWindow
	windows  *fakeWindows
	feedback *fakeFeedback
	counter  *countingSubmissions
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()

	student := &models.Student{RollNo: "21A91A0501", Program: "BTECH", Branch: "CSE", AdmittedYear: 2023, IsActive: true}
	students := newFakeStudents(student)

	windows := &fakeWindows{}
	window := windows.add(&models.FeedbackWindow{
		Program: "BTECH", Branch: "CSE", Year: 2, Semester: 3, AcademicYear: "2024-25",
		StartDate: feedbackNow.Add(-96 * time.Hour), EndDate: feedbackNow.Add(120 * time.Hour),
		Status: models.WindowOpen,
	})

	maps := &fakeMaps{rows: []*models.SubjectMap{
		{ID: 1, Program: "BTECH", Branch: "CSE", AdmittedYear: 2023, Year: 2, Semester: 3, SubjectID: 10, FacultyID: 100, IsActive: true},
		{ID: 2, Program: "BTECH", Branch: "CSE", AdmittedYear: 2023, Year: 2, Semester: 4, SubjectID: 11, FacultyID: 101, IsActive: true},
		{ID: 3, Program: "BTECH", Branch: "ECE", AdmittedYear: 2023, Year: 2, Semester: 3, SubjectID: 12, FacultyID: 102, IsActive: true},
		{ID: 4, Program: "BTECH", Branch: "CSE", AdmittedYear: 2023, Year: 2, Semester: 3, SubjectID: 13, FacultyID: 103, IsActive: true},
	}}
	questions := &fakeQuestions{rows: []*models.FeedbackQuestion{
		{ID: 1, SerialNo: 1, Criteria: "Clarity of explanation", IsActive: true},
		{ID: 2, SerialNo: 2, Criteria: "Punctuality", IsActive: true},
		{ID: 3, SerialNo: 3, Criteria: "Retired question", IsActive: false},
	}}
	feedback := &fakeFeedback{}
	counter := &countingSubmissions{}

	svc := NewFeedbackService(students, maps, questions, windows, feedback, testDurations(), counter).(*feedbackServiceImpl)
	svc.now = fixedClock(feedbackNow)

	return &feedbackFixture{svc: svc, student: student, window: window, windows: windows, feedback: feedback, counter: counter}
}

func fullRatings(mapID int64) *dto.SubmitFeedbackRequest {
	return &dto.SubmitFeedbackRequest{
		SubjectMapID: mapID,
		Responses:    []dto.RatingRequest{{QuestionID: 1, Rating: 5}, {QuestionID: 2, Rating: 4}},
		Comments:     "  Good pace  ",
	}
}

func TestFeedbackService_Profile(t *testing.T) {
	fx := newFeedbackFixture(t)

	profile, err := fx.svc.Profile(context.Background(), fx.student.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, profile.CurrentYear)
	assert.Equal(t, 3, profile.Semester)
}

func TestFeedbackService_SubmitAccepted(t *testing.T) {
	fx := newFeedbackFixture(t)

	f, err := fx.svc.Submit(context.Background(), fx.student.ID, fullRatings(1))
	require.NoError(t, err)

	assert.Equal(t, fx.window.ID, f.WindowID)
	assert.Equal(t, "Good pace", f.Comments)
	require.Len(t, f.Responses, 2)
	assert.Equal(t, "Clarity of explanation", f.Responses[0].Criteria)
	assert.Equal(t, 1, fx.counter.n)
}

func TestFeedbackService_SubmitTwiceConflicts(t *testing.T) {
	fx := newFeedbackFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, fx.student.ID, fullRatings(1))
	require.NoError(t, err)

	_, err = fx.svc.Submit(ctx, fx.student.ID, fullRatings(1))
	assert.ErrorIs(t, err, apperrors.ErrFeedbackAlreadyExists)
	assert.Len(t, fx.feedback.rows, 1)
}

func TestFeedbackService_SubmitRejected(t *testing.T) {
	tests := []struct {
		name    string
		req     *dto.SubmitFeedbackRequest
		wantErr error
	}{
		{
			name:    "mapping of another semester",
			req:     fullRatings(2),
			wantErr: apperrors.ErrSubjectNotInScope,
		},
		{
			name:    "mapping of another branch",
			req:     fullRatings(3),
			wantErr: apperrors.ErrSubjectNotInScope,
		},
		{
			name:    "unknown mapping",
			req:     fullRatings(99),
			wantErr: apperrors.ErrSubjectMapNotFound,
		},
		{
			name: "missing a question",
			req: &dto.SubmitFeedbackRequest{
				SubjectMapID: 1,
				Responses:    []dto.RatingRequest{{QuestionID: 1, Rating: 5}},
			},
			wantErr: apperrors.ErrIncompleteResponseSet,
		},
		{
			name: "rating above the scale",
			req: &dto.SubmitFeedbackRequest{
				SubjectMapID: 1,
				Responses:    []dto.RatingRequest{{QuestionID: 1, Rating: 6}, {QuestionID: 2, Rating: 4}},
			},
			wantErr: apperrors.ErrRatingOutOfRange,
		},
		{
			name: "inactive question",
			req: &dto.SubmitFeedbackRequest{
				SubjectMapID: 1,
				Responses:    []dto.RatingRequest{{QuestionID: 1, Rating: 5}, {QuestionID: 3, Rating: 4}},
			},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name: "question rated twice",
			req: &dto.SubmitFeedbackRequest{
				SubjectMapID: 1,
				Responses:    []dto.RatingRequest{{QuestionID: 1, Rating: 5}, {QuestionID: 1, Rating: 4}},
			},
			wantErr: apperrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFeedbackFixture(t)
			_, err := fx.svc.Submit(context.Background(), fx.student.ID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, fx.feedback.rows)
			assert.Zero(t, fx.counter.n)
		})
	}
}

func TestFeedbackService_SubmitOutsideWindow(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		fx := newFeedbackFixture(t)
		fx.svc.now = fixedClock(fx.window.StartDate.Add(-time.Minute))
		_, err := fx.svc.Submit(context.Background(), fx.student.ID, fullRatings(1))
		assert.ErrorIs(t, err, apperrors.ErrWindowNotOpen)
	})

	t.Run("after end", func(t *testing.T) {
		fx := newFeedbackFixture(t)
		fx.svc.now = fixedClock(fx.window.EndDate.Add(time.Minute))
		_, err := fx.svc.Submit(context.Background(), fx.student.ID, fullRatings(1))
		assert.ErrorIs(t, err, apperrors.ErrWindowNotOpen)
	})

	t.Run("closed", func(t *testing.T) {
		fx := newFeedbackFixture(t)
		_, err := fx.windows.Close(context.Background(), fx.window.ID, feedbackNow)
		require.NoError(t, err)
		_, err = fx.svc.Submit(context.Background(), fx.student.ID, fullRatings(1))
		assert.ErrorIs(t, err, apperrors.ErrWindowNotOpen)
	})
}

func TestFeedbackService_SubmitByInactiveStudent(t *testing.T) {
	fx := newFeedbackFixture(t)
	fx.student.IsActive = false

	_, err := fx.svc.Submit(context.Background(), fx.student.ID, fullRatings(1))
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestFeedbackService_SubjectsAndStatus(t *testing.T) {
	fx := newFeedbackFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Submit(ctx, fx.student.ID, fullRatings(1))
	require.NoError(t, err)

	subjects, err := fx.svc.Subjects(ctx, fx.student.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	submitted := map[int64]bool{}
	for _, s := range subjects {
		assert.Equal(t, 3, s.Semester)
		submitted[s.ID] = s.FeedbackSubmitted
	}
	assert.Equal(t, map[int64]bool{1: true, 4: false}, submitted)

	status, err := fx.svc.Status(ctx, fx.student.ID, 1)
	require.NoError(t, err)
	assert.True(t, status.Submitted)
	assert.Equal(t, fx.window.ID, status.WindowID)

	status, err = fx.svc.Status(ctx, fx.student.ID, 4)
	require.NoError(t, err)
	assert.False(t, status.Submitted)
}

func TestFeedbackService_SubjectsWithoutWindow(t *testing.T) {
	fx := newFeedbackFixture(t)
	fx.windows.rows = nil

	subjects, err := fx.svc.Subjects(context.Background(), fx.student.ID)
	require.NoError(t, err)
	assert.Len(t, subjects, 2)

	_, err = fx.svc.ActiveWindow(context.Background(), fx.student.ID)
	assert.ErrorIs(t, err, apperrors.ErrWindowNotFound)
}

func TestFeedbackService_EvenSemesterWindow(t *testing.T) {
	fx := newFeedbackFixture(t)
	fx.windows.rows = nil
	fx.windows.add(&models.FeedbackWindow{
		Program: "BTECH", Branch: "CSE", Year: 2, Semester: 4,
		StartDate: feedbackNow.Add(-time.Hour), EndDate: feedbackNow.Add(time.Hour),
		Status: models.WindowOpen,
	})

	subjects, err := fx.svc.Subjects(context.Background(), fx.student.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, int64(2), subjects[0].ID)

	_, err = fx.svc.Submit(context.Background(), fx.student.ID, fullRatings(2))
	assert.NoError(t, err)
}

func TestFeedbackService_ActiveWindowState(t *testing.T) {
	fx := newFeedbackFixture(t)

	view, err := fx.svc.ActiveWindow(context.Background(), fx.student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateOpen, view.State.Kind)
	require.NotNil(t, view.State.At)
	assert.True(t, view.State.At.Equal(fx.window.EndDate))
}
