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

func ratings(values ...int) []models.FeedbackResponse {
	out := make([]models.FeedbackResponse, 0, len(values))
	for i, v := range values {
		out = append(out, models.FeedbackResponse{QuestionID: int64(i + 1), Criteria: "Q", Rating: v})
	}
	return out
}

func newAnalyticsFixture() (*analyticsServiceImpl, *models.FeedbackWindow) {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	windows := &fakeWindows{}
	w := windows.add(&models.FeedbackWindow{
		Program: "BTECH", Branch: "CSE", Year: 2, Semester: 3, AcademicYear: "2024-25",
		StartDate: now.Add(-240 * time.Hour), EndDate: now.Add(-24 * time.Hour), Status: models.WindowClosed,
	})

	maps := &fakeMaps{rows: []*models.SubjectMap{
		{ID: 1, Program: "BTECH", Branch: "CSE", AdmittedYear: 2023, Semester: 3, IsActive: true,
			Subject: &models.Subject{ID: 10, SubjectCode: "CS301"}, Faculty: &models.Faculty{ID: 100, Name: "Dr. Iyer"}},
		{ID: 2, Program: "BTECH", Branch: "CSE", AdmittedYear: 2023, Semester: 3, IsActive: true},
		{ID: 3, Program: "BTECH", Branch: "CSE", AdmittedYear: 2023, Semester: 4, IsActive: true},
	}}

	feedback := &fakeFeedback{}
	_ = feedback.Create(context.Background(), &models.Feedback{StudentID: 1, SubjectMapID: 1, WindowID: w.ID, Responses: ratings(5, 4)})
	_ = feedback.Create(context.Background(), &models.Feedback{StudentID: 2, SubjectMapID: 1, WindowID: w.ID, Responses: ratings(3, 4)})
	_ = feedback.Create(context.Background(), &models.Feedback{StudentID: 1, SubjectMapID: 3, WindowID: w.ID, Responses: ratings(1, 1)})

	svc := NewAnalyticsService(windows, maps, feedback, 0).(*analyticsServiceImpl)
	svc.now = fixedClock(now)
	return svc, w
}

func TestAnalyticsService_AggregatesPerMapping(t *testing.T) {
	svc, w := newAnalyticsFixture()

	resp, err := svc.WindowAnalytics(context.Background(), hodScope, &dto.AnalyticsQuery{WindowID: w.ID})
	require.NoError(t, err)
	assert.Equal(t, w.ID, resp.Window.ID)
	require.Len(t, resp.Analytics, 2)

	first := resp.Analytics[0]
	assert.Equal(t, int64(1), first.SubjectMap.ID)
	assert.Nil(t, first.SubjectMap.Subject)
	require.NotNil(t, first.Subject)
	assert.Equal(t, "CS301", first.Subject.SubjectCode)
	assert.Equal(t, 2, first.TotalResponses)
	assert.Equal(t, 2, first.TotalQuestions)
	assert.Equal(t, 5, first.MaxRating)
	require.Len(t, first.AverageRatings, 2)
	assert.InDelta(t, 0.8, first.AverageRatings[0].Rating, 1e-9)
	assert.InDelta(t, 80.0, first.AverageRatings[0].Percentage, 1e-9)
	assert.InDelta(t, 0.8, first.OverallRating, 1e-9)

	empty := resp.Analytics[1]
	assert.Equal(t, int64(2), empty.SubjectMap.ID)
	assert.Zero(t, empty.TotalResponses)
	assert.Zero(t, empty.OverallRating)
	assert.Empty(t, empty.AverageRatings)
}

func TestAnalyticsService_ResolvesByYearAndSemester(t *testing.T) {
	svc, w := newAnalyticsFixture()

	resp, err := svc.WindowAnalytics(context.Background(), hodScope, &dto.AnalyticsQuery{Year: 2, Semester: 3})
	require.NoError(t, err)
	assert.Equal(t, w.ID, resp.Window.ID)

	_, err = svc.WindowAnalytics(context.Background(), hodScope, &dto.AnalyticsQuery{Year: 2, Semester: 3, AcademicYear: "2023-24"})
	assert.ErrorIs(t, err, apperrors.ErrWindowNotFound)
}

func TestAnalyticsService_Scope(t *testing.T) {
	svc, w := newAnalyticsFixture()
	ctx := context.Background()

	_, err := svc.WindowAnalytics(ctx, models.Scope{Program: "BTECH", Branch: "ECE"}, &dto.AnalyticsQuery{WindowID: w.ID})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	// principals must name the department when not asking by window
	_, err = svc.WindowAnalytics(ctx, models.Scope{}, &dto.AnalyticsQuery{Year: 2, Semester: 3})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	resp, err := svc.WindowAnalytics(ctx, models.Scope{}, &dto.AnalyticsQuery{Program: "BTECH", Branch: "CSE", Year: 2, Semester: 3})
	require.NoError(t, err)
	assert.Len(t, resp.Analytics, 2)
}

func TestAnalyticsService_IgnoresDrafts(t *testing.T) {
	svc, _ := newAnalyticsFixture()
	windows := svc.windows.(*fakeWindows)
	windows.rows[0].Status = models.WindowDraft

	_, err := svc.WindowAnalytics(context.Background(), hodScope, &dto.AnalyticsQuery{Year: 2, Semester: 3})
	assert.ErrorIs(t, err, apperrors.ErrWindowNotFound)
}
