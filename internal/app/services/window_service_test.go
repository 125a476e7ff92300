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

var hodScope = models.Scope{Program: "BTECH", Branch: "CSE"}

func newWindowService(now time.Time) (*windowServiceImpl, *fakeWindows) {
	windows := &fakeWindows{}
	svc := NewWindowService(windows, testDurations()).(*windowServiceImpl)
	svc.now = fixedClock(now)
	return svc, windows
}

func windowRequest(now time.Time) *dto.PublishWindowRequest {
	return &dto.PublishWindowRequest{
		Year:         2,
		Semester:     3,
		StartDate:    now.Add(-time.Hour),
		EndDate:      now.Add(72 * time.Hour),
		AcademicYear: "2024-25",
	}
}

func TestWindowService_PublishReusesLiveWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, windows := newWindowService(now)
	ctx := context.Background()

	first, reused, err := svc.PublishWindow(ctx, hodScope, 7, windowRequest(now))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, models.StateOpen, first.State.Kind)
	require.NotNil(t, first.PublishedBy)
	assert.Equal(t, int64(7), *first.PublishedBy)

	req := windowRequest(now)
	req.EndDate = now.Add(240 * time.Hour)
	second, reused, err := svc.PublishWindow(ctx, hodScope, 7, req)
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.EndDate.Equal(req.EndDate))
	assert.Len(t, windows.rows, 1)
}

func TestWindowService_PublishAfterCloseCreatesNew(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, windows := newWindowService(now)
	ctx := context.Background()

	first, _, err := svc.PublishWindow(ctx, hodScope, 7, windowRequest(now))
	require.NoError(t, err)

	closed, err := svc.CloseWindow(ctx, hodScope, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateClosed, closed.State.Kind)
	assert.True(t, closed.EndDate.Equal(now))

	second, reused, err := svc.PublishWindow(ctx, hodScope, 7, windowRequest(now))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, windows.rows, 2)

	_, err = svc.CloseWindow(ctx, hodScope, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrWindowAlreadyClosed)
}

func TestWindowService_PublishSettlesExpiredWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, windows := newWindowService(now)
	expired := windows.add(&models.FeedbackWindow{
		Program: "BTECH", Branch: "CSE", Year: 2, Semester: 3,
		StartDate: now.Add(-240 * time.Hour), EndDate: now.Add(-24 * time.Hour),
		Status: models.WindowOpen,
	})

	view, reused, err := svc.PublishWindow(context.Background(), hodScope, 7, windowRequest(now))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotEqual(t, expired.ID, view.ID)
	assert.Equal(t, models.WindowClosed, windows.rows[0].Status)
}

func TestWindowService_DraftThenPublish(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newWindowService(now)
	ctx := context.Background()

	draft, reused, err := svc.SaveDraft(ctx, hodScope, windowRequest(now))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, models.StateDraft, draft.State.Kind)

	published, reused, err := svc.PublishWindow(ctx, hodScope, 7, windowRequest(now))
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, draft.ID, published.ID)

	_, _, err = svc.SaveDraft(ctx, hodScope, windowRequest(now))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestWindowService_Validation(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newWindowService(now)
	ctx := context.Background()

	tests := []struct {
		name    string
		scope   models.Scope
		mutate  func(r *dto.PublishWindowRequest)
		wantErr error
	}{
		{"unrestricted caller", models.Scope{}, func(*dto.PublishWindowRequest) {}, apperrors.ErrPermissionDenied},
		{"semester outside year", hodScope, func(r *dto.PublishWindowRequest) { r.Semester = 5 }, apperrors.ErrValidationFailed},
		{"year beyond program", hodScope, func(r *dto.PublishWindowRequest) { r.Year, r.Semester = 5, 9 }, apperrors.ErrValidationFailed},
		{"ends in the past", hodScope, func(r *dto.PublishWindowRequest) {
			r.StartDate, r.EndDate = now.Add(-48*time.Hour), now.Add(-time.Hour)
		}, apperrors.ErrValidationFailed},
		{"unknown program", models.Scope{Program: "PHD", Branch: "CSE"}, func(*dto.PublishWindowRequest) {}, apperrors.ErrUnknownProgram},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := windowRequest(now)
			tt.mutate(req)
			_, _, err := svc.PublishWindow(ctx, tt.scope, 1, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWindowService_CloseOtherDepartment(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, windows := newWindowService(now)
	w := windows.add(&models.FeedbackWindow{
		Program: "BTECH", Branch: "ECE", Year: 2, Semester: 3,
		StartDate: now, EndDate: now.Add(time.Hour), Status: models.WindowOpen,
	})

	_, err := svc.CloseWindow(context.Background(), hodScope, w.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.CloseWindow(context.Background(), hodScope, 404)
	assert.ErrorIs(t, err, apperrors.ErrWindowNotFound)
}

func TestWindowService_ListIsScoped(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, windows := newWindowService(now)
	windows.add(&models.FeedbackWindow{Program: "BTECH", Branch: "CSE", Year: 1, Semester: 1, Status: models.WindowDraft})
	windows.add(&models.FeedbackWindow{Program: "BTECH", Branch: "ECE", Year: 1, Semester: 1, Status: models.WindowDraft})

	scoped, err := svc.ListWindows(context.Background(), hodScope, "", "ECE")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "CSE", scoped[0].Branch)

	all, err := svc.ListWindows(context.Background(), models.Scope{}, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
