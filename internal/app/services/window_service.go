package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/repositories"
	"github.com/yigit/campusfeedback/internal/pkg/academic"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// WindowService manages feedback windows. HODs act on their own program and
// branch; principals read across the institution.
type WindowService interface {
	ListWindows(ctx context.Context, scope models.Scope, program, branch string) ([]models.WindowView, error)
	PublishWindow(ctx context.Context, scope models.Scope, publisherID int64, req *dto.PublishWindowRequest) (*models.WindowView, bool, error)
	SaveDraft(ctx context.Context, scope models.Scope, req *dto.PublishWindowRequest) (*models.WindowView, bool, error)
	CloseWindow(ctx context.Context, scope models.Scope, id int64) (*models.WindowView, error)
}

type windowServiceImpl struct {
	windows   WindowStore
	durations *academic.DurationResolver
	now       func() time.Time
}

// NewWindowService creates a new WindowService
func NewWindowService(windows WindowStore, durations *academic.DurationResolver) WindowService {
	return &windowServiceImpl{windows: windows, durations: durations, now: time.Now}
}

func views(windows []*models.FeedbackWindow, now time.Time) []models.WindowView {
	out := make([]models.WindowView, 0, len(windows))
	for _, w := range windows {
		out = append(out, w.View(now))
	}
	return out
}

func (s *windowServiceImpl) ListWindows(ctx context.Context, scope models.Scope, program, branch string) ([]models.WindowView, error) {
	program, branch = scope.Narrow(program, branch)
	windows, err := s.windows.List(ctx, repositories.WindowFilter{Program: program, Branch: branch})
	if err != nil {
		return nil, fmt.Errorf("error listing feedback windows: %w", err)
	}
	return views(windows, s.now()), nil
}

func (s *windowServiceImpl) build(ctx context.Context, scope models.Scope, req *dto.PublishWindowRequest, status models.WindowStatus) (*models.FeedbackWindow, error) {
	if scope.Program == "" {
		return nil, apperrors.NewForbiddenError("only a head of department can manage feedback windows")
	}
	duration, err := s.durations.Resolve(ctx, scope.Program)
	if err != nil {
		return nil, err
	}
	if req.Year > duration {
		return nil, validationErrorf("year %d is beyond the %d year program", req.Year, duration)
	}
	if academic.YearOfSemester(req.Semester) != req.Year {
		return nil, validationErrorf("semester %d does not belong to year %d", req.Semester, req.Year)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, validationErrorf("end date must not be before start date")
	}
	if status == models.WindowOpen && !req.EndDate.After(s.now()) {
		return nil, validationErrorf("end date must be in the future")
	}

	return &models.FeedbackWindow{
		Program:      scope.Program,
		Branch:       scope.Branch,
		Year:         req.Year,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Status:       status,
	}, nil
}

// PublishWindow opens the scope's window for the semester. A draft or still
// open window of the same semester is reused; once it has closed a new one
// is created. Reports whether an existing window was reused.
func (s *windowServiceImpl) PublishWindow(ctx context.Context, scope models.Scope, publisherID int64, req *dto.PublishWindowRequest) (*models.WindowView, bool, error) {
	w, err := s.build(ctx, scope, req, models.WindowOpen)
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	w.PublishedBy = &publisherID
	w.PublishedAt = &now

	reused, err := s.windows.Save(ctx, w, now)
	if err != nil {
		return nil, false, err
	}
	logger.Info().Int64("windowID", w.ID).Str("program", w.Program).Str("branch", w.Branch).
		Int("semester", w.Semester).Bool("reused", reused).Msg("Feedback window published")

	view := w.View(now)
	return &view, reused, nil
}

// SaveDraft stores the window unpublished.
func (s *windowServiceImpl) SaveDraft(ctx context.Context, scope models.Scope, req *dto.PublishWindowRequest) (*models.WindowView, bool, error) {
	w, err := s.build(ctx, scope, req, models.WindowDraft)
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	reused, err := s.windows.Save(ctx, w, now)
	if err != nil {
		return nil, false, err
	}
	view := w.View(now)
	return &view, reused, nil
}

// CloseWindow stops a window from accepting responses immediately.
func (s *windowServiceImpl) CloseWindow(ctx context.Context, scope models.Scope, id int64) (*models.WindowView, error) {
	existing, err := s.windows.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(existing.Program, existing.Branch) {
		return nil, apperrors.NewForbiddenError("feedback window belongs to another department")
	}

	now := s.now()
	closed, err := s.windows.Close(ctx, id, now)
	if err != nil {
		return nil, err
	}
	logger.Info().Int64("windowID", id).Msg("Feedback window closed")

	view := closed.View(now)
	return &view, nil
}
