package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/repositories"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/feedbackstats"
)

// analyticsConcurrency bounds the per-mapping queries in flight.
const analyticsConcurrency = 8

// AnalyticsService aggregates submitted feedback per subject mapping.
type AnalyticsService interface {
	WindowAnalytics(ctx context.Context, scope models.Scope, q *dto.AnalyticsQuery) (*dto.AnalyticsResponse, error)
}

type analyticsServiceImpl struct {
	windows   WindowStore
	maps      SubjectMapStore
	feedback  FeedbackStore
	maxRating int
	now       func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(windows WindowStore, maps SubjectMapStore, feedback FeedbackStore, maxRating int) AnalyticsService {
	if maxRating <= 0 {
		maxRating = feedbackstats.DefaultMaxRating
	}
	return &analyticsServiceImpl{
		windows:   windows,
		maps:      maps,
		feedback:  feedback,
		maxRating: maxRating,
		now:       time.Now,
	}
}

// resolveWindow picks the window by ID, or the latest published window for
// the requested year and semester.
func (s *analyticsServiceImpl) resolveWindow(ctx context.Context, scope models.Scope, q *dto.AnalyticsQuery) (*models.FeedbackWindow, error) {
	if q.WindowID > 0 {
		w, err := s.windows.GetByID(ctx, q.WindowID)
		if err != nil {
			return nil, err
		}
		if !scope.Allows(w.Program, w.Branch) {
			return nil, apperrors.NewForbiddenError("feedback window is outside your department")
		}
		return w, nil
	}

	program, branch := scope.Narrow(q.Program, q.Branch)
	if program == "" || branch == "" {
		return nil, validationErrorf("program and branch are required")
	}
	if q.Year < 1 || q.Semester < 1 {
		return nil, validationErrorf("windowId, or year and semester, are required")
	}
	return s.windows.Latest(ctx, repositories.WindowFilter{
		Program:      program,
		Branch:       branch,
		Year:         q.Year,
		Semesters:    []int{q.Semester},
		AcademicYear: q.AcademicYear,
	}, true)
}

// WindowAnalytics summarises every active mapping of the window's program,
// branch and semester. Mappings are aggregated concurrently; each goroutine
// owns one slot of the result so no locking is needed.
func (s *analyticsServiceImpl) WindowAnalytics(ctx context.Context, scope models.Scope, q *dto.AnalyticsQuery) (*dto.AnalyticsResponse, error) {
	w, err := s.resolveWindow(ctx, scope, q)
	if err != nil {
		return nil, err
	}

	maps, err := s.maps.List(ctx, repositories.SubjectMapFilter{
		Program:  w.Program,
		Branch:   w.Branch,
		Semester: w.Semester,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing subject maps for analytics: %w", err)
	}

	results := make([]dto.MappingAnalytics, len(maps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyticsConcurrency)
	for i, m := range maps {
		i, m := i, m
		g.Go(func() error {
			submissions, err := s.feedback.Submissions(gctx, m.ID, w.ID)
			if err != nil {
				return fmt.Errorf("error loading feedback for subject map %d: %w", m.ID, err)
			}
			results[i] = mappingAnalytics(m, feedbackstats.Summarize(submissions, s.maxRating))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.AnalyticsResponse{Window: w.View(s.now()), Analytics: results}, nil
}

func mappingAnalytics(m *models.SubjectMap, summary feedbackstats.Summary) dto.MappingAnalytics {
	ratings := make([]dto.QuestionRatingResponse, 0, len(summary.AverageRatings))
	for _, r := range summary.AverageRatings {
		ratings = append(ratings, dto.QuestionRatingResponse{
			QuestionID:     r.QuestionID,
			Criteria:       r.Criteria,
			Rating:         r.Rating,
			Percentage:     r.Percentage,
			OutOf:          r.OutOf,
			TotalResponses: r.TotalResponses,
		})
	}

	meta := *m
	meta.Subject, meta.Faculty = nil, nil
	return dto.MappingAnalytics{
		SubjectMap:        meta,
		Faculty:           m.Faculty,
		Subject:           m.Subject,
		TotalResponses:    summary.TotalResponses,
		TotalQuestions:    summary.TotalQuestions,
		AverageRatings:    ratings,
		OverallRating:     summary.OverallRating,
		OverallPercentage: summary.OverallPercentage,
		MaxRating:         summary.MaxRating,
	}
}
