package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

// StatsService serves dashboard counters.
type StatsService interface {
	HODDashboard(ctx context.Context, scope models.Scope) (*dto.HODDashboardStats, error)
	Institution(ctx context.Context) (*dto.InstitutionStats, error)
	Departments(ctx context.Context) ([]dto.DepartmentStats, error)
}

type statsServiceImpl struct {
	stats    StatsStore
	students StudentStore
	batches  BatchStore
	subjects SubjectStore
	faculty  FacultyStore
	windows  WindowStore
	now      func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(stats StatsStore, students StudentStore, batches BatchStore, subjects SubjectStore, faculty FacultyStore, windows WindowStore) StatsService {
	return &statsServiceImpl{
		stats:    stats,
		students: students,
		batches:  batches,
		subjects: subjects,
		faculty:  faculty,
		windows:  windows,
		now:      time.Now,
	}
}

func (s *statsServiceImpl) HODDashboard(ctx context.Context, scope models.Scope) (*dto.HODDashboardStats, error) {
	if scope.Program == "" {
		return nil, apperrors.NewForbiddenError("dashboard is only available to heads of department")
	}

	out := &dto.HODDashboardStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalStudents, err = s.students.CountActive(gctx, scope.Program, scope.Branch)
		return err
	})
	g.Go(func() (err error) {
		out.TotalBatches, err = s.batches.Count(gctx, scope.Program, scope.Branch)
		return err
	})
	g.Go(func() (err error) {
		out.TotalSemesters, err = s.subjects.CountSemesters(gctx, scope.Program, scope.Branch)
		return err
	})
	g.Go(func() (err error) {
		out.TotalFaculty, err = s.faculty.CountActive(gctx, scope.Branch)
		return err
	})
	g.Go(func() (err error) {
		out.OpenWindows, err = s.windows.CountLive(gctx, scope.Program, scope.Branch, s.now())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *statsServiceImpl) Institution(ctx context.Context) (*dto.InstitutionStats, error) {
	c, err := s.stats.Institution(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.InstitutionStats{
		Programs:  c.Programs,
		Batches:   c.Batches,
		Students:  c.Students,
		Faculty:   c.Faculty,
		Subjects:  c.Subjects,
		HODs:      c.HODs,
		Windows:   c.Windows,
		Feedbacks: c.Feedbacks,
	}, nil
}

func (s *statsServiceImpl) Departments(ctx context.Context) ([]dto.DepartmentStats, error) {
	rows, err := s.stats.Departments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentStats, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DepartmentStats(r))
	}
	return out, nil
}
