package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/repositories"
	"github.com/yigit/campusfeedback/internal/pkg/academic"
	"github.com/yigit/campusfeedback/internal/pkg/auth"
	"github.com/yigit/campusfeedback/internal/pkg/helpers"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// StudentService defines the interface for student management
type StudentService interface {
	ListStudents(ctx context.Context, filter *dto.StudentFilter) (*dto.StudentListResponse, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	CreateStudent(ctx context.Context, req *dto.StudentRequest) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.StudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
	BulkUpsertStudents(ctx context.Context, items []dto.StudentRequest) *dto.BulkResult
}

type studentServiceImpl struct {
	students  StudentStore
	durations *academic.DurationResolver
	cache     StatusEvictor
	recorder  BulkRecorder
	now       func() time.Time
}

// NewStudentService creates a new StudentService
func NewStudentService(
	students StudentStore,
	durations *academic.DurationResolver,
	cache StatusEvictor,
	recorder BulkRecorder,
) StudentService {
	return &studentServiceImpl{
		students:  students,
		durations: durations,
		cache:     cache,
		recorder:  recorder,
		now:       time.Now,
	}
}

// withStanding attaches the derived year and semester. The standing is never
// stored so it follows the calendar.
func withStanding(ctx context.Context, durations *academic.DurationResolver, s *models.Student, now time.Time) *models.Student {
	standing := durations.Standing(ctx, s.Program, s.AdmittedYear, now)
	s.Standing = &standing
	return s
}

func (s *studentServiceImpl) studentFromRequest(ctx context.Context, req *dto.StudentRequest) (*models.Student, error) {
	if _, err := s.durations.Resolve(ctx, req.Program); err != nil {
		return nil, err
	}
	dob, err := auth.ParseDOB(req.DOB)
	if err != nil {
		return nil, err
	}
	return &models.Student{
		RollNo:         strings.ToUpper(strings.TrimSpace(req.RollNo)),
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		DOB:            dob,
		Program:        strings.TrimSpace(req.Program),
		Branch:         strings.TrimSpace(req.Branch),
		Specialisation: strings.TrimSpace(req.Specialisation),
		AdmittedYear:   req.AdmittedYear,
		Regulation:     strings.TrimSpace(req.Regulation),
		IsActive:       boolOr(req.IsActive, true),
	}, nil
}

func (s *studentServiceImpl) ListStudents(ctx context.Context, filter *dto.StudentFilter) (*dto.StudentListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Size)
	students, total, err := s.students.List(ctx, repositories.StudentListParams{
		Program:      filter.Program,
		Branch:       filter.Branch,
		AdmittedYear: filter.AdmittedYear,
		Search:       filter.Search,
		ActiveOnly:   true,
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	now := s.now()
	for _, st := range students {
		withStanding(ctx, s.durations, st, now)
	}
	return &dto.StudentListResponse{
		Students:   students,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, limit),
	}, nil
}

func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	st, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return withStanding(ctx, s.durations, st, s.now()), nil
}

func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.StudentRequest) (*models.Student, error) {
	st, err := s.studentFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.students.Create(ctx, st); err != nil {
		return nil, err
	}
	logger.Info().Str("rollNo", st.RollNo).Msg("Student created")
	return withStanding(ctx, s.durations, st, s.now()), nil
}

func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, req *dto.StudentRequest) (*models.Student, error) {
	st, err := s.studentFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	st.ID = id
	if err := s.students.Update(ctx, st); err != nil {
		return nil, err
	}
	s.evict(ctx, id)
	return withStanding(ctx, s.durations, st, s.now()), nil
}

func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if err := s.students.Deactivate(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *studentServiceImpl) BulkUpsertStudents(ctx context.Context, items []dto.StudentRequest) *dto.BulkResult {
	return runBulk(ctx, "student", items,
		func(i int, item dto.StudentRequest) string {
			return rowKey(i, strings.ToUpper(strings.TrimSpace(item.RollNo)))
		},
		func(ctx context.Context, item dto.StudentRequest) (bool, error) {
			st, err := s.studentFromRequest(ctx, &item)
			if err != nil {
				return false, err
			}
			created, err := s.students.Upsert(ctx, st)
			if err == nil && !created {
				s.evict(ctx, st.ID)
			}
			return created, err
		},
		s.recorder)
}

func (s *studentServiceImpl) evict(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Evict(ctx, string(models.RoleStudent), id); err != nil {
		logger.Warn().Err(err).Int64("studentID", id).Msg("Failed to evict cached student status")
	}
}
