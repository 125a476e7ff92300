package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/academic"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// DepartmentService manages programs, their branches and admitted batches.
type DepartmentService interface {
	ListPrograms(ctx context.Context, activeOnly bool) ([]*models.Program, error)
	CreateProgram(ctx context.Context, req *dto.ProgramRequest) (*models.Program, error)
	UpdateProgram(ctx context.Context, id int64, req *dto.ProgramRequest) (*models.Program, error)
	DeleteProgram(ctx context.Context, id int64) error
	BulkUpsertPrograms(ctx context.Context, items []dto.ProgramRequest) *dto.BulkResult

	ListBranches(ctx context.Context, program string) ([]*models.Branch, error)
	SaveBranch(ctx context.Context, req *dto.BranchRequest) (*models.Branch, bool, error)
	DeleteBranch(ctx context.Context, id int64) error
	BulkUpsertBranches(ctx context.Context, items []dto.BranchRequest) *dto.BulkResult

	ListBatches(ctx context.Context, filter *dto.BatchFilter) ([]*models.Batch, error)
	CreateBatch(ctx context.Context, req *dto.BatchRequest) (*models.Batch, error)
	UpdateBatch(ctx context.Context, id int64, req *dto.BatchRequest) (*models.Batch, error)
	DeleteBatch(ctx context.Context, id int64) error
	BulkUpsertBatches(ctx context.Context, items []dto.BatchRequest) *dto.BulkResult
}

type departmentServiceImpl struct {
	programs  ProgramStore
	branches  BranchStore
	batches   BatchStore
	durations *academic.DurationResolver
	recorder  BulkRecorder
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(
	programs ProgramStore,
	branches BranchStore,
	batches BatchStore,
	durations *academic.DurationResolver,
	recorder BulkRecorder,
) DepartmentService {
	return &departmentServiceImpl{
		programs:  programs,
		branches:  branches,
		batches:   batches,
		durations: durations,
		recorder:  recorder,
	}
}

func programFromRequest(req *dto.ProgramRequest) *models.Program {
	name := strings.TrimSpace(req.Name)
	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = academic.NormalizeProgramName(name)
	}
	return &models.Program{
		Name:     name,
		Code:     strings.ToUpper(code),
		Duration: req.Duration,
		IsActive: boolOr(req.IsActive, true),
	}
}

func (s *departmentServiceImpl) ListPrograms(ctx context.Context, activeOnly bool) ([]*models.Program, error) {
	programs, err := s.programs.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("error listing programs: %w", err)
	}
	return programs, nil
}

func (s *departmentServiceImpl) CreateProgram(ctx context.Context, req *dto.ProgramRequest) (*models.Program, error) {
	p := programFromRequest(req)
	if err := s.programs.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info().Str("program", p.Name).Int("duration", p.Duration).Msg("Program created")
	return p, nil
}

func (s *departmentServiceImpl) UpdateProgram(ctx context.Context, id int64, req *dto.ProgramRequest) (*models.Program, error) {
	if _, err := s.programs.GetByID(ctx, id); err != nil {
		return nil, err
	}
	p := programFromRequest(req)
	p.ID = id
	if err := s.programs.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *departmentServiceImpl) DeleteProgram(ctx context.Context, id int64) error {
	return s.programs.Deactivate(ctx, id)
}

func (s *departmentServiceImpl) BulkUpsertPrograms(ctx context.Context, items []dto.ProgramRequest) *dto.BulkResult {
	return runBulk(ctx, "program", items,
		func(i int, item dto.ProgramRequest) string { return rowKey(i, item.Name) },
		func(ctx context.Context, item dto.ProgramRequest) (bool, error) {
			return s.programs.Upsert(ctx, programFromRequest(&item))
		},
		s.recorder)
}

func (s *departmentServiceImpl) ListBranches(ctx context.Context, program string) ([]*models.Branch, error) {
	branches, err := s.branches.List(ctx, strings.TrimSpace(program))
	if err != nil {
		return nil, fmt.Errorf("error listing branches: %w", err)
	}
	return branches, nil
}

// SaveBranch creates the branch or reactivates an existing one with the same
// program, name and specialisation.
func (s *departmentServiceImpl) SaveBranch(ctx context.Context, req *dto.BranchRequest) (*models.Branch, bool, error) {
	if _, err := s.durations.Resolve(ctx, req.Program); err != nil {
		return nil, false, err
	}
	b := &models.Branch{
		Program:        strings.TrimSpace(req.Program),
		Name:           strings.TrimSpace(req.Name),
		Specialisation: strings.TrimSpace(req.Specialisation),
		IsActive:       true,
	}
	created, err := s.branches.Upsert(ctx, b)
	if err != nil {
		return nil, false, err
	}
	return b, created, nil
}

func (s *departmentServiceImpl) DeleteBranch(ctx context.Context, id int64) error {
	return s.branches.Deactivate(ctx, id)
}

func (s *departmentServiceImpl) BulkUpsertBranches(ctx context.Context, items []dto.BranchRequest) *dto.BulkResult {
	return runBulk(ctx, "branch", items,
		func(i int, item dto.BranchRequest) string {
			return rowKey(i, strings.Trim(item.Program+"/"+item.Name, "/"))
		},
		func(ctx context.Context, item dto.BranchRequest) (bool, error) {
			_, created, err := s.SaveBranch(ctx, &item)
			return created, err
		},
		s.recorder)
}

func (s *departmentServiceImpl) batchFromRequest(ctx context.Context, req *dto.BatchRequest) (*models.Batch, error) {
	if _, err := s.durations.Resolve(ctx, req.Program); err != nil {
		return nil, err
	}
	return &models.Batch{
		Program:      strings.TrimSpace(req.Program),
		Branch:       strings.TrimSpace(req.Branch),
		AdmittedYear: req.AdmittedYear,
		IsActive:     boolOr(req.IsActive, true),
	}, nil
}

func (s *departmentServiceImpl) ListBatches(ctx context.Context, filter *dto.BatchFilter) ([]*models.Batch, error) {
	batches, err := s.batches.List(ctx, filter.Program, filter.Branch)
	if err != nil {
		return nil, fmt.Errorf("error listing batches: %w", err)
	}
	return batches, nil
}

func (s *departmentServiceImpl) CreateBatch(ctx context.Context, req *dto.BatchRequest) (*models.Batch, error) {
	b, err := s.batchFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.batches.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *departmentServiceImpl) UpdateBatch(ctx context.Context, id int64, req *dto.BatchRequest) (*models.Batch, error) {
	b, err := s.batchFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	b.ID = id
	if err := s.batches.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *departmentServiceImpl) DeleteBatch(ctx context.Context, id int64) error {
	return s.batches.Deactivate(ctx, id)
}

func (s *departmentServiceImpl) BulkUpsertBatches(ctx context.Context, items []dto.BatchRequest) *dto.BulkResult {
	return runBulk(ctx, "batch", items,
		func(i int, item dto.BatchRequest) string {
			if item.AdmittedYear == 0 {
				return rowKey(i, "")
			}
			return strings.Trim(fmt.Sprintf("%s/%s/%d", item.Program, item.Branch, item.AdmittedYear), "/")
		},
		func(ctx context.Context, item dto.BatchRequest) (bool, error) {
			b, err := s.batchFromRequest(ctx, &item)
			if err != nil {
				return false, err
			}
			return s.batches.Upsert(ctx, b)
		},
		s.recorder)
}
