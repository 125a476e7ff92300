package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
)

// FacultyService defines the interface for faculty operations
type FacultyService interface {
	ListFaculty(ctx context.Context, filter *dto.FacultyFilter) ([]*models.Faculty, error)
	GetFaculty(ctx context.Context, id int64) (*models.Faculty, error)
	CreateFaculty(ctx context.Context, req *dto.FacultyRequest) (*models.Faculty, error)
	UpdateFaculty(ctx context.Context, id int64, req *dto.FacultyRequest) (*models.Faculty, error)
	DeleteFaculty(ctx context.Context, id int64) error
	BulkUpsertFaculty(ctx context.Context, items []dto.FacultyRequest) *dto.BulkResult
}

// facultyServiceImpl implements FacultyService
type facultyServiceImpl struct {
	faculty  FacultyStore
	recorder BulkRecorder
}

// NewFacultyService creates a new FacultyService
func NewFacultyService(faculty FacultyStore, recorder BulkRecorder) FacultyService {
	return &facultyServiceImpl{faculty: faculty, recorder: recorder}
}

func facultyFromRequest(req *dto.FacultyRequest) *models.Faculty {
	return &models.Faculty{
		FacultyCode: strings.ToUpper(strings.TrimSpace(req.FacultyCode)),
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Branch:      strings.TrimSpace(req.Branch),
		Designation: strings.TrimSpace(req.Designation),
		IsActive:    boolOr(req.IsActive, true),
	}
}

// ListFaculty returns active faculty, optionally of one branch.
func (s *facultyServiceImpl) ListFaculty(ctx context.Context, filter *dto.FacultyFilter) ([]*models.Faculty, error) {
	faculty, err := s.faculty.List(ctx, filter.Branch, filter.Search)
	if err != nil {
		return nil, fmt.Errorf("error listing faculty: %w", err)
	}
	return faculty, nil
}

// GetFaculty retrieves a faculty member by ID
func (s *facultyServiceImpl) GetFaculty(ctx context.Context, id int64) (*models.Faculty, error) {
	return s.faculty.GetByID(ctx, id)
}

// CreateFaculty creates a new faculty member
func (s *facultyServiceImpl) CreateFaculty(ctx context.Context, req *dto.FacultyRequest) (*models.Faculty, error) {
	f := facultyFromRequest(req)
	if err := s.faculty.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// UpdateFaculty updates a faculty member
func (s *facultyServiceImpl) UpdateFaculty(ctx context.Context, id int64, req *dto.FacultyRequest) (*models.Faculty, error) {
	f := facultyFromRequest(req)
	f.ID = id
	if err := s.faculty.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFaculty deactivates a faculty member. Existing mappings keep
// pointing at the row so past analytics stay intact.
func (s *facultyServiceImpl) DeleteFaculty(ctx context.Context, id int64) error {
	return s.faculty.Deactivate(ctx, id)
}

// BulkUpsertFaculty upserts faculty by email.
func (s *facultyServiceImpl) BulkUpsertFaculty(ctx context.Context, items []dto.FacultyRequest) *dto.BulkResult {
	return runBulk(ctx, "faculty", items,
		func(i int, item dto.FacultyRequest) string {
			return rowKey(i, strings.ToLower(strings.TrimSpace(item.Email)))
		},
		func(ctx context.Context, item dto.FacultyRequest) (bool, error) {
			return s.faculty.Upsert(ctx, facultyFromRequest(&item))
		},
		s.recorder)
}
