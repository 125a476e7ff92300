package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/academic"
)

// SubjectService manages the subject catalogue.
type SubjectService interface {
	ListSubjects(ctx context.Context, filter *dto.SubjectFilter) ([]*models.Subject, error)
	CreateSubject(ctx context.Context, req *dto.SubjectRequest) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id int64, req *dto.SubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id int64) error
	BulkUpsertSubjects(ctx context.Context, items []dto.SubjectRequest) *dto.BulkResult
}

type subjectServiceImpl struct {
	subjects  SubjectStore
	durations *academic.DurationResolver
	recorder  BulkRecorder
}

// NewSubjectService creates a new SubjectService
func NewSubjectService(subjects SubjectStore, durations *academic.DurationResolver, recorder BulkRecorder) SubjectService {
	return &subjectServiceImpl{subjects: subjects, durations: durations, recorder: recorder}
}

func (s *subjectServiceImpl) subjectFromRequest(ctx context.Context, req *dto.SubjectRequest) (*models.Subject, error) {
	duration, err := s.durations.Resolve(ctx, req.Program)
	if err != nil {
		return nil, err
	}
	if req.Year > duration {
		return nil, validationErrorf("year %d is beyond the %d year program", req.Year, duration)
	}
	if academic.YearOfSemester(req.Semester) != req.Year {
		return nil, validationErrorf("semester %d does not belong to year %d", req.Semester, req.Year)
	}
	return &models.Subject{
		SubjectCode: strings.ToUpper(strings.TrimSpace(req.SubjectCode)),
		Name:        strings.TrimSpace(req.Name),
		Program:     strings.TrimSpace(req.Program),
		Branch:      strings.TrimSpace(req.Branch),
		Regulation:  strings.TrimSpace(req.Regulation),
		Year:        req.Year,
		Semester:    req.Semester,
		Type:        strings.TrimSpace(req.Type),
		IsActive:    boolOr(req.IsActive, true),
	}, nil
}

func (s *subjectServiceImpl) ListSubjects(ctx context.Context, filter *dto.SubjectFilter) ([]*models.Subject, error) {
	subjects, err := s.subjects.List(ctx, filter.Program, filter.Branch, filter.Semester)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	return subjects, nil
}

func (s *subjectServiceImpl) CreateSubject(ctx context.Context, req *dto.SubjectRequest) (*models.Subject, error) {
	sub, err := s.subjectFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.subjects.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subjectServiceImpl) UpdateSubject(ctx context.Context, id int64, req *dto.SubjectRequest) (*models.Subject, error) {
	sub, err := s.subjectFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	sub.ID = id
	if err := s.subjects.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subjectServiceImpl) DeleteSubject(ctx context.Context, id int64) error {
	return s.subjects.Deactivate(ctx, id)
}

func (s *subjectServiceImpl) BulkUpsertSubjects(ctx context.Context, items []dto.SubjectRequest) *dto.BulkResult {
	return runBulk(ctx, "subject", items,
		func(i int, item dto.SubjectRequest) string {
			return rowKey(i, strings.ToUpper(strings.TrimSpace(item.SubjectCode)))
		},
		func(ctx context.Context, item dto.SubjectRequest) (bool, error) {
			sub, err := s.subjectFromRequest(ctx, &item)
			if err != nil {
				return false, err
			}
			return s.subjects.Upsert(ctx, sub)
		},
		s.recorder)
}
