package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/repositories"
	"github.com/yigit/campusfeedback/internal/pkg/academic"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// SubjectMapService binds faculty to subjects per batch and semester.
type SubjectMapService interface {
	ListMappings(ctx context.Context, scope models.Scope, filter *dto.SubjectMapFilter) ([]*models.SubjectMap, error)
	SaveMapping(ctx context.Context, scope models.Scope, req *dto.SubjectMapRequest) (*models.SubjectMap, bool, error)
	UpdateMapping(ctx context.Context, scope models.Scope, id int64, req *dto.SubjectMapRequest) (*models.SubjectMap, error)
	DeleteMapping(ctx context.Context, scope models.Scope, id int64) error
	BulkUpsertMappings(ctx context.Context, items []dto.SubjectMapRequest) *dto.BulkResult
}

type subjectMapServiceImpl struct {
	maps      SubjectMapStore
	subjects  SubjectStore
	faculty   FacultyStore
	durations *academic.DurationResolver
	recorder  BulkRecorder
}

// NewSubjectMapService creates a new SubjectMapService
func NewSubjectMapService(
	maps SubjectMapStore,
	subjects SubjectStore,
	faculty FacultyStore,
	durations *academic.DurationResolver,
	recorder BulkRecorder,
) SubjectMapService {
	return &subjectMapServiceImpl{
		maps:      maps,
		subjects:  subjects,
		faculty:   faculty,
		durations: durations,
		recorder:  recorder,
	}
}

// resolve turns a request into a mapping, looking subject and faculty up by
// ID or by code.
func (s *subjectMapServiceImpl) resolve(ctx context.Context, scope models.Scope, req *dto.SubjectMapRequest) (*models.SubjectMap, error) {
	program, branch := scope.Narrow(req.Program, req.Branch)
	if _, err := s.durations.Resolve(ctx, program); err != nil {
		return nil, err
	}
	if academic.YearOfSemester(req.Semester) != req.Year {
		return nil, validationErrorf("semester %d does not belong to year %d", req.Semester, req.Year)
	}

	subject, err := s.lookupSubject(ctx, req)
	if err != nil {
		return nil, err
	}
	faculty, err := s.lookupFaculty(ctx, req)
	if err != nil {
		return nil, err
	}
	if !subject.IsActive {
		return nil, validationErrorf("subject %s is inactive", subject.SubjectCode)
	}
	if !faculty.IsActive {
		return nil, validationErrorf("faculty %s is inactive", faculty.FacultyCode)
	}

	return &models.SubjectMap{
		Program:      program,
		Branch:       branch,
		AdmittedYear: req.AdmittedYear,
		Year:         req.Year,
		Semester:     req.Semester,
		SubjectID:    subject.ID,
		FacultyID:    faculty.ID,
		IsActive:     boolOr(req.IsActive, true),
		Subject:      subject,
		Faculty:      faculty,
	}, nil
}

func (s *subjectMapServiceImpl) lookupSubject(ctx context.Context, req *dto.SubjectMapRequest) (*models.Subject, error) {
	var subject *models.Subject
	var err error
	switch {
	case req.SubjectID > 0:
		subject, err = s.subjects.GetByID(ctx, req.SubjectID)
	case strings.TrimSpace(req.SubjectCode) != "":
		subject, err = s.subjects.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(req.SubjectCode)))
	default:
		return nil, validationErrorf("subjectId or subjectCode is required")
	}
	if errors.Is(err, apperrors.ErrSubjectNotFound) {
		return nil, validationErrorf("subject not found")
	}
	return subject, err
}

func (s *subjectMapServiceImpl) lookupFaculty(ctx context.Context, req *dto.SubjectMapRequest) (*models.Faculty, error) {
	var faculty *models.Faculty
	var err error
	switch {
	case req.FacultyID > 0:
		faculty, err = s.faculty.GetByID(ctx, req.FacultyID)
	case strings.TrimSpace(req.FacultyCode) != "":
		faculty, err = s.faculty.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(req.FacultyCode)))
	default:
		return nil, validationErrorf("facultyId or facultyCode is required")
	}
	if errors.Is(err, apperrors.ErrFacultyNotFound) {
		return nil, validationErrorf("faculty not found")
	}
	return faculty, err
}

func (s *subjectMapServiceImpl) ListMappings(ctx context.Context, scope models.Scope, filter *dto.SubjectMapFilter) ([]*models.SubjectMap, error) {
	program, branch := scope.Narrow(filter.Program, filter.Branch)
	maps, err := s.maps.List(ctx, repositories.SubjectMapFilter{
		Program:      program,
		Branch:       branch,
		AdmittedYear: filter.AdmittedYear,
		Semester:     filter.Semester,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing subject mappings: %w", err)
	}
	return maps, nil
}

// SaveMapping creates the mapping for its tuple or rebinds the faculty of
// the existing one. Reports whether a row was created.
func (s *subjectMapServiceImpl) SaveMapping(ctx context.Context, scope models.Scope, req *dto.SubjectMapRequest) (*models.SubjectMap, bool, error) {
	m, err := s.resolve(ctx, scope, req)
	if err != nil {
		return nil, false, err
	}
	created, err := s.maps.Upsert(ctx, m)
	if err != nil {
		return nil, false, err
	}
	logger.Info().Int64("subjectMapID", m.ID).Int64("facultyID", m.FacultyID).Bool("created", created).
		Msg("Subject mapping saved")
	return m, created, nil
}

func (s *subjectMapServiceImpl) UpdateMapping(ctx context.Context, scope models.Scope, id int64, req *dto.SubjectMapRequest) (*models.SubjectMap, error) {
	if err := s.checkScope(ctx, scope, id); err != nil {
		return nil, err
	}
	m, err := s.resolve(ctx, scope, req)
	if err != nil {
		return nil, err
	}
	m.ID = id
	if err := s.maps.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *subjectMapServiceImpl) DeleteMapping(ctx context.Context, scope models.Scope, id int64) error {
	if err := s.checkScope(ctx, scope, id); err != nil {
		return err
	}
	return s.maps.Deactivate(ctx, id)
}

func (s *subjectMapServiceImpl) checkScope(ctx context.Context, scope models.Scope, id int64) error {
	if scope.Unrestricted() {
		return nil
	}
	existing, err := s.maps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !scope.Allows(existing.Program, existing.Branch) {
		return apperrors.NewForbiddenError("subject mapping belongs to another department")
	}
	return nil
}

func (s *subjectMapServiceImpl) BulkUpsertMappings(ctx context.Context, items []dto.SubjectMapRequest) *dto.BulkResult {
	return runBulk(ctx, "subject_map", items,
		func(i int, item dto.SubjectMapRequest) string {
			subject := item.SubjectCode
			if subject == "" && item.SubjectID > 0 {
				subject = fmt.Sprintf("#%d", item.SubjectID)
			}
			if subject == "" {
				return rowKey(i, "")
			}
			return fmt.Sprintf("%s/%s/%d/S%d/%s", item.Program, item.Branch, item.AdmittedYear, item.Semester, subject)
		},
		func(ctx context.Context, item dto.SubjectMapRequest) (bool, error) {
			_, created, err := s.SaveMapping(ctx, models.Scope{}, &item)
			return created, err
		},
		s.recorder)
}
