package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
	"github.com/yigit/campusfeedback/internal/pkg/auth"
	"github.com/yigit/campusfeedback/internal/pkg/email"
	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// defaultHODProgram is used for HOD rows that omit the program column.
const defaultHODProgram = "BTECH"

// NewStaffInput describes an account created outside the HOD flow, by the
// admin CLI or the startup seed.
type NewStaffInput struct {
	Role        models.Role
	Username    string
	Email       string
	Name        string
	Program     string
	Branch      string
	Designation string
	Password    string
}

// UserService manages staff accounts and profiles.
type UserService interface {
	ListHODs(ctx context.Context) ([]*models.StaffAccount, error)
	CreateHOD(ctx context.Context, req *dto.HODRequest) (*dto.CreatedHODResponse, error)
	UpdateHOD(ctx context.Context, id int64, req *dto.HODRequest) (*models.StaffAccount, error)
	DeleteHOD(ctx context.Context, id int64) error
	BulkUpsertHODs(ctx context.Context, items []dto.HODRequest) *dto.BulkResult
	GetStaffProfile(ctx context.Context, id int64) (*dto.StaffProfile, error)
	CreateStaff(ctx context.Context, in NewStaffInput) (*models.StaffAccount, error)
	SetStaffPassword(ctx context.Context, login, password string) error
}

type userServiceImpl struct {
	staff    StaffStore
	links    *resetLinks
	cache    StatusEvictor
	recorder BulkRecorder
}

// NewUserService creates a new UserService
func NewUserService(
	staff StaffStore,
	resetTokens ResetTokenStore,
	mailer email.EmailService,
	resetTTL time.Duration,
	cache StatusEvictor,
	recorder BulkRecorder,
) UserService {
	return &userServiceImpl{
		staff:    staff,
		links:    newResetLinks(resetTokens, mailer, resetTTL),
		cache:    cache,
		recorder: recorder,
	}
}

func hodFromRequest(req *dto.HODRequest) (*models.StaffAccount, error) {
	mail := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.SplitN(mail, "@", 2)[0]
	}
	program := strings.TrimSpace(req.Program)
	if program == "" {
		program = defaultHODProgram
	}
	designation := strings.TrimSpace(req.Designation)
	if designation == "" {
		designation = "HOD"
	}

	password, err := auth.RandomPassword()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.StaffAccount{
		Username:     strings.ToLower(username),
		Email:        mail,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         models.RoleHOD,
		Program:      program,
		Branch:       strings.TrimSpace(req.Branch),
		Designation:  designation,
		IsActive:     boolOr(req.IsActive, true),
	}, nil
}

func (s *userServiceImpl) ListHODs(ctx context.Context) ([]*models.StaffAccount, error) {
	hods, err := s.staff.ListByRole(ctx, models.RoleHOD, false)
	if err != nil {
		return nil, fmt.Errorf("error listing HODs: %w", err)
	}
	return hods, nil
}

// CreateHOD creates the account with a random password and mails a
// set-password link.
func (s *userServiceImpl) CreateHOD(ctx context.Context, req *dto.HODRequest) (*dto.CreatedHODResponse, error) {
	hod, err := hodFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.staff.Create(ctx, hod); err != nil {
		return nil, err
	}
	logger.Info().Str("username", hod.Username).Str("branch", hod.Branch).Msg("HOD account created")

	sent := s.links.sendWelcome(ctx, hod)
	return &dto.CreatedHODResponse{HOD: hod, ResetLinkSent: sent}, nil
}

func (s *userServiceImpl) UpdateHOD(ctx context.Context, id int64, req *dto.HODRequest) (*models.StaffAccount, error) {
	current, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Role != models.RoleHOD {
		return nil, apperrors.ErrStaffNotFound
	}

	hod, err := hodFromRequest(req)
	if err != nil {
		return nil, err
	}
	hod.ID = id
	if strings.TrimSpace(req.Username) == "" {
		hod.Username = current.Username
	}
	if err := s.staff.Update(ctx, hod); err != nil {
		return nil, err
	}
	s.evict(ctx, models.RoleHOD, id)
	return hod, nil
}

func (s *userServiceImpl) DeleteHOD(ctx context.Context, id int64) error {
	if err := s.staff.Deactivate(ctx, id, models.RoleHOD); err != nil {
		return err
	}
	s.evict(ctx, models.RoleHOD, id)
	return nil
}

// BulkUpsertHODs upserts HODs by email. New accounts get a set-password link.
func (s *userServiceImpl) BulkUpsertHODs(ctx context.Context, items []dto.HODRequest) *dto.BulkResult {
	return runBulk(ctx, "hod", items,
		func(i int, item dto.HODRequest) string {
			return rowKey(i, strings.ToLower(strings.TrimSpace(item.Email)))
		},
		func(ctx context.Context, item dto.HODRequest) (bool, error) {
			hod, err := hodFromRequest(&item)
			if err != nil {
				return false, err
			}
			created, err := s.staff.UpsertHOD(ctx, hod)
			if err != nil {
				return false, err
			}
			if created {
				s.links.sendWelcome(ctx, hod)
			} else {
				s.evict(ctx, models.RoleHOD, hod.ID)
			}
			return created, nil
		},
		s.recorder)
}

func (s *userServiceImpl) GetStaffProfile(ctx context.Context, id int64) (*dto.StaffProfile, error) {
	account, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.StaffProfile{
		ID:          account.ID,
		Username:    account.Username,
		Email:       account.Email,
		Name:        account.Name,
		Role:        string(account.Role),
		Program:     account.Program,
		Branch:      account.Branch,
		Designation: account.Designation,
	}, nil
}

// CreateStaff creates an account of any staff role with a known password.
func (s *userServiceImpl) CreateStaff(ctx context.Context, in NewStaffInput) (*models.StaffAccount, error) {
	if !in.Role.IsStaff() {
		return nil, validationErrorf("role %q is not a staff role", in.Role)
	}
	if in.Role == models.RoleHOD && strings.TrimSpace(in.Branch) == "" {
		return nil, validationErrorf("a HOD needs a branch")
	}
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, validationErrorf("username and email are required")
	}
	if len(in.Password) < auth.MinPasswordLength {
		return nil, validationErrorf("password must be at least %d characters", auth.MinPasswordLength)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	account := &models.StaffAccount{
		Username:     strings.ToLower(strings.TrimSpace(in.Username)),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		Program:      strings.TrimSpace(in.Program),
		Branch:       strings.TrimSpace(in.Branch),
		Designation:  strings.TrimSpace(in.Designation),
		IsActive:     true,
	}
	if err := s.staff.Create(ctx, account); err != nil {
		return nil, err
	}
	logger.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("Staff account created")
	return account, nil
}

// SetStaffPassword overwrites the password of the account matching login.
func (s *userServiceImpl) SetStaffPassword(ctx context.Context, login, password string) error {
	if len(password) < auth.MinPasswordLength {
		return validationErrorf("password must be at least %d characters", auth.MinPasswordLength)
	}
	account, err := s.staff.GetByLogin(ctx, login)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.staff.UpdatePassword(ctx, account.ID, hash)
}

func (s *userServiceImpl) evict(ctx context.Context, role models.Role, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Evict(ctx, string(role), id); err != nil {
		logger.Warn().Err(err).Int64("staffID", id).Msg("Failed to evict cached account status")
	}
}
