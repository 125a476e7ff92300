package services

import (
	"context"
	"time"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/repositories"
	"github.com/yigit/campusfeedback/internal/pkg/feedbackstats"
)

// The interfaces below are the slices of the repositories each service uses.
// The *Repository types in package repositories satisfy them.

// ProgramStore persists programs.
type ProgramStore interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Program, error)
	GetByID(ctx context.Context, id int64) (*models.Program, error)
	Create(ctx context.Context, p *models.Program) error
	Update(ctx context.Context, p *models.Program) error
	Deactivate(ctx context.Context, id int64) error
	Upsert(ctx context.Context, p *models.Program) (bool, error)
}

// BranchStore persists branches.
type BranchStore interface {
	List(ctx context.Context, program string) ([]*models.Branch, error)
	Upsert(ctx context.Context, b *models.Branch) (bool, error)
	Deactivate(ctx context.Context, id int64) error
}

// BatchStore persists batches.
type BatchStore interface {
	List(ctx context.Context, program, branch string) ([]*models.Batch, error)
	Create(ctx context.Context, b *models.Batch) error
	Update(ctx context.Context, b *models.Batch) error
	Deactivate(ctx context.Context, id int64) error
	Upsert(ctx context.Context, b *models.Batch) (bool, error)
	Count(ctx context.Context, program, branch string) (int64, error)
}

// StudentStore persists students.
type StudentStore interface {
	List(ctx context.Context, params repositories.StudentListParams) ([]*models.Student, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error)
	Create(ctx context.Context, s *models.Student) error
	Update(ctx context.Context, s *models.Student) error
	Upsert(ctx context.Context, s *models.Student) (bool, error)
	Deactivate(ctx context.Context, id int64) error
	SetPassword(ctx context.Context, id int64, hash string) error
	CountActive(ctx context.Context, program, branch string) (int64, error)
}

// FacultyStore persists faculty members.
type FacultyStore interface {
	List(ctx context.Context, branch, search string) ([]*models.Faculty, error)
	GetByID(ctx context.Context, id int64) (*models.Faculty, error)
	GetByCode(ctx context.Context, code string) (*models.Faculty, error)
	Create(ctx context.Context, f *models.Faculty) error
	Update(ctx context.Context, f *models.Faculty) error
	Upsert(ctx context.Context, f *models.Faculty) (bool, error)
	Deactivate(ctx context.Context, id int64) error
	CountActive(ctx context.Context, branch string) (int64, error)
}

// StaffStore persists admin, HOD and principal accounts.
type StaffStore interface {
	GetByID(ctx context.Context, id int64) (*models.StaffAccount, error)
	GetByLogin(ctx context.Context, login string) (*models.StaffAccount, error)
	ListByRole(ctx context.Context, role models.Role, activeOnly bool) ([]*models.StaffAccount, error)
	Create(ctx context.Context, s *models.StaffAccount) error
	Update(ctx context.Context, s *models.StaffAccount) error
	UpsertHOD(ctx context.Context, s *models.StaffAccount) (bool, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Deactivate(ctx context.Context, id int64, role models.Role) error
}

// SubjectStore persists subjects.
type SubjectStore interface {
	List(ctx context.Context, program, branch string, semester int) ([]*models.Subject, error)
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	GetByCode(ctx context.Context, code string) (*models.Subject, error)
	Create(ctx context.Context, s *models.Subject) error
	Update(ctx context.Context, s *models.Subject) error
	Upsert(ctx context.Context, s *models.Subject) (bool, error)
	Deactivate(ctx context.Context, id int64) error
	CountSemesters(ctx context.Context, program, branch string) (int64, error)
}

// SubjectMapStore persists subject-to-faculty mappings.
type SubjectMapStore interface {
	List(ctx context.Context, filter repositories.SubjectMapFilter) ([]*models.SubjectMap, error)
	GetByID(ctx context.Context, id int64) (*models.SubjectMap, error)
	Upsert(ctx context.Context, m *models.SubjectMap) (bool, error)
	Update(ctx context.Context, m *models.SubjectMap) error
	Deactivate(ctx context.Context, id int64) error
}

// QuestionStore persists feedback questions.
type QuestionStore interface {
	ListActive(ctx context.Context) ([]*models.FeedbackQuestion, error)
	ReplaceAll(ctx context.Context, questions []*models.FeedbackQuestion) error
}

// WindowStore persists feedback windows.
type WindowStore interface {
	List(ctx context.Context, filter repositories.WindowFilter) ([]*models.FeedbackWindow, error)
	GetByID(ctx context.Context, id int64) (*models.FeedbackWindow, error)
	Latest(ctx context.Context, filter repositories.WindowFilter, excludeDrafts bool) (*models.FeedbackWindow, error)
	Save(ctx context.Context, w *models.FeedbackWindow, now time.Time) (bool, error)
	Close(ctx context.Context, id int64, now time.Time) (*models.FeedbackWindow, error)
	CountLive(ctx context.Context, program, branch string, now time.Time) (int64, error)
}

// FeedbackStore persists submitted feedback.
type FeedbackStore interface {
	Create(ctx context.Context, f *models.Feedback) error
	Exists(ctx context.Context, studentID, subjectMapID, windowID int64) (bool, error)
	SubmittedMapIDs(ctx context.Context, studentID, windowID int64) (map[int64]bool, error)
	Submissions(ctx context.Context, subjectMapID, windowID int64) ([]feedbackstats.Submission, error)
}

// TokenStore persists refresh tokens.
type TokenStore interface {
	CreateToken(ctx context.Context, token string, subjectID int64, role models.Role, expiryDate time.Time) error
	GetToken(ctx context.Context, token string, now time.Time) (*repositories.RefreshToken, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, subjectID int64, role models.Role) error
}

// ResetTokenStore persists password reset tokens.
type ResetTokenStore interface {
	CreateToken(ctx context.Context, staffID int64, token string, expiryDate time.Time) error
	ConsumeToken(ctx context.Context, token string, now time.Time) (int64, error)
	DeleteTokensByStaffID(ctx context.Context, staffID int64) error
}

// StatsStore runs dashboard aggregates.
type StatsStore interface {
	Institution(ctx context.Context) (*repositories.InstitutionCounts, error)
	Departments(ctx context.Context) ([]repositories.DepartmentCounts, error)
}

// StatusEvictor drops cached account state after an account changes.
type StatusEvictor interface {
	Evict(ctx context.Context, role string, id int64) error
}

// BulkRecorder counts bulk upload outcomes.
type BulkRecorder interface {
	BulkItems(entity string, succeeded, failed int)
}
