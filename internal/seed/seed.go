// Package seed creates the reference data a fresh installation needs.
package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/pkg/auth"
)

// ProgramStore is the part of the program repository the seeder uses.
type ProgramStore interface {
	List(ctx context.Context, activeOnly bool) ([]*appModels.Program, error)
	Create(ctx context.Context, p *appModels.Program) error
}

// QuestionStore is the part of the question repository the seeder uses.
type QuestionStore interface {
	Count(ctx context.Context) (int64, error)
	ReplaceAll(ctx context.Context, questions []*appModels.FeedbackQuestion) error
}

// StaffStore is the part of the staff repository the seeder uses.
type StaffStore interface {
	CountByRole(ctx context.Context, role appModels.Role) (int64, error)
	Create(ctx context.Context, s *appModels.StaffAccount) error
}

// Stores bundles what CreateDefaultData writes to.
type Stores struct {
	Programs  ProgramStore
	Questions QuestionStore
	Staff     StaffStore
}

// Options controls the bootstrap admin account.
type Options struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// DefaultPrograms are created when missing, keyed by name.
var DefaultPrograms = []appModels.Program{
	{Name: "BTECH", Code: "BTECH", Duration: 4},
	{Name: "MTECH", Code: "MTECH", Duration: 2},
	{Name: "MBA", Code: "MBA", Duration: 2},
	{Name: "MCA", Code: "MCA", Duration: 2},
}

// DefaultQuestions is the question set of a fresh installation.
var DefaultQuestions = []string{
	"Knowledge of the subject",
	"Clarity of explanation",
	"Punctuality and regularity",
	"Completion of the syllabus in time",
	"Encouragement of questions and discussion",
	"Availability outside the classroom",
	"Fairness in evaluation",
	"Overall teaching effectiveness",
}

// CreateDefaultData seeds programs, feedback questions and the first admin.
// Each step runs even when an earlier one failed; the errors are joined.
func CreateDefaultData(ctx context.Context, stores Stores, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data...")

	var finalErr error
	if err := seedPrograms(ctx, stores.Programs, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default programs")
		finalErr = errors.Join(finalErr, err)
	}
	if err := seedQuestions(ctx, stores.Questions, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default feedback questions")
		finalErr = errors.Join(finalErr, err)
	}
	if err := seedAdmin(ctx, stores.Staff, opts, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating bootstrap admin")
		finalErr = errors.Join(finalErr, err)
	}
	return finalErr
}

func seedPrograms(ctx context.Context, programs ProgramStore, lgr zerolog.Logger) error {
	existing, err := programs.List(ctx, false)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[strings.ToUpper(p.Name)] = true
	}

	for _, def := range DefaultPrograms {
		if known[def.Name] {
			continue
		}
		p := def
		p.IsActive = true
		if err := programs.Create(ctx, &p); err != nil {
			return err
		}
		lgr.Info().Str("program", p.Name).Int("duration", p.Duration).Msg("Created default program")
	}
	return nil
}

func seedQuestions(ctx context.Context, questions QuestionStore, lgr zerolog.Logger) error {
	n, err := questions.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	set := make([]*appModels.FeedbackQuestion, len(DefaultQuestions))
	for i, criteria := range DefaultQuestions {
		set[i] = &appModels.FeedbackQuestion{SerialNo: i + 1, Criteria: criteria}
	}
	if err := questions.ReplaceAll(ctx, set); err != nil {
		return err
	}
	lgr.Info().Int("count", len(set)).Msg("Created default feedback questions")
	return nil
}

func seedAdmin(ctx context.Context, staff StaffStore, opts Options, lgr zerolog.Logger) error {
	n, err := staff.CountByRole(ctx, appModels.RoleAdmin)
	if err != nil || n > 0 {
		return err
	}
	if opts.AdminPassword == "" {
		lgr.Warn().Msg("No admin account exists and BOOTSTRAP_ADMIN_PASSWORD is not set; use the admin CLI to create one")
		return nil
	}

	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}
	username := opts.AdminUsername
	if username == "" {
		username = "admin"
	}
	email := opts.AdminEmail
	if email == "" {
		email = "admin@campusfeedback.local"
	}
	admin := &appModels.StaffAccount{
		Username:     strings.ToLower(username),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         appModels.RoleAdmin,
		IsActive:     true,
	}
	if err := staff.Create(ctx, admin); err != nil {
		return err
	}
	lgr.Info().Str("username", admin.Username).Msg("Created bootstrap admin account")
	return nil
}
