package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appModels "github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/pkg/auth"
)

type memPrograms struct {
	programs []*appModels.Program
}

func (m *memPrograms) List(context.Context, bool) ([]*appModels.Program, error) {
	return m.programs, nil
}

func (m *memPrograms) Create(_ context.Context, p *appModels.Program) error {
	p.ID = int64(len(m.programs) + 1)
	m.programs = append(m.programs, p)
	return nil
}

type memQuestions struct {
	questions []*appModels.FeedbackQuestion
	err       error
}

func (m *memQuestions) Count(context.Context) (int64, error) {
	return int64(len(m.questions)), m.err
}

func (m *memQuestions) ReplaceAll(_ context.Context, qs []*appModels.FeedbackQuestion) error {
	m.questions = qs
	return nil
}

type memStaff struct {
	accounts []*appModels.StaffAccount
}

func (m *memStaff) CountByRole(_ context.Context, role appModels.Role) (int64, error) {
	var n int64
	for _, a := range m.accounts {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *memStaff) Create(_ context.Context, s *appModels.StaffAccount) error {
	m.accounts = append(m.accounts, s)
	return nil
}

func TestCreateDefaultData_FreshInstall(t *testing.T) {
	programs := &memPrograms{programs: []*appModels.Program{{ID: 1, Name: "btech", Duration: 4}}}
	questions := &memQuestions{}
	staff := &memStaff{}

	err := CreateDefaultData(context.Background(),
		Stores{Programs: programs, Questions: questions, Staff: staff},
		Options{AdminPassword: "s3cret-pass"}, zerolog.Nop())
	require.NoError(t, err)

	assert.Len(t, programs.programs, len(DefaultPrograms))
	require.Len(t, questions.questions, len(DefaultQuestions))
	assert.Equal(t, 1, questions.questions[0].SerialNo)

	require.Len(t, staff.accounts, 1)
	admin := staff.accounts[0]
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, appModels.RoleAdmin, admin.Role)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "s3cret-pass"))
}

func TestCreateDefaultData_Idempotent(t *testing.T) {
	programs := &memPrograms{}
	questions := &memQuestions{}
	staff := &memStaff{}
	stores := Stores{Programs: programs, Questions: questions, Staff: staff}

	require.NoError(t, CreateDefaultData(context.Background(), stores, Options{AdminPassword: "s3cret-pass"}, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(context.Background(), stores, Options{AdminPassword: "s3cret-pass"}, zerolog.Nop()))

	assert.Len(t, programs.programs, len(DefaultPrograms))
	assert.Len(t, questions.questions, len(DefaultQuestions))
	assert.Len(t, staff.accounts, 1)
}

func TestCreateDefaultData_NoAdminPassword(t *testing.T) {
	staff := &memStaff{}
	err := CreateDefaultData(context.Background(),
		Stores{Programs: &memPrograms{}, Questions: &memQuestions{}, Staff: staff},
		Options{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, staff.accounts)
}

func TestCreateDefaultData_JoinsErrors(t *testing.T) {
	boom := errors.New("relation does not exist")
	programs := &memPrograms{}
	err := CreateDefaultData(context.Background(),
		Stores{Programs: programs, Questions: &memQuestions{err: boom}, Staff: &memStaff{}},
		Options{}, zerolog.Nop())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, programs.programs, len(DefaultPrograms))
}
