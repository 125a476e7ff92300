package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusfeedback/internal/app/models"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
)

type evictions struct {
	keys []string
}

func (e *evictions) Evict(_ context.Context, role string, _ int64) error {
	e.keys = append(e.keys, role)
	return nil
}

func TestBulkUpsertStudents_PartialFailure(t *testing.T) {
	existing := &models.Student{RollNo: "21A91A0501", Name: "Old Name", Program: "BTECH", AdmittedYear: 2023, IsActive: true}
	students := newFakeStudents(existing)
	recorder := &fakeRecorder{}
	cache := &evictions{}
	svc := NewStudentService(students, testDurations(), cache, recorder)

	items := []dto.StudentRequest{
		{RollNo: "21a91a0501", Name: "A. Kumar", DOB: "01-05-2004", Program: "BTECH", Branch: "CSE", AdmittedYear: 2023},
		{RollNo: "21A91A0502", Name: "B. Rani", DOB: "2004/7/9", Program: "B.Tech", Branch: "CSE", AdmittedYear: 2023},
		{RollNo: "21A91A0503", Name: "No DOB", Program: "BTECH", Branch: "CSE", AdmittedYear: 2023},
		{RollNo: "21A91A0504", Name: "Wrong program", DOB: "2004-01-01", Program: "PHD", AdmittedYear: 2023},
		{RollNo: "22A91A0505", Name: "C. Das", DOB: "12/12/2005", Program: "MBA", AdmittedYear: 2024},
	}

	result := svc.BulkUpsertStudents(context.Background(), items)

	require.Len(t, result.Success, 3)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, dto.BulkItemSuccess{Key: "21A91A0501", Action: "updated"}, result.Success[0])
	assert.Equal(t, "created", result.Success[1].Action)
	assert.Equal(t, "21A91A0503", result.Failed[0].Key)
	assert.Contains(t, result.Failed[0].Error, "dob")
	assert.Equal(t, "21A91A0504", result.Failed[1].Key)

	assert.Equal(t, "student", recorder.entity)
	assert.Equal(t, 3, recorder.succeeded)
	assert.Equal(t, 2, recorder.failed)
	assert.Equal(t, []string{"STUDENT"}, cache.keys)

	updated, err := students.GetByRollNo(context.Background(), "21A91A0501")
	require.NoError(t, err)
	assert.Equal(t, "A. Kumar", updated.Name)
	assert.Equal(t, "2004-05-01", updated.DOB.Format("2006-01-02"))
}

func TestBulkUpsertHODs_WelcomesNewAccountsOnly(t *testing.T) {
	staff := newFakeStaff(&models.StaffAccount{
		Username: "hod.ece", Email: "hod.ece@college.test", Role: models.RoleHOD, Program: "BTECH", Branch: "ECE", IsActive: true,
	})
	mailer := &fakeMailer{}
	recorder := &fakeRecorder{}
	svc := NewUserService(staff, newFakeResetTokens(), mailer, 0, nil, recorder)

	result := svc.BulkUpsertHODs(context.Background(), []dto.HODRequest{
		{Name: "Dr. Rao", Email: "HOD.CSE@college.test", Branch: "CSE"},
		{Name: "Dr. Sen", Email: "hod.ece@college.test", Branch: "ECE"},
		{Name: "No Email", Branch: "EEE"},
	})

	require.Len(t, result.Success, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "row 3", result.Failed[0].Key)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "hod.cse@college.test", mailer.sent[0].to)
	assert.True(t, mailer.sent[0].welcome)

	created, err := staff.GetByLogin(context.Background(), "hod.cse")
	require.NoError(t, err)
	assert.Equal(t, "BTECH", created.Program)
	assert.Equal(t, "HOD", created.Designation)
}

func TestRowKey(t *testing.T) {
	assert.Equal(t, "CS301", rowKey(0, "CS301"))
	assert.Equal(t, "row 4", rowKey(3, ""))
}
