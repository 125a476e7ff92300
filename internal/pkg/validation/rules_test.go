package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

type sample struct {
	RollNo       string `json:"rollNo" binding:"required,rollno"`
	AcademicYear string `json:"academicYear" binding:"omitempty,academicyear"`
	Semester     int    `json:"semester" binding:"min=1,max=12"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{RollNo: "21A91A0501", AcademicYear: "2024-25", Semester: 3}))
	require.NoError(t, Struct(sample{RollNo: "21A91A0501", Semester: 1}))

	err := Struct(sample{RollNo: "", Semester: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "rollNo is required")
	assert.Contains(t, err.Error(), "semester must be at least 1")

	err = Struct(sample{RollNo: "21/A", AcademicYear: "24-25", Semester: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollNo must be 4-20 letters or digits")
	assert.Contains(t, err.Error(), "academicYear must look like 2024-25")
}

func TestPatterns(t *testing.T) {
	assert.True(t, CompiledPatterns.AcademicYear.MatchString("2024-2025"))
	assert.True(t, CompiledPatterns.FacultyCode.MatchString("CSE-017"))
	assert.False(t, CompiledPatterns.FacultyCode.MatchString("x"))
}
