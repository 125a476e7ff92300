package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

func TestTemplateService_Generate(t *testing.T) {
	svc := NewTemplateService()

	file, err := svc.Generate("Student")
	require.NoError(t, err)
	assert.Equal(t, "Student_Upload_Template.xlsx", file.Filename)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{templateSheet}, wb.GetSheetList())
	rows, err := wb.GetRows(templateSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"roll number", "name", "dob", "branch", "program", "specialisation", "batch", "regulation"}, rows[0])

	width, err := wb.GetColWidth(templateSheet, "H")
	require.NoError(t, err)
	assert.Equal(t, float64(templateColumnWidth), width)
}

func TestTemplateService_EveryTypeRenders(t *testing.T) {
	svc := NewTemplateService()
	for _, kind := range TemplateTypes() {
		file, err := svc.Generate(kind)
		require.NoError(t, err, kind)
		assert.NotEmpty(t, file.Content, kind)
	}
}

func TestTemplateService_UnknownType(t *testing.T) {
	_, err := NewTemplateService().Generate("timetable")
	assert.ErrorIs(t, err, apperrors.ErrUnknownTemplateType)
}
