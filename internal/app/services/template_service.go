package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

const (
	templateSheet       = "Template"
	templateColumnWidth = 20
)

type uploadTemplate struct {
	filename string
	headers  []string
}

var uploadTemplates = map[string]uploadTemplate{
	"batch":   {"Batch_Upload_Template.xlsx", []string{"program", "batch year"}},
	"program": {"Program_Upload_Template.xlsx", []string{"program", "duration"}},
	"branch":  {"Branch_Upload_Template.xlsx", []string{"program", "branch", "specialisation"}},
	"hod":     {"HOD_Upload_Template.xlsx", []string{"name", "email", "branch", "designation"}},
	"student": {"Student_Upload_Template.xlsx", []string{
		"roll number", "name", "dob", "branch", "program", "specialisation", "batch", "regulation",
	}},
	"faculty": {"Faculty_Upload_Template.xlsx", []string{"name", "email", "branch", "designation"}},
	"subject": {"Subject_Upload_Template.xlsx", []string{
		"subject code", "name", "program", "branch", "regulation", "year", "semester", "type",
	}},
	"feedback_questions": {"Feedback_Questions_Template.xlsx", []string{"S.No", "Criteria"}},
	"feedback_mapping": {"Feedback_Mapping_Template.xlsx", []string{
		"Map ID", "Program", "Batch Year", "Branch", "Year", "Semester", "Subject Code", "Faculty Code",
	}},
}

// TemplateTypes lists the supported template names.
func TemplateTypes() []string {
	return []string{"batch", "program", "branch", "hod", "student", "faculty", "subject", "feedback_questions", "feedback_mapping"}
}

// TemplateFile is a generated spreadsheet ready to be served.
type TemplateFile struct {
	Filename string
	Content  []byte
}

// TemplateService renders bulk upload templates.
type TemplateService interface {
	Generate(kind string) (*TemplateFile, error)
}

type templateServiceImpl struct{}

// NewTemplateService creates a new TemplateService
func NewTemplateService() TemplateService {
	return &templateServiceImpl{}
}

// Generate builds a workbook with a single header row for kind.
func (s *templateServiceImpl) Generate(kind string) (*TemplateFile, error) {
	tpl, ok := uploadTemplates[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownTemplateType, kind)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return nil, fmt.Errorf("error naming template sheet: %w", err)
	}
	for i, header := range tpl.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(templateSheet, cell, header); err != nil {
			return nil, fmt.Errorf("error writing template header: %w", err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(tpl.headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(templateSheet, "A", last, templateColumnWidth); err != nil {
		return nil, fmt.Errorf("error sizing template columns: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing template workbook: %w", err)
	}
	return &TemplateFile{Filename: tpl.filename, Content: buf.Bytes()}, nil
}
