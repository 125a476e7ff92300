package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

// HODController serves the read-only views of a HOD's department. Filters
// are always narrowed to the caller's program and branch.
type HODController struct {
	departmentService services.DepartmentService
	studentService    services.StudentService
	facultyService    services.FacultyService
	subjectService    services.SubjectService
	scopes            ScopeResolver
}

// NewHODController creates a new HODController
func NewHODController(
	departmentService services.DepartmentService,
	studentService services.StudentService,
	facultyService services.FacultyService,
	subjectService services.SubjectService,
	scopes ScopeResolver,
) *HODController {
	return &HODController{
		departmentService: departmentService,
		studentService:    studentService,
		facultyService:    facultyService,
		subjectService:    subjectService,
		scopes:            scopes,
	}
}

// Batches lists the department's batches
// @Summary Department batches
// @Tags hod
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Batch}
// @Router /hod/batches [get]
func (c *HODController) Batches(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	program, branch := scope.Narrow("", "")
	batches, err := c.departmentService.ListBatches(ctx.Request.Context(), &dto.BatchFilter{Program: program, Branch: branch})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, batches)
}

// BatchStudents lists the students admitted in one year
// @Summary Students of a batch
// @Tags hod
// @Produce json
// @Security BearerAuth
// @Param admittedYear path int true "Admission year"
// @Param search query string false "Roll number or name"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse}
// @Router /hod/batch/{admittedYear}/students [get]
func (c *HODController) BatchStudents(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	year, err := strconv.Atoi(ctx.Param("admittedYear"))
	if err != nil || year <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("admittedYear must be a valid year"))
		return
	}

	var filter dto.StudentFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	filter.Program, filter.Branch = scope.Narrow(filter.Program, filter.Branch)
	filter.AdmittedYear = year

	students, err := c.studentService.ListStudents(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, students)
}

// Subjects lists the department's subjects
// @Summary Department subjects
// @Tags hod
// @Produce json
// @Security BearerAuth
// @Param semester query int false "Semester"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /hod/subjects [get]
func (c *HODController) Subjects(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	var filter dto.SubjectFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	filter.Program, filter.Branch = scope.Narrow(filter.Program, filter.Branch)

	subjects, err := c.subjectService.ListSubjects(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, subjects)
}

// Faculty lists faculty of the department's branch
// @Summary Department faculty
// @Tags hod
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, code or email"
// @Success 200 {object} dto.APIResponse{data=[]models.Faculty}
// @Router /hod/faculty [get]
func (c *HODController) Faculty(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	var filter dto.FacultyFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	_, filter.Branch = scope.Narrow("", filter.Branch)

	faculty, err := c.facultyService.ListFaculty(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, faculty)
}
