package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// StudentController manages student records
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// ListStudents lists students page by page
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param program query string false "Program code"
// @Param branch query string false "Branch code"
// @Param admittedYear query int false "Admission year"
// @Param search query string false "Roll number or name"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse}
// @Router /admin/students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var filter dto.StudentFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	students, err := c.studentService.ListStudents(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, students)
}

// GetStudent retrieves a student with the derived year and semester
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /admin/students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	student, err := c.studentService.GetStudent(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, student)
}

// CreateStudent handles student creation
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.ErrorResponse "Invalid data or roll number already exists"
// @Router /admin/students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	student, err := c.studentService.CreateStudent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeCreated(ctx, "Student created successfully", student)
}

// UpdateStudent updates a student
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.StudentRequest true "Student information"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /admin/students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	student, err := c.studentService.UpdateStudent(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, false, "Student", student)
}

// DeleteStudent deactivates a student
// @Summary Delete a student
// @Tags students
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.studentService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Student deleted successfully")
}

// BulkUploadStudents upserts students by roll number
// @Summary Bulk upload students
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkStudentsRequest true "Students"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult}
// @Router /admin/students/bulk [post]
func (c *StudentController) BulkUploadStudents(ctx *gin.Context) {
	var req dto.BulkStudentsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	writeBulk(ctx, c.studentService.BulkUpsertStudents(ctx.Request.Context(), req.Students))
}
