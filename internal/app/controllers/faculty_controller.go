package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// FacultyController manages teaching staff and subjects
type FacultyController struct {
	facultyService services.FacultyService
	subjectService services.SubjectService
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(facultyService services.FacultyService, subjectService services.SubjectService) *FacultyController {
	return &FacultyController{
		facultyService: facultyService,
		subjectService: subjectService,
	}
}

// ListFaculty lists faculty members
// @Summary List faculty
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Param branch query string false "Branch code"
// @Param search query string false "Name, code or email"
// @Success 200 {object} dto.APIResponse{data=[]models.Faculty}
// @Router /admin/faculty [get]
func (c *FacultyController) ListFaculty(ctx *gin.Context) {
	var filter dto.FacultyFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	faculty, err := c.facultyService.ListFaculty(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, faculty)
}

// GetFaculty retrieves a faculty member by ID
// @Summary Get faculty by ID
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Param id path int true "Faculty ID"
// @Success 200 {object} dto.APIResponse{data=models.Faculty}
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /admin/faculty/{id} [get]
func (c *FacultyController) GetFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	faculty, err := c.facultyService.GetFaculty(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, faculty)
}

// CreateFaculty handles faculty creation
// @Summary Create a faculty member
// @Tags faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FacultyRequest true "Faculty information"
// @Success 201 {object} dto.APIResponse{data=models.Faculty}
// @Failure 400 {object} dto.ErrorResponse "Invalid data or faculty code already exists"
// @Router /admin/faculty [post]
func (c *FacultyController) CreateFaculty(ctx *gin.Context) {
	var req dto.FacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	faculty, err := c.facultyService.CreateFaculty(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeCreated(ctx, "Faculty created successfully", faculty)
}

// UpdateFaculty updates a faculty member
// @Summary Update a faculty member
// @Tags faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Faculty ID"
// @Param request body dto.FacultyRequest true "Faculty information"
// @Success 200 {object} dto.APIResponse{data=models.Faculty}
// @Router /admin/faculty/{id} [put]
func (c *FacultyController) UpdateFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.FacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	faculty, err := c.facultyService.UpdateFaculty(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, false, "Faculty", faculty)
}

// DeleteFaculty deactivates a faculty member
// @Summary Delete a faculty member
// @Tags faculty
// @Security BearerAuth
// @Param id path int true "Faculty ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/faculty/{id} [delete]
func (c *FacultyController) DeleteFaculty(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.facultyService.DeleteFaculty(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Faculty deleted successfully")
}

// BulkUploadFaculty upserts faculty by code
// @Summary Bulk upload faculty
// @Tags faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkFacultyRequest true "Faculty"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult}
// @Router /admin/faculty/bulk [post]
func (c *FacultyController) BulkUploadFaculty(ctx *gin.Context) {
	var req dto.BulkFacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	writeBulk(ctx, c.facultyService.BulkUpsertFaculty(ctx.Request.Context(), req.Faculty))
}

// ListSubjects lists subjects
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param program query string false "Program code"
// @Param branch query string false "Branch code"
// @Param semester query int false "Semester"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Router /admin/subjects [get]
func (c *FacultyController) ListSubjects(ctx *gin.Context) {
	var filter dto.SubjectFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	subjects, err := c.subjectService.ListSubjects(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, subjects)
}

// CreateSubject handles subject creation
// @Summary Create a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=models.Subject}
// @Router /admin/subjects [post]
func (c *FacultyController) CreateSubject(ctx *gin.Context) {
	var req dto.SubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	subject, err := c.subjectService.CreateSubject(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeCreated(ctx, "Subject created successfully", subject)
}

// UpdateSubject updates a subject
// @Summary Update a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param request body dto.SubjectRequest true "Subject information"
// @Success 200 {object} dto.APIResponse{data=models.Subject}
// @Router /admin/subjects/{id} [put]
func (c *FacultyController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.SubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	subject, err := c.subjectService.UpdateSubject(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, false, "Subject", subject)
}

// DeleteSubject deactivates a subject
// @Summary Delete a subject
// @Tags subjects
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/subjects/{id} [delete]
func (c *FacultyController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.subjectService.DeleteSubject(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Subject deleted successfully")
}

// BulkUploadSubjects upserts subjects
// @Summary Bulk upload subjects
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkSubjectsRequest true "Subjects"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult}
// @Router /admin/subjects/bulk [post]
func (c *FacultyController) BulkUploadSubjects(ctx *gin.Context) {
	var req dto.BulkSubjectsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	writeBulk(ctx, c.subjectService.BulkUpsertSubjects(ctx.Request.Context(), req.Subjects))
}
