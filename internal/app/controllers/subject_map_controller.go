package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// SubjectMapController manages subject to faculty mappings. Admins act on
// every program; a HOD only on their own program and branch.
type SubjectMapController struct {
	mapService services.SubjectMapService
	scopes     ScopeResolver
}

// NewSubjectMapController creates a new SubjectMapController
func NewSubjectMapController(mapService services.SubjectMapService, scopes ScopeResolver) *SubjectMapController {
	return &SubjectMapController{mapService: mapService, scopes: scopes}
}

// ListMappings lists subject mappings with the faculty and subject embedded
// @Summary List subject mappings
// @Tags subject-mapping
// @Produce json
// @Security BearerAuth
// @Param program query string false "Program code"
// @Param branch query string false "Branch code"
// @Param admittedYear query int false "Batch admission year"
// @Param semester query int false "Semester"
// @Success 200 {object} dto.APIResponse{data=[]models.SubjectMap}
// @Router /admin/subject-mapping [get]
// @Router /hod/subject-mapping [get]
func (c *SubjectMapController) ListMappings(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	var filter dto.SubjectMapFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	mappings, err := c.mapService.ListMappings(ctx.Request.Context(), scope, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, mappings)
}

// SaveMapping binds a faculty member to a subject for a batch and semester.
// An existing mapping of the same subject is rebound to the new faculty.
// @Summary Create or rebind a subject mapping
// @Tags subject-mapping
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubjectMapRequest true "Mapping"
// @Success 200 {object} dto.APIResponse{data=models.SubjectMap} "Mapping rebound"
// @Success 201 {object} dto.APIResponse{data=models.SubjectMap} "Mapping created"
// @Failure 403 {object} dto.ErrorResponse "Outside the caller's department"
// @Failure 404 {object} dto.ErrorResponse "Subject or faculty not found"
// @Router /admin/subject-mapping [post]
// @Router /hod/subject-mapping [post]
func (c *SubjectMapController) SaveMapping(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	var req dto.SubjectMapRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	mapping, wasCreated, err := c.mapService.SaveMapping(ctx.Request.Context(), scope, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, wasCreated, "Subject mapping", mapping)
}

// UpdateMapping updates a subject mapping
// @Summary Update a subject mapping
// @Tags subject-mapping
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mapping ID"
// @Param request body dto.SubjectMapRequest true "Mapping"
// @Success 200 {object} dto.APIResponse{data=models.SubjectMap}
// @Router /admin/subject-mapping/{id} [put]
func (c *SubjectMapController) UpdateMapping(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.SubjectMapRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	mapping, err := c.mapService.UpdateMapping(ctx.Request.Context(), scope, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, false, "Subject mapping", mapping)
}

// DeleteMapping deactivates a subject mapping
// @Summary Delete a subject mapping
// @Tags subject-mapping
// @Security BearerAuth
// @Param id path int true "Mapping ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/subject-mapping/{id} [delete]
func (c *SubjectMapController) DeleteMapping(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.mapService.DeleteMapping(ctx.Request.Context(), scope, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Subject mapping deleted successfully")
}

// BulkUploadMappings upserts subject mappings
// @Summary Bulk upload subject mappings
// @Tags subject-mapping
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkSubjectMapsRequest true "Mappings"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult}
// @Router /admin/subject-mapping/bulk [post]
func (c *SubjectMapController) BulkUploadMappings(ctx *gin.Context) {
	var req dto.BulkSubjectMapsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	writeBulk(ctx, c.mapService.BulkUpsertMappings(ctx.Request.Context(), req.Mappings))
}
