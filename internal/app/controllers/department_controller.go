package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// DepartmentController manages programs, branches and batches
type DepartmentController struct {
	departmentService services.DepartmentService
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService services.DepartmentService) *DepartmentController {
	return &DepartmentController{
		departmentService: departmentService,
	}
}

// ListPrograms lists programs
// @Summary List programs
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active programs"
// @Success 200 {object} dto.APIResponse{data=[]models.Program} "Programs retrieved successfully"
// @Router /admin/programs [get]
func (c *DepartmentController) ListPrograms(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.Query("active"))
	programs, err := c.departmentService.ListPrograms(ctx.Request.Context(), activeOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, programs)
}

// CreateProgram handles program creation
// @Summary Create a new program
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProgramRequest true "Program information"
// @Success 201 {object} dto.APIResponse{data=models.Program} "Program created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or program already exists"
// @Router /admin/programs [post]
func (c *DepartmentController) CreateProgram(ctx *gin.Context) {
	var req dto.ProgramRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	program, err := c.departmentService.CreateProgram(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeCreated(ctx, "Program created successfully", program)
}

// UpdateProgram updates a program
// @Summary Update a program
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Param request body dto.ProgramRequest true "Program information"
// @Success 200 {object} dto.APIResponse{data=models.Program} "Program updated successfully"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /admin/programs/{id} [put]
func (c *DepartmentController) UpdateProgram(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ProgramRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	program, err := c.departmentService.UpdateProgram(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, false, "Program", program)
}

// DeleteProgram deactivates a program
// @Summary Delete a program
// @Tags programs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program ID"
// @Success 200 {object} dto.APIResponse "Program deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Router /admin/programs/{id} [delete]
func (c *DepartmentController) DeleteProgram(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.departmentService.DeleteProgram(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Program deleted successfully")
}

// BulkUploadPrograms upserts programs by code
// @Summary Bulk upload programs
// @Tags programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkProgramsRequest true "Programs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult} "Per-row outcome"
// @Router /admin/programs/bulk [post]
func (c *DepartmentController) BulkUploadPrograms(ctx *gin.Context) {
	var req dto.BulkProgramsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	writeBulk(ctx, c.departmentService.BulkUpsertPrograms(ctx.Request.Context(), req.Programs))
}

// ListBranches lists the branches of a program
// @Summary List branches
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Param program query string false "Program code"
// @Success 200 {object} dto.APIResponse{data=[]models.Branch}
// @Router /admin/branches [get]
func (c *DepartmentController) ListBranches(ctx *gin.Context) {
	branches, err := c.departmentService.ListBranches(ctx.Request.Context(), ctx.Query("program"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, branches)
}

// SaveBranch creates or updates a branch keyed by program and code
// @Summary Create or update a branch
// @Tags branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BranchRequest true "Branch information"
// @Success 200 {object} dto.APIResponse{data=models.Branch} "Branch updated"
// @Success 201 {object} dto.APIResponse{data=models.Branch} "Branch created"
// @Router /admin/branches [post]
func (c *DepartmentController) SaveBranch(ctx *gin.Context) {
	var req dto.BranchRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	branch, wasCreated, err := c.departmentService.SaveBranch(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, wasCreated, "Branch", branch)
}

// DeleteBranch removes a branch
// @Summary Delete a branch
// @Tags branches
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/branches/{id} [delete]
func (c *DepartmentController) DeleteBranch(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.departmentService.DeleteBranch(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Branch deleted successfully")
}

// BulkUploadBranches upserts branches
// @Summary Bulk upload branches
// @Tags branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkBranchesRequest true "Branches"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult}
// @Router /admin/branches/bulk [post]
func (c *DepartmentController) BulkUploadBranches(ctx *gin.Context) {
	var req dto.BulkBranchesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	writeBulk(ctx, c.departmentService.BulkUpsertBranches(ctx.Request.Context(), req.Branches))
}

// ListBatches lists batches
// @Summary List batches
// @Tags batches
// @Produce json
// @Security BearerAuth
// @Param program query string false "Program code"
// @Param branch query string false "Branch code"
// @Success 200 {object} dto.APIResponse{data=[]models.Batch}
// @Router /admin/batches [get]
func (c *DepartmentController) ListBatches(ctx *gin.Context) {
	var filter dto.BatchFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	batches, err := c.departmentService.ListBatches(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, batches)
}

// CreateBatch handles batch creation
// @Summary Create a batch
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BatchRequest true "Batch information"
// @Success 201 {object} dto.APIResponse{data=models.Batch}
// @Failure 400 {object} dto.ErrorResponse "Unknown program or batch already exists"
// @Router /admin/batches [post]
func (c *DepartmentController) CreateBatch(ctx *gin.Context) {
	var req dto.BatchRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	batch, err := c.departmentService.CreateBatch(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeCreated(ctx, "Batch created successfully", batch)
}

// UpdateBatch updates a batch
// @Summary Update a batch
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Param request body dto.BatchRequest true "Batch information"
// @Success 200 {object} dto.APIResponse{data=models.Batch}
// @Router /admin/batches/{id} [put]
func (c *DepartmentController) UpdateBatch(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.BatchRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	batch, err := c.departmentService.UpdateBatch(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, false, "Batch", batch)
}

// DeleteBatch deactivates a batch
// @Summary Delete a batch
// @Tags batches
// @Security BearerAuth
// @Param id path int true "Batch ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/batches/{id} [delete]
func (c *DepartmentController) DeleteBatch(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.departmentService.DeleteBatch(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "Batch deleted successfully")
}

// BulkUploadBatches upserts batches
// @Summary Bulk upload batches
// @Tags batches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkBatchesRequest true "Batches"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult}
// @Router /admin/batches/bulk [post]
func (c *DepartmentController) BulkUploadBatches(ctx *gin.Context) {
	var req dto.BulkBatchesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	writeBulk(ctx, c.departmentService.BulkUpsertBatches(ctx.Request.Context(), req.Batches))
}
