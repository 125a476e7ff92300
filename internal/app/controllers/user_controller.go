package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// UserController manages HOD accounts and serves staff profiles
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// Profile returns the caller's staff account
// @Summary Get staff profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StaffProfile}
// @Router /admin/profile [get]
// @Router /hod/profile [get]
// @Router /principal/profile [get]
// @Router /vice-principal/profile [get]
func (c *UserController) Profile(ctx *gin.Context) {
	id, _, ok := caller(ctx)
	if !ok {
		return
	}
	profile, err := c.userService.GetStaffProfile(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, profile)
}

// ListHODs lists heads of department
// @Summary List HODs
// @Tags hods
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.StaffAccount}
// @Router /admin/hods [get]
func (c *UserController) ListHODs(ctx *gin.Context) {
	hods, err := c.userService.ListHODs(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, hods)
}

// CreateHOD creates a HOD account and emails a set-password link
// @Summary Create a HOD
// @Tags hods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.HODRequest true "HOD information"
// @Success 201 {object} dto.APIResponse{data=dto.CreatedHODResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid data, unknown program or username taken"
// @Router /admin/hods [post]
func (c *UserController) CreateHOD(ctx *gin.Context) {
	var req dto.HODRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	hod, err := c.userService.CreateHOD(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeCreated(ctx, "HOD created successfully", hod)
}

// UpdateHOD updates a HOD account
// @Summary Update a HOD
// @Tags hods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "HOD ID"
// @Param request body dto.HODRequest true "HOD information"
// @Success 200 {object} dto.APIResponse{data=models.StaffAccount}
// @Router /admin/hods/{id} [put]
func (c *UserController) UpdateHOD(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.HODRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	hod, err := c.userService.UpdateHOD(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, false, "HOD", hod)
}

// DeleteHOD deactivates a HOD account
// @Summary Delete a HOD
// @Tags hods
// @Security BearerAuth
// @Param id path int true "HOD ID"
// @Success 200 {object} dto.APIResponse
// @Router /admin/hods/{id} [delete]
func (c *UserController) DeleteHOD(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.userService.DeleteHOD(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeMessage(ctx, "HOD deleted successfully")
}

// BulkUploadHODs upserts HODs by username
// @Summary Bulk upload HODs
// @Tags hods
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkHODsRequest true "HODs"
// @Success 200 {object} dto.APIResponse{data=dto.BulkResult}
// @Router /admin/hods/bulk [post]
func (c *UserController) BulkUploadHODs(ctx *gin.Context) {
	var req dto.BulkHODsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	writeBulk(ctx, c.userService.BulkUpsertHODs(ctx.Request.Context(), req.HODs))
}
