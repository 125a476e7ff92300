package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// WindowController manages feedback windows
type WindowController struct {
	windowService services.WindowService
	scopes        ScopeResolver
}

// NewWindowController creates a new WindowController
func NewWindowController(windowService services.WindowService, scopes ScopeResolver) *WindowController {
	return &WindowController{windowService: windowService, scopes: scopes}
}

// ListWindows lists feedback windows with their computed state. A HOD only
// sees their own department whatever the query says.
// @Summary List feedback windows
// @Tags feedback-windows
// @Produce json
// @Security BearerAuth
// @Param program query string false "Program code"
// @Param branch query string false "Branch code"
// @Success 200 {object} dto.APIResponse{data=[]models.WindowView}
// @Router /hod/feedback-windows [get]
// @Router /principal/feedback-windows [get]
// @Router /vice-principal/feedback-windows [get]
func (c *WindowController) ListWindows(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	windows, err := c.windowService.ListWindows(ctx.Request.Context(), scope, ctx.Query("program"), ctx.Query("branch"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, windows)
}

// PublishWindow opens the department's window for a year and semester,
// reusing the current one when it is not closed.
// @Summary Publish a feedback window
// @Tags feedback-windows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PublishWindowRequest true "Window"
// @Success 200 {object} dto.APIResponse{data=models.WindowView} "Existing window updated"
// @Success 201 {object} dto.APIResponse{data=models.WindowView} "Window created"
// @Failure 400 {object} dto.ErrorResponse "Invalid dates, year or semester"
// @Failure 403 {object} dto.ErrorResponse "Not a head of department"
// @Router /hod/feedback-window/publish [post]
func (c *WindowController) PublishWindow(ctx *gin.Context) {
	id, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	var req dto.PublishWindowRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	view, wasCreated, err := c.windowService.PublishWindow(ctx.Request.Context(), scope, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, wasCreated, "Feedback window", view)
}

// SaveDraft stores a window without opening it
// @Summary Save a draft feedback window
// @Tags feedback-windows
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PublishWindowRequest true "Window"
// @Success 200 {object} dto.APIResponse{data=models.WindowView}
// @Success 201 {object} dto.APIResponse{data=models.WindowView}
// @Failure 409 {object} dto.ErrorResponse "A window is already open"
// @Router /hod/feedback-window/draft [post]
func (c *WindowController) SaveDraft(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	var req dto.PublishWindowRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	view, wasCreated, err := c.windowService.SaveDraft(ctx.Request.Context(), scope, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, wasCreated, "Draft feedback window", view)
}

// CloseWindow closes a window now
// @Summary Close a feedback window
// @Tags feedback-windows
// @Produce json
// @Security BearerAuth
// @Param id path int true "Window ID"
// @Success 200 {object} dto.APIResponse{data=models.WindowView}
// @Failure 403 {object} dto.ErrorResponse "Window belongs to another department"
// @Failure 404 {object} dto.ErrorResponse "Window not found"
// @Router /hod/feedback-window/{id}/close [patch]
func (c *WindowController) CloseWindow(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	view, err := c.windowService.CloseWindow(ctx.Request.Context(), scope, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, false, "Feedback window", view)
}
