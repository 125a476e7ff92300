package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// AnalyticsController serves feedback analytics and dashboard statistics
type AnalyticsController struct {
	analyticsService services.AnalyticsService
	statsService     services.StatsService
	scopes           ScopeResolver
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService services.AnalyticsService, statsService services.StatsService, scopes ScopeResolver) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		statsService:     statsService,
		scopes:           scopes,
	}
}

// WindowAnalytics aggregates the responses of one window per subject mapping
// @Summary Feedback analytics
// @Description The window is chosen by windowId, or as the latest published window for year, semester and academic year. Principals must name the program and branch.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param windowId query int false "Window ID"
// @Param program query string false "Program code"
// @Param branch query string false "Branch code"
// @Param year query int false "Year of study"
// @Param semester query int false "Semester"
// @Param academicYear query string false "Academic year, e.g. 2024-25"
// @Success 200 {object} dto.APIResponse{data=dto.AnalyticsResponse}
// @Failure 400 {object} dto.ErrorResponse "Window selection incomplete"
// @Failure 403 {object} dto.ErrorResponse "Window belongs to another department"
// @Failure 404 {object} dto.ErrorResponse "No matching window"
// @Router /hod/analytics [get]
// @Router /principal/analytics [get]
// @Router /vice-principal/analytics [get]
func (c *AnalyticsController) WindowAnalytics(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	var query dto.AnalyticsQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}
	result, err := c.analyticsService.WindowAnalytics(ctx.Request.Context(), scope, &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, result)
}

// HODDashboard summarises the HOD's department
// @Summary HOD dashboard statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.HODDashboardStats}
// @Router /hod/dashboard/stats [get]
func (c *AnalyticsController) HODDashboard(ctx *gin.Context) {
	_, scope, ok := callerScope(ctx, c.scopes)
	if !ok {
		return
	}
	stats, err := c.statsService.HODDashboard(ctx.Request.Context(), scope)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, stats)
}

// Institution returns institution-wide counts
// @Summary Institution statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InstitutionStats}
// @Router /admin/stats [get]
// @Router /principal/stats [get]
// @Router /vice-principal/stats [get]
func (c *AnalyticsController) Institution(ctx *gin.Context) {
	stats, err := c.statsService.Institution(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, stats)
}

// Departments returns counts per program and branch
// @Summary Department statistics
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.DepartmentStats}
// @Router /principal/departments [get]
// @Router /vice-principal/departments [get]
func (c *AnalyticsController) Departments(ctx *gin.Context) {
	stats, err := c.statsService.Departments(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, stats)
}
