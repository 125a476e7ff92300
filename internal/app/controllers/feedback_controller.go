package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// FeedbackController is the student portal
type FeedbackController struct {
	feedbackService services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

// Profile returns the student with the derived year and semester
// @Summary Student profile
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentProfile}
// @Router /student/profile [get]
func (c *FeedbackController) Profile(ctx *gin.Context) {
	id, _, ok := caller(ctx)
	if !ok {
		return
	}
	profile, err := c.feedbackService.Profile(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, profile)
}

// ActiveWindow returns the open window of the student's department, or null
// @Summary Active feedback window
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.WindowView}
// @Router /student/feedback-window [get]
func (c *FeedbackController) ActiveWindow(ctx *gin.Context) {
	id, _, ok := caller(ctx)
	if !ok {
		return
	}
	window, err := c.feedbackService.ActiveWindow(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, window)
}

// Subjects lists the subject mappings of the student's current semester
// @Summary Current subjects
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentSubject}
// @Router /student/subjects [get]
func (c *FeedbackController) Subjects(ctx *gin.Context) {
	id, _, ok := caller(ctx)
	if !ok {
		return
	}
	subjects, err := c.feedbackService.Subjects(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, subjects)
}

// Questions lists the active feedback questions
// @Summary Feedback questions
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.FeedbackQuestion}
// @Router /student/feedback-questions [get]
func (c *FeedbackController) Questions(ctx *gin.Context) {
	questions, err := c.feedbackService.Questions(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, questions)
}

// Submit records one response set for a subject mapping
// @Summary Submit feedback
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitFeedbackRequest true "Ratings"
// @Success 201 {object} dto.APIResponse{data=models.Feedback}
// @Failure 400 {object} dto.ErrorResponse "Ratings missing or out of range"
// @Failure 403 {object} dto.ErrorResponse "Subject is not part of the current semester"
// @Failure 409 {object} dto.ErrorResponse "Window not open or feedback already submitted"
// @Router /student/feedback [post]
func (c *FeedbackController) Submit(ctx *gin.Context) {
	id, _, ok := caller(ctx)
	if !ok {
		return
	}
	var req dto.SubmitFeedbackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	feedback, err := c.feedbackService.Submit(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Feedback submitted successfully", feedback))
}

// Status tells whether the student already responded for a mapping
// @Summary Feedback status
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param subjectMapId path int true "Subject mapping ID"
// @Success 200 {object} dto.APIResponse{data=dto.FeedbackStatusResponse}
// @Router /student/feedback/status/{subjectMapId} [get]
func (c *FeedbackController) Status(ctx *gin.Context) {
	id, _, ok := caller(ctx)
	if !ok {
		return
	}
	mapID, ok := parseIDParam(ctx, "subjectMapId")
	if !ok {
		return
	}
	status, err := c.feedbackService.Status(ctx.Request.Context(), id, mapID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, status)
}
