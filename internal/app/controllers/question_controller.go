package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/models/dto"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

// QuestionController manages the feedback question set
type QuestionController struct {
	questionService services.QuestionService
}

// NewQuestionController creates a new QuestionController
func NewQuestionController(questionService services.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// ListQuestions lists the active questions in serial order
// @Summary List feedback questions
// @Tags feedback-questions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.FeedbackQuestion}
// @Router /admin/feedback-questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.questionService.ListQuestions(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeData(ctx, questions)
}

// ReplaceQuestions replaces the whole question set. Questions left out are
// deactivated so past responses keep their criteria.
// @Summary Replace feedback questions
// @Tags feedback-questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReplaceQuestionsRequest true "Question set"
// @Success 200 {object} dto.APIResponse{data=[]models.FeedbackQuestion}
// @Failure 400 {object} dto.ErrorResponse "Duplicate or unknown question IDs"
// @Router /admin/feedback-questions [put]
func (c *QuestionController) ReplaceQuestions(ctx *gin.Context) {
	var req dto.ReplaceQuestionsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	questions, err := c.questionService.ReplaceQuestions(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeSaved(ctx, false, "Feedback questions", questions)
}
