package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusfeedback/internal/app/services"
	"github.com/yigit/campusfeedback/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TemplateController serves bulk upload templates
type TemplateController struct {
	templateService services.TemplateService
}

// NewTemplateController creates a new TemplateController
func NewTemplateController(templateService services.TemplateService) *TemplateController {
	return &TemplateController{templateService: templateService}
}

// Download streams the xlsx template of one upload type
// @Summary Download an upload template
// @Tags templates
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param type path string true "Template type" Enums(batch, program, branch, hod, student, faculty, subject, feedback_questions, feedback_mapping)
// @Success 200 {file} file "Template workbook"
// @Failure 400 {object} dto.ErrorResponse "Unknown template type"
// @Router /admin/template/{type} [get]
func (c *TemplateController) Download(ctx *gin.Context) {
	file, err := c.templateService.Generate(ctx.Param("type"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, file.Content)
}
