package admin

import (
	"net/http"

	"github.com/dlandlab/voicetrack/internal/controller"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	assessmentService service.AssessmentService
}

func NewAssessmentController(assessmentService service.AssessmentService) *AssessmentController {
	return &AssessmentController{assessmentService: assessmentService}
}

// All godoc
// @Summary (Admin) List all assessments
// @Description Every assessment with completion figures, most recently started first.
// @Tags Admin - Assessments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.AssessmentWithStatsDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /assessments [get]
func (c *AssessmentController) All(ctx *gin.Context) {
	assessments, err := c.assessmentService.All(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "ListAssessments", err)
		return
	}
	ctx.JSON(http.StatusOK, assessments)
}
