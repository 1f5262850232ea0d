package user

import (
	"net/http"

	"github.com/dlandlab/voicetrack/internal/controller"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AssessmentController struct {
	tracker           service.ProgressTracker
	assessmentService service.AssessmentService
}

func NewAssessmentController(tracker service.ProgressTracker, assessmentService service.AssessmentService) *AssessmentController {
	return &AssessmentController{tracker: tracker, assessmentService: assessmentService}
}

// GetStatus godoc
// @Summary Get assessment status
// @Description Returns the assessment for a participant, language and test index, or a not_started record when none exists.
// @Tags Assessments
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param language query string false "Language (default english)"
// @Param testIndex query int false "Test index (default 0)"
// @Success 200 {object} dto.AssessmentDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /assessments/status/{participantId} [get]
func (c *AssessmentController) GetStatus(ctx *gin.Context) {
	key, ok := controller.ProgressKeyFromQuery(ctx)
	if !ok {
		return
	}
	assessment, err := c.tracker.GetStatus(ctx.Request.Context(), key)
	if err != nil {
		controller.RespondError(ctx, "GetStatus", err)
		return
	}
	ctx.JSON(http.StatusOK, service.AssessmentResponse(assessment))
}

// UpdateStatus godoc
// @Summary Update assessment status
// @Description Creates or updates the assessment for a participant, language and test index. Status never moves backwards.
// @Tags Assessments
// @Accept json
// @Produce json
// @Param body body dto.AssessmentStatusUpdateDTO true "Status update"
// @Success 200 {object} dto.AssessmentDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Status would move backwards"
// @Failure 500 {object} dto.ErrorResponse
// @Router /assessments/status [post]
func (c *AssessmentController) UpdateStatus(ctx *gin.Context) {
	var req dto.AssessmentStatusUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "UpdateStatus", err)
		return
	}
	key := model.ProgressKey{ParticipantID: req.ParticipantID, Language: req.Language, TestIndex: req.TestIndex}
	assessment, err := c.tracker.UpdateStatus(ctx.Request.Context(), key, model.AssessmentStatus(req.Status), req.LastQuestionIndex)
	if err != nil {
		controller.RespondError(ctx, "UpdateStatus", err)
		return
	}
	log.Info().Str("participantId", assessment.ParticipantID).Str("status", string(assessment.Status)).
		Int("lastQuestionIndex", assessment.LastQuestionIndex).Msg("Assessment status updated")
	ctx.JSON(http.StatusOK, service.AssessmentResponse(assessment))
}

// ForParticipant godoc
// @Summary List a participant's assessments
// @Description All assessments of a participant with completion figures, most recently started first.
// @Tags Assessments
// @Produce json
// @Param participantId path string true "Participant ID"
// @Success 200 {array} dto.AssessmentWithStatsDTO
// @Failure 404 {object} dto.ErrorResponse "Participant not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /assessments/participant/{participantId} [get]
func (c *AssessmentController) ForParticipant(ctx *gin.Context) {
	assessments, err := c.assessmentService.ForParticipant(ctx.Request.Context(), ctx.Param("participantId"))
	if err != nil {
		controller.RespondError(ctx, "ForParticipant", err)
		return
	}
	ctx.JSON(http.StatusOK, assessments)
}
