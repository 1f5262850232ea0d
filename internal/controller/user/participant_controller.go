package user

import (
	"net/http"

	"github.com/dlandlab/voicetrack/internal/controller"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/gin-gonic/gin"
)

type ParticipantController struct {
	participantService service.ParticipantService
}

func NewParticipantController(participantService service.ParticipantService) *ParticipantController {
	return &ParticipantController{participantService: participantService}
}

// Get godoc
// @Summary Get a participant
// @Description Participant details with their latest assessment and total recording count.
// @Tags Participants
// @Produce json
// @Param participantId path string true "Participant ID"
// @Success 200 {object} dto.ParticipantDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Participant not found"
// @Router /participants/{participantId} [get]
func (c *ParticipantController) Get(ctx *gin.Context) {
	participant, err := c.participantService.Get(ctx.Request.Context(), ctx.Param("participantId"))
	if err != nil {
		controller.RespondError(ctx, "GetParticipant", err)
		return
	}
	ctx.JSON(http.StatusOK, participant)
}
