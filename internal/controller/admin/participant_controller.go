package admin

import (
	"net/http"

	"github.com/dlandlab/voicetrack/internal/controller"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ParticipantController struct {
	participantService service.ParticipantService
}

func NewParticipantController(participantService service.ParticipantService) *ParticipantController {
	return &ParticipantController{participantService: participantService}
}

// List godoc
// @Summary (Admin) List participants
// @Description All participants, newest first.
// @Tags Admin - Participants
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} dto.ParticipantDTO
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /participants [get]
func (c *ParticipantController) List(ctx *gin.Context) {
	participants, err := c.participantService.List(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "ListParticipants", err)
		return
	}
	ctx.JSON(http.StatusOK, participants)
}

// Update godoc
// @Summary (Admin) Update a participant
// @Description Partial update; only the fields present in the body change.
// @Tags Admin - Participants
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param participantId path string true "Participant ID"
// @Param body body dto.ParticipantUpdateDTO true "Fields to change"
// @Success 200 {object} dto.ParticipantDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Participant not found"
// @Router /participants/{participantId} [put]
func (c *ParticipantController) Update(ctx *gin.Context) {
	var req dto.ParticipantUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "UpdateParticipant", err)
		return
	}
	participant, err := c.participantService.Update(ctx.Request.Context(), ctx.Param("participantId"), req)
	if err != nil {
		controller.RespondError(ctx, "UpdateParticipant", err)
		return
	}
	log.Info().Str("participantId", participant.ParticipantID).Msg("Admin: participant updated")
	ctx.JSON(http.StatusOK, participant)
}
