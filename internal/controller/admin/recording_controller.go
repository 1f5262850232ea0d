package admin

import (
	"net/http"

	"github.com/dlandlab/voicetrack/internal/controller"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/gin-gonic/gin"
)

type RecordingController struct {
	recordingService service.RecordingService
	analyzer         service.RecordingAnalyzer
}

func NewRecordingController(recordingService service.RecordingService, analyzer service.RecordingAnalyzer) *RecordingController {
	return &RecordingController{recordingService: recordingService, analyzer: analyzer}
}

// Delete godoc
// @Summary (Admin) Delete a recording
// @Description Removes the record. The stored audio is removed on a best-effort basis.
// @Tags Admin - Recordings
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Recording ID (uuid)"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Recording not found"
// @Router /recordings/{id} [delete]
func (c *RecordingController) Delete(ctx *gin.Context) {
	id, ok := controller.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.recordingService.Delete(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, "DeleteRecording", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Recording deleted"})
}

// Annotate godoc
// @Summary (Admin) Attach analysis to a recording
// @Description Stores a transcription and/or an opaque JSON analysis produced elsewhere.
// @Tags Admin - Recordings
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Recording ID (uuid)"
// @Param body body dto.RecordingAnalysisDTO true "Analysis"
// @Success 200 {object} dto.RecordingDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Recording not found"
// @Router /recordings/{id}/analysis [put]
func (c *RecordingController) Annotate(ctx *gin.Context) {
	id, ok := controller.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.RecordingAnalysisDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "AnnotateRecording", err)
		return
	}
	recording, err := c.recordingService.Annotate(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, "AnnotateRecording", err)
		return
	}
	ctx.JSON(http.StatusOK, recording)
}

// Analyze godoc
// @Summary (Admin) Analyze a recording with Gemini
// @Description Transcribes and assesses the stored audio, saving the result on the recording.
// @Tags Admin - Recordings
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Recording ID (uuid)"
// @Success 200 {object} dto.RecordingDTO
// @Failure 400 {object} dto.ErrorResponse "Analysis not configured"
// @Failure 404 {object} dto.ErrorResponse "Recording not found"
// @Failure 502 {object} dto.ErrorResponse "Model failure"
// @Router /recordings/{id}/analyze [post]
func (c *RecordingController) Analyze(ctx *gin.Context) {
	id, ok := controller.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	recording, err := c.analyzer.Analyze(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "AnalyzeRecording", err)
		return
	}
	ctx.JSON(http.StatusOK, recording)
}
