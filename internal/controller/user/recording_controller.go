package user

import (
	"net/http"

	"github.com/dlandlab/voicetrack/internal/controller"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RecordingFileField is the multipart field carrying the audio.
const RecordingFileField = "recording"

type RecordingController struct {
	recordingService  service.RecordingService
	assessmentService service.AssessmentService
}

func NewRecordingController(recordingService service.RecordingService, assessmentService service.AssessmentService) *RecordingController {
	return &RecordingController{recordingService: recordingService, assessmentService: assessmentService}
}

// Upload godoc
// @Summary Upload a recording
// @Description Stores a participant's spoken response and advances their assessment.
// @Tags Recordings
// @Accept multipart/form-data
// @Produce json
// @Param recording formData file true "Audio file"
// @Param participantId formData string true "Participant ID"
// @Param questionId formData int true "Question ID"
// @Param duration formData int false "Duration in milliseconds"
// @Param language formData string false "Language (default english)"
// @Param testIndex formData int false "Test index (default 0)"
// @Success 201 {object} dto.RecordingUploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file or invalid fields"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 502 {object} dto.ErrorResponse "Storage failure"
// @Failure 500 {object} dto.ErrorResponse
// @Router /recordings [post]
func (c *RecordingController) Upload(ctx *gin.Context) {
	var form dto.RecordingUploadForm
	if err := ctx.ShouldBind(&form); err != nil {
		controller.RespondBindError(ctx, "Upload", err)
		return
	}

	upload := service.RecordingUpload{Form: form}
	header, err := ctx.FormFile(RecordingFileField)
	if err == nil {
		file, err := header.Open()
		if err != nil {
			log.Error().Err(err).Str("filename", header.Filename).Msg("Upload: failed to open multipart file")
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read uploaded file"})
			return
		}
		defer file.Close()
		upload.File = file
		upload.Filename = header.Filename
		upload.ContentType = header.Header.Get("Content-Type")
		upload.Size = header.Size
	}

	resp, err := c.recordingService.Submit(ctx.Request.Context(), upload)
	if err != nil {
		controller.RespondError(ctx, "Upload", err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListByParticipant godoc
// @Summary List a participant's recordings
// @Description Recordings for a participant, language and test index, oldest first, with question summaries.
// @Tags Recordings
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param language query string false "Language (default english)"
// @Param testIndex query int false "Test index (default 0)"
// @Success 200 {array} dto.RecordingDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /recordings/participant/{participantId} [get]
func (c *RecordingController) ListByParticipant(ctx *gin.Context) {
	key, ok := controller.ProgressKeyFromQuery(ctx)
	if !ok {
		return
	}
	recordings, err := c.recordingService.ListByProgress(ctx.Request.Context(), key)
	if err != nil {
		controller.RespondError(ctx, "ListByParticipant", err)
		return
	}
	ctx.JSON(http.StatusOK, recordings)
}

// Get godoc
// @Summary Get a recording
// @Tags Recordings
// @Produce json
// @Param id path string true "Recording ID (uuid)"
// @Success 200 {object} dto.RecordingDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Recording not found"
// @Router /recordings/{id} [get]
func (c *RecordingController) Get(ctx *gin.Context) {
	id, ok := controller.UUIDParam(ctx, "id")
	if !ok {
		return
	}
	recording, err := c.recordingService.Get(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "GetRecording", err)
		return
	}
	ctx.JSON(http.StatusOK, recording)
}

// Stats godoc
// @Summary Get completion statistics
// @Description Completion figures and assessment state for a participant, language and test index.
// @Tags Recordings
// @Produce json
// @Param participantId path string true "Participant ID"
// @Param language query string false "Language (default english)"
// @Param testIndex query int false "Test index (default 0)"
// @Success 200 {object} dto.AssessmentStatsDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /recordings/stats/{participantId} [get]
func (c *RecordingController) Stats(ctx *gin.Context) {
	key, ok := controller.ProgressKeyFromQuery(ctx)
	if !ok {
		return
	}
	stats, err := c.assessmentService.Stats(ctx.Request.Context(), key)
	if err != nil {
		controller.RespondError(ctx, "Stats", err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
