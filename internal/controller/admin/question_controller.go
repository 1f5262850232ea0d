package admin

import (
	"net/http"

	"github.com/dlandlab/voicetrack/internal/controller"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// Create godoc
// @Summary (Admin) Create a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body dto.QuestionUpsertDTO true "Question"
// @Success 201 {object} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or duplicate sequenceId"
// @Router /questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req dto.QuestionUpsertDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "CreateQuestion", err)
		return
	}
	question, err := c.questionService.Create(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "CreateQuestion", err)
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// Update godoc
// @Summary (Admin) Replace a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question ID"
// @Param body body dto.QuestionUpsertDTO true "Question"
// @Success 200 {object} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := controller.UintParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.QuestionUpsertDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "UpdateQuestion", err)
		return
	}
	question, err := c.questionService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, "UpdateQuestion", err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// Delete godoc
// @Summary (Admin) Delete a question
// @Description Existing recordings that reference the question are kept.
// @Tags Admin - Questions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id, ok := controller.UintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.questionService.Delete(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, "DeleteQuestion", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Question deleted"})
}

// Import godoc
// @Summary (Admin) Import questions from storage
// @Description Rebuilds a language's questions from the prompt audio stored under prompts/<language>_sentences/.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body dto.QuestionImportDTO true "Language to import"
// @Success 200 {object} dto.QuestionImportResultDTO
// @Failure 400 {object} dto.ErrorResponse "No prompts found"
// @Failure 502 {object} dto.ErrorResponse "Storage failure"
// @Router /questions/import [post]
func (c *QuestionController) Import(ctx *gin.Context) {
	var req dto.QuestionImportDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "ImportQuestions", err)
		return
	}
	result, err := c.questionService.Import(ctx.Request.Context(), req.Language)
	if err != nil {
		controller.RespondError(ctx, "ImportQuestions", err)
		return
	}
	log.Info().Str("language", result.Language).Int("total", result.Total).Msg("Admin: questions imported")
	ctx.JSON(http.StatusOK, result)
}
