package user

import (
	"net/http"

	"github.com/dlandlab/voicetrack/internal/controller"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// List godoc
// @Summary List questions
// @Description Questions ordered by sequence, optionally filtered by language and audio type.
// @Tags Questions
// @Produce json
// @Param language query string false "Language"
// @Param audioType query string false "instruction, practice or test"
// @Success 200 {array} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	var query dto.QuestionListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		controller.RespondBindError(ctx, "ListQuestions", err)
		return
	}
	questions, err := c.questionService.List(ctx.Request.Context(), query)
	if err != nil {
		controller.RespondError(ctx, "ListQuestions", err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// Get godoc
// @Summary Get a question
// @Tags Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionDTO
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, ok := controller.UintParam(ctx, "id")
	if !ok {
		return
	}
	question, err := c.questionService.Get(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, "GetQuestion", err)
		return
	}
	ctx.JSON(http.StatusOK, question)
}
