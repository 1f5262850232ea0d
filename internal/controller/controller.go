// Package controller holds the helpers shared by the admin and user controllers.
package controller

import (
	"net/http"
	"strconv"

	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RespondError writes err as an ErrorResponse with the status of its kind.
// Internal errors are logged and replaced by a generic message.
func RespondError(ctx *gin.Context, op string, err error) {
	status := apperr.HTTPStatus(err)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("op", op).Str("path", ctx.Request.URL.Path).Int("status", status).Msg("Request failed")
	ctx.JSON(status, dto.ErrorResponse{Message: apperr.PublicMessage(err)})
}

// RespondBindError reports a request that failed gin binding/validation.
func RespondBindError(ctx *gin.Context, op string, err error) {
	log.Warn().Err(err).Str("op", op).Msg("Failed to bind request")
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request", Details: []string{err.Error()}})
}

// UintParam parses a numeric path parameter, writing a 400 when it is malformed.
func UintParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func UUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}

// ProgressKeyFromQuery combines the participantId path parameter with ?language=&testIndex=.
func ProgressKeyFromQuery(ctx *gin.Context) (model.ProgressKey, bool) {
	var query dto.ProgressQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		RespondBindError(ctx, "ProgressKeyFromQuery", err)
		return model.ProgressKey{}, false
	}
	return model.ProgressKey{
		ParticipantID: ctx.Param("participantId"),
		Language:      query.Language,
		TestIndex:     query.TestIndex,
	}, true
}
