package user

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/dlandlab/voicetrack/internal/dto"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// FileController serves objects of the local storage driver behind their signed tokens.
type FileController struct {
	local *storage.LocalStore
}

func NewFileController(store storage.Store) *FileController {
	local, _ := store.(*storage.LocalStore)
	return &FileController{local: local}
}

// Serve godoc
// @Summary Download a stored object
// @Description Only available with the local storage driver. The token comes from a signed URL.
// @Tags Files
// @Produce octet-stream
// @Param path path string true "Object path"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired token"
// @Failure 404 {object} dto.ErrorResponse "Object not found"
// @Router /files/{path} [get]
func (c *FileController) Serve(ctx *gin.Context) {
	if c.local == nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "File serving is not enabled"})
		return
	}
	objectPath := strings.TrimPrefix(ctx.Param("path"), "/")
	if err := c.local.Verify(objectPath, ctx.Query("token")); err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: err.Error()})
		return
	}
	filePath, err := c.local.FilePath(objectPath)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid file path"})
		return
	}
	if _, err := os.Stat(filePath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Error().Err(err).Str("path", objectPath).Msg("Serve: stat failed")
		}
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "File not found"})
		return
	}
	ctx.File(filePath)
}
