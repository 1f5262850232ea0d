package repository

import (
	stderrors "errors"

	"github.com/dlandlab/voicetrack/internal/apperr"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func translateError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s not found", entity)
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Validation("%s already exists", entity)
	default:
		return errors.Wrapf(err, "%s query failed", entity)
	}
}
