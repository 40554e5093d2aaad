package repository

import (
	"errors"

	"github.com/zeadev/zeacontrol/internal/entity"
	"gorm.io/gorm"
)

// translate maps gorm sentinels onto domain errors so callers never import
// gorm.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return entity.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return entity.ErrConflict
	}
	return err
}
