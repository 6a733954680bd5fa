package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// translateError maps gorm errors onto the repository sentinels. The
// connection must be opened with TranslateError enabled for duplicates.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
