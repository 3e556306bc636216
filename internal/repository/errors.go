package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/vidshare/backend/internal/errors"
	"gorm.io/gorm"
)

// ErrInvalidInput is returned when a nil model is passed to a write
var ErrInvalidInput = errors.New("invalid input")

// storeErr maps a gorm error onto the domain sentinels. Anything that is not a
// missing row or a uniqueness violation is treated as a transient store failure.
func storeErr(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", resource, apperrors.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", resource, apperrors.ErrAlreadyExists)
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrStoreUnavailable):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", resource, apperrors.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%s: %w: %v", resource, apperrors.ErrStoreUnavailable, err)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
