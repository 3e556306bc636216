package util

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/vidshare/backend/internal/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateID checks that id is a well-formed identifier. The returned error wraps
// apperrors.ErrInvalidIdentifier and names the offending field.
func ValidateID(field, id string) error {
	if err := Validator().Var(id, "required,uuid"); err != nil {
		return apperrors.InvalidField(field)
	}
	return nil
}

// ValidateIDs validates field/id pairs in order and returns the first failure
func ValidateIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := ValidateID(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".webm": {},
	".mkv":  {},
	".m4v":  {},
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// IsValidVideoFile checks if a filename has a supported video extension
func IsValidVideoFile(filename string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// IsValidImageFile checks if a filename has a supported thumbnail extension
func IsValidImageFile(filename string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}
