package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxDimension bounds container and canvas sizes.
const MaxDimension = 16384

// ValidateDimension checks that a size in pixels is finite, positive and
// within MaxDimension.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidSize, "%s must be a finite number", name)
	}
	if v <= 0 {
		return New(ErrCodeInvalidSize, "%s must be positive, got %g", name, v)
	}
	if v > MaxDimension {
		return New(ErrCodeInvalidSize, "%s too large (max %d), got %g", name, MaxDimension, v)
	}
	return nil
}

// ValidateOutputPath validates a path the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if len(path) > 1024 {
		return New(ErrCodeInvalidPath, "output path too long (max 1024 characters)")
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid control characters")
		}
	}
	return nil
}
