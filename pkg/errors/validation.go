package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateDuration checks that a leaf duration (or distribution parameter) is
// a finite, non-negative number. what names the parameter in the message.
//
// Negative values are rejected rather than clamped so that a modeling mistake
// never silently turns into a zero-length span.
func ValidateDuration(what string, d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return New(ErrCodeInvalidDuration, "%s must be a finite number, got %v", what, d)
	}
	if d < 0 {
		return New(ErrCodeInvalidDuration, "%s must be non-negative, got %v", what, d)
	}
	return nil
}

// ValidateServiceName validates a resolved service name.
//
// The validation rules:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateServiceName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidService, "service name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidService, "service name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidService, "service name contains invalid control characters")
		}
	}

	return nil
}

// modelNameRegex matches catalog model names (kebab-case identifiers).
var modelNameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidateModelName validates a catalog model name.
// Names are lowercase kebab-case, at most 64 characters.
func ValidateModelName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "model name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "model name too long (max 64 characters)")
	}
	if !modelNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid model name: %q", name)
	}
	return nil
}

// ValidatePath validates a model file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateScale checks that a render scale factor is finite and in (0, 100].
func ValidateScale(scale float64) error {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return New(ErrCodeInvalidScale, "scale must be a positive number, got %v", scale)
	}
	if scale > 100 {
		return New(ErrCodeInvalidScale, "scale too large (max 100), got %v", scale)
	}
	return nil
}
