package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxDimension bounds maze width and height. Larger grids are accepted by the
// solver but rejected at the input boundary to keep frame output sane.
const MaxDimension = 512

// ValidateDimensions checks that a maze size is usable.
func ValidateDimensions(width, height int) error {
	if width < 1 || height < 1 {
		return New(ErrCodeInvalidDimensions, "maze must be at least 1x1, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidDimensions, "maze too large (max %dx%d), got %dx%d",
			MaxDimension, MaxDimension, width, height)
	}
	return nil
}

// ValidatePercent checks that a probability knob is within 0..100.
func ValidatePercent(name string, v int) error {
	if v < 0 || v > 100 {
		return New(ErrCodeInvalidInput, "%s must be between 0 and 100, got %d", name, v)
	}
	return nil
}

// ValidateCoordinate checks that (x, y) lies inside a width×height grid.
func ValidateCoordinate(x, y, width, height int) error {
	if x < 0 || y < 0 || x >= width || y >= height {
		return New(ErrCodeInvalidPoint, "point (%d,%d) outside %dx%d maze", x, y, width, height)
	}
	return nil
}

// ValidateFramePath validates an output directory or file path for frames.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) after cleaning
func ValidateFramePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}
	return nil
}
