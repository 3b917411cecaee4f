package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// sourceNameRegex matches source asset names as written in the manifest:
// a file stem without extension or directory.
var sourceNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSourceName validates a source asset name from the manifest.
// Names are joined onto the source directory, so anything that could escape
// it is rejected.
func ValidateSourceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidManifest, "source name cannot be empty")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidManifest, "source name cannot contain path traversal sequences (..): %q", name)
	}
	if !sourceNameRegex.MatchString(name) {
		return New(ErrCodeInvalidManifest, "invalid source name: %q", name)
	}
	return nil
}

// ValidatePath validates an output path relative to the output directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateMargin checks 0 <= margin < canvas/2. A margin at or beyond half
// the canvas collapses the inset content to nothing or mirrors it.
func ValidateMargin(margin, canvas float64) error {
	if math.IsNaN(margin) {
		return New(ErrCodeInvalidInput, "margin must be a number, got NaN")
	}
	if margin < 0 {
		return New(ErrCodeInvalidInput, "margin must not be negative, got %g", margin)
	}
	if margin >= canvas/2 {
		return New(ErrCodeInvalidInput, "margin must be smaller than %g, got %g", canvas/2, margin)
	}
	return nil
}

// ValidateSize checks a raster edge length in pixels.
func ValidateSize(size int) error {
	const maxSize = 4096
	if size <= 0 || size > maxSize {
		return New(ErrCodeInvalidInput, "raster size must be in 1..%d, got %d", maxSize, size)
	}
	return nil
}
