package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateSceneFilename validates a scene file name passed on the command line.
// Scene files must be TOML documents; the name may include directories.
func ValidateSceneFilename(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "scene path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "scene path contains invalid characters")
		}
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" {
		return New(ErrCodeInvalidPath, "scene file must have a .toml extension, got %q", ext)
	}

	return nil
}

// ValidateOutputPath validates an output base path for rendered artifacts.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (no trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}

	return nil
}

// ValidateFormatName validates a render format name against the allowed set.
func ValidateFormatName(format string, allowed []string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
