package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates a user-supplied output path.
// It rejects paths that are empty, contain control characters, or escape
// the working tree via traversal sequences.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
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

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain traversal sequences (..)")
	}

	return nil
}

// ValidateThemeTag validates a theme tag supplied on the command line.
// Tags are short labels; reject anything that could not have come from a
// well-formed themes column.
func ValidateThemeTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidInput, "theme tag cannot be empty")
	}
	if len(tag) > 64 {
		return New(ErrCodeInvalidInput, "theme tag too long (max 64 characters)")
	}
	if strings.Contains(tag, ";") {
		return New(ErrCodeInvalidInput, "theme tag cannot contain the separator character ;")
	}
	for _, r := range tag {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "theme tag contains invalid control characters")
		}
	}
	return nil
}
