package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateRef validates a document reference such as "EST-1042" or "SO-0001".
// References end up in output file names and object keys, so the rules are
// intentionally conservative:
//   - No empty refs
//   - Maximum length of 64 characters
//   - Letters, digits, dash, underscore and dot only
func ValidateRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidInput, "ref cannot be empty")
	}
	if len(ref) > 64 {
		return New(ErrCodeInvalidInput, "ref too long (max 64 characters)")
	}
	if !refRegex.MatchString(ref) {
		return New(ErrCodeInvalidInput, "invalid ref: %q", ref)
	}
	return nil
}

var refRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateObjectKey validates a storage object key for safety.
// It prevents path traversal and ensures reasonable key length.
//
// Validation rules:
//   - Key cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No leading slash
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateObjectKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidPath, "object key cannot be empty")
	}

	const maxKeyLength = 500
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidPath, "object key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "object key contains invalid characters")
		}
	}

	if strings.HasPrefix(key, "/") {
		return New(ErrCodeInvalidPath, "object key must be relative (cannot start with /)")
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidPath, "object key cannot contain path traversal sequences (..)")
	}

	if strings.Contains(key, "\\") {
		return New(ErrCodeInvalidPath, "object key cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
