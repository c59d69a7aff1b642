package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateProfileName validates a profile name for safety and correctness.
// Profile names become file names in the file store and keys in the redis
// and mongo stores, so the rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 64 characters
func ValidateProfileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProfile, "profile name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidProfile, "profile name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProfile, "profile name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidProfile, "profile name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateLabel validates a button label.
// Labels are display text only; the check rejects control characters that
// would corrupt terminal rendering and unreasonably long strings.
func ValidateLabel(label string) error {
	if len(label) > 128 {
		return New(ErrCodeInvalidInput, "label too long (max 128 characters)")
	}
	for _, r := range label {
		if r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidateDropPath validates a dropped file path before ingestion.
// Unlike profile names, dropped paths come from the host desktop and are
// expected to be absolute; the check only rejects input that can never
// identify a file.
func ValidateDropPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "dropped path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "dropped path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidInput, "dropped path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// actionTagRegex matches valid action tags: lowercase with optional dashes.
var actionTagRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidateActionTag validates an action type tag.
// Tags are opaque to the core but must survive serialization, CLI flags,
// and URL path segments unchanged.
func ValidateActionTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidAction, "action tag cannot be empty")
	}

	if !actionTagRegex.MatchString(tag) {
		return New(ErrCodeInvalidAction, "invalid action tag: %q", tag)
	}

	return nil
}
