package middleware

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Input validation and sanitization utilities

const (
	MaxFileNameLength = 255
	MaxFilesPerUpload = 500
	MaxNameLength     = 200
)

// ValidateFileName checks an evidence file name coming from the upload surface
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("file name is not valid UTF-8")
	}
	if utf8.RuneCountInString(name) > MaxFileNameLength {
		return fmt.Errorf("file name too long (max %d chars)", MaxFileNameLength)
	}

	// Block dangerous patterns
	dangerous := []string{"\x00", "/", "\\", "\n", "\r"}
	for _, d := range dangerous {
		if strings.Contains(name, d) {
			return fmt.Errorf("invalid characters in file name")
		}
	}
	return nil
}

func ValidateFileSize(size int64) error {
	if size < 0 {
		return fmt.Errorf("file size must not be negative")
	}
	return nil
}

// ValidateBatch validates the file count of one upload
func ValidateBatch(n int) error {
	if n > MaxFilesPerUpload {
		return fmt.Errorf("too many files in one upload (max %d)", MaxFilesPerUpload)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateClientName checks the profile name length after sanitizing
func ValidateClientName(name string) error {
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("name too long (max %d chars)", MaxNameLength)
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 100 // default
	}
	if limit > 500 {
		return 500
	}
	return limit
}
