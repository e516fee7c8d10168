// Package fileutil provides file and file name helpers for imports and exports.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// FallbackName is used when a file name sanitizes to nothing.
const FallbackName = "untitled"

// maxBaseNameLength keeps generated names under common filesystem limits
// once an extension is appended.
const maxBaseNameLength = 200

// WriteTempFile creates a temporary file with the given content and extension.
// Returns the file path and a cleanup function to remove the file.
func WriteTempFile(content, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	tmpFile, err := os.CreateTemp("", "mdpad-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// TrimMarkdownExt removes one trailing ".md". The match is case-sensitive,
// so an imported "notes.MD" keeps its name.
//
// Examples:
//   - "notes.md" -> "notes"
//   - "notes.MD" -> "notes.MD"
//   - "notes.md.md" -> "notes.md"
//   - "notes.markdown" -> "notes.markdown"
func TrimMarkdownExt(name string) string {
	return strings.TrimSuffix(name, ".md")
}

// SanitizeBaseName turns a document name into a safe file base name.
// Path separators and reserved characters become "-", control characters
// are dropped, and surrounding dots and spaces are trimmed. An empty
// result yields FallbackName.
func SanitizeBaseName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsControl(r):
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}

	out := strings.Trim(strings.TrimSpace(b.String()), ". ")
	if runes := []rune(out); len(runes) > maxBaseNameLength {
		out = strings.TrimSpace(string(runes[:maxBaseNameLength]))
	}
	if out == "" {
		return FallbackName
	}
	return out
}

// ExportFilename builds "<sanitized base>.<ext>" from a document name,
// dropping an existing extension equal to ext.
func ExportFilename(name, ext string) string {
	if strings.EqualFold(filepath.Ext(name), "."+ext) {
		name = name[:len(name)-len(ext)-1]
	}
	return SanitizeBaseName(name) + "." + ext
}
