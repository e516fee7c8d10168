package main

import (
	"errors"
	"os"

	mdpad "github.com/alnah/go-mdpad"
	"github.com/alnah/go-mdpad/internal/config"
	"github.com/alnah/go-mdpad/internal/logging"
)

// Exit codes for the mdpad CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, references or values
	ExitIO      = 3 // Unreadable input, unwritable output or state
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdpad.ErrBrowserConnect) ||
		errors.Is(err, mdpad.ErrPageCreate) ||
		errors.Is(err, mdpad.ErrPageLoad) ||
		errors.Is(err, mdpad.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrFileExists) ||
		errors.Is(err, mdpad.ErrPersistence) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrAmbiguousRef) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigTooLarge) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, mdpad.ErrDocumentNotFound) ||
		errors.Is(err, mdpad.ErrNoActiveDocument) ||
		errors.Is(err, mdpad.ErrInvalidFontSize) ||
		errors.Is(err, mdpad.ErrInvalidViewMode) ||
		errors.Is(err, mdpad.ErrInvalidColorTheme) ||
		errors.Is(err, mdpad.ErrInvalidColorScheme) ||
		errors.Is(err, mdpad.ErrUnknownSetting) ||
		errors.Is(err, mdpad.ErrInvalidPageSize) ||
		errors.Is(err, mdpad.ErrInvalidOrientation) ||
		errors.Is(err, mdpad.ErrInvalidMargin) ||
		errors.Is(err, mdpad.ErrInvalidAssetPath) ||
		errors.Is(err, mdpad.ErrInvalidKeyCombo) {
		return ExitUsage
	}

	return ExitGeneral
}
