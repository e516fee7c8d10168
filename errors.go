package mdpad

import "errors"

// Sentinel errors for workspace operations.
var (
	// Store errors.
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoActiveDocument = errors.New("no active document")
	ErrPersistence      = errors.New("workspace persistence failed")

	// Settings validation errors.
	ErrInvalidFontSize    = errors.New("invalid editor font size")
	ErrInvalidViewMode    = errors.New("invalid view mode")
	ErrInvalidColorTheme  = errors.New("invalid color theme")
	ErrInvalidColorScheme = errors.New("invalid editor color scheme")
	ErrUnknownSetting     = errors.New("unknown setting")

	// Render errors. Never returned by Render; RenderContext reports them.
	ErrRender = errors.New("markdown rendering failed")

	// Export errors.
	ErrExport           = errors.New("export failed")
	ErrPDFGeneration    = errors.New("PDF generation failed")
	ErrBrowserConnect   = errors.New("failed to connect to browser")
	ErrPageCreate       = errors.New("failed to create browser page")
	ErrPageLoad         = errors.New("failed to load page")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Shortcut errors.
	ErrInvalidKeyCombo = errors.New("invalid key combination")
)
