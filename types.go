package mdpad

import (
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/styles"
)

// Document is a named unit of Markdown text tracked by the Store.
type Document struct {
	ID        string
	Name      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Folder    string // empty = no folder
}

// DocumentUpdate lists the fields an update may change. Nil fields are
// left untouched.
type DocumentUpdate struct {
	Name    *string
	Content *string
	Folder  *string
}

// UpdateName returns an update that only changes the name.
func UpdateName(name string) DocumentUpdate {
	return DocumentUpdate{Name: &name}
}

// UpdateContent returns an update that only changes the content.
func UpdateContent(content string) DocumentUpdate {
	return DocumentUpdate{Content: &content}
}

// UpdateFolder returns an update that only changes the folder.
func UpdateFolder(folder string) DocumentUpdate {
	return DocumentUpdate{Folder: &folder}
}

// ViewMode selects which panes the host shows.
type ViewMode string

// View modes, in CycleViewMode order.
const (
	ViewSplit   ViewMode = "split"
	ViewPreview ViewMode = "preview"
	ViewEditor  ViewMode = "editor"
)

var viewModeCycle = []ViewMode{ViewSplit, ViewPreview, ViewEditor}

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewSplit, ViewPreview, ViewEditor:
		return true
	}
	return false
}

// next returns the mode following m in the cycle. Unknown modes restart it.
func (m ViewMode) next() ViewMode {
	for i, v := range viewModeCycle {
		if v == m {
			return viewModeCycle[(i+1)%len(viewModeCycle)]
		}
	}
	return ViewSplit
}

// ColorTheme is the host color theme.
type ColorTheme string

// Color themes.
const (
	ThemeLight ColorTheme = "light"
	ThemeDark  ColorTheme = "dark"
)

// Valid reports whether t is a known theme.
func (t ColorTheme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Settings defaults and bounds.
const (
	DefaultFontSize          = 14
	DefaultMinFontSize       = 10
	DefaultMaxFontSize       = 24
	DefaultEditorColorScheme = "github"
)

// Settings holds user preferences. All fields are persisted.
type Settings struct {
	SidebarVisible    bool
	ViewMode          ViewMode
	ColorTheme        ColorTheme
	EditorFontSize    int
	AutoSaveEnabled   bool
	WordWrapEnabled   bool
	ShowLineNumbers   bool
	EditorColorScheme string // chroma style name
}

// DefaultSettings returns the settings of a fresh workspace.
func DefaultSettings() Settings {
	return Settings{
		SidebarVisible:    true,
		ViewMode:          ViewSplit,
		ColorTheme:        ThemeLight,
		EditorFontSize:    DefaultFontSize,
		AutoSaveEnabled:   true,
		WordWrapEnabled:   true,
		ShowLineNumbers:   true,
		EditorColorScheme: DefaultEditorColorScheme,
	}
}

// ValidColorScheme reports whether name is a registered chroma style.
func ValidColorScheme(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// ColorSchemes lists the registered chroma style names, sorted.
func ColorSchemes() []string {
	return styles.Names()
}

// Snapshot is a copy of the whole workspace state.
type Snapshot struct {
	Documents []Document
	ActiveID  string // empty = no active document
	Settings  Settings
}

// EventKind identifies a store change.
type EventKind int

// Store change kinds.
const (
	EventDocumentCreated EventKind = iota + 1
	EventDocumentUpdated
	EventDocumentDeleted
	EventActiveChanged
	EventSettingsChanged
)

func (k EventKind) String() string {
	switch k {
	case EventDocumentCreated:
		return "document-created"
	case EventDocumentUpdated:
		return "document-updated"
	case EventDocumentDeleted:
		return "document-deleted"
	case EventActiveChanged:
		return "active-changed"
	case EventSettingsChanged:
		return "settings-changed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event describes one applied store mutation. ID is the affected document,
// or the new active id for EventActiveChanged (empty = none).
type Event struct {
	Kind EventKind
	ID   string
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Paper dimensions in inches, portrait.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// dimensions returns paper width and height in inches for valid settings.
func (p *PageSettings) dimensions() (width, height float64) {
	size := paperSizes[strings.ToLower(p.Size)]
	width, height = size[0], size[1]
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}
