package assets

// Built-in asset names.
const (
	ExportStyleName      = "export"   // default stylesheet for HTML export
	PrintStyleName       = "print"    // stylesheet for PDF export
	DocumentTemplateName = "document" // standalone HTML shell
	WelcomeSampleName    = "welcome"  // first-run document
)

// AssetLoader defines the contract for loading styles, templates and samples.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	LoadTemplate(name string) (string, error)

	// LoadSample loads a Markdown sample by name (without .md extension).
	LoadSample(name string) (string, error)
}

// assetKind describes one asset family: its directory, extension and
// the not-found error it reports.
type assetKind struct {
	dir      string
	ext      string
	notFound error
}

var (
	kindStyle    = assetKind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	kindTemplate = assetKind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
	kindSample   = assetKind{dir: "samples", ext: ".md", notFound: ErrSampleNotFound}
)
