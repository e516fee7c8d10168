package mdpad

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-mdpad/internal/assets"
	"github.com/alnah/go-mdpad/internal/fileutil"
	"github.com/alnah/go-mdpad/internal/pipeline"
)

// Artifact media types.
const (
	MediaTypeMarkdown = "text/markdown; charset=utf-8"
	MediaTypeHTML     = "text/html; charset=utf-8"
	MediaTypePDF      = "application/pdf"
)

// DefaultExportTimeout bounds a PDF export when no timeout is configured.
const DefaultExportTimeout = 30 * time.Second

// Artifact is an exported file: its payload and a suggested file name.
// The host decides how to deliver it.
type Artifact struct {
	Filename  string
	MediaType string
	Data      []byte
}

// AssetLoader loads export stylesheets, the document template and
// samples by name.
type AssetLoader = assets.AssetLoader

// Exporter produces Markdown, standalone HTML and PDF artifacts. Exports
// only read their input. Create with NewExporter and Close when done to
// release the browser used for PDF.
type Exporter struct {
	renderer  *Renderer
	page      *PageSettings
	timeout   time.Duration
	loader    AssetLoader
	assetPath string
	scheme    string

	assembler pipeline.DocumentAssembler
	styleCSS  string // export stylesheet
	printCSS  string // additions for paged media
	schemeCSS string // chroma classes for the scheme
	pdf       pdfConverter
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithRenderer sets the renderer used for HTML and PDF exports.
func WithRenderer(r *Renderer) ExporterOption {
	return func(e *Exporter) {
		e.renderer = r
	}
}

// WithPage sets PDF page dimensions. Nil means defaults.
func WithPage(p *PageSettings) ExporterOption {
	return func(e *Exporter) {
		e.page = p
	}
}

// WithTimeout bounds each PDF export.
func WithTimeout(d time.Duration) ExporterOption {
	return func(e *Exporter) {
		e.timeout = d
	}
}

// WithAssetLoader sets a custom asset loader.
func WithAssetLoader(l AssetLoader) ExporterOption {
	return func(e *Exporter) {
		e.loader = l
	}
}

// WithAssetPath loads assets from dir, falling back to embedded assets
// for names dir does not provide.
func WithAssetPath(dir string) ExporterOption {
	return func(e *Exporter) {
		e.assetPath = dir
	}
}

// WithColorScheme sets the chroma style used for code in exports.
func WithColorScheme(name string) ExporterOption {
	return func(e *Exporter) {
		e.scheme = name
	}
}

// NewExporter creates an Exporter. The browser for PDF export is started
// on first use. Returns error if options are invalid or assets cannot be
// loaded.
func NewExporter(opts ...ExporterOption) (*Exporter, error) {
	e := &Exporter{
		timeout: DefaultExportTimeout,
		scheme:  DefaultEditorColorScheme,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.renderer == nil {
		e.renderer = defaultRenderer()
	}
	if e.page == nil {
		e.page = DefaultPageSettings()
	}
	if err := e.page.Validate(); err != nil {
		return nil, err
	}
	if !ValidColorScheme(e.scheme) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColorScheme, e.scheme)
	}

	if e.loader == nil {
		if e.assetPath != "" {
			resolver, err := assets.NewAssetResolver(e.assetPath)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
			}
			e.loader = resolver
		} else {
			e.loader = assets.NewEmbeddedLoader()
		}
	}

	if err := e.loadAssets(); err != nil {
		return nil, err
	}

	if e.pdf == nil {
		e.pdf = newRodConverter(e.timeout)
	}
	return e, nil
}

func (e *Exporter) loadAssets() error {
	tmpl, err := e.loader.LoadTemplate(assets.DocumentTemplateName)
	if err != nil {
		return fmt.Errorf("loading document template: %w", err)
	}
	e.assembler, err = pipeline.NewTemplateAssembler(tmpl)
	if err != nil {
		return fmt.Errorf("initializing document template: %w", err)
	}

	if e.styleCSS, err = e.loader.LoadStyle(assets.ExportStyleName); err != nil {
		return fmt.Errorf("loading export style: %w", err)
	}
	if e.printCSS, err = e.loader.LoadStyle(assets.PrintStyleName); err != nil {
		return fmt.Errorf("loading print style: %w", err)
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(e.scheme)); err != nil {
		return fmt.Errorf("building %s highlight style: %w", e.scheme, err)
	}
	e.schemeCSS = buf.String()
	return nil
}

// ExportMarkdown returns content unchanged as <filename>.md.
func (e *Exporter) ExportMarkdown(content, filename string) *Artifact {
	return &Artifact{
		Filename:  fileutil.ExportFilename(filename, "md"),
		MediaType: MediaTypeMarkdown,
		Data:      []byte(content),
	}
}

// ExportHTML renders content into a standalone HTML document titled
// filename. With includeDefaultStyling the export stylesheet and the code
// highlighting classes are embedded.
func (e *Exporter) ExportHTML(content, filename string, includeDefaultStyling bool) (art *Artifact, err error) {
	defer recoverExport(&err)

	css := ""
	if includeDefaultStyling {
		css = e.styleCSS + "\n" + e.schemeCSS
	}

	doc, err := e.standalone(context.Background(), content, filename, css)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Filename:  fileutil.ExportFilename(filename, "html"),
		MediaType: MediaTypeHTML,
		Data:      []byte(doc),
	}, nil
}

// ExportPDF renders content and prints it with headless Chrome onto pages
// of the configured size. Content longer than a page continues on the
// next one.
func (e *Exporter) ExportPDF(ctx context.Context, content, filename string) (art *Artifact, err error) {
	defer recoverExport(&err)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	css := e.styleCSS + "\n" + e.schemeCSS + "\n" + e.printCSS
	doc, err := e.standalone(ctx, content, filename, css)
	if err != nil {
		return nil, err
	}

	data, err := e.pdf.ToPDF(ctx, doc, e.page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	return &Artifact{
		Filename:  fileutil.ExportFilename(filename, "pdf"),
		MediaType: MediaTypePDF,
		Data:      data,
	}, nil
}

// Close releases browser resources.
func (e *Exporter) Close() error {
	if e.pdf != nil {
		return e.pdf.Close()
	}
	return nil
}

func (e *Exporter) standalone(ctx context.Context, content, filename, css string) (string, error) {
	body, err := e.renderer.RenderContext(ctx, content)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %w", ErrExport, ctx.Err())
		}
		body = RenderErrorFragment
	}

	title := strings.TrimSpace(filename)
	if title == "" {
		title = fileutil.FallbackName
	}

	doc, err := e.assembler.Assemble(ctx, pipeline.DocumentData{Title: title, CSS: css, Body: body})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExport, err)
	}
	return doc, nil
}

// recoverExport converts a panic into an ErrExport error.
func recoverExport(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: internal error: %v", ErrExport, r)
	}
}
