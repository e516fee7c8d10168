package mdpad

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-mdpad/internal/assets"
)

// Notes:
// - PDF exports run against fakePDF; the real browser path is covered by
//   the integration-tagged tests
// - ExportHTML is checked on the standalone document, not on exact bytes

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// fakePDF records the document it was asked to print.
type fakePDF struct {
	mu     sync.Mutex
	html   string
	page   *PageSettings
	data   []byte
	err    error
	panics bool
	closed bool
}

func (f *fakePDF) ToPDF(_ context.Context, htmlContent string, page *PageSettings) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("printer on fire")
	}
	f.html, f.page = htmlContent, page
	return f.data, f.err
}

func (f *fakePDF) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

var _ pdfConverter = (*fakePDF)(nil)

func newTestExporter(t *testing.T, opts ...ExporterOption) (*Exporter, *fakePDF) {
	t.Helper()

	e, err := NewExporter(opts...)
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}
	fake := &fakePDF{data: []byte("%PDF-1.7 fake")}
	e.pdf = fake
	t.Cleanup(func() { _ = e.Close() })
	return e, fake
}

// ---------------------------------------------------------------------------
// TestExportMarkdown - Content passthrough
// ---------------------------------------------------------------------------

func TestExportMarkdown(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t)

	tests := []struct {
		name         string
		filename     string
		wantFilename string
	}{
		{"plain", "Title", "Title.md"},
		{"already has extension", "notes.md", "notes.md"},
		{"empty name", "", "untitled.md"},
		{"path separators", "a/b\\c", "a-b-c.md"},
	}

	content := "# Title\n\nBody text"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			art := e.ExportMarkdown(content, tt.filename)
			if string(art.Data) != content {
				t.Errorf("Data = %q, want input unchanged", art.Data)
			}
			if art.Filename != tt.wantFilename {
				t.Errorf("Filename = %q, want %q", art.Filename, tt.wantFilename)
			}
			if art.MediaType != MediaTypeMarkdown {
				t.Errorf("MediaType = %q, want %q", art.MediaType, MediaTypeMarkdown)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExportHTML - Standalone documents
// ---------------------------------------------------------------------------

func TestExportHTML(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t)

	art, err := e.ExportHTML("# Title\n\nBody text", "Title", true)
	if err != nil {
		t.Fatalf("ExportHTML() error = %v", err)
	}

	doc := string(art.Data)
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<meta charset="utf-8">`,
		"<title>Title</title>",
		"<h1",
		"<p>Body text</p>",
		"<style>",
		".chroma",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
	if art.Filename != "Title.html" {
		t.Errorf("Filename = %q, want %q", art.Filename, "Title.html")
	}
	if art.MediaType != MediaTypeHTML {
		t.Errorf("MediaType = %q, want %q", art.MediaType, MediaTypeHTML)
	}
}

func TestExportHTML_NoStyling(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t)

	art, err := e.ExportHTML("# Plain", "plain", false)
	if err != nil {
		t.Fatalf("ExportHTML() error = %v", err)
	}
	if strings.Contains(string(art.Data), "<style>") {
		t.Errorf("unstyled export contains a stylesheet:\n%s", art.Data)
	}
}

func TestExportHTML_Sanitized(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t)

	art, err := e.ExportHTML("<script>x</script>\n# T", "T", true)
	if err != nil {
		t.Fatalf("ExportHTML() error = %v", err)
	}
	doc := string(art.Data)
	if strings.Contains(strings.ToLower(doc), "<script") {
		t.Errorf("script survived export:\n%s", doc)
	}
	if !strings.Contains(doc, "<h1") {
		t.Errorf("heading missing:\n%s", doc)
	}
}

func TestExportHTML_TitleEscaped(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t)

	art, err := e.ExportHTML("body", "</title><script>", false)
	if err != nil {
		t.Fatalf("ExportHTML() error = %v", err)
	}
	if strings.Contains(string(art.Data), "<script>") {
		t.Errorf("title not escaped:\n%s", art.Data)
	}
}

func TestExportHTML_RenderFailureFallsBack(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	r.converter = failingConverter{err: errors.New("boom")}
	e, _ := newTestExporter(t, WithRenderer(r))

	art, err := e.ExportHTML("# x", "x", false)
	if err != nil {
		t.Fatalf("ExportHTML() error = %v", err)
	}
	if !strings.Contains(string(art.Data), RenderErrorFragment) {
		t.Errorf("document missing error fragment:\n%s", art.Data)
	}
}

func TestExportHTML_ColorScheme(t *testing.T) {
	t.Parallel()

	light, _ := newTestExporter(t, WithColorScheme("github"))
	dark, _ := newTestExporter(t, WithColorScheme("monokai"))

	if light.schemeCSS == dark.schemeCSS {
		t.Error("different schemes produced identical CSS")
	}
	if !strings.Contains(dark.schemeCSS, ".chroma") {
		t.Errorf("scheme CSS missing .chroma classes: %q", dark.schemeCSS)
	}
}

// ---------------------------------------------------------------------------
// TestExportPDF - Paged output
// ---------------------------------------------------------------------------

func TestExportPDF(t *testing.T) {
	t.Parallel()

	page := &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 1}
	e, fake := newTestExporter(t, WithPage(page))

	art, err := e.ExportPDF(context.Background(), "# Title\n\nBody text", "Title")
	if err != nil {
		t.Fatalf("ExportPDF() error = %v", err)
	}

	if string(art.Data) != "%PDF-1.7 fake" {
		t.Errorf("Data = %q, want converter output", art.Data)
	}
	if art.Filename != "Title.pdf" || art.MediaType != MediaTypePDF {
		t.Errorf("artifact = %q (%s), want Title.pdf (%s)", art.Filename, art.MediaType, MediaTypePDF)
	}
	if fake.page != page {
		t.Error("page settings not passed to converter")
	}
	for _, want := range []string{"<h1", "<p>Body text</p>", "page-break-after"} {
		if !strings.Contains(fake.html, want) {
			t.Errorf("printed document missing %q", want)
		}
	}
}

func TestExportPDF_Errors(t *testing.T) {
	t.Parallel()

	t.Run("converter error", func(t *testing.T) {
		t.Parallel()

		e, fake := newTestExporter(t)
		fake.err = ErrBrowserConnect

		_, err := e.ExportPDF(context.Background(), "# x", "x")
		if !errors.Is(err, ErrExport) || !errors.Is(err, ErrBrowserConnect) {
			t.Errorf("error = %v, want ErrExport wrapping ErrBrowserConnect", err)
		}
	})

	t.Run("converter panic", func(t *testing.T) {
		t.Parallel()

		e, fake := newTestExporter(t)
		fake.panics = true

		art, err := e.ExportPDF(context.Background(), "# x", "x")
		if !errors.Is(err, ErrExport) {
			t.Errorf("error = %v, want ErrExport", err)
		}
		if art != nil {
			t.Errorf("artifact = %+v, want nil", art)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		e, fake := newTestExporter(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.ExportPDF(ctx, "# x", "x")
		if !errors.Is(err, ErrExport) || !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want ErrExport wrapping context.Canceled", err)
		}
		if fake.html != "" {
			t.Error("converter called for a cancelled export")
		}
	})

	t.Run("usable after failure", func(t *testing.T) {
		t.Parallel()

		e, fake := newTestExporter(t)
		fake.err = errors.New("transient")
		if _, err := e.ExportPDF(context.Background(), "# x", "x"); err == nil {
			t.Fatal("expected error")
		}

		fake.err = nil
		if _, err := e.ExportPDF(context.Background(), "# x", "x"); err != nil {
			t.Errorf("second export error = %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewExporter - Option validation and assets
// ---------------------------------------------------------------------------

func TestNewExporter_Defaults(t *testing.T) {
	t.Parallel()

	e, err := NewExporter()
	if err != nil {
		t.Fatalf("NewExporter() with defaults error = %v", err)
	}
	defer e.Close()

	if e.scheme != DefaultEditorColorScheme {
		t.Errorf("scheme = %q, want %q", e.scheme, DefaultEditorColorScheme)
	}

	// The default scheme must round-trip through the settings mutators.
	s := NewStore()
	if err := s.SetEditorColorScheme(DefaultEditorColorScheme); err != nil {
		t.Errorf("SetEditorColorScheme(default) error = %v", err)
	}
	if err := s.ApplySetting("editorColorScheme", DefaultEditorColorScheme); err != nil {
		t.Errorf("ApplySetting(editorColorScheme, default) error = %v", err)
	}
}

func TestNewExporter_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []ExporterOption
		wantErr error
	}{
		{
			name:    "invalid page size",
			opts:    []ExporterOption{WithPage(&PageSettings{Size: "poster", Orientation: OrientationPortrait, Margin: 1})},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "invalid margin",
			opts:    []ExporterOption{WithPage(&PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: 9})},
			wantErr: ErrInvalidMargin,
		},
		{
			name:    "unknown color scheme",
			opts:    []ExporterOption{WithColorScheme("no-such-style")},
			wantErr: ErrInvalidColorScheme,
		},
		{
			name:    "missing asset path",
			opts:    []ExporterOption{WithAssetPath("/nonexistent/mdpad/assets")},
			wantErr: ErrInvalidAssetPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, err := NewExporter(tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewExporter() error = %v, want %v", err, tt.wantErr)
			}
			if e != nil {
				t.Error("NewExporter() returned an exporter with an error")
			}
		})
	}
}

func TestNewExporter_AssetPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stylesDir := filepath.Join(dir, "styles")
	if err := os.MkdirAll(stylesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	custom := "body { color: rebeccapurple; }"
	if err := os.WriteFile(filepath.Join(stylesDir, "export.css"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	e, _ := newTestExporter(t, WithAssetPath(dir))

	art, err := e.ExportHTML("# x", "x", true)
	if err != nil {
		t.Fatalf("ExportHTML() error = %v", err)
	}
	if !strings.Contains(string(art.Data), "rebeccapurple") {
		t.Error("custom export stylesheet not used")
	}
	// print.css and the template fall back to embedded assets.
	if !strings.Contains(e.printCSS, "page-break-after") {
		t.Error("embedded print stylesheet not loaded")
	}
}

// brokenLoader fails to load the template.
type brokenLoader struct{ assets.AssetLoader }

func (brokenLoader) LoadTemplate(string) (string, error) {
	return "", assets.ErrTemplateNotFound
}

func TestNewExporter_AssetLoaderError(t *testing.T) {
	t.Parallel()

	_, err := NewExporter(WithAssetLoader(brokenLoader{assets.NewEmbeddedLoader()}))
	if !errors.Is(err, assets.ErrTemplateNotFound) {
		t.Errorf("NewExporter() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestExporter_Close(t *testing.T) {
	t.Parallel()

	e, fake := newTestExporter(t)
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !fake.closed {
		t.Error("converter not closed")
	}
}
