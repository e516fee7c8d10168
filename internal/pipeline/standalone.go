package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrDocumentRender indicates the standalone document template failed.
var ErrDocumentRender = errors.New("document template rendering failed")

// DocumentData holds the parts of a standalone HTML document.
type DocumentData struct {
	Title string
	CSS   string // raw stylesheet, empty for none
	Body  string // sanitized HTML fragment
}

// DocumentAssembler defines the contract for wrapping a fragment into a
// complete HTML document.
type DocumentAssembler interface {
	Assemble(ctx context.Context, data DocumentData) (string, error)
}

// TemplateAssembler renders DocumentData through an html/template.
type TemplateAssembler struct {
	tmpl *template.Template
}

// NewTemplateAssembler creates a TemplateAssembler from template content.
// Returns error if the template cannot be parsed.
func NewTemplateAssembler(tmplContent string) (*TemplateAssembler, error) {
	tmpl, err := template.New("document").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}
	return &TemplateAssembler{tmpl: tmpl}, nil
}

// templateData is what the document template sees. Body and CSS are typed
// so html/template does not escape them a second time.
type templateData struct {
	Title string
	CSS   template.CSS
	Body  template.HTML
}

// Assemble renders the standalone document. The title is escaped by the
// template; the body must already be sanitized.
func (a *TemplateAssembler) Assemble(ctx context.Context, data DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	td := templateData{
		Title: data.Title,
		CSS:   template.CSS(sanitizeCSS(data.CSS)), // #nosec G203 -- </ sequences escaped
		Body:  template.HTML(data.Body),            // #nosec G203 -- sanitized upstream
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, td); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
