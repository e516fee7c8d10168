package mdpad

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alnah/go-mdpad/internal/pipeline"
)

// RenderErrorFragment is returned by Render when a document cannot be
// rendered.
const RenderErrorFragment = pipeline.RenderErrorFragment

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLSanitizer        = (*pipeline.PolicySanitizer)(nil)
	_ pipeline.DocumentAssembler    = (*pipeline.TemplateAssembler)(nil)
)

// Renderer turns Markdown into sanitized HTML. It holds no per-call state
// and is safe for concurrent use; the same input always yields the same
// output.
type Renderer struct {
	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
	sanitizer    pipeline.HTMLSanitizer
	timeout      time.Duration
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithRenderTimeout bounds a single Render call. Zero means no limit.
func WithRenderTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// NewRenderer creates a Renderer with GitHub-flavored Markdown and the
// default sanitization policy.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		converter:    pipeline.NewGoldmarkConverter(),
		sanitizer:    pipeline.NewPolicySanitizer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = sync.OnceValue(func() *Renderer { return NewRenderer() })

// Render renders text with a shared default Renderer.
func Render(text string) string {
	return defaultRenderer().Render(text)
}

// Render returns safe HTML for text. It never fails: on any error it
// returns RenderErrorFragment.
func (r *Renderer) Render(text string) string {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := r.RenderContext(ctx, text)
	if err != nil {
		return RenderErrorFragment
	}
	return out
}

// RenderContext is Render with cancellation and error reporting.
// Failures wrap ErrRender; panics are recovered.
func (r *Renderer) RenderContext(ctx context.Context, text string) (html string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			html, err = "", fmt.Errorf("%w: internal error: %v", ErrRender, rec)
		}
	}()

	md := r.preprocessor.PreprocessMarkdown(ctx, text)
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}

	fragment, err := r.converter.ToHTML(ctx, md)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}

	return r.sanitizer.Sanitize(fragment), nil
}
