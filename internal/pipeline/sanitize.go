package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// RenderErrorFragment replaces the preview when a document cannot be
// rendered. It is static, so it is safe without sanitization.
const RenderErrorFragment = `<p class="render-error">Error parsing markdown</p>`

var (
	// Chroma and footnote classes: letters, digits, dash, underscore, spaces.
	classPattern = regexp.MustCompile(`^[A-Za-z0-9_\- ]+$`)

	// Heading and footnote anchors generated by Goldmark.
	anchorPattern = regexp.MustCompile(`^[A-Za-z0-9_\-:.]+$`)

	checkboxPattern = regexp.MustCompile(`^checkbox$`)

	// Boolean attributes render as checked="" in XHTML mode.
	booleanAttrPattern = regexp.MustCompile(`^(|checked|disabled)$`)
)

// HTMLSanitizer removes executable content from rendered HTML.
type HTMLSanitizer interface {
	Sanitize(htmlContent string) string
}

// PolicySanitizer sanitizes HTML with a bluemonday policy.
type PolicySanitizer struct {
	policy *bluemonday.Policy
}

// NewPolicySanitizer builds the preview policy: user-generated-content
// rules (no scripts, no event handlers, http/https/mailto/relative URLs
// only) plus what the Markdown stage emits for task lists, highlighting
// and heading anchors.
func NewPolicySanitizer() *PolicySanitizer {
	p := bluemonday.UGCPolicy()

	p.AllowElements("mark", "section")
	p.AllowAttrs("class").Matching(classPattern).OnElements(
		"pre", "code", "span", "div", "section", "a", "sup", "li", "ol", "p", "hr",
	)
	p.AllowAttrs("id").Matching(anchorPattern).OnElements(
		"h1", "h2", "h3", "h4", "h5", "h6", "li", "sup", "div", "section",
	)
	p.AllowAttrs("type").Matching(checkboxPattern).OnElements("input")
	p.AllowAttrs("checked", "disabled").Matching(booleanAttrPattern).OnElements("input")

	return &PolicySanitizer{policy: p}
}

// Sanitize returns htmlContent with disallowed elements and attributes removed.
func (s *PolicySanitizer) Sanitize(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}
	return s.policy.Sanitize(htmlContent)
}
