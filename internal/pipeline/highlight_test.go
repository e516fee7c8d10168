package pipeline

// Notes:
// - Highlight is exercised through NewGoldmarkConverter, which is how the
//   renderer uses it; the delimiter rules are goldmark's own.

import (
	"context"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestHighlight - ==mark== syntax
// ---------------------------------------------------------------------------

func TestHighlight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "single",
			input:    "a ==b== c",
			contains: []string{"<p>a <mark>b</mark> c</p>"},
		},
		{
			name:     "two on one line",
			input:    "==x== and ==y==",
			contains: []string{"<mark>x</mark> and <mark>y</mark>"},
		},
		{
			name:     "nested emphasis",
			input:    "==**bold** note==",
			contains: []string{"<mark><strong>bold</strong> note</mark>"},
		},
		{
			name:        "empty run is literal",
			input:       "a ==== b",
			contains:    []string{"a ==== b"},
			notContains: []string{"<mark>"},
		},
		{
			name:        "triple run is literal",
			input:       "===x===",
			notContains: []string{"<mark>"},
		},
		{
			name:        "unclosed",
			input:       "==open",
			contains:    []string{"==open"},
			notContains: []string{"<mark>"},
		},
		{
			name:        "comparison operators",
			input:       "if a == b and c == d",
			contains:    []string{"if a == b and c == d"},
			notContains: []string{"<mark>"},
		},
		{
			name:        "does not span paragraphs",
			input:       "==a\n\nb==",
			notContains: []string{"<mark>"},
		},
	}

	conv := NewGoldmarkConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML(%q) missing %q in:\n%s", tt.input, want, got)
				}
			}
			for _, bad := range tt.notContains {
				if strings.Contains(got, bad) {
					t.Errorf("ToHTML(%q) contains %q in:\n%s", tt.input, bad, got)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHighlight_LiteralContexts - Code and URLs keep their text
// ---------------------------------------------------------------------------

func TestHighlight_LiteralContexts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{
			name:     "code span",
			input:    "use `a ==b== c` here",
			contains: "<code>a ==b== c</code>",
		},
		{
			name:     "indented code",
			input:    "    indented ==code== block",
			contains: "indented ==code== block",
		},
		{
			name:     "fence in blockquote",
			input:    "> ```\n> x ==y== z\n> ```",
			contains: "x ==y== z",
		},
		{
			name:     "fence in list",
			input:    "- item\n\n  ```\n  p ==q== r\n  ```",
			contains: "p ==q== r",
		},
		{
			name:     "link destination",
			input:    "[link](http://x/?a==b==c)",
			contains: `href="http://x/?a==b==c"`,
		},
		{
			name:     "autolink",
			input:    "<http://x/?a==b==c>",
			contains: `href="http://x/?a==b==c"`,
		},
	}

	conv := NewGoldmarkConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("ToHTML(%q) missing %q in:\n%s", tt.input, tt.contains, got)
			}
			if strings.Contains(got, "<mark>") {
				t.Errorf("ToHTML(%q) highlighted literal text:\n%s", tt.input, got)
			}
		})
	}
}
