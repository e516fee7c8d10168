// Package pipeline implements the Markdown-to-safe-HTML render stages.
//
// Stages, in order:
//   - Markdown preprocessing (line normalization)
//   - Markdown to HTML fragment conversion via Goldmark (GFM, ==mark==,
//     code highlighting)
//   - HTML sanitization via bluemonday
//   - Standalone document assembly for exports (doctype, charset, title, CSS)
//
// Nothing in this package holds state between calls: the same input always
// produces the same output. PDF printing lives in the root mdpad package
// next to the browser lifecycle it depends on.
package pipeline
