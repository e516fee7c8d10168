// Package assets provides the stylesheets, HTML templates and sample
// documents used by the render and export pipelines.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (defaults)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - custom first, embedded fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css      # export.css (HTML export), print.css (PDF)
//	├── templates/
//	│   └── {name}.html     # document.html (standalone document shell)
//	└── samples/
//	    └── {name}.md       # welcome.md (first-run document)
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
