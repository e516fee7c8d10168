// Package mdpad is a local Markdown document workspace.
//
// # Quick Start
//
// Construct a store, bind an editing surface through the autosave
// coordinator, and render or export the active document:
//
//	store := mdpad.NewStore(
//	    mdpad.WithStorage(statefileStorage),
//	)
//	store.EnsureWelcome()
//
//	coord := mdpad.NewCoordinator(store, mdpad.WithSurface(editor))
//	defer coord.Close()
//
//	coord.Edit("# Notes\n\nfirst draft")
//	preview := coord.Preview()
//
// # Components
//
//   - Store owns the document collection, the active document and the
//     settings. Every mutation is persisted as a versioned JSON record.
//   - Coordinator debounces edits from a live editing surface and commits
//     them to the store when the typing pauses.
//   - Renderer turns Markdown into sanitized HTML. Render never fails; a
//     document that cannot be rendered yields RenderErrorFragment.
//   - Exporter produces Markdown, standalone HTML and PDF artifacts. PDF
//     printing uses headless Chrome through go-rod.
//   - Dispatcher maps keyboard shortcuts onto store and coordinator calls.
//
// # Concurrency
//
// Store and Coordinator are safe for concurrent use. Store mutations are
// serialized and change events are delivered after the mutation is
// applied, so subscribers may call back into the store.
//
// # Batch Export
//
// For exporting many documents to PDF, use ExporterPool to manage several
// browser instances:
//
//	pool := mdpad.NewExporterPool(mdpad.ResolvePoolSize(0), func() (*mdpad.Exporter, error) {
//	    return mdpad.NewExporter()
//	})
//	defer pool.Close()
package mdpad
