package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"

	mdpad "github.com/alnah/go-mdpad"
)

// listTimeFormat is how list output shows modification times.
const listTimeFormat = "2006-01-02 15:04"

// documentEntry is the JSON form of a document in list and search output.
type documentEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Folder    string    `json:"folder,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Active    bool      `json:"active"`
	Words     int       `json:"words"`
}

// printDocuments writes docs as a table, or as JSON when asJSON is set.
func printDocuments(w io.Writer, docs []mdpad.Document, activeID string, asJSON bool) error {
	if asJSON {
		entries := make([]documentEntry, len(docs))
		for i, doc := range docs {
			entries[i] = documentEntry{
				ID:        doc.ID,
				Name:      doc.Name,
				Folder:    doc.Folder,
				CreatedAt: doc.CreatedAt,
				UpdatedAt: doc.UpdatedAt,
				Active:    doc.ID == activeID,
				Words:     mdpad.ComputeStats(doc.Content).Words,
			}
		}
		return writeJSON(w, entries)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tFOLDER\tUPDATED\tWORDS")
	for _, doc := range docs {
		marker := ""
		if doc.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			marker, shortID(doc.ID), doc.Name, doc.Folder,
			doc.UpdatedAt.Local().Format(listTimeFormat),
			mdpad.ComputeStats(doc.Content).Words)
	}
	return tw.Flush()
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// ensureNewline terminates text with a newline for terminal output.
func ensureNewline(text string) string {
	if strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}

// runNew creates a document and makes it active.
func runNew(_ context.Context, args []string, env *Environment) error {
	var (
		common commonFlags
		src    contentFlags
		folder string
	)
	fs := newFlagSet("new")
	addCommonFlags(fs, &common)
	addContentFlags(fs, &src)
	fs.StringVar(&folder, "folder", "", "folder to file the document under")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 0, 1); err != nil {
		return err
	}

	name := mdpad.NewDocumentName
	if len(pos) == 1 {
		name = pos[0]
	}

	text, ok, err := readContent(&src, env.Stdin)
	if err != nil {
		return err
	}
	if !ok {
		text = mdpad.NewDocumentContent
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}

	id := ws.store.CreateDocument(name, text, folder)
	if err := ws.persisted(); err != nil {
		return err
	}
	ws.printf("%s\n", id)
	return nil
}

// runList prints every document in workspace order.
func runList(_ context.Context, args []string, env *Environment) error {
	var (
		common commonFlags
		asJSON bool
		folder string
	)
	fs := newFlagSet("list")
	addCommonFlags(fs, &common)
	fs.BoolVar(&asJSON, "json", false, "output JSON")
	fs.StringVar(&folder, "folder", "", "only documents in this folder")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 0, 0); err != nil {
		return err
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}

	docs := ws.store.Documents()
	if fs.Changed("folder") {
		filtered := docs[:0]
		for _, doc := range docs {
			if doc.Folder == folder {
				filtered = append(filtered, doc)
			}
		}
		docs = filtered
	}
	return printDocuments(env.Stdout, docs, ws.store.ActiveID(), asJSON)
}

// runShow prints a document's Markdown or rendered HTML.
func runShow(ctx context.Context, args []string, env *Environment) error {
	var (
		common commonFlags
		asHTML bool
	)
	fs := newFlagSet("show")
	addCommonFlags(fs, &common)
	fs.BoolVar(&asHTML, "html", false, "print the rendered preview instead")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 0, 1); err != nil {
		return err
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}
	doc, err := ws.resolveOptional(pos)
	if err != nil {
		return err
	}

	text := doc.Content
	if asHTML {
		if text, err = mdpad.NewRenderer().RenderContext(ctx, doc.Content); err != nil {
			return err
		}
	}
	fmt.Fprint(env.Stdout, ensureNewline(text))
	return nil
}

// runOpen makes a document active.
func runOpen(_ context.Context, args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("open")
	addCommonFlags(fs, &common)

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 1, 1); err != nil {
		return err
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}
	doc, err := ws.resolve(pos[0])
	if err != nil {
		return err
	}

	ws.store.SetActiveDocument(doc.ID)
	if err := ws.persisted(); err != nil {
		return err
	}
	ws.printf("Opened %s (%s)\n", doc.Name, shortID(doc.ID))
	return nil
}

// runRename renames a document.
func runRename(_ context.Context, args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("rename")
	addCommonFlags(fs, &common)

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 2, 2); err != nil {
		return err
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}
	doc, err := ws.resolve(pos[0])
	if err != nil {
		return err
	}

	if err := ws.store.RenameDocument(doc.ID, pos[1]); err != nil {
		return err
	}
	return ws.persisted()
}

// runMove files a document under a folder; an empty folder clears it.
func runMove(_ context.Context, args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("move")
	addCommonFlags(fs, &common)

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 1, 2); err != nil {
		return err
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}
	doc, err := ws.resolve(pos[0])
	if err != nil {
		return err
	}

	folder := ""
	if len(pos) == 2 {
		folder = pos[1]
	}
	if err := ws.store.UpdateDocument(doc.ID, mdpad.UpdateFolder(folder)); err != nil {
		return err
	}
	return ws.persisted()
}

// runRemove deletes documents.
func runRemove(_ context.Context, args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("rm")
	addCommonFlags(fs, &common)

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 1, -1); err != nil {
		return err
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}

	// Resolve everything first so a bad reference deletes nothing.
	docs := make([]mdpad.Document, 0, len(pos))
	for _, ref := range pos {
		doc, err := ws.resolve(ref)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	for _, doc := range docs {
		if err := ws.store.DeleteDocument(doc.ID); err != nil {
			return err
		}
		ws.printf("Deleted %s (%s)\n", doc.Name, shortID(doc.ID))
	}
	return ws.persisted()
}

// runEdit replaces or appends to a document's text through the autosave
// coordinator and saves it. The document becomes active.
func runEdit(_ context.Context, args []string, env *Environment) error {
	var (
		common     commonFlags
		src        contentFlags
		appendText bool
	)
	fs := newFlagSet("edit")
	addCommonFlags(fs, &common)
	addContentFlags(fs, &src)
	fs.BoolVarP(&appendText, "append", "a", false, "append instead of replacing")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 0, 1); err != nil {
		return err
	}

	text, ok, err := readContent(&src, env.Stdin)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: nothing to write, use --content or --file", ErrUsage)
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}
	doc, err := ws.resolveOptional(pos)
	if err != nil {
		return err
	}

	ws.store.SetActiveDocument(doc.ID)
	coord := mdpad.NewCoordinator(ws.store,
		mdpad.WithDelay(ws.cfg.AutosaveDelay()),
		mdpad.WithCommitHook(func(id string) {
			ws.log.Info().Str("id", id).Msg("document saved")
		}),
	)
	defer coord.Close()

	if appendText {
		text = coord.Buffer() + text
	}
	coord.Edit(text)
	if err := coord.Save(); err != nil {
		return err
	}
	return ws.persisted()
}

// runImport adds Markdown files as new documents.
func runImport(_ context.Context, args []string, env *Environment) error {
	var (
		common commonFlags
		folder string
	)
	fs := newFlagSet("import")
	addCommonFlags(fs, &common)
	fs.StringVar(&folder, "folder", "", "folder to file the documents under")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 1, -1); err != nil {
		return err
	}

	// Read everything first so a bad path imports nothing.
	texts := make([]string, len(pos))
	for i, path := range pos {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		texts[i] = string(data)
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}

	for i, path := range pos {
		id := ws.store.ImportDocument(texts[i], filepath.Base(path))
		if folder != "" {
			if err := ws.store.UpdateDocument(id, mdpad.UpdateFolder(folder)); err != nil {
				return err
			}
		}
		doc, _ := ws.store.Document(id)
		ws.printf("Imported %s as %s (%s)\n", path, doc.Name, shortID(id))
	}
	return ws.persisted()
}

// runSearch lists documents whose name or content contains the query.
func runSearch(_ context.Context, args []string, env *Environment) error {
	var (
		common commonFlags
		asJSON bool
	)
	fs := newFlagSet("search")
	addCommonFlags(fs, &common)
	fs.BoolVar(&asJSON, "json", false, "output JSON")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 1, 1); err != nil {
		return err
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}
	return printDocuments(env.Stdout, ws.store.Search(pos[0]), ws.store.ActiveID(), asJSON)
}

// runStats prints line, word and character counts.
func runStats(_ context.Context, args []string, env *Environment) error {
	var (
		common commonFlags
		asJSON bool
	)
	fs := newFlagSet("stats")
	addCommonFlags(fs, &common)
	fs.BoolVar(&asJSON, "json", false, "output JSON")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 0, 1); err != nil {
		return err
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}
	doc, err := ws.resolveOptional(pos)
	if err != nil {
		return err
	}

	stats := mdpad.ComputeStats(doc.Content)
	if asJSON {
		return writeJSON(env.Stdout, struct {
			Lines      int `json:"lines"`
			Words      int `json:"words"`
			Characters int `json:"characters"`
		}{stats.Lines, stats.Words, stats.Characters})
	}
	fmt.Fprintf(env.Stdout, "Lines: %d\nWords: %d\nCharacters: %d\n", stats.Lines, stats.Words, stats.Characters)
	return nil
}
