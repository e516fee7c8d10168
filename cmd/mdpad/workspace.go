package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	mdpad "github.com/alnah/go-mdpad"
	"github.com/alnah/go-mdpad/internal/config"
	"github.com/alnah/go-mdpad/internal/logging"
	"github.com/alnah/go-mdpad/internal/statefile"
)

// shortIDLength is how many id characters list output shows.
const shortIDLength = 8

// workspace is an opened store plus the configuration it was opened with.
type workspace struct {
	cfg      *config.Config
	store    *mdpad.Store
	log      zerolog.Logger
	dir      string
	env      *Environment
	quiet    bool
	warnings []error
}

// loadConfig resolves the configuration: --config when given, the
// environment's config otherwise, then environment variables and flags.
func loadConfig(f *commonFlags, env *Environment) (*config.Config, error) {
	var cfg *config.Config
	if f.config != "" {
		loaded, err := config.LoadConfig(f.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if env.Config != nil {
		copied := *env.Config
		cfg = &copied
	} else {
		cfg = config.DefaultConfig()
	}

	cfg.ApplyEnv(env.getenv())

	if f.storageDir != "" {
		cfg.Storage.Dir = f.storageDir
	}
	if f.namespace != "" {
		cfg.Storage.Namespace = f.namespace
	}
	switch {
	case f.logLevel != "":
		cfg.Log.Level = f.logLevel
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "error"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openWorkspace loads the persisted workspace. A first run creates the
// welcome document. An unreadable state record is an error here, so the
// CLI never overwrites it with an empty workspace.
func openWorkspace(f *commonFlags, env *Environment) (*workspace, error) {
	cfg, err := loadConfig(f, env)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(env.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mdpad.ErrPersistence, err)
	}

	ws := &workspace{cfg: cfg, log: log, dir: dir, env: env, quiet: f.quiet}
	ws.store = mdpad.NewStore(
		mdpad.WithStorage(statefile.NewDirStorage(dir)),
		mdpad.WithNamespace(cfg.Storage.Namespace),
		mdpad.WithFontSizeRange(cfg.Editor.MinFontSize, cfg.Editor.MaxFontSize),
		mdpad.WithClock(env.Now),
		mdpad.WithLogger(log),
		mdpad.WithWarningHandler(func(err error) {
			ws.warnings = append(ws.warnings, err)
		}),
	)
	if len(ws.warnings) > 0 {
		return nil, ws.warnings[0]
	}

	if id, created := ws.store.EnsureWelcome(); created {
		log.Info().Str("id", id).Msg("created welcome document")
	}
	return ws, ws.persisted()
}

// persisted returns the error of the latest save, if it failed.
func (ws *workspace) persisted() error {
	return ws.store.LastPersistError()
}

// printf writes to stdout unless --quiet was given.
func (ws *workspace) printf(format string, args ...any) {
	if ws.quiet {
		return
	}
	fmt.Fprintf(ws.env.Stdout, format, args...)
}

// resolve finds a document by exact id, unique id prefix or name
// (case-insensitive). An empty ref means the active document.
func (ws *workspace) resolve(ref string) (mdpad.Document, error) {
	if ref == "" {
		doc, ok := ws.store.ActiveDocument()
		if !ok {
			return mdpad.Document{}, mdpad.ErrNoActiveDocument
		}
		return doc, nil
	}

	if doc, ok := ws.store.Document(ref); ok {
		return doc, nil
	}

	var matches []mdpad.Document
	for _, doc := range ws.store.Documents() {
		if strings.HasPrefix(doc.ID, ref) || strings.EqualFold(doc.Name, ref) {
			matches = append(matches, doc)
		}
	}

	switch len(matches) {
	case 0:
		return mdpad.Document{}, fmt.Errorf("%w: %q", mdpad.ErrDocumentNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return mdpad.Document{}, fmt.Errorf("%w: %q matches %d documents", ErrAmbiguousRef, ref, len(matches))
}

// resolveOptional resolves the first positional argument, or the active
// document when there is none.
func (ws *workspace) resolveOptional(args []string) (mdpad.Document, error) {
	if len(args) == 0 {
		return ws.resolve("")
	}
	return ws.resolve(args[0])
}

// readContent returns text from --content or --file. ok is false when
// neither was given.
func readContent(f *contentFlags, stdin io.Reader) (text string, ok bool, err error) {
	switch {
	case f.file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}
		return string(data), true, nil
	case f.file != "":
		data, err := os.ReadFile(f.file) // #nosec G304 -- user-provided path
		if err != nil {
			return "", false, fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		return string(data), true, nil
	case f.content != "":
		return f.content, true, nil
	}
	return "", false, nil
}

// shortID abbreviates an id for table output.
func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}
