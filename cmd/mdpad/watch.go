package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"

	mdpad "github.com/alnah/go-mdpad"
	"github.com/alnah/go-mdpad/internal/fileutil"
)

// fileSurface mirrors the coordinator buffer into a file. Writes made by
// the surface itself are remembered so the watcher does not feed them
// back as edits.
type fileSurface struct {
	path string
	log  zerolog.Logger

	mu   sync.Mutex
	last string
}

// SetText writes text to the file when it differs from the file's
// last known content.
func (f *fileSurface) SetText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if text == f.last {
		return
	}
	if err := atomic.WriteFile(f.path, bytes.NewReader([]byte(text))); err != nil {
		f.log.Warn().Err(err).Str("path", f.path).Msg("updating watched file")
		return
	}
	f.last = text
}

// read returns the file content and whether it changed since the last
// read or write.
func (f *fileSurface) read() (string, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	text := string(data)
	if text == f.last {
		return "", false, nil
	}
	f.last = text
	return text, true, nil
}

// compile-time check
var _ mdpad.Surface = (*fileSurface)(nil)

// runWatch mirrors a document into a file and saves changes made to the
// file through the autosave coordinator until interrupted.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	var (
		common commonFlags
		path   string
		delay  time.Duration
		force  bool
	)
	fs := newFlagSet("watch")
	addCommonFlags(fs, &common)
	fs.StringVarP(&path, "output", "o", "", "file to mirror the document into (default: <name>.md)")
	fs.DurationVar(&delay, "delay", 0, "autosave delay (default: config autosave.delay)")
	fs.BoolVar(&force, "force", false, "overwrite an existing file with different content")

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

	if path == "" {
		path = fileutil.ExportFilename(doc.Name, "md")
	}
	if path, err = filepath.Abs(path); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if !force {
		if data, err := os.ReadFile(path); err == nil && string(data) != doc.Content {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, path)
		}
	}
	if delay <= 0 {
		delay = ws.cfg.AutosaveDelay()
	}

	ws.store.SetActiveDocument(doc.ID)
	surface := &fileSurface{path: path, log: ws.log}
	coord := mdpad.NewCoordinator(ws.store,
		mdpad.WithDelay(delay),
		mdpad.WithSurface(surface),
		mdpad.WithCommitHook(func(id string) {
			ws.log.Info().Str("id", id).Msg("document saved")
		}),
	)
	defer coord.Close()

	if !ws.quiet {
		fmt.Fprintf(env.Stderr, "Watching %s (Ctrl+C to stop)\n", path)
	}

	if err := watchFile(ctx, surface, coord, ws.log); err != nil {
		return err
	}

	// Flush edits still waiting for the autosave delay.
	if coord.Dirty() {
		if err := coord.Save(); err != nil {
			return err
		}
	}
	return ws.persisted()
}

// watchFile feeds changes of the surface file into coord until ctx is
// done. The parent directory is watched so editors that save by
// renaming a temporary file are seen too.
func watchFile(ctx context.Context, surface *fileSurface, coord *mdpad.Coordinator, log zerolog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(surface.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(surface.path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != surface.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			text, changed, err := surface.read()
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					log.Warn().Err(err).Str("path", surface.path).Msg("reading watched file")
				}
				continue
			}
			if changed {
				log.Debug().Str("path", surface.path).Int("bytes", len(text)).Msg("file changed")
				coord.Edit(text)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("file watcher")
		}
	}
}
