package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	mdpad "github.com/alnah/go-mdpad"
	"github.com/alnah/go-mdpad/internal/fileutil"
)

// Export formats.
const (
	formatMarkdown = "md"
	formatHTML     = "html"
	formatPDF      = "pdf"
)

// dirPermissions is used when creating the output directory.
const dirPermissions = 0o750

// exportFlags holds export command flags.
type exportFlags struct {
	common    commonFlags
	page      pageFlags
	format    string
	output    string
	all       bool
	noStyle   bool
	scheme    string
	assetPath string
	workers   int
	timeout   time.Duration
}

// exportJob is one document to export and where its artifact goes.
type exportJob struct {
	doc  mdpad.Document
	path string
}

// runExport writes documents to files as Markdown, HTML or PDF.
func runExport(ctx context.Context, args []string, env *Environment) error {
	f := &exportFlags{}
	fs := newFlagSet("export")
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	fs.StringVarP(&f.format, "format", "t", formatPDF, "format: md, html, pdf")
	fs.StringVarP(&f.output, "output", "o", ".", "output directory")
	fs.BoolVar(&f.all, "all", false, "export every document")
	fs.BoolVar(&f.noStyle, "no-style", false, "HTML without the default stylesheet")
	fs.StringVar(&f.scheme, "scheme", "", "code highlighting scheme (default: editor setting)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles and templates")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel PDF workers (0 = auto)")
	fs.DurationVar(&f.timeout, "timeout", 0, "PDF export timeout per document (e.g. 30s, 2m)")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	f.format = strings.ToLower(f.format)
	switch f.format {
	case formatMarkdown, formatHTML, formatPDF:
	default:
		return fmt.Errorf("%w: unknown format %q (must be md, html, or pdf)", ErrUsage, f.format)
	}
	if f.all && len(pos) > 0 {
		return fmt.Errorf("%w: --all takes no document arguments", ErrUsage)
	}

	ws, err := openWorkspace(&f.common, env)
	if err != nil {
		return err
	}

	docs, err := selectDocuments(ws, pos, f.all)
	if err != nil {
		return err
	}

	opts, err := exporterOptions(ws, f)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(f.output, dirPermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	jobs := planJobs(docs, f.output, f.format)

	if f.format == formatPDF {
		return exportPDFs(ctx, ws, jobs, f.workers, opts)
	}

	exp, err := mdpad.NewExporter(opts...)
	if err != nil {
		return err
	}
	defer exp.Close()

	for _, job := range jobs {
		var art *mdpad.Artifact
		if f.format == formatMarkdown {
			art = exp.ExportMarkdown(job.doc.Content, job.doc.Name)
		} else if art, err = exp.ExportHTML(job.doc.Content, job.doc.Name, !f.noStyle); err != nil {
			return err
		}
		if err := writeArtifact(job.path, art); err != nil {
			return err
		}
		ws.printf("Wrote %s\n", job.path)
	}
	return nil
}

// selectDocuments picks the documents named by refs, all documents, or
// the active one.
func selectDocuments(ws *workspace, refs []string, all bool) ([]mdpad.Document, error) {
	if all {
		docs := ws.store.Documents()
		if len(docs) == 0 {
			return nil, fmt.Errorf("%w: workspace is empty", mdpad.ErrDocumentNotFound)
		}
		return docs, nil
	}
	if len(refs) == 0 {
		doc, err := ws.resolve("")
		if err != nil {
			return nil, err
		}
		return []mdpad.Document{doc}, nil
	}

	docs := make([]mdpad.Document, 0, len(refs))
	for _, ref := range refs {
		doc, err := ws.resolve(ref)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// exporterOptions merges config and flags into exporter options.
func exporterOptions(ws *workspace, f *exportFlags) ([]mdpad.ExporterOption, error) {
	page := &mdpad.PageSettings{
		Size:        ws.cfg.Export.Page.Size,
		Orientation: ws.cfg.Export.Page.Orientation,
		Margin:      ws.cfg.Export.Page.Margin,
	}
	if f.page.size != "" {
		page.Size = f.page.size
	}
	if f.page.orientation != "" {
		page.Orientation = f.page.orientation
	}
	if f.page.margin != 0 {
		page.Margin = f.page.margin
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	timeout := ws.cfg.ExportTimeout()
	if f.timeout != 0 {
		if f.timeout < 0 {
			return nil, fmt.Errorf("%w: --timeout must be positive, got %s", ErrUsage, f.timeout)
		}
		timeout = f.timeout
	}

	scheme := f.scheme
	if scheme == "" {
		scheme = ws.store.Settings().EditorColorScheme
	}

	opts := []mdpad.ExporterOption{
		mdpad.WithPage(page),
		mdpad.WithTimeout(timeout),
		mdpad.WithColorScheme(scheme),
	}

	assetPath := ws.cfg.Export.AssetPath
	if f.assetPath != "" {
		assetPath = f.assetPath
	}
	if assetPath != "" {
		opts = append(opts, mdpad.WithAssetPath(assetPath))
	}
	return opts, nil
}

// planJobs assigns each document an output path. Documents whose names
// sanitize to the same file name get numbered suffixes.
func planJobs(docs []mdpad.Document, dir, format string) []exportJob {
	used := make(map[string]bool, len(docs))
	jobs := make([]exportJob, len(docs))

	for i, doc := range docs {
		name := fileutil.ExportFilename(doc.Name, format)
		candidate := name
		ext := filepath.Ext(name)
		for n := 2; used[strings.ToLower(candidate)]; n++ {
			candidate = strings.TrimSuffix(name, ext) + "-" + strconv.Itoa(n) + ext
		}
		used[strings.ToLower(candidate)] = true

		jobs[i] = exportJob{doc: doc, path: filepath.Join(dir, candidate)}
	}
	return jobs
}

// exportPDFs prints jobs in parallel with a pool of exporters, each with
// its own browser. Every job runs; failures are joined.
func exportPDFs(ctx context.Context, ws *workspace, jobs []exportJob, workers int, opts []mdpad.ExporterOption) error {
	size := min(mdpad.ResolvePoolSize(workers), len(jobs))
	pool := mdpad.NewExporterPool(size, func() (*mdpad.Exporter, error) {
		return mdpad.NewExporter(opts...)
	})
	defer pool.Close()

	ws.log.Debug().Int("workers", size).Int("documents", len(jobs)).Msg("exporting PDF")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := exportOnePDF(ctx, pool, job)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", job.doc.Name, err))
				return
			}
			ws.printf("Wrote %s\n", job.path)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

func exportOnePDF(ctx context.Context, pool *mdpad.ExporterPool, job exportJob) error {
	exp, err := pool.Acquire()
	if err != nil {
		return err
	}
	defer pool.Release(exp)

	art, err := exp.ExportPDF(ctx, job.doc.Content, job.doc.Name)
	if err != nil {
		return err
	}
	return writeArtifact(job.path, art)
}

// writeArtifact atomically writes an artifact to path.
func writeArtifact(path string, art *mdpad.Artifact) error {
	if err := atomic.WriteFile(path, bytes.NewReader(art.Data)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteOutput, path, err)
	}
	return nil
}
