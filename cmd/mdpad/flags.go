package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by every workspace command.
type commonFlags struct {
	config     string
	storageDir string
	namespace  string
	logLevel   string
	quiet      bool
	verbose    bool
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// contentFlags selects where new document text comes from.
type contentFlags struct {
	content string
	file    string // "-" = stdin
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.storageDir, "storage-dir", "", "workspace state directory")
	fs.StringVar(&f.namespace, "namespace", "", "workspace storage key")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "margin in inches (0.25-3.0)")
}

// addContentFlags adds content source flags to a FlagSet.
func addContentFlags(fs *flag.FlagSet, f *contentFlags) {
	fs.StringVar(&f.content, "content", "", "document text")
	fs.StringVarP(&f.file, "file", "f", "", "read document text from a file (- for stdin)")
}

// newFlagSet returns a FlagSet that reports errors instead of printing them.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parseFlags parses args and returns the positional arguments. Parse
// errors wrap ErrUsage; -h and --help return flag.ErrHelp.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// expectArgs checks the positional argument count.
func expectArgs(args []string, minArgs, maxArgs int) error {
	if len(args) < minArgs {
		return fmt.Errorf("%w: expected at least %d argument(s), got %d", ErrUsage, minArgs, len(args))
	}
	if maxArgs >= 0 && len(args) > maxArgs {
		return fmt.Errorf("%w: expected at most %d argument(s), got %d", ErrUsage, maxArgs, len(args))
	}
	return nil
}
