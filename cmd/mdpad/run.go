package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	mdpad "github.com/alnah/go-mdpad"
	"github.com/alnah/go-mdpad/internal/config"
	"github.com/alnah/go-mdpad/internal/hints"
)

// commandFunc runs one subcommand with its arguments.
type commandFunc func(ctx context.Context, args []string, env *Environment) error

// commands maps subcommand names to their implementations. help,
// version and doctor are handled by runMain.
var commands = map[string]commandFunc{
	"new":      runNew,
	"list":     runList,
	"show":     runShow,
	"open":     runOpen,
	"edit":     runEdit,
	"rename":   runRename,
	"move":     runMove,
	"rm":       runRemove,
	"import":   runImport,
	"search":   runSearch,
	"stats":    runStats,
	"export":   runExport,
	"settings": runSettings,
	"key":      runKey,
	"watch":    runWatch,
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	name, rest := args[1], args[2:]
	switch name {
	case "help", "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdpad %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	}

	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", name)
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		printCommandUsage(env.Stdout, name)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdpad.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, mdpad.ErrPersistence):
		return hints.ForPersistence("")
	case errors.Is(err, mdpad.ErrDocumentNotFound), errors.Is(err, ErrAmbiguousRef):
		return hints.ForDocumentNotFound()
	case errors.Is(err, mdpad.ErrInvalidFontSize):
		return hints.ForFontSize(config.FontSizeFloor, config.FontSizeCeiling)
	case errors.Is(err, mdpad.ErrInvalidViewMode):
		return hints.ForChoices([]string{string(mdpad.ViewSplit), string(mdpad.ViewPreview), string(mdpad.ViewEditor)})
	case errors.Is(err, mdpad.ErrInvalidColorTheme):
		return hints.ForChoices([]string{string(mdpad.ThemeLight), string(mdpad.ThemeDark)})
	case errors.Is(err, mdpad.ErrInvalidColorScheme):
		return hints.ForChoices(mdpad.ColorSchemes())
	case errors.Is(err, mdpad.ErrUnknownSetting):
		return hints.ForChoices(settingKeys)
	}
	return ""
}
