package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpad <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Documents:")
	fmt.Fprintln(w, "  new        Create a document and make it active")
	fmt.Fprintln(w, "  list       List documents")
	fmt.Fprintln(w, "  show       Print a document")
	fmt.Fprintln(w, "  open       Make a document active")
	fmt.Fprintln(w, "  edit       Replace or append to a document's text")
	fmt.Fprintln(w, "  rename     Rename a document")
	fmt.Fprintln(w, "  move       File a document under a folder")
	fmt.Fprintln(w, "  rm         Delete documents")
	fmt.Fprintln(w, "  import     Add Markdown files as documents")
	fmt.Fprintln(w, "  search     Find documents by name or content")
	fmt.Fprintln(w, "  stats      Count lines, words and characters")
	fmt.Fprintln(w, "  watch      Mirror a document into a file and autosave its changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  export     Export documents as Markdown, HTML or PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Editor:")
	fmt.Fprintln(w, "  settings   Show or change editor settings")
	fmt.Fprintln(w, "  key        Run keyboard shortcuts")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  doctor     Check the system for PDF export and workspace storage")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Documents are referenced by id, unique id prefix, or name.")
	fmt.Fprintln(w, "Run 'mdpad help <command>' for details on a specific command.")
}

// printCommonFlags prints the flags every workspace command accepts.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --storage-dir <dir>   Workspace state directory")
	fmt.Fprintln(w, "      --namespace <key>     Workspace storage key")
	fmt.Fprintln(w, "      --log-level <level>   debug, info, warn, error")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpad export [doc...] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export documents to files. Without arguments the active document is exported.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -t, --format <s>          Format: md, html, pdf (default pdf)")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default .)")
	fmt.Fprintln(w, "      --all                 Export every document")
	fmt.Fprintln(w, "      --no-style            HTML without the default stylesheet")
	fmt.Fprintln(w, "      --scheme <name>       Code highlighting scheme (default: editor setting)")
	fmt.Fprintln(w, "      --asset-path <dir>    Override embedded styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --timeout <d>         Timeout per document (e.g. 30s, 2m)")
	printCommonFlags(w)
}

// printSettingsUsage prints usage for the settings command.
func printSettingsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpad settings [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show editor settings, optionally changing them first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --set key=value       Set a value (repeatable)")
	fmt.Fprintln(w, "      --toggle <key>        Flip a boolean setting (repeatable)")
	fmt.Fprintln(w, "      --cycle-view          Advance the view mode: split, preview, editor")
	fmt.Fprintln(w, "      --json                Output JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keys:")
	fmt.Fprintln(w, "  sidebarVisible, autoSaveEnabled, wordWrapEnabled, showLineNumbers   true/false")
	fmt.Fprintln(w, "  viewMode            split, preview, editor")
	fmt.Fprintln(w, "  colorTheme          light, dark")
	fmt.Fprintln(w, "  editorFontSize      integer within editor.minFontSize..editor.maxFontSize")
	fmt.Fprintln(w, "  editorColorScheme   chroma style name, e.g. github, monokai, dracula")
	printCommonFlags(w)
}

// printKeyUsage prints usage for the key command.
func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpad key <combo>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run keyboard shortcuts against the workspace, e.g. 'mdpad key ctrl+b ctrl+p'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shortcuts:")
	fmt.Fprintln(w, "  ctrl+n         New document")
	fmt.Fprintln(w, "  ctrl+s         Save")
	fmt.Fprintln(w, "  ctrl+b         Toggle sidebar")
	fmt.Fprintln(w, "  ctrl+p         Cycle view mode")
	fmt.Fprintln(w, "  ctrl+shift+e   Editor only")
	fmt.Fprintln(w, "  ctrl+shift+r   Preview only")
	fmt.Fprintln(w, "  ctrl+/         Focus search")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --meta                Use Meta (Cmd) instead of Ctrl")
	printCommonFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpad watch [doc] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write a document to a file, then save every change made to that file")
	fmt.Fprintln(w, "once edits pause for the autosave delay. Stops on Ctrl+C.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       File to mirror into (default <name>.md)")
	fmt.Fprintln(w, "      --delay <d>           Autosave delay (default: config autosave.delay)")
	fmt.Fprintln(w, "      --force               Overwrite an existing file with different content")
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpad doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome for PDF export and the workspace state directory.")
	printCommonFlags(w)
}

// commandUsage holds synopsis and description of the simple commands.
var commandUsage = map[string][2]string{
	"new":    {"mdpad new [name] [--content <s> | --file <path>] [--folder <s>]", "Create a document and make it active. Prints its id."},
	"list":   {"mdpad list [--folder <s>] [--json]", "List documents. The active one is marked with *."},
	"show":   {"mdpad show [doc] [--html]", "Print a document's Markdown, or its rendered preview with --html."},
	"open":   {"mdpad open <doc>", "Make a document active."},
	"edit":   {"mdpad edit [doc] (--content <s> | --file <path>) [--append]", "Replace or append to a document's text and save it. The document becomes active. --file - reads stdin."},
	"rename": {"mdpad rename <doc> <name>", "Rename a document."},
	"move":   {"mdpad move <doc> [folder]", "File a document under a folder. Without a folder it is cleared."},
	"rm":     {"mdpad rm <doc>...", "Delete documents. Deleting the active document leaves none active."},
	"import": {"mdpad import <file>... [--folder <s>]", "Add Markdown files as documents. Names come from the file names."},
	"search": {"mdpad search <query> [--json]", "Find documents whose name or content contains the query (case-insensitive)."},
	"stats":  {"mdpad stats [doc] [--json]", "Count lines, words and characters."},
}

// runHelp prints help for a command, or the main usage.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}
	if !printCommandUsage(env.Stdout, args[0]) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}

// printCommandUsage prints help for name and reports whether it is known.
func printCommandUsage(w io.Writer, name string) bool {
	switch name {
	case "export":
		printExportUsage(w)
	case "settings":
		printSettingsUsage(w)
	case "key":
		printKeyUsage(w)
	case "watch":
		printWatchUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "version":
		fmt.Fprintln(w, "Usage: mdpad version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: mdpad help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	default:
		usage, ok := commandUsage[name]
		if !ok {
			return false
		}
		fmt.Fprintln(w, "Usage: "+usage[0])
		fmt.Fprintln(w)
		fmt.Fprintln(w, usage[1])
		printCommonFlags(w)
	}
	return true
}
