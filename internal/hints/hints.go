// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-mdpad/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors during PDF export.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow exports.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in <user config dir>/mdpad/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, "mdpad/") || strings.Contains(p, `mdpad\`) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForPersistence returns hints when the workspace could not be saved or loaded.
func ForPersistence(dir string) string {
	if dir == "" {
		return format("check disk space and permissions; set MDPAD_STORAGE_DIR to relocate state")
	}
	return format(fmt.Sprintf("check that %s is writable; set MDPAD_STORAGE_DIR to relocate state", dir))
}

// ForDocumentNotFound returns a hint for unknown document references.
func ForDocumentNotFound() string {
	return format("run 'mdpad list' to see document ids")
}

// ForFontSize returns a hint on widening the font size range; the config
// accepts bounds between floor and ceiling.
func ForFontSize(floor, ceiling int) string {
	return format(fmt.Sprintf("set editor.minFontSize and editor.maxFontSize in the config (%d to %d) to change the range", floor, ceiling))
}

// ForChoices returns a hint listing accepted values.
func ForChoices(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
