package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdpad "github.com/alnah/go-mdpad"
	"github.com/alnah/go-mdpad/internal/config"
)

// openTestWorkspace opens a fresh workspace holding only the welcome
// document.
func openTestWorkspace(t *testing.T) *workspace {
	t.Helper()

	env := newTestEnv(t)
	env.Config.Log.Level = "error"
	ws, err := openWorkspace(&commonFlags{}, env)
	if err != nil {
		t.Fatalf("openWorkspace: %v", err)
	}
	return ws
}

// ---------------------------------------------------------------------------
// TestWorkspaceResolve - Document references
// ---------------------------------------------------------------------------

func TestWorkspaceResolve(t *testing.T) {
	t.Parallel()

	ws := openTestWorkspace(t)
	alpha := ws.store.CreateDocument("Alpha", "", "")
	ws.store.CreateDocument("beta", "", "")
	ws.store.CreateDocument("Beta", "", "")

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr error
	}{
		{name: "empty is active", ref: "", wantID: ws.store.ActiveID()},
		{name: "exact id", ref: alpha, wantID: alpha},
		{name: "id prefix", ref: alpha[:8], wantID: alpha},
		{name: "name ignores case", ref: "ALPHA", wantID: alpha},
		{name: "unknown", ref: "gamma", wantErr: mdpad.ErrDocumentNotFound},
		{name: "duplicate names", ref: "BETA", wantErr: ErrAmbiguousRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ws.resolve(tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("resolve(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve(%q): %v", tt.ref, err)
			}
			if doc.ID != tt.wantID {
				t.Errorf("resolve(%q) = %s, want %s", tt.ref, doc.ID, tt.wantID)
			}
		})
	}

	t.Run("no active document", func(t *testing.T) {
		ws.store.SetActiveDocument("")
		if _, err := ws.resolveOptional(nil); !errors.Is(err, mdpad.ErrNoActiveDocument) {
			t.Errorf("resolveOptional(nil) error = %v, want ErrNoActiveDocument", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Precedence of config sources
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("env config is not mutated", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		dir := env.Config.Storage.Dir
		cfg, err := loadConfig(&commonFlags{storageDir: "/elsewhere", namespace: "other"}, env)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Storage.Dir != "/elsewhere" || cfg.Storage.Namespace != "other" {
			t.Errorf("storage = %+v, want flag values", cfg.Storage)
		}
		if env.Config.Storage.Dir != dir || env.Config.Storage.Namespace != config.DefaultNamespace {
			t.Errorf("environment config mutated: %+v", env.Config.Storage)
		}
	})

	t.Run("log level precedence", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			flags commonFlags
			want  string
		}{
			{commonFlags{}, config.DefaultConfig().Log.Level},
			{commonFlags{verbose: true}, "debug"},
			{commonFlags{quiet: true}, "error"},
			{commonFlags{quiet: true, logLevel: "info"}, "info"},
		}
		for _, tt := range tests {
			cfg, err := loadConfig(&tt.flags, newTestEnv(t))
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Log.Level != tt.want {
				t.Errorf("flags %+v: level = %q, want %q", tt.flags, cfg.Log.Level, tt.want)
			}
		}
	})

	t.Run("nil environment config", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		env.Config = nil
		env.Getenv = nil
		if _, err := loadConfig(&commonFlags{storageDir: t.TempDir()}, env); err != nil {
			t.Errorf("loadConfig: %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestReadContent - Content sources
// ---------------------------------------------------------------------------

func TestReadContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "in.md")
	if err := os.WriteFile(path, []byte("from file"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		flags   contentFlags
		want    string
		wantOK  bool
		wantErr error
	}{
		{name: "none", flags: contentFlags{}},
		{name: "inline", flags: contentFlags{content: "inline"}, want: "inline", wantOK: true},
		{name: "file", flags: contentFlags{file: path}, want: "from file", wantOK: true},
		{name: "file beats inline", flags: contentFlags{file: path, content: "x"}, want: "from file", wantOK: true},
		{name: "stdin", flags: contentFlags{file: "-"}, want: "from stdin", wantOK: true},
		{name: "missing file", flags: contentFlags{file: path + ".missing"}, wantErr: ErrReadInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok, err := readContent(&tt.flags, strings.NewReader("from stdin"))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("readContent = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExpectArgs - Positional argument counts
// ---------------------------------------------------------------------------

func TestExpectArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		n        int
		min, max int
		wantErr  bool
	}{
		{"exact", 1, 1, 1, false},
		{"too few", 0, 1, 1, true},
		{"too many", 3, 0, 2, true},
		{"unbounded", 10, 1, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := expectArgs(make([]string, tt.n), tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("expectArgs error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUsage) {
				t.Errorf("error %v does not wrap ErrUsage", err)
			}
		})
	}
}
