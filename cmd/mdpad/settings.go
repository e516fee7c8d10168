package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	mdpad "github.com/alnah/go-mdpad"
)

// settingKeys lists setting keys in display order.
var settingKeys = []string{
	"sidebarVisible",
	"viewMode",
	"colorTheme",
	"editorFontSize",
	"autoSaveEnabled",
	"wordWrapEnabled",
	"showLineNumbers",
	"editorColorScheme",
}

// settingsView is the JSON form of the settings.
type settingsView struct {
	SidebarVisible    bool   `json:"sidebarVisible"`
	ViewMode          string `json:"viewMode"`
	ColorTheme        string `json:"colorTheme"`
	EditorFontSize    int    `json:"editorFontSize"`
	AutoSaveEnabled   bool   `json:"autoSaveEnabled"`
	WordWrapEnabled   bool   `json:"wordWrapEnabled"`
	ShowLineNumbers   bool   `json:"showLineNumbers"`
	EditorColorScheme string `json:"editorColorScheme"`
}

func newSettingsView(s mdpad.Settings) settingsView {
	return settingsView{
		SidebarVisible:    s.SidebarVisible,
		ViewMode:          string(s.ViewMode),
		ColorTheme:        string(s.ColorTheme),
		EditorFontSize:    s.EditorFontSize,
		AutoSaveEnabled:   s.AutoSaveEnabled,
		WordWrapEnabled:   s.WordWrapEnabled,
		ShowLineNumbers:   s.ShowLineNumbers,
		EditorColorScheme: s.EditorColorScheme,
	}
}

// values returns the settings as strings keyed like settingKeys.
func (v settingsView) values() map[string]string {
	return map[string]string{
		"sidebarVisible":    fmt.Sprint(v.SidebarVisible),
		"viewMode":          v.ViewMode,
		"colorTheme":        v.ColorTheme,
		"editorFontSize":    fmt.Sprint(v.EditorFontSize),
		"autoSaveEnabled":   fmt.Sprint(v.AutoSaveEnabled),
		"wordWrapEnabled":   fmt.Sprint(v.WordWrapEnabled),
		"showLineNumbers":   fmt.Sprint(v.ShowLineNumbers),
		"editorColorScheme": v.EditorColorScheme,
	}
}

// printSettings writes one "key: value" line per setting.
func printSettings(w io.Writer, s mdpad.Settings) {
	values := newSettingsView(s).values()
	for _, key := range settingKeys {
		fmt.Fprintf(w, "%s: %s\n", key, values[key])
	}
}

// runSettings prints settings after applying --set, --toggle and
// --cycle-view in that order.
func runSettings(_ context.Context, args []string, env *Environment) error {
	var (
		common    commonFlags
		sets      []string
		toggles   []string
		cycleView bool
		asJSON    bool
	)
	fs := newFlagSet("settings")
	addCommonFlags(fs, &common)
	fs.StringArrayVar(&sets, "set", nil, "set key=value (repeatable)")
	fs.StringArrayVar(&toggles, "toggle", nil, "flip a boolean setting (repeatable)")
	fs.BoolVar(&cycleView, "cycle-view", false, "advance the view mode")
	fs.BoolVar(&asJSON, "json", false, "output JSON")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 0, 0); err != nil {
		return err
	}

	// Validate the syntax before touching the workspace.
	pairs := make([][2]string, len(sets))
	for i, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return fmt.Errorf("%w: --set expects key=value, got %q", ErrUsage, kv)
		}
		pairs[i] = [2]string{strings.TrimSpace(key), strings.TrimSpace(value)}
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}

	for _, p := range pairs {
		if err := ws.store.ApplySetting(p[0], p[1]); err != nil {
			return err
		}
	}
	for _, key := range toggles {
		if err := ws.store.ToggleSetting(key); err != nil {
			return err
		}
	}
	if cycleView {
		ws.store.CycleViewMode()
	}
	if err := ws.persisted(); err != nil {
		return err
	}

	if asJSON {
		return writeJSON(env.Stdout, newSettingsView(ws.store.Settings()))
	}
	printSettings(env.Stdout, ws.store.Settings())
	return nil
}

// runKey dispatches keyboard shortcuts against the workspace, as an
// editor host would, and prints the resulting action.
func runKey(_ context.Context, args []string, env *Environment) error {
	var (
		common  commonFlags
		useMeta bool
	)
	fs := newFlagSet("key")
	addCommonFlags(fs, &common)
	fs.BoolVar(&useMeta, "meta", false, "use Meta (Cmd) as the shortcut modifier")

	pos, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if err := expectArgs(pos, 1, -1); err != nil {
		return err
	}

	events := make([]mdpad.KeyEvent, len(pos))
	for i, combo := range pos {
		if events[i], err = mdpad.ParseKeyCombo(combo); err != nil {
			return err
		}
	}

	ws, err := openWorkspace(&common, env)
	if err != nil {
		return err
	}

	coord := mdpad.NewCoordinator(ws.store, mdpad.WithDelay(ws.cfg.AutosaveDelay()))
	defer coord.Close()

	d := mdpad.NewDispatcher(ws.store, coord)
	d.UseMeta = useMeta

	for _, ev := range events {
		action, handled := d.Dispatch(ev)
		if !handled {
			ws.printf("%s: not a shortcut\n", ev)
			continue
		}
		ws.printf("%s: %s\n", ev, action)
	}
	return ws.persisted()
}
