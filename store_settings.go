package mdpad

import (
	"fmt"
	"strconv"
	"strings"
)

// ToggleSidebar flips SidebarVisible.
func (s *Store) ToggleSidebar() {
	s.updateSettings(func(st *Settings) { st.SidebarVisible = !st.SidebarVisible })
}

// ToggleAutoSave flips AutoSaveEnabled.
func (s *Store) ToggleAutoSave() {
	s.updateSettings(func(st *Settings) { st.AutoSaveEnabled = !st.AutoSaveEnabled })
}

// ToggleWordWrap flips WordWrapEnabled.
func (s *Store) ToggleWordWrap() {
	s.updateSettings(func(st *Settings) { st.WordWrapEnabled = !st.WordWrapEnabled })
}

// ToggleLineNumbers flips ShowLineNumbers.
func (s *Store) ToggleLineNumbers() {
	s.updateSettings(func(st *Settings) { st.ShowLineNumbers = !st.ShowLineNumbers })
}

// SetViewMode sets the view mode.
func (s *Store) SetViewMode(m ViewMode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidViewMode, m)
	}
	s.updateSettings(func(st *Settings) { st.ViewMode = m })
	return nil
}

// CycleViewMode advances split -> preview -> editor -> split and returns
// the new mode.
func (s *Store) CycleViewMode() ViewMode {
	var next ViewMode
	s.updateSettings(func(st *Settings) {
		st.ViewMode = st.ViewMode.next()
		next = st.ViewMode
	})
	return next
}

// SetColorTheme sets the color theme.
func (s *Store) SetColorTheme(t ColorTheme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidColorTheme, t)
	}
	s.updateSettings(func(st *Settings) { st.ColorTheme = t })
	return nil
}

// SetEditorFontSize sets the font size. Values outside the configured
// range return ErrInvalidFontSize and leave the setting unchanged.
func (s *Store) SetEditorFontSize(size int) error {
	if size < s.minFont || size > s.maxFont {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidFontSize, size, s.minFont, s.maxFont)
	}
	s.updateSettings(func(st *Settings) { st.EditorFontSize = size })
	return nil
}

// SetEditorColorScheme sets the syntax highlighting scheme by chroma
// style name.
func (s *Store) SetEditorColorScheme(name string) error {
	if !ValidColorScheme(name) {
		return fmt.Errorf("%w: %q", ErrInvalidColorScheme, name)
	}
	s.updateSettings(func(st *Settings) { st.EditorColorScheme = name })
	return nil
}

// ApplySetting sets one setting from its textual key and value, as used
// by configuration surfaces. Keys: sidebarVisible, viewMode, colorTheme,
// editorFontSize, autoSaveEnabled, wordWrapEnabled, showLineNumbers,
// editorColorScheme.
func (s *Store) ApplySetting(key, value string) error {
	switch key {
	case "viewMode":
		return s.SetViewMode(ViewMode(strings.ToLower(value)))
	case "colorTheme":
		return s.SetColorTheme(ColorTheme(strings.ToLower(value)))
	case "editorFontSize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidFontSize, value)
		}
		return s.SetEditorFontSize(n)
	case "editorColorScheme":
		return s.SetEditorColorScheme(value)
	case "sidebarVisible", "autoSaveEnabled", "wordWrapEnabled", "showLineNumbers":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s.updateSettings(func(st *Settings) { *boolSetting(st, key) = b })
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
}

// ToggleSetting flips a boolean setting by key.
func (s *Store) ToggleSetting(key string) error {
	switch key {
	case "sidebarVisible", "autoSaveEnabled", "wordWrapEnabled", "showLineNumbers":
		s.updateSettings(func(st *Settings) {
			p := boolSetting(st, key)
			*p = !*p
		})
		return nil
	}
	return fmt.Errorf("%w: %q is not a toggle", ErrUnknownSetting, key)
}

func boolSetting(st *Settings, key string) *bool {
	switch key {
	case "sidebarVisible":
		return &st.SidebarVisible
	case "autoSaveEnabled":
		return &st.AutoSaveEnabled
	case "wordWrapEnabled":
		return &st.WordWrapEnabled
	default:
		return &st.ShowLineNumbers
	}
}

func (s *Store) updateSettings(fn func(*Settings)) {
	_ = s.mutate(func() ([]Event, error) {
		fn(&s.settings)
		return []Event{{Kind: EventSettingsChanged}}, nil
	})
}
