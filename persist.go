package mdpad

import (
	"errors"
	"fmt"

	"github.com/alnah/go-mdpad/internal/statefile"
)

// load reads the namespace record into the store. Called once from
// NewStore before the store is shared, so it does not lock.
func (s *Store) load() error {
	data, err := s.storage.Load(s.namespace)
	if errors.Is(err, statefile.ErrNotExist) {
		s.log.Debug().Str("namespace", s.namespace).Msg("no saved workspace, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: loading %s: %w", ErrPersistence, s.namespace, err)
	}

	state, err := statefile.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: loading %s: %w", ErrPersistence, s.namespace, err)
	}

	s.fromState(state)
	s.log.Debug().
		Str("namespace", s.namespace).
		Int("documents", len(s.docs)).
		Msg("workspace loaded")
	return nil
}

// persistLocked writes the current state. Caller holds s.mu.
func (s *Store) persistLocked() error {
	data, err := statefile.Encode(s.toState())
	if err == nil {
		err = s.storage.Save(s.namespace, data)
	}
	if err != nil {
		s.lastErr = fmt.Errorf("%w: saving %s: %w", ErrPersistence, s.namespace, err)
		return s.lastErr
	}
	s.lastErr = nil
	return nil
}

func (s *Store) toState() statefile.State {
	state := statefile.State{
		Version:   statefile.SchemaVersion,
		Documents: make([]statefile.Document, len(s.docs)),
		Settings: statefile.Settings{
			SidebarVisible:    s.settings.SidebarVisible,
			ViewMode:          string(s.settings.ViewMode),
			ColorTheme:        string(s.settings.ColorTheme),
			EditorFontSize:    s.settings.EditorFontSize,
			AutoSaveEnabled:   s.settings.AutoSaveEnabled,
			WordWrapEnabled:   s.settings.WordWrapEnabled,
			ShowLineNumbers:   s.settings.ShowLineNumbers,
			EditorColorScheme: s.settings.EditorColorScheme,
		},
	}
	for i, d := range s.docs {
		state.Documents[i] = statefile.Document{
			ID:        d.ID,
			Name:      d.Name,
			Content:   d.Content,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
			Folder:    d.Folder,
		}
	}
	if s.activeID != "" {
		id := s.activeID
		state.ActiveID = &id
	}
	return state
}

// fromState replaces store contents with a decoded record. Out-of-range
// settings fall back to defaults, a stale active id is cleared and
// UpdatedAt is clamped to CreatedAt.
func (s *Store) fromState(state statefile.State) {
	s.docs = make([]Document, 0, len(state.Documents))
	for _, d := range state.Documents {
		updated := d.UpdatedAt
		if updated.Before(d.CreatedAt) {
			updated = d.CreatedAt
		}
		s.docs = append(s.docs, Document{
			ID:        d.ID,
			Name:      d.Name,
			Content:   d.Content,
			CreatedAt: d.CreatedAt,
			UpdatedAt: updated,
			Folder:    d.Folder,
		})
	}

	s.activeID = ""
	if state.ActiveID != nil && s.indexOf(*state.ActiveID) >= 0 {
		s.activeID = *state.ActiveID
	}

	def := DefaultSettings()
	in := state.Settings
	st := Settings{
		SidebarVisible:    in.SidebarVisible,
		ViewMode:          ViewMode(in.ViewMode),
		ColorTheme:        ColorTheme(in.ColorTheme),
		EditorFontSize:    in.EditorFontSize,
		AutoSaveEnabled:   in.AutoSaveEnabled,
		WordWrapEnabled:   in.WordWrapEnabled,
		ShowLineNumbers:   in.ShowLineNumbers,
		EditorColorScheme: in.EditorColorScheme,
	}
	if !st.ViewMode.Valid() {
		st.ViewMode = def.ViewMode
	}
	if !st.ColorTheme.Valid() {
		st.ColorTheme = def.ColorTheme
	}
	if st.EditorFontSize < s.minFont || st.EditorFontSize > s.maxFont {
		st.EditorFontSize = s.clampFontSize(def.EditorFontSize)
	}
	if !ValidColorScheme(st.EditorColorScheme) {
		st.EditorColorScheme = def.EditorColorScheme
	}
	s.settings = st
}
