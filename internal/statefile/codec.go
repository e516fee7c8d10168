package statefile

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Sentinel errors for decoding.
var (
	ErrCorrupt            = errors.New("statefile: corrupt state")
	ErrUnsupportedVersion = errors.New("statefile: unsupported schema version")
)

// Encode serializes s as the current schema version. Timestamps are
// normalized to UTC so the encoded form does not depend on the host zone.
func Encode(s State) ([]byte, error) {
	out := State{
		Version:   SchemaVersion,
		Documents: make([]Document, len(s.Documents)),
		ActiveID:  s.ActiveID,
		Settings:  s.Settings,
	}
	for i, d := range s.Documents {
		d.CreatedAt = d.CreatedAt.UTC()
		d.UpdatedAt = d.UpdatedAt.UTC()
		out.Documents[i] = d
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("statefile: encoding: %w", err)
	}
	return data, nil
}

// envelope is decoded first to dispatch on version.
type envelope struct {
	Version *int            `json:"version"`
	State   json.RawMessage `json:"state"`
}

// Decode parses data, migrating older versions to the current schema.
// Errors match ErrCorrupt or ErrUnsupportedVersion.
func Decode(data []byte) (State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	switch {
	case env.Version == nil:
		return State{}, fmt.Errorf("%w: missing version", ErrCorrupt)
	case *env.Version == 0 && len(env.State) > 0:
		return decodeLegacy(env.State)
	case *env.Version == SchemaVersion:
		return decodeCurrent(data)
	default:
		return State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, *env.Version)
	}
}

func decodeCurrent(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := validate(s); err != nil {
		return State{}, err
	}
	return s, nil
}

// legacyState is the version-0 layout: a persist-middleware envelope
// around flat editor fields.
type legacyState struct {
	Files []struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
		Folder    string    `json:"folder"`
	} `json:"files"`
	CurrentFileID *string `json:"currentFileId"`
	Theme         string  `json:"theme"`
	FontSize      int     `json:"fontSize"`
	AutoSave      *bool   `json:"autoSave"`
	WordWrap      *bool   `json:"wordWrap"`
	LineNumbers   *bool   `json:"lineNumbers"`
	PreviewMode   string  `json:"previewMode"`
	EditorTheme   string  `json:"editorTheme"`
}

// legacyViewModes maps version-0 preview modes to current view mode names.
var legacyViewModes = map[string]string{
	"split":   "split",
	"editor":  "editor",
	"preview": "preview",
}

func decodeLegacy(raw json.RawMessage) (State, error) {
	var ls legacyState
	if err := json.Unmarshal(raw, &ls); err != nil {
		return State{}, fmt.Errorf("%w: legacy state: %v", ErrCorrupt, err)
	}

	s := State{
		Version:   SchemaVersion,
		Documents: make([]Document, 0, len(ls.Files)),
		ActiveID:  ls.CurrentFileID,
		Settings: Settings{
			// The sidebar flag was not persisted in version 0.
			SidebarVisible:    true,
			ViewMode:          legacyViewModes[ls.PreviewMode],
			ColorTheme:        ls.Theme,
			EditorFontSize:    ls.FontSize,
			AutoSaveEnabled:   boolOr(ls.AutoSave, true),
			WordWrapEnabled:   boolOr(ls.WordWrap, true),
			ShowLineNumbers:   boolOr(ls.LineNumbers, true),
			EditorColorScheme: ls.EditorTheme,
		},
	}
	for _, f := range ls.Files {
		s.Documents = append(s.Documents, Document{
			ID:        f.ID,
			Name:      f.Name,
			Content:   f.Content,
			CreatedAt: f.CreatedAt,
			UpdatedAt: f.UpdatedAt,
			Folder:    f.Folder,
		})
	}

	if err := validate(s); err != nil {
		return State{}, err
	}
	return s, nil
}

// validate rejects records the store cannot index: empty or duplicate ids.
func validate(s State) error {
	seen := make(map[string]struct{}, len(s.Documents))
	for i, d := range s.Documents {
		if d.ID == "" {
			return fmt.Errorf("%w: document %d has no id", ErrCorrupt, i)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: duplicate document id %q", ErrCorrupt, d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
