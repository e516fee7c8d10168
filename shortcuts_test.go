package mdpad

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestParseKeyCombo - Textual combos
// ---------------------------------------------------------------------------

func TestParseKeyCombo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		combo   string
		want    KeyEvent
		wantErr bool
	}{
		{"ctrl+n", KeyEvent{Key: "n", Ctrl: true}, false},
		{"Ctrl+Shift+E", KeyEvent{Key: "e", Ctrl: true, Shift: true}, false},
		{"cmd+s", KeyEvent{Key: "s", Meta: true}, false},
		{"control+option+/", KeyEvent{Key: "/", Ctrl: true, Alt: true}, false},
		{" meta + b ", KeyEvent{Key: "b", Meta: true}, false},
		{"p", KeyEvent{Key: "p"}, false},
		{"ctrl+", KeyEvent{}, true},
		{"", KeyEvent{}, true},
		{"hyper+n", KeyEvent{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.combo, func(t *testing.T) {
			t.Parallel()

			got, err := ParseKeyCombo(tt.combo)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKeyCombo) {
					t.Errorf("ParseKeyCombo(%q) error = %v, want ErrInvalidKeyCombo", tt.combo, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKeyCombo(%q) error = %v", tt.combo, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseKeyCombo(%q) mismatch (-want +got):\n%s", tt.combo, diff)
			}
		})
	}
}

func TestKeyEvent_String(t *testing.T) {
	t.Parallel()

	ev := KeyEvent{Key: "e", Ctrl: true, Shift: true}
	if got := ev.String(); got != "ctrl+shift+e" {
		t.Errorf("String() = %q, want %q", got, "ctrl+shift+e")
	}

	back, err := ParseKeyCombo(ev.String())
	if err != nil || back != ev {
		t.Errorf("ParseKeyCombo(String()) = %+v, %v; want %+v", back, err, ev)
	}
}

// ---------------------------------------------------------------------------
// TestDispatcher - Shortcut bindings
// ---------------------------------------------------------------------------

func TestDispatcher_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ev         KeyEvent
		wantAction Action
		wantOK     bool
		check      func(*testing.T, *Store)
	}{
		{
			name:       "new document",
			ev:         KeyEvent{Key: "n", Ctrl: true},
			wantAction: ActionNewDocument,
			wantOK:     true,
			check: func(t *testing.T, s *Store) {
				doc, ok := s.ActiveDocument()
				if !ok || doc.Name != NewDocumentName || doc.Content != NewDocumentContent {
					t.Errorf("active document = %+v, want new untitled document", doc)
				}
				if s.Len() != 2 {
					t.Errorf("Len() = %d, want 2", s.Len())
				}
			},
		},
		{
			name:       "toggle sidebar",
			ev:         KeyEvent{Key: "b", Ctrl: true},
			wantAction: ActionToggleSidebar,
			wantOK:     true,
			check: func(t *testing.T, s *Store) {
				if s.Settings().SidebarVisible {
					t.Error("SidebarVisible = true, want false")
				}
			},
		},
		{
			name:       "cycle view",
			ev:         KeyEvent{Key: "p", Ctrl: true},
			wantAction: ActionCycleViewMode,
			wantOK:     true,
			check: func(t *testing.T, s *Store) {
				if got := s.Settings().ViewMode; got != ViewPreview {
					t.Errorf("ViewMode = %q, want %q", got, ViewPreview)
				}
			},
		},
		{
			name:       "editor only",
			ev:         KeyEvent{Key: "E", Ctrl: true, Shift: true},
			wantAction: ActionEditorOnly,
			wantOK:     true,
			check: func(t *testing.T, s *Store) {
				if got := s.Settings().ViewMode; got != ViewEditor {
					t.Errorf("ViewMode = %q, want %q", got, ViewEditor)
				}
			},
		},
		{
			name:       "preview only",
			ev:         KeyEvent{Key: "r", Ctrl: true, Shift: true},
			wantAction: ActionPreviewOnly,
			wantOK:     true,
			check: func(t *testing.T, s *Store) {
				if got := s.Settings().ViewMode; got != ViewPreview {
					t.Errorf("ViewMode = %q, want %q", got, ViewPreview)
				}
			},
		},
		{
			name:       "focus search",
			ev:         KeyEvent{Key: "/", Ctrl: true},
			wantAction: ActionFocusSearch,
			wantOK:     true,
		},
		{
			name:       "e without shift is not bound",
			ev:         KeyEvent{Key: "e", Ctrl: true},
			wantAction: ActionNone,
		},
		{
			name:       "no modifier",
			ev:         KeyEvent{Key: "n"},
			wantAction: ActionNone,
			check: func(t *testing.T, s *Store) {
				if s.Len() != 1 {
					t.Errorf("Len() = %d, want 1", s.Len())
				}
			},
		},
		{
			name:       "meta ignored when ctrl is the modifier",
			ev:         KeyEvent{Key: "b", Meta: true},
			wantAction: ActionNone,
		},
		{
			name:       "unbound key",
			ev:         KeyEvent{Key: "q", Ctrl: true},
			wantAction: ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, _, _ := newTestStore()
			s.CreateDocument("existing", "", "")
			d := NewDispatcher(s, nil)

			action, ok := d.Dispatch(tt.ev)
			if action != tt.wantAction || ok != tt.wantOK {
				t.Errorf("Dispatch(%s) = %q, %v; want %q, %v", tt.ev, action, ok, tt.wantAction, tt.wantOK)
			}
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestDispatcher_UseMeta(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestStore()
	d := NewDispatcher(s, nil)
	d.UseMeta = true

	if action, ok := d.Dispatch(KeyEvent{Key: "b", Meta: true}); !ok || action != ActionToggleSidebar {
		t.Errorf("meta+b = %q, %v; want toggle-sidebar", action, ok)
	}
	if _, ok := d.Dispatch(KeyEvent{Key: "b", Ctrl: true}); ok {
		t.Error("ctrl+b handled while UseMeta is set")
	}
}

func TestDispatcher_Save(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture(t, func(s *Store) {
		s.CreateDocument("a", "", "")
		s.ToggleAutoSave()
	})
	d := NewDispatcher(f.store, f.coord)

	f.coord.Edit("saved by shortcut")
	action, ok := d.Dispatch(KeyEvent{Key: "s", Ctrl: true})
	if !ok || action != ActionSave {
		t.Fatalf("Dispatch(ctrl+s) = %q, %v", action, ok)
	}

	doc, _ := f.store.ActiveDocument()
	if doc.Content != "saved by shortcut" {
		t.Errorf("content = %q, want %q", doc.Content, "saved by shortcut")
	}
}

func TestDispatcher_SaveWithoutActiveDocument(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture(t, nil)
	d := NewDispatcher(f.store, f.coord)

	if action, ok := d.Dispatch(KeyEvent{Key: "s", Ctrl: true}); !ok || action != ActionSave {
		t.Errorf("Dispatch(ctrl+s) = %q, %v; want save, true", action, ok)
	}
}
