package mdpad

import (
	"fmt"
	"strings"
)

// New document defaults used by the new-document shortcut.
const (
	NewDocumentName    = "Untitled"
	NewDocumentContent = "# New Document\n\nStart writing..."
)

// KeyEvent is a key press with its modifiers. Key is a single lowercase
// key name such as "n" or "/".
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// String formats the event as a combo, e.g. "ctrl+shift+e".
func (k KeyEvent) String() string {
	var parts []string
	if k.Ctrl {
		parts = append(parts, "ctrl")
	}
	if k.Meta {
		parts = append(parts, "meta")
	}
	if k.Alt {
		parts = append(parts, "alt")
	}
	if k.Shift {
		parts = append(parts, "shift")
	}
	return strings.Join(append(parts, k.Key), "+")
}

// ParseKeyCombo parses "ctrl+shift+e" style combos. Modifier names are
// case-insensitive; "cmd" is an alias for "meta".
func ParseKeyCombo(combo string) (KeyEvent, error) {
	var ev KeyEvent
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == len(parts)-1 {
			if part == "" {
				return KeyEvent{}, fmt.Errorf("%w: %q has no key", ErrInvalidKeyCombo, combo)
			}
			ev.Key = part
			break
		}
		switch part {
		case "ctrl", "control":
			ev.Ctrl = true
		case "meta", "cmd":
			ev.Meta = true
		case "shift":
			ev.Shift = true
		case "alt", "option":
			ev.Alt = true
		default:
			return KeyEvent{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidKeyCombo, part)
		}
	}
	return ev, nil
}

// Action names what a shortcut did.
type Action string

// Shortcut actions.
const (
	ActionNone          Action = ""
	ActionNewDocument   Action = "new-document"
	ActionSave          Action = "save"
	ActionToggleSidebar Action = "toggle-sidebar"
	ActionCycleViewMode Action = "cycle-view-mode"
	ActionEditorOnly    Action = "editor-only"
	ActionPreviewOnly   Action = "preview-only"
	ActionFocusSearch   Action = "focus-search"
)

// Dispatcher maps keyboard shortcuts onto store and coordinator calls.
// The modifier is Ctrl, or Meta when UseMeta is set.
type Dispatcher struct {
	store   *Store
	coord   *Coordinator
	UseMeta bool
}

// NewDispatcher creates a Dispatcher. coord may be nil, in which case the
// save shortcut is recognized but does nothing.
func NewDispatcher(store *Store, coord *Coordinator) *Dispatcher {
	return &Dispatcher{store: store, coord: coord}
}

// Dispatch performs the operation bound to ev. It reports the action and
// whether ev was a shortcut at all.
func (d *Dispatcher) Dispatch(ev KeyEvent) (Action, bool) {
	modifier := ev.Ctrl
	if d.UseMeta {
		modifier = ev.Meta
	}
	if !modifier {
		return ActionNone, false
	}

	switch strings.ToLower(ev.Key) {
	case "n":
		d.store.CreateDocument(NewDocumentName, NewDocumentContent, "")
		return ActionNewDocument, true
	case "s":
		if d.coord != nil {
			if err := d.coord.Save(); err != nil {
				d.store.log.Debug().Err(err).Msg("save shortcut")
			}
		}
		return ActionSave, true
	case "b":
		d.store.ToggleSidebar()
		return ActionToggleSidebar, true
	case "p":
		d.store.CycleViewMode()
		return ActionCycleViewMode, true
	case "e":
		if ev.Shift {
			_ = d.store.SetViewMode(ViewEditor)
			return ActionEditorOnly, true
		}
	case "r":
		if ev.Shift {
			_ = d.store.SetViewMode(ViewPreview)
			return ActionPreviewOnly, true
		}
	case "/":
		return ActionFocusSearch, true
	}
	return ActionNone, false
}
