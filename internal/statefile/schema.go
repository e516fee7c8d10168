// Package statefile defines the persisted workspace record and the
// storage back ends that hold it.
//
// The record is versioned JSON. Encode always writes the current
// SchemaVersion; Decode accepts the current version and migrates the
// legacy version-0 envelope written by the browser edition of the editor.
package statefile

import "time"

// SchemaVersion is the version written by Encode.
const SchemaVersion = 1

// State is the persisted subset of the workspace.
type State struct {
	Version   int        `json:"version"`
	Documents []Document `json:"documents"`
	ActiveID  *string    `json:"activeId"`
	Settings  Settings   `json:"settings"`
}

// Document is one persisted document record.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Folder    string    `json:"folder,omitempty"`
}

// Settings is the persisted settings object. Enum values are stored as
// their string names; range checks happen when the store loads them.
type Settings struct {
	SidebarVisible    bool   `json:"sidebarVisible"`
	ViewMode          string `json:"viewMode"`
	ColorTheme        string `json:"colorTheme"`
	EditorFontSize    int    `json:"editorFontSize"`
	AutoSaveEnabled   bool   `json:"autoSaveEnabled"`
	WordWrapEnabled   bool   `json:"wordWrapEnabled"`
	ShowLineNumbers   bool   `json:"showLineNumbers"`
	EditorColorScheme string `json:"editorColorScheme"`
}
