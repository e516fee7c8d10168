package mdpad

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alnah/go-mdpad/internal/assets"
	"github.com/alnah/go-mdpad/internal/fileutil"
	"github.com/alnah/go-mdpad/internal/statefile"
)

// DefaultNamespace is the storage key the workspace is persisted under.
const DefaultNamespace = "markdown-editor-storage"

// WelcomeDocumentName names the document EnsureWelcome creates.
const WelcomeDocumentName = "Welcome"

// Store owns the document collection, the active document and the
// settings. It is the only writer of workspace state; readers get copies.
// Create with NewStore.
type Store struct {
	mu       sync.Mutex
	docs     []Document // insertion order
	activeID string
	settings Settings

	storage   statefile.Storage
	namespace string
	now       func() time.Time
	newID     func() string
	minFont   int
	maxFont   int
	log       zerolog.Logger
	warn      func(error)
	lastErr   error

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStorage sets the persistence back end. Default: in-memory storage.
func WithStorage(s statefile.Storage) StoreOption {
	return func(st *Store) {
		st.storage = s
	}
}

// WithNamespace overrides the storage key.
func WithNamespace(ns string) StoreOption {
	return func(st *Store) {
		st.namespace = ns
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(st *Store) {
		st.now = now
	}
}

// WithIDGenerator sets the document id source. Default: random UUIDs.
func WithIDGenerator(gen func() string) StoreOption {
	return func(st *Store) {
		st.newID = gen
	}
}

// WithFontSizeRange sets the accepted editor font size bounds.
func WithFontSizeRange(minSize, maxSize int) StoreOption {
	return func(st *Store) {
		st.minFont, st.maxFont = minSize, maxSize
	}
}

// WithLogger sets the logger. Default: disabled.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(st *Store) {
		st.log = log
	}
}

// WithWarningHandler receives non-fatal persistence failures.
func WithWarningHandler(fn func(error)) StoreOption {
	return func(st *Store) {
		st.warn = fn
	}
}

// NewStore creates a Store and loads the persisted workspace.
// A missing record yields an empty workspace with default settings. An
// unreadable or corrupt record does too, and is reported as a warning.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		settings:  DefaultSettings(),
		namespace: DefaultNamespace,
		now:       time.Now,
		newID:     uuid.NewString,
		minFont:   DefaultMinFontSize,
		maxFont:   DefaultMaxFontSize,
		log:       zerolog.Nop(),
		subs:      make(map[int]func(Event)),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.storage == nil {
		s.storage = statefile.NewMemoryStorage(0)
	}
	if s.minFont > s.maxFont {
		s.minFont, s.maxFont = s.maxFont, s.minFont
	}
	s.settings.EditorFontSize = s.clampFontSize(s.settings.EditorFontSize)

	if err := s.load(); err != nil {
		s.reportPersistError(err)
	}
	return s
}

// CreateDocument appends a new document, makes it active and returns its id.
func (s *Store) CreateDocument(name, content, folder string) string {
	var id string
	_ = s.mutate(func() ([]Event, error) {
		id = s.newID()
		ts := s.timestamp()
		s.docs = append(s.docs, Document{
			ID:        id,
			Name:      name,
			Content:   content,
			CreatedAt: ts,
			UpdatedAt: ts,
			Folder:    folder,
		})
		s.activeID = id
		return []Event{{Kind: EventDocumentCreated, ID: id}, {Kind: EventActiveChanged, ID: id}}, nil
	})
	return id
}

// ImportDocument creates a document from raw text, dropping a trailing
// ".md" from the suggested name.
func (s *Store) ImportDocument(rawText, suggestedName string) string {
	return s.CreateDocument(fileutil.TrimMarkdownExt(suggestedName), rawText, "")
}

// UpdateDocument applies the non-nil fields of u and refreshes UpdatedAt.
// An unknown id returns ErrDocumentNotFound and changes nothing.
func (s *Store) UpdateDocument(id string, u DocumentUpdate) error {
	return s.mutate(func() ([]Event, error) {
		i := s.indexOf(id)
		if i < 0 {
			return nil, notFound(id)
		}

		doc := &s.docs[i]
		if u.Name != nil {
			doc.Name = *u.Name
		}
		if u.Content != nil {
			doc.Content = *u.Content
		}
		if u.Folder != nil {
			doc.Folder = *u.Folder
		}

		ts := s.timestamp()
		if ts.Before(doc.CreatedAt) {
			ts = doc.CreatedAt
		}
		doc.UpdatedAt = ts
		return []Event{{Kind: EventDocumentUpdated, ID: id}}, nil
	})
}

// commitActiveContent replaces the content of id only while id is still
// the active document. It reports whether the content changed; an
// unchanged or inactive document is left as is.
func (s *Store) commitActiveContent(id, text string) (bool, error) {
	var changed bool
	err := s.mutate(func() ([]Event, error) {
		if s.activeID != id {
			return nil, nil
		}
		i := s.indexOf(id)
		if i < 0 {
			return nil, notFound(id)
		}

		doc := &s.docs[i]
		if doc.Content == text {
			return nil, nil
		}
		doc.Content = text
		ts := s.timestamp()
		if ts.Before(doc.CreatedAt) {
			ts = doc.CreatedAt
		}
		doc.UpdatedAt = ts
		changed = true
		return []Event{{Kind: EventDocumentUpdated, ID: id}}, nil
	})
	return changed, err
}

// RenameDocument changes only the name of a document.
func (s *Store) RenameDocument(id, name string) error {
	return s.UpdateDocument(id, UpdateName(name))
}

// DeleteDocument removes a document, clearing the active id if it pointed
// there. An unknown id returns ErrDocumentNotFound and changes nothing.
func (s *Store) DeleteDocument(id string) error {
	return s.mutate(func() ([]Event, error) {
		i := s.indexOf(id)
		if i < 0 {
			return nil, notFound(id)
		}

		s.docs = append(s.docs[:i], s.docs[i+1:]...)
		events := []Event{{Kind: EventDocumentDeleted, ID: id}}
		if s.activeID == id {
			s.activeID = ""
			events = append(events, Event{Kind: EventActiveChanged})
		}
		return events, nil
	})
}

// SetActiveDocument sets the active id without checking it exists.
// An empty id clears the selection.
func (s *Store) SetActiveDocument(id string) {
	_ = s.mutate(func() ([]Event, error) {
		s.activeID = id
		return []Event{{Kind: EventActiveChanged, ID: id}}, nil
	})
}

// ActiveID returns the active id as set, possibly stale.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// ActiveDocument returns the active document. It reports false when no
// document is active or the active id no longer exists.
func (s *Store) ActiveDocument() (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return Document{}, false
	}
	i := s.indexOf(s.activeID)
	if i < 0 {
		return Document{}, false
	}
	return s.docs[i], true
}

// Document returns a copy of the document with id.
func (s *Store) Document(id string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Document{}, false
	}
	return s.docs[i], true
}

// Documents returns copies of all documents in insertion order.
func (s *Store) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Document(nil), s.docs...)
}

// Len returns the number of documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Search returns documents whose name or content contains query,
// case-insensitively, in insertion order. An empty query matches all.
func (s *Store) Search(query string) []Document {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Document
	for _, doc := range s.docs {
		if q == "" ||
			strings.Contains(strings.ToLower(doc.Name), q) ||
			strings.Contains(strings.ToLower(doc.Content), q) {
			out = append(out, doc)
		}
	}
	return out
}

// EnsureWelcome creates the welcome document when the workspace is empty.
// It returns the new id and true, or "" and false if documents exist.
func (s *Store) EnsureWelcome() (string, bool) {
	if s.Len() > 0 {
		return "", false
	}

	content, err := assets.NewEmbeddedLoader().LoadSample(assets.WelcomeSampleName)
	if err != nil {
		s.log.Warn().Err(err).Msg("welcome sample unavailable")
		content = "# Welcome to Markdown Editor\n"
	}
	return s.CreateDocument(WelcomeDocumentName, content, ""), true
}

// Snapshot returns a copy of the whole workspace.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Documents: append([]Document(nil), s.docs...),
		ActiveID:  s.activeID,
		Settings:  s.settings,
	}
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// FontSizeRange returns the accepted editor font size bounds.
func (s *Store) FontSizeRange() (minSize, maxSize int) {
	return s.minFont, s.maxFont
}

// LastPersistError returns the error of the latest persistence attempt,
// or nil if it succeeded.
func (s *Store) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe registers fn for change events and returns a function that
// removes it. Events are delivered synchronously, after the mutation is
// applied and persisted, outside the store lock.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// mutate applies fn under the lock, persists, then publishes events.
// When fn fails or reports no events nothing is persisted or published.
func (s *Store) mutate(fn func() ([]Event, error)) error {
	s.mu.Lock()
	events, err := fn()
	if err != nil || len(events) == 0 {
		s.mu.Unlock()
		return err
	}
	perr := s.persistLocked()
	s.mu.Unlock()

	if perr != nil {
		s.reportPersistError(perr)
	}
	s.publish(events)
	return nil
}

func (s *Store) publish(events []Event) {
	if len(events) == 0 {
		return
	}

	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	s.subMu.Unlock()

	// Deliver in subscription order.
	slices.Sort(ids)
	for _, ev := range events {
		for _, id := range ids {
			s.subMu.Lock()
			fn, ok := s.subs[id]
			s.subMu.Unlock()
			if ok {
				fn(ev)
			}
		}
	}
}

func (s *Store) reportPersistError(err error) {
	s.log.Warn().Err(err).Str("namespace", s.namespace).Msg("workspace not persisted")
	if s.warn != nil {
		s.warn(err)
	}
}

// timestamp returns the current time without a monotonic reading so that
// stored and reloaded values compare equal.
func (s *Store) timestamp() time.Time {
	return s.now().Round(0)
}

// indexOf returns the position of id, or -1. Caller holds s.mu.
func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.docs {
		if s.docs[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrDocumentNotFound, id)
}

func (s *Store) clampFontSize(size int) int {
	return min(max(size, s.minFont), s.maxFont)
}
