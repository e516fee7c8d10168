package mdpad

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultAutosaveDelay is the quiet period before an edit is committed.
const DefaultAutosaveDelay = time.Second

// Surface is the editing surface the Coordinator keeps in sync. SetText
// is called whenever the buffer is reseeded from the store, never while
// the Coordinator holds its lock, so the surface may call Edit from it.
type Surface interface {
	SetText(text string)
}

// Coordinator holds the pending edit buffer of the active document and
// commits it to the Store once edits pause for the autosave delay.
//
// Each edit restarts the delay. A commit happens only when autosave is
// enabled and the buffer differs from the stored content. Switching the
// active document cancels the pending commit and drops the buffer; those
// edits are lost. Save commits immediately regardless of autosave.
type Coordinator struct {
	store    *Store
	delay    time.Duration
	sched    Scheduler
	surface  Surface
	onCommit func(id string)
	renderer *Renderer
	log      zerolog.Logger

	mu       sync.Mutex
	docID    string
	buffer   string
	base     string // stored content the buffer was last synced with
	task     Timer
	seq      uint64 // invalidates stale timer callbacks
	pending  bool
	autosave bool
	closed   bool

	unsubscribe func()
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithDelay sets the debounce delay. Non-positive values are ignored.
func WithDelay(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithScheduler sets the timer source. Default: SystemScheduler.
func WithScheduler(s Scheduler) CoordinatorOption {
	return func(c *Coordinator) {
		c.sched = s
	}
}

// WithSurface sets the editing surface pushed on reseed.
func WithSurface(s Surface) CoordinatorOption {
	return func(c *Coordinator) {
		c.surface = s
	}
}

// WithCommitHook is called after each successful commit.
func WithCommitHook(fn func(id string)) CoordinatorOption {
	return func(c *Coordinator) {
		c.onCommit = fn
	}
}

// WithPreviewRenderer sets the renderer used by Preview.
func WithPreviewRenderer(r *Renderer) CoordinatorOption {
	return func(c *Coordinator) {
		c.renderer = r
	}
}

// NewCoordinator creates a Coordinator seeded from the active document
// and subscribed to store changes. Call Close to detach it.
func NewCoordinator(store *Store, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store: store,
		delay: DefaultAutosaveDelay,
		sched: SystemScheduler(),
		log:   store.log,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.renderer == nil {
		c.renderer = defaultRenderer()
	}

	c.autosave = store.Settings().AutoSaveEnabled
	c.unsubscribe = store.Subscribe(c.handleEvent)
	c.reseed(true)
	return c
}

// Edit replaces the buffer with the surface's full text and restarts the
// autosave delay. Without an active document the text is only buffered.
func (c *Coordinator) Edit(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.buffer = text
	if c.docID != "" {
		c.scheduleLocked()
	}
}

// Save commits the buffer now, cancelling any pending autosave.
// Returns ErrNoActiveDocument when nothing is active.
func (c *Coordinator) Save() error {
	c.mu.Lock()
	if c.docID == "" {
		c.mu.Unlock()
		return ErrNoActiveDocument
	}
	c.cancelLocked()
	id, text := c.docID, c.buffer
	c.mu.Unlock()

	return c.commit(id, text, true)
}

// Buffer returns the pending text.
func (c *Coordinator) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer
}

// DocumentID returns the id of the document the buffer belongs to.
func (c *Coordinator) DocumentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.docID
}

// Pending reports whether an autosave is scheduled.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Dirty reports whether the buffer differs from the stored content.
func (c *Coordinator) Dirty() bool {
	c.mu.Lock()
	id, text := c.docID, c.buffer
	c.mu.Unlock()

	if id == "" {
		return false
	}
	doc, ok := c.store.Document(id)
	return ok && doc.Content != text
}

// Preview renders the buffer.
func (c *Coordinator) Preview() string {
	return c.renderer.Render(c.Buffer())
}

// Close unsubscribes from the store and cancels any pending autosave.
// Pending edits are not committed.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelLocked()
	c.mu.Unlock()

	c.unsubscribe()
}

func (c *Coordinator) handleEvent(ev Event) {
	switch ev.Kind {
	case EventActiveChanged:
		c.reseed(false)
	case EventDocumentUpdated:
		c.syncStored(ev.ID)
	case EventSettingsChanged:
		c.syncAutosave()
	}
}

// reseed replaces the buffer with the active document's content,
// cancelling any pending commit for the previous document. Re-selecting
// the current document keeps the buffer unless force is set.
func (c *Coordinator) reseed(force bool) {
	doc, _ := c.store.ActiveDocument()

	c.mu.Lock()
	if c.closed || (!force && doc.ID == c.docID) {
		c.mu.Unlock()
		return
	}
	if c.pending && c.docID != doc.ID {
		c.log.Debug().Str("id", c.docID).Msg("pending edits dropped on document switch")
	}
	c.cancelLocked()
	c.docID = doc.ID
	c.buffer = doc.Content
	c.base = doc.Content
	c.mu.Unlock()

	c.push(doc.Content)
}

// syncStored follows external changes to the active document. A clean
// buffer takes the new content; a dirty one is kept.
func (c *Coordinator) syncStored(id string) {
	doc, ok := c.store.Document(id)
	if !ok {
		return
	}

	c.mu.Lock()
	if c.closed || id != c.docID {
		c.mu.Unlock()
		return
	}
	push := c.buffer == c.base && c.buffer != doc.Content
	if push {
		c.buffer = doc.Content
	}
	c.base = doc.Content
	c.mu.Unlock()

	if push {
		c.push(doc.Content)
	}
}

// syncAutosave schedules a commit when autosave is turned back on with
// unsaved edits.
func (c *Coordinator) syncAutosave() {
	enabled := c.store.Settings().AutoSaveEnabled

	c.mu.Lock()
	defer c.mu.Unlock()

	reenabled := enabled && !c.autosave
	c.autosave = enabled
	if reenabled && !c.closed && !c.pending && c.docID != "" && c.buffer != c.base {
		c.scheduleLocked()
	}
}

// scheduleLocked (re)starts the autosave task for the current document.
func (c *Coordinator) scheduleLocked() {
	if c.task != nil {
		c.task.Stop()
	}
	c.seq++
	seq, id := c.seq, c.docID
	c.pending = true
	c.task = c.sched.AfterFunc(c.delay, func() { c.fire(seq, id) })
}

// cancelLocked stops the pending task and invalidates a callback that is
// already running.
func (c *Coordinator) cancelLocked() {
	if c.task != nil {
		c.task.Stop()
		c.task = nil
	}
	c.seq++
	c.pending = false
}

// fire runs the autosave task. The store commit re-checks that id is
// still active, since a switch can land after c.mu is released.
func (c *Coordinator) fire(seq uint64, id string) {
	c.mu.Lock()
	if c.closed || !c.pending || seq != c.seq || id != c.docID {
		c.mu.Unlock()
		return
	}
	c.pending = false
	c.task = nil
	text := c.buffer
	c.mu.Unlock()

	if err := c.commit(id, text, false); err != nil {
		c.log.Warn().Err(err).Str("id", id).Msg("autosave failed")
	}
}

// commit writes text to the document when it differs from the stored
// content. Automatic commits also require autosave to be enabled and
// id to still be the active document.
func (c *Coordinator) commit(id, text string, manual bool) error {
	if !manual && !c.store.Settings().AutoSaveEnabled {
		return nil
	}

	if manual {
		doc, ok := c.store.Document(id)
		if !ok {
			return notFound(id)
		}
		if doc.Content == text {
			return nil
		}
		if err := c.store.UpdateDocument(id, UpdateContent(text)); err != nil {
			return err
		}
	} else {
		changed, err := c.store.commitActiveContent(id, text)
		if err != nil || !changed {
			return err
		}
	}
	c.log.Debug().Str("id", id).Bool("manual", manual).Int("bytes", len(text)).Msg("document committed")

	if c.onCommit != nil {
		c.onCommit(id)
	}
	return nil
}

func (c *Coordinator) push(text string) {
	if c.surface != nil {
		c.surface.SetText(text)
	}
}
