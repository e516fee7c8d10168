package mdpad

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alnah/go-mdpad/internal/statefile"
)

// ---------------------------------------------------------------------------
// Test doubles shared by the package tests
// ---------------------------------------------------------------------------

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: testEpoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// sequentialIDs returns doc-1, doc-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("doc-%d", n)
	}
}

// newTestStore builds a store over memory storage with a fake clock and
// predictable ids.
func newTestStore(opts ...StoreOption) (*Store, *fakeClock, *statefile.MemoryStorage) {
	clock := newFakeClock()
	mem := statefile.NewMemoryStorage(0)
	base := []StoreOption{
		WithStorage(mem),
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs()),
	}
	return NewStore(append(base, opts...)...), clock, mem
}

// virtualScheduler is a Scheduler driven by an explicit virtual time.
type virtualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*virtualTimer
	clock  *fakeClock // advanced alongside virtual time when set
}

type virtualTimer struct {
	s       *virtualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (s *virtualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &virtualTimer{s: s, at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *virtualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// AdvanceTo moves virtual time to target, running due callbacks in order.
// Callbacks run without the scheduler lock so they may schedule again.
func (s *virtualScheduler) AdvanceTo(target time.Duration) {
	for {
		s.mu.Lock()
		var due []*virtualTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.advanceClockLocked(target)
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		next.fired = true
		s.advanceClockLocked(next.at)
		s.now = next.at
		s.mu.Unlock()

		next.f()
	}
}

func (s *virtualScheduler) advanceClockLocked(to time.Duration) {
	if s.clock != nil && to > s.now {
		s.clock.Advance(to - s.now)
	}
}

// Active reports the number of timers still waiting.
func (s *virtualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// recordingSurface captures text pushed by the Coordinator.
type recordingSurface struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingSurface) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
}

func (r *recordingSurface) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.texts) == 0 {
		return "", false
	}
	return r.texts[len(r.texts)-1], true
}
