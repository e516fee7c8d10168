package mdpad

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() (*Exporter, error)
	Release(*Exporter)
	Size() int
	Close() error
} = (*ExporterPool)(nil)

// countingFactory builds exporters with a fake PDF backend and counts them.
func countingFactory(t *testing.T) (func() (*Exporter, error), *atomic.Int32) {
	t.Helper()

	var n atomic.Int32
	return func() (*Exporter, error) {
		e, err := NewExporter()
		if err != nil {
			return nil, err
		}
		e.pdf = &fakePDF{data: []byte("%PDF")}
		n.Add(1)
		return e, nil
	}, &n
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "explicit can exceed max",
			workers: 100,
			want:    100,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "negative uses auto calculation",
			workers: -5,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestExporterPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			newFn, _ := countingFactory(t)
			pool := NewExporterPool(tt.size, newFn)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExporterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	newFn, created := countingFactory(t)
	pool := NewExporterPool(2, newFn)
	defer pool.Close()

	if created.Load() != 0 {
		t.Fatalf("exporters created eagerly: %d", created.Load())
	}

	e1, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	e2, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if e1 == e2 {
		t.Error("expected different exporter instances")
	}

	pool.Release(e1)
	e3, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if e3 != e1 {
		t.Error("expected to get back released exporter")
	}
	if got := created.Load(); got != 2 {
		t.Errorf("created = %d, want 2", got)
	}

	pool.Release(e2)
	pool.Release(e3)
}

func TestExporterPool_FactoryError(t *testing.T) {
	t.Parallel()

	fail := true
	var mu sync.Mutex
	newFn := func() (*Exporter, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, ErrBrowserConnect
		}
		return NewExporter()
	}

	pool := NewExporterPool(1, newFn)
	defer pool.Close()

	if _, err := pool.Acquire(); !errors.Is(err, ErrBrowserConnect) {
		t.Fatalf("Acquire() error = %v, want ErrBrowserConnect", err)
	}

	// The failed slot is returned to the pool.
	mu.Lock()
	fail = false
	mu.Unlock()
	e, err := pool.Acquire()
	if err != nil || e == nil {
		t.Fatalf("Acquire() after recovery = %v, %v", e, err)
	}
	pool.Release(e)
}

func TestExporterPool_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	newFn, created := countingFactory(t)
	pool := NewExporterPool(2, newFn)
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				e, err := pool.Acquire()
				if err != nil {
					t.Errorf("Acquire() error = %v", err)
					return
				}
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				pool.Release(e)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(30 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("high contention test timed out - possible deadlock")
	}

	if got := created.Load(); got > 2 {
		t.Errorf("created = %d, want at most pool size 2", got)
	}
}

func TestExporterPool_Close(t *testing.T) {
	t.Parallel()

	newFn, _ := countingFactory(t)
	pool := NewExporterPool(2, newFn)

	e, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	fake := e.pdf.(*fakePDF)

	if err := pool.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !fake.closed {
		t.Error("exporter not closed with the pool")
	}

	// Release after close is a no-op; double close is safe.
	pool.Release(e)
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestExporterPool_AcquireAfterCloseWhenFull(t *testing.T) {
	t.Parallel()

	newFn, _ := countingFactory(t)
	pool := NewExporterPool(1, newFn)

	if _, err := pool.Acquire(); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	_ = pool.Close()

	// Capacity is used up and the channel is closed.
	if _, err := pool.Acquire(); !errors.Is(err, errPoolClosed) {
		t.Errorf("Acquire() after close error = %v, want errPoolClosed", err)
	}
}
