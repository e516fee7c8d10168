package statefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDirStorage - File-backed records
// ---------------------------------------------------------------------------

func TestDirStorage_SaveLoad(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "state")
	s := NewDirStorage(dir)

	if _, err := s.Load("workspace"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("Load() before save error = %v, want ErrNotExist", err)
	}

	if err := s.Save("workspace", []byte(`{"version":1}`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save("workspace", []byte(`{"version":1,"documents":[]}`)); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := s.Load("workspace")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != `{"version":1,"documents":[]}` {
		t.Errorf("Load() = %s, want last saved record", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "workspace.json")); err != nil {
		t.Errorf("record file missing: %v", err)
	}
}

func TestDirStorage_InvalidKey(t *testing.T) {
	t.Parallel()

	s := NewDirStorage(t.TempDir())

	for _, key := range []string{"", ".", "..", "../escape", `a\b`, "nul\x00"} {
		if err := s.Save(key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidKey", key, err)
		}
		if _, err := s.Load(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Load(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestDirStorage_UnwritableDir(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("failed to create blocker: %v", err)
	}

	s := NewDirStorage(filepath.Join(blocker, "state"))
	if err := s.Save("workspace", []byte("x")); err == nil {
		t.Error("Save() under a regular file should fail")
	}
}

// ---------------------------------------------------------------------------
// TestMemoryStorage - In-memory records with quota
// ---------------------------------------------------------------------------

func TestMemoryStorage_Quota(t *testing.T) {
	t.Parallel()

	s := NewMemoryStorage(10)

	if err := s.Save("k", []byte("12345")); err != nil {
		t.Fatalf("Save() within quota error = %v", err)
	}
	if err := s.Save("k", []byte("0123456789A")); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Save() over quota error = %v, want ErrQuotaExceeded", err)
	}

	got, err := s.Load("k")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != "12345" {
		t.Errorf("failed save should keep previous record, got %q", got)
	}

	s.SetQuota(0)
	if err := s.Save("k", []byte("0123456789A")); err != nil {
		t.Errorf("Save() with unlimited quota error = %v", err)
	}
	if s.Saves() != 2 {
		t.Errorf("Saves() = %d, want 2", s.Saves())
	}
}

func TestMemoryStorage_LoadReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewMemoryStorage(0)
	if err := s.Save("k", []byte("abc")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, _ := s.Load("k")
	got[0] = 'X'

	again, _ := s.Load("k")
	if string(again) != "abc" {
		t.Errorf("stored record mutated through Load result: %q", again)
	}
}
