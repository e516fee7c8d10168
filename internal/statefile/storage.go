package statefile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// Sentinel errors for storage back ends.
var (
	ErrNotExist      = errors.New("statefile: no saved state")
	ErrQuotaExceeded = errors.New("statefile: storage quota exceeded")
	ErrInvalidKey    = errors.New("statefile: invalid key")
)

// dirPermissions is used when creating the storage directory.
const dirPermissions = 0o750

// Storage is a keyed byte store, one record per namespace key.
type Storage interface {
	// Load returns the record for key, or an error matching ErrNotExist.
	Load(key string) ([]byte, error)

	// Save replaces the record for key.
	Save(key string, data []byte) error
}

// ValidateKey checks that key can be used as a file stem.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// DirStorage stores each key as {dir}/{key}.json. Writes go through a
// temporary file and rename, so a crash never leaves a torn record.
type DirStorage struct {
	dir string
}

// NewDirStorage creates a DirStorage rooted at dir. The directory is
// created on first save.
func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{dir: dir}
}

// Dir returns the storage directory.
func (s *DirStorage) Dir() string {
	return s.dir
}

// Path returns the file that holds key.
func (s *DirStorage) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads the record for key.
func (s *DirStorage) Load(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(key)) // #nosec G304 -- key validated above
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, s.Path(key))
		}
		return nil, fmt.Errorf("statefile: reading %s: %w", s.Path(key), err)
	}
	return data, nil
}

// Save atomically replaces the record for key.
func (s *DirStorage) Save(key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, dirPermissions); err != nil {
		return fmt.Errorf("statefile: creating %s: %w", s.dir, err)
	}
	if err := atomic.WriteFile(s.Path(key), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("statefile: writing %s: %w", s.Path(key), err)
	}
	return nil
}

// MemoryStorage keeps records in memory. A positive Quota caps the total
// size of all records, modelling a browser storage quota.
type MemoryStorage struct {
	mu      sync.Mutex
	records map[string][]byte
	quota   int
	saves   int
}

// NewMemoryStorage creates an empty MemoryStorage. quota <= 0 means unlimited.
func NewMemoryStorage(quota int) *MemoryStorage {
	return &MemoryStorage{
		records: make(map[string][]byte),
		quota:   quota,
	}
}

// Load returns a copy of the record for key.
func (s *MemoryStorage) Load(key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	return bytes.Clone(data), nil
}

// Save stores a copy of data under key, or fails with ErrQuotaExceeded
// leaving the previous record in place.
func (s *MemoryStorage) Save(key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		total := len(data)
		for k, v := range s.records {
			if k != key {
				total += len(v)
			}
		}
		if total > s.quota {
			return fmt.Errorf("%w: %d bytes (quota %d)", ErrQuotaExceeded, total, s.quota)
		}
	}

	s.records[key] = bytes.Clone(data)
	s.saves++
	return nil
}

// SetQuota changes the quota; quota <= 0 means unlimited.
func (s *MemoryStorage) SetQuota(quota int) {
	s.mu.Lock()
	s.quota = quota
	s.mu.Unlock()
}

// Saves returns how many saves succeeded.
func (s *MemoryStorage) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Compile-time interface checks.
var (
	_ Storage = (*DirStorage)(nil)
	_ Storage = (*MemoryStorage)(nil)
)
