// Package devicecache persists the last-known device lists to disk so the
// UI has something to render before the first live refresh completes (§3,
// §4.4). Writes are atomic (temp file + rename).
package devicecache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/emu-tui/emu/internal/apperror"
	"github.com/emu-tui/emu/internal/domain"
)

const fileName = "devices.json"

// Store wraps a directory holding the single cache file.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperror.Wrap(apperror.CacheIO, err, "creating cache directory")
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path() string { return filepath.Join(s.Dir, fileName) }

// Load reads the cache file. A missing file is not an error: it returns a
// nil *domain.Cache, which Valid() correctly reports as false.
func (s *Store) Load() (*domain.Cache, error) {
	raw, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperror.Wrap(apperror.CacheIO, err, "reading device cache")
	}

	var c domain.Cache
	if err := json.Unmarshal(raw, &c); err != nil {
		// A corrupt cache is treated like a missing one (§3): the caller
		// falls back to a live refresh rather than surfacing a fatal error.
		return nil, nil
	}
	return &c, nil
}

// Save writes android/ios into the cache file atomically.
func (s *Store) Save(android, ios []domain.Record, now time.Time) error {
	c := domain.Cache{
		Version:        domain.CacheVersion,
		LastUpdated:    now,
		AndroidDevices: android,
		IOSDevices:     ios,
	}
	raw, err := json.MarshalIndent(&c, "", "  ")
	if err != nil {
		return apperror.Wrap(apperror.CacheIO, err, "encoding device cache")
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return apperror.Wrap(apperror.CacheIO, err, "writing device cache")
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return apperror.Wrap(apperror.CacheIO, err, "committing device cache")
	}
	return nil
}
