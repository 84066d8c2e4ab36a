package devicecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu-tui/emu/internal/domain"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	c, err := s.Load()
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	android := []domain.Record{{Platform: domain.PlatformAndroid, Identity: "pixel"}}
	ios := []domain.Record{{Platform: domain.PlatformIOS, Identity: "AAAA"}}
	now := time.Now().Truncate(time.Second)

	require.NoError(t, s.Save(android, ios, now))

	c, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, uint32(domain.CacheVersion), c.Version)
	require.Len(t, c.AndroidDevices, 1)
	assert.Equal(t, "pixel", c.AndroidDevices[0].Identity)
	require.Len(t, c.IOSDevices, 1)
	assert.True(t, c.Valid(now.Add(time.Minute)))
	assert.False(t, c.Valid(now.Add(domain.CacheValidity+time.Second)))
}

func TestLoadCorruptFileIsTreatedAsMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("not json"), 0o644))

	s, err := New(dir)
	require.NoError(t, err)

	c, err := s.Load()
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(nil, nil, time.Now()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "no temp file should remain after a successful save")
	}
}
