package domain

import "time"

// CacheVersion bumps whenever the on-disk schema changes; a mismatched
// version discards the cache (§3).
const CacheVersion = 1

// CacheValidity is how long a cache file stays authoritative enough to seed
// the first render (§4.4, boundary B1: exactly 5 minutes is invalid).
const CacheValidity = 5 * time.Minute

// Cache is the JSON document persisted at <config_dir>/emu/cache/devices.json.
type Cache struct {
	Version        uint32    `json:"version"`
	LastUpdated    time.Time `json:"last_updated"`
	AndroidDevices []Record  `json:"android_devices"`
	IOSDevices     []Record  `json:"ios_devices"`
}

// Valid reports whether the cache is both the current schema version and
// within CacheValidity of now. Exactly CacheValidity old is invalid.
func (c *Cache) Valid(now time.Time) bool {
	if c == nil || c.Version != CacheVersion {
		return false
	}
	return now.Sub(c.LastUpdated) < CacheValidity
}
