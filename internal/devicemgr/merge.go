package devicemgr

import (
	"sort"
	"strings"

	"github.com/emu-tui/emu/internal/domain"
)

// MaxMissedRefreshes is the two-miss eviction threshold from §4.3/P4.
const MaxMissedRefreshes = 2

// Merge combines a prior device list with a fresh parse result per the list
// merge algorithm in §4.3. now is a monotonic-ish timestamp (unix nano) used
// to stamp FirstSeenUnixNano on newly observed devices.
//
// Merge must only be called when the fresh probe itself succeeded — per the
// Open Question resolution in SPEC_FULL.md §E(a), a failed list never
// increments anyone's miss counter, so callers must skip calling Merge (and
// keep `old` as-is) when List returned an error.
func Merge(old, fresh []domain.Record, now int64) []domain.Record {
	oldByID := make(map[string]domain.Record, len(old))
	for _, r := range old {
		oldByID[r.Identity] = r
	}
	freshByID := make(map[string]domain.Record, len(fresh))
	for _, r := range fresh {
		freshByID[r.Identity] = r
	}

	// Preserve old's relative order for ties (stable w.r.t. insertion order
	// among equals, §4.3 step 5) by walking old first, then appending
	// fresh-only identities in fresh's order.
	seen := make(map[string]bool, len(old)+len(fresh))
	merged := make([]domain.Record, 0, len(old)+len(fresh))

	for _, o := range old {
		f, inFresh := freshByID[o.Identity]
		seen[o.Identity] = true
		if inFresh {
			merged = append(merged, mergeOne(o, f))
			continue
		}
		// Present only in old: bump the miss counter; drop at the threshold.
		o.MissedRefreshes++
		if o.MissedRefreshes >= MaxMissedRefreshes {
			continue
		}
		merged = append(merged, o)
	}

	for _, f := range fresh {
		if seen[f.Identity] {
			continue
		}
		f.FirstSeenUnixNano = now
		f.MissedRefreshes = 0
		merged = append(merged, f)
	}

	sortRecords(merged)
	return merged
}

// mergeOne combines one identity's old and fresh record (§4.3 step 2).
func mergeOne(old, fresh domain.Record) domain.Record {
	merged := fresh
	merged.FirstSeenUnixNano = old.FirstSeenUnixNano
	merged.MissedRefreshes = 0

	if fresh.Status.Kind == domain.StatusUnknown {
		merged.Status = old.Status
	}

	// Preserve fields the fresh source didn't re-supply. A source omits a
	// field by leaving it at its Go zero value; prefer old's non-zero value
	// in that case (e.g. ram/storage from config.ini when adb was the
	// source that produced `fresh`).
	if fresh.Android.RAMMB == 0 {
		merged.Android.RAMMB = old.Android.RAMMB
	}
	if fresh.Android.StorageMB == 0 {
		merged.Android.StorageMB = old.Android.StorageMB
	}
	if fresh.Android.ABI == "" {
		merged.Android.ABI = old.Android.ABI
	}
	if fresh.Android.AndroidVersion == "" {
		merged.Android.AndroidVersion = old.Android.AndroidVersion
	}
	if fresh.Android.APILevel == 0 {
		merged.Android.APILevel = old.Android.APILevel
	}
	if fresh.DeviceType == "" {
		merged.DeviceType = old.DeviceType
	}
	if fresh.DisplayName == "" {
		merged.DisplayName = old.DisplayName
	}

	return merged
}

// sortRecords orders by (sort_priority, lower(display_name)) per P2, stable
// so ties preserve the walk order Merge already established.
func sortRecords(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.SortPriority != b.SortPriority {
			return a.SortPriority < b.SortPriority
		}
		return strings.ToLower(a.DisplayName) < strings.ToLower(b.DisplayName)
	})
}
