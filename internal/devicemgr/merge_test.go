package devicemgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu-tui/emu/internal/domain"
)

func TestMergeNewDeviceIsStampedAndSorted(t *testing.T) {
	fresh := []domain.Record{
		{Identity: "pixel", DisplayName: "Pixel", SortPriority: 10},
	}

	merged := Merge(nil, fresh, 100)

	require.Len(t, merged, 1)
	assert.Equal(t, int64(100), merged[0].FirstSeenUnixNano)
	assert.Equal(t, 0, merged[0].MissedRefreshes)
}

func TestMergePreservesFirstSeenAcrossRefreshes(t *testing.T) {
	old := []domain.Record{
		{Identity: "pixel", FirstSeenUnixNano: 50, MissedRefreshes: 1},
	}
	fresh := []domain.Record{
		{Identity: "pixel", Status: domain.Running()},
	}

	merged := Merge(old, fresh, 200)

	require.Len(t, merged, 1)
	assert.Equal(t, int64(50), merged[0].FirstSeenUnixNano, "first-seen must not reset on a later refresh")
	assert.Equal(t, 0, merged[0].MissedRefreshes, "a fresh sighting resets the miss counter")
}

func TestMergeEvictsAfterTwoMisses(t *testing.T) {
	old := []domain.Record{
		{Identity: "gone", MissedRefreshes: MaxMissedRefreshes - 1},
	}

	merged := Merge(old, nil, 0)

	assert.Empty(t, merged, "a device missed MaxMissedRefreshes times must be evicted")
}

func TestMergeKeepsBelowMissThreshold(t *testing.T) {
	old := []domain.Record{
		{Identity: "flaky", MissedRefreshes: 0},
	}

	merged := Merge(old, nil, 0)

	require.Len(t, merged, 1)
	assert.Equal(t, 1, merged[0].MissedRefreshes)
}

func TestMergeUnknownStatusKeepsOldStatus(t *testing.T) {
	old := []domain.Record{
		{Identity: "pixel", Status: domain.Running()},
	}
	fresh := []domain.Record{
		{Identity: "pixel", Status: domain.Unknown()},
	}

	merged := Merge(old, fresh, 0)

	require.Len(t, merged, 1)
	assert.Equal(t, domain.StatusRunning, merged[0].Status.Kind)
}

func TestMergePreservesZeroValueFieldsFromOld(t *testing.T) {
	old := []domain.Record{
		{Identity: "pixel", Android: domain.AndroidExt{RAMMB: 2048, ABI: "x86_64"}},
	}
	fresh := []domain.Record{
		{Identity: "pixel", Status: domain.Running()},
	}

	merged := Merge(old, fresh, 0)

	require.Len(t, merged, 1)
	assert.Equal(t, uint32(2048), merged[0].Android.RAMMB)
	assert.Equal(t, "x86_64", merged[0].Android.ABI)
}

func TestMergeSortsByPriorityThenName(t *testing.T) {
	fresh := []domain.Record{
		{Identity: "b", DisplayName: "Bravo", SortPriority: 1},
		{Identity: "a", DisplayName: "Alpha", SortPriority: 1},
		{Identity: "z", DisplayName: "Zulu", SortPriority: 0},
	}

	merged := Merge(nil, fresh, 0)

	require.Len(t, merged, 3)
	assert.Equal(t, []string{"z", "a", "b"}, []string{merged[0].Identity, merged[1].Identity, merged[2].Identity})
}
