package iossim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu-tui/emu/internal/domain"
)

const sampleDeviceList = `{
  "devices": {
    "com.apple.CoreSimulator.SimRuntime.iOS-17-0": [
      {"udid":"AAAA","name":"iPhone 15 Pro","deviceTypeIdentifier":"com.apple.CoreSimulator.SimDeviceType.iPhone-15-Pro","state":"Booted","isAvailable":true},
      {"udid":"BBBB","name":"iPhone SE (3rd generation)","deviceTypeIdentifier":"com.apple.CoreSimulator.SimDeviceType.iPhone-SE-3rd-generation","state":"Shutdown","isAvailable":true},
      {"udid":"CCCC","name":"Stale Device","deviceTypeIdentifier":"","state":"Shutdown","isAvailable":false}
    ]
  }
}`

func TestParseSimctlDeviceList(t *testing.T) {
	records, warnings := ParseSimctlDeviceList([]byte(sampleDeviceList))

	assert.Empty(t, warnings)
	require.Len(t, records, 2, "unavailable devices must be skipped")

	assert.Equal(t, "AAAA", records[0].Identity)
	assert.Equal(t, domain.StatusRunning, records[0].Status.Kind)
	assert.Equal(t, "17.0", records[0].IOS.IOSVersion)
	assert.Equal(t, domain.CategoryPhone, records[0].Category)

	assert.Equal(t, domain.StatusStopped, records[1].Status.Kind)
}

func TestParseSimctlDeviceListMissingDevicesKey(t *testing.T) {
	records, warnings := ParseSimctlDeviceList([]byte(`{}`))
	assert.Empty(t, records)
	require.Len(t, warnings, 1)
}

func TestStatusFromSimctlState(t *testing.T) {
	cases := map[string]domain.StatusKind{
		"Booted":        domain.StatusRunning,
		"Booting":       domain.StatusStarting,
		"Shutting Down": domain.StatusStopping,
		"Creating":      domain.StatusCreating,
		"Shutdown":      domain.StatusStopped,
		"Weird":         domain.StatusUnknown,
	}
	for state, want := range cases {
		assert.Equal(t, want, statusFromSimctlState(state).Kind, "state %q", state)
	}
}

func TestParseRuntimeVersion(t *testing.T) {
	assert.Equal(t, "17.0", ParseRuntimeVersion("com.apple.CoreSimulator.SimRuntime.iOS-17-0"))
	assert.Equal(t, "", ParseRuntimeVersion("com.apple.CoreSimulator.SimRuntime.watchOS-10-0"))
	assert.Equal(t, "", ParseRuntimeVersion("garbage"))
}

func TestParseSimctlDeviceTypes(t *testing.T) {
	blob := `{"devicetypes":[{"identifier":"com.apple.CoreSimulator.SimDeviceType.iPhone-15","name":"iPhone 15"}]}`
	entries := ParseSimctlDeviceTypes([]byte(blob))
	require.Len(t, entries, 1)
	assert.Equal(t, "iPhone 15", entries[0].Name)
}

func TestParseSimctlRuntimes(t *testing.T) {
	blob := `{"runtimes":[{"identifier":"com.apple.CoreSimulator.SimRuntime.iOS-17-0","version":"17.0","isAvailable":true}]}`
	runtimes := ParseSimctlRuntimes([]byte(blob))
	require.Len(t, runtimes, 1)
	assert.True(t, runtimes[0].IsAvailable)
}

func TestParseBuildNumber(t *testing.T) {
	assert.Equal(t, "42", parseBuildNumber("42"))
	assert.Equal(t, "42", parseBuildNumber(int64(42)))
	assert.Equal(t, "", parseBuildNumber(nil))
}
