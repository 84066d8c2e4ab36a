package cliutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emu-tui/emu/internal/domain"
)

func TestPrintDevicesEmptyListReportsNone(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintDevices(&buf, domain.PlatformAndroid, nil))
	assert.Contains(t, buf.String(), "no android devices found")
}

func TestPrintDevicesRendersRunningAndStoppedMarkers(t *testing.T) {
	devices := []domain.Record{
		{Identity: "pixel", DisplayName: "Pixel 7 API 34", Platform: domain.PlatformAndroid,
			Status: domain.Running(), Android: domain.AndroidExt{APILevel: 34, AndroidVersion: "14"}},
		{Identity: "nexus", DisplayName: "Nexus 5 API 23", Platform: domain.PlatformAndroid,
			Status: domain.Stopped(), Android: domain.AndroidExt{APILevel: 23, AndroidVersion: "6.0"}},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintDevices(&buf, domain.PlatformAndroid, devices))

	out := buf.String()
	assert.Contains(t, out, "pixel")
	assert.Contains(t, out, "API 34")
	assert.Contains(t, out, "Total: 2 device(s), 1 running")
}

func TestTruncateShortensLongNames(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 40)
	got := truncate(long, 35)
	assert.Len(t, got, 35)
	assert.True(t, strings.HasSuffix(got, "..."))
}
