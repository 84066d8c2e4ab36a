package android

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAVDManagerList = `Available Android Virtual Devices:
    Name: Pixel_7_API_34
    Device: pixel_7 (Google)
    Path: /home/user/.android/avd/Pixel_7_API_34.avd
    Target: Google APIs
    Based on: Android API 34 Tag/ABI: google_apis_playstore/x86_64
---------
    Name: Nexus_5_API_23
    Device: Nexus 5 (Google)
    Path: /home/user/.android/avd/Nexus_5_API_23.avd
    Based on: Android 6.0
`

func TestParseAVDManagerList(t *testing.T) {
	records, warnings := ParseAVDManagerList(sampleAVDManagerList)

	require.Len(t, records, 2)
	assert.Empty(t, warnings)

	assert.Equal(t, "Pixel_7_API_34", records[0].name)
	assert.Equal(t, "pixel_7", records[0].deviceType)
	assert.Equal(t, uint16(34), records[0].apiLevel)
	assert.Equal(t, "google_apis_playstore/x86_64", records[0].abi)

	assert.Equal(t, "Nexus_5_API_23", records[1].name)
	assert.Equal(t, uint16(6), records[1].apiLevel, "falls back to the Android-version form of Based on")
}

func TestParseAVDManagerListWarnsOnUnparseableBasedOn(t *testing.T) {
	_, warnings := ParseAVDManagerList("    Name: Weird\n    Based on: nonsense\n")
	require.Len(t, warnings, 1)
}

func TestReadConfigIni(t *testing.T) {
	dir := t.TempDir()
	avdDir := filepath.Join(dir, "Pixel_7_API_34.avd")
	require.NoError(t, os.MkdirAll(avdDir, 0o755))

	contents := "hw.ramSize=2048M\ndisk.dataPartition.size=8G\nimage.sysdir.1=system-images/android-34/google_apis/x86_64/\ntag.id=google_apis\n"
	require.NoError(t, os.WriteFile(filepath.Join(avdDir, "config.ini"), []byte(contents), 0o644))

	cfg, err := ReadConfigIni(dir, "Pixel_7_API_34")
	require.NoError(t, err)
	assert.Equal(t, uint32(2048), cfg.ramMB)
	assert.Equal(t, uint32(8192), cfg.storageMB)
	assert.Equal(t, uint16(34), cfg.apiLevel)
	assert.Equal(t, "google_apis", cfg.abi)
}

func TestReadConfigIniMissingFileIsAnError(t *testing.T) {
	_, err := ReadConfigIni(t.TempDir(), "does_not_exist")
	assert.Error(t, err)
}

func TestParseSizeMB(t *testing.T) {
	cases := map[string]uint32{
		"2048M":    2048,
		"2G":       2048,
		"1073741824": 1024,
		"":         0,
		"512K":     0,
	}
	for input, want := range cases {
		assert.Equal(t, want, parseSizeMB(input), "input %q", input)
	}
}

func TestParseADBDevices(t *testing.T) {
	out := "List of devices attached\nemulator-5554\tdevice\n0123456789ABCDEF\tdevice\nZY123\tunauthorized\n\n"
	entries := ParseADBDevices(out)

	require.Len(t, entries, 3)
	assert.Equal(t, "emulator-5554", entries[0].serial)
	assert.True(t, entries[0].running)
	assert.Equal(t, "ZY123", entries[2].serial)
	assert.False(t, entries[2].running)
}

func TestIsEmulatorSerial(t *testing.T) {
	assert.True(t, IsEmulatorSerial("emulator-5554"))
	assert.False(t, IsEmulatorSerial("ZY123456"))
}

func TestAvdRecordToRecord(t *testing.T) {
	a := avdRecord{name: "Pixel_7_API_34", deviceType: "pixel_7", apiLevel: 34, abi: "x86_64"}
	rec := a.toRecord(configIni{ramMB: 2048, storageMB: 8192})

	assert.Equal(t, "Pixel_7_API_34", rec.Identity)
	assert.Equal(t, "Pixel 7 API 34", rec.DisplayName)
	assert.Equal(t, "14", rec.Android.AndroidVersion)
	assert.False(t, rec.IsPhysical)
	assert.Equal(t, uint32(2048), rec.Android.RAMMB)
}

func TestPhysicalDeviceRecordSortsFirst(t *testing.T) {
	rec := PhysicalDeviceRecord("ZY123", "Pixel 7", "Google", "34")
	assert.True(t, rec.IsPhysical)
	assert.Equal(t, uint32(0), rec.SortPriority)
	assert.Equal(t, "Google Pixel 7", rec.DisplayName)
}
