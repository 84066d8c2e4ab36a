package android

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/emu-tui/emu/internal/domain"
	"github.com/emu-tui/emu/internal/priority"
)

// avdRecord is the intermediate shape parsed from `avdmanager list avd`
// output, before config.ini enrichment and adb cross-referencing.
type avdRecord struct {
	name       string
	deviceType string
	apiLevel   uint16
	abi        string
}

var apiFromBasedOnRE = regexp.MustCompile(`API\s+(\d+)`)
var apiFromAndroidVersionRE = regexp.MustCompile(`Android\s+(\d+)`)
var abiFromBasedOnRE = regexp.MustCompile(`Tag/ABI:\s*([\w./-]+)`)

// ParseAVDManagerList parses `avdmanager list avd` stdout into avdRecords
// plus warnings for entries that could not be fully interpreted.
func ParseAVDManagerList(output string) ([]avdRecord, []string) {
	var records []avdRecord
	var warnings []string

	var cur *avdRecord
	flush := func() {
		if cur != nil {
			records = append(records, *cur)
			cur = nil
		}
	}

	for _, rawLine := range strings.Split(output, "\n") {
		line := strings.TrimSpace(rawLine)
		switch {
		case strings.HasPrefix(line, "Name:"):
			flush()
			cur = &avdRecord{name: strings.TrimSpace(strings.TrimPrefix(line, "Name:"))}
		case strings.HasPrefix(line, "Device:") && cur != nil:
			dev := strings.TrimSpace(strings.TrimPrefix(line, "Device:"))
			if idx := strings.Index(dev, "("); idx > 0 {
				dev = strings.TrimSpace(dev[:idx])
			}
			cur.deviceType = dev
		case strings.HasPrefix(line, "Based on:") && cur != nil:
			basedOn := strings.TrimSpace(strings.TrimPrefix(line, "Based on:"))
			if m := apiFromBasedOnRE.FindStringSubmatch(basedOn); len(m) > 1 {
				cur.apiLevel = parseUint16(m[1])
			} else if m := apiFromAndroidVersionRE.FindStringSubmatch(basedOn); len(m) > 1 {
				cur.apiLevel = parseUint16(m[1])
			} else {
				warnings = append(warnings, "could not parse API level from: "+basedOn)
			}
			if m := abiFromBasedOnRE.FindStringSubmatch(basedOn); len(m) > 1 {
				cur.abi = m[1]
			}
		}
	}
	flush()
	return records, warnings
}

// configIni holds the subset of an AVD's config.ini this app reads (§4.2).
type configIni struct {
	ramMB     uint32
	storageMB uint32
	apiLevel  uint16
	abi       string
}

// ReadConfigIni reads hw.ramSize/disk.dataPartition.size/image.sysdir.1
// (or target) / tag.id from <avdHome>/<name>.avd/config.ini. A missing file
// or field is not fatal; callers merge whatever was present.
func ReadConfigIni(avdHome, name string) (configIni, error) {
	path := filepath.Join(avdHome, name+".avd", "config.ini")
	f, err := os.Open(path)
	if err != nil {
		return configIni{}, err
	}
	defer f.Close()

	var cfg configIni
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "hw.ramSize":
			cfg.ramMB = parseSizeMB(value)
		case "disk.dataPartition.size":
			cfg.storageMB = parseSizeMB(value)
		case "image.sysdir.1":
			cfg.apiLevel = apiLevelFromSysdir(value)
		case "target":
			cfg.apiLevel = apiLevelFromTarget(value)
		case "tag.id", "abi.type":
			if cfg.abi == "" {
				cfg.abi = value
			}
		}
	}
	return cfg, scanner.Err()
}

var sysdirAPIRE = regexp.MustCompile(`system-images/android-(\d+)/`)

func apiLevelFromSysdir(v string) uint16 {
	if m := sysdirAPIRE.FindStringSubmatch(v); len(m) > 1 {
		return parseUint16(m[1])
	}
	return 0
}

func apiLevelFromTarget(v string) uint16 {
	return parseUint16(strings.TrimPrefix(v, "android-"))
}

// parseSizeMB parses values like "2048M", "2G", "1024" (bytes) into MB.
func parseSizeMB(v string) uint32 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	unit := v[len(v)-1]
	numStr := v
	mult := uint64(1)
	switch unit {
	case 'M', 'm':
		numStr = v[:len(v)-1]
	case 'G', 'g':
		numStr = v[:len(v)-1]
		mult = 1024
	case 'K', 'k':
		numStr = v[:len(v)-1]
		mult = 0 // sub-MB, treated as 0
	default:
		// bare number: bytes
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0
		}
		return uint32(n / (1024 * 1024))
	}
	n, err := strconv.ParseUint(numStr, 10, 64)
	if err != nil {
		return 0
	}
	return uint32(n * mult)
}

func parseUint16(s string) uint16 {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0
	}
	return uint16(n)
}

// adbEntry is one line of `adb devices -l` (or plain `adb devices`).
type adbEntry struct {
	serial  string
	running bool // true iff the "device" column reported "device" (ready)
}

var adbDeviceLineRE = regexp.MustCompile(`^(\S+)\s+(\w+)`)

// ParseADBDevices parses `adb devices` output into adbEntries, skipping the
// header line.
func ParseADBDevices(output string) []adbEntry {
	var out []adbEntry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") {
			continue
		}
		m := adbDeviceLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, adbEntry{serial: m[1], running: m[2] == "device"})
	}
	return out
}

// IsEmulatorSerial reports whether serial names an emulator console port
// (vs. a physical device attached over USB).
func IsEmulatorSerial(serial string) bool {
	return strings.HasPrefix(serial, "emulator-")
}

// ToRecord converts an avdRecord (optionally enriched by config.ini) into a
// canonical domain.Record. running/identity-from-adb is applied by the
// caller (manager.go), which owns the adb cross-reference per §4.2.
func (a avdRecord) toRecord(cfg configIni) domain.Record {
	apiLevel := a.apiLevel
	if apiLevel == 0 {
		apiLevel = cfg.apiLevel
	}
	abi := a.abi
	if abi == "" {
		abi = cfg.abi
	}

	displayName := strings.ReplaceAll(a.name, "_", " ")
	cat := priority.AndroidCategory(a.deviceType, a.name)
	sortPriority, oem := priority.AndroidSortPriority(cat, a.deviceType, a.name, apiLevel)

	return domain.Record{
		Platform:     domain.PlatformAndroid,
		Identity:     a.name,
		DisplayName:  displayName,
		DeviceType:   a.deviceType,
		Status:       domain.Stopped(),
		IsPhysical:   false,
		Category:     cat,
		SortPriority: sortPriority,
		Android: domain.AndroidExt{
			APILevel:       apiLevel,
			AndroidVersion: androidVersionName(apiLevel),
			RAMMB:          cfg.ramMB,
			StorageMB:      cfg.storageMB,
			ABI:            abi,
			OEM:            oem,
		},
	}
}

// androidVersionNames maps API level to the marketing version name, mirroring
// the retrieval pack's mobilecli apiLevelToVersion table.
var androidVersionNames = map[uint16]string{
	36: "16", 35: "15", 34: "14", 33: "13", 32: "12L", 31: "12",
	30: "11", 29: "10", 28: "9", 27: "8.1", 26: "8.0", 25: "7.1",
	24: "7.0", 23: "6.0", 22: "5.1", 21: "5.0",
}

func androidVersionName(apiLevel uint16) string {
	if v, ok := androidVersionNames[apiLevel]; ok {
		return v
	}
	return ""
}

// PhysicalDeviceRecord builds a domain.Record for a non-emulator adb serial
// from its getprop values (model/manufacturer/sdk), per SPEC_FULL.md §D.2.
func PhysicalDeviceRecord(serial, model, manufacturer, sdk string) domain.Record {
	apiLevel := parseUint16(sdk)
	display := strings.TrimSpace(manufacturer + " " + model)
	if display == "" {
		display = serial
	}
	return domain.Record{
		Platform:     domain.PlatformAndroid,
		Identity:     serial,
		DisplayName:  display,
		DeviceType:   model,
		Status:       domain.Running(),
		IsPhysical:   true,
		Category:     domain.CategoryPhone,
		SortPriority: 0, // physical devices always sort first
		Android: domain.AndroidExt{
			APILevel:       apiLevel,
			AndroidVersion: androidVersionName(apiLevel),
			OEM:            manufacturer,
		},
	}
}
