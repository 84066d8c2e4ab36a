package iossim

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/emu-tui/emu/internal/domain"
	"github.com/emu-tui/emu/internal/priority"
)

// ParseSimctlDeviceList parses `xcrun simctl list devices --json` output
// into domain.Records, skipping unavailable entries (§4.2: deleted runtime
// backing, not worth surfacing).
func ParseSimctlDeviceList(jsonBlob []byte) ([]domain.Record, []string) {
	var records []domain.Record
	var warnings []string

	root := gjson.ParseBytes(jsonBlob)
	devicesByRuntime := root.Get("devices")
	if !devicesByRuntime.Exists() {
		warnings = append(warnings, "simctl list output missing \"devices\" key")
		return records, warnings
	}

	devicesByRuntime.ForEach(func(runtimeKey, devs gjson.Result) bool {
		runtimeID := runtimeKey.String()
		iosVersion := ParseRuntimeVersion(runtimeID)

		devs.ForEach(func(_, d gjson.Result) bool {
			if !d.Get("isAvailable").Bool() {
				return true
			}
			name := d.Get("name").String()
			deviceType := d.Get("deviceTypeIdentifier").String()
			cat := priority.IOSCategory(deviceType, name)
			sortPriority := priority.IOSSortPriority(cat, deviceType, name, iosVersion)

			records = append(records, domain.Record{
				Platform:     domain.PlatformIOS,
				Identity:     d.Get("udid").String(),
				DisplayName:  name,
				DeviceType:   deviceType,
				Status:       statusFromSimctlState(d.Get("state").String()),
				IsPhysical:   false,
				Category:     cat,
				SortPriority: sortPriority,
				IOS: domain.IOSExt{
					IOSVersion:  iosVersion,
					RuntimeID:   runtimeID,
					IsAvailable: true,
				},
			})
			return true
		})
		return true
	})

	return records, warnings
}

func statusFromSimctlState(state string) domain.Status {
	switch state {
	case "Booted":
		return domain.Running()
	case "Booting":
		return domain.Status{Kind: domain.StatusStarting}
	case "Shutting Down":
		return domain.Status{Kind: domain.StatusStopping}
	case "Creating":
		return domain.Status{Kind: domain.StatusCreating}
	case "Shutdown":
		return domain.Stopped()
	default:
		return domain.Unknown()
	}
}

// ParseRuntimeVersion extracts a human iOS version from a runtime
// identifier, e.g. "com.apple.CoreSimulator.SimRuntime.iOS-17-0" -> "17.0".
func ParseRuntimeVersion(runtimeID string) string {
	parts := strings.Split(runtimeID, ".")
	if len(parts) == 0 {
		return ""
	}
	last := parts[len(parts)-1]
	segments := strings.Split(last, "-")
	if len(segments) < 2 {
		return ""
	}
	if segments[0] != "iOS" {
		return "" // not a phone/tablet runtime (watchOS/tvOS handled by Category, version unused)
	}
	return strings.Join(segments[1:], ".")
}

// DeviceTypeEntry is one entry from `xcrun simctl list devicetypes --json`,
// used by Create to validate/resolve a requested device type identifier.
type DeviceTypeEntry struct {
	Identifier string
	Name       string
}

func ParseSimctlDeviceTypes(jsonBlob []byte) []DeviceTypeEntry {
	var out []DeviceTypeEntry
	gjson.GetBytes(jsonBlob, "devicetypes").ForEach(func(_, dt gjson.Result) bool {
		out = append(out, DeviceTypeEntry{
			Identifier: dt.Get("identifier").String(),
			Name:       dt.Get("name").String(),
		})
		return true
	})
	return out
}

// RuntimeEntry is one entry from `xcrun simctl list runtimes --json`.
type RuntimeEntry struct {
	Identifier  string
	Version     string
	IsAvailable bool
}

func ParseSimctlRuntimes(jsonBlob []byte) []RuntimeEntry {
	var out []RuntimeEntry
	gjson.GetBytes(jsonBlob, "runtimes").ForEach(func(_, r gjson.Result) bool {
		out = append(out, RuntimeEntry{
			Identifier:  r.Get("identifier").String(),
			Version:     r.Get("version").String(),
			IsAvailable: r.Get("isAvailable").Bool(),
		})
		return true
	})
	return out
}

// AppInfo holds the fields extracted from an installed app's Info.plist via
// `simctl get_app_container` (SPEC_FULL.md §A, the `howett.net/plist` row:
// surfacing installed app metadata for a booted simulator, dropped by the
// distilled spec but present in the original tool).
type AppInfo struct {
	Version string
	Build   string
}

func parseBuildNumber(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
