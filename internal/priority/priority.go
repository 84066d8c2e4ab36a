// Package priority assigns sort_priority as a data table lookup, not a
// conditional ladder (§9 design note), so the rules stay auditable.
package priority

import (
	"strconv"
	"strings"

	"github.com/emu-tui/emu/internal/domain"
)

// Android category base offsets (§4.2).
const (
	androidPhoneBase      = 100
	androidTabletBase     = 200
	androidWearBase       = 300
	androidTVBase         = 400
	androidAutomotiveBase = 500
	androidUnknownBase    = 800
	foldableBonus         = -20
)

// Within-Phone OEM offsets. Pixel/Nexus/OnePlus/generic/unknown come from
// spec.md §4.2; the rest supplement it from original_source's numeric.rs OEM
// buckets (SPEC_FULL.md §D.1) so other real-world brands don't collapse into
// one bucket.
const (
	oemPixel    = 80
	oemNexus    = 40
	oemOnePlus  = 50
	oemSamsung  = 45
	oemXiaomi   = 55
	oemAsus     = 58
	oemOppo     = 62
	oemNokia    = 65
	oemHuawei   = 68
	oemMotorola = 72
	oemLenovo   = 74
	oemSony     = 76
	oemLG       = 78
	oemHTC      = 79
	oemGeneric  = 60
	oemUnknown  = 70
)

// AndroidCategory buckets a device_type/name string into a Category; a name
// marking a foldable yields CategoryFoldable (which shares the Phone range
// with a bonus per §4.2).
func AndroidCategory(deviceType, name string) domain.Category {
	s := strings.ToLower(deviceType + " " + name)
	switch {
	case strings.Contains(s, "wear"):
		return domain.CategoryWear
	case strings.Contains(s, "tv"):
		return domain.CategoryTV
	case strings.Contains(s, "automotive") || strings.Contains(s, "auto"):
		return domain.CategoryAutomotive
	case strings.Contains(s, "fold") || strings.Contains(s, "flip"):
		return domain.CategoryFoldable
	case strings.Contains(s, "tablet") || strings.Contains(s, "pixel_tablet") || strings.Contains(s, "nexus_9") || strings.Contains(s, "nexus_7") || strings.Contains(s, "nexus_10"):
		return domain.CategoryTablet
	case strings.Contains(s, "phone") || strings.Contains(s, "pixel") || strings.Contains(s, "nexus") || strings.Contains(s, "oneplus"):
		return domain.CategoryPhone
	default:
		return domain.CategoryUnknown
	}
}

// oemBucket identifies the OEM family from a device_type/name string.
func oemBucket(s string) (offset uint32, oem string) {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "pixel"):
		return oemPixel, "pixel"
	case strings.Contains(s, "nexus"):
		return oemNexus, "nexus"
	case strings.Contains(s, "oneplus"):
		return oemOnePlus, "oneplus"
	case strings.Contains(s, "samsung") || strings.Contains(s, "galaxy"):
		return oemSamsung, "samsung"
	case strings.Contains(s, "xiaomi") || strings.Contains(s, "redmi"):
		return oemXiaomi, "xiaomi"
	case strings.Contains(s, "asus") || strings.Contains(s, "zenfone"):
		return oemAsus, "asus"
	case strings.Contains(s, "oppo"):
		return oemOppo, "oppo"
	case strings.Contains(s, "nokia"):
		return oemNokia, "nokia"
	case strings.Contains(s, "huawei"):
		return oemHuawei, "huawei"
	case strings.Contains(s, "motorola") || strings.Contains(s, "moto"):
		return oemMotorola, "motorola"
	case strings.Contains(s, "lenovo"):
		return oemLenovo, "lenovo"
	case strings.Contains(s, "sony") || strings.Contains(s, "xperia"):
		return oemSony, "sony"
	case strings.Contains(s, "lg "), strings.HasPrefix(s, "lg"):
		return oemLG, "lg"
	case strings.Contains(s, "htc"):
		return oemHTC, "htc"
	case s == "":
		return oemUnknown, ""
	default:
		return oemGeneric, "generic"
	}
}

// AndroidSortPriority computes sort_priority for an Android device per the
// table in §4.2: category base offset, OEM/version bonus within Phone, and
// foldable discount. apiLevel participates as the spec's "api_level or
// ios_version" input but the observable bonus is currently carried entirely
// by the parsed model generation; it is accepted for signature parity with
// IOSSortPriority and reserved for future per-API-level tie-breaking.
func AndroidSortPriority(cat domain.Category, deviceType, name string, apiLevel uint16) (priority uint32, oem string) {
	base := categoryBase(cat)
	if cat != domain.CategoryPhone && cat != domain.CategoryFoldable {
		return base, ""
	}

	oemOffset, oemName := oemBucket(deviceType + " " + name)
	priority = base + oemOffset

	if oemName == "pixel" {
		// Newer model version lowers priority (earlier in the list).
		priority -= pixelVersionBonus(deviceType, name)
	}
	if cat == domain.CategoryFoldable {
		priority = uint32(int(priority) + foldableBonus)
	}
	return priority, oemName
}

func categoryBase(cat domain.Category) uint32 {
	switch cat {
	case domain.CategoryPhone, domain.CategoryFoldable:
		return androidPhoneBase
	case domain.CategoryTablet:
		return androidTabletBase
	case domain.CategoryWear:
		return androidWearBase
	case domain.CategoryTV:
		return androidTVBase
	case domain.CategoryAutomotive:
		return androidAutomotiveBase
	default:
		return androidUnknownBase
	}
}

// pixelVersionBonus extracts a trailing generation number ("pixel_7", "Pixel 8 Pro")
// and returns a bonus (0-19) such that newer generations get a lower final
// priority. Unparseable names get a small fixed bonus.
func pixelVersionBonus(deviceType, name string) uint32 { return pixelVersionBonusImpl(deviceType, name) }

func pixelVersionBonusImpl(strs ...string) uint32 {
	for _, s := range strs {
		gen := extractGeneration(s)
		if gen > 0 {
			if gen > 19 {
				gen = 19
			}
			return gen
		}
	}
	return 2
}

func extractGeneration(s string) uint32 {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		} else if digits.Len() > 0 {
			break
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return uint32(n)
}

// iOS category/priority base offsets (§4.2).
const (
	iosIPhoneProMax = 0
	iosIPhonePro    = 10
	iosIPhonePlus   = 20
	iosIPhoneMini   = 30
	iosIPhoneSE     = 40
	iosIPhoneRegular = 50

	iosIPadBase = 100
	iosIPadMax  = 150

	iosAppleTV    = 200
	iosAppleWatch = 300
	iosUnknown    = 999
)

// IOSCategory classifies a simulator device type identifier/name.
func IOSCategory(deviceType, name string) domain.Category {
	s := strings.ToLower(deviceType + " " + name)
	switch {
	case strings.Contains(s, "watch"):
		return domain.CategoryWear
	case strings.Contains(s, "tv"):
		return domain.CategoryTV
	case strings.Contains(s, "ipad"):
		return domain.CategoryTablet
	case strings.Contains(s, "iphone"):
		return domain.CategoryPhone
	default:
		return domain.CategoryUnknown
	}
}

// IOSSortPriority computes sort_priority for an iOS simulator per §4.2.
func IOSSortPriority(cat domain.Category, deviceType, name, iosVersion string) uint32 {
	s := strings.ToLower(deviceType + " " + name)
	versionBonus := iosVersionBonus(iosVersion)

	switch cat {
	case domain.CategoryPhone:
		base := iphoneBase(s)
		return clampSub(base, versionBonus, 30)
	case domain.CategoryTablet:
		return clampSub(iosIPadBase+ipadOffset(s), versionBonus, 50)
	case domain.CategoryTV:
		return iosAppleTV
	case domain.CategoryWear:
		return iosAppleWatch
	default:
		return iosUnknown
	}
}

func iphoneBase(s string) uint32 {
	switch {
	case strings.Contains(s, "pro max"):
		return iosIPhoneProMax
	case strings.Contains(s, "pro"):
		return iosIPhonePro
	case strings.Contains(s, "plus"):
		return iosIPhonePlus
	case strings.Contains(s, "mini"):
		return iosIPhoneMini
	case strings.Contains(s, "se"):
		return iosIPhoneSE
	default:
		return iosIPhoneRegular
	}
}

func ipadOffset(s string) uint32 {
	switch {
	case strings.Contains(s, "pro"):
		return 10
	case strings.Contains(s, "air"):
		return 20
	case strings.Contains(s, "mini"):
		return 30
	default:
		return 0
	}
}

func iosVersionBonus(iosVersion string) uint32 {
	major := extractGeneration(iosVersion)
	if major == 0 {
		return 0
	}
	// Newer major version -> larger bonus, subtracted from base so later
	// versions sort earlier within their bucket.
	bonus := major
	if bonus > 30 {
		bonus = 30
	}
	return bonus
}

func clampSub(base, bonus, max uint32) uint32 {
	if bonus > max {
		bonus = max
	}
	if bonus > base {
		return 0
	}
	return base - bonus
}
