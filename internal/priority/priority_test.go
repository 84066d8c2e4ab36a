package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emu-tui/emu/internal/domain"
)

func TestAndroidCategory(t *testing.T) {
	cases := []struct {
		deviceType, name string
		want             domain.Category
	}{
		{"Wear OS Round", "wear", domain.CategoryWear},
		{"Android TV (1080p)", "tv", domain.CategoryTV},
		{"Automotive 1024p landscape", "auto", domain.CategoryAutomotive},
		{"pixel_7_fold", "Pixel Fold", domain.CategoryFoldable},
		{"pixel_tablet", "Pixel Tablet", domain.CategoryTablet},
		{"pixel_7", "Pixel 7", domain.CategoryPhone},
		{"unknown_device", "Mystery", domain.CategoryUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AndroidCategory(tc.deviceType, tc.name))
		})
	}
}

func TestAndroidSortPriorityNonPhoneIgnoresOEM(t *testing.T) {
	priority, oem := AndroidSortPriority(domain.CategoryTablet, "pixel_tablet", "Pixel Tablet", 34)
	assert.Equal(t, uint32(androidTabletBase), priority)
	assert.Empty(t, oem)
}

func TestAndroidSortPriorityPixelNewerGenerationSortsEarlier(t *testing.T) {
	older, _ := AndroidSortPriority(domain.CategoryPhone, "pixel_6", "Pixel 6", 33)
	newer, _ := AndroidSortPriority(domain.CategoryPhone, "pixel_8", "Pixel 8", 34)
	assert.Less(t, newer, older, "a newer pixel generation must sort before an older one")
}

func TestAndroidSortPriorityFoldableGetsBonus(t *testing.T) {
	phone, _ := AndroidSortPriority(domain.CategoryPhone, "pixel_7", "Pixel 7", 34)
	fold, _ := AndroidSortPriority(domain.CategoryFoldable, "pixel_7_fold", "Pixel 7 Fold", 34)
	assert.Less(t, fold, phone)
}

func TestAndroidSortPriorityReportsOEM(t *testing.T) {
	_, oem := AndroidSortPriority(domain.CategoryPhone, "galaxy_s23", "Samsung Galaxy S23", 33)
	assert.Equal(t, "samsung", oem)
}

func TestIOSCategory(t *testing.T) {
	cases := []struct {
		name string
		dt   string
		want domain.Category
	}{
		{"watch", "Apple Watch Series 9", domain.CategoryWear},
		{"tv", "Apple TV 4K", domain.CategoryTV},
		{"ipad", "iPad Pro 12.9-inch", domain.CategoryTablet},
		{"iphone", "iPhone 15 Pro", domain.CategoryPhone},
		{"unknown", "Mystery Device", domain.CategoryUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IOSCategory(tc.dt, tc.name))
		})
	}
}

func TestIOSSortPriorityProMaxSortsBeforePlainIPhone(t *testing.T) {
	proMax := IOSSortPriority(domain.CategoryPhone, "", "iPhone 15 Pro Max", "17.0")
	plain := IOSSortPriority(domain.CategoryPhone, "", "iPhone 15", "17.0")
	assert.Less(t, proMax, plain)
}

func TestIOSSortPriorityNewerVersionSortsEarlier(t *testing.T) {
	older := IOSSortPriority(domain.CategoryPhone, "", "iPhone 15 Pro", "16.0")
	newer := IOSSortPriority(domain.CategoryPhone, "", "iPhone 15 Pro", "18.0")
	assert.Less(t, newer, older)
}

func TestIOSSortPriorityNonPhoneTablet(t *testing.T) {
	pro := IOSSortPriority(domain.CategoryTablet, "", "iPad Pro", "17.0")
	mini := IOSSortPriority(domain.CategoryTablet, "", "iPad mini", "17.0")
	assert.NotEqual(t, pro, mini)
}

func TestClampSubNeverUnderflows(t *testing.T) {
	assert.Equal(t, uint32(0), clampSub(5, 30, 30))
}
