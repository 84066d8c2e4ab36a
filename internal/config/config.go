// Package config loads user configuration for default create values, theme,
// and refresh timing, following the precedence and file-discovery model of
// the teacher's config loader (viper-backed, env overrides on top of file,
// file on top of built-in defaults).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting §6 lets the user override.
type Config struct {
	Theme string `mapstructure:"theme"`

	Android AndroidConfig `mapstructure:"android"`
	IOS     IOSConfig     `mapstructure:"ios"`
	Refresh RefreshConfig `mapstructure:"refresh"`
}

// AndroidConfig holds defaults pre-filled into the Android create dialog.
type AndroidConfig struct {
	DefaultRAMMB     uint32 `mapstructure:"default_ram_mb"`
	DefaultStorageMB uint32 `mapstructure:"default_storage_mb"`
	DefaultAPILevel  uint16 `mapstructure:"default_api_level"`
}

// IOSConfig holds defaults pre-filled into the iOS create dialog.
type IOSConfig struct {
	DefaultDeviceType string `mapstructure:"default_device_type"`
	DefaultIOSVersion string `mapstructure:"default_ios_version"`
}

// RefreshConfig tunes the background refresh scheduler (SPEC_FULL.md §C),
// which the distilled spec fixes at 5s/60s but the original exposes as
// tunables (original_source/src/config.rs).
type RefreshConfig struct {
	FastInterval string `mapstructure:"fast_interval"`
	SlowInterval string `mapstructure:"slow_interval"`
	Debounce     string `mapstructure:"debounce"`
}

// Default returns the built-in values from §4.2/§4.4/§6.
func Default() *Config {
	return &Config{
		Theme: "dark",
		Android: AndroidConfig{
			DefaultRAMMB:     2048,
			DefaultStorageMB: 8192,
			DefaultAPILevel:  34,
		},
		IOS: IOSConfig{
			DefaultDeviceType: "com.apple.CoreSimulator.SimDeviceType.iPhone-15",
		},
		Refresh: RefreshConfig{
			FastInterval: "5s",
			SlowInterval: "60s",
			Debounce:     "50ms",
		},
	}
}

// Load resolves configuration from (in increasing precedence): built-in
// defaults, a config file, and EMU_-prefixed environment variables.
//
// File search order (highest precedence first); in each directory the names
// .emu.yaml, .emu.yml, emu.yaml and emu.yml are tried in that order:
//  1. the current directory
//  2. the home directory
//  3. os.UserConfigDir()/emu
//  4. /etc/emu
func Load() (*Config, error) {
	cfg := Default()
	v := viper.New()

	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("android.default_ram_mb", cfg.Android.DefaultRAMMB)
	v.SetDefault("android.default_storage_mb", cfg.Android.DefaultStorageMB)
	v.SetDefault("android.default_api_level", cfg.Android.DefaultAPILevel)
	v.SetDefault("ios.default_device_type", cfg.IOS.DefaultDeviceType)
	v.SetDefault("ios.default_ios_version", cfg.IOS.DefaultIOSVersion)
	v.SetDefault("refresh.fast_interval", cfg.Refresh.FastInterval)
	v.SetDefault("refresh.slow_interval", cfg.Refresh.SlowInterval)
	v.SetDefault("refresh.debounce", cfg.Refresh.Debounce)

	v.SetEnvPrefix("EMU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := findConfigFile(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from an explicit path, skipping the
// search-path precedence dance (used by `--config`).
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	names := []string{".emu.yaml", ".emu.yml", "emu.yaml", "emu.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string
	if cwd, err := os.Getwd(); err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "emu"))
	}
	searchPaths = append(searchPaths, "/etc/emu")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Validate checks config values for basic correctness per §3/§6 bounds.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}

	switch strings.ToLower(c.Theme) {
	case "", "dark", "light":
	default:
		return fmt.Errorf("invalid theme: %q (expected dark or light)", c.Theme)
	}

	if c.Android.DefaultRAMMB != 0 && (c.Android.DefaultRAMMB < 512 || c.Android.DefaultRAMMB > 8192) {
		return fmt.Errorf("android.default_ram_mb must be in [512, 8192]")
	}
	if c.Android.DefaultStorageMB != 0 && (c.Android.DefaultStorageMB < 1024 || c.Android.DefaultStorageMB > 65536) {
		return fmt.Errorf("android.default_storage_mb must be in [1024, 65536]")
	}
	if c.Android.DefaultAPILevel != 0 && c.Android.DefaultAPILevel < 21 {
		return fmt.Errorf("android.default_api_level must be >= 21")
	}

	for name, val := range map[string]string{
		"refresh.fast_interval": c.Refresh.FastInterval,
		"refresh.slow_interval": c.Refresh.SlowInterval,
		"refresh.debounce":      c.Refresh.Debounce,
	} {
		if val == "" {
			continue
		}
		if _, err := time.ParseDuration(val); err != nil {
			return fmt.Errorf("invalid duration for %s: %q (%v)", name, val, err)
		}
	}
	return nil
}

// ConfigFile returns the path to the config file that would be loaded.
func ConfigFile() string {
	return findConfigFile()
}

// FastInterval parses Refresh.FastInterval, falling back to §4.4's 5s
// default if unset or invalid.
func (c *Config) FastInterval() time.Duration {
	return parseOr(c.Refresh.FastInterval, 5*time.Second)
}

// SlowInterval parses Refresh.SlowInterval, falling back to §4.4's 60s
// default if unset or invalid.
func (c *Config) SlowInterval() time.Duration {
	return parseOr(c.Refresh.SlowInterval, 60*time.Second)
}

// Debounce parses Refresh.Debounce, falling back to §4.4's 50ms default.
func (c *Config) Debounce() time.Duration {
	return parseOr(c.Refresh.Debounce, 50*time.Millisecond)
}

func parseOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
