// Package android implements the Android DeviceManager: parsing
// `avdmanager list avd`, `adb devices`, and per-AVD `config.ini`, and
// driving avdmanager/emulator/adb/sdkmanager through internal/toolrunner.
package android

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Env is the Android SDK environment discovered at startup (§6). It is
// furnished to the core, not derived by it — platform auto-detection beyond
// these fields is out of scope per spec.md §1.
type Env struct {
	SDKRoot  string // ANDROID_HOME or ANDROID_SDK_ROOT
	AVDHome  string // where .avd directories live

	Emulator   string
	ADB        string
	AvdManager string
	SdkManager string
}

// DetectEnv resolves the SDK root from ANDROID_HOME/ANDROID_SDK_ROOT and
// locates the tool binaries relative to it, falling back to PATH lookup.
func DetectEnv() Env {
	sdkRoot := os.Getenv("ANDROID_HOME")
	if sdkRoot == "" {
		sdkRoot = os.Getenv("ANDROID_SDK_ROOT")
	}

	home, _ := os.UserHomeDir()
	avdHome := os.Getenv("ANDROID_AVD_HOME")
	if avdHome == "" && home != "" {
		avdHome = filepath.Join(home, ".android", "avd")
	}

	env := Env{
		SDKRoot:    sdkRoot,
		AVDHome:    avdHome,
		Emulator:   "emulator",
		ADB:        "adb",
		AvdManager: "avdmanager",
		SdkManager: "sdkmanager",
	}
	if sdkRoot != "" {
		env.Emulator = preferSDKBin(sdkRoot, "emulator", "emulator")
		env.ADB = preferSDKBin(sdkRoot, "platform-tools", "adb")
		env.AvdManager = preferSDKBin(sdkRoot, "cmdline-tools/latest/bin", "avdmanager")
		env.SdkManager = preferSDKBin(sdkRoot, "cmdline-tools/latest/bin", "sdkmanager")
	}
	return env
}

func preferSDKBin(sdkRoot, subdir, name string) string {
	p := filepath.Join(sdkRoot, subdir, name)
	if st, err := os.Stat(p); err == nil && !st.IsDir() {
		return p
	}
	return name // fall back to PATH resolution
}

// ErrIncompleteSDK signals the Open-Question (b) resolution: a partial SDK
// disables the Android panel at startup rather than failing per operation.
type ErrIncompleteSDK struct {
	Missing []string
}

func (e *ErrIncompleteSDK) Error() string {
	msg := "incomplete Android SDK, missing:"
	for _, m := range e.Missing {
		msg += " " + m
	}
	return msg
}

// CheckComplete verifies the tools a full Android panel needs are resolvable
// and returns ErrIncompleteSDK naming whatever's missing.
func (e Env) CheckComplete() error {
	var missing []string
	for label, bin := range map[string]string{
		"emulator":   e.Emulator,
		"adb":        e.ADB,
		"avdmanager": e.AvdManager,
	} {
		if !binResolvable(bin) {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return &ErrIncompleteSDK{Missing: missing}
	}
	return nil
}

func binResolvable(bin string) bool {
	if filepath.IsAbs(bin) {
		st, err := os.Stat(bin)
		return err == nil && !st.IsDir()
	}
	_, err := exec.LookPath(bin)
	return err == nil
}
