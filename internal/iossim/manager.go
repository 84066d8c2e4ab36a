package iossim

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/emu-tui/emu/internal/apperror"
	"github.com/emu-tui/emu/internal/devicemgr"
	"github.com/emu-tui/emu/internal/domain"
	"github.com/emu-tui/emu/internal/toolrunner"
)

// Manager implements devicemgr.Manager for iOS Simulator devices via
// `xcrun simctl` (§4.1, §9). There is no physical-device analogue on this
// platform; every Record IsPhysical == false.
type Manager struct {
	XcrunPath string
	Runner    *toolrunner.Runner
}

// New returns a Manager that shells out through xcrun.
func New(runner *toolrunner.Runner) *Manager {
	return &Manager{XcrunPath: "xcrun", Runner: runner}
}

func (m *Manager) Platform() domain.Platform { return domain.PlatformIOS }

func (m *Manager) List(ctx context.Context) ([]domain.Record, []string, error) {
	res, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "list", "devices", "--json"},
		Timeout: toolrunner.TimeoutList,
		Retry:   toolrunner.DefaultRetryPolicy,
	})
	if err != nil {
		return nil, nil, err
	}

	records, warnings := ParseSimctlDeviceList(res.Stdout)
	if records == nil && len(warnings) == 0 {
		warnings = append(warnings, "no available simulator devices reported")
	}
	return records, warnings, nil
}

// Start boots a simulator via `simctl boot`, treating "already booted" as
// success per the StateConflict-as-success rule (§7 scenario: benign stderr).
func (m *Manager) Start(ctx context.Context, identity string) error {
	_, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "boot", identity},
		Timeout: toolrunner.TimeoutStart,
		Retry:   toolrunner.NoRetry,
	})
	if err != nil && isBenignStateConflict(err) {
		return nil
	}
	return err
}

func (m *Manager) Stop(ctx context.Context, identity string) error {
	_, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "shutdown", identity},
		Timeout: toolrunner.TimeoutStop,
		Retry:   toolrunner.NoRetry,
	})
	if err != nil && isBenignStateConflict(err) {
		return nil
	}
	return err
}

// isBenignStateConflict matches apperror.BenignStderrPatterns against a
// ToolExit error's message.
func isBenignStateConflict(err error) bool {
	kind, ok := apperror.KindOf(err)
	if !ok || kind != apperror.ToolExit {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range apperror.BenignStderrPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Create runs `simctl create`, reporting coarse phase progress since simctl
// create is a single blocking call with no progress stream (§4.3).
func (m *Manager) Create(ctx context.Context, spec domain.CreateSpec, progress devicemgr.ProgressFunc) (string, error) {
	if progress != nil {
		progress(domain.Progress{Kind: domain.OpCreate, Phase: domain.PhaseValidating, Percent: 10})
	}

	if err := m.validateDeviceType(ctx, spec.Type); err != nil {
		return "", err
	}

	runtime := spec.Runtime
	if runtime == "" {
		rt, err := m.latestAvailableRuntime(ctx)
		if err != nil {
			return "", err
		}
		runtime = rt
	}

	if progress != nil {
		progress(domain.Progress{Kind: domain.OpCreate, Phase: domain.PhaseInstalling, Percent: 60})
	}

	res, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "create", spec.Name, spec.Type, runtime},
		Timeout: toolrunner.TimeoutCreate,
		Retry:   toolrunner.NoRetry,
	})
	if err != nil {
		return "", err
	}

	udid := strings.TrimSpace(string(res.Stdout))
	if progress != nil {
		progress(domain.Progress{Kind: domain.OpCreate, Phase: domain.PhaseInstalling, Percent: 100})
	}
	return udid, nil
}

// validateDeviceType confirms identifier names a device type simctl knows
// about, since `simctl create` otherwise fails with an opaque exit code.
func (m *Manager) validateDeviceType(ctx context.Context, identifier string) error {
	res, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "list", "devicetypes", "--json"},
		Timeout: toolrunner.TimeoutList,
		Retry:   toolrunner.DefaultRetryPolicy,
	})
	if err != nil {
		return err
	}
	for _, dt := range ParseSimctlDeviceTypes(res.Stdout) {
		if dt.Identifier == identifier {
			return nil
		}
	}
	return apperror.Field(apperror.Validation, "type", "unknown device type: "+identifier)
}

func (m *Manager) latestAvailableRuntime(ctx context.Context) (string, error) {
	res, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "list", "runtimes", "--json"},
		Timeout: toolrunner.TimeoutList,
		Retry:   toolrunner.DefaultRetryPolicy,
	})
	if err != nil {
		return "", err
	}
	runtimes := ParseSimctlRuntimes(res.Stdout)
	var best RuntimeEntry
	for _, r := range runtimes {
		if !r.IsAvailable {
			continue
		}
		if !strings.Contains(r.Identifier, ".iOS-") {
			continue
		}
		if r.Version > best.Version {
			best = r
		}
	}
	if best.Identifier == "" {
		return "", apperror.New(apperror.StateConflict, "no available iOS runtime")
	}
	return best.Identifier, nil
}

func (m *Manager) Delete(ctx context.Context, identity string) error {
	_, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "delete", identity},
		Timeout: toolrunner.TimeoutStop,
		Retry:   toolrunner.NoRetry,
	})
	return err
}

func (m *Manager) Wipe(ctx context.Context, identity string) error {
	_, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "erase", identity},
		Timeout: toolrunner.TimeoutStop,
		Retry:   toolrunner.NoRetry,
	})
	return err
}

// InstallSystemImage installs an additional simulator runtime via
// `xcrun simctl runtime add <pkg>`, reporting PhaseDownloading before the
// call and PhaseInstalling once it returns.
func (m *Manager) InstallSystemImage(ctx context.Context, pkg string, progress devicemgr.ProgressFunc) error {
	if progress != nil {
		progress(domain.Progress{Kind: domain.OpInstallSystemImage, Phase: domain.PhaseDownloading, Percent: 20})
	}
	_, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "runtime", "add", pkg},
		Timeout: toolrunner.TimeoutCreate,
		Retry:   toolrunner.NoRetry,
	})
	if err != nil {
		return err
	}
	if progress != nil {
		progress(domain.Progress{Kind: domain.OpInstallSystemImage, Phase: domain.PhaseInstalling, Percent: 100})
	}
	return nil
}

// CaptureCommand returns the same `simctl spawn <udid> log stream`
// invocation StreamLogs uses, for internal/capture to run inside a detached
// tmux session.
func (m *Manager) CaptureCommand(ctx context.Context, identity string) (string, []string, error) {
	return m.XcrunPath, []string{"simctl", "spawn", identity, "log", "stream", "--level", "debug"}, nil
}

// StreamLogs tails `simctl spawn <udid> log stream`, the simulator analogue
// of device logcat.
func (m *Manager) StreamLogs(ctx context.Context, identity string) (<-chan string, error) {
	cmd := execCommand(ctx, m.XcrunPath, "simctl", "spawn", identity, "log", "stream", "--level", "debug")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, apperror.Wrap(apperror.Fatal, err, "opening log stream pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, apperror.Wrap(apperror.ToolNotFound, err, "starting simctl log stream")
	}

	out := make(chan string, 256)
	go func() {
		defer close(out)
		defer cmd.Wait()
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// AppInfo returns version/build for an installed app by reading its
// Info.plist through `simctl get_app_container`, adapted from the teacher's
// simulator.Manager.GetAppInfo.
func (m *Manager) AppInfo(ctx context.Context, udid, bundleID string) (AppInfo, error) {
	res, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.XcrunPath,
		Args:    []string{"simctl", "get_app_container", udid, bundleID, "--app"},
		Timeout: toolrunner.TimeoutProbe,
		Retry:   toolrunner.NoRetry,
	})
	if err != nil {
		return AppInfo{}, err
	}

	containerPath := strings.TrimSpace(string(res.Stdout))
	raw, err := os.ReadFile(filepath.Join(containerPath, "Info.plist"))
	if err != nil {
		return AppInfo{}, apperror.Wrap(apperror.Fatal, err, "reading Info.plist")
	}

	var data map[string]interface{}
	if _, err := plist.Unmarshal(raw, &data); err != nil {
		return AppInfo{}, apperror.Wrap(apperror.Parse, err, "parsing Info.plist")
	}

	var info AppInfo
	if v, ok := data["CFBundleShortVersionString"].(string); ok {
		info.Version = v
	}
	info.Build = parseBuildNumber(data["CFBundleVersion"])
	return info, nil
}
