package android

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/emu-tui/emu/internal/apperror"
	"github.com/emu-tui/emu/internal/devicemgr"
	"github.com/emu-tui/emu/internal/domain"
	"github.com/emu-tui/emu/internal/toolrunner"
)

// Manager implements devicemgr.Manager for Android AVDs and attached
// physical devices, driving avdmanager/emulator/adb/sdkmanager through a
// toolrunner.Runner (§4.1, §9).
type Manager struct {
	Env    Env
	Runner *toolrunner.Runner
}

// New returns a Manager bound to env, running tools through runner.
func New(env Env, runner *toolrunner.Runner) *Manager {
	return &Manager{Env: env, Runner: runner}
}

func (m *Manager) Platform() domain.Platform { return domain.PlatformAndroid }

// List runs avdmanager + adb devices + getprop and merges the three
// sources per §4.2: AVDs from avdmanager, enriched by config.ini, their
// running status and physical devices cross-referenced from adb.
func (m *Manager) List(ctx context.Context) ([]domain.Record, []string, error) {
	if err := m.Env.CheckComplete(); err != nil {
		return nil, nil, err
	}

	avdRes, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.AvdManager,
		Args:    []string{"list", "avd"},
		Timeout: toolrunner.TimeoutList,
		Retry:   toolrunner.DefaultRetryPolicy,
	})
	if err != nil {
		return nil, nil, err
	}
	avds, warnings := ParseAVDManagerList(string(avdRes.Stdout))

	adbRes, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.ADB,
		Args:    []string{"devices"},
		Timeout: toolrunner.TimeoutList,
		Retry:   toolrunner.DefaultRetryPolicy,
	})
	if err != nil {
		return nil, nil, err
	}
	adbEntries := ParseADBDevices(string(adbRes.Stdout))

	runningAVDNames := make(map[string]bool, len(adbEntries))
	var physical []domain.Record
	for _, e := range adbEntries {
		if !e.running {
			continue
		}
		if !IsEmulatorSerial(e.serial) {
			rec, perr := m.probePhysicalDevice(ctx, e.serial)
			if perr != nil {
				warnings = append(warnings, "probing "+e.serial+": "+perr.Error())
				continue
			}
			physical = append(physical, rec)
			continue
		}
		name, perr := m.avdNameForSerial(ctx, e.serial)
		if perr != nil {
			warnings = append(warnings, "resolving "+e.serial+": "+perr.Error())
			continue
		}
		if name != "" {
			runningAVDNames[name] = true
		}
	}

	records := make([]domain.Record, 0, len(avds)+len(physical))
	for _, a := range avds {
		cfg, _ := ReadConfigIni(m.Env.AVDHome, a.name)
		rec := a.toRecord(cfg)
		if runningAVDNames[a.name] {
			rec.Status = domain.Running()
		}
		records = append(records, rec)
	}
	records = append(records, physical...)

	return records, warnings, nil
}

// avdNameForSerial resolves an emulator-NNNN serial to its AVD name via
// `adb -s <serial> emu avd name`, falling back to getprop
// ro.boot.qemu.avd_name per §4.2's cross-reference rule.
func (m *Manager) avdNameForSerial(ctx context.Context, serial string) (string, error) {
	res, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.ADB,
		Args:    []string{"-s", serial, "emu", "avd", "name"},
		Timeout: toolrunner.TimeoutProbe,
		Retry:   toolrunner.NoRetry,
	})
	if err == nil {
		lines := strings.Split(strings.TrimSpace(string(res.Stdout)), "\n")
		if len(lines) > 0 && lines[0] != "" && !strings.Contains(lines[0], "KO") {
			return strings.TrimSpace(lines[0]), nil
		}
	}
	return m.getprop(ctx, serial, "ro.boot.qemu.avd_name")
}

func (m *Manager) probePhysicalDevice(ctx context.Context, serial string) (domain.Record, error) {
	model, err := m.getprop(ctx, serial, "ro.product.model")
	if err != nil {
		return domain.Record{}, err
	}
	manufacturer, _ := m.getprop(ctx, serial, "ro.product.manufacturer")
	sdk, _ := m.getprop(ctx, serial, "ro.build.version.sdk")
	return PhysicalDeviceRecord(serial, model, manufacturer, sdk), nil
}

func (m *Manager) getprop(ctx context.Context, serial, prop string) (string, error) {
	res, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.ADB,
		Args:    []string{"-s", serial, "shell", "getprop", prop},
		Timeout: toolrunner.TimeoutProbe,
		Retry:   toolrunner.NoRetry,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

// Start boots an AVD per §4.3's "emulator -avd <name> ..." flow.
// `emulator` does not return until the VM shuts down, so Start spawns it in
// the background, not bound to ctx or to a timeout, and reports launch-time
// (spawn) failures only; the process outlives the call.
func (m *Manager) Start(ctx context.Context, identity string) error {
	cmd := execCommand(context.Background(), m.Env.Emulator, "-avd", identity, "-no-snapshot-load")
	if err := cmd.Start(); err != nil {
		return apperror.Wrap(apperror.ToolNotFound, err, "spawn failed")
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// Stop powers off a running AVD via `adb -s emulator-N emu kill`.
func (m *Manager) Stop(ctx context.Context, identity string) error {
	serial, err := m.serialForAVD(ctx, identity)
	if err != nil {
		return err
	}
	_, err = m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.ADB,
		Args:    []string{"-s", serial, "emu", "kill"},
		Timeout: toolrunner.TimeoutStop,
		Retry:   toolrunner.DefaultRetryPolicy,
	})
	return err
}

func (m *Manager) serialForAVD(ctx context.Context, identity string) (string, error) {
	res, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.ADB,
		Args:    []string{"devices"},
		Timeout: toolrunner.TimeoutProbe,
		Retry:   toolrunner.DefaultRetryPolicy,
	})
	if err != nil {
		return "", err
	}
	for _, e := range ParseADBDevices(string(res.Stdout)) {
		if !e.running || !IsEmulatorSerial(e.serial) {
			continue
		}
		name, _ := m.avdNameForSerial(ctx, e.serial)
		if name == identity {
			return e.serial, nil
		}
	}
	return "", apperror.New(apperror.StateConflict, "no running emulator serial for "+identity)
}

// Create runs `avdmanager create avd`, reporting coarse phase progress since
// avdmanager itself gives no machine-readable progress stream (§4.3).
func (m *Manager) Create(ctx context.Context, spec domain.CreateSpec, progress devicemgr.ProgressFunc) (string, error) {
	if progress != nil {
		progress(domain.Progress{Kind: domain.OpCreate, Phase: domain.PhaseValidating, Percent: 10})
	}

	pkg := fmt.Sprintf("system-images;android-%d;google_apis;x86_64", spec.APILevel)
	args := []string{"create", "avd", "--force", "--name", spec.Name, "--package", pkg}
	if spec.Type != "" {
		args = append(args, "--device", spec.Type)
	}

	if progress != nil {
		progress(domain.Progress{Kind: domain.OpCreate, Phase: domain.PhaseInstalling, Percent: 50})
	}

	_, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.AvdManager,
		Args:    args,
		Stdin:   []byte("no\n"), // decline the "custom hardware profile" prompt
		Timeout: toolrunner.TimeoutCreate,
		Retry:   toolrunner.NoRetry,
	})
	if err != nil {
		return "", err
	}

	if spec.RAMMB > 0 || spec.StorageMB > 0 {
		if err := m.applyHardwareOverrides(spec); err != nil {
			return "", err
		}
	}

	if progress != nil {
		progress(domain.Progress{Kind: domain.OpCreate, Phase: domain.PhaseInstalling, Percent: 100})
	}
	return spec.Name, nil
}

// applyHardwareOverrides rewrites hw.ramSize/disk.dataPartition.size in the
// newly created AVD's config.ini, since avdmanager create has no flags for
// either (§4.3 create dialog fields).
func (m *Manager) applyHardwareOverrides(spec domain.CreateSpec) error {
	path := configIniPath(m.Env.AVDHome, spec.Name)
	lines, err := readLines(path)
	if err != nil {
		return apperror.Wrap(apperror.Fatal, err, "reading config.ini")
	}

	set := map[string]string{}
	if spec.RAMMB > 0 {
		set["hw.ramSize"] = fmt.Sprintf("%d", spec.RAMMB)
	}
	if spec.StorageMB > 0 {
		set["disk.dataPartition.size"] = fmt.Sprintf("%dM", spec.StorageMB)
	}
	lines = upsertIniFields(lines, set)

	if err := writeLines(path, lines); err != nil {
		return apperror.Wrap(apperror.Fatal, err, "writing config.ini")
	}
	return nil
}

// Delete removes an AVD's files via `avdmanager delete avd`.
func (m *Manager) Delete(ctx context.Context, identity string) error {
	_, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.AvdManager,
		Args:    []string{"delete", "avd", "--name", identity},
		Timeout: toolrunner.TimeoutStop,
		Retry:   toolrunner.NoRetry,
	})
	return err
}

// Wipe resets user data via `emulator -avd <name> -wipe-data`, which exits
// once the wipe completes rather than staying resident.
func (m *Manager) Wipe(ctx context.Context, identity string) error {
	_, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.Emulator,
		Args:    []string{"-avd", identity, "-wipe-data", "-no-window"},
		Timeout: toolrunner.TimeoutStart,
		Retry:   toolrunner.NoRetry,
	})
	return err
}

// InstallSystemImage runs `sdkmanager --install <pkg>`, reporting coarse
// phase progress since sdkmanager's own progress bar is not machine-parseable.
func (m *Manager) InstallSystemImage(ctx context.Context, pkg string, progress devicemgr.ProgressFunc) error {
	if progress != nil {
		progress(domain.Progress{Kind: domain.OpInstallSystemImage, Phase: domain.PhaseDownloading, Percent: 30})
	}
	_, err := m.Runner.Run(ctx, toolrunner.Input{
		Program: m.Env.SdkManager,
		Args:    []string{"--install", pkg},
		Stdin:   []byte("y\n"),
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

// CaptureCommand resolves identity's running serial and returns the same
// `adb -s <serial> logcat` invocation StreamLogs uses, for internal/capture
// to run inside a detached tmux session.
func (m *Manager) CaptureCommand(ctx context.Context, identity string) (string, []string, error) {
	serial, err := m.serialForAVD(ctx, identity)
	if err != nil {
		return "", nil, err
	}
	return m.Env.ADB, []string{"-s", serial, "logcat"}, nil
}

// StreamLogs tails `adb -s <serial> logcat` for identity's running emulator.
// Lines are pushed onto the returned channel until ctx is cancelled or the
// process exits; internal/logstream owns classification and buffering.
func (m *Manager) StreamLogs(ctx context.Context, identity string) (<-chan string, error) {
	serial, err := m.serialForAVD(ctx, identity)
	if err != nil {
		return nil, err
	}

	cmd := execCommand(ctx, m.Env.ADB, "-s", serial, "logcat")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, apperror.Wrap(apperror.Fatal, err, "opening logcat pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, apperror.Wrap(apperror.ToolNotFound, err, "starting adb logcat")
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
