package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/emu-tui/emu/internal/android"
	"github.com/emu-tui/emu/internal/cliutil"
	"github.com/emu-tui/emu/internal/config"
	"github.com/emu-tui/emu/internal/devicecache"
	"github.com/emu-tui/emu/internal/devicemgr"
	"github.com/emu-tui/emu/internal/domain"
	"github.com/emu-tui/emu/internal/iossim"
	"github.com/emu-tui/emu/internal/logging"
	"github.com/emu-tui/emu/internal/toolrunner"
	"github.com/emu-tui/emu/internal/tui"
)

// cli is the kong command surface from §6: a single binary with no required
// arguments that launches the TUI. It has no subcommands; --list (optionally
// narrowed by --platform) prints the device list instead, which is also what
// happens when stdout isn't a TTY.
type cli struct {
	Config   string           `help:"Path to an explicit config file." type:"path"`
	Version  kong.VersionFlag `help:"Print the version and exit."`
	List     bool             `help:"Print device lists as a table and exit, instead of launching the TUI."`
	Platform string           `help:"With --list, restrict to 'android' or 'ios'; default both." enum:",android,ios" default:""`
}

const version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	var c cli
	parser := kong.Must(&c,
		kong.Name("emu"),
		kong.Description("emu: a terminal device orchestrator for Android AVDs and iOS Simulators"),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)
	if _, err := parser.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := loadConfig(c.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}

	logDir, _ := os.UserConfigDir()
	if logDir != "" {
		logDir = filepath.Join(logDir, "emu", "log")
	}
	logger, err := logging.New(logDir)
	if err != nil {
		logger = logging.NewNop()
	}

	runner := toolrunner.New(logger)
	androidMgr, androidErr := newAndroidManager(runner)
	iosMgr := newIOSManager(runner)

	nonInteractive := !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	if c.List || nonInteractive {
		return runList(c.Platform, androidMgr, iosMgr)
	}
	return runTUI(androidMgr, androidErr, iosMgr, cfg, newDeviceCache())
}

// newDeviceCache returns a Store rooted in the user's config directory, or
// nil if that directory isn't available or writable: the TUI simply starts
// with an empty list and waits for the first live refresh in that case.
func newDeviceCache() *devicecache.Store {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return nil
	}
	store, err := devicecache.New(filepath.Join(dir, "emu", "cache"))
	if err != nil {
		return nil
	}
	return store
}

func loadConfig(explicit string) (*config.Config, error) {
	if explicit != "" {
		return config.LoadFromFile(explicit)
	}
	return config.Load()
}

func newAndroidManager(runner *toolrunner.Runner) (devicemgr.Manager, error) {
	env := android.DetectEnv()
	if err := env.CheckComplete(); err != nil {
		return nil, err
	}
	return android.New(env, runner), nil
}

func newIOSManager(runner *toolrunner.Runner) devicemgr.Manager {
	if runtime.GOOS != "darwin" {
		return nil
	}
	return iossim.New(runner)
}

func runList(platform string, androidMgr, iosMgr devicemgr.Manager) int {
	ctx := context.Background()
	exit := 0

	if (platform == "" || platform == "android") && androidMgr != nil {
		devices, _, err := androidMgr.List(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "android list failed:", err)
			exit = 2
		} else if err := cliutil.PrintDevices(os.Stdout, domain.PlatformAndroid, devices); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exit = 2
		}
	}
	if (platform == "" || platform == "ios") && iosMgr != nil {
		devices, _, err := iosMgr.List(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ios list failed:", err)
			exit = 2
		} else if err := cliutil.PrintDevices(os.Stdout, domain.PlatformIOS, devices); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exit = 2
		}
	}
	return exit
}

func runTUI(androidMgr devicemgr.Manager, androidErr error, iosMgr devicemgr.Manager, cfg *config.Config, cache *devicecache.Store) int {
	if androidMgr == nil && iosMgr == nil {
		fmt.Fprintln(os.Stderr, "fatal: no usable backend found")
		if androidErr != nil {
			fmt.Fprintln(os.Stderr, "  android:", androidErr)
		}
		fmt.Fprintln(os.Stderr, "  ios: unavailable (requires macOS)")
		return 1
	}

	model := tui.New(androidMgr, iosMgr, cfg, cache)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tui error:", err)
		return 1
	}
	return 0
}
