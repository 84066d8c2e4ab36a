// Package cliutil renders device lists as a plain table for non-interactive
// invocations (stdout isn't a TTY), adapted from the teacher's
// internal/cli.ListCmd text table so the same tablewriter-based rendering
// backs both the xcw-style script output and this tool's fallback mode.
package cliutil

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/emu-tui/emu/internal/domain"
)

// PrintDevices renders devices as a borderless table: NAME, STATE, DETAIL,
// IDENTITY. DETAIL is the API level/version string for the device's platform.
func PrintDevices(w io.Writer, platform domain.Platform, devices []domain.Record) error {
	if len(devices) == 0 {
		fmt.Fprintf(w, "no %s devices found\n", platform)
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"NAME", "STATE", "DETAIL", "IDENTITY"}),
		tablewriter.WithBorders(tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off}),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
	)

	running := 0
	for _, d := range devices {
		state := string(d.Status.Kind)
		if d.Status.Kind == domain.StatusRunning {
			state = "● " + state
			running++
		} else {
			state = "○ " + state
		}

		name := d.DisplayName
		if name == "" {
			name = d.Identity
		}

		var detail string
		if d.Platform == domain.PlatformAndroid {
			detail = fmt.Sprintf("API %d (%s)", d.Android.APILevel, d.Android.AndroidVersion)
		} else {
			detail = "iOS " + d.IOS.IOSVersion
		}

		table.Append([]string{truncate(name, 35), state, detail, d.Identity})
	}

	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %d device(s), %d running\n", len(devices), running)
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
