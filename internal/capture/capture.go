// Package capture runs a device's log stream inside a detached tmux session
// so it keeps recording after the TUI exits, adapted from the teacher's
// tmux.Manager (SPEC_FULL.md §A, the gotmux row: supplementing the distilled
// spec, which drops background capture, with the original tool's
// session-persistence behavior).
package capture

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	"github.com/GianlucaP106/gotmux/gotmux"
)

var (
	ErrTmuxNotInstalled   = fmt.Errorf("tmux is not installed")
	ErrNoSessionAvailable = fmt.Errorf("no tmux session available")
)

// IsAvailable reports whether tmux is on PATH; capture degrades to a no-op
// when it isn't (capture is optional enrichment, never a hard requirement).
func IsAvailable() bool {
	_, err := exec.LookPath("tmux")
	return err == nil
}

// Session manages one detached tmux session capturing a single device's log
// stream command.
type Session struct {
	tmux    *gotmux.Tmux
	session *gotmux.Session
	name    string

	mu sync.Mutex
}

// SessionName derives a tmux-safe session name from a device identity.
func SessionName(deviceIdentity string) string {
	name := strings.ToLower(deviceIdentity)
	name = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	return "emu-capture-" + name
}

// Start finds or creates a detached session named after identity and runs
// program/args as its first window's command. If a session with that name
// already exists it is reused as-is, so a capture survives app restarts.
func Start(identity string, program string, args []string) (*Session, error) {
	if !IsAvailable() {
		return nil, ErrTmuxNotInstalled
	}

	tm, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("initializing tmux: %w", err)
	}

	name := SessionName(identity)
	sessions, err := tm.ListSessions()
	if err == nil {
		for _, s := range sessions {
			if s.Name == name {
				return &Session{tmux: tm, session: s, name: name}, nil
			}
		}
	}

	cmdLine := shellJoin(append([]string{program}, args...))
	session, err := tm.NewSession(&gotmux.SessionOptions{
		Name:          name,
		WindowOptions: &gotmux.WindowOptions{StartDirectory: "", ShellCommand: cmdLine},
	})
	if err != nil {
		return nil, fmt.Errorf("creating capture session: %w", err)
	}
	return &Session{tmux: tm, session: session, name: name}, nil
}

func shellJoin(parts []string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}

// AttachCommand returns the shell command a user can run to watch the
// capture live.
func (s *Session) AttachCommand() string {
	return fmt.Sprintf("tmux attach -t %s", s.name)
}

// Kill destroys the capture session.
func (s *Session) Kill() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ErrNoSessionAvailable
	}
	return s.session.Kill()
}

// IsAlive reports whether the session is still running.
func (s *Session) IsAlive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := s.tmux.ListSessions()
	if err != nil {
		return false
	}
	for _, sess := range sessions {
		if sess.Name == s.name {
			return true
		}
	}
	return false
}
