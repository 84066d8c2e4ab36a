package tui

import (
	"time"

	"github.com/emu-tui/emu/internal/domain"
	"github.com/emu-tui/emu/internal/logstream"
	"github.com/emu-tui/emu/internal/refresh"
)

// refreshMsg wraps a refresh.Result delivered by the Scheduler.
type refreshMsg refresh.Result

// opResultMsg wraps the terminal outcome of a dispatched background op.
type opResultMsg domain.OpResult

// logLineMsg wraps one classified log line for the focused device's stream.
type logLineMsg logstream.Line

// tickMsg drives notification pruning.
type tickMsg time.Time

const tickInterval = 100 * time.Millisecond
