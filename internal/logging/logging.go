// Package logging constructs the process-wide zap logger. The EventLoop owns
// the terminal, so nothing in this process may write to stdout/stderr once
// the TUI is running; every package logs through here instead, and the
// Logs panel reads the in-app ring (internal/logstream), not this logger.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvVar is the RUST_LOG-equivalent diagnostic logging control from §6.
const EnvVar = "EMU_LOG"

// New builds a logger writing to dir/emu.log at the level named by the
// EMU_LOG environment variable ("debug", "info", "warn", "error"; default
// "warn"). dir is created if missing.
func New(dir string) (*zap.Logger, error) {
	level := levelFromEnv(os.Getenv(EnvVar))

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var ws zapcore.WriteSyncer
	if dir == "" {
		ws = zapcore.AddSync(os.Stderr)
	} else {
		f, err := os.OpenFile(filepath.Join(dir, "emu.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		ws = zapcore.AddSync(f)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), ws, level)
	return zap.New(core), nil
}

// NewNop returns a logger that discards everything; cmd/emu falls back to it
// when New fails.
func NewNop() *zap.Logger { return zap.NewNop() }

func levelFromEnv(v string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug", "trace":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	case "", "warn", "warning":
		return zapcore.WarnLevel
	default:
		return zapcore.WarnLevel
	}
}
