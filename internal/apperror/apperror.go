// Package apperror implements the error taxonomy of spec §7: every error a
// background task can produce is one of a small set of typed kinds so the
// EventLoop can decide its disposition (surface, roll back, disable a panel,
// log-and-continue) without string sniffing.
package apperror

import "fmt"

// Kind is one row of the §7 taxonomy table.
type Kind string

const (
	ToolNotFound   Kind = "tool_not_found"
	ToolTimeout    Kind = "tool_timeout"
	ToolExit       Kind = "tool_exit"
	Validation     Kind = "validation"
	Parse          Kind = "parse"
	StateConflict  Kind = "state_conflict"
	CacheIO        Kind = "cache_io"
	Fatal          Kind = "fatal"
)

// Error wraps an underlying cause with its taxonomy Kind and an optional
// field name (used by Validation errors to point at the offending input).
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

func Field(kind Kind, field, msg string) *Error {
	return &Error{Kind: kind, Field: field, Msg: msg}
}

// Is lets errors.Is(err, &apperror.Error{Kind: apperror.ToolTimeout}) match by
// comparing Kind; a bare Kind is not an error and cannot be the target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind of err if it (or something it wraps) is an *Error.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return "", false
}

// Truncate caps a stderr blob at n characters for display, matching the
// "first 150 chars" rule for ToolExit notifications in §7.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// StderrDisplayLimit is the ToolExit display cap from §7.
const StderrDisplayLimit = 150

// BenignStderrPatterns recognizes StateConflict situations that are actually
// success (§7 StateConflict row; §8 scenario 4).
var BenignStderrPatterns = []string{
	"already booted",
	"already shutdown",
	"current state: booted",
}
