package iossim

import (
	"context"
	"os/exec"
)

// execCommand is a thin seam over exec.CommandContext for StreamLogs, which
// needs a long-lived streaming child process rather than toolrunner's
// retry/timeout-bounded invocation model.
func execCommand(ctx context.Context, program string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, program, args...)
}
