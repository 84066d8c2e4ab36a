package android

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

func configIniPath(avdHome, name string) string {
	return filepath.Join(avdHome, name+".avd", "config.ini")
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := w.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// upsertIniFields replaces the value of each key present in set, appending
// keys that weren't already in lines.
func upsertIniFields(lines []string, set map[string]string) []string {
	remaining := make(map[string]string, len(set))
	for k, v := range set {
		remaining[k] = v
	}

	out := make([]string, 0, len(lines)+len(set))
	for _, line := range lines {
		key, _, ok := strings.Cut(line, "=")
		if ok {
			key = strings.TrimSpace(key)
			if v, match := remaining[key]; match {
				out = append(out, key+"="+v)
				delete(remaining, key)
				continue
			}
		}
		out = append(out, line)
	}
	for _, k := range sortedKeys(remaining) {
		out = append(out, k+"="+remaining[k])
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// execCommand is a thin seam over exec.CommandContext so StreamLogs can be
// exercised without toolrunner's retry/timeout semantics, which don't fit a
// long-lived streaming child process.
func execCommand(ctx context.Context, program string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, program, args...)
}
