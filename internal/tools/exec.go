package tools

import (
	"context"
	"os"
	"os/exec"
)

// runCmd executes a command with the given environment and returns combined
// output as string. A nil env inherits the process environment.
func runCmd(ctx context.Context, env []string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if env == nil {
		env = os.Environ()
	}
	// Avoid opening pager or interactive prompts
	cmd.Env = append(append([]string(nil), env...), "NO_COLOR=1")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", ctx.Err()
	}
	return string(out), err
}
