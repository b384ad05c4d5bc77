package system

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

type GitInfo struct {
	InRepo   bool
	Branch   string
	ShortSHA string
	Dirty    bool
}

// gitOut runs a single git command against dir with a short timeout so a
// slow or wedged git never stalls the caller.
func gitOut(ctx context.Context, dir string, args ...string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, 800*time.Millisecond)
	defer cancel()
	full := append([]string{"-C", dir}, args...)
	out, err := exec.CommandContext(cctx, "git", full...).CombinedOutput()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetGitInfo inspects the Git repository at dir and returns basic status.
func GetGitInfo(ctx context.Context, dir string) (GitInfo, error) {
	gi := GitInfo{}
	if _, err := exec.LookPath("git"); err != nil {
		return gi, nil
	}

	inside, err := gitOut(ctx, dir, "rev-parse", "--is-inside-work-tree")
	if err != nil || inside != "true" {
		return gi, nil
	}
	gi.InRepo = true

	if branch, err := gitOut(ctx, dir, "symbolic-ref", "--quiet", "--short", "HEAD"); err == nil {
		gi.Branch = branch
	} else if branch, err := gitOut(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		// Detached head fallback
		gi.Branch = branch
	}

	if sha, err := gitOut(ctx, dir, "rev-parse", "--short", "HEAD"); err == nil {
		gi.ShortSHA = sha
	}

	if status, err := gitOut(ctx, dir, "status", "--porcelain"); err == nil {
		gi.Dirty = status != ""
	}

	return gi, nil
}

// GitRoot returns the repository top-level directory for dir, if in a Git repo.
func GitRoot(ctx context.Context, dir string) (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", err
	}
	out, err := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--show-toplevel").CombinedOutput()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
