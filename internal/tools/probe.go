package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Probe describes how to detect one tool: candidate binary names and the
// version argument variants to try, in order.
type Probe struct {
	Name        string
	Binaries    []string
	VersionArgs [][]string
}

// Result is the outcome of running a probe.
type Result struct {
	Found   bool
	Bin     string // absolute path of the binary that answered
	Version string
	Source  string // binary plus args that produced the version
	Err     string
}

// Run locates one of the probe's binaries and asks it for its version.
// When pathList is non-nil, lookup is confined to those directories and the
// probe runs with env instead of the process environment, so callers can
// test a shell environment without entering it.
func Run(ctx context.Context, p Probe, pathList []string, env []string) Result {
	for _, bin := range p.Binaries {
		path, err := LookPathIn(bin, pathList)
		if err != nil {
			continue
		}
		for _, args := range p.VersionArgs {
			cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			out, err := runCmd(cctx, env, path, args...)
			cancel()
			if err == nil && strings.TrimSpace(out) != "" {
				ver := ParseVersion(out)
				if ver == "" {
					ver = strings.Split(strings.TrimSpace(out), "\n")[0]
				}
				return Result{Found: true, Bin: path, Version: ver, Source: fmt.Sprintf("%s %s", bin, strings.Join(args, " "))}
			}
		}
		// Found binary but no version output; still consider it present.
		return Result{Found: true, Bin: path, Source: bin}
	}
	return Result{Err: fmt.Sprintf("no binary found (tried %s)", strings.Join(p.Binaries, ", "))}
}

// LookPathIn searches dirs for an executable named bin. A nil dirs falls
// back to the process PATH.
func LookPathIn(bin string, dirs []string) (string, error) {
	if dirs == nil {
		return exec.LookPath(bin)
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, bin)
		if isExecutable(p) {
			return p, nil
		}
		if runtime.GOOS == "windows" && isExecutable(p+".exe") {
			return p + ".exe", nil
		}
	}
	return "", fmt.Errorf("%s: %w", bin, exec.ErrNotFound)
}

func isExecutable(p string) bool {
	st, err := os.Stat(p)
	if err != nil || st.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return st.Mode()&0o111 != 0
}
