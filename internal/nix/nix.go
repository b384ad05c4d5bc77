// Package nix adapts the external package evaluator. snekctl never
// resolves, fetches, or builds anything itself: every question about what a
// tool name means on disk is delegated to the nix CLI and its answer is
// passed through unchanged.
package nix

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"snekctl/internal/descriptor"
	"snekctl/internal/tools"
)

// ErrNotInstalled reports that the evaluator binary cannot be located.
var ErrNotInstalled = errors.New("nix not found in PATH")

// defaultProfileBin is where a standard multi-user install places nix even
// when the user's PATH does not include it yet.
const defaultProfileBin = "/nix/var/nix/profiles/default/bin/nix"

// Runner executes one evaluator invocation and returns its combined output.
// The exec-backed implementation is the only one used outside tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	// Avoid opening pager or interactive prompts
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return string(out), ctx.Err()
	}
	return string(out), err
}

// Nix is a handle on one located evaluator binary.
type Nix struct {
	Bin string
	// StoreDir is where the evaluator materializes artifacts. Empty means
	// the conventional /nix/store; relocated stores set NIX_STORE_DIR.
	StoreDir string
	runner   Runner
}

// Locate finds the evaluator binary on PATH, falling back to the standard
// profile location.
func Locate() (*Nix, error) {
	storeDir := os.Getenv("NIX_STORE_DIR")
	if p, err := exec.LookPath("nix"); err == nil {
		return &Nix{Bin: p, StoreDir: storeDir, runner: execRunner{}}, nil
	}
	if st, err := os.Stat(defaultProfileBin); err == nil && !st.IsDir() {
		return &Nix{Bin: defaultProfileBin, StoreDir: storeDir, runner: execRunner{}}, nil
	}
	return nil, ErrNotInstalled
}

// NewWithRunner builds a handle around a fake runner for tests.
func NewWithRunner(bin string, r Runner) *Nix {
	return &Nix{Bin: bin, runner: r}
}

func (n *Nix) storeDir() string {
	if n.StoreDir != "" {
		return n.StoreDir
	}
	return "/nix/store"
}

// Version asks the evaluator for its own version string.
func (n *Nix) Version(ctx context.Context) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := n.runner.Run(cctx, n.Bin, "--version")
	if err != nil {
		return "", fmt.Errorf("nix --version: %w", err)
	}
	if v := tools.ParseVersion(out); v != "" {
		return v, nil
	}
	return strings.TrimSpace(out), nil
}

// Resolved is the evaluator's answer for one attribute.
type Resolved struct {
	Attr      string
	StorePath string
	// Version is best effort, parsed from the store path name.
	Version string
}

// Resolve evaluates one attribute under the pin to exactly one store path.
// Anything other than one path is an error: zero means the attribute does
// not evaluate, more than one means the reference is ambiguous and the
// descriptor must be made more specific.
func (n *Nix) Resolve(ctx context.Context, pin descriptor.Pin, attr string) (Resolved, error) {
	installable := pin.Installable(attr)
	out, err := n.runner.Run(ctx, n.Bin, "build", "--no-link", "--print-out-paths",
		"--extra-experimental-features", "nix-command flakes", installable)
	if err != nil {
		return Resolved{}, fmt.Errorf("resolve %s: %w\n%s", installable, err, strings.TrimSpace(out))
	}

	// Warnings share the combined output with the answer; only store paths
	// count.
	var paths []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, n.storeDir()+"/") {
			paths = append(paths, line)
		}
	}
	switch len(paths) {
	case 1:
	case 0:
		return Resolved{}, fmt.Errorf("resolve %s: evaluator returned no store path\n%s", installable, strings.TrimSpace(out))
	default:
		return Resolved{}, fmt.Errorf("resolve %s: ambiguous, %d store paths: %s", installable, len(paths), strings.Join(paths, ", "))
	}

	_, ver := ParseStorePath(paths[0])
	return Resolved{Attr: attr, StorePath: paths[0], Version: ver}, nil
}

// ParseStorePath splits /nix/store/<hash>-<name>-<version> into the package
// name and version. The version part is empty when the trailing component
// does not look like one.
func ParseStorePath(p string) (name, version string) {
	base := p
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		base = p[i+1:]
	}
	// Drop the 32-char hash prefix.
	if i := strings.IndexByte(base, '-'); i >= 0 {
		base = base[i+1:]
	}
	// Like parseDrvName: the version starts at the first dash followed by
	// a digit.
	for i := 0; i < len(base)-1; i++ {
		if base[i] == '-' && base[i+1] >= '0' && base[i+1] <= '9' {
			return base[:i], base[i+1:]
		}
	}
	return base, ""
}
