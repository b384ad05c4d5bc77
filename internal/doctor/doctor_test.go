package doctor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"snekctl/internal/descriptor"
	"snekctl/internal/lockfile"
	"snekctl/internal/nix"
	"snekctl/internal/testutil"
)

// fakeRunner serves canned evaluator answers keyed by the last argument.
type fakeRunner struct {
	out map[string]string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	return f.out[args[len(args)-1]], nil
}

// fixture builds a fake project: descriptor, two resolvable store paths
// with probe-able binaries, and a Go-shaped stdlib tree.
type fixture struct {
	dpath     string
	d         descriptor.Descriptor
	goStore   string
	goplsPath string
	ev        *nix.Nix
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures")
	}
	testutil.IsolateConfig(t)

	root := t.TempDir()
	goStore := filepath.Join(root, "store", "aaaa-go-1.22.3")
	goplsStore := filepath.Join(root, "store", "bbbb-gopls-0.15.3")

	writeExec(t, filepath.Join(goStore, "bin", "go"), "go version go1.22.3 linux/amd64")
	writeExec(t, filepath.Join(goStore, "bin", "gofmt"), "gofmt does not answer -h")
	writeExec(t, filepath.Join(goplsStore, "bin", "gopls"), "golang.org/x/tools/gopls v0.15.3")

	goroot := filepath.Join(goStore, "share", "go")
	for _, f := range []string{"src/fmt/print.go", "src/runtime/proc.go"} {
		p := filepath.Join(goroot, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("package x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(goroot, "VERSION"), []byte("go1.22.3\ntime 2024-05-01T00:00:00Z\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	proj := filepath.Join(root, "proj")
	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs", Commit: "abc123"},
		Tools:   []descriptor.Tool{{Name: "go"}, {Name: "gopls"}},
		Env:     []descriptor.Binding{{Name: "GOROOT", Tool: "go"}},
	}
	dpath := filepath.Join(proj, descriptor.DefaultName)
	if err := descriptor.Save(dpath, d); err != nil {
		t.Fatal(err)
	}

	ev := nix.NewWithRunner("nix", &fakeRunner{out: map[string]string{
		"--version":                         "nix (Nix) 2.18.2\n",
		"github:NixOS/nixpkgs/abc123#go":    goStore + "\n",
		"github:NixOS/nixpkgs/abc123#gopls": goplsStore + "\n",
	}})
	ev.StoreDir = filepath.Join(root, "store")

	return &fixture{dpath: dpath, d: d, goStore: goStore, goplsPath: goplsStore, ev: ev}
}

func (f *fixture) writeLock(t *testing.T) {
	t.Helper()
	lock := lockfile.Lock{
		Version:     lockfile.CurrentVersion,
		Fingerprint: f.d.Fingerprint(),
		ResolvedAt:  time.Now().UTC(),
		Tools: map[string]lockfile.Entry{
			"go":    {Attr: "go", StorePath: f.goStore, ToolVersion: "1.22.3"},
			"gopls": {Attr: "gopls", StorePath: f.goplsPath, ToolVersion: "0.15.3"},
		},
	}
	if err := lockfile.Save(lockfile.Path(f.dpath), lock); err != nil {
		t.Fatal(err)
	}
}

func writeExec(t *testing.T, path, output string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	script := "#!/bin/sh\necho \"" + output + "\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
}

func statusOf(rep Report, check string) (Status, string) {
	for _, r := range rep.Results {
		if r.Check == check {
			return r.Status, r.Detail
		}
	}
	return "", "missing"
}

func TestRunAllGreen(t *testing.T) {
	f := newFixture(t)
	f.writeLock(t)

	rep, err := Run(context.Background(), Options{
		DescriptorPath: f.dpath,
		Evaluator:      f.ev,
		BasePath:       []string{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Errors != 0 || rep.Warnings != 0 {
		t.Fatalf("errors=%d warnings=%d, report: %+v", rep.Errors, rep.Warnings, rep.Results)
	}
	for _, check := range []string{"descriptor", "evaluator", "resolve", "stable", "binding", "path", "probes", "stdlib"} {
		st, detail := statusOf(rep, check)
		if st != StatusOK {
			t.Fatalf("%s = %s (%s)", check, st, detail)
		}
	}
	if _, detail := statusOf(rep, "probes"); !strings.Contains(detail, "go 1.22.3") {
		t.Fatalf("probes detail = %q", detail)
	}
	if _, detail := statusOf(rep, "stdlib"); !strings.Contains(detail, "GOROOT=go1.22.3") {
		t.Fatalf("stdlib detail = %q", detail)
	}
}

func TestRunNoLockFallsBackToFreshResolve(t *testing.T) {
	f := newFixture(t)

	rep, err := Run(context.Background(), Options{
		DescriptorPath: f.dpath,
		Evaluator:      f.ev,
		BasePath:       []string{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st, _ := statusOf(rep, "stable"); st != StatusSkip {
		t.Fatalf("stable = %s, want skip without a lock", st)
	}
	for _, check := range []string{"binding", "path", "probes", "stdlib"} {
		st, detail := statusOf(rep, check)
		if st != StatusOK {
			t.Fatalf("%s = %s (%s)", check, st, detail)
		}
	}
}

func TestRunStaleLockWarns(t *testing.T) {
	f := newFixture(t)
	f.writeLock(t)

	// Change the descriptor after the lock was written.
	f.d.Tools = append(f.d.Tools, descriptor.Tool{Name: "gofumpt"})
	if err := descriptor.Save(f.dpath, f.d); err != nil {
		t.Fatal(err)
	}

	rep, err := Run(context.Background(), Options{
		DescriptorPath: f.dpath,
		Evaluator:      f.ev,
		BasePath:       []string{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st, _ := statusOf(rep, "stable"); st != StatusWarn {
		t.Fatalf("stable = %s, want warn for stale lock", st)
	}
}

func TestRunDriftedStoreFails(t *testing.T) {
	f := newFixture(t)
	f.writeLock(t)

	// Lock records a different store path than the evaluator now returns.
	lock, err := lockfile.Load(lockfile.Path(f.dpath))
	if err != nil {
		t.Fatal(err)
	}
	e := lock.Tools["gopls"]
	e.StorePath = "/nix/store/old-gopls-0.14.0"
	lock.Tools["gopls"] = e
	if err := lockfile.Save(lockfile.Path(f.dpath), lock); err != nil {
		t.Fatal(err)
	}

	rep, err := Run(context.Background(), Options{
		DescriptorPath: f.dpath,
		Evaluator:      f.ev,
		BasePath:       []string{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	st, detail := statusOf(rep, "stable")
	if st != StatusFail || !strings.Contains(detail, "drifted") {
		t.Fatalf("stable = %s (%s)", st, detail)
	}
	if rep.Errors == 0 {
		t.Fatal("drift should count as an error")
	}
}

func TestRunStdlibVersionMismatch(t *testing.T) {
	f := newFixture(t)
	f.writeLock(t)

	goroot := filepath.Join(f.goStore, "share", "go")
	if err := os.WriteFile(filepath.Join(goroot, "VERSION"), []byte("go1.21.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep, err := Run(context.Background(), Options{
		DescriptorPath: f.dpath,
		Evaluator:      f.ev,
		BasePath:       []string{},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	st, detail := statusOf(rep, "stdlib")
	if st != StatusFail || !strings.Contains(detail, "go1.21.0") {
		t.Fatalf("stdlib = %s (%s)", st, detail)
	}
}

func TestRunMissingDescriptor(t *testing.T) {
	testutil.IsolateConfig(t)
	rep, err := Run(context.Background(), Options{
		DescriptorPath: filepath.Join(t.TempDir(), "devshell.json"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st, _ := statusOf(rep, "descriptor"); st != StatusFail {
		t.Fatalf("descriptor = %s, want fail", st)
	}
	if rep.Errors == 0 {
		t.Fatal("missing descriptor should count as an error")
	}
}
