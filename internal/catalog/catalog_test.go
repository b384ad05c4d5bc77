package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"snekctl/internal/testutil"
)

func TestLoadBuiltins(t *testing.T) {
	testutil.IsolateConfig(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	goEntry := c.Lookup("go")
	if goEntry.Attr != "go" {
		t.Fatalf("go attr = %q", goEntry.Attr)
	}
	if goEntry.Binding == nil || goEntry.Binding.Name != "GOROOT" || goEntry.Binding.Subpath != "share/go" {
		t.Fatalf("go binding = %+v", goEntry.Binding)
	}
	if goEntry.Stdlib == nil || len(goEntry.Stdlib.Markers) == 0 {
		t.Fatalf("go stdlib spec = %+v", goEntry.Stdlib)
	}
	if !c.Known("rustc") || !c.Known("gopls") {
		t.Fatal("expected rustc and gopls in builtin table")
	}
}

func TestLookupFallback(t *testing.T) {
	testutil.IsolateConfig(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e := c.Lookup("shellcheck")
	if e.Attr != "shellcheck" || len(e.Binaries) != 1 || e.Binaries[0] != "shellcheck" {
		t.Fatalf("fallback entry = %+v", e)
	}
	if c.Known("shellcheck") {
		t.Fatal("fallback entries should not count as known")
	}
}

func TestUserOverride(t *testing.T) {
	dir := testutil.IsolateConfig(t)

	cfgDir := filepath.Join(dir, "snekctl")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	userYAML := `tools:
  - name: go
    attr: go_1_23
    binaries: [go, gofmt]
    version_args: [[version]]
  - name: zls
    attr: zls
    binaries: [zls]
    version_args: [["--version"]]
`
	if err := os.WriteFile(filepath.Join(cfgDir, "catalog.yaml"), []byte(userYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.Lookup("go").Attr; got != "go_1_23" {
		t.Fatalf("override attr = %q, want go_1_23", got)
	}
	if !c.Known("zls") {
		t.Fatal("user entry zls should be known")
	}
	// Untouched builtins survive the merge.
	if !c.Known("gopls") {
		t.Fatal("builtin gopls lost after merge")
	}
}

func TestLoadMalformedUserFile(t *testing.T) {
	dir := testutil.IsolateConfig(t)

	cfgDir := filepath.Join(dir, "snekctl")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "catalog.yaml"), []byte(":\nnot yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed catalog.yaml")
	}
}
