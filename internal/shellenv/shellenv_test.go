package shellenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"snekctl/internal/catalog"
	"snekctl/internal/descriptor"
	"snekctl/internal/lockfile"
	"snekctl/internal/testutil"
)

func mkStore(t *testing.T, root, pkg string, bins ...string) string {
	t.Helper()
	storePath := filepath.Join(root, pkg)
	binDir := filepath.Join(storePath, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, b := range bins {
		if err := os.WriteFile(filepath.Join(binDir, b), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return storePath
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	testutil.IsolateConfig(t)
	cat, err := catalog.Load()
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestAssembleOrderAndDedupe(t *testing.T) {
	root := t.TempDir()
	goStore := mkStore(t, root, "aaaa-go-1.22.3", "go", "gofmt")
	goplsStore := mkStore(t, root, "bbbb-gopls-0.15.3", "gopls")

	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs"},
		Tools:   []descriptor.Tool{{Name: "go"}, {Name: "gofmt-alias"}, {Name: "gopls"}},
		Env:     []descriptor.Binding{{Name: "GOROOT", Tool: "go"}},
	}
	lock := lockfile.Lock{
		Version:     lockfile.CurrentVersion,
		Fingerprint: d.Fingerprint(),
		Tools: map[string]lockfile.Entry{
			"go":          {Attr: "go", StorePath: goStore},
			"gofmt-alias": {Attr: "go", StorePath: goStore}, // same artifact twice
			"gopls":       {Attr: "gopls", StorePath: goplsStore},
		},
	}

	env, err := Assemble(d, lock, testCatalog(t), []string{"/usr/bin", "/bin"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(env.Entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(env.Entries))
	}
	if !env.Entries[1].Duplicate {
		t.Fatal("second contribution of the same dir should be marked duplicate")
	}

	want := []string{
		filepath.Join(goStore, "bin"),
		filepath.Join(goplsStore, "bin"),
		"/usr/bin",
		"/bin",
	}
	got := env.PathList()
	if len(got) != len(want) {
		t.Fatalf("PathList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PathList[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	// GOROOT picks up the catalog default subpath share/go.
	if len(env.Vars) != 1 || env.Vars[0].Name != "GOROOT" {
		t.Fatalf("vars = %+v", env.Vars)
	}
	if env.Vars[0].Value != filepath.Join(goStore, "share", "go") {
		t.Fatalf("GOROOT = %q", env.Vars[0].Value)
	}
}

func TestAssembleMissingLockEntry(t *testing.T) {
	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs"},
		Tools:   []descriptor.Tool{{Name: "go"}},
	}
	_, err := Assemble(d, lockfile.Lock{}, testCatalog(t), nil)
	if err == nil || !strings.Contains(err.Error(), "not in the lock") {
		t.Fatalf("err = %v", err)
	}
}

func TestAssembleBindingSubpaths(t *testing.T) {
	root := t.TempDir()
	store := mkStore(t, root, "cccc-mytool-2.0.0", "mytool")

	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs"},
		Tools:   []descriptor.Tool{{Name: "mytool"}},
		Env: []descriptor.Binding{
			{Name: "MYTOOL_HOME", Tool: "mytool"},                     // no subpath anywhere: store root
			{Name: "MYTOOL_DATA", Tool: "mytool", Subpath: "share/d"}, // explicit
		},
	}
	lock := lockfile.Lock{Tools: map[string]lockfile.Entry{
		"mytool": {Attr: "mytool", StorePath: store},
	}}

	env, err := Assemble(d, lock, testCatalog(t), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if env.Vars[0].Value != store {
		t.Fatalf("MYTOOL_HOME = %q, want store root", env.Vars[0].Value)
	}
	if env.Vars[1].Value != filepath.Join(store, "share", "d") {
		t.Fatalf("MYTOOL_DATA = %q", env.Vars[1].Value)
	}
}

func TestScriptStableAndQuoted(t *testing.T) {
	root := t.TempDir()
	store := mkStore(t, root, "dddd-go-1.22.3", "go")

	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs"},
		Tools:   []descriptor.Tool{{Name: "go"}},
		Env:     []descriptor.Binding{{Name: "GOROOT", Tool: "go", Subpath: "share/go"}},
	}
	lock := lockfile.Lock{Tools: map[string]lockfile.Entry{
		"go": {Attr: "go", StorePath: store},
	}}
	cat := testCatalog(t)

	// Different inherited paths must not change the rendered bytes.
	env1, err := Assemble(d, lock, cat, []string{"/usr/bin"})
	if err != nil {
		t.Fatal(err)
	}
	env2, err := Assemble(d, lock, cat, []string{"/opt/other/bin", "/usr/bin"})
	if err != nil {
		t.Fatal(err)
	}
	if env1.Script() != env2.Script() {
		t.Fatal("script should not depend on the inherited path")
	}

	s := env1.Script()
	if !strings.Contains(s, "export GOROOT="+filepath.Join(store, "share", "go")) {
		t.Fatalf("script missing GOROOT:\n%s", s)
	}
	if !strings.Contains(s, `export PATH=`) || !strings.Contains(s, `"$PATH"`) {
		t.Fatalf("script PATH line wrong:\n%s", s)
	}
}

func TestShQuote(t *testing.T) {
	cases := map[string]string{
		"":              "''",
		"/plain/path":   "/plain/path",
		"has space":     "'has space'",
		"it's":          `'it'\''s'`,
		"a$b":           "'a$b'",
		"back`tick":     "'back`tick'",
		`with"quote`:    `'with"quote'`,
		"semi;and|pipe": "'semi;and|pipe'",
	}
	for in, want := range cases {
		if got := shQuote(in); got != want {
			t.Fatalf("shQuote(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestEnvironOverrides(t *testing.T) {
	root := t.TempDir()
	store := mkStore(t, root, "eeee-go-1.22.3", "go")

	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs"},
		Tools:   []descriptor.Tool{{Name: "go"}},
		Env:     []descriptor.Binding{{Name: "GOROOT", Tool: "go", Subpath: "share/go"}},
	}
	lock := lockfile.Lock{Tools: map[string]lockfile.Entry{
		"go": {Attr: "go", StorePath: store},
	}}
	env, err := Assemble(d, lock, testCatalog(t), []string{"/usr/bin"})
	if err != nil {
		t.Fatal(err)
	}

	got := env.Environ([]string{"HOME=/home/u", "PATH=/old", "GOROOT=/old/go"})
	var path, goroot, home string
	for _, kv := range got {
		switch {
		case strings.HasPrefix(kv, "PATH="):
			path = kv
		case strings.HasPrefix(kv, "GOROOT="):
			goroot = kv
		case strings.HasPrefix(kv, "HOME="):
			home = kv
		}
	}
	if home != "HOME=/home/u" {
		t.Fatalf("home = %q", home)
	}
	if strings.Contains(path, "/old") || !strings.Contains(path, filepath.Join(store, "bin")) {
		t.Fatalf("path = %q", path)
	}
	if goroot != "GOROOT="+filepath.Join(store, "share", "go") {
		t.Fatalf("goroot = %q", goroot)
	}
}

func TestLookPathConfined(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	root := t.TempDir()
	store := mkStore(t, root, "ffff-go-1.22.3", "go")

	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs"},
		Tools:   []descriptor.Tool{{Name: "go"}},
	}
	lock := lockfile.Lock{Tools: map[string]lockfile.Entry{
		"go": {Attr: "go", StorePath: store},
	}}
	env, err := Assemble(d, lock, testCatalog(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	p, err := env.LookPath("go")
	if err != nil {
		t.Fatalf("LookPath: %v", err)
	}
	if p != filepath.Join(store, "bin", "go") {
		t.Fatalf("LookPath = %q", p)
	}
	if _, err := env.LookPath("ghost"); err == nil {
		t.Fatal("ghost should not resolve")
	}
}

func TestVerifyUnique(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	root := t.TempDir()
	goStore := mkStore(t, root, "gggg-go-1.22.3", "go", "gofmt")
	goplsStore := mkStore(t, root, "hhhh-gopls-0.15.3", "gopls")

	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs"},
		Tools:   []descriptor.Tool{{Name: "go"}, {Name: "gopls"}},
	}
	lock := lockfile.Lock{Tools: map[string]lockfile.Entry{
		"go":    {Attr: "go", StorePath: goStore},
		"gopls": {Attr: "gopls", StorePath: goplsStore},
	}}
	cat := testCatalog(t)

	env, err := Assemble(d, lock, cat, nil)
	if err != nil {
		t.Fatal(err)
	}
	bins := map[string][]string{"go": {"go", "gofmt"}, "gopls": {"gopls"}}
	if problems := env.VerifyUnique(bins); len(problems) != 0 {
		t.Fatalf("clean path reported problems: %v", problems)
	}

	// A gopls binary planted in the go store dir shadows the real one.
	if err := os.WriteFile(filepath.Join(goStore, "bin", "gopls"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	problems := env.VerifyUnique(bins)
	if len(problems) != 1 || !strings.Contains(problems[0], "shadowed") {
		t.Fatalf("problems = %v, want one shadow report", problems)
	}

	// A missing binary is reported too.
	bins["go"] = []string{"go", "gofmt", "govet"}
	problems = env.VerifyUnique(bins)
	joined := strings.Join(problems, "\n")
	if !strings.Contains(joined, `"govet" not found`) {
		t.Fatalf("problems = %v", problems)
	}
}
