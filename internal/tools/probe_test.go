package tools

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeFakeTool(t *testing.T, dir, name, output string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	script := "#!/bin/sh\necho \"" + output + "\"\n"
	if err := os.WriteFile(p, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunFindsToolInConfinedPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	dir := t.TempDir()
	writeFakeTool(t, dir, "mytool", "mytool version 4.5.6")

	res := Run(context.Background(), Probe{
		Name:        "mytool",
		Binaries:    []string{"mytool"},
		VersionArgs: [][]string{{"--version"}},
	}, []string{dir}, []string{"PATH=" + dir})

	if !res.Found {
		t.Fatalf("not found: %s", res.Err)
	}
	if res.Version != "4.5.6" {
		t.Fatalf("version = %q, want 4.5.6", res.Version)
	}
	if res.Bin != filepath.Join(dir, "mytool") {
		t.Fatalf("bin = %q", res.Bin)
	}
}

func TestRunMissingTool(t *testing.T) {
	res := Run(context.Background(), Probe{
		Name:        "ghost",
		Binaries:    []string{"ghost-bin"},
		VersionArgs: [][]string{{"--version"}},
	}, []string{t.TempDir()}, nil)

	if res.Found {
		t.Fatal("expected not found")
	}
	if res.Err == "" {
		t.Fatal("expected error detail")
	}
}

func TestLookPathSkipsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plain"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LookPathIn("plain", []string{dir}); err == nil {
		t.Fatal("expected non-executable file to be skipped")
	}
}
