package lockfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleLock() Lock {
	return Lock{
		Version:     CurrentVersion,
		Fingerprint: "fp-1",
		ResolvedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Tools: map[string]Entry{
			"go":    {Attr: "go", StorePath: "/nix/store/aaaa-go-1.22.3", ToolVersion: "1.22.3"},
			"gopls": {Attr: "gopls", StorePath: "/nix/store/bbbb-gopls-0.15.3", ToolVersion: "0.15.3"},
		},
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)

	if err := Save(path, sampleLock()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e, ok := got.Entry("go")
	if !ok || e.StorePath != "/nix/store/aaaa-go-1.22.3" {
		t.Fatalf("entry = %+v ok=%v", e, ok)
	}
	if got.Stale("fp-1") {
		t.Fatal("lock should be fresh for its own fingerprint")
	}
	if !got.Stale("fp-2") {
		t.Fatal("lock should be stale for a different fingerprint")
	}
}

func TestSaveDeterministic(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.json")
	p2 := filepath.Join(dir, "b.json")

	if err := Save(p1, sampleLock()); err != nil {
		t.Fatal(err)
	}
	if err := Save(p2, sampleLock()); err != nil {
		t.Fatal(err)
	}
	b1, _ := os.ReadFile(p1)
	b2, _ := os.ReadFile(p2)
	if string(b1) != string(b2) {
		t.Fatal("identical locks should serialize identically")
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultName)
	if err := os.WriteFile(path, []byte(`{"version": 99, "fingerprint": "x", "tools": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported lock version") {
		t.Fatalf("err = %v", err)
	}
}

func TestPath(t *testing.T) {
	got := Path("/work/proj/devshell.json")
	if got != filepath.Join("/work/proj", DefaultName) {
		t.Fatalf("Path = %q", got)
	}
}

func TestSummary(t *testing.T) {
	s := sampleLock().Summary()
	if !strings.Contains(s, "2 tools") || !strings.Contains(s, "go, gopls") {
		t.Fatalf("Summary = %q", s)
	}
	if (Lock{}).Summary() != "empty lock" {
		t.Fatal("empty lock summary")
	}
}
