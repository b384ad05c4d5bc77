package config

import (
	"path/filepath"
	"strings"
	"testing"

	"snekctl/internal/testutil"
)

func TestDirUnderConfigBase(t *testing.T) {
	base := testutil.IsolateConfig(t)

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if !strings.HasPrefix(dir, base) {
		t.Fatalf("Dir = %q, want under %q", dir, base)
	}
	if filepath.Base(dir) != "snekctl" {
		t.Fatalf("Dir base = %q, want snekctl", filepath.Base(dir))
	}
}

func TestStorePaths(t *testing.T) {
	testutil.IsolateConfig(t)

	cat, err := CatalogPath()
	if err != nil {
		t.Fatalf("CatalogPath: %v", err)
	}
	if filepath.Base(cat) != "catalog.yaml" {
		t.Fatalf("CatalogPath base = %q, want catalog.yaml", filepath.Base(cat))
	}

	hist, err := HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath: %v", err)
	}
	if filepath.Base(hist) != "history.json" {
		t.Fatalf("HistoryPath base = %q, want history.json", filepath.Base(hist))
	}
	if filepath.Dir(hist) != filepath.Dir(cat) {
		t.Fatalf("stores live in different dirs: %q vs %q", hist, cat)
	}
}
