// Package lockfile persists evaluator answers next to the descriptor so the
// shell can be assembled and verified without re-resolving, and so two
// checkouts of the same lock see byte-identical environments.
package lockfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CurrentVersion is bumped when the lock format changes shape.
const CurrentVersion = 1

// DefaultName derives the lock path for a descriptor path.
const DefaultName = "devshell.lock.json"

// Entry records where one tool resolved to.
type Entry struct {
	Attr        string `json:"attr"`
	StorePath   string `json:"store_path"`
	ToolVersion string `json:"tool_version,omitempty"`
}

// Lock is the parsed devshell.lock.json.
type Lock struct {
	Version     int              `json:"version"`
	Fingerprint string           `json:"fingerprint"`
	ResolvedAt  time.Time        `json:"resolved_at"`
	Tools       map[string]Entry `json:"tools"`
}

// Path returns the lock path for a descriptor path: same directory, fixed
// name.
func Path(descriptorPath string) string {
	return filepath.Join(filepath.Dir(descriptorPath), DefaultName)
}

// Load reads the lock at path.
func Load(path string) (Lock, error) {
	var l Lock
	b, err := os.ReadFile(path)
	if err != nil {
		return l, err
	}
	if err := json.Unmarshal(b, &l); err != nil {
		return l, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if l.Version != CurrentVersion {
		return l, fmt.Errorf("%s: unsupported lock version %d", filepath.Base(path), l.Version)
	}
	return l, nil
}

// Save writes the lock to path. encoding/json emits map keys sorted, which
// keeps the file diff-stable across runs.
func Save(path string, l Lock) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}

// Stale reports whether the lock was resolved from a different descriptor
// content than fingerprint.
func (l Lock) Stale(fingerprint string) bool {
	return l.Fingerprint != fingerprint
}

// Entry returns the lock entry for a tool name.
func (l Lock) Entry(name string) (Entry, bool) {
	e, ok := l.Tools[name]
	return e, ok
}

// Summary renders a short human line for logs and the dashboard.
func (l Lock) Summary() string {
	if len(l.Tools) == 0 {
		return "empty lock"
	}
	names := make([]string, 0, len(l.Tools))
	for name := range l.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%d tools (%s)", len(l.Tools), strings.Join(names, ", "))
}
