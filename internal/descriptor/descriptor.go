// Package descriptor models devshell.json, the project-level declaration of
// the development shell: a pinned package snapshot, the tools drawn from it,
// and the environment variables projected out of resolved tools.
package descriptor

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultName is the descriptor file name looked up in project directories.
const DefaultName = "devshell.json"

// ErrNotFound reports that no descriptor exists between the start directory
// and the filesystem root.
var ErrNotFound = errors.New("devshell.json not found")

// Pin identifies one immutable snapshot of the package repository that all
// tool resolution is evaluated against.
type Pin struct {
	// Ref is the flake-style base reference, e.g. "github:NixOS/nixpkgs".
	Ref string `json:"ref"`
	// Commit pins Ref to one revision. Empty means whatever Ref points at,
	// which trades reproducibility for freshness.
	Commit string `json:"commit,omitempty"`
	// SHA256 optionally carries the snapshot tarball hash for consumers that
	// fetch the pin outside the evaluator.
	SHA256 string `json:"sha256,omitempty"`
}

// Installable renders the evaluator argument for one attribute under the pin.
func (p Pin) Installable(attr string) string {
	ref := p.Ref
	if p.Commit != "" {
		ref = ref + "/" + p.Commit
	}
	return ref + "#" + attr
}

// Short returns a compact display form of the pin.
func (p Pin) Short() string {
	if p.Commit == "" {
		return p.Ref
	}
	c := p.Commit
	if len(c) > 12 {
		c = c[:12]
	}
	return p.Ref + "/" + c
}

// Tool names one package to be resolved from the pin and placed on the
// shell's search path.
type Tool struct {
	Name string `json:"name"`
	// Attr overrides the catalog's attribute for Name. Empty delegates to
	// the catalog.
	Attr string `json:"attr,omitempty"`
}

// Binding projects one environment variable out of one resolved tool's file
// layout, e.g. GOROOT = <go store path>/share/go.
type Binding struct {
	Name string `json:"name"`
	Tool string `json:"tool"`
	// Subpath is joined onto the tool's resolved path. Empty delegates to
	// the catalog default for the tool.
	Subpath string `json:"subpath,omitempty"`
}

// Descriptor is the parsed devshell.json.
type Descriptor struct {
	Nixpkgs Pin       `json:"nixpkgs"`
	Tools   []Tool    `json:"tools"`
	Env     []Binding `json:"env,omitempty"`
}

// Default returns the descriptor snekctl writes for a fresh Go project:
// toolchain, formatter, linter, and language server, with GOROOT bound to
// the toolchain's standard library root.
func Default() Descriptor {
	return Descriptor{
		Nixpkgs: Pin{
			Ref:    "github:NixOS/nixpkgs",
			Commit: "nixos-24.05",
		},
		Tools: []Tool{
			{Name: "go"},
			{Name: "gofumpt"},
			{Name: "golangci-lint"},
			{Name: "gopls"},
		},
		Env: []Binding{
			{Name: "GOROOT", Tool: "go"},
		},
	}
}

// Load reads and strictly decodes the descriptor at path. Unknown keys are
// rejected so typos fail loudly instead of silently dropping a tool.
func Load(path string) (Descriptor, error) {
	var d Descriptor
	b, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return d, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// Save writes the descriptor to path, creating parent directories.
func Save(path string, d Descriptor) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}

// Find walks up from startDir looking for the descriptor file and returns
// its absolute path, or ErrNotFound when the walk exhausts the tree. The
// walk does not cross a repository boundary: an ancestor project's shell
// never leaks into this one.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		p := filepath.Join(dir, DefaultName)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, nil
		}
		if st, err := os.Stat(filepath.Join(dir, ".git")); err == nil && st.IsDir() {
			return "", ErrNotFound
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Validate checks structural soundness and returns every problem found.
// known reports whether a tool name is resolvable through the catalog; pass
// nil to skip that check.
func (d Descriptor) Validate(known func(string) bool) []string {
	var problems []string

	if strings.TrimSpace(d.Nixpkgs.Ref) == "" {
		problems = append(problems, "nixpkgs.ref is empty")
	}
	if len(d.Tools) == 0 {
		problems = append(problems, "tools list is empty")
	}

	seen := map[string]bool{}
	for i, t := range d.Tools {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			problems = append(problems, fmt.Sprintf("tools[%d]: name is empty", i))
			continue
		}
		if seen[name] {
			problems = append(problems, fmt.Sprintf("tool %q declared more than once", name))
		}
		seen[name] = true
		if known != nil && t.Attr == "" && !known(name) {
			problems = append(problems, fmt.Sprintf("tool %q has no catalog entry and no attr", name))
		}
	}

	vars := map[string]bool{}
	for i, b := range d.Env {
		if strings.TrimSpace(b.Name) == "" {
			problems = append(problems, fmt.Sprintf("env[%d]: name is empty", i))
		}
		if vars[b.Name] {
			problems = append(problems, fmt.Sprintf("env var %q bound more than once", b.Name))
		}
		vars[b.Name] = true
		if !seen[b.Tool] {
			problems = append(problems, fmt.Sprintf("env var %q references undeclared tool %q", b.Name, b.Tool))
		}
	}

	return problems
}

// Fingerprint returns a stable content hash of the descriptor, independent
// of field order in the source file. The lockfile stores it to detect when
// resolution is stale.
func (d Descriptor) Fingerprint() string {
	// Canonical form: sorted tool and env copies, compact JSON.
	c := d
	c.Tools = append([]Tool(nil), d.Tools...)
	sort.Slice(c.Tools, func(i, j int) bool { return c.Tools[i].Name < c.Tools[j].Name })
	c.Env = append([]Binding(nil), d.Env...)
	sort.Slice(c.Env, func(i, j int) bool { return c.Env[i].Name < c.Env[j].Name })

	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// ToolNames returns declared tool names in descriptor order.
func (d Descriptor) ToolNames() []string {
	names := make([]string, 0, len(d.Tools))
	for _, t := range d.Tools {
		names = append(names, t.Name)
	}
	return names
}
