// Package catalog maps the short tool names used in devshell.json onto
// package attributes, binaries, version probes, and standard-library layout.
// A built-in table covers the common toolchains; a user-level catalog.yaml
// can add or override entries.
package catalog

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"snekctl/internal/config"
)

// BindingSpec is the default environment projection for a tool, applied when
// the descriptor binds a variable to the tool without naming a subpath.
type BindingSpec struct {
	Name    string `yaml:"name"`
	Subpath string `yaml:"subpath"`
}

// StdlibSpec describes how to recognize a toolchain's standard-library
// sources under the projected path.
type StdlibSpec struct {
	// Markers are files expected to exist below the projected path.
	Markers []string `yaml:"markers"`
	// VersionFile, when set, names a file whose contents carry the toolchain
	// version, prefixed by VersionPrefix.
	VersionFile   string `yaml:"version_file,omitempty"`
	VersionPrefix string `yaml:"version_prefix,omitempty"`
}

// Entry describes one tool the catalog knows how to resolve and probe.
type Entry struct {
	Name        string       `yaml:"name"`
	Attr        string       `yaml:"attr"`
	Binaries    []string     `yaml:"binaries"`
	VersionArgs [][]string   `yaml:"version_args"`
	Binding     *BindingSpec `yaml:"binding,omitempty"`
	Stdlib      *StdlibSpec  `yaml:"stdlib,omitempty"`
}

// Catalog is the merged view of the built-in table and the user file.
type Catalog struct {
	entries map[string]Entry
}

// builtin covers the Go toolchain this project develops with and the Rust
// toolchain the snek solver was first written against, plus odds and ends.
var builtin = []Entry{
	{
		Name:        "go",
		Attr:        "go",
		Binaries:    []string{"go", "gofmt"},
		VersionArgs: [][]string{{"version"}},
		Binding:     &BindingSpec{Name: "GOROOT", Subpath: "share/go"},
		Stdlib: &StdlibSpec{
			Markers:       []string{"src/fmt/print.go", "src/runtime/proc.go"},
			VersionFile:   "VERSION",
			VersionPrefix: "go",
		},
	},
	{
		Name:        "gofumpt",
		Attr:        "gofumpt",
		Binaries:    []string{"gofumpt"},
		VersionArgs: [][]string{{"--version"}, {"-version"}},
	},
	{
		Name:        "golangci-lint",
		Attr:        "golangci-lint",
		Binaries:    []string{"golangci-lint"},
		VersionArgs: [][]string{{"--version"}, {"version"}},
	},
	{
		Name:        "gopls",
		Attr:        "gopls",
		Binaries:    []string{"gopls"},
		VersionArgs: [][]string{{"version"}},
	},
	{
		Name:        "rustc",
		Attr:        "rustc",
		Binaries:    []string{"rustc"},
		VersionArgs: [][]string{{"--version"}},
		Binding:     &BindingSpec{Name: "RUST_SRC_PATH", Subpath: "lib/rustlib/src/rust/library"},
		Stdlib: &StdlibSpec{
			Markers: []string{"core/src/lib.rs", "std/src/lib.rs"},
		},
	},
	{
		Name:        "cargo",
		Attr:        "cargo",
		Binaries:    []string{"cargo"},
		VersionArgs: [][]string{{"--version"}},
	},
	{
		Name:        "rustfmt",
		Attr:        "rustfmt",
		Binaries:    []string{"rustfmt", "cargo-fmt"},
		VersionArgs: [][]string{{"--version"}},
	},
	{
		Name:        "clippy",
		Attr:        "clippy",
		Binaries:    []string{"cargo-clippy", "clippy-driver"},
		VersionArgs: [][]string{{"--version"}},
	},
	{
		Name:        "rust-analyzer",
		Attr:        "rust-analyzer",
		Binaries:    []string{"rust-analyzer"},
		VersionArgs: [][]string{{"--version"}},
	},
}

// Load merges the built-in table with the user catalog file. A missing user
// file is not an error; a malformed one is.
func Load() (*Catalog, error) {
	c := &Catalog{entries: map[string]Entry{}}
	for _, e := range builtin {
		c.entries[e.Name] = e
	}

	p, err := config.CatalogPath()
	if err != nil {
		return c, nil
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}
	var user struct {
		Tools []Entry `yaml:"tools"`
	}
	if err := yaml.Unmarshal(b, &user); err != nil {
		return c, err
	}
	for _, e := range user.Tools {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		e.Name = name
		c.entries[name] = e
	}
	return c, nil
}

// Lookup returns the entry for name. Unknown names fall back to a generic
// entry (attribute and binary both equal to the name, probed with
// --version) so the descriptor is not limited to the built-in table.
func (c *Catalog) Lookup(name string) Entry {
	if e, ok := c.entries[name]; ok {
		return e
	}
	return Entry{
		Name:        name,
		Attr:        name,
		Binaries:    []string{name},
		VersionArgs: [][]string{{"--version"}},
	}
}

// Known reports whether name has an explicit catalog entry.
func (c *Catalog) Known(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Names returns all explicit entry names, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
