// Package shellenv assembles the shell environment a lock describes: an
// augmented executable search path with every resolved tool on it, plus the
// environment variables the descriptor projects out of tool file layouts.
package shellenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"snekctl/internal/catalog"
	"snekctl/internal/descriptor"
	"snekctl/internal/lockfile"
	"snekctl/internal/tools"
)

// PathEntry is one directory on the assembled search path, annotated with
// where it came from.
type PathEntry struct {
	Dir  string
	Tool string // descriptor tool that contributed the dir; "" for base PATH
	// Duplicate marks a dir already contributed by an earlier entry. It is
	// kept for inspection but collapsed out of the effective path.
	Duplicate bool
}

// Var is one projected environment variable.
type Var struct {
	Name  string
	Value string
}

// Environment is the assembled result. Field order is the activation order:
// tool path entries first (descriptor order), then the inherited base path,
// with Vars applying alongside.
type Environment struct {
	Entries []PathEntry
	Vars    []Var
}

// Assemble builds the environment for a descriptor and its lock. base is
// the inherited search path, usually filepath.SplitList(os.Getenv("PATH")).
// Every descriptor tool must be present in the lock.
func Assemble(d descriptor.Descriptor, lock lockfile.Lock, cat *catalog.Catalog, base []string) (Environment, error) {
	var env Environment
	seen := map[string]bool{}

	for _, t := range d.Tools {
		entry, ok := lock.Entry(t.Name)
		if !ok {
			return env, fmt.Errorf("tool %q is not in the lock; run `snekctl sync`", t.Name)
		}
		dir := filepath.Join(entry.StorePath, "bin")
		env.Entries = append(env.Entries, PathEntry{
			Dir:       dir,
			Tool:      t.Name,
			Duplicate: seen[dir],
		})
		seen[dir] = true
	}
	for _, dir := range base {
		if dir == "" {
			continue
		}
		env.Entries = append(env.Entries, PathEntry{Dir: dir, Duplicate: seen[dir]})
		seen[dir] = true
	}

	for _, b := range d.Env {
		entry, ok := lock.Entry(b.Tool)
		if !ok {
			return env, fmt.Errorf("env var %q references tool %q which is not in the lock", b.Name, b.Tool)
		}
		sub := b.Subpath
		if sub == "" {
			if spec := cat.Lookup(b.Tool).Binding; spec != nil {
				sub = spec.Subpath
			}
		}
		value := entry.StorePath
		if sub != "" {
			value = filepath.Join(entry.StorePath, sub)
		}
		env.Vars = append(env.Vars, Var{Name: b.Name, Value: value})
	}

	return env, nil
}

// PathList returns the effective search path: every contributed directory
// once, in activation order.
func (e Environment) PathList() []string {
	out := make([]string, 0, len(e.Entries))
	for _, ent := range e.Entries {
		if ent.Duplicate {
			continue
		}
		out = append(out, ent.Dir)
	}
	return out
}

// ToolPathList returns only the directories contributed by descriptor
// tools, deduplicated, in descriptor order.
func (e Environment) ToolPathList() []string {
	out := make([]string, 0, len(e.Entries))
	for _, ent := range e.Entries {
		if ent.Tool == "" || ent.Duplicate {
			continue
		}
		out = append(out, ent.Dir)
	}
	return out
}

// PathString joins the effective search path with the platform separator.
func (e Environment) PathString() string {
	return strings.Join(e.PathList(), string(os.PathListSeparator))
}

// Environ overlays the assembled environment onto base (usually
// os.Environ()): projected vars and PATH replace any inherited values.
func (e Environment) Environ(base []string) []string {
	drop := map[string]bool{"PATH": true}
	for _, v := range e.Vars {
		drop[v.Name] = true
	}
	out := make([]string, 0, len(base)+len(e.Vars)+1)
	for _, kv := range base {
		if i := strings.IndexByte(kv, '='); i > 0 && drop[kv[:i]] {
			continue
		}
		out = append(out, kv)
	}
	for _, v := range e.Vars {
		out = append(out, v.Name+"="+v.Value)
	}
	out = append(out, "PATH="+e.PathString())
	return out
}

// LookPath finds bin on the assembled search path only.
func (e Environment) LookPath(bin string) (string, error) {
	return tools.LookPathIn(bin, e.PathList())
}
