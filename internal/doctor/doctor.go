// Package doctor verifies that the declared dev shell holds on this
// machine: the descriptor parses, the evaluator answers, every tool
// resolves to exactly one artifact, re-resolution matches the lock, the
// projected paths exist, the assembled search path is free of shadowing,
// every tool answers its version probe, and the standard-library binding
// points at recognizable sources.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"snekctl/internal/catalog"
	"snekctl/internal/descriptor"
	"snekctl/internal/lockfile"
	"snekctl/internal/nix"
	"snekctl/internal/shellenv"
	"snekctl/internal/tools"
)

type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Result is the outcome of one named check.
type Result struct {
	Check  string `json:"check"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Report aggregates all checks plus error and warning counts, mirroring the
// shape the JSON output exposes.
type Report struct {
	DescriptorPath string   `json:"descriptor"`
	Results        []Result `json:"results"`
	Errors         int      `json:"errors"`
	Warnings       int      `json:"warnings"`
}

func (r *Report) add(check string, st Status, detail string) {
	r.Results = append(r.Results, Result{Check: check, Status: st, Detail: detail})
	switch st {
	case StatusFail:
		r.Errors++
	case StatusWarn:
		r.Warnings++
	}
}

// Options configures a doctor run.
type Options struct {
	// DescriptorPath locates devshell.json. Empty means walk up from the
	// working directory.
	DescriptorPath string
	// Evaluator overrides evaluator discovery, used by tests.
	Evaluator *nix.Nix
	// BasePath is the inherited search path. Nil means the process PATH.
	BasePath []string
}

// Run executes every check and never returns an error for findings; the
// report carries them. The returned error covers only setup problems such
// as an unreadable working directory.
func Run(ctx context.Context, opts Options) (Report, error) {
	rep := Report{}

	// descriptor
	dpath := opts.DescriptorPath
	if dpath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return rep, err
		}
		found, err := descriptor.Find(cwd)
		if err != nil {
			rep.add("descriptor", StatusFail, err.Error())
			return rep, nil
		}
		dpath = found
	}
	rep.DescriptorPath = dpath

	d, err := descriptor.Load(dpath)
	if err != nil {
		rep.add("descriptor", StatusFail, err.Error())
		return rep, nil
	}

	cat, catErr := catalog.Load()
	if problems := d.Validate(cat.Known); len(problems) > 0 {
		rep.add("descriptor", StatusFail, strings.Join(problems, "; "))
	} else if catErr != nil {
		rep.add("descriptor", StatusWarn, fmt.Sprintf("user catalog ignored: %v", catErr))
	} else {
		rep.add("descriptor", StatusOK, fmt.Sprintf("%d tools, %d env vars", len(d.Tools), len(d.Env)))
	}

	// evaluator
	ev := opts.Evaluator
	if ev == nil {
		ev, err = nix.Locate()
		if err != nil {
			rep.add("evaluator", StatusFail, err.Error())
		}
	}
	if ev != nil {
		if v, verr := ev.Version(ctx); verr == nil {
			rep.add("evaluator", StatusOK, fmt.Sprintf("%s (%s)", ev.Bin, v))
		} else {
			rep.add("evaluator", StatusFail, verr.Error())
			ev = nil
		}
	}

	// resolve: every tool evaluates to exactly one artifact
	var resolved map[string]lockfile.Entry
	if ev == nil {
		rep.add("resolve", StatusSkip, "no evaluator")
	} else {
		resolved, err = resolveAll(ctx, ev, d, cat)
		if err != nil {
			rep.add("resolve", StatusFail, err.Error())
			resolved = nil
		} else {
			rep.add("resolve", StatusOK, fmt.Sprintf("%d tools resolved under %s", len(resolved), d.Nixpkgs.Short()))
		}
	}

	// stable: re-resolution agrees with the lock
	lockPath := lockfile.Path(dpath)
	lock, lockErr := lockfile.Load(lockPath)
	haveLock := lockErr == nil
	switch {
	case !haveLock && os.IsNotExist(lockErr):
		rep.add("stable", StatusSkip, "no lock; run `snekctl sync`")
	case !haveLock:
		rep.add("stable", StatusFail, lockErr.Error())
	case lock.Stale(d.Fingerprint()):
		rep.add("stable", StatusWarn, "lock is stale; descriptor changed since last sync")
	case resolved == nil:
		rep.add("stable", StatusSkip, "re-resolution unavailable")
	default:
		if diffs := compareResolved(lock, resolved); len(diffs) > 0 {
			rep.add("stable", StatusFail, strings.Join(diffs, "; "))
		} else {
			rep.add("stable", StatusOK, fmt.Sprintf("re-resolution reproduces the lock (%d tools)", len(resolved)))
		}
	}

	// Remaining checks need an environment: prefer the lock, fall back to
	// the fresh resolution.
	effective := lock
	if !haveLock {
		if resolved == nil {
			for _, check := range []string{"binding", "path", "probes", "stdlib"} {
				rep.add(check, StatusSkip, "no lock and no evaluator")
			}
			return rep, nil
		}
		effective = lockfile.Lock{Version: lockfile.CurrentVersion, Tools: resolved}
	}

	base := opts.BasePath
	if base == nil {
		base = filepath.SplitList(os.Getenv("PATH"))
	}
	env, err := shellenv.Assemble(d, effective, cat, base)
	if err != nil {
		for _, check := range []string{"binding", "path", "probes", "stdlib"} {
			rep.add(check, StatusFail, err.Error())
		}
		return rep, nil
	}

	checkBindings(&rep, env)
	checkPath(&rep, d, cat, env)
	checkProbes(ctx, &rep, d, cat, env)
	checkStdlib(&rep, d, cat, effective)

	return rep, nil
}

// resolveAll asks the evaluator for every tool concurrently and returns the
// answers keyed by tool name.
func resolveAll(ctx context.Context, ev *nix.Nix, d descriptor.Descriptor, cat *catalog.Catalog) (map[string]lockfile.Entry, error) {
	entries := make([]lockfile.Entry, len(d.Tools))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range d.Tools {
		g.Go(func() error {
			attr := t.Attr
			if attr == "" {
				attr = cat.Lookup(t.Name).Attr
			}
			res, err := ev.Resolve(gctx, d.Nixpkgs, attr)
			if err != nil {
				return err
			}
			entries[i] = lockfile.Entry{Attr: attr, StorePath: res.StorePath, ToolVersion: res.Version}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string]lockfile.Entry, len(d.Tools))
	for i, t := range d.Tools {
		out[t.Name] = entries[i]
	}
	return out, nil
}

func compareResolved(lock lockfile.Lock, resolved map[string]lockfile.Entry) []string {
	var diffs []string
	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fresh := resolved[name]
		locked, ok := lock.Entry(name)
		if !ok {
			diffs = append(diffs, fmt.Sprintf("%s missing from lock", name))
			continue
		}
		if locked.StorePath != fresh.StorePath {
			diffs = append(diffs, fmt.Sprintf("%s drifted: lock %s, fresh %s", name, locked.StorePath, fresh.StorePath))
		}
	}
	return diffs
}

// checkBindings verifies every projected variable points at an existing,
// readable path.
func checkBindings(rep *Report, env shellenv.Environment) {
	if len(env.Vars) == 0 {
		rep.add("binding", StatusSkip, "no env vars declared")
		return
	}
	var bad []string
	for _, v := range env.Vars {
		f, err := os.Open(v.Value)
		if err != nil {
			bad = append(bad, fmt.Sprintf("%s: %v", v.Name, err))
			continue
		}
		f.Close()
	}
	if len(bad) > 0 {
		rep.add("binding", StatusFail, strings.Join(bad, "; "))
		return
	}
	rep.add("binding", StatusOK, fmt.Sprintf("%d vars point at readable paths", len(env.Vars)))
}

// checkPath verifies property four: every declared binary on the assembled
// path exactly once, never shadowed.
func checkPath(rep *Report, d descriptor.Descriptor, cat *catalog.Catalog, env shellenv.Environment) {
	bins := map[string][]string{}
	for _, t := range d.Tools {
		bins[t.Name] = cat.Lookup(t.Name).Binaries
	}
	if problems := env.VerifyUnique(bins); len(problems) > 0 {
		rep.add("path", StatusFail, strings.Join(problems, "; "))
		return
	}
	rep.add("path", StatusOK, fmt.Sprintf("%d dirs, no shadowing", len(env.ToolPathList())))
}

// checkProbes runs every tool's version operation inside the assembled
// environment, concurrently.
func checkProbes(ctx context.Context, rep *Report, d descriptor.Descriptor, cat *catalog.Catalog, env shellenv.Environment) {
	pathList := env.PathList()
	environ := env.Environ(os.Environ())

	results := make([]tools.Result, len(d.Tools))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range d.Tools {
		g.Go(func() error {
			e := cat.Lookup(t.Name)
			results[i] = tools.Run(gctx, tools.Probe{
				Name:        t.Name,
				Binaries:    e.Binaries,
				VersionArgs: e.VersionArgs,
			}, pathList, environ)
			return nil
		})
	}
	_ = g.Wait()

	var bad []string
	var versions []string
	for i, t := range d.Tools {
		res := results[i]
		if !res.Found {
			bad = append(bad, fmt.Sprintf("%s: %s", t.Name, res.Err))
			continue
		}
		if res.Version != "" {
			versions = append(versions, fmt.Sprintf("%s %s", t.Name, res.Version))
		} else {
			versions = append(versions, t.Name)
		}
	}
	if len(bad) > 0 {
		rep.add("probes", StatusFail, strings.Join(bad, "; "))
		return
	}
	rep.add("probes", StatusOK, strings.Join(versions, ", "))
}

// checkStdlib verifies that bindings with a standard-library layout point
// at sources matching the locked toolchain version.
func checkStdlib(rep *Report, d descriptor.Descriptor, cat *catalog.Catalog, lock lockfile.Lock) {
	checkedAny := false
	var bad []string
	var notes []string

	for _, b := range d.Env {
		e := cat.Lookup(b.Tool)
		if e.Stdlib == nil {
			continue
		}
		checkedAny = true

		entry, ok := lock.Entry(b.Tool)
		if !ok {
			bad = append(bad, fmt.Sprintf("%s: tool %q not resolved", b.Name, b.Tool))
			continue
		}
		sub := b.Subpath
		if sub == "" && e.Binding != nil {
			sub = e.Binding.Subpath
		}
		root := entry.StorePath
		if sub != "" {
			root = filepath.Join(entry.StorePath, sub)
		}

		for _, marker := range e.Stdlib.Markers {
			if _, err := os.Stat(filepath.Join(root, marker)); err != nil {
				bad = append(bad, fmt.Sprintf("%s: missing %s", b.Name, marker))
			}
		}
		if e.Stdlib.VersionFile != "" && entry.ToolVersion != "" {
			raw, err := os.ReadFile(filepath.Join(root, e.Stdlib.VersionFile))
			if err != nil {
				bad = append(bad, fmt.Sprintf("%s: %v", b.Name, err))
				continue
			}
			got := strings.TrimSpace(strings.Split(string(raw), "\n")[0])
			want := e.Stdlib.VersionPrefix + entry.ToolVersion
			if got != want {
				bad = append(bad, fmt.Sprintf("%s: sources are %s, lock says %s", b.Name, got, want))
				continue
			}
			notes = append(notes, fmt.Sprintf("%s=%s", b.Name, got))
		} else {
			notes = append(notes, b.Name)
		}
	}

	switch {
	case !checkedAny:
		rep.add("stdlib", StatusSkip, "no standard-library binding declared")
	case len(bad) > 0:
		rep.add("stdlib", StatusFail, strings.Join(bad, "; "))
	default:
		rep.add("stdlib", StatusOK, strings.Join(notes, ", "))
	}
}
