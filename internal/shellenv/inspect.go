package shellenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// VerifyUnique checks that every expected binary resolves on the assembled
// path exactly once among tool directories and is not shadowed by an entry
// earlier on the path. bins maps tool name to its expected binaries.
// Returns one problem string per violation, in entry order; empty means the
// path is clean.
func (e Environment) VerifyUnique(bins map[string][]string) []string {
	var problems []string

	toolDir := map[string]string{}
	for _, ent := range e.Entries {
		if ent.Tool != "" && toolDir[ent.Tool] == "" {
			toolDir[ent.Tool] = ent.Dir
		}
	}
	effective := e.PathList()
	toolDirs := map[string]bool{}
	for _, d := range e.ToolPathList() {
		toolDirs[d] = true
	}

	checked := map[string]bool{}
	for _, ent := range e.Entries {
		if ent.Tool == "" || checked[ent.Tool] {
			continue
		}
		checked[ent.Tool] = true

		for _, bin := range bins[ent.Tool] {
			var hits []string
			inTools := 0
			for _, dir := range effective {
				if !binExists(dir, bin) {
					continue
				}
				hits = append(hits, dir)
				if toolDirs[dir] {
					inTools++
				}
			}
			switch {
			case len(hits) == 0:
				problems = append(problems, fmt.Sprintf("%s: binary %q not found on the assembled path", ent.Tool, bin))
			case hits[0] != toolDir[ent.Tool]:
				problems = append(problems, fmt.Sprintf("%s: binary %q is shadowed by %s", ent.Tool, bin, hits[0]))
			case inTools > 1:
				problems = append(problems, fmt.Sprintf("%s: binary %q appears in %d tool directories", ent.Tool, bin, inTools))
			}
		}
	}
	return problems
}

func binExists(dir, bin string) bool {
	p := filepath.Join(dir, bin)
	st, err := os.Stat(p)
	if err != nil && runtime.GOOS == "windows" {
		st, err = os.Stat(p + ".exe")
	}
	if err != nil || st.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return st.Mode()&0o111 != 0
}
