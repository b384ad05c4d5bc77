package ui

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snekctl/internal/catalog"
	"snekctl/internal/descriptor"
	"snekctl/internal/history"
	"snekctl/internal/lockfile"
	"snekctl/internal/nix"
	"snekctl/internal/shellenv"
)

// ShellInfo aggregates lightweight dev shell health for the dash.
type ShellInfo struct {
	DescriptorPath string
	HasDescriptor  bool
	Problems       []string

	Pin       string
	ToolNames []string
	Bindings  []string // rendered NAME=tool[/subpath]

	LockPath   string
	HasLock    bool
	LockStale  bool
	ResolvedAt time.Time
	Locked     map[string]lockfile.Entry

	// assembled environment (only when the lock is usable)
	Env *shellenv.Environment

	// recent solve runs
	Recent []history.Record

	Descriptor descriptor.Descriptor
	Catalog    *catalog.Catalog

	// EvalBin is the located evaluator binary, empty when nix is absent.
	EvalBin string

	CheckedAt time.Time
}

// shellInfoCmd collects shell info in a background command. All failures are
// folded into the info; the dash renders them instead of erroring out.
func shellInfoCmd(cwd string) tea.Cmd {
	return func() tea.Msg {
		info := ShellInfo{CheckedAt: time.Now(), Locked: map[string]lockfile.Entry{}}

		cat, _ := catalog.Load()
		info.Catalog = cat
		if ev, err := nix.Locate(); err == nil {
			info.EvalBin = ev.Bin
		}

		dpath, err := descriptor.Find(cwd)
		if errors.Is(err, descriptor.ErrNotFound) {
			return shellInfoMsg{info: info}
		}
		if err != nil {
			info.Problems = append(info.Problems, err.Error())
			return shellInfoMsg{info: info}
		}
		info.DescriptorPath = dpath
		info.HasDescriptor = true

		d, err := descriptor.Load(dpath)
		if err != nil {
			info.Problems = append(info.Problems, err.Error())
			return shellInfoMsg{info: info}
		}
		info.Descriptor = d
		info.Pin = d.Nixpkgs.Short()
		info.ToolNames = d.ToolNames()
		for _, b := range d.Env {
			s := b.Name + "=" + b.Tool
			if b.Subpath != "" {
				s += "/" + b.Subpath
			}
			info.Bindings = append(info.Bindings, s)
		}
		info.Problems = append(info.Problems, d.Validate(cat.Known)...)

		info.LockPath = lockfile.Path(dpath)
		l, err := lockfile.Load(info.LockPath)
		if err == nil {
			info.HasLock = true
			info.LockStale = l.Stale(d.Fingerprint())
			info.ResolvedAt = l.ResolvedAt
			info.Locked = l.Tools
			if !info.LockStale && len(info.Problems) == 0 {
				base := filepath.SplitList(os.Getenv("PATH"))
				if env, err := shellenv.Assemble(d, l, cat, base); err == nil {
					info.Env = &env
				}
			}
		}

		if recs, err := history.Load(); err == nil {
			if len(recs) > 5 {
				recs = recs[:5]
			}
			info.Recent = recs
		}
		return shellInfoMsg{info: info}
	}
}
