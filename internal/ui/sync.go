package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snekctl/internal/descriptor"
	"snekctl/internal/lockfile"
	"snekctl/internal/nix"
)

// syncItem is one tool to resolve during the TUI sync flow.
type syncItem struct {
	name string
	attr string
}

// buildSyncList pairs each declared tool with its evaluator attribute.
func buildSyncList(info ShellInfo) []syncItem {
	out := make([]syncItem, 0, len(info.Descriptor.Tools))
	for _, t := range info.Descriptor.Tools {
		attr := t.Attr
		if attr == "" {
			attr = info.Catalog.Lookup(t.Name).Attr
		}
		out = append(out, syncItem{name: t.Name, attr: attr})
	}
	return out
}

// syncOneCmd resolves a single tool under the pin. The update loop chains
// these sequentially, mirroring how the lock is written by `snekctl sync`.
func syncOneCmd(pin descriptor.Pin, it syncItem) tea.Cmd {
	return func() tea.Msg {
		ev, err := nix.Locate()
		if err != nil {
			return syncStepMsg{name: it.name, err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		res, err := ev.Resolve(ctx, pin, it.attr)
		if err != nil {
			return syncStepMsg{name: it.name, err: err}
		}
		note := res.Version
		if note == "" {
			note = res.StorePath
		}
		return syncStepMsg{
			name:  it.name,
			note:  note,
			entry: lockfile.Entry{Attr: it.attr, StorePath: res.StorePath, ToolVersion: res.Version},
		}
	}
}

// writeLockCmd persists the freshly resolved lock next to the descriptor.
func writeLockCmd(dpath string, lock lockfile.Lock) tea.Cmd {
	return func() tea.Msg {
		path := lockfile.Path(dpath)
		if err := lockfile.Save(path, lock); err != nil {
			return syncWrittenMsg{path: path, err: err}
		}
		return syncWrittenMsg{path: path}
	}
}

// syncSummary renders the post-sync notice.
func syncSummary(lock lockfile.Lock, path string) string {
	return fmt.Sprintf("wrote %s (%s)", path, lock.Summary())
}
