package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"snekctl/internal/catalog"
	"snekctl/internal/descriptor"
	"snekctl/internal/lockfile"
	"snekctl/internal/nix"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Resolve every declared tool and write the lockfile",
	Long:  "Asks the evaluator for the store path of each tool under the pinned snapshot and records the answers in devshell.lock.json.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}
		_, err = resolveAndLock(cmd.Context(), p)
		return err
	},
}

// resolveAndLock resolves every declared tool under the pin and writes the
// lock next to the descriptor, printing per-tool progress. Shared by
// `snekctl sync` and `snekctl shell --sync`.
func resolveAndLock(ctx context.Context, p *project) (lockfile.Lock, error) {
	lock := lockfile.Lock{
		Version:     lockfile.CurrentVersion,
		Fingerprint: p.Descriptor.Fingerprint(),
		ResolvedAt:  time.Now().UTC(),
		Tools:       map[string]lockfile.Entry{},
	}

	ev, err := nix.Locate()
	if err != nil {
		return lock, err
	}

	fmt.Printf("Resolving %d tools under %s\n", len(p.Descriptor.Tools), p.Descriptor.Nixpkgs.Short())
	for i, t := range p.Descriptor.Tools {
		attr := resolveAttr(t, p.Catalog)
		fmt.Printf("[%d/%d] %s (%s)…\n", i+1, len(p.Descriptor.Tools), t.Name, attr)
		res, err := ev.Resolve(ctx, p.Descriptor.Nixpkgs, attr)
		if err != nil {
			fmt.Printf("  × %v\n", err)
			return lock, fmt.Errorf("sync aborted: %s failed to resolve", t.Name)
		}
		if res.Version != "" {
			fmt.Printf("  ✓ %s\n", res.Version)
		} else {
			fmt.Printf("  ✓ %s\n", res.StorePath)
		}
		lock.Tools[t.Name] = lockfile.Entry{Attr: attr, StorePath: res.StorePath, ToolVersion: res.Version}
	}

	lockPath := lockfile.Path(p.DescriptorPath)
	if err := lockfile.Save(lockPath, lock); err != nil {
		return lock, err
	}
	fmt.Printf("\nWrote %s (%s)\n", lockPath, lock.Summary())
	return lock, nil
}

// resolveAttr picks the evaluator attribute for a tool: descriptor override
// first, catalog second.
func resolveAttr(t descriptor.Tool, cat *catalog.Catalog) string {
	if t.Attr != "" {
		return t.Attr
	}
	return cat.Lookup(t.Name).Attr
}
