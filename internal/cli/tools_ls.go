package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"snekctl/internal/lockfile"
	"snekctl/internal/tools"
)

var toolsLsFilter string

func init() {
	toolsCmd.AddCommand(toolsLsCmd)
	toolsLsCmd.Flags().StringVarP(&toolsLsFilter, "filter", "f", "", "fuzzy-filter tools by name")
}

var toolsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List declared tools with locked and installed versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject()
		if err != nil {
			return err
		}

		names := p.Descriptor.ToolNames()
		if toolsLsFilter != "" {
			matches := fuzzy.Find(toolsLsFilter, names)
			filtered := make([]string, 0, len(matches))
			for _, m := range matches {
				filtered = append(filtered, names[m.Index])
			}
			names = filtered
		}
		if len(names) == 0 {
			fmt.Println("no tools match")
			return nil
		}

		l, lockErr := lockfile.Load(lockfile.Path(p.DescriptorPath))
		pathList, environ, scope := probeScope(p, l, lockErr)
		fmt.Printf("Probing %d tool(s) via %s\n", len(names), scope)

		for _, name := range names {
			e := p.Catalog.Lookup(name)
			res := tools.Run(cmd.Context(), tools.Probe{
				Name:        name,
				Binaries:    e.Binaries,
				VersionArgs: e.VersionArgs,
			}, pathList, environ)

			var line strings.Builder
			line.WriteString(fmt.Sprintf("- %s: ", name))
			if !res.Found {
				line.WriteString("not found")
				if strings.TrimSpace(res.Err) != "" {
					line.WriteString(fmt.Sprintf(" (%s)", res.Err))
				}
			} else if res.Version != "" {
				line.WriteString(res.Version)
			} else {
				line.WriteString("installed, version unknown")
			}
			if entry, ok := l.Entry(name); ok && entry.ToolVersion != "" {
				line.WriteString(fmt.Sprintf(" · locked %s", entry.ToolVersion))
			}
			if strings.TrimSpace(res.Source) != "" {
				line.WriteString(fmt.Sprintf(" · via %s", res.Source))
			}
			fmt.Println(line.String())
		}
		return nil
	},
}

// probeScope picks where probes run: inside the assembled dev shell when a
// fresh lock exists, otherwise on the plain process PATH. The assembled
// environment keeps the ambient variables underneath, so a probe sees the
// same world here and under doctor.
func probeScope(p *project, l lockfile.Lock, lockErr error) (pathList, environ []string, scope string) {
	if lockErr == nil && !l.Stale(p.Descriptor.Fingerprint()) {
		if env, err := p.assemble(l); err == nil {
			return env.PathList(), env.Environ(os.Environ()), "dev shell"
		}
	}
	return nil, nil, "PATH"
}
