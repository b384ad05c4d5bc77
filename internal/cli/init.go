package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"snekctl/internal/catalog"
	"snekctl/internal/descriptor"
	"snekctl/internal/system"
)

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing devshell.json")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a devshell.json for this project",
	Long:  "Picks tools from the catalog interactively and writes the descriptor at the repository root, or the current directory outside one. Without a terminal the Go default set is written as-is.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir := cwd
		if root, rerr := system.GitRoot(cmd.Context(), cwd); rerr == nil && root != "" {
			dir = root
		}
		path := filepath.Join(dir, descriptor.DefaultName)
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists; pass --force to overwrite", descriptor.DefaultName)
		}

		cat, err := catalog.Load()
		if err != nil {
			system.Logger.Warn("user catalog ignored", "err", err)
		}

		d := descriptor.Default()
		selected := make([]string, 0, len(d.Tools))
		for _, t := range d.Tools {
			selected = append(selected, t.Name)
		}

		if err := pickTools(cat, &selected); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("init canceled")
				return nil
			}
			// No usable terminal: keep the default selection.
			system.Logger.Warn("interactive picker unavailable; writing the default set", "err", err)
		}
		if len(selected) == 0 {
			return fmt.Errorf("no tools selected")
		}

		d.Tools = d.Tools[:0]
		d.Env = d.Env[:0]
		for _, name := range selected {
			d.Tools = append(d.Tools, descriptor.Tool{Name: name})
			if spec := cat.Lookup(name).Binding; spec != nil {
				d.Env = append(d.Env, descriptor.Binding{Name: spec.Name, Tool: name})
			}
		}

		if err := descriptor.Save(path, d); err != nil {
			return err
		}
		fmt.Printf("\n✓ Wrote %s (%d tools)\n", path, len(d.Tools))
		fmt.Println("Run `snekctl sync` to resolve them.")
		return nil
	},
}

// pickTools runs a multi-select over the catalog, seeded with the default
// selection. Theme tweaks follow freeze/interactive.go.
func pickTools(cat *catalog.Catalog, selected *[]string) error {
	green := lipgloss.Color("#03BF87")
	theme := huh.ThemeCharm()
	theme.FieldSeparator = lipgloss.NewStyle()
	theme.Blurred.Title = theme.Blurred.Title.Width(18).Foreground(lipgloss.Color("7"))
	theme.Focused.Title = theme.Focused.Title.Width(18).Foreground(green).Bold(true)
	theme.Blurred.SelectedOption = theme.Blurred.SelectedOption.Foreground(lipgloss.Color("243"))
	theme.Focused.SelectedOption = lipgloss.NewStyle().Foreground(green)
	theme.Focused.Base.BorderForeground(green)

	names := cat.Names()
	opts := make([]huh.Option[string], 0, len(names))
	for _, n := range names {
		opts = append(opts, huh.NewOption(n, n))
	}

	height := 10
	switch n := len(opts); {
	case n == 0:
		height = 3
	case n < 10:
		height = n
	case n > 18:
		height = 18
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("snekctl init").Description("Pick the tools this project's dev shell should carry."),
			huh.NewMultiSelect[string]().
				Title("Tools").
				Options(opts...).
				Height(height).
				Value(selected),
		),
	).WithTheme(theme).WithWidth(60)

	return form.Run()
}
