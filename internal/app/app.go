package app

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"snekctl/internal/system"
	"snekctl/internal/ui"
)

// Start runs the workbench TUI and returns any error. It refuses to run
// inside an activated dev shell: the store paths already on PATH would skew
// every probe the dashboard shows.
func Start() error {
	if os.Getenv(system.NestGuardVar) != "" {
		return fmt.Errorf("already inside a snekctl shell; exit it before opening the workbench")
	}
	// Initialize global bubblezone manager for mouse-aware zones.
	zone.NewGlobal()
	if _, err := tea.NewProgram(ui.InitialModel(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		return err
	}
	return nil
}

// Main is a helper to use as entry-point from cmd.
func Main() {
	if err := Start(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
