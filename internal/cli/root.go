package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snekctl/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "snekctl",
	Short: "snekctl – snek project workbench",
	Long:  "snekctl manages the project's declarative dev shell and solves snek puzzle boards. Run without arguments for the dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default action: launch the TUI
		return app.Start()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
