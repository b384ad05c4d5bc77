package cli

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(toolsCmd)
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect the declared tools",
}
