package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"snekctl/internal/ui"
)

func init() {
	rootCmd.AddCommand(guideCmd)
}

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Print the quickstart guide",
	Long:  "Renders the same walkthrough the dashboard shows under /guide, for reading outside the TUI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := glamour.NewTermRenderer(
			glamour.WithStyles(ui.MarkdownStyles()),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			fmt.Print(ui.GuideText)
			return nil
		}
		out, err := r.Render(ui.GuideText)
		if err != nil {
			fmt.Print(ui.GuideText)
			return nil
		}
		fmt.Print(out)
		return nil
	},
}
