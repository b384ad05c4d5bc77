package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"snekctl/internal/playui"
	"snekctl/internal/solver"
)

func init() {
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play [board]",
	Short: "Watch a solution slide across the board",
	Long:  "Solves the board like `snekctl solve`, then steps through the winning moves in an interactive player.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readBoard(args)
		if err != nil {
			return err
		}
		sol, err := solver.Solve(cmd.Context(), b)
		if errors.Is(err, solver.ErrNoSolution) {
			fmt.Println("No solution found.")
			return nil
		}
		if err != nil {
			return err
		}
		return playui.Run(b, sol)
	},
}
