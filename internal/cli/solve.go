package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"snekctl/internal/board"
	"snekctl/internal/history"
	"snekctl/internal/solver"
	"snekctl/internal/system"
)

var solveJSON bool

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "output the solution as JSON")
}

var solveCmd = &cobra.Command{
	Use:   "solve [board]",
	Short: "Solve a snek board",
	Long:  "Reads a board from the given file, or stdin when omitted, and prints the winning placement and slide sequence.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := readBoard(args)
		if err != nil {
			return err
		}

		sol, err := solver.Solve(cmd.Context(), b)
		if errors.Is(err, solver.ErrNoSolution) {
			recordRun(history.FromFailure(b, sol.States, sol.Took))
			if solveJSON {
				return printSolveJSON(b, sol, false)
			}
			fmt.Println("No solution found.")
			return nil
		}
		if err != nil {
			return err
		}
		recordRun(history.FromSolution(b, sol))

		if solveJSON {
			return printSolveJSON(b, sol, true)
		}
		fmt.Printf("Solution found in %d moves.\n", len(sol.Moves))
		fmt.Printf("Place snake at %d, %d\n", sol.Start.X, sol.Start.Y)
		for i, m := range sol.Moves {
			fmt.Printf("%2d. %s\n", i, m)
		}
		return nil
	},
}

// readBoard loads a board from the file argument, or from stdin when no
// argument was given.
func readBoard(args []string) (board.Board, error) {
	var (
		raw []byte
		err error
	)
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return board.Board{}, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return board.Board{}, fmt.Errorf("empty board")
	}
	return board.Parse(string(raw)), nil
}

func printSolveJSON(b board.Board, sol solver.Solution, found bool) error {
	out := struct {
		Found  bool           `json:"found"`
		Start  board.Position `json:"start,omitempty"`
		Moves  []string       `json:"moves,omitempty"`
		States int            `json:"states"`
		TookMS int64          `json:"took_ms"`
	}{Found: found, States: sol.States, TookMS: sol.Took.Milliseconds()}
	if found {
		out.Start = sol.Start
		out.Moves = make([]string, len(sol.Moves))
		for i, m := range sol.Moves {
			out.Moves[i] = m.String()
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// recordRun appends to the solve history; failing to record never fails the
// command.
func recordRun(rec history.Record) {
	if err := history.Add(rec); err != nil {
		system.Logger.Debug("history not recorded", "err", err)
	}
}
