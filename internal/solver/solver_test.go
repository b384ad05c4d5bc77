package solver

import (
	"context"
	"errors"
	"testing"

	"snekctl/internal/board"
)

func mustSolve(t *testing.T, input string) Solution {
	t.Helper()
	b := board.Parse(input)
	sol, err := Solve(context.Background(), b)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	// Every returned solution must actually cover the board.
	states := Replay(b, sol)
	if last := states[len(states)-1]; !last.Complete() {
		t.Fatalf("replayed solution leaves cherries:\n%s", last)
	}
	return sol
}

func TestSolveSingleRow(t *testing.T) {
	sol := mustSolve(t, "...")
	if sol.Start != (board.Position{X: 0, Y: 0}) {
		t.Fatalf("start = %v", sol.Start)
	}
	if len(sol.Moves) != 1 || sol.Moves[0] != board.Right {
		t.Fatalf("moves = %v, want [Right]", sol.Moves)
	}
}

func TestSolveSingleCell(t *testing.T) {
	sol := mustSolve(t, ".")
	if len(sol.Moves) != 0 {
		t.Fatalf("moves = %v, want none", sol.Moves)
	}
}

func TestSolveSpiral(t *testing.T) {
	// A 3x3 open board is coverable from the corner.
	sol := mustSolve(t, "...\n...\n...")
	if len(sol.Moves) == 0 {
		t.Fatal("expected at least one move")
	}
}

func TestSolveWithRocks(t *testing.T) {
	// Rocks leave an L of cherries.
	sol := mustSolve(t, ".r\n..")
	if len(sol.Moves) != 2 {
		t.Fatalf("moves = %v, want 2 slides", sol.Moves)
	}
}

func TestSolvePrefersEarlierPlacement(t *testing.T) {
	// Both ends of a row work; the scan order must pick (0,0) first.
	sol := mustSolve(t, "....")
	if sol.Start != (board.Position{X: 0, Y: 0}) {
		t.Fatalf("start = %v, want scan-order first", sol.Start)
	}
}

func TestSolveNoSolution(t *testing.T) {
	// The center cherry splits coverage: a snake sliding on this cross
	// shape cannot cover all four arms.
	_, err := Solve(context.Background(), board.Parse("r.r\n...\nr.r"))
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("err = %v, want ErrNoSolution", err)
	}
}

func TestSolveAllRocks(t *testing.T) {
	_, err := Solve(context.Background(), board.Parse("rr\nrr"))
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("err = %v, want ErrNoSolution", err)
	}
}

func TestSolveEmptyBoard(t *testing.T) {
	_, err := Solve(context.Background(), board.Parse(""))
	if !errors.Is(err, ErrNoSolution) {
		t.Fatalf("err = %v, want ErrNoSolution", err)
	}
}

func TestSolveCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Solve(ctx, board.Parse("...\n...\n..."))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestReplayStates(t *testing.T) {
	b := board.Parse("...")
	sol, err := Solve(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	states := Replay(b, sol)
	if len(states) != len(sol.Moves)+1 {
		t.Fatalf("states = %d, want %d", len(states), len(sol.Moves)+1)
	}
	if h, ok := states[0].Head(); !ok || h != sol.Start {
		t.Fatalf("first state head = %v ok=%v", h, ok)
	}
}
