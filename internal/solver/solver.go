// Package solver finds the shortest slide sequence that covers every cherry
// on a board. It tries each possible snake placement in scan order and runs
// a breadth-first search over board states; the first placement that
// reaches a covered board wins.
package solver

import (
	"context"
	"errors"
	"time"

	"snekctl/internal/board"
	"snekctl/internal/system"
)

// ErrNoSolution reports that no placement leads to a covered board.
var ErrNoSolution = errors.New("no solution found")

// Solution is a winning placement plus the slides to perform from it.
type Solution struct {
	Start board.Position `json:"start"`
	Moves []board.Dir    `json:"moves"`
	// States counts the board states explored across all placements.
	States int `json:"states"`
	// Took is the wall-clock search time.
	Took time.Duration `json:"took"`
}

// Solve searches the board. Cancellation is honored between expansions.
func Solve(ctx context.Context, b board.Board) (Solution, error) {
	begin := time.Now()
	explored := 0

	for _, p := range b.StartingPositions() {
		system.Logger.Debug("trying placement", "x", p.X, "y", p.Y)

		placed := b.PlaceSnake(p)
		rootKey := placed.Key()
		parent := map[string]string{rootKey: ""}
		queue := []board.Board{placed}

		for len(queue) > 0 {
			select {
			case <-ctx.Done():
				return Solution{}, ctx.Err()
			default:
			}

			cur := queue[0]
			queue = queue[1:]
			explored++

			if cur.Complete() {
				start, moves := reconstruct(cur, parent)
				sol := Solution{Start: start, Moves: moves, States: explored, Took: time.Since(begin)}
				system.Logger.Debug("solved", "moves", len(moves), "states", explored)
				return sol, nil
			}

			curKey := cur.Key()
			for _, m := range cur.Moves() {
				k := m.Key()
				if _, seen := parent[k]; seen {
					continue
				}
				parent[k] = curKey
				queue = append(queue, m)
			}
		}

		system.Logger.Debug("placement exhausted", "x", p.X, "y", p.Y, "states", explored)
	}

	return Solution{States: explored, Took: time.Since(begin)}, ErrNoSolution
}

// reconstruct walks the parent chain from the final board back to the
// placement, then derives one direction per hop from consecutive head
// positions. Heads along one hop are always on a shared row or column.
func reconstruct(final board.Board, parent map[string]string) (board.Position, []board.Dir) {
	var heads []board.Position
	for k := final.Key(); k != ""; k = parent[k] {
		h, ok := board.DecodeKey(k).Head()
		if !ok {
			break
		}
		heads = append(heads, h)
	}
	// The walk collected final..start; flip it.
	for i, j := 0, len(heads)-1; i < j; i, j = i+1, j-1 {
		heads[i], heads[j] = heads[j], heads[i]
	}

	start := heads[0]
	moves := make([]board.Dir, 0, len(heads)-1)
	for i := 1; i < len(heads); i++ {
		prev, cur := heads[i-1], heads[i]
		switch {
		case prev.X > cur.X:
			moves = append(moves, board.Left)
		case prev.X < cur.X:
			moves = append(moves, board.Right)
		case prev.Y > cur.Y:
			moves = append(moves, board.Up)
		default:
			moves = append(moves, board.Down)
		}
	}
	return start, moves
}

// Replay applies a solution to its board and returns every intermediate
// state, starting with the placed board. It is used by the playback UI and
// by tests to confirm a solution actually covers the board.
func Replay(b board.Board, sol Solution) []board.Board {
	states := make([]board.Board, 0, len(sol.Moves)+1)
	cur := b.PlaceSnake(sol.Start)
	states = append(states, cur)
	for _, d := range sol.Moves {
		cur = cur.Move(d)
		states = append(states, cur)
	}
	return states
}
