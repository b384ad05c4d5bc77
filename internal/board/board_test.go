package board

import "testing"

func TestParse(t *testing.T) {
	b := Parse("  .r.\n r.. \n")
	if b.Rows() != 2 || b.Cols() != 3 {
		t.Fatalf("dims = %dx%d", b.Rows(), b.Cols())
	}
	if tile, ok := b.At(Position{X: 1, Y: 0}); !ok || tile != Rock {
		t.Fatalf("tile(1,0) = %v ok=%v", tile, ok)
	}
	if tile, _ := b.At(Position{X: 0, Y: 0}); tile != Cherry {
		t.Fatalf("tile(0,0) = %v", tile)
	}
	if b.CherryCount() != 4 {
		t.Fatalf("cherries = %d, want 4", b.CherryCount())
	}
}

func TestParseEmpty(t *testing.T) {
	b := Parse("   \n  ")
	if b.Rows() != 0 {
		t.Fatalf("rows = %d, want 0", b.Rows())
	}
	if !b.Complete() {
		t.Fatal("empty board has no cherries")
	}
	if got := b.StartingPositions(); len(got) != 0 {
		t.Fatalf("starting positions = %v", got)
	}
}

func TestParseAnyCharIsCherry(t *testing.T) {
	b := Parse("xoz")
	if b.CherryCount() != 3 {
		t.Fatalf("cherries = %d, want 3", b.CherryCount())
	}
}

func TestStartingPositionsRowMajor(t *testing.T) {
	b := Parse("r.\n.r")
	got := b.StartingPositions()
	want := []Position{{X: 1, Y: 0}, {X: 0, Y: 1}}
	if len(got) != len(want) {
		t.Fatalf("positions = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("positions[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMoveSlidesUntilWall(t *testing.T) {
	b := Parse("...").PlaceSnake(Position{X: 0, Y: 0})
	moved := b.Move(Right)

	head, ok := moved.Head()
	if !ok || head != (Position{X: 2, Y: 0}) {
		t.Fatalf("head = %v ok=%v", head, ok)
	}
	if moved.CherryCount() != 0 {
		t.Fatalf("cherries = %d, want 0", moved.CherryCount())
	}
	if moved.Key() != "oo@" {
		t.Fatalf("board = %q", moved.Key())
	}
}

func TestMoveStopsAtRock(t *testing.T) {
	b := Parse("..r.").PlaceSnake(Position{X: 0, Y: 0})
	moved := b.Move(Right)
	if moved.Key() != "o@r." {
		t.Fatalf("board = %q", moved.Key())
	}
}

func TestMoveBlockedReturnsUnchanged(t *testing.T) {
	b := Parse("r.").PlaceSnake(Position{X: 1, Y: 0})
	moved := b.Move(Left)
	if moved.Key() != b.Key() {
		t.Fatalf("board changed: %q -> %q", b.Key(), moved.Key())
	}
	// Wall on the other side too.
	if b.Move(Right).Key() != b.Key() {
		t.Fatal("move into the wall should not change the board")
	}
}

func TestMoveStopsAtBody(t *testing.T) {
	// Snake runs right then down then left; moving up is blocked by its
	// own body after one cell.
	b := Parse("..\n..").PlaceSnake(Position{X: 0, Y: 0})
	b = b.Move(Right) // heads at (1,0)
	b = b.Move(Down)  // heads at (1,1)
	b = b.Move(Left)  // heads at (0,1)
	if b.Key() != "oo\n@o" {
		t.Fatalf("board = %q", b.Key())
	}
	if !b.Complete() {
		t.Fatal("board should be complete")
	}
	// All further moves are blocked.
	up := b.Move(Up)
	if up.Key() != b.Key() {
		t.Fatalf("move up should be blocked by body, got %q", up.Key())
	}
}

func TestMoveRaggedRowActsAsWall(t *testing.T) {
	b := Parse("...\n.").PlaceSnake(Position{X: 2, Y: 0})
	moved := b.Move(Down) // row 1 has no cell at x=2
	if moved.Key() != b.Key() {
		t.Fatalf("board changed: %q", moved.Key())
	}
}

func TestMovesOrder(t *testing.T) {
	b := Parse("...\n...\n...").PlaceSnake(Position{X: 1, Y: 1})
	moves := b.Moves()
	if len(moves) != 4 {
		t.Fatalf("moves = %d", len(moves))
	}
	heads := make([]Position, 0, 4)
	for _, m := range moves {
		h, _ := m.Head()
		heads = append(heads, h)
	}
	want := []Position{{1, 0}, {1, 2}, {2, 1}, {0, 1}} // Up, Down, Right, Left
	for i := range want {
		if heads[i] != want[i] {
			t.Fatalf("heads = %v, want %v", heads, want)
		}
	}
}

func TestKeyRoundtrip(t *testing.T) {
	b := Parse("r..\n...").PlaceSnake(Position{X: 1, Y: 0}).Move(Right)
	key := b.Key()
	back := DecodeKey(key)
	if back.Key() != key {
		t.Fatalf("roundtrip: %q -> %q", key, back.Key())
	}
	h1, _ := b.Head()
	h2, _ := back.Head()
	if h1 != h2 {
		t.Fatalf("head lost in roundtrip: %v vs %v", h1, h2)
	}
}

func TestMoveUnplacedSnakeIsNoop(t *testing.T) {
	b := Parse("...")
	if b.Move(Right).Key() != b.Key() {
		t.Fatal("moving an unplaced snake should do nothing")
	}
}
