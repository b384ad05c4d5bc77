// Package board models the snek puzzle: a grid of rocks and cherries on
// which a snake slides in straight lines, growing over every cherry it
// passes. The puzzle is solved when no cherry is left.
package board

import "strings"

// Tile is one cell of the board.
type Tile uint8

const (
	Rock Tile = iota
	Cherry
	SnakeBody
	SnakeHead
)

// Dir is a slide direction. Order matters: moves are explored Up, Down,
// Right, Left.
type Dir uint8

const (
	Up Dir = iota
	Down
	Right
	Left
)

var dirNames = [...]string{"Up", "Down", "Right", "Left"}

func (d Dir) String() string { return dirNames[d] }

// Dirs lists the directions in exploration order.
func Dirs() [4]Dir { return [4]Dir{Up, Down, Right, Left} }

// Position addresses a cell. X runs right, Y runs down.
type Position struct {
	X, Y int
}

// Board is a snapshot of the puzzle state. Rows may have different lengths;
// cells beyond a row's end behave like walls.
type Board struct {
	tiles [][]Tile
}

// Parse reads a board from text: one row per line, 'r' for rock, any other
// character for cherry. Surrounding whitespace is ignored per line and per
// input.
func Parse(input string) Board {
	input = strings.TrimSpace(input)
	if input == "" {
		return Board{}
	}
	lines := strings.Split(input, "\n")
	tiles := make([][]Tile, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		row := make([]Tile, 0, len(line))
		for _, c := range line {
			if c == 'r' {
				row = append(row, Rock)
			} else {
				row = append(row, Cherry)
			}
		}
		tiles = append(tiles, row)
	}
	return Board{tiles: tiles}
}

func (b Board) clone() Board {
	tiles := make([][]Tile, len(b.tiles))
	for i, row := range b.tiles {
		tiles[i] = append([]Tile(nil), row...)
	}
	return Board{tiles: tiles}
}

// Rows returns the number of rows.
func (b Board) Rows() int { return len(b.tiles) }

// Cols returns the widest row length.
func (b Board) Cols() int {
	w := 0
	for _, row := range b.tiles {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// At returns the tile at p and whether p is on the board.
func (b Board) At(p Position) (Tile, bool) {
	if p.Y < 0 || p.Y >= len(b.tiles) {
		return 0, false
	}
	if p.X < 0 || p.X >= len(b.tiles[p.Y]) {
		return 0, false
	}
	return b.tiles[p.Y][p.X], true
}

// CherryCount returns how many cherries remain.
func (b Board) CherryCount() int {
	n := 0
	for _, row := range b.tiles {
		for _, t := range row {
			if t == Cherry {
				n++
			}
		}
	}
	return n
}

// Complete reports whether every cherry has been eaten.
func (b Board) Complete() bool { return b.CherryCount() == 0 }

// StartingPositions returns every cherry cell in row-major order. The snake
// may be placed on any of them.
func (b Board) StartingPositions() []Position {
	var out []Position
	for y, row := range b.tiles {
		for x, t := range row {
			if t == Cherry {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// PlaceSnake returns a copy of the board with the snake head at p.
func (b Board) PlaceSnake(p Position) Board {
	nb := b.clone()
	nb.tiles[p.Y][p.X] = SnakeHead
	return nb
}

// Head returns the snake head position, if the snake has been placed.
func (b Board) Head() (Position, bool) {
	for y, row := range b.tiles {
		for x, t := range row {
			if t == SnakeHead {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// Move slides the snake one direction: the head advances over cherries,
// leaving body behind, until a wall, rock, or body cell blocks it. A move
// blocked immediately returns the board unchanged. Moving an unplaced snake
// is a no-op.
func (b Board) Move(dir Dir) Board {
	nb := b.clone()
	head, ok := nb.Head()
	if !ok {
		return nb
	}
	for {
		next, ok := step(head, dir, nb.tiles)
		if !ok {
			return nb
		}
		switch nb.tiles[next.Y][next.X] {
		case Rock, SnakeBody:
			return nb
		case Cherry:
			nb.tiles[head.Y][head.X] = SnakeBody
			nb.tiles[next.Y][next.X] = SnakeHead
			head = next
		case SnakeHead:
			// A second head cannot exist.
			return nb
		}
	}
}

// step computes the cell one move from p, reporting false at walls. Rows
// shorter than the current one act as walls too.
func step(p Position, dir Dir, tiles [][]Tile) (Position, bool) {
	var n Position
	switch dir {
	case Up:
		n = Position{X: p.X, Y: p.Y - 1}
	case Down:
		n = Position{X: p.X, Y: p.Y + 1}
	case Right:
		n = Position{X: p.X + 1, Y: p.Y}
	case Left:
		n = Position{X: p.X - 1, Y: p.Y}
	}
	if n.Y < 0 || n.Y >= len(tiles) {
		return Position{}, false
	}
	if n.X < 0 || n.X >= len(tiles[n.Y]) {
		return Position{}, false
	}
	return n, true
}

// Moves returns the boards reachable by one slide in each direction, in
// exploration order. Blocked slides yield the board unchanged; the caller's
// visited set drops them.
func (b Board) Moves() []Board {
	dirs := Dirs()
	out := make([]Board, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, b.Move(d))
	}
	return out
}

var tileRunes = [...]byte{'r', '.', 'o', '@'}

// Key renders the board to a compact lossless string, used as the visited
// set key and reversible via DecodeKey.
func (b Board) Key() string {
	var sb strings.Builder
	for i, row := range b.tiles {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, t := range row {
			sb.WriteByte(tileRunes[t])
		}
	}
	return sb.String()
}

// DecodeKey reverses Key.
func DecodeKey(key string) Board {
	if key == "" {
		return Board{}
	}
	lines := strings.Split(key, "\n")
	tiles := make([][]Tile, len(lines))
	for y, line := range lines {
		row := make([]Tile, len(line))
		for x := 0; x < len(line); x++ {
			switch line[x] {
			case 'r':
				row[x] = Rock
			case 'o':
				row[x] = SnakeBody
			case '@':
				row[x] = SnakeHead
			default:
				row[x] = Cherry
			}
		}
		tiles[y] = row
	}
	return Board{tiles: tiles}
}

// String renders the board for humans, same alphabet as Key.
func (b Board) String() string { return b.Key() }
