// Package history keeps a short record of recent solve runs in the user
// config dir, newest first, shown on the dashboard and after `snekctl
// solve`.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"snekctl/internal/board"
	"snekctl/internal/config"
	"snekctl/internal/solver"
)

// Keep caps how many records the store retains.
const Keep = 20

// Record summarizes one solve run.
type Record struct {
	Rows     int            `json:"rows"`
	Cols     int            `json:"cols"`
	Cherries int            `json:"cherries"`
	Solved   bool           `json:"solved"`
	Start    board.Position `json:"start,omitempty"`
	Moves    int            `json:"moves,omitempty"`
	States   int            `json:"states"`
	TookMS   int64          `json:"took_ms"`
	When     time.Time      `json:"when"`
}

// FromSolution builds a record for a solved board.
func FromSolution(b board.Board, sol solver.Solution) Record {
	return Record{
		Rows:     b.Rows(),
		Cols:     b.Cols(),
		Cherries: b.CherryCount(),
		Solved:   true,
		Start:    sol.Start,
		Moves:    len(sol.Moves),
		States:   sol.States,
		TookMS:   sol.Took.Milliseconds(),
		When:     time.Now().UTC(),
	}
}

// FromFailure builds a record for a board with no solution.
func FromFailure(b board.Board, states int, took time.Duration) Record {
	return Record{
		Rows:     b.Rows(),
		Cols:     b.Cols(),
		Cherries: b.CherryCount(),
		States:   states,
		TookMS:   took.Milliseconds(),
		When:     time.Now().UTC(),
	}
}

// Load reads the stored records, newest first. A missing store is empty.
func Load() ([]Record, error) {
	p, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}
	var out []Record
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Add prepends a record and saves, trimming to Keep entries.
func Add(r Record) error {
	cur, err := Load()
	if err != nil {
		return err
	}
	next := append([]Record{r}, cur...)
	if len(next) > Keep {
		next = next[:Keep]
	}
	p, err := config.HistoryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o644)
}
