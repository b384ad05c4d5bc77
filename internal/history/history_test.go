package history

import (
	"fmt"
	"testing"
	"time"

	"snekctl/internal/board"
	"snekctl/internal/solver"
	"snekctl/internal/testutil"
)

func TestAddAndLoad(t *testing.T) {
	testutil.IsolateConfig(t)

	got, err := Load()
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("fresh store = %v", got)
	}

	b := board.Parse("...")
	rec := FromSolution(b, solver.Solution{
		Start:  board.Position{X: 0, Y: 0},
		Moves:  []board.Dir{board.Right},
		States: 3,
		Took:   12 * time.Millisecond,
	})
	if err := Add(rec); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records = %d", len(got))
	}
	r := got[0]
	if !r.Solved || r.Moves != 1 || r.Cherries != 3 || r.TookMS != 12 {
		t.Fatalf("record = %+v", r)
	}
}

func TestAddNewestFirstAndCap(t *testing.T) {
	testutil.IsolateConfig(t)

	for i := 0; i < Keep+5; i++ {
		rec := FromFailure(board.Parse("rr"), i, time.Millisecond)
		if err := Add(rec); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != Keep {
		t.Fatalf("records = %d, want cap %d", len(got), Keep)
	}
	if got[0].States != Keep+4 {
		t.Fatalf("newest first violated: %+v", got[0])
	}
}

func TestRecordShapes(t *testing.T) {
	b := board.Parse(".r\n..")
	fail := FromFailure(b, 9, 5*time.Millisecond)
	if fail.Solved || fail.Rows != 2 || fail.Cols != 2 || fail.Cherries != 3 {
		t.Fatalf("fail record = %+v", fail)
	}
	// Ensure the summary renders without panicking on both shapes.
	for _, r := range []Record{fail, FromSolution(b, solver.Solution{})} {
		_ = fmt.Sprintf("%+v", r)
	}
}
