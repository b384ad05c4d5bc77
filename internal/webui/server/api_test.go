package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"snekctl/internal/descriptor"
	"snekctl/internal/lockfile"
	"snekctl/internal/testutil"
)

func postSolve(t *testing.T, body string) (*httptest.ResponseRecorder, solveResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/solve", strings.NewReader(body))
	rr := httptest.NewRecorder()
	solveHandler(rr, req)
	var resp solveResponse
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode solve response: %v", err)
		}
	}
	return rr, resp
}

func TestSolveHandler(t *testing.T) {
	rr, resp := postSolve(t, `{"board":"..."}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	if !resp.Found {
		t.Fatalf("expected a solution: %+v", resp)
	}
	if len(resp.Moves) != 1 {
		t.Fatalf("moves = %v, want one slide across a single row", resp.Moves)
	}
}

func TestSolveHandlerNoSolution(t *testing.T) {
	// Rocks split the cherries; no single placement can cover both.
	rr, resp := postSolve(t, `{"board":".r.\nrrr\n.r."}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	if resp.Found {
		t.Fatalf("expected no solution, got %+v", resp)
	}
}

func TestSolveHandlerEmptyBoard(t *testing.T) {
	rr, _ := postSolve(t, `{"board":"  \n "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestSolveHandlerRejectsUnknownKeys(t *testing.T) {
	rr, _ := postSolve(t, `{"board":"...","grid":true}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func getStatus(t *testing.T) statusResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rr := httptest.NewRecorder()
	statusHandler(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var resp statusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	return resp
}

func TestStatusHandlerNoDescriptor(t *testing.T) {
	testutil.IsolateConfig(t)
	t.Chdir(t.TempDir())

	resp := getStatus(t)
	if resp.Found {
		t.Fatalf("expected found=false in an empty dir, got %+v", resp)
	}
}

func TestStatusHandlerFreshLock(t *testing.T) {
	testutil.IsolateConfig(t)
	dir := t.TempDir()
	t.Chdir(dir)

	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs", Commit: "abc123"},
		Tools:   []descriptor.Tool{{Name: "go"}},
	}
	dpath := filepath.Join(dir, descriptor.DefaultName)
	if err := descriptor.Save(dpath, d); err != nil {
		t.Fatalf("save descriptor: %v", err)
	}
	lock := lockfile.Lock{
		Version:     lockfile.CurrentVersion,
		Fingerprint: d.Fingerprint(),
		ResolvedAt:  time.Now().UTC(),
		Tools: map[string]lockfile.Entry{
			"go": {Attr: "go", StorePath: "/nix/store/aaaa-go-1.22.4", ToolVersion: "1.22.4"},
		},
	}
	if err := lockfile.Save(lockfile.Path(dpath), lock); err != nil {
		t.Fatalf("save lock: %v", err)
	}

	resp := getStatus(t)
	if !resp.Found {
		t.Fatalf("expected found=true, got %+v", resp)
	}
	if resp.LockState != "fresh" {
		t.Fatalf("lock_state = %q, want fresh", resp.LockState)
	}
	if len(resp.Tools) != 1 || resp.Tools[0].ToolVersion != "1.22.4" {
		t.Fatalf("tools = %+v, want go 1.22.4", resp.Tools)
	}
	if len(resp.Problems) != 0 {
		t.Fatalf("unexpected problems: %v", resp.Problems)
	}
}

func TestStatusHandlerStaleLock(t *testing.T) {
	testutil.IsolateConfig(t)
	dir := t.TempDir()
	t.Chdir(dir)

	d := descriptor.Descriptor{
		Nixpkgs: descriptor.Pin{Ref: "github:NixOS/nixpkgs"},
		Tools:   []descriptor.Tool{{Name: "go"}},
	}
	dpath := filepath.Join(dir, descriptor.DefaultName)
	if err := descriptor.Save(dpath, d); err != nil {
		t.Fatalf("save descriptor: %v", err)
	}
	lock := lockfile.Lock{
		Version:     lockfile.CurrentVersion,
		Fingerprint: "something-else",
		Tools:       map[string]lockfile.Entry{},
	}
	if err := lockfile.Save(lockfile.Path(dpath), lock); err != nil {
		t.Fatalf("save lock: %v", err)
	}

	resp := getStatus(t)
	if resp.LockState != "stale" {
		t.Fatalf("lock_state = %q, want stale", resp.LockState)
	}
}
