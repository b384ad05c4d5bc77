package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"snekctl/internal/board"
	"snekctl/internal/catalog"
	"snekctl/internal/descriptor"
	"snekctl/internal/doctor"
	"snekctl/internal/lockfile"
	"snekctl/internal/shellenv"
	"snekctl/internal/solver"
)

// statusTool is one declared tool joined with its lock entry, when present.
type statusTool struct {
	Name        string `json:"name"`
	Attr        string `json:"attr"`
	StorePath   string `json:"store_path,omitempty"`
	ToolVersion string `json:"tool_version,omitempty"`
}

// statusResponse summarizes the dev shell for the dashboard landing page.
type statusResponse struct {
	Found          bool         `json:"found"`
	DescriptorPath string       `json:"descriptor,omitempty"`
	Pin            string       `json:"pin,omitempty"`
	Problems       []string     `json:"problems,omitempty"`
	Tools          []statusTool `json:"tools,omitempty"`
	Env            []string     `json:"env,omitempty"`
	LockState      string       `json:"lock_state,omitempty"` // missing | stale | fresh
	ResolvedAt     *time.Time   `json:"resolved_at,omitempty"`
}

// statusHandler reports the dev shell state for the working directory the
// server runs in. A missing descriptor is a normal answer, not an error.
func statusHandler(w http.ResponseWriter, r *http.Request) {
	cwd, err := os.Getwd()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errJSON(err))
		return
	}
	dpath, err := descriptor.Find(cwd)
	if errors.Is(err, descriptor.ErrNotFound) {
		writeJSON(w, http.StatusOK, statusResponse{Found: false})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errJSON(err))
		return
	}
	resp := statusResponse{Found: true, DescriptorPath: dpath}

	d, err := descriptor.Load(dpath)
	if err != nil {
		resp.Problems = append(resp.Problems, err.Error())
		writeJSON(w, http.StatusOK, resp)
		return
	}
	cat, _ := catalog.Load()
	resp.Pin = d.Nixpkgs.Short()
	resp.Problems = d.Validate(cat.Known)

	lock, lockErr := lockfile.Load(lockfile.Path(dpath))
	switch {
	case lockErr != nil:
		resp.LockState = "missing"
	case lock.Stale(d.Fingerprint()):
		resp.LockState = "stale"
	default:
		resp.LockState = "fresh"
		t := lock.ResolvedAt
		resp.ResolvedAt = &t
	}

	for _, t := range d.Tools {
		st := statusTool{Name: t.Name, Attr: t.Attr}
		if st.Attr == "" {
			st.Attr = cat.Lookup(t.Name).Attr
		}
		if lockErr == nil {
			if e, ok := lock.Entry(t.Name); ok {
				st.StorePath = e.StorePath
				st.ToolVersion = e.ToolVersion
			}
		}
		resp.Tools = append(resp.Tools, st)
	}
	for _, b := range d.Env {
		s := b.Name + "=" + b.Tool
		if b.Subpath != "" {
			s += "/" + b.Subpath
		}
		resp.Env = append(resp.Env, s)
	}
	writeJSON(w, http.StatusOK, resp)
}

// envResponse is the assembled environment in API form.
type envResponse struct {
	Path   []string       `json:"path"`
	Vars   []shellenv.Var `json:"vars"`
	Script string         `json:"script"`
}

// envHandler assembles the environment from the lock, like `snekctl env`.
func envHandler(w http.ResponseWriter, r *http.Request) {
	env, err := assembleEnv()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errJSON(err))
		return
	}
	writeJSON(w, http.StatusOK, envResponse{
		Path:   env.PathList(),
		Vars:   env.Vars,
		Script: env.Script(),
	})
}

// doctorHandler runs the full check suite; findings travel in the report,
// which is why failures still answer 200.
func doctorHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()
	rep, err := doctor.Run(ctx, doctor.Options{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errJSON(err))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// solveRequest carries the board text, same alphabet as the CLI.
type solveRequest struct {
	Board string `json:"board"`
}

// solveResponse mirrors `snekctl solve --json`.
type solveResponse struct {
	Found  bool           `json:"found"`
	Start  board.Position `json:"start,omitempty"`
	Moves  []string       `json:"moves,omitempty"`
	States int            `json:"states"`
	TookMS int64          `json:"took_ms"`
}

func solveHandler(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errJSON(err))
		return
	}
	if strings.TrimSpace(req.Board) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty board"})
		return
	}
	b := board.Parse(req.Board)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	sol, err := solver.Solve(ctx, b)
	if errors.Is(err, solver.ErrNoSolution) {
		writeJSON(w, http.StatusOK, solveResponse{States: sol.States, TookMS: sol.Took.Milliseconds()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errJSON(err))
		return
	}
	resp := solveResponse{Found: true, Start: sol.Start, States: sol.States, TookMS: sol.Took.Milliseconds()}
	resp.Moves = make([]string, len(sol.Moves))
	for i, m := range sol.Moves {
		resp.Moves[i] = m.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// assembleEnv walks up from the server working directory and builds the
// activated environment, erroring with the same hints the CLI gives.
func assembleEnv() (shellenv.Environment, error) {
	var env shellenv.Environment
	cwd, err := os.Getwd()
	if err != nil {
		return env, err
	}
	dpath, err := descriptor.Find(cwd)
	if err != nil {
		return env, err
	}
	d, err := descriptor.Load(dpath)
	if err != nil {
		return env, err
	}
	cat, _ := catalog.Load()
	if problems := d.Validate(cat.Known); len(problems) > 0 {
		return env, errors.New(strings.Join(problems, "; "))
	}
	lock, err := lockfile.Load(lockfile.Path(dpath))
	if err != nil {
		if os.IsNotExist(err) {
			return env, errors.New("no " + lockfile.DefaultName + "; run `snekctl sync` first")
		}
		return env, err
	}
	if lock.Stale(d.Fingerprint()) {
		return env, errors.New(lockfile.DefaultName + " is stale; run `snekctl sync`")
	}
	base := filepath.SplitList(os.Getenv("PATH"))
	return shellenv.Assemble(d, lock, cat, base)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err, ok := v.(error); ok {
		_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func errJSON(err error) map[string]string { return map[string]string{"error": err.Error()} }
