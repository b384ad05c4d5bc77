package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snekctl/internal/board"
	"snekctl/internal/doctor"
	"snekctl/internal/history"
	"snekctl/internal/solver"
	"snekctl/internal/system"
	"snekctl/internal/tools"
)

// probeToolsCmd probes every declared tool, one message per result. Probes
// run inside the assembled environment when info carries one, otherwise
// against the plain process PATH.
func probeToolsCmd(info ShellInfo) tea.Cmd {
	var pathList, environ []string
	if info.Env != nil {
		pathList = info.Env.PathList()
		environ = info.Env.Environ(nil)
	}
	names := info.ToolNames
	cmds := make([]tea.Cmd, 0, len(names))
	for _, name := range names {
		name := name
		e := info.Catalog.Lookup(name)
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			res := tools.Run(ctx, tools.Probe{
				Name:        name,
				Binaries:    e.Binaries,
				VersionArgs: e.VersionArgs,
			}, pathList, environ)
			return probeMsg{name: name, result: res}
		})
	}
	return tea.Batch(cmds...)
}

// doctorCmd runs the full check suite and reduces it to a one-line summary.
func doctorCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		rep, err := doctor.Run(ctx, doctor.Options{})
		if err != nil {
			return doctorDoneMsg{err: err}
		}
		s := fmt.Sprintf("doctor: %d check(s), %d error(s), %d warning(s)", len(rep.Results), rep.Errors, rep.Warnings)
		return doctorDoneMsg{summary: s}
	}
}

// solveFileCmd solves a board file and records the run so the recent list
// on the shell card picks it up.
func solveFileCmd(cwd, file string) tea.Cmd {
	return func() tea.Msg {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return noticeMsg("solve: " + err.Error())
		}
		if strings.TrimSpace(string(raw)) == "" {
			return noticeMsg("solve: empty board")
		}
		b := board.Parse(string(raw))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sol, err := solver.Solve(ctx, b)
		if errors.Is(err, solver.ErrNoSolution) {
			_ = history.Add(history.FromFailure(b, sol.States, sol.Took))
			return solveDoneMsg{note: fmt.Sprintf("no solution (%d states explored)", sol.States)}
		}
		if err != nil {
			return noticeMsg("solve: " + err.Error())
		}
		_ = history.Add(history.FromSolution(b, sol))
		return solveDoneMsg{note: fmt.Sprintf("solved %s in %d move(s) · `snekctl play %s` replays it", filepath.Base(path), len(sol.Moves), file)}
	}
}

// periodic tick command
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// git info command
func gitInfoCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		gi, _ := system.GetGitInfo(ctx, dir)
		return gitInfoMsg{info: gi}
	}
}
