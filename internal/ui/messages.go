package ui

import (
	"time"

	"github.com/charmbracelet/x/xpty"

	"snekctl/internal/lockfile"
	"snekctl/internal/system"
	"snekctl/internal/tools"
)

// Bubble Tea messages
type probeMsg struct {
	name   string
	result tools.Result
}

// shell info refresh (descriptor + lock + env summary)
type shellInfoMsg struct{ info ShellInfo }

// sync flow messages
type startSyncMsg struct{}
type syncStepMsg struct {
	name  string
	note  string
	entry lockfile.Entry
	err   error
}
type syncWrittenMsg struct {
	path string
	err  error
}

// doctor summary for the notice line
type doctorDoneMsg struct {
	summary string
	err     error
}

// solve finished and was recorded; the recent list needs a reload
type solveDoneMsg struct{ note string }

// generic notifications and quit
type noticeMsg string
type quitMsg struct{}

// periodic tick for status bar time
type tickMsg time.Time

// git info updates
type gitInfoMsg struct{ info system.GitInfo }

// descriptor/lock file change detected on disk
type fileChangedMsg struct{}

// guide overlay
type openGuideMsg struct{}

// terminal pane lifecycle
type startTermMsg struct{}
type ptyStartedMsg struct {
	pty  xpty.Pty
	cols int
	rows int
}
type ptyStartErrMsg struct{ err string }
type ptyChunkMsg struct{ data []byte }
type ptyClosedMsg struct{}
type termRenderTickMsg struct{}
