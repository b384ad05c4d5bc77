package ui

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/vt"
	"github.com/charmbracelet/x/xpty"
	"github.com/fsnotify/fsnotify"

	"snekctl/internal/lockfile"
	"snekctl/internal/system"
	"snekctl/internal/tools"
)

// Model for the workbench dashboard
type model struct {
	info     ShellInfo
	loaded   bool
	probes   map[string]tools.Result
	probing  bool
	quitting bool

	// Sequential sync flow
	syncing      bool
	syncList     []syncItem
	syncIndex    int
	syncDone     int
	syncLock     lockfile.Lock
	syncSpinner  spinner.Model
	syncProgress progress.Model

	cwd    string
	width  int
	height int

	// input
	ti        textinput.Model
	lastInput string

	// status bar state
	now          time.Time
	git          system.GitInfo
	lastGitCheck time.Time

	// slash commands UI state
	slashVisible  bool
	slashFiltered []SlashCmd
	slashIndex    int
	paletteOpen   bool
	notice        string

	// transient status-bar hint
	hintText  string
	hintUntil time.Time

	// quit confirmation overlay
	confirmQuit  bool
	confirmIndex int

	// dashboard pane focus: 0 shell card, 1 toolchain card, 2 ops
	focusedPane int

	// operations list (right card)
	ops list.Model

	// guide overlay
	guideOpen bool
	guideVP   viewport.Model

	// embedded dev shell terminal pane
	termMode   bool
	termFocus  bool
	pty        xpty.Pty
	termVT     *vt.Emulator
	oscPending bool

	// fsnotify watcher for descriptor/lock changes
	watcher *fsnotify.Watcher
	watchCh chan struct{}
}

func initialModel() model {
	wd, _ := os.Getwd()
	m := model{
		probes: make(map[string]tools.Result, 8),
		cwd:    wd,
	}
	// text input setup
	ti := textinput.New()
	ti.Prompt = " > "
	ti.Placeholder = "Type / for commands, e.g. /sync"
	ti.CharLimit = 4096
	ti.Blur() // start blurred; open via Ctrl+P
	m.ti = ti
	// initialize slash suggestions (hidden at start)
	m.refreshSlash()

	m.ops = newOpsList()

	// transient operations hint in status bar
	m.hintText = "Keys: Enter run selected op · Ctrl+P palette · Ctrl+T shell pane · Esc cancel · Ctrl+C quit"
	m.hintUntil = time.Now().Add(6 * time.Second)
	return m
}

// public constructor for app
func InitialModel() tea.Model { return initialModel() }

func (m model) Init() tea.Cmd {
	return tea.Batch(shellInfoCmd(m.cwd), tickCmd(), gitInfoCmd(m.cwd), startWatchCmd(m.cwd))
}
