package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/vt"
	zone "github.com/lrstanley/bubblezone"

	"snekctl/internal/lockfile"
	"snekctl/internal/tools"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			if zone.Get("cli.input").InBounds(msg) {
				if !m.ti.Focused() {
					m.ti.Focus()
				}
				m.refreshSlash()
				return m, nil
			}
			if zone.Get("dash.card.shell").InBounds(msg) {
				m.focusedPane = 0
				return m, nil
			}
			if zone.Get("dash.card.tools").InBounds(msg) {
				m.focusedPane = 1
				return m, nil
			}
			if zone.Get("dash.card.ops").InBounds(msg) {
				m.focusedPane = 2
				return m, nil
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inner := msg.Width - 2
		if inner < 10 {
			inner = 10
		}
		tiw := inner - 3 // account for " > " prompt
		if tiw < 5 {
			tiw = 5
		}
		m.ti.Width = tiw
		rw := opsRightWidth(m.width)
		m.ops.SetSize(rw, maxInt(6, m.height-6))
		if m.guideOpen {
			m.openGuide()
		}
		// resize the PTY with the pane; the emulator restarts at the new
		// grid and repaints on the shell's SIGWINCH redraw
		if m.termMode && m.pty != nil {
			cols, rows := termPaneSize(m.width, m.height)
			_ = m.pty.Resize(cols, rows)
			if m.termVT != nil {
				m.termVT = vt.NewEmulator(cols, rows)
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case shellInfoMsg:
		m.info = msg.info
		m.loaded = true
		// re-probe against the freshly assembled environment
		m.probes = make(map[string]tools.Result, len(m.info.ToolNames))
		if m.info.HasDescriptor && len(m.info.ToolNames) > 0 {
			m.probing = true
			return m, probeToolsCmd(m.info)
		}
		m.probing = false
		return m, nil

	case probeMsg:
		m.probes[msg.name] = msg.result
		if len(m.probes) >= len(m.info.ToolNames) {
			m.probing = false
		}
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		// Throttle git checks to every 10 seconds
		var cmd tea.Cmd
		if m.lastGitCheck.IsZero() || time.Since(m.lastGitCheck) >= 10*time.Second {
			m.lastGitCheck = time.Now()
			cmd = gitInfoCmd(m.cwd)
		}
		if cmd != nil {
			return m, tea.Batch(tickCmd(), cmd)
		}
		return m, tickCmd()

	case noticeMsg:
		m.notice = string(msg)
		return m, nil

	case gitInfoMsg:
		m.git = msg.info
		return m, nil

	case doctorDoneMsg:
		if msg.err != nil {
			m.notice = "doctor failed: " + msg.err.Error()
		} else {
			m.notice = msg.summary
		}
		return m, nil

	case solveDoneMsg:
		m.notice = msg.note
		// reload so the recent-solves list reflects the new record
		return m, shellInfoCmd(m.cwd)

	case startSyncMsg:
		return m.startSync()

	case syncStepMsg:
		return m.stepSync(msg)

	case syncWrittenMsg:
		m.syncing = false
		if msg.err != nil {
			m.notice = "sync failed: " + msg.err.Error()
			return m, nil
		}
		m.notice = syncSummary(m.syncLock, msg.path)
		// fresh lock: reload info, then re-probe inside the new environment
		return m, shellInfoCmd(m.cwd)

	case spinner.TickMsg:
		if m.syncing {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case progress.FrameMsg:
		if m.syncing {
			nm, cmd := m.syncProgress.Update(msg)
			if newModel, ok := nm.(progress.Model); ok {
				m.syncProgress = newModel
			}
			return m, cmd
		}
		return m, nil

	case quitMsg:
		// Show confirmation overlay instead of immediate quit
		m.paletteOpen = false
		m.slashVisible = false
		m.ti.Blur()
		m.confirmQuit = true
		m.confirmIndex = 1 // default to cancel for safety
		return m, nil

	case openGuideMsg:
		m.openGuide()
		return m, nil

	case watchStartedMsg:
		m.watcher = msg.w
		m.watchCh = msg.ch
		return m, watchSubscribeCmd(m.watchCh)

	case fileChangedMsg:
		m.notice = "devshell.json changed on disk; reloading"
		return m, tea.Batch(shellInfoCmd(m.cwd), watchSubscribeCmd(m.watchCh))

	case startTermMsg:
		if m.termMode {
			m.termFocus = true
			return m, nil
		}
		m.termMode = true
		m.termFocus = true
		cols, rows := termPaneSize(m.width, m.height)
		return m, startPTYCmd(m.info, m.cwd, cols, rows)

	case ptyStartedMsg:
		m.pty = msg.pty
		m.termVT = vt.NewEmulator(msg.cols, msg.rows)
		return m, tea.Batch(readPTYOnceCmd(m.pty), termTickCmd())

	case ptyStartErrMsg:
		m.closeTerm()
		m.notice = "shell pane failed: " + msg.err
		return m, nil

	case ptyChunkMsg:
		if m.termVT != nil && len(msg.data) > 0 {
			data := stripOSCBytesState(msg.data, &m.oscPending)
			if len(data) > 0 {
				_, _ = m.termVT.Write(data)
			}
		}
		if m.pty != nil {
			return m, readPTYOnceCmd(m.pty)
		}
		return m, nil

	case ptyClosedMsg:
		m.closeTerm()
		m.notice = "dev shell closed"
		return m, nil

	case termRenderTickMsg:
		if m.termMode && m.pty != nil {
			// keep ticking while the pane is open so renders stay fresh
			return m, termTickCmd()
		}
		return m, nil
	}
	return m, nil
}

// updateKey routes key presses by overlay/focus priority: quit confirm,
// terminal pane, guide, palette/input, then the dash itself.
func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Always allow Ctrl+C to quit, even when input is focused
	if msg.String() == "ctrl+c" && !(m.termMode && m.termFocus) {
		m.quitting = true
		return m, m.shutdown()
	}

	// Quit confirmation overlay has highest priority
	if m.confirmQuit {
		switch msg.String() {
		case "left", "right", "tab", "shift+tab":
			if m.confirmIndex == 0 {
				m.confirmIndex = 1
			} else {
				m.confirmIndex = 0
			}
			return m, nil
		case "y":
			m.quitting = true
			return m, m.shutdown()
		case "n", "esc":
			m.confirmQuit = false
			return m, nil
		}
		if msg.Type == tea.KeyEnter {
			if m.confirmIndex == 0 {
				m.quitting = true
				return m, m.shutdown()
			}
			m.confirmQuit = false
			return m, nil
		}
		return m, nil
	}

	// Terminal pane focus: forward keys to the PTY
	if m.termMode && m.termFocus && m.pty != nil {
		switch msg.String() {
		case "esc":
			m.termFocus = false
			return m, nil
		case "ctrl+c":
			return m, writePTYCmd(m.pty, []byte{0x03})
		case "ctrl+l":
			return m, writePTYCmd(m.pty, []byte{0x0c})
		case "ctrl+d":
			return m, writePTYCmd(m.pty, []byte{0x04})
		}
		if data := keyToBytes(msg); len(data) > 0 {
			return m, writePTYCmd(m.pty, data)
		}
		return m, nil
	}
	// Terminal pane blurred: Enter refocuses, q closes
	if m.termMode {
		switch msg.String() {
		case "enter":
			m.termFocus = true
			return m, nil
		case "q", "esc":
			m.closeTerm()
			return m, nil
		}
		return m, nil
	}

	// Guide overlay scrolls until closed
	if m.guideOpen {
		switch msg.String() {
		case "esc", "q":
			m.guideOpen = false
			return m, nil
		}
		var cmd tea.Cmd
		m.guideVP, cmd = m.guideVP.Update(msg)
		return m, cmd
	}

	// Open command palette (Ctrl+P; Cmd variants if the terminal forwards them)
	sw := msg.String()
	if sw == "cmd+p" || sw == "cmd+shift+p" || sw == "shift+cmd+p" || sw == "ctrl+p" {
		if !m.ti.Focused() {
			m.ti.Focus()
		}
		m.paletteOpen = true
		m.ti.SetValue("")
		m.slashIndex = 0
		m.refreshSlash()
		return m, nil
	}
	// Ctrl+T opens the shell pane from anywhere
	if sw == "ctrl+t" {
		return m, func() tea.Msg { return startTermMsg{} }
	}

	if msg.String() == "esc" && (m.ti.Focused() || m.paletteOpen) {
		m.ti.Blur()
		m.slashVisible = false
		m.paletteOpen = false
		m.ti.SetValue("")
		return m, nil
	}

	// when input focused, handle typing, slash nav, and submit
	if m.ti.Focused() {
		if m.slashVisible {
			switch msg.String() {
			case "up":
				if len(m.slashFiltered) > 0 {
					m.slashIndex--
					if m.slashIndex < 0 {
						m.slashIndex = len(m.slashFiltered) - 1
					}
				}
				return m, nil
			case "down":
				if len(m.slashFiltered) > 0 {
					m.slashIndex++
					if m.slashIndex >= len(m.slashFiltered) {
						m.slashIndex = 0
					}
				}
				return m, nil
			case "tab":
				// Autocomplete to the selected slash command
				if len(m.slashFiltered) > 0 {
					sel := m.slashFiltered[m.slashIndex].Name
					v := m.ti.Value()
					if sp := strings.IndexAny(v, " \t"); sp >= 0 {
						v = sel + v[sp:]
					} else {
						v = sel + " "
					}
					m.ti.SetValue(v)
				}
				return m, nil
			}
		}
		if msg.Type == tea.KeyEnter {
			val := strings.TrimSpace(m.ti.Value())
			// built-in plain commands (no slash needed)
			switch strings.ToLower(val) {
			case "exit", "quit":
				m.ti.SetValue("")
				m.slashVisible = false
				m.paletteOpen = false
				return m, func() tea.Msg { return quitMsg{} }
			}
			// execute selection if visible; anything typed after the first
			// token rides along as arguments
			if m.slashVisible && len(m.slashFiltered) > 0 {
				cmdStr := m.slashFiltered[m.slashIndex].Name
				rest := ""
				if sp := strings.IndexAny(val, " \t"); sp >= 0 {
					rest = strings.TrimSpace(val[sp+1:])
				}
				m.ti.SetValue("")
				m.slashVisible = false
				m.paletteOpen = false
				m.ti.Blur()
				return m, m.execSlashCmd(cmdStr, rest)
			}
			// execute typed slash command
			if strings.HasPrefix(val, "/") {
				m.ti.SetValue("")
				m.slashVisible = false
				m.paletteOpen = false
				m.ti.Blur()
				return m, m.execSlashLine(val)
			}
			if val == "" {
				return m, nil
			}
			// normal submit: echo above the input
			m.lastInput = m.ti.Value()
			m.ti.SetValue("")
			m.notice = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		m.refreshSlash()
		return m, cmd
	}

	// dash shortcuts: pane focus and ops navigation
	switch msg.String() {
	case "ctrl+h":
		if m.focusedPane > 0 {
			m.focusedPane--
		}
		return m, nil
	case "ctrl+l":
		if m.focusedPane < 2 {
			m.focusedPane++
		}
		return m, nil
	case "ctrl+j":
		// single row; treat as move right
		if m.focusedPane < 2 {
			m.focusedPane++
		}
		return m, nil
	case "ctrl+k":
		// single row; treat as move left
		if m.focusedPane > 0 {
			m.focusedPane--
		}
		return m, nil
	}
	if m.focusedPane == 2 {
		switch msg.Type {
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.ops, cmd = m.ops.Update(msg)
			return m, cmd
		}
		if s := msg.String(); s == "k" || s == "j" {
			var cmd tea.Cmd
			m.ops, cmd = m.ops.Update(msg)
			return m, cmd
		}
		if msg.Type == tea.KeyEnter {
			if oi, ok := m.getSelectedOps(); ok {
				return m, m.execSlashCmd(oi.cmd, "")
			}
		}
	}
	return m, nil
}

// startSync kicks off the sequential resolve flow.
func (m model) startSync() (tea.Model, tea.Cmd) {
	if m.syncing {
		return m, nil
	}
	if !m.loaded || !m.info.HasDescriptor {
		m.notice = "no devshell.json; run `snekctl init` first"
		return m, nil
	}
	if len(m.info.Problems) > 0 {
		m.notice = "descriptor has problems; fix devshell.json first"
		return m, nil
	}
	list := buildSyncList(m.info)
	if len(list) == 0 {
		m.notice = "no tools declared"
		return m, nil
	}
	m.syncing = true
	m.syncList = list
	m.syncIndex = 0
	m.syncDone = 0
	m.syncLock = lockfile.Lock{
		Version:     lockfile.CurrentVersion,
		Fingerprint: m.info.Descriptor.Fingerprint(),
		ResolvedAt:  time.Now().UTC(),
		Tools:       map[string]lockfile.Entry{},
	}
	sp := spinner.New()
	sp.Style = lipgloss.NewStyle().Foreground(Vitesse.Primary)
	m.syncSpinner = sp
	m.syncProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage())
	m.hintText = "Syncing: resolving tools under " + m.info.Pin
	m.hintUntil = time.Now().Add(6 * time.Second)
	cmds := []tea.Cmd{
		m.syncSpinner.Tick,
		m.syncProgress.SetPercent(0),
		syncOneCmd(m.info.Descriptor.Nixpkgs, m.syncList[0]),
	}
	return m, tea.Batch(cmds...)
}

// stepSync records one resolve result and chains the next tool, or writes
// the lock when every tool resolved.
func (m model) stepSync(msg syncStepMsg) (tea.Model, tea.Cmd) {
	if !m.syncing {
		return m, nil
	}
	if msg.err != nil {
		// sync aborts on the first failure so a half-resolved lock is
		// never written
		m.syncing = false
		m.notice = "sync aborted: " + msg.name + " failed to resolve"
		return m, tea.Printf("× %s %v", msg.name, msg.err)
	}
	m.syncLock.Tools[msg.name] = msg.entry
	m.syncDone++
	m.syncIndex++
	cmds := []tea.Cmd{tea.Printf("✓ %s %s", msg.name, msg.note)}
	if n := len(m.syncList); n > 0 {
		cmds = append(cmds, m.syncProgress.SetPercent(float64(m.syncDone)/float64(n)))
	}
	if m.syncIndex >= len(m.syncList) {
		cmds = append(cmds, writeLockCmd(m.info.DescriptorPath, m.syncLock))
		return m, tea.Batch(cmds...)
	}
	cmds = append(cmds, syncOneCmd(m.info.Descriptor.Nixpkgs, m.syncList[m.syncIndex]))
	return m, tea.Batch(cmds...)
}

// shutdown releases the watcher and PTY before quitting.
func (m *model) shutdown() tea.Cmd {
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	m.closeTerm()
	return tea.Quit
}

// keyToBytes converts a key press into the bytes to feed the PTY.
func keyToBytes(msg tea.KeyMsg) []byte {
	switch msg.Type {
	case tea.KeyEnter:
		return []byte{'\r'}
	case tea.KeyBackspace:
		return []byte{0x7f}
	case tea.KeyTab:
		return []byte{'\t'}
	case tea.KeySpace:
		return []byte{' '}
	case tea.KeyUp:
		return []byte("\x1b[A")
	case tea.KeyDown:
		return []byte("\x1b[B")
	case tea.KeyRight:
		return []byte("\x1b[C")
	case tea.KeyLeft:
		return []byte("\x1b[D")
	case tea.KeyHome:
		return []byte("\x1b[H")
	case tea.KeyEnd:
		return []byte("\x1b[F")
	case tea.KeyRunes:
		return []byte(string(msg.Runes))
	}
	return nil
}
