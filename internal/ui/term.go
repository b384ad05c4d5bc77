package ui

import (
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/xpty"
	"github.com/mattn/go-runewidth"

	"snekctl/internal/system"
)

// termPaneSize derives the PTY grid from the window, leaving room for the
// pane border, the input box, and the status bar.
func termPaneSize(width, height int) (cols, rows int) {
	cols = width - 4
	if cols < 20 {
		cols = 20
	}
	rows = height - 9
	if rows < 5 {
		rows = 5
	}
	return cols, rows
}

// startPTYCmd spawns the interactive dev shell on a fresh PTY. The child
// gets the assembled environment when one is available, so the pane behaves
// exactly like `snekctl shell`.
func startPTYCmd(info ShellInfo, cwd string, cols, rows int) tea.Cmd {
	return func() tea.Msg {
		p, err := xpty.NewPty(cols, rows)
		if err != nil {
			return ptyStartErrMsg{err: err.Error()}
		}
		sh, shArgs := system.DefaultShell()
		c := exec.Command(sh, shArgs...)
		c.Dir = cwd
		env := os.Environ()
		if info.Env != nil {
			env = info.Env.Environ(os.Environ())
		}
		c.Env = append(env, system.NestGuardVar+"=1", "TERM=xterm-256color")
		if err := p.Start(c); err != nil {
			_ = p.Close()
			return ptyStartErrMsg{err: err.Error()}
		}
		return ptyStartedMsg{pty: p, cols: cols, rows: rows}
	}
}

// readPTYOnceCmd schedules a single PTY read.
func readPTYOnceCmd(p xpty.Pty) tea.Cmd {
	return func() tea.Msg {
		buf := make([]byte, 4096)
		n, err := p.Read(buf)
		if n > 0 {
			return ptyChunkMsg{data: buf[:n]}
		}
		if err != nil {
			return ptyClosedMsg{}
		}
		return nil
	}
}

// writePTYCmd writes raw bytes to the PTY.
func writePTYCmd(p xpty.Pty, data []byte) tea.Cmd {
	return func() tea.Msg {
		_, _ = p.Write(data)
		return nil
	}
}

// render tick for terminal pane (throttled ~30fps)
func termTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(time.Time) tea.Msg { return termRenderTickMsg{} })
}

// closeTerm tears the pane down; safe to call when nothing is open.
func (m *model) closeTerm() {
	if m.pty != nil {
		_ = m.pty.Close()
	}
	m.pty = nil
	m.termVT = nil
	m.termMode = false
	m.termFocus = false
	m.oscPending = false
}

// renderTermScreen renders the VT screen, overlaying a visible cursor at the
// emulator cursor position when the pane has focus. Presentation only; the
// emulator state is not mutated.
func (m *model) renderTermScreen() string {
	if m.termVT == nil {
		return ""
	}
	out := m.termVT.Render()
	// Strip OSC sequences (e.g. OSC 11 background reports) so shell startup
	// chatter cannot leak control codes into the host terminal.
	out = stripOSC(out)
	if !m.termFocus {
		return out
	}
	pos := m.termVT.CursorPosition()
	cx, cy := pos.X, pos.Y
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	lines := strings.Split(out, "\r\n")
	for len(lines) <= cy {
		lines = append(lines, "")
	}
	lines[cy] = overlayCursorOnAnsiLine(lines[cy], cx)
	return strings.Join(lines, "\r\n")
}

// overlayCursorOnAnsiLine returns the line with an inverse-video cursor at
// the given column. It preserves existing ANSI SGR sequences and counts
// display width correctly across runes. If the column is past the end, pads
// spaces and appends an inverse space.
func overlayCursorOnAnsiLine(line string, col int) string {
	if col < 0 {
		col = 0
	}
	var b strings.Builder
	b.Grow(len(line) + 16)
	visible := 0
	i := 0
	for i < len(line) {
		if line[i] == 0x1b { // ESC ... CSI or SGR
			j := i + 1
			if j < len(line) && (line[j] == '[' || line[j] == ']' || line[j] == '(' || line[j] == ')' || line[j] == 'P') {
				j++
				for j < len(line) {
					ch := line[j]
					// OSC (ESC]) ends with BEL (0x07) or ST (ESC\)
					if line[i+1] == ']' {
						if ch == 0x07 {
							j++
							break
						}
						if ch == '\\' && j > i+1 && line[j-1] == 0x1b {
							j++
							break
						}
					}
					// CSI/other: final byte in 0x40..0x7E
					if ch >= 0x40 && ch <= 0x7e {
						j++
						break
					}
					j++
				}
			}
			b.WriteString(line[i:j])
			i = j
			continue
		}
		r, sz := utf8.DecodeRuneInString(line[i:])
		if r == utf8.RuneError && sz == 1 {
			if visible == col {
				b.WriteString("\x1b[7m")
				b.WriteByte(line[i])
				b.WriteString("\x1b[27m")
			} else {
				b.WriteByte(line[i])
			}
			visible++
			i++
			continue
		}
		width := runewidth.RuneWidth(r)
		if width <= 0 {
			width = 1
		}
		if visible == col {
			b.WriteString("\x1b[7m")
			b.WriteString(line[i : i+sz])
			b.WriteString("\x1b[27m")
		} else {
			b.WriteString(line[i : i+sz])
		}
		visible += width
		i += sz
	}
	if col >= visible {
		if pad := col - visible; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString("\x1b[7m \x1b[27m")
	}
	return b.String()
}

// stripOSC removes OSC escape sequences from a string. OSC sequences start with
// ESC ] and end with BEL (0x07) or ST (ESC \).
func stripOSC(s string) string {
	b := strings.Builder{}
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] == 0x1b { // ESC
			if i+1 < len(s) && s[i+1] == ']' {
				j := i + 2
				for j < len(s) {
					if s[j] == 0x07 { // BEL
						j++
						break
					}
					if s[j] == '\\' && j > i+1 && s[j-1] == 0x1b { // ESC \
						j++
						break
					}
					j++
				}
				i = j
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// stripOSCBytesState removes OSC sequences from a byte stream while tracking
// state across chunks, so a sequence split over two reads is still skipped.
func stripOSCBytesState(b []byte, oscPending *bool) []byte {
	out := make([]byte, 0, len(b))
	i := 0
	for i < len(b) {
		if *oscPending {
			for i < len(b) {
				if b[i] == 0x07 { // BEL
					i++
					*oscPending = false
					break
				}
				if b[i] == '\\' && i > 0 && b[i-1] == 0x1b { // ESC \
					i++
					*oscPending = false
					break
				}
				i++
			}
			continue
		}
		if b[i] == 0x1b && i+1 < len(b) && b[i+1] == ']' { // OSC start
			*oscPending = true
			i += 2
			continue
		}
		out = append(out, b[i])
		i++
	}
	return out
}
