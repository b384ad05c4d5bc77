// Package playui steps through a solved snek board in a small interactive
// player: the winning slides replay one by one, with the usual transport keys.
package playui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"snekctl/internal/board"
	"snekctl/internal/solver"
	uistyle "snekctl/internal/ui"
)

// Run plays sol on b until the user quits.
func Run(b board.Board, sol solver.Solution) error {
	m := newModel(b, sol)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

const (
	minInterval = 100 * time.Millisecond
	maxInterval = 1200 * time.Millisecond
)

type stepTickMsg struct{ seq int }

func stepTick(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return stepTickMsg{seq: seq} })
}

type model struct {
	sol    solver.Solution
	states []board.Board

	step    int
	playing bool
	// tickSeq invalidates queued ticks after pause/seek so resuming never
	// double-advances
	tickSeq  int
	interval time.Duration

	prog   progress.Model
	width  int
	height int
}

func newModel(b board.Board, sol solver.Solution) model {
	pr := progress.New(progress.WithDefaultGradient(), progress.WithWidth(32), progress.WithoutPercentage())
	return model{
		sol:      sol,
		states:   solver.Replay(b, sol),
		playing:  true,
		tickSeq:  1,
		interval: 450 * time.Millisecond,
		prog:     pr,
	}
}

func (m model) Init() tea.Cmd {
	return stepTick(m.tickSeq, m.interval)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			if m.step >= len(m.states)-1 {
				// replay from the top when toggled at the end
				m.step = 0
			}
			m.playing = !m.playing
			m.tickSeq++
			if m.playing {
				return m, stepTick(m.tickSeq, m.interval)
			}
			return m, nil
		case "right", "l", "n":
			m.playing = false
			m.tickSeq++
			if m.step < len(m.states)-1 {
				m.step++
			}
			return m, nil
		case "left", "h", "p":
			m.playing = false
			m.tickSeq++
			if m.step > 0 {
				m.step--
			}
			return m, nil
		case "r", "home":
			m.step = 0
			m.playing = true
			m.tickSeq++
			return m, stepTick(m.tickSeq, m.interval)
		case "end":
			m.playing = false
			m.tickSeq++
			m.step = len(m.states) - 1
			return m, nil
		case "+", "=":
			m.interval -= 100 * time.Millisecond
			if m.interval < minInterval {
				m.interval = minInterval
			}
			return m, nil
		case "-":
			m.interval += 100 * time.Millisecond
			if m.interval > maxInterval {
				m.interval = maxInterval
			}
			return m, nil
		}
		return m, nil

	case stepTickMsg:
		if msg.seq != m.tickSeq || !m.playing {
			return m, nil
		}
		if m.step < len(m.states)-1 {
			m.step++
		}
		if m.step >= len(m.states)-1 {
			m.playing = false
			return m, nil
		}
		return m, stepTick(m.tickSeq, m.interval)
	}
	return m, nil
}

var (
	rockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cherryStyle = lipgloss.NewStyle().Foreground(uistyle.Vitesse.Red)
	bodyStyle   = lipgloss.NewStyle().Foreground(uistyle.Vitesse.Primary)
	headStyle   = lipgloss.NewStyle().Bold(true).Foreground(uistyle.Vitesse.Yellow)
	mutedStyle  = lipgloss.NewStyle().Foreground(uistyle.Vitesse.Secondary)
)

// tileCell renders one grid cell two columns wide. FillRight keeps the grid
// aligned even on terminals that draw these runes double width.
func tileCell(t board.Tile) string {
	switch t {
	case board.Rock:
		return rockStyle.Render(runewidth.FillRight("█", 2))
	case board.Cherry:
		return cherryStyle.Render(runewidth.FillRight("●", 2))
	case board.SnakeBody:
		return bodyStyle.Render(runewidth.FillRight("○", 2))
	case board.SnakeHead:
		return headStyle.Render(runewidth.FillRight("@", 2))
	}
	return "  "
}

func renderBoard(b board.Board) string {
	var sb strings.Builder
	for y := 0; y < b.Rows(); y++ {
		sb.WriteString("  ")
		for x := 0; x < b.Cols(); x++ {
			if t, ok := b.At(board.Position{X: x, Y: y}); ok {
				sb.WriteString(tileCell(t))
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m model) View() string {
	var b strings.Builder
	cur := m.states[m.step]

	total := len(m.states) - 1
	b.WriteString("\n  ")
	b.WriteString(uistyle.AccentBold().Render("snekctl play"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d move(s), %d state(s) explored", total, m.sol.States)))
	b.WriteString("\n\n")

	b.WriteString(renderBoard(cur))
	b.WriteString("\n")

	// transport line: position, progress, current action
	frac := 1.0
	if total > 0 {
		frac = float64(m.step) / float64(total)
	}
	state := "⏸"
	if m.playing {
		state = "▶"
	}
	b.WriteString(fmt.Sprintf("  %s %2d/%d  %s\n", state, m.step, total, m.prog.ViewAs(frac)))

	if m.step == 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  placed at %d, %d", m.sol.Start.X, m.sol.Start.Y)))
	} else {
		b.WriteString(mutedStyle.Render("  slide " + m.sol.Moves[m.step-1].String()))
		if cur.Complete() {
			b.WriteString("  " + uistyle.AccentBold().Render("covered!"))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(m.movesLine())
	b.WriteString("\n")

	b.WriteString(mutedStyle.Render("  Space play/pause · ←/→ step · +/- speed · r restart · q quit"))
	b.WriteString("\n")
	return b.String()
}

// movesLine renders the whole slide sequence with the current one highlighted.
func (m model) movesLine() string {
	if len(m.sol.Moves) == 0 {
		return mutedStyle.Render("  already covered at placement")
	}
	parts := make([]string, 0, len(m.sol.Moves))
	for i, d := range m.sol.Moves {
		s := d.String()
		if i == m.step-1 {
			s = uistyle.AccentBold().Render(s)
		} else {
			s = mutedStyle.Render(s)
		}
		parts = append(parts, s)
	}
	line := strings.Join(parts, " ")
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return lipgloss.NewStyle().PaddingLeft(2).Width(w).Render(line)
}
