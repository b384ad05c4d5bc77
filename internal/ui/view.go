package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	appver "snekctl/internal/version"
)

func (m model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	b := &strings.Builder{}

	// Palette floats above everything else.
	if m.paletteOpen {
		b.WriteString(renderCommandPaletteTop(m.width, m.ti.Value(), m.slashFiltered, m.slashIndex))
		b.WriteString("\n")
	}

	switch {
	case m.guideOpen:
		title := renderTopBorderWithTitle(m.guideVP.Width, "Guide", Vitesse.Primary)
		b.WriteString("  " + title + "\n")
		b.WriteString(m.guideVP.View())
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(Vitesse.Muted).Render("  ↑/↓ scroll · Esc close"))
		b.WriteString("\n")
	case m.termMode:
		b.WriteString(m.renderTermPane())
	default:
		// Logo in the top third when there is room for it plus the cards.
		if m.height >= 24 {
			b.WriteString(renderLogoTopThird(m.width, m.height))
			b.WriteString("\n")
		}
		if !m.loaded {
			b.WriteString(renderBanner(m.cwd, []string{"reading devshell.json…"}))
		} else {
			b.WriteString(renderDashFixed(&m, m.cardLines()))
		}
	}

	if m.syncing {
		b.WriteString(m.renderSyncLine())
	}

	// message line just above input: prefer notice (if any), else lastInput
	b.WriteString("\n")
	if m.notice != "" {
		fmt.Fprintf(b, "  %s\n\n", m.notice)
	} else if m.lastInput != "" {
		fmt.Fprintf(b, "  %s\n\n", m.lastInput)
	}

	if m.confirmQuit {
		b.WriteString(m.renderConfirmQuit())
	}

	b.WriteString(zone.Mark("cli.input", renderInputUI(m.width, m.ti.View())))
	// slash dropdown under the input (the palette renders its own list)
	if m.ti.Focused() && m.slashVisible && !m.paletteOpen {
		b.WriteString(renderSlashHelp(m.width, m.slashFiltered, m.slashIndex))
	}
	// status bar just below input (hidden when slash dropdown is visible)
	if !(m.ti.Focused() && m.slashVisible) {
		b.WriteString(m.renderStatusBarLine())
	}
	return zone.Scan(b.String())
}

// cardLines fixes the card height from the window height so the row plus
// chrome fits without scrolling.
func (m model) cardLines() int {
	h := m.height
	if h <= 0 {
		h = 30
	}
	used := 8 // input box, status bar, notice area
	if h >= 24 {
		used += h/3 + 1 // logo area
	}
	lines := h - used - 3
	if lines < 8 {
		lines = 8
	}
	if lines > 18 {
		lines = 18
	}
	return lines
}

// renderSyncLine draws spinner + current tool + progress bar + count.
func (m model) renderSyncLine() string {
	current := ""
	if m.syncIndex < len(m.syncList) {
		current = m.syncList[m.syncIndex].name
	}
	spin := m.syncSpinner.View() + " "
	prog := m.syncProgress.View()
	n := len(m.syncList)
	wnum := lipgloss.Width(fmt.Sprintf("%d", n))
	count := fmt.Sprintf(" %*d/%*d", wnum, m.syncDone, wnum, n)
	cellsAvail := maxInt(0, m.width-lipgloss.Width(spin+prog+count))
	name := lipgloss.NewStyle().Foreground(Vitesse.Yellow).Render(current)
	info := lipgloss.NewStyle().MaxWidth(cellsAvail).Render("Resolving " + name)
	cellsRemaining := maxInt(0, m.width-lipgloss.Width(spin+info+prog+count))
	gap := strings.Repeat(" ", cellsRemaining)
	return "\n  " + spin + info + gap + prog + count + "\n"
}

// renderTermPane draws the embedded dev shell terminal with a titled border.
func (m model) renderTermPane() string {
	cols, rows := termPaneSize(m.width, m.height)
	inner := cols + 2
	title := "Dev Shell"
	if m.termFocus {
		title += " · focused (Esc to release)"
	} else {
		title += " · Enter to focus, q to close"
	}
	top := renderTopBorderWithTitle(inner, title, Vitesse.Primary)

	var body string
	if m.termVT != nil {
		body = m.renderTermScreen()
	} else {
		body = "starting shell…"
	}
	// normalize emulator CRLF to LF for lipgloss
	body = strings.ReplaceAll(body, "\r\n", "\n")
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Vitesse.Primary).
		BorderTop(false).BorderLeft(true).BorderRight(true).BorderBottom(true).
		Width(inner).
		Height(rows)
	return top + "\n" + box.Render(body) + "\n"
}

// renderConfirmQuit draws the y/n overlay box.
func (m model) renderConfirmQuit() string {
	yes := "  Quit  "
	no := "  Cancel  "
	if m.confirmIndex == 0 {
		yes = Button(strings.TrimSpace(yes))
		no = lipgloss.NewStyle().Foreground(Vitesse.Secondary).Render(strings.TrimSpace(no))
	} else {
		yes = lipgloss.NewStyle().Foreground(Vitesse.Secondary).Render(strings.TrimSpace(yes))
		no = Button(strings.TrimSpace(no))
	}
	q := lipgloss.NewStyle().Bold(true).Render("Quit snekctl?")
	line := q + "   " + yes + "  " + no
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Vitesse.Primary).
		Padding(0, 2)
	return "  " + strings.ReplaceAll(box.Render(line), "\n", "\n  ") + "\n\n"
}

// renderStatusBarLine builds the status bar string (one line plus a newline)
// to be placed directly under the input (and slash overlay if visible).
func (m model) renderStatusBarLine() string {
	// show transient hint if active
	now := m.now
	if now.IsZero() {
		now = time.Now()
	}
	if m.hintText != "" && now.Before(m.hintUntil) {
		leftParts := []string{m.hintText}
		rightParts := []string{appver.AppVersion}
		return renderStatusBarStyled(m.width, leftParts, rightParts) + "\n"
	}
	leftParts := []string{now.Format("2006-01-02 15:04:05")}
	if m.loaded && m.info.HasDescriptor {
		switch {
		case !m.info.HasLock:
			leftParts = append(leftParts, "unsynced")
		case m.info.LockStale:
			leftParts = append(leftParts, "stale")
		default:
			leftParts = append(leftParts, "locked")
		}
	}
	// right segments: version + evaluator + git info (if available)
	rightParts := []string{"v" + appver.AppVersion}
	if m.loaded {
		if m.info.EvalBin != "" {
			rightParts = append(rightParts, IconEval())
		} else {
			rightParts = append(rightParts, "no nix")
		}
	}
	if m.git.InRepo {
		rightParts = append(rightParts, IconGit())
		if m.git.Branch != "" {
			rightParts = append(rightParts, m.git.Branch)
		}
		if m.git.ShortSHA != "" {
			rightParts = append(rightParts, m.git.ShortSHA)
		}
		if m.git.Dirty {
			rightParts = append(rightParts, IconDirty())
		}
	}
	return renderStatusBarStyled(m.width, leftParts, rightParts) + "\n"
}

// helper used locally for layout
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
