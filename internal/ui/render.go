package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderBanner creates a welcome banner and can include additional lines inside the box.
func renderBanner(cwd string, extra []string) string {
	lines := []string{
		"✻ Welcome to snekctl!",
		"",
		"Ctrl+P opens the palette, /status shows your dev shell",
		"",
	}
	if len(extra) > 0 {
		lines = append(lines, extra...)
		lines = append(lines, "")
	}
	lines = append(lines, fmt.Sprintf("cwd: %s", cwd))

	// compute max display width (ignore ANSI codes)
	max := 0
	for _, ln := range lines {
		if w := xansi.StringWidth(ln); w > max {
			max = w
		}
	}
	top := "╭" + strings.Repeat("─", max+2) + "╮\n"
	bot := "╰" + strings.Repeat("─", max+2) + "╯\n"
	var sb strings.Builder
	sb.WriteString(top)
	for _, ln := range lines {
		pad := max - xansi.StringWidth(ln)
		sb.WriteString("│ ")
		sb.WriteString(ln)
		if pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(" │\n")
	}
	sb.WriteString(bot)
	return sb.String()
}

// renderInputUI draws a single-line bordered input box at the given width.
func renderInputUI(width int, content string) string {
	w := width
	if w <= 0 {
		w = 100
	}
	// Minimum box width to safely draw borders and one space
	if w < 10 {
		w = 10
	}
	inner := w - 2
	// compute display width ignoring ANSI escape codes
	cw := xansi.StringWidth(content)
	if cw > inner {
		cw = inner
	}
	pad := inner - cw
	top := "╭" + strings.Repeat("─", inner) + "╮\n"
	bot := "╰" + strings.Repeat("─", inner) + "╯\n"
	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("│")
	sb.WriteString(content)
	if pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString("│\n")
	sb.WriteString(bot)
	return sb.String()
}

// renderStatusBarStyled renders a segmented status bar with lipgloss
// backgrounds: an accent key chip on the left, colored nuggets on the right,
// and a themed filler in between. Segments drop from the inside out when the
// bar would overflow.
func renderStatusBarStyled(width int, leftParts, rightParts []string) string {
	w := width
	if w <= 0 {
		w = 100
	}

	statusBarStyle := StatusBarBase()
	keyStyle := ChipKeyStyle().Inherit(statusBarStyle).MarginRight(1)

	nugget := lipgloss.NewStyle().
		Foreground(Vitesse.OnAccent).
		Padding(0, 1)

	nuggetBG := []lipgloss.Color{
		Vitesse.Primary,
		Vitesse.Blue,
		Vitesse.Yellow,
		Vitesse.Magenta,
	}

	centerStyle := lipgloss.NewStyle().Inherit(statusBarStyle)

	leftItems := make([]string, 0, len(leftParts))
	for i, s := range leftParts {
		if i == 0 {
			leftItems = append(leftItems, keyStyle.Render(s))
			continue
		}
		bg := nuggetBG[(i-1)%len(nuggetBG)]
		leftItems = append(leftItems, nugget.Background(bg).Render(s))
	}
	leftStr := strings.Join(leftItems, "")

	rightItems := make([]string, 0, len(rightParts))
	for i, s := range rightParts {
		bg := nuggetBG[i%len(nuggetBG)]
		rightItems = append(rightItems, nugget.Background(bg).Render(s))
	}
	rightStr := strings.Join(rightItems, "")

	lw := xansi.StringWidth(leftStr)
	rw := xansi.StringWidth(rightStr)
	inner := w

	rebuild := func(parts []string) (string, int) {
		s := strings.Join(parts, "")
		return s, xansi.StringWidth(s)
	}

	for lw+rw > inner && len(leftItems) > 1 {
		leftItems = leftItems[:len(leftItems)-1]
		leftStr, lw = rebuild(leftItems)
	}
	for lw+rw > inner && len(rightItems) > 0 {
		rightItems = rightItems[:len(rightItems)-1]
		rightStr, rw = rebuild(rightItems)
	}

	centerWidth := inner - lw - rw
	if centerWidth < 0 {
		centerWidth = 0
	}
	center := centerStyle.Width(centerWidth).Render("")

	bar := leftStr + center + rightStr
	return statusBarStyle.Width(w).Render(bar)
}

// padLinesToWidth pads every line of s with spaces up to width (ANSI-safe).
func padLinesToWidth(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		if pad := width - xansi.StringWidth(ln); pad > 0 {
			lines[i] = ln + strings.Repeat(" ", pad)
		}
	}
	return strings.Join(lines, "\n")
}
