package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
)

// renderDashFixed renders the single card row with a fixed number of inner
// lines per card so all three columns line up.
func renderDashFixed(m *model, innerLinesPerCard int) string {
	var b strings.Builder
	b.WriteString(renderDashThreeColsFixed(m, innerLinesPerCard))
	b.WriteString("\n")
	return b.String()
}

// renderDashThreeColsFixed renders a single row with 3 equal-height cards.
func renderDashThreeColsFixed(m *model, innerLines int) string {
	if innerLines < 1 {
		innerLines = 1
	}
	W := m.width
	if W <= 0 {
		W = 80
	}
	gap := 2
	w := calcInnerWidths(W, 3, gap)
	col1 := zone.Mark("dash.card.shell", renderCard(w[0], "Dev Shell", withTopPad(linesShellOverview(w[0], m), 1), innerLines, m.focusedPane == 0))
	col2 := zone.Mark("dash.card.tools", renderCard(w[1], "Toolchain", withTopPad(linesToolchain(w[1], m), 1), innerLines, m.focusedPane == 1))
	// ops card captions itself via the list; no embedded title
	col3 := zone.Mark("dash.card.ops", renderCard(w[2], "", linesOpsEmbedded(w[2], innerLines, m), innerLines, m.focusedPane == 2))
	return joinCols([]string{col1, col2, col3}, w, gap)
}

// withTopPad returns a new slice with n empty lines prefixed before lines.
func withTopPad(lines []string, n int) []string {
	if n <= 0 {
		return lines
	}
	pad := make([]string, n)
	out := make([]string, 0, len(pad)+len(lines))
	out = append(out, pad...)
	out = append(out, lines...)
	return out
}

// calcInnerWidths computes inner content widths (excluding the 2 border characters) for n columns.
func calcInnerWidths(totalW, cols, gap int) []int {
	if cols <= 0 {
		return []int{}
	}
	// Each card has outer width = inner + 2. Total gaps = gap*(cols-1)
	avail := totalW - gap*(cols-1) - 2*cols
	if avail < cols*10 {
		avail = cols * 10
	}
	base := avail / cols
	rem := avail % cols
	out := make([]int, cols)
	for i := 0; i < cols; i++ {
		w := base
		if i < rem {
			w++
		}
		if w < 16 {
			w = 16
		}
		out[i] = w
	}
	return out
}

// renderCard draws a fixed-height card with the title embedded on the top
// border. Focused cards get the accent border.
func renderCard(inner int, title string, lines []string, innerLines int, focused bool) string {
	if inner < 16 {
		inner = 16
	}
	if innerLines < 1 {
		innerLines = 1
	}
	borderColor := Vitesse.Border
	if focused {
		borderColor = Vitesse.Primary
	}
	top := renderTopBorderWithTitle(inner, strings.TrimSpace(title), borderColor)
	body := renderBodyBox(inner, lines, innerLines, borderColor)
	return top + "\n" + body
}

// renderBodyBox renders a fixed-height box with no top border.
func renderBodyBox(inner int, lines []string, fixedLines int, borderColor lipgloss.Color) string {
	if inner < 1 {
		inner = 1
	}
	padLeft := 2
	cw := inner - padLeft
	if cw < 1 {
		cw = 1
	}
	contentStyle := lipgloss.NewStyle().PaddingLeft(padLeft).Width(cw)
	rows := make([]string, fixedLines)
	for i := 0; i < fixedLines; i++ {
		var ln string
		if i < len(lines) {
			ln = lines[i]
		}
		rows[i] = contentStyle.Render(ln)
	}
	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(Vitesse.Bg).
		BorderTop(false).BorderLeft(true).BorderRight(true).BorderBottom(true).
		Width(inner).
		Height(fixedLines)
	return card.Render(strings.Join(rows, "\n"))
}

// renderTopBorderWithTitle composes the top border line with the title embedded.
func renderTopBorderWithTitle(inner int, title string, color lipgloss.Color) string {
	if inner < 1 {
		inner = 1
	}
	border := lipgloss.NewStyle().Foreground(color)
	if title == "" {
		return border.Render("╭" + strings.Repeat("─", inner) + "╮")
	}
	tStyled := AccentBold().Render(title)
	tW := xansi.StringWidth(tStyled)
	// Draw at least one dash before the title to make the header obvious.
	leftFill := 1
	maxTitleW := inner - leftFill - 2
	if maxTitleW < 0 {
		maxTitleW = 0
	}
	if tW > maxTitleW {
		tStyled = clipToWidth(tStyled, maxTitleW)
		tW = xansi.StringWidth(tStyled)
	}
	rightFill := inner - leftFill - tW - 2
	if rightFill < 1 {
		rightFill = 1
	}
	left := border.Render("╭")
	pre := border.Render(strings.Repeat("─", leftFill) + " ")
	post := border.Render(" " + strings.Repeat("─", rightFill) + "╮")
	return left + pre + tStyled + post
}

// clipToWidth trims a string to the given display width (ANSI-safe).
func clipToWidth(s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= maxW {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := xansi.StringWidth(string(r))
		if w+rw > maxW {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String()
}

// joinCols aligns multiple card blocks horizontally with fixed gap.
func joinCols(cols []string, innerWidths []int, gap int) string {
	if len(cols) == 0 {
		return ""
	}
	split := make([][]string, len(cols))
	heights := make([]int, len(cols))
	outerW := make([]int, len(cols))
	for i, c := range cols {
		lines := strings.Split(strings.TrimRight(c, "\n"), "\n")
		split[i] = lines
		heights[i] = len(lines)
		iw := 16
		if i < len(innerWidths) {
			iw = innerWidths[i]
		}
		outerW[i] = iw + 2
	}
	maxH := 0
	for _, h := range heights {
		if h > maxH {
			maxH = h
		}
	}
	var b strings.Builder
	for row := 0; row < maxH; row++ {
		for i := range cols {
			var cell string
			if row < len(split[i]) {
				cell = split[i][row]
			} else {
				cell = strings.Repeat(" ", outerW[i])
			}
			b.WriteString(cell)
			if i != len(cols)-1 {
				b.WriteString(strings.Repeat(" ", gap))
			}
		}
		if row != maxH-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Content providers for cards

// linesShellOverview summarizes the descriptor, the lock, and the projected
// environment for the left card.
func linesShellOverview(inner int, m *model) []string {
	info := m.info
	lines := make([]string, 0, 16)
	if !m.loaded {
		return append(lines, "loading…")
	}
	if !info.HasDescriptor {
		lines = append(lines, "no devshell.json found")
		lines = append(lines, "")
		lines = append(lines, "run `snekctl init` in your project")
		return lines
	}
	lines = append(lines, "pin: "+info.Pin)
	lines = append(lines, fmt.Sprintf("tools: %s", strings.Join(info.ToolNames, ", ")))
	switch {
	case !info.HasLock:
		lines = append(lines, "lock: missing — run /sync")
	case info.LockStale:
		lines = append(lines, "lock: "+IconStale()+" stale — descriptor changed")
	default:
		age := time.Since(info.ResolvedAt).Round(time.Minute)
		lines = append(lines, fmt.Sprintf("lock: %s %d tool(s), synced %s ago", IconLocked(), len(info.Locked), age))
	}
	if info.Env != nil {
		lines = append(lines, fmt.Sprintf("path: +%d dir(s)", len(info.Env.ToolPathList())))
		for _, v := range info.Env.Vars {
			lines = append(lines, clipToWidth("  "+v.Name+"="+v.Value, inner-2))
		}
	} else if len(info.Bindings) > 0 {
		lines = append(lines, "env: "+strings.Join(info.Bindings, ", "))
	}
	for _, p := range info.Problems {
		lines = append(lines, lipgloss.NewStyle().Foreground(Vitesse.Red).Render(clipToWidth("! "+p, inner-2)))
	}
	// recent solve runs
	if len(info.Recent) > 0 {
		lines = append(lines, "")
		lines = append(lines, AccentBold().Render(IconSnake()+" recent solves"))
		for _, r := range info.Recent {
			res := "unsolved"
			if r.Solved {
				res = fmt.Sprintf("%d moves", r.Moves)
			}
			lines = append(lines, clipToWidth(fmt.Sprintf("  %dx%d %s · %d states", r.Cols, r.Rows, res, r.States), inner-2))
		}
	}
	return lines
}

// linesToolchain renders the probe table: tool / locked / installed.
func linesToolchain(inner int, m *model) []string {
	info := m.info
	if !m.loaded {
		return []string{"loading…"}
	}
	if !info.HasDescriptor || len(info.ToolNames) == 0 {
		return []string{"no tools declared"}
	}
	cw := inner - 2
	if cw < 12 {
		cw = inner
	}
	headers := []string{"tool", "locked", "installed"}
	rows := make([][]string, 0, len(info.ToolNames))
	for _, name := range info.ToolNames {
		locked := ""
		if e, ok := info.Locked[name]; ok {
			locked = e.ToolVersion
			if locked == "" {
				locked = "✓"
			}
		}
		installed := ""
		if m.probing {
			installed = "…"
		}
		if res, ok := m.probes[name]; ok {
			switch {
			case !res.Found:
				installed = "×"
			case res.Version != "":
				installed = res.Version
			default:
				installed = "✓"
			}
		}
		rows = append(rows, []string{name, locked, installed})
	}
	out := renderTable(cw, headers, rows)
	if !m.probing && len(m.probes) == 0 {
		out = append(out, "", "press /probe to check versions")
	}
	return out
}

// linesOpsEmbedded renders the ops list inside the card.
func linesOpsEmbedded(inner int, innerLines int, m *model) []string {
	if inner < 8 {
		inner = 8
	}
	if innerLines < 1 {
		innerLines = 1
	}
	// Reserve 1 line as top padding inside the card
	listHeight := innerLines - 1
	if listHeight < 1 {
		listHeight = 1
	}
	s := m.renderOpsPanel(inner, listHeight)
	arr := strings.Split(s, "\n")
	out := make([]string, innerLines)
	out[0] = ""
	for i := 1; i < innerLines; i++ {
		idx := i - 1
		if idx < len(arr) {
			out[i] = arr[idx]
		} else {
			out[i] = ""
		}
	}
	return out
}

// renderTable builds simple left-aligned table lines that fit exactly into cw.
// It computes per-column widths from content with graceful truncation.
func renderTable(cw int, headers []string, rows [][]string) []string {
	if cw < 4 || len(headers) == 0 {
		out := make([]string, 0, len(rows)+1)
		out = append(out, strings.Join(headers, " "))
		for _, r := range rows {
			out = append(out, strings.Join(r, " "))
		}
		return out
	}
	cols := len(headers)
	sep := "  "
	sepW := xansi.StringWidth(sep)
	avail := cw - sepW*(cols-1)
	if avail < cols {
		avail = cols
	}
	// desired widths = max width per column from content
	desired := make([]int, cols)
	widen := func(i int, s string) {
		if w := xansi.StringWidth(s); w > desired[i] {
			desired[i] = w
		}
	}
	for i, h := range headers {
		widen(i, h)
	}
	for _, r := range rows {
		for i := 0; i < cols && i < len(r); i++ {
			widen(i, r[i])
		}
	}
	// allocate widths ensuring sum = avail
	widths := make([]int, cols)
	remaining := avail
	remainCols := cols
	for i := 0; i < cols; i++ {
		maxForThis := remaining - (remainCols - 1)
		if maxForThis < 1 {
			maxForThis = 1
		}
		w := desired[i]
		if w > maxForThis {
			w = maxForThis
		}
		if w < 1 {
			w = 1
		}
		widths[i] = w
		remaining -= w
		remainCols--
	}
	clip := func(s string, w int) string {
		if w <= 0 {
			return ""
		}
		sw := xansi.StringWidth(s)
		if sw == w {
			return s
		}
		if sw < w {
			return s + strings.Repeat(" ", w-sw)
		}
		out := clipToWidth(s, w)
		if xansi.StringWidth(out) < w {
			out += strings.Repeat(" ", w-xansi.StringWidth(out))
		}
		return out
	}
	out := make([]string, 0, len(rows)+1)
	hcells := make([]string, cols)
	for i, h := range headers {
		hcells[i] = AccentBold().Render(clip(h, widths[i]))
	}
	out = append(out, strings.Join(hcells, sep))
	for _, r := range rows {
		cells := make([]string, cols)
		for i := 0; i < cols; i++ {
			var val string
			if i < len(r) {
				val = r[i]
			}
			cells[i] = clip(val, widths[i])
		}
		out = append(out, strings.Join(cells, sep))
	}
	return out
}
