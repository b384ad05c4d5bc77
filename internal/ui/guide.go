package ui

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// GuideText is the quickstart guide, shared with `snekctl guide`.
//
//go:embed quickstart.md
var GuideText string

// glamourGutter is subtracted from the wrap width to match Glamour's margin.
const glamourGutter = 2

// RenderGuide renders the quickstart with the Vitesse styles at the given
// wrap width. Falls back to the raw markdown if rendering fails.
func RenderGuide(width int) string {
	wrap := width - glamourGutter
	if wrap < 10 {
		wrap = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(MarkdownStyles()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return GuideText
	}
	out, err := r.Render(GuideText)
	if err != nil {
		return GuideText
	}
	return trimEdgeBlankLines(out)
}

// openGuide sizes and fills the guide viewport overlay.
func (m *model) openGuide() {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	vp := viewport.New(w, h)
	vp.SetContent(RenderGuide(w))
	m.guideVP = vp
	m.guideOpen = true
}

// trimEdgeBlankLines drops leading/trailing blank lines Glamour adds around
// the document.
func trimEdgeBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
