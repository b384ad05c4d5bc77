package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// opsItem represents an item in the operations panel.
type opsItem struct {
	title string
	desc  string
	cmd   string // slash command to execute (e.g., "/sync")
}

func (i opsItem) Title() string       { return i.title }
func (i opsItem) Description() string { return i.desc }
func (i opsItem) FilterValue() string { return i.title + " " + i.desc }

// newOpsList constructs the flattened actions list.
func newOpsList() list.Model {
	items := []list.Item{
		opsItem{title: "Shell Pane", desc: "Open the dev shell in a pane", cmd: "/term"},
		opsItem{title: "Sync", desc: "Resolve tools, write lock", cmd: "/sync"},
		opsItem{title: "Doctor", desc: "Verify the dev shell", cmd: "/doctor"},
		opsItem{title: "Probe Tools", desc: "Re-check tool versions", cmd: "/probe"},
		opsItem{title: "Guide", desc: "Quickstart walkthrough", cmd: "/guide"},
		opsItem{title: "Exit", desc: "Quit snekctl", cmd: "/exit"},
	}

	// Use default delegate and adapt styles to Vitesse theme
	d := list.NewDefaultDelegate()
	s := list.NewDefaultItemStyles()
	// Normal item
	s.NormalTitle = s.NormalTitle.Foreground(Vitesse.Text)
	s.NormalDesc = s.NormalDesc.Foreground(Vitesse.Secondary)
	// Selected item: accent colored left border and title/desc
	s.SelectedTitle = s.SelectedTitle.
		BorderForeground(Vitesse.Primary).
		Foreground(Vitesse.Primary)
	s.SelectedDesc = s.SelectedDesc.
		Foreground(Vitesse.Primary)
	// Dimmed when filtering (not commonly used since filter hidden)
	s.DimmedTitle = s.DimmedTitle.Foreground(Vitesse.Secondary)
	s.DimmedDesc = s.DimmedDesc.Foreground(Vitesse.Muted)
	// Highlight filter matches
	s.FilterMatch = lipgloss.NewStyle().Foreground(Vitesse.Yellow).Underline(true)
	d.Styles = s
	l := list.New(items, d, 28, 12)
	// List chrome styles (title/help/status/pagination) use theme colors if shown
	ls := list.DefaultStyles()
	ls.Title = ls.Title.Foreground(Vitesse.Text)
	ls.PaginationStyle = ls.PaginationStyle.Foreground(Vitesse.Secondary)
	ls.HelpStyle = ls.HelpStyle.Foreground(Vitesse.Muted)
	ls.StatusBar = ls.StatusBar.Foreground(Vitesse.Secondary)
	l.Styles = ls
	// Do not render internal title; the card handles captioning itself
	l.Title = ""
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowFilter(false)
	l.SetShowPagination(false)
	// Default to first item
	l.Select(0)
	return l
}

// opsRightWidth returns the desired width for the right operations panel.
func opsRightWidth(total int) int {
	// Target ~30% of total width within sane bounds
	w := total / 3
	if w < 24 {
		w = 24
	}
	if w > 36 {
		w = 36
	}
	if w > total-20 {
		// leave at least 20 cols for the left content
		w = total - 20
	}
	if w < 16 {
		w = 16
	}
	return w
}

// renderOpsPanel returns the operations list view padded to width.
func (m *model) renderOpsPanel(width, height int) string {
	if height < 3 {
		height = 3
	}
	if width < 16 {
		width = 16
	}
	m.ops.SetSize(width, height)
	s := m.ops.View()
	// pad each line to width to avoid bleed-through when joining columns
	return padLinesToWidth(s, width)
}

// getSelectedOps returns the current selected actionable item, or ok=false.
func (m *model) getSelectedOps() (opsItem, bool) {
	it := m.ops.SelectedItem()
	if it == nil {
		return opsItem{}, false
	}
	oi, ok := it.(opsItem)
	if !ok || strings.TrimSpace(oi.cmd) == "" {
		return opsItem{}, false
	}
	return oi, true
}
