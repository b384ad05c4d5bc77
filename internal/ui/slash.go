package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"snekctl/internal/tools"
)

type SlashCmd struct {
	Name    string
	Aliases []string
	Desc    string
}

var slashCmds = []SlashCmd{
	{Name: "/term", Aliases: []string{"/shell"}, Desc: "Open the dev shell in a terminal pane"},
	{Name: "/sync", Aliases: []string{"/resolve"}, Desc: "Resolve every tool and write the lockfile"},
	{Name: "/doctor", Aliases: []string{"/check"}, Desc: "Verify the dev shell holds on this machine"},
	{Name: "/probe", Aliases: []string{"/tools"}, Desc: "Re-check installed tool versions"},
	{Name: "/env", Desc: "Show the projected environment variables"},
	{Name: "/solve", Desc: "Solve a board file, e.g. /solve puzzle.txt"},
	{Name: "/guide", Aliases: []string{"/help"}, Desc: "Open the quickstart guide"},
	{Name: "/status", Desc: "One-line dev shell status"},
	{Name: "/reload", Desc: "Re-read devshell.json and the lock"},
	{Name: "/clear", Desc: "Clear the notice line"},
	{Name: "/exit", Aliases: []string{"/quit"}, Desc: "Quit snekctl"},
}

func (m *model) refreshSlash() {
	v := m.ti.Value()
	// slash visible only when input starts with '/'
	if !strings.HasPrefix(v, "/") {
		m.slashVisible = false
		m.slashFiltered = nil
		m.slashIndex = 0
		return
	}
	m.slashVisible = true
	// filter by first token only
	q := strings.TrimSpace(v)
	want := q
	if sp := strings.IndexAny(q, " \t"); sp >= 0 {
		want = q[:sp]
	}
	m.slashFiltered = filterSlashCommands(want)
	if m.slashIndex >= len(m.slashFiltered) {
		m.slashIndex = 0
	}
}

// filterSlashCommands matches name or alias fuzzily against the typed token.
func filterSlashCommands(token string) []SlashCmd {
	// Show all when the token is just '/'
	if token == "/" {
		return slashCmds
	}
	q := strings.TrimPrefix(strings.ToLower(token), "/")
	haystack := make([]string, 0, len(slashCmds)*2)
	owner := make([]int, 0, len(slashCmds)*2)
	for i, c := range slashCmds {
		haystack = append(haystack, strings.TrimPrefix(c.Name, "/"))
		owner = append(owner, i)
		for _, a := range c.Aliases {
			haystack = append(haystack, strings.TrimPrefix(a, "/"))
			owner = append(owner, i)
		}
	}
	matches := fuzzy.Find(q, haystack)
	seen := make(map[int]bool, len(slashCmds))
	res := make([]SlashCmd, 0, len(matches))
	for _, mt := range matches {
		idx := owner[mt.Index]
		if seen[idx] {
			continue
		}
		seen[idx] = true
		res = append(res, slashCmds[idx])
	}
	// Empty means 'no matches'; no fallback to all.
	return res
}

func renderSlashHelp(width int, cmds []SlashCmd, sel int) string {
	// limit list size for readability
	maxItems := 10
	if len(cmds) > maxItems {
		cmds = cmds[:maxItems]
		if sel >= maxItems {
			sel = maxItems - 1
		}
	}
	nameWidth := 16
	inner := width - 2
	if inner < 20 {
		inner = 20
	}
	hl := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render
	var b strings.Builder
	b.WriteString("╭" + strings.Repeat("─", inner) + "╮\n")
	if len(cmds) == 0 {
		line := "  no matches"
		b.WriteString("│")
		b.WriteString(line)
		if pad := inner - xansi.StringWidth(line); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString("│\n")
		b.WriteString("╰" + strings.Repeat("─", inner) + "╯\n")
		b.WriteString("  ↑/↓ select · Tab complete · Enter run · Esc close\n")
		return b.String()
	}
	for i, c := range cmds {
		line := fmt.Sprintf("  %-*s  %s", nameWidth, c.Name, dim(c.Desc))
		if w := xansi.StringWidth(line); w > inner {
			line = xansi.Truncate(line, inner, "")
		}
		if i == sel {
			line = hl(line)
		}
		b.WriteString("│")
		b.WriteString(line)
		if pad := inner - xansi.StringWidth(line); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString("│\n")
	}
	b.WriteString("╰" + strings.Repeat("─", inner) + "╯\n")
	b.WriteString("  ↑/↓ select · Tab complete · Enter run · Esc close\n")
	return b.String()
}

// execSlashLine parses and executes a typed slash command line.
func (m *model) execSlashLine(line string) tea.Cmd {
	s := strings.TrimSpace(line)
	if s == "" || !strings.HasPrefix(s, "/") {
		return nil
	}
	parts := strings.Fields(s)
	return m.execSlashCmd(parts[0], strings.Join(parts[1:], " "))
}

// execSlashCmd executes a slash command by name and optional args.
func (m *model) execSlashCmd(cmd string, args string) tea.Cmd {
	switch canonicalSlash(cmd) {
	case "/exit", "/quit":
		return func() tea.Msg { return quitMsg{} }
	case "/term", "/shell":
		return func() tea.Msg { return startTermMsg{} }
	case "/sync", "/resolve":
		return func() tea.Msg { return startSyncMsg{} }
	case "/doctor", "/check":
		return tea.Batch(
			func() tea.Msg { return noticeMsg("running doctor…") },
			doctorCmd(),
		)
	case "/probe", "/tools":
		if !m.loaded || len(m.info.ToolNames) == 0 {
			return func() tea.Msg { return noticeMsg("no tools declared; run /reload after editing devshell.json") }
		}
		return tea.Batch(
			func() tea.Msg { return noticeMsg("probing tools…") },
			probeToolsCmd(m.info),
		)
	case "/env":
		return func() tea.Msg {
			if m.info.Env == nil {
				return noticeMsg("no usable lock; run /sync first")
			}
			vars := make([]string, 0, len(m.info.Env.Vars)+1)
			for _, v := range m.info.Env.Vars {
				vars = append(vars, v.Name+"="+v.Value)
			}
			vars = append(vars, fmt.Sprintf("PATH+%d dir(s)", len(m.info.Env.ToolPathList())))
			return noticeMsg(strings.Join(vars, " · "))
		}
	case "/solve":
		file := strings.TrimSpace(args)
		if file == "" {
			return func() tea.Msg { return noticeMsg("usage: /solve <board-file>") }
		}
		return tea.Batch(
			func() tea.Msg { return noticeMsg("solving " + file + "…") },
			solveFileCmd(m.cwd, file),
		)
	case "/guide", "/help":
		return func() tea.Msg { return openGuideMsg{} }
	case "/status":
		info := m.info
		probes := m.probes
		return func() tea.Msg { return noticeMsg(statusLine(info, probes)) }
	case "/reload":
		return tea.Batch(
			func() tea.Msg { return noticeMsg("reloading devshell.json…") },
			shellInfoCmd(m.cwd),
		)
	case "/clear":
		return func() tea.Msg { return noticeMsg("") }
	default:
		c := canonicalSlash(cmd)
		return func() tea.Msg {
			var desc string
			for _, sc := range slashCmds {
				if sc.Name == c {
					desc = sc.Desc
					break
				}
			}
			if desc == "" {
				return noticeMsg(fmt.Sprintf("unknown command %s", c))
			}
			return noticeMsg(fmt.Sprintf("%s: %s (not implemented)", c, desc))
		}
	}
}

// statusLine reduces the dev shell state to one line for the notice area.
func statusLine(info ShellInfo, probes map[string]tools.Result) string {
	if !info.HasDescriptor {
		return "no devshell.json; run `snekctl init`"
	}
	parts := make([]string, 0, 4)
	parts = append(parts, fmt.Sprintf("pin %s", info.Pin))
	switch {
	case !info.HasLock:
		parts = append(parts, "lock missing")
	case info.LockStale:
		parts = append(parts, "lock stale")
	default:
		parts = append(parts, fmt.Sprintf("locked %d tool(s)", len(info.Locked)))
	}
	if len(info.Problems) > 0 {
		parts = append(parts, fmt.Sprintf("%d problem(s)", len(info.Problems)))
	}
	ok := 0
	for _, r := range probes {
		if r.Found {
			ok++
		}
	}
	if len(probes) > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d tools on PATH", ok, len(info.ToolNames)))
	}
	return strings.Join(parts, " · ")
}

// canonicalize command including aliases
func canonicalSlash(name string) string {
	n := strings.ToLower(name)
	for _, c := range slashCmds {
		if strings.ToLower(c.Name) == n {
			return c.Name
		}
		for _, a := range c.Aliases {
			if strings.ToLower(a) == n {
				return c.Name
			}
		}
	}
	return n
}
