package shellenv

import "strings"

// Script renders the environment as POSIX export lines, the `snekctl env`
// surface meant for `eval` and direnv. The rendering is a pure function of
// the descriptor and lock: the inherited PATH is referenced, not captured,
// so the same lock always produces the same bytes.
func (e Environment) Script() string {
	var b strings.Builder
	for _, v := range e.Vars {
		b.WriteString("export ")
		b.WriteString(v.Name)
		b.WriteString("=")
		b.WriteString(shQuote(v.Value))
		b.WriteString("\n")
	}
	dirs := e.ToolPathList()
	b.WriteString("export PATH=")
	if len(dirs) > 0 {
		b.WriteString(shQuote(strings.Join(dirs, ":") + ":"))
	}
	b.WriteString(`"$PATH"`)
	b.WriteString("\n")
	return b.String()
}

// shQuote single-quotes s for POSIX shells, closing and reopening around
// embedded single quotes.
func shQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, "'\\$`\" \t\n*?[]()<>|;&~#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
