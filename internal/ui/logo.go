package ui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// asciiLogoBlocks returns 6xN blocks for SNEKCTL letters.
func asciiLogoBlocks() [][]string {
	S := []string{
		"  ###### ",
		" ###     ",
		"  #####  ",
		"     ### ",
		"     ### ",
		" ######  ",
	}
	N := []string{
		" ###  ## ",
		" #### ## ",
		" ## #### ",
		" ##  ### ",
		" ##   ## ",
		" ##   ## ",
	}
	E := []string{
		" ####### ",
		" ###     ",
		" #####   ",
		" ###     ",
		" ###     ",
		" ####### ",
	}
	K := []string{
		" ##  ### ",
		" ## ###  ",
		" #####   ",
		" #####   ",
		" ## ###  ",
		" ##  ### ",
	}
	C := []string{
		"  #####  ",
		" ####### ",
		" ###     ",
		" ###     ",
		" ####### ",
		"  #####  ",
	}
	T := []string{
		" ####### ",
		"   ###   ",
		"   ###   ",
		"   ###   ",
		"   ###   ",
		"   ###   ",
	}
	L := []string{
		" ###     ",
		" ###     ",
		" ###     ",
		" ###     ",
		" ###     ",
		" ####### ",
	}
	return [][]string{S, N, E, K, C, T, L}
}

// composeLogoLines joins blocks horizontally; when solid=true, fills inner spaces of each block row.
func composeLogoLines(blocks [][]string, solid bool) []string {
	sep := "  "
	out := make([]string, 6)
	for row := 0; row < 6; row++ {
		var parts []string
		for _, blk := range blocks {
			s := blk[row]
			if solid {
				// Fill between first and last non-space with full blocks
				bRunes := []rune(s)
				first, last := -1, -1
				for i, r := range bRunes {
					if r != ' ' {
						first = i
						break
					}
				}
				for i := len(bRunes) - 1; i >= 0; i-- {
					if bRunes[i] != ' ' {
						last = i
						break
					}
				}
				if first >= 0 && last >= first {
					for i := first; i <= last; i++ {
						bRunes[i] = '█'
					}
					s = string(bRunes)
				}
			}
			parts = append(parts, s)
		}
		out[row] = strings.Join(parts, sep)
	}
	return out
}

// renderLogoTopThird centers the ASCII logo horizontally and vertically within the top third.
// Returns the string including the necessary leading newlines.
func renderLogoTopThird(width, height int) string {
	lines := composeLogoLines(asciiLogoBlocks(), true)
	h := len(lines)
	if h == 0 {
		return ""
	}
	// compute top area
	topArea := height / 3
	if topArea < h+1 { // ensure at least room for logo
		topArea = h + 1
	}
	// vertical centering within top third
	padTop := (topArea - h) / 2
	if padTop < 0 {
		padTop = 0
	}
	var b strings.Builder
	if padTop > 0 {
		b.WriteString(strings.Repeat("\n", padTop))
	}
	// horizontal centering/trim
	inner := width
	if inner <= 0 {
		inner = 80
	}
	for _, ln := range lines {
		w := xansi.StringWidth(ln)
		if w >= inner {
			// naive trim
			if len(ln) > inner {
				ln = ln[:inner]
			}
			b.WriteString(colorizeLine(ln))
			b.WriteString("\n")
			continue
		}
		pad := (inner - w) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(colorizeLine(ln))
		b.WriteString("\n")
	}
	return b.String()
}

// colorizeLine applies the accent color to a logo line.
func colorizeLine(s string) string {
	st := AccentBold()
	return st.Render(s)
}
