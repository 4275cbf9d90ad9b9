package views

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wordWrap wraps s at width display cells. Words wider than a line (e.g.
// unspaced CJK sentences) are broken between runes.
func wordWrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range strings.Fields(s) {
		wordWidth := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+wordWidth > width {
			flush()
		}
		if lineWidth > 0 {
			line.WriteString(" ")
			lineWidth++
		}
		if wordWidth <= width-lineWidth {
			line.WriteString(word)
			lineWidth += wordWidth
			continue
		}
		for _, r := range word {
			rw := runewidth.RuneWidth(r)
			if lineWidth+rw > width && lineWidth > 0 {
				flush()
			}
			line.WriteRune(r)
			lineWidth += rw
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
