package term

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// truncate shortens text to fit width cells, ending with an ellipsis when cut.
func truncate(text string, width int) string {
	if width <= 0 || text == "" {
		return ""
	}
	if runewidth.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return ellipsis
	}
	return runewidth.Truncate(text, width, ellipsis)
}

// pad truncates or right-pads text to exactly width cells.
func pad(text string, width int) string {
	text = truncate(text, width)
	if n := width - runewidth.StringWidth(text); n > 0 {
		text += strings.Repeat(" ", n)
	}
	return text
}

// drawText writes text at x,y clipped to width cells and returns the cells used.
func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) int {
	text = truncate(text, width)
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			continue
		}
		s.SetContent(x+col, y, r, nil, style)
		col += w
	}
	return col
}

func fill(s tcell.Screen, x, y, width int, style tcell.Style) {
	for i := range width {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}
