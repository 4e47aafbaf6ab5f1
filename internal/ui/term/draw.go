package term

import (
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/justyntemme/fileman/internal/bus"
	"github.com/justyntemme/fileman/internal/widgets"
)

const (
	sidebarMax   = 24
	sizeWidth    = 9
	dateWidth    = 17
	dateLayout   = "01/02/06 03:04 PM"
	crumbDivider = " › "
)

var (
	styleBase     = tcell.StyleDefault
	styleBar      = tcell.StyleDefault.Reverse(true)
	styleDisabled = tcell.StyleDefault.Reverse(true).Dim(true)
	styleHeader   = tcell.StyleDefault.Bold(true).Underline(true)
	styleDir      = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleCursor   = tcell.StyleDefault.Reverse(true)
	styleMarked   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleError    = tcell.StyleDefault.Reverse(true).Foreground(tcell.ColorRed)
	styleDim      = tcell.StyleDefault.Dim(true)
	styleModal    = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

func (u *UI) listHeight() int {
	_, h := u.screen.Size()
	return max(1, h-4)
}

func (u *UI) draw() {
	s := u.screen
	s.Clear()
	u.hits = u.hits[:0]
	w, h := s.Size()
	if w <= 0 || h < 4 {
		s.Show()
		return
	}

	u.drawToolbar(0, w)
	u.drawLocation(1, w)

	x := 0
	if places := u.shell.Sidebar().Places(); len(places) > 0 {
		sw := min(sidebarMax, w/4)
		u.drawSidebar(0, 2, sw, h-3)
		for y := 2; y < h-1; y++ {
			s.SetContent(sw, y, '│', nil, styleDim)
		}
		x = sw + 1
	}
	u.drawFiles(x, 2, w-x, h-3)
	u.drawStatus(h-1, w)

	switch {
	case u.modal != nil:
		u.drawModal(w, h)
	case u.props != nil:
		u.drawProps(w, h)
	}
	s.Show()
}

func (u *UI) drawToolbar(y, w int) {
	fill(u.screen, 0, y, w, styleBar)
	x := 0
	for _, b := range widgets.Buttons() {
		label := " " + b.Label + " "
		style := styleBar
		if !u.enabled(b.Button) {
			style = styleDisabled
		}
		n := drawText(u.screen, x, y, w-x, style, label)
		btn := b.Button
		u.hits = append(u.hits, hit{
			x0: x, x1: x + n, y: y,
			click: func(bool) { u.press(btn) },
			hover: func() { u.shell.Toolbar().Hover(btn, true) },
		})
		x += n + 1
		if x >= w {
			return
		}
	}
}

func (u *UI) drawLocation(y, w int) {
	if in := u.input; in != nil {
		prompt := "Go to: "
		if in.kind == inputRename {
			prompt = "Rename: "
		}
		n := drawText(u.screen, 0, y, w, styleHeader, prompt)
		text := string(in.text)
		// Keep the end of long input visible.
		for runewidth.StringWidth(text) > w-n-1 && text != "" {
			_, size := utf8.DecodeRuneInString(text)
			text = text[size:]
		}
		m := drawText(u.screen, n, y, w-n, styleBase, text)
		u.screen.ShowCursor(n+m, y)
		return
	}
	u.screen.HideCursor()

	x := 0
	for i, c := range u.shell.LocationBar().Crumbs() {
		// The root label already ends in a separator.
		if i > 1 {
			x += drawText(u.screen, x, y, w-x, styleDim, crumbDivider)
		}
		style := styleBase
		if !c.Clickable {
			style = styleHeader
		}
		n := drawText(u.screen, x, y, w-x, style, c.Label)
		idx := i
		u.hits = append(u.hits, hit{x0: x, x1: x + n, y: y, click: func(bool) {
			u.shell.LocationBar().ClickCrumb(idx)
		}})
		x += n
		if x >= w {
			return
		}
	}
}

func (u *UI) drawSidebar(x, y, w, h int) {
	sb := u.shell.Sidebar()
	row := y
	var section widgets.Section = -1
	for i, p := range sb.Places() {
		if row >= y+h {
			return
		}
		if p.Section != section {
			section = p.Section
			drawText(u.screen, x, row, w, styleHeader, section.String())
			row++
			if row >= y+h {
				return
			}
		}
		style := styleBase
		if i == sb.Active() {
			style = styleMarked
		}
		if u.focus == paneSidebar && i == sb.Cursor() {
			style = styleCursor
		}
		drawText(u.screen, x, row, w, style, " "+pad(p.Name, w-1))
		idx := i
		u.hits = append(u.hits, hit{x0: x, x1: x + w, y: row, click: func(bool) { sb.Select(idx) }})
		row++
	}
}

func (u *UI) drawFiles(x, y, w, h int) {
	v := u.shell.FileView()
	nameWidth := max(1, w-sizeWidth-dateWidth-4)

	header := " " + pad("Name", nameWidth) + " " + pad("Size", sizeWidth) + " " + pad("Modified", dateWidth)
	drawText(u.screen, x, y, w, styleHeader, header)

	entries := v.Entries()
	rows := max(1, h-1)
	switch {
	case len(entries) == 0 && v.Loading():
		drawText(u.screen, x+1, y+1, w-1, styleDim, "Loading…")
		return
	case len(entries) == 0 && v.LoadError() != nil:
		drawText(u.screen, x+1, y+1, w-1, styleDim, v.LoadError().Error())
		return
	case len(entries) == 0:
		drawText(u.screen, x+1, y+1, w-1, styleDim, "Empty folder")
		return
	}

	cursor := v.Cursor()
	if cursor < u.offset {
		u.offset = cursor
	}
	if cursor >= u.offset+rows {
		u.offset = cursor - rows + 1
	}
	u.offset = max(0, min(u.offset, len(entries)-rows))

	for i := u.offset; i < len(entries) && i-u.offset < rows; i++ {
		e := entries[i]
		row := y + 1 + i - u.offset

		mark := " "
		if v.IsSelected(e.Path) {
			mark = "*"
		}
		name := e.Name
		size := humanize.Bytes(uint64(e.Size))
		style := styleBase
		if e.IsDir {
			name += "/"
			size = "<dir>"
			style = styleDir
		}
		if mark == "*" {
			style = styleMarked
		}
		if u.focus == paneFiles && i == cursor {
			style = styleCursor
		}
		line := mark + pad(name, nameWidth) + " " + pad(size, sizeWidth) + " " + pad(e.ModTime.Format(dateLayout), dateWidth)
		drawText(u.screen, x, row, w, style, pad(line, w))

		idx, path := i, e.Path
		u.hits = append(u.hits, hit{x0: x, x1: x + w, y: row, click: func(double bool) {
			u.focus = paneFiles
			if double {
				v.Open(path)
				return
			}
			v.MoveCursor(idx - v.Cursor())
		}})
	}
}

func (u *UI) drawStatus(y, w int) {
	sb := u.shell.StatusBar()
	style := styleBar
	if msg, ok := sb.Message(); ok && msg.Kind == bus.StatusError {
		style = styleError
	}
	fill(u.screen, 0, y, w, style)
	right := sb.Summary()
	rw := runewidth.StringWidth(right)
	drawText(u.screen, 1, y, max(0, w-rw-3), style, sb.Text())
	if rw+2 < w {
		drawText(u.screen, w-rw-1, y, rw, style, right)
	}
}

func (u *UI) box(w, h int, lines []string) (int, int, int) {
	bw := 0
	for _, l := range lines {
		bw = max(bw, runewidth.StringWidth(l))
	}
	bw = min(w-2, bw+4)
	bh := len(lines) + 2
	x0 := max(0, (w-bw)/2)
	y0 := max(0, (h-bh)/2)
	for r := range bh {
		fill(u.screen, x0, y0+r, bw, styleModal)
	}
	for i, l := range lines {
		drawText(u.screen, x0+2, y0+1+i, bw-4, styleModal, l)
	}
	return x0, y0, bw
}

func (u *UI) drawModal(w, h int) {
	p := u.modal
	lines := []string{p.Title, "", p.Message, "", "[Y]es    [N]o"}
	x0, y0, _ := u.box(w, h, lines)

	// The dialog swallows clicks outside its buttons.
	u.hits = u.hits[:0]
	row := y0 + 1 + len(lines) - 1
	u.hits = append(u.hits,
		hit{x0: x0 + 2, x1: x0 + 7, y: row, click: func(bool) { u.answer(true) }},
		hit{x0: x0 + 11, x1: x0 + 15, y: row, click: func(bool) { u.answer(false) }},
	)
}

func (u *UI) drawProps(w, h int) {
	lines := append([]string{"Properties", ""}, u.props.Lines()...)
	lines = append(lines, "", "Press any key to close")
	x0, y0, bw := u.box(w, h, lines)
	u.hits = u.hits[:0]
	for r := range len(lines) + 2 {
		u.hits = append(u.hits, hit{x0: x0, x1: x0 + bw, y: y0 + r, click: func(bool) { u.props = nil }})
	}
}
