package term

import (
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/justyntemme/fileman/internal/ops"
	"github.com/justyntemme/fileman/internal/widgets"
)

func (u *UI) handleKey(ev *tcell.EventKey) {
	switch {
	case u.modal != nil:
		u.modalKey(ev)
		return
	case u.input != nil:
		u.inputKey(ev)
		return
	case u.props != nil:
		u.props = nil
		return
	}

	k, sh := u.keys, u.shell
	switch {
	case k.Quit.Matches(ev):
		u.quit = true
	case k.Back.Matches(ev):
		u.press(widgets.ButtonBack)
	case k.Forward.Matches(ev):
		u.press(widgets.ButtonForward)
	case k.Up.Matches(ev):
		u.press(widgets.ButtonUp)
	case k.Home.Matches(ev):
		u.press(widgets.ButtonHome)
	case k.NewFolder.Matches(ev):
		u.press(widgets.ButtonNewFolder)
	case k.Delete.Matches(ev):
		u.press(widgets.ButtonDelete)
	case k.Properties.Matches(ev):
		u.press(widgets.ButtonProperties)
	case k.Refresh.Matches(ev):
		sh.FileView().RequestRefresh()
	case k.ToggleHidden.Matches(ev):
		sh.FileView().ToggleHidden()
	case k.Location.Matches(ev):
		u.input = &inputLine{kind: inputLocation, text: []rune(sh.History().Current())}
	case k.Rename.Matches(ev):
		if e, ok := sh.FileView().CursorEntry(); ok {
			u.input = &inputLine{kind: inputRename, from: e.Path, text: []rune(e.Name)}
		}
	case k.NextPane.Matches(ev):
		if u.focus == paneFiles && len(sh.Sidebar().Places()) > 0 {
			u.focus = paneSidebar
		} else {
			u.focus = paneFiles
		}
	case k.Open.Matches(ev):
		if u.focus == paneSidebar {
			sh.Sidebar().SelectCursor()
		} else {
			sh.FileView().Activate()
		}
	case k.Select.Matches(ev):
		sh.FileView().ToggleSelect("")
	default:
		u.navKey(ev)
	}
}

func (u *UI) navKey(ev *tcell.EventKey) {
	page := u.listHeight()
	switch ev.Key() {
	case tcell.KeyUp:
		u.move(-1)
	case tcell.KeyDown:
		u.move(1)
	case tcell.KeyPgUp:
		u.move(-page)
	case tcell.KeyPgDn:
		u.move(page)
	case tcell.KeyHome:
		u.move(-1 << 20)
	case tcell.KeyEnd:
		u.move(1 << 20)
	case tcell.KeyCtrlA:
		u.shell.FileView().SelectAll()
	case tcell.KeyEscape:
		u.shell.FileView().Select(nil)
	}
}

func (u *UI) modalKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		u.answer(true)
	case tcell.KeyEscape:
		u.answer(false)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'y', 'Y':
			u.answer(true)
		case 'n', 'N':
			u.answer(false)
		}
	}
}

func (u *UI) inputKey(ev *tcell.EventKey) {
	in := u.input
	switch ev.Key() {
	case tcell.KeyEscape:
		u.input = nil
	case tcell.KeyEnter:
		u.input = nil
		u.submit(in)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(in.text) > 0 {
			in.text = in.text[:len(in.text)-1]
		}
	case tcell.KeyCtrlU:
		in.text = nil
	case tcell.KeyRune:
		in.text = append(in.text, ev.Rune())
	}
}

func (u *UI) submit(in *inputLine) {
	text := string(in.text)
	switch in.kind {
	case inputLocation:
		u.shell.LocationBar().Submit(text)
	case inputRename:
		if text == "" || text == filepath.Base(in.from) {
			return
		}
		u.shell.Requests().Send(ops.Rename{From: in.from, To: filepath.Join(filepath.Dir(in.from), text)})
	}
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && u.buttons&tcell.Button1 == 0
	u.buttons = buttons

	switch {
	case buttons&tcell.WheelUp != 0:
		u.move(-3)
		return
	case buttons&tcell.WheelDown != 0:
		u.move(3)
		return
	}

	h, ok := u.hitAt(x, y)
	if !pressed {
		if ok && h.hover != nil {
			h.hover()
			u.hovering = true
		} else if u.hovering {
			u.shell.Toolbar().Hover(0, false)
			u.hovering = false
		}
		return
	}
	if !ok || h.click == nil {
		return
	}
	now := time.Now()
	double := y == u.lastRow && now.Sub(u.lastClick) < doubleClickThreshold
	u.lastClick, u.lastRow = now, y
	h.click(double)
}

func (u *UI) hitAt(x, y int) (hit, bool) {
	// Later regions are drawn on top.
	for i := len(u.hits) - 1; i >= 0; i-- {
		h := u.hits[i]
		if y == h.y && x >= h.x0 && x < h.x1 {
			return h, true
		}
	}
	return hit{}, false
}
