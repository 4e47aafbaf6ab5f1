package config

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// KeysConfig maps actions to hotkey strings such as "Alt+Left" or "Ctrl+L".
type KeysConfig struct {
	Back         string `koanf:"back"`
	Forward      string `koanf:"forward"`
	Up           string `koanf:"up"`
	Home         string `koanf:"home"`
	Refresh      string `koanf:"refresh"`
	NewFolder    string `koanf:"new_folder"`
	Delete       string `koanf:"delete"`
	Rename       string `koanf:"rename"`
	Properties   string `koanf:"properties"`
	ToggleHidden string `koanf:"toggle_hidden"`
	Location     string `koanf:"location"`
	Select       string `koanf:"select"`
	Open         string `koanf:"open"`
	NextPane     string `koanf:"next_pane"`
	Quit         string `koanf:"quit"`
}

// DefaultKeys returns the built-in bindings. Terminals cannot report Ctrl+Shift
// chords or Ctrl+H, so those are avoided.
func DefaultKeys() KeysConfig {
	return KeysConfig{
		Back:         "Alt+Left",
		Forward:      "Alt+Right",
		Up:           "Alt+Up",
		Home:         "Alt+Home",
		Refresh:      "F5",
		NewFolder:    "F7",
		Delete:       "Delete",
		Rename:       "F2",
		Properties:   "Alt+Enter",
		ToggleHidden: "Alt+H",
		Location:     "Ctrl+L",
		Select:       "Space",
		Open:         "Enter",
		NextPane:     "Tab",
		Quit:         "Ctrl+Q",
	}
}

func (k KeysConfig) toMap() map[string]interface{} {
	return map[string]interface{}{
		"back":          k.Back,
		"forward":       k.Forward,
		"up":            k.Up,
		"home":          k.Home,
		"refresh":       k.Refresh,
		"new_folder":    k.NewFolder,
		"delete":        k.Delete,
		"rename":        k.Rename,
		"properties":    k.Properties,
		"toggle_hidden": k.ToggleHidden,
		"location":      k.Location,
		"select":        k.Select,
		"open":          k.Open,
		"next_pane":     k.NextPane,
		"quit":          k.Quit,
	}
}

// Hotkey is a parsed keyboard shortcut.
type Hotkey struct {
	Key  tcell.Key
	Rune rune // for tcell.KeyRune
	Mods tcell.ModMask
}

// ParseHotkey parses strings like "Alt+Left", "Ctrl+L" or "F5". An empty or
// unknown string yields an empty Hotkey.
func ParseHotkey(s string) Hotkey {
	if strings.TrimSpace(s) == "" {
		return Hotkey{}
	}

	var mods tcell.ModMask
	var rawKey string
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "ctrl", "control":
			mods |= tcell.ModCtrl
		case "shift":
			mods |= tcell.ModShift
		case "alt", "option", "meta":
			mods |= tcell.ModAlt
		case "":
			// "Ctrl++" leaves an empty part; the key is '+'
			rawKey = "+"
		default:
			rawKey = part
		}
	}

	if r := []rune(rawKey); len(r) == 1 {
		ch := unicode.ToLower(r[0])
		if mods&tcell.ModCtrl != 0 && ch >= 'a' && ch <= 'z' {
			// Terminals deliver Ctrl+letter as a control code.
			return Hotkey{Key: tcell.KeyCtrlA + tcell.Key(ch-'a'), Mods: tcell.ModCtrl}
		}
		return Hotkey{Key: tcell.KeyRune, Rune: ch, Mods: mods &^ tcell.ModShift}
	}

	key, ok := namedKeys[strings.ToLower(rawKey)]
	if !ok {
		return Hotkey{}
	}
	if key == tcell.KeyRune {
		return Hotkey{Key: tcell.KeyRune, Rune: ' ', Mods: mods}
	}
	return Hotkey{Key: key, Mods: mods}
}

var namedKeys = map[string]tcell.Key{
	"f1": tcell.KeyF1, "f2": tcell.KeyF2, "f3": tcell.KeyF3, "f4": tcell.KeyF4,
	"f5": tcell.KeyF5, "f6": tcell.KeyF6, "f7": tcell.KeyF7, "f8": tcell.KeyF8,
	"f9": tcell.KeyF9, "f10": tcell.KeyF10, "f11": tcell.KeyF11, "f12": tcell.KeyF12,

	"up": tcell.KeyUp, "uparrow": tcell.KeyUp,
	"down": tcell.KeyDown, "downarrow": tcell.KeyDown,
	"left": tcell.KeyLeft, "leftarrow": tcell.KeyLeft,
	"right": tcell.KeyRight, "rightarrow": tcell.KeyRight,
	"home": tcell.KeyHome, "end": tcell.KeyEnd,
	"pageup": tcell.KeyPgUp, "pgup": tcell.KeyPgUp,
	"pagedown": tcell.KeyPgDn, "pgdn": tcell.KeyPgDn, "pgdown": tcell.KeyPgDn,

	"enter": tcell.KeyEnter, "return": tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"space":     tcell.KeyRune,
	"spacebar":  tcell.KeyRune,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete, "del": tcell.KeyDelete,
	"escape": tcell.KeyEscape, "esc": tcell.KeyEscape,
	"insert": tcell.KeyInsert, "ins": tcell.KeyInsert,
}

// IsEmpty reports whether the hotkey is unbound.
func (h Hotkey) IsEmpty() bool {
	return h.Key == 0 && h.Rune == 0
}

// Matches reports whether ev is this hotkey. Shift is ignored for runes since the
// terminal already folds it into the character.
func (h Hotkey) Matches(ev *tcell.EventKey) bool {
	if h.IsEmpty() {
		return false
	}
	if h.Key == tcell.KeyRune {
		return ev.Key() == tcell.KeyRune &&
			unicode.ToLower(ev.Rune()) == h.Rune &&
			ev.Modifiers()&^tcell.ModShift == h.Mods
	}
	if h.Mods&tcell.ModCtrl != 0 && h.Key >= tcell.KeyCtrlA && h.Key <= tcell.KeyCtrlZ {
		return ev.Key() == h.Key
	}
	return ev.Key() == h.Key && ev.Modifiers() == h.Mods
}

// HotkeyMatcher holds the parsed bindings.
type HotkeyMatcher struct {
	Back         Hotkey
	Forward      Hotkey
	Up           Hotkey
	Home         Hotkey
	Refresh      Hotkey
	NewFolder    Hotkey
	Delete       Hotkey
	Rename       Hotkey
	Properties   Hotkey
	ToggleHidden Hotkey
	Location     Hotkey
	Select       Hotkey
	Open         Hotkey
	NextPane     Hotkey
	Quit         Hotkey
}

func NewHotkeyMatcher(cfg KeysConfig) *HotkeyMatcher {
	return &HotkeyMatcher{
		Back:         ParseHotkey(cfg.Back),
		Forward:      ParseHotkey(cfg.Forward),
		Up:           ParseHotkey(cfg.Up),
		Home:         ParseHotkey(cfg.Home),
		Refresh:      ParseHotkey(cfg.Refresh),
		NewFolder:    ParseHotkey(cfg.NewFolder),
		Delete:       ParseHotkey(cfg.Delete),
		Rename:       ParseHotkey(cfg.Rename),
		Properties:   ParseHotkey(cfg.Properties),
		ToggleHidden: ParseHotkey(cfg.ToggleHidden),
		Location:     ParseHotkey(cfg.Location),
		Select:       ParseHotkey(cfg.Select),
		Open:         ParseHotkey(cfg.Open),
		NextPane:     ParseHotkey(cfg.NextPane),
		Quit:         ParseHotkey(cfg.Quit),
	}
}
