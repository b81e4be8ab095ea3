package engine

import "slices"

// Key is one input event as named by the terminal layer ("a", "enter",
// "shift+left", "ctrl+a"). Printable input carries its runes.
type Key struct {
	Name  string
	Runes []rune
	Paste bool
}

// Named builds a control key such as "enter" or "shift+left".
func Named(name string) Key {
	return Key{Name: name}
}

// Runes builds a printable key from s.
func Runes(s string) Key {
	return Key{Name: s, Runes: []rune(s)}
}

func (k Key) printable() bool {
	return len(k.Runes) > 0
}

// Binding is the set of key names that trigger one action.
type Binding []string

func (b Binding) Matches(k Key) bool {
	return slices.Contains(b, k.Name)
}

// Keymap binds browsing and modal actions to keys. Text editing keys
// (arrows, home/end, backspace, ctrl+a) are fixed.
type Keymap struct {
	Quit       Binding
	ForceQuit  Binding
	Up         Binding
	Down       Binding
	Top        Binding
	Bottom     Binding
	PageUp     Binding
	PageDown   Binding
	Add        Binding
	QuickAdd   Binding
	Update     Binding
	Delete     Binding
	Toggle     Binding
	Help       Binding
	Filter     Binding
	Sort       Binding
	Layout     Binding
	TagFilter  Binding
	ShrinkList Binding
	GrowList   Binding
	DetailUp   Binding
	DetailDown Binding
	Confirm    Binding
	Cancel     Binding
	Back       Binding
}

func DefaultKeymap() Keymap {
	return Keymap{
		Quit:       Binding{"x", "esc"},
		ForceQuit:  Binding{"ctrl+c"},
		Up:         Binding{"k", "up"},
		Down:       Binding{"j", "down"},
		Top:        Binding{"g", "home"},
		Bottom:     Binding{"G", "end"},
		PageUp:     Binding{"pgup", "ctrl+u"},
		PageDown:   Binding{"pgdown", "ctrl+d"},
		Add:        Binding{"a"},
		QuickAdd:   Binding{"A"},
		Update:     Binding{"u"},
		Delete:     Binding{"d"},
		Toggle:     Binding{"c"},
		Help:       Binding{"h", "?"},
		Filter:     Binding{"f"},
		Sort:       Binding{"s"},
		Layout:     Binding{"v"},
		TagFilter:  Binding{"/"},
		ShrinkList: Binding{"<", "ctrl+left"},
		GrowList:   Binding{">", "ctrl+right"},
		DetailUp:   Binding{"K", "ctrl+up"},
		DetailDown: Binding{"J", "ctrl+down"},
		Confirm:    Binding{"enter"},
		Cancel:     Binding{"esc"},
		Back:       Binding{"shift+tab"},
	}
}
