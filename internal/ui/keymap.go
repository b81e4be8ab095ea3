package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"checklist/internal/engine"
)

// keyMap mirrors the engine bindings as bubbles key bindings so the status
// bar can render them with the help bubble. Input is still routed through
// the engine.
type keyMap struct {
	Add       key.Binding
	Update    key.Binding
	Delete    key.Binding
	Toggle    key.Binding
	Filter    key.Binding
	Sort      key.Binding
	Help      key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Back      key.Binding
	SelectAll key.Binding
	Yes       key.Binding
	No        key.Binding
	Scroll    key.Binding
}

func newKeyMap(km engine.Keymap) keyMap {
	return keyMap{
		Add:       bind(km.Add, "add"),
		Update:    bind(km.Update, "update"),
		Delete:    bind(km.Delete, "delete"),
		Toggle:    bind(km.Toggle, "complete"),
		Filter:    bind(km.Filter, "filter"),
		Sort:      bind(km.Sort, "sort"),
		Help:      bind(km.Help, "help"),
		Quit:      bind(km.Quit, "quit"),
		Confirm:   bind(km.Confirm, "confirm"),
		Cancel:    bind(km.Cancel, "cancel"),
		Back:      bind(km.Back, "back"),
		SelectAll: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "select all")),
		Yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		No:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		Scroll:    key.NewBinding(key.WithKeys(append(append([]string{}, km.Up...), km.Down...)...), key.WithHelp(helpKeys(km.Up)+"/"+helpKeys(km.Down), "scroll")),
	}
}

func bind(b engine.Binding, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(b...), key.WithHelp(helpKeys(b), desc))
}

func helpKeys(b engine.Binding) string {
	return strings.Join(b, "/")
}

// forMode returns the footer bindings for mode.
func (k keyMap) forMode(mode engine.Mode) []key.Binding {
	switch mode {
	case engine.ModeAddWizard, engine.ModeUpdateWizard:
		return []key.Binding{k.Confirm, k.Back, k.Cancel, k.SelectAll}
	case engine.ModeQuickAdd, engine.ModeTagFilter:
		return []key.Binding{k.Confirm, k.Cancel, k.SelectAll}
	case engine.ModeUpdatePicker:
		return []key.Binding{key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "field")), k.Cancel}
	case engine.ModeDeleteConfirm, engine.ModeQuitConfirm:
		return []key.Binding{k.Yes, k.No}
	case engine.ModeHelp:
		return []key.Binding{k.Scroll, k.Help, k.Cancel}
	default:
		return k.ShortHelp()
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Update, k.Delete, k.Toggle, k.Filter, k.Sort, k.Help, k.Quit}
}
