package engine

import (
	"fmt"
	"strings"
)

// LayoutMode is the pane arrangement in effect. Auto values were chosen
// from the terminal size; the plain values were pinned by the user.
type LayoutMode int

const (
	Horizontal LayoutMode = iota
	Vertical
	AutoHorizontal
	AutoVertical
)

func (m LayoutMode) String() string {
	switch m {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case AutoHorizontal:
		return "auto (horizontal)"
	case AutoVertical:
		return "auto (vertical)"
	default:
		return fmt.Sprintf("LayoutMode(%d)", int(m))
	}
}

// IsHorizontal reports whether panes sit side by side.
func (m LayoutMode) IsHorizontal() bool {
	return m == Horizontal || m == AutoHorizontal
}

func (m LayoutMode) IsAuto() bool {
	return m == AutoHorizontal || m == AutoVertical
}

// Override is a user-pinned layout, or OverrideNone for size-based selection.
type Override int

const (
	OverrideNone Override = iota
	OverrideHorizontal
	OverrideVertical
)

func (o Override) String() string {
	switch o {
	case OverrideHorizontal:
		return "horizontal"
	case OverrideVertical:
		return "vertical"
	default:
		return "auto"
	}
}

// Next cycles auto -> horizontal -> vertical -> auto.
func (o Override) Next() Override {
	switch o {
	case OverrideNone:
		return OverrideHorizontal
	case OverrideHorizontal:
		return OverrideVertical
	default:
		return OverrideNone
	}
}

func ParseOverride(s string) (Override, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "smart":
		return OverrideNone, nil
	case "horizontal", "h":
		return OverrideHorizontal, nil
	case "vertical", "v":
		return OverrideVertical, nil
	default:
		return OverrideNone, fmt.Errorf("invalid layout %q (want horizontal or vertical)", s)
	}
}

// WideRatio is k in W >= k*H: at or above it panes go side by side.
// Terminal cells are roughly twice as tall as wide, so 2.5 favours
// side-by-side only on clearly wide, short windows.
const WideRatio = 2.5

// Default minimum terminal size below which nothing is drawn.
const (
	DefaultMinWidth  = 20
	DefaultMinHeight = 8
)

// Selector chooses a layout from terminal dimensions. It holds only
// configuration, so identical inputs always produce identical outputs.
type Selector struct {
	MinWidth  int
	MinHeight int
}

func DefaultSelector() Selector {
	return Selector{MinWidth: DefaultMinWidth, MinHeight: DefaultMinHeight}
}

// Select returns the layout for a w x h terminal. ok is false when the
// terminal is below the minimum size and no panes should be drawn.
func (s Selector) Select(w, h int, o Override) (mode LayoutMode, ok bool) {
	mode = autoMode(w, h)
	switch o {
	case OverrideHorizontal:
		mode = Horizontal
	case OverrideVertical:
		mode = Vertical
	}
	if w < s.MinWidth || h < s.MinHeight {
		return mode, false
	}
	return mode, true
}

func autoMode(w, h int) LayoutMode {
	if float64(w) >= WideRatio*float64(h) {
		return AutoHorizontal
	}
	return AutoVertical
}

// Rect is a cell rectangle on the render surface.
type Rect struct {
	X, Y int
	W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Inner is the rectangle left inside a one-cell border.
func (r Rect) Inner() Rect {
	if r.W < 2 || r.H < 2 {
		return Rect{X: r.X, Y: r.Y}
	}
	return Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
}

// Panes is the cut of the screen for one layout.
type Panes struct {
	List   Rect
	Detail Rect
	State  Rect
	Status Rect
	Main   Rect
}

// List pane share of the main area, in percent.
const (
	MinListPercent     = 20
	MaxListPercent     = 80
	DefaultListPercent = 40
	ListPercentStep    = 5
)

// statePaneHeight holds the filter/sort summary: border plus three lines.
const statePaneHeight = 5

// Arrange cuts a w x h surface into panes. The last row is the status bar;
// the list takes listPercent of the main area along the layout's axis and
// the remaining space holds the detail pane above the state pane. The
// state pane is dropped when there is no room for it.
func Arrange(w, h int, mode LayoutMode, listPercent int) Panes {
	listPercent = min(max(listPercent, MinListPercent), MaxListPercent)
	if w <= 0 || h <= 0 {
		return Panes{}
	}
	p := Panes{
		Status: Rect{X: 0, Y: h - 1, W: w, H: 1},
		Main:   Rect{X: 0, Y: 0, W: w, H: h - 1},
	}
	main := p.Main

	var rest Rect
	if mode.IsHorizontal() {
		lw := max(main.W*listPercent/100, 3)
		p.List = Rect{X: main.X, Y: main.Y, W: lw, H: main.H}
		rest = Rect{X: main.X + lw, Y: main.Y, W: main.W - lw, H: main.H}
	} else {
		lh := max(main.H*listPercent/100, 3)
		lh = min(lh, main.H)
		// A bordered pane needs three rows; give slivers to the list.
		if r := main.H - lh; r > 0 && r < 3 {
			if main.H-3 >= 3 {
				lh = main.H - 3
			} else {
				lh = main.H
			}
		}
		p.List = Rect{X: main.X, Y: main.Y, W: main.W, H: lh}
		rest = Rect{X: main.X, Y: main.Y + lh, W: main.W, H: main.H - lh}
	}

	// Keep at least a three-row detail pane before giving room to state.
	if rest.H >= statePaneHeight+3 {
		p.Detail = Rect{X: rest.X, Y: rest.Y, W: rest.W, H: rest.H - statePaneHeight}
		p.State = Rect{X: rest.X, Y: rest.Y + rest.H - statePaneHeight, W: rest.W, H: statePaneHeight}
	} else {
		p.Detail = rest
	}
	return p
}

// HelpRows is the number of key reference lines the help popup shows at
// once: the main area less a margin row on each side, the popup border and
// its title.
func (p Panes) HelpRows() int {
	return max(p.Main.H-5, 1)
}

// Capacity is the number of task rows that fit in the list pane.
func (p Panes) Capacity() int {
	return max(p.List.Inner().H, 1)
}
