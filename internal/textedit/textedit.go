// Package textedit implements a single-line edit buffer with a cursor and an
// optional selection anchor. Every method returns a new State; nothing is
// shared with the caller.
package textedit

import "slices"

// Direction is a cursor movement.
type Direction int

const (
	Left Direction = iota
	Right
	Start
	End
)

// State is a rune buffer, a cursor in [0, len] and an optional anchor.
// When an anchor is present the selection is the half-open range between
// anchor and cursor, in whichever order they fall.
type State struct {
	buf       []rune
	cursor    int
	anchor    int
	hasAnchor bool
}

// New returns a state holding text with the cursor at the end.
func New(text string) State {
	return State{}.SetText(text)
}

func (s State) Text() string { return string(s.buf) }
func (s State) Len() int     { return len(s.buf) }
func (s State) Cursor() int  { return s.cursor }

// Runes returns a copy of the buffer.
func (s State) Runes() []rune { return slices.Clone(s.buf) }

// SetText replaces the buffer, places the cursor at the end and drops any selection.
func (s State) SetText(text string) State {
	return State{buf: []rune(text), cursor: len([]rune(text))}
}

// Selection returns the normalized selected range.
func (s State) Selection() (start, end int, ok bool) {
	if !s.hasAnchor || s.anchor == s.cursor {
		return 0, 0, false
	}
	start, end = s.anchor, s.cursor
	if start > end {
		start, end = end, start
	}
	return start, end, true
}

// Anchor returns the selection anchor if one is set.
func (s State) Anchor() (int, bool) {
	return s.anchor, s.hasAnchor
}

func (s State) Selected() string {
	start, end, ok := s.Selection()
	if !ok {
		return ""
	}
	return string(s.buf[start:end])
}

// Insert types r at the cursor, replacing the selection if there is one.
func (s State) Insert(r rune) State {
	s, at := s.cut()
	buf := make([]rune, 0, len(s.buf)+1)
	buf = append(buf, s.buf[:at]...)
	buf = append(buf, r)
	buf = append(buf, s.buf[at:]...)
	s.buf = buf
	s.cursor = at + 1
	return s.normalize()
}

// InsertString inserts text as if each rune were typed in turn.
func (s State) InsertString(text string) State {
	for _, r := range text {
		s = s.Insert(r)
	}
	return s
}

// DeleteBackward removes the selection, or the rune before the cursor.
func (s State) DeleteBackward() State {
	if _, _, ok := s.Selection(); ok {
		s, _ = s.cut()
		return s.normalize()
	}
	if s.cursor == 0 {
		return s.clearAnchor()
	}
	s.buf = slices.Delete(slices.Clone(s.buf), s.cursor-1, s.cursor)
	s.cursor--
	return s.clearAnchor().normalize()
}

// DeleteForward removes the selection, or the rune under the cursor.
func (s State) DeleteForward() State {
	if _, _, ok := s.Selection(); ok {
		s, _ = s.cut()
		return s.normalize()
	}
	if s.cursor >= len(s.buf) {
		return s.clearAnchor()
	}
	s.buf = slices.Delete(slices.Clone(s.buf), s.cursor, s.cursor+1)
	return s.clearAnchor().normalize()
}

// Move moves the cursor. With extend the selection grows from the
// pre-move cursor; without it any selection is dropped.
func (s State) Move(d Direction, extend bool) State {
	if extend {
		if !s.hasAnchor {
			s.anchor = s.cursor
			s.hasAnchor = true
		}
	} else {
		s = s.clearAnchor()
	}
	switch d {
	case Left:
		s.cursor--
	case Right:
		s.cursor++
	case Start:
		s.cursor = 0
	case End:
		s.cursor = len(s.buf)
	}
	return s.normalize()
}

// SelectAll anchors at 0 and puts the cursor at the end.
func (s State) SelectAll() State {
	s.anchor = 0
	s.hasAnchor = true
	s.cursor = len(s.buf)
	return s.normalize()
}

// cut removes the selected range (if any) and returns the insertion point.
func (s State) cut() (State, int) {
	start, end, ok := s.Selection()
	if !ok {
		return s.clearAnchor(), s.cursor
	}
	buf := make([]rune, 0, len(s.buf)-(end-start))
	buf = append(buf, s.buf[:start]...)
	buf = append(buf, s.buf[end:]...)
	s.buf = buf
	s.cursor = start
	return s.clearAnchor(), start
}

func (s State) clearAnchor() State {
	s.anchor = 0
	s.hasAnchor = false
	return s
}

// normalize re-derives cursor and anchor against the current buffer.
func (s State) normalize() State {
	s.cursor = clamp(s.cursor, 0, len(s.buf))
	if s.hasAnchor {
		s.anchor = clamp(s.anchor, 0, len(s.buf))
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
