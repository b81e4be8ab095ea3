package engine

// Viewport is the scroll window over a projection of length L with C
// visible rows. Offset and selection are kept so that
// offset <= selected <= offset+C-1 and 0 <= selected < L whenever L > 0.
// Every input is clamped; nothing here fails.
type Viewport struct {
	length   int
	capacity int
	offset   int
	selected int
}

func NewViewport(length, capacity int) Viewport {
	v := Viewport{}
	v.SetCapacity(capacity)
	v.SetLength(length)
	return v
}

func (v Viewport) Len() int      { return v.length }
func (v Viewport) Capacity() int { return v.capacity }
func (v Viewport) Offset() int   { return v.offset }

// Selected returns the selection index, or false when the projection is empty.
func (v Viewport) Selected() (int, bool) {
	if v.length == 0 {
		return 0, false
	}
	return v.selected, true
}

// SetLength re-clamps after the projection grew or shrank.
func (v *Viewport) SetLength(n int) {
	v.length = max(n, 0)
	v.clamp()
}

// SetCapacity re-clamps after the list pane changed height.
func (v *Viewport) SetCapacity(c int) {
	v.capacity = max(c, 1)
	v.clamp()
}

// Move shifts the selection by delta rows.
func (v *Viewport) Move(delta int) {
	v.selected += delta
	v.clamp()
}

// Page shifts the selection by pages whole windows.
func (v *Viewport) Page(pages int) {
	v.Move(pages * v.capacity)
}

func (v *Viewport) Home() { v.Select(0) }

func (v *Viewport) End() { v.Select(v.length - 1) }

// Select jumps to index i.
func (v *Viewport) Select(i int) {
	v.selected = i
	v.clamp()
}

// Window returns the half-open range [start, end) of visible indices.
func (v Viewport) Window() (start, end int) {
	if v.length == 0 {
		return 0, 0
	}
	return v.offset, min(v.offset+v.capacity, v.length)
}

// Range is the 1-based visible range shown by the side indicator.
type Range struct {
	First int
	Last  int
	Total int
}

// Indicator reports (S+1, min(S+C, L), L), or zeros when empty.
func (v Viewport) Indicator() Range {
	if v.length == 0 {
		return Range{}
	}
	return Range{
		First: v.offset + 1,
		Last:  min(v.offset+v.capacity, v.length),
		Total: v.length,
	}
}

func (v *Viewport) clamp() {
	if v.length == 0 {
		v.selected = 0
		v.offset = 0
		return
	}
	v.selected = min(max(v.selected, 0), v.length-1)

	// Scroll by the minimum needed to keep the selection visible.
	if v.selected < v.offset {
		v.offset = v.selected
	}
	if v.selected > v.offset+v.capacity-1 {
		v.offset = v.selected - v.capacity + 1
	}
	// Never leave blank rows past the end.
	v.offset = min(v.offset, max(v.length-v.capacity, 0))
	v.offset = max(v.offset, 0)
}
