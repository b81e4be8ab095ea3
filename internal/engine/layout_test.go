package engine

import "testing"

func TestSelectorPicksLayoutFromAspect(t *testing.T) {
	sel := DefaultSelector()
	cases := []struct {
		w, h int
		want LayoutMode
	}{
		{120, 40, AutoHorizontal},
		{30, 40, AutoVertical},
		{80, 24, AutoHorizontal},
		{100, 40, AutoHorizontal},
		{99, 40, AutoVertical},
	}
	for _, tc := range cases {
		got, ok := sel.Select(tc.w, tc.h, OverrideNone)
		if !ok {
			t.Fatalf("Select(%d, %d) reported too small", tc.w, tc.h)
		}
		if got != tc.want {
			t.Fatalf("Select(%d, %d) = %v, want %v", tc.w, tc.h, got, tc.want)
		}
		again, _ := sel.Select(tc.w, tc.h, OverrideNone)
		if again != got {
			t.Fatalf("Select(%d, %d) not deterministic", tc.w, tc.h)
		}
	}
}

func TestSelectorOverrideWins(t *testing.T) {
	sel := DefaultSelector()
	if got, _ := sel.Select(30, 40, OverrideHorizontal); got != Horizontal {
		t.Fatalf("override horizontal = %v", got)
	}
	if got, _ := sel.Select(200, 20, OverrideVertical); got != Vertical {
		t.Fatalf("override vertical = %v", got)
	}
	if got := OverrideNone.Next().Next().Next(); got != OverrideNone {
		t.Fatalf("override cycle ended at %v", got)
	}
}

func TestSelectorTooSmall(t *testing.T) {
	sel := DefaultSelector()
	if _, ok := sel.Select(19, 30, OverrideNone); ok {
		t.Fatal("expected 19 columns to be too small")
	}
	if _, ok := sel.Select(60, 7, OverrideNone); ok {
		t.Fatal("expected 7 rows to be too small")
	}
	if _, ok := sel.Select(20, 8, OverrideNone); !ok {
		t.Fatal("expected the minimum size to render")
	}
}

func TestParseOverride(t *testing.T) {
	for in, want := range map[string]Override{"": OverrideNone, "auto": OverrideNone, "Horizontal": OverrideHorizontal, "v": OverrideVertical} {
		got, err := ParseOverride(in)
		if err != nil || got != want {
			t.Fatalf("ParseOverride(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseOverride("diagonal"); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}

func inside(r, outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y && r.X+r.W <= outer.X+outer.W && r.Y+r.H <= outer.Y+outer.H
}

func TestArrangeHorizontal(t *testing.T) {
	p := Arrange(120, 40, AutoHorizontal, 40)
	screen := Rect{W: 120, H: 40}
	for name, r := range map[string]Rect{"list": p.List, "detail": p.Detail, "state": p.State, "status": p.Status} {
		if !inside(r, screen) {
			t.Fatalf("%s pane %+v outside screen", name, r)
		}
	}
	if p.Status != (Rect{X: 0, Y: 39, W: 120, H: 1}) {
		t.Fatalf("status = %+v", p.Status)
	}
	if p.List.W != 48 || p.List.H != 39 {
		t.Fatalf("list = %+v, want 48x39", p.List)
	}
	if p.Detail.X != 48 || p.State.H != statePaneHeight {
		t.Fatalf("detail = %+v state = %+v", p.Detail, p.State)
	}
	if got := p.Capacity(); got != 37 {
		t.Fatalf("capacity = %d, want 37", got)
	}
}

func TestArrangeVerticalDropsStateWhenCramped(t *testing.T) {
	p := Arrange(30, 12, AutoVertical, 50)
	if p.List.W != 30 || p.List.H != 5 {
		t.Fatalf("list = %+v", p.List)
	}
	if !p.State.Empty() {
		t.Fatalf("expected no state pane, got %+v", p.State)
	}
	if p.Detail.Y != 5 || p.Detail.H != 6 {
		t.Fatalf("detail = %+v", p.Detail)
	}
	if got := p.Capacity(); got != 3 {
		t.Fatalf("capacity = %d, want 3", got)
	}
}

func TestArrangeNeverLeavesSliverPanes(t *testing.T) {
	for h := DefaultMinHeight; h <= 60; h++ {
		for pct := MinListPercent; pct <= MaxListPercent; pct += ListPercentStep {
			p := Arrange(40, h, Vertical, pct)
			if p.Detail.H != 0 && p.Detail.H < 3 {
				t.Fatalf("h=%d pct=%d: detail = %+v", h, pct, p.Detail)
			}
			if got := p.List.H + p.Detail.H + p.State.H; got != p.Main.H {
				t.Fatalf("h=%d pct=%d: panes cover %d of %d rows", h, pct, got, p.Main.H)
			}
		}
	}

	p := Arrange(20, 9, Vertical, 80)
	if p.List.H != 5 || p.Detail.H != 3 {
		t.Fatalf("list = %+v detail = %+v", p.List, p.Detail)
	}
}

func TestHelpRows(t *testing.T) {
	if got := Arrange(120, 16, Horizontal, 40).HelpRows(); got != 10 {
		t.Fatalf("HelpRows() = %d, want 10", got)
	}
	if got := (Panes{}).HelpRows(); got != 1 {
		t.Fatalf("HelpRows() on empty panes = %d, want 1", got)
	}
}
