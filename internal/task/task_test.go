package task

import (
	"slices"
	"testing"
	"time"
)

func TestUrgencyRankOrdering(t *testing.T) {
	if !(Low.Rank() < Medium.Rank() && Medium.Rank() < High.Rank() && High.Rank() < Critical.Rank()) {
		t.Fatal("expected Low < Medium < High < Critical")
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, u := range Urgencies {
		got, err := ParseUrgency(u.String())
		if err != nil || got != u {
			t.Fatalf("ParseUrgency(%q) = %v, %v", u.String(), got, err)
		}
	}
	for _, s := range Statuses {
		got, err := ParseStatus(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseStatus(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseUrgency("urgent"); err == nil {
		t.Fatal("expected error for unknown urgency")
	}
	if got, err := ParseStatus("completed"); err != nil || got != Completed {
		t.Fatalf("expected case-insensitive status parse, got %v, %v", got, err)
	}
}

func TestParseStatusFilter(t *testing.T) {
	cases := map[string]StatusFilter{
		"":              FilterAll,
		"all":           FilterAll,
		"Completed":     FilterCompleted,
		"not-completed": FilterNotCompleted,
		"not_completed": FilterNotCompleted,
	}
	for in, want := range cases {
		got, err := ParseStatusFilter(in)
		if err != nil {
			t.Fatalf("ParseStatusFilter(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseStatusFilter(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseStatusFilter("weird"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestStatusFilterCycleAndMatch(t *testing.T) {
	f := FilterAll
	seen := []StatusFilter{f}
	for range 3 {
		f = f.Next()
		seen = append(seen, f)
	}
	want := []StatusFilter{FilterAll, FilterNotCompleted, FilterCompleted, FilterAll}
	if !slices.Equal(seen, want) {
		t.Fatalf("cycle = %v, want %v", seen, want)
	}
	if !FilterCompleted.Match(Completed) || FilterCompleted.Match(Open) {
		t.Fatal("completed filter mismatch")
	}
	if FilterNotCompleted.Match(Completed) || !FilterNotCompleted.Match(Paused) {
		t.Fatal("not-completed filter mismatch")
	}
}

func TestToggleCompleteTracksCompletedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tk := New("write report")
	tk.ToggleComplete(now)
	if tk.Status != Completed || !tk.CompletedAt.Equal(now) {
		t.Fatalf("expected completed at %v, got %v / %v", now, tk.Status, tk.CompletedAt)
	}
	tk.ToggleComplete(now.Add(time.Hour))
	if tk.Status != Open || !tk.CompletedAt.IsZero() {
		t.Fatalf("expected open with zero CompletedAt, got %v / %v", tk.Status, tk.CompletedAt)
	}
}

func TestTagSetSemantics(t *testing.T) {
	tk := New("tags")
	if !tk.AddTag("work") || !tk.AddTag(" home ") {
		t.Fatal("expected tags to be added")
	}
	if tk.AddTag("work") {
		t.Fatal("expected duplicate tag to be a no-op")
	}
	if tk.AddTag("   ") {
		t.Fatal("expected blank tag to be ignored")
	}
	if !slices.Equal(tk.Tags, []string{"home", "work"}) {
		t.Fatalf("unexpected tags %v", tk.Tags)
	}
	if !tk.RemoveTag("home") || tk.RemoveTag("home") {
		t.Fatal("unexpected RemoveTag result")
	}
	if got := NormalizeTags([]string{"b", "a", "b", " ", "a "}); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("NormalizeTags = %v", got)
	}
}

func TestCloneDoesNotShareTags(t *testing.T) {
	tk := New("clone")
	tk.AddTag("x")
	cp := tk.Clone()
	cp.AddTag("y")
	if len(tk.Tags) != 1 {
		t.Fatalf("clone mutated original tags: %v", tk.Tags)
	}
}
