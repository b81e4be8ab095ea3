package engine

import (
	"slices"
	"testing"

	"checklist/internal/task"
)

func sampleTasks() []task.Task {
	mk := func(id string, u task.Urgency, s task.Status, tags ...string) task.Task {
		return task.Task{ID: id, Title: id, Urgency: u, Status: s, Tags: tags}
	}
	return []task.Task{
		mk("a", task.Low, task.Open, "home"),
		mk("b", task.Critical, task.Completed, "work"),
		mk("c", task.High, task.Working),
		mk("d", task.Low, task.Paused, "work", "home"),
		mk("e", task.Critical, task.Open),
		mk("f", task.Medium, task.Completed),
	}
}

func ids(ts []task.Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestProjectSortsByUrgencyStably(t *testing.T) {
	asc := Project(sampleTasks(), Query{Sort: SortOrder{Key: SortUrgency}})
	if got, want := ids(asc), []string{"a", "d", "f", "c", "b", "e"}; !slices.Equal(got, want) {
		t.Fatalf("ascending = %v, want %v", got, want)
	}
	desc := Project(sampleTasks(), Query{Sort: SortOrder{Key: SortUrgency, Descending: true}})
	if got, want := ids(desc), []string{"b", "e", "c", "f", "a", "d"}; !slices.Equal(got, want) {
		t.Fatalf("descending = %v, want %v", got, want)
	}
}

func TestProjectFiltersByStatusAndTag(t *testing.T) {
	got := ids(Project(sampleTasks(), Query{Status: task.FilterNotCompleted}))
	if want := []string{"a", "d", "c", "e"}; !slices.Equal(got, want) {
		t.Fatalf("not completed = %v, want %v", got, want)
	}
	got = ids(Project(sampleTasks(), Query{Status: task.FilterCompleted}))
	if want := []string{"f", "b"}; !slices.Equal(got, want) {
		t.Fatalf("completed = %v, want %v", got, want)
	}
	got = ids(Project(sampleTasks(), Query{Tag: "work"}))
	if want := []string{"d", "b"}; !slices.Equal(got, want) {
		t.Fatalf("tag work = %v, want %v", got, want)
	}
	if out := Project(sampleTasks(), Query{Tag: "missing"}); len(out) != 0 {
		t.Fatalf("expected empty projection, got %v", ids(out))
	}
}

func TestProjectIsIdempotentAndLeavesSnapshotAlone(t *testing.T) {
	snapshot := sampleTasks()
	before := ids(snapshot)
	q := Query{Status: task.FilterNotCompleted, Sort: SortOrder{Key: SortUrgency, Descending: true}}
	once := Project(snapshot, q)
	twice := Project(once, q)
	if !slices.Equal(ids(once), ids(twice)) {
		t.Fatalf("projection not idempotent: %v vs %v", ids(once), ids(twice))
	}
	if !slices.Equal(ids(snapshot), before) {
		t.Fatalf("snapshot reordered: %v", ids(snapshot))
	}
	if Project(nil, q) == nil {
		t.Fatal("expected non-nil empty projection")
	}
}
