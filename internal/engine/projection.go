package engine

import (
	"cmp"
	"slices"

	"checklist/internal/task"
)

// SortKey names the field a projection is ordered by. Urgency is the only key.
type SortKey int

const SortUrgency SortKey = iota

// SortOrder is a key plus direction.
type SortOrder struct {
	Key        SortKey
	Descending bool
}

// Query describes one projection of the task collection.
type Query struct {
	Status task.StatusFilter
	Tag    string
	Sort   SortOrder
}

func (q Query) match(t task.Task) bool {
	if !q.Status.Match(t.Status) {
		return false
	}
	if q.Tag == "" {
		return true
	}
	return t.HasTag(q.Tag)
}

// Project filters and sorts a snapshot. The snapshot is never modified and
// tasks of equal urgency keep their snapshot order.
func Project(snapshot []task.Task, q Query) []task.Task {
	out := make([]task.Task, 0, len(snapshot))
	for _, t := range snapshot {
		if q.match(t) {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b task.Task) int {
		c := cmp.Compare(a.Urgency.Rank(), b.Urgency.Rank())
		if q.Sort.Descending {
			return -c
		}
		return c
	})
	return out
}
