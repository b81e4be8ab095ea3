package task

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Urgency ranks how pressing a task is. Higher values sort first in a descending view.
type Urgency int

const (
	Low Urgency = iota
	Medium
	High
	Critical
)

// Urgencies lists every urgency in rank order, lowest first.
var Urgencies = []Urgency{Low, Medium, High, Critical}

func (u Urgency) String() string {
	switch u {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	case Critical:
		return "Critical"
	default:
		return fmt.Sprintf("Urgency(%d)", int(u))
	}
}

// Rank is the sort weight of the urgency; Critical > High > Medium > Low.
func (u Urgency) Rank() int {
	return int(u)
}

func ParseUrgency(s string) (Urgency, error) {
	for _, u := range Urgencies {
		if strings.EqualFold(strings.TrimSpace(s), u.String()) {
			return u, nil
		}
	}
	return Low, fmt.Errorf("invalid urgency %q", s)
}

// Status is the lifecycle state of a task.
type Status int

const (
	Open Status = iota
	Working
	Paused
	Completed
)

var Statuses = []Status{Open, Working, Paused, Completed}

func (s Status) String() string {
	switch s {
	case Open:
		return "Open"
	case Working:
		return "Working"
	case Paused:
		return "Paused"
	case Completed:
		return "Completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func ParseStatus(v string) (Status, error) {
	for _, s := range Statuses {
		if strings.EqualFold(strings.TrimSpace(v), s.String()) {
			return s, nil
		}
	}
	return Open, fmt.Errorf("invalid status %q", v)
}

// StatusFilter selects which statuses a view shows.
type StatusFilter int

const (
	FilterAll StatusFilter = iota
	FilterCompleted
	FilterNotCompleted
)

func (f StatusFilter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterCompleted:
		return "completed"
	case FilterNotCompleted:
		return "not-completed"
	default:
		return fmt.Sprintf("StatusFilter(%d)", int(f))
	}
}

// Label is the human-facing name used in the state pane.
func (f StatusFilter) Label() string {
	switch f {
	case FilterCompleted:
		return "Completed"
	case FilterNotCompleted:
		return "NotCompleted"
	default:
		return "All"
	}
}

// Next cycles All -> NotCompleted -> Completed -> All.
func (f StatusFilter) Next() StatusFilter {
	switch f {
	case FilterAll:
		return FilterNotCompleted
	case FilterNotCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Match reports whether a task with status s passes the filter.
func (f StatusFilter) Match(s Status) bool {
	switch f {
	case FilterCompleted:
		return s == Completed
	case FilterNotCompleted:
		return s != Completed
	default:
		return true
	}
}

func ParseStatusFilter(v string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "not-completed", "not_completed", "notcompleted", "pending":
		return FilterNotCompleted, nil
	default:
		return FilterAll, fmt.Errorf("invalid status filter %q", v)
	}
}

// Task is one tracked item. The store owns the canonical copy; views hold snapshots.
type Task struct {
	ID          string
	Title       string
	Description string
	Urgency     Urgency
	Status      Status
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt time.Time
}

// New returns a blank Open/Low task with the given title.
func New(title string) Task {
	return Task{
		Title:   title,
		Urgency: Low,
		Status:  Open,
	}
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	t.Tags = slices.Clone(t.Tags)
	return t
}

// SetStatus changes the status and keeps CompletedAt in step with it.
func (t *Task) SetStatus(s Status, now time.Time) {
	if s == t.Status && (s != Completed || !t.CompletedAt.IsZero()) {
		return
	}
	t.Status = s
	if s == Completed {
		t.CompletedAt = now
	} else {
		t.CompletedAt = time.Time{}
	}
}

// ToggleComplete flips Completed <-> Open.
func (t *Task) ToggleComplete(now time.Time) {
	if t.Status == Completed {
		t.SetStatus(Open, now)
		return
	}
	t.SetStatus(Completed, now)
}

// HasTag reports whether tag is in the task's tag set.
func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// AddTag inserts tag keeping the set sorted. Empty and duplicate tags are ignored.
func (t *Task) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.HasTag(tag) {
		return false
	}
	t.Tags = append(t.Tags, tag)
	slices.Sort(t.Tags)
	return true
}

func (t *Task) RemoveTag(tag string) bool {
	idx := slices.Index(t.Tags, tag)
	if idx < 0 {
		return false
	}
	t.Tags = slices.Delete(t.Tags, idx, idx+1)
	return true
}

// NormalizeTags trims, dedupes and sorts a tag list.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}
