package engine

import (
	"fmt"
	"strings"
	"time"

	"checklist/internal/task"
	"checklist/internal/textedit"
)

// Step is the field an edit session is on.
type Step int

const (
	StepTitle Step = iota
	StepDescription
	StepUrgency
	StepStatus
	StepTags
	StepConfirm
)

// addSteps is the fixed order of the add wizard.
var addSteps = []Step{StepTitle, StepDescription, StepUrgency, StepStatus, StepTags, StepConfirm}

// UpdateFields maps "update field N" (1-based) to its step.
var UpdateFields = []Step{StepTitle, StepDescription, StepUrgency, StepStatus, StepTags}

func (s Step) String() string {
	switch s {
	case StepTitle:
		return "Title"
	case StepDescription:
		return "Description"
	case StepUrgency:
		return "Urgency"
	case StepStatus:
		return "Status"
	case StepTags:
		return "Tags"
	case StepConfirm:
		return "Confirm"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

func (s Step) editsText() bool {
	return s == StepTitle || s == StepDescription || s == StepTags
}

func (s Step) next() Step {
	for i, st := range addSteps {
		if st == s && i+1 < len(addSteps) {
			return addSteps[i+1]
		}
	}
	return StepConfirm
}

func (s Step) prev() Step {
	for i, st := range addSteps {
		if st == s && i > 0 {
			return addSteps[i-1]
		}
	}
	return StepTitle
}

// EditSession is the working copy behind the add and update wizards.
type EditSession struct {
	Step    Step
	Working task.Task
	Editor  textedit.State
	// Choice is the highlighted index in the urgency/status picker.
	Choice int
	// TagCursor is the highlighted tag when TagFocus is set.
	TagCursor int
	TagFocus  bool
}

func newSession(working task.Task, step Step) *EditSession {
	s := &EditSession{Working: working.Clone()}
	s.enter(step)
	return s
}

// enter moves to step and seeds its editor or picker from the working copy.
func (s *EditSession) enter(step Step) {
	s.Step = step
	s.TagFocus = false
	s.TagCursor = 0
	switch step {
	case StepTitle:
		s.Editor = textedit.New(s.Working.Title)
	case StepDescription:
		s.Editor = textedit.New(s.Working.Description)
	case StepTags:
		s.Editor = textedit.New("")
	case StepUrgency:
		s.Choice = int(s.Working.Urgency)
	case StepStatus:
		s.Choice = int(s.Working.Status)
	default:
		s.Editor = textedit.State{}
	}
}

// commit stores the active editor or picker value into the working copy.
func (s *EditSession) commit(now time.Time) {
	switch s.Step {
	case StepTitle:
		s.Working.Title = s.Editor.Text()
	case StepDescription:
		s.Working.Description = s.Editor.Text()
	case StepUrgency:
		s.Working.Urgency = task.Urgencies[clampIndex(s.Choice, len(task.Urgencies))]
	case StepStatus:
		s.Working.SetStatus(task.Statuses[clampIndex(s.Choice, len(task.Statuses))], now)
	}
}

// Prompt is the question shown for the current step.
func (s *EditSession) Prompt() string {
	switch s.Step {
	case StepTitle:
		return "Task title"
	case StepDescription:
		return "Description (optional)"
	case StepUrgency:
		return "Urgency: 1-4 or ←/→ then enter"
	case StepStatus:
		return "Status: 1-4 or ←/→ then enter"
	case StepTags:
		return "Tags: enter adds, empty enter continues, ↓ to remove"
	case StepConfirm:
		return "Save this task? enter/y to save, esc to discard"
	default:
		return ""
	}
}

// Choices lists the picker options for the current step.
func (s *EditSession) Choices() []string {
	var out []string
	switch s.Step {
	case StepUrgency:
		for _, u := range task.Urgencies {
			out = append(out, u.String())
		}
	case StepStatus:
		for _, st := range task.Statuses {
			out = append(out, st.String())
		}
	}
	return out
}

func (s *EditSession) titleValid() bool {
	return strings.TrimSpace(s.Working.Title) != ""
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}
