package engine

import (
	"fmt"

	"checklist/internal/task"
	"checklist/internal/textedit"
)

// Plan is everything the renderer needs for one frame. It is a value
// snapshot; the renderer never reaches back into the coordinator.
type Plan struct {
	Width  int
	Height int
	// TooSmall is set when the terminal is below the minimum size. Only the
	// placeholder is drawn then.
	TooSmall bool
	Layout   LayoutMode
	Override Override
	Panes    Panes

	Rows      []Row
	Indicator Range
	// Offset is the scroll offset, for the scrollbar.
	Offset int
	Total  int

	Selected     *task.Task
	DetailOffset int

	Query       Query
	ListPercent int
	Mode        Mode
	Modal       *Modal

	Help       []string
	HelpOffset int
	// HelpRows is how many Help lines fit in the popup.
	HelpRows int

	Message        string
	MessageIsError bool
}

// Row is one visible list row.
type Row struct {
	Task task.Task
	// Index is the row's position in the full projection.
	Index    int
	Selected bool
}

// Input is a text buffer as the renderer sees it.
type Input struct {
	Text         string
	Runes        []rune
	Cursor       int
	SelStart     int
	SelEnd       int
	HasSelection bool
}

func inputFrom(st textedit.State) *Input {
	in := &Input{Text: st.Text(), Runes: st.Runes(), Cursor: st.Cursor()}
	in.SelStart, in.SelEnd, in.HasSelection = st.Selection()
	return in
}

// Modal describes the popup for any mode other than browsing.
type Modal struct {
	Title  string
	Prompt string
	Step   Step
	Input  *Input

	Choices []string
	Choice  int

	Tags      []string
	TagCursor int
	TagFocus  bool

	// Working is the task being edited or targeted.
	Working *task.Task
	// Fields lists the update picker's numbered options.
	Fields []string
}

// Plan builds the render plan for the current state.
func (c *Coordinator) Plan() Plan {
	p := Plan{
		Width:          c.width,
		Height:         c.height,
		TooSmall:       !c.renderable,
		Layout:         c.layout,
		Override:       c.override,
		Panes:          c.panes,
		Indicator:      c.view.Indicator(),
		Offset:         c.view.Offset(),
		Total:          c.view.Len(),
		DetailOffset:   c.detailOffset,
		Query:          c.query,
		ListPercent:    c.listPercent,
		Mode:           c.mode,
		Message:        c.message,
		MessageIsError: c.messageErr,
	}
	if p.TooSmall {
		return p
	}

	start, end := c.view.Window()
	sel, hasSel := c.view.Selected()
	for i := start; i < end && i < len(c.projection); i++ {
		p.Rows = append(p.Rows, Row{Task: c.projection[i], Index: i, Selected: hasSel && i == sel})
	}
	if t, ok := c.selectedTask(); ok {
		p.Selected = &t
	}

	if c.mode == ModeHelp {
		p.Help = HelpLines(c.keys)
		p.HelpOffset = c.helpOffset
		p.HelpRows = c.panes.HelpRows()
	}
	p.Modal = c.modal()
	return p
}

func (c *Coordinator) modal() *Modal {
	switch c.mode {
	case ModeAddWizard, ModeUpdateWizard:
		s := c.session
		if s == nil {
			return nil
		}
		title := "New task"
		if c.mode == ModeUpdateWizard {
			title = "Update task"
		}
		working := s.Working.Clone()
		m := &Modal{
			Title:     title + ": " + s.Step.String(),
			Prompt:    s.Prompt(),
			Step:      s.Step,
			Choices:   s.Choices(),
			Choice:    s.Choice,
			Tags:      working.Tags,
			TagCursor: s.TagCursor,
			TagFocus:  s.TagFocus,
			Working:   &working,
		}
		if s.Step.editsText() {
			m.Input = inputFrom(s.Editor)
		}
		return m
	case ModeQuickAdd:
		return &Modal{Title: "Quick add", Prompt: "Task title", Input: inputFrom(c.quick)}
	case ModeUpdatePicker:
		t := c.target.Clone()
		fields := make([]string, len(UpdateFields))
		for i, f := range UpdateFields {
			fields[i] = f.String()
		}
		return &Modal{Title: "Update task", Prompt: "Field to update: 1-5", Working: &t, Fields: fields}
	case ModeDeleteConfirm:
		t := c.target.Clone()
		return &Modal{Title: "Delete task", Prompt: fmt.Sprintf("Delete %q? y/n", t.Title), Working: &t}
	case ModeQuitConfirm:
		return &Modal{Title: "Quit", Prompt: "Quit checklist? y/n"}
	case ModeTagFilter:
		return &Modal{Title: "Filter by tag", Prompt: "enter keeps, esc clears", Input: inputFrom(c.tagInput)}
	default:
		return nil
	}
}
