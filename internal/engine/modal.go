package engine

import (
	"context"
	"fmt"
	"strings"

	"checklist/internal/task"
	"checklist/internal/textedit"
)

// Mode is the active input mode. Exactly one is active at a time.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeAddWizard
	ModeQuickAdd
	ModeUpdatePicker
	ModeUpdateWizard
	ModeDeleteConfirm
	ModeQuitConfirm
	ModeHelp
	ModeTagFilter
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModeAddWizard:
		return "add"
	case ModeQuickAdd:
		return "quick-add"
	case ModeUpdatePicker:
		return "update-picker"
	case ModeUpdateWizard:
		return "update"
	case ModeDeleteConfirm:
		return "delete-confirm"
	case ModeQuitConfirm:
		return "quit-confirm"
	case ModeHelp:
		return "help"
	case ModeTagFilter:
		return "tag-filter"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// editKey applies a text-editing key to st. Keys that do not edit are
// ignored.
func editKey(st textedit.State, k Key) textedit.State {
	switch k.Name {
	case "left":
		st = st.Move(textedit.Left, false)
	case "right":
		st = st.Move(textedit.Right, false)
	case "shift+left":
		st = st.Move(textedit.Left, true)
	case "shift+right":
		st = st.Move(textedit.Right, true)
	case "home":
		st = st.Move(textedit.Start, false)
	case "end", "ctrl+e":
		st = st.Move(textedit.End, false)
	case "shift+home":
		st = st.Move(textedit.Start, true)
	case "shift+end":
		st = st.Move(textedit.End, true)
	case "ctrl+a":
		st = st.SelectAll()
	case "backspace", "ctrl+h":
		st = st.DeleteBackward()
	case "delete", "ctrl+d":
		st = st.DeleteForward()
	default:
		if !k.printable() {
			return st
		}
		if k.Paste {
			st = st.InsertString(string(k.Runes))
			return st
		}
		for _, r := range k.Runes {
			st = st.Insert(r)
		}
	}
	return st
}

// digit returns n for the keys "1".."9".
func digit(k Key) (int, bool) {
	if len(k.Name) != 1 || k.Name[0] < '1' || k.Name[0] > '9' {
		return 0, false
	}
	return int(k.Name[0] - '0'), true
}

func isYes(k Key) bool { return k.Name == "y" || k.Name == "Y" }
func isNo(k Key) bool  { return k.Name == "n" || k.Name == "N" }

func (c *Coordinator) handleWizard(ctx context.Context, k Key) {
	s := c.session
	if s == nil {
		c.toBrowsing()
		return
	}
	if c.keys.Cancel.Matches(k) {
		c.toBrowsing()
		c.notify("discarded")
		return
	}
	if c.keys.Back.Matches(k) {
		c.stepBack()
		return
	}

	switch s.Step {
	case StepTitle, StepDescription:
		if c.keys.Confirm.Matches(k) {
			c.confirmText()
			return
		}
		s.Editor = editKey(s.Editor, k)
	case StepUrgency, StepStatus:
		c.handleChoice(k)
	case StepTags:
		c.handleTags(k)
	case StepConfirm:
		if c.keys.Confirm.Matches(k) || isYes(k) {
			c.saveSession(ctx)
		} else if isNo(k) {
			c.toBrowsing()
			c.notify("discarded")
		}
	}
}

// stepBack returns to the previous add step. When updating, back from the
// field reopens the field picker and back from confirm reopens the field.
func (c *Coordinator) stepBack() {
	s := c.session
	if c.mode == ModeUpdateWizard {
		if s.Step == StepConfirm {
			s.enter(c.updateStep)
			return
		}
		c.session = nil
		c.mode = ModeUpdatePicker
		return
	}
	if s.Step == StepTitle {
		return
	}
	s.enter(s.Step.prev())
}

// advance commits the current step and moves on: to the next add step, or
// straight to confirm when updating a single field.
func (c *Coordinator) advance() {
	s := c.session
	s.commit(c.now())
	if c.mode == ModeUpdateWizard {
		s.enter(StepConfirm)
		return
	}
	s.enter(s.Step.next())
}

func (c *Coordinator) confirmText() {
	s := c.session
	if s.Step == StepTitle && strings.TrimSpace(s.Editor.Text()) == "" {
		c.reject(ErrEmptyTitle)
		return
	}
	if s.Step == StepTitle {
		s.Editor = s.Editor.SetText(strings.TrimSpace(s.Editor.Text()))
	}
	c.advance()
}

func (c *Coordinator) handleChoice(k Key) {
	s := c.session
	n := len(s.Choices())
	if d, ok := digit(k); ok {
		if d <= n {
			s.Choice = d - 1
			c.advance()
		}
		return
	}
	switch {
	case c.keys.Confirm.Matches(k):
		c.advance()
	case k.Name == "left" || k.Name == "up":
		s.Choice = clampIndex(s.Choice-1, n)
	case k.Name == "right" || k.Name == "down":
		s.Choice = clampIndex(s.Choice+1, n)
	}
}

func (c *Coordinator) handleTags(k Key) {
	s := c.session
	if c.keys.Confirm.Matches(k) {
		text := strings.TrimSpace(s.Editor.Text())
		if text == "" {
			c.advance()
			return
		}
		if strings.ContainsRune(text, ';') {
			c.reject(ErrTagSeparator)
			return
		}
		if !s.Working.AddTag(text) {
			c.notify("tag %q already present", text)
		}
		s.Editor = textedit.New("")
		return
	}

	if s.TagFocus {
		switch k.Name {
		case "left":
			s.TagCursor = clampIndex(s.TagCursor-1, len(s.Working.Tags))
		case "right":
			s.TagCursor = clampIndex(s.TagCursor+1, len(s.Working.Tags))
		case "up":
			s.TagFocus = false
		case "d", "x", "backspace", "delete":
			if len(s.Working.Tags) > 0 {
				s.Working.RemoveTag(s.Working.Tags[s.TagCursor])
			}
			s.TagCursor = clampIndex(s.TagCursor, len(s.Working.Tags))
			if len(s.Working.Tags) == 0 {
				s.TagFocus = false
			}
		}
		return
	}

	if k.Name == "down" {
		if len(s.Working.Tags) > 0 {
			s.TagFocus = true
			s.TagCursor = clampIndex(s.TagCursor, len(s.Working.Tags))
		}
		return
	}
	s.Editor = editKey(s.Editor, k)
}

func (c *Coordinator) saveSession(ctx context.Context) {
	s := c.session
	if !s.titleValid() {
		s.enter(StepTitle)
		c.reject(ErrEmptyTitle)
		return
	}
	s.Working.Tags = task.NormalizeTags(s.Working.Tags)

	if c.mode == ModeUpdateWizard {
		id := c.target.ID
		if err := c.store.Update(ctx, id, s.Working); err != nil {
			c.fail("update", err)
			return
		}
		c.logger.Info("task updated", "id", id)
		c.afterWrite(ctx, id, fmt.Sprintf("updated %q", s.Working.Title))
		return
	}

	title := s.Working.Title
	id, err := c.store.Create(ctx, s.Working)
	if err != nil {
		c.fail("create", err)
		return
	}
	c.logger.Info("task created", "id", id)
	c.afterWrite(ctx, id, fmt.Sprintf("added %q", title))
}

func (c *Coordinator) handleQuickAdd(ctx context.Context, k Key) {
	switch {
	case c.keys.Cancel.Matches(k):
		c.toBrowsing()
	case c.keys.Confirm.Matches(k):
		title := strings.TrimSpace(c.quick.Text())
		if title == "" {
			c.reject(ErrEmptyTitle)
			return
		}
		id, err := c.store.Create(ctx, task.New(title))
		if err != nil {
			c.fail("create", err)
			return
		}
		c.logger.Info("task created", "id", id, "quick", true)
		c.afterWrite(ctx, id, fmt.Sprintf("added %q", title))
	default:
		c.quick = editKey(c.quick, k)
	}
}

func (c *Coordinator) handleUpdatePicker(k Key) {
	if c.keys.Cancel.Matches(k) || c.keys.Back.Matches(k) {
		c.toBrowsing()
		return
	}
	d, ok := digit(k)
	if !ok || d > len(UpdateFields) {
		return
	}
	c.updateStep = UpdateFields[d-1]
	c.session = newSession(c.target, c.updateStep)
	c.mode = ModeUpdateWizard
}

func (c *Coordinator) handleDeleteConfirm(ctx context.Context, k Key) {
	switch {
	case isYes(k) || c.keys.Delete.Matches(k):
		id, title := c.target.ID, c.target.Title
		if err := c.store.Delete(ctx, id); err != nil {
			c.fail("delete", err)
			return
		}
		c.logger.Info("task deleted", "id", id)
		c.afterWrite(ctx, "", fmt.Sprintf("deleted %q", title))
	case isNo(k) || c.keys.Cancel.Matches(k):
		c.toBrowsing()
		c.notify("delete cancelled")
	}
}

func (c *Coordinator) handleQuitConfirm(k Key) {
	switch {
	case isYes(k) || c.keys.Confirm.Matches(k):
		c.quit = true
	case isNo(k) || c.keys.Cancel.Matches(k):
		c.mode = ModeBrowsing
	}
}

func (c *Coordinator) handleHelp(k Key) {
	last := c.helpMax()
	switch {
	case c.keys.Help.Matches(k) || c.keys.Cancel.Matches(k) || c.keys.Confirm.Matches(k):
		c.mode = ModeBrowsing
	case c.keys.Up.Matches(k):
		c.helpOffset = max(c.helpOffset-1, 0)
	case c.keys.Down.Matches(k):
		c.helpOffset = min(c.helpOffset+1, last)
	case c.keys.Top.Matches(k):
		c.helpOffset = 0
	case c.keys.Bottom.Matches(k):
		c.helpOffset = last
	}
}

// handleTagFilter narrows the projection live as the user types.
func (c *Coordinator) handleTagFilter(k Key) {
	switch {
	case c.keys.Cancel.Matches(k):
		c.query.Tag = ""
		c.mode = ModeBrowsing
		c.reprojectKeepingSelection()
		return
	case c.keys.Confirm.Matches(k):
		c.mode = ModeBrowsing
		return
	case k.Name == "up":
		c.mode = ModeBrowsing
		c.view.Move(-1)
		return
	case k.Name == "down":
		c.mode = ModeBrowsing
		c.view.Move(1)
		return
	}
	c.tagInput = editKey(c.tagInput, k)
	c.query.Tag = strings.TrimSpace(c.tagInput.Text())
	c.reprojectKeepingSelection()
}

// HelpLines is the key reference shown in help mode.
func HelpLines(km Keymap) []string {
	entries := []struct {
		b    Binding
		desc string
	}{
		{km.Up, "move up"},
		{km.Down, "move down"},
		{km.Top, "jump to first task"},
		{km.Bottom, "jump to last task"},
		{km.PageUp, "page up"},
		{km.PageDown, "page down"},
		{km.Add, "add a task (wizard)"},
		{km.QuickAdd, "quick add (title only)"},
		{km.Update, "update a field of the selected task"},
		{km.Delete, "delete the selected task"},
		{km.Toggle, "toggle completed"},
		{km.Filter, "cycle status filter"},
		{km.Sort, "flip urgency sort"},
		{km.TagFilter, "filter by tag"},
		{km.Layout, "cycle layout (auto, horizontal, vertical)"},
		{km.ShrinkList, "shrink list pane"},
		{km.GrowList, "grow list pane"},
		{km.DetailUp, "scroll details up"},
		{km.DetailDown, "scroll details down"},
		{km.Back, "previous wizard step"},
		{km.Help, "toggle this help"},
		{km.Quit, "quit"},
		{km.ForceQuit, "quit immediately"},
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if len(e.b) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-16s %s", strings.Join(e.b, ", "), e.desc))
	}
	return lines
}
