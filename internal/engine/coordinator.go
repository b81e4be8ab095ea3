package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"checklist/internal/task"
	"checklist/internal/textedit"
)

// Store is the persistence the coordinator needs. Calls are synchronous and
// never overlap.
type Store interface {
	List(ctx context.Context) ([]task.Task, error)
	Create(ctx context.Context, t task.Task) (string, error)
	Update(ctx context.Context, id string, t task.Task) error
	Delete(ctx context.Context, id string) error
}

// Prefs are the view settings remembered across runs. The tag filter and
// layout override are deliberately not part of it.
type Prefs struct {
	Status     task.StatusFilter
	Descending bool
}

type Options struct {
	Keymap      Keymap
	Selector    Selector
	Prefs       Prefs
	Override    Override
	ListPercent int
	// SavePrefs is called whenever the status filter or sort direction changes.
	SavePrefs func(Prefs) error
	Logger    *log.Logger
	Now       func() time.Time
}

// Coordinator owns the view state and routes each input event through the
// active mode. It is not safe for concurrent use; the event loop is the
// only caller.
type Coordinator struct {
	store     Store
	keys      Keymap
	selector  Selector
	savePrefs func(Prefs) error
	logger    *log.Logger
	now       func() time.Time

	width       int
	height      int
	override    Override
	listPercent int
	layout      LayoutMode
	renderable  bool
	panes       Panes

	query      Query
	snapshot   []task.Task
	projection []task.Task
	view       Viewport

	mode         Mode
	session      *EditSession
	quick        textedit.State
	tagInput     textedit.State
	target       task.Task
	updateStep   Step
	helpOffset   int
	detailOffset int
	detailLines  int

	message    string
	messageErr bool
	quit       bool
}

func New(store Store, opts Options) *Coordinator {
	if opts.Keymap.Confirm == nil {
		opts.Keymap = DefaultKeymap()
	}
	if opts.Selector == (Selector{}) {
		opts.Selector = DefaultSelector()
	}
	if opts.ListPercent == 0 {
		opts.ListPercent = DefaultListPercent
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &Coordinator{
		store:       store,
		keys:        opts.Keymap,
		selector:    opts.Selector,
		savePrefs:   opts.SavePrefs,
		logger:      opts.Logger,
		now:         opts.Now,
		override:    opts.Override,
		listPercent: min(max(opts.ListPercent, MinListPercent), MaxListPercent),
		query: Query{
			Status: opts.Prefs.Status,
			Sort:   SortOrder{Key: SortUrgency, Descending: opts.Prefs.Descending},
		},
		view: NewViewport(0, 1),
		mode: ModeBrowsing,
	}
	return c
}

// Refresh refetches the snapshot and recomputes the projection, keeping the
// selection on the same task when it is still visible.
func (c *Coordinator) Refresh(ctx context.Context) error {
	id := ""
	if t, ok := c.selectedTask(); ok {
		id = t.ID
	}
	return c.reload(ctx, id)
}

// Resize records the terminal size and re-evaluates the layout. The UI
// calls it on every size message and every tick.
func (c *Coordinator) Resize(w, h int) {
	c.width, c.height = w, h
	c.relayout()
}

// Quitting reports whether the user confirmed quitting.
func (c *Coordinator) Quitting() bool { return c.quit }

func (c *Coordinator) Mode() Mode { return c.mode }

// Query returns the active filter and sort.
func (c *Coordinator) Query() Query { return c.query }

// Projection returns the current filtered, sorted view.
func (c *Coordinator) Projection() []task.Task { return c.projection }

func (c *Coordinator) Viewport() Viewport { return c.view }

func (c *Coordinator) Session() *EditSession { return c.session }

func (c *Coordinator) Layout() (LayoutMode, bool) { return c.layout, c.renderable }

// Message returns the status line and whether it reports a failure.
func (c *Coordinator) Message() (string, bool) { return c.message, c.messageErr }

func (c *Coordinator) relayout() {
	mode, ok := c.selector.Select(c.width, c.height, c.override)
	if mode != c.layout || ok != c.renderable {
		c.logger.Debug("layout changed", "mode", mode, "renderable", ok, "width", c.width, "height", c.height)
	}
	c.layout, c.renderable = mode, ok
	c.panes = Arrange(c.width, c.height, mode, c.listPercent)
	if ok {
		c.view.SetCapacity(c.panes.Capacity())
	}
	c.detailOffset = min(c.detailOffset, c.detailMax())
	c.helpOffset = min(c.helpOffset, c.helpMax())
}

// SetDetailExtent records how many lines the selected task's details take
// once wrapped, so detail scrolling stops at the last full page.
func (c *Coordinator) SetDetailExtent(lines int) {
	c.detailLines = max(lines, 0)
	c.detailOffset = min(c.detailOffset, c.detailMax())
}

func (c *Coordinator) detailMax() int {
	return max(c.detailLines-c.panes.Detail.Inner().H, 0)
}

func (c *Coordinator) helpMax() int {
	return max(len(HelpLines(c.keys))-c.panes.HelpRows(), 0)
}

func (c *Coordinator) reload(ctx context.Context, focusID string) error {
	tasks, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	c.snapshot = tasks
	c.reproject(focusID)
	return nil
}

// reproject recomputes the projection from the held snapshot.
func (c *Coordinator) reproject(focusID string) {
	c.projection = Project(c.snapshot, c.query)
	c.view.SetLength(len(c.projection))
	if focusID == "" {
		return
	}
	for i, t := range c.projection {
		if t.ID == focusID {
			c.view.Select(i)
			return
		}
	}
}

func (c *Coordinator) selectedTask() (task.Task, bool) {
	i, ok := c.view.Selected()
	if !ok || i >= len(c.projection) {
		return task.Task{}, false
	}
	return c.projection[i], true
}

func (c *Coordinator) notify(format string, args ...any) {
	c.message = fmt.Sprintf(format, args...)
	c.messageErr = false
}

// fail aborts the in-flight operation and surfaces err.
func (c *Coordinator) fail(op string, err error) {
	c.logger.Error("store operation failed", "op", op, "err", err)
	c.message = fmt.Sprintf("%s failed: %v", op, err)
	c.messageErr = true
	c.toBrowsing()
}

func (c *Coordinator) reject(err error) {
	c.message = err.Error()
	c.messageErr = true
}

func (c *Coordinator) toBrowsing() {
	c.mode = ModeBrowsing
	c.session = nil
	c.quick = textedit.State{}
	c.target = task.Task{}
}

// afterWrite refetches once a mutation succeeded.
func (c *Coordinator) afterWrite(ctx context.Context, focusID, msg string) {
	c.toBrowsing()
	if err := c.reload(ctx, focusID); err != nil {
		c.fail("reload", err)
		return
	}
	c.notify("%s", msg)
}

func (c *Coordinator) persistPrefs() {
	if c.savePrefs == nil {
		return
	}
	prefs := Prefs{Status: c.query.Status, Descending: c.query.Sort.Descending}
	if err := c.savePrefs(prefs); err != nil {
		c.logger.Warn("saving view preferences failed", "err", err)
		c.message = fmt.Sprintf("could not save preferences: %v", err)
		c.messageErr = true
	}
}

// HandleKey processes one key to completion.
func (c *Coordinator) HandleKey(ctx context.Context, k Key) {
	if c.keys.ForceQuit.Matches(k) {
		c.quit = true
		return
	}
	// Messages are dismissed by the next key.
	c.message, c.messageErr = "", false

	before := c.mode
	switch c.mode {
	case ModeBrowsing:
		c.handleBrowsing(ctx, k)
	case ModeAddWizard, ModeUpdateWizard:
		c.handleWizard(ctx, k)
	case ModeQuickAdd:
		c.handleQuickAdd(ctx, k)
	case ModeUpdatePicker:
		c.handleUpdatePicker(k)
	case ModeDeleteConfirm:
		c.handleDeleteConfirm(ctx, k)
	case ModeQuitConfirm:
		c.handleQuitConfirm(k)
	case ModeHelp:
		c.handleHelp(k)
	case ModeTagFilter:
		c.handleTagFilter(k)
	}
	if c.mode != before {
		c.logger.Debug("mode transition", "from", before, "to", c.mode, "key", k.Name)
	}
}

func (c *Coordinator) handleBrowsing(ctx context.Context, k Key) {
	switch {
	case c.keys.Up.Matches(k):
		c.moveSelection(func() { c.view.Move(-1) })
	case c.keys.Down.Matches(k):
		c.moveSelection(func() { c.view.Move(1) })
	case c.keys.Top.Matches(k):
		c.moveSelection(c.view.Home)
	case c.keys.Bottom.Matches(k):
		c.moveSelection(c.view.End)
	case c.keys.PageUp.Matches(k):
		c.moveSelection(func() { c.view.Page(-1) })
	case c.keys.PageDown.Matches(k):
		c.moveSelection(func() { c.view.Page(1) })
	case c.keys.Add.Matches(k):
		c.session = newSession(task.New(""), StepTitle)
		c.mode = ModeAddWizard
	case c.keys.QuickAdd.Matches(k):
		c.quick = textedit.New("")
		c.mode = ModeQuickAdd
	case c.keys.Update.Matches(k):
		if t, ok := c.selectedTask(); ok {
			c.target = t.Clone()
			c.mode = ModeUpdatePicker
		}
	case c.keys.Delete.Matches(k):
		if t, ok := c.selectedTask(); ok {
			c.target = t.Clone()
			c.mode = ModeDeleteConfirm
		}
	case c.keys.Toggle.Matches(k):
		c.toggleComplete(ctx)
	case c.keys.Help.Matches(k):
		c.helpOffset = 0
		c.mode = ModeHelp
	case c.keys.Quit.Matches(k):
		c.mode = ModeQuitConfirm
	case c.keys.Filter.Matches(k):
		c.query.Status = c.query.Status.Next()
		c.reprojectKeepingSelection()
		c.persistPrefs()
	case c.keys.Sort.Matches(k):
		c.query.Sort.Descending = !c.query.Sort.Descending
		c.reprojectKeepingSelection()
		c.persistPrefs()
	case c.keys.Layout.Matches(k):
		c.override = c.override.Next()
		c.relayout()
		c.notify("layout: %s", c.override)
	case c.keys.TagFilter.Matches(k):
		c.tagInput = textedit.New(c.query.Tag)
		c.mode = ModeTagFilter
	case c.keys.ShrinkList.Matches(k):
		c.listPercent = max(c.listPercent-ListPercentStep, MinListPercent)
		c.relayout()
	case c.keys.GrowList.Matches(k):
		c.listPercent = min(c.listPercent+ListPercentStep, MaxListPercent)
		c.relayout()
	case c.keys.DetailUp.Matches(k):
		c.detailOffset = max(c.detailOffset-1, 0)
	case c.keys.DetailDown.Matches(k):
		c.detailOffset = min(c.detailOffset+1, c.detailMax())
	}
}

func (c *Coordinator) moveSelection(move func()) {
	before, _ := c.view.Selected()
	move()
	if after, _ := c.view.Selected(); after != before {
		c.detailOffset = 0
	}
}

func (c *Coordinator) reprojectKeepingSelection() {
	id := ""
	if t, ok := c.selectedTask(); ok {
		id = t.ID
	}
	c.reproject(id)
}

// toggleComplete is the one transition that writes without a modal:
// Completed <-> Open on the highlighted task, persisted immediately.
func (c *Coordinator) toggleComplete(ctx context.Context) {
	t, ok := c.selectedTask()
	if !ok {
		return
	}
	updated := t.Clone()
	updated.ToggleComplete(c.now())
	if err := c.store.Update(ctx, t.ID, updated); err != nil {
		c.fail("toggle", err)
		return
	}
	c.afterWrite(ctx, t.ID, fmt.Sprintf("%q is now %s", t.Title, updated.Status))
}
