package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"checklist/internal/config"
	"checklist/internal/engine"
	"checklist/internal/task"
)

const timeLayout = "2006-01-02 15:04"

type styles struct {
	text      lipgloss.Style
	muted     lipgloss.Style
	title     lipgloss.Style
	selected  lipgloss.Style
	altRow    lipgloss.Style
	errorText lipgloss.Style
	statusBar lipgloss.Style
	popup     lipgloss.Style
	helpBox   lipgloss.Style
	selection lipgloss.Style
	cursor    lipgloss.Style
	choice    lipgloss.Style
	urgency   map[task.Urgency]lipgloss.Style
	status    map[task.Status]lipgloss.Style
}

func newStyles(th config.Theme) styles {
	c := th.Colors
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return styles{
		text:      fg(c.Text),
		muted:     fg(c.Muted),
		title:     fg(c.Text).Bold(true),
		selected:  fg(c.Text).Background(lipgloss.Color(c.SelectedBg)).Bold(true),
		altRow:    fg(c.Text).Background(lipgloss.Color(c.AltRowBg)),
		errorText: fg(c.Error).Bold(true),
		statusBar: fg(c.Text).Background(lipgloss.Color(c.StatusBarBg)),
		popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.PopupBorder)).
			Background(lipgloss.Color(c.PopupBg)),
		helpBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.HelpBorder)),
		selection: fg(c.SelectionText).Background(lipgloss.Color(c.SelectionBg)),
		cursor:    fg(c.Text).Reverse(true),
		choice:    fg(c.SelectionText).Background(lipgloss.Color(c.SelectionBg)).Bold(true),
		urgency: map[task.Urgency]lipgloss.Style{
			task.Low:      fg(th.Urgency.Low),
			task.Medium:   fg(th.Urgency.Medium),
			task.High:     fg(th.Urgency.High),
			task.Critical: fg(th.Urgency.Critical).Bold(true),
		},
		status: map[task.Status]lipgloss.Style{
			task.Open:      fg(th.Status.Open),
			task.Working:   fg(th.Status.Working),
			task.Paused:    fg(th.Status.Paused),
			task.Completed: fg(th.Status.Completed),
		},
	}
}

// renderer turns an engine.Plan into a frame.
type renderer struct {
	theme    config.Theme
	styles   styles
	keys     keyMap
	help     help.Model
	md       markdownRenderer
	markdown bool
}

func newRenderer(th config.Theme, keys keyMap, markdown bool) *renderer {
	h := help.New()
	h.ShortSeparator = "  "
	return &renderer{
		theme:    th,
		styles:   newStyles(th),
		keys:     keys,
		help:     h,
		markdown: markdown,
	}
}

func (r *renderer) render(p engine.Plan) string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}
	if p.TooSmall {
		return r.tooSmall(p)
	}

	list := r.listPane(p)
	detail := r.detailPane(p)
	var state string
	if !p.Panes.State.Empty() {
		state = r.statePane(p)
	}

	var main string
	if p.Layout.IsHorizontal() {
		right := lipgloss.JoinVertical(lipgloss.Left, nonEmpty(detail, state)...)
		main = lipgloss.JoinHorizontal(lipgloss.Top, nonEmpty(list, right)...)
	} else {
		main = lipgloss.JoinVertical(lipgloss.Left, nonEmpty(list, detail, state)...)
	}

	if box := r.overlayBox(p); box != "" {
		main = overlay(main, box, p.Panes.Main.W, p.Panes.Main.H)
	}
	return main + "\n" + r.statusBar(p)
}

func (r *renderer) tooSmall(p engine.Plan) string {
	msg := r.styles.errorText.Render("Terminal too small") + "\n" +
		r.styles.muted.Render(fmt.Sprintf("%dx%d", p.Width, p.Height))
	placed := lipgloss.Place(p.Width, p.Height, lipgloss.Center, lipgloss.Center, msg)
	return fitBlock(strings.Split(placed, "\n"), p.Width, p.Height)
}

// nonEmpty drops blocks with no rows; joining "" would add a blank line.
func nonEmpty(blocks ...string) []string {
	out := blocks[:0]
	for _, b := range blocks {
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

// pane draws lines inside a rounded border sized exactly to rect. A rect
// too small to hold a border and one cell gets the bare lines.
func (r *renderer) pane(rect engine.Rect, border string, lines []string) string {
	if rect.W < 3 || rect.H < 3 {
		return fitBlock(lines, rect.W, rect.H)
	}
	inner := rect.Inner()
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Render(fitBlock(lines, inner.W, inner.H))
}

func (r *renderer) listPane(p engine.Plan) string {
	rect := p.Panes.List
	inner := rect.Inner()
	rowWidth := inner.W - 1

	lines := make([]string, 0, inner.H)
	if p.Total == 0 {
		empty := "No tasks. Press " + strings.Join(r.keys.Add.Keys(), "/") + " to add one."
		if p.Query.Tag != "" || p.Query.Status != task.FilterAll {
			empty = "No tasks match the current filter."
		}
		lines = append(lines, r.styles.muted.Render(empty))
	}
	for i, row := range p.Rows {
		lines = append(lines, r.row(row, rowWidth, i))
	}

	if len(lines) > inner.H {
		lines = lines[:max(inner.H, 0)]
	}
	bar := r.scrollbar(p.Offset, p.Total, inner.H)
	for i := range lines {
		lines[i] = fitLine(lines[i], rowWidth) + bar[i]
	}
	for i := len(lines); i < inner.H; i++ {
		lines = append(lines, strings.Repeat(" ", max(rowWidth, 0))+bar[i])
	}
	return r.pane(rect, r.theme.Colors.ListBorder, lines)
}

func (r *renderer) row(row engine.Row, width, visible int) string {
	t := row.Task
	marker := strings.Repeat(" ", xansi.StringWidth(r.theme.Glyphs.HighlightSymbol))
	if row.Selected {
		marker = r.theme.Glyphs.HighlightSymbol
	}
	check := "[ ]"
	if t.Status == task.Completed {
		check = "[x]"
	}
	urgency := fmt.Sprintf("%-8s", t.Urgency.String())
	status := t.Status.String()

	titleWidth := width - xansi.StringWidth(marker) - len(check) - len(urgency) - len(status) - 4
	title := t.Title
	if titleWidth < 1 {
		title = ""
	} else {
		title = fitLine(xansi.Truncate(title, titleWidth, "…"), titleWidth)
	}

	base := r.styles.text
	switch {
	case row.Selected:
		base = r.styles.selected
	case visible%2 == 1:
		base = r.styles.altRow
	}
	line := base.Render(marker+" "+check+" ") +
		r.styles.urgency[t.Urgency].Inherit(base).Render(urgency) +
		base.Render(" "+title+" ") +
		r.styles.status[t.Status].Inherit(base).Render(status)
	return line
}

// scrollbar returns one cell per row: blank when everything fits, else
// begin/end glyphs around a track with a proportional thumb.
func (r *renderer) scrollbar(offset, total, height int) []string {
	bar := make([]string, max(height, 0))
	for i := range bar {
		bar[i] = " "
	}
	if height <= 0 || total <= height {
		return bar
	}
	g := r.theme.Glyphs
	track := height
	start := 0
	if height >= 3 {
		bar[0] = g.ScrollBegin
		bar[height-1] = g.ScrollEnd
		track = height - 2
		start = 1
	}
	thumb := max(track*height/total, 1)
	pos := offset * track / total
	if offset+height >= total {
		pos = track - thumb
	}
	for i := 0; i < track; i++ {
		glyph := g.ScrollTrack
		if i >= pos && i < pos+thumb {
			glyph = g.ScrollThumb
		}
		bar[start+i] = r.styles.muted.Render(glyph)
	}
	return bar
}

func (r *renderer) detailPane(p engine.Plan) string {
	rect := p.Panes.Detail
	inner := rect.Inner()
	var lines []string
	if t := p.Selected; t != nil {
		lines = r.detailLines(*t, inner.W)
	} else {
		lines = []string{r.styles.muted.Render("Nothing selected")}
	}
	offset := min(max(p.DetailOffset, 0), max(len(lines)-inner.H, 0))
	return r.pane(rect, r.theme.Colors.DetailBorder, lines[offset:])
}

// detailExtent is the number of lines the selected task's details wrap to
// in the detail pane.
func (r *renderer) detailExtent(p engine.Plan) int {
	if p.TooSmall || p.Selected == nil {
		return 0
	}
	return len(r.detailLines(*p.Selected, p.Panes.Detail.Inner().W))
}

func (r *renderer) detailLines(t task.Task, width int) []string {
	label := r.styles.muted.Render
	lines := []string{
		r.styles.title.Render(t.Title),
		label("Urgency: ") + r.styles.urgency[t.Urgency].Render(t.Urgency.String()) +
			label("  Status: ") + r.styles.status[t.Status].Render(t.Status.String()),
	}
	if len(t.Tags) > 0 {
		lines = append(lines, label("Tags: ")+r.styles.text.Render(strings.Join(t.Tags, ", ")))
	}
	if !t.CreatedAt.IsZero() {
		lines = append(lines, label("Added: ")+t.CreatedAt.Local().Format(timeLayout))
	}
	if !t.UpdatedAt.IsZero() && !t.UpdatedAt.Equal(t.CreatedAt) {
		lines = append(lines, label("Updated: ")+t.UpdatedAt.Local().Format(timeLayout))
	}
	if !t.CompletedAt.IsZero() {
		lines = append(lines, label("Completed: ")+t.CompletedAt.Local().Format(timeLayout))
	}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		lines = append(lines, "")
		var body string
		if r.markdown {
			body = r.md.render(desc, width)
		} else {
			body = lipgloss.NewStyle().Width(max(width, 1)).Render(desc)
		}
		lines = append(lines, strings.Split(body, "\n")...)
	}
	return lines
}

func (r *renderer) statePane(p engine.Plan) string {
	q := p.Query
	dir := "descending"
	if !q.Sort.Descending {
		dir = "ascending"
	}
	tag := q.Tag
	if tag == "" {
		tag = "none"
	}
	label := r.styles.muted.Render
	layout := p.Layout.String()
	if p.Override != engine.OverrideNone {
		layout += " (pinned)"
	}
	lines := []string{
		label("Filter: ") + q.Status.Label() + label("  Tag: ") + tag,
		label("Sort: ") + "urgency " + dir,
		label("Layout: ") + layout + label(fmt.Sprintf("  List: %d%%", p.ListPercent)),
	}
	return r.pane(p.Panes.State, r.theme.Colors.StateBorder, lines)
}

func (r *renderer) statusBar(p engine.Plan) string {
	width := p.Panes.Status.W
	ind := p.Indicator
	right := "0/0"
	if ind.Total > 0 {
		right = fmt.Sprintf("%d-%d/%d", ind.First, ind.Last, ind.Total)
	}

	var left string
	switch {
	case p.Message != "" && p.MessageIsError:
		left = r.styles.errorText.Inherit(r.styles.statusBar).Render(p.Message)
	case p.Message != "":
		left = r.styles.statusBar.Render(p.Message)
	default:
		r.help.Width = max(width-len(right)-2, 0)
		left = r.help.ShortHelpView(r.keys.forMode(p.Mode))
	}

	leftWidth := max(width-len(right)-1, 0)
	line := fitLine(left, leftWidth) + " " + right
	return r.styles.statusBar.Render(fitLine(line, width))
}

// overlayBox renders the popup for the current mode, or "".
func (r *renderer) overlayBox(p engine.Plan) string {
	main := p.Panes.Main
	width := min(64, main.W-4)
	if width < 10 || main.H < 5 {
		return ""
	}
	inner := width - 2

	if p.Mode == engine.ModeHelp {
		rows := len(p.Help)
		if p.HelpRows > 0 {
			rows = min(rows, p.HelpRows)
		}
		offset := min(max(p.HelpOffset, 0), len(p.Help)-rows)
		lines := append([]string{r.styles.title.Render("Keys")}, p.Help[offset:offset+rows]...)
		return r.styles.helpBox.Render(fitBlock(lines, inner, len(lines)))
	}

	m := p.Modal
	if m == nil {
		return ""
	}
	lines := []string{r.styles.title.Render(m.Title), r.styles.muted.Render(m.Prompt), ""}
	if m.Input != nil {
		lines = append(lines, r.input(m.Input, inner))
	}
	if len(m.Choices) > 0 {
		lines = append(lines, r.choices(m.Choices, m.Choice))
	}
	if m.Step == engine.StepTags && p.Mode != engine.ModeTagFilter && len(m.Tags) > 0 {
		lines = append(lines, "", r.tags(m.Tags, m.TagCursor, m.TagFocus))
	}
	for i, f := range m.Fields {
		lines = append(lines, fmt.Sprintf("%d  %-12s %s", i+1, f, fieldValue(m.Working, i)))
	}
	if m.Step == engine.StepConfirm && m.Working != nil {
		lines = append(lines, r.summary(*m.Working)...)
	}
	if p.Mode == engine.ModeDeleteConfirm && m.Working != nil {
		lines = append(lines, r.styles.urgency[m.Working.Urgency].Render(m.Working.Urgency.String())+
			"  "+r.styles.status[m.Working.Status].Render(m.Working.Status.String()))
	}
	height := min(len(lines), main.H-4)
	return r.styles.popup.Render(fitBlock(lines, inner, height))
}

// input draws a text buffer with its cursor and selection, scrolled so the
// cursor stays visible.
func (r *renderer) input(in *engine.Input, width int) string {
	if width <= 0 {
		return ""
	}
	start := 0
	if in.Cursor >= width {
		start = in.Cursor - width + 1
	}
	var b strings.Builder
	for i := start; i <= len(in.Runes) && i-start < width; i++ {
		ch := " "
		if i < len(in.Runes) {
			ch = string(in.Runes[i])
		}
		st := r.styles.text
		if in.HasSelection && i >= in.SelStart && i < in.SelEnd {
			st = r.styles.selection
		}
		if i == in.Cursor {
			st = r.styles.cursor
		}
		b.WriteString(st.Render(ch))
	}
	return b.String()
}

func (r *renderer) choices(options []string, chosen int) string {
	parts := make([]string, len(options))
	for i, o := range options {
		label := fmt.Sprintf(" %d %s ", i+1, o)
		if i == chosen {
			parts[i] = r.styles.choice.Render(label)
		} else {
			parts[i] = r.styles.text.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

func (r *renderer) tags(tags []string, cursor int, focus bool) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		label := "[" + t + "]"
		if focus && i == cursor {
			parts[i] = r.styles.choice.Render(label)
		} else {
			parts[i] = r.styles.muted.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

func (r *renderer) summary(t task.Task) []string {
	label := r.styles.muted.Render
	desc := strings.TrimSpace(t.Description)
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		desc = desc[:i] + " …"
	}
	return []string{
		label("Title:       ") + t.Title,
		label("Description: ") + desc,
		label("Urgency:     ") + r.styles.urgency[t.Urgency].Render(t.Urgency.String()),
		label("Status:      ") + r.styles.status[t.Status].Render(t.Status.String()),
		label("Tags:        ") + strings.Join(t.Tags, ", "),
	}
}

func fieldValue(t *task.Task, field int) string {
	if t == nil || field < 0 || field >= len(engine.UpdateFields) {
		return ""
	}
	switch engine.UpdateFields[field] {
	case engine.StepTitle:
		return t.Title
	case engine.StepDescription:
		return strings.ReplaceAll(strings.TrimSpace(t.Description), "\n", " ")
	case engine.StepUrgency:
		return t.Urgency.String()
	case engine.StepStatus:
		return t.Status.String()
	case engine.StepTags:
		return strings.Join(t.Tags, ", ")
	default:
		return ""
	}
}

// overlay centres box over a width x height background.
func overlay(bg, box string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	boxLines := strings.Split(box, "\n")
	boxW := 0
	for _, l := range boxLines {
		boxW = max(boxW, xansi.StringWidth(l))
	}
	x := max((width-boxW)/2, 0)
	y := max((height-len(boxLines))/2, 0)
	for i, l := range boxLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		under := bgLines[row]
		left := fitLine(xansi.Truncate(under, x, ""), x)
		right := xansi.TruncateLeft(under, x+boxW, "")
		bgLines[row] = left + fitLine(l, boxW) + right
	}
	return strings.Join(bgLines, "\n")
}

// fitLine truncates or pads s to exactly width cells.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := xansi.StringWidth(s)
	if w > width {
		s = xansi.Truncate(s, width, "…")
		w = xansi.StringWidth(s)
	}
	return s + strings.Repeat(" ", max(width-w, 0))
}

// fitBlock returns exactly height lines of exactly width cells.
func fitBlock(lines []string, width, height int) string {
	if height <= 0 {
		return ""
	}
	out := make([]string, height)
	for i := range out {
		var l string
		if i < len(lines) {
			l = lines[i]
		}
		out[i] = fitLine(l, width)
	}
	return strings.Join(out, "\n")
}
