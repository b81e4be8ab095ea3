// Package ui drives the engine from a bubbletea program and draws its
// render plans with lipgloss.
package ui

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"checklist/internal/config"
	"checklist/internal/engine"
)

// Options configure the terminal front end.
type Options struct {
	Keymap engine.Keymap
	Theme  config.Theme
	// Tick is how often the terminal size is polled in addition to resize
	// events.
	Tick     time.Duration
	Markdown bool
	Logger   *log.Logger
}

type tickMsg time.Time

// Model adapts an engine.Coordinator to the bubbletea program loop.
type Model struct {
	ctx    context.Context
	coord  *engine.Coordinator
	render *renderer
	tick   time.Duration
	logger *log.Logger
}

func New(ctx context.Context, coord *engine.Coordinator, opts Options) Model {
	if opts.Tick <= 0 {
		opts.Tick = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Theme.Glyphs.HighlightSymbol == "" {
		opts.Theme = config.DefaultTheme()
	}
	if opts.Keymap.Quit == nil {
		opts.Keymap = engine.DefaultKeymap()
	}
	return Model{
		ctx:    ctx,
		coord:  coord,
		render: newRenderer(opts.Theme, newKeyMap(opts.Keymap), opts.Markdown),
		tick:   opts.Tick,
		logger: opts.Logger,
	}
}

// Run loads the task list and runs the program until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, coord *engine.Coordinator, opts Options) error {
	if err := coord.Refresh(ctx); err != nil {
		return err
	}
	program := tea.NewProgram(
		New(ctx, coord, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.logger.Debug("resize", "width", msg.Width, "height", msg.Height)
		m.coord.Resize(msg.Width, msg.Height)
	case tickMsg:
		return m, tea.Batch(tea.WindowSize(), m.tickCmd())
	case tea.KeyMsg:
		m.coord.HandleKey(m.ctx, toKey(msg))
		if m.coord.Quitting() {
			return m, tea.Quit
		}
	}
	m.coord.SetDetailExtent(m.render.detailExtent(m.coord.Plan()))
	return m, nil
}

func (m Model) View() string {
	return m.render.render(m.coord.Plan())
}

// toKey names a key press the way engine bindings do. Alt chords never
// insert text. A paste keeps its bracketed name so it cannot trigger a
// browsing action.
func toKey(msg tea.KeyMsg) engine.Key {
	k := engine.Key{Name: msg.String(), Paste: msg.Paste}
	switch msg.Type {
	case tea.KeyRunes:
		if !msg.Alt {
			k.Runes = msg.Runes
		}
	case tea.KeySpace:
		k.Runes = []rune{' '}
	}
	return k
}
