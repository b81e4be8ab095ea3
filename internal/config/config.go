package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"

	"checklist/internal/engine"
	"checklist/internal/task"
)

const DefaultConfigFileName = "config.toml"

type Config struct {
	DBPath string `toml:"db_path"`
	// DisplayFilter and UrgencySortDesc are rewritten by the TUI whenever
	// the user changes them.
	DisplayFilter   string        `toml:"display_filter"`
	UrgencySortDesc bool          `toml:"urgency_sort_desc"`
	Layout          LayoutConfig  `toml:"layout"`
	Logging         LoggingConfig `toml:"logging"`
	UI              UIConfig      `toml:"ui"`
	Keys            Keymap        `toml:"keys"`
}

type LayoutConfig struct {
	// Default is the layout at startup: auto, horizontal or vertical.
	Default     string `toml:"default"`
	MinWidth    int    `toml:"min_width"`
	MinHeight   int    `toml:"min_height"`
	ListPercent int    `toml:"list_percent"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type UIConfig struct {
	TickMillis int  `toml:"tick_ms"`
	Markdown   bool `toml:"markdown"`
}

// Keymap lists the key names bound to each action. Names follow the
// terminal layer: "a", "G", "enter", "ctrl+c", "shift+tab".
type Keymap struct {
	Quit       []string `toml:"quit"`
	ForceQuit  []string `toml:"force_quit"`
	Up         []string `toml:"up"`
	Down       []string `toml:"down"`
	Top        []string `toml:"top"`
	Bottom     []string `toml:"bottom"`
	PageUp     []string `toml:"page_up"`
	PageDown   []string `toml:"page_down"`
	Add        []string `toml:"add"`
	QuickAdd   []string `toml:"quick_add"`
	Update     []string `toml:"update"`
	Delete     []string `toml:"delete"`
	Toggle     []string `toml:"toggle"`
	Help       []string `toml:"help"`
	Filter     []string `toml:"filter"`
	Sort       []string `toml:"sort"`
	Layout     []string `toml:"layout"`
	TagFilter  []string `toml:"tag_filter"`
	ShrinkList []string `toml:"shrink_list"`
	GrowList   []string `toml:"grow_list"`
	DetailUp   []string `toml:"detail_up"`
	DetailDown []string `toml:"detail_down"`
	Confirm    []string `toml:"confirm"`
	Cancel     []string `toml:"cancel"`
	Back       []string `toml:"back"`
}

func Default(dbPath string) Config {
	km := engine.DefaultKeymap()
	return Config{
		DBPath:          dbPath,
		DisplayFilter:   task.FilterAll.String(),
		UrgencySortDesc: true,
		Layout: LayoutConfig{
			Default:     engine.OverrideNone.String(),
			MinWidth:    engine.DefaultMinWidth,
			MinHeight:   engine.DefaultMinHeight,
			ListPercent: engine.DefaultListPercent,
		},
		Logging: LoggingConfig{Level: "info"},
		UI:      UIConfig{TickMillis: 500, Markdown: true},
		Keys: Keymap{
			Quit:       km.Quit,
			ForceQuit:  km.ForceQuit,
			Up:         km.Up,
			Down:       km.Down,
			Top:        km.Top,
			Bottom:     km.Bottom,
			PageUp:     km.PageUp,
			PageDown:   km.PageDown,
			Add:        km.Add,
			QuickAdd:   km.QuickAdd,
			Update:     km.Update,
			Delete:     km.Delete,
			Toggle:     km.Toggle,
			Help:       km.Help,
			Filter:     km.Filter,
			Sort:       km.Sort,
			Layout:     km.Layout,
			TagFilter:  km.TagFilter,
			ShrinkList: km.ShrinkList,
			GrowList:   km.GrowList,
			DetailUp:   km.DetailUp,
			DetailDown: km.DetailDown,
			Confirm:    km.Confirm,
			Cancel:     km.Cancel,
			Back:       km.Back,
		},
	}
}

// LoadOrCreate reads path over defaults. A missing file is created from
// defaults so the user has something to edit.
func LoadOrCreate(path string, defaults Config) (Config, error) {
	cfg := defaults
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaults.DBPath
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path is required")
	}
	if _, err := task.ParseStatusFilter(c.DisplayFilter); err != nil {
		return fmt.Errorf("invalid display_filter: %w", err)
	}
	if _, err := engine.ParseOverride(c.Layout.Default); err != nil {
		return fmt.Errorf("invalid layout.default: %w", err)
	}
	if c.Layout.MinWidth < 1 || c.Layout.MinHeight < 1 {
		return fmt.Errorf("layout minimum %dx%d must be at least 1x1", c.Layout.MinWidth, c.Layout.MinHeight)
	}
	if p := c.Layout.ListPercent; p < engine.MinListPercent || p > engine.MaxListPercent {
		return fmt.Errorf("layout.list_percent %d outside %d-%d", p, engine.MinListPercent, engine.MaxListPercent)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	if c.UI.TickMillis < 50 {
		return fmt.Errorf("ui.tick_ms %d is below 50", c.UI.TickMillis)
	}
	return nil
}

// Save writes cfg atomically: a temp file in the same directory is renamed
// over path.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	if err := EnsureDir(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Prefs returns the remembered view preferences.
func (c Config) Prefs() engine.Prefs {
	f, _ := task.ParseStatusFilter(c.DisplayFilter)
	return engine.Prefs{Status: f, Descending: c.UrgencySortDesc}
}

// WithPrefs returns c with the view preferences replaced.
func (c Config) WithPrefs(p engine.Prefs) Config {
	c.DisplayFilter = p.Status.String()
	c.UrgencySortDesc = p.Descending
	return c
}

func (c Config) Override() engine.Override {
	o, _ := engine.ParseOverride(c.Layout.Default)
	return o
}

func (c Config) Selector() engine.Selector {
	return engine.Selector{MinWidth: c.Layout.MinWidth, MinHeight: c.Layout.MinHeight}
}

func (c Config) Tick() time.Duration {
	return time.Duration(c.UI.TickMillis) * time.Millisecond
}

func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// EngineKeymap converts the configured bindings. Actions left empty in the
// file keep their default keys.
func (c Config) EngineKeymap() engine.Keymap {
	def := engine.DefaultKeymap()
	pick := func(configured []string, fallback engine.Binding) engine.Binding {
		if len(configured) == 0 {
			return fallback
		}
		return engine.Binding(configured)
	}
	k := c.Keys
	return engine.Keymap{
		Quit:       pick(k.Quit, def.Quit),
		ForceQuit:  pick(k.ForceQuit, def.ForceQuit),
		Up:         pick(k.Up, def.Up),
		Down:       pick(k.Down, def.Down),
		Top:        pick(k.Top, def.Top),
		Bottom:     pick(k.Bottom, def.Bottom),
		PageUp:     pick(k.PageUp, def.PageUp),
		PageDown:   pick(k.PageDown, def.PageDown),
		Add:        pick(k.Add, def.Add),
		QuickAdd:   pick(k.QuickAdd, def.QuickAdd),
		Update:     pick(k.Update, def.Update),
		Delete:     pick(k.Delete, def.Delete),
		Toggle:     pick(k.Toggle, def.Toggle),
		Help:       pick(k.Help, def.Help),
		Filter:     pick(k.Filter, def.Filter),
		Sort:       pick(k.Sort, def.Sort),
		Layout:     pick(k.Layout, def.Layout),
		TagFilter:  pick(k.TagFilter, def.TagFilter),
		ShrinkList: pick(k.ShrinkList, def.ShrinkList),
		GrowList:   pick(k.GrowList, def.GrowList),
		DetailUp:   pick(k.DetailUp, def.DetailUp),
		DetailDown: pick(k.DetailDown, def.DetailDown),
		Confirm:    pick(k.Confirm, def.Confirm),
		Cancel:     pick(k.Cancel, def.Cancel),
		Back:       pick(k.Back, def.Back),
	}
}
