package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"checklist/internal/engine"
	"checklist/internal/task"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checklist", DefaultConfigFileName)
	defaults := Default("/data/checklist.sqlite")

	cfg, err := LoadOrCreate(path, defaults)
	if err != nil {
		t.Fatalf("LoadOrCreate() error = %v", err)
	}
	if cfg.DBPath != "/data/checklist.sqlite" || !cfg.UrgencySortDesc {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}

	again, err := LoadOrCreate(path, Default("/elsewhere.sqlite"))
	if err != nil {
		t.Fatalf("second LoadOrCreate() error = %v", err)
	}
	if again.DBPath != "/data/checklist.sqlite" {
		t.Fatalf("db path = %q, want the written value", again.DBPath)
	}
	if !slices.Equal(again.Keys.Quit, []string{"x", "esc"}) {
		t.Fatalf("quit keys = %v", again.Keys.Quit)
	}
}

func TestLoadOrCreateOverlaysPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	content := `
display_filter = "completed"

[layout]
default = "vertical"

[keys]
quit = ["q"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := LoadOrCreate(path, Default("/db.sqlite"))
	if err != nil {
		t.Fatalf("LoadOrCreate() error = %v", err)
	}
	if cfg.Prefs().Status != task.FilterCompleted {
		t.Fatalf("filter = %v", cfg.Prefs().Status)
	}
	if cfg.Override() != engine.OverrideVertical {
		t.Fatalf("override = %v", cfg.Override())
	}
	if cfg.Layout.MinWidth != engine.DefaultMinWidth || cfg.Tick() != 500*time.Millisecond {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	km := cfg.EngineKeymap()
	if !slices.Equal([]string(km.Quit), []string{"q"}) {
		t.Fatalf("quit = %v", km.Quit)
	}
	if !slices.Equal([]string(km.Add), []string{"a"}) {
		t.Fatalf("add = %v, want default", km.Add)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"filter":  func(c *Config) { c.DisplayFilter = "someday" },
		"layout":  func(c *Config) { c.Layout.Default = "diagonal" },
		"minimum": func(c *Config) { c.Layout.MinWidth = 0 },
		"percent": func(c *Config) { c.Layout.ListPercent = 95 },
		"level":   func(c *Config) { c.Logging.Level = "loud" },
		"tick":    func(c *Config) { c.UI.TickMillis = 1 },
		"db":      func(c *Config) { c.DBPath = " " },
	}
	for name, mutate := range cases {
		cfg := Default("/db.sqlite")
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if err := Default("/db.sqlite").Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOrCreateReportsDecodeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("db_path = [unterminated"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadOrCreate(path, Default("/db.sqlite")); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestSaveIsAtomicAndRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	cfg := Default("/db.sqlite").WithPrefs(engine.Prefs{Status: task.FilterNotCompleted, Descending: false})
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the config file, found %d entries", len(entries))
	}
	got, err := LoadOrCreate(path, Default("/other.sqlite"))
	if err != nil {
		t.Fatalf("LoadOrCreate() error = %v", err)
	}
	if got.Prefs() != (engine.Prefs{Status: task.FilterNotCompleted}) {
		t.Fatalf("prefs = %+v", got.Prefs())
	}
}

func TestLoadTheme(t *testing.T) {
	dir := t.TempDir()
	th, err := LoadTheme(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("LoadTheme(missing) error = %v", err)
	}
	if th != DefaultTheme() {
		t.Fatal("expected default theme for missing file")
	}

	path := filepath.Join(dir, DefaultThemeFileName)
	if err := os.WriteFile(path, []byte("[glyphs]\nhighlight_symbol = \"*\"\n[urgency]\ncritical = \"red\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	th, err = LoadTheme(path)
	if err != nil {
		t.Fatalf("LoadTheme() error = %v", err)
	}
	if th.Glyphs.HighlightSymbol != "*" || th.Urgency.Critical != "red" {
		t.Fatalf("overrides not applied: %+v", th)
	}
	if th.Urgency.Low != DefaultTheme().Urgency.Low {
		t.Fatal("unset fields should keep defaults")
	}

	if err := SaveTheme(path, DefaultTheme()); err != nil {
		t.Fatalf("SaveTheme() error = %v", err)
	}
	if th, err = LoadTheme(path); err != nil || th != DefaultTheme() {
		t.Fatalf("theme round trip = %+v, %v", th, err)
	}
}
