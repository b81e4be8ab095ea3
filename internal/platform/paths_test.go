package platform

import (
	"path/filepath"
	"testing"
)

func TestForLinuxHonoursXDG(t *testing.T) {
	p, err := For("linux", map[string]string{
		"XDG_CONFIG_HOME": "/xdg/config",
		"XDG_DATA_HOME":   "/xdg/data",
	}, "/fallback/config", "/fallback/data")
	if err != nil {
		t.Fatalf("For() error = %v", err)
	}
	if want := filepath.Join("/xdg/config", "checklist", "config.toml"); p.ConfigPath != want {
		t.Fatalf("config path = %q, want %q", p.ConfigPath, want)
	}
	if want := filepath.Join("/xdg/data", "checklist", "checklist.sqlite"); p.DBPath != want {
		t.Fatalf("db path = %q, want %q", p.DBPath, want)
	}
	if want := filepath.Join("/xdg/config", "checklist", "theme.toml"); p.ThemePath != want {
		t.Fatalf("theme path = %q, want %q", p.ThemePath, want)
	}
}

func TestForLinuxFallsBackWithoutXDG(t *testing.T) {
	p, err := For("linux", nil, "/home/me/.config", "/home/me/.local/share")
	if err != nil {
		t.Fatalf("For() error = %v", err)
	}
	if want := filepath.Join("/home/me/.config", "checklist", "checklist.log"); p.LogPath != want {
		t.Fatalf("log path = %q, want %q", p.LogPath, want)
	}
	if want := filepath.Join("/home/me/.local/share", "checklist"); p.DataDir != want {
		t.Fatalf("data dir = %q, want %q", p.DataDir, want)
	}
}

func TestForDarwinIgnoresXDG(t *testing.T) {
	base := "/Users/me/Library/Application Support"
	p, err := For("darwin", map[string]string{"XDG_CONFIG_HOME": "/ignored"}, base, base)
	if err != nil {
		t.Fatalf("For() error = %v", err)
	}
	if want := filepath.Join(base, "checklist", "config.toml"); p.ConfigPath != want {
		t.Fatalf("config path = %q, want %q", p.ConfigPath, want)
	}
}

func TestForEmptyDirsFails(t *testing.T) {
	if _, err := For("darwin", nil, "", "/tmp/data"); err == nil {
		t.Fatal("expected error for empty dirs")
	}
}

func TestForConfigFileKeepsEverythingTogether(t *testing.T) {
	p := ForConfigFile("/tmp/work/custom.toml")
	if p.ConfigPath != "/tmp/work/custom.toml" {
		t.Fatalf("config path = %q", p.ConfigPath)
	}
	if want := filepath.Join("/tmp/work", "checklist.sqlite"); p.DBPath != want {
		t.Fatalf("db path = %q, want %q", p.DBPath, want)
	}
	if want := filepath.Join("/tmp/work", "theme.toml"); p.ThemePath != want {
		t.Fatalf("theme path = %q, want %q", p.ThemePath, want)
	}
}
