// Package platform resolves per-OS locations for checklist's files.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const AppName = "checklist"

// Paths are the default file locations. Config, theme and log live in the
// config directory; the database lives in the data directory.
type Paths struct {
	ConfigDir  string
	ConfigPath string
	ThemePath  string
	LogPath    string
	DataDir    string
	DBPath     string
}

// Default resolves Paths for the running OS and environment.
func Default() (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	dataDir := configDir
	if runtime.GOOS == "linux" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("user home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	env := map[string]string{
		"XDG_CONFIG_HOME": os.Getenv("XDG_CONFIG_HOME"),
		"XDG_DATA_HOME":   os.Getenv("XDG_DATA_HOME"),
		"APPDATA":         os.Getenv("APPDATA"),
		"LOCALAPPDATA":    os.Getenv("LOCALAPPDATA"),
	}
	return For(runtime.GOOS, env, configDir, dataDir)
}

// For computes Paths from explicit inputs so it can be tested on any OS.
func For(goos string, env map[string]string, userConfigDir, userDataDir string) (Paths, error) {
	if userConfigDir == "" || userDataDir == "" {
		return Paths{}, errors.New("empty base dirs")
	}

	configBase, dataBase := userConfigDir, userDataDir
	switch goos {
	case "linux":
		if v := strings.TrimSpace(env["XDG_CONFIG_HOME"]); v != "" {
			configBase = v
		}
		if v := strings.TrimSpace(env["XDG_DATA_HOME"]); v != "" {
			dataBase = v
		}
	case "windows":
		if v := strings.TrimSpace(env["APPDATA"]); v != "" {
			configBase = v
		}
		if v := strings.TrimSpace(env["LOCALAPPDATA"]); v != "" {
			dataBase = v
		}
	}

	return layout(filepath.Join(configBase, AppName), filepath.Join(dataBase, AppName)), nil
}

// ForConfigFile places every file next to an explicitly chosen config file.
func ForConfigFile(configPath string) Paths {
	dir := filepath.Dir(configPath)
	p := layout(dir, dir)
	p.ConfigPath = configPath
	return p
}

func layout(cfgDir, dataDir string) Paths {
	return Paths{
		ConfigDir:  cfgDir,
		ConfigPath: filepath.Join(cfgDir, "config.toml"),
		ThemePath:  filepath.Join(cfgDir, "theme.toml"),
		LogPath:    filepath.Join(cfgDir, AppName+".log"),
		DataDir:    dataDir,
		DBPath:     filepath.Join(dataDir, AppName+".sqlite"),
	}
}
