// Package cli is checklist's command tree. With no subcommand it launches
// the interactive view.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"checklist/internal/config"
	"checklist/internal/engine"
	"checklist/internal/platform"
	"checklist/internal/storage"
	"checklist/internal/ui"
)

type App struct {
	ConfigPath string
	DBPath     string
	Memory     bool

	paths platform.Paths
	// file is the config as stored on disk; cfg is file plus flag
	// overrides. Only file is ever written back.
	file   config.Config
	cfg    config.Config
	logger *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "checklist",
		Short:        "Keep track of tasks in the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the interactive view
  checklist

  # Scriptable commands
  checklist add -n "Renew passport" -u high -t errands
  checklist list -f all
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("CHECKLIST_CONFIG", ""), "Path to config.toml")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("CHECKLIST_DB", ""), "Path to the task database (overrides db_path for this run)")
	cmd.PersistentFlags().BoolVarP(&app.Memory, "memory", "m", false, "Use a throwaway in-memory database")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDisplayCmd(app))
	cmd.AddCommand(newWhereCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newWipeCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))

	return cmd
}

// load resolves paths and reads the config, creating it on first run.
func (app *App) load(cmd *cobra.Command) error {
	if app.ConfigPath != "" {
		app.paths = platform.ForConfigFile(app.ConfigPath)
	} else {
		paths, err := platform.Default()
		if err != nil {
			return fmt.Errorf("resolve paths: %w", err)
		}
		app.paths = paths
	}

	file, err := config.LoadOrCreate(app.paths.ConfigPath, config.Default(app.paths.DBPath))
	if err != nil {
		return err
	}
	app.file = file
	app.cfg = file
	if app.DBPath != "" {
		app.cfg.DBPath = app.DBPath
	}
	app.logger = newLogger(cmd.ErrOrStderr(), app.cfg.LogLevel(), false)
	return nil
}

func (app *App) openStore() (*storage.Store, error) {
	if app.Memory {
		return storage.OpenMemory()
	}
	app.logger.Debug("opening database", "path", app.cfg.DBPath)
	return storage.Open(app.cfg.DBPath)
}

// savePrefs writes the view preferences into the on-disk config.
func (app *App) savePrefs(p engine.Prefs) error {
	app.file = app.file.WithPrefs(p)
	return config.Save(app.paths.ConfigPath, app.file)
}

func runTUI(cmd *cobra.Command, app *App) error {
	st, err := app.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	theme, err := config.LoadTheme(app.paths.ThemePath)
	if err != nil {
		return err
	}

	// The terminal belongs to the view while it runs.
	logFile, err := openLogFile(app.paths.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, app.cfg.LogLevel(), true)
	logger.Info("starting", "db", app.cfg.DBPath, "memory", app.Memory)

	coord := engine.New(st, engine.Options{
		Keymap:      app.cfg.EngineKeymap(),
		Selector:    app.cfg.Selector(),
		Prefs:       app.cfg.Prefs(),
		Override:    app.cfg.Override(),
		ListPercent: app.cfg.Layout.ListPercent,
		SavePrefs:   app.savePrefs,
		Logger:      logger,
	})
	err = ui.Run(cmd.Context(), coord, ui.Options{
		Keymap:   app.cfg.EngineKeymap(),
		Theme:    theme,
		Tick:     app.cfg.Tick(),
		Markdown: app.cfg.UI.Markdown,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("view stopped", "err", err)
		return err
	}
	logger.Info("stopped")
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
