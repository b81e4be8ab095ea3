package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"checklist/internal/config"
	"checklist/internal/engine"
	"checklist/internal/platform"
	"checklist/internal/storage"
)

func newInitCmd(app *App) *cobra.Command {
	var set string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the task database, or point checklist at another one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.cfg.DBPath
			if set != "" {
				var err error
				if path, err = resolveDBPath(set); err != nil {
					return err
				}
			}

			st, err := storage.Open(path)
			if err != nil {
				return err
			}
			if err := st.Close(); err != nil {
				return err
			}

			if set == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s\n", path)
				return nil
			}
			app.file.DBPath = path
			if err := config.Save(app.paths.ConfigPath, app.file); err != nil {
				return err
			}
			app.logger.Info("database path changed", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Now using %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&set, "set", "s", "", "Use the database at this path (a directory gets checklist.sqlite inside it)")
	return cmd
}

func resolveDBPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(abs, platform.AppName+".sqlite"), nil
	case err == nil, errors.Is(err, os.ErrNotExist):
		return abs, nil
	default:
		return "", err
	}
}

func newDisplayCmd(app *App) *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:   "display",
		Short: "Set the default layout of the interactive view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := engine.ParseOverride(view)
			if err != nil {
				return err
			}
			app.file.Layout.Default = o.String()
			if err := config.Save(app.paths.ConfigPath, app.file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default layout: %s\n", o)
			return nil
		},
	}
	cmd.Flags().StringVarP(&view, "view", "v", "", "horizontal, vertical or auto")
	_ = cmd.MarkFlagRequired("view")
	return cmd
}

func newWhereCmd(app *App) *cobra.Command {
	var db, cfg, theme bool
	cmd := &cobra.Command{
		Use:   "where",
		Short: "Print where checklist keeps its files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !db && !cfg && !theme {
				fmt.Fprintf(out, "database: %s\n", app.cfg.DBPath)
				fmt.Fprintf(out, "config:   %s\n", app.paths.ConfigPath)
				fmt.Fprintf(out, "theme:    %s\n", app.paths.ThemePath)
				fmt.Fprintf(out, "log:      %s\n", app.paths.LogPath)
				return nil
			}
			if db {
				fmt.Fprintln(out, app.cfg.DBPath)
			}
			if cfg {
				fmt.Fprintln(out, app.paths.ConfigPath)
			}
			if theme {
				fmt.Fprintln(out, app.paths.ThemePath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&db, "database", "d", false, "Print the database path")
	cmd.Flags().BoolVarP(&cfg, "config-file", "c", false, "Print the config file path")
	cmd.Flags().BoolVarP(&theme, "theme", "t", false, "Print the theme file path")
	return cmd
}
