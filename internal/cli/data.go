package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"checklist/internal/storage"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Copy tasks from another checklist database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := storage.OpenReadOnly(args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			dst, err := app.openStore()
			if err != nil {
				return err
			}
			defer dst.Close()

			res, err := dst.Import(cmd.Context(), src)
			if err != nil {
				return err
			}
			app.logger.Info("import finished", "from", args[0], "imported", res.Imported, "failed", len(res.Failed))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d tasks\n", res.Imported)
			if len(res.Failed) > 0 {
				fmt.Fprintf(out, "Skipped %d tasks:\n", len(res.Failed))
				for _, id := range res.Failed {
					fmt.Fprintf(out, "  %s\n", id)
				}
			}
			return nil
		},
	}
}

func newWipeCmd(app *App) *cobra.Command {
	var yes, hard bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(out, "Delete every task in %s? [y/N] ", app.cfg.DBPath)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				switch strings.ToLower(strings.TrimSpace(answer)) {
				case "y", "yes":
				default:
					fmt.Fprintln(out, "Nothing deleted")
					return nil
				}
			}

			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Wipe(cmd.Context(), hard); err != nil {
				return err
			}
			app.logger.Warn("tasks wiped", "db", app.cfg.DBPath, "hard", hard)
			fmt.Fprintln(out, "All tasks deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&hard, "hard", false, "Drop and recreate the table, then compact the file")
	return cmd
}
