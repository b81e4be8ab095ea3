package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"checklist/internal/engine"
	"checklist/internal/task"
)

func newAddCmd(app *App) *cobra.Command {
	var (
		name        string
		description string
		urgency     string
		status      string
		tags        []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := task.New(strings.TrimSpace(name))
			t.Description = description
			if urgency != "" {
				u, err := task.ParseUrgency(urgency)
				if err != nil {
					return err
				}
				t.Urgency = u
			}
			if status != "" {
				s, err := task.ParseStatus(status)
				if err != nil {
					return err
				}
				t.SetStatus(s, time.Now())
			}
			t.Tags = task.NormalizeTags(tags)

			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			id, err := st.Create(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Task title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Longer description (markdown)")
	cmd.Flags().StringVarP(&urgency, "urgency", "u", "", "low, medium, high or critical")
	cmd.Flags().StringVarP(&status, "status", "s", "", "open, working, paused or completed")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to attach (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var (
		filter string
		tag    string
		asc    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := task.ParseStatusFilter(filter)
			if err != nil {
				return err
			}
			st, err := app.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			tasks, err := st.List(cmd.Context())
			if err != nil {
				return err
			}

			shown := engine.Project(tasks, engine.Query{
				Status: f,
				Tag:    strings.TrimSpace(tag),
				Sort:   engine.SortOrder{Key: engine.SortUrgency, Descending: !asc},
			})
			out := cmd.OutOrStdout()
			if len(shown) == 0 {
				fmt.Fprintln(out, "No tasks")
				return nil
			}
			fmt.Fprintln(out, taskTable(shown))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", task.FilterNotCompleted.String(), "all, completed or not-completed")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Only tasks carrying this tag")
	cmd.Flags().BoolVar(&asc, "asc", false, "Least urgent first")
	return cmd
}

func taskTable(tasks []task.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			shortID(t.ID),
			t.Title,
			t.Urgency.String(),
			t.Status.String(),
			strings.Join(t.Tags, ", "),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Title", "Urgency", "Status", "Tags").
		Rows(rows...).
		String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
