package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sunrise/internal/catalog"
	"sunrise/internal/engine"
	"sunrise/internal/ui"
)

func newTasksCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks of the current level",
		RunE: func(cmd *cobra.Command, args []string) error {
			var only catalog.Category
			if category != "" {
				c, err := catalog.ParseCategory(category)
				if err != nil {
					return err
				}
				only = c
			}
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if err := requireInitiated(svc); err != nil {
					return err
				}
				tasks := svc.Tasks()
				if len(tasks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no tasks on this level)"))
					return nil
				}
				var current catalog.Category
				for _, t := range tasks {
					if only != "" && t.Category != only {
						continue
					}
					if t.Category != current {
						if current != "" {
							fmt.Fprintln(cmd.OutOrStdout(), "")
						}
						current = t.Category
						fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(fmt.Sprintf("%s %s (%d%%)", ui.CategoryIcon(current), ui.CategoryTitle(current), svc.CategoryPercentage(current))))
					}
					fmt.Fprintln(cmd.OutOrStdout(), taskLine(t))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show one category (physics|mind|spirit|skills|extra)")
	return cmd
}

func taskLine(t engine.TaskStatus) string {
	progress := ""
	if t.Task.Type == catalog.TaskNumber {
		progress = ui.Muted.Render(fmt.Sprintf(" %s/%s", ui.FormatNumber(t.Progress.Value()), ui.FormatNumber(t.Task.Target)))
	}
	return fmt.Sprintf("%s %s %s%s %s", ui.DoneMark(t.Complete), ui.TaskTypeIcon(t.Task.Type), t.Task.Description, progress, ui.Muted.Render("["+t.Task.ID+"]"))
}

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Record task progress",
	}
	cmd.AddCommand(newTaskSetCmd())
	return cmd
}

func newTaskSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id> <value>",
		Short: "Set a task's progress (yes/no for checkboxes and timers, a number for counters)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("task id and value are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if err := requireInitiated(svc); err != nil {
					return err
				}
				level, ok := svc.CurrentLevelData()
				if !ok {
					return errors.New("no tasks past the last level")
				}
				task, ok := level.Task(args[0])
				if !ok {
					return fmt.Errorf("task %q is not part of level %d", args[0], level.Number)
				}
				p, err := engine.ParseProgress(task, args[1])
				if err != nil {
					return err
				}
				if err := svc.UpdateTaskProgress(ctx, task.ID, p); err != nil {
					return err
				}
				for _, t := range svc.Tasks() {
					if t.Task.ID == task.ID {
						fmt.Fprintln(cmd.OutOrStdout(), taskLine(t))
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Key.Render("Level progress:"), ui.Percent(svc.ProgressPercentage(), svc.Rules().LevelUpThreshold))
				return nil
			})
		},
	}
	return cmd
}
