package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sunrise/internal/engine"
	"sunrise/internal/ui"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Reading plans",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the reading plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				selected := svc.Snapshot().ReadingPlanID
				for _, p := range svc.Catalog().ReadingPlans {
					marker := "  "
					if p.ID == selected {
						marker = ui.Good.Render("▸ ")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s\n", marker, ui.Key.Render(p.Name), ui.Muted.Render("["+p.ID+"]"))
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ui.Muted.Render(fmt.Sprintf("%s %d books, %d pages, %d pages/day", p.Description, len(p.Books), p.TotalPages(), p.DailyGoal)))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select <id>",
		Short: "Start a reading plan from its first book (once per path)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				plan, ok := svc.Catalog().Plan(args[0])
				if !ok {
					return fmt.Errorf("unknown reading plan %q", args[0])
				}
				if svc.Snapshot().ReadingPlanID != "" {
					return errors.New("a reading plan is already selected")
				}
				if err := svc.SelectReadingPlan(ctx, plan.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconBook, ui.Good.Render("Reading "+plan.Name))
				return nil
			})
		},
	})
	return cmd
}

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <page>",
		Short: "Set the page reached in the current plan book",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("page is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("page must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := strconv.Atoi(args[0])
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				before, ok := svc.CurrentBook()
				if !ok {
					return errors.New("no reading plan selected, see `sr plan list`")
				}
				if err := svc.UpdateBookProgress(ctx, page); err != nil {
					return err
				}
				d := svc.Dashboard()
				if d.Book != nil && d.Book.Title != before.Title {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconDone, ui.Good.Render("Finished "+before.Title))
				}
				if d.Book != nil {
					fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Book", fmt.Sprintf("%s, page %d/%d (%d%%)", d.Book.Title, d.BookPage, d.Book.Pages, d.BookPercent)))
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Plan", fmt.Sprintf("%d%%", d.PlanPercent)))
				return nil
			})
		},
	}
	return cmd
}
