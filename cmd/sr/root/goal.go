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

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Savings goals",
	}
	cmd.AddCommand(newGoalAddCmd(), newGoalUpdateCmd(), newGoalRmCmd(), newGoalListCmd())
	return cmd
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an amount", s)
	}
	return v, nil
}

func newGoalAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <target>",
		Short: "Add a savings goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				res, err := svc.AddFinancialGoal(ctx, args[0], target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconMoney, ui.Good.Render("Goal added"), ui.Muted.Render("["+res.ID+"]"))
				return nil
			})
		},
	}
}

func newGoalUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <id> <saved>",
		Short: "Set how much is saved towards a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if _, ok := svc.Snapshot().Goal(args[0]); !ok {
					return fmt.Errorf("no goal with id %q", args[0])
				}
				if err := svc.UpdateFinancialGoal(ctx, args[0], saved); err != nil {
					return err
				}
				g, _ := svc.Snapshot().Goal(args[0])
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(g.Name, fmt.Sprintf("%s/%s (%d%%)", ui.FormatNumber(g.Current), ui.FormatNumber(g.Target), engine.GoalPercentage(*g))))
				return nil
			})
		},
	}
}

func newGoalRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a savings goal",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("goal id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if _, ok := svc.Snapshot().Goal(args[0]); !ok {
					return fmt.Errorf("no goal with id %q", args[0])
				}
				if err := svc.RemoveFinancialGoal(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Removed."))
				return nil
			})
		},
	}
}

func newGoalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List savings goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				snap := svc.Snapshot()
				if len(snap.FinancialGoals) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no goals)"))
					return nil
				}
				for _, g := range snap.FinancialGoals {
					p := engine.GoalPercentage(g)
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s/%s %s\n", ui.IconMoney, ui.Key.Render(g.Name), ui.ProgressBar(p, 14), ui.FormatNumber(g.Current), ui.FormatNumber(g.Target), ui.Muted.Render("["+g.ID+"]"))
				}
				sum := svc.FinanceSummary()
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Total", fmt.Sprintf("%s/%s (%d%%)", ui.FormatNumber(sum.TotalCurrent), ui.FormatNumber(sum.TotalTarget), sum.Percentage)))
				return nil
			})
		},
	}
}
