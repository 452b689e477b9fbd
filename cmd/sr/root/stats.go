package root

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"sunrise/internal/engine"
	"sunrise/internal/ui"
)

func newStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Lifetime stats",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "log <id> <value>",
		Short: "Add to a lifetime stat",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("stat id and value are required")
			}
			if _, err := strconv.ParseFloat(args[1], 64); err != nil {
				return errors.New("value must be a number")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _ := strconv.ParseFloat(args[1], 64)
			if v <= 0 {
				return errors.New("value must be greater than 0")
			}
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if err := svc.LogCumulativeStat(ctx, args[0], v); err != nil {
					return err
				}
				total := svc.Snapshot().CumulativeStats[args[0]]
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(args[0], ui.FormatNumber(total)))
				return nil
			})
		},
	})
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				stats := svc.Snapshot().CumulativeStats
				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(nothing logged yet)"))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconBolt, "Lifetime stats"))
				for _, id := range slices.Sorted(maps.Keys(stats)) {
					fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(id, ui.FormatNumber(stats[id])))
				}
				return nil
			})
		},
	}
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and what is left to earn them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				for _, a := range svc.Achievements() {
					icon := ui.IconLock
					name := ui.Muted.Render(a.Name)
					if a.Earned {
						icon = ui.IconTrophy
						name = ui.Gold.Render(a.Name)
					}
					detail := a.Description
					if a.IsStatBased() && !a.Earned {
						detail += fmt.Sprintf(" (%s/%s)", ui.FormatNumber(a.Current), ui.FormatNumber(a.Threshold))
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", icon, name, ui.Muted.Render(detail))
				}
				return nil
			})
		},
	}
}

func newWorkoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workout",
		Short: "Show today's workout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				w, ok := svc.CurrentWorkout()
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No workout scheduled today."))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Heading("💪", fmt.Sprintf("%s: %s", w.Day, w.Name)))
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Duration", w.Duration))
				for _, e := range w.Exercises {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s %s\n", e.Name, ui.Muted.Render(e.Sets))
				}
				return nil
			})
		},
	}
}
