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

func newLevelUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levelup",
		Short: "Check in and advance to the next level",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if err := requireInitiated(svc); err != nil {
					return err
				}
				res, err := svc.LevelUp(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case res.Blocked != nil:
					fmt.Fprintln(out, ui.Warn.Render(ui.IconLock+" Not yet: "+res.Blocked.Error()))
				case res.Final:
					fmt.Fprintln(out, ui.Gold.Render(fmt.Sprintf("%s Level %d is the last level. Keep going.", ui.IconSparkle, res.LevelAfter)))
				default:
					fmt.Fprintf(out, "%s %s\n", ui.BadgeLevelUp, ui.Good.Render(fmt.Sprintf("level %d → %d", res.LevelBefore, res.LevelAfter)))
				}
				if res.Perfect {
					fmt.Fprintln(out, ui.Gold.Render(ui.IconSparkle+" Perfect check-in"))
				}
				return nil
			})
		},
	}
	return cmd
}

func newLevelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level",
		Short: "Inspect or change the current level",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <n>",
		Short: "Jump to a level, skipping the check-in",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("level is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("level must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := strconv.Atoi(args[0])
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if err := requireInitiated(svc); err != nil {
					return err
				}
				level, ok := svc.Catalog().Level(n)
				if !ok {
					return fmt.Errorf("level %d does not exist (1..%d)", n, svc.Catalog().MaxLevel())
				}
				if err := svc.ChangeLevel(ctx, n); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Level", fmt.Sprintf("%d %s", level.Number, level.Name)))
				return nil
			})
		},
	})
	return cmd
}
