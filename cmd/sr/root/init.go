package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sunrise/internal/engine"
	"sunrise/internal/ui"
)

var errNotInitiated = errors.New("not started yet, run `sr init` first")

func requireInitiated(svc *engine.Service) error {
	if !svc.Snapshot().IsInitiated {
		return errNotInitiated
	}
	return nil
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Start the path at level 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if svc.Snapshot().IsInitiated && !force {
					return errors.New("already started, pass --force to discard all progress and start over")
				}
				if err := svc.Initiate(ctx); err != nil {
					return err
				}
				level, _ := svc.CurrentLevelData()
				fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSun, "Your path begins"))
				if level != nil {
					fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Level", fmt.Sprintf("%d %s", level.Number, level.Name)))
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Check-in in", fmt.Sprintf("%d days", svc.DaysLeftForCheckIn())))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "discard existing progress")
	return cmd
}
