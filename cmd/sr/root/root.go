package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sunrise/internal/ui"
)

const Version = "0.1.0"

// configPath is bound to the persistent --config flag.
var configPath string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sr",
		Short:         "Sunrise: a local-first daily discipline tracker",
		Long:          "Sunrise walks you through levels of daily tasks, reading plans, workouts and savings goals, all stored on this machine.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.sunrise/config.yaml)")

	cmd.AddCommand(
		newInitCmd(),
		newStatusCmd(),
		newTasksCmd(),
		newTaskCmd(),
		newLevelUpCmd(),
		newLevelCmd(),
		newPlanCmd(),
		newReadCmd(),
		newBookCmd(),
		newStatCmd(),
		newStatsCmd(),
		newAchievementsCmd(),
		newWorkoutCmd(),
		newGoalCmd(),
		newNotifyCmd(),
		newVideoCmd(),
		newRemindCmd(),
		newBoardCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
