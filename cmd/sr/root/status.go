package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sunrise/internal/catalog"
	"sunrise/internal/engine"
	"sunrise/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level progress, reading, workout and savings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				renderStatus(cmd, svc.Dashboard(), svc.Rules())
				return nil
			})
		},
	}

	return cmd
}

func renderStatus(cmd *cobra.Command, d engine.Dashboard, rules engine.Rules) {
	out := cmd.OutOrStdout()
	if !d.Initiated {
		fmt.Fprintln(out, ui.Muted.Render("Not started yet. Run `sr init` to begin."))
		return
	}

	name := ""
	if d.Level != nil {
		name = d.Level.Name
	}
	fmt.Fprintln(out, ui.Heading(ui.IconSun, fmt.Sprintf("Level %d/%d %s", d.LevelNumber, d.MaxLevel, name)))
	fmt.Fprintf(out, "%s %s %s\n", ui.Key.Render("Progress:"), ui.ProgressBar(d.Progress, 20), ui.Percent(d.Progress, rules.LevelUpThreshold))
	fmt.Fprintln(out, ui.LabelValue("Check-in in", fmt.Sprintf("%d days", d.DaysLeft)))
	if d.CanLevelUp {
		fmt.Fprintln(out, ui.BadgeLevelUp+" "+ui.Muted.Render("run `sr levelup`"))
	}
	fmt.Fprintln(out, "")

	fmt.Fprintln(out, ui.H2.Render("Paths"))
	for _, c := range d.Categories {
		if c.Total == 0 {
			continue
		}
		fmt.Fprintf(out, "- %s %s %d/%d %s\n", ui.CategoryIcon(c.Category), ui.CategoryTitle(c.Category), c.Done, c.Total, ui.Percent(c.Percentage, rules.LevelUpThreshold))
	}
	fmt.Fprintln(out, "")

	fmt.Fprintln(out, ui.H2.Render(ui.IconBook+" Reading"))
	switch {
	case d.Plan == nil:
		fmt.Fprintln(out, ui.Muted.Render("No plan selected. See `sr plan list`."))
	case d.Book == nil:
		fmt.Fprintln(out, ui.LabelValue("Plan", d.Plan.Name))
	default:
		fmt.Fprintln(out, ui.LabelValue("Plan", fmt.Sprintf("%s %s", d.Plan.Name, ui.Muted.Render(fmt.Sprintf("(%d%% of plan)", d.PlanPercent)))))
		fmt.Fprintln(out, ui.LabelValue("Book", fmt.Sprintf("%s by %s, page %d/%d (%d%%)", d.Book.Title, d.Book.Author, d.BookPage, d.Book.Pages, d.BookPercent)))
	}
	fmt.Fprintln(out, "")

	if d.Workout != nil {
		fmt.Fprintln(out, ui.H2.Render(ui.CategoryIcon(catalog.CategoryPhysics)+" Today's workout"))
		fmt.Fprintf(out, "- %s %s\n", d.Workout.Name, ui.Muted.Render("("+d.Workout.Duration+")"))
		fmt.Fprintln(out, "")
	}

	fmt.Fprintln(out, ui.H2.Render(ui.IconTrophy+" Achievements"))
	fmt.Fprintf(out, "- %d of %d earned\n", d.Earned, len(d.Achievements))

	if len(d.Goals) > 0 {
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, ui.H2.Render(ui.IconMoney+" Savings"))
		fmt.Fprintf(out, "- %s of %s (%d%%)\n", ui.FormatNumber(d.Finance.TotalCurrent), ui.FormatNumber(d.Finance.TotalTarget), d.Finance.Percentage)
	}
}
