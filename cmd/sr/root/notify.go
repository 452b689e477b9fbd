package root

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"sunrise/internal/engine"
	"sunrise/internal/notify"
	"sunrise/internal/storage"
	"sunrise/internal/ui"
)

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Daily reminder settings",
	}
	cmd.AddCommand(newNotifyListCmd(), newNotifySetCmd())
	return cmd
}

func newNotifyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reminder settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				settings := svc.Snapshot().NotificationSettings
				for _, category := range slices.Sorted(maps.Keys(settings)) {
					st := settings[category]
					state := ui.Muted.Render("off")
					if st.Enabled {
						state = ui.Good.Render("on")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.IconBell, ui.Key.Render(category), st.Time, state)
				}
				return nil
			})
		},
	}
}

func newNotifySetCmd() *cobra.Command {
	var (
		at  string
		on  bool
		off bool
	)

	cmd := &cobra.Command{
		Use:   "set <category>",
		Short: "Change when and whether a reminder fires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if on && off {
				return errors.New("--on and --off are mutually exclusive")
			}
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				category := args[0]
				st, ok := svc.Snapshot().NotificationSettings[category]
				if !ok {
					if _, known := svc.Catalog().Message(category); !known {
						return fmt.Errorf("unknown reminder %q", category)
					}
				}
				if cmd.Flags().Changed("time") {
					st.Time = at
				}
				if on {
					st.Enabled = true
				}
				if off {
					st.Enabled = false
				}
				if err := svc.UpdateNotificationSettings(ctx, category, st); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconBell, ui.LabelValue(category, fmt.Sprintf("%s enabled=%t", st.Time, st.Enabled)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&at, "time", "", "time of day, HH:MM")
	cmd.Flags().BoolVar(&on, "on", false, "enable the reminder")
	cmd.Flags().BoolVar(&off, "off", false, "disable the reminder")
	return cmd
}

// newRemindCmd runs the reminder scheduler in the foreground until
// interrupted.
func newRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run daily reminders in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, path, err := loadConfig()
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			defer announce(cmd, svc)()
			if err := requireInitiated(svc); err != nil {
				return err
			}

			var mu sync.Mutex
			sched := notify.NewScheduler(svc.Catalog(), notify.NotifierFunc(func(n notify.Notification) {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Muted.Render(n.At.Format("15:04")), ui.IconBell, ui.Key.Render(n.Title), n.Body)
			}), notify.WithLogger(svc.Logger()), notify.WithDailyRepeat())
			defer sched.Stop()

			defer svc.Subscribe(func(e engine.Event) {
				if e.Kind == engine.EventSettingsChanged {
					sched.Apply(e.Settings)
				}
			})()
			sched.Apply(svc.Snapshot().NotificationSettings)

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconBell, "Reminders running (ctrl+c to stop)"))
			next := sched.Next()
			if len(next) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No reminders enabled yet, see `sr notify set`."))
			}
			for _, a := range next {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %s\n", ui.Key.Render(a.Category), a.At.Format("Mon 15:04"))
			}

			// Pick up `sr notify set` run from another terminal.
			go func() {
				err := storage.Watch(ctx, path, storage.DefaultWatchDebounce, func() {
					if err := svc.Reload(ctx); err != nil {
						svc.Logger().Warn("reload failed", "err", err)
					}
				})
				if err != nil {
					svc.Logger().Warn("db watch stopped", "err", err)
				}
			}()

			<-ctx.Done()
			return nil
		},
	}
}

func newVideoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "The breathing video",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <file>",
		Short: "Store the breathing video, or clear it with an empty file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if err := svc.SetWimHofVideo(ctx, data); err != nil {
					return err
				}
				if len(data) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Video cleared."))
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconVideo, ui.Good.Render(fmt.Sprintf("Stored %d bytes", len(data))))
				return nil
			})
		},
	})
	return cmd
}
