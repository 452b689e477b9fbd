package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sunrise/internal/catalog"
	"sunrise/internal/config"
	"sunrise/internal/engine"
	"sunrise/internal/storage"
	"sunrise/internal/ui"
)

// loadConfig reads the config and resolves the database path from it.
func loadConfig() (*config.Config, string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}

	svc, err := engine.NewService(ctx, db, cat,
		engine.WithLogger(logger),
		engine.WithRules(engine.Rules{
			CheckInDays:      cfg.CheckInDays,
			LevelUpThreshold: cfg.LevelUpThreshold,
		}),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// announce prints unlocked achievements and failed saves while a command
// runs. Call the returned func before exiting.
func announce(cmd *cobra.Command, svc *engine.Service) func() {
	return svc.Subscribe(func(e engine.Event) {
		switch e.Kind {
		case engine.EventAchievementUnlocked:
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconTrophy, ui.Gold.Render("Achievement unlocked:"), e.Achievement.Name)
		case engine.EventPersistWarning:
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn.Render(fmt.Sprintf("%s progress was not saved: %v", ui.IconWarn, e.Err)))
		}
	})
}

// withService opens the service, hooks up announce and runs fn.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *engine.Service) error) error {
	ctx := context.Background()
	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	defer announce(cmd, svc)()
	return fn(ctx, svc)
}
