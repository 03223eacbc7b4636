package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"sptoday-backend/lib/util/configutil"
	"sptoday-backend/lib/util/serviceutil"
	"sptoday-backend/services/market"
)

func readConfig() market.Config {
	cfg, err := configutil.ReadConfig[market.Config](*configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		serviceutil.Fatal("failed to read config", err)
	}
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no config file found, using defaults", "path", *configPath)
	}
	return cfg.WithDefaults()
}

func buildService(ctx context.Context, cfg market.Config, useBrowser bool) (market.Service, func()) {
	svc, cleanup, err := market.NewFromConfig(ctx, cfg, useBrowser)
	if err != nil {
		serviceutil.Fatal("failed to initialize service", err)
	}
	return svc, cleanup
}
