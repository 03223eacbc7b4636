package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sptoday-backend/lib/telemetry"
	"sptoday-backend/lib/util/configutil"
	"sptoday-backend/lib/util/serviceutil"
	"sptoday-backend/services/market"
)

func main() {
	telemetry.InitSlog(false)
	ctx := serviceutil.SignalContext()

	tel, err := telemetry.SetupFromEnv(ctx, "marketd")
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no telemetry config found, exporters disabled")
	} else if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	} else {
		defer tel.Shutdown(context.Background())
	}
	telemetry.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfig[market.Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	cfg = cfg.WithDefaults()

	// NewFromConfig releases anything it opened before returning an
	// error, so failing here never leaves a browser process behind
	svc, cleanup, err := market.NewFromConfig(ctx, cfg, false)
	if err != nil {
		serviceutil.Fatal("failed to initialize service", err)
	}
	defer cleanup()

	mux := http.NewServeMux()
	mux.Handle("/", market.FileServer(cfg.DataDir))
	go serviceutil.StartHttpServer(cfg.Port, mux)

	go runLoop(ctx, svc, cfg.Interval())

	<-ctx.Done()
	slog.Info("shutting down")
}

// runLoop fetches immediately, then on every tick. A failed cycle only
// logs, the next tick tries again.
func runLoop(ctx context.Context, svc market.Service, interval time.Duration) {
	run := func() {
		if err := svc.FetchAll(ctx); err != nil {
			slog.Error("fetch cycle had failures", "err", err)
		}
	}
	run()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
