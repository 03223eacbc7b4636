package market

import (
	"context"
	"fmt"

	"sptoday-backend/lib/scrapers/sptoday"
	"sptoday-backend/services/market/db"
)

// swapped in tests so the config wiring can be exercised without a
// chrome install.
var launchBrowser = func(ctx context.Context, opts sptoday.BrowserOptions) (sptoday.Fetcher, func(), error) {
	browser, err := sptoday.NewBrowser(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return browser, browser.Close, nil
}

// NewFromConfig wires a Service and its dependencies from config.
// useBrowser forces the headless fetcher on top of cfg.UseBrowser.
// The returned cleanup releases everything opened and must run on
// every exit path. When a later step fails, whatever was already
// opened is released before the error returns, so a launched browser
// never outlives a failed init.
func NewFromConfig(ctx context.Context, cfg Config, useBrowser bool) (Service, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	client, err := sptoday.NewClient(sptoday.ClientOptions{
		BaseUrl:  cfg.BaseUrl,
		Timeout:  cfg.Timeout(),
		Attempts: cfg.FetchAttempts,
		Backoff:  cfg.Backoff(),
	})
	if err != nil {
		return Service{}, func() {}, fmt.Errorf("initialize http client: %w", err)
	}

	var fetcher sptoday.Fetcher = client
	if useBrowser || cfg.UseBrowser {
		browser, closeBrowser, err := launchBrowser(ctx, sptoday.BrowserOptions{
			SettleDelay: cfg.SettleDelay(),
		})
		if err != nil {
			return Service{}, func() {}, fmt.Errorf("launch headless browser: %w", err)
		}
		closers = append(closers, closeBrowser)
		fetcher = browser
	} else {
		client.BootstrapSession(ctx)
	}

	var history *db.Queries
	if cfg.HistoryDb != "" {
		database, err := db.Open(cfg.HistoryDb)
		if err != nil {
			cleanup()
			return Service{}, func() {}, fmt.Errorf("open history db: %w", err)
		}
		closers = append(closers, func() { database.Close() })
		history = db.New(database)
	}

	var api CryptoApi
	if cfg.CryptoApi {
		api = sptoday.NewCoinGeckoClient()
	}

	svc := NewService(Options{
		Fetcher:    fetcher,
		Store:      NewStore(cfg.DataDir),
		History:    history,
		BaseUrl:    cfg.BaseUrl,
		UsdSypRate: cfg.UsdSypFallback,
		CryptoApi:  api,
		CryptoIds:  cfg.CryptoIds,
	})
	return svc, cleanup, nil
}
