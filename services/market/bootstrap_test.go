package market

import (
	"context"
	"path/filepath"
	"testing"

	"sptoday-backend/lib/scrapers/sptoday"
	"sptoday-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func stubBrowser(t *testing.T, closed *int) {
	t.Helper()
	restore := launchBrowser
	launchBrowser = func(ctx context.Context, opts sptoday.BrowserOptions) (sptoday.Fetcher, func(), error) {
		return fakeFetcher{}, func() { *closed++ }, nil
	}
	t.Cleanup(func() { launchBrowser = restore })
}

func TestNewFromConfigCleanupClosesBrowser(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:market")
	defer cleanup()

	closed := 0
	stubBrowser(t, &closed)

	cfg := Config{DataDir: t.TempDir()}.WithDefaults()
	_, release, err := NewFromConfig(context.Background(), cfg, true)
	require.NoError(t, err)
	require.Equal(t, 0, closed)

	release()
	require.Equal(t, 1, closed)
}

func TestNewFromConfigClosesBrowserOnFailedInit(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:market")
	defer cleanup()

	closed := 0
	stubBrowser(t, &closed)

	cfg := Config{
		DataDir: t.TempDir(),
		// parent directory does not exist, opening the db must fail
		HistoryDb: filepath.Join(t.TempDir(), "missing", "history.db"),
	}.WithDefaults()

	_, _, err := NewFromConfig(context.Background(), cfg, true)
	require.Error(t, err)
	require.Equal(t, 1, closed, "a launched browser must not outlive a failed init")
}
