package market

import (
	"os"
	"path/filepath"
	"testing"

	"sptoday-backend/lib/scrapers/sptoday"
	"sptoday-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:market")
	defer cleanup()

	store := NewStore(filepath.Join(t.TempDir(), "data"))
	doc := CurrencyDocument{
		LastUpdate: 1724800000000,
		Source:     "https://sp-today.com/currencies",
		FetchedAt:  "2026-08-28T00:00:00Z",
		Rates: []sptoday.CurrencyRate{
			{Name: "دولار أمريكي", Code: "USD", Buy: 12500, Sell: 12600, Average: 12550, Spread: 100, SpreadPercent: 0.8},
		},
	}

	require.NoError(t, store.WriteCurrencies(doc))

	got, err := store.ReadCurrencies()
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(doc, got))
}

func TestStoreOverwritesWholeFile(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:market")
	defer cleanup()

	store := NewStore(t.TempDir())

	first := GoldDocument{LastUpdate: 1, Source: "a", Prices: []sptoday.GoldPrice{
		{Name: "ذهب عيار 21", Price: 1850000},
		{Name: "ذهب عيار 18", Price: 1585000},
	}}
	second := GoldDocument{LastUpdate: 2, Source: "b", Prices: []sptoday.GoldPrice{
		{Name: "ذهب عيار 21", Price: 1900000},
	}}

	require.NoError(t, store.WriteGold(first))
	require.NoError(t, store.WriteGold(second))

	got, err := store.ReadGold()
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(second, got))
}

func TestStoreKeepsFileWhenNoRecords(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:market")
	defer cleanup()

	store := NewStore(t.TempDir())

	populated := GoldDocument{LastUpdate: 1, Source: "a", Prices: []sptoday.GoldPrice{
		{Name: "ذهب عيار 21", Price: 1850000},
	}}
	require.NoError(t, store.WriteGold(populated))

	require.NoError(t, store.WriteGold(GoldDocument{LastUpdate: 2, Source: "a"}))

	got, err := store.ReadGold()
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(populated, got))
}

func TestStoreWritesEmptyDocumentWhenNothingExists(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:market")
	defer cleanup()

	store := NewStore(t.TempDir())

	// first ever run with zero records still produces a file so the
	// front-end gets an explicit empty state instead of a 404
	require.NoError(t, store.WriteGold(GoldDocument{LastUpdate: 2, Source: "a"}))

	got, err := store.ReadGold()
	require.NoError(t, err)
	require.Empty(t, got.Prices)

	leftovers, err := filepath.Glob(filepath.Join(store.Dir(), "*.json.*"))
	require.NoError(t, err)
	require.Empty(t, leftovers, "temp files are renamed away")
	_, err = os.Stat(filepath.Join(store.Dir(), GoldFile))
	require.NoError(t, err)
}
