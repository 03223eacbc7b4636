package sptoday

import (
	"context"
	"testing"

	"sptoday-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestCryptoTableWithSypColumn(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	markup := `<table><tbody>
		<tr><td>بيتكوين</td><td>BTC</td><td>$43,250.75</td><td>540,634,375</td></tr>
		<tr><td>إيثيريوم</td><td>ETH</td><td>$2,280.10</td><td>28,501,250</td></tr>
	</tbody></table>`

	prices := ExtractCrypto(context.Background(), markup, 0)
	require.Len(t, prices, 2)

	require.Equal(t, "بيتكوين", prices[0].Name)
	require.Equal(t, "BTC", prices[0].Symbol)
	require.Equal(t, 43250.75, prices[0].Price)
	require.NotNil(t, prices[0].PriceSYP)
	require.Equal(t, 540634375.0, *prices[0].PriceSYP)
}

func TestCryptoTableDerivedSyp(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	markup := `<table><tbody>
		<tr><td>بيتكوين (BTC)</td><td>43,000</td><td></td></tr>
	</tbody></table>`

	withRate := ExtractCrypto(context.Background(), markup, 12500)
	require.Len(t, withRate, 1)
	require.Equal(t, "بيتكوين", withRate[0].Name)
	require.Equal(t, "BTC", withRate[0].Symbol)
	require.NotNil(t, withRate[0].PriceSYP)
	require.Equal(t, 43000.0*12500, *withRate[0].PriceSYP)

	withoutRate := ExtractCrypto(context.Background(), markup, 0)
	require.Len(t, withoutRate, 1)
	require.Nil(t, withoutRate[0].PriceSYP, "no configured rate leaves price_syp null")
}

func TestCryptoCards(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	markup := `<div class="crypto-row">
		<h3 class="name">تيثر</h3>
		<span class="code">USDT</span>
		<span class="price">$1.00</span>
		<span class="syp-price">12,500</span>
	</div>`

	prices := ExtractCrypto(context.Background(), markup, 0)
	require.Len(t, prices, 1)
	require.Equal(t, "USDT", prices[0].Symbol)
	require.Equal(t, 1.0, prices[0].Price)
	require.NotNil(t, prices[0].PriceSYP)
	require.Equal(t, 12500.0, *prices[0].PriceSYP)
}

func TestCryptoScriptJSON(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	markup := `<script>
		window.__prices = {"prices": [
			{"name": "Bitcoin", "symbol": "btc", "price": 43250.75},
			{"name": "Broken", "symbol": "x", "price": "free"}
		]};
	</script>`

	prices := ExtractCrypto(context.Background(), markup, 12500)
	require.Len(t, prices, 1, "records failing numeric validation are skipped")
	require.Equal(t, "Bitcoin", prices[0].Name)
	require.Equal(t, "BTC", prices[0].Symbol)
	require.NotNil(t, prices[0].PriceSYP)
	require.Equal(t, 43250.75*12500, *prices[0].PriceSYP)
}
