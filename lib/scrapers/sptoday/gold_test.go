package sptoday

import (
	"context"
	"testing"

	"sptoday-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestGoldTableExtraction(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	markup := `<table><tbody>
		<tr><td>ذهب عيار 21</td><td>1,850,000</td></tr>
		<tr><td>ذهب عيار 18</td><td>1,585,000</td></tr>
		<tr><td>عيار فقط</td><td>21</td></tr>
		<tr><td>رقم ضخم</td><td>99,000,000,000</td></tr>
	</tbody></table>`

	prices := ExtractGold(context.Background(), markup)
	require.Len(t, prices, 2, "values outside the plausibility band are discarded")
	require.Equal(t, "ذهب عيار 21", prices[0].Name)
	require.Equal(t, 1850000.0, prices[0].Price)

	for _, p := range prices {
		require.Greater(t, p.Price, 100.0)
		require.Less(t, p.Price, 10_000_000.0)
	}
}

func TestGoldTableBuySell(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	markup := `<table><tbody>
		<tr><td>ذهب عيار 21</td><td>1,850,000</td><td>1,870,000</td></tr>
	</tbody></table>`

	prices := ExtractGold(context.Background(), markup)
	require.Len(t, prices, 1)
	require.Equal(t, 1850000.0, prices[0].Buy)
	require.Equal(t, 1870000.0, prices[0].Sell)
	require.Equal(t, 1870000.0, prices[0].Price)
}

func TestGoldCards(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	markup := `<div class="gold-price">
		<h4 class="title">أونصة الذهب</h4>
		<span class="amount">9,150,000</span>
	</div>`

	prices := ExtractGold(context.Background(), markup)
	require.Len(t, prices, 1)
	require.Equal(t, "أونصة الذهب", prices[0].Name)
	require.Equal(t, 9150000.0, prices[0].Price)
}

func TestGoldCaratRegexFallback(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	markup := `<div>أسعار الذهب اليوم: عيار 21 شراء 1,850,000 مبيع 1,870,000</div>`

	prices := ExtractGold(context.Background(), markup)
	require.Len(t, prices, 1)
	require.Equal(t, "ذهب عيار 21", prices[0].Name)
	require.Equal(t, 1850000.0, prices[0].Buy)
	require.Equal(t, 1870000.0, prices[0].Sell)
}

func TestGoldCaratRegexSinglePrice(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	markup := `سعر غرام الذهب 18 عيار هو 1,585,000 ليرة`

	prices := ExtractGold(context.Background(), markup)
	require.Len(t, prices, 1)
	require.Equal(t, "ذهب عيار 18", prices[0].Name)
	require.Equal(t, 1585000.0, prices[0].Price)
	require.Equal(t, 0.0, prices[0].Buy)
}
