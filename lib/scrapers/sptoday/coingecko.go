package sptoday

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sptoday-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

// CoinGeckoClient pulls crypto prices from the public coingecko API,
// bypassing the markup extraction strategies for that category.
type CoinGeckoClient struct {
	http *resty.Client
}

func NewCoinGeckoClient() *CoinGeckoClient {
	client := resty.New()
	client.SetBaseURL("https://api.coingecko.com/api/v3")
	client.SetHeader("accept", "application/json")
	client.SetTimeout(time.Second * 20)
	telemetry.InstrumentResty(client, "scrapers/sptoday/coingecko")

	return &CoinGeckoClient{http: client}
}

type coinGeckoMarket struct {
	Id           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
}

// FetchPrices returns USD quotes for the given coingecko coin ids,
// preserving the requested order. usdSypRate behaves as in
// ExtractCrypto.
func (c *CoinGeckoClient) FetchPrices(ctx context.Context, ids []string, usdSypRate float64) ([]CryptoPrice, error) {
	var markets []coinGeckoMarket
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("vs_currency", "usd").
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetResult(&markets).
		Get("/coins/markets")
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("coingecko: unexpected status %s", res.Status())
	}

	byId := map[string]coinGeckoMarket{}
	for _, m := range markets {
		byId[m.Id] = m
	}

	var prices []CryptoPrice
	for _, id := range ids {
		m, ok := byId[id]
		if !ok || m.CurrentPrice <= 0 {
			continue
		}
		prices = append(prices, CryptoPrice{
			Name:     m.Name,
			Symbol:   strings.ToUpper(m.Symbol),
			Price:    m.CurrentPrice,
			PriceSYP: deriveSyp(m.CurrentPrice, nil, usdSypRate),
		})
	}
	return prices, nil
}
