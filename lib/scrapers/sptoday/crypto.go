package sptoday

import (
	"context"
	"regexp"
	"strings"

	"sptoday-backend/lib/htmlutil"
	"sptoday-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// ExtractCrypto runs the crypto strategies against the fetched markup
// in reliability order. usdSypRate, when positive, is used to derive
// price_syp for records whose source omits it; zero leaves it null.
func ExtractCrypto(ctx context.Context, markup string, usdSypRate float64) []CryptoPrice {
	strategies := []Strategy[CryptoPrice]{
		cryptoTable{usdSypRate: usdSypRate},
		cryptoCards{usdSypRate: usdSypRate},
		cryptoScriptJSON{usdSypRate: usdSypRate},
	}
	return runStrategies(ctx, "crypto", markup, strategies)
}

var symbolInNameRegex = regexp.MustCompile(`\(([A-Za-z]{2,6})\)`)

func symbolFromName(name string) (string, string) {
	groups := symbolInNameRegex.FindStringSubmatch(name)
	if len(groups) != 2 {
		return name, ""
	}
	stripped := textutil.CleanText(symbolInNameRegex.ReplaceAllString(name, ""))
	return stripped, strings.ToUpper(groups[1])
}

func deriveSyp(price float64, fromSource *float64, usdSypRate float64) *float64 {
	if fromSource != nil {
		return fromSource
	}
	if usdSypRate > 0 {
		syp := price * usdSypRate
		return &syp
	}
	return nil
}

// cryptoTable reads rows as name[, symbol], price[, syp price]. the
// symbol cell is optional since some layouts fold it into the name.
type cryptoTable struct {
	usdSypRate float64
}

func (cryptoTable) Name() string { return "table" }

func (s cryptoTable) Extract(ctx context.Context, markup string) []CryptoPrice {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil
	}

	var prices []CryptoPrice
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := htmlutil.RowCells(row)
		if len(cells) < 3 || cells[0] == "" {
			return
		}

		name, symbol := symbolFromName(cells[0])
		rest := cells[1:]
		if _, numeric := textutil.ParseNumber(rest[0]); !numeric {
			if symbol == "" {
				symbol = strings.ToUpper(rest[0])
			}
			rest = rest[1:]
		}
		if len(rest) == 0 {
			return
		}

		price, ok := textutil.ParseNumber(rest[0])
		if !ok || price <= 0 {
			return
		}

		var sourceSyp *float64
		if len(rest) > 1 {
			if syp, ok := textutil.ParseNumber(rest[1]); ok && syp > 0 {
				sourceSyp = &syp
			}
		}

		prices = append(prices, CryptoPrice{
			Name:     name,
			Symbol:   symbol,
			Price:    price,
			PriceSYP: deriveSyp(price, sourceSyp, s.usdSypRate),
		})
	})
	return prices
}

// cryptoCards matches repeating container elements by class hints.
type cryptoCards struct {
	usdSypRate float64
}

func (cryptoCards) Name() string { return "cards" }

func (s cryptoCards) Extract(ctx context.Context, markup string) []CryptoPrice {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil
	}

	var prices []CryptoPrice
	doc.Find(".crypto-row, .currency-item, .price-row").Each(func(_ int, card *goquery.Selection) {
		name := htmlutil.FirstText(card, ".name", ".title", "h3", "h4")
		if name == "" {
			return
		}
		price, ok := textutil.ParseNumber(htmlutil.FirstText(card, ".price", ".value", ".amount"))
		if !ok || price <= 0 {
			return
		}

		name, symbol := symbolFromName(name)
		if found := htmlutil.FirstText(card, ".symbol", ".code"); found != "" {
			symbol = strings.ToUpper(found)
		}

		var sourceSyp *float64
		if syp, ok := textutil.ParseNumber(htmlutil.FirstText(card, ".syp-price", ".syrian-price")); ok && syp > 0 {
			sourceSyp = &syp
		}

		prices = append(prices, CryptoPrice{
			Name:     name,
			Symbol:   symbol,
			Price:    price,
			PriceSYP: deriveSyp(price, sourceSyp, s.usdSypRate),
		})
	})
	return prices
}

// cryptoScriptJSON scans inline scripts for a JSON blob holding the
// price list.
type cryptoScriptJSON struct {
	usdSypRate float64
}

func (cryptoScriptJSON) Name() string { return "script_json" }

func (s cryptoScriptJSON) Extract(ctx context.Context, markup string) []CryptoPrice {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil
	}

	var prices []CryptoPrice
	for _, list := range recordLists(doc, []string{"prices", "cryptos", "data"}) {
		for _, entry := range list {
			name := jsonString(entry["name"])
			if name == "" {
				continue
			}
			price, ok := jsonNumber(entry["price"])
			if !ok || price <= 0 {
				continue
			}

			name, symbol := symbolFromName(name)
			if found := jsonString(entry["symbol"]); found != "" {
				symbol = strings.ToUpper(found)
			}

			var sourceSyp *float64
			if syp, ok := jsonNumber(entry["price_syp"]); ok && syp > 0 {
				sourceSyp = &syp
			}

			prices = append(prices, CryptoPrice{
				Name:     name,
				Symbol:   symbol,
				Price:    price,
				PriceSYP: deriveSyp(price, sourceSyp, s.usdSypRate),
			})
		}
		if len(prices) > 0 {
			break
		}
	}
	return prices
}
