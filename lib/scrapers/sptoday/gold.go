package sptoday

import (
	"context"
	"fmt"
	"regexp"

	"sptoday-backend/lib/htmlutil"
	"sptoday-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// plausibility band for gold quotes, rejects mis-parsed non-price
// numbers like carat values or percentages.
const (
	goldPriceMin = 100
	goldPriceMax = 10_000_000
)

func plausibleGoldPrice(p float64) bool {
	return p > goldPriceMin && p < goldPriceMax
}

var goldStrategies = []Strategy[GoldPrice]{
	goldTable{},
	goldCards{},
	goldCaratRegex{},
}

// ExtractGold runs the gold strategies against the fetched markup in
// reliability order.
func ExtractGold(ctx context.Context, markup string) []GoldPrice {
	return runStrategies(ctx, "gold", markup, goldStrategies)
}

// goldTable reads rows as either name/price or name/buy/sell.
type goldTable struct{}

func (goldTable) Name() string { return "table" }

func (goldTable) Extract(ctx context.Context, markup string) []GoldPrice {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil
	}

	var prices []GoldPrice
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := htmlutil.RowCells(row)
		if len(cells) < 2 || cells[0] == "" {
			return
		}

		if len(cells) >= 3 {
			buy, buyOk := textutil.ParseNumber(cells[1])
			sell, sellOk := textutil.ParseNumber(cells[2])
			if buyOk && sellOk && plausibleGoldPrice(buy) && plausibleGoldPrice(sell) {
				prices = append(prices, GoldPrice{Name: cells[0], Price: sell, Buy: buy, Sell: sell})
				return
			}
		}

		price, ok := textutil.ParseNumber(cells[1])
		if !ok || !plausibleGoldPrice(price) {
			return
		}
		prices = append(prices, GoldPrice{Name: cells[0], Price: price})
	})
	return prices
}

// goldCards matches repeating container elements by class hints.
type goldCards struct{}

func (goldCards) Name() string { return "cards" }

func (goldCards) Extract(ctx context.Context, markup string) []GoldPrice {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil
	}

	var prices []GoldPrice
	doc.Find(".price-item, .gold-price, .currency-row").Each(func(_ int, card *goquery.Selection) {
		name := htmlutil.FirstText(card, ".name", ".title", "h3", "h4")
		if name == "" {
			return
		}
		price, ok := textutil.ParseNumber(htmlutil.FirstText(card, ".price", ".value", ".amount"))
		if !ok || !plausibleGoldPrice(price) {
			return
		}
		prices = append(prices, GoldPrice{Name: name, Price: price})
	})
	return prices
}

// carat mention followed by one or two grouped numbers, applied to the
// unparsed markup. ordered: two-sided quotes first, single price last.
var goldCaratPatterns = []*regexp.Regexp{
	regexp.MustCompile(`عيار\s*(\d{1,2})[^0-9]{1,120}([\d٠-٩][\d,٬.٠-٩]*)[^0-9]{1,60}([\d٠-٩][\d,٬.٠-٩]*)`),
	regexp.MustCompile(`(\d{1,2})\s*عيار[^0-9]{1,120}([\d٠-٩][\d,٬.٠-٩]*)[^0-9]{1,60}([\d٠-٩][\d,٬.٠-٩]*)`),
	regexp.MustCompile(`(\d{1,2})[kK][^0-9]{1,120}([\d٠-٩][\d,٬.٠-٩]*)[^0-9]{1,60}([\d٠-٩][\d,٬.٠-٩]*)`),
	regexp.MustCompile(`عيار\s*(\d{1,2})[^0-9]{1,120}([\d٠-٩][\d,٬.٠-٩]*)`),
	regexp.MustCompile(`(\d{1,2})\s*عيار[^0-9]{1,120}([\d٠-٩][\d,٬.٠-٩]*)`),
}

type goldCaratRegex struct{}

func (goldCaratRegex) Name() string { return "carat_regex" }

func (goldCaratRegex) Extract(ctx context.Context, markup string) []GoldPrice {
	for _, pattern := range goldCaratPatterns {
		var prices []GoldPrice
		seen := map[string]bool{}
		for _, groups := range pattern.FindAllStringSubmatch(markup, -1) {
			carat := groups[1]
			if seen[carat] {
				continue
			}

			first, ok := textutil.ParseNumber(groups[2])
			if !ok || !plausibleGoldPrice(first) {
				continue
			}

			price := GoldPrice{Name: fmt.Sprintf("ذهب عيار %s", carat), Price: first}
			if len(groups) > 3 {
				if second, ok := textutil.ParseNumber(groups[3]); ok && plausibleGoldPrice(second) {
					price.Buy = first
					price.Sell = second
					price.Price = second
				}
			}

			seen[carat] = true
			prices = append(prices, price)
		}
		if len(prices) > 0 {
			return prices
		}
	}
	return nil
}
