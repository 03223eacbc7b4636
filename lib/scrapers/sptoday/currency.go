package sptoday

import (
	"context"
	"regexp"
	"strings"

	"sptoday-backend/lib/htmlutil"
	"sptoday-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
)

var currencyStrategies = []Strategy[CurrencyRate]{
	currencyTable{},
	currencyCards{},
	currencyScriptJSON{},
	currencyRegex{},
}

// ExtractCurrencies runs the currency strategies against the fetched
// markup in reliability order.
func ExtractCurrencies(ctx context.Context, markup string) []CurrencyRate {
	return runStrategies(ctx, "currencies", markup, currencyStrategies)
}

var isoCurrencyCodes = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "TRY": true, "SAR": true,
	"AED": true, "JOD": true, "KWD": true, "EGP": true, "QAR": true,
	"BHD": true, "OMR": true, "LBP": true, "JPY": true, "CHF": true,
	"CAD": true, "AUD": true, "SEK": true, "NOK": true, "DKK": true,
	"CNY": true, "RUB": true, "IQD": true, "IRR": true,
}

// known arabic spellings for currencies the site lists without a code.
var currencyAliases = map[string]string{
	"دولار أمريكي":   "USD",
	"دولار":          "USD",
	"يورو":           "EUR",
	"جنيه استرليني":  "GBP",
	"ليرة تركية":     "TRY",
	"ريال سعودي":     "SAR",
	"درهم اماراتي":   "AED",
	"دينار اردني":    "JOD",
	"دينار كويتي":    "KWD",
	"جنيه مصري":      "EGP",
	"ريال قطري":      "QAR",
	"دينار بحريني":   "BHD",
	"ريال عماني":     "OMR",
	"ليرة لبنانية":   "LBP",
	"دينار عراقي":    "IQD",
}

var parenCodeRegex = regexp.MustCompile(`\(([A-Za-z]{3})\)`)

// resolveCurrencyCode recognizes an ISO-style code embedded in the
// scraped name, either parenthesized, as a bare word, or through a
// fuzzy match against the known arabic spellings.
func resolveCurrencyCode(name string) string {
	if groups := parenCodeRegex.FindStringSubmatch(name); len(groups) == 2 {
		code := strings.ToUpper(groups[1])
		if isoCurrencyCodes[code] {
			return code
		}
	}
	for _, word := range strings.Fields(name) {
		word = strings.ToUpper(word)
		if isoCurrencyCodes[word] {
			return word
		}
	}

	normalized := textutil.NormalizeName(parenCodeRegex.ReplaceAllString(name, ""))
	bestScore := 0.0
	bestCode := ""
	for alias, code := range currencyAliases {
		score := matchr.JaroWinkler(normalized, textutil.NormalizeName(alias), false)
		if score > bestScore {
			bestScore = score
			bestCode = code
		}
	}
	if bestScore >= 0.92 {
		return bestCode
	}
	return ""
}

func enrichRate(r *CurrencyRate) {
	r.Average = (r.Buy + r.Sell) / 2
	r.Spread = r.Sell - r.Buy
	r.SpreadPercent = r.Spread / r.Buy * 100
}

func currencyFromCells(cells []string) (CurrencyRate, bool) {
	if len(cells) < 3 {
		return CurrencyRate{}, false
	}
	name := cells[0]
	if name == "" {
		return CurrencyRate{}, false
	}
	buy, ok := textutil.ParseNumber(cells[1])
	if !ok || buy <= 0 {
		return CurrencyRate{}, false
	}
	sell, ok := textutil.ParseNumber(cells[2])
	if !ok || sell <= 0 {
		return CurrencyRate{}, false
	}
	return CurrencyRate{Name: name, Buy: buy, Sell: sell}, true
}

// currencyTable takes any table row with at least name/buy/sell cells.
// Rows whose name carries a recognizable currency code additionally get
// the code and the derived analytics fields; rows without one are kept
// plain rather than dropped.
type currencyTable struct{}

func (currencyTable) Name() string { return "table" }

func (currencyTable) Extract(ctx context.Context, markup string) []CurrencyRate {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil
	}

	var rates []CurrencyRate
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		rate, ok := currencyFromCells(htmlutil.RowCells(row))
		if !ok {
			return
		}
		if code := resolveCurrencyCode(rate.Name); code != "" {
			rate.Code = code
			rate.Name = textutil.CleanText(parenCodeRegex.ReplaceAllString(rate.Name, ""))
			enrichRate(&rate)
		}
		rates = append(rates, rate)
	})
	return rates
}

// currencyCards matches repeating container elements by class hints.
type currencyCards struct{}

func (currencyCards) Name() string { return "cards" }

func (currencyCards) Extract(ctx context.Context, markup string) []CurrencyRate {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil
	}

	var rates []CurrencyRate
	doc.Find(".currency-row, .currency-item, .price-row, .price-item").Each(func(_ int, card *goquery.Selection) {
		name := htmlutil.FirstText(card, ".name", ".title", "h3", "h4")
		if name == "" {
			return
		}
		buy, ok := textutil.ParseNumber(htmlutil.FirstText(card, ".buy", ".buy-price", ".buy-value"))
		if !ok || buy <= 0 {
			return
		}
		sell, ok := textutil.ParseNumber(htmlutil.FirstText(card, ".sell", ".sell-price", ".sell-value"))
		if !ok || sell <= 0 {
			return
		}
		rates = append(rates, CurrencyRate{Name: name, Buy: buy, Sell: sell})
	})
	return rates
}

// currencyScriptJSON scans inline scripts for a JSON blob holding the
// rate list.
type currencyScriptJSON struct{}

func (currencyScriptJSON) Name() string { return "script_json" }

func (currencyScriptJSON) Extract(ctx context.Context, markup string) []CurrencyRate {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil
	}

	var rates []CurrencyRate
	for _, list := range recordLists(doc, []string{"rates", "currencies", "data"}) {
		for _, entry := range list {
			name := jsonString(entry["name"])
			if name == "" {
				continue
			}
			buy, ok := jsonNumber(entry["buy"])
			if !ok || buy <= 0 {
				continue
			}
			sell, ok := jsonNumber(entry["sell"])
			if !ok || sell <= 0 {
				continue
			}
			rates = append(rates, CurrencyRate{Name: name, Buy: buy, Sell: sell})
		}
		if len(rates) > 0 {
			break
		}
	}
	return rates
}

// last resort: name followed by two grouped numbers, scanned over the
// unparsed markup. the first pattern with any valid match wins.
var currencyRawPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([\p{Arabic}][\p{Arabic} ]{2,40}?)\s*(?:\(([A-Z]{3})\))?\s*[:|]?\s*([\d٠-٩][\d,٬.٠-٩]*)\s+([\d٠-٩][\d,٬.٠-٩]*)`),
	regexp.MustCompile(`\b([A-Z]{3})\b[^\d]{0,40}([\d][\d,.]*)\s+([\d][\d,.]*)`),
}

type currencyRegex struct{}

func (currencyRegex) Name() string { return "regex" }

func (currencyRegex) Extract(ctx context.Context, markup string) []CurrencyRate {
	for _, pattern := range currencyRawPatterns {
		var rates []CurrencyRate
		for _, groups := range pattern.FindAllStringSubmatch(markup, -1) {
			numbers := groups[len(groups)-2:]
			buy, ok := textutil.ParseNumber(numbers[0])
			if !ok || buy <= 0 {
				continue
			}
			sell, ok := textutil.ParseNumber(numbers[1])
			if !ok || sell <= 0 {
				continue
			}
			name := textutil.CleanText(groups[1])
			if name == "" {
				continue
			}
			rates = append(rates, CurrencyRate{Name: name, Buy: buy, Sell: sell})
		}
		if len(rates) > 0 {
			return rates
		}
	}
	return nil
}
