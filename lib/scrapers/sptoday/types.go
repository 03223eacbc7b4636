package sptoday

// CurrencyRate is one exchange rate row against the syrian pound.
// Code and the derived fields are only populated by the code-aware
// strategy, the simpler fallbacks leave them zero.
type CurrencyRate struct {
	Name          string  `json:"name"`
	Code          string  `json:"code,omitempty"`
	Buy           float64 `json:"buy"`
	Sell          float64 `json:"sell"`
	Average       float64 `json:"average,omitempty"`
	Spread        float64 `json:"spread,omitempty"`
	SpreadPercent float64 `json:"spread_percent,omitempty"`
}

// GoldPrice is one gold quote. Price is always set; Buy/Sell are only
// set when the source presents both sides, in which case Price mirrors
// Sell.
type GoldPrice struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Buy   float64 `json:"buy,omitempty"`
	Sell  float64 `json:"sell,omitempty"`
}

// CryptoPrice is one cryptocurrency quote in USD. PriceSYP is taken
// from the source when it lists one, derived from the configured
// USD/SYP rate otherwise, and null when no rate is known.
type CryptoPrice struct {
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Price    float64  `json:"price"`
	PriceSYP *float64 `json:"price_syp"`
}
