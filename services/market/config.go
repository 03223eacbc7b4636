package market

import "time"

// Config is the shared configuration for the fetch job and daemon,
// read from config.json5.
type Config struct {
	BaseUrl        string  `json:"base_url"`
	DataDir        string  `json:"data_dir"`
	HistoryDb      string  `json:"history_db"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	FetchAttempts  int     `json:"fetch_attempts"`
	BackoffMs      int     `json:"backoff_ms"`
	UseBrowser     bool    `json:"use_browser"`
	SettleMs       int     `json:"settle_ms"`
	UsdSypFallback float64 `json:"usd_syp_fallback"`
	CryptoApi      bool    `json:"crypto_api"`
	CryptoIds      []string `json:"crypto_ids"`
	IntervalMin    int     `json:"interval_minutes"`
	Port           int     `json:"port"`
}

func (c Config) WithDefaults() Config {
	if c.BaseUrl == "" {
		c.BaseUrl = "https://sp-today.com"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
	if c.FetchAttempts == 0 {
		c.FetchAttempts = 3
	}
	if c.BackoffMs == 0 {
		c.BackoffMs = 2000
	}
	if c.SettleMs == 0 {
		c.SettleMs = 2000
	}
	if len(c.CryptoIds) == 0 {
		c.CryptoIds = []string{"bitcoin", "ethereum", "tether", "binancecoin"}
	}
	if c.IntervalMin == 0 {
		c.IntervalMin = 30
	}
	if c.Port == 0 {
		c.Port = 8090
	}
	return c
}

func (c Config) Timeout() time.Duration     { return time.Duration(c.TimeoutSeconds) * time.Second }
func (c Config) Backoff() time.Duration     { return time.Duration(c.BackoffMs) * time.Millisecond }
func (c Config) SettleDelay() time.Duration { return time.Duration(c.SettleMs) * time.Millisecond }
func (c Config) Interval() time.Duration    { return time.Duration(c.IntervalMin) * time.Minute }
