package sptoday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"time"

	"sptoday-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Fetcher retrieves raw markup for a url. Implemented by Client (plain
// HTTP) and Browser (headless rendering).
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

var ErrAllAttemptsFailed = errors.New("all fetch attempts failed")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	BaseUrl string
	// per-attempt timeout, defaults to 30s
	Timeout time.Duration
	// total attempts including the first, defaults to 3
	Attempts int
	// initial delay between attempts, doubled after every failure,
	// defaults to 2s
	Backoff time.Duration
}

// Client fetches pages over plain HTTP with browser-like headers, a
// cookie session and bounded retries.
type Client struct {
	http     *resty.Client
	baseUrl  string
	attempts int
	backoff  time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}
	if opts.Backoff == 0 {
		opts.Backoff = time.Second * 2
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	// explicit options keep the bypass from pulling a user agent list
	// off the network at startup
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport, cloudflarebp.Options{
		AddMissingHeaders: true,
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "ar,en-US;q=0.9,en;q=0.8",
			"User-Agent":      defaultUserAgent,
		},
	})

	client.SetHeader("user-agent", defaultUserAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "ar,en-US;q=0.9,en;q=0.8")
	if opts.BaseUrl != "" {
		client.SetHeader("referer", opts.BaseUrl+"/")
	}
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/sptoday/http")

	return &Client{
		http:     client,
		baseUrl:  opts.BaseUrl,
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
	}, nil
}

// BootstrapSession hits the site homepage once so any session cookies
// issued there ride along on the category requests. Failure is
// non-fatal, requests simply proceed without cookies.
func (c *Client) BootstrapSession(ctx context.Context) {
	if c.baseUrl == "" {
		return
	}
	res, err := c.http.R().SetContext(ctx).Get(c.baseUrl + "/")
	if err != nil {
		slog.WarnContext(ctx, "session bootstrap failed, continuing without cookies", "err", err)
		return
	}
	slog.DebugContext(
		ctx, "session bootstrap",
		"status", res.StatusCode(),
		"cookies", len(res.Cookies()),
	)
}

// Fetch retrieves the markup at url, retrying transport errors and
// non-success statuses with doubling backoff. A successful response
// with an empty body is valid input for the extraction stage, not a
// retryable failure.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	backoff := c.backoff
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		res, err := c.http.R().SetContext(ctx).Get(url)
		if err == nil && res.IsSuccess() {
			return string(res.Body()), nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("unexpected status %s", res.Status())
		}
		slog.WarnContext(
			ctx, "fetch attempt failed",
			"url", url,
			"attempt", attempt,
			"err", lastErr,
		)

		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return "", fmt.Errorf("%w: %s: %v", ErrAllAttemptsFailed, url, lastErr)
}
