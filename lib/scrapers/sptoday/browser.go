package sptoday

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

type BrowserOptions struct {
	// extra delay after the page reports ready, lets client-side
	// rendering finish before the markup is read back. defaults to 2s
	SettleDelay time.Duration
	// per-page navigation timeout, defaults to 60s
	Timeout time.Duration
}

// Browser fetches pages through a shared headless chrome process so
// JavaScript-rendered markup can be scraped. One instance is shared
// sequentially across the categories of a run and must be closed
// exactly once, on every exit path.
type Browser struct {
	ctx     context.Context
	cancels []context.CancelFunc
	opts    BrowserOptions
}

// NewBrowser launches the browser process eagerly so an acquisition
// failure surfaces here, where it is fatal for the run, rather than on
// the first page visit.
func NewBrowser(ctx context.Context, opts BrowserOptions) (*Browser, error) {
	if opts.SettleDelay == 0 {
		opts.SettleDelay = time.Second * 2
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 60
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(defaultUserAgent),
	)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch headless browser: %w", err)
	}

	return &Browser{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
		opts:    opts,
	}, nil
}

func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.opts.Timeout)
	defer cancelTimeout()

	// propagate caller cancellation into the tab
	go func() {
		select {
		case <-ctx.Done():
			cancelTimeout()
		case <-tabCtx.Done():
		}
	}()

	started := time.Now()
	var markup string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.opts.SettleDelay),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("rendered fetch of %s: %w", url, err)
	}

	slog.DebugContext(
		ctx, "rendered page fetched",
		"url", url,
		"bytes", len(markup),
		"seconds", time.Since(started).Seconds(),
	)
	return markup, nil
}

// Close tears down the browser process. Safe to call once only.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}
