package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sptoday-backend/lib/scrapers/sptoday"
	"sptoday-backend/services/market/db"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/market")

type Category string

const (
	CategoryCurrencies Category = "currencies"
	CategoryGold       Category = "gold"
	CategoryCrypto     Category = "crypto"
)

type CurrencyDocument struct {
	LastUpdate int64                  `json:"lastUpdate"`
	Source     string                 `json:"source"`
	FetchedAt  string                 `json:"fetched_at,omitempty"`
	Rates      []sptoday.CurrencyRate `json:"rates"`
}

type GoldDocument struct {
	LastUpdate int64               `json:"lastUpdate"`
	Source     string              `json:"source"`
	FetchedAt  string              `json:"fetched_at,omitempty"`
	Prices     []sptoday.GoldPrice `json:"prices"`
}

type CryptoDocument struct {
	LastUpdate int64                 `json:"lastUpdate"`
	Source     string                `json:"source"`
	FetchedAt  string                `json:"fetched_at,omitempty"`
	Prices     []sptoday.CryptoPrice `json:"prices"`
}

// CryptoApi is the JSON price API used instead of markup scraping for
// the crypto category when enabled.
type CryptoApi interface {
	FetchPrices(ctx context.Context, ids []string, usdSypRate float64) ([]sptoday.CryptoPrice, error)
}

type Options struct {
	Fetcher sptoday.Fetcher
	Store   *Store
	// optional snapshot history, nil disables it
	History *db.Queries
	BaseUrl string
	// fallback USD/SYP conversion for crypto records missing a SYP
	// column, zero leaves price_syp null
	UsdSypRate float64
	// optional, non-nil switches the crypto category to the API
	CryptoApi CryptoApi
	CryptoIds []string
}

type Service struct {
	fetcher    sptoday.Fetcher
	store      *Store
	history    *db.Queries
	baseUrl    string
	usdSypRate float64
	cryptoApi  CryptoApi
	cryptoIds  []string
}

func NewService(opts Options) Service {
	return Service{
		fetcher:    opts.Fetcher,
		store:      opts.Store,
		history:    opts.History,
		baseUrl:    opts.BaseUrl,
		usdSypRate: opts.UsdSypRate,
		cryptoApi:  opts.CryptoApi,
		cryptoIds:  opts.CryptoIds,
	}
}

// FetchAll runs one fetch cycle. The three categories run concurrently
// and are caught independently, a failing category keeps its previous
// on-disk data and never aborts the other two. The joined error is
// informational, callers log it rather than exiting on it.
func (s Service) FetchAll(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "FetchAll")
	defer span.End()

	runId, err := random.String(8)
	if err != nil {
		runId = fmt.Sprintf("%d", time.Now().UnixNano())
	}
	span.SetAttributes(attribute.String("run_id", runId))
	slog.InfoContext(ctx, "starting fetch cycle", "run_id", runId)

	jobs := []struct {
		category Category
		run      func(context.Context, string) error
	}{
		{CategoryCurrencies, s.fetchCurrencies},
		{CategoryGold, s.fetchGold},
		{CategoryCrypto, s.fetchCrypto},
	}

	var errList []error
	errLock := sync.Mutex{}
	wg := sync.WaitGroup{}

	for _, job := range jobs {
		job := job
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := job.run(ctx, runId)
			if err != nil {
				slog.ErrorContext(
					ctx, "category fetch failed, keeping existing data",
					"category", job.category,
					"err", err,
				)
				errLock.Lock()
				errList = append(errList, fmt.Errorf("%s: %w", job.category, err))
				errLock.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(errList) > 0 {
		err := errors.Join(errList...)
		span.RecordError(err)
		span.SetStatus(codes.Error, "some categories failed")
		return err
	}
	return nil
}

func (s Service) fetchCurrencies(ctx context.Context, runId string) error {
	ctx, span := tracer.Start(ctx, "fetchCurrencies")
	defer span.End()

	source := s.baseUrl + "/currencies"
	markup, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return err
	}

	rates := sptoday.ExtractCurrencies(ctx, markup)
	span.SetAttributes(attribute.Int("records", len(rates)))

	now := time.Now()
	err = s.store.WriteCurrencies(CurrencyDocument{
		LastUpdate: now.UnixMilli(),
		Source:     source,
		FetchedAt:  now.UTC().Format(time.RFC3339),
		Rates:      rates,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return err
	}

	s.record(ctx, runId, CategoryCurrencies, now, func(insert func(db.CreateSnapshotParams)) {
		for _, r := range rates {
			insert(db.CreateSnapshotParams{
				Name: r.Name,
				Code: r.Code,
				Buy:  nullFloat(r.Buy),
				Sell: nullFloat(r.Sell),
			})
		}
	})

	slog.InfoContext(ctx, "currencies updated", "run_id", runId, "records", len(rates))
	return nil
}

func (s Service) fetchGold(ctx context.Context, runId string) error {
	ctx, span := tracer.Start(ctx, "fetchGold")
	defer span.End()

	source := s.baseUrl + "/gold"
	markup, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return err
	}

	prices := sptoday.ExtractGold(ctx, markup)
	span.SetAttributes(attribute.Int("records", len(prices)))

	now := time.Now()
	err = s.store.WriteGold(GoldDocument{
		LastUpdate: now.UnixMilli(),
		Source:     source,
		FetchedAt:  now.UTC().Format(time.RFC3339),
		Prices:     prices,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return err
	}

	s.record(ctx, runId, CategoryGold, now, func(insert func(db.CreateSnapshotParams)) {
		for _, p := range prices {
			insert(db.CreateSnapshotParams{
				Name:  p.Name,
				Buy:   nullFloat(p.Buy),
				Sell:  nullFloat(p.Sell),
				Price: nullFloat(p.Price),
			})
		}
	})

	slog.InfoContext(ctx, "gold prices updated", "run_id", runId, "records", len(prices))
	return nil
}

func (s Service) fetchCrypto(ctx context.Context, runId string) error {
	ctx, span := tracer.Start(ctx, "fetchCrypto")
	defer span.End()

	var prices []sptoday.CryptoPrice
	var source string
	if s.cryptoApi != nil {
		source = "coingecko"
		var err error
		prices, err = s.cryptoApi.FetchPrices(ctx, s.cryptoIds, s.usdSypRate)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "api fetch failed")
			return err
		}
	} else {
		source = s.baseUrl + "/crypto"
		markup, err := s.fetcher.Fetch(ctx, source)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
			return err
		}
		prices = sptoday.ExtractCrypto(ctx, markup, s.usdSypRate)
	}
	span.SetAttributes(attribute.Int("records", len(prices)))

	now := time.Now()
	err := s.store.WriteCrypto(CryptoDocument{
		LastUpdate: now.UnixMilli(),
		Source:     source,
		FetchedAt:  now.UTC().Format(time.RFC3339),
		Prices:     prices,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return err
	}

	s.record(ctx, runId, CategoryCrypto, now, func(insert func(db.CreateSnapshotParams)) {
		for _, p := range prices {
			params := db.CreateSnapshotParams{
				Name:  p.Name,
				Code:  p.Symbol,
				Price: nullFloat(p.Price),
			}
			if p.PriceSYP != nil {
				params.Sell = nullFloat(*p.PriceSYP)
			}
			insert(params)
		}
	})

	slog.InfoContext(ctx, "crypto prices updated", "run_id", runId, "records", len(prices))
	return nil
}

// record appends the run's records to the snapshot history. History is
// best-effort, a failing insert is logged but never fails the cycle.
func (s Service) record(ctx context.Context, runId string, category Category, at time.Time, fill func(insert func(db.CreateSnapshotParams))) {
	if s.history == nil {
		return
	}

	var insertErr error
	fill(func(params db.CreateSnapshotParams) {
		params.RunId = runId
		params.Category = string(category)
		params.Time = at.Unix()
		if err := s.history.CreateSnapshot(ctx, params); err != nil {
			insertErr = err
		}
	})
	if insertErr != nil {
		slog.WarnContext(
			ctx, "failed to append snapshot history",
			"category", category,
			"err", insertErr,
		)
	}
}

func nullFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
