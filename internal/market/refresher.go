package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Paper-Trading-Backend/internal/yahoo"
)

// HistoryRange is the Yahoo range fetched on every refresh. A month of daily
// closes covers the RSI and moving-average windows.
const HistoryRange = "1mo"

// QuoteStore persists the catalog quotes and close history.
type QuoteStore interface {
	ListStocks(ctx context.Context) ([]Stock, error)
	UpdateQuote(ctx context.Context, symbol string, q Quote) error
	UpsertCloses(ctx context.Context, symbol string, closes []Close) error
}

// RefreshResult lists the outcome per symbol.
type RefreshResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed"`
}

// Refresher updates the catalog from Yahoo Finance.
type Refresher struct {
	client      yahoo.Client
	store       QuoteStore
	concurrency int
	log         zerolog.Logger
	now         func() time.Time
}

// NewRefresher creates a Refresher fetching at most concurrency symbols at once.
func NewRefresher(client yahoo.Client, store QuoteStore, concurrency int, log zerolog.Logger) *Refresher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Refresher{
		client:      client,
		store:       store,
		concurrency: concurrency,
		log:         log.With().Str("component", "refresher").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Refresh fetches every catalog stock. A symbol that cannot be fetched or
// stored is logged, reported in Failed and skipped; only a failure to list
// the catalog or a cancelled context is returned as an error.
func (r *Refresher) Refresh(ctx context.Context) (RefreshResult, error) {
	stocks, err := r.store.ListStocks(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list stocks: %w", err)
	}

	var (
		mu     sync.Mutex
		result = RefreshResult{Updated: []string{}, Failed: map[string]string{}}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, stock := range stocks {
		stock := stock
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := r.refreshStock(gctx, stock)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.log.Warn().Err(err).Str("symbol", stock.Symbol).Msg("price refresh failed")
				result.Failed[stock.Symbol] = err.Error()
				return nil
			}
			result.Updated = append(result.Updated, stock.Symbol)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	r.log.Info().
		Int("updated", len(result.Updated)).
		Int("failed", len(result.Failed)).
		Msg("price refresh finished")
	return result, nil
}

func (r *Refresher) refreshStock(ctx context.Context, stock Stock) error {
	symbol := stock.YahooSymbol
	if symbol == "" {
		symbol = stock.Symbol
	}

	raw, err := r.client.QueryChart(ctx, symbol, HistoryRange)
	if err != nil {
		return err
	}
	chart, err := r.client.ParseChart(raw)
	if err != nil {
		return err
	}

	quote, closes, err := QuoteFromChart(chart, r.now())
	if err != nil {
		return err
	}
	if err := r.store.UpsertCloses(ctx, stock.Symbol, closes); err != nil {
		return fmt.Errorf("store closes: %w", err)
	}
	if err := r.store.UpdateQuote(ctx, stock.Symbol, quote); err != nil {
		return fmt.Errorf("store quote: %w", err)
	}
	return nil
}

// QuoteFromChart derives the latest quote and the daily closes of a chart.
//
// The current price is the regular market price, or the last close when Yahoo
// does not report one. The previous close is the close before the last one,
// or the chart's previous close when the chart holds a single day.
func QuoteFromChart(chart yahoo.PriceChart, at time.Time) (Quote, []Close, error) {
	latest, ok := chart.Latest()
	if !ok {
		return Quote{}, nil, fmt.Errorf("no price indicators available")
	}

	closes := make([]Close, len(chart.Indicators))
	for i, ind := range chart.Indicators {
		closes[i] = Close{
			Date:  ind.Date.Truncate(24 * time.Hour),
			Price: priceFromFloat(ind.PriceClose),
		}
	}

	current := latest.PriceClose
	if chart.RegularMarketPrice > 0 {
		current = chart.RegularMarketPrice
	}
	previous := chart.ChartPreviousClose
	if n := len(chart.Indicators); n >= 2 {
		previous = chart.Indicators[n-2].PriceClose
	}

	return Quote{
		CurrentPrice:  priceFromFloat(current),
		PreviousClose: priceFromFloat(previous),
		Volume:        latest.Volume,
		At:            at,
	}, closes, nil
}

func priceFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}
