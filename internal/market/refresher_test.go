package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Paper-Trading-Backend/internal/yahoo"
)

type fakeChartClient struct {
	mu      sync.Mutex
	charts  map[string]yahoo.Response
	queried []string
}

func (f *fakeChartClient) QueryChart(_ context.Context, symbol, _ string) (yahoo.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queried = append(f.queried, symbol)
	resp, ok := f.charts[symbol]
	if !ok {
		return yahoo.Response{}, errors.New("symbol may be delisted")
	}
	return resp, nil
}

func (f *fakeChartClient) ParseChart(resp yahoo.Response) (yahoo.PriceChart, error) {
	return yahoo.NewFinanceClient("", time.Second).ParseChart(resp)
}

type fakeQuoteStore struct {
	mu     sync.Mutex
	stocks []Stock
	quotes map[string]Quote
	closes map[string][]Close
}

func (f *fakeQuoteStore) ListStocks(context.Context) ([]Stock, error) {
	return f.stocks, nil
}

func (f *fakeQuoteStore) UpdateQuote(_ context.Context, symbol string, q Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes[symbol] = q
	return nil
}

func (f *fakeQuoteStore) UpsertCloses(_ context.Context, symbol string, closes []Close) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes[symbol] = closes
	return nil
}

func chartResponse(closes ...float64) yahoo.Response {
	start := time.Date(2025, 5, 12, 3, 45, 0, 0, time.UTC)
	var r yahoo.Result
	q := yahoo.Quote{}
	for i := range closes {
		c := closes[i]
		r.Timestamp = append(r.Timestamp, start.AddDate(0, 0, i).Unix())
		v := int64(1000 * (i + 1))
		q.Open = append(q.Open, &c)
		q.High = append(q.High, &c)
		q.Low = append(q.Low, &c)
		q.Close = append(q.Close, &c)
		q.Volume = append(q.Volume, &v)
	}
	r.Indicators.Quote = []yahoo.Quote{q}
	return yahoo.Response{Chart: yahoo.Chart{Result: []yahoo.Result{r}}}
}

func TestRefresher_Refresh(t *testing.T) {
	client := &fakeChartClient{charts: map[string]yahoo.Response{
		"RELIANCE.NS": chartResponse(2842.24, 2876.45),
		"TCS.NS":      chartResponse(3558.26, 3542.30),
	}}
	store := &fakeQuoteStore{
		stocks: []Stock{
			{Symbol: "RELIANCE", YahooSymbol: "RELIANCE.NS"},
			{Symbol: "TCS", YahooSymbol: "TCS.NS"},
			{Symbol: "GONE", YahooSymbol: "GONE.NS"},
		},
		quotes: map[string]Quote{},
		closes: map[string][]Close{},
	}

	r := NewRefresher(client, store, 2, zerolog.Nop())
	result, err := r.Refresh(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"RELIANCE", "TCS"}, result.Updated)
	assert.Contains(t, result.Failed, "GONE")
	assert.ElementsMatch(t, []string{"RELIANCE.NS", "TCS.NS", "GONE.NS"}, client.queried)

	q := store.quotes["RELIANCE"]
	assert.Equal(t, "2876.45", q.CurrentPrice.String())
	assert.Equal(t, "2842.24", q.PreviousClose.String())
	assert.Equal(t, int64(2000), q.Volume)

	closes := store.closes["TCS"]
	require.Len(t, closes, 2)
	assert.Equal(t, "3542.3", closes[1].Price.String())
	assert.Equal(t, time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC), closes[1].Date)
}

func TestRefresher_CancelledContext(t *testing.T) {
	client := &fakeChartClient{charts: map[string]yahoo.Response{}}
	store := &fakeQuoteStore{
		stocks: []Stock{{Symbol: "TCS", YahooSymbol: "TCS.NS"}},
		quotes: map[string]Quote{},
		closes: map[string][]Close{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRefresher(client, store, 1, zerolog.Nop()).Refresh(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuoteFromChart(t *testing.T) {
	at := time.Date(2025, 5, 15, 10, 0, 0, 0, time.UTC)

	t.Run("prefers regular market price", func(t *testing.T) {
		chart := yahoo.PriceChart{
			RegularMarketPrice: 101.257,
			Indicators:         []yahoo.Indicators{{PriceClose: 99}, {PriceClose: 100, Volume: 7}},
		}
		q, closes, err := QuoteFromChart(chart, at)
		require.NoError(t, err)
		assert.Equal(t, "101.26", q.CurrentPrice.String())
		assert.Equal(t, "99", q.PreviousClose.String())
		assert.Equal(t, int64(7), q.Volume)
		assert.Equal(t, at, q.At)
		assert.Len(t, closes, 2)
	})

	t.Run("single day uses chart previous close", func(t *testing.T) {
		chart := yahoo.PriceChart{
			ChartPreviousClose: 95,
			Indicators:         []yahoo.Indicators{{PriceClose: 100}},
		}
		q, _, err := QuoteFromChart(chart, at)
		require.NoError(t, err)
		assert.Equal(t, "100", q.CurrentPrice.String())
		assert.Equal(t, "95", q.PreviousClose.String())
	})

	t.Run("empty chart", func(t *testing.T) {
		_, _, err := QuoteFromChart(yahoo.PriceChart{}, at)
		assert.Error(t, err)
	})
}
