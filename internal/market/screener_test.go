package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stock(symbol, name, current, previous string) Stock {
	return Stock{
		ID:            symbol,
		Symbol:        symbol,
		Name:          name,
		CurrentPrice:  decimal.RequireFromString(current),
		PreviousClose: decimal.RequireFromString(previous),
	}
}

func TestStock_Change(t *testing.T) {
	s := stock("RELIANCE", "Reliance Industries", "2876.45", "2842.24")
	assert.Equal(t, "34.21", s.Change().String())
	assert.InDelta(t, 1.2036, s.ChangePercent().InexactFloat64(), 1e-4)

	zero := stock("NEW", "New Listing", "10", "0")
	assert.True(t, zero.ChangePercent().IsZero())
}

func TestBuildRow(t *testing.T) {
	closes := []float64{100}
	for i := 0; i < 7; i++ {
		last := closes[len(closes)-1]
		closes = append(closes, last+2, last+1)
	}
	s := stock("TCS", "Tata Consultancy Services", "200", "107")

	row := BuildRow(s, closes)

	require.NotNil(t, row.NineMA)
	require.NotNil(t, row.RSI)
	assert.Equal(t, SignalBuy, row.MA)
	assert.Equal(t, TrendUp, row.NineMAChange)
	assert.Equal(t, SignalNeutral, row.Signals.RSI)
	assert.Equal(t, SignalHold, row.Overall)
	assert.Equal(t, "93", row.Change.String())

	t.Run("no history", func(t *testing.T) {
		row := BuildRow(s, nil)
		assert.Nil(t, row.NineMA)
		assert.Nil(t, row.RSI)
		assert.Equal(t, SignalHold, row.Overall)
		assert.Equal(t, TrendNeutral, row.NineMAChange)
	})
}

func TestScreen(t *testing.T) {
	rows := []ScreenerRow{
		{Stock: stock("RELIANCE", "Reliance Industries", "1", "1"), Signals: Signals{Overall: SignalBuy}},
		{Stock: stock("TCS", "Tata Consultancy Services", "1", "1"), Signals: Signals{Overall: SignalSell}},
		{Stock: stock("HDFCBANK", "HDFC Bank", "1", "1"), Signals: Signals{Overall: SignalBuy}},
		{Stock: stock("ICICIBANK", "ICICI Bank", "1", "1"), Signals: Signals{Overall: SignalHold}},
	}

	symbols := func(rs []ScreenerRow) []string {
		out := []string{}
		for _, r := range rs {
			out = append(out, r.Symbol)
		}
		return out
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"RELIANCE", "TCS", "HDFCBANK", "ICICIBANK"}},
		{"search by name", Filter{Search: "bank"}, []string{"HDFCBANK", "ICICIBANK"}},
		{"search across separator", Filter{Search: "tcs - tata"}, []string{"TCS"}},
		{"search by symbol", Filter{Search: " reli "}, []string{"RELIANCE"}},
		{"signal", Filter{Signal: SignalBuy}, []string{"RELIANCE", "HDFCBANK"}},
		{"search and signal", Filter{Search: "bank", Signal: SignalBuy}, []string{"HDFCBANK"}},
		{"symbols", Filter{Symbols: []string{"tcs", "ICICIBANK"}}, []string{"TCS", "ICICIBANK"}},
		{"empty symbols matches nothing", Filter{Symbols: []string{}}, []string{}},
		{"no match", Filter{Search: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, symbols(Screen(rows, tt.filter)))
		})
	}
}

func TestCatalogPriceSource(t *testing.T) {
	ps := NewCatalogPriceSource([]Stock{
		stock("TCS", "Tata Consultancy Services", "3542.30", "3558.26"),
		stock("NEW", "Unpriced", "0", "0"),
	})

	p, ok := ps.Price("TCS")
	require.True(t, ok)
	assert.True(t, p.Equal(decimal.RequireFromString("3542.30")))

	_, ok = ps.Price("NEW")
	assert.False(t, ok)
}
