package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ScreenerRow is one stock as shown by the screener.
type ScreenerRow struct {
	Stock
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	NineMA        *float64        `json:"nineMA"`
	NineMAChange  Trend           `json:"nineMAChange"`
	RSI           *float64        `json:"rsi"`
	Signals
}

// BuildRow computes the indicators and signals of stock from its daily
// closes, oldest first.
func BuildRow(stock Stock, closes []float64) ScreenerRow {
	ma := MovingAverage(closes, MAPeriod)
	rsi := RSI(closes, RSIPeriod)
	signals := GenerateSignals(stock.CurrentPrice.InexactFloat64(), ma, rsi)

	return ScreenerRow{
		Stock:         stock,
		Change:        stock.Change(),
		ChangePercent: stock.ChangePercent(),
		NineMA:        ma,
		NineMAChange:  TrendOf(signals.MA),
		RSI:           rsi,
		Signals:       signals,
	}
}

// Filter selects screener rows. Zero values match everything.
type Filter struct {
	// Search matches case-insensitively anywhere in "SYMBOL - Name".
	Search string
	// Signal matches the overall signal.
	Signal Signal
	// Symbols restricts the result to these symbols when non-nil.
	Symbols []string
}

// Matches reports whether row passes f.
func (f Filter) Matches(row ScreenerRow) bool {
	if q := strings.TrimSpace(f.Search); q != "" {
		label := strings.ToLower(row.Symbol + " - " + row.Name)
		if !strings.Contains(label, strings.ToLower(q)) {
			return false
		}
	}
	if f.Signal != "" && row.Overall != f.Signal {
		return false
	}
	if f.Symbols != nil {
		found := false
		for _, s := range f.Symbols {
			if strings.EqualFold(s, row.Symbol) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Screen returns the rows matching f, in input order.
func Screen(rows []ScreenerRow, f Filter) []ScreenerRow {
	out := make([]ScreenerRow, 0, len(rows))
	for _, r := range rows {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
