// Package market holds the stock catalog, the technical indicators and
// trading signals shown by the screener, the per-user watchlist and the
// price refresh against Yahoo Finance.
package market

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Paper-Trading-Backend/internal/ledger"
)

var hundred = decimal.NewFromInt(100)

// Stock is a tradable instrument of the catalog with its latest quote.
type Stock struct {
	ID            string          `json:"id"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	YahooSymbol   string          `json:"yahooSymbol"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	PreviousClose decimal.Decimal `json:"previousClose"`
	Volume        int64           `json:"volume"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Change is the price move since the previous close.
func (s Stock) Change() decimal.Decimal {
	return s.CurrentPrice.Sub(s.PreviousClose)
}

// ChangePercent is Change relative to the previous close, or zero when the
// previous close is unknown.
func (s Stock) ChangePercent() decimal.Decimal {
	if s.PreviousClose.IsZero() {
		return decimal.Zero
	}
	return s.Change().Div(s.PreviousClose).Mul(hundred)
}

// Quote is a price update for one stock.
type Quote struct {
	CurrentPrice  decimal.Decimal
	PreviousClose decimal.Decimal
	Volume        int64
	At            time.Time
}

// Close is one daily close of a stock.
type Close struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// ClosePrices converts closes to float64 for the indicator functions.
func ClosePrices(closes []Close) []float64 {
	out := make([]float64, len(closes))
	for i, c := range closes {
		out[i] = c.Price.InexactFloat64()
	}
	return out
}

// CatalogPriceSource is a ledger.PriceSource over a snapshot of the catalog.
type CatalogPriceSource map[string]decimal.Decimal

var _ ledger.PriceSource = CatalogPriceSource(nil)

// NewCatalogPriceSource indexes the current prices of stocks by symbol.
// Stocks without a positive price are left out.
func NewCatalogPriceSource(stocks []Stock) CatalogPriceSource {
	m := make(CatalogPriceSource, len(stocks))
	for _, s := range stocks {
		if s.CurrentPrice.IsPositive() {
			m[s.Symbol] = s.CurrentPrice
		}
	}
	return m
}

// Price implements ledger.PriceSource.
func (c CatalogPriceSource) Price(symbol string) (decimal.Decimal, bool) {
	p, ok := c[symbol]
	return p, ok
}
