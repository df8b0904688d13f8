package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata (name, currency, exchange, market price)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Price data arrays (open, close, high, low, volume)
//   - Chart.Error: Optional error returned by Yahoo
//
// Quote values are pointers because Yahoo reports null for sessions without trades.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart wraps the results of a chart query.
type Chart struct {
	Result []Result   `json:"result"`
	Error  *ChartError `json:"error"`
}

// ChartError is the error object Yahoo returns in place of results.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *ChartError) Error() string {
	return e.Code + ": " + e.Description
}

// Result is the chart of one symbol.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta is the symbol metadata of a chart.
type Meta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	FullExchangeName   string  `json:"fullExchangeName"`
	LongName           string  `json:"longName"`
	Shortname          string  `json:"shortName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
}

// IndicatorsContainer holds the quote series of a chart.
type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

// Quote holds parallel OHLCV arrays aligned with Result.Timestamp.
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PriceChart is the parsed form of a Response.
//
// Indicators only contains trading days that have a close price, ordered
// oldest first.
type PriceChart struct {
	Currency           string       `json:"currency"`
	Symbol             string       `json:"symbol"`
	ExchangeName       string       `json:"exchangeName"`
	FullExchangeName   string       `json:"fullExchangeName"`
	LongName           string       `json:"longName"`
	Shortname          string       `json:"shortName"`
	RegularMarketPrice float64      `json:"regularMarketPrice"`
	ChartPreviousClose float64      `json:"chartPreviousClose"`
	Indicators         []Indicators `json:"indicators"`
}

// Indicators represents a single day's price data for a stock.
//
// Fields:
//   - Date: Trading date (UTC)
//   - PriceOpen: Opening price for the day
//   - PriceClose: Closing price for the day
//   - PriceHigh: Highest price during the day
//   - PriceLow: Lowest price during the day
//   - Volume: Number of shares traded during the day
type Indicators struct {
	Date       time.Time
	PriceOpen  float64
	PriceClose float64
	Volume     int64
	PriceHigh  float64
	PriceLow   float64
}

// Closes returns the close prices of the chart, oldest first.
func (c PriceChart) Closes() []float64 {
	out := make([]float64, len(c.Indicators))
	for i, ind := range c.Indicators {
		out[i] = ind.PriceClose
	}
	return out
}

// Latest returns the most recent trading day.
func (c PriceChart) Latest() (Indicators, bool) {
	if len(c.Indicators) == 0 {
		return Indicators{}, false
	}
	return c.Indicators[len(c.Indicators)-1], true
}
