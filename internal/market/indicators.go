package market

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Indicator periods used by the screener.
const (
	MAPeriod  = 9
	RSIPeriod = 14

	// HistoryWindow is the number of most recent closes the screener feeds to
	// the indicators, so that the RSI reflects the latest price changes.
	HistoryWindow = RSIPeriod + 1
)

// MovingAverage returns the simple moving average of the last period closes.
// It returns nil when there are fewer than period closes.
func MovingAverage(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}
	sma := talib.Sma(closes[len(closes)-period:], period)
	v := sma[len(sma)-1]
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// RSI returns the relative strength index seeded from the first period price
// changes of closes (oldest first):
//
//	RSI = 100 - 100 / (1 + avgGain / avgLoss)
//
// It returns nil when there are fewer than period+1 closes and 100 when none
// of those changes is a loss.
func RSI(closes []float64, period int) *float64 {
	if period < 2 || len(closes) < period+1 {
		return nil
	}
	window := closes[:period+1]

	hasLoss := false
	for i := 1; i < len(window); i++ {
		if window[i] < window[i-1] {
			hasLoss = true
			break
		}
	}
	if !hasLoss {
		v := 100.0
		return &v
	}

	rsi := talib.Rsi(window, period)
	v := rsi[period]
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
