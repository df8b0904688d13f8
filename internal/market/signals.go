package market

// Signal is a trading recommendation.
type Signal string

const (
	SignalBuy     Signal = "buy"
	SignalSell    Signal = "sell"
	SignalHold    Signal = "hold"
	SignalNeutral Signal = "neutral"
)

// Trend is the direction of the price relative to its moving average.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// RSI thresholds.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// Signals is the outcome of GenerateSignals.
type Signals struct {
	MA      Signal `json:"maSignal"`
	RSI     Signal `json:"rsiSignal"`
	Overall Signal `json:"signal"`
}

// ParseSignal parses an overall signal filter value.
func ParseSignal(s string) (Signal, bool) {
	switch Signal(s) {
	case SignalBuy, SignalSell, SignalHold:
		return Signal(s), true
	}
	return "", false
}

// GenerateSignals derives the moving-average, RSI and overall signals for a
// stock. A nil ma9 or rsi leaves the corresponding signal neutral.
//
// The overall signal is buy when the price is above its moving average while
// the RSI is overbought, sell when the price is below its moving average while
// the RSI is overbought, and hold otherwise.
func GenerateSignals(price float64, ma9, rsi *float64) Signals {
	s := Signals{MA: SignalNeutral, RSI: SignalNeutral, Overall: SignalHold}

	if ma9 != nil {
		switch {
		case price > *ma9:
			s.MA = SignalBuy
		case price < *ma9:
			s.MA = SignalSell
		}
	}

	if rsi != nil {
		switch {
		case *rsi > RSIOverbought:
			s.RSI = SignalSell
		case *rsi < RSIOversold:
			s.RSI = SignalBuy
		}
	}

	switch {
	case s.MA == SignalBuy && s.RSI == SignalSell:
		s.Overall = SignalBuy
	case s.MA == SignalSell && s.RSI == SignalSell:
		s.Overall = SignalSell
	}
	return s
}

// TrendOf maps a moving-average signal to the direction shown next to the MA.
func TrendOf(ma Signal) Trend {
	switch ma {
	case SignalBuy:
		return TrendUp
	case SignalSell:
		return TrendDown
	}
	return TrendNeutral
}
