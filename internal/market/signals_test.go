package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestGenerateSignals(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		ma      *float64
		rsi     *float64
		want    Signals
		wantDir Trend
	}{
		{"no indicators", 100, nil, nil, Signals{SignalNeutral, SignalNeutral, SignalHold}, TrendNeutral},
		{"above ma, overbought", 110, ptr(100), ptr(75), Signals{SignalBuy, SignalSell, SignalBuy}, TrendUp},
		{"below ma, overbought", 90, ptr(100), ptr(75), Signals{SignalSell, SignalSell, SignalSell}, TrendDown},
		{"above ma, oversold", 110, ptr(100), ptr(25), Signals{SignalBuy, SignalBuy, SignalHold}, TrendUp},
		{"below ma, neutral rsi", 90, ptr(100), ptr(50), Signals{SignalSell, SignalNeutral, SignalHold}, TrendDown},
		{"at ma", 100, ptr(100), ptr(50), Signals{SignalNeutral, SignalNeutral, SignalHold}, TrendNeutral},
		{"rsi on threshold", 110, ptr(100), ptr(70), Signals{SignalBuy, SignalNeutral, SignalHold}, TrendUp},
		{"rsi only", 100, nil, ptr(20), Signals{SignalNeutral, SignalBuy, SignalHold}, TrendNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSignals(tt.price, tt.ma, tt.rsi)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantDir, TrendOf(got.MA))
		})
	}
}

func TestParseSignal(t *testing.T) {
	for _, s := range []string{"buy", "sell", "hold"} {
		got, ok := ParseSignal(s)
		assert.True(t, ok, s)
		assert.Equal(t, Signal(s), got)
	}
	_, ok := ParseSignal("neutral")
	assert.False(t, ok)
	_, ok = ParseSignal("BUY")
	assert.False(t, ok)
}
