package ledger

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// PerformanceSample is the total portfolio value (holdings plus cash) at a point in time.
type PerformanceSample struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// PerformanceStats summarizes a performance series. Values are float64 because
// they are meant for display only.
type PerformanceStats struct {
	Samples            int     `json:"samples"`
	First              float64 `json:"first"`
	Last               float64 `json:"last"`
	Change             float64 `json:"change"`
	ChangePercent      float64 `json:"changePercent"`
	MaxDrawdownPercent float64 `json:"maxDrawdownPercent"`
	Volatility         float64 `json:"volatility"`
}

// PerformanceSeries is an append-only series of samples with strictly
// increasing timestamps. It is safe for concurrent use.
type PerformanceSeries struct {
	mu      sync.RWMutex
	samples []PerformanceSample
}

// NewPerformanceSeries creates a series from existing samples. Samples that are
// not strictly later than their predecessor are dropped.
func NewPerformanceSeries(samples ...PerformanceSample) *PerformanceSeries {
	p := &PerformanceSeries{samples: make([]PerformanceSample, 0, len(samples))}
	for _, s := range samples {
		p.Record(s.Timestamp, s.Value)
	}
	return p
}

// Record appends a sample and reports whether it was accepted. A sample whose
// timestamp is not after the last recorded one is ignored.
func (p *PerformanceSeries) Record(at time.Time, value decimal.Decimal) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.samples); n > 0 && !at.After(p.samples[n-1].Timestamp) {
		return false
	}
	p.samples = append(p.samples, PerformanceSample{Timestamp: at, Value: value})
	return true
}

// Clear removes every sample.
func (p *PerformanceSeries) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples = p.samples[:0:0]
}

// Samples returns all samples, oldest first.
func (p *PerformanceSeries) Samples() []PerformanceSample {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneSlice(p.samples)
}

// Since returns the samples taken at or after t.
func (p *PerformanceSeries) Since(t time.Time) []PerformanceSample {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i, s := range p.samples {
		if !s.Timestamp.Before(t) {
			return cloneSlice(p.samples[i:])
		}
	}
	return []PerformanceSample{}
}

// Last returns the most recent sample.
func (p *PerformanceSeries) Last() (PerformanceSample, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.samples) == 0 {
		return PerformanceSample{}, false
	}
	return p.samples[len(p.samples)-1], true
}

// Stats computes summary statistics over the whole series.
func (p *PerformanceSeries) Stats() PerformanceStats {
	return ComputeStats(p.Samples())
}

// ComputeStats computes summary statistics over samples.
//
// Volatility is the sample standard deviation of the sample-to-sample returns
// in percent; it needs at least three samples and is zero otherwise.
func ComputeStats(samples []PerformanceSample) PerformanceStats {
	stats := PerformanceStats{Samples: len(samples)}
	if len(samples) == 0 {
		return stats
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value.InexactFloat64()
	}

	stats.First = values[0]
	stats.Last = values[len(values)-1]
	stats.Change = stats.Last - stats.First
	if stats.First != 0 {
		stats.ChangePercent = stats.Change / stats.First * 100
	}

	peak := values[0]
	returns := make([]float64, 0, len(values)-1)
	for i, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak * 100; dd > stats.MaxDrawdownPercent {
				stats.MaxDrawdownPercent = dd
			}
		}
		if i > 0 && values[i-1] != 0 {
			returns = append(returns, (v-values[i-1])/values[i-1]*100)
		}
	}

	if len(returns) >= 2 {
		stats.Volatility = stat.StdDev(returns, nil)
	}
	return stats
}
