package ledger

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		l := newTestLedger(t, "100000")

		s := l.Summary(PriceMap{})

		assert.True(t, s.TotalValue.IsZero())
		assert.True(t, s.InvestedAmount.IsZero())
		assert.True(t, s.ProfitLoss.IsZero())
		assert.True(t, s.ProfitLossPercent.IsZero())
		assertDecimal(t, "100000", s.CashBalance)
		assertDecimal(t, "100000", s.NetWorth)
	})

	t.Run("values holdings at current prices", func(t *testing.T) {
		l := newTestLedger(t, "100000")
		_, err := l.Buy("RELIANCE", "Reliance Industries", 10, d("2800"))
		require.NoError(t, err)
		_, err = l.Buy("HDFCBANK", "HDFC Bank", 15, d("1650"))
		require.NoError(t, err)

		prices := PriceMap{"RELIANCE": d("2876.45"), "HDFCBANK": d("1678.90")}
		s := l.Summary(prices)

		assertDecimal(t, "53948", s.TotalValue)
		assertDecimal(t, "52750", s.InvestedAmount)
		assertDecimal(t, "1198", s.ProfitLoss)
		assert.InDelta(t, 1198.0/52750*100, s.ProfitLossPercent.InexactFloat64(), 1e-9)
		assertDecimal(t, "47250", s.CashBalance)
		assertDecimal(t, "101198", s.NetWorth)
	})

	t.Run("falls back to average buy price without a quote", func(t *testing.T) {
		l := newTestLedger(t, "100000")
		_, err := l.Buy("INFY", "Infosys", 4, d("1489.65"))
		require.NoError(t, err)

		s := l.Summary(nil)

		assertDecimal(t, "5958.6", s.TotalValue)
		assert.True(t, s.ProfitLoss.IsZero())
	})

	t.Run("includes realized profit and loss", func(t *testing.T) {
		l := newTestLedger(t, "100000")
		_, err := l.Buy("INFY", "Infosys", 10, d("1500"))
		require.NoError(t, err)
		h, _ := l.HoldingBySymbol("INFY")
		_, err = l.Sell(h.ID, 4, d("1600"))
		require.NoError(t, err)

		s := l.Summary(PriceMap{"INFY": d("1500")})

		assertDecimal(t, "400", s.RealizedProfitLoss)
		assert.True(t, s.ProfitLoss.IsZero())
	})

	t.Run("reads are idempotent", func(t *testing.T) {
		l := newTestLedger(t, "100000")
		_, err := l.Buy("TCS", "Tata Consultancy Services", 7, d("3542.30"))
		require.NoError(t, err)
		prices := PriceMap{"TCS": d("3558.26")}

		assert.Equal(t, l.Summary(prices), l.Summary(prices))
		assert.Equal(t, l.Allocation(prices), l.Allocation(prices))
	})
}

func TestValuate(t *testing.T) {
	l := newTestLedger(t, "100000")
	_, err := l.Buy("HINDUNILVR", "Hindustan Unilever", 8, d("2472.75"))
	require.NoError(t, err)

	v := l.Valuations(PriceMap{"HINDUNILVR": d("2456.75")})

	require.Len(t, v, 1)
	assertDecimal(t, "2456.75", v[0].CurrentPrice)
	assertDecimal(t, "19654", v[0].CurrentValue)
	assertDecimal(t, "19782", v[0].InvestmentValue)
	assertDecimal(t, "-128", v[0].ProfitLoss)
	assert.InDelta(t, -128.0/19782*100, v[0].ProfitLossPercent.InexactFloat64(), 1e-9)
}

func TestAllocate(t *testing.T) {
	l := newTestLedger(t, "100000")
	_, err := l.Buy("RELIANCE", "Reliance Industries", 10, d("2800"))
	require.NoError(t, err)
	_, err = l.Buy("HDFCBANK", "HDFC Bank", 15, d("1650"))
	require.NoError(t, err)
	prices := PriceMap{"RELIANCE": d("2876.45"), "HDFCBANK": d("1678.90")}

	entries := l.Allocation(prices)

	require.Len(t, entries, 3)
	assert.Equal(t, "RELIANCE", entries[0].Name)
	assert.Equal(t, "HDFCBANK", entries[1].Name)
	assert.Equal(t, CashAllocationName, entries[2].Name)
	assertDecimal(t, "28764.5", entries[0].Value)
	assertDecimal(t, "47250", entries[2].Value)

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Value)
	}
	s := l.Summary(prices)
	assert.True(t, sum.Equal(s.TotalValue.Add(s.CashBalance)))
}

func TestAllocate_CashOnly(t *testing.T) {
	l := newTestLedger(t, "50000")

	entries := l.Allocation(PriceMap{})

	require.Len(t, entries, 1)
	assert.Equal(t, CashAllocationName, entries[0].Name)
	assertDecimal(t, "50000", entries[0].Value)
}

// TestLedger_ConcurrentReads checks that readers never observe a trade that is
// only partially applied.
func TestLedger_ConcurrentReads(t *testing.T) {
	l := newTestLedger(t, "100000")
	price := d("100")
	prices := PriceMap{"TCS": price}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s := l.Summary(prices)
				if !s.CashBalance.Add(s.InvestedAmount).Equal(d("100000")) {
					t.Errorf("torn read: cash %s invested %s", s.CashBalance, s.InvestedAmount)
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		_, err := l.Buy("TCS", "Tata Consultancy Services", 5, price)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}
