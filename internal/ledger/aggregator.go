package ledger

import (
	"github.com/shopspring/decimal"
)

// CashAllocationName is the name of the synthetic cash entry in an allocation.
const CashAllocationName = "Cash"

var hundred = decimal.NewFromInt(100)

// PriceSource supplies the latest price per symbol. A false second return
// means no price is known for the symbol.
type PriceSource interface {
	Price(symbol string) (decimal.Decimal, bool)
}

// PriceMap is a PriceSource backed by a map of symbol to price.
type PriceMap map[string]decimal.Decimal

// Price implements PriceSource.
func (m PriceMap) Price(symbol string) (decimal.Decimal, bool) {
	p, ok := m[symbol]
	return p, ok
}

// HoldingValuation is a holding valued at a current price.
type HoldingValuation struct {
	Holding
	CurrentPrice      decimal.Decimal `json:"currentPrice"`
	CurrentValue      decimal.Decimal `json:"currentValue"`
	ProfitLoss        decimal.Decimal `json:"profitLoss"`
	ProfitLossPercent decimal.Decimal `json:"profitLossPercent"`
}

// PortfolioSummary aggregates the holdings of a ledger.
//
// ProfitLoss is unrealized; RealizedProfitLoss sums the gains and losses of
// all sells. NetWorth is TotalValue plus CashBalance.
type PortfolioSummary struct {
	TotalValue         decimal.Decimal `json:"totalValue"`
	InvestedAmount     decimal.Decimal `json:"investedAmount"`
	ProfitLoss         decimal.Decimal `json:"profitLoss"`
	ProfitLossPercent  decimal.Decimal `json:"profitLossPercent"`
	CashBalance        decimal.Decimal `json:"cashBalance"`
	RealizedProfitLoss decimal.Decimal `json:"realizedProfitLoss"`
	NetWorth           decimal.Decimal `json:"netWorth"`
}

// AllocationEntry is one slice of the allocation breakdown.
type AllocationEntry struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Valuate values every holding of s. A holding without a known price is
// valued at its average buy price.
func Valuate(s State, prices PriceSource) []HoldingValuation {
	out := make([]HoldingValuation, 0, len(s.Holdings))
	for _, h := range s.Holdings {
		out = append(out, valuate(h, prices))
	}
	return out
}

func valuate(h Holding, prices PriceSource) HoldingValuation {
	price := h.AverageBuyPrice
	if prices != nil {
		if p, ok := prices.Price(h.Symbol); ok && p.IsPositive() {
			price = p
		}
	}
	value := price.Mul(decimal.NewFromInt(h.Quantity))
	pl := value.Sub(h.InvestmentValue)
	return HoldingValuation{
		Holding:           h,
		CurrentPrice:      price,
		CurrentValue:      value,
		ProfitLoss:        pl,
		ProfitLossPercent: percentOf(pl, h.InvestmentValue),
	}
}

// Summarize computes the portfolio summary of s.
func Summarize(s State, prices PriceSource) PortfolioSummary {
	total := decimal.Zero
	invested := decimal.Zero
	for _, h := range s.Holdings {
		v := valuate(h, prices)
		total = total.Add(v.CurrentValue)
		invested = invested.Add(h.InvestmentValue)
	}
	pl := total.Sub(invested)
	return PortfolioSummary{
		TotalValue:         total,
		InvestedAmount:     invested,
		ProfitLoss:         pl,
		ProfitLossPercent:  percentOf(pl, invested),
		CashBalance:        s.CashBalance,
		RealizedProfitLoss: s.RealizedProfitLoss(),
		NetWorth:           total.Add(s.CashBalance),
	}
}

// Allocate returns one entry per holding, in holding order, followed by a
// Cash entry. The values sum to the total holding value plus cash.
func Allocate(s State, prices PriceSource) []AllocationEntry {
	out := make([]AllocationEntry, 0, len(s.Holdings)+1)
	for _, h := range s.Holdings {
		out = append(out, AllocationEntry{Name: h.Symbol, Value: valuate(h, prices).CurrentValue})
	}
	return append(out, AllocationEntry{Name: CashAllocationName, Value: s.CashBalance})
}

// percentOf returns part / whole * 100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
