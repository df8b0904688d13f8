package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether s is buy or sell.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Holding is the position held in one symbol.
//
// InvestmentValue is the cost basis of the shares currently held and is the
// canonical amount; AverageBuyPrice is recomputed from it on every buy and left
// untouched on sells.
type Holding struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Quantity        int64           `json:"quantity"`
	AverageBuyPrice decimal.Decimal `json:"averageBuyPrice"`
	InvestmentValue decimal.Decimal `json:"investmentValue"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Transaction is an executed trade. Transactions are never modified once appended.
type Transaction struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Side       Side            `json:"side"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// RealizedGain records the outcome of one sell: the cost basis it removed from
// the holding and what it was sold for.
type RealizedGain struct {
	TransactionID string          `json:"transactionId"`
	Timestamp     time.Time       `json:"timestamp"`
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	CostBasis     decimal.Decimal `json:"costBasis"`
	Proceeds      decimal.Decimal `json:"proceeds"`
	GainLoss      decimal.Decimal `json:"gainLoss"`
}

// State is the serializable content of a Ledger.
type State struct {
	InitialCashBalance decimal.Decimal `json:"initialCashBalance"`
	CashBalance        decimal.Decimal `json:"cashBalance"`
	Holdings           []Holding       `json:"holdings"`
	Transactions       []Transaction   `json:"transactions"`
	RealizedGains      []RealizedGain  `json:"realizedGains"`
}

// NewState returns an empty state funded with cash.
func NewState(cash decimal.Decimal) State {
	return State{
		InitialCashBalance: cash,
		CashBalance:        cash,
		Holdings:           []Holding{},
		Transactions:       []Transaction{},
		RealizedGains:      []RealizedGain{},
	}
}

// Clone returns a copy of s that shares no slices with it.
func (s State) Clone() State {
	c := s
	c.Holdings = cloneSlice(s.Holdings)
	c.Transactions = cloneSlice(s.Transactions)
	c.RealizedGains = cloneSlice(s.RealizedGains)
	return c
}

// TotalInvestment is the sum of the cost basis of all holdings.
func (s State) TotalInvestment() decimal.Decimal {
	total := decimal.Zero
	for _, h := range s.Holdings {
		total = total.Add(h.InvestmentValue)
	}
	return total
}

// RealizedProfitLoss is the sum of all realized gains and losses.
func (s State) RealizedProfitLoss() decimal.Decimal {
	total := decimal.Zero
	for _, g := range s.RealizedGains {
		total = total.Add(g.GainLoss)
	}
	return total
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}
