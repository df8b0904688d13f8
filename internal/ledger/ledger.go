package ledger

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
)

// Ledger is the aggregate root holding one user's cash, holdings and
// transaction log.
//
// A Ledger has a single writer (the user session that owns it). Reads may run
// concurrently with a trade and always observe either the state before or the
// state after it.
type Ledger struct {
	mu    sync.RWMutex
	state State
	now   func() time.Time
	newID func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the clock used to timestamp transactions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator sets the generator used for holding and transaction ids.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// New creates a Ledger funded with initialCash and no holdings.
func New(initialCash decimal.Decimal, opts ...Option) (*Ledger, error) {
	if initialCash.IsNegative() {
		return nil, fmt.Errorf("initial cash %s: %w", initialCash, apperrors.ErrNegativeAmount)
	}
	return newLedger(NewState(initialCash), opts), nil
}

// FromState creates a Ledger from a previously saved State.
// The state is validated so that a corrupted store cannot produce a ledger
// that violates its invariants.
func FromState(s State, opts ...Option) (*Ledger, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	return newLedger(s.Clone(), opts), nil
}

func newLedger(s State, opts []Option) *Ledger {
	l := &Ledger{
		state: s,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Validate checks the structural invariants of a state: non-negative cash,
// positive holding quantities and cost basis, and unique holding symbols and ids.
func Validate(s State) error {
	if s.CashBalance.IsNegative() {
		return fmt.Errorf("cash balance %s: %w", s.CashBalance, apperrors.ErrDataInconsistency)
	}
	symbols := make(map[string]bool, len(s.Holdings))
	ids := make(map[string]bool, len(s.Holdings))
	for _, h := range s.Holdings {
		if h.Quantity <= 0 {
			return fmt.Errorf("holding %s has quantity %d: %w", h.Symbol, h.Quantity, apperrors.ErrDataInconsistency)
		}
		if !h.InvestmentValue.IsPositive() {
			return fmt.Errorf("holding %s has investment %s: %w", h.Symbol, h.InvestmentValue, apperrors.ErrDataInconsistency)
		}
		if symbols[h.Symbol] {
			return fmt.Errorf("duplicate holding for %s: %w", h.Symbol, apperrors.ErrDataInconsistency)
		}
		if ids[h.ID] {
			return fmt.Errorf("duplicate holding id %s: %w", h.ID, apperrors.ErrDataInconsistency)
		}
		symbols[h.Symbol] = true
		ids[h.ID] = true
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (l *Ledger) Snapshot() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.Clone()
}

// Restore replaces the ledger content with s. It is used to roll back an
// in-memory trade whose persistence failed.
func (l *Ledger) Restore(s State) error {
	if err := Validate(s); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = s.Clone()
	return nil
}

// CashBalance returns the available cash.
func (l *Ledger) CashBalance() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.CashBalance
}

// Holdings returns the open holdings in the order they were first bought.
func (l *Ledger) Holdings() []Holding {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneSlice(l.state.Holdings)
}

// Holding returns the holding with the given id.
func (l *Ledger) Holding(id string) (Holding, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.indexByID(id)
	if i < 0 {
		return Holding{}, false
	}
	return l.state.Holdings[i], true
}

// HoldingBySymbol returns the holding for symbol. The lookup is case-insensitive.
func (l *Ledger) HoldingBySymbol(symbol string) (Holding, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.indexBySymbol(NormalizeSymbol(symbol))
	if i < 0 {
		return Holding{}, false
	}
	return l.state.Holdings[i], true
}

// Transactions returns the transaction log, oldest first.
func (l *Ledger) Transactions() []Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneSlice(l.state.Transactions)
}

// RealizedGains returns one record per executed sell, oldest first.
func (l *Ledger) RealizedGains() []RealizedGain {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneSlice(l.state.RealizedGains)
}

// Summary computes the portfolio summary against the given prices.
func (l *Ledger) Summary(prices PriceSource) PortfolioSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Summarize(l.state, prices)
}

// Allocation computes the allocation breakdown against the given prices.
func (l *Ledger) Allocation(prices PriceSource) []AllocationEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Allocate(l.state, prices)
}

// Valuations values every holding against the given prices.
func (l *Ledger) Valuations(prices PriceSource) []HoldingValuation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Valuate(l.state, prices)
}

// indexByID and indexBySymbol must be called with l.mu held.
func (l *Ledger) indexByID(id string) int {
	for i, h := range l.state.Holdings {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) indexBySymbol(symbol string) int {
	for i, h := range l.state.Holdings {
		if h.Symbol == symbol {
			return i
		}
	}
	return -1
}

// NormalizeSymbol upper-cases and trims a stock symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
