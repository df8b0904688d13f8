package ledger

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
)

const (
	// MaxTradeQuantity bounds the number of shares in a single trade.
	MaxTradeQuantity = 1_000_000_000

	// PriceScale is the number of decimal places a trade price may carry.
	PriceScale = 8
)

// Buy purchases quantity shares of symbol at price.
//
// The cost (quantity * price) is taken from the cash balance and added to the
// holding's cost basis; the average buy price becomes the new cost basis
// divided by the new quantity. A holding is created on the first buy of a
// symbol, with the trade price as its average.
//
// Returns ErrInvalidSymbol, ErrInvalidQuantity or ErrInvalidPrice for bad
// input, ErrInvalidQuantity when the holding quantity would overflow, and
// ErrInsufficientFunds when the cost exceeds the cash balance. On
// error the ledger is not modified.
func (l *Ledger) Buy(symbol, name string, quantity int64, price decimal.Decimal) (Transaction, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return Transaction{}, apperrors.ErrInvalidSymbol
	}
	if err := validateTrade(quantity, price); err != nil {
		return Transaction{}, err
	}
	cost := price.Mul(decimal.NewFromInt(quantity))

	l.mu.Lock()
	defer l.mu.Unlock()

	if cost.GreaterThan(l.state.CashBalance) {
		return Transaction{}, fmt.Errorf("buy %d %s at %s costs %s, cash balance is %s: %w",
			quantity, symbol, price, cost, l.state.CashBalance, apperrors.ErrInsufficientFunds)
	}

	now := l.now()
	i := l.indexBySymbol(symbol)

	var holding Holding
	if i >= 0 {
		holding = l.state.Holdings[i]
		if holding.Quantity > math.MaxInt64-quantity {
			return Transaction{}, fmt.Errorf("buy %d %s on top of %d held: %w",
				quantity, symbol, holding.Quantity, apperrors.ErrInvalidQuantity)
		}
		holding.Quantity += quantity
		holding.InvestmentValue = holding.InvestmentValue.Add(cost)
		holding.AverageBuyPrice = holding.InvestmentValue.Div(decimal.NewFromInt(holding.Quantity))
		holding.UpdatedAt = now
	} else {
		holding = Holding{
			ID:              l.newID(),
			Symbol:          symbol,
			Name:            strings.TrimSpace(name),
			Quantity:        quantity,
			AverageBuyPrice: price,
			InvestmentValue: cost,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}

	tx := Transaction{
		ID:         l.newID(),
		Timestamp:  now,
		Symbol:     symbol,
		Name:       holding.Name,
		Side:       SideBuy,
		Quantity:   quantity,
		Price:      price,
		TotalValue: cost,
	}

	// Nothing below can fail.
	if i >= 0 {
		l.state.Holdings[i] = holding
	} else {
		l.state.Holdings = append(l.state.Holdings, holding)
	}
	l.state.Transactions = append(l.state.Transactions, tx)
	l.state.CashBalance = l.state.CashBalance.Sub(cost)

	return tx, nil
}

// Sell sells quantity shares of the holding identified by holdingID at price.
//
// Selling every held share removes the holding. A partial sell keeps the
// average buy price and scales the cost basis to the remaining shares:
// remaining = investment * (held - quantity) / held. The proceeds are added to
// the cash balance and the removed cost basis is recorded as a RealizedGain.
//
// Returns ErrInvalidQuantity or ErrInvalidPrice for bad input,
// ErrHoldingNotFound when no holding has that id and ErrInsufficientShares
// when quantity exceeds the held quantity. On error the ledger is not modified.
func (l *Ledger) Sell(holdingID string, quantity int64, price decimal.Decimal) (Transaction, error) {
	if err := validateTrade(quantity, price); err != nil {
		return Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexByID(holdingID)
	if i < 0 {
		return Transaction{}, fmt.Errorf("holding %s: %w", holdingID, apperrors.ErrHoldingNotFound)
	}
	return l.sellAt(i, quantity, price)
}

// SellSymbol sells quantity shares of symbol at price. It behaves like Sell
// with the holding resolved by symbol.
func (l *Ledger) SellSymbol(symbol string, quantity int64, price decimal.Decimal) (Transaction, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return Transaction{}, apperrors.ErrInvalidSymbol
	}
	if err := validateTrade(quantity, price); err != nil {
		return Transaction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexBySymbol(symbol)
	if i < 0 {
		return Transaction{}, fmt.Errorf("no holding for %s: %w", symbol, apperrors.ErrHoldingNotFound)
	}
	return l.sellAt(i, quantity, price)
}

// sellAt must be called with l.mu held for writing.
func (l *Ledger) sellAt(i int, quantity int64, price decimal.Decimal) (Transaction, error) {
	holding := l.state.Holdings[i]
	if quantity > holding.Quantity {
		return Transaction{}, fmt.Errorf("sell %d %s, holding %d: %w",
			quantity, holding.Symbol, holding.Quantity, apperrors.ErrInsufficientShares)
	}

	now := l.now()
	proceeds := price.Mul(decimal.NewFromInt(quantity))
	fullLiquidation := quantity == holding.Quantity

	var costBasis decimal.Decimal
	if fullLiquidation {
		costBasis = holding.InvestmentValue
	} else {
		remainingQty := holding.Quantity - quantity
		remaining := holding.InvestmentValue.
			Mul(decimal.NewFromInt(remainingQty)).
			Div(decimal.NewFromInt(holding.Quantity))
		if !remaining.IsPositive() {
			return Transaction{}, fmt.Errorf("sell %d %s leaves cost basis %s: %w",
				quantity, holding.Symbol, remaining, apperrors.ErrInvalidPrice)
		}
		// Derive the removed basis by subtraction so that cash plus cost
		// basis stays exact even when the division above rounds.
		costBasis = holding.InvestmentValue.Sub(remaining)
		holding.Quantity = remainingQty
		holding.InvestmentValue = remaining
		holding.UpdatedAt = now
	}

	tx := Transaction{
		ID:         l.newID(),
		Timestamp:  now,
		Symbol:     holding.Symbol,
		Name:       holding.Name,
		Side:       SideSell,
		Quantity:   quantity,
		Price:      price,
		TotalValue: proceeds,
	}
	gain := RealizedGain{
		TransactionID: tx.ID,
		Timestamp:     now,
		Symbol:        holding.Symbol,
		Quantity:      quantity,
		CostBasis:     costBasis,
		Proceeds:      proceeds,
		GainLoss:      proceeds.Sub(costBasis),
	}

	if fullLiquidation {
		l.state.Holdings = slices.Delete(l.state.Holdings, i, i+1)
	} else {
		l.state.Holdings[i] = holding
	}
	l.state.Transactions = append(l.state.Transactions, tx)
	l.state.RealizedGains = append(l.state.RealizedGains, gain)
	l.state.CashBalance = l.state.CashBalance.Add(proceeds)

	return tx, nil
}

func validateTrade(quantity int64, price decimal.Decimal) error {
	if quantity <= 0 || quantity > MaxTradeQuantity {
		return fmt.Errorf("quantity %d: %w", quantity, apperrors.ErrInvalidQuantity)
	}
	if !price.IsPositive() || !price.Equal(price.Truncate(PriceScale)) {
		return fmt.Errorf("price %s: %w", price, apperrors.ErrInvalidPrice)
	}
	return nil
}
