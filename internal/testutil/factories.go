package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Paper-Trading-Backend/internal/ledger"
	"github.com/ndewijer/Paper-Trading-Backend/internal/market"
	"github.com/ndewijer/Paper-Trading-Backend/internal/repository"
)

// SeededSymbols are the stocks created by the initial migration, in catalog order.
var SeededSymbols = []string{"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK", "HINDUNILVR"}

// LedgerBuilder provides a fluent interface for creating persisted ledgers.
//
// Example usage:
//
//	// Account with the default 100000 cash and no holdings
//	userID, state := testutil.NewLedger().Build(t, db)
//
//	// Account with holdings
//	userID, state := testutil.NewLedger().
//	    WithCash("50000").
//	    WithBuy("TCS", 10, "3500").
//	    Build(t, db)
type LedgerBuilder struct {
	UserID string
	Cash   decimal.Decimal
	buys   []builderTrade
	sells  []builderTrade
}

type builderTrade struct {
	symbol   string
	quantity int64
	price    decimal.Decimal
}

// NewLedger creates a LedgerBuilder with sensible defaults.
func NewLedger() *LedgerBuilder {
	return &LedgerBuilder{
		UserID: MakeUserID(),
		Cash:   decimal.NewFromInt(100000),
	}
}

// WithUserID sets a custom user id.
func (b *LedgerBuilder) WithUserID(id string) *LedgerBuilder {
	b.UserID = id
	return b
}

// WithCash sets the starting cash.
func (b *LedgerBuilder) WithCash(cash string) *LedgerBuilder {
	b.Cash = decimal.RequireFromString(cash)
	return b
}

// WithBuy adds a buy executed before the ledger is stored.
func (b *LedgerBuilder) WithBuy(symbol string, quantity int64, price string) *LedgerBuilder {
	b.buys = append(b.buys, builderTrade{symbol, quantity, decimal.RequireFromString(price)})
	return b
}

// WithSell adds a sell by symbol, executed after all buys.
func (b *LedgerBuilder) WithSell(symbol string, quantity int64, price string) *LedgerBuilder {
	b.sells = append(b.sells, builderTrade{symbol, quantity, decimal.RequireFromString(price)})
	return b
}

// Build executes the trades and stores the ledger, returning the user id and
// the stored state.
func (b *LedgerBuilder) Build(t *testing.T, db *sql.DB) (string, ledger.State) {
	t.Helper()

	// Strictly increasing timestamps keep the transaction order stable.
	clock := time.Date(2025, 1, 2, 9, 15, 0, 0, time.UTC)
	l, err := ledger.New(b.Cash, ledger.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	if err != nil {
		t.Fatalf("Failed to create test ledger: %v", err)
	}

	for _, tr := range b.buys {
		if _, err := l.Buy(tr.symbol, tr.symbol, tr.quantity, tr.price); err != nil {
			t.Fatalf("Failed to buy %s: %v", tr.symbol, err)
		}
	}
	for _, tr := range b.sells {
		if _, err := l.SellSymbol(tr.symbol, tr.quantity, tr.price); err != nil {
			t.Fatalf("Failed to sell %s: %v", tr.symbol, err)
		}
	}

	state := l.Snapshot()
	if err := repository.NewLedgerRepository(db).Save(context.Background(), b.UserID, state); err != nil {
		t.Fatalf("Failed to create test ledger: %v", err)
	}
	return b.UserID, state
}

// StockBuilder provides a fluent interface for adding stocks to the catalog.
//
// Example usage:
//
//	stock := testutil.NewStock().WithSymbol("WIPRO").WithPrice("480.10", "475.00").Build(t, db)
type StockBuilder struct {
	ID            string
	Symbol        string
	Name          string
	YahooSymbol   string
	CurrentPrice  decimal.Decimal
	PreviousClose decimal.Decimal
	Volume        int64
}

// NewStock creates a StockBuilder with sensible defaults.
func NewStock() *StockBuilder {
	symbol := MakeSymbol("STK")
	return &StockBuilder{
		ID:            MakeStockID(),
		Symbol:        symbol,
		Name:          MakeSymbolName("Test Stock"),
		YahooSymbol:   symbol + ".NS",
		CurrentPrice:  decimal.NewFromInt(100),
		PreviousClose: decimal.NewFromInt(95),
		Volume:        1000,
	}
}

// WithSymbol sets the symbol and the derived Yahoo symbol.
func (b *StockBuilder) WithSymbol(symbol string) *StockBuilder {
	b.Symbol = symbol
	b.YahooSymbol = symbol + ".NS"
	return b
}

// WithName sets a custom name.
func (b *StockBuilder) WithName(name string) *StockBuilder {
	b.Name = name
	return b
}

// WithPrice sets the current price and previous close.
func (b *StockBuilder) WithPrice(current, previous string) *StockBuilder {
	b.CurrentPrice = decimal.RequireFromString(current)
	b.PreviousClose = decimal.RequireFromString(previous)
	return b
}

// Build creates the stock in the database and returns it.
func (b *StockBuilder) Build(t *testing.T, db *sql.DB) market.Stock {
	t.Helper()

	updatedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := db.Exec(`
		INSERT INTO stock (id, symbol, name, yahoo_symbol, current_price, previous_close, volume, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Symbol, b.Name, b.YahooSymbol, b.CurrentPrice, b.PreviousClose, b.Volume,
		updatedAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test stock: %v", err)
	}

	return market.Stock{
		ID:            b.ID,
		Symbol:        b.Symbol,
		Name:          b.Name,
		YahooSymbol:   b.YahooSymbol,
		CurrentPrice:  b.CurrentPrice,
		PreviousClose: b.PreviousClose,
		Volume:        b.Volume,
		UpdatedAt:     updatedAt,
	}
}

// SetStockPrice overwrites the current price of a catalog stock.
func SetStockPrice(t *testing.T, db *sql.DB, symbol, price string) {
	t.Helper()

	res, err := db.Exec(`UPDATE stock SET current_price = ? WHERE symbol = ?`, price, symbol)
	if err != nil {
		t.Fatalf("Failed to set price of %s: %v", symbol, err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("Failed to set price of %s: stock not found", symbol)
	}
}

// CreateCloses stores one daily close per price for symbol, on consecutive
// days ending 2025-01-31, oldest first.
func CreateCloses(t *testing.T, db *sql.DB, symbol string, prices ...float64) []market.Close {
	t.Helper()

	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	closes := make([]market.Close, len(prices))
	for i, p := range prices {
		closes[i] = market.Close{
			Date:  end.AddDate(0, 0, i-len(prices)+1),
			Price: decimal.NewFromFloat(p),
		}
	}
	if err := repository.NewStockRepository(db).UpsertCloses(context.Background(), symbol, closes); err != nil {
		t.Fatalf("Failed to create closes for %s: %v", symbol, err)
	}
	return closes
}
