package testutil

import (
	"database/sql"
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Paper-Trading-Backend/internal/market"
	"github.com/ndewijer/Paper-Trading-Backend/internal/repository"
	"github.com/ndewijer/Paper-Trading-Backend/internal/service"
	"github.com/ndewijer/Paper-Trading-Backend/internal/yahoo"
)

// DefaultStartingCash is the cash of ledgers created by test services.
var DefaultStartingCash = decimal.NewFromInt(100000)

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() zerolog.Logger {
	return zerolog.Nop()
}

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(
		repository.NewLedgerRepository(db),
		repository.NewStockRepository(db),
		DefaultStartingCash,
		"INR",
		NewTestLogger(),
	)
}

// NewTestMarketService creates a MarketService without a price refresher.
func NewTestMarketService(t *testing.T, db *sql.DB) *service.MarketService {
	t.Helper()

	return service.NewMarketService(
		repository.NewStockRepository(db),
		repository.NewWatchlistRepository(db),
		nil,
		NewTestLogger(),
	)
}

// NewTestMarketServiceWithMockYahoo creates a MarketService refreshing prices
// through the given Yahoo client.
func NewTestMarketServiceWithMockYahoo(t *testing.T, db *sql.DB, client yahoo.Client) *service.MarketService {
	t.Helper()

	stockRepo := repository.NewStockRepository(db)
	refresher := market.NewRefresher(client, stockRepo, 2, NewTestLogger())

	return service.NewMarketService(
		stockRepo,
		repository.NewWatchlistRepository(db),
		refresher,
		NewTestLogger(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"price_refresh": false})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeStockID generates a numeric catalog id sorting after the seeded stocks.
func MakeStockID() string {
	//nolint:gosec // G404: Using math/rand for test data generation is acceptable
	return strconv.Itoa(1000 + rand.Intn(1_000_000))
}

// MakeUserID generates the id of an authenticated test user.
func MakeUserID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeSymbolName generates a unique stock name for testing.
//
// Example usage:
//
//	name := testutil.MakeSymbolName("Tech Symbol")
//	// Returns: "Tech Symbol XYZ789"
func MakeSymbolName(base string) string {
	if base == "" {
		base = "Symbol"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
