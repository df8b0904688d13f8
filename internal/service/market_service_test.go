package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/market"
	"github.com/ndewijer/Paper-Trading-Backend/internal/testutil"
)

// TestMarketService_ListStocks tests the screener filters.
//
// WHY: The screener is the entry point for trading. Filters combine, an
// unknown signal is a client error and an empty watchlist must return
// nothing rather than the whole catalog.
func TestMarketService_ListStocks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestMarketService(t, db)
	ctx := context.Background()
	userID := testutil.MakeUserID()
	for _, s := range []string{"INFY", "ICICIBANK"} {
		if _, err := svc.AddToWatchlist(ctx, userID, s); err != nil {
			t.Fatalf("Failed to add %s: %v", s, err)
		}
	}

	tests := []struct {
		name    string
		userID  string
		params  request.StockListParams
		want    []string
		wantErr error
	}{
		{"everything", "", request.StockListParams{}, testutil.SeededSymbols, nil},
		{"search symbol", "", request.StockListParams{Search: "tcs"}, []string{"TCS"}, nil},
		{"search name", "", request.StockListParams{Search: "unilever"}, []string{"HINDUNILVR"}, nil},
		{"watchlist", userID, request.StockListParams{WatchlistOnly: true}, []string{"INFY", "ICICIBANK"}, nil},
		{"watchlist and search", userID, request.StockListParams{WatchlistOnly: true, Search: "bank"}, []string{"ICICIBANK"}, nil},
		{"empty watchlist", testutil.MakeUserID(), request.StockListParams{WatchlistOnly: true}, []string{}, nil},
		{"unknown signal", "", request.StockListParams{Signal: "moon"}, nil, apperrors.ErrInvalidSignal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := svc.ListStocks(ctx, tt.userID, tt.params)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			got := make([]string, len(rows))
			for i, r := range rows {
				got[i] = r.Symbol
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestMarketService_GetStock tests building a single screener row.
func TestMarketService_GetStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestMarketService(t, db)
	// 15 steadily rising closes: the RSI saturates at 100.
	testutil.CreateCloses(t, db, "TCS",
		3400, 3410, 3420, 3430, 3440, 3450, 3460, 3470, 3480, 3490, 3500, 3510, 3520, 3530, 3540)

	t.Run("indicators from history", func(t *testing.T) {
		row, err := svc.GetStock(context.Background(), "tcs")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if row.RSI == nil || *row.RSI != 100 {
			t.Errorf("Expected RSI 100, got %v", row.RSI)
		}
		if row.NineMA == nil || *row.NineMA != 3500 {
			t.Errorf("Expected 9-day MA 3500, got %v", row.NineMA)
		}
		// Price 3542.30 above the MA with an overbought RSI
		if row.Overall != market.SignalBuy {
			t.Errorf("Expected overall buy, got %s", row.Overall)
		}
	})

	t.Run("no history", func(t *testing.T) {
		row, err := svc.GetStock(context.Background(), "INFY")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if row.RSI != nil || row.NineMA != nil {
			t.Errorf("Expected no indicators, got ma=%v rsi=%v", row.NineMA, row.RSI)
		}
		if row.Overall != market.SignalHold {
			t.Errorf("Expected hold, got %s", row.Overall)
		}
	})

	t.Run("unknown symbol", func(t *testing.T) {
		_, err := svc.GetStock(context.Background(), "NOPE")
		if !errors.Is(err, apperrors.ErrStockNotFound) {
			t.Errorf("Expected ErrStockNotFound, got %v", err)
		}
	})
}

// TestMarketService_Watchlist tests watchlist updates.
//
// WHY: The watchlist is capped and order preserving. A failed add must leave
// the stored list unchanged.
func TestMarketService_Watchlist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestMarketService(t, db)
	ctx := context.Background()
	userID := testutil.MakeUserID()

	for _, s := range testutil.SeededSymbols[:market.MaxWatchlistSize] {
		if _, err := svc.AddToWatchlist(ctx, userID, s); err != nil {
			t.Fatalf("Failed to add %s: %v", s, err)
		}
	}

	t.Run("full", func(t *testing.T) {
		_, err := svc.AddToWatchlist(ctx, userID, testutil.SeededSymbols[market.MaxWatchlistSize])
		if !errors.Is(err, apperrors.ErrWatchlistFull) {
			t.Errorf("Expected ErrWatchlistFull, got %v", err)
		}
	})

	t.Run("adding a selected symbol is a no-op when full", func(t *testing.T) {
		symbols, err := svc.AddToWatchlist(ctx, userID, "tcs")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !reflect.DeepEqual(symbols, testutil.SeededSymbols[:market.MaxWatchlistSize]) {
			t.Errorf("Expected unchanged list, got %v", symbols)
		}
	})

	t.Run("unknown stock", func(t *testing.T) {
		if _, err := svc.RemoveFromWatchlist(ctx, userID, "RELIANCE"); err != nil {
			t.Fatalf("Failed to remove: %v", err)
		}
		_, err := svc.AddToWatchlist(ctx, userID, "NOPE")
		if !errors.Is(err, apperrors.ErrStockNotFound) {
			t.Errorf("Expected ErrStockNotFound, got %v", err)
		}
	})

	t.Run("remove keeps order", func(t *testing.T) {
		symbols, err := svc.Watchlist(ctx, userID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := []string{"TCS", "HDFCBANK", "INFY", "ICICIBANK"}
		if !reflect.DeepEqual(symbols, want) {
			t.Errorf("Expected %v, got %v", want, symbols)
		}
	})

	t.Run("clear", func(t *testing.T) {
		if err := svc.ClearWatchlist(ctx, userID); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		symbols, _ := svc.Watchlist(ctx, userID)
		if len(symbols) != 0 {
			t.Errorf("Expected an empty watchlist, got %v", symbols)
		}
	})
}

// TestMarketService_Refresh tests refreshing quotes through the Yahoo client.
func TestMarketService_Refresh(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		_, err := svc.Refresh(context.Background())

		if !errors.Is(err, apperrors.ErrPriceRefreshDisabled) {
			t.Errorf("Expected ErrPriceRefreshDisabled, got %v", err)
		}
	})

	failures := []struct {
		name   string
		client *testutil.MockYahooClient
	}{
		{"client error", testutil.NewMockYahooClient().WithError(errors.New("connection refused"))},
		{"empty chart", testutil.NewMockYahooClient().WithEmptyResponse()},
		{"chart error", testutil.NewMockYahooClient().WithResponse(
			testutil.CreateMockYahooErrorResponse("Not Found", "No data found, symbol may be delisted"))},
	}
	for _, tt := range failures {
		t.Run(tt.name+" keeps stored prices", func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			svc := testutil.NewTestMarketServiceWithMockYahoo(t, db, tt.client)

			result, err := svc.Refresh(context.Background())

			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if len(result.Updated) != 0 {
				t.Errorf("Expected no updates, got %v", result.Updated)
			}
			if len(result.Failed) != len(testutil.SeededSymbols) {
				t.Errorf("Expected %d failures, got %v", len(testutil.SeededSymbols), result.Failed)
			}
			if tt.client.Queries() != len(testutil.SeededSymbols) {
				t.Errorf("Expected one query per stock, got %d", tt.client.Queries())
			}
			row, err := svc.GetStock(context.Background(), "RELIANCE")
			if err != nil {
				t.Fatalf("Failed to get stock: %v", err)
			}
			if row.CurrentPrice.String() != "2876.45" {
				t.Errorf("Expected seeded price 2876.45, got %s", row.CurrentPrice)
			}
		})
	}

	t.Run("partial failure is reported per symbol", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		client := testutil.NewMockYahooClient().WithSymbolError("TCS.NS", errors.New("timeout"))
		svc := testutil.NewTestMarketServiceWithMockYahoo(t, db, client)

		// Execute
		result, err := svc.Refresh(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(result.Updated) != len(testutil.SeededSymbols)-1 {
			t.Errorf("Expected %d updated, got %v", len(testutil.SeededSymbols)-1, result.Updated)
		}
		if _, ok := result.Failed["TCS"]; !ok {
			t.Errorf("Expected TCS to fail, got %v", result.Failed)
		}

		row, err := svc.GetStock(context.Background(), "INFY")
		if err != nil {
			t.Fatalf("Failed to get stock: %v", err)
		}
		// Last mock close is 100 + 19*0.5 + 0.25
		if row.CurrentPrice.InexactFloat64() != 109.75 {
			t.Errorf("Expected refreshed price 109.75, got %s", row.CurrentPrice)
		}
		if row.RSI == nil || row.NineMA == nil {
			t.Error("Expected indicators from the refreshed history")
		}
	})
}
