package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Paper-Trading-Backend/internal/ledger"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *validation.Error, got %v", err)
	}
	return verr.Fields
}

func TestValidateBuy(t *testing.T) {
	t.Run("valid without price", func(t *testing.T) {
		if err := ValidateBuy(request.BuyRequest{StockSymbol: "TCS", Quantity: 1}); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("valid with price", func(t *testing.T) {
		req := request.BuyRequest{StockSymbol: "TCS", Quantity: 3, Price: decPtr("3542.30")}
		if err := ValidateBuy(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})

	t.Run("collects every invalid field", func(t *testing.T) {
		req := request.BuyRequest{StockSymbol: " ", Quantity: 0, Price: decPtr("-1")}
		fields := fieldsOf(t, ValidateBuy(req))
		for _, f := range []string{"stockSymbol", "quantity", "price"} {
			if _, ok := fields[f]; !ok {
				t.Errorf("Expected error for %s, got %v", f, fields)
			}
		}
	})

	t.Run("symbol too long", func(t *testing.T) {
		req := request.BuyRequest{StockSymbol: strings.Repeat("A", MaxSymbolLength+1), Quantity: 1}
		fields := fieldsOf(t, ValidateBuy(req))
		if _, ok := fields["stockSymbol"]; !ok {
			t.Errorf("Expected stockSymbol error, got %v", fields)
		}
	})

	t.Run("trade bounds", func(t *testing.T) {
		tests := []struct {
			name  string
			req   request.BuyRequest
			field string
		}{
			{"quantity above limit", request.BuyRequest{StockSymbol: "TCS", Quantity: ledger.MaxTradeQuantity + 1}, "quantity"},
			{"quantity near int64 max", request.BuyRequest{StockSymbol: "TCS", Quantity: math.MaxInt64 - 10}, "quantity"},
			{"price below tick", request.BuyRequest{StockSymbol: "TCS", Quantity: 1, Price: decPtr("1e-15")}, "price"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fields := fieldsOf(t, ValidateBuy(tt.req))
				if _, ok := fields[tt.field]; !ok {
					t.Errorf("Expected %s error, got %v", tt.field, fields)
				}
			})
		}
	})

	t.Run("price at tick is accepted", func(t *testing.T) {
		req := request.BuyRequest{StockSymbol: "TCS", Quantity: ledger.MaxTradeQuantity, Price: decPtr("0.00000001")}
		if err := ValidateBuy(req); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}

func TestValidateSell(t *testing.T) {
	if err := ValidateSell(request.SellRequest{Quantity: 2}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	fields := fieldsOf(t, ValidateSell(request.SellRequest{Quantity: -2, Price: decPtr("0")}))
	if len(fields) != 2 {
		t.Errorf("Expected quantity and price errors, got %v", fields)
	}
}

func TestValidateTrade(t *testing.T) {
	tests := []struct {
		name      string
		req       request.TradeRequest
		wantField string
	}{
		{"valid buy", request.TradeRequest{StockSymbol: "INFY", OrderType: "buy", Quantity: 1, Price: decPtr("1489.65")}, ""},
		{"valid upper-case sell", request.TradeRequest{StockSymbol: "INFY", OrderType: "SELL", Quantity: 1}, ""},
		{"missing order type", request.TradeRequest{StockSymbol: "INFY", Quantity: 1}, "order_type"},
		{"unknown order type", request.TradeRequest{StockSymbol: "INFY", OrderType: "short", Quantity: 1}, "order_type"},
		{"missing symbol", request.TradeRequest{OrderType: "buy", Quantity: 1}, "stock_symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTrade(tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if _, ok := fieldsOf(t, err)[tt.wantField]; !ok {
				t.Errorf("Expected error for %s, got %v", tt.wantField, err)
			}
		})
	}
}
