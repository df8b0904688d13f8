package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Paper-Trading-Backend/internal/ledger"
)

// MaxSymbolLength bounds stock symbols accepted from clients.
const MaxSymbolLength = 20

// ValidateBuy validates a buy request.
//
// Required fields:
//   - stockSymbol: Non-empty, at most MaxSymbolLength characters
//   - quantity: Must be positive, at most ledger.MaxTradeQuantity
//
// Optional fields (validated if provided):
//   - price: Must be positive with at most ledger.PriceScale decimal places
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateBuy(req request.BuyRequest) error {
	errors := make(map[string]string)

	validateSymbol(errors, "stockSymbol", req.StockSymbol)
	validateQuantity(errors, req.Quantity)
	validatePrice(errors, req.Price)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateSell validates a sell request.
func ValidateSell(req request.SellRequest) error {
	errors := make(map[string]string)

	validateQuantity(errors, req.Quantity)
	validatePrice(errors, req.Price)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateTrade validates a trade request.
//
// Required fields:
//   - stock_symbol: Non-empty, at most MaxSymbolLength characters
//   - order_type: buy or sell
//   - quantity: Must be positive, at most ledger.MaxTradeQuantity
//
// Optional fields (validated if provided):
//   - price: Must be positive with at most ledger.PriceScale decimal places
func ValidateTrade(req request.TradeRequest) error {
	errors := make(map[string]string)

	validateSymbol(errors, "stock_symbol", req.StockSymbol)
	if strings.TrimSpace(req.OrderType) == "" {
		errors["order_type"] = "order_type is required"
	} else if !ledger.Side(strings.ToLower(req.OrderType)).Valid() {
		errors["order_type"] = fmt.Sprintf("invalid order_type: %s", req.OrderType)
	}
	validateQuantity(errors, req.Quantity)
	validatePrice(errors, req.Price)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateSymbol validates a stock symbol taken from a URL.
func ValidateSymbol(symbol string) error {
	errors := make(map[string]string)
	validateSymbol(errors, "symbol", symbol)
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validateSymbol(errors map[string]string, field, symbol string) {
	symbol = strings.TrimSpace(symbol)
	switch {
	case symbol == "":
		errors[field] = field + " is required"
	case len(symbol) > MaxSymbolLength:
		errors[field] = fmt.Sprintf("%s must be at most %d characters", field, MaxSymbolLength)
	}
}

func validateQuantity(errors map[string]string, quantity int64) {
	switch {
	case quantity <= 0:
		errors["quantity"] = "quantity must be a positive whole number"
	case quantity > ledger.MaxTradeQuantity:
		errors["quantity"] = fmt.Sprintf("quantity must be at most %d", ledger.MaxTradeQuantity)
	}
}

func validatePrice(errors map[string]string, price *decimal.Decimal) {
	switch {
	case price == nil:
	case !price.IsPositive():
		errors["price"] = "price must be positive"
	case !price.Equal(price.Truncate(ledger.PriceScale)):
		errors["price"] = fmt.Sprintf("price must have at most %d decimal places", ledger.PriceScale)
	}
}
