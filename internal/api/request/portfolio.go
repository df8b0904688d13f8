package request

import "github.com/shopspring/decimal"

// BuyRequest opens or adds to a holding. Price defaults to the catalog's
// current price when omitted.
type BuyRequest struct {
	StockSymbol string           `json:"stockSymbol"`
	StockName   string           `json:"stockName,omitempty"`
	Quantity    int64            `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// SellRequest sells shares of the holding named in the URL.
type SellRequest struct {
	Quantity int64            `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// TradeRequest executes a buy or sell by symbol.
type TradeRequest struct {
	StockSymbol string           `json:"stock_symbol"`
	OrderType   string           `json:"order_type"`
	Quantity    int64            `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}
