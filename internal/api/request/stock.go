package request

// StockListParams are the query parameters of GET /api/stock.
type StockListParams struct {
	Search        string
	Signal        string
	WatchlistOnly bool
}
