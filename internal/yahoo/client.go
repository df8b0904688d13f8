package yahoo

import "context"

// Client is the subset of FinanceClient used by the price refresher.
// testutil.MockYahooClient implements it for tests.
type Client interface {
	QueryChart(ctx context.Context, symbol, rng string) (Response, error)
	ParseChart(yahooResult Response) (PriceChart, error)
}

var _ Client = (*FinanceClient)(nil)
