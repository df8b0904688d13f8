package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/ledger"
	"github.com/ndewijer/Paper-Trading-Backend/internal/market"
)

// StockStore reads the catalog with its close history. *repository.StockRepository implements it.
type StockStore interface {
	StockCatalog
	ListCloses(ctx context.Context, limit int) (map[string][]market.Close, error)
}

// WatchlistStore persists watchlists. *repository.WatchlistRepository implements it.
type WatchlistStore interface {
	List(ctx context.Context, userID string) ([]string, error)
	Replace(ctx context.Context, userID string, symbols []string) error
	Clear(ctx context.Context, userID string) error
}

// MarketService serves the screener, the price refresh and the watchlists.
type MarketService struct {
	stocks     StockStore
	watchlists WatchlistStore
	refresher  *market.Refresher
	log        zerolog.Logger

	// watchMu serializes watchlist updates, which read then replace.
	watchMu sync.Mutex
}

// NewMarketService creates a MarketService. refresher may be nil, in which
// case Refresh returns ErrPriceRefreshDisabled.
func NewMarketService(stocks StockStore, watchlists WatchlistStore, refresher *market.Refresher, log zerolog.Logger) *MarketService {
	return &MarketService{
		stocks:     stocks,
		watchlists: watchlists,
		refresher:  refresher,
		log:        log.With().Str("component", "market_service").Logger(),
	}
}

// ListStocks returns the screener rows matching params. With
// params.WatchlistOnly set only the stocks on the watchlist of userID are
// returned.
func (s *MarketService) ListStocks(ctx context.Context, userID string, params request.StockListParams) ([]market.ScreenerRow, error) {
	filter := market.Filter{Search: params.Search}
	if params.Signal != "" {
		sig, ok := market.ParseSignal(strings.ToLower(params.Signal))
		if !ok {
			return nil, fmt.Errorf("signal %q: %w", params.Signal, apperrors.ErrInvalidSignal)
		}
		filter.Signal = sig
	}
	if params.WatchlistOnly {
		symbols, err := s.watchlists.List(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveWatchlist, err)
		}
		filter.Symbols = symbols
	}

	rows, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}
	return market.Screen(rows, filter), nil
}

// GetStock returns the screener row of symbol.
func (s *MarketService) GetStock(ctx context.Context, symbol string) (market.ScreenerRow, error) {
	symbol = ledger.NormalizeSymbol(symbol)
	stock, err := s.stocks.GetStock(ctx, symbol)
	if err != nil {
		return market.ScreenerRow{}, err
	}
	closes, err := s.stocks.ListCloses(ctx, market.HistoryWindow)
	if err != nil {
		return market.ScreenerRow{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveStock, err)
	}
	return market.BuildRow(stock, market.ClosePrices(closes[stock.Symbol])), nil
}

func (s *MarketService) rows(ctx context.Context) ([]market.ScreenerRow, error) {
	stocks, err := s.stocks.ListStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveStocks, err)
	}
	closes, err := s.stocks.ListCloses(ctx, market.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveStocks, err)
	}

	rows := make([]market.ScreenerRow, 0, len(stocks))
	for _, stock := range stocks {
		rows = append(rows, market.BuildRow(stock, market.ClosePrices(closes[stock.Symbol])))
	}
	return rows, nil
}

// Refresh fetches the latest quotes of the whole catalog.
func (s *MarketService) Refresh(ctx context.Context) (market.RefreshResult, error) {
	if s.refresher == nil {
		return market.RefreshResult{}, apperrors.ErrPriceRefreshDisabled
	}
	result, err := s.refresher.Refresh(ctx)
	if err != nil {
		return result, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
	}
	return result, nil
}

// Watchlist returns the watchlist of userID.
func (s *MarketService) Watchlist(ctx context.Context, userID string) ([]string, error) {
	symbols, err := s.watchlists.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveWatchlist, err)
	}
	return symbols, nil
}

// AddToWatchlist selects symbol for userID and returns the new watchlist.
// The stock must exist in the catalog.
func (s *MarketService) AddToWatchlist(ctx context.Context, userID, symbol string) ([]string, error) {
	symbol = ledger.NormalizeSymbol(symbol)
	if _, err := s.stocks.GetStock(ctx, symbol); err != nil {
		return nil, err
	}
	return s.updateWatchlist(ctx, userID, func(w *market.Watchlist) (bool, error) {
		return w.Add(symbol)
	})
}

// RemoveFromWatchlist deselects symbol for userID and returns the new watchlist.
// Removing a symbol that is not selected is a no-op.
func (s *MarketService) RemoveFromWatchlist(ctx context.Context, userID, symbol string) ([]string, error) {
	return s.updateWatchlist(ctx, userID, func(w *market.Watchlist) (bool, error) {
		return w.Remove(symbol), nil
	})
}

// ClearWatchlist deselects every symbol of userID.
func (s *MarketService) ClearWatchlist(ctx context.Context, userID string) error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if err := s.watchlists.Clear(ctx, userID); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToUpdateWatchlist, err)
	}
	return nil
}

func (s *MarketService) updateWatchlist(ctx context.Context, userID string,
	change func(w *market.Watchlist) (bool, error)) ([]string, error) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	stored, err := s.watchlists.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveWatchlist, err)
	}
	w := market.NewWatchlist(stored...)
	changed, err := change(w)
	if err != nil {
		return nil, err
	}
	if !changed {
		return w.Symbols(), nil
	}
	if err := s.watchlists.Replace(ctx, userID, w.Symbols()); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToUpdateWatchlist, err)
	}
	return w.Symbols(), nil
}
