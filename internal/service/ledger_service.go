package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Paper-Trading-Backend/internal/api/request"
	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/ledger"
	"github.com/ndewijer/Paper-Trading-Backend/internal/market"
)

// LedgerStore persists ledgers. *repository.LedgerRepository implements it.
type LedgerStore interface {
	Load(ctx context.Context, userID string) (ledger.State, bool, error)
	Save(ctx context.Context, userID string, state ledger.State) error
	Reset(ctx context.Context, userID string, state ledger.State) error
	ListUsers(ctx context.Context) ([]string, error)
	LoadPerformance(ctx context.Context, userID string) ([]ledger.PerformanceSample, error)
	AppendPerformance(ctx context.Context, userID string, s ledger.PerformanceSample) error
}

// StockCatalog reads the stock catalog. *repository.StockRepository implements it.
type StockCatalog interface {
	ListStocks(ctx context.Context) ([]market.Stock, error)
	GetStock(ctx context.Context, symbol string) (market.Stock, error)
}

// session is the in-memory ledger of one user. mu serializes the commands of
// that user so the ledger has a single writer.
type session struct {
	mu          sync.Mutex
	ledger      *ledger.Ledger
	performance *ledger.PerformanceSeries
}

// LedgerService executes trades and reads portfolio views for each user.
// Ledgers are loaded lazily and kept in memory; every change is persisted
// before the command returns.
type LedgerService struct {
	store        LedgerStore
	stocks       StockCatalog
	startingCash decimal.Decimal
	money        MoneyFormatter
	log          zerolog.Logger
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewLedgerService creates a LedgerService funding new ledgers with
// startingCash. Summaries are formatted in currency.
func NewLedgerService(store LedgerStore, stocks StockCatalog, startingCash decimal.Decimal, currency string,
	log zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:        store,
		stocks:       stocks,
		startingCash: startingCash,
		money:        NewMoneyFormatter(currency),
		log:          log.With().Str("component", "ledger_service").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
		sessions:     make(map[string]*session),
	}
}

// session returns the session of userID, loading or creating its ledger.
func (s *LedgerService) session(ctx context.Context, userID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess, nil
	}

	state, found, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadLedger, err)
	}

	var l *ledger.Ledger
	if found {
		l, err = ledger.FromState(state)
	} else {
		l, err = ledger.New(s.startingCash)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadLedger, err)
	}

	samples, err := s.store.LoadPerformance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadLedger, err)
	}

	sess := &session{ledger: l, performance: ledger.NewPerformanceSeries(samples...)}
	s.sessions[userID] = sess
	if !found {
		s.log.Info().Str("user_id", userID).Str("cash", s.startingCash.String()).Msg("ledger created")
	}
	return sess, nil
}

// prices snapshots the current catalog prices.
func (s *LedgerService) prices(ctx context.Context) (market.CatalogPriceSource, error) {
	stocks, err := s.stocks.ListStocks(ctx)
	if err != nil {
		return nil, err
	}
	return market.NewCatalogPriceSource(stocks), nil
}

// execute runs trade against the ledger of sess and persists the result. If
// persisting fails the ledger is restored to its state before the trade.
func (s *LedgerService) execute(ctx context.Context, userID string, sess *session,
	trade func(l *ledger.Ledger) (ledger.Transaction, error)) (ledger.Transaction, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	before := sess.ledger.Snapshot()
	tx, err := trade(sess.ledger)
	if err != nil {
		return ledger.Transaction{}, err
	}

	if err := s.store.Save(ctx, userID, sess.ledger.Snapshot()); err != nil {
		if rerr := sess.ledger.Restore(before); rerr != nil {
			s.log.Error().Err(rerr).Str("user_id", userID).Msg("failed to roll back ledger")
		}
		return ledger.Transaction{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToSaveLedger, err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("side", string(tx.Side)).
		Str("symbol", tx.Symbol).
		Int64("quantity", tx.Quantity).
		Str("price", tx.Price.String()).
		Msg("trade executed")

	s.recordSample(ctx, userID, sess)
	return tx, nil
}

// recordSample appends the current net worth to the performance series of
// sess and reports whether a sample was added. Failures are logged; they never
// fail the command that triggered them. sess.mu must be held.
func (s *LedgerService) recordSample(ctx context.Context, userID string, sess *session) bool {
	prices, err := s.prices(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("performance sample skipped")
		return false
	}
	sample := ledger.PerformanceSample{Timestamp: s.now(), Value: sess.ledger.Summary(prices).NetWorth}
	if !sess.performance.Record(sample.Timestamp, sample.Value) {
		return false
	}
	if err := s.store.AppendPerformance(ctx, userID, sample); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to persist performance sample")
	}
	return true
}

// resolvePrice returns the explicit price or the catalog's current price of symbol.
func (s *LedgerService) resolvePrice(ctx context.Context, symbol string, price *decimal.Decimal) (decimal.Decimal, market.Stock, error) {
	stock, err := s.stocks.GetStock(ctx, symbol)
	if err != nil {
		return decimal.Zero, market.Stock{}, err
	}
	if price != nil {
		return *price, stock, nil
	}
	if !stock.CurrentPrice.IsPositive() {
		return decimal.Zero, stock, fmt.Errorf("no current price for %s: %w", symbol, apperrors.ErrInvalidPrice)
	}
	return stock.CurrentPrice, stock, nil
}

// Buy buys shares for userID. The stock must exist in the catalog.
func (s *LedgerService) Buy(ctx context.Context, userID string, req request.BuyRequest) (ledger.Transaction, error) {
	symbol := ledger.NormalizeSymbol(req.StockSymbol)
	price, stock, err := s.resolvePrice(ctx, symbol, req.Price)
	if err != nil {
		return ledger.Transaction{}, err
	}
	name := strings.TrimSpace(req.StockName)
	if name == "" {
		name = stock.Name
	}

	sess, err := s.session(ctx, userID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return s.execute(ctx, userID, sess, func(l *ledger.Ledger) (ledger.Transaction, error) {
		return l.Buy(symbol, name, req.Quantity, price)
	})
}

// Sell sells shares of the holding holdingID of userID.
func (s *LedgerService) Sell(ctx context.Context, userID, holdingID string, req request.SellRequest) (ledger.Transaction, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	holding, ok := sess.ledger.Holding(holdingID)
	if !ok {
		return ledger.Transaction{}, fmt.Errorf("holding %s: %w", holdingID, apperrors.ErrHoldingNotFound)
	}

	var price decimal.Decimal
	if req.Price != nil {
		price = *req.Price
	} else if price, _, err = s.resolvePrice(ctx, holding.Symbol, nil); err != nil {
		return ledger.Transaction{}, err
	}

	return s.execute(ctx, userID, sess, func(l *ledger.Ledger) (ledger.Transaction, error) {
		return l.Sell(holdingID, req.Quantity, price)
	})
}

// Trade executes a buy or sell by symbol.
func (s *LedgerService) Trade(ctx context.Context, userID string, req request.TradeRequest) (ledger.Transaction, error) {
	switch ledger.Side(strings.ToLower(req.OrderType)) {
	case ledger.SideBuy:
		return s.Buy(ctx, userID, request.BuyRequest{
			StockSymbol: req.StockSymbol,
			Quantity:    req.Quantity,
			Price:       req.Price,
		})
	case ledger.SideSell:
		symbol := ledger.NormalizeSymbol(req.StockSymbol)
		price, _, err := s.resolvePrice(ctx, symbol, req.Price)
		if err != nil {
			return ledger.Transaction{}, err
		}
		sess, err := s.session(ctx, userID)
		if err != nil {
			return ledger.Transaction{}, err
		}
		return s.execute(ctx, userID, sess, func(l *ledger.Ledger) (ledger.Transaction, error) {
			return l.SellSymbol(symbol, req.Quantity, price)
		})
	}
	return ledger.Transaction{}, fmt.Errorf("order type %q: %w", req.OrderType, apperrors.ErrInvalidOrderType)
}

// Reset discards the ledger and performance history of userID and starts
// over with the starting cash.
func (s *LedgerService) Reset(ctx context.Context, userID string) (SummaryView, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return SummaryView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	fresh := ledger.NewState(s.startingCash)
	if err := s.store.Reset(ctx, userID, fresh); err != nil {
		return SummaryView{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToResetLedger, err)
	}
	if err := sess.ledger.Restore(fresh); err != nil {
		return SummaryView{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToResetLedger, err)
	}
	sess.performance.Clear()
	s.log.Info().Str("user_id", userID).Msg("ledger reset")

	return s.money.View(sess.ledger.Summary(ledger.PriceMap{})), nil
}

// Summary returns the portfolio summary of userID at current prices.
func (s *LedgerService) Summary(ctx context.Context, userID string) (SummaryView, error) {
	sess, prices, err := s.read(ctx, userID)
	if err != nil {
		return SummaryView{}, err
	}
	return s.money.View(sess.ledger.Summary(prices)), nil
}

// Holdings returns the holdings of userID valued at current prices.
func (s *LedgerService) Holdings(ctx context.Context, userID string) ([]ledger.HoldingValuation, error) {
	sess, prices, err := s.read(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess.ledger.Valuations(prices), nil
}

// Allocation returns the allocation breakdown of userID at current prices.
func (s *LedgerService) Allocation(ctx context.Context, userID string) ([]ledger.AllocationEntry, error) {
	sess, prices, err := s.read(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess.ledger.Allocation(prices), nil
}

// Transactions returns the transaction log of userID, newest first when
// newestFirst is set.
func (s *LedgerService) Transactions(ctx context.Context, userID string, newestFirst bool) ([]ledger.Transaction, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs := sess.ledger.Transactions()
	if newestFirst {
		for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
			txs[i], txs[j] = txs[j], txs[i]
		}
	}
	return txs, nil
}

// RealizedGains returns the realized gain of every sell of userID.
func (s *LedgerService) RealizedGains(ctx context.Context, userID string) ([]ledger.RealizedGain, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess.ledger.RealizedGains(), nil
}

// PerformanceStats are the statistics of a performance series, rounded for display.
type PerformanceStats = ledger.PerformanceStats

// Performance is the performance series of a user with its statistics.
type Performance struct {
	Samples []ledger.PerformanceSample `json:"samples"`
	Stats   PerformanceStats           `json:"stats"`
}

// Performance returns the samples of userID taken at or after since (all
// samples when since is zero).
func (s *LedgerService) Performance(ctx context.Context, userID string, since time.Time) (Performance, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return Performance{}, err
	}
	samples := sess.performance.Samples()
	if !since.IsZero() {
		samples = sess.performance.Since(since)
	}
	return Performance{Samples: samples, Stats: roundStats(ledger.ComputeStats(samples))}, nil
}

// SnapshotAll records a performance sample for every user with an account.
// It returns the number of samples recorded.
func (s *LedgerService) SnapshotAll(ctx context.Context) (int, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordPerformance, err)
	}

	recorded := 0
	var errs []error
	for _, userID := range users {
		sess, err := s.session(ctx, userID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sess.mu.Lock()
		if s.recordSample(ctx, userID, sess) {
			recorded++
		}
		sess.mu.Unlock()
	}
	if len(errs) > 0 {
		return recorded, fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordPerformance, errors.Join(errs...))
	}
	return recorded, nil
}

func (s *LedgerService) read(ctx context.Context, userID string) (*session, market.CatalogPriceSource, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	prices, err := s.prices(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveStocks, err)
	}
	return sess, prices, nil
}
