package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/market"
)

// StockRepository provides data access methods for the stock catalog and its
// daily close history.
type StockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new StockRepository with the provided database connection.
func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db: db}
}

var _ market.QuoteStore = (*StockRepository)(nil)

const stockColumns = `id, symbol, name, yahoo_symbol, current_price, previous_close, volume, updated_at`

func scanStock(scan func(dest ...any) error) (market.Stock, error) {
	var s market.Stock
	var updatedAt string
	if err := scan(&s.ID, &s.Symbol, &s.Name, &s.YahooSymbol, &s.CurrentPrice, &s.PreviousClose,
		&s.Volume, &updatedAt); err != nil {
		return market.Stock{}, err
	}
	t, err := ParseTime(updatedAt)
	if err != nil {
		return market.Stock{}, err
	}
	s.UpdatedAt = t
	return s, nil
}

// ListStocks returns the whole catalog ordered by id.
func (r *StockRepository) ListStocks(ctx context.Context) ([]market.Stock, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+stockColumns+` FROM stock ORDER BY CAST(id AS INTEGER), id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock table: %w", err)
	}
	defer rows.Close()

	stocks := []market.Stock{}
	for rows.Next() {
		s, err := scanStock(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock rows: %w", err)
	}
	return stocks, nil
}

// GetStock returns the stock with the given symbol, or ErrStockNotFound.
func (r *StockRepository) GetStock(ctx context.Context, symbol string) (market.Stock, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+stockColumns+` FROM stock WHERE symbol = ?`, symbol)
	s, err := scanStock(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return market.Stock{}, fmt.Errorf("stock %s: %w", symbol, apperrors.ErrStockNotFound)
	}
	if err != nil {
		return market.Stock{}, fmt.Errorf("failed to query stock: %w", err)
	}
	return s, nil
}

// UpdateQuote stores the latest quote of symbol.
func (r *StockRepository) UpdateQuote(ctx context.Context, symbol string, q market.Quote) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stock
		SET current_price = ?, previous_close = ?, volume = ?, updated_at = ?
		WHERE symbol = ?
	`, q.CurrentPrice, q.PreviousClose, q.Volume, formatTime(q.At), symbol)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("stock %s: %w", symbol, apperrors.ErrStockNotFound)
	}
	return nil
}

// UpsertCloses stores daily closes of symbol, replacing the close of a date
// that is already stored.
func (r *StockRepository) UpsertCloses(ctx context.Context, symbol string, closes []market.Close) (err error) {
	if len(closes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stock_price (symbol, date, close)
		VALUES (?, ?, ?)
		ON CONFLICT (symbol, date) DO UPDATE SET close = excluded.close
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range closes {
		if _, err = stmt.ExecContext(ctx, symbol, formatDate(c.Date), c.Price); err != nil {
			return fmt.Errorf("failed to insert close for %s: %w", symbol, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit closes: %w", err)
	}
	return nil
}

// ListCloses returns the most recent limit closes of every stock, oldest
// first per symbol.
func (r *StockRepository) ListCloses(ctx context.Context, limit int) (map[string][]market.Close, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol, date, close FROM (
			SELECT symbol, date, close,
				ROW_NUMBER() OVER (PARTITION BY symbol ORDER BY date DESC) AS rn
			FROM stock_price
		)
		WHERE rn <= ?
		ORDER BY symbol, date ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_price table: %w", err)
	}
	defer rows.Close()

	closes := make(map[string][]market.Close)
	for rows.Next() {
		var symbol, date string
		var c market.Close
		if err := rows.Scan(&symbol, &date, &c.Price); err != nil {
			return nil, fmt.Errorf("failed to scan close: %w", err)
		}
		if c.Date, err = ParseTime(date); err != nil {
			return nil, err
		}
		closes[symbol] = append(closes[symbol], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating close rows: %w", err)
	}
	return closes, nil
}
