package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// WatchlistRepository stores the selected symbols of each user.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new WatchlistRepository with the provided database connection.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// List returns the symbols of userID in selection order.
func (r *WatchlistRepository) List(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT symbol FROM watchlist WHERE user_id = ? ORDER BY position ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist table: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist: %w", err)
		}
		symbols = append(symbols, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist rows: %w", err)
	}
	return symbols, nil
}

// Replace stores symbols as the complete watchlist of userID.
func (r *WatchlistRepository) Replace(ctx context.Context, userID string, symbols []string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM watchlist WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}
	for i, s := range symbols {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO watchlist (user_id, symbol, position) VALUES (?, ?, ?)
		`, userID, s, i); err != nil {
			return fmt.Errorf("failed to insert watchlist symbol %s: %w", s, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit watchlist: %w", err)
	}
	return nil
}

// Clear removes every symbol of userID.
func (r *WatchlistRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM watchlist WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear watchlist: %w", err)
	}
	return nil
}
