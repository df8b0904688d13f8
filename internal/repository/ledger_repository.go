package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Paper-Trading-Backend/internal/ledger"
)

// LedgerRepository persists ledger states and performance samples, one
// account per user.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository with the provided database connection.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Load reads the ledger state of userID. The second return value is false
// when the user has no account yet.
func (r *LedgerRepository) Load(ctx context.Context, userID string) (ledger.State, bool, error) {
	var state ledger.State
	err := r.db.QueryRowContext(ctx, `
		SELECT initial_cash, cash_balance
		FROM account
		WHERE user_id = ?
	`, userID).Scan(&state.InitialCashBalance, &state.CashBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.State{}, false, nil
	}
	if err != nil {
		return ledger.State{}, false, fmt.Errorf("failed to query account: %w", err)
	}

	if state.Holdings, err = r.loadHoldings(ctx, userID); err != nil {
		return ledger.State{}, false, err
	}
	if state.Transactions, err = r.loadTransactions(ctx, userID); err != nil {
		return ledger.State{}, false, err
	}
	if state.RealizedGains, err = r.loadRealizedGains(ctx, userID); err != nil {
		return ledger.State{}, false, err
	}
	return state, true, nil
}

func (r *LedgerRepository) loadHoldings(ctx context.Context, userID string) ([]ledger.Holding, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, symbol, name, quantity, average_buy_price, investment_value, created_at, updated_at
		FROM holding
		WHERE user_id = ?
		ORDER BY position ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []ledger.Holding{}
	for rows.Next() {
		var h ledger.Holding
		var createdAt, updatedAt string
		if err := rows.Scan(&h.ID, &h.Symbol, &h.Name, &h.Quantity, &h.AverageBuyPrice,
			&h.InvestmentValue, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		if h.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, err
		}
		if h.UpdatedAt, err = ParseTime(updatedAt); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding rows: %w", err)
	}
	return holdings, nil
}

func (r *LedgerRepository) loadTransactions(ctx context.Context, userID string) ([]ledger.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, timestamp, symbol, name, side, quantity, price, total_value
		FROM ledger_transaction
		WHERE user_id = ?
		ORDER BY seq ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger_transaction table: %w", err)
	}
	defer rows.Close()

	txs := []ledger.Transaction{}
	for rows.Next() {
		var tx ledger.Transaction
		var ts string
		if err := rows.Scan(&tx.ID, &ts, &tx.Symbol, &tx.Name, &tx.Side, &tx.Quantity,
			&tx.Price, &tx.TotalValue); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if tx.Timestamp, err = ParseTime(ts); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txs, nil
}

func (r *LedgerRepository) loadRealizedGains(ctx context.Context, userID string) ([]ledger.RealizedGain, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT transaction_id, timestamp, symbol, quantity, cost_basis, proceeds, gain_loss
		FROM realized_gain
		WHERE user_id = ?
		ORDER BY seq ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query realized_gain table: %w", err)
	}
	defer rows.Close()

	gains := []ledger.RealizedGain{}
	for rows.Next() {
		var g ledger.RealizedGain
		var ts string
		if err := rows.Scan(&g.TransactionID, &ts, &g.Symbol, &g.Quantity, &g.CostBasis,
			&g.Proceeds, &g.GainLoss); err != nil {
			return nil, fmt.Errorf("failed to scan realized gain: %w", err)
		}
		if g.Timestamp, err = ParseTime(ts); err != nil {
			return nil, err
		}
		gains = append(gains, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realized gain rows: %w", err)
	}
	return gains, nil
}

// Save writes state as the ledger of userID in a single SQL transaction.
//
// The account row is upserted and the holdings are replaced. Transactions and
// realized gains are append-only: records already stored are kept, new ones
// are inserted in log order.
func (r *LedgerRepository) Save(ctx context.Context, userID string, state ledger.State) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return saveState(ctx, tx, userID, state)
	})
}

// Reset replaces the ledger of userID with state, discarding its
// transactions, realized gains and performance samples.
func (r *LedgerRepository) Reset(ctx context.Context, userID string, state ledger.State) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM account WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return saveState(ctx, tx, userID, state)
	})
}

func (r *LedgerRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ledger: %w", err)
	}
	return nil
}

func saveState(ctx context.Context, tx *sql.Tx, userID string, state ledger.State) error {
	now := formatTime(time.Now())
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO account (user_id, initial_cash, cash_balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			initial_cash = excluded.initial_cash,
			cash_balance = excluded.cash_balance,
			updated_at = excluded.updated_at
	`, userID, state.InitialCashBalance, state.CashBalance, now, now); err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM holding WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear holdings: %w", err)
	}
	for i, h := range state.Holdings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO holding (id, user_id, position, symbol, name, quantity, average_buy_price,
				investment_value, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, h.ID, userID, i, h.Symbol, h.Name, h.Quantity, h.AverageBuyPrice, h.InvestmentValue,
			formatTime(h.CreatedAt), formatTime(h.UpdatedAt)); err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.Symbol, err)
		}
	}

	for i, t := range state.Transactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ledger_transaction (id, user_id, seq, timestamp, symbol, name, side, quantity,
				price, total_value)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING
		`, t.ID, userID, i, formatTime(t.Timestamp), t.Symbol, t.Name, string(t.Side), t.Quantity,
			t.Price, t.TotalValue); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
		}
	}

	for i, g := range state.RealizedGains {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO realized_gain (transaction_id, user_id, seq, timestamp, symbol, quantity,
				cost_basis, proceeds, gain_loss)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (transaction_id) DO NOTHING
		`, g.TransactionID, userID, i, formatTime(g.Timestamp), g.Symbol, g.Quantity,
			g.CostBasis, g.Proceeds, g.GainLoss); err != nil {
			return fmt.Errorf("failed to insert realized gain %s: %w", g.TransactionID, err)
		}
	}
	return nil
}

// ListUsers returns the ids of all users with an account.
func (r *LedgerRepository) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM account ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return users, nil
}

// LoadPerformance returns the performance samples of userID, oldest first.
func (r *LedgerRepository) LoadPerformance(ctx context.Context, userID string) ([]ledger.PerformanceSample, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT timestamp, value
		FROM performance_sample
		WHERE user_id = ?
		ORDER BY timestamp ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance_sample table: %w", err)
	}
	defer rows.Close()

	samples := []ledger.PerformanceSample{}
	for rows.Next() {
		var s ledger.PerformanceSample
		var ts string
		if err := rows.Scan(&ts, &s.Value); err != nil {
			return nil, fmt.Errorf("failed to scan performance sample: %w", err)
		}
		if s.Timestamp, err = ParseTime(ts); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating performance rows: %w", err)
	}
	return samples, nil
}

// AppendPerformance stores one performance sample. The account of userID
// must exist.
func (r *LedgerRepository) AppendPerformance(ctx context.Context, userID string, s ledger.PerformanceSample) error {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO performance_sample (user_id, timestamp, value)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, timestamp) DO NOTHING
	`, userID, formatTime(s.Timestamp), s.Value); err != nil {
		return fmt.Errorf("failed to insert performance sample: %w", err)
	}
	return nil
}
