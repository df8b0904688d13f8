package market

import (
	"fmt"
	"slices"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Paper-Trading-Backend/internal/ledger"
)

// MaxWatchlistSize is the number of stocks a user can select at once.
const MaxWatchlistSize = 5

// Watchlist is an ordered set of selected symbols.
type Watchlist struct {
	symbols []string
}

// NewWatchlist builds a watchlist from stored symbols, dropping duplicates and
// anything beyond MaxWatchlistSize.
func NewWatchlist(symbols ...string) *Watchlist {
	w := &Watchlist{symbols: make([]string, 0, MaxWatchlistSize)}
	for _, s := range symbols {
		_, _ = w.Add(s)
	}
	return w
}

// Add appends symbol. Adding a symbol already present is a no-op and reports
// false. Adding to a full watchlist returns ErrWatchlistFull.
func (w *Watchlist) Add(symbol string) (bool, error) {
	symbol = ledger.NormalizeSymbol(symbol)
	if symbol == "" {
		return false, apperrors.ErrInvalidSymbol
	}
	if w.Contains(symbol) {
		return false, nil
	}
	if len(w.symbols) >= MaxWatchlistSize {
		return false, fmt.Errorf("cannot add %s, watchlist holds %d stocks: %w",
			symbol, MaxWatchlistSize, apperrors.ErrWatchlistFull)
	}
	w.symbols = append(w.symbols, symbol)
	return true, nil
}

// Remove deletes symbol and reports whether it was present.
func (w *Watchlist) Remove(symbol string) bool {
	i := slices.Index(w.symbols, ledger.NormalizeSymbol(symbol))
	if i < 0 {
		return false
	}
	w.symbols = slices.Delete(w.symbols, i, i+1)
	return true
}

// Clear empties the watchlist.
func (w *Watchlist) Clear() {
	w.symbols = w.symbols[:0]
}

// Contains reports whether symbol is selected.
func (w *Watchlist) Contains(symbol string) bool {
	return slices.Contains(w.symbols, ledger.NormalizeSymbol(symbol))
}

// Symbols returns the selected symbols in the order they were added.
func (w *Watchlist) Symbols() []string {
	return slices.Clone(w.symbols)
}

// Len returns the number of selected symbols.
func (w *Watchlist) Len() int {
	return len(w.symbols)
}
