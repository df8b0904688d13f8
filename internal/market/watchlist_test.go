package market

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Paper-Trading-Backend/internal/apperrors"
)

func TestWatchlist(t *testing.T) {
	w := NewWatchlist()

	for _, s := range []string{"RELIANCE", "tcs", "HDFCBANK", "INFY", "ICICIBANK"} {
		added, err := w.Add(s)
		require.NoError(t, err)
		assert.True(t, added)
	}

	t.Run("duplicate is a no-op", func(t *testing.T) {
		added, err := w.Add("TCS")
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, 5, w.Len())
	})

	t.Run("sixth symbol is rejected", func(t *testing.T) {
		_, err := w.Add("HINDUNILVR")
		if !errors.Is(err, apperrors.ErrWatchlistFull) {
			t.Errorf("Expected ErrWatchlistFull, got %v", err)
		}
		assert.False(t, w.Contains("HINDUNILVR"))
	})

	t.Run("remove preserves order", func(t *testing.T) {
		assert.True(t, w.Remove("hdfcbank"))
		assert.False(t, w.Remove("HDFCBANK"))
		assert.Equal(t, []string{"RELIANCE", "TCS", "INFY", "ICICIBANK"}, w.Symbols())

		added, err := w.Add("HINDUNILVR")
		require.NoError(t, err)
		assert.True(t, added)
	})

	t.Run("clear", func(t *testing.T) {
		w.Clear()
		assert.Equal(t, 0, w.Len())
		assert.Empty(t, w.Symbols())
	})

	t.Run("empty symbol", func(t *testing.T) {
		_, err := w.Add("  ")
		assert.ErrorIs(t, err, apperrors.ErrInvalidSymbol)
	})
}

func TestNewWatchlist_TruncatesStoredSymbols(t *testing.T) {
	w := NewWatchlist("A", "B", "A", "C", "D", "E", "F")

	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, w.Symbols())
}
