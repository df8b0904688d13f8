package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrHoldingNotFound indicates that a sell referenced a holding that is not
	// (or no longer) present in the ledger, e.g. because it was fully sold.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrStockNotFound indicates that a stock symbol is not part of the catalog.
	ErrStockNotFound = errors.New("stock not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientFunds indicates that a buy costs more than the available cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares indicates that a sell transaction cannot be completed
	// because the ledger does not hold enough shares of the stock.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrInvalidQuantity indicates that a trade quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidPrice indicates that a trade price is not a positive amount.
	ErrInvalidPrice = errors.New("price must be positive")

	// ErrInvalidSymbol indicates that a trade was submitted without a stock symbol.
	ErrInvalidSymbol = errors.New("symbol is required")

	// ErrInvalidOrderType indicates an order type other than buy or sell.
	ErrInvalidOrderType = errors.New("order type must be buy or sell")

	// ErrWatchlistFull indicates that the watchlist already holds the maximum number of symbols.
	ErrWatchlistFull = errors.New("watchlist is full")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidSignal indicates a screener filter on an unknown signal.
	ErrInvalidSignal = errors.New("signal must be buy, sell or hold")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrMissingUserContext indicates a request reached a user-scoped route
	// without an authenticated user id.
	ErrMissingUserContext = errors.New("missing user context")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Ledger operation errors
	ErrFailedToLoadLedger        = errors.New("failed to load ledger")
	ErrFailedToSaveLedger        = errors.New("failed to save ledger")
	ErrFailedToExecuteTrade      = errors.New("failed to execute trade")
	ErrFailedToGetSummary        = errors.New("failed to get portfolio summary")
	ErrFailedToGetPerformance    = errors.New("failed to get portfolio performance")
	ErrFailedToRetrieveHoldings  = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveTxns      = errors.New("failed to retrieve transactions")
	ErrFailedToResetLedger       = errors.New("failed to reset ledger")
	ErrFailedToRecordPerformance = errors.New("failed to record performance sample")

	// Stock operation errors
	ErrFailedToRetrieveStocks = errors.New("failed to retrieve stocks")
	ErrFailedToRetrieveStock  = errors.New("failed to retrieve stock")
	ErrFailedToRefreshPrices  = errors.New("failed to refresh prices")
	ErrPriceRefreshDisabled   = errors.New("price refresh is disabled")

	// Watchlist operation errors
	ErrFailedToRetrieveWatchlist = errors.New("failed to retrieve watchlist")
	ErrFailedToUpdateWatchlist   = errors.New("failed to update watchlist")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a persisted holding with zero quantity or a negative cash balance).
	ErrDataInconsistency = errors.New("data inconsistency detected")

)
