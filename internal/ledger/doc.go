// Package ledger implements the portfolio ledger engine of a simulated
// single-account stock portfolio.
//
// A Ledger owns the cash balance, the set of holdings and the append-only
// transaction log of one user. Buy and Sell are the only operations that
// mutate it; they validate first and then apply every effect at once, so a
// rejected trade leaves the ledger exactly as it was.
//
// Cost basis is tracked as a weighted average: every holding stores the
// cumulative amount invested in its currently held shares. A buy adds its
// cost to that amount, a partial sell scales it proportionally with the shares
// that remain, and a full sell removes the holding.
//
// Derived views (summary, allocation, per-holding P/L) are computed on demand
// from a State and a PriceSource and are never stored.
//
// All amounts are decimal.Decimal so cash and cost basis are conserved
// exactly across any sequence of trades and survive a JSON round-trip without
// rounding.
package ledger
