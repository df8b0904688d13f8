package service

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Paper-Trading-Backend/internal/ledger"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = money.INR

// MoneyFormatter renders decimal amounts in one currency using the symbol and
// separators go-money defines for it.
type MoneyFormatter struct {
	currency *money.Currency
}

// NewMoneyFormatter creates a formatter for the ISO 4217 code. Unknown codes
// fall back to DefaultCurrency.
func NewMoneyFormatter(code string) MoneyFormatter {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	return MoneyFormatter{currency: cur}
}

// Code returns the ISO 4217 code of the formatter.
func (f MoneyFormatter) Code() string {
	return f.currency.Code
}

// Format renders amount rounded to the currency's minor unit.
func (f MoneyFormatter) Format(amount decimal.Decimal) string {
	minor := amount.Shift(int32(f.currency.Fraction)).Round(0).IntPart()
	return money.New(minor, f.currency.Code).Display()
}

// SummaryDisplay holds the amounts of a PortfolioSummary formatted for display.
type SummaryDisplay struct {
	TotalValue         string `json:"totalValue"`
	InvestedAmount     string `json:"investedAmount"`
	ProfitLoss         string `json:"profitLoss"`
	CashBalance        string `json:"cashBalance"`
	RealizedProfitLoss string `json:"realizedProfitLoss"`
	NetWorth           string `json:"netWorth"`
}

// SummaryView is a portfolio summary with its display strings.
type SummaryView struct {
	ledger.PortfolioSummary
	Currency  string         `json:"currency"`
	Formatted SummaryDisplay `json:"formatted"`
}

// View formats s.
func (f MoneyFormatter) View(s ledger.PortfolioSummary) SummaryView {
	return SummaryView{
		PortfolioSummary: s,
		Currency:         f.Code(),
		Formatted: SummaryDisplay{
			TotalValue:         f.Format(s.TotalValue),
			InvestedAmount:     f.Format(s.InvestedAmount),
			ProfitLoss:         f.Format(s.ProfitLoss),
			CashBalance:        f.Format(s.CashBalance),
			RealizedProfitLoss: f.Format(s.RealizedProfitLoss),
			NetWorth:           f.Format(s.NetWorth),
		},
	}
}
