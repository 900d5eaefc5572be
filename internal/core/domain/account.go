package domain

import "github.com/shopspring/decimal"

// Account is a currency-denominated balance bucket ("card" in the UI).
// Accounts are created once by the starter snapshot and never created or
// destroyed afterwards; only Balance is mutated, and only by the ledger.
type Account struct {
	ID       string          `json:"id"`
	Number   string          `json:"number"` // masked card/account number
	Balance  decimal.Decimal `json:"balance"`
	Currency Currency        `json:"currency"`
	Type     string          `json:"type"`   // display label, e.g. "USD Visa Card"
	Color    string          `json:"color"`  // visual style token
	Expiry   string          `json:"expiry"` // display label
}
