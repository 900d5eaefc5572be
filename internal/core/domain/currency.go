package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the fixed set of units an account can be denominated in.
type Currency string

const (
	CurrencyRUB  Currency = "RUB"
	CurrencyUSD  Currency = "USD"
	CurrencyEUR  Currency = "EUR"
	CurrencyUSDT Currency = "USDT"
)

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyRUB, CurrencyUSD, CurrencyEUR, CurrencyUSDT:
		return true
	}
	return false
}

// ParseCurrency normalises and validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}

// RateTable maps a currency code to its scalar rate relative to a common
// base unit (USD in the default table). It is supplied by an external
// collaborator; the ledger never fetches rates itself.
type RateTable map[Currency]decimal.Decimal

// Rate returns the conversion factor from one currency to another,
// computed as table[to] / table[from].
func (t RateTable) Rate(from, to Currency) (decimal.Decimal, error) {
	rf, ok := t[from]
	if !ok || !rf.IsPositive() {
		return decimal.Zero, fmt.Errorf("no rate for %s", from)
	}
	rt, ok := t[to]
	if !ok || !rt.IsPositive() {
		return decimal.Zero, fmt.Errorf("no rate for %s", to)
	}
	return rt.Div(rf), nil
}

// Clone returns an independent copy of the table.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for c, r := range t {
		out[c] = r
	}
	return out
}

// FallbackRates is the table used until the first successful refresh,
// and kept when a refresh fails. USD is the base; USDT is pegged at 1.
func FallbackRates() RateTable {
	return RateTable{
		CurrencyRUB:  decimal.NewFromInt(92),
		CurrencyUSD:  decimal.NewFromInt(1),
		CurrencyEUR:  decimal.NewFromFloat(0.92),
		CurrencyUSDT: decimal.NewFromInt(1),
	}
}
