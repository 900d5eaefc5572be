package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of ledger movement.
type TransactionType string

const (
	TransactionTypeCredit   TransactionType = "credit"
	TransactionTypeDebit    TransactionType = "debit"
	TransactionTypeExchange TransactionType = "exchange"
)

// Transaction is an immutable, append-only record of one balance-affecting
// event. For debits the Amount is the display amount; any fee is recorded
// on the same entry and absorbed into the single balance movement.
type Transaction struct {
	ID           string           `json:"id"`
	AccountID    string           `json:"account_id"`
	Type         TransactionType  `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	Currency     Currency         `json:"currency"`
	Category     string           `json:"category"`
	Counterparty string           `json:"counterparty"`
	CreatedAt    time.Time        `json:"created_at"`
	Icon         string           `json:"icon"`
	Fee          *decimal.Decimal `json:"fee,omitempty"`
	FromCurrency *Currency        `json:"from_currency,omitempty"` // exchange only
	ToCurrency   *Currency        `json:"to_currency,omitempty"`   // exchange only
}

// IsExchange reports whether the entry records a currency exchange.
func (t *Transaction) IsExchange() bool {
	return t.Type == TransactionTypeExchange
}
