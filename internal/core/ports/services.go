package ports

import (
	"context"

	"novabank/internal/core/domain"

	"github.com/shopspring/decimal"
)

// LedgerService is the single mutation entry point for the ledger state.
// Each operation is all-or-nothing: the balance change, the appended
// transaction and the persisted snapshot either all happen or none do.
type LedgerService interface {
	Credit(ctx context.Context, req CreditRequest) (*domain.Transaction, error)
	Transfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error)
	Exchange(ctx context.Context, req ExchangeRequest) (*domain.Transaction, error)
	// Reset discards the persisted snapshot and reinitialises the default
	// state. It refuses to run unless confirm is true.
	Reset(ctx context.Context, confirm bool) error
	SetUserName(ctx context.Context, name string) error
	State(ctx context.Context) domain.Snapshot
}

// CreditRequest holds validated input for crediting an account.
type CreditRequest struct {
	AccountID string
	Amount    decimal.Decimal
}

// TransferRequest holds validated input for an outgoing transfer.
// Fee is optional; when nil the configured default fee rate applies.
type TransferRequest struct {
	Currency     domain.Currency
	Amount       decimal.Decimal
	Fee          *decimal.Decimal
	Counterparty string
}

// ExchangeRequest holds validated input for a currency exchange.
type ExchangeRequest struct {
	From   domain.Currency
	To     domain.Currency
	Amount decimal.Decimal
}

// RateService owns the externally refreshed rate table.
type RateService interface {
	// Current returns the latest known table (the fallback until the first
	// successful refresh).
	Current() domain.RateTable
	Refresh(ctx context.Context) error
}

// Advice is the assistant's analysis of the ledger state.
type Advice struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
}

// AdvisorService produces financial advice from the current ledger state.
// Failures degrade to canned advice; Advise never returns an error to the
// caller for upstream problems.
type AdvisorService interface {
	Advise(ctx context.Context) (*Advice, error)
}
