// Package ledger implements the state-transition rules for the wallet:
// how balances, the transaction log and currency conversions stay
// consistent as operations are applied.
//
// Operations are pure: they take a Snapshot, validate every precondition
// before touching anything, and return a new Snapshot plus the appended
// transaction. A rejected operation returns the zero Snapshot and an
// *apperror.AppError; the input is never modified. Callers provide the
// critical section and persistence (see internal/service).
package ledger

import (
	"fmt"
	"time"

	"novabank/internal/core/domain"
	"novabank/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Core applies ledger operations. The clock and ID source are injected so
// tests can pin timestamps and identifiers.
type Core struct {
	clock func() time.Time
	newID func() string
}

// New creates a Core using the wall clock and random UUIDs.
func New() *Core {
	return &Core{
		clock: func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

// NewWithDeps creates a Core with an explicit clock and ID source.
func NewWithDeps(clock func() time.Time, newID func() string) *Core {
	return &Core{clock: clock, newID: newID}
}

// Credit adds amount to the identified account and appends a credit entry.
// Unknown accounts are rejected explicitly rather than silently ignored.
func (c *Core) Credit(snap domain.Snapshot, accountID string, amount decimal.Decimal) (domain.Snapshot, *domain.Transaction, error) {
	if !amount.IsPositive() {
		return domain.Snapshot{}, nil, apperror.ErrInvalidAmount()
	}

	out := snap.Clone()
	acc := out.AccountByID(accountID)
	if acc == nil {
		return domain.Snapshot{}, nil, apperror.ErrUnknownAccount(accountID)
	}

	acc.Balance = acc.Balance.Add(amount)

	txn := domain.Transaction{
		ID:           c.newID(),
		AccountID:    acc.ID,
		Type:         domain.TransactionTypeCredit,
		Amount:       amount,
		Currency:     acc.Currency,
		Category:     "Пополнение",
		Counterparty: "Пополнение счета",
		CreatedAt:    c.clock(),
		Icon:         "plus",
	}
	prepend(&out, txn)

	return out, &txn, nil
}

// DebitForTransfer subtracts amount+fee from the account denominated in
// currency and appends a single debit entry. The entry records the display
// amount; the fee is kept on the same entry, not as a separate movement.
func (c *Core) DebitForTransfer(snap domain.Snapshot, currency domain.Currency, amount, fee decimal.Decimal, counterparty string) (domain.Snapshot, *domain.Transaction, error) {
	if !amount.IsPositive() || fee.IsNegative() {
		return domain.Snapshot{}, nil, apperror.ErrInvalidAmount()
	}

	out := snap.Clone()
	acc := out.AccountByCurrency(currency)
	if acc == nil {
		return domain.Snapshot{}, nil, apperror.ErrUnknownAccount(string(currency))
	}

	total := amount.Add(fee)
	if acc.Balance.LessThan(total) {
		return domain.Snapshot{}, nil, apperror.ErrInsufficientFunds()
	}

	acc.Balance = acc.Balance.Sub(total)

	if counterparty == "" {
		counterparty = "Перевод"
	}
	txn := domain.Transaction{
		ID:           c.newID(),
		AccountID:    acc.ID,
		Type:         domain.TransactionTypeDebit,
		Amount:       amount,
		Currency:     acc.Currency,
		Category:     "Перевод",
		Counterparty: counterparty,
		CreatedAt:    c.clock(),
		Icon:         "send",
		Fee:          &fee,
	}
	prepend(&out, txn)

	return out, &txn, nil
}

// Exchange moves amountFrom out of the from-currency account and credits
// the to-currency account with amountFrom * rates[to]/rates[from]. Both
// balance changes and the single exchange entry are one atomic step.
func (c *Core) Exchange(snap domain.Snapshot, from, to domain.Currency, amountFrom decimal.Decimal, rates domain.RateTable) (domain.Snapshot, *domain.Transaction, error) {
	if !amountFrom.IsPositive() {
		return domain.Snapshot{}, nil, apperror.ErrInvalidAmount()
	}
	if from == to {
		return domain.Snapshot{}, nil, apperror.ErrSameCurrencyExchange()
	}

	out := snap.Clone()
	accFrom := out.AccountByCurrency(from)
	if accFrom == nil {
		return domain.Snapshot{}, nil, apperror.ErrUnknownAccount(string(from))
	}
	accTo := out.AccountByCurrency(to)
	if accTo == nil {
		return domain.Snapshot{}, nil, apperror.ErrUnknownAccount(string(to))
	}

	rateFrom, ok := rates[from]
	if !ok || !rateFrom.IsPositive() {
		return domain.Snapshot{}, nil, apperror.ErrUnknownCurrency(string(from))
	}
	rateTo, ok := rates[to]
	if !ok || !rateTo.IsPositive() {
		return domain.Snapshot{}, nil, apperror.ErrUnknownCurrency(string(to))
	}

	if accFrom.Balance.LessThan(amountFrom) {
		return domain.Snapshot{}, nil, apperror.ErrInsufficientFunds()
	}

	// amountTo = amountFrom * rates[to]/rates[from], multiplied before
	// dividing to keep precision.
	amountTo := amountFrom.Mul(rateTo).Div(rateFrom)

	accFrom.Balance = accFrom.Balance.Sub(amountFrom)
	accTo.Balance = accTo.Balance.Add(amountTo)

	fromMeta, toMeta := from, to
	txn := domain.Transaction{
		ID:           c.newID(),
		AccountID:    accFrom.ID,
		Type:         domain.TransactionTypeExchange,
		Amount:       amountFrom,
		Currency:     from,
		Category:     "Обмен",
		Counterparty: fmt.Sprintf("Обмен %s на %s", from, to),
		CreatedAt:    c.clock(),
		Icon:         "swap",
		FromCurrency: &fromMeta,
		ToCurrency:   &toMeta,
	}
	prepend(&out, txn)

	return out, &txn, nil
}

// prepend inserts the entry at the head of the log: insertion order is
// newest first.
func prepend(snap *domain.Snapshot, txn domain.Transaction) {
	snap.Transactions = append([]domain.Transaction{txn}, snap.Transactions...)
}
