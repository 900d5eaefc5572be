// Package dto carries the request and response bodies of the HTTP API.
// Monetary amounts travel as decimal strings ("1500.50") so no precision
// is lost between the wire and the ledger.
package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"novabank/internal/core/domain"
)

// TopupRequest is the request body for crediting an account.
type TopupRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// TransferRequest is the request body for an outgoing transfer.
// Fee is optional; when omitted the server applies its configured rate.
type TransferRequest struct {
	Currency     string  `json:"currency" binding:"required,currency"`
	Amount       string  `json:"amount" binding:"required"`
	Fee          *string `json:"fee,omitempty"`
	Counterparty string  `json:"counterparty" binding:"required,min=1,max=100"`
}

// VerifyRecipientRequest is the request body for recipient lookup.
type VerifyRecipientRequest struct {
	Phone string `json:"phone" binding:"required,min=5,max=20"`
}

// VerifyRecipientResponse carries the resolved recipient display name.
type VerifyRecipientResponse struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// ExchangeRequest is the request body for a currency exchange.
type ExchangeRequest struct {
	From   string `json:"from" binding:"required,currency"`
	To     string `json:"to" binding:"required,currency"`
	Amount string `json:"amount" binding:"required"`
}

// ResetRequest is the request body for discarding all ledger state.
type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

// UpdateNameRequest is the request body for renaming the ledger owner.
type UpdateNameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// AccountResponse is one account in API responses.
type AccountResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	Expiry   string `json:"expiry"`
}

// TransactionResponse is one ledger entry in API responses.
type TransactionResponse struct {
	ID           string  `json:"id"`
	AccountID    string  `json:"account_id"`
	Type         string  `json:"type"`
	Amount       string  `json:"amount"`
	Currency     string  `json:"currency"`
	Category     string  `json:"category"`
	Counterparty string  `json:"counterparty"`
	CreatedAt    string  `json:"created_at"`
	Icon         string  `json:"icon"`
	Fee          *string `json:"fee,omitempty"`
	FromCurrency *string `json:"from_currency,omitempty"`
	ToCurrency   *string `json:"to_currency,omitempty"`
}

// TransactionListResponse wraps a newest-first transaction slice.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int                   `json:"total"`
}

// LedgerResponse is the full ledger state.
type LedgerResponse struct {
	UserName     string                `json:"user_name"`
	Accounts     []AccountResponse     `json:"accounts"`
	Transactions []TransactionResponse `json:"transactions"`
}

// RatesResponse carries the current rate table, keyed by currency code,
// valued in units per 1 USD.
type RatesResponse struct {
	Base  string            `json:"base"`
	Rates map[string]string `json:"rates"`
}

// AdviceResponse is the assistant's analysis of the ledger.
type AdviceResponse struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
}

// ParseAmount parses a positive decimal amount from its wire form.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q is not a valid decimal", s)
	}
	return d, nil
}

// ToAccountResponse maps a domain account to its wire form.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:       a.ID,
		Number:   a.Number,
		Balance:  a.Balance.String(),
		Currency: string(a.Currency),
		Type:     a.Type,
		Color:    a.Color,
		Expiry:   a.Expiry,
	}
}

// ToTransactionResponse maps a domain transaction to its wire form.
func ToTransactionResponse(tx domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:           tx.ID,
		AccountID:    tx.AccountID,
		Type:         string(tx.Type),
		Amount:       tx.Amount.String(),
		Currency:     string(tx.Currency),
		Category:     tx.Category,
		Counterparty: tx.Counterparty,
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339),
		Icon:         tx.Icon,
	}
	if tx.Fee != nil {
		fee := tx.Fee.String()
		resp.Fee = &fee
	}
	if tx.FromCurrency != nil {
		from := string(*tx.FromCurrency)
		resp.FromCurrency = &from
	}
	if tx.ToCurrency != nil {
		to := string(*tx.ToCurrency)
		resp.ToCurrency = &to
	}
	return resp
}

// ToLedgerResponse maps a full snapshot to its wire form.
func ToLedgerResponse(snap domain.Snapshot) LedgerResponse {
	accounts := make([]AccountResponse, 0, len(snap.Accounts))
	for _, a := range snap.Accounts {
		accounts = append(accounts, ToAccountResponse(a))
	}
	txs := make([]TransactionResponse, 0, len(snap.Transactions))
	for _, tx := range snap.Transactions {
		txs = append(txs, ToTransactionResponse(tx))
	}
	return LedgerResponse{
		UserName:     snap.UserName,
		Accounts:     accounts,
		Transactions: txs,
	}
}
