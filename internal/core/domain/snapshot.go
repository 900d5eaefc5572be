package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SchemaVersion is written into every persisted snapshot. Loaders reject
// snapshots with a newer version than they understand.
const SchemaVersion = 1

// Snapshot is the aggregate ledger state: the user display name, the fixed
// set of accounts and the append-only transaction log (newest first). It is
// persisted as a single serialized blob after every mutation.
type Snapshot struct {
	Version      int           `json:"version"`
	UserName     string        `json:"user_name"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
}

// DefaultSnapshot returns the fixed starter state: four zero-balance cards
// and an empty transaction log.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Version:  SchemaVersion,
		UserName: "Алексей",
		Accounts: []Account{
			{
				ID:       "c1",
				Number:   "•••• 4251",
				Balance:  decimal.Zero,
				Currency: CurrencyRUB,
				Type:     "RUB MIR Card",
				Color:    "linear-gradient(135deg, #1e293b 0%, #0f172a 100%)",
				Expiry:   "12/28",
			},
			{
				ID:       "c4",
				Number:   "TRC20 •••• 9921",
				Balance:  decimal.Zero,
				Currency: CurrencyUSDT,
				Type:     "USDT Crypto Card",
				Color:    "linear-gradient(135deg, #26A17B 0%, #1a7c5e 100%)",
				Expiry:   "∞",
			},
			{
				ID:       "c2",
				Number:   "•••• 8820",
				Balance:  decimal.Zero,
				Currency: CurrencyUSD,
				Type:     "USD Visa Card",
				Color:    "linear-gradient(135deg, #1d4ed8 0%, #1e3a8a 100%)",
				Expiry:   "05/27",
			},
			{
				ID:       "c3",
				Number:   "•••• 1109",
				Balance:  decimal.Zero,
				Currency: CurrencyEUR,
				Type:     "EUR MasterCard Card",
				Color:    "linear-gradient(135deg, #d97706 0%, #b45309 100%)",
				Expiry:   "09/26",
			},
		},
		Transactions: []Transaction{},
	}
}

// Clone returns a deep copy of the snapshot. Ledger operations work on a
// clone so a rejected or failed operation never leaks partial state.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Accounts = make([]Account, len(s.Accounts))
	copy(out.Accounts, s.Accounts)
	out.Transactions = make([]Transaction, len(s.Transactions))
	copy(out.Transactions, s.Transactions)
	return out
}

// Validate checks structural invariants of a loaded snapshot:
// supported schema version, valid currencies, unique account IDs and
// at most one account per currency (transfer and exchange resolve
// accounts by currency code).
func (s Snapshot) Validate() error {
	if s.Version > SchemaVersion {
		return fmt.Errorf("snapshot version %d is newer than supported %d", s.Version, SchemaVersion)
	}
	if len(s.Accounts) == 0 {
		return fmt.Errorf("snapshot has no accounts")
	}

	seenID := make(map[string]bool, len(s.Accounts))
	seenCurrency := make(map[Currency]bool, len(s.Accounts))
	for _, a := range s.Accounts {
		if a.ID == "" {
			return fmt.Errorf("account with empty id")
		}
		if seenID[a.ID] {
			return fmt.Errorf("duplicate account id %q", a.ID)
		}
		seenID[a.ID] = true
		if !a.Currency.Valid() {
			return fmt.Errorf("account %s: unsupported currency %q", a.ID, a.Currency)
		}
		if seenCurrency[a.Currency] {
			return fmt.Errorf("more than one account for currency %s", a.Currency)
		}
		seenCurrency[a.Currency] = true
	}
	return nil
}

// AccountByID returns the account with the given identifier, or nil.
func (s *Snapshot) AccountByID(id string) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return &s.Accounts[i]
		}
	}
	return nil
}

// AccountByCurrency returns the first account denominated in the given
// currency, or nil. Validate guarantees there is at most one.
func (s *Snapshot) AccountByCurrency(c Currency) *Account {
	for i := range s.Accounts {
		if s.Accounts[i].Currency == c {
			return &s.Accounts[i]
		}
	}
	return nil
}
