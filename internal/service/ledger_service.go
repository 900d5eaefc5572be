package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"novabank/internal/core/domain"
	"novabank/internal/core/ports"
	"novabank/internal/ledger"
	"novabank/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. A single mutex guards
// the whole ledger: every operation runs as one critical section covering
// validation, the balance change, the transaction append and the snapshot
// write. The in-memory state only advances after the store accepts the new
// snapshot, so a persistence failure leaves the ledger exactly as it was.
type LedgerServiceImpl struct {
	mu      sync.Mutex
	state   domain.Snapshot
	core    *ledger.Core
	store   ports.SnapshotStore
	rates   ports.RateService
	feeRate decimal.Decimal // default transfer fee rate, e.g. 0.025
	log     zerolog.Logger
}

// NewLedgerService loads the persisted snapshot (or initialises the default
// state when none exists) and returns a ready service.
func NewLedgerService(ctx context.Context, store ports.SnapshotStore, core *ledger.Core, rates ports.RateService, feeRate decimal.Decimal, log zerolog.Logger) (*LedgerServiceImpl, error) {
	if feeRate.IsNegative() {
		return nil, fmt.Errorf("transfer fee rate must not be negative")
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if snap == nil {
		def := domain.DefaultSnapshot()
		snap = &def
		log.Info().Msg("no persisted snapshot, starting from default state")
	} else if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("persisted snapshot invalid: %w", err)
	}

	return &LedgerServiceImpl{
		state:   *snap,
		core:    core,
		store:   store,
		rates:   rates,
		feeRate: feeRate,
		log:     log,
	}, nil
}

// Credit implements ports.LedgerService.
func (s *LedgerServiceImpl) Credit(ctx context.Context, req ports.CreditRequest) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, txn, err := s.core.Credit(s.state, req.AccountID, req.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("account_id", txn.AccountID).
		Str("amount", txn.Amount.String()).
		Str("currency", string(txn.Currency)).
		Msg("account credited")

	return txn, nil
}

// Transfer implements ports.LedgerService. When the request carries no fee
// the configured default rate is applied to the display amount.
func (s *LedgerServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.Transaction, error) {
	fee := s.feeRate.Mul(req.Amount)
	if req.Fee != nil {
		fee = *req.Fee
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next, txn, err := s.core.DebitForTransfer(s.state, req.Currency, req.Amount, fee, req.Counterparty)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("amount", txn.Amount.String()).
		Str("fee", fee.String()).
		Str("currency", string(txn.Currency)).
		Str("counterparty", txn.Counterparty).
		Msg("transfer debited")

	return txn, nil
}

// Exchange implements ports.LedgerService. The current rate table is read
// once and handed to the core as a plain input; the ledger itself never
// fetches rates.
func (s *LedgerServiceImpl) Exchange(ctx context.Context, req ports.ExchangeRequest) (*domain.Transaction, error) {
	rates := s.rates.Current()

	s.mu.Lock()
	defer s.mu.Unlock()

	next, txn, err := s.core.Exchange(s.state, req.From, req.To, req.Amount, rates)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", txn.ID).
		Str("from", string(req.From)).
		Str("to", string(req.To)).
		Str("amount", txn.Amount.String()).
		Msg("currencies exchanged")

	return txn, nil
}

// Reset implements ports.LedgerService. It is destructive and irreversible,
// so the caller must pass confirm=true.
func (s *LedgerServiceImpl) Reset(ctx context.Context, confirm bool) error {
	if !confirm {
		return apperror.ErrConfirmationRequired()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, domain.DefaultSnapshot()); err != nil {
		return err
	}

	s.log.Warn().Msg("ledger reset to default state")
	return nil
}

// SetUserName updates the display name and persists the snapshot. No
// transaction is recorded: the name is not a balance-affecting attribute.
func (s *LedgerServiceImpl) SetUserName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.Validation("name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	next.UserName = name
	return s.commit(ctx, next)
}

// State returns a deep copy of the current ledger state.
func (s *LedgerServiceImpl) State(_ context.Context) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// commit persists the candidate snapshot and, only on success, makes it the
// current state. Callers must hold the mutex.
func (s *LedgerServiceImpl) commit(ctx context.Context, next domain.Snapshot) error {
	if err := s.store.Save(ctx, next); err != nil {
		s.log.Error().Err(err).Msg("snapshot persistence failed, state unchanged")
		return apperror.ErrSnapshotError(err)
	}
	s.state = next
	return nil
}
