package service

import (
	"context"
	"fmt"
	"testing"

	"novabank/internal/core/domain"
	"novabank/internal/core/ports"
	"novabank/internal/core/ports/mocks"
	"novabank/internal/ledger"
	"novabank/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type ledgerTestDeps struct {
	svc   *LedgerServiceImpl
	store *mocks.MockSnapshotStore
	rates *mocks.MockRateService
	ctrl  *gomock.Controller
}

func setupLedgerService(t *testing.T, persisted *domain.Snapshot) *ledgerTestDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		store: mocks.NewMockSnapshotStore(ctrl),
		rates: mocks.NewMockRateService(ctrl),
		ctrl:  ctrl,
	}

	d.store.EXPECT().Load(gomock.Any()).Return(persisted, nil)

	svc, err := NewLedgerService(context.Background(), d.store, ledger.New(), d.rates,
		decimal.NewFromFloat(0.025), zerolog.Nop())
	require.NoError(t, err)
	d.svc = svc
	return d
}

func fundedSnapshot(t *testing.T, cur domain.Currency, balance int64) *domain.Snapshot {
	t.Helper()
	snap := domain.DefaultSnapshot()
	acc := snap.AccountByCurrency(cur)
	require.NotNil(t, acc)
	acc.Balance = decimal.NewFromInt(balance)
	return &snap
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok, "expected *apperror.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestNewLedgerService_DefaultsWhenEmpty(t *testing.T) {
	d := setupLedgerService(t, nil)
	defer d.ctrl.Finish()

	state := d.svc.State(context.Background())
	assert.Equal(t, "Алексей", state.UserName)
	assert.Len(t, state.Accounts, 4)
	assert.Empty(t, state.Transactions)
}

func TestNewLedgerService_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	rates := mocks.NewMockRateService(ctrl)
	store.EXPECT().Load(gomock.Any()).Return(nil, fmt.Errorf("corrupt file"))

	_, err := NewLedgerService(context.Background(), store, ledger.New(), rates,
		decimal.Zero, zerolog.Nop())
	assert.ErrorContains(t, err, "loading snapshot")
}

func TestNewLedgerService_InvalidSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSnapshotStore(ctrl)
	rates := mocks.NewMockRateService(ctrl)

	bad := domain.DefaultSnapshot()
	bad.Accounts = append(bad.Accounts, domain.Account{ID: "c9", Currency: domain.CurrencyRUB})
	store.EXPECT().Load(gomock.Any()).Return(&bad, nil)

	_, err := NewLedgerService(context.Background(), store, ledger.New(), rates,
		decimal.Zero, zerolog.Nop())
	assert.ErrorContains(t, err, "invalid")
}

func TestCredit_SavesBeforeCommit(t *testing.T) {
	d := setupLedgerService(t, nil)
	defer d.ctrl.Finish()
	ctx := context.Background()

	var saved domain.Snapshot
	d.store.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, snap domain.Snapshot) error {
			saved = snap
			return nil
		})

	txn, err := d.svc.Credit(ctx, ports.CreditRequest{AccountID: "c1", Amount: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	require.NotNil(t, txn)

	// The persisted snapshot already carries the mutation.
	assert.True(t, saved.AccountByID("c1").Balance.Equal(decimal.NewFromInt(1000)))
	require.Len(t, saved.Transactions, 1)

	state := d.svc.State(ctx)
	assert.True(t, state.AccountByID("c1").Balance.Equal(decimal.NewFromInt(1000)))
}

func TestCredit_PersistFailureLeavesStateUnchanged(t *testing.T) {
	d := setupLedgerService(t, nil)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.store.EXPECT().Save(ctx, gomock.Any()).Return(fmt.Errorf("disk full")).Times(2)

	for i := 0; i < 2; i++ {
		_, err := d.svc.Credit(ctx, ports.CreditRequest{AccountID: "c1", Amount: decimal.NewFromInt(500)})
		assertAppErrorCode(t, err, "SYS_002")

		state := d.svc.State(ctx)
		assert.True(t, state.AccountByID("c1").Balance.IsZero())
		assert.Empty(t, state.Transactions)
	}
}

func TestCredit_RejectionDoesNotTouchStore(t *testing.T) {
	d := setupLedgerService(t, nil)
	defer d.ctrl.Finish()

	// No Save expectation: a rejected operation must not persist anything.
	_, err := d.svc.Credit(context.Background(), ports.CreditRequest{AccountID: "nope", Amount: decimal.NewFromInt(10)})
	assertAppErrorCode(t, err, "LED_003")
}

func TestTransfer_DefaultFeeApplied(t *testing.T) {
	d := setupLedgerService(t, fundedSnapshot(t, domain.CurrencyRUB, 1000))
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.store.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	txn, err := d.svc.Transfer(ctx, ports.TransferRequest{
		Currency:     domain.CurrencyRUB,
		Amount:       decimal.NewFromInt(100),
		Counterparty: "Петров П.П.",
	})
	require.NoError(t, err)

	// 2.5% default fee: balance 1000 - 100 - 2.5 = 897.5.
	require.NotNil(t, txn.Fee)
	assert.True(t, txn.Fee.Equal(decimal.NewFromFloat(2.5)))

	state := d.svc.State(ctx)
	assert.True(t, state.AccountByCurrency(domain.CurrencyRUB).Balance.Equal(decimal.NewFromFloat(897.5)))
}

func TestTransfer_ExplicitFeeOverridesDefault(t *testing.T) {
	d := setupLedgerService(t, fundedSnapshot(t, domain.CurrencyUSD, 200))
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.store.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	fee := decimal.Zero
	txn, err := d.svc.Transfer(ctx, ports.TransferRequest{
		Currency: domain.CurrencyUSD,
		Amount:   decimal.NewFromInt(50),
		Fee:      &fee,
	})
	require.NoError(t, err)
	assert.True(t, txn.Fee.IsZero())

	state := d.svc.State(ctx)
	assert.True(t, state.AccountByCurrency(domain.CurrencyUSD).Balance.Equal(decimal.NewFromInt(150)))
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	d := setupLedgerService(t, fundedSnapshot(t, domain.CurrencyRUB, 100))
	defer d.ctrl.Finish()

	fee := decimal.NewFromInt(5)
	_, err := d.svc.Transfer(context.Background(), ports.TransferRequest{
		Currency:     domain.CurrencyRUB,
		Amount:       decimal.NewFromInt(100),
		Fee:          &fee,
		Counterparty: "Перевод",
	})
	assertAppErrorCode(t, err, "LED_001")

	state := d.svc.State(context.Background())
	assert.True(t, state.AccountByCurrency(domain.CurrencyRUB).Balance.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, state.Transactions)
}

func TestExchange_UsesCurrentRates(t *testing.T) {
	d := setupLedgerService(t, fundedSnapshot(t, domain.CurrencyRUB, 1000))
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.rates.EXPECT().Current().Return(domain.RateTable{
		domain.CurrencyRUB: decimal.NewFromInt(92),
		domain.CurrencyUSD: decimal.NewFromInt(1),
	})
	d.store.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	txn, err := d.svc.Exchange(ctx, ports.ExchangeRequest{
		From:   domain.CurrencyRUB,
		To:     domain.CurrencyUSD,
		Amount: decimal.NewFromInt(920),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeExchange, txn.Type)

	state := d.svc.State(ctx)
	assert.True(t, state.AccountByCurrency(domain.CurrencyRUB).Balance.Equal(decimal.NewFromInt(80)))
	assert.True(t, state.AccountByCurrency(domain.CurrencyUSD).Balance.Equal(decimal.NewFromInt(10)))
}

func TestExchange_SameCurrencyRejected(t *testing.T) {
	d := setupLedgerService(t, fundedSnapshot(t, domain.CurrencyUSD, 1000))
	defer d.ctrl.Finish()

	d.rates.EXPECT().Current().Return(domain.FallbackRates())

	_, err := d.svc.Exchange(context.Background(), ports.ExchangeRequest{
		From:   domain.CurrencyUSD,
		To:     domain.CurrencyUSD,
		Amount: decimal.NewFromInt(50),
	})
	assertAppErrorCode(t, err, "LED_004")
}

func TestReset_RequiresConfirmation(t *testing.T) {
	d := setupLedgerService(t, fundedSnapshot(t, domain.CurrencyRUB, 1000))
	defer d.ctrl.Finish()

	err := d.svc.Reset(context.Background(), false)
	assertAppErrorCode(t, err, "LED_006")

	state := d.svc.State(context.Background())
	assert.True(t, state.AccountByCurrency(domain.CurrencyRUB).Balance.Equal(decimal.NewFromInt(1000)))
}

func TestReset_Confirmed(t *testing.T) {
	d := setupLedgerService(t, fundedSnapshot(t, domain.CurrencyRUB, 1000))
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.store.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	require.NoError(t, d.svc.Reset(ctx, true))

	state := d.svc.State(ctx)
	assert.True(t, state.AccountByCurrency(domain.CurrencyRUB).Balance.IsZero())
	assert.Empty(t, state.Transactions)
	assert.Equal(t, "Алексей", state.UserName)
}

func TestSetUserName(t *testing.T) {
	d := setupLedgerService(t, nil)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.store.EXPECT().Save(ctx, gomock.Any()).Return(nil)

	require.NoError(t, d.svc.SetUserName(ctx, "  Мария  "))
	assert.Equal(t, "Мария", d.svc.State(ctx).UserName)
}

func TestSetUserName_Empty(t *testing.T) {
	d := setupLedgerService(t, nil)
	defer d.ctrl.Finish()

	err := d.svc.SetUserName(context.Background(), "   ")
	assertAppErrorCode(t, err, "LED_002")
}

func TestState_ReturnsCopy(t *testing.T) {
	d := setupLedgerService(t, fundedSnapshot(t, domain.CurrencyRUB, 300))
	defer d.ctrl.Finish()
	ctx := context.Background()

	state := d.svc.State(ctx)
	state.AccountByCurrency(domain.CurrencyRUB).Balance = decimal.Zero

	again := d.svc.State(ctx)
	assert.True(t, again.AccountByCurrency(domain.CurrencyRUB).Balance.Equal(decimal.NewFromInt(300)))
}
