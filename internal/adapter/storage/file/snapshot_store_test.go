package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"novabank/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)

	snap, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)
	ctx := context.Background()

	snap := domain.DefaultSnapshot()
	snap.AccountByCurrency(domain.CurrencyRUB).Balance = decimal.NewFromFloat(897.5)
	snap.Transactions = []domain.Transaction{{
		ID:        "tx-1",
		AccountID: "c1",
		Type:      domain.TransactionTypeCredit,
		Amount:    decimal.NewFromInt(1000),
		Currency:  domain.CurrencyRUB,
		Category:  "Пополнение",
	}}

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, snap.UserName, loaded.UserName)
	assert.True(t, loaded.AccountByCurrency(domain.CurrencyRUB).Balance.Equal(decimal.NewFromFloat(897.5)))
	require.Len(t, loaded.Transactions, 1)
	assert.Equal(t, "tx-1", loaded.Transactions[0].ID)
	require.NoError(t, loaded.Validate())
}

func TestSnapshotStore_SaveOverwrites(t *testing.T) {
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)
	ctx := context.Background()

	first := domain.DefaultSnapshot()
	first.UserName = "Первый"
	require.NoError(t, store.Save(ctx, first))

	second := domain.DefaultSnapshot()
	second.UserName = "Второй"
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Второй", loaded.UserName)
}

func TestSnapshotStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := NewSnapshotStore(path)
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.ErrorContains(t, err, "decoding snapshot")
}

func TestSnapshotStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.json")
	store, err := NewSnapshotStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), domain.DefaultSnapshot()))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSnapshotStore_Health(t *testing.T) {
	store, err := NewSnapshotStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)

	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, "file", store.Name())
}
