package redis

import (
	"context"
	"testing"

	"novabank/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SnapshotStore, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	return NewSnapshotStore(client), s
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	snap, err := store.Load(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	snap := domain.DefaultSnapshot()
	snap.UserName = "Мария"
	snap.AccountByCurrency(domain.CurrencyUSDT).Balance = decimal.NewFromFloat(10.5)

	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Мария", loaded.UserName)
	assert.True(t, loaded.AccountByCurrency(domain.CurrencyUSDT).Balance.Equal(decimal.NewFromFloat(10.5)))
	require.NoError(t, loaded.Validate())
}

func TestSnapshotStore_SaveReplaces(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := domain.DefaultSnapshot()
	require.NoError(t, store.Save(ctx, first))

	second := domain.DefaultSnapshot()
	second.Transactions = []domain.Transaction{{ID: "tx-9", Type: domain.TransactionTypeCredit}}
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Transactions, 1)
	assert.Equal(t, "tx-9", loaded.Transactions[0].ID)
}

func TestSnapshotStore_LoadCorrupt(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set(defaultSnapshotKey, "{broken"))

	_, err := store.Load(context.Background())
	assert.ErrorContains(t, err, "decoding snapshot")
}

func TestHealthCheck(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})

	hc := NewHealthCheck(client)
	assert.Equal(t, "redis", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))

	s.Close()
	assert.Error(t, hc.Ping(context.Background()))
}
