package restock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	calls int
	items []Suggestion
	last  ScopeFilters
}

func (f *fakeStore) List(_ context.Context, fl ScopeFilters) ([]Suggestion, error) {
	f.calls++
	f.last = fl
	return f.items, nil
}

func ptr[T any](v T) *T { return &v }

func TestNormalize(t *testing.T) {
	f, err := Normalize("3", "Hardware", "LOW_STOCK", true)
	require.NoError(t, err)
	require.Equal(t, int64(3), *f.WarehouseID)
	require.Equal(t, "Hardware", *f.Category)
	require.Equal(t, StockLowStock, *f.StockStatus)
	require.True(t, f.AutoOnly)

	f, err = Normalize("ALL", "ALL", "ALL", false)
	require.NoError(t, err)
	require.Nil(t, f.WarehouseID)
	require.Nil(t, f.Category)
	require.Nil(t, f.StockStatus)

	f, err = Normalize("", "", "", false)
	require.NoError(t, err)
	require.Equal(t, ScopeFilters{}, f)

	_, err = Normalize("abc", "", "", false)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = Normalize("", "", "SOMETIMES", false)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_ManagerPinnedToOwnWarehouse(t *testing.T) {
	store := &fakeStore{}
	uc := New(store, time.Minute)

	manager := Actor{UserID: "m1", Role: RoleManager, WarehouseID: ptr(int64(4))}
	_, err := uc.List(context.Background(), manager, ScopeFilters{WarehouseID: ptr(int64(9))})
	require.NoError(t, err)
	require.Equal(t, int64(4), *store.last.WarehouseID)
}

func TestList_ManagerWithoutWarehouseRejected(t *testing.T) {
	uc := New(&fakeStore{}, time.Minute)

	_, err := uc.List(context.Background(), Actor{Role: RoleManager}, ScopeFilters{})
	require.ErrorIs(t, err, ErrNoWarehouse)
}

func TestList_UnknownRoleForbidden(t *testing.T) {
	uc := New(&fakeStore{}, time.Minute)

	_, err := uc.List(context.Background(), Actor{Role: "CUSTOMER"}, ScopeFilters{})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestList_CacheAndInvalidate(t *testing.T) {
	store := &fakeStore{items: []Suggestion{{ProductID: 7}}}
	uc := New(store, time.Minute)
	admin := Actor{UserID: "a1", Role: RoleAdmin}

	_, err := uc.List(context.Background(), admin, ScopeFilters{})
	require.NoError(t, err)
	_, err = uc.List(context.Background(), admin, ScopeFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, store.calls, "second read within TTL comes from cache")

	// a different scope is a different snapshot
	_, err = uc.List(context.Background(), admin, ScopeFilters{AutoOnly: true})
	require.NoError(t, err)
	require.Equal(t, 2, store.calls)

	uc.Invalidate()
	_, err = uc.List(context.Background(), admin, ScopeFilters{})
	require.NoError(t, err)
	require.Equal(t, 3, store.calls, "invalidation forces a refetch")
}

func TestList_CacheExpires(t *testing.T) {
	store := &fakeStore{}
	uc := New(store, time.Minute)
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return base }
	admin := Actor{Role: RoleAdmin}

	_, err := uc.List(context.Background(), admin, ScopeFilters{})
	require.NoError(t, err)

	uc.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = uc.List(context.Background(), admin, ScopeFilters{})
	require.NoError(t, err)
	require.Equal(t, 2, store.calls)
}
