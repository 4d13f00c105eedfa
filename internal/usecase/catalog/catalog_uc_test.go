package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	products   map[int64][]Product
	categories []string
	listCalls  int
}

func (f *fakeStore) ListByWarehouse(_ context.Context, warehouseID int64) ([]Product, error) {
	f.listCalls++
	return f.products[warehouseID], nil
}

func (f *fakeStore) Categories(_ context.Context, _ *int64) ([]string, error) {
	return f.categories, nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[int64][]Product{
			3: {
				{ID: 7, Name: "Widget", SKU: "W-7", Category: "Hardware", Vendor: "Acme Supplies", ReorderLevel: 20, Price: decimal.RequireFromString("5.50"), WarehouseID: 3},
				{ID: 9, Name: "Gadget", SKU: "G-9", Category: "Hardware", Vendor: "Acme Supplies", ReorderLevel: 10, Price: decimal.RequireFromString("2.00"), WarehouseID: 3},
			},
			8: {
				{ID: 5, Name: "Sprocket", SKU: "S-5", Category: "Parts", Vendor: "Bolt Co", ReorderLevel: 5, Price: decimal.RequireFromString("9.99"), WarehouseID: 8},
			},
		},
		categories: []string{"Hardware", "Parts"},
	}
}

func TestListProducts_RequiresWarehouse(t *testing.T) {
	uc := New(newFakeStore(), time.Minute)

	_, err := uc.ListProducts(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestListProducts_CachesPerWarehouse(t *testing.T) {
	store := newFakeStore()
	uc := New(store, time.Minute)

	first, err := uc.ListProducts(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = uc.ListProducts(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 1, store.listCalls)

	other, err := uc.ListProducts(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, other, 1)
	require.Equal(t, 2, store.listCalls)
}

func TestListProducts_InvalidateForcesRefetch(t *testing.T) {
	store := newFakeStore()
	uc := New(store, time.Minute)

	_, err := uc.ListProducts(context.Background(), 3)
	require.NoError(t, err)

	uc.Invalidate()

	_, err = uc.ListProducts(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 2, store.listCalls)
}

func TestListProducts_CacheExpires(t *testing.T) {
	store := newFakeStore()
	uc := New(store, time.Minute)

	current := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return current }

	_, err := uc.ListProducts(context.Background(), 3)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	_, err = uc.ListProducts(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 2, store.listCalls)
}

func TestCategories_PassesThrough(t *testing.T) {
	uc := New(newFakeStore(), time.Minute)

	got, err := uc.Categories(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, []string{"Hardware", "Parts"}, got)
}
