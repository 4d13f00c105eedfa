package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid input")

// Product is one catalog entry for a warehouse, the manual context's
// addition pool.
type Product struct {
	ID                 int64           `json:"id"`
	Name               string          `json:"name"`
	SKU                string          `json:"sku"`
	Category           string          `json:"category"`
	Vendor             string          `json:"vendor"`
	ReorderLevel       int             `json:"reorderLevel"`
	CurrentStock       int             `json:"currentStock"`
	AutoRestockEnabled bool            `json:"autoRestockEnabled"`
	Price              decimal.Decimal `json:"price"`
	WarehouseID        int64           `json:"warehouseId"`
}

type ProductStore interface {
	ListByWarehouse(ctx context.Context, warehouseID int64) ([]Product, error)
	Categories(ctx context.Context, warehouseID *int64) ([]string, error)
}

type Usecase struct {
	store ProductStore
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	cache map[int64]entry
}

type entry struct {
	fetched time.Time
	items   []Product
}

func New(store ProductStore, cacheTTL time.Duration) *Usecase {
	return &Usecase{store: store, ttl: cacheTTL, now: time.Now, cache: make(map[int64]entry)}
}

// ListProducts returns the catalog snapshot for one warehouse.
func (u *Usecase) ListProducts(ctx context.Context, warehouseID int64) ([]Product, error) {
	if warehouseID <= 0 {
		return nil, ErrInvalidInput
	}

	now := u.now()
	u.mu.Lock()
	if e, ok := u.cache[warehouseID]; ok && u.ttl > 0 && now.Sub(e.fetched) < u.ttl {
		items := e.items
		u.mu.Unlock()
		return items, nil
	}
	u.mu.Unlock()

	items, err := u.store.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.cache[warehouseID] = entry{fetched: now, items: items}
	u.mu.Unlock()
	return items, nil
}

// Categories feeds the scope-filter dropdown.
func (u *Usecase) Categories(ctx context.Context, warehouseID *int64) ([]string, error) {
	return u.store.Categories(ctx, warehouseID)
}

func (u *Usecase) Invalidate() {
	u.mu.Lock()
	u.cache = make(map[int64]entry)
	u.mu.Unlock()
}
