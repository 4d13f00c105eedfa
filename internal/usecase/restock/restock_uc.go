package restock

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("restock suggestions are restricted to administrators and managers")
	ErrNoWarehouse  = errors.New("no warehouse assigned to current user")
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

// Actor is the authenticated caller as decoded from the JWT claims.
type Actor struct {
	UserID      string
	Role        Role
	WarehouseID *int64
}

type StockStatus string

const (
	StockInStock    StockStatus = "IN_STOCK"
	StockLowStock   StockStatus = "LOW_STOCK"
	StockOutOfStock StockStatus = "OUT_OF_STOCK"
)

// ScopeFilters parameterizes which suggestions are requested. Unset fields
// mean "no constraint"; handlers normalize the UI's "ALL" sentinel to unset.
type ScopeFilters struct {
	WarehouseID *int64
	Category    *string
	StockStatus *StockStatus
	AutoOnly    bool
}

// Normalize maps the query-string conventions of the dashboard ("ALL",
// empty string) onto unset fields.
func Normalize(warehouseID, category, stockStatus string, autoOnly bool) (ScopeFilters, error) {
	var f ScopeFilters
	f.AutoOnly = autoOnly

	if warehouseID != "" && !strings.EqualFold(warehouseID, "ALL") {
		id, err := strconv.ParseInt(warehouseID, 10, 64)
		if err != nil || id <= 0 {
			return ScopeFilters{}, ErrInvalidInput
		}
		f.WarehouseID = &id
	}
	if category != "" && !strings.EqualFold(category, "ALL") {
		f.Category = &category
	}
	if stockStatus != "" && !strings.EqualFold(stockStatus, "ALL") {
		s := StockStatus(stockStatus)
		switch s {
		case StockInStock, StockLowStock, StockOutOfStock:
			f.StockStatus = &s
		default:
			return ScopeFilters{}, ErrInvalidInput
		}
	}
	return f, nil
}

// Suggestion is one restock recommendation, read as-is from the prepared
// suggestion source. This service consumes the list; it does not decide
// which products need restocking.
type Suggestion struct {
	ProductID                int64           `json:"productId"`
	ProductName              string          `json:"productName"`
	ProductSKU               string          `json:"productSku"`
	Category                 string          `json:"category"`
	Vendor                   string          `json:"vendor"`
	WarehouseID              int64           `json:"warehouseId"`
	WarehouseName            string          `json:"warehouseName"`
	CurrentStock             int             `json:"currentStock"`
	ReorderLevel             int             `json:"reorderLevel"`
	MaxStockLevel            int             `json:"maxStockLevel"`
	AutoRestockEnabled       bool            `json:"autoRestockEnabled"`
	UnitPrice                decimal.Decimal `json:"unitPrice"`
	AverageDailyDemand       decimal.Decimal `json:"averageDailyDemand"`
	ProjectedDaysToStockout  decimal.Decimal `json:"projectedDaysUntilStockout"`
	SuggestedReorderQuantity int             `json:"suggestedReorderQuantity"`
	RecommendationReason     string          `json:"recommendationReason"`
}

type SuggestionStore interface {
	List(ctx context.Context, f ScopeFilters) ([]Suggestion, error)
}

// Usecase serves scope-filtered suggestion snapshots with a short-lived
// cache. A successful purchase-order submission invalidates the cache so the
// next open sees updated state.
type Usecase struct {
	store SuggestionStore
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	fetched time.Time
	items   []Suggestion
}

func New(store SuggestionStore, cacheTTL time.Duration) *Usecase {
	return &Usecase{
		store: store,
		ttl:   cacheTTL,
		now:   time.Now,
		cache: make(map[string]cacheEntry),
	}
}

// List applies the role rules: admins see any scope, managers are pinned to
// their own warehouse regardless of the requested filter.
func (u *Usecase) List(ctx context.Context, actor Actor, f ScopeFilters) ([]Suggestion, error) {
	switch actor.Role {
	case RoleAdmin:
	case RoleManager:
		if actor.WarehouseID == nil {
			return nil, ErrNoWarehouse
		}
		f.WarehouseID = actor.WarehouseID
	default:
		return nil, ErrForbidden
	}

	key := cacheKey(f)
	now := u.now()

	u.mu.Lock()
	if e, ok := u.cache[key]; ok && u.ttl > 0 && now.Sub(e.fetched) < u.ttl {
		items := e.items
		u.mu.Unlock()
		return items, nil
	}
	u.mu.Unlock()

	items, err := u.store.List(ctx, f)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.cache[key] = cacheEntry{fetched: now, items: items}
	u.mu.Unlock()
	return items, nil
}

// Invalidate drops every cached snapshot. Wired to the composer's
// submission-succeeded event.
func (u *Usecase) Invalidate() {
	u.mu.Lock()
	u.cache = make(map[string]cacheEntry)
	u.mu.Unlock()
}

func cacheKey(f ScopeFilters) string {
	var b strings.Builder
	if f.WarehouseID != nil {
		b.WriteString(strconv.FormatInt(*f.WarehouseID, 10))
	}
	b.WriteByte('|')
	if f.Category != nil {
		b.WriteString(*f.Category)
	}
	b.WriteByte('|')
	if f.StockStatus != nil {
		b.WriteString(string(*f.StockStatus))
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(f.AutoOnly))
	return b.String()
}
