package composer

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Source is the context-specific half of a draft session: it owns the
// candidate pool and the default inference for newly added items. The shared
// draft mutation and validation logic never branches on Context directly.
type Source interface {
	Context() Context
	WarehouseID() int64
	WarehouseName() string

	// seed returns the initial items and vendor for a fresh draft.
	seed() (items []DraftItem, vendor string)

	// candidates returns the pool minus the drafted product ids.
	candidates(d *Draft) []Candidate

	// resolve looks productID up in the pool and infers a new draft item
	// plus the candidate's vendor name. ok is false when the id is not in
	// the pool (the caller no-ops).
	resolve(productID int64) (item DraftItem, vendor string, ok bool)

	// setPool replaces the snapshot after a collaborator refresh.
	setPool(suggestions []Suggestion, products []CatalogProduct)
}

// suggestionSource seeds the draft from one restock suggestion; the pool is
// every suggestion sharing the seed's vendor and warehouse.
type suggestionSource struct {
	seedSuggestion Suggestion
	pool           []Suggestion
}

func newSuggestionSource(seed Suggestion, all []Suggestion) *suggestionSource {
	s := &suggestionSource{seedSuggestion: seed}
	s.setPool(all, nil)
	return s
}

func (s *suggestionSource) Context() Context      { return ContextSuggestion }
func (s *suggestionSource) WarehouseID() int64    { return s.seedSuggestion.WarehouseID }
func (s *suggestionSource) WarehouseName() string { return s.seedSuggestion.WarehouseName }

func (s *suggestionSource) setPool(suggestions []Suggestion, _ []CatalogProduct) {
	pool := make([]Suggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		if sg.Vendor == s.seedSuggestion.Vendor && sg.WarehouseID == s.seedSuggestion.WarehouseID {
			pool = append(pool, sg)
		}
	}
	s.pool = pool
}

func (s *suggestionSource) seed() ([]DraftItem, string) {
	return []DraftItem{suggestionItem(s.seedSuggestion)}, s.seedSuggestion.Vendor
}

func (s *suggestionSource) candidates(d *Draft) []Candidate {
	out := make([]Candidate, 0, len(s.pool))
	for _, sg := range s.pool {
		if d.hasProduct(sg.ProductID) {
			continue
		}
		out = append(out, Candidate{
			ProductID: sg.ProductID,
			Name:      sg.ProductName,
			SKU:       sg.ProductSKU,
			Detail:    "Suggest " + strconv.Itoa(sg.SuggestedReorderQuantity),
		})
	}
	return out
}

func (s *suggestionSource) resolve(productID int64) (DraftItem, string, bool) {
	for _, sg := range s.pool {
		if sg.ProductID == productID {
			return suggestionItem(sg), sg.Vendor, true
		}
	}
	return DraftItem{}, "", false
}

// suggestionItem trusts the suggestion's numbers as-is: a missing unit price
// stays 0 and is only caught by submit-time validation.
func suggestionItem(sg Suggestion) DraftItem {
	return DraftItem{
		ProductID:   sg.ProductID,
		ProductName: sg.ProductName,
		ProductSKU:  sg.ProductSKU,
		Quantity:    float64(sg.SuggestedReorderQuantity),
		UnitPrice:   sg.UnitPrice,
	}
}

// manualSource starts empty; the pool is the full catalog of the warehouse
// fixed at open time.
type manualSource struct {
	warehouseID   int64
	warehouseName string
	pool          []CatalogProduct
}

func newManualSource(warehouseID int64, warehouseName string, catalog []CatalogProduct) *manualSource {
	return &manualSource{warehouseID: warehouseID, warehouseName: warehouseName, pool: catalog}
}

func (m *manualSource) Context() Context      { return ContextManual }
func (m *manualSource) WarehouseID() int64    { return m.warehouseID }
func (m *manualSource) WarehouseName() string { return m.warehouseName }

func (m *manualSource) setPool(_ []Suggestion, products []CatalogProduct) {
	m.pool = products
}

func (m *manualSource) seed() ([]DraftItem, string) {
	return []DraftItem{}, ""
}

func (m *manualSource) candidates(d *Draft) []Candidate {
	out := make([]Candidate, 0, len(m.pool))
	for _, p := range m.pool {
		if d.hasProduct(p.ID) {
			continue
		}
		out = append(out, Candidate{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			Detail:    "SKU " + p.SKU,
		})
	}
	return out
}

// resolve forces non-zero defaults on the manual path: a product with no
// reorder level or price still enters the draft as 1 @ 1 rather than 0.
func (m *manualSource) resolve(productID int64) (DraftItem, string, bool) {
	for _, p := range m.pool {
		if p.ID != productID {
			continue
		}
		qty := 1
		if p.ReorderLevel > 0 {
			qty = p.ReorderLevel
		}
		price := p.Price
		if price.Sign() <= 0 {
			price = decimal.NewFromInt(1)
		}
		return DraftItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
			Quantity:    float64(qty),
			UnitPrice:   price,
		}, p.Vendor, true
	}
	return DraftItem{}, "", false
}
