package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	cataloguc "github.com/smartshelfx/restock-backend/internal/usecase/catalog"
)

type ProductStoreAdapter struct {
	repo *ProductRepo
}

func NewProductStoreAdapter(repo *ProductRepo) *ProductStoreAdapter {
	return &ProductStoreAdapter{repo: repo}
}

func (a *ProductStoreAdapter) ListByWarehouse(ctx context.Context, warehouseID int64) ([]cataloguc.Product, error) {
	rows, err := a.repo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	out := make([]cataloguc.Product, 0, len(rows))
	for i := range rows {
		p, err := mapProductRowToUC(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (a *ProductStoreAdapter) Categories(ctx context.Context, warehouseID *int64) ([]string, error) {
	return a.repo.Categories(ctx, warehouseID)
}

func mapProductRowToUC(r *ProductRow) (*cataloguc.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, err
	}
	return &cataloguc.Product{
		ID:                 r.ID,
		Name:               r.Name,
		SKU:                r.SKU,
		Category:           r.Category,
		Vendor:             r.Vendor,
		ReorderLevel:       r.ReorderLevel,
		CurrentStock:       r.CurrentStock,
		AutoRestockEnabled: r.AutoRestockEnabled,
		Price:              price,
		WarehouseID:        r.WarehouseID,
	}, nil
}

// Compile-time check: ensures adapter matches usecase interface
var _ cataloguc.ProductStore = (*ProductStoreAdapter)(nil)
