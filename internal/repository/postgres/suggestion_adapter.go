package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	restockuc "github.com/smartshelfx/restock-backend/internal/usecase/restock"
)

type SuggestionStoreAdapter struct {
	repo *SuggestionRepo
}

func NewSuggestionStoreAdapter(repo *SuggestionRepo) *SuggestionStoreAdapter {
	return &SuggestionStoreAdapter{repo: repo}
}

func (a *SuggestionStoreAdapter) List(ctx context.Context, f restockuc.ScopeFilters) ([]restockuc.Suggestion, error) {
	var status *string
	if f.StockStatus != nil {
		s := string(*f.StockStatus)
		status = &s
	}

	rows, err := a.repo.List(ctx, SuggestionFilter{
		WarehouseID: f.WarehouseID,
		Category:    f.Category,
		StockStatus: status,
		AutoOnly:    f.AutoOnly,
	})
	if err != nil {
		return nil, err
	}

	out := make([]restockuc.Suggestion, 0, len(rows))
	for i := range rows {
		s, err := mapSuggestionRowToUC(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

func mapSuggestionRowToUC(r *SuggestionRow) (*restockuc.Suggestion, error) {
	unitPrice, err := decimal.NewFromString(r.UnitPrice)
	if err != nil {
		return nil, err
	}
	demand, err := decimal.NewFromString(r.AverageDailyDemand)
	if err != nil {
		return nil, err
	}
	days, err := decimal.NewFromString(r.ProjectedDaysToStockout)
	if err != nil {
		return nil, err
	}
	return &restockuc.Suggestion{
		ProductID:                r.ProductID,
		ProductName:              r.ProductName,
		ProductSKU:               r.ProductSKU,
		Category:                 r.Category,
		Vendor:                   r.Vendor,
		WarehouseID:              r.WarehouseID,
		WarehouseName:            r.WarehouseName,
		CurrentStock:             r.CurrentStock,
		ReorderLevel:             r.ReorderLevel,
		MaxStockLevel:            r.MaxStockLevel,
		AutoRestockEnabled:       r.AutoRestockEnabled,
		UnitPrice:                unitPrice,
		AverageDailyDemand:       demand,
		ProjectedDaysToStockout:  days,
		SuggestedReorderQuantity: r.SuggestedReorderQuantity,
		RecommendationReason:     r.RecommendationReason,
	}, nil
}

// Compile-time check: ensures adapter matches usecase interface
var _ restockuc.SuggestionStore = (*SuggestionStoreAdapter)(nil)
