package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SuggestionRow struct {
	ProductID                int64
	ProductName              string
	ProductSKU               string
	Category                 string
	Vendor                   string
	WarehouseID              int64
	WarehouseName            string
	CurrentStock             int
	ReorderLevel             int
	MaxStockLevel            int
	AutoRestockEnabled       bool
	UnitPrice                string
	AverageDailyDemand       string
	ProjectedDaysToStockout  string
	SuggestedReorderQuantity int
	RecommendationReason     string
}

// SuggestionRepo reads the restock_suggestions view. The view is maintained
// by the forecasting pipeline; this service only consumes it.
type SuggestionRepo struct {
	db *pgxpool.Pool
}

func NewSuggestionRepo(db *pgxpool.Pool) *SuggestionRepo {
	return &SuggestionRepo{db: db}
}

type SuggestionFilter struct {
	WarehouseID *int64
	Category    *string
	StockStatus *string
	AutoOnly    bool
}

func (r *SuggestionRepo) List(ctx context.Context, f SuggestionFilter) ([]SuggestionRow, error) {
	const q = `
SELECT
  product_id, product_name, product_sku, category, vendor,
  warehouse_id, warehouse_name, current_stock, reorder_level, max_stock_level,
  auto_restock_enabled, unit_price::text, average_daily_demand::text,
  projected_days_until_stockout::text, suggested_reorder_quantity, recommendation_reason
FROM restock_suggestions
WHERE ($1::bigint IS NULL OR warehouse_id = $1)
  AND ($2::text IS NULL OR category = $2)
  AND ($3::text IS NULL
       OR ($3 = 'OUT_OF_STOCK' AND current_stock = 0)
       OR ($3 = 'LOW_STOCK' AND current_stock > 0 AND current_stock <= reorder_level)
       OR ($3 = 'IN_STOCK' AND current_stock > reorder_level))
  AND (NOT $4::boolean OR auto_restock_enabled)
ORDER BY projected_days_until_stockout, product_name;
`
	rows, err := r.db.Query(ctx, q, f.WarehouseID, f.Category, f.StockStatus, f.AutoOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SuggestionRow
	for rows.Next() {
		var s SuggestionRow
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.ProductSKU, &s.Category, &s.Vendor,
			&s.WarehouseID, &s.WarehouseName, &s.CurrentStock, &s.ReorderLevel, &s.MaxStockLevel,
			&s.AutoRestockEnabled, &s.UnitPrice, &s.AverageDailyDemand,
			&s.ProjectedDaysToStockout, &s.SuggestedReorderQuantity, &s.RecommendationReason); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
