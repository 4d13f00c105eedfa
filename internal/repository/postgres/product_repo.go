package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRow struct {
	ID                 int64
	Name               string
	SKU                string
	Category           string
	Vendor             string
	ReorderLevel       int
	CurrentStock       int
	AutoRestockEnabled bool
	Price              string
	WarehouseID        int64
}

type ProductRepo struct {
	db *pgxpool.Pool
}

func NewProductRepo(db *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) ListByWarehouse(ctx context.Context, warehouseID int64) ([]ProductRow, error) {
	const q = `
SELECT id, name, sku, category, vendor, reorder_level, current_stock, auto_restock_enabled, price::text, warehouse_id
FROM products
WHERE warehouse_id = $1
ORDER BY name;
`
	rows, err := r.db.Query(ctx, q, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductRow
	for rows.Next() {
		var p ProductRow
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.Vendor, &p.ReorderLevel,
			&p.CurrentStock, &p.AutoRestockEnabled, &p.Price, &p.WarehouseID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) GetByID(ctx context.Context, productID int64) (*ProductRow, error) {
	const q = `
SELECT id, name, sku, category, vendor, reorder_level, current_stock, auto_restock_enabled, price::text, warehouse_id
FROM products
WHERE id = $1;
`
	row := r.db.QueryRow(ctx, q, productID)

	var p ProductRow
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.Vendor, &p.ReorderLevel,
		&p.CurrentStock, &p.AutoRestockEnabled, &p.Price, &p.WarehouseID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Categories(ctx context.Context, warehouseID *int64) ([]string, error) {
	const q = `
SELECT DISTINCT category
FROM products
WHERE $1::bigint IS NULL OR warehouse_id = $1
ORDER BY category;
`
	rows, err := r.db.Query(ctx, q, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
