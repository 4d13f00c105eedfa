package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PurchaseOrderRow struct {
	ID                      int64
	Reference               string
	Status                  string
	VendorName              string
	VendorEmail             *string
	VendorPhone             *string
	VendorContactPreference *string
	Notes                   *string
	WarehouseID             int64
	WarehouseName           string
	CreatedByID             string
	ExpectedDeliveryDate    *time.Time
	SubmittedAt             time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
	SubtotalAmount          string
	TaxAmount               string
	ShippingAmount          string
	TotalAmount             string
	Items                   []PurchaseOrderItemRow
}

type PurchaseOrderItemRow struct {
	ID          int64
	ProductID   int64
	ProductName string
	ProductSKU  string
	Quantity    int
	UnitPrice   string
	LineTotal   string
}

type WarehouseRow struct {
	ID           int64
	Name         string
	LocationCode string
	Active       bool
}

type OrderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) GetWarehouse(ctx context.Context, id int64) (*WarehouseRow, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, location_code, active
		FROM warehouses
		WHERE id = $1
	`, id)

	var w WarehouseRow
	if err := row.Scan(&w.ID, &w.Name, &w.LocationCode, &w.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *OrderRepo) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM purchase_orders WHERE upper(reference) = upper($1)`, reference).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts the header and all items in one transaction.
func (r *OrderRepo) Create(ctx context.Context, po *PurchaseOrderRow) (*PurchaseOrderRow, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const headerQ = `
INSERT INTO purchase_orders (
  reference, status, vendor_name, vendor_email, vendor_phone,
  vendor_contact_preference, notes, warehouse_id, created_by, expected_delivery_date,
  submitted_at, subtotal_amount, tax_amount, shipping_amount, total_amount
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::uuid, $10, $11, $12::numeric, $13::numeric, $14::numeric, $15::numeric)
RETURNING id, created_at, updated_at;
`
	out := *po
	if err := tx.QueryRow(ctx, headerQ,
		po.Reference, po.Status, po.VendorName, po.VendorEmail, po.VendorPhone,
		po.VendorContactPreference, po.Notes, po.WarehouseID, po.CreatedByID, po.ExpectedDeliveryDate,
		po.SubmittedAt, po.SubtotalAmount, po.TaxAmount, po.ShippingAmount, po.TotalAmount,
	).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}

	const itemQ = `
INSERT INTO purchase_order_items (purchase_order_id, product_id, product_name, product_sku, quantity, unit_price, line_total)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric)
RETURNING id;
`
	out.Items = make([]PurchaseOrderItemRow, len(po.Items))
	for i, it := range po.Items {
		item := it
		if err := tx.QueryRow(ctx, itemQ,
			out.ID, it.ProductID, it.ProductName, it.ProductSKU, it.Quantity, it.UnitPrice, it.LineTotal,
		).Scan(&item.ID); err != nil {
			return nil, err
		}
		out.Items[i] = item
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *OrderRepo) UpdateStatusNotes(ctx context.Context, id int64, status string, notes *string) (*PurchaseOrderRow, error) {
	const q = `
UPDATE purchase_orders
SET status = $2, notes = $3, updated_at = now()
WHERE id = $1
RETURNING id;
`
	var updated int64
	if err := r.db.QueryRow(ctx, q, id, status, notes).Scan(&updated); err != nil {
		return nil, err
	}
	return r.getByID(ctx, id)
}

func (r *OrderRepo) List(ctx context.Context, warehouseID *int64) ([]PurchaseOrderRow, error) {
	const q = `
SELECT
  po.id, po.reference, po.status, po.vendor_name, po.vendor_email, po.vendor_phone,
  po.vendor_contact_preference, po.notes, po.warehouse_id, w.name, po.created_by::text,
  po.expected_delivery_date, po.submitted_at, po.created_at, po.updated_at,
  po.subtotal_amount::text, po.tax_amount::text, po.shipping_amount::text, po.total_amount::text
FROM purchase_orders po
JOIN warehouses w ON w.id = po.warehouse_id
WHERE $1::bigint IS NULL OR po.warehouse_id = $1
ORDER BY po.created_at DESC;
`
	rows, err := r.db.Query(ctx, q, warehouseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PurchaseOrderRow
	for rows.Next() {
		var po PurchaseOrderRow
		if err := scanOrder(rows, &po); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.listItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *OrderRepo) getByID(ctx context.Context, id int64) (*PurchaseOrderRow, error) {
	const q = `
SELECT
  po.id, po.reference, po.status, po.vendor_name, po.vendor_email, po.vendor_phone,
  po.vendor_contact_preference, po.notes, po.warehouse_id, w.name, po.created_by::text,
  po.expected_delivery_date, po.submitted_at, po.created_at, po.updated_at,
  po.subtotal_amount::text, po.tax_amount::text, po.shipping_amount::text, po.total_amount::text
FROM purchase_orders po
JOIN warehouses w ON w.id = po.warehouse_id
WHERE po.id = $1;
`
	var po PurchaseOrderRow
	if err := scanOrder(r.db.QueryRow(ctx, q, id), &po); err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	po.Items = items
	return &po, nil
}

func (r *OrderRepo) listItems(ctx context.Context, orderID int64) ([]PurchaseOrderItemRow, error) {
	const q = `
SELECT id, product_id, product_name, product_sku, quantity, unit_price::text, line_total::text
FROM purchase_order_items
WHERE purchase_order_id = $1
ORDER BY id;
`
	rows, err := r.db.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PurchaseOrderItemRow
	for rows.Next() {
		var it PurchaseOrderItemRow
		if err := rows.Scan(&it.ID, &it.ProductID, &it.ProductName, &it.ProductSKU, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row, po *PurchaseOrderRow) error {
	return row.Scan(
		&po.ID, &po.Reference, &po.Status, &po.VendorName, &po.VendorEmail, &po.VendorPhone,
		&po.VendorContactPreference, &po.Notes, &po.WarehouseID, &po.WarehouseName, &po.CreatedByID,
		&po.ExpectedDeliveryDate, &po.SubmittedAt, &po.CreatedAt, &po.UpdatedAt,
		&po.SubtotalAmount, &po.TaxAmount, &po.ShippingAmount, &po.TotalAmount,
	)
}
