package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	orderuc "github.com/smartshelfx/restock-backend/internal/usecase/order"
)

type OrderStoreAdapter struct {
	orders   *OrderRepo
	products *ProductRepo
}

func NewOrderStoreAdapter(orders *OrderRepo, products *ProductRepo) *OrderStoreAdapter {
	return &OrderStoreAdapter{orders: orders, products: products}
}

func (a *OrderStoreAdapter) GetWarehouse(ctx context.Context, id int64) (*orderuc.Warehouse, error) {
	w, err := a.orders.GetWarehouse(ctx, id)
	if err != nil || w == nil {
		return nil, err
	}
	return &orderuc.Warehouse{ID: w.ID, Name: w.Name}, nil
}

func (a *OrderStoreAdapter) GetProduct(ctx context.Context, productID int64) (*orderuc.ProductRef, error) {
	p, err := a.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &orderuc.ProductRef{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		WarehouseID: p.WarehouseID,
	}, nil
}

func (a *OrderStoreAdapter) Create(ctx context.Context, po *orderuc.PurchaseOrder) (*orderuc.PurchaseOrder, error) {
	row := &PurchaseOrderRow{
		Reference:               po.Reference,
		Status:                  po.Status,
		VendorName:              po.VendorName,
		VendorEmail:             po.VendorEmail,
		VendorPhone:             po.VendorPhone,
		VendorContactPreference: po.VendorContactPreference,
		Notes:                   po.Notes,
		WarehouseID:             po.WarehouseID,
		WarehouseName:           po.WarehouseName,
		CreatedByID:             po.CreatedByID,
		ExpectedDeliveryDate:    po.ExpectedDeliveryDate,
		SubmittedAt:             po.SubmittedAt,
		SubtotalAmount:          po.SubtotalAmount.StringFixed(2),
		TaxAmount:               po.TaxAmount.StringFixed(2),
		ShippingAmount:          po.ShippingAmount.StringFixed(2),
		TotalAmount:             po.TotalAmount.StringFixed(2),
	}
	for _, it := range po.Items {
		row.Items = append(row.Items, PurchaseOrderItemRow{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			LineTotal:   it.LineTotal.StringFixed(2),
		})
	}

	saved, err := a.orders.Create(ctx, row)
	if err != nil {
		return nil, err
	}
	return mapOrderRowToUC(saved)
}

func (a *OrderStoreAdapter) UpdateStatusNotes(ctx context.Context, id int64, status string, notes *string) (*orderuc.PurchaseOrder, error) {
	row, err := a.orders.UpdateStatusNotes(ctx, id, status, notes)
	if err != nil {
		return nil, err
	}
	return mapOrderRowToUC(row)
}

func (a *OrderStoreAdapter) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	return a.orders.ReferenceExists(ctx, reference)
}

func (a *OrderStoreAdapter) List(ctx context.Context, warehouseID *int64) ([]orderuc.PurchaseOrder, error) {
	rows, err := a.orders.List(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	out := make([]orderuc.PurchaseOrder, 0, len(rows))
	for i := range rows {
		po, err := mapOrderRowToUC(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *po)
	}
	return out, nil
}

func mapOrderRowToUC(r *PurchaseOrderRow) (*orderuc.PurchaseOrder, error) {
	subtotal, err := decimal.NewFromString(r.SubtotalAmount)
	if err != nil {
		return nil, err
	}
	tax, err := decimal.NewFromString(r.TaxAmount)
	if err != nil {
		return nil, err
	}
	shipping, err := decimal.NewFromString(r.ShippingAmount)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(r.TotalAmount)
	if err != nil {
		return nil, err
	}

	po := &orderuc.PurchaseOrder{
		ID:                      r.ID,
		Reference:               r.Reference,
		Status:                  r.Status,
		VendorName:              r.VendorName,
		VendorEmail:             r.VendorEmail,
		VendorPhone:             r.VendorPhone,
		VendorContactPreference: r.VendorContactPreference,
		Notes:                   r.Notes,
		WarehouseID:             r.WarehouseID,
		WarehouseName:           r.WarehouseName,
		CreatedByID:             r.CreatedByID,
		ExpectedDeliveryDate:    r.ExpectedDeliveryDate,
		SubmittedAt:             r.SubmittedAt,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
		SubtotalAmount:          subtotal,
		TaxAmount:               tax,
		ShippingAmount:          shipping,
		TotalAmount:             total,
	}
	for _, it := range r.Items {
		unitPrice, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		lineTotal, err := decimal.NewFromString(it.LineTotal)
		if err != nil {
			return nil, err
		}
		po.Items = append(po.Items, orderuc.Item{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		})
	}
	return po, nil
}

// Compile-time check: ensures adapter matches usecase interface
var _ orderuc.Store = (*OrderStoreAdapter)(nil)
