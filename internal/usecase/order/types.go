package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
)

// Actor is the authenticated caller. It travels on the request context so
// the composition engine can stay auth-agnostic.
type Actor struct {
	UserID      string
	Role        Role
	WarehouseID *int64
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

const (
	StatusDraft                 = "DRAFT"
	StatusPendingVendorApproval = "PENDING_VENDOR_APPROVAL"
	StatusSentToVendor          = "SENT_TO_VENDOR"
	StatusNotificationFailed    = "NOTIFICATION_FAILED"
)

type PurchaseOrder struct {
	ID                      int64           `json:"id"`
	Reference               string          `json:"reference"`
	Status                  string          `json:"status"`
	VendorName              string          `json:"vendorName"`
	VendorEmail             *string         `json:"vendorEmail,omitempty"`
	VendorPhone             *string         `json:"vendorPhone,omitempty"`
	VendorContactPreference *string         `json:"vendorContactPreference,omitempty"`
	Notes                   *string         `json:"notes,omitempty"`
	WarehouseID             int64           `json:"warehouseId"`
	WarehouseName           string          `json:"warehouseName"`
	CreatedByID             string          `json:"createdById"`
	ExpectedDeliveryDate    *time.Time      `json:"expectedDeliveryDate,omitempty"`
	SubmittedAt             time.Time       `json:"submittedAt"`
	CreatedAt               time.Time       `json:"createdAt"`
	UpdatedAt               time.Time       `json:"updatedAt"`
	SubtotalAmount          decimal.Decimal `json:"subtotalAmount"`
	TaxAmount               decimal.Decimal `json:"taxAmount"`
	ShippingAmount          decimal.Decimal `json:"shippingAmount"`
	TotalAmount             decimal.Decimal `json:"totalAmount"`
	Items                   []Item          `json:"items"`
}

type Item struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type CreateInput struct {
	VendorName              string         `json:"vendorName"`
	VendorEmail             *string        `json:"vendorEmail"`
	VendorPhone             *string        `json:"vendorPhone"`
	VendorContactPreference *string        `json:"vendorContactPreference"`
	Notes                   *string        `json:"notes"`
	WarehouseID             int64          `json:"warehouseId"`
	ExpectedDeliveryDate    *time.Time     `json:"expectedDeliveryDate"`
	Items                   []CreateItemIn `json:"items"`
	SendEmail               bool           `json:"sendEmail"`
	SendSMS                 bool           `json:"sendSms"`
}

type CreateItemIn struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type Warehouse struct {
	ID   int64
	Name string
}

// ProductRef is the catalog identity of a line item, re-resolved at creation
// time so the stored name/SKU match the warehouse's catalog.
type ProductRef struct {
	ID          int64
	Name        string
	SKU         string
	WarehouseID int64
}

type Store interface {
	GetWarehouse(ctx context.Context, id int64) (*Warehouse, error)
	// GetProduct returns the product only if it exists; warehouse membership
	// is checked by the usecase.
	GetProduct(ctx context.Context, productID int64) (*ProductRef, error)
	Create(ctx context.Context, po *PurchaseOrder) (*PurchaseOrder, error)
	UpdateStatusNotes(ctx context.Context, id int64, status string, notes *string) (*PurchaseOrder, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	List(ctx context.Context, warehouseID *int64) ([]PurchaseOrder, error)
}
