package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoItems           = errors.New("At least one item is required for a purchase order")
	ErrWarehouseMissing  = errors.New("Warehouse not found")
	ErrProductMissing    = errors.New("Product not found")
	ErrProductWarehouse  = errors.New("Product does not belong to selected warehouse")
	ErrForbidden         = errors.New("Purchase orders are restricted to administrators and managers")
	ErrManagerWarehouse  = errors.New("Managers can only create purchase orders for their warehouse")
	ErrNoWarehouseOnUser = errors.New("No warehouse assigned to current user")
)

type Usecase struct {
	store    Store
	notifier *VendorNotifier
	now      func() time.Time
}

func New(store Store, notifier *VendorNotifier) *Usecase {
	return &Usecase{store: store, notifier: notifier, now: time.Now}
}

// Create persists a purchase order and dispatches it to the vendor. The
// notification outcome drives the final status: any dispatch success moves
// it to SENT_TO_VENDOR, any failure to NOTIFICATION_FAILED with the failure
// appended to the notes.
func (u *Usecase) Create(ctx context.Context, actor Actor, in CreateInput) (*PurchaseOrder, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	if strings.TrimSpace(in.VendorName) == "" {
		return nil, ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 || it.UnitPrice.Sign() <= 0 {
			return nil, ErrInvalidInput
		}
	}

	warehouse, err := u.resolveWarehouse(ctx, actor, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	reference, err := u.generateReference(ctx)
	if err != nil {
		return nil, err
	}

	po := &PurchaseOrder{
		Reference:               reference,
		Status:                  StatusPendingVendorApproval,
		VendorName:              strings.TrimSpace(in.VendorName),
		VendorEmail:             trimPtr(in.VendorEmail),
		VendorPhone:             trimPtr(in.VendorPhone),
		VendorContactPreference: trimPtr(in.VendorContactPreference),
		Notes:                   trimPtr(in.Notes),
		WarehouseID:             warehouse.ID,
		WarehouseName:           warehouse.Name,
		CreatedByID:             actor.UserID,
		ExpectedDeliveryDate:    in.ExpectedDeliveryDate,
		SubmittedAt:             u.now(),
	}

	subtotal := decimal.Zero
	for _, itemIn := range in.Items {
		product, err := u.store.GetProduct(ctx, itemIn.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductMissing
		}
		if product.WarehouseID != warehouse.ID {
			return nil, ErrProductWarehouse
		}

		unitPrice := itemIn.UnitPrice.Round(2)
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(itemIn.Quantity))).Round(2)
		po.Items = append(po.Items, Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    itemIn.Quantity,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	po.SubtotalAmount = subtotal.Round(2)
	po.TaxAmount = decimal.Zero
	po.ShippingAmount = decimal.Zero
	po.TotalAmount = po.SubtotalAmount

	saved, err := u.store.Create(ctx, po)
	if err != nil {
		return nil, err
	}

	result := u.notifier.Dispatch(ctx, saved, NotificationOptions{
		SendEmail: in.SendEmail,
		SendSMS:   in.SendSMS,
	})

	status := saved.Status
	notes := saved.Notes
	if result.EmailDispatched || result.SMSDispatched {
		status = StatusSentToVendor
	}
	if result.HasFailure() {
		status = StatusNotificationFailed
		notes = appendFailureNote(notes, result.FailureMessage)
	}
	if status == saved.Status {
		return saved, nil
	}
	return u.store.UpdateStatusNotes(ctx, saved.ID, status, notes)
}

// List applies the same role rules as creation: admins any warehouse,
// managers only their own.
func (u *Usecase) List(ctx context.Context, actor Actor, warehouseID *int64) ([]PurchaseOrder, error) {
	switch actor.Role {
	case RoleAdmin:
		return u.store.List(ctx, warehouseID)
	case RoleManager:
		if actor.WarehouseID == nil {
			return nil, ErrNoWarehouseOnUser
		}
		if warehouseID != nil && *warehouseID != *actor.WarehouseID {
			return nil, ErrManagerWarehouse
		}
		return u.store.List(ctx, actor.WarehouseID)
	default:
		return nil, ErrForbidden
	}
}

func (u *Usecase) resolveWarehouse(ctx context.Context, actor Actor, requested int64) (*Warehouse, error) {
	switch actor.Role {
	case RoleAdmin:
	case RoleManager:
		if actor.WarehouseID == nil {
			return nil, ErrNoWarehouseOnUser
		}
		if *actor.WarehouseID != requested {
			return nil, ErrManagerWarehouse
		}
	default:
		return nil, ErrForbidden
	}

	warehouse, err := u.store.GetWarehouse(ctx, requested)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, ErrWarehouseMissing
	}
	return warehouse, nil
}

func (u *Usecase) generateReference(ctx context.Context) (string, error) {
	for {
		candidate := "PO-" + strings.ToUpper(uuid.NewString()[:8])
		exists, err := u.store.ReferenceExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

func appendFailureNote(notes *string, failure string) *string {
	note := "Notification issue: " + failure
	if notes == nil || strings.TrimSpace(*notes) == "" {
		return &note
	}
	combined := *notes + "\n" + note
	return &combined
}
