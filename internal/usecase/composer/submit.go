package composer

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The five pre-submit checks, in their fixed order. The first failure wins.
const (
	msgVendorMissing    = "Enter the vendor name"
	msgNoItems          = "Add at least one item to the purchase order"
	msgQuantityInvalid  = "Quantity must be greater than zero"
	msgUnitPriceInvalid = "Unit price must be greater than zero"
	msgWarehouseMissing = "Select a warehouse before generating a purchase order."

	msgSubmitFallback = "Failed to create purchase order"
)

// Submit validates the draft, hands the normalized payload to the
// order-creation collaborator, and drives the outcome transitions. On success
// the session is discarded and the submission-succeeded event fires. Both
// local validation failures and collaborator failures come back as *FormError
// and leave the draft open and intact for correction; nothing else is ever
// surfaced past this boundary.
func (c *Controller) Submit(ctx context.Context, id uuid.UUID, ownerID string) (*OrderReceipt, error) {
	s, err := c.Get(id, ownerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if msg := validateDraft(&s.draft, s.source.WarehouseID()); msg != "" {
		s.formError = msg
		s.mu.Unlock()
		return nil, &FormError{Message: msg}
	}
	sub := buildSubmission(&s.draft, s.source.WarehouseID())
	s.submitting = true
	s.formError = ""
	s.mu.Unlock()

	receipt, err := c.orders.CreatePurchaseOrder(ctx, sub)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		msg := msgSubmitFallback
		var se *SubmitError
		if errors.As(err, &se) && se.Message != "" {
			msg = se.Message
		}
		s.formError = msg
		s.mu.Unlock()
		return nil, &FormError{Message: msg}
	}
	s.mu.Unlock()

	c.mu.Lock()
	delete(c.sessions, id)
	c.mu.Unlock()

	if c.events != nil {
		c.events.SubmissionSucceeded(*receipt)
	}
	return receipt, nil
}

func validateDraft(d *Draft, warehouseID int64) string {
	if strings.TrimSpace(d.VendorName) == "" {
		return msgVendorMissing
	}
	if len(d.Items) == 0 {
		return msgNoItems
	}
	for _, it := range d.Items {
		if it.Quantity <= 0 {
			return msgQuantityInvalid
		}
	}
	for _, it := range d.Items {
		if it.UnitPrice.Sign() <= 0 {
			return msgUnitPriceInvalid
		}
	}
	if warehouseID <= 0 {
		return msgWarehouseMissing
	}
	return ""
}

func buildSubmission(d *Draft, warehouseID int64) Submission {
	items := make([]SubmissionItem, len(d.Items))
	for i, it := range d.Items {
		items[i] = SubmissionItem{
			ProductID: it.ProductID,
			Quantity:  int(math.Round(it.Quantity)),
			UnitPrice: it.UnitPrice.Round(2),
		}
	}

	sub := Submission{
		VendorName:              strings.TrimSpace(d.VendorName),
		VendorEmail:             optional(d.VendorEmail),
		VendorPhone:             optional(d.VendorPhone),
		VendorContactPreference: d.ContactPreference,
		Notes:                   optional(d.Notes),
		WarehouseID:             warehouseID,
		Items:                   items,
		SendEmail:               d.SendEmail,
		SendSMS:                 d.SendSMS,
	}
	if !d.ExpectedDelivery.IsZero() {
		midnight := localMidnight(d.ExpectedDelivery)
		sub.ExpectedDeliveryDate = &midnight
	}
	return sub
}

// optional trims and converts empty strings to "absent".
func optional(v string) *string {
	t := strings.TrimSpace(v)
	if t == "" {
		return nil
	}
	return &t
}

func localMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
