package composer

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("draft not found")
	ErrNoSuggestion   = errors.New("suggestion context requires a seeding suggestion")
	ErrNoWarehouse    = errors.New("manual context requires a warehouse")
	ErrItemNotFound   = errors.New("item not found")
	ErrLastItem       = errors.New("cannot remove the last remaining item")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

// Context selects whether a draft is seeded from an automated restock
// suggestion or from manual catalog browsing.
type Context string

const (
	ContextSuggestion Context = "SUGGESTION"
	ContextManual     Context = "MANUAL"
)

type ContactPreference string

const (
	ContactEmail ContactPreference = "EMAIL"
	ContactSMS   ContactPreference = "SMS"
	ContactBoth  ContactPreference = "BOTH"
)

func ValidContactPreference(p ContactPreference) bool {
	switch p {
	case ContactEmail, ContactSMS, ContactBoth:
		return true
	default:
		return false
	}
}

// Suggestion is the read-only restock recommendation record this engine
// consumes. Producing it (forecasting, prioritization) is someone else's job.
type Suggestion struct {
	ProductID                int64           `json:"productId"`
	ProductName              string          `json:"productName"`
	ProductSKU               string          `json:"productSku"`
	Category                 string          `json:"category"`
	Vendor                   string          `json:"vendor"`
	WarehouseID              int64           `json:"warehouseId"`
	WarehouseName            string          `json:"warehouseName"`
	CurrentStock             int             `json:"currentStock"`
	ReorderLevel             int             `json:"reorderLevel"`
	SuggestedReorderQuantity int             `json:"suggestedReorderQuantity"`
	UnitPrice                decimal.Decimal `json:"unitPrice"`
}

// CatalogProduct is the read-only catalog record the manual context draws from.
type CatalogProduct struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Vendor       string          `json:"vendor"`
	ReorderLevel int             `json:"reorderLevel"`
	Price        decimal.Decimal `json:"price"`
}

// DraftItem is one line of an in-progress purchase order. Name and SKU are
// copied from the source record at add time and never re-synced.
type DraftItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku"`
	Quantity    float64         `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

func (it DraftItem) LineTotal() decimal.Decimal {
	return decimal.NewFromFloat(it.Quantity).Mul(it.UnitPrice)
}

// Draft holds the not-yet-submitted purchase order state.
type Draft struct {
	VendorName        string            `json:"vendorName"`
	VendorEmail       string            `json:"vendorEmail"`
	VendorPhone       string            `json:"vendorPhone"`
	ContactPreference ContactPreference `json:"vendorContactPreference"`
	Notes             string            `json:"notes"`
	ExpectedDelivery  time.Time         `json:"expectedDeliveryDate"`
	SendEmail         bool              `json:"sendEmail"`
	SendSMS           bool              `json:"sendSms"`
	Items             []DraftItem       `json:"items"`
}

// Total is recomputed from the items on every call, never stored.
func (d Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

func (d Draft) hasProduct(productID int64) bool {
	for _, it := range d.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// Candidate is a product eligible to be added to the current draft: not
// already present and matching the active context's pool rules.
type Candidate struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	// Detail is the label hint for an add-item control: the suggested
	// quantity in the suggestion context, the SKU in the manual one.
	Detail string `json:"detail"`
}

// SubmissionItem carries a normalized line: quantity rounded to the nearest
// integer, unit price rounded to 2 decimals.
type SubmissionItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Submission is the payload handed to the order-creation collaborator once
// a draft has passed validation.
type Submission struct {
	VendorName              string            `json:"vendorName"`
	VendorEmail             *string           `json:"vendorEmail,omitempty"`
	VendorPhone             *string           `json:"vendorPhone,omitempty"`
	VendorContactPreference ContactPreference `json:"vendorContactPreference"`
	Notes                   *string           `json:"notes,omitempty"`
	WarehouseID             int64             `json:"warehouseId"`
	ExpectedDeliveryDate    *time.Time        `json:"expectedDeliveryDate,omitempty"`
	Items                   []SubmissionItem  `json:"items"`
	SendEmail               bool              `json:"sendEmail"`
	SendSMS                 bool              `json:"sendSms"`
}

// OrderReceipt is what the collaborator reports back on success.
type OrderReceipt struct {
	OrderID     int64           `json:"orderId"`
	Reference   string          `json:"reference"`
	Status      string          `json:"status"`
	WarehouseID int64           `json:"warehouseId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// SuggestionProvider returns the cached restock suggestions for one warehouse.
type SuggestionProvider interface {
	Suggestions(ctx context.Context, warehouseID int64) ([]Suggestion, error)
}

// CatalogProvider returns the cached product catalog for one warehouse.
type CatalogProvider interface {
	Products(ctx context.Context, warehouseID int64) ([]CatalogProduct, error)
}

// OrderCreator is the order-creation collaborator. Failures it wants surfaced
// to the user verbatim should be returned as *SubmitError.
type OrderCreator interface {
	CreatePurchaseOrder(ctx context.Context, sub Submission) (*OrderReceipt, error)
}

// Events receives the submission-succeeded signal. Hosts use it to refresh
// suggestion/purchase-order views and show a confirmation; the engine itself
// never renders anything.
type Events interface {
	SubmissionSucceeded(receipt OrderReceipt)
}

// SubmitError carries a collaborator-provided message safe to show inline.
type SubmitError struct {
	Message string
}

func (e *SubmitError) Error() string { return e.Message }

// FormError is a recoverable submit outcome: the draft stays open and intact,
// the message goes into the single inline error slot.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }
