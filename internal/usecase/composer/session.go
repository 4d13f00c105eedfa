package composer

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session is one open composition dialog: a draft, its source, and the
// single-flight submit guard. All methods are safe for concurrent use.
type Session struct {
	ID      uuid.UUID
	OwnerID string

	mu         sync.Mutex
	source     Source
	draft      Draft
	formError  string
	poolError  string
	submitting bool
	touched    time.Time
}

// reset is the lifecycle transition: it rebuilds the whole draft from the
// source, clearing any previous error and field edits. Re-opening never
// resumes a stale draft.
func (s *Session) reset(now time.Time) {
	items, vendor := s.source.seed()
	s.draft = Draft{
		VendorName:        vendor,
		ContactPreference: ContactEmail,
		ExpectedDelivery:  now.AddDate(0, 0, 7),
		SendEmail:         true,
		SendSMS:           false,
		Items:             items,
	}
	s.formError = ""
}

// FieldPatch updates draft-level fields; nil means "leave alone".
type FieldPatch struct {
	VendorName        *string            `json:"vendorName"`
	VendorEmail       *string            `json:"vendorEmail"`
	VendorPhone       *string            `json:"vendorPhone"`
	ContactPreference *ContactPreference `json:"vendorContactPreference"`
	Notes             *string            `json:"notes"`
	ExpectedDelivery  *time.Time         `json:"expectedDeliveryDate"`
	SendEmail         *bool              `json:"sendEmail"`
	SendSMS           *bool              `json:"sendSms"`
}

func (s *Session) SetFields(p FieldPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ContactPreference != nil && !ValidContactPreference(*p.ContactPreference) {
		return ErrInvalidInput
	}
	if p.VendorName != nil {
		s.draft.VendorName = *p.VendorName
	}
	if p.VendorEmail != nil {
		s.draft.VendorEmail = *p.VendorEmail
	}
	if p.VendorPhone != nil {
		s.draft.VendorPhone = *p.VendorPhone
	}
	if p.ContactPreference != nil {
		s.draft.ContactPreference = *p.ContactPreference
	}
	if p.Notes != nil {
		s.draft.Notes = *p.Notes
	}
	if p.ExpectedDelivery != nil {
		s.draft.ExpectedDelivery = *p.ExpectedDelivery
	}
	if p.SendEmail != nil {
		s.draft.SendEmail = *p.SendEmail
	}
	if p.SendSMS != nil {
		s.draft.SendSMS = *p.SendSMS
	}
	return nil
}

// AddItem resolves productID against the active context's candidate pool and
// appends the inferred draft line. Unknown ids and ids already drafted are
// silent no-ops. As a one-time convenience, a blank vendor name is filled
// from the candidate; it is never re-synced afterwards.
func (s *Session) AddItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.hasProduct(productID) {
		return
	}
	item, vendor, ok := s.source.resolve(productID)
	if !ok {
		return
	}
	s.draft.Items = append(s.draft.Items, item)
	if strings.TrimSpace(s.draft.VendorName) == "" && vendor != "" {
		s.draft.VendorName = vendor
	}
}

// ItemPatch updates a single line; validation is deferred to submit time.
type ItemPatch struct {
	Quantity  *float64         `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

func (s *Session) UpdateItem(index int, p ItemPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.draft.Items) {
		return ErrItemNotFound
	}
	if p.Quantity != nil {
		s.draft.Items[index].Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		s.draft.Items[index].UnitPrice = *p.UnitPrice
	}
	return nil
}

// RemoveItem removes by position. The last remaining item cannot be removed;
// a draft only reaches zero items through the manual context's empty seed.
func (s *Session) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.draft.Items) {
		return ErrItemNotFound
	}
	if len(s.draft.Items) <= 1 {
		return ErrLastItem
	}
	s.draft.Items = append(s.draft.Items[:index], s.draft.Items[index+1:]...)
	return nil
}

// ItemView is a DraftItem plus its derived line total.
type ItemView struct {
	DraftItem
	LineTotal decimal.Decimal `json:"lineTotal"`
	// Removable mirrors the removal rule: controls are only offered while
	// more than one line remains.
	Removable bool `json:"removable"`
}

// View is the full draft state a client renders from.
type View struct {
	ID            uuid.UUID       `json:"id"`
	Context       Context         `json:"context"`
	WarehouseID   int64           `json:"warehouseId"`
	WarehouseName string          `json:"warehouseName"`
	Draft         Draft           `json:"draft"`
	Items         []ItemView      `json:"items"`
	Candidates    []Candidate     `json:"candidates"`
	Total         decimal.Decimal `json:"total"`
	FormError     string          `json:"formError,omitempty"`
	PoolError     string          `json:"poolError,omitempty"`
	Submitting    bool            `json:"submitting"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]ItemView, len(s.draft.Items))
	for i, it := range s.draft.Items {
		items[i] = ItemView{
			DraftItem: it,
			LineTotal: it.LineTotal(),
			Removable: len(s.draft.Items) > 1,
		}
	}
	// The view is serialized after the lock is released, so it must not
	// alias the live items array.
	draft := s.draft
	draft.Items = append([]DraftItem(nil), s.draft.Items...)
	return View{
		ID:            s.ID,
		Context:       s.source.Context(),
		WarehouseID:   s.source.WarehouseID(),
		WarehouseName: s.source.WarehouseName(),
		Draft:         draft,
		Items:         items,
		Candidates:    s.source.candidates(&s.draft),
		Total:         s.draft.Total(),
		FormError:     s.formError,
		PoolError:     s.poolError,
		Submitting:    s.submitting,
	}
}

// Candidates returns pool minus drafted items, recomputed on every call so an
// added product disappears immediately and a removed one reappears.
func (s *Session) Candidates() []Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.candidates(&s.draft)
}

func (s *Session) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Total()
}

func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draft
	d.Items = append([]DraftItem(nil), s.draft.Items...)
	return d
}

func (s *Session) FormError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formError
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.touched = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.submitting && ttl > 0 && now.Sub(s.touched) > ttl
}
