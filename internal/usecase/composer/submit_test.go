package composer

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// --- Validation ordering -------------------------------------------------

func TestSubmit_ValidationOrder(t *testing.T) {
	// A draft failing every rule at once reports the vendor rule first,
	// then each subsequent rule as the previous one is fixed.
	c := newTestController(nil, &fakeCatalog{products: []CatalogProduct{
		{ID: 1, Name: "A", SKU: "A-1", ReorderLevel: 1, Price: price("1")},
	}}, nil, nil)
	s := openManual(t, c, 5)
	owner := "u1"

	submitMsg := func() string {
		_, err := c.Submit(context.Background(), s.ID, owner)
		require.Error(t, err)
		fe, ok := err.(*FormError)
		require.True(t, ok, "expected *FormError, got %v", err)
		return fe.Message
	}

	require.Equal(t, "Enter the vendor name", submitMsg())

	vendor := "Acme"
	require.NoError(t, s.SetFields(FieldPatch{VendorName: &vendor}))
	require.Equal(t, "Add at least one item to the purchase order", submitMsg())

	s.AddItem(1)
	zero := 0.0
	require.NoError(t, s.UpdateItem(0, ItemPatch{Quantity: &zero}))
	require.Equal(t, "Quantity must be greater than zero", submitMsg())

	one := 1.0
	require.NoError(t, s.UpdateItem(0, ItemPatch{Quantity: &one}))
	zeroPrice := decimal.Zero
	require.NoError(t, s.UpdateItem(0, ItemPatch{UnitPrice: &zeroPrice}))
	require.Equal(t, "Unit price must be greater than zero", submitMsg())
}

// Scenario D: a zero-quantity item blocks the call entirely; the draft keeps
// its state for correction.
func TestSubmit_ZeroQuantityBlocksCall(t *testing.T) {
	orders := &fakeOrders{receipt: OrderReceipt{OrderID: 1}}
	c := newTestController(&fakeSuggestions{pool: []Suggestion{widgetSuggestion()}}, nil, orders, nil)
	s := openSuggestion(t, c, widgetSuggestion())

	zero := 0.0
	require.NoError(t, s.UpdateItem(0, ItemPatch{Quantity: &zero}))

	before := s.Draft()
	_, err := c.Submit(context.Background(), s.ID, "u1")
	require.EqualError(t, err, "Quantity must be greater than zero")

	require.Empty(t, orders.received, "no partial submission may reach the collaborator")
	require.Equal(t, before, s.Draft())
	require.Equal(t, "Quantity must be greater than zero", s.FormError())
}

// A suggestion may seed unit price 0; only submit-time validation catches it.
func TestSubmit_SuggestionZeroPriceCaughtAtSubmit(t *testing.T) {
	seed := widgetSuggestion()
	seed.UnitPrice = decimal.Zero
	c := newTestController(&fakeSuggestions{pool: []Suggestion{seed}}, nil, nil, nil)
	s := openSuggestion(t, c, seed)

	_, err := c.Submit(context.Background(), s.ID, "u1")
	require.EqualError(t, err, "Unit price must be greater than zero")
}

// --- Payload construction ------------------------------------------------

func TestSubmit_PayloadNormalization(t *testing.T) {
	orders := &fakeOrders{receipt: OrderReceipt{OrderID: 42, Reference: "PO-AAAA1111"}}
	c := newTestController(&fakeSuggestions{pool: []Suggestion{widgetSuggestion()}}, nil, orders, nil)
	base := time.Date(2025, 3, 10, 16, 30, 0, 0, time.Local)
	c.now = func() time.Time { return base }

	s := openSuggestion(t, c, widgetSuggestion())

	vendor := "  Acme  "
	email := " po@acme.example "
	phone := ""
	notes := "   "
	require.NoError(t, s.SetFields(FieldPatch{
		VendorName:  &vendor,
		VendorEmail: &email,
		VendorPhone: &phone,
		Notes:       &notes,
	}))
	qty := 19.6
	p := price("5.499")
	require.NoError(t, s.UpdateItem(0, ItemPatch{Quantity: &qty, UnitPrice: &p}))

	_, err := c.Submit(context.Background(), s.ID, "u1")
	require.NoError(t, err)
	require.Len(t, orders.received, 1)

	sub := orders.received[0]
	require.Equal(t, "Acme", sub.VendorName)
	require.NotNil(t, sub.VendorEmail)
	require.Equal(t, "po@acme.example", *sub.VendorEmail)
	require.Nil(t, sub.VendorPhone, "blank optionals become absent")
	require.Nil(t, sub.Notes)
	require.Equal(t, int64(3), sub.WarehouseID)
	require.Equal(t, 20, sub.Items[0].Quantity, "quantity rounds to nearest integer")
	require.True(t, sub.Items[0].UnitPrice.Equal(price("5.50")), "price rounds to 2 decimals")
	require.True(t, sub.SendEmail)
	require.False(t, sub.SendSMS)

	require.NotNil(t, sub.ExpectedDeliveryDate)
	want := time.Date(2025, 3, 17, 0, 0, 0, 0, time.Local)
	require.True(t, sub.ExpectedDeliveryDate.Equal(want), "delivery date serializes at local midnight")
}

// --- Outcome transitions -------------------------------------------------

func TestSubmit_SuccessDiscardsSessionAndSignals(t *testing.T) {
	events := &fakeEvents{}
	orders := &fakeOrders{receipt: OrderReceipt{OrderID: 7, Reference: "PO-BBBB2222", WarehouseID: 3}}
	c := newTestController(&fakeSuggestions{pool: []Suggestion{widgetSuggestion()}}, nil, orders, events)
	s := openSuggestion(t, c, widgetSuggestion())

	receipt, err := c.Submit(context.Background(), s.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, "PO-BBBB2222", receipt.Reference)

	_, err = c.Get(s.ID, "u1")
	require.ErrorIs(t, err, ErrNotFound, "success closes and discards the draft")

	require.Len(t, events.receipts, 1)
	require.Equal(t, int64(3), events.receipts[0].WarehouseID)
}

// Scenario E: a collaborator rejection surfaces its message verbatim and the
// draft survives for retry.
func TestSubmit_CollaboratorMessageSurfaced(t *testing.T) {
	orders := &fakeOrders{err: &SubmitError{Message: "Vendor email invalid"}}
	c := newTestController(&fakeSuggestions{pool: []Suggestion{widgetSuggestion()}}, nil, orders, nil)
	s := openSuggestion(t, c, widgetSuggestion())

	before := s.Draft()
	_, err := c.Submit(context.Background(), s.ID, "u1")
	require.EqualError(t, err, "Vendor email invalid")

	require.Equal(t, "Vendor email invalid", s.FormError())
	require.Equal(t, before, s.Draft(), "items and vendor fields stay populated for correction")

	got, gerr := c.Get(s.ID, "u1")
	require.NoError(t, gerr)
	require.False(t, got.View().Submitting)
}

func TestSubmit_GenericFallbackMessage(t *testing.T) {
	orders := &fakeOrders{err: context.DeadlineExceeded}
	c := newTestController(&fakeSuggestions{pool: []Suggestion{widgetSuggestion()}}, nil, orders, nil)
	s := openSuggestion(t, c, widgetSuggestion())

	_, err := c.Submit(context.Background(), s.ID, "u1")
	require.EqualError(t, err, "Failed to create purchase order")
	require.Equal(t, "Failed to create purchase order", s.FormError())
}

func TestSubmit_RetryAfterFailureSucceeds(t *testing.T) {
	orders := &fakeOrders{err: &SubmitError{Message: "Vendor email invalid"}}
	c := newTestController(&fakeSuggestions{pool: []Suggestion{widgetSuggestion()}}, nil, orders, nil)
	s := openSuggestion(t, c, widgetSuggestion())

	_, err := c.Submit(context.Background(), s.ID, "u1")
	require.Error(t, err)

	orders.err = nil
	orders.receipt = OrderReceipt{OrderID: 9, Reference: "PO-CCCC3333"}
	receipt, err := c.Submit(context.Background(), s.ID, "u1")
	require.NoError(t, err)
	require.Equal(t, int64(9), receipt.OrderID)
	require.Empty(t, s.FormError())
}

// --- Single-flight guard -------------------------------------------------

type blockingOrders struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingOrders) CreatePurchaseOrder(context.Context, Submission) (*OrderReceipt, error) {
	close(b.entered)
	<-b.release
	return &OrderReceipt{OrderID: 1, Reference: "PO-DDDD4444"}, nil
}

func TestSubmit_CloseDuringInFlightRejected(t *testing.T) {
	orders := &blockingOrders{entered: make(chan struct{}), release: make(chan struct{})}
	c := NewController(&fakeSuggestions{pool: []Suggestion{widgetSuggestion()}}, &fakeCatalog{}, orders, nil, time.Hour)
	seed := widgetSuggestion()
	s, err := c.Open(context.Background(), OpenInput{Context: ContextSuggestion, Suggestion: &seed, OwnerID: "u1"})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, serr := c.Submit(context.Background(), s.ID, "u1")
		done <- serr
	}()

	<-orders.entered
	require.ErrorIs(t, c.Close(s.ID, "u1"), ErrSubmitInFlight)
	require.True(t, s.View().Submitting)

	close(orders.release)
	require.NoError(t, <-done)
}

func TestSubmit_SecondConcurrentSubmitRejected(t *testing.T) {
	orders := &blockingOrders{entered: make(chan struct{}), release: make(chan struct{})}
	c := NewController(&fakeSuggestions{pool: []Suggestion{widgetSuggestion()}}, &fakeCatalog{}, orders, nil, time.Hour)
	seed := widgetSuggestion()
	s, err := c.Open(context.Background(), OpenInput{Context: ContextSuggestion, Suggestion: &seed, OwnerID: "u1"})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, serr := c.Submit(context.Background(), s.ID, "u1")
		done <- serr
	}()

	<-orders.entered
	_, err = c.Submit(context.Background(), s.ID, "u1")
	require.ErrorIs(t, err, ErrSubmitInFlight)

	close(orders.release)
	require.NoError(t, <-done)
}
