package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	warehouses map[int64]Warehouse
	products   map[int64]ProductRef
	nextID     int64
	orders     map[int64]*PurchaseOrder
}

func newMemStore() *memStore {
	return &memStore{
		warehouses: map[int64]Warehouse{3: {ID: 3, Name: "Central"}},
		products: map[int64]ProductRef{
			7: {ID: 7, Name: "Widget", SKU: "W-7", WarehouseID: 3},
			9: {ID: 9, Name: "Gadget", SKU: "G-9", WarehouseID: 3},
			5: {ID: 5, Name: "Remote", SKU: "R-5", WarehouseID: 8},
		},
		orders: map[int64]*PurchaseOrder{},
	}
}

func (m *memStore) GetWarehouse(_ context.Context, id int64) (*Warehouse, error) {
	if w, ok := m.warehouses[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (m *memStore) GetProduct(_ context.Context, productID int64) (*ProductRef, error) {
	if p, ok := m.products[productID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *memStore) Create(_ context.Context, po *PurchaseOrder) (*PurchaseOrder, error) {
	m.nextID++
	cp := *po
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.orders[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) UpdateStatusNotes(_ context.Context, id int64, status string, notes *string) (*PurchaseOrder, error) {
	po, ok := m.orders[id]
	if !ok {
		return nil, errors.New("missing order")
	}
	po.Status = status
	po.Notes = notes
	out := *po
	return &out, nil
}

func (m *memStore) ReferenceExists(context.Context, string) (bool, error) { return false, nil }

func (m *memStore) List(_ context.Context, warehouseID *int64) ([]PurchaseOrder, error) {
	var out []PurchaseOrder
	for _, po := range m.orders {
		if warehouseID == nil || po.WarehouseID == *warehouseID {
			out = append(out, *po)
		}
	}
	return out, nil
}

type recordingEmail struct {
	sent []string
	err  error
}

func (r *recordingEmail) Send(_ context.Context, to, _, _ string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, to)
	return nil
}

func ptr[T any](v T) *T { return &v }

func admin() Actor { return Actor{UserID: "a1", Role: RoleAdmin} }

func validInput() CreateInput {
	return CreateInput{
		VendorName:  "Acme",
		VendorEmail: ptr("po@acme.example"),
		WarehouseID: 3,
		Items: []CreateItemIn{
			{ProductID: 7, Quantity: 20, UnitPrice: decimal.RequireFromString("5.5")},
			{ProductID: 9, Quantity: 4, UnitPrice: decimal.RequireFromString("2")},
		},
		SendEmail: true,
	}
}

func TestCreate_TotalsAndReference(t *testing.T) {
	email := &recordingEmail{}
	uc := New(newMemStore(), NewVendorNotifier(email, LoggingSMSGateway{}))

	po, err := uc.Create(context.Background(), admin(), validInput())
	require.NoError(t, err)

	require.Regexp(t, regexp.MustCompile(`^PO-[0-9A-F]{8}$`), po.Reference)
	require.Equal(t, "110.00", po.Items[0].LineTotal.StringFixed(2))
	require.Equal(t, "118.00", po.SubtotalAmount.StringFixed(2))
	require.Equal(t, "118.00", po.TotalAmount.StringFixed(2))
	require.True(t, po.TaxAmount.IsZero())
	require.True(t, po.ShippingAmount.IsZero())
	require.Equal(t, "Widget", po.Items[0].ProductName, "name copied from catalog, not the request")
}

func TestCreate_EmailDispatchMovesToSent(t *testing.T) {
	email := &recordingEmail{}
	uc := New(newMemStore(), NewVendorNotifier(email, LoggingSMSGateway{}))

	po, err := uc.Create(context.Background(), admin(), validInput())
	require.NoError(t, err)
	require.Equal(t, StatusSentToVendor, po.Status)
	require.Equal(t, []string{"po@acme.example"}, email.sent)
}

func TestCreate_MissingEmailAddressMarksNotificationFailed(t *testing.T) {
	uc := New(newMemStore(), NewVendorNotifier(&recordingEmail{}, LoggingSMSGateway{}))

	in := validInput()
	in.VendorEmail = nil

	po, err := uc.Create(context.Background(), admin(), in)
	require.NoError(t, err, "notification problems are not creation failures")
	require.Equal(t, StatusNotificationFailed, po.Status)
	require.NotNil(t, po.Notes)
	require.Contains(t, *po.Notes, "Vendor email address is missing")
}

func TestCreate_NoChannelsRequestedStaysPending(t *testing.T) {
	uc := New(newMemStore(), NewVendorNotifier(&recordingEmail{}, LoggingSMSGateway{}))

	in := validInput()
	in.SendEmail = false
	in.SendSMS = false

	po, err := uc.Create(context.Background(), admin(), in)
	require.NoError(t, err)
	require.Equal(t, StatusPendingVendorApproval, po.Status)
}

func TestCreate_ProductFromOtherWarehouseRejected(t *testing.T) {
	uc := New(newMemStore(), NewVendorNotifier(&recordingEmail{}, LoggingSMSGateway{}))

	in := validInput()
	in.Items = append(in.Items, CreateItemIn{ProductID: 5, Quantity: 1, UnitPrice: decimal.NewFromInt(1)})

	_, err := uc.Create(context.Background(), admin(), in)
	require.ErrorIs(t, err, ErrProductWarehouse)
}

func TestCreate_ManagerLimitedToOwnWarehouse(t *testing.T) {
	uc := New(newMemStore(), NewVendorNotifier(&recordingEmail{}, LoggingSMSGateway{}))
	manager := Actor{UserID: "m1", Role: RoleManager, WarehouseID: ptr(int64(8))}

	_, err := uc.Create(context.Background(), manager, validInput())
	require.ErrorIs(t, err, ErrManagerWarehouse)
}

func TestCreate_EmptyItemsRejected(t *testing.T) {
	uc := New(newMemStore(), NewVendorNotifier(&recordingEmail{}, LoggingSMSGateway{}))

	in := validInput()
	in.Items = nil

	_, err := uc.Create(context.Background(), admin(), in)
	require.ErrorIs(t, err, ErrNoItems)
}

func TestList_RoleRules(t *testing.T) {
	store := newMemStore()
	uc := New(store, NewVendorNotifier(&recordingEmail{}, LoggingSMSGateway{}))
	_, err := uc.Create(context.Background(), admin(), validInput())
	require.NoError(t, err)

	out, err := uc.List(context.Background(), admin(), nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	manager := Actor{UserID: "m1", Role: RoleManager, WarehouseID: ptr(int64(3))}
	out, err = uc.List(context.Background(), manager, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	_, err = uc.List(context.Background(), manager, ptr(int64(9)))
	require.ErrorIs(t, err, ErrManagerWarehouse)

	_, err = uc.List(context.Background(), Actor{Role: "CUSTOMER"}, nil)
	require.ErrorIs(t, err, ErrForbidden)
}
