package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/billing"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
)

type fakeInvoiceStore struct {
	invoices map[int]*models.InvoiceDetail
	numbers  map[string]bool
	nextID   int
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{
		invoices: make(map[int]*models.InvoiceDetail),
		numbers:  make(map[string]bool),
		nextID:   1,
	}
}

func (f *fakeInvoiceStore) Create(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem) error {
	key := fmt.Sprintf("%d/%s", invoice.TenantID, invoice.InvoiceNumber)
	if f.numbers[key] {
		return fmt.Errorf("invoice %s: %w", invoice.InvoiceNumber, repositories.ErrConflict)
	}
	f.numbers[key] = true
	invoice.ID = f.nextID
	f.nextID++
	f.invoices[invoice.ID] = &models.InvoiceDetail{Invoice: *invoice, Items: items}
	return nil
}

func (f *fakeInvoiceStore) Get(ctx context.Context, tenantID, id int) (*models.InvoiceDetail, error) {
	detail, ok := f.invoices[id]
	if !ok || detail.Invoice.TenantID != tenantID {
		return nil, fmt.Errorf("invoice %d: %w", id, repositories.ErrNotFound)
	}
	return detail, nil
}

func (f *fakeInvoiceStore) List(ctx context.Context, tenantID int) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for _, detail := range f.invoices {
		if detail.Invoice.TenantID == tenantID {
			inv := detail.Invoice
			out = append(out, &inv)
		}
	}
	return out, nil
}

type fakeLedger struct {
	entries []*models.CreateLedgerEntryRequest
}

func (f *fakeLedger) Create(ctx context.Context, tenantID int, entry *models.CreateLedgerEntryRequest) (*models.LedgerEntry, error) {
	f.entries = append(f.entries, entry)
	return &models.LedgerEntry{ID: len(f.entries)}, nil
}

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateInvoiceComputesTotal(t *testing.T) {
	store := newFakeInvoiceStore()
	ledger := &fakeLedger{}
	svc := NewInvoiceService(store, ledger)

	detail, err := svc.CreateInvoice(context.Background(), 1, &models.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		PatientName:   "Asha Verma",
		Items: []models.CreateInvoiceItemRequest{
			{Description: "Consultation", Quantity: 1, UnitPrice: money("500.00")},
			{Description: "Blood test", Quantity: 3, UnitPrice: money("150.50")},
		},
	})
	require.NoError(t, err)

	assert.True(t, detail.Invoice.Total.Equal(money("951.50")),
		"expected 951.50, got %s", detail.Invoice.Total)
	assert.Equal(t, billing.StatusUnpaid, detail.Invoice.Status)
	require.Len(t, detail.Items, 2)
	assert.True(t, detail.Items[1].LineTotal.Equal(money("451.50")))

	// A CHARGE entry lands in the ledger
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, models.LedgerEntryTypeCharge, ledger.entries[0].EntryType)
	assert.True(t, ledger.entries[0].Debit.Equal(money("951.50")))
}

func TestCreateInvoiceDuplicateNumberConflicts(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := NewInvoiceService(store, &fakeLedger{})

	req := &models.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		Items: []models.CreateInvoiceItemRequest{
			{Description: "Consultation", Quantity: 1, UnitPrice: money("500.00")},
		},
	}

	_, err := svc.CreateInvoice(context.Background(), 1, req)
	require.NoError(t, err)

	_, err = svc.CreateInvoice(context.Background(), 1, req)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	// Same number under a different tenant is fine
	_, err = svc.CreateInvoice(context.Background(), 2, req)
	assert.NoError(t, err)
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := NewInvoiceService(newFakeInvoiceStore(), nil)

	tests := []struct {
		name string
		req  *models.CreateInvoiceRequest
	}{
		{"missing number", &models.CreateInvoiceRequest{
			Items: []models.CreateInvoiceItemRequest{{Quantity: 1, UnitPrice: money("1")}},
		}},
		{"no items", &models.CreateInvoiceRequest{InvoiceNumber: "INV-002"}},
		{"zero quantity", &models.CreateInvoiceRequest{
			InvoiceNumber: "INV-003",
			Items:         []models.CreateInvoiceItemRequest{{Quantity: 0, UnitPrice: money("1")}},
		}},
		{"negative price", &models.CreateInvoiceRequest{
			InvoiceNumber: "INV-004",
			Items:         []models.CreateInvoiceItemRequest{{Quantity: 1, UnitPrice: money("-5")}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateInvoice(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestGetInvoiceNotFound(t *testing.T) {
	svc := NewInvoiceService(newFakeInvoiceStore(), nil)

	_, err := svc.GetInvoice(context.Background(), 1, 42)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGetInvoiceWrongTenant(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := NewInvoiceService(store, nil)

	detail, err := svc.CreateInvoice(context.Background(), 1, &models.CreateInvoiceRequest{
		InvoiceNumber: "INV-001",
		Items: []models.CreateInvoiceItemRequest{
			{Description: "Consultation", Quantity: 1, UnitPrice: money("500.00")},
		},
	})
	require.NoError(t, err)

	_, err = svc.GetInvoice(context.Background(), 2, detail.Invoice.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
