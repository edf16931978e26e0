package handlers

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/billing"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// fakeInvoiceStore is an in-memory InvoiceStore for handler tests
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

// fakeRecorder applies payments against the fake store and re-derives status
type fakeRecorder struct {
	store  *fakeInvoiceStore
	nextID int
}

func (f *fakeRecorder) RecordPayment(ctx context.Context, payment *models.Payment) (*repositories.RecordedPayment, error) {
	detail, ok := f.store.invoices[payment.InvoiceID]
	if !ok || detail.Invoice.TenantID != payment.TenantID {
		return nil, fmt.Errorf("invoice %d: %w", payment.InvoiceID, repositories.ErrNotFound)
	}

	f.nextID++
	payment.ID = f.nextID
	detail.Payments = append(detail.Payments, *payment)

	paid := decimal.Zero
	for _, p := range detail.Payments {
		paid = paid.Add(p.Amount)
	}
	status := billing.DeriveStatus(detail.Invoice.Total, paid)
	detail.Invoice.Status = status

	return &repositories.RecordedPayment{
		Status:        status,
		InvoiceNumber: detail.Invoice.InvoiceNumber,
		PatientName:   detail.Invoice.PatientName,
		PatientEmail:  detail.Invoice.PatientEmail,
	}, nil
}

// fakePaymentStore lists payments out of the fake invoice store
type fakePaymentStore struct {
	store *fakeInvoiceStore
}

func (f *fakePaymentStore) List(ctx context.Context, tenantID int, invoiceID *int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, detail := range f.store.invoices {
		if detail.Invoice.TenantID != tenantID {
			continue
		}
		if invoiceID != nil && detail.Invoice.ID != *invoiceID {
			continue
		}
		for i := range detail.Payments {
			out = append(out, &detail.Payments[i])
		}
	}
	return out, nil
}
