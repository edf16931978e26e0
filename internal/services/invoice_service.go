package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/billing"
	"clinic-backend/internal/metrics"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
)

// InvoiceStore is the persistence surface the invoice service needs
type InvoiceStore interface {
	Create(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem) error
	Get(ctx context.Context, tenantID, id int) (*models.InvoiceDetail, error)
	List(ctx context.Context, tenantID int) ([]*models.Invoice, error)
}

// LedgerStore appends to the accounting trail
type LedgerStore interface {
	Create(ctx context.Context, tenantID int, entry *models.CreateLedgerEntryRequest) (*models.LedgerEntry, error)
}

// EventPublisher pushes billing activity to connected dashboards
type EventPublisher interface {
	Publish(event string, payload interface{})
}

type InvoiceService struct {
	Repo   InvoiceStore
	Ledger LedgerStore
	events EventPublisher
}

func NewInvoiceService(repo InvoiceStore, ledger LedgerStore) *InvoiceService {
	return &InvoiceService{Repo: repo, Ledger: ledger}
}

// SetEventPublisher wires the activity feed (optional)
func (s *InvoiceService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// CreateInvoice validates the request, computes the immutable total, and
// persists the invoice with its items atomically. A CHARGE ledger entry is
// appended after commit.
func (s *InvoiceService) CreateInvoice(ctx context.Context, tenantID int, req *models.CreateInvoiceRequest) (*models.InvoiceDetail, error) {
	if req.InvoiceNumber == "" {
		return nil, fmt.Errorf("%w: invoice_number is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}

	items := make([]models.InvoiceItem, 0, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", ErrValidation, i+1)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d unit_price must not be negative", ErrValidation, i+1)
		}
		lineTotal := billing.LineTotal(item.Quantity, item.UnitPrice)
		total = total.Add(lineTotal)
		items = append(items, models.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   lineTotal,
		})
	}

	invoice := &models.Invoice{
		TenantID:      tenantID,
		InvoiceNumber: req.InvoiceNumber,
		PatientName:   req.PatientName,
		PatientEmail:  req.PatientEmail,
		Total:         total,
		Status:        billing.StatusUnpaid,
	}

	if err := s.Repo.Create(ctx, invoice, items); err != nil {
		return nil, err
	}

	metrics.InvoicesCreated.Inc()

	// Ledger and activity feed are best-effort; the invoice is already
	// committed.
	if s.Ledger != nil {
		refID := invoice.ID
		_, err := s.Ledger.Create(ctx, tenantID, &models.CreateLedgerEntryRequest{
			PatientName:   invoice.PatientName,
			PatientEmail:  invoice.PatientEmail,
			EntryType:     models.LedgerEntryTypeCharge,
			Description:   fmt.Sprintf("Invoice %s issued", invoice.InvoiceNumber),
			Debit:         total,
			Credit:        decimal.Zero,
			ReferenceID:   &refID,
			ReferenceType: "invoice",
		})
		if err != nil {
			log.Printf("[Billing] Failed to append CHARGE ledger entry for invoice %d: %v", invoice.ID, err)
		}
	}
	if s.events != nil {
		s.events.Publish("invoice.created", invoice)
	}

	return &models.InvoiceDetail{Invoice: *invoice, Items: items}, nil
}

// GetInvoice returns the invoice with items and payment history
func (s *InvoiceService) GetInvoice(ctx context.Context, tenantID, id int) (*models.InvoiceDetail, error) {
	return s.Repo.Get(ctx, tenantID, id)
}

// ListInvoices returns invoice summaries for the tenant
func (s *InvoiceService) ListInvoices(ctx context.Context, tenantID int) ([]*models.Invoice, error) {
	return s.Repo.List(ctx, tenantID)
}

var _ InvoiceStore = (*repositories.InvoiceRepository)(nil)
