package services

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/metrics"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
)

// maxPaymentAttempts bounds the transparent retry of transient transaction
// failures (serialization/deadlock) before surfacing an error.
const maxPaymentAttempts = 3

// PaymentRecorder applies a payment and re-derives invoice status atomically
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, payment *models.Payment) (*repositories.RecordedPayment, error)
}

// PaymentStore lists recorded payments
type PaymentStore interface {
	List(ctx context.Context, tenantID int, invoiceID *int) ([]*models.Payment, error)
}

type PaymentService struct {
	Recorder PaymentRecorder
	Repo     PaymentStore
	Ledger   LedgerStore
	events   EventPublisher
}

func NewPaymentService(recorder PaymentRecorder, repo PaymentStore, ledger LedgerStore) *PaymentService {
	return &PaymentService{Recorder: recorder, Repo: repo, Ledger: ledger}
}

// SetEventPublisher wires the activity feed (optional)
func (s *PaymentService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// RecordPayment validates and applies a payment against an invoice. The
// insert and the status re-derivation happen in one transaction inside the
// recorder; transient conflicts are retried here before giving up.
func (s *PaymentService) RecordPayment(ctx context.Context, tenantID int, req *models.RecordPaymentRequest) (*models.Payment, *repositories.RecordedPayment, error) {
	if req.InvoiceID <= 0 {
		return nil, nil, fmt.Errorf("%w: invoice_id is required", ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	payment := &models.Payment{
		TenantID:      tenantID,
		InvoiceID:     req.InvoiceID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	}

	var outcome *repositories.RecordedPayment
	var err error
	for attempt := 1; attempt <= maxPaymentAttempts; attempt++ {
		outcome, err = s.Recorder.RecordPayment(ctx, payment)
		if err == nil || !repositories.IsRetryable(err) {
			break
		}
		log.Printf("[Billing] Payment recording conflict on invoice %d (attempt %d/%d): %v",
			req.InvoiceID, attempt, maxPaymentAttempts, err)
	}
	if err != nil {
		return nil, nil, err
	}

	metrics.PaymentsRecorded.Inc()

	entryType := models.LedgerEntryTypePayment
	if payment.PaymentMethod == "razorpay" {
		entryType = models.LedgerEntryTypeOnlinePayment
	}
	if s.Ledger != nil {
		refID := payment.ID
		_, lerr := s.Ledger.Create(ctx, tenantID, &models.CreateLedgerEntryRequest{
			PatientName:   outcome.PatientName,
			PatientEmail:  outcome.PatientEmail,
			EntryType:     entryType,
			Description:   fmt.Sprintf("Payment against invoice %s", outcome.InvoiceNumber),
			Debit:         decimal.Zero,
			Credit:        payment.Amount,
			ReferenceID:   &refID,
			ReferenceType: "payment",
		})
		if lerr != nil {
			log.Printf("[Billing] Failed to append %s ledger entry for payment %d: %v", entryType, payment.ID, lerr)
		}
	}
	if s.events != nil {
		s.events.Publish("payment.recorded", map[string]interface{}{
			"payment": payment,
			"status":  outcome.Status,
		})
	}

	return payment, outcome, nil
}

// ListPayments returns payments for the tenant ordered by paid_at ascending,
// optionally filtered by invoice
func (s *PaymentService) ListPayments(ctx context.Context, tenantID int, invoiceID *int) ([]*models.Payment, error) {
	return s.Repo.List(ctx, tenantID, invoiceID)
}

var (
	_ PaymentRecorder = (*repositories.InvoiceRepository)(nil)
	_ PaymentStore    = (*repositories.PaymentRepository)(nil)
	_ LedgerStore     = (*repositories.LedgerRepository)(nil)
)
