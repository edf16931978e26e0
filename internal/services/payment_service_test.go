package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/billing"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
)

// fakeRecorder mimics the transactional recorder: it applies the payment
// against a stored total and re-derives the status
type fakeRecorder struct {
	total    map[int]string // invoice id -> total
	paid     map[int]string // invoice id -> paid sum so far
	failures int            // serialization failures to inject before succeeding
	attempts int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		total: map[int]string{1: "500.00"},
		paid:  map[int]string{1: "0"},
	}
}

func (f *fakeRecorder) RecordPayment(ctx context.Context, payment *models.Payment) (*repositories.RecordedPayment, error) {
	f.attempts++
	if f.failures > 0 {
		f.failures--
		return nil, &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	}

	total, ok := f.total[payment.InvoiceID]
	if !ok {
		return nil, fmt.Errorf("invoice %d: %w", payment.InvoiceID, repositories.ErrNotFound)
	}

	paid := money(f.paid[payment.InvoiceID]).Add(payment.Amount)
	f.paid[payment.InvoiceID] = paid.String()
	payment.ID = f.attempts

	return &repositories.RecordedPayment{
		Status:        billing.DeriveStatus(money(total), paid),
		InvoiceNumber: "INV-001",
	}, nil
}

type fakePaymentStore struct {
	payments []*models.Payment
}

func (f *fakePaymentStore) List(ctx context.Context, tenantID int, invoiceID *int) ([]*models.Payment, error) {
	if invoiceID == nil {
		return f.payments, nil
	}
	var out []*models.Payment
	for _, p := range f.payments {
		if p.InvoiceID == *invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestRecordPaymentDerivesStatus(t *testing.T) {
	recorder := newFakeRecorder()
	svc := NewPaymentService(recorder, &fakePaymentStore{}, &fakeLedger{})

	_, outcome, err := svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID: 1,
		Amount:    money("200.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPartiallyPaid, outcome.Status)

	_, outcome, err = svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID: 1,
		Amount:    money("300.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, outcome.Status)
}

func TestRecordPaymentRetriesSerializationFailures(t *testing.T) {
	recorder := newFakeRecorder()
	recorder.failures = 2
	svc := NewPaymentService(recorder, &fakePaymentStore{}, nil)

	_, outcome, err := svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID: 1,
		Amount:    money("500.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, outcome.Status)
	assert.Equal(t, 3, recorder.attempts)
}

func TestRecordPaymentGivesUpAfterMaxAttempts(t *testing.T) {
	recorder := newFakeRecorder()
	recorder.failures = maxPaymentAttempts
	svc := NewPaymentService(recorder, &fakePaymentStore{}, nil)

	_, _, err := svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID: 1,
		Amount:    money("100.00"),
	})
	require.Error(t, err)
	assert.True(t, repositories.IsRetryable(err))
	assert.Equal(t, maxPaymentAttempts, recorder.attempts)
}

func TestRecordPaymentValidation(t *testing.T) {
	svc := NewPaymentService(newFakeRecorder(), &fakePaymentStore{}, nil)

	_, _, err := svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID: 0,
		Amount:    money("100.00"),
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID: 1,
		Amount:    money("0"),
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID: 1,
		Amount:    money("-20"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordPaymentUnknownInvoice(t *testing.T) {
	svc := NewPaymentService(newFakeRecorder(), &fakePaymentStore{}, nil)

	_, _, err := svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID: 99,
		Amount:    money("100.00"),
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRecordPaymentAppendsLedgerCredit(t *testing.T) {
	ledger := &fakeLedger{}
	svc := NewPaymentService(newFakeRecorder(), &fakePaymentStore{}, ledger)

	_, _, err := svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID:     1,
		Amount:        money("250.00"),
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, models.LedgerEntryTypePayment, ledger.entries[0].EntryType)
	assert.True(t, ledger.entries[0].Credit.Equal(money("250.00")))
}

// lockedRecorder serializes concurrent payments the way the FOR UPDATE row
// lock does in the real recorder
type lockedRecorder struct {
	mu       sync.Mutex
	total    map[int]string
	paid     map[int]string
	recorded []*models.Payment
}

func (f *lockedRecorder) RecordPayment(ctx context.Context, payment *models.Payment) (*repositories.RecordedPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total, ok := f.total[payment.InvoiceID]
	if !ok {
		return nil, fmt.Errorf("invoice %d: %w", payment.InvoiceID, repositories.ErrNotFound)
	}

	paid := money(f.paid[payment.InvoiceID]).Add(payment.Amount)
	f.paid[payment.InvoiceID] = paid.String()
	f.recorded = append(f.recorded, payment)
	payment.ID = len(f.recorded)

	return &repositories.RecordedPayment{
		Status:        billing.DeriveStatus(money(total), paid),
		InvoiceNumber: "INV-001",
	}, nil
}

func TestRecordPaymentConcurrent(t *testing.T) {
	recorder := &lockedRecorder{
		total: map[int]string{1: "500.00"},
		paid:  map[int]string{1: "0"},
	}
	svc := NewPaymentService(recorder, &fakePaymentStore{}, nil)

	// Two desks settle halves of the same invoice at the same time. Both
	// must land, and whichever commits second must see the first one's
	// amount when it re-derives the status.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
				InvoiceID: 1,
				Amount:    money("250.00"),
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Len(t, recorder.recorded, 2)
	assert.True(t, money(recorder.paid[1]).Equal(money("500.00")))
	assert.Equal(t, billing.StatusPaid, billing.DeriveStatus(money(recorder.total[1]), money(recorder.paid[1])))
}

func TestRecordPaymentOverpaymentStillPaid(t *testing.T) {
	svc := NewPaymentService(newFakeRecorder(), &fakePaymentStore{}, nil)

	_, outcome, err := svc.RecordPayment(context.Background(), 1, &models.RecordPaymentRequest{
		InvoiceID: 1,
		Amount:    money("750.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPaid, outcome.Status)
}
