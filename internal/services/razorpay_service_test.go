package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
)

type fakeTxnStore struct {
	txn         *models.OnlineTransaction
	markErr     error
	markedOrder string
}

func (f *fakeTxnStore) Create(ctx context.Context, txn *models.OnlineTransaction) error {
	f.txn = txn
	return nil
}

func (f *fakeTxnStore) GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	if f.txn == nil || f.txn.RazorpayOrderID != orderID {
		return nil, fmt.Errorf("order %s: %w", orderID, repositories.ErrNotFound)
	}
	return f.txn, nil
}

func (f *fakeTxnStore) MarkCaptured(ctx context.Context, orderID, paymentID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markedOrder = orderID
	return nil
}

func newCapturedOrder(amount string) *models.OnlineTransaction {
	return &models.OnlineTransaction{
		TenantID:        1,
		InvoiceID:       1,
		RazorpayOrderID: "order_123",
		Amount:          money(amount),
		Status:          "created",
	}
}

func TestHandleCapturedRecordsPayment(t *testing.T) {
	recorder := newFakeRecorder()
	payments := NewPaymentService(recorder, &fakePaymentStore{}, nil)
	store := &fakeTxnStore{txn: newCapturedOrder("200.00")}
	svc := NewRazorpayService("key", "secret", "whsec", store, nil, payments)

	err := svc.HandleCaptured(context.Background(), "order_123", "pay_456")
	require.NoError(t, err)
	assert.Equal(t, "order_123", store.markedOrder)
	assert.Equal(t, 1, recorder.attempts)
}

func TestHandleCapturedReplayAcknowledged(t *testing.T) {
	recorder := newFakeRecorder()
	payments := NewPaymentService(recorder, &fakePaymentStore{}, nil)
	store := &fakeTxnStore{
		txn:     newCapturedOrder("200.00"),
		markErr: fmt.Errorf("order order_123 not in created state: %w", repositories.ErrNotFound),
	}
	svc := NewRazorpayService("key", "secret", "whsec", store, nil, payments)

	// A replayed webhook is acknowledged and the payment is not recorded
	// a second time
	err := svc.HandleCaptured(context.Background(), "order_123", "pay_456")
	require.NoError(t, err)
	assert.Equal(t, 0, recorder.attempts)
}

func TestHandleCapturedSurfacesTransientFailures(t *testing.T) {
	recorder := newFakeRecorder()
	payments := NewPaymentService(recorder, &fakePaymentStore{}, nil)
	store := &fakeTxnStore{
		txn:     newCapturedOrder("200.00"),
		markErr: errors.New("connection refused"),
	}
	svc := NewRazorpayService("key", "secret", "whsec", store, nil, payments)

	// A DB failure must propagate so the webhook responds non-2xx and
	// Razorpay retries; swallowing it would lose the payment
	err := svc.HandleCaptured(context.Background(), "order_123", "pay_456")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repositories.ErrNotFound)
	assert.Equal(t, 0, recorder.attempts)
}

func TestCreateOrderNotConfigured(t *testing.T) {
	svc := NewRazorpayService("", "", "", &fakeTxnStore{}, nil, nil)

	_, err := svc.CreateOrder(context.Background(), 1, &models.CreateOnlinePaymentRequest{
		InvoiceID: 1,
		Amount:    money("100.00"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderRejectsSubPaiseAmount(t *testing.T) {
	svc := NewRazorpayService("key", "secret", "whsec", &fakeTxnStore{}, nil, nil)

	_, err := svc.CreateOrder(context.Background(), 1, &models.CreateOnlinePaymentRequest{
		InvoiceID: 1,
		Amount:    money("10.005"),
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(context.Background(), 1, &models.CreateOnlinePaymentRequest{
		InvoiceID: 1,
		Amount:    money("-0.001"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifyWebhookSignature(t *testing.T) {
	svc := NewRazorpayService("key", "secret", "whsec", &fakeTxnStore{}, nil, nil)

	body := []byte(`{"event":"payment.captured"}`)
	// HMAC-SHA256 of body with key "whsec"
	assert.False(t, svc.VerifyWebhookSignature(body, "bogus"))

	unconfigured := NewRazorpayService("key", "secret", "", &fakeTxnStore{}, nil, nil)
	assert.False(t, unconfigured.VerifyWebhookSignature(body, "anything"))
}
