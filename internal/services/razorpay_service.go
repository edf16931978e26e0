package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"

	razorpay "github.com/razorpay/razorpay-go"
)

// OnlineTransactionStore persists the audit trail of Razorpay orders
type OnlineTransactionStore interface {
	Create(ctx context.Context, txn *models.OnlineTransaction) error
	GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error)
	MarkCaptured(ctx context.Context, orderID, paymentID string) error
}

// RazorpayService creates checkout orders for invoices and settles captured
// webhooks through the normal payment-recording path, so online payments
// obey the same transaction and status rules as desk payments.
type RazorpayService struct {
	keyID           string
	keySecret       string
	webhookSecret   string
	transactionRepo OnlineTransactionStore
	invoices        *InvoiceService
	payments        *PaymentService
}

func NewRazorpayService(
	keyID, keySecret, webhookSecret string,
	transactionRepo OnlineTransactionStore,
	invoices *InvoiceService,
	payments *PaymentService,
) *RazorpayService {
	return &RazorpayService{
		keyID:           keyID,
		keySecret:       keySecret,
		webhookSecret:   webhookSecret,
		transactionRepo: transactionRepo,
		invoices:        invoices,
		payments:        payments,
	}
}

// IsEnabled reports whether Razorpay credentials are configured
func (s *RazorpayService) IsEnabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

// CreateOrder creates a Razorpay order for an invoice and stores the audit
// transaction row
func (s *RazorpayService) CreateOrder(ctx context.Context, tenantID int, req *models.CreateOnlinePaymentRequest) (*models.CreateOrderResponse, error) {
	if !s.IsEnabled() {
		return nil, fmt.Errorf("%w: online payments are not configured", ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	// Razorpay settles in paise; sub-paise precision would be truncated
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return nil, fmt.Errorf("%w: amount must have at most two decimal places", ErrValidation)
	}

	// Verify the invoice exists under this tenant before creating an order
	detail, err := s.invoices.GetInvoice(ctx, tenantID, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	client := razorpay.NewClient(s.keyID, s.keySecret)

	// Razorpay amounts are in paise
	amountPaise := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	orderData := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  detail.Invoice.InvoiceNumber,
		"notes": map[string]interface{}{
			"tenant_id":  tenantID,
			"invoice_id": req.InvoiceID,
		},
	}

	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	orderID, _ := order["id"].(string)
	txn := &models.OnlineTransaction{
		TenantID:        tenantID,
		InvoiceID:       req.InvoiceID,
		RazorpayOrderID: orderID,
		Amount:          req.Amount,
		Status:          "created",
	}
	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	return &models.CreateOrderResponse{
		OrderID:  orderID,
		Amount:   req.Amount,
		Currency: "INR",
		KeyID:    s.keyID,
	}, nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature HMAC over the raw
// webhook body
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleCaptured settles a captured order: marks the audit row and records
// the payment against the invoice
func (s *RazorpayService) HandleCaptured(ctx context.Context, orderID, paymentID string) error {
	txn, err := s.transactionRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.MarkCaptured(ctx, orderID, paymentID); err != nil {
		// The created->captured guard reports ErrNotFound for an order that
		// was already settled; Razorpay retries webhooks, so acknowledge
		// without recording twice. Anything else is a real failure and must
		// surface so the webhook is retried.
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("[Razorpay] Order %s already settled: %v", orderID, err)
			return nil
		}
		return fmt.Errorf("failed to mark order %s captured: %w", orderID, err)
	}

	_, _, err = s.payments.RecordPayment(ctx, txn.TenantID, &models.RecordPaymentRequest{
		InvoiceID:     txn.InvoiceID,
		Amount:        txn.Amount,
		PaymentMethod: "razorpay",
	})
	return err
}

var _ OnlineTransactionStore = (*repositories.OnlineTransactionRepository)(nil)
