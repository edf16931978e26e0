package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a monetary amount applied against an invoice. Payments are
// append-only: there is no update or delete path.
type Payment struct {
	ID            int             `json:"id"`
	TenantID      int             `json:"tenant_id"`
	InvoiceID     int             `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaidAt        time.Time       `json:"paid_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RecordPaymentRequest represents the request to record a payment
type RecordPaymentRequest struct {
	InvoiceID     int             `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

// PaymentList is the list response shape
type PaymentList struct {
	Payments []*Payment `json:"payments"`
}
