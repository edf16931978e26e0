package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType represents the type of ledger entry
type LedgerEntryType string

const (
	LedgerEntryTypeCharge        LedgerEntryType = "CHARGE"         // Invoice issued to a patient
	LedgerEntryTypePayment       LedgerEntryType = "PAYMENT"        // Payment received at the desk
	LedgerEntryTypeOnlinePayment LedgerEntryType = "ONLINE_PAYMENT" // Online payment via Razorpay
)

// LedgerEntry is a single row in the append-only accounting trail shown in
// the admin console
type LedgerEntry struct {
	ID             int             `json:"id"`
	TenantID       int             `json:"tenant_id"`
	PatientName    string          `json:"patient_name"`
	PatientEmail   string          `json:"patient_email"`
	EntryType      LedgerEntryType `json:"entry_type"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`           // Money owed (increases balance)
	Credit         decimal.Decimal `json:"credit"`          // Money paid (decreases balance)
	RunningBalance decimal.Decimal `json:"running_balance"` // Balance after this entry
	ReferenceID    *int            `json:"reference_id"`    // invoice_id or payment_id
	ReferenceType  string          `json:"reference_type"`  // 'invoice', 'payment'
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateLedgerEntryRequest is used when appending a ledger entry
type CreateLedgerEntryRequest struct {
	PatientName   string          `json:"patient_name"`
	PatientEmail  string          `json:"patient_email"`
	EntryType     LedgerEntryType `json:"entry_type"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	ReferenceID   *int            `json:"reference_id"`
	ReferenceType string          `json:"reference_type"`
}
