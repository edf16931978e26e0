package models

import (
	"time"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/billing"
)

// Invoice represents a billable record for a patient encounter
type Invoice struct {
	ID            int                   `json:"id"`
	TenantID      int                   `json:"tenant_id"`
	InvoiceNumber string                `json:"invoice_number"`
	PatientName   string                `json:"patient_name"`
	PatientEmail  string                `json:"patient_email"`
	Total         decimal.Decimal       `json:"total"`
	Status        billing.InvoiceStatus `json:"status"`
	IssuedDate    time.Time             `json:"issued_date"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// InvoiceItem is a single billed component of an invoice. Items are written
// once with the invoice and never edited afterward.
type InvoiceItem struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateInvoiceRequest represents the request to create an invoice with items
type CreateInvoiceRequest struct {
	InvoiceNumber string                     `json:"invoice_number"`
	PatientName   string                     `json:"patient_name"`
	PatientEmail  string                     `json:"patient_email"`
	Items         []CreateInvoiceItemRequest `json:"items"`
}

type CreateInvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceDetail is the full invoice view: items in creation order, payments
// in chronological order
type InvoiceDetail struct {
	Invoice  Invoice       `json:"invoice"`
	Items    []InvoiceItem `json:"items"`
	Payments []Payment     `json:"payments"`
}

// InvoiceList is the list response shape (summaries only, no nested rows)
type InvoiceList struct {
	Invoices []*Invoice `json:"invoices"`
}
