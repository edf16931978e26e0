package billing

import (
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the derived payment status of an invoice
type InvoiceStatus string

const (
	StatusUnpaid        InvoiceStatus = "unpaid"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusPaid          InvoiceStatus = "paid"
)

// LineTotal computes quantity * unit_price for a single line item
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// InvoiceTotal sums line totals across all items. The total is computed once
// at invoice creation and never recomputed afterward (items are immutable).
func InvoiceTotal(quantities []int, unitPrices []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for i := range quantities {
		total = total.Add(LineTotal(quantities[i], unitPrices[i]))
	}
	return total
}

// DeriveStatus maps the cumulative paid amount against the invoice total:
//
//	paid_sum == 0           -> unpaid
//	0 < paid_sum < total    -> partially_paid
//	paid_sum >= total       -> paid
//
// Overpayment (paid_sum > total) is accepted and still maps to "paid".
// Whether it should instead be rejected or tracked as credit is an open
// product decision; until that lands, this stays permissive.
func DeriveStatus(total, paidSum decimal.Decimal) InvoiceStatus {
	switch {
	case paidSum.LessThanOrEqual(decimal.Zero):
		return StatusUnpaid
	case paidSum.LessThan(total):
		return StatusPartiallyPaid
	default:
		return StatusPaid
	}
}
