package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestLineTotal(t *testing.T) {
	assert.True(t, d("500").Equal(LineTotal(1, d("500"))))
	assert.True(t, d("1501.50").Equal(LineTotal(3, d("500.50"))))
	assert.True(t, decimal.Zero.Equal(LineTotal(4, d("0"))))
}

func TestInvoiceTotal(t *testing.T) {
	// Consultation 1 x 500, Dressing 2 x 120.25
	total := InvoiceTotal([]int{1, 2}, []decimal.Decimal{d("500"), d("120.25")})
	assert.True(t, d("740.50").Equal(total), "got %s", total)
}

func TestInvoiceTotalNoRoundingDrift(t *testing.T) {
	// 0.1 * 3 must be exactly 0.3, not 0.30000000000000004
	total := InvoiceTotal([]int{3}, []decimal.Decimal{d("0.1")})
	assert.True(t, d("0.3").Equal(total), "got %s", total)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		total   string
		paidSum string
		want    InvoiceStatus
	}{
		{"nothing paid", "500", "0", StatusUnpaid},
		{"partial payment", "500", "200", StatusPartiallyPaid},
		{"exact payment", "500", "500", StatusPaid},
		{"cumulative partials settle", "500", "499.99", StatusPartiallyPaid},
		{"overpayment still paid", "500", "750", StatusPaid},
		{"zero total zero paid", "0", "0", StatusUnpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(d(tt.total), d(tt.paidSum)))
		})
	}
}

// Mirrors the consultation scenario: 1 x 500 invoice, then 200 and 300 payments.
func TestConsultationLifecycle(t *testing.T) {
	total := InvoiceTotal([]int{1}, []decimal.Decimal{d("500")})
	assert.Equal(t, StatusUnpaid, DeriveStatus(total, decimal.Zero))

	paid := d("200")
	assert.Equal(t, StatusPartiallyPaid, DeriveStatus(total, paid))

	paid = paid.Add(d("300"))
	assert.Equal(t, StatusPaid, DeriveStatus(total, paid))
}
