package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/shopspring/decimal"

	"clinic-backend/internal/models"
	"clinic-backend/internal/timeutil"
)

// GenerateInvoicePDF renders an invoice with its line items and payment
// history as an A4 receipt
func GenerateInvoicePDF(tenantName string, detail *models.InvoiceDetail) ([]byte, error) {
	inv := detail.Invoice

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tenantName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Invoice %s", inv.InvoiceNumber), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Patient Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Patient Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", inv.PatientName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Email: %s", inv.PatientEmail), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Issued: %s", inv.IssuedDate.Format("02-Jan-2006")), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", inv.Status), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Line Items
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Charges", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(85, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Unit Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Line Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range detail.Items {
		desc := item.Description
		if len(desc) > 45 {
			desc = desc[:42] + "..."
		}
		pdf.CellFormat(85, 6, desc, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Rs. "+item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, "Rs. "+item.LineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// Financial Summary
	paid := decimal.Zero
	for _, p := range detail.Payments {
		paid = paid.Add(p.Amount)
	}
	balance := inv.Total.Sub(paid)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, "Total: Rs. "+inv.Total.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, "Paid: Rs. "+paid.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, "Balance: Rs. "+balance.StringFixed(2), "1", 1, "C", false, 0, "")

	if balance.IsPositive() {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	statusText := "Balance Due: Rs. " + balance.StringFixed(2)
	if !balance.IsPositive() {
		statusText = "FULLY PAID"
	}
	pdf.CellFormat(190, 10, statusText, "1", 1, "C", true, 0, "")

	// Payment History if any
	if len(detail.Payments) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Payment History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(30, 7, "Payment #", "1", 0, "C", true, 0, "")
		pdf.CellFormat(60, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "Method", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "Amount", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, p := range detail.Payments {
			pdf.CellFormat(30, 6, fmt.Sprintf("%d", p.ID), "1", 0, "C", false, 0, "")
			pdf.CellFormat(60, 6, timeutil.FormatIST(p.PaidAt, timeutil.DisplayLayout), "1", 0, "C", false, 0, "")
			method := p.PaymentMethod
			if method == "" {
				method = "-"
			}
			pdf.CellFormat(50, 6, method, "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 6, "Rs. "+p.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
