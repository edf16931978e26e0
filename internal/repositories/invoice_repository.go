package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"clinic-backend/internal/billing"
	"clinic-backend/internal/models"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// Create inserts an invoice and its items in a single transaction. The
// invoice total and per-line totals are already computed by the caller;
// items cannot be added after creation.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice, items []models.InvoiceItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO invoices(tenant_id, invoice_number, patient_name, patient_email, total, status)
		 VALUES($1, $2, $3, $4, $5, $6)
		 RETURNING id, issued_date, created_at, updated_at`,
		invoice.TenantID, invoice.InvoiceNumber, invoice.PatientName,
		invoice.PatientEmail, invoice.Total, invoice.Status,
	).Scan(&invoice.ID, &invoice.IssuedDate, &invoice.CreatedAt, &invoice.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", invoice.InvoiceNumber, ErrConflict)
		}
		return err
	}

	for i := range items {
		item := &items[i]
		err = tx.QueryRow(ctx,
			`INSERT INTO invoice_items(invoice_id, description, quantity, unit_price, line_total)
			 VALUES($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			invoice.ID, item.Description, item.Quantity, item.UnitPrice, item.LineTotal,
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return err
		}
		item.InvoiceID = invoice.ID
	}

	return tx.Commit(ctx)
}

// Get retrieves an invoice with its items (creation order) and payments
// (chronological order)
func (r *InvoiceRepository) Get(ctx context.Context, tenantID, id int) (*models.InvoiceDetail, error) {
	var detail models.InvoiceDetail
	err := r.DB.QueryRow(ctx,
		`SELECT id, tenant_id, invoice_number, patient_name, patient_email,
		        total, status, issued_date, created_at, updated_at
		 FROM invoices
		 WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	).Scan(&detail.Invoice.ID, &detail.Invoice.TenantID, &detail.Invoice.InvoiceNumber,
		&detail.Invoice.PatientName, &detail.Invoice.PatientEmail, &detail.Invoice.Total,
		&detail.Invoice.Status, &detail.Invoice.IssuedDate, &detail.Invoice.CreatedAt,
		&detail.Invoice.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, description, quantity, unit_price, line_total, created_at
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InvoiceItem
		err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		detail.Items = append(detail.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	payRows, err := r.DB.Query(ctx,
		`SELECT id, tenant_id, invoice_id, amount, payment_method, paid_at, created_at
		 FROM payments WHERE invoice_id = $1 ORDER BY paid_at, id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer payRows.Close()

	for payRows.Next() {
		var p models.Payment
		err := payRows.Scan(&p.ID, &p.TenantID, &p.InvoiceID, &p.Amount,
			&p.PaymentMethod, &p.PaidAt, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		detail.Payments = append(detail.Payments, p)
	}
	if err := payRows.Err(); err != nil {
		return nil, err
	}

	return &detail, nil
}

// List returns all invoices for a tenant, newest first, without nested
// items/payments
func (r *InvoiceRepository) List(ctx context.Context, tenantID int) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, tenant_id, invoice_number, patient_name, patient_email,
		        total, status, issued_date, created_at, updated_at
		 FROM invoices
		 WHERE tenant_id = $1
		 ORDER BY created_at DESC, id DESC`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		var invoice models.Invoice
		err := rows.Scan(&invoice.ID, &invoice.TenantID, &invoice.InvoiceNumber,
			&invoice.PatientName, &invoice.PatientEmail, &invoice.Total,
			&invoice.Status, &invoice.IssuedDate, &invoice.CreatedAt, &invoice.UpdatedAt)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, &invoice)
	}

	return invoices, rows.Err()
}

// RecordedPayment reports the outcome of a payment recording: the status the
// invoice settled on plus the invoice fields the ledger trail needs.
type RecordedPayment struct {
	Status        billing.InvoiceStatus
	InvoiceNumber string
	PatientName   string
	PatientEmail  string
}

// RecordPayment inserts a payment and re-derives the owning invoice's status
// in one transaction. The invoice row is locked with SELECT ... FOR UPDATE so
// two concurrent payments cannot both observe a stale paid sum: the second
// transaction waits on the lock and re-sums after the first commits.
func (r *InvoiceRepository) RecordPayment(ctx context.Context, payment *models.Payment) (*RecordedPayment, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var total decimal.Decimal
	out := &RecordedPayment{}
	err = tx.QueryRow(ctx,
		`SELECT total, invoice_number, patient_name, patient_email
		 FROM invoices WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
		payment.InvoiceID, payment.TenantID,
	).Scan(&total, &out.InvoiceNumber, &out.PatientName, &out.PatientEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %d: %w", payment.InvoiceID, ErrNotFound)
		}
		return nil, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO payments(tenant_id, invoice_id, amount, payment_method)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, paid_at, created_at`,
		payment.TenantID, payment.InvoiceID, payment.Amount, payment.PaymentMethod,
	).Scan(&payment.ID, &payment.PaidAt, &payment.CreatedAt)
	if err != nil {
		return nil, err
	}

	// Re-sum all payments including the one just inserted; never trust a
	// previously stored status.
	var paidSum decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1`,
		payment.InvoiceID,
	).Scan(&paidSum)
	if err != nil {
		return nil, err
	}

	out.Status = billing.DeriveStatus(total, paidSum)
	_, err = tx.Exec(ctx,
		`UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2`,
		out.Status, payment.InvoiceID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return out, nil
}
