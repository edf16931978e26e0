package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-backend/internal/models"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// List returns payments for a tenant ordered by paid_at ascending,
// optionally filtered by invoice
func (r *PaymentRepository) List(ctx context.Context, tenantID int, invoiceID *int) ([]*models.Payment, error) {
	query := `
		SELECT id, tenant_id, invoice_id, amount, payment_method, paid_at, created_at
		FROM payments
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}
	if invoiceID != nil {
		query += " AND invoice_id = $2"
		args = append(args, *invoiceID)
	}
	query += " ORDER BY paid_at, id"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.TenantID,
			&payment.InvoiceID,
			&payment.Amount,
			&payment.PaymentMethod,
			&payment.PaidAt,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}
