package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-backend/internal/models"
)

type OnlineTransactionRepository struct {
	DB *pgxpool.Pool
}

func NewOnlineTransactionRepository(db *pgxpool.Pool) *OnlineTransactionRepository {
	return &OnlineTransactionRepository{DB: db}
}

func (r *OnlineTransactionRepository) Create(ctx context.Context, txn *models.OnlineTransaction) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO online_transactions(tenant_id, invoice_id, razorpay_order_id, amount, status)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		txn.TenantID, txn.InvoiceID, txn.RazorpayOrderID, txn.Amount, txn.Status,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt)
}

func (r *OnlineTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	var txn models.OnlineTransaction
	err := r.DB.QueryRow(ctx,
		`SELECT id, tenant_id, invoice_id, razorpay_order_id, razorpay_payment_id,
		        amount, status, created_at, updated_at
		 FROM online_transactions WHERE razorpay_order_id = $1`, orderID,
	).Scan(&txn.ID, &txn.TenantID, &txn.InvoiceID, &txn.RazorpayOrderID,
		&txn.RazorpayPaymentID, &txn.Amount, &txn.Status, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	return &txn, nil
}

func (r *OnlineTransactionRepository) MarkCaptured(ctx context.Context, orderID, paymentID string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE online_transactions
		 SET razorpay_payment_id = $1, status = 'captured', updated_at = NOW()
		 WHERE razorpay_order_id = $2 AND status = 'created'`,
		paymentID, orderID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s not in created state: %w", orderID, ErrNotFound)
	}
	return nil
}
