package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"clinic-backend/internal/models"
)

type LedgerRepository struct {
	DB *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// Create appends a ledger entry and calculates the running balance for the
// patient contact
func (r *LedgerRepository) Create(ctx context.Context, tenantID int, entry *models.CreateLedgerEntryRequest) (*models.LedgerEntry, error) {
	// COALESCE in GetBalance already yields zero for a patient with no
	// entries; an error here is a genuine failure and must not be written
	// into running_balance as zero.
	currentBalance, err := r.GetBalance(ctx, tenantID, entry.PatientEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger balance: %w", err)
	}

	runningBalance := currentBalance.Add(entry.Debit).Sub(entry.Credit)

	query := `
		INSERT INTO ledger_entries (
			tenant_id, patient_name, patient_email, entry_type, description,
			debit, credit, running_balance, reference_id, reference_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	var id int
	var createdAt time.Time
	err = r.DB.QueryRow(ctx, query,
		tenantID,
		entry.PatientName,
		entry.PatientEmail,
		entry.EntryType,
		entry.Description,
		entry.Debit,
		entry.Credit,
		runningBalance,
		entry.ReferenceID,
		entry.ReferenceType,
	).Scan(&id, &createdAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return &models.LedgerEntry{
		ID:             id,
		TenantID:       tenantID,
		PatientName:    entry.PatientName,
		PatientEmail:   entry.PatientEmail,
		EntryType:      entry.EntryType,
		Description:    entry.Description,
		Debit:          entry.Debit,
		Credit:         entry.Credit,
		RunningBalance: runningBalance,
		ReferenceID:    entry.ReferenceID,
		ReferenceType:  entry.ReferenceType,
		CreatedAt:      createdAt,
	}, nil
}

// GetBalance returns the current balance for a patient contact
func (r *LedgerRepository) GetBalance(ctx context.Context, tenantID int, patientEmail string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit) - SUM(credit), 0) as balance
		FROM ledger_entries
		WHERE tenant_id = $1 AND patient_email = $2
	`

	var balance decimal.Decimal
	err := r.DB.QueryRow(ctx, query, tenantID, patientEmail).Scan(&balance)
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// List returns ledger entries for a tenant, newest first
func (r *LedgerRepository) List(ctx context.Context, tenantID int, limit, offset int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, tenant_id, patient_name, patient_email, entry_type,
			COALESCE(description, '') as description, debit, credit, running_balance,
			reference_id, COALESCE(reference_type, '') as reference_type, created_at
		FROM ledger_entries
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		err := rows.Scan(&e.ID, &e.TenantID, &e.PatientName, &e.PatientEmail,
			&e.EntryType, &e.Description, &e.Debit, &e.Credit, &e.RunningBalance,
			&e.ReferenceID, &e.ReferenceType, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
