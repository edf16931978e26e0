package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-backend/internal/models"
)

type FeedbackRepository struct {
	DB *pgxpool.Pool
}

func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{DB: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO feedback(tenant_id, patient_name, rating, message)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, created_at`,
		fb.TenantID, fb.PatientName, fb.Rating, fb.Message,
	).Scan(&fb.ID, &fb.CreatedAt)
}

func (r *FeedbackRepository) List(ctx context.Context, tenantID int) ([]*models.Feedback, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, tenant_id, patient_name, rating, message, created_at
		 FROM feedback WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Feedback
	for rows.Next() {
		var fb models.Feedback
		err := rows.Scan(&fb.ID, &fb.TenantID, &fb.PatientName, &fb.Rating,
			&fb.Message, &fb.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, &fb)
	}

	return items, rows.Err()
}
