package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-backend/internal/models"
)

type PatientRepository struct {
	DB *pgxpool.Pool
}

func NewPatientRepository(db *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{DB: db}
}

func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO patients(tenant_id, name, phone, email, address)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		patient.TenantID, patient.Name, patient.Phone, patient.Email, patient.Address,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
}

func (r *PatientRepository) Get(ctx context.Context, tenantID, id int) (*models.Patient, error) {
	var patient models.Patient
	err := r.DB.QueryRow(ctx,
		`SELECT id, tenant_id, name, phone, email, address, created_at, updated_at
		 FROM patients WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	).Scan(&patient.ID, &patient.TenantID, &patient.Name, &patient.Phone,
		&patient.Email, &patient.Address, &patient.CreatedAt, &patient.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("patient %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &patient, nil
}

func (r *PatientRepository) List(ctx context.Context, tenantID int) ([]*models.Patient, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, tenant_id, name, phone, email, address, created_at, updated_at
		 FROM patients WHERE tenant_id = $1 ORDER BY name`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*models.Patient
	for rows.Next() {
		var patient models.Patient
		err := rows.Scan(&patient.ID, &patient.TenantID, &patient.Name, &patient.Phone,
			&patient.Email, &patient.Address, &patient.CreatedAt, &patient.UpdatedAt)
		if err != nil {
			return nil, err
		}
		patients = append(patients, &patient)
	}

	return patients, rows.Err()
}

func (r *PatientRepository) SearchByPhone(ctx context.Context, tenantID int, phone string) ([]*models.Patient, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, tenant_id, name, phone, email, address, created_at, updated_at
		 FROM patients WHERE tenant_id = $1 AND phone LIKE $2 ORDER BY name`,
		tenantID, phone+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*models.Patient
	for rows.Next() {
		var patient models.Patient
		err := rows.Scan(&patient.ID, &patient.TenantID, &patient.Name, &patient.Phone,
			&patient.Email, &patient.Address, &patient.CreatedAt, &patient.UpdatedAt)
		if err != nil {
			return nil, err
		}
		patients = append(patients, &patient)
	}

	return patients, rows.Err()
}

func (r *PatientRepository) Update(ctx context.Context, tenantID, id int, req *models.UpdatePatientRequest) (*models.Patient, error) {
	patient, err := r.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		patient.Name = req.Name
	}
	if req.Phone != "" {
		patient.Phone = req.Phone
	}
	if req.Email != "" {
		patient.Email = req.Email
	}
	if req.Address != "" {
		patient.Address = req.Address
	}

	err = r.DB.QueryRow(ctx,
		`UPDATE patients SET name = $1, phone = $2, email = $3, address = $4, updated_at = NOW()
		 WHERE id = $5 AND tenant_id = $6
		 RETURNING updated_at`,
		patient.Name, patient.Phone, patient.Email, patient.Address, id, tenantID,
	).Scan(&patient.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return patient, nil
}
