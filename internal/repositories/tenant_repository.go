package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-backend/internal/models"
)

type TenantRepository struct {
	DB *pgxpool.Pool
}

func NewTenantRepository(db *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{DB: db}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO tenants(name, subdomain)
		 VALUES($1, $2)
		 RETURNING id, is_active, created_at, updated_at`,
		tenant.Name, tenant.Subdomain,
	).Scan(&tenant.ID, &tenant.IsActive, &tenant.CreatedAt, &tenant.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("subdomain %s: %w", tenant.Subdomain, ErrConflict)
		}
		return err
	}
	return nil
}

func (r *TenantRepository) Get(ctx context.Context, id int) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, subdomain, is_active, created_at, updated_at
		 FROM tenants WHERE id = $1`, id,
	).Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.IsActive,
		&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tenant %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *TenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, subdomain, is_active, created_at, updated_at
		 FROM tenants WHERE subdomain = $1`, subdomain,
	).Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain, &tenant.IsActive,
		&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tenant %s: %w", subdomain, ErrNotFound)
		}
		return nil, err
	}
	return &tenant, nil
}

func (r *TenantRepository) List(ctx context.Context) ([]*models.Tenant, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, subdomain, is_active, created_at, updated_at
		 FROM tenants ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		var tenant models.Tenant
		err := rows.Scan(&tenant.ID, &tenant.Name, &tenant.Subdomain,
			&tenant.IsActive, &tenant.CreatedAt, &tenant.UpdatedAt)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, &tenant)
	}

	return tenants, rows.Err()
}

func (r *TenantRepository) Update(ctx context.Context, id int, name string, isActive *bool) (*models.Tenant, error) {
	tenant, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		tenant.Name = name
	}
	if isActive != nil {
		tenant.IsActive = *isActive
	}

	err = r.DB.QueryRow(ctx,
		`UPDATE tenants SET name = $1, is_active = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING updated_at`,
		tenant.Name, tenant.IsActive, id,
	).Scan(&tenant.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}
