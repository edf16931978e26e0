package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(tenant_id, name, email, password_hash, role)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id, is_active, created_at, updated_at`,
		user.TenantID, user.Name, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", user.Email, ErrConflict)
		}
		return err
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRow(ctx,
		`SELECT id, tenant_id, name, email, password_hash, role, is_active, totp_enabled, created_at, updated_at
		 FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.TenantID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRow(ctx,
		`SELECT id, tenant_id, name, email, password_hash, role, is_active, totp_enabled, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&user.ID, &user.TenantID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListByTenant(ctx context.Context, tenantID int) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, tenant_id, name, email, password_hash, role, is_active, totp_enabled, created_at, updated_at
		 FROM users WHERE tenant_id = $1 ORDER BY name`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(&user.ID, &user.TenantID, &user.Name, &user.Email,
			&user.PasswordHash, &user.Role, &user.IsActive, &user.TOTPEnabled,
			&user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

func (r *UserRepository) SetTOTPEnabled(ctx context.Context, userID int, enabled bool) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_enabled = $1, updated_at = NOW() WHERE id = $2`,
		enabled, userID,
	)
	return err
}
