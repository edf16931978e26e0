package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TOTPRepository struct {
	DB *pgxpool.Pool
}

func NewTOTPRepository(db *pgxpool.Pool) *TOTPRepository {
	return &TOTPRepository{DB: db}
}

// SaveSecret stores (or replaces) an unconfirmed TOTP secret for a user
func (r *TOTPRepository) SaveSecret(ctx context.Context, userID int, secret string) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO totp_secrets(user_id, secret, confirmed)
		 VALUES($1, $2, FALSE)
		 ON CONFLICT (user_id) DO UPDATE SET secret = $2, confirmed = FALSE`,
		userID, secret,
	)
	return err
}

func (r *TOTPRepository) GetSecret(ctx context.Context, userID int) (secret string, confirmed bool, err error) {
	err = r.DB.QueryRow(ctx,
		`SELECT secret, confirmed FROM totp_secrets WHERE user_id = $1`, userID,
	).Scan(&secret, &confirmed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, fmt.Errorf("totp secret for user %d: %w", userID, ErrNotFound)
		}
		return "", false, err
	}
	return secret, confirmed, nil
}

func (r *TOTPRepository) Confirm(ctx context.Context, userID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE totp_secrets SET confirmed = TRUE WHERE user_id = $1`, userID,
	)
	return err
}
