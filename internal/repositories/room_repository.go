package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clinic-backend/internal/models"
)

type RoomRepository struct {
	DB *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{DB: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO rooms(tenant_id, number, ward, capacity)
		 VALUES($1, $2, $3, $4)
		 RETURNING id, occupied, status, created_at, updated_at`,
		room.TenantID, room.Number, room.Ward, room.Capacity,
	).Scan(&room.ID, &room.Occupied, &room.Status, &room.CreatedAt, &room.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("room %s: %w", room.Number, ErrConflict)
		}
		return err
	}
	return nil
}

func (r *RoomRepository) Get(ctx context.Context, tenantID, id int) (*models.Room, error) {
	var room models.Room
	err := r.DB.QueryRow(ctx,
		`SELECT id, tenant_id, number, ward, capacity, occupied, status, created_at, updated_at
		 FROM rooms WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	).Scan(&room.ID, &room.TenantID, &room.Number, &room.Ward, &room.Capacity,
		&room.Occupied, &room.Status, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("room %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) List(ctx context.Context, tenantID int) ([]*models.Room, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, tenant_id, number, ward, capacity, occupied, status, created_at, updated_at
		 FROM rooms WHERE tenant_id = $1 ORDER BY ward, number`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		var room models.Room
		err := rows.Scan(&room.ID, &room.TenantID, &room.Number, &room.Ward,
			&room.Capacity, &room.Occupied, &room.Status, &room.CreatedAt, &room.UpdatedAt)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}

	return rooms, rows.Err()
}

func (r *RoomRepository) Update(ctx context.Context, tenantID, id int, req *models.UpdateRoomRequest) (*models.Room, error) {
	room, err := r.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Occupied != nil {
		room.Occupied = *req.Occupied
	}
	if req.Status != "" {
		room.Status = req.Status
	}

	err = r.DB.QueryRow(ctx,
		`UPDATE rooms SET occupied = $1, status = $2, updated_at = NOW()
		 WHERE id = $3 AND tenant_id = $4
		 RETURNING updated_at`,
		room.Occupied, room.Status, id, tenantID,
	).Scan(&room.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return room, nil
}
