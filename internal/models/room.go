package models

import "time"

type Room struct {
	ID        int       `json:"id"`
	TenantID  int       `json:"tenant_id"`
	Number    string    `json:"number"`
	Ward      string    `json:"ward"`
	Capacity  int       `json:"capacity"`
	Occupied  int       `json:"occupied"`
	Status    string    `json:"status"` // available, occupied, maintenance
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateRoomRequest struct {
	Number   string `json:"number"`
	Ward     string `json:"ward"`
	Capacity int    `json:"capacity"`
}

type UpdateRoomRequest struct {
	Occupied *int   `json:"occupied"`
	Status   string `json:"status"`
}
