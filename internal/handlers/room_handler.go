package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"clinic-backend/internal/middleware"
	"clinic-backend/internal/models"
	"clinic-backend/internal/repositories"
	"clinic-backend/pkg/utils"
)

type RoomHandler struct {
	Repo *repositories.RoomRepository
}

func NewRoomHandler(repo *repositories.RoomRepository) *RoomHandler {
	return &RoomHandler{Repo: repo}
}

// CreateRoom registers a ward room
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Number == "" {
		utils.Error(w, http.StatusBadRequest, "Room number is required")
		return
	}
	if req.Capacity <= 0 {
		utils.Error(w, http.StatusBadRequest, "Capacity must be positive")
		return
	}

	room := &models.Room{
		TenantID: tenantID,
		Number:   req.Number,
		Ward:     req.Ward,
		Capacity: req.Capacity,
	}
	if err := h.Repo.Create(r.Context(), room); err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, room)
}

// GetRoom returns a room by ID
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid room ID")
		return
	}

	room, err := h.Repo.Get(r.Context(), tenantID, id)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, room)
}

// ListRooms returns rooms for the tenant ordered by ward and number
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	rooms, err := h.Repo.List(r.Context(), tenantID)
	if err != nil {
		respondError(w, err)
		return
	}
	if rooms == nil {
		rooms = []*models.Room{}
	}

	utils.JSON(w, http.StatusOK, rooms)
}

// UpdateRoom updates occupancy or status of a room
func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid room ID")
		return
	}

	var req models.UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	room, err := h.Repo.Update(r.Context(), tenantID, id, &req)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, room)
}
