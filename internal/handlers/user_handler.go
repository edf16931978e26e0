package handlers

import (
	"net/http"

	"clinic-backend/internal/middleware"
	"clinic-backend/internal/services"
	"clinic-backend/pkg/utils"
)

type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(s *services.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

// ListUsers returns staff users of the resolved tenant
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Tenant not resolved")
		return
	}

	users, err := h.Service.ListByTenant(r.Context(), tenantID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, users)
}
