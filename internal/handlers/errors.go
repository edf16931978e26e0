package handlers

import (
	"errors"
	"log"
	"net/http"

	"clinic-backend/internal/repositories"
	"clinic-backend/internal/services"
	"clinic-backend/pkg/utils"
)

// respondError maps service/repository errors onto HTTP statuses with a
// {"error": message} body. Unknown errors are logged and hidden behind 500.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrConflict):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[HTTP] Internal error: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
