package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rookgm/ecobites/internal/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError maps service errors to HTTP statuses, all as {"message": ...}
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrDataNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrConflictData), errors.Is(err, models.ErrOrderConflict):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNoActiveOrders),
		errors.Is(err, models.ErrInvalidOrderStatus),
		errors.Is(err, models.ErrNoOrderItems),
		errors.Is(err, models.ErrInvalidOrderItems),
		errors.Is(err, models.ErrMixedRestaurants),
		errors.Is(err, models.ErrPasswordTooShort):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
