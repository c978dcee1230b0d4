package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
)

type ProfileService interface {
	// GeocodeAddress resolves coordinates for an address without persisting anything
	GeocodeAddress(ctx context.Context, street, city, zipCode string) models.Coordinates
	// UpdateAddress geocodes and persists user profile address
	UpdateAddress(ctx context.Context, userID uuid.UUID, street, city, zipCode string) (*models.Address, error)
}

// ProfileHandler represents HTTP handler for profile-related requests
type ProfileHandler struct {
	svc ProfileService
}

// NewProfileHandler creates new ProfileHandler instance
func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type addressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

type geocodeResponse struct {
	Coordinates models.Coordinates `json:"coordinates"`
}

// GeocodeAddress geocodes an address without updating the profile
// 200 — coordinates resolved (fallback coordinates on geocoder failure);
// 400 — missing address fields;
// 401 — user is not authenticated.
func (ph *ProfileHandler) GeocodeAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addressRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.Street == "" || req.City == "" || req.ZipCode == "" {
			writeMessage(w, http.StatusBadRequest, "missing address fields")
			return
		}

		coords := ph.svc.GeocodeAddress(r.Context(), req.Street, req.City, req.ZipCode)

		writeJSON(w, http.StatusOK, geocodeResponse{Coordinates: coords})
	}
}

type addressResponse struct {
	Address models.Address `json:"address"`
}

// UpdateAddress geocodes and saves the user's profile address
func (ph *ProfileHandler) UpdateAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req addressRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.Street == "" || req.City == "" || req.ZipCode == "" {
			writeMessage(w, http.StatusBadRequest, "missing address fields")
			return
		}

		addr, err := ph.svc.UpdateAddress(r.Context(), payload.UserID, req.Street, req.City, req.ZipCode)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, addressResponse{Address: *addr})
	}
}
