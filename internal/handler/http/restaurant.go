package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
)

type RestaurantService interface {
	// Restaurants returns all restaurant users
	Restaurants(ctx context.Context) ([]models.User, error)
	// Restaurant returns restaurant user by id
	Restaurant(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RestaurantHandler represents HTTP handler for restaurant-related requests
type RestaurantHandler struct {
	svc RestaurantService
}

// NewRestaurantHandler creates new RestaurantHandler instance
func NewRestaurantHandler(svc RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{svc: svc}
}

// ListRestaurants returns all restaurants ordered by name
func (rh *RestaurantHandler) ListRestaurants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurants, err := rh.svc.Restaurants(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]userResponse, 0, len(restaurants))
		for i := range restaurants {
			resp = append(resp, newUserResponse(&restaurants[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// GetRestaurant returns a restaurant by id
// 200 — found; 404 — absent or not a restaurant.
func (rh *RestaurantHandler) GetRestaurant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid restaurant id")
			return
		}

		restaurant, err := rh.svc.Restaurant(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newUserResponse(restaurant))
	}
}
