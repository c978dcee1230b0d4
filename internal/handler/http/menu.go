package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
	"github.com/rookgm/ecobites/internal/service"
)

type MenuService interface {
	// Create adds menu item to the restaurant's menu
	Create(ctx context.Context, actor *models.TokenPayload, item *models.MenuItem) (*models.MenuItem, error)
	// RestaurantMenu returns available menu items of the restaurant
	RestaurantMenu(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error)
	// Update applies changes to a menu item owned by the acting restaurant
	Update(ctx context.Context, actor *models.TokenPayload, id uuid.UUID, upd service.MenuItemUpdate) (*models.MenuItem, error)
	// Delete removes a menu item owned by the acting restaurant
	Delete(ctx context.Context, actor *models.TokenPayload, id uuid.UUID) error
}

// MenuHandler represents HTTP handler for menu-related requests
type MenuHandler struct {
	svc MenuService
}

// NewMenuHandler creates new MenuHandler instance
func NewMenuHandler(svc MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

type menuItemResponse struct {
	ID                   uuid.UUID `json:"id"`
	RestaurantID         uuid.UUID `json:"restaurantId"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Price                float64   `json:"price"`
	Category             string    `json:"category"`
	Image                string    `json:"image"`
	IsAvailable          bool      `json:"isAvailable"`
	PreparationTime      int       `json:"preparationTime"`
	IsSeasonal           bool      `json:"isSeasonal"`
	SeasonalLabel        string    `json:"seasonalLabel"`
	SeasonalRewardPoints int       `json:"seasonalRewardPoints"`
	PackagingOptions     []string  `json:"packagingOptions"`
	CreatedAt            string    `json:"createdAt"`
}

func newMenuItemResponse(item *models.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:                   item.ID,
		RestaurantID:         item.RestaurantID,
		Name:                 item.Name,
		Description:          item.Description,
		Price:                item.Price,
		Category:             item.Category,
		Image:                item.Image,
		IsAvailable:          item.IsAvailable,
		PreparationTime:      item.PreparationTime,
		IsSeasonal:           item.IsSeasonal,
		SeasonalLabel:        item.SeasonalLabel,
		SeasonalRewardPoints: item.SeasonalRewardPoints,
		PackagingOptions:     item.PackagingOptions,
		CreatedAt:            item.CreatedAt.Format(time.RFC3339),
	}
}

type createMenuItemRequest struct {
	RestaurantID         uuid.UUID `json:"restaurantId"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Price                float64   `json:"price"`
	Category             string    `json:"category"`
	Image                string    `json:"image"`
	PreparationTime      int       `json:"preparationTime"`
	IsSeasonal           bool      `json:"isSeasonal"`
	SeasonalLabel        string    `json:"seasonalLabel"`
	SeasonalRewardPoints int       `json:"seasonalRewardPoints"`
	PackagingOptions     []string  `json:"packagingOptions"`
}

// CreateMenuItem adds a menu item
// 201 — item created;
// 400 — bad request;
// 403 — acting user is not the owning restaurant;
// 404 — restaurant not found.
func (mh *MenuHandler) CreateMenuItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if payload.Role != models.RoleRestaurant && payload.Role != models.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "only restaurants can manage menu items")
			return
		}

		var req createMenuItemRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.Name == "" || req.Price <= 0 {
			writeMessage(w, http.StatusBadRequest, "name and positive price are required")
			return
		}

		item := models.MenuItem{
			RestaurantID:         req.RestaurantID,
			Name:                 req.Name,
			Description:          req.Description,
			Price:                req.Price,
			Category:             req.Category,
			Image:                req.Image,
			PreparationTime:      req.PreparationTime,
			IsSeasonal:           req.IsSeasonal,
			SeasonalLabel:        req.SeasonalLabel,
			SeasonalRewardPoints: req.SeasonalRewardPoints,
			PackagingOptions:     req.PackagingOptions,
		}

		created, err := mh.svc.Create(r.Context(), payload, &item)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newMenuItemResponse(created))
	}
}

// RestaurantMenu lists available menu items of a restaurant
func (mh *MenuHandler) RestaurantMenu() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, err := uuid.Parse(chi.URLParam(r, "restaurantID"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid restaurant id")
			return
		}

		items, err := mh.svc.RestaurantMenu(r.Context(), restaurantID)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]menuItemResponse, 0, len(items))
		for i := range items {
			resp = append(resp, newMenuItemResponse(&items[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type updateMenuItemRequest struct {
	Name                 *string  `json:"name"`
	Description          *string  `json:"description"`
	Price                *float64 `json:"price"`
	Category             *string  `json:"category"`
	Image                *string  `json:"image"`
	IsAvailable          *bool    `json:"isAvailable"`
	PreparationTime      *int     `json:"preparationTime"`
	IsSeasonal           *bool    `json:"isSeasonal"`
	SeasonalLabel        *string  `json:"seasonalLabel"`
	SeasonalRewardPoints *int     `json:"seasonalRewardPoints"`
	PackagingOptions     []string `json:"packagingOptions"`
}

// UpdateMenuItem updates a menu item of the owning restaurant
func (mh *MenuHandler) UpdateMenuItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if payload.Role != models.RoleRestaurant && payload.Role != models.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "only restaurants can manage menu items")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid menu item id")
			return
		}

		var req updateMenuItemRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		item, err := mh.svc.Update(r.Context(), payload, id, service.MenuItemUpdate{
			Name:                 req.Name,
			Description:          req.Description,
			Price:                req.Price,
			Category:             req.Category,
			Image:                req.Image,
			IsAvailable:          req.IsAvailable,
			PreparationTime:      req.PreparationTime,
			IsSeasonal:           req.IsSeasonal,
			SeasonalLabel:        req.SeasonalLabel,
			SeasonalRewardPoints: req.SeasonalRewardPoints,
			PackagingOptions:     req.PackagingOptions,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newMenuItemResponse(item))
	}
}

// DeleteMenuItem removes a menu item of the owning restaurant
func (mh *MenuHandler) DeleteMenuItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if payload.Role != models.RoleRestaurant && payload.Role != models.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "only restaurants can manage menu items")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid menu item id")
			return
		}

		if err := mh.svc.Delete(r.Context(), payload, id); err != nil {
			writeError(w, err)
			return
		}

		writeMessage(w, http.StatusOK, "menu item deleted")
	}
}
