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

type OrderService interface {
	// Create places a new order for the acting customer
	Create(ctx context.Context, actor *models.TokenPayload, req service.CreateOrderRequest) (*models.Order, error)
	// ListByCustomer returns customer orders, newest first
	ListByCustomer(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	// ListByRestaurant returns restaurant orders, newest first
	ListByRestaurant(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	// ListByDriver returns driver orders, newest first
	ListByDriver(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	// Get returns order by id
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// Available returns orders a driver can pick up
	Available(ctx context.Context, actor *models.TokenPayload) ([]models.Order, error)
	// UpdateStatus transitions order to the given status on behalf of the acting user
	UpdateStatus(ctx context.Context, actor *models.TokenPayload, orderID uuid.UUID, status string, driverID *uuid.UUID) (*models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type orderResponse struct {
	ID                  uuid.UUID             `json:"id"`
	OrderNumber         string                `json:"orderNumber"`
	CustomerID          uuid.UUID             `json:"customerId"`
	RestaurantID        uuid.UUID             `json:"restaurantId"`
	DriverID            *uuid.UUID            `json:"driverId"`
	Items               []models.OrderItem    `json:"items"`
	Status              string                `json:"status"`
	DeliveryAddress     models.Address        `json:"deliveryAddress"`
	Subtotal            float64               `json:"subtotal"`
	DeliveryFee         float64               `json:"deliveryFee"`
	Tax                 float64               `json:"tax"`
	Total               float64               `json:"total"`
	PackagingPreference string                `json:"packagingPreference"`
	EcoRewardPoints     int                   `json:"ecoRewardPoints"`
	DriverRewardPoints  int                   `json:"driverRewardPoints"`
	CombineGroupID      *string               `json:"combineGroupId"`
	SpecialInstructions string                `json:"specialInstructions"`
	StatusHistory       []models.StatusChange `json:"statusHistory"`
	CreatedAt           string                `json:"createdAt"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:                  order.ID,
		OrderNumber:         order.OrderNumber,
		CustomerID:          order.CustomerID,
		RestaurantID:        order.RestaurantID,
		DriverID:            order.DriverID,
		Items:               order.Items,
		Status:              order.Status,
		DeliveryAddress:     order.DeliveryAddress,
		Subtotal:            order.Subtotal,
		DeliveryFee:         order.DeliveryFee,
		Tax:                 order.Tax,
		Total:               order.Total,
		PackagingPreference: order.PackagingPreference,
		EcoRewardPoints:     order.EcoRewardPoints,
		DriverRewardPoints:  order.DriverRewardPoints,
		CombineGroupID:      order.CombineGroupID,
		SpecialInstructions: order.SpecialInstructions,
		StatusHistory:       order.StatusHistory,
		CreatedAt:           order.CreatedAt.Format(time.RFC3339),
	}
}

func newOrdersResponse(orders []models.Order) []orderResponse {
	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i]))
	}
	return resp
}

type createOrderItemRequest struct {
	MenuItemID uuid.UUID `json:"menuItemId"`
	Quantity   int       `json:"quantity"`
}

type createOrderRequest struct {
	CustomerID          *uuid.UUID               `json:"customerId"`
	RestaurantID        *uuid.UUID               `json:"restaurantId"`
	Items               []createOrderItemRequest `json:"items"`
	DeliveryAddress     models.Address           `json:"deliveryAddress"`
	PackagingPreference string                   `json:"packagingPreference"`
	SpecialInstructions string                   `json:"specialInstructions"`
}

// CreateOrder places a new order
// 201 — order placed;
// 400 — no items or invalid items;
// 403 — acting user is not the customer;
// 500 — internal server error.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createOrderRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		// customers only place orders for themselves
		if req.CustomerID != nil && *req.CustomerID != payload.UserID {
			writeMessage(w, http.StatusForbidden, "not authorized to create order for this customer")
			return
		}

		createReq := service.CreateOrderRequest{
			DeliveryAddress:     req.DeliveryAddress,
			PackagingPreference: req.PackagingPreference,
			SpecialInstructions: req.SpecialInstructions,
		}
		if req.RestaurantID != nil {
			createReq.RestaurantID = *req.RestaurantID
		}
		for _, it := range req.Items {
			createReq.Items = append(createReq.Items, service.CreateOrderItem{
				MenuItemID: it.MenuItemID,
				Quantity:   it.Quantity,
			})
		}

		order, err := oh.svc.Create(r.Context(), payload, createReq)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newOrderResponse(order))
	}
}

// ListOrdersByRole returns orders of the given user seen through a role column
// 200 — orders returned;
// 400 — unknown role;
// 403 — requesting another user's orders without admin role.
func (oh *OrderHandler) ListOrdersByRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		role := chi.URLParam(r, "role")
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user id")
			return
		}

		if payload.UserID != userID && payload.Role != models.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "not authorized to view these orders")
			return
		}

		var orders []models.Order

		switch role {
		case models.RoleCustomer:
			orders, err = oh.svc.ListByCustomer(r.Context(), userID)
		case models.RoleRestaurant:
			orders, err = oh.svc.ListByRestaurant(r.Context(), userID)
		case models.RoleDriver:
			orders, err = oh.svc.ListByDriver(r.Context(), userID)
		default:
			writeMessage(w, http.StatusBadRequest, "unknown role")
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newOrdersResponse(orders))
	}
}

// GetOrder returns a single order by id
func (oh *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := oh.svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

type updateStatusRequest struct {
	Status   string     `json:"status"`
	DriverID *uuid.UUID `json:"driverId"`
}

// UpdateOrderStatus transitions an order through its lifecycle
// 200 — status updated;
// 400 — unknown status;
// 403 — acting user may not perform this transition;
// 404 — order not found;
// 409 — order was modified concurrently or already terminal.
func (oh *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid order id")
			return
		}

		var req updateStatusRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		order, err := oh.svc.UpdateStatus(r.Context(), payload, orderID, req.Status, req.DriverID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newOrderResponse(order))
	}
}

// AvailableOrders lists orders a driver can pick up
func (oh *OrderHandler) AvailableOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		orders, err := oh.svc.Available(r.Context(), payload)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newOrdersResponse(orders))
	}
}
