package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
)

type CombineService interface {
	// Combine groups nearby active orders into one delivery group
	Combine(ctx context.Context, customerID uuid.UUID, radiusMeters float64) (*models.CombineResult, error)
}

// CombineHandler represents HTTP handler for order combining requests
type CombineHandler struct {
	svc CombineService
}

// NewCombineHandler creates new CombineHandler instance
func NewCombineHandler(svc CombineService) *CombineHandler {
	return &CombineHandler{svc: svc}
}

type combineRequest struct {
	CustomerID   *uuid.UUID `json:"customerId"`
	RadiusMeters float64    `json:"radiusMeters"`
}

type combineResponse struct {
	Message         string          `json:"message"`
	CombinedOrders  []orderResponse `json:"combinedOrders"`
	UpdatedOrderIDs []uuid.UUID     `json:"updatedOrderIds,omitempty"`
}

// CombineOrders groups the customer's active order with nearby neighbors
// 200 — combined, or no nearby orders (empty list);
// 400 — requester has no active orders;
// 403 — combining on behalf of another customer;
// 409 — an involved order was combined concurrently;
// 500 — internal server error.
func (ch *CombineHandler) CombineOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req combineRequest

		// both fields are optional, an empty body combines for the caller
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		customerID := payload.UserID
		if req.CustomerID != nil && *req.CustomerID != payload.UserID {
			if payload.Role != models.RoleAdmin {
				writeMessage(w, http.StatusForbidden, "not authorized to combine orders for this customer")
				return
			}
			customerID = *req.CustomerID
		}

		result, err := ch.svc.Combine(r.Context(), customerID, req.RadiusMeters)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, combineResponse{
			Message:         result.Message,
			CombinedOrders:  newOrdersResponse(result.CombinedOrders),
			UpdatedOrderIDs: result.UpdatedOrderIDs,
		})
	}
}
