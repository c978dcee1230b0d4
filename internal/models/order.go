package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// order status
const (
	OrderStatusPlaced         = "PLACED"
	OrderStatusReceived       = "RECEIVED"
	OrderStatusAccepted       = "ACCEPTED"
	OrderStatusPreparing      = "PREPARING"
	OrderStatusReady          = "READY"
	OrderStatusDriverAssigned = "DRIVER_ASSIGNED"
	OrderStatusPickedUp       = "PICKED_UP"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"
	OrderStatusCombined       = "COMBINED"
)

var orderStatuses = map[string]struct{}{
	OrderStatusPlaced:         {},
	OrderStatusReceived:       {},
	OrderStatusAccepted:       {},
	OrderStatusPreparing:      {},
	OrderStatusReady:          {},
	OrderStatusDriverAssigned: {},
	OrderStatusPickedUp:       {},
	OrderStatusOutForDelivery: {},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
	OrderStatusCombined:       {},
}

// ActiveOrderStatuses are statuses eligible for combining
var ActiveOrderStatuses = []string{OrderStatusPlaced, OrderStatusPreparing, OrderStatusReady}

// NormalizeOrderStatus maps case variants to the canonical status name
func NormalizeOrderStatus(s string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := orderStatuses[status]; !ok {
		return "", ErrInvalidOrderStatus
	}
	return status, nil
}

// IsTerminalOrderStatus reports whether no further transitions are allowed
func IsTerminalOrderStatus(s string) bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Coordinates is geographic point
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address is delivery or profile address with optional geocoded coordinates
type Address struct {
	Street      string       `json:"street"`
	City        string       `json:"city"`
	ZipCode     string       `json:"zipCode"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// OrderItem is order line referencing a menu item of the order's restaurant
type OrderItem struct {
	MenuItemID uuid.UUID `json:"menuItemId"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
}

// StatusChange is append-only status history entry
type StatusChange struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updatedBy"`
}

// Order is order entity
type Order struct {
	ID                   uuid.UUID
	OrderNumber          string
	CustomerID           uuid.UUID
	RestaurantID         uuid.UUID
	DriverID             *uuid.UUID
	Items                []OrderItem
	Status               string
	DeliveryAddress      Address
	Subtotal             float64
	DeliveryFee          float64
	Tax                  float64
	Total                float64
	PackagingPreference  string
	EcoRewardPoints      int
	DriverRewardPoints   int
	EcoRewardCredited    bool
	DriverRewardCredited bool
	CombineGroupID       *string
	SpecialInstructions  string
	StatusHistory        []StatusChange
	CreatedAt            time.Time
}

// AppendStatus records transition to status in the order history
func (o *Order) AppendStatus(status, updatedBy string) {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		Status:    status,
		Timestamp: time.Now().UTC(),
		UpdatedBy: updatedBy,
	})
}

// RewardCredit is reward points increment for a single user
type RewardCredit struct {
	UserID uuid.UUID
	Points int
}

// StatusUpdate carries an order mutation together with the status it was
// loaded at, so persistence can refuse orders changed concurrently.
type StatusUpdate struct {
	Order      *Order
	FromStatus string
}
