package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/logger"
	"github.com/rookgm/ecobites/internal/models"
	"go.uber.org/zap"
)

// no fees in the pilot, totals equal subtotals
const (
	defaultDeliveryFee = 0
	defaultTax         = 0
)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetOrdersByCustomerID gets customer orders, newest first
	GetOrdersByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	// GetOrdersByRestaurantID gets restaurant orders, newest first
	GetOrdersByRestaurantID(ctx context.Context, restaurantID uuid.UUID) ([]models.Order, error)
	// GetOrdersByDriverID gets driver orders, newest first
	GetOrdersByDriverID(ctx context.Context, driverID uuid.UUID) ([]models.Order, error)
	// GetAvailableOrders returns READY and COMBINED orders without an assigned driver
	GetAvailableOrders(ctx context.Context) ([]models.Order, error)
	// GetActiveOrderByCustomer returns the customer's most recent active order
	GetActiveOrderByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Order, error)
	// GetActiveOrdersByCityZip returns active orders delivered to the given city and zip code
	GetActiveOrdersByCityZip(ctx context.Context, city, zipCode string) ([]models.Order, error)
	// GetGroupOrdersWithoutDriver returns other orders of the combine group without a driver
	GetGroupOrdersWithoutDriver(ctx context.Context, groupID string, exceptID uuid.UUID) ([]models.Order, error)
	// GetOrdersMissingCoordinates returns orders whose delivery address has no coordinates yet
	GetOrdersMissingCoordinates(ctx context.Context, limit int) ([]models.Order, error)
	// UpdateOrderStatus persists an order transition and reward credits in one transaction
	UpdateOrderStatus(ctx context.Context, update models.StatusUpdate, credits []models.RewardCredit) error
	// CombineOrders marks every order of the group COMBINED and credits reward points
	CombineOrders(ctx context.Context, updates []models.StatusUpdate, credits []models.RewardCredit) error
	// UpdateOrderCoordinates persists resolved delivery address coordinates
	UpdateOrderCoordinates(ctx context.Context, orderID uuid.UUID, coords models.Coordinates) error
}

// CreateOrderItem is requested order line
type CreateOrderItem struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// CreateOrderRequest carries fields for placing a new order
type CreateOrderRequest struct {
	RestaurantID        uuid.UUID
	Items               []CreateOrderItem
	DeliveryAddress     models.Address
	PackagingPreference string
	SpecialInstructions string
}

// OrderService implements OrderService interface
type OrderService struct {
	repo     OrderRepository
	menu     MenuRepository
	users    UserRepository
	geocoder Geocoder
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, menu MenuRepository, users UserRepository, geocoder Geocoder) *OrderService {
	return &OrderService{
		repo:     repo,
		menu:     menu,
		users:    users,
		geocoder: geocoder,
	}
}

// Create places a new order for the acting customer
func (os *OrderService) Create(ctx context.Context, actor *models.TokenPayload, req CreateOrderRequest) (*models.Order, error) {
	if actor.Role != models.RoleCustomer {
		return nil, models.ErrForbidden
	}
	if len(req.Items) == 0 {
		return nil, models.ErrNoOrderItems
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.MenuItemID)
	}

	menuItems, err := os.menu.GetMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	// every requested item must exist and belong to one restaurant
	var restaurantID uuid.UUID
	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := 0.0
	seasonalBonus := 0

	for _, it := range req.Items {
		mi, ok := byID[it.MenuItemID]
		if !ok {
			return nil, models.ErrInvalidOrderItems
		}
		if restaurantID == uuid.Nil {
			restaurantID = mi.RestaurantID
		} else if restaurantID != mi.RestaurantID {
			return nil, models.ErrMixedRestaurants
		}

		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}

		items = append(items, models.OrderItem{
			MenuItemID: mi.ID,
			Name:       mi.Name,
			Price:      mi.Price,
			Quantity:   qty,
		})
		subtotal += mi.Price * float64(qty)
		if mi.IsSeasonal {
			seasonalBonus += mi.SeasonalRewardPoints * qty
		}
	}

	if req.RestaurantID != uuid.Nil && req.RestaurantID != restaurantID {
		return nil, models.ErrMixedRestaurants
	}

	packaging := models.NormalizePackaging(req.PackagingPreference)

	address := req.DeliveryAddress
	if address.Street != "" && address.City != "" && address.ZipCode != "" && address.Coordinates == nil {
		coords := resolveCoordinates(ctx, os.geocoder, address)
		address.Coordinates = &coords
	}

	order := &models.Order{
		ID:                  uuid.New(),
		CustomerID:          actor.UserID,
		RestaurantID:        restaurantID,
		Items:               items,
		DeliveryAddress:     address,
		Subtotal:            subtotal,
		DeliveryFee:         defaultDeliveryFee,
		Tax:                 defaultTax,
		Total:               subtotal + defaultDeliveryFee + defaultTax,
		PackagingPreference: packaging,
		EcoRewardPoints:     models.EcoReward(packaging) + seasonalBonus,
		SpecialInstructions: req.SpecialInstructions,
	}
	order.AppendStatus(models.OrderStatusPlaced, actor.UserID.String())

	return os.repo.CreateOrder(ctx, order)
}

// ListByCustomer returns customer orders, newest first
func (os *OrderService) ListByCustomer(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return os.repo.GetOrdersByCustomerID(ctx, userID)
}

// ListByRestaurant returns restaurant orders, newest first
func (os *OrderService) ListByRestaurant(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return os.repo.GetOrdersByRestaurantID(ctx, userID)
}

// ListByDriver returns driver orders, newest first
func (os *OrderService) ListByDriver(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return os.repo.GetOrdersByDriverID(ctx, userID)
}

// Get returns order by id
func (os *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return os.repo.GetOrderByID(ctx, id)
}

// Available returns orders a driver can pick up
func (os *OrderService) Available(ctx context.Context, actor *models.TokenPayload) ([]models.Order, error) {
	if actor.Role != models.RoleDriver {
		return nil, models.ErrForbidden
	}
	return os.repo.GetAvailableOrders(ctx)
}

// UpdateStatus transitions order to the given status on behalf of the acting user.
// Only the customer may cancel, only the owning restaurant may move through
// kitchen statuses, and only a driver may move through delivery statuses.
// Delivery credits eco points to the customer and incentive points to the driver,
// each at most once per order.
func (os *OrderService) UpdateStatus(ctx context.Context, actor *models.TokenPayload, orderID uuid.UUID, status string, driverID *uuid.UUID) (*models.Order, error) {
	status, err := models.NormalizeOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if models.IsTerminalOrderStatus(order.Status) {
		return nil, models.ErrOrderConflict
	}

	switch status {
	case models.OrderStatusCancelled:
		if actor.UserID != order.CustomerID {
			return nil, models.ErrForbidden
		}
	case models.OrderStatusAccepted, models.OrderStatusPreparing, models.OrderStatusReady:
		if actor.UserID != order.RestaurantID {
			return nil, models.ErrForbidden
		}
	case models.OrderStatusDriverAssigned, models.OrderStatusPickedUp,
		models.OrderStatusOutForDelivery, models.OrderStatusDelivered:
		if actor.Role != models.RoleDriver {
			return nil, models.ErrForbidden
		}
	}

	fromStatus := order.Status
	order.AppendStatus(status, actor.Role)

	if status == models.OrderStatusDriverAssigned && driverID != nil {
		order.DriverID = driverID
	}

	var credits []models.RewardCredit

	if status == models.OrderStatusDelivered {
		if order.EcoRewardPoints > 0 && !order.EcoRewardCredited {
			credits = append(credits, models.RewardCredit{UserID: order.CustomerID, Points: order.EcoRewardPoints})
			order.EcoRewardCredited = true
		}
		if order.DriverID != nil && !order.DriverRewardCredited {
			driver, err := os.users.GetUserByID(ctx, *order.DriverID)
			if err != nil {
				// delivery still completes, the incentive is skipped
				logger.Log.Error("get driver for delivery incentive",
					zap.String("driver", order.DriverID.String()), zap.Error(err))
			} else if pts := models.DriverIncentive(driver.VehicleType); pts > 0 {
				credits = append(credits, models.RewardCredit{UserID: driver.ID, Points: pts})
				order.DriverRewardPoints = pts
				order.DriverRewardCredited = true
			}
		}
	}

	update := models.StatusUpdate{Order: order, FromStatus: fromStatus}
	if err := os.repo.UpdateOrderStatus(ctx, update, credits); err != nil {
		return nil, err
	}

	// a driver assigned to one order of a combined group serves the whole group
	if status == models.OrderStatusDriverAssigned && order.CombineGroupID != nil && driverID != nil {
		os.assignGroupDriver(ctx, order, *driverID, actor.Role)
	}

	return order, nil
}

func (os *OrderService) assignGroupDriver(ctx context.Context, order *models.Order, driverID uuid.UUID, updatedBy string) {
	others, err := os.repo.GetGroupOrdersWithoutDriver(ctx, *order.CombineGroupID, order.ID)
	if err != nil {
		logger.Log.Error("get combine group orders", zap.String("group", *order.CombineGroupID), zap.Error(err))
		return
	}

	for i := range others {
		other := &others[i]
		fromStatus := other.Status
		other.AppendStatus(models.OrderStatusDriverAssigned, updatedBy)
		other.DriverID = &driverID

		update := models.StatusUpdate{Order: other, FromStatus: fromStatus}
		if err := os.repo.UpdateOrderStatus(ctx, update, nil); err != nil {
			logger.Log.Error("assign driver to group order",
				zap.String("order", other.ID.String()), zap.Error(err))
		}
	}
}

// GetOrdersForGeocoding writes orders lacking coordinates to channel for resolving
func (os *OrderService) GetOrdersForGeocoding(ctx context.Context, orderCh chan<- uuid.UUID) error {
	orders, err := os.repo.GetOrdersMissingCoordinates(ctx, cap(orderCh))
	if err != nil {
		return err
	}

	for _, order := range orders {
		orderCh <- order.ID
	}

	return nil
}

// ResolveCoordinates resolves and persists delivery coordinates for queued orders
func (os *OrderService) ResolveCoordinates(ctx context.Context, orderCh <-chan uuid.UUID) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("geocode backfill is done")
			return
		case id, ok := <-orderCh:
			if !ok {
				return
			}

			order, err := os.repo.GetOrderByID(ctx, id)
			if err != nil {
				logger.Log.Error("get order for geocoding", zap.String("order", id.String()), zap.Error(err))
				continue
			}

			coords := resolveCoordinates(ctx, os.geocoder, order.DeliveryAddress)
			if err := os.repo.UpdateOrderCoordinates(ctx, order.ID, coords); err != nil {
				logger.Log.Error("update order coordinates", zap.String("order", id.String()), zap.Error(err))
				continue
			}

			logger.Log.Debug("order coordinates resolved",
				zap.String("order", id.String()),
				zap.Float64("lat", coords.Lat),
				zap.Float64("lng", coords.Lng))
		}
	}
}
