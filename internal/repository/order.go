package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/ecobites/internal/models"
	"github.com/rookgm/ecobites/internal/repository/postgres"
)

const orderColumns = `id, order_number, customer_id, restaurant_id, driver_id, items, status,
						delivery_address, subtotal, delivery_fee, tax, total,
						packaging_preference, eco_reward_points, driver_reward_points,
						eco_reward_credited, driver_reward_credited, combine_group_id,
						special_instructions, status_history, created_at`

const (
	insertOrderQuery = `
						INSERT INTO orders (id, order_number, customer_id, restaurant_id, items, status,
							delivery_address, subtotal, delivery_fee, tax, total,
							packaging_preference, eco_reward_points, special_instructions, status_history)
						VALUES ($1, 'ORD' || lpad(nextval('order_numbers')::text, 6, '0'),
							$2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
						RETURNING order_number, created_at
`
	selectOrderByIDQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE id = $1
`
	selectOrdersByCustomerQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE customer_id = $1
						ORDER BY created_at DESC
`
	selectOrdersByRestaurantQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE restaurant_id = $1
						ORDER BY created_at DESC
`
	selectOrdersByDriverQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE driver_id = $1
						ORDER BY created_at DESC
`
	selectAvailableOrdersQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE status IN ('READY', 'COMBINED') AND driver_id IS NULL
						ORDER BY created_at DESC
`
	selectActiveOrderByCustomerQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE customer_id = $1 AND status = ANY($2)
						ORDER BY created_at DESC
						LIMIT 1
`
	selectActiveOrdersByCityZipQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE status = ANY($1)
							AND delivery_address->>'city' = $2
							AND delivery_address->>'zipCode' = $3
						ORDER BY created_at DESC
`
	selectGroupOrdersWithoutDriverQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE combine_group_id = $1 AND id <> $2 AND driver_id IS NULL
`
	selectOrdersMissingCoordinatesQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE delivery_address->'coordinates' IS NULL
						LIMIT $1
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $1, driver_id = $2, status_history = $3,
							eco_reward_credited = $4, driver_reward_credited = $5, driver_reward_points = $6
						WHERE id = $7 AND status = $8
`
	combineOrderQuery = `
						UPDATE orders
						SET status = $1, combine_group_id = $2, status_history = $3
						WHERE id = $4 AND status = $5
`
	updateOrderCoordinatesQuery = `
						UPDATE orders
						SET delivery_address = jsonb_set(delivery_address, '{coordinates}', $1::jsonb)
						WHERE id = $2
`
	addRewardPointsQuery = `
						UPDATE users
						SET reward_points = reward_points + $1
						WHERE id = $2
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderRow interface {
	Scan(dest ...any) error
}

func scanOrder(row orderRow, order *models.Order) error {
	return row.Scan(&order.ID, &order.OrderNumber, &order.CustomerID, &order.RestaurantID,
		&order.DriverID, &order.Items, &order.Status, &order.DeliveryAddress,
		&order.Subtotal, &order.DeliveryFee, &order.Tax, &order.Total,
		&order.PackagingPreference, &order.EcoRewardPoints, &order.DriverRewardPoints,
		&order.EcoRewardCredited, &order.DriverRewardCredited, &order.CombineGroupID,
		&order.SpecialInstructions, &order.StatusHistory, &order.CreatedAt)
}

func (or *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := or.db.QueryRow(ctx, insertOrderQuery,
		order.ID, order.CustomerID, order.RestaurantID, order.Items, order.Status,
		order.DeliveryAddress, order.Subtotal, order.DeliveryFee, order.Tax, order.Total,
		order.PackagingPreference, order.EcoRewardPoints, order.SpecialInstructions,
		order.StatusHistory).Scan(&order.OrderNumber, &order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := models.Order{}
	err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetOrdersByCustomerID gets customer orders, newest first
func (or *OrderRepository) GetOrdersByCustomerID(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	return or.queryOrders(ctx, selectOrdersByCustomerQuery, customerID)
}

// GetOrdersByRestaurantID gets restaurant orders, newest first
func (or *OrderRepository) GetOrdersByRestaurantID(ctx context.Context, restaurantID uuid.UUID) ([]models.Order, error) {
	return or.queryOrders(ctx, selectOrdersByRestaurantQuery, restaurantID)
}

// GetOrdersByDriverID gets driver orders, newest first
func (or *OrderRepository) GetOrdersByDriverID(ctx context.Context, driverID uuid.UUID) ([]models.Order, error) {
	return or.queryOrders(ctx, selectOrdersByDriverQuery, driverID)
}

// GetAvailableOrders returns READY and COMBINED orders without an assigned driver
func (or *OrderRepository) GetAvailableOrders(ctx context.Context) ([]models.Order, error) {
	return or.queryOrders(ctx, selectAvailableOrdersQuery)
}

// GetActiveOrderByCustomer returns the customer's most recent active order
func (or *OrderRepository) GetActiveOrderByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Order, error) {
	order := models.Order{}
	err := scanOrder(or.db.QueryRow(ctx, selectActiveOrderByCustomerQuery,
		customerID, models.ActiveOrderStatuses), &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// GetActiveOrdersByCityZip returns active orders delivered to the given city and zip code
func (or *OrderRepository) GetActiveOrdersByCityZip(ctx context.Context, city, zipCode string) ([]models.Order, error) {
	return or.queryOrders(ctx, selectActiveOrdersByCityZipQuery, models.ActiveOrderStatuses, city, zipCode)
}

// GetGroupOrdersWithoutDriver returns other orders of the combine group without a driver
func (or *OrderRepository) GetGroupOrdersWithoutDriver(ctx context.Context, groupID string, exceptID uuid.UUID) ([]models.Order, error) {
	return or.queryOrders(ctx, selectGroupOrdersWithoutDriverQuery, groupID, exceptID)
}

// GetOrdersMissingCoordinates returns orders whose delivery address has no coordinates yet
func (or *OrderRepository) GetOrdersMissingCoordinates(ctx context.Context, limit int) ([]models.Order, error) {
	return or.queryOrders(ctx, selectOrdersMissingCoordinatesQuery, limit)
}

// UpdateOrderStatus persists an order transition and reward credits in one transaction.
// The update is conditional on the status the order was loaded at; a concurrent
// transition makes it match zero rows and the whole operation fails with ErrOrderConflict.
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, update models.StatusUpdate, credits []models.RewardCredit) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	order := update.Order
	cmd, err := tx.Exec(ctx, updateOrderStatusQuery,
		order.Status, order.DriverID, order.StatusHistory,
		order.EcoRewardCredited, order.DriverRewardCredited, order.DriverRewardPoints,
		order.ID, update.FromStatus)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrOrderConflict
	}

	for _, credit := range credits {
		if _, err := tx.Exec(ctx, addRewardPointsQuery, credit.Points, credit.UserID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// CombineOrders marks every order of the group COMBINED and credits reward points,
// all in one transaction with conditional updates, so two overlapping combine
// requests cannot both claim the same order.
func (or *OrderRepository) CombineOrders(ctx context.Context, updates []models.StatusUpdate, credits []models.RewardCredit) error {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, update := range updates {
		order := update.Order
		cmd, err := tx.Exec(ctx, combineOrderQuery,
			order.Status, order.CombineGroupID, order.StatusHistory,
			order.ID, update.FromStatus)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return models.ErrOrderConflict
		}
	}

	for _, credit := range credits {
		if _, err := tx.Exec(ctx, addRewardPointsQuery, credit.Points, credit.UserID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// UpdateOrderCoordinates persists resolved delivery address coordinates
func (or *OrderRepository) UpdateOrderCoordinates(ctx context.Context, orderID uuid.UUID, coords models.Coordinates) error {
	raw, err := json.Marshal(coords)
	if err != nil {
		return err
	}

	cmd, err := or.db.Exec(ctx, updateOrderCoordinatesQuery, string(raw), orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
