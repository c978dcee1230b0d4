package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/ecobites/internal/models"
	"github.com/rookgm/ecobites/internal/repository/postgres"
)

const menuItemColumns = `id, restaurant_id, name, description, price, category, image,
						is_available, preparation_time, is_seasonal, seasonal_label,
						seasonal_reward_points, packaging_options, created_at`

const (
	insertMenuItemQuery = `
						INSERT INTO menu_items (id, restaurant_id, name, description, price, category, image,
							preparation_time, is_seasonal, seasonal_label, seasonal_reward_points, packaging_options)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
						RETURNING is_available, created_at
`
	selectMenuItemByIDQuery = `
						SELECT ` + menuItemColumns + ` FROM menu_items
						WHERE id = $1
`
	selectMenuItemsByIDsQuery = `
						SELECT ` + menuItemColumns + ` FROM menu_items
						WHERE id = ANY($1::uuid[])
`
	selectMenuByRestaurantQuery = `
						SELECT ` + menuItemColumns + ` FROM menu_items
						WHERE restaurant_id = $1 AND is_available
						ORDER BY category, name
`
	updateMenuItemQuery = `
						UPDATE menu_items
						SET name = $1, description = $2, price = $3, category = $4, image = $5,
							is_available = $6, preparation_time = $7, is_seasonal = $8,
							seasonal_label = $9, seasonal_reward_points = $10, packaging_options = $11
						WHERE id = $12
`
	deleteMenuItemQuery = `
						DELETE FROM menu_items
						WHERE id = $1
`
)

// MenuRepository implements MenuRepository interface
type MenuRepository struct {
	db *postgres.DB
}

// NewMenuRepository creates new MenuRepository instance
func NewMenuRepository(db *postgres.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

type menuItemRow interface {
	Scan(dest ...any) error
}

func scanMenuItem(row menuItemRow, item *models.MenuItem) error {
	return row.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price,
		&item.Category, &item.Image, &item.IsAvailable, &item.PreparationTime,
		&item.IsSeasonal, &item.SeasonalLabel, &item.SeasonalRewardPoints,
		&item.PackagingOptions, &item.CreatedAt)
}

// CreateMenuItem inserts new menu item to database
func (mr *MenuRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	err := mr.db.QueryRow(ctx, insertMenuItemQuery,
		item.ID, item.RestaurantID, item.Name, item.Description, item.Price, item.Category,
		item.Image, item.PreparationTime, item.IsSeasonal, item.SeasonalLabel,
		item.SeasonalRewardPoints, item.PackagingOptions).Scan(&item.IsAvailable, &item.CreatedAt)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// GetMenuItemByID returns menu item by id
func (mr *MenuRepository) GetMenuItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item := models.MenuItem{}
	err := scanMenuItem(mr.db.QueryRow(ctx, selectMenuItemByIDQuery, id), &item)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &item, nil
}

// GetMenuItemsByIDs returns menu items matching the given ids
func (mr *MenuRepository) GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}

	rows, err := mr.db.Query(ctx, selectMenuItemsByIDsQuery, strIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.MenuItem{}

	for rows.Next() {
		item := models.MenuItem{}
		if err := scanMenuItem(rows, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetMenuByRestaurant returns available menu items of the restaurant
func (mr *MenuRepository) GetMenuByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	rows, err := mr.db.Query(ctx, selectMenuByRestaurantQuery, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.MenuItem{}

	for rows.Next() {
		item := models.MenuItem{}
		if err := scanMenuItem(rows, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// UpdateMenuItem updates menu item fields
func (mr *MenuRepository) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	cmd, err := mr.db.Exec(ctx, updateMenuItemQuery,
		item.Name, item.Description, item.Price, item.Category, item.Image,
		item.IsAvailable, item.PreparationTime, item.IsSeasonal, item.SeasonalLabel,
		item.SeasonalRewardPoints, item.PackagingOptions, item.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeleteMenuItem removes menu item
func (mr *MenuRepository) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	cmd, err := mr.db.Exec(ctx, deleteMenuItemQuery, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}
