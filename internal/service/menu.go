package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
)

// MenuRepository is interface for interacting with menu-related data
type MenuRepository interface {
	// CreateMenuItem inserts new menu item to database
	CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	// GetMenuItemByID returns menu item by id
	GetMenuItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	// GetMenuItemsByIDs returns menu items matching the given ids
	GetMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
	// GetMenuByRestaurant returns available menu items of the restaurant
	GetMenuByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error)
	// UpdateMenuItem updates menu item fields
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	// DeleteMenuItem removes menu item
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}

// MenuItemUpdate carries optional menu item field changes
type MenuItemUpdate struct {
	Name                 *string
	Description          *string
	Price                *float64
	Category             *string
	Image                *string
	IsAvailable          *bool
	PreparationTime      *int
	IsSeasonal           *bool
	SeasonalLabel        *string
	SeasonalRewardPoints *int
	PackagingOptions     []string
}

// MenuService implements MenuService interface
type MenuService struct {
	repo  MenuRepository
	users UserRepository
}

// NewMenuService creates new MenuService instance
func NewMenuService(repo MenuRepository, users UserRepository) *MenuService {
	return &MenuService{
		repo:  repo,
		users: users,
	}
}

// Create adds menu item to the restaurant's menu.
// A restaurant may only add items to its own menu.
func (ms *MenuService) Create(ctx context.Context, actor *models.TokenPayload, item *models.MenuItem) (*models.MenuItem, error) {
	restaurant, err := ms.users.GetUserByID(ctx, item.RestaurantID)
	if err != nil {
		return nil, err
	}
	if restaurant.Role != models.RoleRestaurant {
		return nil, models.ErrDataNotFound
	}

	if actor.Role == models.RoleRestaurant && actor.UserID != item.RestaurantID {
		return nil, models.ErrForbidden
	}

	if !models.ValidCategory(item.Category) {
		item.Category = models.CategoryMain
	}
	if item.PreparationTime <= 0 {
		item.PreparationTime = 15
	}
	item.ID = uuid.New()

	return ms.repo.CreateMenuItem(ctx, item)
}

// RestaurantMenu returns available menu items of the restaurant
func (ms *MenuService) RestaurantMenu(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuItem, error) {
	return ms.repo.GetMenuByRestaurant(ctx, restaurantID)
}

// Update applies changes to a menu item owned by the acting restaurant
func (ms *MenuService) Update(ctx context.Context, actor *models.TokenPayload, id uuid.UUID, upd MenuItemUpdate) (*models.MenuItem, error) {
	item, err := ms.repo.GetMenuItemByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == models.RoleRestaurant && actor.UserID != item.RestaurantID {
		return nil, models.ErrForbidden
	}

	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Price != nil {
		item.Price = *upd.Price
	}
	if upd.Category != nil && models.ValidCategory(*upd.Category) {
		item.Category = *upd.Category
	}
	if upd.Image != nil {
		item.Image = *upd.Image
	}
	if upd.IsAvailable != nil {
		item.IsAvailable = *upd.IsAvailable
	}
	if upd.PreparationTime != nil {
		item.PreparationTime = *upd.PreparationTime
	}
	if upd.IsSeasonal != nil {
		item.IsSeasonal = *upd.IsSeasonal
	}
	if upd.SeasonalLabel != nil {
		item.SeasonalLabel = *upd.SeasonalLabel
	}
	if upd.SeasonalRewardPoints != nil {
		item.SeasonalRewardPoints = *upd.SeasonalRewardPoints
	}
	if upd.PackagingOptions != nil {
		item.PackagingOptions = upd.PackagingOptions
	}

	if err := ms.repo.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Delete removes a menu item owned by the acting restaurant
func (ms *MenuService) Delete(ctx context.Context, actor *models.TokenPayload, id uuid.UUID) error {
	item, err := ms.repo.GetMenuItemByID(ctx, id)
	if err != nil {
		return err
	}

	if actor.Role == models.RoleRestaurant && actor.UserID != item.RestaurantID {
		return models.ErrForbidden
	}

	return ms.repo.DeleteMenuItem(ctx, id)
}
