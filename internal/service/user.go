package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
)

// UserService implements UserService interface
type UserService struct {
	repo     UserRepository
	geocoder Geocoder
}

// NewUserService creates new UserService instance
func NewUserService(repo UserRepository, geocoder Geocoder) *UserService {
	return &UserService{
		repo:     repo,
		geocoder: geocoder,
	}
}

// GetUser returns user by id
func (us *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return us.repo.GetUserByID(ctx, id)
}

// Restaurants returns all restaurant users
func (us *UserService) Restaurants(ctx context.Context) ([]models.User, error) {
	return us.repo.GetRestaurants(ctx)
}

// Restaurant returns restaurant user by id
func (us *UserService) Restaurant(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := us.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleRestaurant {
		return nil, models.ErrDataNotFound
	}

	return user, nil
}

// GeocodeAddress resolves coordinates for an address without persisting anything.
// Geocoder failures degrade to deterministic fallback coordinates.
func (us *UserService) GeocodeAddress(ctx context.Context, street, city, zipCode string) models.Coordinates {
	return resolveCoordinates(ctx, us.geocoder, models.Address{Street: street, City: city, ZipCode: zipCode})
}

// UpdateAddress geocodes and persists user profile address
func (us *UserService) UpdateAddress(ctx context.Context, userID uuid.UUID, street, city, zipCode string) (*models.Address, error) {
	addr := models.Address{Street: street, City: city, ZipCode: zipCode}
	coords := resolveCoordinates(ctx, us.geocoder, addr)
	addr.Coordinates = &coords

	if err := us.repo.UpdateUserAddress(ctx, userID, addr); err != nil {
		return nil, err
	}

	return &addr, nil
}
