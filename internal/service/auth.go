package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// UserRepository is interface for interacting with user-related data
type UserRepository interface {
	// CreateUser inserts new user to database
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByID returns user by id
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetUserByEmail returns user by email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetRestaurants returns all restaurant users ordered by restaurant name
	GetRestaurants(ctx context.Context) ([]models.User, error)
	// UpdateUserAddress persists user address with coordinates
	UpdateUserAddress(ctx context.Context, userID uuid.UUID, address models.Address) error
}

// AuthService implements AuthService interface
type AuthService struct {
	repo  UserRepository
	token TokenService
}

// NewAuthService creates new AuthService instance
func NewAuthService(repo UserRepository, token TokenService) *AuthService {
	return &AuthService{
		repo:  repo,
		token: token,
	}
}

// Register creates new user with hashed password and returns it with a fresh token
func (as *AuthService) Register(ctx context.Context, user *models.User, password string) (*models.User, string, error) {
	if len(password) < minPasswordLen {
		return nil, "", models.ErrPasswordTooShort
	}

	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if !models.ValidRole(user.Role) {
		return nil, "", models.ErrForbidden
	}

	// role-specific fields only survive for the matching role
	if user.Role != models.RoleRestaurant {
		user.RestaurantName = ""
		user.RestaurantImage = ""
		user.Cuisine = nil
	}
	if user.Role != models.RoleDriver {
		user.VehicleType = ""
		user.LicensePlate = ""
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user.ID = uuid.New()
	user.PasswordHash = hash

	user, err = as.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := as.token.CreateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token
func (as *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := as.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := as.token.CreateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
