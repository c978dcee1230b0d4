package models

import (
	"time"

	"github.com/google/uuid"
)

// user role
const (
	RoleCustomer   = "customer"
	RoleRestaurant = "restaurant"
	RoleDriver     = "driver"
	RoleAdmin      = "admin"
)

// ValidRole reports whether role is a known user role
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleRestaurant, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// User is user entity: customer, restaurant, driver or admin
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash []byte
	Phone        string
	Role         string
	Address      *Address
	RewardPoints int
	CreatedAt    time.Time

	// restaurant fields
	RestaurantName  string
	RestaurantImage string
	Cuisine         []string

	// driver fields
	VehicleType  string
	LicensePlate string
	IsAvailable  bool
}

// TokenPayload is verified authorization token payload
type TokenPayload struct {
	UserID uuid.UUID
	Role   string
}
