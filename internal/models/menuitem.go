package models

import (
	"time"

	"github.com/google/uuid"
)

// menu item category
const (
	CategoryAppetizer = "appetizer"
	CategoryMain      = "main"
	CategoryDessert   = "dessert"
	CategoryBeverage  = "beverage"
	CategorySide      = "side"
)

// ValidCategory reports whether category is a known menu category
func ValidCategory(category string) bool {
	switch category {
	case CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage, CategorySide:
		return true
	}
	return false
}

// MenuItem is menu item entity owned by a restaurant user
type MenuItem struct {
	ID                   uuid.UUID
	RestaurantID         uuid.UUID
	Name                 string
	Description          string
	Price                float64
	Category             string
	Image                string
	IsAvailable          bool
	PreparationTime      int
	IsSeasonal           bool
	SeasonalLabel        string
	SeasonalRewardPoints int
	PackagingOptions     []string
	CreatedAt            time.Time
}
