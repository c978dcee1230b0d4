package models

import "errors"

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrForbidden          = errors.New("operation is not allowed for this user")
	ErrNoActiveOrders     = errors.New("you don't have any active orders to combine")
	ErrOrderConflict      = errors.New("order was modified concurrently")
	ErrAddressNotFound    = errors.New("address not found")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNoOrderItems       = errors.New("no items provided")
	ErrInvalidOrderItems  = errors.New("one or more menu items are invalid")
	ErrMixedRestaurants   = errors.New("all items must belong to the same restaurant")
	ErrInternalError      = errors.New("internal error")
)
