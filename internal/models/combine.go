package models

import "github.com/google/uuid"

// CombineResult is outcome of a combine operation
type CombineResult struct {
	Message         string
	CombinedOrders  []Order
	UpdatedOrderIDs []uuid.UUID
}
