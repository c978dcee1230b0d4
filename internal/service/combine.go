package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/logger"
	"github.com/rookgm/ecobites/internal/models"
	"go.uber.org/zap"
)

// DefaultCombineRadiusMeters is used when the request does not specify a radius
const DefaultCombineRadiusMeters = 500

const combineGroupPrefix = "GRP"

// CombineService merges nearby customers' active orders into one delivery group
type CombineService struct {
	repo     OrderRepository
	geocoder Geocoder
}

// NewCombineService creates new CombineService instance
func NewCombineService(repo OrderRepository, geocoder Geocoder) *CombineService {
	return &CombineService{
		repo:     repo,
		geocoder: geocoder,
	}
}

// Combine groups the customer's most recent active order with other customers'
// active orders delivered to the same city and zip code within radiusMeters.
// Matched orders become COMBINED under a shared group id and every involved
// customer is credited combine reward points exactly once. The persistence step
// is transactional; a concurrent combine of an overlapping order set fails with
// ErrOrderConflict instead of double-combining.
func (cs *CombineService) Combine(ctx context.Context, customerID uuid.UUID, radiusMeters float64) (*models.CombineResult, error) {
	if radiusMeters <= 0 {
		radiusMeters = DefaultCombineRadiusMeters
	}

	myOrder, err := cs.repo.GetActiveOrderByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrNoActiveOrders
		}
		return nil, err
	}

	myCoords := cs.ensureCoordinates(ctx, myOrder)

	candidates, err := cs.repo.GetActiveOrdersByCityZip(ctx, myOrder.DeliveryAddress.City, myOrder.DeliveryAddress.ZipCode)
	if err != nil {
		return nil, err
	}

	nearby := []*models.Order{}
	for i := range candidates {
		candidate := &candidates[i]
		// own orders never combine with each other
		if candidate.ID == myOrder.ID || candidate.CustomerID == customerID {
			continue
		}

		coords := cs.ensureCoordinates(ctx, candidate)
		if distanceMeters(myCoords, coords) <= radiusMeters {
			nearby = append(nearby, candidate)
		}
	}

	if len(nearby) == 0 {
		return &models.CombineResult{
			Message:        "No nearby orders to combine",
			CombinedOrders: []models.Order{},
		}, nil
	}

	groupID := combineGroupID(myOrder.ID)

	all := append([]*models.Order{myOrder}, nearby...)
	updates := make([]models.StatusUpdate, 0, len(all))
	credited := make(map[uuid.UUID]struct{}, len(all))
	credits := []models.RewardCredit{}

	for _, order := range all {
		fromStatus := order.Status
		order.AppendStatus(models.OrderStatusCombined, customerID.String())
		order.CombineGroupID = &groupID

		updates = append(updates, models.StatusUpdate{Order: order, FromStatus: fromStatus})

		if _, ok := credited[order.CustomerID]; !ok {
			credited[order.CustomerID] = struct{}{}
			credits = append(credits, models.RewardCredit{UserID: order.CustomerID, Points: models.CombineRewardPoints})
		}
	}

	if err := cs.repo.CombineOrders(ctx, updates, credits); err != nil {
		return nil, err
	}

	result := models.CombineResult{
		Message:        fmt.Sprintf("Orders combined! Both you and your neighbors earned %d eco points.", models.CombineRewardPoints),
		CombinedOrders: make([]models.Order, 0, len(all)),
	}
	for _, order := range all {
		result.CombinedOrders = append(result.CombinedOrders, *order)
		result.UpdatedOrderIDs = append(result.UpdatedOrderIDs, order.ID)
	}

	return &result, nil
}

// ensureCoordinates resolves missing delivery coordinates and persists them
// best-effort, so the next combine does not resolve again
func (cs *CombineService) ensureCoordinates(ctx context.Context, order *models.Order) models.Coordinates {
	if order.DeliveryAddress.Coordinates != nil {
		return *order.DeliveryAddress.Coordinates
	}

	coords := resolveCoordinates(ctx, cs.geocoder, order.DeliveryAddress)
	order.DeliveryAddress.Coordinates = &coords

	if err := cs.repo.UpdateOrderCoordinates(ctx, order.ID, coords); err != nil {
		logger.Log.Debug("persist resolved coordinates",
			zap.String("order", order.ID.String()), zap.Error(err))
	}

	return coords
}

func combineGroupID(orderID uuid.UUID) string {
	hex := strings.ReplaceAll(orderID.String(), "-", "")
	return combineGroupPrefix + hex[len(hex)-6:]
}
