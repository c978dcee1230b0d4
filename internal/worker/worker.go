package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rookgm/ecobites/internal/logger"
)

type OrderService interface {
	ResolveCoordinates(ctx context.Context, orderCh <-chan uuid.UUID)
	GetOrdersForGeocoding(ctx context.Context, orderCh chan<- uuid.UUID) error
}

// GeocodeProcessor is worker resolving missing delivery coordinates
type GeocodeProcessor struct {
	svc OrderService
}

// NewGeocodeProcessor creates new geocode processor
func NewGeocodeProcessor(svc OrderService) *GeocodeProcessor {
	return &GeocodeProcessor{svc: svc}
}

// ProcessOrders periodically queues orders lacking coordinates for resolving
func (gp *GeocodeProcessor) ProcessOrders(ctx context.Context) {
	orders := make(chan uuid.UUID, 10)

	go gp.svc.ResolveCoordinates(ctx, orders)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("geocode processor is done")
			return
		case <-ticker.C:
			if err := gp.svc.GetOrdersForGeocoding(ctx, orders); err != nil {
				logger.Log.Error("error get orders for geocoding")
			}
		}
	}
}
