package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/application/scope"
	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// ThresholdMonitor watches the events that change product stock levels and
// compares the resulting level against the configured replenishment band.
// Breaches emit StockLevelBelowMinimum / StockLevelAboveMaximum through the
// normal pipeline, which downstream turns into restock requests.
type ThresholdMonitor struct {
	txScope scope.TransactionScope
	logger  *zap.Logger
}

// NewThresholdMonitor creates a new ThresholdMonitor
func NewThresholdMonitor(txScope scope.TransactionScope, logger *zap.Logger) *ThresholdMonitor {
	return &ThresholdMonitor{
		txScope: txScope,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (m *ThresholdMonitor) EventTypes() []string {
	return []string{
		stock.EventTypeStockAdjusted,
		stock.EventTypeLocationAssignedToStockItem,
		movement.EventTypeStockMovementCompleted,
	}
}

// Handle re-evaluates the thresholds touched by a stock level change. Both
// the location-specific band and the tenant-wide band for the product are
// checked; locations a movement vacated are checked as well as the ones it
// filled.
func (m *ThresholdMonitor) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenantID := event.TenantID()

	var productID uuid.UUID
	locationIDs := make([]*uuid.UUID, 0, 3)
	locationIDs = append(locationIDs, nil) // tenant-wide band

	switch e := event.(type) {
	case *stock.StockAdjustedEvent:
		productID = e.ProductID
		if e.LocationID != nil {
			locationIDs = append(locationIDs, e.LocationID)
		}
	case *stock.LocationAssignedToStockItemEvent:
		productID = e.ProductID
		locID := e.LocationID
		locationIDs = append(locationIDs, &locID)
	case *movement.StockMovementCompletedEvent:
		productID = e.ProductID
		src, dst := e.SourceLocationID, e.DestinationLocationID
		locationIDs = append(locationIDs, &src, &dst)
	default:
		return fmt.Errorf("threshold monitor: unexpected event type %s", event.EventType())
	}

	return m.txScope.Execute(ctx, func(repos scope.Repositories) error {
		for _, locationID := range locationIDs {
			threshold, err := repos.Thresholds().FindByProductAndLocation(ctx, tenantID, productID, locationID)
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			var current decimal.Decimal
			if locationID != nil {
				current, err = repos.StockItems().SumQuantityByProductAndLocation(ctx, tenantID, productID, *locationID)
			} else {
				current, err = repos.StockItems().SumQuantityByProduct(ctx, tenantID, productID)
			}
			if err != nil {
				return err
			}

			if threshold.Evaluate(current) {
				m.logger.Info("stock level crossed threshold band",
					zap.String("tenant_id", tenantID.String()),
					zap.String("product_id", productID.String()),
					zap.String("current", current.String()),
					zap.String("minimum", threshold.MinimumQuantity.String()),
				)
				repos.Collect(threshold)
			}
		}
		return nil
	})
}

// Ensure ThresholdMonitor implements shared.EventHandler
var _ shared.EventHandler = (*ThresholdMonitor)(nil)
