package telemetry

import (
	"context"

	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
)

// MetricsEventHandler feeds the warehouse business counters from the domain
// event stream. It subscribes on the in-process bus next to the application
// handlers; recording never fails event processing.
type MetricsEventHandler struct {
	metrics *WarehouseMetrics
}

// NewMetricsEventHandler creates a MetricsEventHandler
func NewMetricsEventHandler(metrics *WarehouseMetrics) *MetricsEventHandler {
	return &MetricsEventHandler{metrics: metrics}
}

// EventTypes returns the event types this handler is interested in
func (h *MetricsEventHandler) EventTypes() []string {
	return []string{
		movement.EventTypeStockMovementInitiated,
		stock.EventTypeStockClassified,
		stock.EventTypeLocationAssignedToStockItem,
		restock.EventTypeRestockRequestGenerated,
		restock.EventTypeRestockRequestSent,
	}
}

// Handle records the metric matching the event
func (h *MetricsEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *movement.StockMovementInitiatedEvent:
		h.metrics.RecordMovementWithQuantity(ctx, e.TenantID(), string(e.MovementType), e.Quantity)
	case *stock.StockClassifiedEvent:
		h.metrics.RecordClassificationTransition(ctx, e.TenantID(), string(e.OldClassification), string(e.NewClassification))
	case *stock.LocationAssignedToStockItemEvent:
		h.metrics.RecordFEFOAllocation(ctx, e.TenantID())
	case *restock.RestockRequestGeneratedEvent:
		h.metrics.RecordRestockRequest(ctx, e.TenantID(), RestockOutcomeQueued)
	case *restock.RestockRequestSentEvent:
		h.metrics.RecordRestockRequest(ctx, e.TenantID(), RestockOutcomeForwarded)
	}
	return nil
}

var _ shared.EventHandler = (*MetricsEventHandler)(nil)
