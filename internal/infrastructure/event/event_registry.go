package event

import (
	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/stock"
	"github.com/warehub/backend/internal/domain/tenant"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Location domain events
	serializer.Register(location.EventTypeLocationCreated, &location.LocationCreatedEvent{})
	serializer.Register(location.EventTypeLocationStatusChanged, &location.LocationStatusChangedEvent{})
	serializer.Register(location.EventTypeLocationAssigned, &location.LocationAssignedEvent{})
	serializer.Register(location.EventTypeLocationReleased, &location.LocationReleasedEvent{})

	// Stock domain - lifecycle and classification events
	serializer.Register(stock.EventTypeStockClassified, &stock.StockClassifiedEvent{})
	serializer.Register(stock.EventTypeStockExpired, &stock.StockExpiredEvent{})
	serializer.Register(stock.EventTypeStockExpiringAlert, &stock.StockExpiringAlertEvent{})
	serializer.Register(stock.EventTypeLocationAssignedToStockItem, &stock.LocationAssignedToStockItemEvent{})
	serializer.Register(stock.EventTypeStockAdjusted, &stock.StockAdjustedEvent{})
	serializer.Register(stock.EventTypeStockAllocated, &stock.StockAllocatedEvent{})
	serializer.Register(stock.EventTypeStockAllocationReleased, &stock.StockAllocationReleasedEvent{})

	// Stock domain - threshold band events
	serializer.Register(stock.EventTypeStockLevelBelowMinimum, &stock.StockLevelBelowMinimumEvent{})
	serializer.Register(stock.EventTypeStockLevelAboveMaximum, &stock.StockLevelAboveMaximumEvent{})

	// Movement domain events
	serializer.Register(movement.EventTypeStockMovementInitiated, &movement.StockMovementInitiatedEvent{})
	serializer.Register(movement.EventTypeStockMovementCompleted, &movement.StockMovementCompletedEvent{})
	serializer.Register(movement.EventTypeStockMovementCancelled, &movement.StockMovementCancelledEvent{})

	// Restock domain events
	serializer.Register(restock.EventTypeRestockRequestGenerated, &restock.RestockRequestGeneratedEvent{})
	serializer.Register(restock.EventTypeRestockRequestUpdated, &restock.RestockRequestUpdatedEvent{})
	serializer.Register(restock.EventTypeRestockRequestSent, &restock.RestockRequestSentEvent{})
	serializer.Register(restock.EventTypeRestockRequestFulfilled, &restock.RestockRequestFulfilledEvent{})
	serializer.Register(restock.EventTypeRestockRequestCancelled, &restock.RestockRequestCancelledEvent{})

	// Tenant registry events
	serializer.Register(tenant.EventTypeTenantCreated, &tenant.TenantCreatedEvent{})
	serializer.Register(tenant.EventTypeTenantProvisioned, &tenant.TenantProvisionedEvent{})
	serializer.Register(tenant.EventTypeTenantStatusChanged, &tenant.TenantStatusChangedEvent{})
}
