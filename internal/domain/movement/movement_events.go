package movement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockMovement = "StockMovement"

// Event type constants
const (
	EventTypeStockMovementInitiated = "StockMovementInitiated"
	EventTypeStockMovementCompleted = "StockMovementCompleted"
	EventTypeStockMovementCancelled = "StockMovementCancelled"
)

// StockMovementInitiatedEvent is raised when a movement is opened
type StockMovementInitiatedEvent struct {
	shared.BaseDomainEvent
	MovementID            uuid.UUID       `json:"movement_id"`
	StockItemID           uuid.UUID       `json:"stock_item_id"`
	ProductID             uuid.UUID       `json:"product_id"`
	SourceLocationID      uuid.UUID       `json:"source_location_id"`
	DestinationLocationID uuid.UUID       `json:"destination_location_id"`
	Quantity              decimal.Decimal `json:"quantity"`
	MovementType          MovementType    `json:"movement_type"`
}

// NewStockMovementInitiatedEvent creates a new StockMovementInitiatedEvent
func NewStockMovementInitiatedEvent(m *StockMovement) *StockMovementInitiatedEvent {
	return &StockMovementInitiatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeStockMovementInitiated, AggregateTypeStockMovement, m.ID, m.TenantID),
		MovementID:            m.ID,
		StockItemID:           m.StockItemID,
		ProductID:             m.ProductID,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Quantity:              m.Quantity,
		MovementType:          m.MovementType,
	}
}

// EventType returns the event type name
func (e *StockMovementInitiatedEvent) EventType() string {
	return EventTypeStockMovementInitiated
}

// StockMovementCompletedEvent is raised when a movement's effects are applied
type StockMovementCompletedEvent struct {
	shared.BaseDomainEvent
	MovementID            uuid.UUID       `json:"movement_id"`
	StockItemID           uuid.UUID       `json:"stock_item_id"`
	ProductID             uuid.UUID       `json:"product_id"`
	SourceLocationID      uuid.UUID       `json:"source_location_id"`
	DestinationLocationID uuid.UUID       `json:"destination_location_id"`
	Quantity              decimal.Decimal `json:"quantity"`
}

// NewStockMovementCompletedEvent creates a new StockMovementCompletedEvent
func NewStockMovementCompletedEvent(m *StockMovement) *StockMovementCompletedEvent {
	return &StockMovementCompletedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeStockMovementCompleted, AggregateTypeStockMovement, m.ID, m.TenantID),
		MovementID:            m.ID,
		StockItemID:           m.StockItemID,
		ProductID:             m.ProductID,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Quantity:              m.Quantity,
	}
}

// EventType returns the event type name
func (e *StockMovementCompletedEvent) EventType() string {
	return EventTypeStockMovementCompleted
}

// StockMovementCancelledEvent is raised when a pending movement is abandoned
type StockMovementCancelledEvent struct {
	shared.BaseDomainEvent
	MovementID  uuid.UUID       `json:"movement_id"`
	StockItemID uuid.UUID       `json:"stock_item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason"`
}

// NewStockMovementCancelledEvent creates a new StockMovementCancelledEvent
func NewStockMovementCancelledEvent(m *StockMovement, reason string) *StockMovementCancelledEvent {
	return &StockMovementCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementCancelled, AggregateTypeStockMovement, m.ID, m.TenantID),
		MovementID:      m.ID,
		StockItemID:     m.StockItemID,
		Quantity:        m.Quantity,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *StockMovementCancelledEvent) EventType() string {
	return EventTypeStockMovementCancelled
}
