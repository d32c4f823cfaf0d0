package location

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeLocation = "Location"

// Event type constants
const (
	EventTypeLocationCreated       = "LocationCreated"
	EventTypeLocationStatusChanged = "LocationStatusChanged"
	EventTypeLocationAssigned      = "LocationAssigned"
	EventTypeLocationReleased      = "LocationReleased"
)

// LocationCreatedEvent is raised when a new location is added to the hierarchy
type LocationCreatedEvent struct {
	shared.BaseDomainEvent
	LocationID       uuid.UUID       `json:"location_id"`
	ParentLocationID *uuid.UUID      `json:"parent_location_id,omitempty"`
	Code             string          `json:"code,omitempty"`
	Barcode          string          `json:"barcode"`
	LocationType     LocationType    `json:"location_type"`
	Status           LocationStatus  `json:"status"`
	MaxCapacity      decimal.Decimal `json:"max_capacity"`
}

// NewLocationCreatedEvent creates a new LocationCreatedEvent
func NewLocationCreatedEvent(loc *Location) *LocationCreatedEvent {
	return &LocationCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeLocationCreated, AggregateTypeLocation, loc.ID, loc.TenantID),
		LocationID:       loc.ID,
		ParentLocationID: loc.ParentLocationID,
		Code:             loc.Code,
		Barcode:          loc.Barcode,
		LocationType:     loc.Type,
		Status:           loc.Status,
		MaxCapacity:      loc.MaxCapacity,
	}
}

// EventType returns the event type name
func (e *LocationCreatedEvent) EventType() string {
	return EventTypeLocationCreated
}

// LocationStatusChangedEvent is raised on every status transition
type LocationStatusChangedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID      `json:"location_id"`
	OldStatus  LocationStatus `json:"old_status"`
	NewStatus  LocationStatus `json:"new_status"`
	Reason     string         `json:"reason,omitempty"`
}

// NewLocationStatusChangedEvent creates a new LocationStatusChangedEvent
func NewLocationStatusChangedEvent(loc *Location, oldStatus, newStatus LocationStatus, reason string) *LocationStatusChangedEvent {
	return &LocationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationStatusChanged, AggregateTypeLocation, loc.ID, loc.TenantID),
		LocationID:      loc.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *LocationStatusChangedEvent) EventType() string {
	return EventTypeLocationStatusChanged
}

// LocationAssignedEvent is raised when stock is placed at a location
type LocationAssignedEvent struct {
	shared.BaseDomainEvent
	LocationID      uuid.UUID       `json:"location_id"`
	StockItemID     uuid.UUID       `json:"stock_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	CurrentCapacity decimal.Decimal `json:"current_capacity"`
}

// NewLocationAssignedEvent creates a new LocationAssignedEvent
func NewLocationAssignedEvent(loc *Location, stockItemID uuid.UUID, quantity decimal.Decimal) *LocationAssignedEvent {
	return &LocationAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationAssigned, AggregateTypeLocation, loc.ID, loc.TenantID),
		LocationID:      loc.ID,
		StockItemID:     stockItemID,
		Quantity:        quantity,
		CurrentCapacity: loc.CurrentCapacity,
	}
}

// EventType returns the event type name
func (e *LocationAssignedEvent) EventType() string {
	return EventTypeLocationAssigned
}

// LocationReleasedEvent is raised when stock is removed from a location
type LocationReleasedEvent struct {
	shared.BaseDomainEvent
	LocationID      uuid.UUID       `json:"location_id"`
	StockItemID     uuid.UUID       `json:"stock_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	CurrentCapacity decimal.Decimal `json:"current_capacity"`
}

// NewLocationReleasedEvent creates a new LocationReleasedEvent
func NewLocationReleasedEvent(loc *Location, stockItemID uuid.UUID, quantity decimal.Decimal) *LocationReleasedEvent {
	return &LocationReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationReleased, AggregateTypeLocation, loc.ID, loc.TenantID),
		LocationID:      loc.ID,
		StockItemID:     stockItemID,
		Quantity:        quantity,
		CurrentCapacity: loc.CurrentCapacity,
	}
}

// EventType returns the event type name
func (e *LocationReleasedEvent) EventType() string {
	return EventTypeLocationReleased
}
