package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockItem = "StockItem"

// Event type constants
const (
	EventTypeStockClassified             = "StockClassified"
	EventTypeStockExpired                = "StockExpired"
	EventTypeStockExpiringAlert          = "StockExpiringAlert"
	EventTypeLocationAssignedToStockItem = "LocationAssignedToStockItem"
	EventTypeStockAdjusted               = "StockAdjusted"
	EventTypeStockAllocated              = "StockAllocated"
	EventTypeStockAllocationReleased     = "StockAllocationReleased"
	EventTypeStockLevelBelowMinimum      = "StockLevelBelowMinimum"
	EventTypeStockLevelAboveMaximum      = "StockLevelAboveMaximum"
)

// StockClassifiedEvent is raised whenever the expiration classification of a
// stock item changes, including the initial classification at intake
type StockClassifiedEvent struct {
	shared.BaseDomainEvent
	StockItemID       uuid.UUID      `json:"stock_item_id"`
	ProductID         uuid.UUID      `json:"product_id"`
	OldClassification Classification `json:"old_classification"`
	NewClassification Classification `json:"new_classification"`
	ExpirationDate    *time.Time     `json:"expiration_date,omitempty"`
}

// NewStockClassifiedEvent creates a new StockClassifiedEvent
func NewStockClassifiedEvent(item *StockItem, oldClassification, newClassification Classification) *StockClassifiedEvent {
	return &StockClassifiedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockClassified, AggregateTypeStockItem, item.ID, item.TenantID),
		StockItemID:       item.ID,
		ProductID:         item.ProductID,
		OldClassification: oldClassification,
		NewClassification: newClassification,
		ExpirationDate:    item.ExpirationDate,
	}
}

// EventType returns the event type name
func (e *StockClassifiedEvent) EventType() string {
	return EventTypeStockClassified
}

// StockExpiredEvent is raised when a stock item crosses into EXPIRED
type StockExpiredEvent struct {
	shared.BaseDomainEvent
	StockItemID    uuid.UUID       `json:"stock_item_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	LocationID     *uuid.UUID      `json:"location_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

// NewStockExpiredEvent creates a new StockExpiredEvent
func NewStockExpiredEvent(item *StockItem) *StockExpiredEvent {
	return &StockExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockExpired, AggregateTypeStockItem, item.ID, item.TenantID),
		StockItemID:     item.ID,
		ProductID:       item.ProductID,
		LocationID:      item.LocationID,
		Quantity:        item.Quantity,
		ExpirationDate:  item.ExpirationDate,
	}
}

// EventType returns the event type name
func (e *StockExpiredEvent) EventType() string {
	return EventTypeStockExpired
}

// StockExpiringAlertEvent is raised when a stock item enters the CRITICAL or
// NEAR_EXPIRY window. AlertThresholdDays carries the window width (7 or 30).
type StockExpiringAlertEvent struct {
	shared.BaseDomainEvent
	StockItemID         uuid.UUID       `json:"stock_item_id"`
	ProductID           uuid.UUID       `json:"product_id"`
	LocationID          *uuid.UUID      `json:"location_id,omitempty"`
	Quantity            decimal.Decimal `json:"quantity"`
	Classification      Classification  `json:"classification"`
	AlertThresholdDays  int             `json:"alert_threshold_days"`
	ExpirationDate      *time.Time      `json:"expiration_date,omitempty"`
}

// NewStockExpiringAlertEvent creates a new StockExpiringAlertEvent
func NewStockExpiringAlertEvent(item *StockItem, thresholdDays int) *StockExpiringAlertEvent {
	return &StockExpiringAlertEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeStockExpiringAlert, AggregateTypeStockItem, item.ID, item.TenantID),
		StockItemID:        item.ID,
		ProductID:          item.ProductID,
		LocationID:         item.LocationID,
		Quantity:           item.Quantity,
		Classification:     item.Classification,
		AlertThresholdDays: thresholdDays,
		ExpirationDate:     item.ExpirationDate,
	}
}

// EventType returns the event type name
func (e *StockExpiringAlertEvent) EventType() string {
	return EventTypeStockExpiringAlert
}

// LocationAssignedToStockItemEvent is raised when a stock item is placed at a location
type LocationAssignedToStockItemEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewLocationAssignedToStockItemEvent creates a new LocationAssignedToStockItemEvent
func NewLocationAssignedToStockItemEvent(item *StockItem, locationID uuid.UUID, quantity decimal.Decimal) *LocationAssignedToStockItemEvent {
	return &LocationAssignedToStockItemEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationAssignedToStockItem, AggregateTypeStockItem, item.ID, item.TenantID),
		StockItemID:     item.ID,
		ProductID:       item.ProductID,
		LocationID:      locationID,
		Quantity:        quantity,
	}
}

// EventType returns the event type name
func (e *LocationAssignedToStockItemEvent) EventType() string {
	return EventTypeLocationAssignedToStockItem
}

// StockAdjustedEvent is raised when a count correction changes the quantity
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Difference  decimal.Decimal `json:"difference"`
	Reason      string          `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *StockItem, oldQty, newQty decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, item.ID, item.TenantID),
		StockItemID:     item.ID,
		ProductID:       item.ProductID,
		LocationID:      item.LocationID,
		OldQuantity:     oldQty,
		NewQuantity:     newQty,
		Difference:      newQty.Sub(oldQty),
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// StockAllocatedEvent is raised when quantity is reserved for an outbound order
type StockAllocatedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference   string          `json:"reference,omitempty"`
}

// NewStockAllocatedEvent creates a new StockAllocatedEvent
func NewStockAllocatedEvent(item *StockItem, quantity decimal.Decimal, reference string) *StockAllocatedEvent {
	return &StockAllocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAllocated, AggregateTypeStockItem, item.ID, item.TenantID),
		StockItemID:     item.ID,
		ProductID:       item.ProductID,
		Quantity:        quantity,
		Reference:       reference,
	}
}

// EventType returns the event type name
func (e *StockAllocatedEvent) EventType() string {
	return EventTypeStockAllocated
}

// StockAllocationReleasedEvent is raised when a reservation is returned to the pool
type StockAllocationReleasedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference   string          `json:"reference,omitempty"`
}

// NewStockAllocationReleasedEvent creates a new StockAllocationReleasedEvent
func NewStockAllocationReleasedEvent(item *StockItem, quantity decimal.Decimal, reference string) *StockAllocationReleasedEvent {
	return &StockAllocationReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAllocationReleased, AggregateTypeStockItem, item.ID, item.TenantID),
		StockItemID:     item.ID,
		ProductID:       item.ProductID,
		Quantity:        quantity,
		Reference:       reference,
	}
}

// EventType returns the event type name
func (e *StockAllocationReleasedEvent) EventType() string {
	return EventTypeStockAllocationReleased
}

// StockLevelBelowMinimumEvent is raised by the threshold monitor when the
// total quantity of a product drops below the configured minimum. AutoRestock
// tells the restock handler whether to turn the breach into a request.
type StockLevelBelowMinimumEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID       `json:"product_id"`
	LocationID      *uuid.UUID      `json:"location_id,omitempty"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinimumQuantity decimal.Decimal `json:"minimum_quantity"`
	MaximumQuantity decimal.Decimal `json:"maximum_quantity"`
	AutoRestock     bool            `json:"auto_restock"`
}

// NewStockLevelBelowMinimumEvent creates a new StockLevelBelowMinimumEvent
func NewStockLevelBelowMinimumEvent(threshold *StockThreshold, current decimal.Decimal) *StockLevelBelowMinimumEvent {
	return &StockLevelBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLevelBelowMinimum, AggregateTypeStockThreshold, threshold.ID, threshold.TenantID),
		ProductID:       threshold.ProductID,
		LocationID:      threshold.LocationID,
		CurrentQuantity: current,
		MinimumQuantity: threshold.MinimumQuantity,
		MaximumQuantity: threshold.MaximumQuantity,
		AutoRestock:     threshold.EnableAutoRestock,
	}
}

// EventType returns the event type name
func (e *StockLevelBelowMinimumEvent) EventType() string {
	return EventTypeStockLevelBelowMinimum
}

// StockLevelAboveMaximumEvent is raised when the total quantity of a product
// exceeds the configured maximum
type StockLevelAboveMaximumEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID       `json:"product_id"`
	LocationID      *uuid.UUID      `json:"location_id,omitempty"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinimumQuantity decimal.Decimal `json:"minimum_quantity"`
	MaximumQuantity decimal.Decimal `json:"maximum_quantity"`
}

// NewStockLevelAboveMaximumEvent creates a new StockLevelAboveMaximumEvent
func NewStockLevelAboveMaximumEvent(threshold *StockThreshold, current decimal.Decimal) *StockLevelAboveMaximumEvent {
	return &StockLevelAboveMaximumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLevelAboveMaximum, AggregateTypeStockThreshold, threshold.ID, threshold.TenantID),
		ProductID:       threshold.ProductID,
		LocationID:      threshold.LocationID,
		CurrentQuantity: current,
		MinimumQuantity: threshold.MinimumQuantity,
		MaximumQuantity: threshold.MaximumQuantity,
	}
}

// EventType returns the event type name
func (e *StockLevelAboveMaximumEvent) EventType() string {
	return EventTypeStockLevelAboveMaximum
}
