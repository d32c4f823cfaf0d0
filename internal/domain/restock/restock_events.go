package restock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeRestockRequest = "RestockRequest"

// Event type constants
const (
	EventTypeRestockRequestGenerated = "RestockRequestGenerated"
	EventTypeRestockRequestUpdated   = "RestockRequestUpdated"
	EventTypeRestockRequestSent      = "RestockRequestSent"
	EventTypeRestockRequestFulfilled = "RestockRequestFulfilled"
	EventTypeRestockRequestCancelled = "RestockRequestCancelled"
)

// RestockRequestGeneratedEvent is raised when a below-minimum breach opens a
// new request
type RestockRequestGeneratedEvent struct {
	shared.BaseDomainEvent
	RequestID         uuid.UUID       `json:"request_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	LocationID        *uuid.UUID      `json:"location_id,omitempty"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	MinimumQuantity   decimal.Decimal `json:"minimum_quantity"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	Priority          RestockPriority `json:"priority"`
}

// NewRestockRequestGeneratedEvent creates a new RestockRequestGeneratedEvent
func NewRestockRequestGeneratedEvent(r *RestockRequest) *RestockRequestGeneratedEvent {
	return &RestockRequestGeneratedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeRestockRequestGenerated, AggregateTypeRestockRequest, r.ID, r.TenantID),
		RequestID:         r.ID,
		ProductID:         r.ProductID,
		LocationID:        r.LocationID,
		CurrentQuantity:   r.CurrentQuantity,
		MinimumQuantity:   r.MinimumQuantity,
		RequestedQuantity: r.RequestedQuantity,
		Priority:          r.Priority,
	}
}

// EventType returns the event type name
func (e *RestockRequestGeneratedEvent) EventType() string {
	return EventTypeRestockRequestGenerated
}

// RestockRequestUpdatedEvent is raised when a repeated breach refreshes a
// pending request instead of opening a duplicate
type RestockRequestUpdatedEvent struct {
	shared.BaseDomainEvent
	RequestID         uuid.UUID       `json:"request_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	LocationID        *uuid.UUID      `json:"location_id,omitempty"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	Priority          RestockPriority `json:"priority"`
}

// NewRestockRequestUpdatedEvent creates a new RestockRequestUpdatedEvent
func NewRestockRequestUpdatedEvent(r *RestockRequest) *RestockRequestUpdatedEvent {
	return &RestockRequestUpdatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeRestockRequestUpdated, AggregateTypeRestockRequest, r.ID, r.TenantID),
		RequestID:         r.ID,
		ProductID:         r.ProductID,
		LocationID:        r.LocationID,
		CurrentQuantity:   r.CurrentQuantity,
		RequestedQuantity: r.RequestedQuantity,
		Priority:          r.Priority,
	}
}

// EventType returns the event type name
func (e *RestockRequestUpdatedEvent) EventType() string {
	return EventTypeRestockRequestUpdated
}

// RestockRequestSentEvent is raised when the request reaches the ERP
type RestockRequestSentEvent struct {
	shared.BaseDomainEvent
	RequestID         uuid.UUID       `json:"request_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	OrderReference    string          `json:"order_reference,omitempty"`
}

// NewRestockRequestSentEvent creates a new RestockRequestSentEvent
func NewRestockRequestSentEvent(r *RestockRequest) *RestockRequestSentEvent {
	return &RestockRequestSentEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeRestockRequestSent, AggregateTypeRestockRequest, r.ID, r.TenantID),
		RequestID:         r.ID,
		ProductID:         r.ProductID,
		RequestedQuantity: r.RequestedQuantity,
		OrderReference:    r.OrderReference,
	}
}

// EventType returns the event type name
func (e *RestockRequestSentEvent) EventType() string {
	return EventTypeRestockRequestSent
}

// RestockRequestFulfilledEvent is raised when the replenishment arrived
type RestockRequestFulfilledEvent struct {
	shared.BaseDomainEvent
	RequestID      uuid.UUID `json:"request_id"`
	ProductID      uuid.UUID `json:"product_id"`
	OrderReference string    `json:"order_reference,omitempty"`
}

// NewRestockRequestFulfilledEvent creates a new RestockRequestFulfilledEvent
func NewRestockRequestFulfilledEvent(r *RestockRequest) *RestockRequestFulfilledEvent {
	return &RestockRequestFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRestockRequestFulfilled, AggregateTypeRestockRequest, r.ID, r.TenantID),
		RequestID:       r.ID,
		ProductID:       r.ProductID,
		OrderReference:  r.OrderReference,
	}
}

// EventType returns the event type name
func (e *RestockRequestFulfilledEvent) EventType() string {
	return EventTypeRestockRequestFulfilled
}

// RestockRequestCancelledEvent is raised when a request is abandoned
type RestockRequestCancelledEvent struct {
	shared.BaseDomainEvent
	RequestID uuid.UUID `json:"request_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// NewRestockRequestCancelledEvent creates a new RestockRequestCancelledEvent
func NewRestockRequestCancelledEvent(r *RestockRequest) *RestockRequestCancelledEvent {
	return &RestockRequestCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRestockRequestCancelled, AggregateTypeRestockRequest, r.ID, r.TenantID),
		RequestID:       r.ID,
		ProductID:       r.ProductID,
	}
}

// EventType returns the event type name
func (e *RestockRequestCancelledEvent) EventType() string {
	return EventTypeRestockRequestCancelled
}
