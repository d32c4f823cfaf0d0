package tenant

import (
	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeTenant = "Tenant"

// Event type constants
const (
	EventTypeTenantCreated       = "TenantCreated"
	EventTypeTenantProvisioned   = "TenantProvisioned"
	EventTypeTenantStatusChanged = "TenantStatusChanged"
)

// TenantCreatedEvent is raised when a new tenant is registered
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	SchemaName string `json:"schema_name"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, t.ID, t.ID),
		Slug:            t.Slug,
		Name:            t.Name,
		SchemaName:      t.SchemaName,
	}
}

// EventType returns the event type name
func (e *TenantCreatedEvent) EventType() string {
	return EventTypeTenantCreated
}

// TenantProvisionedEvent is raised once the tenant's schema exists and is
// migrated to the current version
type TenantProvisionedEvent struct {
	shared.BaseDomainEvent
	Slug       string `json:"slug"`
	SchemaName string `json:"schema_name"`
}

// NewTenantProvisionedEvent creates a new TenantProvisionedEvent
func NewTenantProvisionedEvent(t *Tenant) *TenantProvisionedEvent {
	return &TenantProvisionedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantProvisioned, AggregateTypeTenant, t.ID, t.ID),
		Slug:            t.Slug,
		SchemaName:      t.SchemaName,
	}
}

// EventType returns the event type name
func (e *TenantProvisionedEvent) EventType() string {
	return EventTypeTenantProvisioned
}

// TenantStatusChangedEvent is raised on every tenant status transition
type TenantStatusChangedEvent struct {
	shared.BaseDomainEvent
	TenantUUID uuid.UUID    `json:"tenant_uuid"`
	OldStatus  TenantStatus `json:"old_status"`
	NewStatus  TenantStatus `json:"new_status"`
}

// NewTenantStatusChangedEvent creates a new TenantStatusChangedEvent
func NewTenantStatusChangedEvent(t *Tenant, oldStatus, newStatus TenantStatus) *TenantStatusChangedEvent {
	return &TenantStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantStatusChanged, AggregateTypeTenant, t.ID, t.ID),
		TenantUUID:      t.ID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// EventType returns the event type name
func (e *TenantStatusChangedEvent) EventType() string {
	return EventTypeTenantStatusChanged
}
