package stock

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeConsignment = "Consignment"

// Event type constants
const (
	EventTypeConsignmentReceived = "ConsignmentReceived"
	EventTypeConsignmentClosed   = "ConsignmentClosed"
)

// ConsignmentStatus represents the lifecycle state of an intake consignment
type ConsignmentStatus string

const (
	ConsignmentStatusOpen   ConsignmentStatus = "OPEN"
	ConsignmentStatusClosed ConsignmentStatus = "CLOSED"
)

// Consignment is the intake document a batch of stock items arrives under.
// Stock items keep a reference to their consignment for traceability back to
// the supplier delivery.
type Consignment struct {
	shared.TenantAggregateRoot
	Reference  string            `gorm:"type:varchar(100);not null;uniqueIndex:idx_consignment_tenant_reference,priority:2"`
	Supplier   string            `gorm:"type:varchar(255)"`
	Status     ConsignmentStatus `gorm:"type:varchar(20);not null;default:'OPEN'"`
	ReceivedAt time.Time         `gorm:"not null"`
	ItemCount  int               `gorm:"not null;default:0"`
	ClosedAt   *time.Time
}

// TableName returns the table name for GORM
func (Consignment) TableName() string {
	return "consignments"
}

// NewConsignment creates a new open consignment
func NewConsignment(tenantID uuid.UUID, reference, supplier string, receivedAt time.Time) (*Consignment, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, shared.NewDomainError("REFERENCE_REQUIRED", "Consignment reference cannot be empty")
	}
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	consignment := &Consignment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Reference:           reference,
		Supplier:            strings.TrimSpace(supplier),
		Status:              ConsignmentStatusOpen,
		ReceivedAt:          receivedAt,
	}
	consignment.AddDomainEvent(NewConsignmentReceivedEvent(consignment))

	return consignment, nil
}

// IsOpen returns true while items may still be booked against the consignment
func (c *Consignment) IsOpen() bool {
	return c.Status == ConsignmentStatusOpen
}

// RecordItem counts one stock item booked against the consignment
func (c *Consignment) RecordItem() error {
	if !c.IsOpen() {
		return shared.NewDomainError("CONSIGNMENT_CLOSED", "Cannot add items to a closed consignment")
	}
	c.ItemCount++
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Close finishes the intake. Closing twice is rejected.
func (c *Consignment) Close() error {
	if !c.IsOpen() {
		return shared.NewDomainError("CONSIGNMENT_CLOSED", "Consignment is already closed")
	}
	now := time.Now()
	c.Status = ConsignmentStatusClosed
	c.ClosedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewConsignmentClosedEvent(c))
	return nil
}

// ConsignmentReceivedEvent is raised when a new consignment is opened
type ConsignmentReceivedEvent struct {
	shared.BaseDomainEvent
	ConsignmentID uuid.UUID `json:"consignment_id"`
	Reference     string    `json:"reference"`
	Supplier      string    `json:"supplier,omitempty"`
	ReceivedAt    time.Time `json:"received_at"`
}

// NewConsignmentReceivedEvent creates a new ConsignmentReceivedEvent
func NewConsignmentReceivedEvent(c *Consignment) *ConsignmentReceivedEvent {
	return &ConsignmentReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConsignmentReceived, AggregateTypeConsignment, c.ID, c.TenantID),
		ConsignmentID:   c.ID,
		Reference:       c.Reference,
		Supplier:        c.Supplier,
		ReceivedAt:      c.ReceivedAt,
	}
}

// EventType returns the event type name
func (e *ConsignmentReceivedEvent) EventType() string {
	return EventTypeConsignmentReceived
}

// ConsignmentClosedEvent is raised when intake for a consignment finishes
type ConsignmentClosedEvent struct {
	shared.BaseDomainEvent
	ConsignmentID uuid.UUID `json:"consignment_id"`
	Reference     string    `json:"reference"`
	ItemCount     int       `json:"item_count"`
}

// NewConsignmentClosedEvent creates a new ConsignmentClosedEvent
func NewConsignmentClosedEvent(c *Consignment) *ConsignmentClosedEvent {
	return &ConsignmentClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeConsignmentClosed, AggregateTypeConsignment, c.ID, c.TenantID),
		ConsignmentID:   c.ID,
		Reference:       c.Reference,
		ItemCount:       c.ItemCount,
	}
}

// EventType returns the event type name
func (e *ConsignmentClosedEvent) EventType() string {
	return EventTypeConsignmentClosed
}

// ConsignmentLine is one product position on an incoming consignment before
// it is booked into stock items
type ConsignmentLine struct {
	ProductID      uuid.UUID
	Quantity       decimal.Decimal
	ExpirationDate *time.Time
}
