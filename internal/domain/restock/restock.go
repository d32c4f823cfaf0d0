package restock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// RestockStatus represents the lifecycle state of a restock request
type RestockStatus string

const (
	RestockStatusPending    RestockStatus = "PENDING"
	RestockStatusSentToD365 RestockStatus = "SENT_TO_D365"
	RestockStatusFulfilled  RestockStatus = "FULFILLED"
	RestockStatusCancelled  RestockStatus = "CANCELLED"
)

// IsValid checks if the status is a valid RestockStatus
func (s RestockStatus) IsValid() bool {
	switch s {
	case RestockStatusPending, RestockStatusSentToD365, RestockStatusFulfilled, RestockStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of RestockStatus
func (s RestockStatus) String() string {
	return string(s)
}

// IsActive returns true while the request still counts against the
// one-active-request-per-product-and-location rule
func (s RestockStatus) IsActive() bool {
	return s == RestockStatusPending || s == RestockStatusSentToD365
}

// IsTerminal returns true for states a request can never leave
func (s RestockStatus) IsTerminal() bool {
	return s == RestockStatusFulfilled || s == RestockStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s RestockStatus) CanTransitionTo(target RestockStatus) bool {
	switch s {
	case RestockStatusPending:
		return target == RestockStatusSentToD365 || target == RestockStatusCancelled
	case RestockStatusSentToD365:
		return target == RestockStatusFulfilled || target == RestockStatusCancelled
	}
	return false
}

// RestockPriority expresses how urgently the level must be replenished
type RestockPriority string

const (
	RestockPriorityLow    RestockPriority = "LOW"
	RestockPriorityMedium RestockPriority = "MEDIUM"
	RestockPriorityHigh   RestockPriority = "HIGH"
)

// IsValid checks if the priority is a valid RestockPriority
func (p RestockPriority) IsValid() bool {
	switch p {
	case RestockPriorityLow, RestockPriorityMedium, RestockPriorityHigh:
		return true
	}
	return false
}

// String returns the string representation of RestockPriority
func (p RestockPriority) String() string {
	return string(p)
}

// RestockRequest asks the ERP for replenishment of one product, either at one
// location or tenant-wide. Requests are generated from below-minimum level
// breaches; at most one active request exists per (tenant, product, location).
type RestockRequest struct {
	shared.TenantAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_restock_tenant_product_location,priority:2"`
	LocationID        *uuid.UUID      `gorm:"type:uuid;index:idx_restock_tenant_product_location,priority:3"`
	CurrentQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinimumQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MaximumQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RequestedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Priority          RestockPriority `gorm:"type:varchar(10);not null"`
	Status            RestockStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	SentAt            *time.Time
	OrderReference    string `gorm:"type:varchar(100)"`
	FulfilledAt       *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (RestockRequest) TableName() string {
	return "restock_requests"
}

// DerivePriority grades the urgency from how far the level sits below the
// minimum: under half the minimum is HIGH, under the minimum is MEDIUM,
// otherwise LOW.
func DerivePriority(current, minimum decimal.Decimal) RestockPriority {
	if minimum.LessThanOrEqual(decimal.Zero) {
		return RestockPriorityLow
	}
	ratio := current.Div(minimum)
	switch {
	case ratio.LessThan(decimal.NewFromFloat(0.5)):
		return RestockPriorityHigh
	case ratio.LessThan(decimal.NewFromInt(1)):
		return RestockPriorityMedium
	default:
		return RestockPriorityLow
	}
}

// DeriveRequestedQuantity computes the order size: top up to the maximum when
// one is set, otherwise to twice the minimum. Never negative.
func DeriveRequestedQuantity(current, minimum, maximum decimal.Decimal) decimal.Decimal {
	var target decimal.Decimal
	if maximum.GreaterThan(decimal.Zero) {
		target = maximum
	} else {
		target = minimum.Mul(decimal.NewFromInt(2))
	}
	requested := target.Sub(current)
	if requested.IsNegative() {
		return decimal.Zero
	}
	return requested
}

// NewRestockRequest creates a pending request with derived priority and
// quantity. A zero maximum means no upper band was configured.
func NewRestockRequest(tenantID, productID uuid.UUID, locationID *uuid.UUID, current, minimum, maximum decimal.Decimal) (*RestockRequest, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID != nil && *locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if minimum.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Minimum quantity must be positive")
	}
	if current.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Current quantity cannot be negative")
	}
	if maximum.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Maximum quantity cannot be negative")
	}

	r := &RestockRequest{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		CurrentQuantity:     current,
		MinimumQuantity:     minimum,
		MaximumQuantity:     maximum,
		RequestedQuantity:   DeriveRequestedQuantity(current, minimum, maximum),
		Priority:            DerivePriority(current, minimum),
		Status:              RestockStatusPending,
	}
	r.AddDomainEvent(NewRestockRequestGeneratedEvent(r))

	return r, nil
}

// IsActive returns true while the request blocks creation of another one for
// the same product and location
func (r *RestockRequest) IsActive() bool {
	return r.Status.IsActive()
}

// Refresh re-derives quantity and priority from a fresh level reading. Only
// pending requests change; a request already sent to the ERP keeps the
// numbers the order was placed with.
func (r *RestockRequest) Refresh(current, minimum, maximum decimal.Decimal) error {
	if r.Status != RestockStatusPending {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Only a pending request can be refreshed, status is "+r.Status.String())
	}
	if minimum.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_THRESHOLD", "Minimum quantity must be positive")
	}
	if current.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Current quantity cannot be negative")
	}

	r.CurrentQuantity = current
	r.MinimumQuantity = minimum
	r.MaximumQuantity = maximum
	r.RequestedQuantity = DeriveRequestedQuantity(current, minimum, maximum)
	r.Priority = DerivePriority(current, minimum)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewRestockRequestUpdatedEvent(r))

	return nil
}

// MarkAsSent records the hand-off to the ERP together with the order
// reference it returned
func (r *RestockRequest) MarkAsSent(orderReference string) error {
	if !r.Status.CanTransitionTo(RestockStatusSentToD365) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot send a request in status "+r.Status.String())
	}

	now := time.Now()
	r.Status = RestockStatusSentToD365
	r.SentAt = &now
	r.OrderReference = orderReference
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewRestockRequestSentEvent(r))

	return nil
}

// MarkAsFulfilled closes the request once the ERP delivery arrived. Calling
// it on an already fulfilled request is a no-op; a cancelled request can
// never become fulfilled.
func (r *RestockRequest) MarkAsFulfilled() error {
	if r.Status == RestockStatusFulfilled {
		return nil
	}
	if !r.Status.CanTransitionTo(RestockStatusFulfilled) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot fulfill a request in status "+r.Status.String())
	}

	now := time.Now()
	r.Status = RestockStatusFulfilled
	r.FulfilledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewRestockRequestFulfilledEvent(r))

	return nil
}

// Cancel abandons any not-yet-fulfilled request
func (r *RestockRequest) Cancel() error {
	if !r.Status.CanTransitionTo(RestockStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot cancel a request in status "+r.Status.String())
	}

	now := time.Now()
	r.Status = RestockStatusCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewRestockRequestCancelledEvent(r))

	return nil
}
