package movement

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// MovementStatus represents the lifecycle state of a stock movement
type MovementStatus string

const (
	MovementStatusInitiated MovementStatus = "INITIATED"
	MovementStatusCompleted MovementStatus = "COMPLETED"
	MovementStatusCancelled MovementStatus = "CANCELLED"
)

// IsValid checks if the status is a valid MovementStatus
func (s MovementStatus) IsValid() bool {
	switch s {
	case MovementStatusInitiated, MovementStatusCompleted, MovementStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of MovementStatus
func (s MovementStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states a movement can never leave
func (s MovementStatus) IsTerminal() bool {
	return s == MovementStatusCompleted || s == MovementStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s MovementStatus) CanTransitionTo(target MovementStatus) bool {
	if s != MovementStatusInitiated {
		return false
	}
	return target == MovementStatusCompleted || target == MovementStatusCancelled
}

// MovementType categorizes why stock changes place
type MovementType string

const (
	MovementTypePutaway  MovementType = "PUTAWAY"
	MovementTypeTransfer MovementType = "TRANSFER"
	MovementTypePick     MovementType = "PICK"
	MovementTypeReturn   MovementType = "RETURN"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypePutaway, MovementTypeTransfer, MovementTypePick, MovementTypeReturn:
		return true
	}
	return false
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// StockMovement is the two-phase relocation of a stock item quantity between
// two locations. Initiation records the intent; completion applies the
// capacity effects on both locations together with the status change, and
// cancellation abandons the movement with a reason. Both outcomes are
// terminal.
type StockMovement struct {
	shared.TenantAggregateRoot
	StockItemID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	SourceLocationID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DestinationLocationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity              decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MovementType          MovementType    `gorm:"type:varchar(20);not null;default:'TRANSFER'"`
	Reason                string          `gorm:"type:varchar(500)"`
	Status                MovementStatus  `gorm:"type:varchar(20);not null;default:'INITIATED'"`
	InitiatedBy           *uuid.UUID      `gorm:"type:uuid"`
	InitiatedAt           time.Time       `gorm:"not null"`
	CompletedAt           *time.Time
	CancelledAt           *time.Time
	CancellationReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement initiates a movement. The cross-aggregate preconditions
// (destination capacity, available stock quantity) are checked by the command
// handler before the aggregates are touched; this constructor holds the
// movement's own invariants.
func NewStockMovement(tenantID, stockItemID, productID, sourceLocationID, destinationLocationID uuid.UUID,
	quantity decimal.Decimal, movementType MovementType, reason string, initiatedBy *uuid.UUID) (*StockMovement, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK_ITEM", "Stock item ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if sourceLocationID == uuid.Nil || destinationLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source and destination location IDs cannot be empty")
	}
	if sourceLocationID == destinationLocationID {
		return nil, shared.NewDomainError("SAME_LOCATION", "Source and destination must differ")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if movementType == "" {
		movementType = MovementTypeTransfer
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type: "+movementType.String())
	}

	m := &StockMovement{
		TenantAggregateRoot:   shared.NewTenantAggregateRoot(tenantID),
		StockItemID:           stockItemID,
		ProductID:             productID,
		SourceLocationID:      sourceLocationID,
		DestinationLocationID: destinationLocationID,
		Quantity:              quantity,
		MovementType:          movementType,
		Reason:                strings.TrimSpace(reason),
		Status:                MovementStatusInitiated,
		InitiatedBy:           initiatedBy,
		InitiatedAt:           time.Now(),
	}
	m.AddDomainEvent(NewStockMovementInitiatedEvent(m))

	return m, nil
}

// IsPending returns true while the movement awaits completion or cancellation
func (m *StockMovement) IsPending() bool {
	return m.Status == MovementStatusInitiated
}

// Complete marks the movement done. The caller applies the location capacity
// effects in the same transaction.
func (m *StockMovement) Complete() error {
	if !m.Status.CanTransitionTo(MovementStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot complete a movement in status "+m.Status.String())
	}

	now := time.Now()
	m.Status = MovementStatusCompleted
	m.CompletedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()
	m.AddDomainEvent(NewStockMovementCompletedEvent(m))

	return nil
}

// Cancel abandons the movement. A reason is required.
func (m *StockMovement) Cancel(reason string) error {
	if !m.Status.CanTransitionTo(MovementStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot cancel a movement in status "+m.Status.String())
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Cancelling a movement requires a reason")
	}

	now := time.Now()
	m.Status = MovementStatusCancelled
	m.CancelledAt = &now
	m.CancellationReason = reason
	m.UpdatedAt = now
	m.IncrementVersion()
	m.AddDomainEvent(NewStockMovementCancelledEvent(m, reason))

	return nil
}
