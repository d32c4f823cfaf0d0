package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// AllocationStatus represents the lifecycle state of a stock allocation
type AllocationStatus string

const (
	AllocationStatusActive   AllocationStatus = "ACTIVE"
	AllocationStatusReleased AllocationStatus = "RELEASED"
)

// StockAllocation records one reservation held against a stock item. The
// stock item's allocatedQuantity is the sum of its active allocations; the
// records exist so individual reservations can be released by reference.
type StockAllocation struct {
	shared.TenantAggregateRoot
	StockItemID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Reference   string           `gorm:"type:varchar(100);index"`
	Status      AllocationStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	ReleasedAt  *time.Time
}

// TableName returns the table name for GORM
func (StockAllocation) TableName() string {
	return "stock_allocations"
}

// NewStockAllocation creates an active allocation record
func NewStockAllocation(tenantID, stockItemID uuid.UUID, quantity decimal.Decimal, reference string) (*StockAllocation, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK_ITEM", "Stock item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Allocation quantity must be positive")
	}

	return &StockAllocation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		StockItemID:         stockItemID,
		Quantity:            quantity,
		Reference:           reference,
		Status:              AllocationStatusActive,
	}, nil
}

// IsActive returns true while the allocation still holds quantity
func (a *StockAllocation) IsActive() bool {
	return a.Status == AllocationStatusActive
}

// Release returns the held quantity to the pool. Releasing twice is rejected.
func (a *StockAllocation) Release() error {
	if !a.IsActive() {
		return shared.NewDomainError("ALLOCATION_RELEASED", "Allocation is already released")
	}
	now := time.Now()
	a.Status = AllocationStatusReleased
	a.ReleasedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
	return nil
}
