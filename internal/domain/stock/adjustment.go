package stock

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// StockAdjustment is the audit record written whenever a count correction
// changes a stock item's quantity. Adjustments are append-only.
type StockAdjustment struct {
	shared.TenantAggregateRoot
	StockItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID  *uuid.UUID      `gorm:"type:uuid"`
	OldQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Difference  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason      string          `gorm:"type:varchar(500);not null"`
	AdjustedBy  *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewStockAdjustment creates the audit record for one quantity correction
func NewStockAdjustment(item *StockItem, oldQuantity, newQuantity decimal.Decimal, reason string, adjustedBy *uuid.UUID) (*StockAdjustment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "Adjustment reason cannot be empty")
	}

	return &StockAdjustment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(item.TenantID),
		StockItemID:         item.ID,
		ProductID:           item.ProductID,
		LocationID:          item.LocationID,
		OldQuantity:         oldQuantity,
		NewQuantity:         newQuantity,
		Difference:          newQuantity.Sub(oldQuantity),
		Reason:              reason,
		AdjustedBy:          adjustedBy,
	}, nil
}
