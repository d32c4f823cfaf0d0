package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockThreshold = "StockThreshold"

// StockThreshold configures the replenishment band for a product, either at
// one location or tenant-wide when no location is set. The threshold monitor
// compares the summed stock quantity against it and raises level events;
// EnableAutoRestock decides whether a below-minimum event also generates a
// restock request downstream.
type StockThreshold struct {
	shared.TenantAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_threshold_tenant_product_location,priority:2"`
	LocationID        *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_threshold_tenant_product_location,priority:3"`
	MinimumQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MaximumQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	EnableAutoRestock bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (StockThreshold) TableName() string {
	return "stock_thresholds"
}

// NewStockThreshold creates a new threshold. A zero maximum means no upper
// band is tracked; when a maximum is set it must sit strictly above the
// minimum. A nil locationID makes the band tenant-wide for the product.
func NewStockThreshold(tenantID, productID uuid.UUID, locationID *uuid.UUID, minimum, maximum decimal.Decimal) (*StockThreshold, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if locationID != nil && *locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if err := validateThresholdBand(minimum, maximum); err != nil {
		return nil, err
	}

	return &StockThreshold{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		MinimumQuantity:     minimum,
		MaximumQuantity:     maximum,
		EnableAutoRestock:   true,
	}, nil
}

// HasMaximum returns true when an upper band is configured
func (t *StockThreshold) HasMaximum() bool {
	return t.MaximumQuantity.GreaterThan(decimal.Zero)
}

// UpdateLimits replaces the band
func (t *StockThreshold) UpdateLimits(minimum, maximum decimal.Decimal) error {
	if err := validateThresholdBand(minimum, maximum); err != nil {
		return err
	}
	t.MinimumQuantity = minimum
	t.MaximumQuantity = maximum
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetAutoRestock toggles restock generation for below-minimum breaches
func (t *StockThreshold) SetAutoRestock(enabled bool) {
	if t.EnableAutoRestock == enabled {
		return
	}
	t.EnableAutoRestock = enabled
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// RequestedRestockQuantity returns how much to order to bring the level back
// into the band: up to the maximum when one is set, otherwise up to twice the
// minimum. Never negative.
func (t *StockThreshold) RequestedRestockQuantity(current decimal.Decimal) decimal.Decimal {
	var target decimal.Decimal
	if t.HasMaximum() {
		target = t.MaximumQuantity
	} else {
		target = t.MinimumQuantity.Mul(decimal.NewFromInt(2))
	}
	requested := target.Sub(current)
	if requested.IsNegative() {
		return decimal.Zero
	}
	return requested
}

// Priority derives the restock urgency from how far the level has fallen:
// below half the minimum is HIGH, below the minimum is MEDIUM, else LOW.
func (t *StockThreshold) Priority(current decimal.Decimal) string {
	ratio := decimal.NewFromInt(1)
	if t.MinimumQuantity.GreaterThan(decimal.Zero) {
		ratio = current.Div(t.MinimumQuantity)
	}
	switch {
	case ratio.LessThan(decimal.NewFromFloat(0.5)):
		return "HIGH"
	case ratio.LessThan(decimal.NewFromInt(1)):
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// Evaluate compares the current level against the band and records the level
// event when a bound is crossed. Returns true when an event was recorded.
func (t *StockThreshold) Evaluate(current decimal.Decimal) bool {
	if current.LessThan(t.MinimumQuantity) {
		t.AddDomainEvent(NewStockLevelBelowMinimumEvent(t, current))
		return true
	}
	if t.HasMaximum() && current.GreaterThan(t.MaximumQuantity) {
		t.AddDomainEvent(NewStockLevelAboveMaximumEvent(t, current))
		return true
	}
	return false
}

func validateThresholdBand(minimum, maximum decimal.Decimal) error {
	if minimum.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_THRESHOLD", "Minimum quantity must be positive")
	}
	if maximum.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Maximum quantity cannot be negative")
	}
	if !maximum.IsZero() && maximum.LessThanOrEqual(minimum) {
		return shared.NewDomainError("INVALID_THRESHOLD", "Maximum quantity must be above the minimum")
	}
	return nil
}
