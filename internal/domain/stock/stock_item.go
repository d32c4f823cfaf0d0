package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// StockItem represents a quantity of one product tracked for expiration and
// physical placement. It is the aggregate root for stock operations. Items
// arrive through consignments, get placed into BIN locations, and are
// reclassified as their expiration date approaches.
type StockItem struct {
	shared.TenantAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_item_tenant_product,priority:2"`
	ConsignmentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LocationID        *uuid.UUID      `gorm:"type:uuid;index"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AllocatedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpirationDate    *time.Time      `gorm:"index"`
	Classification    Classification  `gorm:"type:varchar(30);not null;default:'NORMAL'"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item. The classification is computed from
// the expiration date immediately; the initial classification transition is
// emitted as an event, including the plain null→NORMAL case.
func NewStockItem(tenantID, productID, consignmentID uuid.UUID, quantity decimal.Decimal, expirationDate *time.Time) (*StockItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if consignmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONSIGNMENT", "Consignment ID cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	item := &StockItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		ConsignmentID:       consignmentID,
		Quantity:            quantity,
		AllocatedQuantity:   decimal.Zero,
		ExpirationDate:      expirationDate,
	}
	item.Reclassify(time.Now())

	return item, nil
}

// AvailableQuantity returns the quantity not held by allocations
func (s *StockItem) AvailableQuantity() decimal.Decimal {
	return s.Quantity.Sub(s.AllocatedQuantity)
}

// IsExpired returns true when the item is classified EXPIRED
func (s *StockItem) IsExpired() bool {
	return s.Classification == ClassificationExpired
}

// CanBePicked returns true when the item may be picked for outbound work:
// it is not expired and has unallocated quantity left.
func (s *StockItem) CanBePicked() bool {
	return !s.IsExpired() && s.AvailableQuantity().GreaterThan(decimal.Zero)
}

// Reclassify recomputes the classification against "today" and, when it
// changed, records the transition event plus the expiration alert the new
// window carries. Returns true when the classification changed.
func (s *StockItem) Reclassify(today time.Time) bool {
	oldClassification := s.Classification
	newClassification := Classify(s.ExpirationDate, today)
	if oldClassification == newClassification {
		return false
	}

	s.Classification = newClassification
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockClassifiedEvent(s, oldClassification, newClassification))
	switch newClassification {
	case ClassificationExpired:
		s.AddDomainEvent(NewStockExpiredEvent(s))
	case ClassificationCritical, ClassificationNearExpiry:
		s.AddDomainEvent(NewStockExpiringAlertEvent(s, AlertThreshold(newClassification)))
	}

	return true
}

// RefreshClassification recomputes the classification without emitting
// events or touching the version. Repositories call it after loading so a
// stale stored label never leaks out between reclassification sweeps.
func (s *StockItem) RefreshClassification(today time.Time) {
	s.Classification = Classify(s.ExpirationDate, today)
}

// UpdateExpirationDate sets or clears the expiration date and reclassifies
func (s *StockItem) UpdateExpirationDate(expirationDate *time.Time) error {
	s.ExpirationDate = expirationDate
	s.UpdatedAt = time.Now()
	if !s.Reclassify(time.Now()) {
		// classification unchanged, but the date itself is a visible change
		s.IncrementVersion()
	}
	return nil
}

// AssignLocation places a quantity of this item at a BIN location. Expired
// or empty items are never placed; the quantity must not exceed what the
// item holds.
func (s *StockItem) AssignLocation(locationID uuid.UUID, quantity decimal.Decimal) error {
	if locationID == uuid.Nil {
		return shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if s.IsExpired() {
		return shared.NewDomainError("STOCK_EXPIRED", "Expired stock cannot be assigned to a location")
	}
	if s.Quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("NO_QUANTITY", "Stock item has no quantity to assign")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(s.Quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Cannot assign more than the item quantity")
	}

	s.LocationID = &locationID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewLocationAssignedToStockItemEvent(s, locationID, quantity))

	return nil
}

// MoveToLocation relocates the item to a new location without re-running the
// assignment preconditions. Movement completion uses it after the movement
// aggregate has already validated quantities and capacity.
func (s *StockItem) MoveToLocation(locationID uuid.UUID) error {
	if locationID == uuid.Nil {
		return shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	s.LocationID = &locationID
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// UpdateAllocatedQuantity replaces the allocated quantity, holding the
// 0 ≤ allocated ≤ quantity invariant.
func (s *StockItem) UpdateAllocatedQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Allocated quantity cannot be negative")
	}
	if quantity.GreaterThan(s.Quantity) {
		return shared.NewDomainError("ALLOCATION_EXCEEDS_QUANTITY", "Allocated quantity cannot exceed item quantity")
	}

	s.AllocatedQuantity = quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Allocate reserves a quantity of the item for a downstream order
func (s *StockItem) Allocate(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(s.AvailableQuantity()) {
		return shared.ErrInsufficientStock
	}
	return s.UpdateAllocatedQuantity(s.AllocatedQuantity.Add(quantity))
}

// ReleaseAllocation returns a previously allocated quantity to the pool
func (s *StockItem) ReleaseAllocation(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(s.AllocatedQuantity) {
		return shared.NewDomainError("ALLOCATION_UNDERFLOW", "Cannot release more than is allocated")
	}
	return s.UpdateAllocatedQuantity(s.AllocatedQuantity.Sub(quantity))
}

// IncreaseQuantity adds to the item quantity
func (s *StockItem) IncreaseQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	s.Quantity = s.Quantity.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// DecreaseQuantity removes from the item quantity. The remaining quantity
// can never drop below the allocated quantity.
func (s *StockItem) DecreaseQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	newQuantity := s.Quantity.Sub(quantity)
	if newQuantity.IsNegative() {
		return shared.NewDomainError("QUANTITY_UNDERFLOW", "Quantity cannot become negative")
	}
	if newQuantity.LessThan(s.AllocatedQuantity) {
		return shared.NewDomainError("ALLOCATION_EXCEEDS_QUANTITY", "Quantity cannot drop below the allocated quantity")
	}
	s.Quantity = newQuantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// UpdateQuantity replaces the quantity outright, holding the allocation
// invariant. Used by stock adjustments after counts.
func (s *StockItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quantity.LessThan(s.AllocatedQuantity) {
		return shared.NewDomainError("ALLOCATION_EXCEEDS_QUANTITY", "Quantity cannot drop below the allocated quantity")
	}
	s.Quantity = quantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}
