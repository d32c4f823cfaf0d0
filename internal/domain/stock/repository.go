package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// StockItemRepository defines the interface for stock item persistence.
// Implementations recompute the expiration classification after loading so a
// stale stored label never flows out between reclassification sweeps; that
// recomputation must not emit events.
type StockItemRepository interface {
	// FindByID finds a stock item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindByIDForTenant finds a stock item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockItem, error)

	// FindByIDs finds multiple stock items by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]StockItem, error)

	// FindByProduct finds all stock items for a product
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindByProductAndLocation finds stock items for a product at a location,
	// earliest expiry first
	FindByProductAndLocation(ctx context.Context, tenantID, productID, locationID uuid.UUID) ([]StockItem, error)

	// FindByLocation finds all stock items placed at a location
	FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindByConsignment finds all stock items booked under a consignment
	FindByConsignment(ctx context.Context, tenantID, consignmentID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindByClassification finds stock items carrying a classification
	FindByClassification(ctx context.Context, tenantID uuid.UUID, classification Classification, filter shared.Filter) ([]StockItem, error)

	// FindUnassigned finds stock items with no location yet
	FindUnassigned(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindPickable finds non-expired stock items for a product with available
	// quantity, earliest expiry first; locationID narrows to one location
	FindPickable(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) ([]StockItem, error)

	// FindExpiringWithin finds stock items whose expiration date falls within
	// the coming days, soonest first
	FindExpiringWithin(ctx context.Context, tenantID uuid.UUID, withinDays int, filter shared.Filter) ([]StockItem, error)

	// FindExpired finds stock items already past their expiration date
	FindExpired(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindWithExpiration finds stock items that carry an expiration date;
	// the reclassification sweep walks these
	FindWithExpiration(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// FindAllForTenant finds all stock items for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockItem, error)

	// Save creates or updates a stock item
	Save(ctx context.Context, item *StockItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *StockItem) error

	// Delete deletes a stock item
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForTenant deletes a stock item within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts stock items matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByClassification counts stock items per classification
	CountByClassification(ctx context.Context, tenantID uuid.UUID, classification Classification) (int64, error)

	// SumQuantityByProduct sums total quantity for a product across locations
	SumQuantityByProduct(ctx context.Context, tenantID, productID uuid.UUID) (decimal.Decimal, error)

	// SumQuantityByProductAndLocation sums total quantity for a product at one location
	SumQuantityByProductAndLocation(ctx context.Context, tenantID, productID, locationID uuid.UUID) (decimal.Decimal, error)
}

// StockThresholdRepository defines the interface for threshold persistence
type StockThresholdRepository interface {
	// FindByID finds a threshold by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockThreshold, error)

	// FindByIDForTenant finds a threshold by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockThreshold, error)

	// FindByProductAndLocation finds the threshold for a product at a
	// location; a nil locationID matches the tenant-wide band
	FindByProductAndLocation(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) (*StockThreshold, error)

	// FindByProduct finds all thresholds configured for a product
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]StockThreshold, error)

	// FindAllForTenant finds all thresholds for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockThreshold, error)

	// Save creates or updates a threshold
	Save(ctx context.Context, threshold *StockThreshold) error

	// Delete deletes a threshold
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteForTenant deletes a threshold within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts thresholds matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// ConsignmentRepository defines the interface for consignment persistence
type ConsignmentRepository interface {
	// FindByID finds a consignment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Consignment, error)

	// FindByIDForTenant finds a consignment by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Consignment, error)

	// FindByReference finds a consignment by its supplier reference
	FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*Consignment, error)

	// FindByStatus finds consignments in a lifecycle state
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status ConsignmentStatus, filter shared.Filter) ([]Consignment, error)

	// FindAllForTenant finds all consignments for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Consignment, error)

	// Save creates or updates a consignment
	Save(ctx context.Context, consignment *Consignment) error

	// CountForTenant counts consignments matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByReference checks whether a reference is already taken
	ExistsByReference(ctx context.Context, tenantID uuid.UUID, reference string) (bool, error)
}

// StockAllocationRepository defines the interface for allocation persistence
type StockAllocationRepository interface {
	// FindByID finds an allocation by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockAllocation, error)

	// FindByStockItem finds all allocations held against a stock item
	FindByStockItem(ctx context.Context, stockItemID uuid.UUID) ([]StockAllocation, error)

	// FindActiveByStockItem finds active allocations held against a stock item
	FindActiveByStockItem(ctx context.Context, stockItemID uuid.UUID) ([]StockAllocation, error)

	// FindByReference finds allocations created for a reference document
	FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) ([]StockAllocation, error)

	// Save creates or updates an allocation
	Save(ctx context.Context, allocation *StockAllocation) error

	// SumActiveByStockItem sums the active allocation quantity for a stock item
	SumActiveByStockItem(ctx context.Context, stockItemID uuid.UUID) (decimal.Decimal, error)
}

// StockAdjustmentRepository defines the interface for adjustment persistence.
// Adjustments are append-only audit records.
type StockAdjustmentRepository interface {
	// FindByID finds an adjustment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockAdjustment, error)

	// FindByStockItem finds adjustments recorded for a stock item
	FindByStockItem(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]StockAdjustment, error)

	// FindByDateRange finds adjustments recorded within a date range
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]StockAdjustment, error)

	// FindForTenant finds all adjustments for a tenant
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockAdjustment, error)

	// Create creates a new adjustment (append-only, no update allowed)
	Create(ctx context.Context, adjustment *StockAdjustment) error

	// CountForTenant counts adjustments matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// StockItemFilter extends shared.Filter with stock-item-specific filters
type StockItemFilter struct {
	shared.Filter
	ProductID         *uuid.UUID
	LocationID        *uuid.UUID
	ConsignmentID     *uuid.UUID
	Classification    *Classification
	Unassigned        bool
	HasAvailable      bool
	ExpiringWithin    *int
	ExpirationBefore  *time.Time
	ExpirationAfter   *time.Time
}

// ConsignmentFilter extends shared.Filter with consignment-specific filters
type ConsignmentFilter struct {
	shared.Filter
	Status    *ConsignmentStatus
	Supplier  string
	StartDate *time.Time
	EndDate   *time.Time
}
