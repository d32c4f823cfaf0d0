package location

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
)

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindByIDForTenant finds a location by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)

	// FindByBarcode finds a location by barcode within a tenant
	FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*Location, error)

	// FindByCode finds a location by code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Location, error)

	// FindByIDs finds multiple locations by their IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Location, error)

	// FindChildren finds the direct children of a location
	FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]Location, error)

	// FindByType finds all locations of the given type
	FindByType(ctx context.Context, tenantID uuid.UUID, locationType LocationType, filter shared.Filter) ([]Location, error)

	// FindAvailableBins finds BIN locations that can still receive stock
	// (status AVAILABLE or RESERVED with remaining capacity)
	FindAvailableBins(ctx context.Context, tenantID uuid.UUID) ([]Location, error)

	// FindAllForTenant finds all locations for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, loc *Location) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, loc *Location) error

	// CountForTenant counts locations matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByBarcode checks whether a barcode is already taken within a tenant
	ExistsByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (bool, error)

	// ExistsByCode checks whether a code is already taken within a tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}

// LocationFilter carries the location-specific filter options used by queries
type LocationFilter struct {
	shared.Filter
	Type     *LocationType
	Status   *LocationStatus
	ParentID *uuid.UUID
}
