package movement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
)

// StockMovementRepository defines the interface for stock movement persistence
type StockMovementRepository interface {
	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindByIDForTenant finds a movement by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StockMovement, error)

	// FindByStockItem finds all movements of a stock item
	FindByStockItem(ctx context.Context, tenantID, stockItemID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByLocation finds movements touching a location as source or destination
	FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByStatus finds movements in a lifecycle state
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status MovementStatus, filter shared.Filter) ([]StockMovement, error)

	// FindPending finds movements still awaiting completion or cancellation
	FindPending(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByDateRange finds movements initiated within a date range
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]StockMovement, error)

	// FindAllForTenant finds all movements for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// Save creates or updates a movement
	Save(ctx context.Context, m *StockMovement) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, m *StockMovement) error

	// CountForTenant counts movements matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatus counts movements per lifecycle state
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status MovementStatus) (int64, error)
}

// MovementFilter extends shared.Filter with movement-specific filters
type MovementFilter struct {
	shared.Filter
	StockItemID  *uuid.UUID
	ProductID    *uuid.UUID
	LocationID   *uuid.UUID
	Status       *MovementStatus
	MovementType *MovementType
	StartDate    *time.Time
	EndDate      *time.Time
}
