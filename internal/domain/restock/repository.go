package restock

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
)

// RestockRequestRepository defines the interface for restock request persistence
type RestockRequestRepository interface {
	// FindByID finds a request by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RestockRequest, error)

	// FindByIDForTenant finds a request by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*RestockRequest, error)

	// FindActiveByProductAndLocation finds the active (pending or sent)
	// request for a product and location; a nil locationID matches the
	// tenant-wide request
	FindActiveByProductAndLocation(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) (*RestockRequest, error)

	// FindByStatus finds requests in a lifecycle state
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status RestockStatus, filter shared.Filter) ([]RestockRequest, error)

	// FindPending finds requests not yet handed to the ERP, highest priority
	// and oldest first
	FindPending(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]RestockRequest, error)

	// FindByProduct finds all requests for a product
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]RestockRequest, error)

	// FindByOrderReference finds the request carrying an ERP order reference
	FindByOrderReference(ctx context.Context, tenantID uuid.UUID, orderReference string) (*RestockRequest, error)

	// FindAllForTenant finds all requests for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]RestockRequest, error)

	// Save creates or updates a request
	Save(ctx context.Context, r *RestockRequest) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, r *RestockRequest) error

	// CountForTenant counts requests matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// CountActive counts requests still counting against the dedup rule
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// RestockFilter extends shared.Filter with restock-specific filters
type RestockFilter struct {
	shared.Filter
	ProductID  *uuid.UUID
	LocationID *uuid.UUID
	Status     *RestockStatus
	Priority   *RestockPriority
}
