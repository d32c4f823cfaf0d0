package movement

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/application/scope"
	"github.com/warehub/backend/internal/application/security"
	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// MovementService handles the two-phase stock movement workflow: initiation
// records the intent after checking both locations and the stock item can
// carry it, completion applies the capacity effects on both locations together
// with the item relocation, and cancellation abandons a pending movement.
type MovementService struct {
	movementRepo movement.StockMovementRepository
	txScope      scope.TransactionScope
}

// NewMovementService creates a new MovementService
func NewMovementService(movementRepo movement.StockMovementRepository, txScope scope.TransactionScope) *MovementService {
	return &MovementService{
		movementRepo: movementRepo,
		txScope:      txScope,
	}
}

// Initiate opens a movement. Both locations must exist, the destination must
// have room for the quantity, and the stock item must have at least the
// quantity available. When no stock item is named the handler resolves one for
// the product, preferring items already placed at the source location.
func (s *MovementService) Initiate(ctx context.Context, req InitiateMovementRequest) (*MovementResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	tenantID := sc.TenantID

	if req.StockItemID == nil && req.ProductID == nil {
		return nil, shared.NewDomainError("INVALID_REQUEST", "Either a stock item ID or a product ID is required")
	}

	var response *MovementResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		source, err := repos.Locations().FindByIDForTenant(ctx, tenantID, req.SourceLocationID)
		if err != nil {
			return err
		}
		destination, err := repos.Locations().FindByIDForTenant(ctx, tenantID, req.DestinationLocationID)
		if err != nil {
			return err
		}
		if !destination.CanAccommodate(req.Quantity) {
			return shared.NewDomainError("CAPACITY_EXCEEDED", "Destination location cannot accommodate the quantity")
		}

		item, err := s.resolveStockItem(ctx, repos, tenantID, req)
		if err != nil {
			return err
		}
		if item.AvailableQuantity().LessThan(req.Quantity) {
			return shared.ErrInsufficientStock
		}
		if item.LocationID != nil && *item.LocationID != source.ID {
			return shared.NewDomainError("STOCK_NOT_AT_SOURCE", "Stock item is not placed at the source location")
		}

		var initiatedBy *uuid.UUID
		if sc.UserID != uuid.Nil {
			userID := sc.UserID
			initiatedBy = &userID
		}
		m, err := movement.NewStockMovement(tenantID, item.ID, item.ProductID, source.ID, destination.ID,
			req.Quantity, movement.MovementType(req.MovementType), req.Reason, initiatedBy)
		if err != nil {
			return err
		}

		if err := repos.Movements().Save(ctx, m); err != nil {
			return err
		}
		repos.Collect(m)

		logger.L(ctx).Info("stock movement initiated",
			zap.String("movement_id", m.ID.String()),
			zap.String("stock_item_id", item.ID.String()),
			zap.String("source", source.ID.String()),
			zap.String("destination", destination.ID.String()),
		)

		resp := ToMovementResponse(m)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Complete applies a pending movement: the source releases the quantity, the
// destination takes it, and the stock item relocates, all in one transaction
// with the status change.
func (s *MovementService) Complete(ctx context.Context, req CompleteMovementRequest) (*MovementResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	var response *MovementResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		m, err := repos.Movements().FindByIDForTenant(ctx, sc.TenantID, req.MovementID)
		if err != nil {
			return err
		}
		if err := m.Complete(); err != nil {
			return err
		}

		source, err := repos.Locations().FindByIDForTenant(ctx, sc.TenantID, m.SourceLocationID)
		if err != nil {
			return err
		}
		destination, err := repos.Locations().FindByIDForTenant(ctx, sc.TenantID, m.DestinationLocationID)
		if err != nil {
			return err
		}
		item, err := repos.StockItems().FindByIDForTenant(ctx, sc.TenantID, m.StockItemID)
		if err != nil {
			return err
		}

		if err := source.ReleaseStock(item.ID, m.Quantity); err != nil {
			return err
		}
		if err := destination.AssignStock(item.ID, m.Quantity); err != nil {
			return err
		}
		if err := item.MoveToLocation(destination.ID); err != nil {
			return err
		}

		if err := repos.Movements().SaveWithLock(ctx, m); err != nil {
			return err
		}
		if err := repos.Locations().SaveWithLock(ctx, source); err != nil {
			return err
		}
		if err := repos.Locations().SaveWithLock(ctx, destination); err != nil {
			return err
		}
		if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
			return err
		}
		repos.Collect(m)
		repos.Collect(item)
		repos.Collect(source)
		repos.Collect(destination)

		resp := ToMovementResponse(m)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Cancel abandons a pending movement with a reason. Neither location nor the
// stock item changed at initiation, so there is nothing to undo.
func (s *MovementService) Cancel(ctx context.Context, req CancelMovementRequest) (*MovementResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	var response *MovementResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		m, err := repos.Movements().FindByIDForTenant(ctx, sc.TenantID, req.MovementID)
		if err != nil {
			return err
		}
		if err := m.Cancel(req.Reason); err != nil {
			return err
		}
		if err := repos.Movements().SaveWithLock(ctx, m); err != nil {
			return err
		}
		repos.Collect(m)

		resp := ToMovementResponse(m)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Get retrieves a movement by ID
func (s *MovementService) Get(ctx context.Context, tenantID, movementID uuid.UUID) (*MovementResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	m, err := s.movementRepo.FindByIDForTenant(ctx, sc.TenantID, movementID)
	if err != nil {
		return nil, err
	}
	resp := ToMovementResponse(m)
	return &resp, nil
}

// List retrieves movements matching the filter with pagination
func (s *MovementService) List(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) (*shared.Paginated[MovementResponse], error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	var movements []movement.StockMovement
	switch {
	case filter.StockItemID != nil:
		movements, err = s.movementRepo.FindByStockItem(ctx, sc.TenantID, *filter.StockItemID, domainFilter)
	case filter.LocationID != nil:
		movements, err = s.movementRepo.FindByLocation(ctx, sc.TenantID, *filter.LocationID, domainFilter)
	case filter.Status != "":
		movements, err = s.movementRepo.FindByStatus(ctx, sc.TenantID, movement.MovementStatus(filter.Status), domainFilter)
	case filter.StartDate != nil && filter.EndDate != nil:
		movements, err = s.movementRepo.FindByDateRange(ctx, sc.TenantID, *filter.StartDate, *filter.EndDate, domainFilter)
	default:
		movements, err = s.movementRepo.FindAllForTenant(ctx, sc.TenantID, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.movementRepo.CountForTenant(ctx, sc.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToMovementResponses(movements), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ListPending retrieves movements still awaiting completion or cancellation
func (s *MovementService) ListPending(ctx context.Context, tenantID uuid.UUID) ([]MovementResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindPending(ctx, sc.TenantID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToMovementResponses(movements), nil
}

// resolveStockItem picks the stock item a movement will carry. A named item is
// loaded directly; otherwise items placed at the source location are preferred
// and the tenant-wide pickable pool is the fallback.
func (s *MovementService) resolveStockItem(ctx context.Context, repos scope.Repositories, tenantID uuid.UUID, req InitiateMovementRequest) (*stock.StockItem, error) {
	if req.StockItemID != nil {
		return repos.StockItems().FindByIDForTenant(ctx, tenantID, *req.StockItemID)
	}

	atSource, err := repos.StockItems().FindByProductAndLocation(ctx, tenantID, *req.ProductID, req.SourceLocationID)
	if err != nil {
		return nil, err
	}
	for i := range atSource {
		if atSource[i].AvailableQuantity().GreaterThanOrEqual(req.Quantity) {
			return &atSource[i], nil
		}
	}

	pool, err := repos.StockItems().FindPickable(ctx, tenantID, *req.ProductID, nil)
	if err != nil {
		return nil, err
	}
	for i := range pool {
		if pool[i].LocationID != nil && *pool[i].LocationID != req.SourceLocationID {
			continue
		}
		if pool[i].AvailableQuantity().GreaterThanOrEqual(req.Quantity) {
			return &pool[i], nil
		}
	}

	return nil, shared.NewDomainError("NO_STOCK_AVAILABLE", "No stock item for the product can carry the quantity")
}
