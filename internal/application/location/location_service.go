package location

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/application/scope"
	"github.com/warehub/backend/internal/application/security"
	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LocationService handles location-related business operations
type LocationService struct {
	locationRepo location.LocationRepository
	txScope      scope.TransactionScope
	fefo         *location.FEFOAssignmentService
	now          func() time.Time
}

// NewLocationService creates a new LocationService. The repository is used
// for reads; all commands run through the transaction scope.
func NewLocationService(locationRepo location.LocationRepository, txScope scope.TransactionScope) *LocationService {
	return &LocationService{
		locationRepo: locationRepo,
		txScope:      txScope,
		fefo:         location.NewFEFOAssignmentService(),
		now:          time.Now,
	}
}

// SetClock overrides the service clock, used by tests
func (s *LocationService) SetClock(now func() time.Time) {
	s.now = now
}

// Create creates a location and validates its place in the hierarchy
func (s *LocationService) Create(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	tenantID := sc.TenantID

	var response *LocationResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		locations := repos.Locations()

		if req.ParentLocationID != nil {
			resolver := location.NewPathResolver(locations)
			if err := resolver.ValidateParent(ctx, tenantID, req.Type, *req.ParentLocationID); err != nil {
				return err
			}
		} else if req.Type != location.LocationTypeWarehouse {
			return shared.NewDomainError("PARENT_REQUIRED", "Only a WAREHOUSE can be created without a parent")
		}

		if req.Barcode != "" {
			taken, err := locations.ExistsByBarcode(ctx, tenantID, req.Barcode)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewDomainError("DUPLICATE_BARCODE", "Barcode is already in use")
			}
		}
		if req.Code != "" {
			taken, err := locations.ExistsByCode(ctx, tenantID, req.Code)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewDomainError("DUPLICATE_CODE", "Location code is already in use")
			}
		}

		loc, err := location.NewLocation(tenantID, req.Type, req.ParentLocationID, req.Code, req.Name, req.Barcode, req.Coordinates, req.MaxCapacity)
		if err != nil {
			return err
		}
		loc.Description = req.Description
		if sc.UserID != uuid.Nil {
			loc.SetCreatedBy(sc.UserID)
		}

		if err := locations.Save(ctx, loc); err != nil {
			return err
		}
		repos.Collect(loc)

		resp := ToLocationResponse(loc)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// UpdateStatus performs an operator-initiated status transition
func (s *LocationService) UpdateStatus(ctx context.Context, req UpdateLocationStatusRequest) (*LocationResponse, error) {
	return s.mutate(ctx, req.TenantID, req.LocationID, func(loc *location.Location) error {
		return loc.UpdateStatus(req.Status, req.Reason)
	})
}

// Block blocks a location for operational use
func (s *LocationService) Block(ctx context.Context, req BlockLocationRequest) (*LocationResponse, error) {
	return s.mutate(ctx, req.TenantID, req.LocationID, func(loc *location.Location) error {
		return loc.Block(req.Reason)
	})
}

// Unblock lifts a block on a location
func (s *LocationService) Unblock(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationResponse, error) {
	return s.mutate(ctx, tenantID, locationID, func(loc *location.Location) error {
		return loc.Unblock()
	})
}

// Reserve holds an available location for incoming stock
func (s *LocationService) Reserve(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationResponse, error) {
	return s.mutate(ctx, tenantID, locationID, func(loc *location.Location) error {
		return loc.Reserve()
	})
}

// Release lifts a reservation on a location
func (s *LocationService) Release(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationResponse, error) {
	return s.mutate(ctx, tenantID, locationID, func(loc *location.Location) error {
		return loc.Release()
	})
}

// UpdateDetails updates the descriptive fields of a location
func (s *LocationService) UpdateDetails(ctx context.Context, tenantID, locationID uuid.UUID, name, description string) (*LocationResponse, error) {
	return s.mutate(ctx, tenantID, locationID, func(loc *location.Location) error {
		return loc.UpdateDetails(name, description)
	})
}

// mutate runs one aggregate operation under the standard command template:
// tenant check, load, invoke, save with optimistic lock, collect events.
func (s *LocationService) mutate(ctx context.Context, tenantID, locationID uuid.UUID, op func(loc *location.Location) error) (*LocationResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var response *LocationResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		loc, err := repos.Locations().FindByIDForTenant(ctx, sc.TenantID, locationID)
		if err != nil {
			return err
		}
		if err := op(loc); err != nil {
			return err
		}
		if err := repos.Locations().SaveWithLock(ctx, loc); err != nil {
			return err
		}
		repos.Collect(loc)

		resp := ToLocationResponse(loc)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// AssignLocationsFEFO places the requested stock items into available bins,
// earliest expiry first, and applies the resulting assignments to both sides
// of the pairing in one transaction. A partial result is returned as success;
// only an invalid request or a persistence failure aborts the run.
func (s *LocationService) AssignLocationsFEFO(ctx context.Context, req AssignLocationsFEFORequest) (*FEFOAssignmentResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	tenantID := sc.TenantID

	if len(req.StockItems) == 0 {
		return nil, shared.NewDomainError("EMPTY_REQUEST", "At least one stock item is required")
	}

	var response *FEFOAssignmentResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		itemIDs := make([]uuid.UUID, 0, len(req.StockItems))
		requested := make(map[uuid.UUID]decimal.Decimal, len(req.StockItems))
		for _, item := range req.StockItems {
			if _, dup := requested[item.StockItemID]; dup {
				return shared.NewDomainError("DUPLICATE_STOCK_ITEM", "Stock item appears more than once in the request")
			}
			itemIDs = append(itemIDs, item.StockItemID)
			requested[item.StockItemID] = item.Quantity
		}

		items, err := repos.StockItems().FindByIDs(ctx, tenantID, itemIDs)
		if err != nil {
			return err
		}
		if len(items) != len(itemIDs) {
			return shared.ErrNotFound
		}

		today := s.now()
		assignRequests := make([]location.AssignmentRequest, 0, len(items))
		byID := make(map[uuid.UUID]int, len(items))
		for i := range items {
			item := &items[i]
			byID[item.ID] = i
			qty := requested[item.ID]
			if qty.IsZero() {
				qty = item.Quantity
			}
			assignRequests = append(assignRequests, location.AssignmentRequest{
				StockItemID:    item.ID,
				Quantity:       qty,
				ExpirationDate: item.ExpirationDate,
			})
		}

		bins, err := repos.Locations().FindAvailableBins(ctx, tenantID)
		if err != nil {
			return err
		}
		candidates := make([]*location.Location, len(bins))
		for i := range bins {
			candidates[i] = &bins[i]
		}

		result := s.fefo.AssignLocations(assignRequests, candidates, today)

		binByID := make(map[uuid.UUID]*location.Location, len(candidates))
		for _, bin := range candidates {
			binByID[bin.ID] = bin
		}

		touchedBins := make(map[uuid.UUID]struct{})
		for _, assignment := range result.Assignments {
			bin := binByID[assignment.LocationID]
			if err := bin.AssignStock(assignment.StockItemID, assignment.Quantity); err != nil {
				return err
			}
			item := &items[byID[assignment.StockItemID]]
			if err := item.AssignLocation(assignment.LocationID, assignment.Quantity); err != nil {
				return err
			}

			if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
				return err
			}
			repos.Collect(item)
			touchedBins[bin.ID] = struct{}{}
		}
		for binID := range touchedBins {
			bin := binByID[binID]
			if err := repos.Locations().SaveWithLock(ctx, bin); err != nil {
				return err
			}
			repos.Collect(bin)
		}

		if !result.FullyAssigned {
			logger.L(ctx).Info("fefo assignment incomplete",
				zap.Int("assigned", len(result.Assignments)),
				zap.Int("unassigned", len(result.Unassigned)),
				zap.Int("excluded", len(result.Excluded)))
		}

		response = toFEFOResponse(result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func toFEFOResponse(result *location.AssignmentResult) *FEFOAssignmentResponse {
	resp := &FEFOAssignmentResponse{
		Assignments:   make([]FEFOAssignmentResult, 0, len(result.Assignments)),
		Unassigned:    result.Unassigned,
		Excluded:      result.Excluded,
		FullyAssigned: result.FullyAssigned,
	}
	for _, a := range result.Assignments {
		resp.Assignments = append(resp.Assignments, FEFOAssignmentResult{
			StockItemID: a.StockItemID,
			LocationID:  a.LocationID,
			Quantity:    a.Quantity,
		})
	}
	return resp
}

// Get retrieves a location with its resolved hierarchy path. A cycle in the
// parent chain degrades to an empty path with a warning instead of failing
// the read.
func (s *LocationService) Get(ctx context.Context, tenantID, locationID uuid.UUID) (*LocationResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	loc, err := s.locationRepo.FindByIDForTenant(ctx, sc.TenantID, locationID)
	if err != nil {
		return nil, err
	}

	response := ToLocationResponse(loc)
	resolver := location.NewPathResolver(s.locationRepo)
	path, err := resolver.ResolvePath(ctx, loc)
	switch {
	case err == nil:
		response.Path = path
	case errors.Is(err, location.ErrHierarchyCycle):
		logger.L(ctx).Warn("location hierarchy contains a cycle",
			zap.String("location_id", loc.ID.String()))
	default:
		return nil, err
	}
	return &response, nil
}

// GetByBarcode retrieves a location by its barcode
func (s *LocationService) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*LocationResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	loc, err := s.locationRepo.FindByBarcode(ctx, sc.TenantID, barcode)
	if err != nil {
		return nil, err
	}
	resp := ToLocationResponse(loc)
	return &resp, nil
}

// List retrieves locations matching the filter with pagination
func (s *LocationService) List(ctx context.Context, tenantID uuid.UUID, filter LocationListFilter) (*shared.Paginated[LocationResponse], error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	domainFilter := buildFilter(filter)
	locations, err := s.locationRepo.FindAllForTenant(ctx, sc.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.locationRepo.CountForTenant(ctx, sc.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToLocationResponses(locations), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// GetAvailableBins retrieves the BIN locations that can still receive stock
func (s *LocationService) GetAvailableBins(ctx context.Context, tenantID uuid.UUID) ([]LocationResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	bins, err := s.locationRepo.FindAvailableBins(ctx, sc.TenantID)
	if err != nil {
		return nil, err
	}
	return ToLocationResponses(bins), nil
}

// GetChildren retrieves the direct children of a location
func (s *LocationService) GetChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]LocationResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	children, err := s.locationRepo.FindChildren(ctx, sc.TenantID, parentID)
	if err != nil {
		return nil, err
	}
	return ToLocationResponses(children), nil
}

// GetHierarchy reconstructs the location tree for a tenant. Nodes whose
// parent is missing or part of a cycle are surfaced as extra roots so the
// response always contains every location exactly once.
func (s *LocationService) GetHierarchy(ctx context.Context, tenantID uuid.UUID) ([]*LocationHierarchyNode, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	all, err := s.locationRepo.FindAllForTenant(ctx, sc.TenantID, shared.Filter{Page: 1, PageSize: 0})
	if err != nil {
		return nil, err
	}

	nodes := make(map[uuid.UUID]*LocationHierarchyNode, len(all))
	for i := range all {
		nodes[all[i].ID] = &LocationHierarchyNode{LocationResponse: ToLocationResponse(&all[i])}
	}

	roots := make([]*LocationHierarchyNode, 0)
	for i := range all {
		node := nodes[all[i].ID]
		if all[i].ParentLocationID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*all[i].ParentLocationID]
		if !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

// buildFilter converts API filter options to the domain filter
func buildFilter(filter LocationListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ParentID != nil {
		domainFilter.Filters["parent_location_id"] = filter.ParentID.String()
	}
	return domainFilter
}
