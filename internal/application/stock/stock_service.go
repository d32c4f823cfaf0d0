package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/application/scope"
	"github.com/warehub/backend/internal/application/security"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// StockService handles stock lifecycle operations: consignment intake,
// expiration management, count corrections, and allocations.
type StockService struct {
	stockItemRepo   stock.StockItemRepository
	consignmentRepo stock.ConsignmentRepository
	allocationRepo  stock.StockAllocationRepository
	adjustmentRepo  stock.StockAdjustmentRepository
	thresholdRepo   stock.StockThresholdRepository
	productCatalog  stock.ProductCatalog
	txScope         scope.TransactionScope
	now             func() time.Time
}

// NewStockService creates a new StockService. The repositories serve reads,
// the product catalog enriches them with descriptive product data; all
// commands run through the transaction scope.
func NewStockService(
	stockItemRepo stock.StockItemRepository,
	consignmentRepo stock.ConsignmentRepository,
	allocationRepo stock.StockAllocationRepository,
	adjustmentRepo stock.StockAdjustmentRepository,
	thresholdRepo stock.StockThresholdRepository,
	productCatalog stock.ProductCatalog,
	txScope scope.TransactionScope,
) *StockService {
	return &StockService{
		stockItemRepo:   stockItemRepo,
		consignmentRepo: consignmentRepo,
		allocationRepo:  allocationRepo,
		adjustmentRepo:  adjustmentRepo,
		thresholdRepo:   thresholdRepo,
		productCatalog:  productCatalog,
		txScope:         txScope,
		now:             time.Now,
	}
}

// SetClock overrides the service clock, used by tests
func (s *StockService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateConsignment books an incoming consignment and creates one stock item
// per line, all in one transaction. Each item gets its initial classification
// and the classification events flow through the normal pipeline.
func (s *StockService) CreateConsignment(ctx context.Context, req CreateConsignmentRequest) (*ConsignmentIntakeResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	tenantID := sc.TenantID

	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_CONSIGNMENT", "A consignment requires at least one item")
	}

	var response *ConsignmentIntakeResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		taken, err := repos.Consignments().ExistsByReference(ctx, tenantID, req.Reference)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError("DUPLICATE_REFERENCE", "Consignment reference is already in use")
		}

		consignment, err := stock.NewConsignment(tenantID, req.Reference, req.Supplier, req.ReceivedAt)
		if err != nil {
			return err
		}
		if sc.UserID != uuid.Nil {
			consignment.SetCreatedBy(sc.UserID)
		}

		today := s.now()
		items := make([]stock.StockItem, 0, len(req.Items))
		for _, line := range req.Items {
			item, err := stock.NewStockItem(tenantID, line.ProductID, consignment.ID, line.Quantity, line.ExpirationDate)
			if err != nil {
				return err
			}
			if err := consignment.RecordItem(); err != nil {
				return err
			}
			if err := repos.StockItems().Save(ctx, item); err != nil {
				return err
			}
			repos.Collect(item)
			items = append(items, *item)
		}

		if err := repos.Consignments().Save(ctx, consignment); err != nil {
			return err
		}
		repos.Collect(consignment)

		response = &ConsignmentIntakeResponse{
			Consignment: ToConsignmentResponse(consignment),
			StockItems:  ToStockItemResponses(items, today),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// CloseConsignment finishes intake for a consignment
func (s *StockService) CloseConsignment(ctx context.Context, tenantID, consignmentID uuid.UUID) (*ConsignmentResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var response *ConsignmentResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		consignment, err := repos.Consignments().FindByIDForTenant(ctx, sc.TenantID, consignmentID)
		if err != nil {
			return err
		}
		if err := consignment.Close(); err != nil {
			return err
		}
		if err := repos.Consignments().Save(ctx, consignment); err != nil {
			return err
		}
		repos.Collect(consignment)

		resp := ToConsignmentResponse(consignment)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// UpdateExpirationDate sets or clears a stock item's expiration date. The
// item reclassifies against today and any transition events are published
// after commit.
func (s *StockService) UpdateExpirationDate(ctx context.Context, req UpdateExpirationDateRequest) (*StockItemResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	var response *StockItemResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		item, err := repos.StockItems().FindByIDForTenant(ctx, sc.TenantID, req.StockItemID)
		if err != nil {
			return err
		}
		if err := item.UpdateExpirationDate(req.ExpirationDate); err != nil {
			return err
		}
		if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
			return err
		}
		repos.Collect(item)

		resp := ToStockItemResponse(item, s.now())
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// AdjustQuantity corrects a stock item's quantity after a count, writing the
// append-only adjustment record and emitting StockAdjusted in one
// transaction.
func (s *StockService) AdjustQuantity(ctx context.Context, req AdjustQuantityRequest) (*StockItemResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	var response *StockItemResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		item, err := repos.StockItems().FindByIDForTenant(ctx, sc.TenantID, req.StockItemID)
		if err != nil {
			return err
		}

		oldQuantity := item.Quantity
		if err := item.UpdateQuantity(req.NewQuantity); err != nil {
			return err
		}

		var adjustedBy *uuid.UUID
		if sc.UserID != uuid.Nil {
			userID := sc.UserID
			adjustedBy = &userID
		}
		adjustment, err := stock.NewStockAdjustment(item, oldQuantity, req.NewQuantity, req.Reason, adjustedBy)
		if err != nil {
			return err
		}

		item.AddDomainEvent(stock.NewStockAdjustedEvent(item, oldQuantity, req.NewQuantity, req.Reason))

		if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
			return err
		}
		if err := repos.Adjustments().Create(ctx, adjustment); err != nil {
			return err
		}
		repos.Collect(item)

		resp := ToStockItemResponse(item, s.now())
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Allocate reserves a quantity of a stock item for a downstream order. The
// item's allocatedQuantity and the allocation record change together.
func (s *StockService) Allocate(ctx context.Context, req AllocateStockRequest) (*AllocationResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	var response *AllocationResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		item, err := repos.StockItems().FindByIDForTenant(ctx, sc.TenantID, req.StockItemID)
		if err != nil {
			return err
		}
		if !item.CanBePicked() {
			return shared.NewDomainError("NOT_PICKABLE", "Stock item cannot be allocated: expired or nothing available")
		}
		if err := item.Allocate(req.Quantity); err != nil {
			return err
		}

		allocation, err := stock.NewStockAllocation(sc.TenantID, item.ID, req.Quantity, req.Reference)
		if err != nil {
			return err
		}
		if sc.UserID != uuid.Nil {
			allocation.SetCreatedBy(sc.UserID)
		}

		item.AddDomainEvent(stock.NewStockAllocatedEvent(item, req.Quantity, req.Reference))

		if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
			return err
		}
		if err := repos.Allocations().Save(ctx, allocation); err != nil {
			return err
		}
		repos.Collect(item)

		resp := ToAllocationResponse(allocation)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ReleaseAllocation returns a held reservation to the pool
func (s *StockService) ReleaseAllocation(ctx context.Context, req ReleaseAllocationRequest) (*AllocationResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	var response *AllocationResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		allocation, err := repos.Allocations().FindByID(ctx, req.AllocationID)
		if err != nil {
			return err
		}
		if allocation.TenantID != sc.TenantID {
			return shared.ErrNotFound
		}

		item, err := repos.StockItems().FindByIDForTenant(ctx, sc.TenantID, allocation.StockItemID)
		if err != nil {
			return err
		}

		if err := allocation.Release(); err != nil {
			return err
		}
		if err := item.ReleaseAllocation(allocation.Quantity); err != nil {
			return err
		}

		item.AddDomainEvent(stock.NewStockAllocationReleasedEvent(item, allocation.Quantity, allocation.Reference))

		if err := repos.StockItems().SaveWithLock(ctx, item); err != nil {
			return err
		}
		if err := repos.Allocations().Save(ctx, allocation); err != nil {
			return err
		}
		repos.Collect(item)

		resp := ToAllocationResponse(allocation)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// SetThreshold creates or replaces the replenishment band for a product
func (s *StockService) SetThreshold(ctx context.Context, req SetThresholdRequest) (*ThresholdResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	var response *ThresholdResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		threshold, err := repos.Thresholds().FindByProductAndLocation(ctx, sc.TenantID, req.ProductID, req.LocationID)
		switch {
		case err == nil:
			if err := threshold.UpdateLimits(req.MinimumQuantity, req.MaximumQuantity); err != nil {
				return err
			}
		case errors.Is(err, shared.ErrNotFound):
			threshold, err = stock.NewStockThreshold(sc.TenantID, req.ProductID, req.LocationID, req.MinimumQuantity, req.MaximumQuantity)
			if err != nil {
				return err
			}
			if sc.UserID != uuid.Nil {
				threshold.SetCreatedBy(sc.UserID)
			}
		default:
			return err
		}
		if req.EnableAutoRestock != nil {
			threshold.SetAutoRestock(*req.EnableAutoRestock)
		}
		if err := repos.Thresholds().Save(ctx, threshold); err != nil {
			return err
		}
		repos.Collect(threshold)

		resp := ToThresholdResponse(threshold)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetStockItem retrieves a stock item by ID
func (s *StockService) GetStockItem(ctx context.Context, tenantID, itemID uuid.UUID) (*StockItemResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	item, err := s.stockItemRepo.FindByIDForTenant(ctx, sc.TenantID, itemID)
	if err != nil {
		return nil, err
	}
	resp := ToStockItemResponse(item, s.now())
	s.attachProductMetadata(ctx, &resp)
	return &resp, nil
}

// attachProductMetadata enriches one stock item response with catalog data.
// A catalog failure degrades to a response without product data.
func (s *StockService) attachProductMetadata(ctx context.Context, resp *StockItemResponse) {
	meta, err := s.productCatalog.GetProduct(ctx, resp.TenantID, resp.ProductID)
	if err != nil {
		logger.L(ctx).Warn("product metadata lookup failed",
			zap.String("product_id", resp.ProductID.String()),
			zap.Error(err),
		)
		return
	}
	resp.Product = ToProductResponse(meta)
}

// attachProductMetadataAll enriches a batch of stock item responses, looking
// up each distinct product once. A catalog failure leaves the whole batch
// without product data rather than failing the query.
func (s *StockService) attachProductMetadataAll(ctx context.Context, tenantID uuid.UUID, resps []StockItemResponse) {
	if len(resps) == 0 {
		return
	}
	seen := make(map[uuid.UUID]struct{}, len(resps))
	ids := make([]uuid.UUID, 0, len(resps))
	for i := range resps {
		if _, ok := seen[resps[i].ProductID]; ok {
			continue
		}
		seen[resps[i].ProductID] = struct{}{}
		ids = append(ids, resps[i].ProductID)
	}
	metas, err := s.productCatalog.GetProducts(ctx, tenantID, ids)
	if err != nil {
		logger.L(ctx).Warn("product metadata lookup failed",
			zap.Int("products", len(ids)),
			zap.Error(err),
		)
		return
	}
	for i := range resps {
		resps[i].Product = ToProductResponse(metas[resps[i].ProductID])
	}
}

// ListStockItems retrieves stock items matching the filter with pagination
func (s *StockService) ListStockItems(ctx context.Context, tenantID uuid.UUID, filter StockItemListFilter) (*shared.Paginated[StockItemResponse], error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	domainFilter := buildStockItemFilter(filter)
	var items []stock.StockItem
	switch {
	case filter.Unassigned:
		items, err = s.stockItemRepo.FindUnassigned(ctx, sc.TenantID, domainFilter)
	case filter.ProductID != nil && filter.LocationID != nil:
		items, err = s.stockItemRepo.FindByProductAndLocation(ctx, sc.TenantID, *filter.ProductID, *filter.LocationID)
	case filter.ProductID != nil:
		items, err = s.stockItemRepo.FindByProduct(ctx, sc.TenantID, *filter.ProductID, domainFilter)
	case filter.LocationID != nil:
		items, err = s.stockItemRepo.FindByLocation(ctx, sc.TenantID, *filter.LocationID, domainFilter)
	case filter.ConsignmentID != nil:
		items, err = s.stockItemRepo.FindByConsignment(ctx, sc.TenantID, *filter.ConsignmentID, domainFilter)
	case filter.Classification != "":
		items, err = s.stockItemRepo.FindByClassification(ctx, sc.TenantID, stock.Classification(filter.Classification), domainFilter)
	default:
		items, err = s.stockItemRepo.FindAllForTenant(ctx, sc.TenantID, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.stockItemRepo.CountForTenant(ctx, sc.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := ToStockItemResponses(items, s.now())
	s.attachProductMetadataAll(ctx, sc.TenantID, responses)

	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// GetStockItemsByClassification retrieves stock items carrying a classification
func (s *StockService) GetStockItemsByClassification(ctx context.Context, tenantID uuid.UUID, classification stock.Classification) ([]StockItemResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !stock.IsValidClassification(classification) {
		return nil, shared.NewDomainError("INVALID_CLASSIFICATION", "Unknown classification "+string(classification))
	}
	items, err := s.stockItemRepo.FindByClassification(ctx, sc.TenantID, classification, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := ToStockItemResponses(items, s.now())
	s.attachProductMetadataAll(ctx, sc.TenantID, responses)
	return responses, nil
}

// GetFEFOStockItems retrieves pickable stock for a product in FEFO order,
// earliest expiry first. A locationID narrows the result to one location.
func (s *StockService) GetFEFOStockItems(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) ([]StockItemResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items, err := s.stockItemRepo.FindPickable(ctx, sc.TenantID, productID, locationID)
	if err != nil {
		return nil, err
	}
	return ToStockItemResponses(items, s.now()), nil
}

// GetExpiringStock retrieves stock expiring within the coming days, soonest
// first. A classification narrows the result to one bucket.
func (s *StockService) GetExpiringStock(ctx context.Context, tenantID uuid.UUID, withinDays int, classification *stock.Classification) ([]StockItemResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if withinDays < 0 {
		return nil, shared.NewDomainError("INVALID_RANGE", "Days must not be negative")
	}
	items, err := s.stockItemRepo.FindExpiringWithin(ctx, sc.TenantID, withinDays, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	if classification != nil {
		filtered := items[:0]
		for _, item := range items {
			if item.Classification == *classification {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}
	return ToStockItemResponses(items, s.now()), nil
}

// CheckStockExpiration reports the live expiration posture of a product at a
// location: every item with its classification recomputed against today.
func (s *StockService) CheckStockExpiration(ctx context.Context, tenantID, productID, locationID uuid.UUID) (*ExpirationCheckResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items, err := s.stockItemRepo.FindByProductAndLocation(ctx, sc.TenantID, productID, locationID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	response := &ExpirationCheckResponse{
		ProductID:  productID,
		LocationID: locationID,
		Items:      make([]StockItemResponse, 0, len(items)),
	}
	for i := range items {
		items[i].RefreshClassification(today)
		if items[i].IsExpired() {
			response.ExpiredCount++
		}
		response.Items = append(response.Items, ToStockItemResponse(&items[i], today))
	}
	response.HasExpired = response.ExpiredCount > 0
	return response, nil
}

// GetStockLevels reports the summed quantity of a product against its
// replenishment band. A nil locationID sums tenant-wide.
func (s *StockService) GetStockLevels(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) (*StockLevelResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var total decimal.Decimal
	if locationID != nil {
		total, err = s.stockItemRepo.SumQuantityByProductAndLocation(ctx, sc.TenantID, productID, *locationID)
	} else {
		total, err = s.stockItemRepo.SumQuantityByProduct(ctx, sc.TenantID, productID)
	}
	if err != nil {
		return nil, err
	}

	response := &StockLevelResponse{
		ProductID:     productID,
		LocationID:    locationID,
		TotalQuantity: total,
	}

	threshold, err := s.thresholdRepo.FindByProductAndLocation(ctx, sc.TenantID, productID, locationID)
	switch {
	case err == nil:
		minimum := threshold.MinimumQuantity
		response.MinimumQuantity = &minimum
		if threshold.HasMaximum() {
			maximum := threshold.MaximumQuantity
			response.MaximumQuantity = &maximum
			response.AboveMaximum = total.GreaterThan(maximum)
		}
		response.BelowMinimum = total.LessThan(minimum)
	case errors.Is(err, shared.ErrNotFound):
		// no band configured; levels are reported without bounds
	default:
		return nil, err
	}
	return response, nil
}

// ListConsignments retrieves consignments matching the filter with pagination
func (s *StockService) ListConsignments(ctx context.Context, tenantID uuid.UUID, filter ConsignmentListFilter) (*shared.Paginated[ConsignmentResponse], error) {
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
	if filter.Supplier != "" {
		domainFilter.Filters["supplier"] = filter.Supplier
	}

	var consignments []stock.Consignment
	if filter.Status != "" {
		consignments, err = s.consignmentRepo.FindByStatus(ctx, sc.TenantID, stock.ConsignmentStatus(filter.Status), domainFilter)
	} else {
		consignments, err = s.consignmentRepo.FindAllForTenant(ctx, sc.TenantID, domainFilter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.consignmentRepo.CountForTenant(ctx, sc.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToConsignmentResponses(consignments), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ListAdjustments retrieves the adjustment audit trail for a stock item
func (s *StockService) ListAdjustments(ctx context.Context, tenantID, stockItemID uuid.UUID) ([]AdjustmentResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if _, err := s.stockItemRepo.FindByIDForTenant(ctx, sc.TenantID, stockItemID); err != nil {
		return nil, err
	}
	adjustments, err := s.adjustmentRepo.FindByStockItem(ctx, stockItemID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToAdjustmentResponses(adjustments), nil
}

// buildStockItemFilter converts API filter options to the domain filter
func buildStockItemFilter(filter StockItemListFilter) shared.Filter {
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
	if filter.Classification != "" {
		domainFilter.Filters["classification"] = filter.Classification
	}
	return domainFilter
}
