package restock

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/application/scope"
	"github.com/warehub/backend/internal/application/security"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// RestockService handles the restock request lifecycle after generation:
// hand-off to the ERP, fulfillment on delivery, and cancellation.
type RestockService struct {
	restockRepo restock.RestockRequestRepository
	erp         restock.ERPGateway
	txScope     scope.TransactionScope
}

// NewRestockService creates a new RestockService
func NewRestockService(restockRepo restock.RestockRequestRepository, erp restock.ERPGateway, txScope scope.TransactionScope) *RestockService {
	return &RestockService{
		restockRepo: restockRepo,
		erp:         erp,
		txScope:     txScope,
	}
}

// Send submits a pending request to the ERP and records the order reference
// it returned. The ERP call happens before the transaction; a failed call
// leaves the request PENDING so the hand-off can be retried.
func (s *RestockService) Send(ctx context.Context, req SendRestockRequest) (*RestockResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	request, err := s.restockRepo.FindByIDForTenant(ctx, sc.TenantID, req.RequestID)
	if err != nil {
		return nil, err
	}
	if request.Status != restock.RestockStatusPending {
		return nil, shared.NewDomainError("INVALID_TRANSITION",
			"Cannot send a request in status "+request.Status.String())
	}

	orderReference, err := s.erp.SubmitRestockOrder(ctx, restock.RestockOrder{
		RequestID:  request.ID,
		TenantID:   request.TenantID,
		ProductID:  request.ProductID,
		LocationID: request.LocationID,
		Quantity:   request.RequestedQuantity,
		Priority:   request.Priority,
	})
	if err != nil {
		logger.L(ctx).Warn("restock order submission failed",
			zap.String("request_id", request.ID.String()),
			zap.Error(err),
		)
		return nil, shared.ErrExternalService
	}

	var response *RestockResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		request, err := repos.RestockRequests().FindByIDForTenant(ctx, sc.TenantID, req.RequestID)
		if err != nil {
			return err
		}
		if err := request.MarkAsSent(orderReference); err != nil {
			return err
		}
		if err := repos.RestockRequests().SaveWithLock(ctx, request); err != nil {
			return err
		}
		repos.Collect(request)

		resp := ToRestockResponse(request)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Fulfill closes a sent request once the ERP delivery arrived. The request is
// found by ID when given, by order reference otherwise.
func (s *RestockService) Fulfill(ctx context.Context, req FulfillRestockRequest) (*RestockResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	if req.RequestID == nil && strings.TrimSpace(req.OrderReference) == "" {
		return nil, shared.NewDomainError("INVALID_REQUEST", "Either a request ID or an order reference is required")
	}

	var response *RestockResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		var request *restock.RestockRequest
		var err error
		if req.RequestID != nil {
			request, err = repos.RestockRequests().FindByIDForTenant(ctx, sc.TenantID, *req.RequestID)
		} else {
			request, err = repos.RestockRequests().FindByOrderReference(ctx, sc.TenantID, req.OrderReference)
		}
		if err != nil {
			return err
		}
		if err := request.MarkAsFulfilled(); err != nil {
			return err
		}
		if err := repos.RestockRequests().SaveWithLock(ctx, request); err != nil {
			return err
		}
		repos.Collect(request)

		resp := ToRestockResponse(request)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Cancel abandons a not-yet-fulfilled request
func (s *RestockService) Cancel(ctx context.Context, req CancelRestockRequest) (*RestockResponse, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	var response *RestockResponse
	err = s.txScope.Execute(ctx, func(repos scope.Repositories) error {
		request, err := repos.RestockRequests().FindByIDForTenant(ctx, sc.TenantID, req.RequestID)
		if err != nil {
			return err
		}
		if err := request.Cancel(); err != nil {
			return err
		}
		if err := repos.RestockRequests().SaveWithLock(ctx, request); err != nil {
			return err
		}
		repos.Collect(request)

		resp := ToRestockResponse(request)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Get retrieves a restock request by ID
func (s *RestockService) Get(ctx context.Context, tenantID, requestID uuid.UUID) (*RestockResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	request, err := s.restockRepo.FindByIDForTenant(ctx, sc.TenantID, requestID)
	if err != nil {
		return nil, err
	}
	resp := ToRestockResponse(request)
	return &resp, nil
}

// List retrieves restock requests matching the filter with pagination
func (s *RestockService) List(ctx context.Context, tenantID uuid.UUID, filter RestockListFilter) (*shared.Paginated[RestockResponse], error) {
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

	var requests []restock.RestockRequest
	switch {
	case filter.ProductID != nil:
		requests, err = s.restockRepo.FindByProduct(ctx, sc.TenantID, *filter.ProductID, domainFilter)
	case filter.Status != "":
		requests, err = s.restockRepo.FindByStatus(ctx, sc.TenantID, restock.RestockStatus(filter.Status), domainFilter)
	default:
		requests, err = s.restockRepo.FindAllForTenant(ctx, sc.TenantID, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.restockRepo.CountForTenant(ctx, sc.TenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToRestockResponses(requests), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// ListPending retrieves requests not yet handed to the ERP, highest priority
// and oldest first
func (s *RestockService) ListPending(ctx context.Context, tenantID uuid.UUID) ([]RestockResponse, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	requests, err := s.restockRepo.FindPending(ctx, sc.TenantID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToRestockResponses(requests), nil
}
