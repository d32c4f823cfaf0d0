package restock

import (
	"context"
	"errors"
	"fmt"

	"github.com/warehub/backend/internal/application/scope"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// GenerationHandler turns below-minimum level breaches into restock requests.
// At most one active request exists per product and location: a pending
// request is refreshed with the latest level reading, a request already sent
// to the ERP is left alone.
type GenerationHandler struct {
	txScope scope.TransactionScope
	logger  *zap.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(txScope scope.TransactionScope, logger *zap.Logger) *GenerationHandler {
	return &GenerationHandler{
		txScope: txScope,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *GenerationHandler) EventTypes() []string {
	return []string{stock.EventTypeStockLevelBelowMinimum}
}

// Handle generates or refreshes the restock request for a breach
func (h *GenerationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	breach, ok := event.(*stock.StockLevelBelowMinimumEvent)
	if !ok {
		return fmt.Errorf("restock generation: unexpected event type %s", event.EventType())
	}
	if !breach.AutoRestock {
		h.logger.Debug("auto restock disabled for breached threshold",
			zap.String("tenant_id", breach.TenantID().String()),
			zap.String("product_id", breach.ProductID.String()),
		)
		return nil
	}
	tenantID := breach.TenantID()

	return h.txScope.Execute(ctx, func(repos scope.Repositories) error {
		existing, err := repos.RestockRequests().FindActiveByProductAndLocation(ctx, tenantID, breach.ProductID, breach.LocationID)
		switch {
		case err == nil:
			if existing.Status != restock.RestockStatusPending {
				// already with the ERP, the order stands as placed
				return nil
			}
			if err := existing.Refresh(breach.CurrentQuantity, breach.MinimumQuantity, breach.MaximumQuantity); err != nil {
				return err
			}
			if err := repos.RestockRequests().SaveWithLock(ctx, existing); err != nil {
				return err
			}
			repos.Collect(existing)
			return nil
		case errors.Is(err, shared.ErrNotFound):
			request, err := restock.NewRestockRequest(tenantID, breach.ProductID, breach.LocationID,
				breach.CurrentQuantity, breach.MinimumQuantity, breach.MaximumQuantity)
			if err != nil {
				return err
			}
			if err := repos.RestockRequests().Save(ctx, request); err != nil {
				return err
			}
			repos.Collect(request)

			h.logger.Info("restock request generated",
				zap.String("tenant_id", tenantID.String()),
				zap.String("request_id", request.ID.String()),
				zap.String("product_id", breach.ProductID.String()),
				zap.String("priority", request.Priority.String()),
			)
			return nil
		default:
			return err
		}
	})
}

// Ensure GenerationHandler implements shared.EventHandler
var _ shared.EventHandler = (*GenerationHandler)(nil)
