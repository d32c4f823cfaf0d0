package scope

import (
	"context"

	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	"github.com/warehub/backend/internal/infrastructure/logger"
)

// NoOpTransactionScope runs the unit of work without a real transaction.
// Collected events are published inline through the configured publisher,
// and the anomaly is logged: outside a transaction there is no commit to
// defer publication to. Used in tests and for tooling that runs against
// repositories directly.
type NoOpTransactionScope struct {
	LocationRepo    location.LocationRepository
	StockItemRepo   stock.StockItemRepository
	ThresholdRepo   stock.StockThresholdRepository
	ConsignmentRepo stock.ConsignmentRepository
	AllocationRepo  stock.StockAllocationRepository
	AdjustmentRepo  stock.StockAdjustmentRepository
	MovementRepo    movement.StockMovementRepository
	RestockRepo     restock.RestockRequestRepository
	Publisher       shared.EventPublisher
}

type noopRepositories struct {
	scope     *NoOpTransactionScope
	collected []shared.DomainEvent
	hooks     []func(ctx context.Context)
}

// Execute runs the function directly, then publishes collected events inline
// and runs the after-commit hooks.
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos Repositories) error) error {
	repos := &noopRepositories{scope: s}
	if err := fn(repos); err != nil {
		return err
	}

	if len(repos.collected) > 0 {
		logger.L(ctx).Warn("publishing domain events outside a transaction")
		if s.Publisher != nil {
			if err := s.Publisher.Publish(ctx, repos.collected...); err != nil {
				logger.L(ctx).Error("inline event publish failed: " + err.Error())
			}
		}
	}
	for _, hook := range repos.hooks {
		hook(ctx)
	}
	return nil
}

func (r *noopRepositories) Locations() location.LocationRepository       { return r.scope.LocationRepo }
func (r *noopRepositories) StockItems() stock.StockItemRepository        { return r.scope.StockItemRepo }
func (r *noopRepositories) Thresholds() stock.StockThresholdRepository   { return r.scope.ThresholdRepo }
func (r *noopRepositories) Consignments() stock.ConsignmentRepository    { return r.scope.ConsignmentRepo }
func (r *noopRepositories) Allocations() stock.StockAllocationRepository { return r.scope.AllocationRepo }
func (r *noopRepositories) Adjustments() stock.StockAdjustmentRepository { return r.scope.AdjustmentRepo }
func (r *noopRepositories) Movements() movement.StockMovementRepository  { return r.scope.MovementRepo }
func (r *noopRepositories) RestockRequests() restock.RestockRequestRepository {
	return r.scope.RestockRepo
}

func (r *noopRepositories) Collect(aggregate shared.AggregateRoot) {
	r.collected = append(r.collected, aggregate.GetDomainEvents()...)
	aggregate.ClearDomainEvents()
}

func (r *noopRepositories) AfterCommit(fn func(ctx context.Context)) {
	r.hooks = append(r.hooks, fn)
}

// Ensure the no-op scope satisfies the interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ Repositories = (*noopRepositories)(nil)
