package persistence

import (
	"context"

	"github.com/warehub/backend/internal/application/scope"
	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	"github.com/warehub/backend/internal/infrastructure/logger"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormTransactionScope implements scope.TransactionScope on top of the tenant
// schema router. The unit of work, the aggregate writes and the outbox rows
// share one transaction; the collected events reach the in-process bus only
// after the commit, and the outbox processor redelivers them if the process
// dies in between.
type GormTransactionScope struct {
	router    *tenantdb.Router
	outbox    shared.OutboxEventSaver
	publisher shared.EventPublisher
}

// NewGormTransactionScope creates a new GormTransactionScope. The outbox
// saver and the publisher may be nil in tooling that only needs the
// transactional repositories.
func NewGormTransactionScope(router *tenantdb.Router, outbox shared.OutboxEventSaver, publisher shared.EventPublisher) *GormTransactionScope {
	return &GormTransactionScope{
		router:    router,
		outbox:    outbox,
		publisher: publisher,
	}
}

// Execute runs the given function within a schema-routed database
// transaction. If the function returns an error the transaction rolls back
// and the collected events are discarded.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos scope.Repositories) error) error {
	var staged []shared.DomainEvent
	var callbacks []func(context.Context)

	err := s.router.Run(ctx, func(tx *gorm.DB) error {
		repos := &gormRepositories{db: tenantdb.Bound(tx)}
		if err := fn(repos); err != nil {
			return err
		}
		staged = repos.staged
		callbacks = repos.callbacks
		if len(staged) > 0 && s.outbox != nil {
			return s.outbox.SaveEvents(ctx, tx, staged...)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(staged) > 0 && s.publisher != nil {
		// Delivery is at-least-once: a failure here is retried by the
		// outbox processor, so it is logged and not surfaced.
		if err := s.publisher.Publish(ctx, staged...); err != nil {
			logger.L(ctx).Warn("post-commit event publication failed",
				zap.Int("events", len(staged)),
				zap.Error(err),
			)
		}
	}
	for _, cb := range callbacks {
		cb(ctx)
	}
	return nil
}

// gormRepositories provides access to all repositories within a transaction
// and stages the domain events collected during the unit of work.
type gormRepositories struct {
	db        tenantdb.DB
	staged    []shared.DomainEvent
	callbacks []func(context.Context)
}

// Locations returns the location repository scoped to the transaction
func (r *gormRepositories) Locations() location.LocationRepository {
	return NewGormLocationRepository(r.db)
}

// StockItems returns the stock item repository scoped to the transaction
func (r *gormRepositories) StockItems() stock.StockItemRepository {
	return NewGormStockItemRepository(r.db)
}

// Thresholds returns the threshold repository scoped to the transaction
func (r *gormRepositories) Thresholds() stock.StockThresholdRepository {
	return NewGormStockThresholdRepository(r.db)
}

// Consignments returns the consignment repository scoped to the transaction
func (r *gormRepositories) Consignments() stock.ConsignmentRepository {
	return NewGormConsignmentRepository(r.db)
}

// Allocations returns the allocation repository scoped to the transaction
func (r *gormRepositories) Allocations() stock.StockAllocationRepository {
	return NewGormStockAllocationRepository(r.db)
}

// Adjustments returns the adjustment repository scoped to the transaction
func (r *gormRepositories) Adjustments() stock.StockAdjustmentRepository {
	return NewGormStockAdjustmentRepository(r.db)
}

// Movements returns the movement repository scoped to the transaction
func (r *gormRepositories) Movements() movement.StockMovementRepository {
	return NewGormStockMovementRepository(r.db)
}

// RestockRequests returns the restock repository scoped to the transaction
func (r *gormRepositories) RestockRequests() restock.RestockRequestRepository {
	return NewGormRestockRequestRepository(r.db)
}

// Collect stages the pending domain events of an aggregate for post-commit
// publication and drains the aggregate's event buffer.
func (r *gormRepositories) Collect(aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	r.staged = append(r.staged, events...)
	aggregate.ClearDomainEvents()
}

// AfterCommit registers a callback to run once the transaction has committed
func (r *gormRepositories) AfterCommit(fn func(ctx context.Context)) {
	r.callbacks = append(r.callbacks, fn)
}

// Ensure GormTransactionScope implements TransactionScope
var _ scope.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormRepositories implements Repositories
var _ scope.Repositories = (*gormRepositories)(nil)
