package scope

import (
	"context"

	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
)

// TransactionScope runs a unit of work inside one tenant-scoped database
// transaction. All repository operations obtained from the Repositories
// handle share the transaction and are routed to the tenant's schema; the
// domain events collected during the function are persisted to the outbox in
// the same transaction and published to the in-process bus only after the
// commit succeeds. If the function returns an error the transaction rolls
// back and the collected events are discarded.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides transaction-bound access to all WMS repositories
// plus the event pipeline of the surrounding transaction.
type Repositories interface {
	// Locations returns the location repository scoped to the transaction
	Locations() location.LocationRepository
	// StockItems returns the stock item repository scoped to the transaction
	StockItems() stock.StockItemRepository
	// Thresholds returns the threshold repository scoped to the transaction
	Thresholds() stock.StockThresholdRepository
	// Consignments returns the consignment repository scoped to the transaction
	Consignments() stock.ConsignmentRepository
	// Allocations returns the allocation repository scoped to the transaction
	Allocations() stock.StockAllocationRepository
	// Adjustments returns the adjustment repository scoped to the transaction
	Adjustments() stock.StockAdjustmentRepository
	// Movements returns the movement repository scoped to the transaction
	Movements() movement.StockMovementRepository
	// RestockRequests returns the restock repository scoped to the transaction
	RestockRequests() restock.RestockRequestRepository

	// Collect stages the pending domain events of an aggregate for
	// post-commit publication and drains the aggregate's event buffer.
	// Events are published in collection order.
	Collect(aggregate shared.AggregateRoot)

	// AfterCommit registers a callback to run once the transaction has
	// committed. Callbacks never run on rollback; their errors must be
	// handled by the callback itself.
	AfterCommit(fn func(ctx context.Context))
}
