package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warehub/backend/internal/application/scope/scopetest"
	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	"go.uber.org/zap"
)

func seedThreshold(t *testing.T, f *scopetest.Fixture, tenantID, productID uuid.UUID, locationID *uuid.UUID, minimum int64) *stock.StockThreshold {
	t.Helper()
	threshold, err := stock.NewStockThreshold(tenantID, productID, locationID, decimal.NewFromInt(minimum), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, f.Thresholds.Save(context.Background(), threshold))
	return threshold
}

func adjustedEvent(item *stock.StockItem) *stock.StockAdjustedEvent {
	return stock.NewStockAdjustedEvent(item, decimal.NewFromInt(10), item.Quantity, "cycle count")
}

func TestThresholdMonitor_Handle(t *testing.T) {
	tenantID := uuid.New()

	t.Run("breach of the tenant-wide band raises below-minimum", func(t *testing.T) {
		f := scopetest.NewFixture()
		monitor := NewThresholdMonitor(f.Scope, zap.NewNop())

		item := seedItem(t, f, tenantID, 4, nil)
		seedThreshold(t, f, tenantID, item.ProductID, nil, 10)

		require.NoError(t, monitor.Handle(context.Background(), adjustedEvent(item)))

		events := f.Publisher.EventsByType(stock.EventTypeStockLevelBelowMinimum)
		require.Len(t, events, 1)
		breach, ok := events[0].(*stock.StockLevelBelowMinimumEvent)
		require.True(t, ok)
		assert.Equal(t, item.ProductID, breach.ProductID)
		assert.True(t, breach.CurrentQuantity.Equal(decimal.NewFromInt(4)))
		assert.True(t, breach.AutoRestock)
	})

	t.Run("level inside the band stays quiet", func(t *testing.T) {
		f := scopetest.NewFixture()
		monitor := NewThresholdMonitor(f.Scope, zap.NewNop())

		item := seedItem(t, f, tenantID, 20, nil)
		seedThreshold(t, f, tenantID, item.ProductID, nil, 10)

		require.NoError(t, monitor.Handle(context.Background(), adjustedEvent(item)))
		assert.Empty(t, f.Publisher.Events())
	})

	t.Run("no band configured is not an error", func(t *testing.T) {
		f := scopetest.NewFixture()
		monitor := NewThresholdMonitor(f.Scope, zap.NewNop())

		item := seedItem(t, f, tenantID, 4, nil)

		require.NoError(t, monitor.Handle(context.Background(), adjustedEvent(item)))
		assert.Empty(t, f.Publisher.Events())
	})

	t.Run("above-maximum breach raises the upper event", func(t *testing.T) {
		f := scopetest.NewFixture()
		monitor := NewThresholdMonitor(f.Scope, zap.NewNop())

		item := seedItem(t, f, tenantID, 150, nil)
		threshold, err := stock.NewStockThreshold(tenantID, item.ProductID, nil, decimal.NewFromInt(10), decimal.NewFromInt(100))
		require.NoError(t, err)
		require.NoError(t, f.Thresholds.Save(context.Background(), threshold))

		require.NoError(t, monitor.Handle(context.Background(), adjustedEvent(item)))
		assert.Len(t, f.Publisher.EventsByType(stock.EventTypeStockLevelAboveMaximum), 1)
	})

	t.Run("movement completion checks source and destination bands", func(t *testing.T) {
		f := scopetest.NewFixture()
		monitor := NewThresholdMonitor(f.Scope, zap.NewNop())
		productID := uuid.New()
		sourceID := uuid.New()
		destinationID := uuid.New()

		// everything moved out of the source, leaving it below its band
		item, err := stock.NewStockItem(tenantID, productID, uuid.New(), decimal.NewFromInt(8), nil)
		require.NoError(t, err)
		require.NoError(t, item.MoveToLocation(destinationID))
		item.ClearDomainEvents()
		require.NoError(t, f.StockItems.Save(context.Background(), item))

		seedThreshold(t, f, tenantID, productID, &sourceID, 5)
		seedThreshold(t, f, tenantID, productID, &destinationID, 5)

		event := &movement.StockMovementCompletedEvent{
			BaseDomainEvent:       shared.NewBaseDomainEvent(movement.EventTypeStockMovementCompleted, movement.AggregateTypeStockMovement, uuid.New(), tenantID),
			MovementID:            uuid.New(),
			StockItemID:           item.ID,
			ProductID:             productID,
			SourceLocationID:      sourceID,
			DestinationLocationID: destinationID,
			Quantity:              decimal.NewFromInt(8),
		}
		require.NoError(t, monitor.Handle(context.Background(), event))

		breaches := f.Publisher.EventsByType(stock.EventTypeStockLevelBelowMinimum)
		require.Len(t, breaches, 1)
		breach := breaches[0].(*stock.StockLevelBelowMinimumEvent)
		require.NotNil(t, breach.LocationID)
		assert.Equal(t, sourceID, *breach.LocationID)
	})

	t.Run("unexpected event type is rejected", func(t *testing.T) {
		f := scopetest.NewFixture()
		monitor := NewThresholdMonitor(f.Scope, zap.NewNop())

		item := seedItem(t, f, tenantID, 4, nil)
		err := monitor.Handle(context.Background(), stock.NewStockExpiredEvent(item))
		require.Error(t, err)
	})

	t.Run("subscribes to the level-changing events", func(t *testing.T) {
		monitor := NewThresholdMonitor(scopetest.NewFixture().Scope, zap.NewNop())
		assert.ElementsMatch(t, []string{
			stock.EventTypeStockAdjusted,
			stock.EventTypeLocationAssignedToStockItem,
			movement.EventTypeStockMovementCompleted,
		}, monitor.EventTypes())
	})
}
