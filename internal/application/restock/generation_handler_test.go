package restock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warehub/backend/internal/application/scope/scopetest"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	"go.uber.org/zap"
)

func breachEvent(t *testing.T, tenantID, productID uuid.UUID, locationID *uuid.UUID, current, minimum, maximum int64, autoRestock bool) *stock.StockLevelBelowMinimumEvent {
	t.Helper()
	threshold, err := stock.NewStockThreshold(tenantID, productID, locationID,
		decimal.NewFromInt(minimum), decimal.NewFromInt(maximum))
	require.NoError(t, err)
	threshold.SetAutoRestock(autoRestock)
	return stock.NewStockLevelBelowMinimumEvent(threshold, decimal.NewFromInt(current))
}

func TestGenerationHandler_Handle(t *testing.T) {
	tenantID := uuid.New()

	t.Run("a breach opens a pending request", func(t *testing.T) {
		f := scopetest.NewFixture()
		handler := NewGenerationHandler(f.Scope, zap.NewNop())
		productID := uuid.New()

		require.NoError(t, handler.Handle(context.Background(), breachEvent(t, tenantID, productID, nil, 4, 10, 0, true)))

		generated, err := f.Restocks.FindActiveByProductAndLocation(context.Background(), tenantID, productID, nil)
		require.NoError(t, err)
		assert.Equal(t, restock.RestockStatusPending, generated.Status)
		assert.Equal(t, restock.RestockPriorityHigh, generated.Priority)
		// no maximum configured, so the order tops up to twice the minimum
		assert.True(t, generated.RequestedQuantity.Equal(decimal.NewFromInt(16)))
		assert.Len(t, f.Publisher.EventsByType(restock.EventTypeRestockRequestGenerated), 1)
	})

	t.Run("a configured maximum sets the top-up target", func(t *testing.T) {
		f := scopetest.NewFixture()
		handler := NewGenerationHandler(f.Scope, zap.NewNop())
		productID := uuid.New()

		require.NoError(t, handler.Handle(context.Background(), breachEvent(t, tenantID, productID, nil, 8, 10, 50, true)))

		generated, err := f.Restocks.FindActiveByProductAndLocation(context.Background(), tenantID, productID, nil)
		require.NoError(t, err)
		assert.Equal(t, restock.RestockPriorityMedium, generated.Priority)
		assert.True(t, generated.RequestedQuantity.Equal(decimal.NewFromInt(42)))
	})

	t.Run("a second breach refreshes the pending request instead of duplicating", func(t *testing.T) {
		f := scopetest.NewFixture()
		handler := NewGenerationHandler(f.Scope, zap.NewNop())
		productID := uuid.New()

		require.NoError(t, handler.Handle(context.Background(), breachEvent(t, tenantID, productID, nil, 8, 10, 0, true)))
		require.NoError(t, handler.Handle(context.Background(), breachEvent(t, tenantID, productID, nil, 3, 10, 0, true)))

		count, err := f.Restocks.CountActive(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		refreshed, err := f.Restocks.FindActiveByProductAndLocation(context.Background(), tenantID, productID, nil)
		require.NoError(t, err)
		assert.Equal(t, restock.RestockPriorityHigh, refreshed.Priority)
		assert.True(t, refreshed.CurrentQuantity.Equal(decimal.NewFromInt(3)))
		assert.Len(t, f.Publisher.EventsByType(restock.EventTypeRestockRequestUpdated), 1)
	})

	t.Run("a request already with the erp is left alone", func(t *testing.T) {
		f := scopetest.NewFixture()
		handler := NewGenerationHandler(f.Scope, zap.NewNop())
		productID := uuid.New()

		require.NoError(t, handler.Handle(context.Background(), breachEvent(t, tenantID, productID, nil, 8, 10, 0, true)))
		sent, err := f.Restocks.FindActiveByProductAndLocation(context.Background(), tenantID, productID, nil)
		require.NoError(t, err)
		require.NoError(t, sent.MarkAsSent("PO-55"))
		sent.ClearDomainEvents()
		require.NoError(t, f.Restocks.Save(context.Background(), sent))
		f.Publisher.Reset()

		require.NoError(t, handler.Handle(context.Background(), breachEvent(t, tenantID, productID, nil, 3, 10, 0, true)))

		stored, err := f.Restocks.FindActiveByProductAndLocation(context.Background(), tenantID, productID, nil)
		require.NoError(t, err)
		assert.Equal(t, restock.RestockStatusSentToD365, stored.Status)
		assert.True(t, stored.CurrentQuantity.Equal(decimal.NewFromInt(8)))
		assert.Empty(t, f.Publisher.Events())
	})

	t.Run("location bands generate per-location requests", func(t *testing.T) {
		f := scopetest.NewFixture()
		handler := NewGenerationHandler(f.Scope, zap.NewNop())
		productID := uuid.New()
		locationID := uuid.New()

		require.NoError(t, handler.Handle(context.Background(), breachEvent(t, tenantID, productID, &locationID, 4, 10, 0, true)))
		require.NoError(t, handler.Handle(context.Background(), breachEvent(t, tenantID, productID, nil, 4, 10, 0, true)))

		count, err := f.Restocks.CountActive(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("auto restock off suppresses generation", func(t *testing.T) {
		f := scopetest.NewFixture()
		handler := NewGenerationHandler(f.Scope, zap.NewNop())
		productID := uuid.New()

		require.NoError(t, handler.Handle(context.Background(), breachEvent(t, tenantID, productID, nil, 4, 10, 0, false)))

		_, err := f.Restocks.FindActiveByProductAndLocation(context.Background(), tenantID, productID, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unexpected event type is rejected", func(t *testing.T) {
		f := scopetest.NewFixture()
		handler := NewGenerationHandler(f.Scope, zap.NewNop())

		threshold, err := stock.NewStockThreshold(tenantID, uuid.New(), nil, decimal.NewFromInt(10), decimal.Zero)
		require.NoError(t, err)
		err = handler.Handle(context.Background(), stock.NewStockLevelAboveMaximumEvent(threshold, decimal.NewFromInt(99)))
		require.Error(t, err)
	})

	t.Run("subscribes to below-minimum breaches", func(t *testing.T) {
		handler := NewGenerationHandler(scopetest.NewFixture().Scope, zap.NewNop())
		assert.Equal(t, []string{stock.EventTypeStockLevelBelowMinimum}, handler.EventTypes())
	})
}
