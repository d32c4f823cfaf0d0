// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// WarehouseMetrics provides business metrics for warehouse operations.
// It tracks stock movements, FEFO allocations, classification transitions,
// and the health of the stock base and the event outbox.
type WarehouseMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	movementTotal         *Counter
	movementQuantityTotal *Counter
	fefoAllocationTotal   *Counter
	classificationTotal   *Counter
	restockRequestTotal   *Counter

	// Gauge metrics (point-in-time values)
	stockClassificationCount *Gauge
	outboxDepth              *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data providers for periodic collection
	stockProvider  StockMetricsProvider
	outboxProvider OutboxMetricsProvider
}

// StockMetricsProvider provides stock data for periodic metrics collection.
// This interface allows the telemetry layer to query stock state without
// depending on the stock domain directly.
type StockMetricsProvider interface {
	// GetClassificationCounts returns stock item counts per expiry
	// classification for a tenant
	GetClassificationCounts(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)
}

// OutboxMetricsProvider provides outbox depth for periodic metrics collection.
type OutboxMetricsProvider interface {
	// GetOutboxDepth returns the number of outbox entries per status
	GetOutboxDepth(ctx context.Context) (map[string]int64, error)
}

// WarehouseMetricsConfig holds configuration for warehouse metrics.
type WarehouseMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	StockProvider   StockMetricsProvider
	OutboxProvider  OutboxMetricsProvider
}

// NewWarehouseMetrics creates a new WarehouseMetrics instance.
func NewWarehouseMetrics(cfg WarehouseMetricsConfig) (*WarehouseMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	wm := &WarehouseMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		stockProvider:  cfg.StockProvider,
		outboxProvider: cfg.OutboxProvider,
	}

	var err error

	// Movement metrics
	wm.movementTotal, err = NewCounter(
		cfg.Meter,
		"wms_stock_movement_total",
		"Total number of executed stock movements",
		"{movements}",
	)
	if err != nil {
		return nil, err
	}

	wm.movementQuantityTotal, err = NewCounter(
		cfg.Meter,
		"wms_stock_movement_quantity_total",
		"Total moved quantity in whole units",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	// Allocation metrics
	wm.fefoAllocationTotal, err = NewCounter(
		cfg.Meter,
		"wms_fefo_allocation_total",
		"Total number of first-expired-first-out allocations",
		"{allocations}",
	)
	if err != nil {
		return nil, err
	}

	// Classification metrics
	wm.classificationTotal, err = NewCounter(
		cfg.Meter,
		"wms_classification_transition_total",
		"Total number of stock classification transitions",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	// Restock metrics
	wm.restockRequestTotal, err = NewCounter(
		cfg.Meter,
		"wms_restock_request_total",
		"Total number of restock requests by outcome",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	wm.stockClassificationCount, err = NewGauge(
		cfg.Meter,
		"wms_stock_classification_count",
		"Current number of stock items per expiry classification",
		"{items}",
	)
	if err != nil {
		return nil, err
	}

	wm.outboxDepth, err = NewGauge(
		cfg.Meter,
		"wms_outbox_depth",
		"Current number of outbox entries per status",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	return wm, nil
}

// =============================================================================
// Movement Metrics
// =============================================================================

// RecordMovement records an executed stock movement.
// This should be called from the application layer when a movement completes.
func (wm *WarehouseMetrics) RecordMovement(ctx context.Context, tenantID uuid.UUID, movementType string) {
	wm.movementTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrMovementType.String(movementType),
	)
}

// RecordMovementQuantity records the quantity moved, truncated to whole units.
func (wm *WarehouseMetrics) RecordMovementQuantity(ctx context.Context, tenantID uuid.UUID, movementType string, units int64) {
	wm.movementQuantityTotal.Add(ctx, units,
		AttrTenantID.String(tenantID.String()),
		AttrMovementType.String(movementType),
	)
}

// RecordMovementWithQuantity is a convenience method that records both the
// movement count and the moved quantity.
func (wm *WarehouseMetrics) RecordMovementWithQuantity(ctx context.Context, tenantID uuid.UUID, movementType string, quantity decimal.Decimal) {
	wm.RecordMovement(ctx, tenantID, movementType)
	wm.RecordMovementQuantity(ctx, tenantID, movementType, quantity.IntPart())
}

// =============================================================================
// Allocation Metrics
// =============================================================================

// RecordFEFOAllocation records a first-expired-first-out allocation.
func (wm *WarehouseMetrics) RecordFEFOAllocation(ctx context.Context, tenantID uuid.UUID) {
	wm.fefoAllocationTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Classification Metrics
// =============================================================================

// RecordClassificationTransition records a stock item moving from one expiry
// classification to another, e.g. during the nightly sweep.
func (wm *WarehouseMetrics) RecordClassificationTransition(ctx context.Context, tenantID uuid.UUID, from, to string) {
	wm.classificationTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrClassificationFrom.String(from),
		AttrClassificationTo.String(to),
	)
}

// =============================================================================
// Restock Metrics
// =============================================================================

// RestockOutcome represents the outcome of a restock request for metrics labeling.
type RestockOutcome string

const (
	RestockOutcomeQueued    RestockOutcome = "queued"
	RestockOutcomeForwarded RestockOutcome = "forwarded"
	RestockOutcomeFailed    RestockOutcome = "failed"
)

// RecordRestockRequest records a restock request and its dispatch outcome.
func (wm *WarehouseMetrics) RecordRestockRequest(ctx context.Context, tenantID uuid.UUID, outcome RestockOutcome) {
	wm.restockRequestTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrRestockOutcome.String(string(outcome)),
	)
}

// =============================================================================
// Gauge Metrics
// =============================================================================

// RecordClassificationCount records the current number of stock items in a
// classification. This is a gauge metric that should be updated periodically.
func (wm *WarehouseMetrics) RecordClassificationCount(ctx context.Context, tenantID uuid.UUID, classification string, count int64) {
	wm.stockClassificationCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
		AttrClassification.String(classification),
	)
}

// RecordOutboxDepth records the current outbox depth for a status.
func (wm *WarehouseMetrics) RecordOutboxDepth(ctx context.Context, status string, count int64) {
	wm.outboxDepth.Record(ctx, count,
		AttrOutboxStatus.String(status),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects stock and outbox metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (wm *WarehouseMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	wm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go wm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (wm *WarehouseMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	wm.collectGaugeMetrics(ctx, tenantProvider)

	for {
		select {
		case <-wm.stopChan:
			wm.logger.Info("Stopping periodic warehouse metrics collection")
			return
		case <-ctx.Done():
			wm.logger.Info("Context cancelled, stopping periodic warehouse metrics collection")
			return
		case <-ticker.C:
			wm.collectGaugeMetrics(ctx, tenantProvider)
		}
	}
}

// collectGaugeMetrics collects stock gauges for all tenants plus the shared
// outbox depth.
func (wm *WarehouseMetrics) collectGaugeMetrics(ctx context.Context, tenantProvider TenantProvider) {
	wm.collectOutboxMetrics(ctx)

	if wm.stockProvider == nil {
		wm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		wm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		wm.collectTenantStockMetrics(ctx, tenantID)
	}
}

// collectTenantStockMetrics collects stock gauges for a single tenant.
func (wm *WarehouseMetrics) collectTenantStockMetrics(ctx context.Context, tenantID uuid.UUID) {
	counts, err := wm.stockProvider.GetClassificationCounts(ctx, tenantID)
	if err != nil {
		wm.logger.Warn("Failed to get classification counts for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return
	}

	for classification, count := range counts {
		wm.RecordClassificationCount(ctx, tenantID, classification, count)
	}
}

// collectOutboxMetrics collects the shared outbox depth gauge.
func (wm *WarehouseMetrics) collectOutboxMetrics(ctx context.Context) {
	if wm.outboxProvider == nil {
		return
	}

	depth, err := wm.outboxProvider.GetOutboxDepth(ctx)
	if err != nil {
		wm.logger.Warn("Failed to get outbox depth", zap.Error(err))
		return
	}

	for status, count := range depth {
		wm.RecordOutboxDepth(ctx, status, count)
	}
}

// Stop stops the periodic collection.
func (wm *WarehouseMetrics) Stop() {
	wm.stopOnce.Do(func() {
		close(wm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewWarehouseMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
