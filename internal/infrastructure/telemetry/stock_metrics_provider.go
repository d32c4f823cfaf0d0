// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/warehub/backend/internal/application/security"
	"github.com/warehub/backend/internal/infrastructure/persistence/tenant"
)

// GormStockMetricsProvider implements StockMetricsProvider on top of the
// schema router. Each query runs inside a transaction routed to the tenant's
// schema, the same way repository access does.
type GormStockMetricsProvider struct {
	router tenant.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(router tenant.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{router: router}
}

// GetClassificationCounts returns stock item counts per expiry classification
// for a tenant. Only items with remaining quantity are counted.
func (p *GormStockMetricsProvider) GetClassificationCounts(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	// The router resolves the schema from the security context; metrics
	// collection runs outside a request, so fabricate a system context.
	ctx = security.WithContext(ctx, security.Context{
		TenantID: tenantID,
		Roles:    []string{"system"},
	})

	type result struct {
		Classification string `gorm:"column:classification"`
		Count          int64  `gorm:"column:count"`
	}

	var results []result
	err := p.router.Run(ctx, func(tx *gorm.DB) error {
		return tx.Table("stock_items").
			Select("classification, count(*) as count").
			Where("quantity > 0").
			Group("classification").
			Find(&results).Error
	})
	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Classification] = r.Count
	}

	return m, nil
}

// GormOutboxMetricsProvider implements OutboxMetricsProvider against the
// shared outbox table in the public schema.
type GormOutboxMetricsProvider struct {
	db *gorm.DB
}

// NewGormOutboxMetricsProvider creates a new GormOutboxMetricsProvider.
func NewGormOutboxMetricsProvider(db *gorm.DB) *GormOutboxMetricsProvider {
	return &GormOutboxMetricsProvider{db: db}
}

// GetOutboxDepth returns the number of outbox entries per status.
func (p *GormOutboxMetricsProvider) GetOutboxDepth(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("outbox_events").
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}

	return m, nil
}

// GormTenantProvider implements TenantProvider against the tenant registry.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all active tenant IDs.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tenants").
		Select("id").
		Where("status = ?", "active").
		Find(&ids).Error

	return ids, err
}
