package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormStockAdjustmentRepository implements StockAdjustmentRepository using
// GORM. Adjustments are an append-only audit trail; the repository exposes
// Create but no update or delete.
type GormStockAdjustmentRepository struct {
	db tenantdb.DB
}

// NewGormStockAdjustmentRepository creates a new GormStockAdjustmentRepository
func NewGormStockAdjustmentRepository(db tenantdb.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

// FindByID finds an adjustment by its ID
func (r *GormStockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockAdjustment, error) {
	var adjustment stock.StockAdjustment
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&adjustment, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindByStockItem finds adjustments recorded for a stock item
func (r *GormStockAdjustmentRepository) FindByStockItem(ctx context.Context, stockItemID uuid.UUID, filter shared.Filter) ([]stock.StockAdjustment, error) {
	var adjustments []stock.StockAdjustment
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&stock.StockAdjustment{}).Where("stock_item_id = ?", stockItemID)
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order("created_at DESC").Find(&adjustments).Error
	})
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindByDateRange finds adjustments recorded within a date range
func (r *GormStockAdjustmentRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]stock.StockAdjustment, error) {
	var adjustments []stock.StockAdjustment
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&stock.StockAdjustment{}).
			Where("tenant_id = ? AND created_at >= ? AND created_at <= ?", tenantID, start, end)
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order("created_at DESC").Find(&adjustments).Error
	})
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindForTenant finds all adjustments for a tenant
func (r *GormStockAdjustmentRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockAdjustment, error) {
	var adjustments []stock.StockAdjustment
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&stock.StockAdjustment{}).Where("tenant_id = ?", tenantID)
		for key, value := range filter.Filters {
			switch key {
			case "product_id":
				query = query.Where("product_id = ?", value)
			case "location_id":
				query = query.Where("location_id = ?", value)
			case "adjusted_by":
				query = query.Where("adjusted_by = ?", value)
			}
		}
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order("created_at DESC").Find(&adjustments).Error
	})
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Create creates a new adjustment (append-only, no update allowed)
func (r *GormStockAdjustmentRepository) Create(ctx context.Context, adjustment *stock.StockAdjustment) error {
	return r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(adjustment).Error
	})
}

// CountForTenant counts adjustments matching the filter
func (r *GormStockAdjustmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&stock.StockAdjustment{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStockAdjustmentRepository implements StockAdjustmentRepository
var _ stock.StockAdjustmentRepository = (*GormStockAdjustmentRepository)(nil)
