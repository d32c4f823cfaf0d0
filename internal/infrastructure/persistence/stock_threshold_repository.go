package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormStockThresholdRepository implements StockThresholdRepository using GORM
type GormStockThresholdRepository struct {
	db tenantdb.DB
}

// NewGormStockThresholdRepository creates a new GormStockThresholdRepository
func NewGormStockThresholdRepository(db tenantdb.DB) *GormStockThresholdRepository {
	return &GormStockThresholdRepository{db: db}
}

// FindByID finds a threshold by its ID
func (r *GormStockThresholdRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockThreshold, error) {
	var threshold stock.StockThreshold
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&threshold, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &threshold, nil
}

// FindByIDForTenant finds a threshold by ID within a tenant
func (r *GormStockThresholdRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockThreshold, error) {
	var threshold stock.StockThreshold
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&threshold).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &threshold, nil
}

// FindByProductAndLocation finds the threshold for a product at a location;
// a nil locationID matches the tenant-wide band
func (r *GormStockThresholdRepository) FindByProductAndLocation(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) (*stock.StockThreshold, error) {
	var threshold stock.StockThreshold
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Where("tenant_id = ? AND product_id = ?", tenantID, productID)
		if locationID != nil {
			query = query.Where("location_id = ?", *locationID)
		} else {
			query = query.Where("location_id IS NULL")
		}
		return query.First(&threshold).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &threshold, nil
}

// FindByProduct finds all thresholds configured for a product
func (r *GormStockThresholdRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]stock.StockThreshold, error) {
	var thresholds []stock.StockThreshold
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.
			Where("tenant_id = ? AND product_id = ?", tenantID, productID).
			Order("location_id ASC NULLS FIRST").
			Find(&thresholds).Error
	})
	if err != nil {
		return nil, err
	}
	return thresholds, nil
}

// FindAllForTenant finds all thresholds for a tenant
func (r *GormStockThresholdRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockThreshold, error) {
	var thresholds []stock.StockThreshold
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&stock.StockThreshold{}).Where("tenant_id = ?", tenantID)
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order("product_id ASC, location_id ASC NULLS FIRST").Find(&thresholds).Error
	})
	if err != nil {
		return nil, err
	}
	return thresholds, nil
}

// Save creates or updates a threshold
func (r *GormStockThresholdRepository) Save(ctx context.Context, threshold *stock.StockThreshold) error {
	return r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Save(threshold).Error
	})
}

// Delete deletes a threshold
func (r *GormStockThresholdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.Run(ctx, func(tx *gorm.DB) error {
		result := tx.Delete(&stock.StockThreshold{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// DeleteForTenant deletes a threshold within a tenant
func (r *GormStockThresholdRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.Run(ctx, func(tx *gorm.DB) error {
		result := tx.Delete(&stock.StockThreshold{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts thresholds matching the filter
func (r *GormStockThresholdRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&stock.StockThreshold{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStockThresholdRepository implements StockThresholdRepository
var _ stock.StockThresholdRepository = (*GormStockThresholdRepository)(nil)
