package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormStockAllocationRepository implements StockAllocationRepository using GORM
type GormStockAllocationRepository struct {
	db tenantdb.DB
}

// NewGormStockAllocationRepository creates a new GormStockAllocationRepository
func NewGormStockAllocationRepository(db tenantdb.DB) *GormStockAllocationRepository {
	return &GormStockAllocationRepository{db: db}
}

// FindByID finds an allocation by its ID
func (r *GormStockAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockAllocation, error) {
	var allocation stock.StockAllocation
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&allocation, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &allocation, nil
}

// FindByStockItem finds all allocations held against a stock item
func (r *GormStockAllocationRepository) FindByStockItem(ctx context.Context, stockItemID uuid.UUID) ([]stock.StockAllocation, error) {
	var allocations []stock.StockAllocation
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.
			Where("stock_item_id = ?", stockItemID).
			Order("created_at ASC").
			Find(&allocations).Error
	})
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

// FindActiveByStockItem finds active allocations held against a stock item
func (r *GormStockAllocationRepository) FindActiveByStockItem(ctx context.Context, stockItemID uuid.UUID) ([]stock.StockAllocation, error) {
	var allocations []stock.StockAllocation
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.
			Where("stock_item_id = ? AND status = ?", stockItemID, stock.AllocationStatusActive).
			Order("created_at ASC").
			Find(&allocations).Error
	})
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

// FindByReference finds allocations created for a reference document
func (r *GormStockAllocationRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) ([]stock.StockAllocation, error) {
	var allocations []stock.StockAllocation
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.
			Where("tenant_id = ? AND reference = ?", tenantID, reference).
			Order("created_at ASC").
			Find(&allocations).Error
	})
	if err != nil {
		return nil, err
	}
	return allocations, nil
}

// Save creates or updates an allocation
func (r *GormStockAllocationRepository) Save(ctx context.Context, allocation *stock.StockAllocation) error {
	return r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Save(allocation).Error
	})
}

// SumActiveByStockItem sums the active allocation quantity for a stock item
func (r *GormStockAllocationRepository) SumActiveByStockItem(ctx context.Context, stockItemID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&stock.StockAllocation{}).
			Select("SUM(quantity)").
			Where("stock_item_id = ? AND status = ?", stockItemID, stock.AllocationStatusActive).
			Scan(&total).Error
	})
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Ensure GormStockAllocationRepository implements StockAllocationRepository
var _ stock.StockAllocationRepository = (*GormStockAllocationRepository)(nil)
