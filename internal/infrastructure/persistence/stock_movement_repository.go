package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/movement"
	"github.com/warehub/backend/internal/domain/shared"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db tenantdb.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db tenantdb.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// FindByID finds a movement by its ID
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*movement.StockMovement, error) {
	var m movement.StockMovement
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&m, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByIDForTenant finds a movement by ID within a tenant
func (r *GormStockMovementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*movement.StockMovement, error) {
	var m movement.StockMovement
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByStockItem finds all movements of a stock item
func (r *GormStockMovementRepository) FindByStockItem(ctx context.Context, tenantID, stockItemID uuid.UUID, filter shared.Filter) ([]movement.StockMovement, error) {
	var movements []movement.StockMovement
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&movement.StockMovement{}).Where("tenant_id = ? AND stock_item_id = ?", tenantID, stockItemID),
			filter,
		)
		return query.Find(&movements).Error
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByLocation finds movements touching a location as source or destination
func (r *GormStockMovementRepository) FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]movement.StockMovement, error) {
	var movements []movement.StockMovement
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&movement.StockMovement{}).
				Where("tenant_id = ?", tenantID).
				Where("source_location_id = ? OR destination_location_id = ?", locationID, locationID),
			filter,
		)
		return query.Find(&movements).Error
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByStatus finds movements in a lifecycle state
func (r *GormStockMovementRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status movement.MovementStatus, filter shared.Filter) ([]movement.StockMovement, error) {
	var movements []movement.StockMovement
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&movement.StockMovement{}).Where("tenant_id = ? AND status = ?", tenantID, status),
			filter,
		)
		return query.Find(&movements).Error
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// FindPending finds movements still awaiting completion or cancellation
func (r *GormStockMovementRepository) FindPending(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]movement.StockMovement, error) {
	var movements []movement.StockMovement
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&movement.StockMovement{}).
			Where("tenant_id = ? AND status = ?", tenantID, movement.MovementStatusInitiated)
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order("initiated_at ASC").Find(&movements).Error
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByDateRange finds movements initiated within a date range
func (r *GormStockMovementRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]movement.StockMovement, error) {
	var movements []movement.StockMovement
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&movement.StockMovement{}).
				Where("tenant_id = ? AND initiated_at >= ? AND initiated_at <= ?", tenantID, start, end),
			filter,
		)
		return query.Find(&movements).Error
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAllForTenant finds all movements for a tenant
func (r *GormStockMovementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]movement.StockMovement, error) {
	var movements []movement.StockMovement
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(tx.Model(&movement.StockMovement{}).Where("tenant_id = ?", tenantID), filter)
		return query.Find(&movements).Error
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// Save creates or updates a movement
func (r *GormStockMovementRepository) Save(ctx context.Context, m *movement.StockMovement) error {
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Save(m).Error
	})
	if err != nil {
		return err
	}
	m.MarkPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking against the loaded row version
func (r *GormStockMovementRepository) SaveWithLock(ctx context.Context, m *movement.StockMovement) error {
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		result := tx.
			Model(m).
			Where("id = ? AND version = ?", m.ID, m.PersistedVersion()).
			Updates(map[string]interface{}{
				"status":              m.Status,
				"completed_at":        m.CompletedAt,
				"cancelled_at":        m.CancelledAt,
				"cancellation_reason": m.CancellationReason,
				"version":             m.Version,
				"updated_at":          m.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.MarkPersisted()
	return nil
}

// CountForTenant counts movements matching the filter
func (r *GormStockMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilterWithoutPagination(tx.Model(&movement.StockMovement{}).Where("tenant_id = ?", tenantID), filter)
		return query.Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts movements per lifecycle state
func (r *GormStockMovementRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status movement.MovementStatus) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&movement.StockMovement{}).
			Where("tenant_id = ? AND status = ?", tenantID, status).
			Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, MovementSortFields, "initiated_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("initiated_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "movement_type":
			query = query.Where("movement_type = ?", value)
		case "stock_item_id":
			query = query.Where("stock_item_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "initiated_by":
			query = query.Where("initiated_by = ?", value)
		}
	}

	return query
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"initiated_at":  true,
	"completed_at":  true,
	"status":        true,
	"movement_type": true,
	"quantity":      true,
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ movement.StockMovementRepository = (*GormStockMovementRepository)(nil)
