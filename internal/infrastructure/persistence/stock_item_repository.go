package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormStockItemRepository implements StockItemRepository using GORM. Loaded
// items have their expiration classification recomputed against the current
// date, so a label persisted before the last reclassification sweep never
// flows out stale. The recomputation is silent and emits no events.
type GormStockItemRepository struct {
	db tenantdb.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db tenantdb.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

func refreshOne(item *stock.StockItem) *stock.StockItem {
	item.RefreshClassification(time.Now())
	return item
}

func refreshAll(items []stock.StockItem) []stock.StockItem {
	now := time.Now()
	for i := range items {
		items[i].RefreshClassification(now)
	}
	return items
}

// FindByID finds a stock item by its ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockItem, error) {
	var item stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&item, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return refreshOne(&item), nil
}

// FindByIDForTenant finds a stock item by ID within a tenant
func (r *GormStockItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.StockItem, error) {
	var item stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&item).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return refreshOne(&item), nil
}

// FindByIDs finds multiple stock items by their IDs
func (r *GormStockItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]stock.StockItem, error) {
	if len(ids) == 0 {
		return []stock.StockItem{}, nil
	}
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindByProduct finds all stock items for a product
func (r *GormStockItemRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&stock.StockItem{}).Where("tenant_id = ? AND product_id = ?", tenantID, productID),
			filter,
		)
		return query.Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindByProductAndLocation finds stock items for a product at a location,
// earliest expiry first
func (r *GormStockItemRepository) FindByProductAndLocation(ctx context.Context, tenantID, productID, locationID uuid.UUID) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.
			Where("tenant_id = ? AND product_id = ? AND location_id = ?", tenantID, productID, locationID).
			Order("expiration_date ASC NULLS LAST, created_at ASC").
			Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindByLocation finds all stock items placed at a location
func (r *GormStockItemRepository) FindByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&stock.StockItem{}).Where("tenant_id = ? AND location_id = ?", tenantID, locationID),
			filter,
		)
		return query.Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindByConsignment finds all stock items booked under a consignment
func (r *GormStockItemRepository) FindByConsignment(ctx context.Context, tenantID, consignmentID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&stock.StockItem{}).Where("tenant_id = ? AND consignment_id = ?", tenantID, consignmentID),
			filter,
		)
		return query.Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindByClassification finds stock items carrying a classification. The
// stored label is queried directly; callers that need an up-to-the-day view
// run after the reclassification sweep.
func (r *GormStockItemRepository) FindByClassification(ctx context.Context, tenantID uuid.UUID, classification stock.Classification, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&stock.StockItem{}).Where("tenant_id = ? AND classification = ?", tenantID, classification),
			filter,
		)
		return query.Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindUnassigned finds stock items with no location yet
func (r *GormStockItemRepository) FindUnassigned(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&stock.StockItem{}).Where("tenant_id = ? AND location_id IS NULL", tenantID),
			filter,
		)
		return query.Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindPickable finds non-expired stock items for a product with available
// quantity, earliest expiry first (FEFO order)
func (r *GormStockItemRepository) FindPickable(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.
			Where("tenant_id = ? AND product_id = ?", tenantID, productID).
			Where("expiration_date IS NULL OR expiration_date >= CURRENT_DATE").
			Where("quantity > allocated_quantity")
		if locationID != nil {
			query = query.Where("location_id = ?", *locationID)
		}
		return query.
			Order("expiration_date ASC NULLS LAST, created_at ASC").
			Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindExpiringWithin finds stock items whose expiration date falls within
// the coming days, soonest first
func (r *GormStockItemRepository) FindExpiringWithin(ctx context.Context, tenantID uuid.UUID, withinDays int, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&stock.StockItem{}).
			Where("tenant_id = ?", tenantID).
			Where("expiration_date IS NOT NULL").
			Where("expiration_date >= CURRENT_DATE AND expiration_date <= CURRENT_DATE + ? * INTERVAL '1 day'", withinDays)
		query = r.applyFilterWithoutPagination(query, filter)
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order("expiration_date ASC").Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindExpired finds stock items already past their expiration date
func (r *GormStockItemRepository) FindExpired(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&stock.StockItem{}).
			Where("tenant_id = ?", tenantID).
			Where("expiration_date IS NOT NULL AND expiration_date < CURRENT_DATE")
		query = r.applyFilterWithoutPagination(query, filter)
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order("expiration_date ASC").Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// FindWithExpiration finds stock items that carry an expiration date; the
// reclassification sweep walks these
func (r *GormStockItemRepository) FindWithExpiration(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&stock.StockItem{}).
			Where("tenant_id = ? AND expiration_date IS NOT NULL", tenantID)
		query = r.applyFilterWithoutPagination(query, filter)
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order("expiration_date ASC").Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	// the sweep reclassifies with events itself; hand back the stored state
	return items, nil
}

// FindAllForTenant finds all stock items for a tenant
func (r *GormStockItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(tx.Model(&stock.StockItem{}).Where("tenant_id = ?", tenantID), filter)
		return query.Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return refreshAll(items), nil
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *stock.StockItem) error {
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Save(item).Error
	})
	if err != nil {
		return err
	}
	item.MarkPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking. The predicate matches the
// version loaded from the row, not Version minus one, so multi-step domain
// mutations still persist in a single save.
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *stock.StockItem) error {
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		result := tx.
			Model(item).
			Where("id = ? AND version = ?", item.ID, item.PersistedVersion()).
			Updates(map[string]interface{}{
				"location_id":        item.LocationID,
				"quantity":           item.Quantity,
				"allocated_quantity": item.AllocatedQuantity,
				"expiration_date":    item.ExpirationDate,
				"classification":     item.Classification,
				"version":            item.Version,
				"updated_at":         item.UpdatedAt,
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
	item.MarkPersisted()
	return nil
}

// Delete deletes a stock item
func (r *GormStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.Run(ctx, func(tx *gorm.DB) error {
		result := tx.Delete(&stock.StockItem{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// DeleteForTenant deletes a stock item within a tenant
func (r *GormStockItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.Run(ctx, func(tx *gorm.DB) error {
		result := tx.Delete(&stock.StockItem{}, "tenant_id = ? AND id = ?", tenantID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// CountForTenant counts stock items matching the filter
func (r *GormStockItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilterWithoutPagination(tx.Model(&stock.StockItem{}).Where("tenant_id = ?", tenantID), filter)
		return query.Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByClassification counts stock items per classification
func (r *GormStockItemRepository) CountByClassification(ctx context.Context, tenantID uuid.UUID, classification stock.Classification) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&stock.StockItem{}).
			Where("tenant_id = ? AND classification = ?", tenantID, classification).
			Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantityByProduct sums total quantity for a product across locations
func (r *GormStockItemRepository) SumQuantityByProduct(ctx context.Context, tenantID, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&stock.StockItem{}).
			Select("SUM(quantity)").
			Where("tenant_id = ? AND product_id = ?", tenantID, productID).
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

// SumQuantityByProductAndLocation sums total quantity for a product at one location
func (r *GormStockItemRepository) SumQuantityByProductAndLocation(ctx context.Context, tenantID, productID, locationID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&stock.StockItem{}).
			Select("SUM(quantity)").
			Where("tenant_id = ? AND product_id = ? AND location_id = ?", tenantID, productID, locationID).
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

// applyFilter applies filter options to the query
func (r *GormStockItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, StockItemSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("expiration_date ASC NULLS LAST, created_at ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "consignment_id":
			query = query.Where("consignment_id = ?", value)
		case "classification":
			query = query.Where("classification = ?", value)
		case "has_available":
			if value == true {
				query = query.Where("quantity > allocated_quantity")
			}
		case "unassigned":
			if value == true {
				query = query.Where("location_id IS NULL")
			}
		}
	}

	return query
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"expiration_date": true,
	"quantity":        true,
	"classification":  true,
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ stock.StockItemRepository = (*GormStockItemRepository)(nil)
