package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/shared"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormLocationRepository implements LocationRepository using GORM. Statements
// run on schema-routed handles; the tenant_id predicates are kept as a second
// fence on top of the schema isolation.
type GormLocationRepository struct {
	db tenantdb.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db tenantdb.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// FindByID finds a location by its ID
func (r *GormLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	var loc location.Location
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&loc, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindByIDForTenant finds a location by ID within a tenant
func (r *GormLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*location.Location, error) {
	var loc location.Location
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&loc).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindByBarcode finds a location by barcode within a tenant
func (r *GormLocationRepository) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*location.Location, error) {
	var loc location.Location
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND barcode = ?", tenantID, strings.ToUpper(barcode)).First(&loc).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindByCode finds a location by code within a tenant
func (r *GormLocationRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*location.Location, error) {
	var loc location.Location
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND code = ?", tenantID, code).First(&loc).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

// FindByIDs finds multiple locations by their IDs
func (r *GormLocationRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]location.Location, error) {
	if len(ids) == 0 {
		return []location.Location{}, nil
	}
	var locations []location.Location
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&locations).Error
	})
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// FindChildren finds the direct children of a location
func (r *GormLocationRepository) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]location.Location, error) {
	var children []location.Location
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.
			Where("tenant_id = ? AND parent_location_id = ?", tenantID, parentID).
			Order("code ASC, name ASC").
			Find(&children).Error
	})
	if err != nil {
		return nil, err
	}
	return children, nil
}

// FindByType finds all locations of the given type
func (r *GormLocationRepository) FindByType(ctx context.Context, tenantID uuid.UUID, locationType location.LocationType, filter shared.Filter) ([]location.Location, error) {
	var locations []location.Location
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&location.Location{}).Where("tenant_id = ? AND type = ?", tenantID, locationType),
			filter,
		)
		return query.Find(&locations).Error
	})
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// FindAvailableBins finds BIN locations that can still receive stock
func (r *GormLocationRepository) FindAvailableBins(ctx context.Context, tenantID uuid.UUID) ([]location.Location, error) {
	var bins []location.Location
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.
			Where("tenant_id = ? AND type = ? AND status IN ?", tenantID, location.LocationTypeBin,
				[]location.LocationStatus{location.LocationStatusAvailable, location.LocationStatusReserved}).
			Where("max_capacity = 0 OR current_capacity < max_capacity").
			Order("code ASC").
			Find(&bins).Error
	})
	if err != nil {
		return nil, err
	}
	return bins, nil
}

// FindAllForTenant finds all locations for a tenant
func (r *GormLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]location.Location, error) {
	var locations []location.Location
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(tx.Model(&location.Location{}).Where("tenant_id = ?", tenantID), filter)
		return query.Find(&locations).Error
	})
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// Save creates or updates a location
func (r *GormLocationRepository) Save(ctx context.Context, loc *location.Location) error {
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Save(loc).Error
	})
	if err != nil {
		return err
	}
	loc.MarkPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking. The predicate matches the
// version the row carried when the aggregate was loaded, so any number of
// domain mutations between load and save count as one step.
func (r *GormLocationRepository) SaveWithLock(ctx context.Context, loc *location.Location) error {
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		result := tx.
			Model(loc).
			Where("id = ? AND version = ?", loc.ID, loc.PersistedVersion()).
			Updates(map[string]interface{}{
				"name":             loc.Name,
				"status":           loc.Status,
				"current_capacity": loc.CurrentCapacity,
				"max_capacity":     loc.MaxCapacity,
				"description":      loc.Description,
				"block_reason":     loc.BlockReason,
				"version":          loc.Version,
				"updated_at":       loc.UpdatedAt,
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
	loc.MarkPersisted()
	return nil
}

// CountForTenant counts locations matching the filter
func (r *GormLocationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilterWithoutPagination(tx.Model(&location.Location{}).Where("tenant_id = ?", tenantID), filter)
		return query.Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByBarcode checks whether a barcode is already taken within a tenant
func (r *GormLocationRepository) ExistsByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (bool, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&location.Location{}).
			Where("tenant_id = ? AND barcode = ?", tenantID, strings.ToUpper(barcode)).
			Count(&count).Error
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByCode checks whether a code is already taken within a tenant
func (r *GormLocationRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&location.Location{}).
			Where("tenant_id = ? AND code = ?", tenantID, code).
			Count(&count).Error
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormLocationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, LocationSortFields, "code")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("type ASC, code ASC, name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLocationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ? OR barcode ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "parent_location_id":
			query = query.Where("parent_location_id = ?", value)
		case "zone":
			query = query.Where("coord_zone = ?", value)
		case "has_capacity":
			if value == true {
				query = query.Where("max_capacity = 0 OR current_capacity < max_capacity")
			} else {
				query = query.Where("max_capacity > 0 AND current_capacity >= max_capacity")
			}
		}
	}

	return query
}

// LocationSortFields contains allowed sort fields for locations
var LocationSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"code":             true,
	"name":             true,
	"barcode":          true,
	"type":             true,
	"status":           true,
	"current_capacity": true,
}

// Ensure GormLocationRepository implements LocationRepository
var _ location.LocationRepository = (*GormLocationRepository)(nil)
