package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormConsignmentRepository implements ConsignmentRepository using GORM
type GormConsignmentRepository struct {
	db tenantdb.DB
}

// NewGormConsignmentRepository creates a new GormConsignmentRepository
func NewGormConsignmentRepository(db tenantdb.DB) *GormConsignmentRepository {
	return &GormConsignmentRepository{db: db}
}

// FindByID finds a consignment by its ID
func (r *GormConsignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Consignment, error) {
	var consignment stock.Consignment
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&consignment, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &consignment, nil
}

// FindByIDForTenant finds a consignment by ID within a tenant
func (r *GormConsignmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.Consignment, error) {
	var consignment stock.Consignment
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&consignment).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &consignment, nil
}

// FindByReference finds a consignment by its supplier reference
func (r *GormConsignmentRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*stock.Consignment, error) {
	var consignment stock.Consignment
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND reference = ?", tenantID, strings.TrimSpace(reference)).First(&consignment).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &consignment, nil
}

// FindByStatus finds consignments in a lifecycle state
func (r *GormConsignmentRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status stock.ConsignmentStatus, filter shared.Filter) ([]stock.Consignment, error) {
	var consignments []stock.Consignment
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(
			tx.Model(&stock.Consignment{}).Where("tenant_id = ? AND status = ?", tenantID, status),
			filter,
		)
		return query.Find(&consignments).Error
	})
	if err != nil {
		return nil, err
	}
	return consignments, nil
}

// FindAllForTenant finds all consignments for a tenant
func (r *GormConsignmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.Consignment, error) {
	var consignments []stock.Consignment
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilter(tx.Model(&stock.Consignment{}).Where("tenant_id = ?", tenantID), filter)
		return query.Find(&consignments).Error
	})
	if err != nil {
		return nil, err
	}
	return consignments, nil
}

// Save creates or updates a consignment
func (r *GormConsignmentRepository) Save(ctx context.Context, consignment *stock.Consignment) error {
	return r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Save(consignment).Error
	})
}

// CountForTenant counts consignments matching the filter
func (r *GormConsignmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := r.applyFilterWithoutPagination(tx.Model(&stock.Consignment{}).Where("tenant_id = ?", tenantID), filter)
		return query.Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByReference checks whether a reference is already taken
func (r *GormConsignmentRepository) ExistsByReference(ctx context.Context, tenantID uuid.UUID, reference string) (bool, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&stock.Consignment{}).
			Where("tenant_id = ? AND reference = ?", tenantID, strings.TrimSpace(reference)).
			Count(&count).Error
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormConsignmentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, ConsignmentSortFields, "received_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("received_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormConsignmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference ILIKE ? OR supplier ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "supplier":
			query = query.Where("supplier = ?", value)
		case "received_after":
			query = query.Where("received_at >= ?", value)
		case "received_before":
			query = query.Where("received_at <= ?", value)
		}
	}

	return query
}

// ConsignmentSortFields contains allowed sort fields for consignments
var ConsignmentSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"reference":   true,
	"supplier":    true,
	"status":      true,
	"received_at": true,
	"item_count":  true,
}

// Ensure GormConsignmentRepository implements ConsignmentRepository
var _ stock.ConsignmentRepository = (*GormConsignmentRepository)(nil)
