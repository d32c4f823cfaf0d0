package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/shared"
	tenantdb "github.com/warehub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// priorityRank orders requests HIGH before MEDIUM before LOW in SQL
const priorityRank = `CASE priority WHEN 'HIGH' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END`

// GormRestockRequestRepository implements RestockRequestRepository using GORM
type GormRestockRequestRepository struct {
	db tenantdb.DB
}

// NewGormRestockRequestRepository creates a new GormRestockRequestRepository
func NewGormRestockRequestRepository(db tenantdb.DB) *GormRestockRequestRepository {
	return &GormRestockRequestRepository{db: db}
}

func activeStatuses() []restock.RestockStatus {
	return []restock.RestockStatus{restock.RestockStatusPending, restock.RestockStatusSentToD365}
}

// FindByID finds a request by its ID
func (r *GormRestockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*restock.RestockRequest, error) {
	var request restock.RestockRequest
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&request, "id = ?", id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByIDForTenant finds a request by ID within a tenant
func (r *GormRestockRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*restock.RestockRequest, error) {
	var request restock.RestockRequest
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(&request).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindActiveByProductAndLocation finds the active (pending or sent) request
// for a product and location; a nil locationID matches the tenant-wide request
func (r *GormRestockRequestRepository) FindActiveByProductAndLocation(ctx context.Context, tenantID, productID uuid.UUID, locationID *uuid.UUID) (*restock.RestockRequest, error) {
	var request restock.RestockRequest
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.
			Where("tenant_id = ? AND product_id = ? AND status IN ?", tenantID, productID, activeStatuses())
		if locationID != nil {
			query = query.Where("location_id = ?", *locationID)
		} else {
			query = query.Where("location_id IS NULL")
		}
		return query.First(&request).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByStatus finds requests in a lifecycle state
func (r *GormRestockRequestRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status restock.RestockStatus, filter shared.Filter) ([]restock.RestockRequest, error) {
	var requests []restock.RestockRequest
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&restock.RestockRequest{}).
			Where("tenant_id = ? AND status = ?", tenantID, status)
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order(priorityRank + ", created_at ASC").Find(&requests).Error
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// FindPending finds requests not yet handed to the ERP, highest priority and
// oldest first
func (r *GormRestockRequestRepository) FindPending(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]restock.RestockRequest, error) {
	return r.FindByStatus(ctx, tenantID, restock.RestockStatusPending, filter)
}

// FindByProduct finds all requests for a product
func (r *GormRestockRequestRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]restock.RestockRequest, error) {
	var requests []restock.RestockRequest
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&restock.RestockRequest{}).
			Where("tenant_id = ? AND product_id = ?", tenantID, productID)
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order("created_at DESC").Find(&requests).Error
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByOrderReference finds the request carrying an ERP order reference
func (r *GormRestockRequestRepository) FindByOrderReference(ctx context.Context, tenantID uuid.UUID, orderReference string) (*restock.RestockRequest, error) {
	var request restock.RestockRequest
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("tenant_id = ? AND order_reference = ?", tenantID, orderReference).First(&request).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindAllForTenant finds all requests for a tenant
func (r *GormRestockRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]restock.RestockRequest, error) {
	var requests []restock.RestockRequest
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&restock.RestockRequest{}).Where("tenant_id = ?", tenantID)
		for key, value := range filter.Filters {
			switch key {
			case "status":
				query = query.Where("status = ?", value)
			case "priority":
				query = query.Where("priority = ?", value)
			case "product_id":
				query = query.Where("product_id = ?", value)
			case "location_id":
				query = query.Where("location_id = ?", value)
			}
		}
		if filter.Page > 0 && filter.PageSize > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
		}
		return query.Order(priorityRank + ", created_at ASC").Find(&requests).Error
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates a request
func (r *GormRestockRequestRepository) Save(ctx context.Context, request *restock.RestockRequest) error {
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Save(request).Error
	})
	if err != nil {
		return err
	}
	request.MarkPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking against the loaded row version
func (r *GormRestockRequestRepository) SaveWithLock(ctx context.Context, request *restock.RestockRequest) error {
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		result := tx.
			Model(request).
			Where("id = ? AND version = ?", request.ID, request.PersistedVersion()).
			Updates(map[string]interface{}{
				"current_quantity":   request.CurrentQuantity,
				"minimum_quantity":   request.MinimumQuantity,
				"maximum_quantity":   request.MaximumQuantity,
				"requested_quantity": request.RequestedQuantity,
				"priority":           request.Priority,
				"status":             request.Status,
				"sent_at":            request.SentAt,
				"order_reference":    request.OrderReference,
				"fulfilled_at":       request.FulfilledAt,
				"cancelled_at":       request.CancelledAt,
				"version":            request.Version,
				"updated_at":         request.UpdatedAt,
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
	request.MarkPersisted()
	return nil
}

// CountForTenant counts requests matching the filter
func (r *GormRestockRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		query := tx.Model(&restock.RestockRequest{}).Where("tenant_id = ?", tenantID)
		for key, value := range filter.Filters {
			switch key {
			case "status":
				query = query.Where("status = ?", value)
			case "product_id":
				query = query.Where("product_id = ?", value)
			}
		}
		return query.Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountActive counts requests still counting against the dedup rule
func (r *GormRestockRequestRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&restock.RestockRequest{}).
			Where("tenant_id = ? AND status IN ?", tenantID, activeStatuses()).
			Count(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormRestockRequestRepository implements RestockRequestRepository
var _ restock.RestockRequestRepository = (*GormRestockRequestRepository)(nil)
