package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/stock"
)

// UpdateExpirationDateRequest sets or clears a stock item's expiration date
type UpdateExpirationDateRequest struct {
	TenantID       uuid.UUID  `json:"tenant_id"`
	StockItemID    uuid.UUID  `json:"stock_item_id"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

// AdjustQuantityRequest corrects a stock item's quantity after a count
type AdjustQuantityRequest struct {
	TenantID    uuid.UUID       `json:"tenant_id"`
	StockItemID uuid.UUID       `json:"stock_item_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason" binding:"required,min=1,max=500"`
}

// AllocateStockRequest reserves a quantity of a stock item for an order
type AllocateStockRequest struct {
	TenantID    uuid.UUID       `json:"tenant_id"`
	StockItemID uuid.UUID       `json:"stock_item_id"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reference   string          `json:"reference" binding:"omitempty,max=100"`
}

// ReleaseAllocationRequest returns a held reservation to the pool
type ReleaseAllocationRequest struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	AllocationID uuid.UUID `json:"allocation_id"`
}

// ConsignmentItemRequest is one product position on an incoming consignment
type ConsignmentItemRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	ExpirationDate *time.Time      `json:"expiration_date"`
}

// CreateConsignmentRequest books an incoming consignment and its stock items
type CreateConsignmentRequest struct {
	TenantID   uuid.UUID                `json:"tenant_id"`
	Reference  string                   `json:"reference" binding:"required,min=1,max=100"`
	Supplier   string                   `json:"supplier" binding:"omitempty,max=255"`
	ReceivedAt time.Time                `json:"received_at"`
	Items      []ConsignmentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SetThresholdRequest creates or replaces the replenishment band for a product
type SetThresholdRequest struct {
	TenantID          uuid.UUID       `json:"tenant_id"`
	ProductID         uuid.UUID       `json:"product_id" binding:"required"`
	LocationID        *uuid.UUID      `json:"location_id"`
	MinimumQuantity   decimal.Decimal `json:"minimum_quantity" binding:"required"`
	MaximumQuantity   decimal.Decimal `json:"maximum_quantity"`
	EnableAutoRestock *bool           `json:"enable_auto_restock"`
}

// StockItemListFilter represents filter options for stock item lists
type StockItemListFilter struct {
	ProductID      *uuid.UUID `form:"product_id"`
	LocationID     *uuid.UUID `form:"location_id"`
	ConsignmentID  *uuid.UUID `form:"consignment_id"`
	Classification string     `form:"classification" binding:"omitempty,oneof=EXPIRED CRITICAL NEAR_EXPIRY NORMAL EXTENDED_SHELF_LIFE"`
	Unassigned     bool       `form:"unassigned"`
	Page           int        `form:"page" binding:"omitempty,min=1"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ConsignmentListFilter represents filter options for consignment lists
type ConsignmentListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=OPEN CLOSED"`
	Supplier string `form:"supplier"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse carries catalog metadata attached to stock responses.
// It is null when the catalog has no record for the product or the lookup
// failed.
type ProductResponse struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID                uuid.UUID            `json:"id"`
	TenantID          uuid.UUID            `json:"tenant_id"`
	ProductID         uuid.UUID            `json:"product_id"`
	ConsignmentID     uuid.UUID            `json:"consignment_id"`
	LocationID        *uuid.UUID           `json:"location_id,omitempty"`
	Quantity          decimal.Decimal      `json:"quantity"`
	AllocatedQuantity decimal.Decimal      `json:"allocated_quantity"`
	AvailableQuantity decimal.Decimal      `json:"available_quantity"`
	ExpirationDate    *time.Time           `json:"expiration_date,omitempty"`
	Classification    stock.Classification `json:"classification"`
	DaysUntilExpiry   *int                 `json:"days_until_expiry,omitempty"`
	Product           *ProductResponse     `json:"product"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Version           int                  `json:"version"`
}

// ConsignmentResponse represents a consignment in API responses
type ConsignmentResponse struct {
	ID         uuid.UUID               `json:"id"`
	TenantID   uuid.UUID               `json:"tenant_id"`
	Reference  string                  `json:"reference"`
	Supplier   string                  `json:"supplier,omitempty"`
	Status     stock.ConsignmentStatus `json:"status"`
	ReceivedAt time.Time               `json:"received_at"`
	ItemCount  int                     `json:"item_count"`
	ClosedAt   *time.Time              `json:"closed_at,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// ConsignmentIntakeResponse reports the outcome of one consignment intake
type ConsignmentIntakeResponse struct {
	Consignment ConsignmentResponse `json:"consignment"`
	StockItems  []StockItemResponse `json:"stock_items"`
}

// AllocationResponse represents a stock allocation in API responses
type AllocationResponse struct {
	ID          uuid.UUID              `json:"id"`
	StockItemID uuid.UUID              `json:"stock_item_id"`
	Quantity    decimal.Decimal        `json:"quantity"`
	Reference   string                 `json:"reference,omitempty"`
	Status      stock.AllocationStatus `json:"status"`
	ReleasedAt  *time.Time             `json:"released_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// AdjustmentResponse represents an adjustment audit record in API responses
type AdjustmentResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Difference  decimal.Decimal `json:"difference"`
	Reason      string          `json:"reason"`
	AdjustedBy  *uuid.UUID      `json:"adjusted_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ThresholdResponse represents a replenishment band in API responses
type ThresholdResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	LocationID        *uuid.UUID      `json:"location_id,omitempty"`
	MinimumQuantity   decimal.Decimal `json:"minimum_quantity"`
	MaximumQuantity   decimal.Decimal `json:"maximum_quantity"`
	EnableAutoRestock bool            `json:"enable_auto_restock"`
}

// StockLevelResponse reports the summed quantity of a product against its band
type StockLevelResponse struct {
	ProductID       uuid.UUID        `json:"product_id"`
	LocationID      *uuid.UUID       `json:"location_id,omitempty"`
	TotalQuantity   decimal.Decimal  `json:"total_quantity"`
	MinimumQuantity *decimal.Decimal `json:"minimum_quantity,omitempty"`
	MaximumQuantity *decimal.Decimal `json:"maximum_quantity,omitempty"`
	BelowMinimum    bool             `json:"below_minimum"`
	AboveMaximum    bool             `json:"above_maximum"`
}

// ExpirationCheckResponse reports the expiration posture of a product at a
// location: every item with its live classification plus the expired count
type ExpirationCheckResponse struct {
	ProductID    uuid.UUID           `json:"product_id"`
	LocationID   uuid.UUID           `json:"location_id"`
	Items        []StockItemResponse `json:"items"`
	ExpiredCount int                 `json:"expired_count"`
	HasExpired   bool                `json:"has_expired"`
}

// ToStockItemResponse maps a stock item aggregate to its response record
func ToStockItemResponse(item *stock.StockItem, today time.Time) StockItemResponse {
	resp := StockItemResponse{
		ID:                item.ID,
		TenantID:          item.TenantID,
		ProductID:         item.ProductID,
		ConsignmentID:     item.ConsignmentID,
		LocationID:        item.LocationID,
		Quantity:          item.Quantity,
		AllocatedQuantity: item.AllocatedQuantity,
		AvailableQuantity: item.AvailableQuantity(),
		ExpirationDate:    item.ExpirationDate,
		Classification:    item.Classification,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
		Version:           item.Version,
	}
	if item.ExpirationDate != nil {
		days := stock.DaysUntil(*item.ExpirationDate, today)
		resp.DaysUntilExpiry = &days
	}
	return resp
}

// ToProductResponse maps catalog metadata to its response record; nil in,
// nil out
func ToProductResponse(meta *stock.ProductMetadata) *ProductResponse {
	if meta == nil {
		return nil
	}
	return &ProductResponse{
		SKU:  meta.SKU,
		Name: meta.Name,
		Unit: meta.Unit,
	}
}

// ToStockItemResponses maps a slice of stock items
func ToStockItemResponses(items []stock.StockItem, today time.Time) []StockItemResponse {
	responses := make([]StockItemResponse, len(items))
	for i := range items {
		responses[i] = ToStockItemResponse(&items[i], today)
	}
	return responses
}

// ToConsignmentResponse maps a consignment aggregate to its response record
func ToConsignmentResponse(c *stock.Consignment) ConsignmentResponse {
	return ConsignmentResponse{
		ID:         c.ID,
		TenantID:   c.TenantID,
		Reference:  c.Reference,
		Supplier:   c.Supplier,
		Status:     c.Status,
		ReceivedAt: c.ReceivedAt,
		ItemCount:  c.ItemCount,
		ClosedAt:   c.ClosedAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToConsignmentResponses maps a slice of consignments
func ToConsignmentResponses(consignments []stock.Consignment) []ConsignmentResponse {
	responses := make([]ConsignmentResponse, len(consignments))
	for i := range consignments {
		responses[i] = ToConsignmentResponse(&consignments[i])
	}
	return responses
}

// ToAllocationResponse maps an allocation record to its response record
func ToAllocationResponse(a *stock.StockAllocation) AllocationResponse {
	return AllocationResponse{
		ID:          a.ID,
		StockItemID: a.StockItemID,
		Quantity:    a.Quantity,
		Reference:   a.Reference,
		Status:      a.Status,
		ReleasedAt:  a.ReleasedAt,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAdjustmentResponse maps an adjustment record to its response record
func ToAdjustmentResponse(a *stock.StockAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:          a.ID,
		StockItemID: a.StockItemID,
		ProductID:   a.ProductID,
		LocationID:  a.LocationID,
		OldQuantity: a.OldQuantity,
		NewQuantity: a.NewQuantity,
		Difference:  a.Difference,
		Reason:      a.Reason,
		AdjustedBy:  a.AdjustedBy,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAdjustmentResponses maps a slice of adjustments
func ToAdjustmentResponses(adjustments []stock.StockAdjustment) []AdjustmentResponse {
	responses := make([]AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		responses[i] = ToAdjustmentResponse(&adjustments[i])
	}
	return responses
}

// ToThresholdResponse maps a threshold aggregate to its response record
func ToThresholdResponse(t *stock.StockThreshold) ThresholdResponse {
	return ThresholdResponse{
		ID:                t.ID,
		ProductID:         t.ProductID,
		LocationID:        t.LocationID,
		MinimumQuantity:   t.MinimumQuantity,
		MaximumQuantity:   t.MaximumQuantity,
		EnableAutoRestock: t.EnableAutoRestock,
	}
}
