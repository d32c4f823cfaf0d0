package location

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/location"
)

// CreateLocationRequest represents a request to create a location
type CreateLocationRequest struct {
	TenantID         uuid.UUID            `json:"tenant_id"`
	ParentLocationID *uuid.UUID           `json:"parent_location_id"`
	Code             string               `json:"code" binding:"omitempty,max=50"`
	Name             string               `json:"name" binding:"omitempty,max=200"`
	Barcode          string               `json:"barcode" binding:"omitempty,min=8,max=20"`
	Type             location.LocationType `json:"type" binding:"required"`
	Coordinates      location.Coordinates  `json:"coordinates"`
	MaxCapacity      decimal.Decimal      `json:"max_capacity"`
	Description      string               `json:"description"`
}

// UpdateLocationStatusRequest represents an operator-initiated status change
type UpdateLocationStatusRequest struct {
	TenantID   uuid.UUID               `json:"tenant_id"`
	LocationID uuid.UUID               `json:"location_id"`
	Status     location.LocationStatus `json:"status" binding:"required"`
	Reason     string                  `json:"reason" binding:"omitempty,max=500"`
}

// BlockLocationRequest represents a request to block a location
type BlockLocationRequest struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	LocationID uuid.UUID `json:"location_id"`
	Reason     string    `json:"reason" binding:"required,min=1,max=500"`
}

// FEFOAssignmentItem is one stock item to place in an FEFO run. A zero
// quantity means the item's full quantity.
type FEFOAssignmentItem struct {
	StockItemID uuid.UUID       `json:"stock_item_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// AssignLocationsFEFORequest represents an FEFO placement command
type AssignLocationsFEFORequest struct {
	TenantID   uuid.UUID            `json:"tenant_id"`
	StockItems []FEFOAssignmentItem `json:"stock_items" binding:"required,min=1,dive"`
}

// FEFOAssignmentResponse reports the outcome of one FEFO run
type FEFOAssignmentResponse struct {
	Assignments   []FEFOAssignmentResult `json:"assignments"`
	Unassigned    []uuid.UUID            `json:"unassigned"`
	Excluded      []uuid.UUID            `json:"excluded"`
	FullyAssigned bool                   `json:"fully_assigned"`
}

// FEFOAssignmentResult is one stock item to bin mapping
type FEFOAssignmentResult struct {
	StockItemID uuid.UUID       `json:"stock_item_id"`
	LocationID  uuid.UUID       `json:"location_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// LocationListFilter represents filter options for location lists
type LocationListFilter struct {
	Search   string     `form:"search"`
	Type     string     `form:"type" binding:"omitempty,oneof=WAREHOUSE ZONE AISLE RACK BIN"`
	Status   string     `form:"status" binding:"omitempty,oneof=AVAILABLE OCCUPIED RESERVED BLOCKED"`
	ParentID *uuid.UUID `form:"parent_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID               uuid.UUID               `json:"id"`
	TenantID         uuid.UUID               `json:"tenant_id"`
	ParentLocationID *uuid.UUID              `json:"parent_location_id,omitempty"`
	Code             string                  `json:"code,omitempty"`
	Name             string                  `json:"name,omitempty"`
	Barcode          string                  `json:"barcode"`
	Type             location.LocationType   `json:"type"`
	Coordinates      location.Coordinates    `json:"coordinates"`
	Status           location.LocationStatus `json:"status"`
	CurrentCapacity  decimal.Decimal         `json:"current_capacity"`
	MaxCapacity      decimal.Decimal         `json:"max_capacity"`
	Path             string                  `json:"path,omitempty"`
	Description      string                  `json:"description,omitempty"`
	BlockReason      string                  `json:"block_reason,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
	Version          int                     `json:"version"`
}

// LocationHierarchyNode is one node of the reconstructed location tree
type LocationHierarchyNode struct {
	LocationResponse
	Children []*LocationHierarchyNode `json:"children,omitempty"`
}

// ToLocationResponse maps a location aggregate to its response record
func ToLocationResponse(loc *location.Location) LocationResponse {
	return LocationResponse{
		ID:               loc.ID,
		TenantID:         loc.TenantID,
		ParentLocationID: loc.ParentLocationID,
		Code:             loc.Code,
		Name:             loc.Name,
		Barcode:          loc.Barcode,
		Type:             loc.Type,
		Coordinates:      loc.Coordinates,
		Status:           loc.Status,
		CurrentCapacity:  loc.CurrentCapacity,
		MaxCapacity:      loc.MaxCapacity,
		Description:      loc.Description,
		BlockReason:      loc.BlockReason,
		CreatedAt:        loc.CreatedAt,
		UpdatedAt:        loc.UpdatedAt,
		Version:          loc.Version,
	}
}

// ToLocationResponses maps a slice of locations
func ToLocationResponses(locations []location.Location) []LocationResponse {
	responses := make([]LocationResponse, len(locations))
	for i := range locations {
		responses[i] = ToLocationResponse(&locations[i])
	}
	return responses
}
