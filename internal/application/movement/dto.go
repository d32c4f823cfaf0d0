package movement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/movement"
)

// InitiateMovementRequest opens a two-phase stock movement. The stock item can
// be named directly, or left empty with a product ID so the handler resolves
// the item from the source location.
type InitiateMovementRequest struct {
	TenantID              uuid.UUID       `json:"tenant_id"`
	StockItemID           *uuid.UUID      `json:"stock_item_id"`
	ProductID             *uuid.UUID      `json:"product_id"`
	SourceLocationID      uuid.UUID       `json:"source_location_id" binding:"required"`
	DestinationLocationID uuid.UUID       `json:"destination_location_id" binding:"required"`
	Quantity              decimal.Decimal `json:"quantity" binding:"required"`
	MovementType          string          `json:"movement_type" binding:"omitempty,oneof=PUTAWAY TRANSFER PICK RETURN"`
	Reason                string          `json:"reason" binding:"omitempty,max=500"`
}

// CompleteMovementRequest applies the effects of a pending movement
type CompleteMovementRequest struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	MovementID uuid.UUID `json:"movement_id"`
}

// CancelMovementRequest abandons a pending movement
type CancelMovementRequest struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	MovementID uuid.UUID `json:"movement_id"`
	Reason     string    `json:"reason" binding:"required,min=1,max=500"`
}

// MovementListFilter represents filter options for movement lists
type MovementListFilter struct {
	StockItemID *uuid.UUID `form:"stock_item_id"`
	LocationID  *uuid.UUID `form:"location_id"`
	Status      string     `form:"status" binding:"omitempty,oneof=INITIATED COMPLETED CANCELLED"`
	StartDate   *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate     *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID                    uuid.UUID             `json:"id"`
	TenantID              uuid.UUID             `json:"tenant_id"`
	StockItemID           uuid.UUID             `json:"stock_item_id"`
	ProductID             uuid.UUID             `json:"product_id"`
	SourceLocationID      uuid.UUID             `json:"source_location_id"`
	DestinationLocationID uuid.UUID             `json:"destination_location_id"`
	Quantity              decimal.Decimal       `json:"quantity"`
	MovementType          movement.MovementType `json:"movement_type"`
	Reason                string                `json:"reason,omitempty"`
	Status                movement.MovementStatus `json:"status"`
	InitiatedBy           *uuid.UUID            `json:"initiated_by,omitempty"`
	InitiatedAt           time.Time             `json:"initiated_at"`
	CompletedAt           *time.Time            `json:"completed_at,omitempty"`
	CancelledAt           *time.Time            `json:"cancelled_at,omitempty"`
	CancellationReason    string                `json:"cancellation_reason,omitempty"`
	Version               int                   `json:"version"`
}

// ToMovementResponse maps a movement aggregate to its response record
func ToMovementResponse(m *movement.StockMovement) MovementResponse {
	return MovementResponse{
		ID:                    m.ID,
		TenantID:              m.TenantID,
		StockItemID:           m.StockItemID,
		ProductID:             m.ProductID,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Quantity:              m.Quantity,
		MovementType:          m.MovementType,
		Reason:                m.Reason,
		Status:                m.Status,
		InitiatedBy:           m.InitiatedBy,
		InitiatedAt:           m.InitiatedAt,
		CompletedAt:           m.CompletedAt,
		CancelledAt:           m.CancelledAt,
		CancellationReason:    m.CancellationReason,
		Version:               m.Version,
	}
}

// ToMovementResponses maps a slice of movements
func ToMovementResponses(movements []movement.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}
