package restock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/restock"
)

// CancelRestockRequest abandons a not-yet-fulfilled request
type CancelRestockRequest struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	RequestID uuid.UUID `json:"request_id"`
}

// SendRestockRequest hands a pending request to the ERP
type SendRestockRequest struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	RequestID uuid.UUID `json:"request_id"`
}

// FulfillRestockRequest closes a sent request once the delivery arrived. The
// request can be named by ID or by the ERP order reference.
type FulfillRestockRequest struct {
	TenantID       uuid.UUID  `json:"tenant_id"`
	RequestID      *uuid.UUID `json:"request_id"`
	OrderReference string     `json:"order_reference" binding:"omitempty,max=100"`
}

// RestockListFilter represents filter options for restock request lists
type RestockListFilter struct {
	ProductID *uuid.UUID `form:"product_id"`
	Status    string     `form:"status" binding:"omitempty,oneof=PENDING SENT_TO_D365 FULFILLED CANCELLED"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// RestockResponse represents a restock request in API responses
type RestockResponse struct {
	ID                uuid.UUID               `json:"id"`
	TenantID          uuid.UUID               `json:"tenant_id"`
	ProductID         uuid.UUID               `json:"product_id"`
	LocationID        *uuid.UUID              `json:"location_id,omitempty"`
	CurrentQuantity   decimal.Decimal         `json:"current_quantity"`
	MinimumQuantity   decimal.Decimal         `json:"minimum_quantity"`
	MaximumQuantity   decimal.Decimal         `json:"maximum_quantity"`
	RequestedQuantity decimal.Decimal         `json:"requested_quantity"`
	Priority          restock.RestockPriority `json:"priority"`
	Status            restock.RestockStatus   `json:"status"`
	SentAt            *time.Time              `json:"sent_at,omitempty"`
	OrderReference    string                  `json:"order_reference,omitempty"`
	FulfilledAt       *time.Time              `json:"fulfilled_at,omitempty"`
	CancelledAt       *time.Time              `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Version           int                     `json:"version"`
}

// ToRestockResponse maps a restock request aggregate to its response record
func ToRestockResponse(r *restock.RestockRequest) RestockResponse {
	return RestockResponse{
		ID:                r.ID,
		TenantID:          r.TenantID,
		ProductID:         r.ProductID,
		LocationID:        r.LocationID,
		CurrentQuantity:   r.CurrentQuantity,
		MinimumQuantity:   r.MinimumQuantity,
		MaximumQuantity:   r.MaximumQuantity,
		RequestedQuantity: r.RequestedQuantity,
		Priority:          r.Priority,
		Status:            r.Status,
		SentAt:            r.SentAt,
		OrderReference:    r.OrderReference,
		FulfilledAt:       r.FulfilledAt,
		CancelledAt:       r.CancelledAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Version:           r.Version,
	}
}

// ToRestockResponses maps a slice of restock requests
func ToRestockResponses(requests []restock.RestockRequest) []RestockResponse {
	responses := make([]RestockResponse, len(requests))
	for i := range requests {
		responses[i] = ToRestockResponse(&requests[i])
	}
	return responses
}
