package restock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RestockOrder is the payload handed to the ERP when a request is sent
type RestockOrder struct {
	RequestID  uuid.UUID
	TenantID   uuid.UUID
	ProductID  uuid.UUID
	LocationID *uuid.UUID
	Quantity   decimal.Decimal
	Priority   RestockPriority
}

// ERPGateway submits restock orders to the ERP system. Implementations return
// the order reference assigned by the ERP; a failed submission leaves the
// request untouched so it can be retried.
type ERPGateway interface {
	SubmitRestockOrder(ctx context.Context, order RestockOrder) (orderReference string, err error)
}
