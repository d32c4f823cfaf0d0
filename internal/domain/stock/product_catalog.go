package stock

import (
	"context"

	"github.com/google/uuid"
)

// ProductMetadata describes a product as the external catalog knows it.
// Stock items reference products by ID only; descriptive fields live in the
// catalog system of record.
type ProductMetadata struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	Unit      string
}

// ProductCatalog resolves product metadata for read-side enrichment.
// A product the catalog does not know is a nil entry, not an error. Lookup
// failures must never fail a stock query; callers degrade to bare stock data.
type ProductCatalog interface {
	GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*ProductMetadata, error)
	GetProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*ProductMetadata, error)
}
