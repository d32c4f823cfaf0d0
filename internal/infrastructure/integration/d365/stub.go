package d365

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/domain/stock"
)

// StubGateway fakes the ERP hand-off for development and tests. It assigns a
// locally generated order reference so the rest of the restock lifecycle can
// run without a D365 instance.
type StubGateway struct{}

// NewStubGateway creates a StubGateway
func NewStubGateway() *StubGateway {
	return &StubGateway{}
}

// SubmitRestockOrder returns a generated order reference
func (s *StubGateway) SubmitRestockOrder(ctx context.Context, order restock.RestockOrder) (string, error) {
	ref := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:12]
	return fmt.Sprintf("D365-STUB-%s", ref), nil
}

// Ensure StubGateway implements restock.ERPGateway
var _ restock.ERPGateway = (*StubGateway)(nil)

// StubCatalog fakes the product catalog for development and tests. It knows
// no products, so stock queries serve bare stock data.
type StubCatalog struct{}

// NewStubCatalog creates a StubCatalog
func NewStubCatalog() *StubCatalog {
	return &StubCatalog{}
}

// GetProduct reports every product as unknown
func (s *StubCatalog) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*stock.ProductMetadata, error) {
	return nil, nil
}

// GetProducts reports every product as unknown
func (s *StubCatalog) GetProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*stock.ProductMetadata, error) {
	return map[uuid.UUID]*stock.ProductMetadata{}, nil
}

// Ensure StubCatalog implements stock.ProductCatalog
var _ stock.ProductCatalog = (*StubCatalog)(nil)
