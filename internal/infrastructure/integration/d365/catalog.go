package d365

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/domain/stock"
	"github.com/warehub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Catalog implements stock.ProductCatalog against the D365 product API.
// Lookups are best effort: a product D365 does not know resolves to nil, and
// transport failures surface as errors for the caller to degrade on.
type Catalog struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// CatalogOption configures a Catalog
type CatalogOption func(*Catalog)

// WithCatalogHTTPClient overrides the HTTP client, used by tests
func WithCatalogHTTPClient(client *http.Client) CatalogOption {
	return func(c *Catalog) { c.httpClient = client }
}

// WithCatalogLogger sets the catalog logger
func WithCatalogLogger(logger *zap.Logger) CatalogOption {
	return func(c *Catalog) { c.logger = logger }
}

// NewCatalog creates a Catalog from configuration
func NewCatalog(cfg config.D365Config, opts ...CatalogOption) (*Catalog, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("d365: base URL is required")
	}
	c := &Catalog{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// productPayload is the wire form of a D365 product record
type productPayload struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Unit      string `json:"unit"`
}

// GetProduct fetches one product. An unknown product is nil, not an error.
func (c *Catalog) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*stock.ProductMetadata, error) {
	url := fmt.Sprintf("%s/api/products/%s?tenant_id=%s", c.baseURL, productID, tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("d365: failed to build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("d365: product lookup failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("d365: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var payload productPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("d365: failed to decode product: %w", err)
		}
		return &stock.ProductMetadata{
			ProductID: productID,
			SKU:       payload.SKU,
			Name:      payload.Name,
			Unit:      payload.Unit,
		}, nil
	default:
		return nil, fmt.Errorf("d365: product lookup rejected with status %d", resp.StatusCode)
	}
}

// GetProducts fetches several products. Unknown products are simply absent
// from the result; the first transport failure aborts the batch.
func (c *Catalog) GetProducts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]*stock.ProductMetadata, error) {
	out := make(map[uuid.UUID]*stock.ProductMetadata, len(productIDs))
	for _, id := range productIDs {
		meta, err := c.GetProduct(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if meta != nil {
			out[id] = meta
		}
	}
	return out, nil
}

// Ensure Catalog implements stock.ProductCatalog
var _ stock.ProductCatalog = (*Catalog)(nil)
