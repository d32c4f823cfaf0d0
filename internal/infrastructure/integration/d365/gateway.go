// Package d365 submits restock orders to Dynamics 365 over its REST surface.
package d365

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/warehub/backend/internal/domain/restock"
	"github.com/warehub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the D365 API (1MB)
const maxResponseSize = 1 * 1024 * 1024

var (
	// ErrEmptyOrderReference indicates D365 accepted the order but returned no reference
	ErrEmptyOrderReference = errors.New("d365: response carried no order reference")
)

// Gateway implements restock.ERPGateway against the D365 purchase order API.
// Submission failures are returned as-is; the caller decides whether the
// request stays pending for a retry.
type Gateway struct {
	baseURL    string
	apiKey     string
	maxRetries int
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Gateway
type Option func(*Gateway)

// WithHTTPClient overrides the HTTP client, used by tests
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) { g.httpClient = client }
}

// WithLogger sets the gateway logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// NewGateway creates a Gateway from configuration
func NewGateway(cfg config.D365Config, opts ...Option) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("d365: base URL is required")
	}
	g := &Gateway{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxRetries <= 0 {
		g.maxRetries = 1
	}
	return g, nil
}

// restockOrderPayload is the wire form of a restock order submission
type restockOrderPayload struct {
	RequestID  string  `json:"request_id"`
	TenantID   string  `json:"tenant_id"`
	ProductID  string  `json:"product_id"`
	LocationID *string `json:"location_id,omitempty"`
	Quantity   string  `json:"quantity"`
	Priority   string  `json:"priority"`
}

// restockOrderResult is the wire form of the D365 acknowledgement
type restockOrderResult struct {
	OrderReference string `json:"order_reference"`
}

// SubmitRestockOrder posts the order to D365 and returns the order reference
// it assigned. Server errors and transport failures are retried with a short
// backoff; client errors are not.
func (g *Gateway) SubmitRestockOrder(ctx context.Context, order restock.RestockOrder) (string, error) {
	payload := restockOrderPayload{
		RequestID: order.RequestID.String(),
		TenantID:  order.TenantID.String(),
		ProductID: order.ProductID.String(),
		Quantity:  order.Quantity.String(),
		Priority:  order.Priority.String(),
	}
	if order.LocationID != nil {
		loc := order.LocationID.String()
		payload.LocationID = &loc
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("d365: failed to encode restock order: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt-1) * 500 * time.Millisecond):
			}
		}

		reference, retryable, err := g.submit(ctx, body)
		if err == nil {
			return reference, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		g.logger.Warn("d365 restock order submission failed",
			zap.String("request_id", payload.RequestID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return "", lastErr
}

// submit performs a single POST. The second return value reports whether the
// failure is worth retrying.
func (g *Gateway) submit(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/restock-orders", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("d365: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("d365: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", true, fmt.Errorf("d365: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var result restockOrderResult
		if err := json.Unmarshal(respBody, &result); err != nil {
			return "", false, fmt.Errorf("d365: failed to decode response: %w", err)
		}
		if strings.TrimSpace(result.OrderReference) == "" {
			return "", false, ErrEmptyOrderReference
		}
		return result.OrderReference, false, nil
	case resp.StatusCode >= 500:
		return "", true, fmt.Errorf("d365: server error %d", resp.StatusCode)
	default:
		return "", false, fmt.Errorf("d365: rejected with status %d", resp.StatusCode)
	}
}

// Ensure Gateway implements restock.ERPGateway
var _ restock.ERPGateway = (*Gateway)(nil)
