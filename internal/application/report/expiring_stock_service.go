// Package report builds the daily expiring stock report and runs the
// reclassification sweep that keeps stored expiration labels honest.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warehub/backend/internal/application/security"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/domain/stock"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// DefaultExpiryWindowDays is the look-ahead of the expiring stock report,
// matching the NEAR_EXPIRY classification window.
const DefaultExpiryWindowDays = 30

// reportPageSize caps how many items one repository page carries while the
// report walks a tenant's stock.
const reportPageSize = 500

// ExpiringStockItem is one line of the expiring stock report
type ExpiringStockItem struct {
	StockItemID    string  `json:"stock_item_id"`
	ProductID      string  `json:"product_id"`
	LocationID     *string `json:"location_id,omitempty"`
	Quantity       string  `json:"quantity"`
	Allocated      string  `json:"allocated_quantity"`
	ExpirationDate string  `json:"expiration_date"`
	Classification string  `json:"classification"`
	DaysUntil      int     `json:"days_until_expiration"`
}

// ExpiringStockReport is the archived report document
type ExpiringStockReport struct {
	TenantID      string              `json:"tenant_id"`
	ReportDate    string              `json:"report_date"`
	GeneratedAt   time.Time           `json:"generated_at"`
	WindowDays    int                 `json:"window_days"`
	ExpiredCount  int                 `json:"expired_count"`
	ExpiringCount int                 `json:"expiring_count"`
	Expired       []ExpiringStockItem `json:"expired"`
	Expiring      []ExpiringStockItem `json:"expiring"`
}

// ReportSummary describes a generated and archived report
type ReportSummary struct {
	Key           string    `json:"key"`
	ReportDate    string    `json:"report_date"`
	GeneratedAt   time.Time `json:"generated_at"`
	ExpiredCount  int       `json:"expired_count"`
	ExpiringCount int       `json:"expiring_count"`
	DownloadURL   string    `json:"download_url,omitempty"`
}

// ExpiringStockReportService builds the daily expiring stock report and
// archives it to object storage.
type ExpiringStockReportService struct {
	stockRepo  stock.StockItemRepository
	archive    ReportArchive
	windowDays int
	now        func() time.Time
}

// NewExpiringStockReportService creates a new ExpiringStockReportService
func NewExpiringStockReportService(stockRepo stock.StockItemRepository, archive ReportArchive) *ExpiringStockReportService {
	return &ExpiringStockReportService{
		stockRepo:  stockRepo,
		archive:    archive,
		windowDays: DefaultExpiryWindowDays,
		now:        time.Now,
	}
}

// SetClock overrides the time source, used by tests
func (s *ExpiringStockReportService) SetClock(now func() time.Time) {
	s.now = now
}

// Generate builds the report for a tenant and uploads it to the archive
func (s *ExpiringStockReportService) Generate(ctx context.Context, tenantID uuid.UUID) (*ReportSummary, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	today := s.now().UTC()
	filter := shared.Filter{Page: 1, PageSize: reportPageSize, OrderBy: "expiration_date", OrderDir: "asc"}

	expired, err := s.collect(ctx, sc.TenantID, filter, s.stockRepo.FindExpired, today)
	if err != nil {
		return nil, err
	}
	expiring, err := s.collect(ctx, sc.TenantID, filter, func(ctx context.Context, tenantID uuid.UUID, f shared.Filter) ([]stock.StockItem, error) {
		return s.stockRepo.FindExpiringWithin(ctx, tenantID, s.windowDays, f)
	}, today)
	if err != nil {
		return nil, err
	}

	reportDate := today.Format("2006-01-02")
	doc := ExpiringStockReport{
		TenantID:      sc.TenantID.String(),
		ReportDate:    reportDate,
		GeneratedAt:   today,
		WindowDays:    s.windowDays,
		ExpiredCount:  len(expired),
		ExpiringCount: len(expiring),
		Expired:       expired,
		Expiring:      expiring,
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode expiring stock report: %w", err)
	}

	key := ReportKey(sc.TenantID, today)
	if err := s.archive.Store(ctx, key, body, "application/json"); err != nil {
		return nil, fmt.Errorf("failed to archive expiring stock report: %w", err)
	}

	logger.L(ctx).Info("expiring stock report archived",
		zap.String("key", key),
		zap.Int("expired", len(expired)),
		zap.Int("expiring", len(expiring)),
	)

	return &ReportSummary{
		Key:           key,
		ReportDate:    reportDate,
		GeneratedAt:   today,
		ExpiredCount:  len(expired),
		ExpiringCount: len(expiring),
	}, nil
}

// DownloadURL returns a presigned URL for an archived report
func (s *ExpiringStockReportService) DownloadURL(ctx context.Context, tenantID uuid.UUID, reportDate time.Time, expiresIn time.Duration) (string, time.Time, error) {
	sc, err := security.RequireTenant(ctx, tenantID)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.archive.DownloadURL(ctx, ReportKey(sc.TenantID, reportDate), expiresIn)
}

// collect pages through a repository finder and maps the rows to report lines
func (s *ExpiringStockReportService) collect(
	ctx context.Context,
	tenantID uuid.UUID,
	filter shared.Filter,
	find func(context.Context, uuid.UUID, shared.Filter) ([]stock.StockItem, error),
	today time.Time,
) ([]ExpiringStockItem, error) {
	lines := make([]ExpiringStockItem, 0)
	for {
		items, err := find(ctx, tenantID, filter)
		if err != nil {
			return nil, err
		}
		for i := range items {
			lines = append(lines, toReportItem(&items[i], today))
		}
		if len(items) < filter.PageSize {
			return lines, nil
		}
		filter.Page++
	}
}

func toReportItem(item *stock.StockItem, today time.Time) ExpiringStockItem {
	line := ExpiringStockItem{
		StockItemID:    item.ID.String(),
		ProductID:      item.ProductID.String(),
		Quantity:       item.Quantity.String(),
		Allocated:      item.AllocatedQuantity.String(),
		Classification: string(item.Classification),
	}
	if item.LocationID != nil {
		loc := item.LocationID.String()
		line.LocationID = &loc
	}
	if item.ExpirationDate != nil {
		line.ExpirationDate = item.ExpirationDate.Format("2006-01-02")
		line.DaysUntil = stock.DaysUntil(*item.ExpirationDate, today)
	}
	return line
}

// ReportKey is the archive key of a tenant's report for a given day
func ReportKey(tenantID uuid.UUID, reportDate time.Time) string {
	return fmt.Sprintf("reports/%s/expiring-stock/%s.json", tenantID, reportDate.UTC().Format("2006-01-02"))
}
