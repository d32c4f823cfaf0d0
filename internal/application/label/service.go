// Package label renders printable barcode label sheets for storage
// locations. Operators stick the labels on racks and bins and scan them
// during putaway, picking and movements.
package label

import (
	"context"
	"fmt"
	"time"

	"github.com/warehub/backend/internal/application/security"
	"github.com/warehub/backend/internal/domain/location"
	"github.com/warehub/backend/internal/domain/shared"
	"github.com/warehub/backend/internal/infrastructure/logger"
	"github.com/warehub/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxLabelsPerSheet bounds one render request. Larger batches should be
// split client-side; headless Chrome memory grows with page count.
const MaxLabelsPerSheet = 100

// RenderLabelsRequest asks for a label sheet covering a set of locations
type RenderLabelsRequest struct {
	TenantID    uuid.UUID   `json:"tenant_id"`
	LocationIDs []uuid.UUID `json:"location_ids" binding:"required,min=1,max=100"`
	PaperSize   string      `json:"paper_size" binding:"omitempty,oneof=A4 LETTER LABEL_100X50"`
}

// LabelSheet is a rendered PDF label sheet
type LabelSheet struct {
	PDF       []byte
	PageCount int
	Filename  string
}

// Service renders location label sheets through the PDF pipeline
type Service struct {
	locationRepo location.LocationRepository
	engine       *printing.TemplateEngine
	renderer     printing.PDFRenderer
	now          func() time.Time
}

// NewService creates a new label Service
func NewService(locationRepo location.LocationRepository, engine *printing.TemplateEngine, renderer printing.PDFRenderer) *Service {
	return &Service{
		locationRepo: locationRepo,
		engine:       engine,
		renderer:     renderer,
		now:          time.Now,
	}
}

// SetClock overrides the time source, used by tests
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// RenderLocationLabels renders one barcode label per requested location.
// Every requested ID must resolve inside the caller's tenant.
func (s *Service) RenderLocationLabels(ctx context.Context, req RenderLabelsRequest) (*LabelSheet, error) {
	sc, err := security.RequireTenant(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	if len(req.LocationIDs) == 0 {
		return nil, shared.NewDomainError("NO_LOCATIONS", "At least one location is required")
	}
	if len(req.LocationIDs) > MaxLabelsPerSheet {
		return nil, shared.NewDomainError("TOO_MANY_LABELS",
			fmt.Sprintf("A label sheet covers at most %d locations", MaxLabelsPerSheet))
	}

	locations, err := s.locationRepo.FindByIDs(ctx, sc.TenantID, req.LocationIDs)
	if err != nil {
		return nil, err
	}
	if len(locations) != len(req.LocationIDs) {
		return nil, shared.ErrNotFound
	}

	data := printing.LabelSheetData{
		GeneratedAt: s.now().UTC(),
		Labels:      make([]printing.LocationLabel, 0, len(locations)),
	}
	for i := range locations {
		data.Labels = append(data.Labels, toLabel(&locations[i]))
	}

	html, err := s.engine.RenderString(ctx, "location-labels", printing.LocationLabelTemplate, data)
	if err != nil {
		return nil, err
	}

	paperSize := printing.PaperSizeA4
	if req.PaperSize != "" {
		paperSize = printing.PaperSize(req.PaperSize)
	}
	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:      html,
		PaperSize: paperSize,
		Title:     "Location Labels",
	})
	if err != nil {
		logger.L(ctx).Error("label rendering failed",
			zap.String("tenant_id", sc.TenantID.String()),
			zap.Int("labels", len(locations)),
			zap.Error(err))
		return nil, shared.ErrExternalService
	}

	return &LabelSheet{
		PDF:       result.PDFData,
		PageCount: result.PageCount,
		Filename:  fmt.Sprintf("location-labels-%s.pdf", s.now().UTC().Format("20060102-150405")),
	}, nil
}

// toLabel projects a location onto its printable label fields
func toLabel(loc *location.Location) printing.LocationLabel {
	return printing.LocationLabel{
		Code:    loc.Code,
		Name:    loc.Name,
		Barcode: loc.Barcode,
		Type:    string(loc.Type),
		Zone:    loc.Coordinates.Zone,
		Aisle:   loc.Coordinates.Aisle,
		Rack:    loc.Coordinates.Rack,
		Level:   loc.Coordinates.Level,
	}
}
